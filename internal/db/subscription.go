package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var ErrSubscriptionNotFound = errors.New("subscription not found")

func GetSubscriptionByUserID(userID uint) (*Subscription, error) {
	var sub Subscription
	err := DB.Where("user_id = ?", userID).First(&sub).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubscriptionNotFound
		}
		return nil, err
	}
	return &sub, nil
}

// CreatePaidSubscription создаёт новую платную подписку с параметрами тарифа.
func CreatePaidSubscription(userID uint, days int, tariff *Tariff) (*Subscription, error) {
	tariffID := tariff.ID
	sub := Subscription{
		UserID:          userID,
		TariffID:        &tariffID,
		Status:          SubscriptionActive,
		EndDate:         time.Now().UTC().AddDate(0, 0, days),
		TrafficLimitGB:  tariff.TrafficLimitGB,
		DeviceLimit:     tariff.DeviceLimit,
		ConnectedSquads: tariff.AllowedSquads,
	}
	if err := DB.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// CreateTrialSubscription создаёт триальную подписку на days дней.
func CreateTrialSubscription(userID uint, days int, tariff *Tariff) (*Subscription, error) {
	tariffID := tariff.ID
	sub := Subscription{
		UserID:          userID,
		TariffID:        &tariffID,
		Status:          SubscriptionActive,
		IsTrial:         true,
		EndDate:         time.Now().UTC().AddDate(0, 0, days),
		TrafficLimitGB:  tariff.TrafficLimitGB,
		DeviceLimit:     tariff.DeviceLimit,
		ConnectedSquads: tariff.AllowedSquads,
	}
	if err := DB.Create(&sub).Error; err != nil {
		return nil, err
	}
	return &sub, nil
}

// ExtendSubscription добавляет дни к подписке. Если tariff не nil,
// дополнительно применяются параметры нового тарифа (трафик, устройства,
// список сквадов). Просроченная подписка продлевается от текущего момента.
func ExtendSubscription(sub *Subscription, days int, tariff *Tariff) (*Subscription, error) {
	now := time.Now().UTC()
	base := sub.EndDate
	if base.Before(now) {
		base = now
	}
	updates := map[string]interface{}{
		"end_date": base.AddDate(0, 0, days),
		"status":   SubscriptionActive,
		"is_trial": false,
	}
	if tariff != nil {
		updates["tariff_id"] = tariff.ID
		updates["traffic_limit_gb"] = tariff.TrafficLimitGB
		updates["device_limit"] = tariff.DeviceLimit
	}
	if err := DB.Model(sub).Updates(updates).Error; err != nil {
		return nil, err
	}
	if tariff != nil {
		sub.ConnectedSquads = tariff.AllowedSquads
		if err := DB.Model(sub).Update("connected_squads", tariff.AllowedSquads).Error; err != nil {
			return nil, err
		}
	}
	return sub, nil
}

// SetDeviceLimit изменяет лимит устройств подписки.
func SetDeviceLimit(sub *Subscription, limit int) error {
	sub.DeviceLimit = limit
	return DB.Model(sub).Update("device_limit", limit).Error
}

// SetSubscriptionURL сохраняет ссылку подписки, выданную панелью.
func SetSubscriptionURL(sub *Subscription, url string) error {
	sub.SubscriptionURL = url
	return DB.Model(sub).Update("subscription_url", url).Error
}

// SetConnectedSquads заменяет список подключённых сквадов подписки.
func SetConnectedSquads(sub *Subscription, squads []string) error {
	sub.ConnectedSquads = squads
	return DB.Model(sub).Update("connected_squads", squads).Error
}

// ExpireSubscriptions помечает просроченные активные подписки и возвращает их.
func ExpireSubscriptions(now time.Time) ([]Subscription, error) {
	var subs []Subscription
	err := DB.Where("status = ? AND end_date < ?", SubscriptionActive, now).Find(&subs).Error
	if err != nil {
		return nil, err
	}
	for i := range subs {
		if err := DB.Model(&subs[i]).Update("status", SubscriptionExpired).Error; err != nil {
			return nil, err
		}
	}
	return subs, nil
}

// GetExpiringSubscriptions возвращает активные подписки, истекающие в пределах daysBefore дней.
func GetExpiringSubscriptions(now time.Time, daysBefore int) ([]Subscription, error) {
	var subs []Subscription
	soon := now.AddDate(0, 0, daysBefore)
	err := DB.Where("status = ? AND end_date > ? AND end_date <= ?", SubscriptionActive, now, soon).Find(&subs).Error
	return subs, err
}

func CountActiveSubscriptions() int {
	var count int64
	DB.Model(&Subscription{}).Where("status = ?", SubscriptionActive).Count(&count)
	return int(count)
}
