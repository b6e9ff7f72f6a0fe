package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
	"VPN-Shop-bot/internal/remnawave"
)

var (
	ErrTrialUnavailable = errors.New("trial is not available")
	ErrTrialUsed        = errors.New("trial already used")
)

// TrialService выдаёт пробные подписки на триальный тариф.
type TrialService struct {
	Panel *remnawave.Client
	// Длительность по умолчанию, если тариф не задаёт свою
	DefaultDurationDays int
}

// Activate выдаёт пользователю пробную подписку. Доступно один раз и
// только пользователям без подписки.
func (t *TrialService) Activate(ctx context.Context, user *db.User) (*db.Subscription, error) {
	if _, err := db.GetSubscriptionByUserID(user.ID); err == nil {
		return nil, ErrTrialUsed
	} else if !errors.Is(err, db.ErrSubscriptionNotFound) {
		return nil, err
	}

	tariff, err := db.GetTrialTariff()
	if err != nil {
		if errors.Is(err, db.ErrTariffNotFound) {
			return nil, ErrTrialUnavailable
		}
		return nil, err
	}

	days := t.DefaultDurationDays
	if tariff.TrialDurationDays != nil && *tariff.TrialDurationDays > 0 {
		days = *tariff.TrialDurationDays
	}
	if days <= 0 {
		return nil, ErrTrialUnavailable
	}

	sub, err := db.CreateTrialSubscription(user.ID, days, tariff)
	if err != nil {
		return nil, err
	}

	if t.Panel != nil {
		syncCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
		defer cancel()
		if err := t.Panel.SyncUser(syncCtx, user, sub, false, "trial"); err != nil {
			logger.NotifyAdmin(fmt.Sprintf("Триал пользователя %d не синхронизирован с панелью: %v", user.ID, err))
		}
	}
	logger.Info(fmt.Sprintf("Выдан триал пользователю %d на %d дн.", user.ID, days))
	return sub, nil
}
