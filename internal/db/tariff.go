package db

import (
	"errors"
	"strconv"

	"gorm.io/gorm"
)

var ErrTariffNotFound = errors.New("tariff not found")

// NormalizePeriodPrices отбрасывает некорректные записи таблицы цен:
// период должен быть положительным, цена неотрицательной.
func NormalizePeriodPrices(prices map[string]int) map[string]int {
	normalized := make(map[string]int)
	for key, price := range prices {
		period, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if period > 0 && price >= 0 {
			normalized[strconv.Itoa(period)] = price
		}
	}
	return normalized
}

func GetTariffByID(id uint) (*Tariff, error) {
	var tariff Tariff
	err := DB.Preload("AllowedPromoGroups").First(&tariff, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTariffNotFound
		}
		return nil, err
	}
	return &tariff, nil
}

// GetTariffsForUser возвращает активные тарифы, доступные промогруппе пользователя.
// Тариф без ограничений по промогруппам доступен всем.
func GetTariffsForUser(promoGroupID *uint) ([]Tariff, error) {
	var tariffs []Tariff
	err := DB.Preload("AllowedPromoGroups").
		Where("is_active = true").
		Order("display_order, id").
		Find(&tariffs).Error
	if err != nil {
		return nil, err
	}
	available := tariffs[:0]
	for _, t := range tariffs {
		if t.AvailableFor(promoGroupID) {
			available = append(available, t)
		}
	}
	return available, nil
}

func GetAllTariffs(includeInactive bool) ([]Tariff, error) {
	var tariffs []Tariff
	q := DB.Preload("AllowedPromoGroups").Order("display_order, id")
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	return tariffs, q.Find(&tariffs).Error
}

func CreateTariff(tariff *Tariff) error {
	tariff.PeriodPrices = NormalizePeriodPrices(tariff.PeriodPrices)
	if tariff.DeviceLimit < 1 {
		tariff.DeviceLimit = 1
	}
	if tariff.TierLevel < 1 {
		tariff.TierLevel = 1
	}
	return DB.Create(tariff).Error
}

// ReplaceTariffPrices полностью заменяет таблицу цен тарифа.
func ReplaceTariffPrices(tariff *Tariff, prices map[string]int) error {
	return DB.Model(tariff).Update("period_prices", NormalizePeriodPrices(prices)).Error
}

func SetTariffActive(tariff *Tariff, active bool) error {
	return DB.Model(tariff).Update("is_active", active).Error
}

// DeleteTariff удаляет тариф. Подписки на него получают tariff_id = NULL.
func DeleteTariff(tariff *Tariff) (affected int, err error) {
	err = DB.Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&Subscription{}).Where("tariff_id = ?", tariff.ID).Update("tariff_id", nil)
		if res.Error != nil {
			return res.Error
		}
		affected = int(res.RowsAffected)
		return tx.Delete(tariff).Error
	})
	return affected, err
}

// GetTrialTariff возвращает активный тариф с флагом триала.
func GetTrialTariff() (*Tariff, error) {
	var tariff Tariff
	err := DB.Where("is_trial_available = true AND is_active = true").First(&tariff).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTariffNotFound
		}
		return nil, err
	}
	return &tariff, nil
}

// SetTrialTariff делает тариф триальным, снимая флаг с остальных.
func SetTrialTariff(tariffID uint) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&Tariff{}).Where("is_trial_available = true").
			Update("is_trial_available", false).Error; err != nil {
			return err
		}
		return tx.Model(&Tariff{}).Where("id = ?", tariffID).
			Update("is_trial_available", true).Error
	})
}

func CountTariffSubscriptions(tariffID uint) int {
	var count int64
	DB.Model(&Subscription{}).Where("tariff_id = ?", tariffID).Count(&count)
	return int(count)
}
