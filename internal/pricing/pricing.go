// Package pricing содержит чистые функции расчёта цен подписки:
// разрешение скидок, таблица цен тарифа и пропорциональное списание.
package pricing

import (
	"strconv"
	"time"

	"VPN-Shop-bot/internal/db"
)

// ResolveDiscount возвращает действующий процент скидки пользователя для
// категории и периода. Источники не суммируются: сначала проверяется
// промогруппа; только если она даёт 0, берётся активная персональная
// скидка промо-оффера. Результат всегда в диапазоне [0,100].
func ResolveDiscount(user *db.User, category string, periodDays int, now time.Time) int {
	if user == nil {
		return 0
	}
	if discount := user.PromoGroup.GetDiscountPercent(category, periodDays); discount > 0 {
		return discount
	}
	if user.HasActiveOfferDiscount(now) {
		return clampPercent(user.OfferDiscountPercent)
	}
	return 0
}

// ApplyDiscount применяет процентную скидку к цене в копейках:
// price − ⌊price·percent/100⌋, не меньше нуля.
func ApplyDiscount(priceKopeks, percent int) int {
	if percent <= 0 {
		return priceKopeks
	}
	if percent > 100 {
		percent = 100
	}
	discount := priceKopeks * percent / 100
	if discount >= priceKopeks {
		return 0
	}
	return priceKopeks - discount
}

// PriceForPeriod возвращает базовую цену тарифа для периода в днях.
// ok=false, если тариф не предлагает такой период.
func PriceForPeriod(tariff *db.Tariff, periodDays int) (int, bool) {
	if tariff == nil || periodDays <= 0 {
		return 0, false
	}
	price, ok := tariff.PeriodPrices[strconv.Itoa(periodDays)]
	if !ok || price < 0 {
		return 0, false
	}
	return price, true
}

// Periods возвращает предлагаемые тарифом периоды по возрастанию.
func Periods(tariff *db.Tariff) []int {
	periods := make([]int, 0, len(tariff.PeriodPrices))
	for key := range tariff.PeriodPrices {
		if days, err := strconv.Atoi(key); err == nil && days > 0 {
			periods = append(periods, days)
		}
	}
	for i := 1; i < len(periods); i++ {
		for j := i; j > 0 && periods[j-1] > periods[j]; j-- {
			periods[j-1], periods[j] = periods[j], periods[j-1]
		}
	}
	return periods
}

func clampPercent(p int) int {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}
