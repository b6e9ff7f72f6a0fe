package pricing

import "time"

// Цикл списания нормализован к 30 дням.
const cycleDays = 30

// ProratedPrice рассчитывает стоимость добавления ресурса с помесячной
// ценой monthlyKopeks при частично израсходованном цикле подписки.
// Неполные дни округляются вверх в пользу сервиса, итоговая цена —
// вверх до целой копейки. Если подписка уже истекла, списывается
// полный цикл. Возвращает (цена, количество оплаченных месяцев).
func ProratedPrice(monthlyKopeks int, endDate, now time.Time) (priceKopeks, months int) {
	if monthlyKopeks <= 0 {
		return 0, 1
	}
	remaining := endDate.Sub(now)
	if remaining <= 0 {
		return monthlyKopeks, 1
	}
	days := int(remaining.Hours() / 24)
	if remaining%(24*time.Hour) != 0 {
		days++
	}
	months = (days + cycleDays - 1) / cycleDays
	priceKopeks = (monthlyKopeks*days + cycleDays - 1) / cycleDays
	return priceKopeks, months
}
