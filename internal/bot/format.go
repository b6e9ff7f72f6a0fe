package bot

import "fmt"

// formatPriceKopeks выводит цену в рублях: 7920 -> "79.20 ₽"
func formatPriceKopeks(kopeks int) string {
	return fmt.Sprintf("%d.%02d ₽", kopeks/100, kopeks%100)
}

// formatTraffic выводит лимит трафика, 0 — безлимит
func formatTraffic(gb int) string {
	if gb <= 0 {
		return "Безлимит"
	}
	return fmt.Sprintf("%d ГБ", gb)
}

// formatPeriod склоняет период в днях: 1 день, 3 дня, 30 дней
func formatPeriod(days int) string {
	return fmt.Sprintf("%d %s", days, dayWord(days))
}

func dayWord(days int) string {
	if days < 0 {
		days = -days
	}
	switch {
	case days%100 >= 11 && days%100 <= 14:
		return "дней"
	case days%10 == 1:
		return "день"
	case days%10 >= 2 && days%10 <= 4:
		return "дня"
	default:
		return "дней"
	}
}
