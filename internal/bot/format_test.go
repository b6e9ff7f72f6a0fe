package bot

import "testing"

func TestFormatPriceKopeks(t *testing.T) {
	tests := []struct {
		kopeks int
		want   string
	}{
		{9900, "99.00 ₽"},
		{7920, "79.20 ₽"},
		{5, "0.05 ₽"},
		{0, "0.00 ₽"},
	}
	for _, tt := range tests {
		if got := formatPriceKopeks(tt.kopeks); got != tt.want {
			t.Errorf("formatPriceKopeks(%d) = %q, want %q", tt.kopeks, got, tt.want)
		}
	}
}

func TestFormatTraffic(t *testing.T) {
	if got := formatTraffic(0); got != "Безлимит" {
		t.Errorf("formatTraffic(0) = %q", got)
	}
	if got := formatTraffic(100); got != "100 ГБ" {
		t.Errorf("formatTraffic(100) = %q", got)
	}
}

func TestFormatPeriod(t *testing.T) {
	tests := []struct {
		days int
		want string
	}{
		{1, "1 день"},
		{3, "3 дня"},
		{11, "11 дней"},
		{21, "21 день"},
		{30, "30 дней"},
		{90, "90 дней"},
	}
	for _, tt := range tests {
		if got := formatPeriod(tt.days); got != tt.want {
			t.Errorf("formatPeriod(%d) = %q, want %q", tt.days, got, tt.want)
		}
	}
}
