package pricing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VPN-Shop-bot/internal/db"
)

func TestApplyDiscount(t *testing.T) {
	tests := []struct {
		desc    string
		price   int
		percent int
		want    int
	}{
		{"без скидки", 9900, 0, 9900},
		{"20 процентов", 9900, 20, 7920},
		{"округление вниз в пользу пользователя", 999, 10, 900},
		{"полная скидка", 5000, 100, 0},
		{"процент выше ста", 5000, 150, 0},
		{"отрицательный процент игнорируется", 5000, -10, 5000},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			assert.Equal(t, tt.want, ApplyDiscount(tt.price, tt.percent))
		})
	}
}

func TestApplyDiscountFormula(t *testing.T) {
	// apply_discount(price, d) = price − ⌊price·d/100⌋
	for _, price := range []int{0, 1, 99, 100, 9900, 123457} {
		for d := 0; d <= 100; d += 7 {
			want := price - price*d/100
			assert.Equal(t, want, ApplyDiscount(price, d), "price=%d d=%d", price, d)
			assert.GreaterOrEqual(t, ApplyDiscount(price, d), 0)
		}
	}
}

func TestPriceForPeriod(t *testing.T) {
	tariff := &db.Tariff{
		PeriodPrices: map[string]int{"30": 9900, "90": 26900, "180": 49900},
	}

	price, ok := PriceForPeriod(tariff, 30)
	require.True(t, ok)
	assert.Equal(t, 9900, price)

	// Период, которого нет в таблице
	_, ok = PriceForPeriod(tariff, 60)
	assert.False(t, ok)

	_, ok = PriceForPeriod(tariff, 0)
	assert.False(t, ok)

	_, ok = PriceForPeriod(nil, 30)
	assert.False(t, ok)

	// Детерминированность
	for i := 0; i < 3; i++ {
		p, ok := PriceForPeriod(tariff, 90)
		require.True(t, ok)
		assert.Equal(t, 26900, p)
	}
}

func TestPeriods(t *testing.T) {
	tariff := &db.Tariff{
		PeriodPrices: map[string]int{"180": 49900, "30": 9900, "90": 26900},
	}
	assert.Equal(t, []int{30, 90, 180}, Periods(tariff))
}

func TestResolveDiscountPromoGroupFirst(t *testing.T) {
	now := time.Now()
	user := &db.User{
		PromoGroup: &db.PromoGroup{
			Name:            "resellers",
			PeriodDiscounts: map[string]int{"90": 15},
		},
		OfferDiscountPercent: 30,
	}

	// Скидка группы найдена — персональная не учитывается и не суммируется
	assert.Equal(t, 15, ResolveDiscount(user, db.DiscountCategoryPeriod, 90, now))

	// Группа даёт 0 для этого периода — берётся персональная
	assert.Equal(t, 30, ResolveDiscount(user, db.DiscountCategoryPeriod, 30, now))
}

func TestResolveDiscountPersonalExpiry(t *testing.T) {
	now := time.Now()
	expired := now.Add(-time.Hour)
	future := now.Add(time.Hour)

	user := &db.User{OfferDiscountPercent: 25, OfferDiscountExpiresAt: &expired}
	assert.Equal(t, 0, ResolveDiscount(user, db.DiscountCategoryPeriod, 30, now))

	user.OfferDiscountExpiresAt = &future
	assert.Equal(t, 25, ResolveDiscount(user, db.DiscountCategoryPeriod, 30, now))

	// Бессрочная персональная скидка
	user.OfferDiscountExpiresAt = nil
	assert.Equal(t, 25, ResolveDiscount(user, db.DiscountCategoryPeriod, 30, now))
}

func TestResolveDiscountIdempotent(t *testing.T) {
	now := time.Now()
	user := &db.User{
		PromoGroup:           &db.PromoGroup{ServerDiscountPercent: 10},
		OfferDiscountPercent: 5,
	}
	first := ResolveDiscount(user, db.DiscountCategoryServers, 0, now)
	second := ResolveDiscount(user, db.DiscountCategoryServers, 0, now)
	assert.Equal(t, first, second)
	assert.Equal(t, 10, first)
}

func TestResolveDiscountAbsent(t *testing.T) {
	now := time.Now()
	assert.Equal(t, 0, ResolveDiscount(nil, db.DiscountCategoryPeriod, 30, now))
	assert.Equal(t, 0, ResolveDiscount(&db.User{}, db.DiscountCategoryPeriod, 30, now))
}

func TestProratedPriceHalfCycle(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	price, months := ProratedPrice(3000, now.AddDate(0, 0, 15), now)
	assert.Equal(t, 1500, price)
	assert.Equal(t, 1, months)
}

func TestProratedPriceExpired(t *testing.T) {
	// Истёкшая подписка оплачивает полный цикл
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	price, months := ProratedPrice(3000, now.AddDate(0, 0, -5), now)
	assert.Equal(t, 3000, price)
	assert.Equal(t, 1, months)
}

func TestProratedPriceRoundsUp(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)

	// 10 дней и 1 час → 11 дней: 3000·11/30 = 1100
	price, months := ProratedPrice(3000, now.Add(10*24*time.Hour+time.Hour), now)
	assert.Equal(t, 1100, price)
	assert.Equal(t, 1, months)

	// Неделимая цена округляется вверх до копейки: ⌈1000·10/30⌉ = 334
	price, _ = ProratedPrice(1000, now.Add(10*24*time.Hour), now)
	assert.Equal(t, 334, price)
}

func TestProratedPriceLongRemainder(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	price, months := ProratedPrice(3000, now.AddDate(0, 0, 45), now)
	assert.Equal(t, 4500, price)
	assert.Equal(t, 2, months)
}

func TestProratedPriceNonNegative(t *testing.T) {
	now := time.Date(2025, 1, 10, 12, 0, 0, 0, time.UTC)
	price, months := ProratedPrice(0, now.AddDate(0, 0, 10), now)
	assert.Equal(t, 0, price)
	assert.Equal(t, 1, months)
}
