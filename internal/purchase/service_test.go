package purchase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"VPN-Shop-bot/internal/db"
)

// --- фейки зависимостей ---

type fakeLedger struct {
	balance int
	debits  []int
	fail    error
}

func (l *fakeLedger) Subtract(userID uint, amountKopeks int, description string) error {
	if l.fail != nil {
		return l.fail
	}
	if l.balance < amountKopeks {
		return ErrInsufficientBalance
	}
	l.balance -= amountKopeks
	l.debits = append(l.debits, amountKopeks)
	return nil
}

type recordedTx struct {
	typ    db.TransactionType
	amount int
}

type fakeStore struct {
	sub        *db.Subscription
	txs        []recordedTx
	extendDays []int
	extendWith []*db.Tariff
	mutateFail error
}

func (s *fakeStore) SubscriptionByUser(userID uint) (*db.Subscription, error) {
	if s.sub == nil {
		return nil, db.ErrSubscriptionNotFound
	}
	return s.sub, nil
}

func (s *fakeStore) CreatePaid(userID uint, days int, tariff *db.Tariff) (*db.Subscription, error) {
	if s.mutateFail != nil {
		return nil, s.mutateFail
	}
	tariffID := tariff.ID
	s.sub = &db.Subscription{
		UserID:   userID,
		TariffID: &tariffID,
		Status:   db.SubscriptionActive,
		EndDate:  time.Now().UTC().AddDate(0, 0, days),
	}
	return s.sub, nil
}

func (s *fakeStore) Extend(sub *db.Subscription, days int, tariff *db.Tariff) (*db.Subscription, error) {
	if s.mutateFail != nil {
		return nil, s.mutateFail
	}
	s.extendDays = append(s.extendDays, days)
	s.extendWith = append(s.extendWith, tariff)
	sub.EndDate = sub.EndDate.AddDate(0, 0, days)
	if tariff != nil {
		tariffID := tariff.ID
		sub.TariffID = &tariffID
		sub.TrafficLimitGB = tariff.TrafficLimitGB
		sub.DeviceLimit = tariff.DeviceLimit
	}
	return sub, nil
}

func (s *fakeStore) RecordTransaction(userID uint, typ db.TransactionType, amountKopeks int, description string) error {
	s.txs = append(s.txs, recordedTx{typ: typ, amount: amountKopeks})
	return nil
}

type fakeSyncer struct {
	calls int
	fail  error
}

func (f *fakeSyncer) SyncUser(ctx context.Context, user *db.User, sub *db.Subscription, resetTraffic bool, reason string) error {
	f.calls++
	return f.fail
}

type fakeNotifier struct{ messages []string }

func (n *fakeNotifier) NotifyAdmin(message string) { n.messages = append(n.messages, message) }

type fakeCart struct{ cleared []uint }

func (c *fakeCart) Clear(userID uint) { c.cleared = append(c.cleared, userID) }

// --- вспомогательные конструкторы ---

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func testTariff() *db.Tariff {
	return &db.Tariff{
		ID:           1,
		Name:         "Стандарт",
		IsActive:     true,
		PeriodPrices: map[string]int{"30": 9900, "90": 26900},
	}
}

func newService(ledger *fakeLedger, store *fakeStore, syncer *fakeSyncer, notifier *fakeNotifier, cart *fakeCart) *Service {
	return &Service{
		Ledger:   ledger,
		Store:    store,
		Syncer:   syncer,
		Notifier: notifier,
		Cart:     cart,
		Now:      func() time.Time { return testNow },
	}
}

// --- тесты ---

func TestBuildQuoteWithDiscount(t *testing.T) {
	svc := newService(&fakeLedger{}, &fakeStore{}, nil, nil, nil)
	user := &db.User{ID: 7, PromoGroup: &db.PromoGroup{PeriodDiscounts: map[string]int{"30": 20}}}

	quote, err := svc.BuildQuote(user, testTariff(), 30)
	require.NoError(t, err)
	assert.Equal(t, 9900, quote.BasePriceKopeks)
	assert.Equal(t, 20, quote.DiscountPercent)
	assert.Equal(t, 7920, quote.FinalPriceKopeks)
}

func TestBuildQuoteValidation(t *testing.T) {
	svc := newService(&fakeLedger{}, &fakeStore{}, nil, nil, nil)
	user := &db.User{ID: 7}

	var verr *ValidationError

	_, err := svc.BuildQuote(user, nil, 30)
	require.ErrorAs(t, err, &verr)

	inactive := testTariff()
	inactive.IsActive = false
	_, err = svc.BuildQuote(user, inactive, 30)
	require.ErrorAs(t, err, &verr)

	// Периода нет в таблице цен
	_, err = svc.BuildQuote(user, testTariff(), 45)
	require.ErrorAs(t, err, &verr)

	// Тариф закрыт для промогруппы пользователя
	restricted := testTariff()
	restricted.AllowedPromoGroups = []db.PromoGroup{{ID: 99}}
	_, err = svc.BuildQuote(user, restricted, 30)
	require.ErrorAs(t, err, &verr)
}

func TestExecutePurchaseNewSubscription(t *testing.T) {
	ledger := &fakeLedger{balance: 10000}
	store := &fakeStore{}
	syncer := &fakeSyncer{}
	cart := &fakeCart{}
	svc := newService(ledger, store, syncer, &fakeNotifier{}, cart)
	user := &db.User{ID: 7}

	result, err := svc.ExecutePurchase(context.Background(), user, testTariff(), 30)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)
	require.NotNil(t, result.Subscription)

	// Списана итоговая цена, ровно одна транзакция на −цену
	assert.Equal(t, 100, ledger.balance)
	require.Len(t, store.txs, 1)
	assert.Equal(t, db.TransactionSubscriptionPayment, store.txs[0].typ)
	assert.Equal(t, -9900, store.txs[0].amount)

	assert.Equal(t, 1, syncer.calls)
	assert.Equal(t, []uint{7}, cart.cleared)
}

func TestExecutePurchaseInsufficientBalance(t *testing.T) {
	// Цена со скидкой 7920, на балансе 5000
	ledger := &fakeLedger{balance: 5000}
	store := &fakeStore{}
	svc := newService(ledger, store, &fakeSyncer{}, &fakeNotifier{}, &fakeCart{})
	user := &db.User{ID: 7, PromoGroup: &db.PromoGroup{PeriodDiscounts: map[string]int{"30": 20}}}

	result, err := svc.ExecutePurchase(context.Background(), user, testTariff(), 30)
	require.ErrorIs(t, err, ErrInsufficientBalance)
	assert.Equal(t, StateInsufficientBalance, result.State)
	assert.Equal(t, 7920, result.Quote.FinalPriceKopeks)

	// Ничего не изменилось: подписки нет, транзакций нет
	assert.Nil(t, store.sub)
	assert.Empty(t, store.txs)
	assert.Equal(t, 5000, ledger.balance)

	// После пополнения та же операция проходит
	ledger.balance = 8000
	result, err = svc.ExecutePurchase(context.Background(), user, testTariff(), 30)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)
	assert.Equal(t, 80, ledger.balance)
}

func TestExecutePurchaseDebitFailureAborts(t *testing.T) {
	ledger := &fakeLedger{fail: errors.New("deadlock")}
	store := &fakeStore{}
	svc := newService(ledger, store, &fakeSyncer{}, &fakeNotifier{}, &fakeCart{})

	result, err := svc.ExecutePurchase(context.Background(), &db.User{ID: 7}, testTariff(), 30)
	var debitErr *BalanceDebitError
	require.ErrorAs(t, err, &debitErr)
	assert.Equal(t, StateFailed, result.State)
	assert.Nil(t, store.sub)
	assert.Empty(t, store.txs)
}

func TestExecutePurchaseSyncFailureNonFatal(t *testing.T) {
	ledger := &fakeLedger{balance: 10000}
	store := &fakeStore{}
	syncer := &fakeSyncer{fail: errors.New("panel timeout")}
	notifier := &fakeNotifier{}
	svc := newService(ledger, store, syncer, notifier, &fakeCart{})

	result, err := svc.ExecutePurchase(context.Background(), &db.User{ID: 7}, testTariff(), 30)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)

	var syncErr *ExternalSyncError
	require.ErrorAs(t, result.SyncErr, &syncErr)

	// Транзакция записана несмотря на ошибку панели, админ уведомлён
	require.Len(t, store.txs, 1)
	assert.Equal(t, -9900, store.txs[0].amount)
	assert.NotEmpty(t, notifier.messages)
}

func TestExecutePurchaseMutateFailureNoRefund(t *testing.T) {
	ledger := &fakeLedger{balance: 10000}
	store := &fakeStore{mutateFail: errors.New("constraint violation")}
	notifier := &fakeNotifier{}
	svc := newService(ledger, store, &fakeSyncer{}, notifier, &fakeCart{})

	result, err := svc.ExecutePurchase(context.Background(), &db.User{ID: 7}, testTariff(), 30)
	require.Error(t, err)
	assert.Equal(t, StateFailed, result.State)

	// Средства списаны, транзакция не записана, админ уведомлён об инциденте
	assert.Equal(t, 100, ledger.balance)
	assert.Empty(t, store.txs)
	assert.NotEmpty(t, notifier.messages)
}

func TestExecuteExtendKeepsTariffParams(t *testing.T) {
	tariffID := uint(1)
	store := &fakeStore{sub: &db.Subscription{
		UserID:   7,
		TariffID: &tariffID,
		Status:   db.SubscriptionActive,
		EndDate:  testNow.AddDate(0, 0, 10),
	}}
	ledger := &fakeLedger{balance: 30000}
	svc := newService(ledger, store, &fakeSyncer{}, &fakeNotifier{}, &fakeCart{})

	result, err := svc.ExecuteExtend(context.Background(), &db.User{ID: 7}, testTariff(), 90)
	require.NoError(t, err)
	assert.Equal(t, StateCommitted, result.State)

	require.Len(t, store.extendDays, 1)
	assert.Equal(t, 90, store.extendDays[0])
	// Параметры тарифа не трогаются при продлении
	assert.Nil(t, store.extendWith[0])
	assert.Equal(t, 30000-26900, ledger.balance)
}

func TestExecuteExtendWithoutSubscription(t *testing.T) {
	svc := newService(&fakeLedger{balance: 30000}, &fakeStore{}, &fakeSyncer{}, &fakeNotifier{}, &fakeCart{})
	_, err := svc.ExecuteExtend(context.Background(), &db.User{ID: 7}, testTariff(), 30)
	require.ErrorIs(t, err, ErrNoSubscription)
}

func TestExecuteSwitchCreditsRemainingDays(t *testing.T) {
	oldID := uint(42)
	newTariff := &db.Tariff{
		ID:           2,
		Name:         "Премиум",
		IsActive:     true,
		PeriodPrices: map[string]int{"30": 19900},
		DeviceLimit:  5,
	}

	tests := []struct {
		desc      string
		remaining int
		wantDays  int
	}{
		{"остаток меньше периода", 10, 20},
		{"остаток больше периода", 40, 0},
		{"остатка нет", 0, 30},
	}
	for _, tt := range tests {
		t.Run(tt.desc, func(t *testing.T) {
			store := &fakeStore{sub: &db.Subscription{
				UserID:   7,
				TariffID: &oldID,
				Status:   db.SubscriptionActive,
				EndDate:  testNow.AddDate(0, 0, tt.remaining),
			}}
			ledger := &fakeLedger{balance: 50000}
			svc := newService(ledger, store, &fakeSyncer{}, &fakeNotifier{}, &fakeCart{})

			result, err := svc.ExecuteSwitch(context.Background(), &db.User{ID: 7}, newTariff, 30)
			require.NoError(t, err)
			assert.Equal(t, StateCommitted, result.State)

			require.Len(t, store.extendDays, 1)
			assert.Equal(t, tt.wantDays, store.extendDays[0])
			// Применяются параметры нового тарифа
			require.NotNil(t, store.extendWith[0])
			assert.Equal(t, uint(2), store.extendWith[0].ID)
			// Списывается полная цена нового периода
			assert.Equal(t, 50000-19900, ledger.balance)
		})
	}
}

func TestExecuteSwitchSameTariffRejected(t *testing.T) {
	sameID := uint(1)
	store := &fakeStore{sub: &db.Subscription{UserID: 7, TariffID: &sameID, EndDate: testNow.AddDate(0, 0, 10)}}
	svc := newService(&fakeLedger{balance: 50000}, store, &fakeSyncer{}, &fakeNotifier{}, &fakeCart{})

	_, err := svc.ExecuteSwitch(context.Background(), &db.User{ID: 7}, testTariff(), 30)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestQuoteDeterministic(t *testing.T) {
	svc := newService(&fakeLedger{}, &fakeStore{}, nil, nil, nil)
	user := &db.User{ID: 7, PromoGroup: &db.PromoGroup{PeriodDiscounts: map[string]int{"90": 15}}}

	first, err := svc.BuildQuote(user, testTariff(), 90)
	require.NoError(t, err)
	for i := 0; i < 5; i++ {
		q, err := svc.BuildQuote(user, testTariff(), 90)
		require.NoError(t, err)
		assert.Equal(t, first, q, fmt.Sprintf("итерация %d", i))
	}
}
