// Package purchase реализует оформление платных подписок с баланса:
// расчёт котировки, списание, продление и переключение тарифа.
package purchase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/pricing"
)

// Состояния сценария покупки
type State string

const (
	StateSelectingTariff     State = "selecting_tariff"
	StateSelectingPeriod     State = "selecting_period"
	StateConfirming          State = "confirming"
	StateCommitted           State = "committed"
	StateInsufficientBalance State = "insufficient_balance"
	StateFailed              State = "failed"
)

// Ledger списывает средства с баланса пользователя. Списание атомарно:
// при нехватке средств возвращается ErrInsufficientBalance без изменений.
type Ledger interface {
	Subtract(userID uint, amountKopeks int, description string) error
}

// Store управляет подписками и журналом транзакций.
type Store interface {
	SubscriptionByUser(userID uint) (*db.Subscription, error)
	CreatePaid(userID uint, days int, tariff *db.Tariff) (*db.Subscription, error)
	Extend(sub *db.Subscription, days int, tariff *db.Tariff) (*db.Subscription, error)
	RecordTransaction(userID uint, typ db.TransactionType, amountKopeks int, description string) error
}

// Syncer отправляет состояние подписки в панель управления VPN.
type Syncer interface {
	SyncUser(ctx context.Context, user *db.User, sub *db.Subscription, resetTraffic bool, reason string) error
}

// Notifier уведомляет администратора о событиях. Ошибки доставки
// не влияют на результат операции.
type Notifier interface {
	NotifyAdmin(message string)
}

// Cart хранит черновик заказа пользователя до подтверждения.
type Cart interface {
	Clear(userID uint)
}

// Quote — рассчитанная котировка до подтверждения покупки.
type Quote struct {
	TariffID         uint
	TariffName       string
	PeriodDays       int
	BasePriceKopeks  int
	DiscountPercent  int
	FinalPriceKopeks int
}

// Result — итог выполненной операции.
type Result struct {
	State        State
	Quote        *Quote
	Subscription *db.Subscription
	// SyncErr заполняется, если покупка зафиксирована, но синхронизация
	// с панелью не удалась. Покупка при этом действительна.
	SyncErr error
}

// Service оркестрирует покупку: котировка -> списание -> подписка ->
// синхронизация -> журнал -> уведомление -> очистка корзины.
type Service struct {
	Ledger   Ledger
	Store    Store
	Syncer   Syncer
	Notifier Notifier
	Cart     Cart

	// Сбрасывать ли трафик в панели при успешной оплате
	ResetTrafficOnPayment bool

	// Переопределяется в тестах
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}

// BuildQuote рассчитывает стоимость периода тарифа для пользователя.
// Котировка детерминирована: повторный вызов с теми же входными данными
// даёт ту же цену.
func (s *Service) BuildQuote(user *db.User, tariff *db.Tariff, periodDays int) (*Quote, error) {
	if user == nil {
		return nil, validationf("user is required")
	}
	if tariff == nil {
		return nil, validationf("tariff not found")
	}
	if !tariff.IsActive {
		return nil, validationf("tariff %q is not active", tariff.Name)
	}
	if !tariff.AvailableFor(user.PromoGroupID) {
		return nil, validationf("tariff %q is not available for this user", tariff.Name)
	}
	base, ok := pricing.PriceForPeriod(tariff, periodDays)
	if !ok {
		return nil, validationf("tariff %q has no period of %d days", tariff.Name, periodDays)
	}
	discount := pricing.ResolveDiscount(user, db.DiscountCategoryPeriod, periodDays, s.now())
	return &Quote{
		TariffID:         tariff.ID,
		TariffName:       tariff.Name,
		PeriodDays:       periodDays,
		BasePriceKopeks:  base,
		DiscountPercent:  discount,
		FinalPriceKopeks: pricing.ApplyDiscount(base, discount),
	}, nil
}

// ExecutePurchase оформляет новую подписку или продлевает существующую
// на выбранный тариф. Списание выполняется до изменения подписки; при
// нехватке средств операция прерывается без последствий и может быть
// повторена после пополнения.
func (s *Service) ExecutePurchase(ctx context.Context, user *db.User, tariff *db.Tariff, periodDays int) (*Result, error) {
	quote, err := s.BuildQuote(user, tariff, periodDays)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, user, quote, func() (*db.Subscription, error) {
		sub, err := s.Store.SubscriptionByUser(user.ID)
		if err != nil {
			if errors.Is(err, db.ErrSubscriptionNotFound) {
				return s.Store.CreatePaid(user.ID, periodDays, tariff)
			}
			return nil, err
		}
		return s.Store.Extend(sub, periodDays, tariff)
	}, fmt.Sprintf("Оплата тарифа «%s» на %d дн.", tariff.Name, periodDays))
}

// ExecuteExtend продлевает текущую подписку на период её тарифа,
// не меняя параметров (трафик, устройства, сквады).
func (s *Service) ExecuteExtend(ctx context.Context, user *db.User, tariff *db.Tariff, periodDays int) (*Result, error) {
	sub, err := s.Store.SubscriptionByUser(user.ID)
	if err != nil {
		if errors.Is(err, db.ErrSubscriptionNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}
	quote, err := s.BuildQuote(user, tariff, periodDays)
	if err != nil {
		return nil, err
	}
	return s.commit(ctx, user, quote, func() (*db.Subscription, error) {
		return s.Store.Extend(sub, periodDays, nil)
	}, fmt.Sprintf("Продление тарифа «%s» на %d дн.", tariff.Name, periodDays))
}

// ExecuteSwitch переводит подписку на другой тариф. Оставшиеся полные
// дни текущей подписки засчитываются: добавляется max(0, период −
// остаток) дней, при этом списывается полная цена нового периода.
func (s *Service) ExecuteSwitch(ctx context.Context, user *db.User, newTariff *db.Tariff, periodDays int) (*Result, error) {
	sub, err := s.Store.SubscriptionByUser(user.ID)
	if err != nil {
		if errors.Is(err, db.ErrSubscriptionNotFound) {
			return nil, ErrNoSubscription
		}
		return nil, err
	}
	if sub.TariffID != nil && *sub.TariffID == newTariff.ID {
		return nil, validationf("subscription already on tariff %q", newTariff.Name)
	}
	quote, err := s.BuildQuote(user, newTariff, periodDays)
	if err != nil {
		return nil, err
	}
	daysToAdd := periodDays - sub.RemainingDays(s.now())
	if daysToAdd < 0 {
		daysToAdd = 0
	}
	return s.commit(ctx, user, quote, func() (*db.Subscription, error) {
		return s.Store.Extend(sub, daysToAdd, newTariff)
	}, fmt.Sprintf("Смена тарифа на «%s» (%d дн.)", newTariff.Name, periodDays))
}

// commit выполняет общую последовательность фиксации. Порядок шагов
// строгий: сначала списание, затем подписка; синхронизация и
// уведомление — после фиксации и не отменяют её.
func (s *Service) commit(ctx context.Context, user *db.User, quote *Quote, mutate func() (*db.Subscription, error), description string) (*Result, error) {
	// 1. Списание баланса. Неуспех прерывает операцию целиком.
	if err := s.Ledger.Subtract(user.ID, quote.FinalPriceKopeks, description); err != nil {
		if errors.Is(err, ErrInsufficientBalance) {
			return &Result{State: StateInsufficientBalance, Quote: quote}, ErrInsufficientBalance
		}
		return &Result{State: StateFailed, Quote: quote}, &BalanceDebitError{Err: err}
	}

	// 2. Создание или продление подписки.
	sub, err := mutate()
	if err != nil {
		// Средства уже списаны. Автоматический возврат не выполняется,
		// администратор разбирает инцидент вручную.
		s.notify(fmt.Sprintf("Ошибка фиксации подписки пользователя %d после списания %d коп.: %v", user.ID, quote.FinalPriceKopeks, err))
		return &Result{State: StateFailed, Quote: quote}, err
	}

	result := &Result{State: StateCommitted, Quote: quote, Subscription: sub}

	// 3. Синхронизация с панелью. Неуспех не отменяет покупку.
	if s.Syncer != nil {
		if err := s.Syncer.SyncUser(ctx, user, sub, s.ResetTrafficOnPayment, description); err != nil {
			result.SyncErr = &ExternalSyncError{Err: err}
			s.notify(fmt.Sprintf("Синхронизация с панелью не удалась (пользователь %d): %v", user.ID, err))
		}
	}

	// 4. Запись в журнал транзакций.
	if err := s.Store.RecordTransaction(user.ID, db.TransactionSubscriptionPayment, -quote.FinalPriceKopeks, description); err != nil {
		s.notify(fmt.Sprintf("Не записана транзакция пользователя %d на %d коп.: %v", user.ID, quote.FinalPriceKopeks, err))
	}

	// 5. Уведомление администратора о покупке.
	s.notify(fmt.Sprintf("💰 %s — пользователь %d, %.2f ₽", description, user.ID, float64(quote.FinalPriceKopeks)/100))

	// 6. Очистка корзины.
	if s.Cart != nil {
		s.Cart.Clear(user.ID)
	}
	return result, nil
}

func (s *Service) notify(message string) {
	if s.Notifier != nil {
		s.Notifier.NotifyAdmin(message)
	}
}
