package purchase

import (
	"errors"
	"fmt"
)

var (
	// ErrInsufficientBalance — восстановимая ситуация: пользователь может
	// пополнить баланс и повторить попытку.
	ErrInsufficientBalance = errors.New("insufficient balance")
	// ErrNoSubscription — операция требует существующей подписки.
	ErrNoSubscription = errors.New("no active subscription")
)

// ValidationError — некорректный тариф, период или сумма.
// Прерывает операцию до любых изменений.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "validation: " + e.Reason
}

func validationf(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Reason: fmt.Sprintf(format, args...)}
}

// BalanceDebitError — списание баланса не удалось. Операция прерывается
// до изменения подписки, частичного состояния не остаётся.
type BalanceDebitError struct {
	Err error
}

func (e *BalanceDebitError) Error() string {
	return "balance debit failed: " + e.Err.Error()
}

func (e *BalanceDebitError) Unwrap() error {
	return e.Err
}

// ExternalSyncError — ошибка синхронизации с панелью RemnaWave.
// Возникает строго после фиксации покупки и не отменяет её:
// оплаченная подписка остаётся в силе.
type ExternalSyncError struct {
	Err error
}

func (e *ExternalSyncError) Error() string {
	return "external sync failed: " + e.Err.Error()
}

func (e *ExternalSyncError) Unwrap() error {
	return e.Err
}
