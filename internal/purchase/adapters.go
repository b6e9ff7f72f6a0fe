package purchase

import (
	"errors"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
)

// GormLedger — списание баланса через общую БД.
type GormLedger struct{}

func (GormLedger) Subtract(userID uint, amountKopeks int, description string) error {
	err := db.SubtractBalance(userID, amountKopeks, description)
	if errors.Is(err, db.ErrInsufficientFunds) {
		return ErrInsufficientBalance
	}
	return err
}

// GormStore — подписки и журнал транзакций через общую БД.
type GormStore struct{}

func (GormStore) SubscriptionByUser(userID uint) (*db.Subscription, error) {
	return db.GetSubscriptionByUserID(userID)
}

func (GormStore) CreatePaid(userID uint, days int, tariff *db.Tariff) (*db.Subscription, error) {
	return db.CreatePaidSubscription(userID, days, tariff)
}

func (GormStore) Extend(sub *db.Subscription, days int, tariff *db.Tariff) (*db.Subscription, error) {
	return db.ExtendSubscription(sub, days, tariff)
}

func (GormStore) RecordTransaction(userID uint, typ db.TransactionType, amountKopeks int, description string) error {
	return db.CreateTransaction(userID, typ, amountKopeks, description)
}

// AdminNotifier отправляет сообщения администратору через общий нотификатор.
type AdminNotifier struct{}

func (AdminNotifier) NotifyAdmin(message string) {
	logger.NotifyAdmin(message)
}
