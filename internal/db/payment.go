package db

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var ErrPaymentNotFound = errors.New("payment not found")

func CreatePayment(userID uint, gateway, externalID string, amountKopeks int) (*Payment, error) {
	pay := Payment{
		UserID:       userID,
		Gateway:      gateway,
		ExternalID:   externalID,
		AmountKopeks: amountKopeks,
		Status:       PaymentPending,
	}
	if err := DB.Create(&pay).Error; err != nil {
		return nil, err
	}
	return &pay, nil
}

// SettlePayment зачисляет успешный платёж одной транзакцией: платёж
// переводится pending -> succeeded условным UPDATE, и только захватившая
// его сторона пополняет баланс и пишет запись в журнал. При ошибке вся
// транзакция откатывается, платёж остаётся pending и повтор уведомления
// зачислит его заново. Повторное уведомление уже зачисленного платежа
// возвращает credited=false без изменений.
func SettlePayment(externalID string) (pay *Payment, credited bool, err error) {
	var p Payment
	err = DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("external_id = ?", externalID).First(&p).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrPaymentNotFound
			}
			return err
		}
		res := tx.Model(&Payment{}).
			Where("external_id = ? AND status = ?", externalID, PaymentPending).
			Update("status", PaymentSucceeded)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			// Уже зачислен параллельным или предыдущим уведомлением
			return nil
		}
		var user User
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, p.UserID).Error; err != nil {
			return err
		}
		if err := tx.Model(&user).Update("balance_kopeks", user.BalanceKopeks+p.AmountKopeks).Error; err != nil {
			return err
		}
		record := Transaction{
			UserID:       p.UserID,
			Type:         TransactionDeposit,
			AmountKopeks: p.AmountKopeks,
			Description:  "Пополнение через " + p.Gateway,
		}
		if err := tx.Create(&record).Error; err != nil {
			return err
		}
		p.Status = PaymentSucceeded
		credited = true
		return nil
	})
	if err != nil {
		return nil, false, err
	}
	return &p, credited, nil
}

func GetPayments(limit int) ([]Payment, error) {
	var pays []Payment
	q := DB.Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return pays, q.Find(&pays).Error
}
