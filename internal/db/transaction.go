package db

import "time"

// CreateTransaction добавляет запись в журнал баланса.
func CreateTransaction(userID uint, typ TransactionType, amountKopeks int, description string) error {
	tr := Transaction{
		UserID:       userID,
		Type:         typ,
		AmountKopeks: amountKopeks,
		Description:  description,
	}
	return DB.Create(&tr).Error
}

func GetUserTransactions(userID uint, limit int) ([]Transaction, error) {
	var trs []Transaction
	q := DB.Where("user_id = ?", userID).Order("created_at desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	return trs, q.Find(&trs).Error
}

// SumDeposits — сумма пополнений за период, в копейках.
func SumDeposits(from, to time.Time) int {
	var sum int64
	DB.Model(&Transaction{}).
		Where("type = ? AND created_at >= ? AND created_at <= ?", TransactionDeposit, from, to).
		Select("coalesce(sum(amount_kopeks), 0)").Scan(&sum)
	return int(sum)
}
