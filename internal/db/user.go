package db

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	ErrInsufficientFunds = errors.New("insufficient funds")
	ErrUserNotFound      = errors.New("user not found")
)

// FindOrCreateByTelegramID находит пользователя по Telegram ID или создаёт нового.
func FindOrCreateByTelegramID(telegramID int64) (*User, error) {
	var user User
	err := DB.Preload("PromoGroup").Where("telegram_id = ?", telegramID).First(&user).Error
	if err == nil {
		return &user, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	user = User{TelegramID: &telegramID}
	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func GetUserByID(id uint) (*User, error) {
	var user User
	if err := DB.Preload("PromoGroup").First(&user, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func GetUserByEmail(email string) (*User, error) {
	var user User
	if err := DB.Preload("PromoGroup").Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

// CreateCabinetUser регистрирует пользователя веб-кабинета по email.
func CreateCabinetUser(email, passwordHash string) (*User, error) {
	user := User{Email: &email, PasswordHash: passwordHash}
	if err := DB.Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// MarkEmailVerified помечает email пользователя подтверждённым.
func MarkEmailVerified(user *User) error {
	return DB.Model(user).Update("email_verified", true).Error
}

// SubtractBalance списывает сумму с баланса пользователя.
// Строка пользователя блокируется на время транзакции, при нехватке
// средств возвращается ErrInsufficientFunds без изменений.
func SubtractBalance(userID uint, amountKopeks int, description string) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		var user User
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&user, userID).Error
		if err != nil {
			return err
		}
		if user.BalanceKopeks < amountKopeks {
			return ErrInsufficientFunds
		}
		return tx.Model(&user).Update("balance_kopeks", user.BalanceKopeks-amountKopeks).Error
	})
}

func SetUserPromoGroup(user *User, groupID *uint) error {
	return DB.Model(user).Update("promo_group_id", groupID).Error
}

func CountUsers() int {
	var count int64
	DB.Model(&User{}).Count(&count)
	return int(count)
}
