package db

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

var (
	ErrOfferNotFound       = errors.New("offer not found")
	ErrOfferAlreadyClaimed = errors.New("offer already claimed")
	ErrOfferExpired        = errors.New("offer expired")
)

func GetOfferByID(id uint) (*DiscountOffer, error) {
	var offer DiscountOffer
	if err := DB.First(&offer, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOfferNotFound
		}
		return nil, err
	}
	return &offer, nil
}

// GetUserOffers возвращает неистёкшие офферы пользователя, новые первыми.
func GetUserOffers(userID uint, now time.Time) ([]DiscountOffer, error) {
	var offers []DiscountOffer
	err := DB.Where("user_id = ? AND expires_at > ?", userID, now).
		Order("created_at desc").Find(&offers).Error
	return offers, err
}

// ClaimOffer активирует оффер-скидку: помечает оффер использованным и
// выдаёт пользователю персональную скидку с собственным сроком действия.
func ClaimOffer(user *User, offer *DiscountOffer, now time.Time) (*time.Time, error) {
	if offer.UserID != user.ID {
		return nil, ErrOfferNotFound
	}
	if offer.ClaimedAt != nil {
		return nil, ErrOfferAlreadyClaimed
	}
	if !offer.IsActive || !offer.ExpiresAt.After(now) {
		DB.Model(offer).Update("is_active", false)
		return nil, ErrOfferExpired
	}

	var discountExpiresAt *time.Time
	if offer.ActiveDiscountHours > 0 {
		t := now.Add(time.Duration(offer.ActiveDiscountHours) * time.Hour)
		discountExpiresAt = &t
	}

	err := DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(offer).Update("claimed_at", now).Error; err != nil {
			return err
		}
		return tx.Model(user).Updates(map[string]interface{}{
			"offer_discount_percent":    offer.DiscountPercent,
			"offer_discount_source":     offer.NotificationType,
			"offer_discount_expires_at": discountExpiresAt,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	user.OfferDiscountPercent = offer.DiscountPercent
	user.OfferDiscountSource = offer.NotificationType
	user.OfferDiscountExpiresAt = discountExpiresAt
	return discountExpiresAt, nil
}

func CreateOffer(offer *DiscountOffer) error {
	return DB.Create(offer).Error
}
