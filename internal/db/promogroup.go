package db

import (
	"errors"

	"gorm.io/gorm"
)

var ErrPromoGroupNotFound = errors.New("promo group not found")

func GetPromoGroupByID(id uint) (*PromoGroup, error) {
	var group PromoGroup
	if err := DB.First(&group, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrPromoGroupNotFound
		}
		return nil, err
	}
	return &group, nil
}

func GetAllPromoGroups() ([]PromoGroup, error) {
	var groups []PromoGroup
	return groups, DB.Order("id").Find(&groups).Error
}

func CreatePromoGroup(group *PromoGroup) error {
	return DB.Create(group).Error
}

func DeletePromoGroup(group *PromoGroup) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&User{}).Where("promo_group_id = ?", group.ID).
			Update("promo_group_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(group).Error
	})
}
