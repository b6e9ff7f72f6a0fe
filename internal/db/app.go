package db

import (
	"errors"

	"gorm.io/gorm"
)

var ErrAppNotFound = errors.New("app not found")

// GetApps возвращает каталог приложений, сгруппированный по display_order.
func GetApps(includeInactive bool) ([]App, error) {
	var apps []App
	q := DB.Order("platform, display_order, id")
	if !includeInactive {
		q = q.Where("is_active = true")
	}
	return apps, q.Find(&apps).Error
}

// GetAppsForPlatform возвращает активные приложения одной платформы.
func GetAppsForPlatform(platform string) ([]App, error) {
	var apps []App
	err := DB.Where("platform = ? AND is_active = true", platform).
		Order("display_order, id").Find(&apps).Error
	return apps, err
}

func GetAppByID(id uint) (*App, error) {
	var app App
	err := DB.First(&app, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrAppNotFound
		}
		return nil, err
	}
	return &app, nil
}

func CreateApp(app *App) error {
	if !ValidAppPlatform(app.Platform) {
		return errors.New("unknown platform: " + app.Platform)
	}
	return DB.Create(app).Error
}

func SetAppActive(app *App, active bool) error {
	return DB.Model(app).Update("is_active", active).Error
}

func DeleteApp(app *App) error {
	return DB.Delete(app).Error
}
