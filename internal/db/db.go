package db

import (
	"log"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func InitDB(dsn string) {
	if dsn == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("failed to connect database: %v", err)
	}
	DB = db
	db.AutoMigrate(
		&User{}, &PromoGroup{}, &Tariff{}, &Subscription{},
		&Transaction{}, &Payment{}, &DiscountOffer{},
		&Ticket{}, &TicketMessage{}, &App{},
	)
}
