package db

import (
	"errors"

	"gorm.io/gorm"
)

var ErrTicketNotFound = errors.New("ticket not found")

func CreateTicket(userID uint, subject, body string) (*Ticket, error) {
	ticket := Ticket{
		UserID:  userID,
		Subject: subject,
		Status:  TicketOpen,
		Messages: []TicketMessage{
			{Body: body},
		},
	}
	if err := DB.Create(&ticket).Error; err != nil {
		return nil, err
	}
	return &ticket, nil
}

func GetTicketByID(id uint) (*Ticket, error) {
	var ticket Ticket
	err := DB.Preload("Messages", func(db *gorm.DB) *gorm.DB {
		return db.Order("created_at")
	}).First(&ticket, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTicketNotFound
		}
		return nil, err
	}
	return &ticket, nil
}

func GetUserTickets(userID uint) ([]Ticket, error) {
	var tickets []Ticket
	return tickets, DB.Where("user_id = ?", userID).Order("updated_at desc").Find(&tickets).Error
}

func GetOpenTickets() ([]Ticket, error) {
	var tickets []Ticket
	return tickets, DB.Where("status = ?", TicketOpen).Order("updated_at").Find(&tickets).Error
}

func AddTicketMessage(ticket *Ticket, body string, fromAdmin bool) error {
	msg := TicketMessage{TicketID: ticket.ID, Body: body, FromAdmin: fromAdmin}
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&msg).Error; err != nil {
			return err
		}
		// Любой ответ переоткрывает тикет
		return tx.Model(ticket).Update("status", TicketOpen).Error
	})
}

func CloseTicket(ticket *Ticket) error {
	return DB.Model(ticket).Update("status", TicketClosed).Error
}
