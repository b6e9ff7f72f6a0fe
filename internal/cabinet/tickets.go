package cabinet

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
)

// CreateTicket открывает обращение в поддержку.
func (h *Handlers) CreateTicket(c *gin.Context) {
	var req struct {
		Subject string `json:"subject" binding:"required"`
		Body    string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "subject и body обязательны")
		return
	}
	ticket, err := db.CreateTicket(currentUserID(c), req.Subject, req.Body)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	logger.NotifyAdmin("Новый тикет #" + strconv.Itoa(int(ticket.ID)) + ": " + req.Subject)
	c.JSON(http.StatusCreated, gin.H{"ticket_id": ticket.ID})
}

// Tickets возвращает обращения пользователя.
func (h *Handlers) Tickets(c *gin.Context) {
	tickets, err := db.GetUserTickets(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	out := make([]gin.H, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, gin.H{
			"id":         t.ID,
			"subject":    t.Subject,
			"status":     t.Status,
			"updated_at": t.UpdatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tickets": out})
}

// Ticket возвращает обращение с перепиской.
func (h *Handlers) Ticket(c *gin.Context) {
	ticket, ok := h.userTicket(c)
	if !ok {
		return
	}
	messages := make([]gin.H, 0, len(ticket.Messages))
	for _, m := range ticket.Messages {
		messages = append(messages, gin.H{
			"from_admin": m.FromAdmin,
			"body":       m.Body,
			"created_at": m.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       ticket.ID,
		"subject":  ticket.Subject,
		"status":   ticket.Status,
		"messages": messages,
	})
}

// ReplyTicket добавляет сообщение пользователя в обращение.
func (h *Handlers) ReplyTicket(c *gin.Context) {
	var req struct {
		Body string `json:"body" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "body обязателен")
		return
	}
	ticket, ok := h.userTicket(c)
	if !ok {
		return
	}
	if err := db.AddTicketMessage(ticket, req.Body, false); err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	logger.NotifyAdmin("Ответ в тикете #" + strconv.Itoa(int(ticket.ID)))
	c.JSON(http.StatusOK, gin.H{"status": db.TicketOpen})
}

// CloseTicket закрывает обращение по инициативе пользователя.
func (h *Handlers) CloseTicket(c *gin.Context) {
	ticket, ok := h.userTicket(c)
	if !ok {
		return
	}
	if err := db.CloseTicket(ticket); err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": db.TicketClosed})
}

func (h *Handlers) userTicket(c *gin.Context) (*db.Ticket, bool) {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "некорректный id")
		return nil, false
	}
	ticket, err := db.GetTicketByID(uint(id))
	if err != nil {
		if errors.Is(err, db.ErrTicketNotFound) {
			respondError(c, http.StatusNotFound, "тикет не найден")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return nil, false
	}
	// Чужие тикеты недоступны
	if ticket.UserID != currentUserID(c) {
		respondError(c, http.StatusNotFound, "тикет не найден")
		return nil, false
	}
	return ticket, true
}
