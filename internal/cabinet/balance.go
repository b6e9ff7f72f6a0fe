package cabinet

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"VPN-Shop-bot/internal/db"
)

// Balance возвращает текущий баланс пользователя.
func (h *Handlers) Balance(c *gin.Context) {
	user, err := db.GetUserByID(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	c.JSON(http.StatusOK, gin.H{"balance_kopeks": user.BalanceKopeks})
}

type topupRequest struct {
	Gateway      string `json:"gateway" binding:"required"`
	AmountKopeks int    `json:"amount_kopeks" binding:"required,min=1"`
}

// Topup выставляет счёт на пополнение и возвращает ссылку на оплату.
// Зачисление произойдёт после подтверждения шлюза через webhook.
func (h *Handlers) Topup(c *gin.Context) {
	var req topupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "gateway и amount_kopeks обязательны")
		return
	}
	payURL, err := h.Payments.CreateTopup(c.Request.Context(), currentUserID(c), req.Gateway, req.AmountKopeks)
	if err != nil {
		respondError(c, http.StatusBadRequest, err.Error())
		return
	}
	c.JSON(http.StatusOK, gin.H{"payment_url": payURL})
}

// Transactions возвращает историю операций по балансу.
func (h *Handlers) Transactions(c *gin.Context) {
	trs, err := db.GetUserTransactions(currentUserID(c), 100)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	out := make([]gin.H, 0, len(trs))
	for _, tr := range trs {
		out = append(out, gin.H{
			"type":          tr.Type,
			"amount_kopeks": tr.AmountKopeks,
			"description":   tr.Description,
			"created_at":    tr.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"transactions": out})
}
