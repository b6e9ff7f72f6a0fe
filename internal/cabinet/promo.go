package cabinet

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"VPN-Shop-bot/internal/db"
)

// Offers возвращает действующие промо-офферы пользователя.
func (h *Handlers) Offers(c *gin.Context) {
	offers, err := db.GetUserOffers(currentUserID(c), time.Now().UTC())
	if err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	out := make([]gin.H, 0, len(offers))
	for _, o := range offers {
		out = append(out, gin.H{
			"id":               o.ID,
			"effect_type":      o.EffectType,
			"discount_percent": o.DiscountPercent,
			"expires_at":       o.ExpiresAt,
			"claimed":          o.ClaimedAt != nil,
		})
	}
	c.JSON(http.StatusOK, gin.H{"offers": out})
}

// ClaimOffer активирует промо-оффер: пользователь получает персональную скидку.
func (h *Handlers) ClaimOffer(c *gin.Context) {
	var req struct {
		OfferID uint `json:"offer_id" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "offer_id обязателен")
		return
	}
	user, err := db.GetUserByID(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	offer, err := db.GetOfferByID(req.OfferID)
	if err != nil {
		respondError(c, http.StatusNotFound, "оффер не найден")
		return
	}
	expiresAt, err := db.ClaimOffer(user, offer, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, db.ErrOfferNotFound):
			respondError(c, http.StatusNotFound, "оффер не найден")
		case errors.Is(err, db.ErrOfferAlreadyClaimed):
			respondError(c, http.StatusConflict, "оффер уже активирован")
		case errors.Is(err, db.ErrOfferExpired):
			respondError(c, http.StatusGone, "срок оффера истёк")
		default:
			respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"discount_percent": user.OfferDiscountPercent,
		"expires_at":       expiresAt,
	})
}

// ActiveDiscount возвращает действующие скидки пользователя по категориям.
func (h *Handlers) ActiveDiscount(c *gin.Context) {
	user, err := db.GetUserByID(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	now := time.Now().UTC()
	resp := gin.H{
		"personal_percent": 0,
	}
	if user.HasActiveOfferDiscount(now) {
		resp["personal_percent"] = user.OfferDiscountPercent
		resp["personal_expires_at"] = user.OfferDiscountExpiresAt
	}
	if user.PromoGroup != nil {
		resp["promo_group"] = gin.H{
			"name":             user.PromoGroup.Name,
			"servers_percent":  user.PromoGroup.ServerDiscountPercent,
			"traffic_percent":  user.PromoGroup.TrafficDiscountPercent,
			"devices_percent":  user.PromoGroup.DeviceDiscountPercent,
			"period_discounts": user.PromoGroup.PeriodDiscounts,
		}
	}
	c.JSON(http.StatusOK, resp)
}
