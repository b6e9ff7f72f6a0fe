package cabinet

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
	"VPN-Shop-bot/internal/pricing"
	"VPN-Shop-bot/internal/purchase"
	"VPN-Shop-bot/internal/services"
)

// Tariffs возвращает тарифы, доступные текущему пользователю.
func (h *Handlers) Tariffs(c *gin.Context) {
	user, err := db.GetUserByID(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	tariffs, err := db.GetTariffsForUser(user.PromoGroupID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	out := make([]gin.H, 0, len(tariffs))
	for i := range tariffs {
		t := &tariffs[i]
		periods := make([]gin.H, 0)
		for _, days := range pricing.Periods(t) {
			base, _ := pricing.PriceForPeriod(t, days)
			discount := pricing.ResolveDiscount(user, db.DiscountCategoryPeriod, days, time.Now().UTC())
			periods = append(periods, gin.H{
				"days":               days,
				"price_kopeks":       base,
				"discount_percent":   discount,
				"final_price_kopeks": pricing.ApplyDiscount(base, discount),
			})
		}
		out = append(out, gin.H{
			"id":               t.ID,
			"name":             t.Name,
			"description":      t.Description,
			"traffic_limit_gb": t.TrafficLimitGB,
			"device_limit":     t.DeviceLimit,
			"periods":          periods,
		})
	}
	c.JSON(http.StatusOK, gin.H{"tariffs": out})
}

// Subscription возвращает текущую подписку пользователя.
func (h *Handlers) Subscription(c *gin.Context) {
	sub, err := db.GetSubscriptionByUserID(currentUserID(c))
	if err != nil {
		if errors.Is(err, db.ErrSubscriptionNotFound) {
			respondError(c, http.StatusNotFound, "подписка не оформлена")
			return
		}
		respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"status":           sub.Status,
		"is_trial":         sub.IsTrial,
		"end_date":         sub.EndDate,
		"remaining_days":   sub.RemainingDays(time.Now().UTC()),
		"traffic_limit_gb": sub.TrafficLimitGB,
		"device_limit":     sub.DeviceLimit,
		"connected_squads": sub.ConnectedSquads,
		"subscription_url": sub.SubscriptionURL,
	})
}

type purchaseRequest struct {
	TariffID   uint `json:"tariff_id" binding:"required"`
	PeriodDays int  `json:"period_days" binding:"required"`
}

// Purchase оформляет или продлевает подписку на выбранный тариф.
func (h *Handlers) Purchase(c *gin.Context) {
	h.runPurchase(c, func(user *db.User, tariff *db.Tariff, periodDays int) (*purchase.Result, error) {
		return h.Purchases.ExecutePurchase(c.Request.Context(), user, tariff, periodDays)
	})
}

// Extend продлевает подписку на период её текущего тарифа.
func (h *Handlers) Extend(c *gin.Context) {
	var req struct {
		PeriodDays int `json:"period_days" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "period_days обязателен")
		return
	}
	user, err := db.GetUserByID(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	sub, err := db.GetSubscriptionByUserID(user.ID)
	if err != nil {
		respondError(c, http.StatusNotFound, "подписка не оформлена")
		return
	}
	if sub.TariffID == nil {
		respondError(c, http.StatusConflict, "у подписки нет тарифа, выберите новый")
		return
	}
	tariff, err := db.GetTariffByID(*sub.TariffID)
	if err != nil {
		respondError(c, http.StatusConflict, "тариф подписки недоступен")
		return
	}
	result, err := h.Purchases.ExecuteExtend(c.Request.Context(), user, tariff, req.PeriodDays)
	h.respondPurchase(c, result, err)
}

// Switch переводит подписку на другой тариф.
func (h *Handlers) Switch(c *gin.Context) {
	h.runPurchase(c, func(user *db.User, tariff *db.Tariff, periodDays int) (*purchase.Result, error) {
		return h.Purchases.ExecuteSwitch(c.Request.Context(), user, tariff, periodDays)
	})
}

func (h *Handlers) runPurchase(c *gin.Context, exec func(*db.User, *db.Tariff, int) (*purchase.Result, error)) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "tariff_id и period_days обязательны")
		return
	}
	user, err := db.GetUserByID(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	tariff, err := db.GetTariffByID(req.TariffID)
	if err != nil {
		respondError(c, http.StatusNotFound, "тариф не найден")
		return
	}
	result, err := exec(user, tariff, req.PeriodDays)
	h.respondPurchase(c, result, err)
}

func (h *Handlers) respondPurchase(c *gin.Context, result *purchase.Result, err error) {
	if err != nil {
		var verr *purchase.ValidationError
		switch {
		case errors.As(err, &verr):
			respondError(c, http.StatusBadRequest, verr.Reason)
		case errors.Is(err, purchase.ErrInsufficientBalance):
			c.JSON(http.StatusPaymentRequired, gin.H{
				"error":              "недостаточно средств",
				"final_price_kopeks": result.Quote.FinalPriceKopeks,
			})
		case errors.Is(err, purchase.ErrNoSubscription):
			respondError(c, http.StatusNotFound, "подписка не оформлена")
		default:
			respondError(c, http.StatusInternalServerError, "операция не выполнена")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"state":              string(result.State),
		"end_date":           result.Subscription.EndDate,
		"final_price_kopeks": result.Quote.FinalPriceKopeks,
	})
}

// Trial активирует пробную подписку.
func (h *Handlers) Trial(c *gin.Context) {
	user, err := db.GetUserByID(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	sub, err := h.Trials.Activate(c.Request.Context(), user)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTrialUsed):
			respondError(c, http.StatusConflict, "триал уже использован")
		case errors.Is(err, services.ErrTrialUnavailable):
			respondError(c, http.StatusNotFound, "триал недоступен")
		default:
			respondError(c, http.StatusInternalServerError, "внутренняя ошибка")
		}
		return
	}
	c.JSON(http.StatusOK, gin.H{"end_date": sub.EndDate, "is_trial": true})
}

// AddDevices докупает устройства до конца оплаченного цикла
// по пропорциональной цене.
func (h *Handlers) AddDevices(c *gin.Context) {
	var req struct {
		Count int `json:"count" binding:"required,min=1"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "count обязателен")
		return
	}
	h.addResource(c, db.DiscountCategoryDevices, func(tariff *db.Tariff) (int, bool) {
		if tariff.DevicePriceKopeks == nil {
			return 0, false
		}
		return *tariff.DevicePriceKopeks * req.Count, true
	}, func(sub *db.Subscription) error {
		return db.SetDeviceLimit(sub, sub.DeviceLimit+req.Count)
	}, fmt.Sprintf("Докупка устройств: %d", req.Count))
}

// AddSquad подключает дополнительный сервер (страну) с пропорциональной оплатой.
func (h *Handlers) AddSquad(c *gin.Context) {
	var req struct {
		Squad string `json:"squad" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, http.StatusBadRequest, "squad обязателен")
		return
	}
	h.addResource(c, db.DiscountCategoryServers, func(tariff *db.Tariff) (int, bool) {
		if tariff.ServerPriceKopeks == nil {
			return 0, false
		}
		if len(tariff.AllowedSquads) > 0 && !containsString(tariff.AllowedSquads, req.Squad) {
			return 0, false
		}
		return *tariff.ServerPriceKopeks, true
	}, func(sub *db.Subscription) error {
		if containsString(sub.ConnectedSquads, req.Squad) {
			return errors.New("сервер уже подключён")
		}
		return db.SetConnectedSquads(sub, append(sub.ConnectedSquads, req.Squad))
	}, "Подключение сервера "+req.Squad)
}

// addResource — общий путь докупки ресурса: пропорциональная цена от
// остатка цикла, скидка категории, списание, изменение подписки,
// синхронизация с панелью и запись в журнал.
func (h *Handlers) addResource(c *gin.Context, category string, monthly func(*db.Tariff) (int, bool), mutate func(*db.Subscription) error, description string) {
	now := time.Now().UTC()
	user, err := db.GetUserByID(currentUserID(c))
	if err != nil {
		respondError(c, http.StatusNotFound, "пользователь не найден")
		return
	}
	sub, err := db.GetSubscriptionByUserID(user.ID)
	if err != nil {
		respondError(c, http.StatusNotFound, "подписка не оформлена")
		return
	}
	if sub.Status != db.SubscriptionActive {
		respondError(c, http.StatusConflict, "подписка не активна")
		return
	}
	if sub.TariffID == nil {
		respondError(c, http.StatusConflict, "у подписки нет тарифа")
		return
	}
	tariff, err := db.GetTariffByID(*sub.TariffID)
	if err != nil {
		respondError(c, http.StatusConflict, "тариф подписки недоступен")
		return
	}
	monthlyPrice, ok := monthly(tariff)
	if !ok {
		respondError(c, http.StatusConflict, "докупка недоступна для этого тарифа")
		return
	}

	base, months := pricing.ProratedPrice(monthlyPrice, sub.EndDate, now)
	discount := pricing.ResolveDiscount(user, category, 0, now)
	final := pricing.ApplyDiscount(base, discount)

	if err := db.SubtractBalance(user.ID, final, description); err != nil {
		if errors.Is(err, db.ErrInsufficientFunds) {
			c.JSON(http.StatusPaymentRequired, gin.H{"error": "недостаточно средств", "final_price_kopeks": final})
			return
		}
		respondError(c, http.StatusInternalServerError, "операция не выполнена")
		return
	}
	if err := mutate(sub); err != nil {
		logger.NotifyAdmin(fmt.Sprintf("Докупка не применена после списания (пользователь %d, %d коп.): %v", user.ID, final, err))
		respondError(c, http.StatusInternalServerError, "операция не выполнена")
		return
	}
	if h.Panel != nil {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		if err := h.Panel.SyncUser(ctx, user, sub, false, description); err != nil {
			logger.NotifyAdmin(fmt.Sprintf("Синхронизация с панелью не удалась (пользователь %d): %v", user.ID, err))
		}
		cancel()
	}
	if err := db.CreateTransaction(user.ID, db.TransactionSubscriptionPayment, -final, description); err != nil {
		logger.NotifyAdmin("Не записана транзакция докупки: " + err.Error())
	}

	c.JSON(http.StatusOK, gin.H{
		"charged_kopeks":   final,
		"charged_months":   months,
		"discount_percent": discount,
	})
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
