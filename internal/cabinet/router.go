package cabinet

import (
	"github.com/gin-gonic/gin"

	"VPN-Shop-bot/internal/purchase"
	"VPN-Shop-bot/internal/remnawave"
	"VPN-Shop-bot/internal/services"
)

// Handlers — обработчики кабинета и их зависимости.
type Handlers struct {
	Tokens    *TokenManager
	Codes     *VerificationCodes
	Mailer    EmailSender
	Purchases *purchase.Service
	Payments  *services.PaymentService
	Trials    *services.TrialService
	Panel     *remnawave.Client
}

// NewRouter собирает маршруты веб-кабинета.
func NewRouter(h *Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	auth := r.Group("/cabinet/auth")
	{
		auth.POST("/register", h.Register)
		auth.POST("/verify", h.VerifyEmail)
		auth.POST("/login", h.Login)
		auth.GET("/me", AuthMiddleware(h.Tokens), h.Me)
	}

	api := r.Group("/cabinet", AuthMiddleware(h.Tokens))
	{
		api.GET("/tariffs", h.Tariffs)
		api.GET("/apps", h.Apps)

		api.GET("/subscription", h.Subscription)
		api.POST("/subscription/purchase", h.Purchase)
		api.POST("/subscription/extend", h.Extend)
		api.POST("/subscription/switch", h.Switch)
		api.POST("/subscription/trial", h.Trial)
		api.POST("/subscription/devices", h.AddDevices)
		api.POST("/subscription/squads", h.AddSquad)

		api.GET("/balance", h.Balance)
		api.POST("/balance/topup", h.Topup)
		api.GET("/balance/transactions", h.Transactions)

		api.GET("/promo/offers", h.Offers)
		api.POST("/promo/claim", h.ClaimOffer)
		api.GET("/promo/discount", h.ActiveDiscount)

		api.POST("/tickets", h.CreateTicket)
		api.GET("/tickets", h.Tickets)
		api.GET("/tickets/:id", h.Ticket)
		api.POST("/tickets/:id/reply", h.ReplyTicket)
		api.POST("/tickets/:id/close", h.CloseTicket)
	}

	return r
}
