package bot

import (
	"log"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"VPN-Shop-bot/internal/cart"
	"VPN-Shop-bot/internal/purchase"
	"VPN-Shop-bot/internal/services"
)

// Deps — сервисы, которыми пользуются обработчики бота.
type Deps struct {
	Purchase *purchase.Service
	Payments *services.PaymentService
	Trial    *services.TrialService
	Cart     *cart.Store
}

var deps *Deps

// Init сохраняет зависимости обработчиков. Вызывается один раз из main.
func Init(d *Deps) {
	deps = d
}

// StartBotWithInstance запускает Telegram-бота с переданным экземпляром
func StartBotWithInstance(bot *tgbotapi.BotAPI) {
	log.Printf("Authorized on account %s", bot.Self.UserName)

	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := bot.GetUpdatesChan(u)

	for update := range updates {
		HandleUpdate(bot, update)
	}
}
