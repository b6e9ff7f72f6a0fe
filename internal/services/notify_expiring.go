package services

import (
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
)

// NotifyExpiringSubscriptions отправляет уведомления пользователям о скором окончании подписки
func NotifyExpiringSubscriptions(bot *tgbotapi.BotAPI, daysBefore int) {
	subs, err := db.GetExpiringSubscriptions(time.Now().UTC(), daysBefore)
	if err != nil {
		logger.NotifyAdmin("Ошибка поиска истекающих подписок: " + err.Error())
		return
	}
	for _, sub := range subs {
		user, err := db.GetUserByID(sub.UserID)
		if err != nil {
			logger.NotifyAdmin(fmt.Sprintf("Не удалось найти пользователя для уведомления: subID=%d", sub.ID))
			continue
		}
		if user.TelegramID == nil {
			continue
		}
		days := sub.RemainingDays(time.Now().UTC())
		msg := tgbotapi.NewMessage(*user.TelegramID,
			fmt.Sprintf("Ваша подписка истекает через %d дн. Продлить можно в разделе «Подписка».", days))
		if _, err := bot.Send(msg); err != nil {
			logger.NotifyAdmin(fmt.Sprintf("Ошибка отправки уведомления пользователю %d: %v", user.ID, err))
		}
	}
}
