package services

import (
	"context"
	"fmt"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
	"VPN-Shop-bot/internal/remnawave"
)

// DisableExpiredSubscriptions помечает просроченные подписки, отключает
// их в панели и уведомляет пользователей
func DisableExpiredSubscriptions(bot *tgbotapi.BotAPI, panel *remnawave.Client) {
	subs, err := db.ExpireSubscriptions(time.Now().UTC())
	if err != nil {
		logger.NotifyAdmin("Ошибка поиска просроченных подписок: " + err.Error())
		return
	}
	for _, sub := range subs {
		user, err := db.GetUserByID(sub.UserID)
		if err != nil {
			logger.NotifyAdmin(fmt.Sprintf("Не удалось найти пользователя просроченной подписки: subID=%d", sub.ID))
			continue
		}
		if panel != nil {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			if err := panel.DisableUser(ctx, user); err != nil {
				logger.NotifyAdmin(fmt.Sprintf("Не удалось отключить пользователя %d в панели: %v", user.ID, err))
			}
			cancel()
		}
		if user.TelegramID != nil {
			msg := tgbotapi.NewMessage(*user.TelegramID, "Ваша подписка завершена, для продления воспользуйтесь ботом")
			_, _ = bot.Send(msg)
		}
	}
	if len(subs) > 0 {
		logger.Info(fmt.Sprintf("Отключено просроченных подписок: %d", len(subs)))
	}
}
