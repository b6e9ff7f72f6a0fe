package admin

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
)

var AdminTelegramID int64

// SetAdmin задаёт Telegram ID администратора. Вызывается один раз из main.
func SetAdmin(id int64) {
	AdminTelegramID = id
}

func IsAdmin(userID int64) bool {
	return userID == AdminTelegramID
}

func HandleAdminCommand(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	if update.Message == nil || update.Message.From.ID != AdminTelegramID {
		return
	}
	cmd := update.Message.Command()
	switch cmd {
	case "admin_stats":
		handleStats(bot, update)
	case "admin_tariffs":
		handleTariffs(bot, update)
	case "admin_addtariff":
		handleAddTariff(bot, update)
	case "admin_deltariff":
		handleDelTariff(bot, update)
	case "admin_tariff_active":
		handleTariffActive(bot, update)
	case "admin_tariff_prices":
		handleTariffPrices(bot, update)
	case "admin_apps":
		handleApps(bot, update)
	case "admin_addapp":
		handleAddApp(bot, update)
	case "admin_delapp":
		handleDelApp(bot, update)
	case "admin_app_active":
		handleAppActive(bot, update)
	case "admin_settrial":
		handleSetTrial(bot, update)
	case "admin_groups":
		handleGroups(bot, update)
	case "admin_addgroup":
		handleAddGroup(bot, update)
	case "admin_delgroup":
		handleDelGroup(bot, update)
	case "admin_setgroup":
		handleSetGroup(bot, update)
	case "admin_offer":
		handleOffer(bot, update)
	case "admin_payments":
		handlePayments(bot, update)
	case "admin_tickets":
		handleTickets(bot, update)
	case "admin_ticket":
		handleTicket(bot, update)
	case "admin_reply":
		handleReply(bot, update)
	case "admin_close":
		handleClose(bot, update)
	case "admin_broadcast":
		handleBroadcast(bot, update)
	case "admin_backup":
		handleBackup(bot, update)
	case "admin_restore":
		handleRestore(bot, update)
	}
	logger.LogAdminAction(AdminTelegramID, cmd, update.Message.Text)
}

func handleStats(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	users := db.CountUsers()
	activeSubs := db.CountActiveSubscriptions()
	now := time.Now()
	today := db.SumDeposits(now.Truncate(24*time.Hour), now)
	month := db.SumDeposits(now.AddDate(0, 0, -30), now)
	all := db.SumDeposits(time.Time{}, now)
	msg := fmt.Sprintf(
		"Пользователей: %d\nАктивных подписок: %d\nПополнения: сегодня: %.2f₽, месяц: %.2f₽, всего: %.2f₽",
		users, activeSubs, float64(today)/100, float64(month)/100, float64(all)/100)
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msg))
}

func handleTariffs(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	tariffs, err := db.GetAllTariffs(true)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	var sb strings.Builder
	sb.WriteString("Тарифы:\n")
	for i := range tariffs {
		t := &tariffs[i]
		subs := db.CountTariffSubscriptions(t.ID)
		sb.WriteString(fmt.Sprintf("ID: %d, %s, активен: %v, триал: %v, подписок: %d\n  Цены: %s\n",
			t.ID, t.Name, t.IsActive, t.IsTrialAvailable, subs, formatPeriodPrices(t.PeriodPrices)))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

// handleAddTariff: /admin_addtariff <Name> <TrafficGB> <Devices> <30:9900,90:26900> <is_active(0/1)>
func handleAddTariff(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 5 {
		msg := "Использование: /admin_addtariff <Name> <TrafficGB> <Devices> <30:9900,90:26900> <is_active(0/1)>"
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msg))
		return
	}
	traffic, err1 := strconv.Atoi(args[1])
	devices, err2 := strconv.Atoi(args[2])
	prices, err3 := parsePeriodPrices(args[3])
	if err1 != nil || err2 != nil || err3 != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: трафик и устройства — целые числа, цены — период:копейки через запятую"))
		return
	}
	tariff := &db.Tariff{
		Name:           args[0],
		TrafficLimitGB: traffic,
		DeviceLimit:    devices,
		PeriodPrices:   prices,
		IsActive:       args[4] == "1",
	}
	if err := db.CreateTariff(tariff); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка добавления тарифа: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf("Тариф добавлен: %s (ID %d)", tariff.Name, tariff.ID)))
}

func handleDelTariff(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 1 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Укажите ID тарифа"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	tariff, err := db.GetTariffByID(uint(id))
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Тариф не найден"))
		return
	}
	affected, err := db.DeleteTariff(tariff)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка удаления: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID,
		fmt.Sprintf("Тариф удалён. Подписок осталось без тарифа: %d", affected)))
}

func handleTariffActive(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 2 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_tariff_active <id> <0/1>"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	tariff, err := db.GetTariffByID(uint(id))
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Тариф не найден"))
		return
	}
	if err := db.SetTariffActive(tariff, args[1] == "1"); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Готово"))
}

// handleTariffPrices: /admin_tariff_prices <id> <30:9900,90:26900>
// Таблица цен заменяется целиком.
func handleTariffPrices(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 2 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_tariff_prices <id> <30:9900,90:26900>"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	prices, err := parsePeriodPrices(args[1])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка разбора цен: "+err.Error()))
		return
	}
	tariff, err := db.GetTariffByID(uint(id))
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Тариф не найден"))
		return
	}
	if err := db.ReplaceTariffPrices(tariff, prices); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Цены обновлены: "+formatPeriodPrices(prices)))
}

func handleApps(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	apps, err := db.GetApps(true)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	if len(apps) == 0 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Каталог приложений пуст"))
		return
	}
	var sb strings.Builder
	sb.WriteString("Приложения:\n")
	for _, a := range apps {
		sb.WriteString(fmt.Sprintf("ID: %d, [%s] %s, активно: %v\n  %s\n",
			a.ID, a.Platform, a.Name, a.IsActive, a.DownloadURL))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

// handleAddApp: /admin_addapp <platform> <url> <название>
func handleAddApp(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 3 {
		msg := "Использование: /admin_addapp <platform> <url> <название>\nПлатформы: " + strings.Join(db.AppPlatforms, ", ")
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, msg))
		return
	}
	platform := strings.ToLower(args[0])
	if !db.ValidAppPlatform(platform) {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Неизвестная платформа. Доступны: "+strings.Join(db.AppPlatforms, ", ")))
		return
	}
	app := &db.App{
		Platform:    platform,
		DownloadURL: args[1],
		Name:        strings.Join(args[2:], " "),
		IsActive:    true,
	}
	if err := db.CreateApp(app); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка добавления приложения: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf("Приложение добавлено: %s (ID %d)", app.Name, app.ID)))
}

func handleDelApp(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 1 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Укажите ID приложения"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	app, err := db.GetAppByID(uint(id))
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Приложение не найдено"))
		return
	}
	if err := db.DeleteApp(app); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка удаления: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Приложение удалено"))
}

func handleAppActive(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 2 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_app_active <id> <0/1>"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	app, err := db.GetAppByID(uint(id))
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Приложение не найдено"))
		return
	}
	if err := db.SetAppActive(app, args[1] == "1"); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Готово"))
}

func handleSetTrial(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 1 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Укажите ID тарифа для триала"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	if err := db.SetTrialTariff(uint(id)); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Триальный тариф назначен"))
}

func handleGroups(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	groups, err := db.GetAllPromoGroups()
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	var sb strings.Builder
	sb.WriteString("Промогруппы:\n")
	for _, g := range groups {
		sb.WriteString(fmt.Sprintf("ID: %d, %s, серверы: %d%%, трафик: %d%%, устройства: %d%%, периоды: %v\n",
			g.ID, g.Name, g.ServerDiscountPercent, g.TrafficDiscountPercent, g.DeviceDiscountPercent, g.PeriodDiscounts))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

// handleAddGroup: /admin_addgroup <name> <servers%> <traffic%> <devices%> [30:10,90:20]
func handleAddGroup(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 4 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_addgroup <name> <servers%> <traffic%> <devices%> [30:10,90:20]"))
		return
	}
	servers, err1 := strconv.Atoi(args[1])
	traffic, err2 := strconv.Atoi(args[2])
	devices, err3 := strconv.Atoi(args[3])
	if err1 != nil || err2 != nil || err3 != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: проценты должны быть целыми числами"))
		return
	}
	group := &db.PromoGroup{
		Name:                   args[0],
		ServerDiscountPercent:  servers,
		TrafficDiscountPercent: traffic,
		DeviceDiscountPercent:  devices,
	}
	if len(args) >= 5 {
		periods, err := parsePeriodPrices(args[4])
		if err != nil {
			bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка разбора скидок по периодам"))
			return
		}
		group.PeriodDiscounts = periods
	}
	if err := db.CreatePromoGroup(group); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка создания группы: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf("Группа создана: %s (ID %d)", group.Name, group.ID)))
}

func handleDelGroup(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 1 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Укажите ID группы"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	group, err := db.GetPromoGroupByID(uint(id))
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Группа не найдена"))
		return
	}
	if err := db.DeletePromoGroup(group); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка удаления: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Группа удалена"))
}

// handleSetGroup: /admin_setgroup <telegramID> <groupID|0>
func handleSetGroup(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 2 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_setgroup <telegramID> <groupID|0>"))
		return
	}
	telegramID, err1 := strconv.ParseInt(args[0], 10, 64)
	groupID, err2 := strconv.Atoi(args[1])
	if err1 != nil || err2 != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректные аргументы"))
		return
	}
	user, err := db.FindOrCreateByTelegramID(telegramID)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Пользователь не найден"))
		return
	}
	var gid *uint
	if groupID > 0 {
		if _, err := db.GetPromoGroupByID(uint(groupID)); err != nil {
			bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Группа не найдена"))
			return
		}
		g := uint(groupID)
		gid = &g
	}
	if err := db.SetUserPromoGroup(user, gid); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Группа пользователя обновлена"))
}

// handleOffer: /admin_offer <telegramID> <percent> <valid_hours> [active_hours]
func handleOffer(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 3 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_offer <telegramID> <percent> <valid_hours> [active_hours]"))
		return
	}
	telegramID, err1 := strconv.ParseInt(args[0], 10, 64)
	percent, err2 := strconv.Atoi(args[1])
	validHours, err3 := strconv.Atoi(args[2])
	if err1 != nil || err2 != nil || err3 != nil || percent <= 0 || percent > 100 || validHours <= 0 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректные аргументы"))
		return
	}
	activeHours := 0
	if len(args) >= 4 {
		activeHours, _ = strconv.Atoi(args[3])
	}
	user, err := db.FindOrCreateByTelegramID(telegramID)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Пользователь не найден"))
		return
	}
	offer := &db.DiscountOffer{
		UserID:              user.ID,
		NotificationType:    "admin_grant",
		EffectType:          db.OfferEffectPercentDiscount,
		DiscountPercent:     percent,
		ActiveDiscountHours: activeHours,
		ExpiresAt:           time.Now().UTC().Add(time.Duration(validHours) * time.Hour),
		IsActive:            true,
	}
	if err := db.CreateOffer(offer); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка создания оффера: "+err.Error()))
		return
	}
	// Сразу уведомляем пользователя о предложении
	bot.Send(tgbotapi.NewMessage(telegramID,
		fmt.Sprintf("🎁 Вам доступна персональная скидка %d%%! Активировать: /promo", percent)))
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Оффер создан и отправлен пользователю"))
}

func handlePayments(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	payments, err := db.GetPayments(20)
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	var sb strings.Builder
	sb.WriteString("Последние платежи:\n")
	for _, p := range payments {
		sb.WriteString(fmt.Sprintf("ID: %d, User: %d, %s, %.2f₽, %s\n",
			p.ID, p.UserID, p.Gateway, float64(p.AmountKopeks)/100, p.Status))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

func handleTickets(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	tickets, err := db.GetOpenTickets()
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	if len(tickets) == 0 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Открытых тикетов нет"))
		return
	}
	var sb strings.Builder
	sb.WriteString("Открытые тикеты:\n")
	for _, t := range tickets {
		sb.WriteString(fmt.Sprintf("#%d [user %d] %s (обновлён %s)\n",
			t.ID, t.UserID, t.Subject, t.UpdatedAt.Format("02.01 15:04")))
	}
	sb.WriteString("\nПросмотр: /admin_ticket <id>, ответ: /admin_reply <id> <текст>")
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

func handleTicket(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 1 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Укажите ID тикета"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	ticket, err := db.GetTicketByID(uint(id))
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Тикет не найден"))
		return
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("#%d [%s] %s\n\n", ticket.ID, ticket.Status, ticket.Subject))
	for _, m := range ticket.Messages {
		author := "Пользователь"
		if m.FromAdmin {
			author = "Админ"
		}
		sb.WriteString(fmt.Sprintf("%s (%s):\n%s\n\n", author, m.CreatedAt.Format("02.01 15:04"), m.Body))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, sb.String()))
}

func handleReply(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.SplitN(update.Message.CommandArguments(), " ", 2)
	if len(args) < 2 || strings.TrimSpace(args[1]) == "" {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_reply <id> <текст>"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	ticket, err := db.GetTicketByID(uint(id))
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Тикет не найден"))
		return
	}
	if err := db.AddTicketMessage(ticket, strings.TrimSpace(args[1]), true); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	// Уведомляем пользователя, если он приходил из Telegram
	if user, err := db.GetUserByID(ticket.UserID); err == nil && user.TelegramID != nil {
		bot.Send(tgbotapi.NewMessage(*user.TelegramID,
			fmt.Sprintf("Ответ поддержки по тикету #%d:\n%s", ticket.ID, strings.TrimSpace(args[1]))))
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ответ отправлен"))
}

func handleClose(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 1 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Укажите ID тикета"))
		return
	}
	id, err := strconv.Atoi(args[0])
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Некорректный ID"))
		return
	}
	ticket, err := db.GetTicketByID(uint(id))
	if err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Тикет не найден"))
		return
	}
	if err := db.CloseTicket(ticket); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Тикет закрыт"))
}

func handleBroadcast(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	text := strings.TrimSpace(update.Message.CommandArguments())
	if text == "" {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Использование: /admin_broadcast <текст рассылки>"))
		return
	}
	var ids []int64
	if err := db.DB.Model(&db.User{}).Where("telegram_id IS NOT NULL").Pluck("telegram_id", &ids).Error; err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка выборки пользователей: "+err.Error()))
		return
	}
	sent := 0
	for _, id := range ids {
		if _, err := bot.Send(tgbotapi.NewMessage(id, text)); err == nil {
			sent++
		}
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, fmt.Sprintf("Рассылка отправлена: %d из %d", sent, len(ids))))
}

func handleBackup(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	backupDir := "backups"
	os.MkdirAll(backupDir, 0o755)
	filename := filepath.Join(backupDir, "backup_"+time.Now().Format("20060102_150405")+".dump")
	dsn := os.Getenv("DATABASE_URL")
	if err := BackupDatabase(filename, dsn); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка резервного копирования: "+err.Error()))
		return
	}
	// Отправить файл админу
	file := tgbotapi.NewDocument(update.Message.Chat.ID, tgbotapi.FilePath(filename))
	file.Caption = "Резервная копия БД успешно создана"
	bot.Send(file)
	_ = os.Remove(filename)
}

func handleRestore(bot *tgbotapi.BotAPI, update *tgbotapi.Update) {
	backupDir := "backups"
	args := strings.Fields(update.Message.CommandArguments())
	if len(args) < 1 {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Укажите имя файла для восстановления"))
		return
	}
	filename := filepath.Join(backupDir, args[0])
	dsn := os.Getenv("DATABASE_URL")
	if err := RestoreDatabase(filename, dsn); err != nil {
		bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Ошибка восстановления: "+err.Error()))
		return
	}
	bot.Send(tgbotapi.NewMessage(update.Message.Chat.ID, "Восстановление успешно завершено из файла: "+args[0]))
}

// parsePeriodPrices разбирает строку вида "30:9900,90:26900" в таблицу период->копейки.
func parsePeriodPrices(s string) (map[string]int, error) {
	out := make(map[string]int)
	for _, pair := range strings.Split(s, ",") {
		parts := strings.SplitN(pair, ":", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("некорректная пара %q", pair)
		}
		days, err := strconv.Atoi(parts[0])
		if err != nil || days <= 0 {
			return nil, fmt.Errorf("некорректный период %q", parts[0])
		}
		price, err := strconv.Atoi(parts[1])
		if err != nil || price < 0 {
			return nil, fmt.Errorf("некорректная цена %q", parts[1])
		}
		out[parts[0]] = price
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("пустая таблица цен")
	}
	return out, nil
}

func formatPeriodPrices(prices map[string]int) string {
	var parts []string
	for days, price := range prices {
		parts = append(parts, fmt.Sprintf("%s дн. — %.2f₽", days, float64(price)/100))
	}
	return strings.Join(parts, ", ")
}
