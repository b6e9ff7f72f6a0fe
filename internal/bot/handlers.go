package bot

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"VPN-Shop-bot/internal/admin"
	"VPN-Shop-bot/internal/cart"
	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/pricing"
	"VPN-Shop-bot/internal/purchase"
	"VPN-Shop-bot/internal/services"
)

var rateLimiter = NewRateLimiter()

// Суммы быстрого пополнения, в копейках
var topupAmounts = []int{300 * 100, 500 * 100, 1000 * 100}

func HandleUpdate(botapi *tgbotapi.BotAPI, update tgbotapi.Update) {
	if update.CallbackQuery != nil {
		handleCallback(botapi, update.CallbackQuery)
		return
	}
	if update.Message == nil || update.Message.From == nil {
		return
	}

	// Регистрируем/находим пользователя при любом сообщении
	user, err := db.FindOrCreateByTelegramID(update.Message.From.ID)
	if err != nil {
		log.Printf("find or create user: %v", err)
		return
	}

	userID := update.Message.From.ID
	chatID := update.Message.Chat.ID
	text := update.Message.Text
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return
	}
	cmd := fields[0]
	if !admin.IsAdmin(userID) && rateLimiter.IsLimited(userID, cmd) {
		msg := tgbotapi.NewMessage(chatID, "Пожалуйста, не так быстро! Подождите пару секунд...")
		msg.ReplyMarkup = GetReplyKeyboard(userID)
		botapi.Send(msg)
		return
	}
	keyboard := GetReplyKeyboard(userID)
	// Вызов обработчика админ-команд
	if admin.IsAdmin(userID) && strings.HasPrefix(text, "/admin_") {
		admin.HandleAdminCommand(botapi, &update)
		return
	}

	switch {
	case strings.HasPrefix(text, "/start"):
		msg := tgbotapi.NewMessage(chatID, "Добро пожаловать! Для покупки подписки используйте /buy, для пробного доступа — /trial")
		msg.ReplyMarkup = keyboard
		botapi.Send(msg)
	case strings.HasPrefix(text, "/buy"):
		sendTariffList(botapi, chatID, user, cart.ActionPurchase)
	case strings.HasPrefix(text, "/subscription"):
		sendSubscription(botapi, chatID, user)
	case strings.HasPrefix(text, "/balance"):
		sendBalance(botapi, chatID, user)
	case strings.HasPrefix(text, "/trial"):
		activateTrial(botapi, chatID, user)
	case strings.HasPrefix(text, "/promo"):
		sendOffers(botapi, chatID, user)
	case strings.HasPrefix(text, "/support"):
		msg := tgbotapi.NewMessage(chatID, "Поддержка: опишите проблему в веб-кабинете (раздел «Тикеты») или напишите администратору.")
		msg.ReplyMarkup = keyboard
		botapi.Send(msg)
	case strings.HasPrefix(text, "/help"):
		helpText := `Доступные команды:
/buy — Купить или сменить подписку
/subscription — Моя подписка
/trial — Пробный доступ
/balance — Баланс и пополнение
/promo — Мои промо-предложения
/support — Связаться с поддержкой
/help — Показать эту справку

Покупка: /buy → выберите тариф и период → подтвердите списание с баланса.
Пополнение: /balance → выберите способ и сумму → оплатите по ссылке.`
		msg := tgbotapi.NewMessage(chatID, helpText)
		msg.ReplyMarkup = keyboard
		botapi.Send(msg)
	default:
		msg := tgbotapi.NewMessage(chatID, "Неизвестная команда. Используйте /help для списка всех возможностей.")
		msg.ReplyMarkup = keyboard
		botapi.Send(msg)
	}
}

func handleCallback(botapi *tgbotapi.BotAPI, cq *tgbotapi.CallbackQuery) {
	user, err := db.FindOrCreateByTelegramID(cq.From.ID)
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(cq.ID, "Внутренняя ошибка"))
		return
	}
	chatID := cq.Message.Chat.ID
	data := cq.Data

	switch {
	case strings.HasPrefix(data, "tariff_select:"):
		id, err := strconv.Atoi(strings.TrimPrefix(data, "tariff_select:"))
		if err != nil {
			botapi.Request(tgbotapi.NewCallback(cq.ID, "Ошибка выбора тарифа"))
			return
		}
		deps.Cart.Put(user.ID, cart.Draft{Action: cart.ActionPurchase, TariffID: uint(id)})
		sendPeriodList(botapi, chatID, cq.ID, user, uint(id))
	case strings.HasPrefix(data, "switch_select:"):
		id, err := strconv.Atoi(strings.TrimPrefix(data, "switch_select:"))
		if err != nil {
			botapi.Request(tgbotapi.NewCallback(cq.ID, "Ошибка выбора тарифа"))
			return
		}
		deps.Cart.Put(user.ID, cart.Draft{Action: cart.ActionSwitch, TariffID: uint(id)})
		sendPeriodList(botapi, chatID, cq.ID, user, uint(id))
	case strings.HasPrefix(data, "tariff_period:"):
		days, err := strconv.Atoi(strings.TrimPrefix(data, "tariff_period:"))
		if err != nil {
			botapi.Request(tgbotapi.NewCallback(cq.ID, "Ошибка выбора периода"))
			return
		}
		if !deps.Cart.Update(user.ID, func(d *cart.Draft) { d.PeriodDays = days }) {
			botapi.Request(tgbotapi.NewCallback(cq.ID, "Выбор устарел, начните заново: /buy"))
			return
		}
		sendConfirmation(botapi, chatID, cq.ID, user)
	case data == "extend_menu":
		startExtend(botapi, chatID, cq.ID, user)
	case data == "switch_menu":
		sendTariffList(botapi, chatID, user, cart.ActionSwitch)
		botapi.Request(tgbotapi.NewCallback(cq.ID, ""))
	case data == "tariff_confirm":
		confirmPurchase(botapi, chatID, cq.ID, user)
	case data == "cancel":
		deps.Cart.Clear(user.ID)
		botapi.Request(tgbotapi.NewCallback(cq.ID, "Отменено"))
		botapi.Send(tgbotapi.NewMessage(chatID, "Покупка отменена."))
	case data == "topup_menu":
		sendTopupGateways(botapi, chatID, cq.ID)
	case strings.HasPrefix(data, "topup_gw:"):
		sendTopupAmounts(botapi, chatID, cq.ID, strings.TrimPrefix(data, "topup_gw:"))
	case strings.HasPrefix(data, "topup_amt:"):
		createTopup(botapi, chatID, cq.ID, user, strings.TrimPrefix(data, "topup_amt:"))
	case strings.HasPrefix(data, "offer_claim:"):
		claimOffer(botapi, chatID, cq.ID, user, strings.TrimPrefix(data, "offer_claim:"))
	default:
		botapi.Request(tgbotapi.NewCallback(cq.ID, ""))
	}
}

// sendTariffList показывает тарифы, доступные пользователю.
func sendTariffList(botapi *tgbotapi.BotAPI, chatID int64, user *db.User, action string) {
	tariffs, err := db.GetTariffsForUser(user.PromoGroupID)
	if err != nil || len(tariffs) == 0 {
		botapi.Send(tgbotapi.NewMessage(chatID, "Сейчас нет доступных тарифов. Попробуйте позже или напишите /support."))
		return
	}
	prefix := "tariff_select:"
	if action == cart.ActionSwitch {
		prefix = "switch_select:"
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for i := range tariffs {
		t := &tariffs[i]
		label := fmt.Sprintf("%s — %s, %d устр.", t.Name, formatTraffic(t.TrafficLimitGB), t.DeviceLimit)
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, prefix+strconv.Itoa(int(t.ID))),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Выберите тариф:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	botapi.Send(msg)
}

// sendPeriodList показывает периоды тарифа с ценами и скидкой пользователя.
func sendPeriodList(botapi *tgbotapi.BotAPI, chatID int64, callbackID string, user *db.User, tariffID uint) {
	tariff, err := db.GetTariffByID(tariffID)
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Тариф не найден"))
		return
	}
	now := time.Now().UTC()
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, days := range pricing.Periods(tariff) {
		base, _ := pricing.PriceForPeriod(tariff, days)
		discount := pricing.ResolveDiscount(user, db.DiscountCategoryPeriod, days, now)
		final := pricing.ApplyDiscount(base, discount)
		label := formatPeriod(days) + " — " + formatPriceKopeks(final)
		if discount > 0 {
			label += fmt.Sprintf(" (-%d%%)", discount)
		}
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(label, "tariff_period:"+strconv.Itoa(days)),
		))
	}
	if len(rows) == 0 {
		botapi.Request(tgbotapi.NewCallback(callbackID, "У тарифа нет периодов"))
		return
	}
	msg := tgbotapi.NewMessage(chatID, "Тариф «"+tariff.Name+"». Выберите период:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	botapi.Send(msg)
	botapi.Request(tgbotapi.NewCallback(callbackID, ""))
}

// sendConfirmation показывает итоговую цену и кнопку подтверждения.
func sendConfirmation(botapi *tgbotapi.BotAPI, chatID int64, callbackID string, user *db.User) {
	draft, ok := deps.Cart.Get(user.ID)
	if !ok {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Выбор устарел, начните заново: /buy"))
		return
	}
	tariff, err := db.GetTariffByID(draft.TariffID)
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Тариф не найден"))
		return
	}
	quote, err := deps.Purchase.BuildQuote(user, tariff, draft.PeriodDays)
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Ошибка расчёта цены"))
		return
	}

	var text strings.Builder
	switch draft.Action {
	case cart.ActionExtend:
		text.WriteString("Продление подписки\n")
	case cart.ActionSwitch:
		text.WriteString("Смена тарифа\n")
	default:
		text.WriteString("Покупка подписки\n")
	}
	text.WriteString("Тариф: " + tariff.Name + "\n")
	text.WriteString("Период: " + formatPeriod(quote.PeriodDays) + "\n")
	if quote.DiscountPercent > 0 {
		text.WriteString("Цена: " + formatPriceKopeks(quote.BasePriceKopeks) + "\n")
		text.WriteString(fmt.Sprintf("Скидка: %d%%\n", quote.DiscountPercent))
	}
	text.WriteString("К списанию с баланса: " + formatPriceKopeks(quote.FinalPriceKopeks) + "\n")
	text.WriteString("Ваш баланс: " + formatPriceKopeks(user.BalanceKopeks))
	if draft.Action == cart.ActionSwitch {
		if sub, err := db.GetSubscriptionByUserID(user.ID); err == nil {
			remaining := sub.RemainingDays(time.Now().UTC())
			added := quote.PeriodDays - remaining
			if added < 0 {
				added = 0
			}
			text.WriteString(fmt.Sprintf("\nОстаток дней: %d, будет добавлено: %d", remaining, added))
		}
	}

	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("✅ Подтвердить", "tariff_confirm"),
			tgbotapi.NewInlineKeyboardButtonData("❌ Отмена", "cancel"),
		),
	)
	botapi.Send(msg)
	botapi.Request(tgbotapi.NewCallback(callbackID, ""))
}

// confirmPurchase выполняет покупку по черновику из корзины.
func confirmPurchase(botapi *tgbotapi.BotAPI, chatID int64, callbackID string, user *db.User) {
	draft, ok := deps.Cart.Get(user.ID)
	if !ok {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Выбор устарел, начните заново: /buy"))
		return
	}
	tariff, err := db.GetTariffByID(draft.TariffID)
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Тариф не найден"))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	var result *purchase.Result
	switch draft.Action {
	case cart.ActionExtend:
		result, err = deps.Purchase.ExecuteExtend(ctx, user, tariff, draft.PeriodDays)
	case cart.ActionSwitch:
		result, err = deps.Purchase.ExecuteSwitch(ctx, user, tariff, draft.PeriodDays)
	default:
		result, err = deps.Purchase.ExecutePurchase(ctx, user, tariff, draft.PeriodDays)
	}

	if err != nil {
		if errors.Is(err, purchase.ErrInsufficientBalance) {
			// Восстановимое состояние: после пополнения покупку можно повторить
			text := "Недостаточно средств.\nК списанию: " + formatPriceKopeks(result.Quote.FinalPriceKopeks) +
				"\nВаш баланс: " + formatPriceKopeks(user.BalanceKopeks) +
				"\nПополните баланс и подтвердите покупку ещё раз."
			msg := tgbotapi.NewMessage(chatID, text)
			msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
				tgbotapi.NewInlineKeyboardRow(
					tgbotapi.NewInlineKeyboardButtonData("💳 Пополнить баланс", "topup_menu"),
					tgbotapi.NewInlineKeyboardButtonData("Повторить", "tariff_confirm"),
				),
			)
			botapi.Send(msg)
			botapi.Request(tgbotapi.NewCallback(callbackID, "Недостаточно средств"))
			return
		}
		var verr *purchase.ValidationError
		if errors.As(err, &verr) {
			botapi.Request(tgbotapi.NewCallback(callbackID, "Ошибка: "+verr.Reason))
			return
		}
		botapi.Request(tgbotapi.NewCallback(callbackID, "Операция не выполнена, попробуйте позже"))
		return
	}

	text := "✅ Готово! Подписка действует до " + result.Subscription.EndDate.Format("02.01.2006") +
		"\nСписано: " + formatPriceKopeks(result.Quote.FinalPriceKopeks)
	if result.Subscription.SubscriptionURL != "" {
		text += "\nСсылка подключения: " + result.Subscription.SubscriptionURL
	}
	if result.SyncErr != nil {
		text += "\n\nНастройка доступа занимает несколько минут, ссылка появится в /subscription."
	}
	botapi.Send(tgbotapi.NewMessage(chatID, text))
	botapi.Request(tgbotapi.NewCallback(callbackID, "Оплачено"))
}

// sendSubscription показывает состояние подписки с кнопками продления и смены тарифа.
func sendSubscription(botapi *tgbotapi.BotAPI, chatID int64, user *db.User) {
	sub, err := db.GetSubscriptionByUserID(user.ID)
	if err != nil {
		botapi.Send(tgbotapi.NewMessage(chatID, "У вас нет подписки. Для покупки используйте /buy, для пробного доступа — /trial."))
		return
	}
	var text strings.Builder
	text.WriteString("Ваша подписка:\n")
	text.WriteString("Статус: " + sub.Status)
	if sub.IsTrial {
		text.WriteString(" (триал)")
	}
	text.WriteString("\nДействует до: " + sub.EndDate.Format("02.01.2006 15:04"))
	text.WriteString("\nОсталось дней: " + strconv.Itoa(sub.RemainingDays(time.Now().UTC())))
	text.WriteString("\nТрафик: " + formatTraffic(sub.TrafficLimitGB))
	text.WriteString("\nУстройств: " + strconv.Itoa(sub.DeviceLimit))
	if sub.SubscriptionURL != "" {
		text.WriteString("\nСсылка подключения: " + sub.SubscriptionURL)
	}
	msg := tgbotapi.NewMessage(chatID, text.String())
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("Продлить", "extend_menu"),
			tgbotapi.NewInlineKeyboardButtonData("Сменить тариф", "switch_menu"),
		),
	)
	botapi.Send(msg)
}

// startExtend предлагает периоды текущего тарифа для продления.
func startExtend(botapi *tgbotapi.BotAPI, chatID int64, callbackID string, user *db.User) {
	sub, err := db.GetSubscriptionByUserID(user.ID)
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "У вас нет подписки"))
		return
	}
	if sub.TariffID == nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "У подписки нет тарифа, выберите новый: /buy"))
		return
	}
	deps.Cart.Put(user.ID, cart.Draft{Action: cart.ActionExtend, TariffID: *sub.TariffID})
	sendPeriodList(botapi, chatID, callbackID, user, *sub.TariffID)
}

// sendBalance показывает баланс и кнопку пополнения.
func sendBalance(botapi *tgbotapi.BotAPI, chatID int64, user *db.User) {
	msg := tgbotapi.NewMessage(chatID, "Ваш баланс: "+formatPriceKopeks(user.BalanceKopeks))
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData("💳 Пополнить", "topup_menu"),
		),
	)
	botapi.Send(msg)
}

func gatewayTitle(gateway string) string {
	switch gateway {
	case services.GatewayYooKassa:
		return "Банковская карта (YooKassa)"
	case services.GatewayCryptoBot:
		return "Криптовалюта (CryptoBot)"
	case services.GatewayFreekassa:
		return "Freekassa"
	case services.GatewayPlatega:
		return "СБП (Platega)"
	}
	return gateway
}

func sendTopupGateways(botapi *tgbotapi.BotAPI, chatID int64, callbackID string) {
	gateways := deps.Payments.Gateways()
	if len(gateways) == 0 {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Пополнение временно недоступно"))
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, gw := range gateways {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(gatewayTitle(gw), "topup_gw:"+gw),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Выберите способ пополнения:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	botapi.Send(msg)
	botapi.Request(tgbotapi.NewCallback(callbackID, ""))
}

func sendTopupAmounts(botapi *tgbotapi.BotAPI, chatID int64, callbackID, gateway string) {
	var rows [][]tgbotapi.InlineKeyboardButton
	for _, amount := range topupAmounts {
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(formatPriceKopeks(amount),
				"topup_amt:"+gateway+":"+strconv.Itoa(amount)),
		))
	}
	msg := tgbotapi.NewMessage(chatID, "Выберите сумму пополнения:")
	msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	botapi.Send(msg)
	botapi.Request(tgbotapi.NewCallback(callbackID, ""))
}

func createTopup(botapi *tgbotapi.BotAPI, chatID int64, callbackID string, user *db.User, payload string) {
	parts := strings.Split(payload, ":")
	if len(parts) != 2 {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Ошибка выбора суммы"))
		return
	}
	amount, err := strconv.Atoi(parts[1])
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Ошибка выбора суммы"))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	payURL, err := deps.Payments.CreateTopup(ctx, user.ID, parts[0], amount)
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Ошибка: "+err.Error()))
		return
	}
	botapi.Send(tgbotapi.NewMessage(chatID, "Ссылка на оплату: "+payURL+"\nБаланс пополнится автоматически после оплаты."))
	botapi.Request(tgbotapi.NewCallback(callbackID, "Платёж создан"))
}

// activateTrial выдаёт пробную подписку.
func activateTrial(botapi *tgbotapi.BotAPI, chatID int64, user *db.User) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()
	sub, err := deps.Trial.Activate(ctx, user)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrTrialUsed):
			botapi.Send(tgbotapi.NewMessage(chatID, "Пробный доступ уже использован. Для покупки используйте /buy."))
		case errors.Is(err, services.ErrTrialUnavailable):
			botapi.Send(tgbotapi.NewMessage(chatID, "Пробный доступ сейчас недоступен."))
		default:
			botapi.Send(tgbotapi.NewMessage(chatID, "Не удалось активировать пробный доступ, попробуйте позже."))
		}
		return
	}
	text := "✅ Пробный доступ активирован до " + sub.EndDate.Format("02.01.2006")
	if sub.SubscriptionURL != "" {
		text += "\nСсылка подключения: " + sub.SubscriptionURL
	}
	botapi.Send(tgbotapi.NewMessage(chatID, text))
}

// sendOffers показывает персональные промо-предложения.
func sendOffers(botapi *tgbotapi.BotAPI, chatID int64, user *db.User) {
	offers, err := db.GetUserOffers(user.ID, time.Now().UTC())
	if err != nil || len(offers) == 0 {
		botapi.Send(tgbotapi.NewMessage(chatID, "У вас пока нет персональных предложений."))
		return
	}
	var rows [][]tgbotapi.InlineKeyboardButton
	var text strings.Builder
	text.WriteString("Ваши предложения:\n")
	for _, o := range offers {
		if o.ClaimedAt != nil {
			text.WriteString(fmt.Sprintf("• Скидка %d%% — активирована\n", o.DiscountPercent))
			continue
		}
		text.WriteString(fmt.Sprintf("• Скидка %d%% — до %s\n", o.DiscountPercent, o.ExpiresAt.Format("02.01.2006")))
		rows = append(rows, tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonData(
				fmt.Sprintf("Активировать скидку %d%%", o.DiscountPercent),
				"offer_claim:"+strconv.Itoa(int(o.ID))),
		))
	}
	msg := tgbotapi.NewMessage(chatID, text.String())
	if len(rows) > 0 {
		msg.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(rows...)
	}
	botapi.Send(msg)
}

func claimOffer(botapi *tgbotapi.BotAPI, chatID int64, callbackID string, user *db.User, idStr string) {
	id, err := strconv.Atoi(idStr)
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Ошибка"))
		return
	}
	offer, err := db.GetOfferByID(uint(id))
	if err != nil {
		botapi.Request(tgbotapi.NewCallback(callbackID, "Предложение не найдено"))
		return
	}
	expiresAt, err := db.ClaimOffer(user, offer, time.Now().UTC())
	if err != nil {
		switch {
		case errors.Is(err, db.ErrOfferAlreadyClaimed):
			botapi.Request(tgbotapi.NewCallback(callbackID, "Предложение уже активировано"))
		case errors.Is(err, db.ErrOfferExpired):
			botapi.Request(tgbotapi.NewCallback(callbackID, "Срок предложения истёк"))
		default:
			botapi.Request(tgbotapi.NewCallback(callbackID, "Предложение недоступно"))
		}
		return
	}
	text := fmt.Sprintf("✅ Скидка %d%% активирована", offer.DiscountPercent)
	if expiresAt != nil {
		text += " до " + expiresAt.Format("02.01.2006 15:04")
	}
	botapi.Send(tgbotapi.NewMessage(chatID, text))
	botapi.Request(tgbotapi.NewCallback(callbackID, "Скидка активирована"))
}
