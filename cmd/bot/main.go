package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/robfig/cron/v3"

	"VPN-Shop-bot/config"
	"VPN-Shop-bot/internal/admin"
	"VPN-Shop-bot/internal/bot"
	"VPN-Shop-bot/internal/cabinet"
	"VPN-Shop-bot/internal/cart"
	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
	"VPN-Shop-bot/internal/purchase"
	"VPN-Shop-bot/internal/remnawave"
	"VPN-Shop-bot/internal/services"
)

func main() {
	cfg := config.Load()
	admin.SetAdmin(cfg.AdminTelegramID)
	db.InitDB(cfg.DatabaseURL)
	botapi, err := tgbotapi.NewBotAPI(cfg.BotToken)
	if err != nil {
		log.Fatalf("Failed to create bot: %v", err)
	}
	logger.InitNotifier(botapi, cfg.AdminTelegramID)
	// --- Логирование в файл и консоль ---
	logFile, err := os.OpenFile("bot.log", os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		log.Fatalf("Не удалось открыть файл логов: %v", err)
	}
	mw := io.MultiWriter(os.Stdout, logFile)
	log.SetOutput(mw)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	// Клиент панели RemnaWave (опционален)
	var panel *remnawave.Client
	if cfg.RemnawaveURL != "" {
		panel = remnawave.NewClient(cfg.RemnawaveURL, cfg.RemnawaveToken)
	}

	// Платёжные шлюзы: подключаются только настроенные
	payments := &services.PaymentService{ReturnURL: "https://t.me/" + botapi.Self.UserName}
	if cfg.YooKassaShopID != "" {
		payments.YooKassa = services.NewYooKassaClient(cfg.YooKassaShopID, cfg.YooKassaSecret)
	}
	if cfg.CryptoBotToken != "" {
		payments.CryptoBot = services.NewCryptoBotClient(cfg.CryptoBotToken)
	}
	if cfg.FreekassaShopID != 0 {
		payments.Freekassa = services.NewFreekassaClient(cfg.FreekassaShopID, cfg.FreekassaAPIKey, cfg.FreekassaSecret1, cfg.FreekassaSecret2)
	}
	if cfg.PlategaMerchantID != "" {
		payments.Platega = services.NewPlategaClient(cfg.PlategaMerchantID, cfg.PlategaSecret)
	}

	cartStore := cart.NewStore(cfg.CartTTL)
	defer cartStore.Close()
	purchaseSvc := &purchase.Service{
		Ledger:                purchase.GormLedger{},
		Store:                 purchase.GormStore{},
		Notifier:              purchase.AdminNotifier{},
		Cart:                  cartStore,
		ResetTrafficOnPayment: cfg.ResetTrafficOnPayment,
	}
	if panel != nil {
		purchaseSvc.Syncer = panel
	}
	trialSvc := &services.TrialService{Panel: panel, DefaultDurationDays: cfg.TrialDurationDays}

	bot.Init(&bot.Deps{
		Purchase: purchaseSvc,
		Payments: payments,
		Trial:    trialSvc,
		Cart:     cartStore,
	})

	// Фоновые задачи
	c := cron.New()
	// Автоматический бэкап БД раз в сутки
	c.AddFunc("0 3 * * *", func() {
		admin.AutoBackupDatabase(cfg.DatabaseURL)
	})
	// Отключение просроченных подписок (каждый день в 03:30)
	c.AddFunc("30 3 * * *", func() {
		services.DisableExpiredSubscriptions(botapi, panel)
	})
	// Уведомления о скором окончании подписки (раз в сутки в 10:00)
	c.AddFunc("0 10 * * *", func() {
		services.NotifyExpiringSubscriptions(botapi, 3)
	})
	c.Start()

	// Сервер уведомлений платёжных шлюзов
	webhooks := services.NewWebhookServer(botapi, cfg.YooKassaSecret, payments.CryptoBot, payments.Freekassa, payments.Platega)
	go func() {
		log.Println("Запуск webhook-сервера на " + cfg.WebhookAddr)
		if err := http.ListenAndServe(cfg.WebhookAddr, webhooks.Mux()); err != nil {
			log.Fatalf("Webhook server error: %v", err)
		}
	}()

	// Отправка писем кабинета: SMTP, если настроен, иначе только лог
	var mailer cabinet.EmailSender = cabinet.LogSender{}
	if cfg.SMTPHost != "" {
		mailer = &cabinet.SMTPSender{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
			From:     cfg.SMTPFrom,
		}
	}

	// Веб-кабинет
	cabinetHandlers := &cabinet.Handlers{
		Tokens:    cabinet.NewTokenManager(cfg.JWTSecret, 24*time.Hour),
		Codes:     cabinet.NewVerificationCodes(15 * time.Minute),
		Mailer:    mailer,
		Purchases: purchaseSvc,
		Payments:  payments,
		Trials:    trialSvc,
		Panel:     panel,
	}
	go func() {
		log.Println("Запуск веб-кабинета на " + cfg.CabinetAddr)
		if err := cabinet.NewRouter(cabinetHandlers).Run(cfg.CabinetAddr); err != nil {
			log.Fatalf("Cabinet server error: %v", err)
		}
	}()

	// Запуск Telegram-бота (polling)
	bot.StartBotWithInstance(botapi)
}
