package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// AppConfig собирается один раз в main и передаётся зависимостям явно.
type AppConfig struct {
	BotToken        string
	AdminTelegramID int64
	DatabaseURL     string

	WebhookAddr string
	CabinetAddr string
	JWTSecret   string

	RemnawaveURL   string
	RemnawaveToken string

	YooKassaShopID string
	YooKassaSecret string

	CryptoBotToken string

	FreekassaShopID  int
	FreekassaAPIKey  string
	FreekassaSecret1 string
	FreekassaSecret2 string

	PlategaMerchantID string
	PlategaSecret     string

	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	SMTPFrom     string

	TrialDurationDays     int
	ResetTrafficOnPayment bool
	CartTTL               time.Duration
}

// Load читает .env и переменные окружения. Критичные переменные обязательны.
func Load() *AppConfig {
	err := godotenv.Load()
	if err != nil {
		log.Println(".env file not found, relying on environment variables")
	}

	cfg := &AppConfig{
		BotToken:    os.Getenv("BOT_TOKEN"),
		DatabaseURL: os.Getenv("DATABASE_URL"),

		WebhookAddr: envOr("WEBHOOK_ADDR", ":8080"),
		CabinetAddr: envOr("CABINET_ADDR", ":8081"),
		JWTSecret:   os.Getenv("JWT_SECRET"),

		RemnawaveURL:   os.Getenv("REMNAWAVE_URL"),
		RemnawaveToken: os.Getenv("REMNAWAVE_TOKEN"),

		YooKassaShopID: os.Getenv("YOOKASSA_SHOP_ID"),
		YooKassaSecret: os.Getenv("YOOKASSA_SECRET_KEY"),

		CryptoBotToken: os.Getenv("CRYPTOBOT_TOKEN"),

		FreekassaAPIKey:  os.Getenv("FREEKASSA_API_KEY"),
		FreekassaSecret1: os.Getenv("FREEKASSA_SECRET_WORD_1"),
		FreekassaSecret2: os.Getenv("FREEKASSA_SECRET_WORD_2"),

		PlategaMerchantID: os.Getenv("PLATEGA_MERCHANT_ID"),
		PlategaSecret:     os.Getenv("PLATEGA_SECRET"),

		SMTPHost:     os.Getenv("SMTP_HOST"),
		SMTPPort:     envIntOr("SMTP_PORT", 587),
		SMTPUsername: os.Getenv("SMTP_USERNAME"),
		SMTPPassword: os.Getenv("SMTP_PASSWORD"),
		SMTPFrom:     os.Getenv("SMTP_FROM"),

		TrialDurationDays:     envIntOr("TRIAL_DURATION_DAYS", 3),
		ResetTrafficOnPayment: envBoolOr("RESET_TRAFFIC_ON_PAYMENT", true),
		CartTTL:               time.Duration(envIntOr("CART_TTL_SECONDS", 1800)) * time.Second,
	}

	cfg.AdminTelegramID, _ = strconv.ParseInt(os.Getenv("ADMIN_TELEGRAM_ID"), 10, 64)
	cfg.FreekassaShopID = envIntOr("FREEKASSA_SHOP_ID", 0)

	if cfg.BotToken == "" || cfg.AdminTelegramID == 0 || cfg.DatabaseURL == "" || cfg.JWTSecret == "" {
		log.Fatal("Critical environment variables are missing. Bot will exit.")
	}

	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	v, err := strconv.Atoi(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}

func envBoolOr(key string, def bool) bool {
	v, err := strconv.ParseBool(os.Getenv(key))
	if err != nil {
		return def
	}
	return v
}
