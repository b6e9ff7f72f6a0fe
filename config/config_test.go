package config

import "testing"

func setRequiredEnv(t *testing.T) {
	t.Setenv("BOT_TOKEN", "token")
	t.Setenv("ADMIN_TELEGRAM_ID", "42")
	t.Setenv("DATABASE_URL", "postgres://localhost/shop")
	t.Setenv("JWT_SECRET", "secret")
}

func TestLoadSMTPSettings(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("SMTP_HOST", "smtp.example.org")
	t.Setenv("SMTP_USERNAME", "mailer")
	t.Setenv("SMTP_PASSWORD", "pass")
	t.Setenv("SMTP_FROM", "noreply@example.org")

	cfg := Load()
	if cfg.SMTPHost != "smtp.example.org" {
		t.Errorf("SMTPHost = %q", cfg.SMTPHost)
	}
	if cfg.SMTPPort != 587 {
		t.Errorf("default SMTPPort = %d, want 587", cfg.SMTPPort)
	}
	if cfg.SMTPUsername != "mailer" || cfg.SMTPPassword != "pass" || cfg.SMTPFrom != "noreply@example.org" {
		t.Errorf("smtp credentials not loaded: %+v", cfg)
	}

	t.Setenv("SMTP_PORT", "2525")
	if cfg = Load(); cfg.SMTPPort != 2525 {
		t.Errorf("SMTPPort = %d, want 2525", cfg.SMTPPort)
	}
}

func TestLoadDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg := Load()
	if cfg.WebhookAddr != ":8080" || cfg.CabinetAddr != ":8081" {
		t.Errorf("default addrs: %q, %q", cfg.WebhookAddr, cfg.CabinetAddr)
	}
	if cfg.SMTPHost != "" {
		t.Errorf("SMTPHost must be empty by default, got %q", cfg.SMTPHost)
	}
	if cfg.TrialDurationDays != 3 {
		t.Errorf("TrialDurationDays = %d, want 3", cfg.TrialDurationDays)
	}
	if cfg.AdminTelegramID != 42 {
		t.Errorf("AdminTelegramID = %d, want 42", cfg.AdminTelegramID)
	}
}
