package cabinet

import (
	"fmt"
	"net/smtp"

	"VPN-Shop-bot/internal/logger"
)

// EmailSender отправляет письма кабинета (коды подтверждения).
type EmailSender interface {
	Send(to, subject, body string) error
}

// SMTPSender — отправка через SMTP с STARTTLS-аутентификацией.
type SMTPSender struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

func (s *SMTPSender) Send(to, subject, body string) error {
	addr := fmt.Sprintf("%s:%d", s.Host, s.Port)
	msg := []byte(fmt.Sprintf("From: %s\r\nTo: %s\r\nSubject: %s\r\nContent-Type: text/plain; charset=utf-8\r\n\r\n%s\r\n",
		s.From, to, subject, body))
	auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
	return smtp.SendMail(addr, auth, s.From, []string{to}, msg)
}

// LogSender пишет письма в лог. Используется, когда SMTP не настроен.
type LogSender struct{}

func (LogSender) Send(to, subject, body string) error {
	logger.Info(fmt.Sprintf("email to %s: %s: %s", to, subject, body))
	return nil
}
