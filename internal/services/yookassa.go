package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// YooKassaClient создаёт платежи в YooKassa и проверяет подписи уведомлений.
type YooKassaClient struct {
	shopID string
	secret string
	http   *resty.Client
}

func NewYooKassaClient(shopID, secret string) *YooKassaClient {
	return &YooKassaClient{
		shopID: shopID,
		secret: secret,
		http: resty.New().
			SetBaseURL("https://api.yookassa.ru/v3").
			SetBasicAuth(shopID, secret).
			SetTimeout(20 * time.Second),
	}
}

type yooKassaPayment struct {
	ID           string `json:"id"`
	Status       string `json:"status"`
	Confirmation struct {
		ConfirmationURL string `json:"confirmation_url"`
	} `json:"confirmation"`
}

// CreatePayment создаёт платёж на пополнение баланса и возвращает
// внешний ID и ссылку на страницу оплаты.
func (c *YooKassaClient) CreatePayment(ctx context.Context, amountKopeks int, description, returnURL string) (externalID, confirmationURL string, err error) {
	body := map[string]interface{}{
		"amount": map[string]string{
			"value":    fmt.Sprintf("%d.%02d", amountKopeks/100, amountKopeks%100),
			"currency": "RUB",
		},
		"confirmation": map[string]string{
			"type":       "redirect",
			"return_url": returnURL,
		},
		"capture":     true,
		"description": description,
	}
	var payment yooKassaPayment
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("Idempotence-Key", uuid.NewString()).
		SetBody(body).
		SetResult(&payment).
		Post("/payments")
	if err != nil {
		return "", "", fmt.Errorf("yookassa create payment: %w", err)
	}
	if resp.IsError() {
		return "", "", fmt.Errorf("yookassa create payment: status %d: %s", resp.StatusCode(), resp.String())
	}
	return payment.ID, payment.Confirmation.ConfirmationURL, nil
}

// Проверка HMAC подписи webhook YooKassa (Authorization или Content-Yoomoney-Signature)
func checkYooKassaSignature(secret string, body []byte, authHeader, yoomoneyHeader string) bool {
	var signatures []string
	if authHeader != "" {
		if strings.HasPrefix(authHeader, "HMAC ") || strings.HasPrefix(authHeader, "HMAC-SHA256 ") {
			parts := strings.SplitN(authHeader, " ", 2)
			if len(parts) == 2 {
				signatures = append(signatures, parts[1])
			}
		}
	}
	if yoomoneyHeader != "" {
		signatures = append(signatures, yoomoneyHeader)
	}
	if len(signatures) == 0 {
		return false
	}
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	calc := hex.EncodeToString(h.Sum(nil))
	for _, sig := range signatures {
		if hmac.Equal([]byte(sig), []byte(calc)) {
			return true
		}
	}
	return false
}
