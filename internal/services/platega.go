package services

import (
	"context"
	"crypto/subtle"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/google/uuid"
)

// PlategaClient создаёт транзакции в Platega (СБП) и проверяет уведомления.
type PlategaClient struct {
	merchantID string
	secret     string
	http       *resty.Client
}

func NewPlategaClient(merchantID, secret string) *PlategaClient {
	return &PlategaClient{
		merchantID: merchantID,
		secret:     secret,
		http: resty.New().
			SetBaseURL("https://app.platega.io").
			SetHeader("X-MerchantId", merchantID).
			SetHeader("X-Secret", secret).
			SetTimeout(20 * time.Second),
	}
}

type plategaTransaction struct {
	ID       string `json:"id"`
	Status   string `json:"status"`
	Redirect string `json:"redirect"`
}

// CreateTransaction создаёт платёж через СБП и возвращает внешний ID
// и ссылку для оплаты.
func (c *PlategaClient) CreateTransaction(ctx context.Context, amountKopeks int, description, returnURL string) (externalID, payURL string, err error) {
	body := map[string]interface{}{
		"paymentMethod": 2, // СБП
		"id":            uuid.NewString(),
		"paymentDetails": map[string]interface{}{
			"amount":   float64(amountKopeks) / 100,
			"currency": "RUB",
		},
		"description": description,
		"return":      returnURL,
		"failedUrl":   returnURL,
	}
	var tr plategaTransaction
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&tr).
		Post("/transaction/process")
	if err != nil {
		return "", "", fmt.Errorf("platega create transaction: %w", err)
	}
	if resp.IsError() {
		return "", "", fmt.Errorf("platega create transaction: status %d: %s", resp.StatusCode(), resp.String())
	}
	return tr.ID, tr.Redirect, nil
}

// Уведомления Platega авторизуются теми же заголовками, что и запросы к API.
func (c *PlategaClient) checkWebhookAuth(merchantHeader, secretHeader string) bool {
	merchantOK := subtle.ConstantTimeCompare([]byte(merchantHeader), []byte(c.merchantID)) == 1
	secretOK := subtle.ConstantTimeCompare([]byte(secretHeader), []byte(c.secret)) == 1
	return merchantOK && secretOK
}
