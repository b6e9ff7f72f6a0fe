package services

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"github.com/go-resty/resty/v2"
)

// CryptoBotClient создаёт счета в Crypto Pay (@CryptoBot) и проверяет
// подписи уведомлений.
type CryptoBotClient struct {
	token string
	http  *resty.Client
}

func NewCryptoBotClient(token string) *CryptoBotClient {
	return &CryptoBotClient{
		token: token,
		http: resty.New().
			SetBaseURL("https://pay.crypt.bot/api").
			SetHeader("Crypto-Pay-API-Token", token).
			SetTimeout(20 * time.Second),
	}
}

type cryptoBotInvoice struct {
	InvoiceID int64  `json:"invoice_id"`
	Status    string `json:"status"`
	PayURL    string `json:"pay_url"`
}

type cryptoBotResponse struct {
	Ok     bool             `json:"ok"`
	Result cryptoBotInvoice `json:"result"`
}

// CreateInvoice выставляет счёт в рублёвом эквиваленте (фиат, оплата криптой).
func (c *CryptoBotClient) CreateInvoice(ctx context.Context, amountKopeks int, description string) (externalID, payURL string, err error) {
	body := map[string]interface{}{
		"currency_type": "fiat",
		"fiat":          "RUB",
		"amount":        fmt.Sprintf("%d.%02d", amountKopeks/100, amountKopeks%100),
		"description":   description,
	}
	var result cryptoBotResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/createInvoice")
	if err != nil {
		return "", "", fmt.Errorf("cryptobot create invoice: %w", err)
	}
	if resp.IsError() || !result.Ok {
		return "", "", fmt.Errorf("cryptobot create invoice: status %d: %s", resp.StatusCode(), resp.String())
	}
	return strconv.FormatInt(result.Result.InvoiceID, 10), result.Result.PayURL, nil
}

// Подпись webhook Crypto Pay: HMAC-SHA256 тела запроса,
// ключ — SHA256 от API-токена.
func checkCryptoBotSignature(token string, body []byte, signature string) bool {
	if signature == "" {
		return false
	}
	key := sha256.Sum256([]byte(token))
	h := hmac.New(sha256.New, key[:])
	h.Write(body)
	calc := hex.EncodeToString(h.Sum(nil))
	return hmac.Equal([]byte(signature), []byte(calc))
}
