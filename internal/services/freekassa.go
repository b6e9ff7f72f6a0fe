package services

import (
	"context"
	"crypto/hmac"
	"crypto/md5"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

// IP-адреса, с которых Freekassa шлёт уведомления об оплате
var freekassaAllowedIPs = map[string]bool{
	"168.119.157.136": true,
	"168.119.60.227":  true,
	"178.154.197.79":  true,
	"51.250.54.238":   true,
}

// FreekassaClient формирует ссылки на оплату и проверяет уведомления Freekassa.
type FreekassaClient struct {
	shopID  int
	apiKey  string
	secret1 string
	secret2 string
	http    *resty.Client
}

func NewFreekassaClient(shopID int, apiKey, secret1, secret2 string) *FreekassaClient {
	return &FreekassaClient{
		shopID:  shopID,
		apiKey:  apiKey,
		secret1: secret1,
		secret2: secret2,
		http: resty.New().
			SetBaseURL("https://api.fk.life/v1").
			SetTimeout(20 * time.Second),
	}
}

func md5hex(s string) string {
	sum := md5.Sum([]byte(s))
	return hex.EncodeToString(sum[:])
}

func freekassaAmount(amountKopeks int) string {
	return fmt.Sprintf("%d.%02d", amountKopeks/100, amountKopeks%100)
}

// PaymentURL — ссылка на платёжную форму. Подпись формы:
// MD5(shop:amount:secret1:currency:order).
func (c *FreekassaClient) PaymentURL(orderID string, amountKopeks int) string {
	amount := freekassaAmount(amountKopeks)
	sign := md5hex(fmt.Sprintf("%d:%s:%s:RUB:%s", c.shopID, amount, c.secret1, orderID))
	q := url.Values{}
	q.Set("m", strconv.Itoa(c.shopID))
	q.Set("oa", amount)
	q.Set("currency", "RUB")
	q.Set("o", orderID)
	q.Set("s", sign)
	return "https://pay.fk.money/?" + q.Encode()
}

// Подпись уведомления: MD5(shop:amount:secret2:order).
func (c *FreekassaClient) checkWebhookSignature(merchantID, amount, orderID, sign string) bool {
	calc := md5hex(fmt.Sprintf("%s:%s:%s:%s", merchantID, amount, c.secret2, orderID))
	return strings.EqualFold(sign, calc)
}

// IPAllowed проверяет, что уведомление пришло с адреса Freekassa.
func (c *FreekassaClient) IPAllowed(ip string) bool {
	return freekassaAllowedIPs[ip]
}

// apiSignature — подпись запросов к API: HMAC-SHA256 от значений
// параметров, отсортированных по ключу и соединённых «|».
func (c *FreekassaClient) apiSignature(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	values := make([]string, 0, len(keys))
	for _, k := range keys {
		values = append(values, params[k])
	}
	h := hmac.New(sha256.New, []byte(c.apiKey))
	h.Write([]byte(strings.Join(values, "|")))
	return hex.EncodeToString(h.Sum(nil))
}

// OrderStatus запрашивает статус заказа через API Freekassa.
func (c *FreekassaClient) OrderStatus(ctx context.Context, orderID string) (string, error) {
	params := map[string]string{
		"shopId":  strconv.Itoa(c.shopID),
		"nonce":   strconv.FormatInt(time.Now().UnixNano(), 10),
		"orderId": orderID,
	}
	body := map[string]string{}
	for k, v := range params {
		body[k] = v
	}
	body["signature"] = c.apiSignature(params)

	var result struct {
		Type   string `json:"type"`
		Orders []struct {
			Status int `json:"status"`
		} `json:"orders"`
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(body).
		SetResult(&result).
		Post("/orders")
	if err != nil {
		return "", fmt.Errorf("freekassa order status: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("freekassa order status: status %d", resp.StatusCode())
	}
	if len(result.Orders) == 0 {
		return "", fmt.Errorf("freekassa: order %s not found", orderID)
	}
	// 1 = оплачен
	if result.Orders[0].Status == 1 {
		return "paid", nil
	}
	return "pending", nil
}
