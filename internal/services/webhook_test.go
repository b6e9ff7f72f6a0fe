package services

import (
	"bytes"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"VPN-Shop-bot/internal/db"
)

func TestCheckYooKassaSignature(t *testing.T) {
	secret := "testsecret"
	body := []byte(`{"test":"data"}`)

	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	calc := hex.EncodeToString(h.Sum(nil))

	tests := []struct {
		desc        string
		authHeader  string
		yoomoneyHdr string
		want        bool
	}{
		{"valid Authorization", "HMAC " + calc, "", true},
		{"valid Authorization SHA256", "HMAC-SHA256 " + calc, "", true},
		{"valid Yoomoney header", "", calc, true},
		{"wrong signature", "HMAC wrong", "", false},
		{"wrong yoomoney", "", "wrong", false},
		{"both empty", "", "", false},
	}

	for _, tt := range tests {
		if got := checkYooKassaSignature(secret, body, tt.authHeader, tt.yoomoneyHdr); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestCheckCryptoBotSignature(t *testing.T) {
	token := "12345:AAtoken"
	body := []byte(`{"update_type":"invoice_paid"}`)

	key := sha256.Sum256([]byte(token))
	h := hmac.New(sha256.New, key[:])
	h.Write(body)
	calc := hex.EncodeToString(h.Sum(nil))

	tests := []struct {
		desc string
		sig  string
		want bool
	}{
		{"valid", calc, true},
		{"wrong", "deadbeef", false},
		{"empty", "", false},
	}
	for _, tt := range tests {
		if got := checkCryptoBotSignature(token, body, tt.sig); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.desc, got, tt.want)
		}
	}

	// Подпись зависит от токена
	if checkCryptoBotSignature("other:token", body, calc) {
		t.Error("signature must not verify with a different token")
	}
}

func TestFreekassaWebhookSignature(t *testing.T) {
	c := NewFreekassaClient(12345, "", "word1", "word2")

	valid := md5hex("12345:150.00:word2:order-1")

	tests := []struct {
		desc   string
		amount string
		order  string
		sign   string
		want   bool
	}{
		{"valid", "150.00", "order-1", valid, true},
		{"valid uppercase hex", "150.00", "order-1", strings.ToUpper(valid), true},
		{"wrong amount", "151.00", "order-1", valid, false},
		{"wrong order", "150.00", "order-2", valid, false},
		{"wrong sign", "150.00", "order-1", "00000000", false},
	}
	for _, tt := range tests {
		if got := c.checkWebhookSignature("12345", tt.amount, tt.order, tt.sign); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func TestFreekassaPaymentURL(t *testing.T) {
	c := NewFreekassaClient(12345, "", "word1", "word2")
	url := c.PaymentURL("order-1", 150*100)

	wantSign := md5hex("12345:150.00:word1:RUB:order-1")
	for _, part := range []string{"m=12345", "oa=150.00", "o=order-1", "s=" + wantSign} {
		if !strings.Contains(url, part) {
			t.Errorf("payment URL missing %q: %s", part, url)
		}
	}
}

func TestFreekassaIPAllowlist(t *testing.T) {
	c := NewFreekassaClient(1, "", "", "")
	for _, ip := range []string{"168.119.157.136", "168.119.60.227", "178.154.197.79", "51.250.54.238"} {
		if !c.IPAllowed(ip) {
			t.Errorf("ip %s must be allowed", ip)
		}
	}
	if c.IPAllowed("1.2.3.4") {
		t.Error("unknown ip must be rejected")
	}
}

func TestFreekassaAPISignatureOrder(t *testing.T) {
	c := NewFreekassaClient(1, "apikey", "", "")
	a := c.apiSignature(map[string]string{"shopId": "1", "nonce": "2", "orderId": "3"})
	b := c.apiSignature(map[string]string{"orderId": "3", "shopId": "1", "nonce": "2"})
	if a != b {
		t.Error("signature must not depend on map iteration order")
	}
}

func TestPlategaWebhookAuth(t *testing.T) {
	c := NewPlategaClient("merchant-1", "s3cret")

	tests := []struct {
		desc     string
		merchant string
		secret   string
		want     bool
	}{
		{"valid", "merchant-1", "s3cret", true},
		{"wrong merchant", "merchant-2", "s3cret", false},
		{"wrong secret", "merchant-1", "wrong", false},
		{"both empty", "", "", false},
	}
	for _, tt := range tests {
		if got := c.checkWebhookAuth(tt.merchant, tt.secret); got != tt.want {
			t.Errorf("%s: got %v, want %v", tt.desc, got, tt.want)
		}
	}
}

func signedYooKassaRequest(secret string, body []byte) *http.Request {
	h := hmac.New(sha256.New, []byte(secret))
	h.Write(body)
	req := httptest.NewRequest(http.MethodPost, "/yookassa/webhook", bytes.NewReader(body))
	req.Header.Set("Authorization", "HMAC "+hex.EncodeToString(h.Sum(nil)))
	return req
}

// Неудачное зачисление должно вернуть шлюзу 5xx: платёж остаётся
// pending, и повторное уведомление зачисляет его заново.
func TestYooKassaWebhookRetriesAfterFailedCredit(t *testing.T) {
	secret := "testsecret"
	body := []byte(`{"event":"payment.succeeded","object":{"id":"pay-1","status":"succeeded"}}`)

	calls := 0
	s := &WebhookServer{
		yooSecret: secret,
		settle: func(externalID string) (*db.Payment, bool, error) {
			calls++
			if externalID != "pay-1" {
				t.Fatalf("unexpected external id %q", externalID)
			}
			if calls == 1 {
				return nil, false, errors.New("db down")
			}
			return &db.Payment{ExternalID: externalID, AmountKopeks: 15000}, true, nil
		},
	}

	w := httptest.NewRecorder()
	s.handleYooKassa(w, signedYooKassaRequest(secret, body))
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("failed credit must answer 5xx, got %d", w.Code)
	}

	w = httptest.NewRecorder()
	s.handleYooKassa(w, signedYooKassaRequest(secret, body))
	if w.Code != http.StatusOK {
		t.Fatalf("retry must succeed, got %d", w.Code)
	}
	if calls != 2 {
		t.Errorf("settle calls = %d, want 2", calls)
	}
}

// Повторное уведомление уже зачисленного платежа отвечает 200 и ничего не меняет.
func TestYooKassaWebhookDuplicateNotification(t *testing.T) {
	secret := "testsecret"
	body := []byte(`{"event":"payment.succeeded","object":{"id":"pay-1","status":"succeeded"}}`)

	s := &WebhookServer{
		yooSecret: secret,
		settle: func(externalID string) (*db.Payment, bool, error) {
			return &db.Payment{ExternalID: externalID}, false, nil
		},
	}

	w := httptest.NewRecorder()
	s.handleYooKassa(w, signedYooKassaRequest(secret, body))
	if w.Code != http.StatusOK {
		t.Fatalf("duplicate notification must answer 200, got %d", w.Code)
	}
}

func TestFreekassaWebhookCreditOutcome(t *testing.T) {
	c := NewFreekassaClient(12345, "", "word1", "word2")

	do := func(settle func(string) (*db.Payment, bool, error)) *httptest.ResponseRecorder {
		form := url.Values{}
		form.Set("MERCHANT_ID", "12345")
		form.Set("AMOUNT", "150.00")
		form.Set("MERCHANT_ORDER_ID", "order-1")
		form.Set("SIGN", md5hex("12345:150.00:word2:order-1"))
		req := httptest.NewRequest(http.MethodPost, "/freekassa/webhook", strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.RemoteAddr = "168.119.157.136:55555"
		w := httptest.NewRecorder()
		s := &WebhookServer{freekassa: c, settle: settle}
		s.handleFreekassa(w, req)
		return w
	}

	w := do(func(string) (*db.Payment, bool, error) { return nil, false, errors.New("db down") })
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("failed credit must answer 5xx, got %d", w.Code)
	}

	w = do(func(id string) (*db.Payment, bool, error) {
		return &db.Payment{ExternalID: id}, true, nil
	})
	if w.Code != http.StatusOK || w.Body.String() != "YES" {
		t.Fatalf("successful credit must reply YES, got %d %q", w.Code, w.Body.String())
	}
}

func TestFreekassaAmountFormat(t *testing.T) {
	tests := []struct {
		kopeks int
		want   string
	}{
		{15000, "150.00"},
		{15050, "150.50"},
		{99, "0.99"},
		{100, "1.00"},
	}
	for _, tt := range tests {
		if got := freekassaAmount(tt.kopeks); got != tt.want {
			t.Errorf("amount(%d) = %s, want %s", tt.kopeks, got, tt.want)
		}
	}
}
