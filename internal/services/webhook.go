package services

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
)

// Названия шлюзов в журнале платежей
const (
	GatewayYooKassa  = "yookassa"
	GatewayCryptoBot = "cryptobot"
	GatewayFreekassa = "freekassa"
	GatewayPlatega   = "platega"
)

// WebhookServer принимает уведомления платёжных шлюзов и зачисляет
// пополнения на баланс.
type WebhookServer struct {
	bot       *tgbotapi.BotAPI
	yooSecret string
	cryptoBot *CryptoBotClient
	freekassa *FreekassaClient
	platega   *PlategaClient

	// Подменяется в тестах
	settle func(externalID string) (*db.Payment, bool, error)
}

func NewWebhookServer(bot *tgbotapi.BotAPI, yooSecret string, cryptoBot *CryptoBotClient, freekassa *FreekassaClient, platega *PlategaClient) *WebhookServer {
	return &WebhookServer{
		bot:       bot,
		yooSecret: yooSecret,
		cryptoBot: cryptoBot,
		freekassa: freekassa,
		platega:   platega,
		settle:    db.SettlePayment,
	}
}

// Mux собирает маршруты сервера уведомлений.
func (s *WebhookServer) Mux() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("/yookassa/webhook", s.handleYooKassa)
	mux.HandleFunc("/cryptobot/webhook", s.handleCryptoBot)
	mux.HandleFunc("/freekassa/webhook", s.handleFreekassa)
	mux.HandleFunc("/platega/webhook", s.handlePlatega)
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})
	return mux
}

// creditPayment зачисляет успешный платёж. Статус, баланс и журнал
// меняются одной транзакцией БД, поэтому при ошибке платёж остаётся
// pending и повтор уведомления шлюза зачислит его заново; повторное
// уведомление уже зачисленного платежа ничего не меняет.
func (s *WebhookServer) creditPayment(externalID string) error {
	pay, credited, err := s.settle(externalID)
	if err != nil {
		return fmt.Errorf("платёж %s: %w", externalID, err)
	}
	if credited {
		s.notifyUser(pay)
	}
	return nil
}

func (s *WebhookServer) notifyUser(pay *db.Payment) {
	if s.bot == nil {
		return
	}
	user, err := db.GetUserByID(pay.UserID)
	if err != nil || user.TelegramID == nil {
		return
	}
	text := fmt.Sprintf("✅ Баланс пополнен на %.2f ₽", float64(pay.AmountKopeks)/100)
	s.bot.Send(tgbotapi.NewMessage(*user.TelegramID, text))
}

// handleYooKassa обрабатывает уведомления YooKassa.
func (s *WebhookServer) handleYooKassa(w http.ResponseWriter, r *http.Request) {
	defer logger.NotifyOnPanic("handleYooKassa")
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body.Close()
	if !checkYooKassaSignature(s.yooSecret, body, r.Header.Get("Authorization"), r.Header.Get("Content-Yoomoney-Signature")) {
		logger.NotifyAdmin("YooKassa: недействительная подпись webhook")
		w.WriteHeader(http.StatusUnauthorized)
		w.Write([]byte("invalid signature"))
		return
	}
	var event struct {
		Event  string `json:"event"`
		Object struct {
			ID     string `json:"id"`
			Status string `json:"status"`
		} `json:"object"`
	}
	if err := json.Unmarshal(body, &event); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	// Обрабатываем только успешные платежи
	if event.Object.Status != "succeeded" {
		w.WriteHeader(http.StatusOK)
		return
	}
	// Ошибка зачисления отдаёт 5xx, чтобы шлюз повторил уведомление
	if err := s.creditPayment(event.Object.ID); err != nil {
		logger.NotifyAdmin("YooKassa webhook: " + err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleCryptoBot обрабатывает уведомления Crypto Pay.
func (s *WebhookServer) handleCryptoBot(w http.ResponseWriter, r *http.Request) {
	defer logger.NotifyOnPanic("handleCryptoBot")
	if s.cryptoBot == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	body, err := io.ReadAll(r.Body)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	r.Body.Close()
	if !checkCryptoBotSignature(s.cryptoBot.token, body, r.Header.Get("Crypto-Pay-Api-Signature")) {
		logger.NotifyAdmin("CryptoBot: недействительная подпись webhook")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var update struct {
		UpdateType string `json:"update_type"`
		Payload    struct {
			InvoiceID int64  `json:"invoice_id"`
			Status    string `json:"status"`
		} `json:"payload"`
	}
	if err := json.Unmarshal(body, &update); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if update.UpdateType != "invoice_paid" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := s.creditPayment(fmt.Sprintf("%d", update.Payload.InvoiceID)); err != nil {
		logger.NotifyAdmin("CryptoBot webhook: " + err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}

// handleFreekassa обрабатывает уведомления Freekassa (форма + IP-фильтр).
func (s *WebhookServer) handleFreekassa(w http.ResponseWriter, r *http.Request) {
	defer logger.NotifyOnPanic("handleFreekassa")
	if s.freekassa == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		ip = r.RemoteAddr
	}
	if !s.freekassa.IPAllowed(ip) {
		logger.NotifyAdmin("Freekassa: уведомление с постороннего адреса " + ip)
		w.WriteHeader(http.StatusForbidden)
		return
	}
	if err := r.ParseForm(); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	merchantID := r.FormValue("MERCHANT_ID")
	amount := r.FormValue("AMOUNT")
	orderID := r.FormValue("MERCHANT_ORDER_ID")
	sign := r.FormValue("SIGN")
	if !s.freekassa.checkWebhookSignature(merchantID, amount, orderID, sign) {
		logger.NotifyAdmin("Freekassa: недействительная подпись webhook")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	// Контрольная сверка статуса заказа через API, если настроен ключ
	if s.freekassa.apiKey != "" {
		ctx, cancel := context.WithTimeout(r.Context(), 15*time.Second)
		status, err := s.freekassa.OrderStatus(ctx, orderID)
		cancel()
		if err != nil {
			logger.NotifyAdmin("Freekassa: не удалось проверить статус заказа " + orderID + ": " + err.Error())
		} else if status != "paid" {
			logger.NotifyAdmin("Freekassa: уведомление о неоплаченном заказе " + orderID)
			w.WriteHeader(http.StatusConflict)
			return
		}
	}
	if err := s.creditPayment(orderID); err != nil {
		logger.NotifyAdmin("Freekassa webhook: " + err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	// Freekassa ожидает именно этот ответ
	w.Write([]byte("YES"))
}

// handlePlatega обрабатывает уведомления Platega.
func (s *WebhookServer) handlePlatega(w http.ResponseWriter, r *http.Request) {
	defer logger.NotifyOnPanic("handlePlatega")
	if s.platega == nil {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if !s.platega.checkWebhookAuth(r.Header.Get("X-MerchantId"), r.Header.Get("X-Secret")) {
		logger.NotifyAdmin("Platega: неавторизованное уведомление")
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	var event struct {
		ID     string `json:"id"`
		Status string `json:"status"`
	}
	if err := json.NewDecoder(r.Body).Decode(&event); err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if event.Status != "CONFIRMED" {
		w.WriteHeader(http.StatusOK)
		return
	}
	if err := s.creditPayment(event.ID); err != nil {
		logger.NotifyAdmin("Platega webhook: " + err.Error())
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusOK)
}
