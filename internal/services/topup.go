package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"VPN-Shop-bot/internal/db"
)

// Пределы суммы пополнения, в копейках
const (
	MinTopupKopeks = 50 * 100
	MaxTopupKopeks = 100000 * 100
)

// PaymentService создаёт пополнения баланса через подключённые шлюзы.
// Платёж регистрируется в журнале до выдачи ссылки, зачисление
// выполняется webhook-сервером после подтверждения шлюза.
type PaymentService struct {
	YooKassa  *YooKassaClient
	CryptoBot *CryptoBotClient
	Freekassa *FreekassaClient
	Platega   *PlategaClient

	ReturnURL string
}

// CreateTopup выставляет счёт на пополнение и возвращает ссылку на оплату.
func (p *PaymentService) CreateTopup(ctx context.Context, userID uint, gateway string, amountKopeks int) (payURL string, err error) {
	if amountKopeks < MinTopupKopeks || amountKopeks > MaxTopupKopeks {
		return "", fmt.Errorf("сумма пополнения от %d до %d ₽", MinTopupKopeks/100, MaxTopupKopeks/100)
	}
	description := fmt.Sprintf("Пополнение баланса, пользователь %d", userID)

	var externalID string
	switch gateway {
	case GatewayYooKassa:
		if p.YooKassa == nil {
			return "", fmt.Errorf("шлюз %s не настроен", gateway)
		}
		externalID, payURL, err = p.YooKassa.CreatePayment(ctx, amountKopeks, description, p.ReturnURL)
	case GatewayCryptoBot:
		if p.CryptoBot == nil {
			return "", fmt.Errorf("шлюз %s не настроен", gateway)
		}
		externalID, payURL, err = p.CryptoBot.CreateInvoice(ctx, amountKopeks, description)
	case GatewayFreekassa:
		if p.Freekassa == nil {
			return "", fmt.Errorf("шлюз %s не настроен", gateway)
		}
		// Freekassa идентифицирует платёж номером заказа магазина
		externalID = uuid.NewString()
		payURL = p.Freekassa.PaymentURL(externalID, amountKopeks)
	case GatewayPlatega:
		if p.Platega == nil {
			return "", fmt.Errorf("шлюз %s не настроен", gateway)
		}
		externalID, payURL, err = p.Platega.CreateTransaction(ctx, amountKopeks, description, p.ReturnURL)
	default:
		return "", fmt.Errorf("неизвестный шлюз %q", gateway)
	}
	if err != nil {
		return "", err
	}

	if _, err := db.CreatePayment(userID, gateway, externalID, amountKopeks); err != nil {
		return "", fmt.Errorf("регистрация платежа: %w", err)
	}
	return payURL, nil
}

// Gateways возвращает настроенные шлюзы в порядке показа пользователю.
func (p *PaymentService) Gateways() []string {
	var out []string
	if p.YooKassa != nil {
		out = append(out, GatewayYooKassa)
	}
	if p.CryptoBot != nil {
		out = append(out, GatewayCryptoBot)
	}
	if p.Freekassa != nil {
		out = append(out, GatewayFreekassa)
	}
	if p.Platega != nil {
		out = append(out, GatewayPlatega)
	}
	return out
}
