// Package remnawave — клиент панели RemnaWave. Панель хранит учётные
// записи VPN-пользователей; бот выступает источником истины по срокам
// и лимитам и досылает изменения после каждой оплаты.
package remnawave

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-resty/resty/v2"

	"VPN-Shop-bot/internal/db"
	"VPN-Shop-bot/internal/logger"
)

const bytesPerGB = 1024 * 1024 * 1024

type Client struct {
	http *resty.Client
}

func NewClient(baseURL, token string) *Client {
	return &Client{
		http: resty.New().
			SetBaseURL(baseURL).
			SetAuthToken(token).
			SetHeader("Content-Type", "application/json").
			SetTimeout(15 * time.Second).
			SetRetryCount(2).
			SetRetryWaitTime(time.Second),
	}
}

type panelUser struct {
	UUID                 string   `json:"uuid,omitempty"`
	Username             string   `json:"username"`
	TelegramID           *int64   `json:"telegramId,omitempty"`
	Status               string   `json:"status"`
	ExpireAt             string   `json:"expireAt"`
	TrafficLimitBytes    int64    `json:"trafficLimitBytes"`
	TrafficLimitStrategy string   `json:"trafficLimitStrategy"`
	ActiveInternalSquads []string `json:"activeInternalSquads"`
	SubscriptionURL      string   `json:"subscriptionUrl,omitempty"`
}

type panelResponse struct {
	Response panelUser `json:"response"`
}

// SyncUser создаёт или обновляет учётную запись в панели по состоянию
// подписки. При resetTraffic дополнительно обнуляется счётчик трафика.
func (c *Client) SyncUser(ctx context.Context, user *db.User, sub *db.Subscription, resetTraffic bool, reason string) error {
	status := "ACTIVE"
	if sub.Status != db.SubscriptionActive {
		status = "DISABLED"
	}
	payload := panelUser{
		Username:             panelUsername(user),
		TelegramID:           user.TelegramID,
		Status:               status,
		ExpireAt:             sub.EndDate.UTC().Format(time.RFC3339),
		TrafficLimitBytes:    int64(sub.TrafficLimitGB) * bytesPerGB,
		TrafficLimitStrategy: "MONTH",
		ActiveInternalSquads: sub.ConnectedSquads,
	}

	existing, err := c.findUser(ctx, user)
	if err != nil {
		return err
	}

	var synced panelUser
	if existing == nil {
		synced, err = c.createUser(ctx, payload)
	} else {
		payload.UUID = existing.UUID
		synced, err = c.updateUser(ctx, payload)
	}
	if err != nil {
		return err
	}

	if resetTraffic && synced.UUID != "" {
		if err := c.resetTraffic(ctx, synced.UUID); err != nil {
			// Сброс трафика не критичен для доступа
			logger.Warn(fmt.Sprintf("remnawave: сброс трафика не удался (%s): %v", synced.UUID, err))
		}
	}

	if synced.SubscriptionURL != "" && synced.SubscriptionURL != sub.SubscriptionURL {
		if err := db.SetSubscriptionURL(sub, synced.SubscriptionURL); err != nil {
			logger.Warn(fmt.Sprintf("remnawave: не сохранена ссылка подписки пользователя %d: %v", user.ID, err))
		}
	}
	logger.Info(fmt.Sprintf("remnawave: пользователь %d синхронизирован (%s)", user.ID, reason))
	return nil
}

// DisableUser отключает учётную запись в панели (просроченная подписка).
func (c *Client) DisableUser(ctx context.Context, user *db.User) error {
	existing, err := c.findUser(ctx, user)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	resp, err := c.http.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/api/users/%s/actions/disable", existing.UUID))
	if err != nil {
		return fmt.Errorf("remnawave disable: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("remnawave disable: status %d", resp.StatusCode())
	}
	return nil
}

func (c *Client) findUser(ctx context.Context, user *db.User) (*panelUser, error) {
	var result panelResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetResult(&result).
		Get("/api/users/by-username/" + panelUsername(user))
	if err != nil {
		return nil, fmt.Errorf("remnawave lookup: %w", err)
	}
	if resp.StatusCode() == http.StatusNotFound {
		return nil, nil
	}
	if resp.IsError() {
		return nil, fmt.Errorf("remnawave lookup: status %d", resp.StatusCode())
	}
	return &result.Response, nil
}

func (c *Client) createUser(ctx context.Context, payload panelUser) (panelUser, error) {
	var result panelResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Post("/api/users")
	if err != nil {
		return panelUser{}, fmt.Errorf("remnawave create: %w", err)
	}
	if resp.IsError() {
		return panelUser{}, fmt.Errorf("remnawave create: status %d: %s", resp.StatusCode(), resp.String())
	}
	return result.Response, nil
}

func (c *Client) updateUser(ctx context.Context, payload panelUser) (panelUser, error) {
	var result panelResponse
	resp, err := c.http.R().
		SetContext(ctx).
		SetBody(payload).
		SetResult(&result).
		Patch("/api/users")
	if err != nil {
		return panelUser{}, fmt.Errorf("remnawave update: %w", err)
	}
	if resp.IsError() {
		return panelUser{}, fmt.Errorf("remnawave update: status %d: %s", resp.StatusCode(), resp.String())
	}
	return result.Response, nil
}

func (c *Client) resetTraffic(ctx context.Context, uuid string) error {
	resp, err := c.http.R().
		SetContext(ctx).
		Post(fmt.Sprintf("/api/users/%s/actions/reset-traffic", uuid))
	if err != nil {
		return err
	}
	if resp.IsError() {
		return fmt.Errorf("status %d", resp.StatusCode())
	}
	return nil
}

// panelUsername — стабильное имя учётной записи в панели.
func panelUsername(user *db.User) string {
	if user.TelegramID != nil {
		return fmt.Sprintf("tg_%d", *user.TelegramID)
	}
	return fmt.Sprintf("user_%d", user.ID)
}
