package kiosk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// Client реализует Gateway поверх HTTP API контроллера
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// NewClient создаёт нового HTTP-клиента шлюза
func NewClient(baseURL string) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// do выполняет запрос и декодирует JSON-ответ в dest (если dest != nil)
func (c *Client) do(ctx context.Context, method, path string, body, dest interface{}) error {
	var reqBody io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("запрос %s %s: %w", method, path, err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return apperrors.ErrNotFound
	case resp.StatusCode == http.StatusConflict:
		return apperrors.ErrConflict
	case resp.StatusCode == http.StatusUnauthorized:
		return apperrors.ErrUnauthorized
	case resp.StatusCode >= 400:
		return fmt.Errorf("запрос %s %s: статус %d", method, path, resp.StatusCode)
	}

	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("ответ %s %s: %w", method, path, err)
	}
	return nil
}

// itemsEnvelope — обёртка списочных ответов API
type itemsEnvelope[T any] struct {
	Items []T `json:"items"`
}

func (c *Client) Device(ctx context.Context, id string) (*entity.Device, error) {
	var device entity.Device
	if err := c.do(ctx, http.MethodGet, "/api/display/devices/"+id, nil, &device); err != nil {
		return nil, err
	}
	return &device, nil
}

func (c *Client) Heartbeat(ctx context.Context, deviceID string) error {
	return c.do(ctx, http.MethodPost, "/api/display/devices/"+deviceID+"/heartbeat", struct{}{}, nil)
}

func (c *Client) ActiveAds(ctx context.Context) ([]entity.Ad, error) {
	var envelope itemsEnvelope[entity.Ad]
	if err := c.do(ctx, http.MethodGet, "/api/display/ads", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

func (c *Client) LatestNews(ctx context.Context) ([]entity.NewsItem, error) {
	var envelope itemsEnvelope[entity.NewsItem]
	if err := c.do(ctx, http.MethodGet, "/api/display/news", nil, &envelope); err != nil {
		return nil, err
	}
	return envelope.Items, nil
}

func (c *Client) NewsEnabled(ctx context.Context) (bool, error) {
	var resp struct {
		NewsEnabled bool `json:"news_enabled"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/display/settings/news", nil, &resp); err != nil {
		return true, err // новости по умолчанию включены
	}
	return resp.NewsEnabled, nil
}

func (c *Client) RefreshState(ctx context.Context, deviceID string) (*RefreshState, error) {
	var state RefreshState
	if err := c.do(ctx, http.MethodGet, "/api/display/devices/"+deviceID+"/refresh", nil, &state); err != nil {
		return nil, err
	}
	return &state, nil
}

func (c *Client) ClearRefresh(ctx context.Context, deviceID string) error {
	return c.do(ctx, http.MethodDelete, "/api/display/devices/"+deviceID+"/refresh", nil, nil)
}

func (c *Client) PendingPing(ctx context.Context, deviceID string) (*entity.DevicePing, error) {
	var ping entity.DevicePing
	if err := c.do(ctx, http.MethodGet, "/api/display/devices/"+deviceID+"/pings/pending", nil, &ping); err != nil {
		return nil, err
	}
	return &ping, nil
}

func (c *Client) CompletePing(ctx context.Context, pingID string, report PingReport) error {
	return c.do(ctx, http.MethodPost, "/api/display/pings/"+pingID+"/complete", report, nil)
}

func (c *Client) FailPing(ctx context.Context, pingID, errorMessage string) error {
	body := struct {
		ErrorMessage string `json:"error_message"`
	}{ErrorMessage: errorMessage}
	return c.do(ctx, http.MethodPost, "/api/display/pings/"+pingID+"/fail", body, nil)
}

func (c *Client) RecordInteraction(ctx context.Context, interaction Interaction) error {
	return c.do(ctx, http.MethodPost, "/api/display/interactions", interaction, nil)
}
