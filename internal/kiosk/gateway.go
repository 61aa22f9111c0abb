package kiosk

import (
	"context"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
)

// RefreshState — состояние сигнала принудительной перезагрузки на сервере
type RefreshState struct {
	ForceRefresh   bool   `json:"force_refresh"`
	Fresh          bool   `json:"fresh"`
	ForceRefreshAt string `json:"force_refresh_at,omitempty"`
}

// PingReport — данные, собранные устройством в ответ на пинг
type PingReport struct {
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	BatteryLevel *int     `json:"battery_level,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// Interaction — запись о взаимодействии с рекламой для журнала аналитики
type Interaction struct {
	AdID      string   `json:"ad_id"`
	DeviceID  string   `json:"device_id"`
	Type      string   `json:"interaction_type"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"`
}

// Gateway — единственная дверь киоска к бэкенду. Любой вызов может
// провалиться: сеть в рикше ненадёжна, вызывающий сам решает, что делать
// с ошибкой. Отсутствие данных (ErrNotFound) — валидное пустое состояние.
type Gateway interface {
	// Device возвращает каноническую запись устройства
	Device(ctx context.Context, id string) (*entity.Device, error)

	// Heartbeat отмечает устройство живым
	Heartbeat(ctx context.Context, deviceID string) error

	// ActiveAds возвращает активный плейлист рекламы
	ActiveAds(ctx context.Context) ([]entity.Ad, error)

	// LatestNews возвращает последние новости
	LatestNews(ctx context.Context) ([]entity.NewsItem, error)

	// NewsEnabled возвращает настройку чередования новостей
	NewsEnabled(ctx context.Context) (bool, error)

	// RefreshState возвращает состояние сигнала force-refresh
	RefreshState(ctx context.Context, deviceID string) (*RefreshState, error)

	// ClearRefresh сбрасывает сигнал force-refresh
	ClearRefresh(ctx context.Context, deviceID string) error

	// PendingPing возвращает самый старый pending-пинг или apperrors.ErrNotFound
	PendingPing(ctx context.Context, deviceID string) (*entity.DevicePing, error)

	// CompletePing отправляет собранные данные пинга
	CompletePing(ctx context.Context, pingID string, report PingReport) error

	// FailPing помечает пинг проваленным
	FailPing(ctx context.Context, pingID, errorMessage string) error

	// RecordInteraction добавляет запись в журнал взаимодействий
	RecordInteraction(ctx context.Context, interaction Interaction) error
}
