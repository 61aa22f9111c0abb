package entity

import "time"

// Статусы пинг-запроса
const (
	PingStatusPending   = "pending"
	PingStatusCompleted = "completed"
	PingStatusFailed    = "failed"
)

// DevicePing представляет запрос оператора "где ты?" к конкретному устройству.
// Создаётся контроллером, ровно один раз переводится устройством в терминальный
// статус (completed или failed) и после этого не изменяется.
type DevicePing struct {
	ID           string     `gorm:"primaryKey;size:36" json:"id"`
	DeviceID     string     `gorm:"size:64;not null;index" json:"device_id"`
	Status       string     `gorm:"size:16;not null;default:'pending';index" json:"status"`
	Latitude     *float64   `json:"latitude,omitempty"`
	Longitude    *float64   `json:"longitude,omitempty"`
	Accuracy     *float64   `json:"accuracy,omitempty"`
	BatteryLevel *int       `json:"battery_level,omitempty"`
	IsActive     *bool      `json:"is_active,omitempty"`
	ErrorMessage string     `gorm:"size:255;not null;default:''" json:"error_message,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// TableName определяет имя таблицы для GORM
func (DevicePing) TableName() string {
	return "device_pings"
}

// IsPending проверяет, что запрос ещё не обработан устройством
func (p *DevicePing) IsPending() bool {
	return p.Status == PingStatusPending
}

// IsTerminal проверяет, что запрос достиг терминального статуса
func (p *DevicePing) IsTerminal() bool {
	return p.Status == PingStatusCompleted || p.Status == PingStatusFailed
}

// HasLocation проверяет, что устройство сообщило координаты
func (p *DevicePing) HasLocation() bool {
	return p.Latitude != nil && p.Longitude != nil
}
