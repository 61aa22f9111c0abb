package entity

import "time"

// Device представляет дисплей-устройство, установленное в рикше.
// PIN используется как простой общий секрет для входа киоска.
type Device struct {
	ID              string     `gorm:"primaryKey;size:64" json:"id"` // может быть задан оператором при привязке
	Name            string     `gorm:"size:100;not null" json:"name"`
	PhoneNumber     string     `gorm:"size:20;not null;default:''" json:"phone_number"`
	PINHash         string     `gorm:"size:100;not null" json:"-"` // bcrypt от 4-значного PIN
	LastActive      *time.Time `json:"last_active,omitempty"`
	ForceRefresh    bool       `gorm:"not null;default:false" json:"force_refresh"`
	ForceRefreshAt  *time.Time `json:"force_refresh_at,omitempty"`
	LastPingAttempt *time.Time `json:"last_ping_attempt,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Device) TableName() string {
	return "devices"
}

// RefreshIsFresh проверяет, что сигнал force-refresh не старше окна свежести.
// Просроченный сигнал сбрасывается без перезагрузки, чтобы не зациклить дисплей.
func (d *Device) RefreshIsFresh(now time.Time, window time.Duration) bool {
	if !d.ForceRefresh || d.ForceRefreshAt == nil {
		return false
	}
	return now.Sub(*d.ForceRefreshAt) < window
}
