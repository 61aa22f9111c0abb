package entity

import (
	"encoding/json"
	"time"
)

// SettingKeyNewsEnabled — единственный используемый ключ настроек:
// включено ли чередование новостей с рекламой на дисплее.
const SettingKeyNewsEnabled = "news_enabled"

// Setting представляет пару ключ/значение в таблице настроек.
// Значение хранится как JSONB, запись обновляется через upsert по ключу.
type Setting struct {
	Key       string          `gorm:"primaryKey;size:64" json:"key"`
	Value     json.RawMessage `gorm:"type:jsonb;not null" json:"value"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// TableName определяет имя таблицы для GORM
func (Setting) TableName() string {
	return "settings"
}

// NewsEnabledValue — формат значения ключа news_enabled
type NewsEnabledValue struct {
	Enabled bool `json:"enabled"`
}
