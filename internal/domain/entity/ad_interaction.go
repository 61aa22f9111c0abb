package entity

import "time"

// Типы взаимодействий с рекламой
const (
	InteractionImpression    = "impression"
	InteractionLinkClick     = "link_click"
	InteractionReadMoreClick = "read_more_click"
)

// AdInteraction представляет одну запись аналитики показов/кликов.
// Лог только на добавление, записи никогда не изменяются.
type AdInteraction struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	AdID       string    `gorm:"size:36;not null;index" json:"ad_id"`
	DeviceID   string    `gorm:"size:64;not null;index" json:"device_id"`
	Type       string    `gorm:"column:interaction_type;size:32;not null" json:"interaction_type"`
	Latitude   *float64  `json:"latitude,omitempty"`
	Longitude  *float64  `json:"longitude,omitempty"`
	Accuracy   *float64  `json:"accuracy,omitempty"`
	OccurredAt time.Time `gorm:"not null;index" json:"timestamp"`
	CreatedAt  time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (AdInteraction) TableName() string {
	return "ad_interactions"
}

// ValidInteractionType проверяет тип взаимодействия
func ValidInteractionType(t string) bool {
	switch t {
	case InteractionImpression, InteractionLinkClick, InteractionReadMoreClick:
		return true
	}
	return false
}
