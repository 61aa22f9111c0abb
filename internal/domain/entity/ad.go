package entity

import "time"

// Типы медиа рекламного ролика
const (
	AdTypeImage = "image"
	AdTypeVideo = "video"
)

// Ad представляет рекламный ролик или баннер, показываемый на дисплее рикши
type Ad struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Title        string    `gorm:"size:100;not null" json:"title"`
	Description  string    `gorm:"type:text;not null;default:''" json:"description"`
	Type         string    `gorm:"size:16;not null" json:"type"` // "image" | "video"
	URL          string    `gorm:"size:1024;not null" json:"url"`
	PublicID     string    `gorm:"size:255;not null;default:''" json:"-"` // идентификатор файла в Cloudinary
	DurationSec  int       `gorm:"not null;default:10" json:"duration"`   // имеет смысл только для изображений
	ExternalLink string    `gorm:"size:1024;not null;default:''" json:"external_link"`
	IsActive     bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (Ad) TableName() string {
	return "ads"
}

// IsVideo проверяет, является ли реклама видео
func (a *Ad) IsVideo() bool {
	return a.Type == AdTypeVideo
}

// IsImage проверяет, является ли реклама изображением
func (a *Ad) IsImage() bool {
	return a.Type == AdTypeImage
}
