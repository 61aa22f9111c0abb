package entity

import "time"

// NewsItem представляет новостную заметку, чередующуюся с рекламой на дисплее.
// Заполняется раз в сутки из внешней ленты заголовков.
type NewsItem struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Title       string    `gorm:"size:512;not null" json:"title"`
	Description string    `gorm:"type:text;not null;default:''" json:"description"`
	URL         string    `gorm:"size:1024;not null;default:''" json:"url"`
	ImageURL    string    `gorm:"size:1024;not null;default:''" json:"image_url"`
	Source      string    `gorm:"size:100;not null;default:''" json:"source"`
	PublishedAt time.Time `json:"published_at"`
	CreatedAt   time.Time `json:"created_at"`
}

// TableName определяет имя таблицы для GORM
func (NewsItem) TableName() string {
	return "news_items"
}
