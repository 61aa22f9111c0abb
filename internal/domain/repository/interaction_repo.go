package repository

import "github.com/VLVrishank/revdeploy/internal/domain/entity"

// AdSummary — агрегат аналитики по одной рекламе
type AdSummary struct {
	AdID        string `json:"ad_id"`
	Title       string `json:"title"`
	Impressions int64  `json:"impressions"`
	LinkClicks  int64  `json:"link_clicks"`
	ReadMores   int64  `json:"read_more_clicks"`
}

// InteractionRepository определяет методы для журнала взаимодействий с рекламой
type InteractionRepository interface {
	// Create добавляет запись в журнал (журнал только на добавление)
	Create(interaction *entity.AdInteraction) error

	// Recent возвращает последние записи журнала
	Recent(limit int) ([]entity.AdInteraction, error)

	// SummaryByAd возвращает агрегаты показов/кликов по каждой рекламе
	SummaryByAd() ([]AdSummary, error)
}
