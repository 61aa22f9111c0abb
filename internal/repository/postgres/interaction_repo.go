package postgres

import (
	"gorm.io/gorm"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	"github.com/VLVrishank/revdeploy/internal/domain/repository"
)

// InteractionRepository реализует repository.InteractionRepository
type InteractionRepository struct {
	db *gorm.DB
}

// NewInteractionRepository создаёт новый репозиторий журнала взаимодействий
func NewInteractionRepository(db *gorm.DB) *InteractionRepository {
	return &InteractionRepository{db: db}
}

// Create добавляет запись в журнал
func (r *InteractionRepository) Create(interaction *entity.AdInteraction) error {
	return r.db.Create(interaction).Error
}

// Recent возвращает последние записи журнала
func (r *InteractionRepository) Recent(limit int) ([]entity.AdInteraction, error) {
	var interactions []entity.AdInteraction
	err := r.db.Order("occurred_at DESC").Limit(limit).Find(&interactions).Error
	if err != nil {
		return nil, err
	}
	return interactions, nil
}

// SummaryByAd возвращает агрегаты показов/кликов по каждой рекламе
func (r *InteractionRepository) SummaryByAd() ([]repository.AdSummary, error) {
	var summaries []repository.AdSummary
	err := r.db.Model(&entity.AdInteraction{}).
		Select(`ads.id AS ad_id,
			ads.title AS title,
			COUNT(*) FILTER (WHERE interaction_type = 'impression') AS impressions,
			COUNT(*) FILTER (WHERE interaction_type = 'link_click') AS link_clicks,
			COUNT(*) FILTER (WHERE interaction_type = 'read_more_click') AS read_mores`).
		Joins("JOIN ads ON ads.id = ad_interactions.ad_id").
		Group("ads.id, ads.title").
		Order("impressions DESC").
		Scan(&summaries).Error
	if err != nil {
		return nil, err
	}
	return summaries, nil
}
