package postgres

import (
	"time"

	"gorm.io/gorm"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
)

// NewsRepository реализует repository.NewsRepository
type NewsRepository struct {
	db *gorm.DB
}

// NewNewsRepository создаёт новый репозиторий новостей
func NewNewsRepository(db *gorm.DB) *NewsRepository {
	return &NewsRepository{db: db}
}

// CreateBatch сохраняет пачку новостей
func (r *NewsRepository) CreateBatch(items []entity.NewsItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.Create(&items).Error
}

// Latest возвращает последние новости по дате публикации
func (r *NewsRepository) Latest(limit int) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	if err := r.db.Order("published_at DESC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// Count возвращает общее число сохранённых новостей
func (r *NewsRepository) Count() (int64, error) {
	var count int64
	if err := r.db.Model(&entity.NewsItem{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountCreatedSince возвращает число новостей, сохранённых после указанного момента
func (r *NewsRepository) CountCreatedSince(since time.Time) (int64, error) {
	var count int64
	err := r.db.Model(&entity.NewsItem{}).Where("created_at >= ?", since).Count(&count).Error
	if err != nil {
		return 0, err
	}
	return count, nil
}

// Oldest возвращает самые старые новости (для прореживания)
func (r *NewsRepository) Oldest(limit int) ([]entity.NewsItem, error) {
	var items []entity.NewsItem
	if err := r.db.Order("created_at ASC").Limit(limit).Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

// DeleteByIDs удаляет новости по списку идентификаторов
func (r *NewsRepository) DeleteByIDs(ids []string) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&entity.NewsItem{}, "id IN ?", ids).Error
}
