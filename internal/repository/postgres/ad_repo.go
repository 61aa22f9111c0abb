package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// AdRepository реализует repository.AdRepository
type AdRepository struct {
	db *gorm.DB
}

// NewAdRepository создаёт новый репозиторий реклам
func NewAdRepository(db *gorm.DB) *AdRepository {
	return &AdRepository{db: db}
}

// Create создаёт новую рекламу
func (r *AdRepository) Create(ad *entity.Ad) error {
	return r.db.Create(ad).Error
}

// GetByID возвращает рекламу по ID
func (r *AdRepository) GetByID(id string) (*entity.Ad, error) {
	var ad entity.Ad
	if err := r.db.First(&ad, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &ad, nil
}

// List возвращает все рекламы, новые первыми
func (r *AdRepository) List() ([]entity.Ad, error) {
	var ads []entity.Ad
	if err := r.db.Order("created_at DESC").Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// ListActive возвращает только активные рекламы, новые первыми
func (r *AdRepository) ListActive() ([]entity.Ad, error) {
	var ads []entity.Ad
	if err := r.db.Where("is_active = ?", true).Order("created_at DESC").Find(&ads).Error; err != nil {
		return nil, err
	}
	return ads, nil
}

// SetActive переключает флаг активности
func (r *AdRepository) SetActive(id string, active bool) error {
	result := r.db.Model(&entity.Ad{}).Where("id = ?", id).Update("is_active", active)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// Delete удаляет рекламу по ID
func (r *AdRepository) Delete(id string) error {
	result := r.db.Delete(&entity.Ad{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
