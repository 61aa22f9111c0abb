package repository

import "github.com/VLVrishank/revdeploy/internal/domain/entity"

// AdRepository определяет методы для работы с рекламными роликами
type AdRepository interface {
	// Create создаёт новую рекламу
	Create(ad *entity.Ad) error

	// GetByID возвращает рекламу по ID
	GetByID(id string) (*entity.Ad, error)

	// List возвращает все рекламы, новые первыми
	List() ([]entity.Ad, error)

	// ListActive возвращает только активные рекламы, новые первыми
	ListActive() ([]entity.Ad, error)

	// SetActive переключает флаг активности
	SetActive(id string, active bool) error

	// Delete удаляет рекламу по ID
	Delete(id string) error
}
