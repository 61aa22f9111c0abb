package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// OperatorRepository реализует repository.OperatorRepository
type OperatorRepository struct {
	db *gorm.DB
}

// NewOperatorRepository создаёт новый репозиторий операторов
func NewOperatorRepository(db *gorm.DB) *OperatorRepository {
	return &OperatorRepository{db: db}
}

// Create создаёт нового оператора
func (r *OperatorRepository) Create(operator *entity.Operator) error {
	return r.db.Create(operator).Error
}

// GetByID возвращает оператора по ID
func (r *OperatorRepository) GetByID(id string) (*entity.Operator, error) {
	var operator entity.Operator
	if err := r.db.First(&operator, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &operator, nil
}

// GetByEmail возвращает оператора по email
func (r *OperatorRepository) GetByEmail(email string) (*entity.Operator, error) {
	var operator entity.Operator
	if err := r.db.First(&operator, "email = ?", email).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &operator, nil
}

// EmailExists проверяет занятость email
func (r *OperatorRepository) EmailExists(email string) (bool, error) {
	var count int64
	err := r.db.Model(&entity.Operator{}).Where("email = ?", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
