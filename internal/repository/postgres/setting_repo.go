package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// SettingRepository реализует repository.SettingRepository
type SettingRepository struct {
	db *gorm.DB
}

// NewSettingRepository создаёт новый репозиторий настроек
func NewSettingRepository(db *gorm.DB) *SettingRepository {
	return &SettingRepository{db: db}
}

// Get возвращает настройку по ключу
func (r *SettingRepository) Get(key string) (*entity.Setting, error) {
	var setting entity.Setting
	if err := r.db.First(&setting, "key = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &setting, nil
}

// Upsert создаёт или обновляет настройку по ключу
func (r *SettingRepository) Upsert(setting *entity.Setting) error {
	return r.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "key"}},
		DoUpdates: clause.AssignmentColumns([]string{"value", "updated_at"}),
	}).Create(setting).Error
}
