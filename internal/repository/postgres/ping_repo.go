package postgres

import (
	"errors"

	"gorm.io/gorm"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// PingRepository реализует repository.PingRepository
type PingRepository struct {
	db *gorm.DB
}

// NewPingRepository создаёт новый репозиторий пинг-запросов
func NewPingRepository(db *gorm.DB) *PingRepository {
	return &PingRepository{db: db}
}

// Create создаёт новый пинг-запрос
func (r *PingRepository) Create(ping *entity.DevicePing) error {
	return r.db.Create(ping).Error
}

// GetByID возвращает пинг-запрос по ID
func (r *PingRepository) GetByID(id string) (*entity.DevicePing, error) {
	var ping entity.DevicePing
	if err := r.db.First(&ping, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &ping, nil
}

// OldestPending возвращает самый старый pending-запрос устройства.
// Дубликаты pending-запросов не запрещены при создании: побеждает самый
// старый, остальные ждут следующих тиков опроса.
func (r *PingRepository) OldestPending(deviceID string) (*entity.DevicePing, error) {
	var ping entity.DevicePing
	err := r.db.
		Where("device_id = ? AND status = ?", deviceID, entity.PingStatusPending).
		Order("created_at ASC").
		First(&ping).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &ping, nil
}

// Resolve переводит pending-запрос в терминальный статус.
// Условие status='pending' в WHERE гарантирует, что переход выполняется
// ровно один раз даже при гонке двух ответов.
func (r *PingRepository) Resolve(ping *entity.DevicePing) error {
	result := r.db.Model(&entity.DevicePing{}).
		Where("id = ? AND status = ?", ping.ID, entity.PingStatusPending).
		Updates(map[string]interface{}{
			"status":        ping.Status,
			"latitude":      ping.Latitude,
			"longitude":     ping.Longitude,
			"accuracy":      ping.Accuracy,
			"battery_level": ping.BatteryLevel,
			"is_active":     ping.IsActive,
			"error_message": ping.ErrorMessage,
			"completed_at":  ping.CompletedAt,
		})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrConflict
	}
	return nil
}
