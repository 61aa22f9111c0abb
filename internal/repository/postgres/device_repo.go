package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// DeviceRepository реализует repository.DeviceRepository
type DeviceRepository struct {
	db *gorm.DB
}

// NewDeviceRepository создаёт новый репозиторий устройств
func NewDeviceRepository(db *gorm.DB) *DeviceRepository {
	return &DeviceRepository{db: db}
}

// Create регистрирует новое устройство
func (r *DeviceRepository) Create(device *entity.Device) error {
	return r.db.Create(device).Error
}

// GetByID возвращает устройство по ID
func (r *DeviceRepository) GetByID(id string) (*entity.Device, error) {
	var device entity.Device
	if err := r.db.First(&device, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &device, nil
}

// List возвращает все устройства, отсортированные по имени
func (r *DeviceRepository) List() ([]entity.Device, error) {
	var devices []entity.Device
	if err := r.db.Order("name ASC").Find(&devices).Error; err != nil {
		return nil, err
	}
	return devices, nil
}

// Update сохраняет изменения устройства
func (r *DeviceRepository) Update(device *entity.Device) error {
	return r.db.Save(device).Error
}

// TouchLastActive обновляет метку последней активности
func (r *DeviceRepository) TouchLastActive(id string, at time.Time) error {
	return r.db.Model(&entity.Device{}).Where("id = ?", id).Update("last_active", at).Error
}

// TouchLastPingAttempt обновляет метку последней попытки пинга
func (r *DeviceRepository) TouchLastPingAttempt(id string, at time.Time) error {
	return r.db.Model(&entity.Device{}).Where("id = ?", id).Update("last_ping_attempt", at).Error
}

// SetForceRefresh устанавливает или сбрасывает флаг принудительной перезагрузки
func (r *DeviceRepository) SetForceRefresh(id string, flag bool, at *time.Time) error {
	updates := map[string]interface{}{"force_refresh": flag}
	if at != nil {
		updates["force_refresh_at"] = *at
	}
	result := r.db.Model(&entity.Device{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
