package repository

import (
	"time"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
)

// DeviceRepository определяет методы для работы с устройствами рикш
type DeviceRepository interface {
	// Create регистрирует новое устройство
	Create(device *entity.Device) error

	// GetByID возвращает устройство по ID
	GetByID(id string) (*entity.Device, error)

	// List возвращает все устройства, отсортированные по имени
	List() ([]entity.Device, error)

	// Update сохраняет изменения устройства
	Update(device *entity.Device) error

	// TouchLastActive обновляет метку последней активности
	TouchLastActive(id string, at time.Time) error

	// TouchLastPingAttempt обновляет метку последней попытки пинга
	TouchLastPingAttempt(id string, at time.Time) error

	// SetForceRefresh устанавливает или сбрасывает флаг принудительной перезагрузки.
	// При установке записывается и временная метка, при сбросе метка не трогается.
	SetForceRefresh(id string, flag bool, at *time.Time) error
}
