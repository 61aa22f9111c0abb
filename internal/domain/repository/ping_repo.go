package repository

import "github.com/VLVrishank/revdeploy/internal/domain/entity"

// PingRepository определяет методы для работы с пинг-запросами.
// Таблица device_pings играет роль очереди сообщений "бедного человека":
// контроллер вставляет pending-строки, устройство забирает самую старую.
type PingRepository interface {
	// Create создаёт новый пинг-запрос
	Create(ping *entity.DevicePing) error

	// GetByID возвращает пинг-запрос по ID
	GetByID(id string) (*entity.DevicePing, error)

	// OldestPending возвращает самый старый pending-запрос устройства
	// или apperrors.ErrNotFound, если таких нет
	OldestPending(deviceID string) (*entity.DevicePing, error)

	// Resolve переводит pending-запрос в терминальный статус.
	// Возвращает apperrors.ErrConflict, если запрос уже не pending —
	// терминальный переход выполняется ровно один раз.
	Resolve(ping *entity.DevicePing) error
}
