package repository

import "github.com/VLVrishank/revdeploy/internal/domain/entity"

// SettingRepository определяет методы для работы с настройками ключ/значение
type SettingRepository interface {
	// Get возвращает настройку по ключу или apperrors.ErrNotFound
	Get(key string) (*entity.Setting, error)

	// Upsert создаёт или обновляет настройку по ключу
	Upsert(setting *entity.Setting) error
}
