package repository

import "github.com/VLVrishank/revdeploy/internal/domain/entity"

// OperatorRepository определяет методы для работы с пользователями контроллера
type OperatorRepository interface {
	// Create создаёт нового оператора
	Create(operator *entity.Operator) error

	// GetByID возвращает оператора по ID
	GetByID(id string) (*entity.Operator, error)

	// GetByEmail возвращает оператора по email
	GetByEmail(email string) (*entity.Operator, error)

	// EmailExists проверяет занятость email
	EmailExists(email string) (bool, error)
}
