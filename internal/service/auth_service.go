package service

import (
	"fmt"
	"log"

	"github.com/google/uuid"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	"github.com/VLVrishank/revdeploy/internal/domain/repository"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
	"github.com/VLVrishank/revdeploy/pkg/auth"
)

// AuthService предоставляет методы для аутентификации операторов контроллера
type AuthService struct {
	operatorRepo repository.OperatorRepository
	jwtService   *auth.JWTService
}

// NewAuthService создаёт новый сервис аутентификации
func NewAuthService(operatorRepo repository.OperatorRepository, jwtService *auth.JWTService) *AuthService {
	return &AuthService{
		operatorRepo: operatorRepo,
		jwtService:   jwtService,
	}
}

// RegisterOperatorRequest — параметры регистрации оператора
type RegisterOperatorRequest struct {
	Username string `json:"username" binding:"required,min=3,max=50"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register регистрирует нового оператора. Пароль хешируется хуком BeforeSave.
func (s *AuthService) Register(req RegisterOperatorRequest) (*entity.Operator, error) {
	exists, err := s.operatorRepo.EmailExists(req.Email)
	if err != nil {
		return nil, fmt.Errorf("не удалось проверить email: %w", err)
	}
	if exists {
		return nil, fmt.Errorf("%w: email уже занят", apperrors.ErrConflict)
	}

	operator := &entity.Operator{
		ID:       uuid.NewString(),
		Username: req.Username,
		Email:    req.Email,
		Password: req.Password,
	}
	if err := s.operatorRepo.Create(operator); err != nil {
		return nil, fmt.Errorf("не удалось создать оператора: %w", err)
	}

	log.Printf("[AuthService] Зарегистрирован оператор %s (%s)", operator.ID, operator.Email)
	return operator, nil
}

// LoginResult — результат успешного входа
type LoginResult struct {
	Token    string           `json:"token"`
	Operator *entity.Operator `json:"operator"`
}

// Login проверяет учётные данные и выдаёт JWT
func (s *AuthService) Login(email, password string) (*LoginResult, error) {
	operator, err := s.operatorRepo.GetByEmail(email)
	if err != nil {
		// Не раскрываем, существует ли такой email
		return nil, apperrors.ErrUnauthorized
	}

	if !operator.CheckPassword(password) {
		return nil, apperrors.ErrUnauthorized
	}

	token, err := s.jwtService.GenerateToken(operator)
	if err != nil {
		return nil, fmt.Errorf("не удалось выдать токен: %w", err)
	}

	log.Printf("[AuthService] Оператор %s вошёл в систему", operator.ID)
	return &LoginResult{Token: token, Operator: operator}, nil
}

// GetOperator возвращает оператора по ID (используется обработчиком /me)
func (s *AuthService) GetOperator(id string) (*entity.Operator, error) {
	return s.operatorRepo.GetByID(id)
}
