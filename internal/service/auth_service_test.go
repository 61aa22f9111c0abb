package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
	"github.com/VLVrishank/revdeploy/pkg/auth"
)

// ============================================================================
// Моки для AuthService
// ============================================================================

// MockOperatorRepository реализует repository.OperatorRepository
type MockOperatorRepository struct {
	mock.Mock
}

func (m *MockOperatorRepository) Create(operator *entity.Operator) error {
	args := m.Called(operator)
	return args.Error(0)
}

func (m *MockOperatorRepository) GetByID(id string) (*entity.Operator, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Operator), args.Error(1)
}

func (m *MockOperatorRepository) GetByEmail(email string) (*entity.Operator, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Operator), args.Error(1)
}

func (m *MockOperatorRepository) EmailExists(email string) (bool, error) {
	args := m.Called(email)
	return args.Bool(0), args.Error(1)
}

func newTestJWTService(t *testing.T) *auth.JWTService {
	t.Helper()
	jwtService, err := auth.NewJWTService("test-secret-key", "revdeploy-test", 1)
	require.NoError(t, err)
	return jwtService
}

// ============================================================================
// Тесты для AuthService
// ============================================================================

func TestAuthService_Register_Success(t *testing.T) {
	// Arrange
	mockOperatorRepo := new(MockOperatorRepository)
	mockOperatorRepo.On("EmailExists", "admin@example.com").Return(false, nil)
	mockOperatorRepo.On("Create", mock.AnythingOfType("*entity.Operator")).Return(nil)

	svc := NewAuthService(mockOperatorRepo, newTestJWTService(t))

	// Act
	operator, err := svc.Register(RegisterOperatorRequest{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "secret-password",
	})

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, operator.ID)
	assert.Equal(t, "admin@example.com", operator.Email)
	mockOperatorRepo.AssertExpectations(t)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	// Arrange
	mockOperatorRepo := new(MockOperatorRepository)
	mockOperatorRepo.On("EmailExists", "admin@example.com").Return(true, nil)

	svc := NewAuthService(mockOperatorRepo, newTestJWTService(t))

	// Act
	operator, err := svc.Register(RegisterOperatorRequest{
		Username: "admin",
		Email:    "admin@example.com",
		Password: "secret-password",
	})

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Nil(t, operator)
	mockOperatorRepo.AssertNotCalled(t, "Create")
}

func TestAuthService_Login_Success(t *testing.T) {
	// Arrange
	mockOperatorRepo := new(MockOperatorRepository)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	stored := &entity.Operator{
		ID:       "op-1",
		Username: "admin",
		Email:    "admin@example.com",
		Password: string(hash),
	}
	mockOperatorRepo.On("GetByEmail", "admin@example.com").Return(stored, nil)

	jwtService := newTestJWTService(t)
	svc := NewAuthService(mockOperatorRepo, jwtService)

	// Act
	result, err := svc.Login("admin@example.com", "secret-password")

	// Assert
	require.NoError(t, err)
	assert.NotEmpty(t, result.Token)
	assert.Equal(t, "op-1", result.Operator.ID)

	// Токен должен парситься тем же сервисом
	claims, err := jwtService.ParseToken(result.Token)
	require.NoError(t, err)
	assert.Equal(t, "op-1", claims.OperatorID)
	assert.Equal(t, "admin@example.com", claims.Email)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	// Arrange
	mockOperatorRepo := new(MockOperatorRepository)

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.DefaultCost)
	require.NoError(t, err)

	mockOperatorRepo.On("GetByEmail", "admin@example.com").Return(&entity.Operator{
		ID:       "op-1",
		Email:    "admin@example.com",
		Password: string(hash),
	}, nil)

	svc := NewAuthService(mockOperatorRepo, newTestJWTService(t))

	// Act
	result, err := svc.Login("admin@example.com", "wrong")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, result)
}

func TestAuthService_Login_UnknownEmailHidesExistence(t *testing.T) {
	// Arrange: несуществующий email даёт ту же ошибку, что и неверный пароль
	mockOperatorRepo := new(MockOperatorRepository)
	mockOperatorRepo.On("GetByEmail", "ghost@example.com").Return(nil, apperrors.ErrNotFound)

	svc := NewAuthService(mockOperatorRepo, newTestJWTService(t))

	// Act
	result, err := svc.Login("ghost@example.com", "whatever")

	// Assert
	assert.ErrorIs(t, err, apperrors.ErrUnauthorized)
	assert.Nil(t, result)
}
