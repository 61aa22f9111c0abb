package service

import (
	"fmt"
	"log"
	"regexp"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	"github.com/VLVrishank/revdeploy/internal/domain/repository"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

var pinPattern = regexp.MustCompile(`^\d{4}$`)

// Окно свежести сигнала force-refresh на стороне устройства и таймаут
// автосброса на стороне контроллера
const (
	ForceRefreshWindow    = 30 * time.Second
	forceRefreshAutoClear = 10 * time.Second
)

// DeviceService предоставляет методы для управления устройствами рикш
type DeviceService struct {
	deviceRepo repository.DeviceRepository
}

// NewDeviceService создаёт новый сервис устройств
func NewDeviceService(deviceRepo repository.DeviceRepository) *DeviceService {
	return &DeviceService{deviceRepo: deviceRepo}
}

// RegisterDeviceRequest — параметры регистрации устройства
type RegisterDeviceRequest struct {
	ID          string `json:"id"` // опционально: оператор может задать свой идентификатор
	Name        string `json:"name" binding:"required,min=1,max=100"`
	PhoneNumber string `json:"phone_number"`
	PIN         string `json:"pin" binding:"required"`
}

// Register регистрирует новое устройство. PIN — 4 цифры, хранится как bcrypt-хеш.
func (s *DeviceService) Register(req RegisterDeviceRequest) (*entity.Device, error) {
	if !pinPattern.MatchString(req.PIN) {
		return nil, fmt.Errorf("%w: PIN должен состоять из 4 цифр", apperrors.ErrValidation)
	}

	pinHash, err := bcrypt.GenerateFromPassword([]byte(req.PIN), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("не удалось захешировать PIN: %w", err)
	}

	id := req.ID
	if id == "" {
		id = uuid.NewString()
	}

	device := &entity.Device{
		ID:          id,
		Name:        req.Name,
		PhoneNumber: req.PhoneNumber,
		PINHash:     string(pinHash),
	}
	if err := s.deviceRepo.Create(device); err != nil {
		return nil, fmt.Errorf("не удалось создать устройство: %w", err)
	}

	log.Printf("[DeviceService] Зарегистрировано устройство %s (%q)", device.ID, device.Name)
	return device, nil
}

// LoginWithPIN проверяет PIN устройства и возвращает его каноническую запись.
// Используется киоском как простая аутентификация по общему секрету.
func (s *DeviceService) LoginWithPIN(deviceID, pin string) (*entity.Device, error) {
	device, err := s.deviceRepo.GetByID(deviceID)
	if err != nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(device.PINHash), []byte(pin)) != nil {
		return nil, apperrors.ErrUnauthorized
	}

	now := time.Now()
	if err := s.deviceRepo.TouchLastActive(device.ID, now); err != nil {
		log.Printf("[DeviceService] Не удалось обновить last_active для %s: %v", device.ID, err)
	}
	device.LastActive = &now
	return device, nil
}

// GetDevice возвращает устройство по ID
func (s *DeviceService) GetDevice(id string) (*entity.Device, error) {
	return s.deviceRepo.GetByID(id)
}

// ListDevices возвращает все устройства
func (s *DeviceService) ListDevices() ([]entity.Device, error) {
	return s.deviceRepo.List()
}

// Heartbeat обновляет метку последней активности устройства
func (s *DeviceService) Heartbeat(id string) error {
	return s.deviceRepo.TouchLastActive(id, time.Now())
}

// TriggerForceRefresh выставляет устройству сигнал принудительной перезагрузки.
// Через forceRefreshAutoClear контроллер сам сбрасывает флаг — страховка на
// случай, если устройство офлайн и никогда его не прочитает.
func (s *DeviceService) TriggerForceRefresh(id string) error {
	now := time.Now()
	if err := s.deviceRepo.SetForceRefresh(id, true, &now); err != nil {
		return err
	}
	log.Printf("[DeviceService] Устройству %s послан сигнал force-refresh", id)

	time.AfterFunc(forceRefreshAutoClear, func() {
		if err := s.deviceRepo.SetForceRefresh(id, false, nil); err != nil {
			log.Printf("[DeviceService] Не удалось автосбросить force-refresh для %s: %v", id, err)
		}
	})
	return nil
}

// RefreshState возвращает текущее состояние сигнала force-refresh
func (s *DeviceService) RefreshState(id string) (*entity.Device, error) {
	return s.deviceRepo.GetByID(id)
}

// ClearForceRefresh сбрасывает сигнал force-refresh (вызывается устройством
// перед перезагрузкой или при обнаружении просроченного сигнала)
func (s *DeviceService) ClearForceRefresh(id string) error {
	return s.deviceRepo.SetForceRefresh(id, false, nil)
}
