package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	"github.com/VLVrishank/revdeploy/internal/domain/repository"
)

// PingService управляет жизненным циклом пинг-запросов "где ты?".
// Таблица device_pings работает как простая очередь: контроллер вставляет
// pending-строку, устройство при очередном опросе отвечает на самую старую.
type PingService struct {
	pingRepo   repository.PingRepository
	deviceRepo repository.DeviceRepository
	alerts     AlertSender // может быть nil — алерты опциональны
}

// NewPingService создаёт новый сервис пинг-запросов
func NewPingService(pingRepo repository.PingRepository, deviceRepo repository.DeviceRepository, alerts AlertSender) *PingService {
	return &PingService{
		pingRepo:   pingRepo,
		deviceRepo: deviceRepo,
		alerts:     alerts,
	}
}

// CreatePing создаёт pending-запрос к устройству и помечает попытку пинга.
// Дубликаты pending-запросов намеренно не запрещаются: устройство ответит
// на самый старый, остальные дождутся следующих тиков.
func (s *PingService) CreatePing(deviceID string) (*entity.DevicePing, error) {
	// Проверяем, что устройство существует
	if _, err := s.deviceRepo.GetByID(deviceID); err != nil {
		return nil, err
	}

	now := time.Now()
	if err := s.deviceRepo.TouchLastPingAttempt(deviceID, now); err != nil {
		log.Printf("[PingService] Не удалось обновить last_ping_attempt для %s: %v", deviceID, err)
	}

	ping := &entity.DevicePing{
		ID:        uuid.NewString(),
		DeviceID:  deviceID,
		Status:    entity.PingStatusPending,
		CreatedAt: now,
	}
	if err := s.pingRepo.Create(ping); err != nil {
		return nil, fmt.Errorf("не удалось создать пинг-запрос: %w", err)
	}

	log.Printf("[PingService] Создан пинг %s для устройства %s", ping.ID, deviceID)
	return ping, nil
}

// GetPing возвращает пинг-запрос по ID
func (s *PingService) GetPing(id string) (*entity.DevicePing, error) {
	return s.pingRepo.GetByID(id)
}

// OldestPending возвращает самый старый pending-запрос устройства
func (s *PingService) OldestPending(deviceID string) (*entity.DevicePing, error) {
	return s.pingRepo.OldestPending(deviceID)
}

// PingResponse — данные, собранные устройством в ответ на пинг
type PingResponse struct {
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	Accuracy     *float64 `json:"accuracy,omitempty"`
	BatteryLevel *int     `json:"battery_level,omitempty"`
	IsActive     *bool    `json:"is_active,omitempty"`
}

// CompletePing переводит пинг в статус completed с собранными данными.
// Повторное завершение возвращает apperrors.ErrConflict.
func (s *PingService) CompletePing(id string, resp PingResponse) (*entity.DevicePing, error) {
	ping, err := s.pingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ping.Status = entity.PingStatusCompleted
	ping.Latitude = resp.Latitude
	ping.Longitude = resp.Longitude
	ping.Accuracy = resp.Accuracy
	ping.BatteryLevel = resp.BatteryLevel
	ping.IsActive = resp.IsActive
	ping.CompletedAt = &now

	if err := s.pingRepo.Resolve(ping); err != nil {
		return nil, err
	}

	if err := s.deviceRepo.TouchLastActive(ping.DeviceID, now); err != nil {
		log.Printf("[PingService] Не удалось обновить last_active для %s: %v", ping.DeviceID, err)
	}

	log.Printf("[PingService] Пинг %s завершён устройством %s", id, ping.DeviceID)
	return ping, nil
}

// FailPing переводит пинг в статус failed с сообщением об ошибке
// и отправляет оператору алерт (best-effort).
func (s *PingService) FailPing(id string, errorMessage string) (*entity.DevicePing, error) {
	ping, err := s.pingRepo.GetByID(id)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	ping.Status = entity.PingStatusFailed
	if errorMessage == "" {
		errorMessage = "Failed to process ping response"
	}
	ping.ErrorMessage = errorMessage
	ping.CompletedAt = &now

	if err := s.pingRepo.Resolve(ping); err != nil {
		return nil, err
	}

	log.Printf("[PingService] Пинг %s провален: %s", id, errorMessage)

	if s.alerts != nil {
		go func() {
			ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := s.alerts.SendPingFailedAlert(ctx, ping.DeviceID, ping.ID, errorMessage); err != nil {
				log.Printf("[PingService] Не удалось отправить алерт о пинге %s: %v", ping.ID, err)
			}
		}()
	}

	return ping, nil
}
