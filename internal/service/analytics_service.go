package service

import (
	"fmt"
	"log"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	"github.com/VLVrishank/revdeploy/internal/domain/repository"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// AnalyticsService ведёт журнал взаимодействий с рекламой и строит отчёты
type AnalyticsService struct {
	interactionRepo repository.InteractionRepository
}

// NewAnalyticsService создаёт новый сервис аналитики
func NewAnalyticsService(interactionRepo repository.InteractionRepository) *AnalyticsService {
	return &AnalyticsService{interactionRepo: interactionRepo}
}

// RecordInteractionRequest — параметры записи взаимодействия
type RecordInteractionRequest struct {
	AdID      string   `json:"ad_id" binding:"required"`
	DeviceID  string   `json:"device_id" binding:"required"`
	Type      string   `json:"interaction_type" binding:"required"`
	Latitude  *float64 `json:"latitude,omitempty"`
	Longitude *float64 `json:"longitude,omitempty"`
	Accuracy  *float64 `json:"accuracy,omitempty"`
	Timestamp string   `json:"timestamp,omitempty"` // RFC3339; пустое значение — время сервера
}

// Record добавляет запись в журнал взаимодействий
func (s *AnalyticsService) Record(req RecordInteractionRequest) error {
	if !entity.ValidInteractionType(req.Type) {
		return fmt.Errorf("%w: неизвестный тип взаимодействия %q", apperrors.ErrValidation, req.Type)
	}

	occurredAt := time.Now()
	if req.Timestamp != "" {
		if parsed, err := time.Parse(time.RFC3339, req.Timestamp); err == nil {
			occurredAt = parsed
		}
	}

	interaction := &entity.AdInteraction{
		AdID:       req.AdID,
		DeviceID:   req.DeviceID,
		Type:       req.Type,
		Latitude:   req.Latitude,
		Longitude:  req.Longitude,
		Accuracy:   req.Accuracy,
		OccurredAt: occurredAt,
	}
	if err := s.interactionRepo.Create(interaction); err != nil {
		return fmt.Errorf("не удалось записать взаимодействие: %w", err)
	}
	return nil
}

// Summary возвращает агрегаты показов/кликов по каждой рекламе
func (s *AnalyticsService) Summary() ([]repository.AdSummary, error) {
	return s.interactionRepo.SummaryByAd()
}

// RecentInteractions возвращает последние записи журнала
func (s *AnalyticsService) RecentInteractions(limit int) ([]entity.AdInteraction, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.interactionRepo.Recent(limit)
}

// ExportXLSX формирует Excel-отчёт с агрегатами по рекламе и возвращает
// его содержимое как байты для отдачи по HTTP
func (s *AnalyticsService) ExportXLSX() ([]byte, error) {
	summaries, err := s.interactionRepo.SummaryByAd()
	if err != nil {
		return nil, fmt.Errorf("не удалось собрать агрегаты: %w", err)
	}

	f := excelize.NewFile()
	defer func() {
		if err := f.Close(); err != nil {
			log.Printf("[AnalyticsService] Ошибка закрытия файла отчёта: %v", err)
		}
	}()

	const sheet = "Ad Analytics"
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return nil, err
	}

	headers := []string{"Ad ID", "Title", "Impressions", "Link Clicks", "Read More Clicks"}
	for i, h := range headers {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheet, cell, h); err != nil {
			return nil, err
		}
	}

	for row, summary := range summaries {
		values := []interface{}{summary.AdID, summary.Title, summary.Impressions, summary.LinkClicks, summary.ReadMores}
		for col, v := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			if err := f.SetCellValue(sheet, cell, v); err != nil {
				return nil, err
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("не удалось сформировать отчёт: %w", err)
	}

	log.Printf("[AnalyticsService] Сформирован XLSX-отчёт: %d реклам", len(summaries))
	return buf.Bytes(), nil
}
