package service

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	"github.com/VLVrishank/revdeploy/internal/domain/repository"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// MockInteractionRepository реализует repository.InteractionRepository
type MockInteractionRepository struct {
	mock.Mock
}

func (m *MockInteractionRepository) Create(interaction *entity.AdInteraction) error {
	args := m.Called(interaction)
	return args.Error(0)
}

func (m *MockInteractionRepository) Recent(limit int) ([]entity.AdInteraction, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.AdInteraction), args.Error(1)
}

func (m *MockInteractionRepository) SummaryByAd() ([]repository.AdSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]repository.AdSummary), args.Error(1)
}

func TestAnalyticsService_Record_Success(t *testing.T) {
	// Arrange
	mockRepo := new(MockInteractionRepository)
	mockRepo.On("Create", mock.MatchedBy(func(i *entity.AdInteraction) bool {
		return i.AdID == "ad-1" && i.Type == entity.InteractionImpression
	})).Return(nil)

	svc := NewAnalyticsService(mockRepo)

	// Act
	err := svc.Record(RecordInteractionRequest{
		AdID:     "ad-1",
		DeviceID: "rickshaw-1",
		Type:     entity.InteractionImpression,
	})

	// Assert
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAnalyticsService_Record_RejectsUnknownType(t *testing.T) {
	mockRepo := new(MockInteractionRepository)
	svc := NewAnalyticsService(mockRepo)

	err := svc.Record(RecordInteractionRequest{
		AdID:     "ad-1",
		DeviceID: "rickshaw-1",
		Type:     "hover",
	})

	assert.ErrorIs(t, err, apperrors.ErrValidation)
	mockRepo.AssertNotCalled(t, "Create")
}

func TestAnalyticsService_Record_ParsesClientTimestamp(t *testing.T) {
	// Arrange: клиентская метка в прошлом должна сохраниться как есть
	mockRepo := new(MockInteractionRepository)
	sent := time.Now().Add(-10 * time.Minute).UTC().Truncate(time.Second)

	mockRepo.On("Create", mock.MatchedBy(func(i *entity.AdInteraction) bool {
		return i.OccurredAt.Equal(sent)
	})).Return(nil)

	svc := NewAnalyticsService(mockRepo)

	// Act
	err := svc.Record(RecordInteractionRequest{
		AdID:      "ad-1",
		DeviceID:  "rickshaw-1",
		Type:      entity.InteractionLinkClick,
		Timestamp: sent.Format(time.RFC3339),
	})

	// Assert
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestAnalyticsService_ExportXLSX_ProducesWorkbook(t *testing.T) {
	// Arrange
	mockRepo := new(MockInteractionRepository)
	mockRepo.On("SummaryByAd").Return([]repository.AdSummary{
		{AdID: "ad-1", Title: "Баннер", Impressions: 120, LinkClicks: 14, ReadMores: 7},
		{AdID: "ad-2", Title: "Ролик", Impressions: 45, LinkClicks: 3, ReadMores: 1},
	}, nil)

	svc := NewAnalyticsService(mockRepo)

	// Act
	data, err := svc.ExportXLSX()

	// Assert
	require.NoError(t, err)
	require.NotEmpty(t, data)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	title, err := f.GetCellValue("Ad Analytics", "B2")
	require.NoError(t, err)
	assert.Equal(t, "Баннер", title)

	impressions, err := f.GetCellValue("Ad Analytics", "C3")
	require.NoError(t, err)
	assert.Equal(t, "45", impressions)
}
