package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// ============================================================================
// Моки для NewsService
// ============================================================================

// MockNewsRepository реализует repository.NewsRepository
type MockNewsRepository struct {
	mock.Mock
}

func (m *MockNewsRepository) CreateBatch(items []entity.NewsItem) error {
	args := m.Called(items)
	return args.Error(0)
}

func (m *MockNewsRepository) Latest(limit int) ([]entity.NewsItem, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.NewsItem), args.Error(1)
}

func (m *MockNewsRepository) Count() (int64, error) {
	args := m.Called()
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNewsRepository) CountCreatedSince(since time.Time) (int64, error) {
	args := m.Called(since)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockNewsRepository) Oldest(limit int) ([]entity.NewsItem, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.NewsItem), args.Error(1)
}

func (m *MockNewsRepository) DeleteByIDs(ids []string) error {
	args := m.Called(ids)
	return args.Error(0)
}

// MockSettingRepository реализует repository.SettingRepository
type MockSettingRepository struct {
	mock.Mock
}

func (m *MockSettingRepository) Get(key string) (*entity.Setting, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Setting), args.Error(1)
}

func (m *MockSettingRepository) Upsert(setting *entity.Setting) error {
	args := m.Called(setting)
	return args.Error(0)
}

// ============================================================================
// Тесты для NewsService
// ============================================================================

func TestNewsService_FetchAndStore_SkipsWhenFetchedToday(t *testing.T) {
	// Arrange: сегодня уже есть новости — в API ходить не нужно
	mockNewsRepo := new(MockNewsRepository)
	mockSettingRepo := new(MockSettingRepository)

	mockNewsRepo.On("CountCreatedSince", mock.AnythingOfType("time.Time")).Return(int64(12), nil)

	svc := NewNewsService(mockNewsRepo, mockSettingRepo, nil, NewsConfig{APIKey: "key"})

	// Act
	err := svc.FetchAndStore(context.Background())

	// Assert
	require.NoError(t, err)
	mockNewsRepo.AssertNotCalled(t, "Count")
	mockNewsRepo.AssertNotCalled(t, "CreateBatch")
}

func TestNewsService_FetchAndStore_PrunesAtCap(t *testing.T) {
	// Arrange: потолок 100 строк достигнут — прореживаем до 50, в API не ходим
	mockNewsRepo := new(MockNewsRepository)
	mockSettingRepo := new(MockSettingRepository)

	oldest := make([]entity.NewsItem, 100)
	for i := range oldest {
		oldest[i] = entity.NewsItem{ID: fmt.Sprintf("n-%03d", i)}
	}

	mockNewsRepo.On("CountCreatedSince", mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	mockNewsRepo.On("Count").Return(int64(100), nil)
	mockNewsRepo.On("Oldest", 100).Return(oldest, nil)
	mockNewsRepo.On("DeleteByIDs", mock.AnythingOfType("[]string")).Return(nil)

	svc := NewNewsService(mockNewsRepo, mockSettingRepo, nil, NewsConfig{APIKey: "key", MaxRows: 100})

	// Act
	err := svc.FetchAndStore(context.Background())

	// Assert
	require.NoError(t, err)
	mockNewsRepo.AssertCalled(t, "DeleteByIDs", mock.MatchedBy(func(ids []string) bool {
		return len(ids) == 50 // 100 - 100/2
	}))
	mockNewsRepo.AssertNotCalled(t, "CreateBatch")
}

func TestNewsService_FetchAndStore_FiltersArticlesWithoutImageOrDescription(t *testing.T) {
	// Arrange: фейковая лента — 3 статьи, пригодна только одна
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "us", r.URL.Query().Get("country"))
		assert.Equal(t, "health", r.URL.Query().Get("category"))

		resp := map[string]interface{}{
			"status": "ok",
			"articles": []map[string]interface{}{
				{
					"source":      map[string]string{"name": "Feed A"},
					"title":       "Годная статья",
					"description": "С описанием и картинкой",
					"url":         "https://example.com/a",
					"urlToImage":  "https://example.com/a.jpg",
					"publishedAt": time.Now().UTC().Format(time.RFC3339),
				},
				{
					"source":      map[string]string{"name": "Feed B"},
					"title":       "Без картинки",
					"description": "Описание есть",
					"url":         "https://example.com/b",
					"urlToImage":  "",
					"publishedAt": time.Now().UTC().Format(time.RFC3339),
				},
				{
					"source":      map[string]string{"name": "Feed C"},
					"title":       "Без описания",
					"description": "",
					"url":         "https://example.com/c",
					"urlToImage":  "https://example.com/c.jpg",
					"publishedAt": time.Now().UTC().Format(time.RFC3339),
				},
			},
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	mockNewsRepo := new(MockNewsRepository)
	mockSettingRepo := new(MockSettingRepository)

	mockNewsRepo.On("CountCreatedSince", mock.AnythingOfType("time.Time")).Return(int64(0), nil)
	mockNewsRepo.On("Count").Return(int64(5), nil)
	mockNewsRepo.On("CreateBatch", mock.MatchedBy(func(items []entity.NewsItem) bool {
		return len(items) == 1 && items[0].Title == "Годная статья"
	})).Return(nil)

	svc := NewNewsService(mockNewsRepo, mockSettingRepo, nil, NewsConfig{APIKey: "key"})
	svc.baseURL = server.URL

	// Act
	err := svc.FetchAndStore(context.Background())

	// Assert
	require.NoError(t, err)
	mockNewsRepo.AssertExpectations(t)
}

func TestNewsService_NewsEnabled_DefaultsToTrueAndCreatesSetting(t *testing.T) {
	// Arrange: настройки нет — ожидаем true и создание строки
	mockNewsRepo := new(MockNewsRepository)
	mockSettingRepo := new(MockSettingRepository)

	mockSettingRepo.On("Get", entity.SettingKeyNewsEnabled).Return(nil, apperrors.ErrNotFound)
	mockSettingRepo.On("Upsert", mock.AnythingOfType("*entity.Setting")).Return(nil)

	svc := NewNewsService(mockNewsRepo, mockSettingRepo, nil, NewsConfig{})

	// Act
	enabled, err := svc.NewsEnabled()

	// Assert
	require.NoError(t, err)
	assert.True(t, enabled)
	mockSettingRepo.AssertExpectations(t)
}

func TestNewsService_NewsEnabled_ReadsStoredValue(t *testing.T) {
	// Arrange
	mockNewsRepo := new(MockNewsRepository)
	mockSettingRepo := new(MockSettingRepository)

	raw, err := json.Marshal(entity.NewsEnabledValue{Enabled: false})
	require.NoError(t, err)
	mockSettingRepo.On("Get", entity.SettingKeyNewsEnabled).Return(&entity.Setting{
		Key:   entity.SettingKeyNewsEnabled,
		Value: raw,
	}, nil)

	svc := NewNewsService(mockNewsRepo, mockSettingRepo, nil, NewsConfig{})

	// Act
	enabled, err := svc.NewsEnabled()

	// Assert
	require.NoError(t, err)
	assert.False(t, enabled)
}
