package kiosk

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// ============================================================================
// Моки: MockGateway используется также в rotator_test.go и identity_test.go
// ============================================================================

// MockGateway реализует Gateway
type MockGateway struct {
	mock.Mock
}

func (m *MockGateway) Device(ctx context.Context, id string) (*entity.Device, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Device), args.Error(1)
}

func (m *MockGateway) Heartbeat(ctx context.Context, deviceID string) error {
	args := m.Called(deviceID)
	return args.Error(0)
}

func (m *MockGateway) ActiveAds(ctx context.Context) ([]entity.Ad, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Ad), args.Error(1)
}

func (m *MockGateway) LatestNews(ctx context.Context) ([]entity.NewsItem, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.NewsItem), args.Error(1)
}

func (m *MockGateway) NewsEnabled(ctx context.Context) (bool, error) {
	args := m.Called()
	return args.Bool(0), args.Error(1)
}

func (m *MockGateway) RefreshState(ctx context.Context, deviceID string) (*RefreshState, error) {
	args := m.Called(deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*RefreshState), args.Error(1)
}

func (m *MockGateway) ClearRefresh(ctx context.Context, deviceID string) error {
	args := m.Called(deviceID)
	return args.Error(0)
}

func (m *MockGateway) PendingPing(ctx context.Context, deviceID string) (*entity.DevicePing, error) {
	args := m.Called(deviceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.DevicePing), args.Error(1)
}

func (m *MockGateway) CompletePing(ctx context.Context, pingID string, report PingReport) error {
	args := m.Called(pingID, report)
	return args.Error(0)
}

func (m *MockGateway) FailPing(ctx context.Context, pingID, errorMessage string) error {
	args := m.Called(pingID, errorMessage)
	return args.Error(0)
}

func (m *MockGateway) RecordInteraction(ctx context.Context, interaction Interaction) error {
	args := m.Called(interaction)
	return args.Error(0)
}

// mockReloader считает вызовы Reload
type mockReloader struct {
	calls int
}

func (r *mockReloader) Reload() { r.calls++ }

func testPollerConfig() PollerConfig {
	return PollerConfig{
		PingInterval:    10 * time.Millisecond,
		RefreshInterval: 5 * time.Millisecond,
		RefreshWindow:   30 * time.Second,
		LocationWait:    10 * time.Millisecond,
		DefaultBattery:  100,
	}
}

// ============================================================================
// Тесты для Poller
// ============================================================================

func TestPoller_PingTick_CompletesOldestPendingOnly(t *testing.T) {
	// Arrange: за тик обрабатывается ровно один пинг, с координатами
	gw := new(MockGateway)

	gw.On("PendingPing", "rickshaw-1").Return(&entity.DevicePing{
		ID:       "ping-old",
		DeviceID: "rickshaw-1",
		Status:   entity.PingStatusPending,
	}, nil).Once()
	gw.On("CompletePing", "ping-old", mock.MatchedBy(func(r PingReport) bool {
		return r.Latitude != nil && *r.Latitude == 12.9716 &&
			r.BatteryLevel != nil && *r.BatteryLevel == 80 &&
			r.IsActive != nil && *r.IsActive
	})).Return(nil).Once()

	p := NewPoller(gw, "rickshaw-1",
		StaticLocation{Point: Location{Latitude: 12.9716, Longitude: 77.5946, Accuracy: 10}},
		staticBattery(80), &mockReloader{}, testPollerConfig())

	// Act
	p.PingTick(context.Background())

	// Assert
	gw.AssertExpectations(t)
	gw.AssertNumberOfCalls(t, "CompletePing", 1)
}

func TestPoller_PingTick_DefaultsWhenSensorsUnavailable(t *testing.T) {
	// Arrange: без GPS и датчика заряда пинг всё равно завершается
	gw := new(MockGateway)

	gw.On("PendingPing", "rickshaw-1").Return(&entity.DevicePing{
		ID:     "ping-1",
		Status: entity.PingStatusPending,
	}, nil)
	gw.On("CompletePing", "ping-1", mock.MatchedBy(func(r PingReport) bool {
		return r.Latitude == nil && r.BatteryLevel != nil && *r.BatteryLevel == 100
	})).Return(nil)

	p := NewPoller(gw, "rickshaw-1", NoLocation{}, failingBattery{}, &mockReloader{}, testPollerConfig())

	// Act
	p.PingTick(context.Background())

	// Assert
	gw.AssertExpectations(t)
}

func TestPoller_PingTick_NoPendingIsQuiet(t *testing.T) {
	gw := new(MockGateway)
	gw.On("PendingPing", "rickshaw-1").Return(nil, apperrors.ErrNotFound)

	p := NewPoller(gw, "rickshaw-1", NoLocation{}, failingBattery{}, &mockReloader{}, testPollerConfig())
	p.PingTick(context.Background())

	gw.AssertNotCalled(t, "CompletePing")
	gw.AssertNotCalled(t, "FailPing")
}

func TestPoller_PingTick_FailsPingOnCompleteError(t *testing.T) {
	// Arrange: сервер отверг завершение — пинг помечается проваленным
	gw := new(MockGateway)

	gw.On("PendingPing", "rickshaw-1").Return(&entity.DevicePing{
		ID:     "ping-1",
		Status: entity.PingStatusPending,
	}, nil)
	gw.On("CompletePing", "ping-1", mock.Anything).Return(errors.New("network"))
	gw.On("FailPing", "ping-1", "Failed to process ping response").Return(nil)

	p := NewPoller(gw, "rickshaw-1", NoLocation{}, failingBattery{}, &mockReloader{}, testPollerConfig())

	// Act
	p.PingTick(context.Background())

	// Assert
	gw.AssertExpectations(t)
}

func TestPoller_RefreshTick_FreshSignalReloads(t *testing.T) {
	// Arrange: сигнал 5-секундной давности — свежий
	gw := new(MockGateway)
	reloader := &mockReloader{}

	gw.On("RefreshState", "rickshaw-1").Return(&RefreshState{
		ForceRefresh:   true,
		ForceRefreshAt: time.Now().Add(-5 * time.Second).Format(time.RFC3339),
	}, nil)
	gw.On("ClearRefresh", "rickshaw-1").Return(nil)

	p := NewPoller(gw, "rickshaw-1", NoLocation{}, failingBattery{}, reloader, testPollerConfig())

	// Act
	p.RefreshTick(context.Background())

	// Assert
	assert.Equal(t, 1, reloader.calls, "свежий сигнал должен вызвать перезагрузку")
	gw.AssertCalled(t, "ClearRefresh", "rickshaw-1")
}

func TestPoller_RefreshTick_StaleSignalClearsWithoutReload(t *testing.T) {
	// Arrange: сигнал 45-секундной давности — просрочен
	gw := new(MockGateway)
	reloader := &mockReloader{}

	gw.On("RefreshState", "rickshaw-1").Return(&RefreshState{
		ForceRefresh:   true,
		ForceRefreshAt: time.Now().Add(-45 * time.Second).Format(time.RFC3339),
	}, nil)
	gw.On("ClearRefresh", "rickshaw-1").Return(nil)

	p := NewPoller(gw, "rickshaw-1", NoLocation{}, failingBattery{}, reloader, testPollerConfig())

	// Act
	p.RefreshTick(context.Background())

	// Assert
	assert.Equal(t, 0, reloader.calls, "просроченный сигнал не должен перезагружать")
	gw.AssertCalled(t, "ClearRefresh", "rickshaw-1")
}

func TestPoller_RefreshTick_NoSignalNoAction(t *testing.T) {
	gw := new(MockGateway)
	reloader := &mockReloader{}

	gw.On("RefreshState", "rickshaw-1").Return(&RefreshState{ForceRefresh: false}, nil)

	p := NewPoller(gw, "rickshaw-1", NoLocation{}, failingBattery{}, reloader, testPollerConfig())
	p.RefreshTick(context.Background())

	assert.Equal(t, 0, reloader.calls)
	gw.AssertNotCalled(t, "ClearRefresh")
}

// staticBattery отдаёт фиксированный заряд
type staticBattery int

func (b staticBattery) Level(ctx context.Context) (int, error) { return int(b), nil }

// failingBattery имитирует отсутствующий датчик
type failingBattery struct{}

func (failingBattery) Level(ctx context.Context) (int, error) {
	return 0, errors.New("датчик недоступен")
}
