package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDevicePing_StatusPredicates(t *testing.T) {
	ping := &DevicePing{Status: PingStatusPending}
	assert.True(t, ping.IsPending())
	assert.False(t, ping.IsTerminal())

	ping.Status = PingStatusCompleted
	assert.False(t, ping.IsPending())
	assert.True(t, ping.IsTerminal())

	ping.Status = PingStatusFailed
	assert.True(t, ping.IsTerminal())
}

func TestDevicePing_HasLocation(t *testing.T) {
	ping := &DevicePing{}
	assert.False(t, ping.HasLocation(), "без координат локации нет")

	lat := 28.6139
	ping.Latitude = &lat
	assert.False(t, ping.HasLocation(), "одной широты недостаточно")

	lon := 77.2090
	ping.Longitude = &lon
	assert.True(t, ping.HasLocation())
}

func TestDevice_RefreshIsFresh(t *testing.T) {
	now := time.Now()
	window := 30 * time.Second

	// Флаг не установлен
	device := &Device{}
	assert.False(t, device.RefreshIsFresh(now, window))

	// Флаг установлен, но нет временной метки
	device.ForceRefresh = true
	assert.False(t, device.RefreshIsFresh(now, window), "без метки времени сигнал не считается свежим")

	// Свежий сигнал (5 секунд назад)
	fresh := now.Add(-5 * time.Second)
	device.ForceRefreshAt = &fresh
	assert.True(t, device.RefreshIsFresh(now, window))

	// Просроченный сигнал (45 секунд назад)
	stale := now.Add(-45 * time.Second)
	device.ForceRefreshAt = &stale
	assert.False(t, device.RefreshIsFresh(now, window))
}

func TestValidInteractionType(t *testing.T) {
	assert.True(t, ValidInteractionType(InteractionImpression))
	assert.True(t, ValidInteractionType(InteractionLinkClick))
	assert.True(t, ValidInteractionType(InteractionReadMoreClick))
	assert.False(t, ValidInteractionType("selfie"))
	assert.False(t, ValidInteractionType(""))
}
