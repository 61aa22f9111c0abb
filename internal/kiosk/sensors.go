package kiosk

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Location — координаты устройства
type Location struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64
}

// LocationProvider отдаёт текущие координаты устройства.
// Ошибка — нормальный исход: GPS в рикше часто недоступен,
// вызывающий продолжает без координат.
type LocationProvider interface {
	Locate(ctx context.Context) (*Location, error)
}

// BatteryProvider отдаёт уровень заряда в процентах
type BatteryProvider interface {
	Level(ctx context.Context) (int, error)
}

// NoLocation — заглушка для устройств без GPS
type NoLocation struct{}

func (NoLocation) Locate(ctx context.Context) (*Location, error) {
	return nil, fmt.Errorf("датчик координат недоступен")
}

// StaticLocation отдаёт фиксированные координаты (точка установки дисплея)
type StaticLocation struct {
	Point Location
}

func (s StaticLocation) Locate(ctx context.Context) (*Location, error) {
	point := s.Point
	return &point, nil
}

// SysfsBattery читает заряд из /sys/class/power_supply (Linux-планшеты)
type SysfsBattery struct {
	Path string // путь к файлу capacity
}

func (b SysfsBattery) Level(ctx context.Context) (int, error) {
	path := b.Path
	if path == "" {
		path = "/sys/class/power_supply/battery/capacity"
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("чтение заряда: %w", err)
	}
	level, err := strconv.Atoi(strings.TrimSpace(string(raw)))
	if err != nil {
		return 0, fmt.Errorf("разбор заряда: %w", err)
	}
	return level, nil
}
