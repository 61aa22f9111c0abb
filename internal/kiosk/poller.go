package kiosk

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

// Reloader перезапускает контентный конвейер киоска.
// Аналог перезагрузки страницы: всё состояние ротатора выбрасывается.
type Reloader interface {
	Reload()
}

// PollerConfig — интервалы и окна циклов опроса
type PollerConfig struct {
	PingInterval    time.Duration // опрос очереди пингов
	RefreshInterval time.Duration // опрос сигнала force-refresh
	RefreshWindow   time.Duration // окно свежести сигнала
	LocationWait    time.Duration // максимум ожидания координат
	DefaultBattery  int           // заряд при недоступном датчике
}

// DefaultPollerConfig возвращает боевые интервалы
func DefaultPollerConfig() PollerConfig {
	return PollerConfig{
		PingInterval:    10 * time.Second,
		RefreshInterval: 5 * time.Second,
		RefreshWindow:   30 * time.Second,
		LocationWait:    8 * time.Second,
		DefaultBattery:  100,
	}
}

// Poller крутит два независимых цикла: ответы на пинг-запросы оператора
// и обработку сигнала принудительной перезагрузки. Оба цикла тикают
// немедленно при старте и живут до отмены контекста.
type Poller struct {
	gw       Gateway
	deviceID string
	location LocationProvider
	battery  BatteryProvider
	reloader Reloader
	cfg      PollerConfig
}

// NewPoller создаёт новый опросчик удалённых команд
func NewPoller(gw Gateway, deviceID string, location LocationProvider, battery BatteryProvider, reloader Reloader, cfg PollerConfig) *Poller {
	return &Poller{
		gw:       gw,
		deviceID: deviceID,
		location: location,
		battery:  battery,
		reloader: reloader,
		cfg:      cfg,
	}
}

// Run запускает оба цикла и блокируется до отмены контекста
func (p *Poller) Run(ctx context.Context) {
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		p.loop(ctx, p.cfg.PingInterval, p.PingTick)
	}()
	go func() {
		defer wg.Done()
		p.loop(ctx, p.cfg.RefreshInterval, p.RefreshTick)
	}()

	wg.Wait()
}

// loop тикает немедленно и далее с заданным интервалом
func (p *Poller) loop(ctx context.Context, interval time.Duration, tick func(ctx context.Context)) {
	tick(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			tick(ctx)
		}
	}
}

// PingTick обрабатывает один pending-пинг: собирает координаты и заряд,
// завершает запрос. Любой сбой после получения пинга проваливает его
// с общим сообщением. За тик обрабатывается не больше одного пинга.
func (p *Poller) PingTick(ctx context.Context) {
	ping, err := p.gw.PendingPing(ctx, p.deviceID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[Poller] Ошибка опроса очереди пингов: %v", err)
		}
		return
	}

	report := PingReport{}

	// Координаты — best-effort: ждём не дольше LocationWait
	locCtx, cancel := context.WithTimeout(ctx, p.cfg.LocationWait)
	loc, err := p.location.Locate(locCtx)
	cancel()
	if err != nil {
		log.Printf("[Poller] Координаты недоступны: %v", err)
	} else {
		report.Latitude = &loc.Latitude
		report.Longitude = &loc.Longitude
		report.Accuracy = &loc.Accuracy
	}

	battery := p.cfg.DefaultBattery
	if level, err := p.battery.Level(ctx); err == nil {
		battery = level
	}
	report.BatteryLevel = &battery

	active := true
	report.IsActive = &active

	if err := p.gw.CompletePing(ctx, ping.ID, report); err != nil {
		log.Printf("[Poller] Не удалось завершить пинг %s: %v", ping.ID, err)
		if failErr := p.gw.FailPing(ctx, ping.ID, "Failed to process ping response"); failErr != nil {
			log.Printf("[Poller] Не удалось провалить пинг %s: %v", ping.ID, failErr)
		}
		return
	}
	log.Printf("[Poller] Пинг %s завершён", ping.ID)
}

// RefreshTick проверяет сигнал force-refresh. Свежий сигнал (моложе
// RefreshWindow) сбрасывается и вызывает перезагрузку; просроченный
// только сбрасывается, чтобы дисплей не зациклился на перезапусках.
func (p *Poller) RefreshTick(ctx context.Context) {
	state, err := p.gw.RefreshState(ctx, p.deviceID)
	if err != nil {
		log.Printf("[Poller] Ошибка опроса force-refresh: %v", err)
		return
	}
	if !state.ForceRefresh {
		return
	}

	if err := p.gw.ClearRefresh(ctx, p.deviceID); err != nil {
		log.Printf("[Poller] Не удалось сбросить force-refresh: %v", err)
	}

	if !p.refreshIsFresh(state) {
		log.Printf("[Poller] Просроченный сигнал force-refresh сброшен без перезагрузки")
		return
	}

	log.Printf("[Poller] Получен сигнал force-refresh, перезапускаем контент")
	p.reloader.Reload()
}

// refreshIsFresh проверяет свежесть сигнала по его временной метке.
// Без метки полагаемся на признак свежести из ответа сервера.
func (p *Poller) refreshIsFresh(state *RefreshState) bool {
	if state.ForceRefreshAt == "" {
		return state.Fresh
	}
	at, err := time.Parse(time.RFC3339, state.ForceRefreshAt)
	if err != nil {
		return state.Fresh
	}
	return time.Since(at) < p.cfg.RefreshWindow
}
