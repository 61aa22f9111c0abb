package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/VLVrishank/revdeploy/internal/config"
	"github.com/VLVrishank/revdeploy/internal/kiosk"
)

// reloadSignal реализует kiosk.Reloader поверх канала:
// force-refresh перезапускает контентный конвейер, но не сам процесс
type reloadSignal chan struct{}

func (r reloadSignal) Reload() {
	select {
	case r <- struct{}{}:
	default:
	}
}

func main() {
	deviceID := flag.String("device-id", "", "явный идентификатор устройства (перекрывает сохранённый)")
	configPath := flag.String("config", os.Getenv("CONFIG_PATH"), "путь к config.yaml")
	apiBaseURL := flag.String("api", "", "базовый URL API контроллера (перекрывает конфиг)")
	flag.Parse()

	cfg, err := config.LoadKiosk(*configPath)
	if err != nil {
		log.Printf("Failed to load kiosk config: %v", err)
		os.Exit(1)
	}
	if *apiBaseURL != "" {
		cfg.APIBaseURL = *apiBaseURL
	}

	gw := kiosk.NewClient(cfg.APIBaseURL)
	store := kiosk.NewStateStore(cfg.StateFile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
		<-quit
		log.Println("Останавливаем дисплей-агент...")
		cancel()
	}()

	id := kiosk.ResolveIdentity(ctx, gw, store, *deviceID)
	log.Printf("Дисплей-агент запущен: устройство %s, API %s", id, cfg.APIBaseURL)

	// Опросчик удалённых команд живёт всё время работы агента,
	// перезапуски касаются только контентного конвейера
	reload := make(reloadSignal, 1)

	pollerCfg := kiosk.DefaultPollerConfig()
	if cfg.PingInterval > 0 {
		pollerCfg.PingInterval = cfg.PingInterval
	}
	if cfg.ForceRefreshInterval > 0 {
		pollerCfg.RefreshInterval = cfg.ForceRefreshInterval
	}

	poller := kiosk.NewPoller(gw, id,
		kiosk.NoLocation{}, kiosk.SysfsBattery{}, reload, pollerCfg)
	go poller.Run(ctx)

	// Heartbeat: раз в минуту отмечаемся живыми
	go func() {
		ticker := time.NewTicker(time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if err := gw.Heartbeat(ctx, id); err != nil {
					log.Printf("[Heartbeat] %v", err)
				}
			}
		}
	}()

	// Контентный конвейер: ротатор + sink аналитики, перезапускается
	// по сигналу force-refresh с полным сбросом состояния
	for {
		runCtx, stopRun := context.WithCancel(ctx)

		sink := kiosk.NewAnalyticsSink(gw, 64)
		go sink.Run(runCtx)

		rotator := kiosk.NewRotator(gw, &kiosk.ConsoleScreen{}, sink, id, kiosk.DefaultRotatorConfig())
		done := make(chan error, 1)
		go func() { done <- rotator.Run(runCtx) }()

		select {
		case <-ctx.Done():
			stopRun()
			<-done
			log.Println("Дисплей-агент остановлен")
			return
		case <-reload:
			log.Println("Перезапуск контентного конвейера")
			stopRun()
			if err := <-done; err != nil && !errors.Is(err, context.Canceled) {
				log.Printf("[Rotator] Завершился с ошибкой: %v", err)
			}
		}
	}
}
