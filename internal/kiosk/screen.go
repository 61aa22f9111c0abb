package kiosk

import (
	"context"
	"log"
	"time"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
)

// ConsoleScreen — реализация Screen для headless-запуска: пишет кадры в лог.
// Платформенный слой (webview, фреймбуфер) подставляет свою реализацию;
// видео здесь имитируется таймером, т.к. настоящего плеера нет.
type ConsoleScreen struct {
	VideoFallback time.Duration // "длительность" видео без плеера
}

func (s *ConsoleScreen) ShowAd(ad entity.Ad) {
	log.Printf("[Screen] Реклама %s: %q (%ds)", ad.ID, ad.Title, ad.DurationSec)
}

func (s *ConsoleScreen) PlayVideo(ctx context.Context, ad entity.Ad) <-chan struct{} {
	log.Printf("[Screen] Видео %s: %q", ad.ID, ad.Title)

	duration := s.VideoFallback
	if duration <= 0 {
		duration = 10 * time.Second
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		select {
		case <-ctx.Done():
		case <-time.After(duration):
		}
	}()
	return done
}

func (s *ConsoleScreen) ShowNews(item entity.NewsItem) {
	log.Printf("[Screen] Новость %s: %q (%s)", item.ID, item.Title, item.Source)
}

func (s *ConsoleScreen) ShowDetail(ad entity.Ad, secondsLeft int) {
	log.Printf("[Screen] Детали %s: %q, осталось %dс", ad.ID, ad.Title, secondsLeft)
}

func (s *ConsoleScreen) ShowEmpty() {
	log.Printf("[Screen] Нет активной рекламы")
}
