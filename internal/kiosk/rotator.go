package kiosk

import (
	"context"
	"log"
	"time"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
)

// Виды слайдов ротатора
type SlideKind int

const (
	SlideEmpty SlideKind = iota
	SlideAd
	SlideNews
)

// Slide — текущий кадр ротатора
type Slide struct {
	Kind SlideKind
	Ad   *entity.Ad
	News *entity.NewsItem
}

// Screen — то, на чём ротатор рисует. Headless-агент получает реализацию
// от платформенного слоя (webview, фреймбуфер, лог для отладки).
type Screen interface {
	// ShowAd показывает рекламное изображение
	ShowAd(ad entity.Ad)

	// PlayVideo запускает видео и возвращает канал, закрываемый по
	// окончании воспроизведения (или по ошибке плеера)
	PlayVideo(ctx context.Context, ad entity.Ad) <-chan struct{}

	// ShowNews показывает новостную заметку
	ShowNews(item entity.NewsItem)

	// ShowDetail показывает панель деталей рекламы с обратным отсчётом
	ShowDetail(ad entity.Ad, secondsLeft int)

	// ShowEmpty показывает статичную заставку "нет рекламы"
	ShowEmpty()
}

// RotatorConfig — длительности показа слайдов
type RotatorConfig struct {
	NewsDuration      time.Duration // показ новости
	DetailSeconds     int           // панель деталей, секунд отсчёта
	DetailTick        time.Duration // шаг отсчёта
	DefaultAdDuration time.Duration // изображение без своей длительности
}

// DefaultRotatorConfig возвращает боевые длительности
func DefaultRotatorConfig() RotatorConfig {
	return RotatorConfig{
		NewsDuration:      15 * time.Second,
		DetailSeconds:     5,
		DetailTick:        time.Second,
		DefaultAdDuration: 10 * time.Second,
	}
}

// Rotator крутит контент на дисплее: реклама чередуется с новостями,
// панель деталей открывается по тапу. Все обращения к бэкенду идут через
// Gateway, записи аналитики — через неблокирующий sink.
type Rotator struct {
	gw       Gateway
	screen   Screen
	sink     *AnalyticsSink
	deviceID string
	cfg      RotatorConfig

	ads         []entity.Ad
	news        []entity.NewsItem
	newsEnabled bool

	adIdx          int
	newsIdx        int
	onNews         bool
	impressionDone bool

	detailTaps chan struct{}
}

// NewRotator создаёт новый ротатор контента
func NewRotator(gw Gateway, screen Screen, sink *AnalyticsSink, deviceID string, cfg RotatorConfig) *Rotator {
	return &Rotator{
		gw:         gw,
		screen:     screen,
		sink:       sink,
		deviceID:   deviceID,
		cfg:        cfg,
		detailTaps: make(chan struct{}, 1),
	}
}

// RequestDetails открывает панель деталей текущей рекламы (тап по экрану).
// Неблокирующий: повторные тапы во время открытой панели игнорируются.
func (r *Rotator) RequestDetails() {
	select {
	case r.detailTaps <- struct{}{}:
	default:
	}
}

// loadContent забирает плейлист, новости и настройку с бэкенда.
// Любой сбой деградирует до пустого списка или значения по умолчанию.
func (r *Rotator) loadContent(ctx context.Context) {
	ads, err := r.gw.ActiveAds(ctx)
	if err != nil {
		log.Printf("[Rotator] Не удалось получить плейлист: %v", err)
	}
	r.ads = ads

	news, err := r.gw.LatestNews(ctx)
	if err != nil {
		log.Printf("[Rotator] Не удалось получить новости: %v", err)
	}
	r.news = news

	enabled, err := r.gw.NewsEnabled(ctx)
	if err != nil {
		log.Printf("[Rotator] Не удалось получить настройку новостей: %v", err)
		enabled = true
	}
	r.newsEnabled = enabled

	r.adIdx, r.newsIdx = 0, 0
	r.onNews = false
	r.impressionDone = false
}

// rotateNews сообщает, чередуются ли новости с рекламой
func (r *Rotator) rotateNews() bool {
	return r.newsEnabled && len(r.news) > 0
}

// current возвращает текущий слайд
func (r *Rotator) current() Slide {
	if len(r.ads) == 0 {
		return Slide{Kind: SlideEmpty}
	}
	if r.onNews {
		return Slide{Kind: SlideNews, News: &r.news[r.newsIdx]}
	}
	return Slide{Kind: SlideAd, Ad: &r.ads[r.adIdx]}
}

// advance переводит ротатор к следующему слайду. Индексы рекламы и
// новостей двигаются независимо, каждый по модулю своей длины.
func (r *Rotator) advance() {
	if len(r.ads) == 0 {
		return
	}

	if r.onNews {
		r.newsIdx = (r.newsIdx + 1) % len(r.news)
		r.adIdx = (r.adIdx + 1) % len(r.ads)
		r.onNews = false
		r.impressionDone = false
		return
	}

	if r.rotateNews() {
		r.onNews = true
		return
	}
	r.adIdx = (r.adIdx + 1) % len(r.ads)
	r.impressionDone = false
}

// enter отрисовывает текущий слайд и записывает показ рекламы.
// Повторный вызов для того же слайда показа не дублирует.
func (r *Rotator) enter(ctx context.Context) Slide {
	slide := r.current()

	switch slide.Kind {
	case SlideAd:
		if !slide.Ad.IsVideo() {
			r.screen.ShowAd(*slide.Ad)
		}
		if !r.impressionDone {
			r.sink.Offer(Interaction{
				AdID:      slide.Ad.ID,
				DeviceID:  r.deviceID,
				Type:      entity.InteractionImpression,
				Timestamp: time.Now().Format(time.RFC3339),
			})
			r.impressionDone = true
		}
	case SlideNews:
		r.screen.ShowNews(*slide.News)
	case SlideEmpty:
		r.screen.ShowEmpty()
	}
	return slide
}

// adDuration возвращает длительность показа изображения
func (r *Rotator) adDuration(ad *entity.Ad) time.Duration {
	if ad.DurationSec > 0 {
		return time.Duration(ad.DurationSec) * time.Second
	}
	return r.cfg.DefaultAdDuration
}

// Run крутит контент до отмены контекста
func (r *Rotator) Run(ctx context.Context) error {
	r.loadContent(ctx)

	// Пустой плейлист: статичная заставка, таймеры не взводятся
	if len(r.ads) == 0 {
		r.screen.ShowEmpty()
		<-ctx.Done()
		return ctx.Err()
	}

	log.Printf("[Rotator] Запуск: %d реклам, %d новостей, новости=%t",
		len(r.ads), len(r.news), r.rotateNews())

	for {
		slide := r.enter(ctx)

		var timer *time.Timer
		var timerC <-chan time.Time
		var videoEnd <-chan struct{}

		switch {
		case slide.Kind == SlideAd && slide.Ad.IsVideo():
			videoEnd = r.screen.PlayVideo(ctx, *slide.Ad)
		case slide.Kind == SlideAd:
			timer = time.NewTimer(r.adDuration(slide.Ad))
			timerC = timer.C
		case slide.Kind == SlideNews:
			timer = time.NewTimer(r.cfg.NewsDuration)
			timerC = timer.C
		}

	wait:
		for {
			select {
			case <-ctx.Done():
				if timer != nil {
					timer.Stop()
				}
				return ctx.Err()
			case <-timerC:
				break wait
			case <-videoEnd:
				break wait
			case <-r.detailTaps:
				// Тап обрабатывается только на рекламном слайде,
				// показ новости он не прерывает
				if slide.Kind != SlideAd {
					continue
				}
				if timer != nil {
					timer.Stop()
				}
				r.sink.Offer(Interaction{
					AdID:      slide.Ad.ID,
					DeviceID:  r.deviceID,
					Type:      entity.InteractionReadMoreClick,
					Timestamp: time.Now().Format(time.RFC3339),
				})
				break wait
			}
		}
		if timer != nil {
			timer.Stop()
		}

		// После рекламы — всегда панель деталей с отсчётом,
		// независимо от того, истёк таймер или был тап
		if slide.Kind == SlideAd {
			if err := r.runDetail(ctx, *slide.Ad); err != nil {
				return err
			}
			// Тапы по уже открытой панели не накапливаются
			select {
			case <-r.detailTaps:
			default:
			}
		}

		r.advance()
	}
}

// runDetail показывает панель деталей с посекундным отсчётом.
// Запись read_more_click остаётся за тапом: автоматический вход
// после истечения таймера кликом не считается.
func (r *Rotator) runDetail(ctx context.Context, ad entity.Ad) error {
	for left := r.cfg.DetailSeconds; left > 0; left-- {
		r.screen.ShowDetail(ad, left)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(r.cfg.DetailTick):
		}
	}
	return nil
}
