package kiosk

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
)

// fakeScreen записывает всё, что ротатор рисует
type fakeScreen struct {
	mu     sync.Mutex
	events []string
}

func (s *fakeScreen) record(event string) {
	s.mu.Lock()
	s.events = append(s.events, event)
	s.mu.Unlock()
}

func (s *fakeScreen) snapshot() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.events))
	copy(out, s.events)
	return out
}

func (s *fakeScreen) ShowAd(ad entity.Ad) { s.record("ad:" + ad.ID) }

func (s *fakeScreen) PlayVideo(ctx context.Context, ad entity.Ad) <-chan struct{} {
	s.record("video:" + ad.ID)
	ch := make(chan struct{})
	close(ch) // видео "заканчивается" мгновенно
	return ch
}

func (s *fakeScreen) ShowNews(item entity.NewsItem) { s.record("news:" + item.ID) }

func (s *fakeScreen) ShowDetail(ad entity.Ad, secondsLeft int) {
	s.record("detail:" + ad.ID + ":" + string(rune('0'+secondsLeft)))
}

func (s *fakeScreen) ShowEmpty() { s.record("empty") }

func testRotator(ads []entity.Ad, news []entity.NewsItem, newsEnabled bool) (*Rotator, *fakeScreen, *AnalyticsSink) {
	screen := &fakeScreen{}
	sink := NewAnalyticsSink(nil, 32)
	r := NewRotator(nil, screen, sink, "rickshaw-1", RotatorConfig{
		NewsDuration:      10 * time.Millisecond,
		DetailSeconds:     2,
		DetailTick:        5 * time.Millisecond,
		DefaultAdDuration: 10 * time.Millisecond,
	})
	r.ads = ads
	r.news = news
	r.newsEnabled = newsEnabled
	return r, screen, sink
}

func imageAd(id string) entity.Ad {
	return entity.Ad{ID: id, Type: entity.AdTypeImage}
}

func newsItem(id string) entity.NewsItem {
	return entity.NewsItem{ID: id}
}

func TestRotator_AlternatesAdsAndNews(t *testing.T) {
	// Arrange
	r, _, _ := testRotator(
		[]entity.Ad{imageAd("a0"), imageAd("a1")},
		[]entity.NewsItem{newsItem("n0"), newsItem("n1")},
		true,
	)

	// Act: собираем последовательность слайдов
	var got []string
	for i := 0; i < 8; i++ {
		slide := r.current()
		switch slide.Kind {
		case SlideAd:
			got = append(got, "ad:"+slide.Ad.ID)
		case SlideNews:
			got = append(got, "news:"+slide.News.ID)
		}
		r.advance()
	}

	// Assert: строгое чередование, оба индекса идут по кругу
	assert.Equal(t, []string{
		"ad:a0", "news:n0", "ad:a1", "news:n1",
		"ad:a0", "news:n0", "ad:a1", "news:n1",
	}, got)
}

func TestRotator_CyclesBackToStart(t *testing.T) {
	// Arrange: 3 рекламы, 2 новости — полный цикл 12 слайдов (НОК индексов)
	r, _, _ := testRotator(
		[]entity.Ad{imageAd("a0"), imageAd("a1"), imageAd("a2")},
		[]entity.NewsItem{newsItem("n0"), newsItem("n1")},
		true,
	)

	start := r.current()
	for i := 0; i < 12; i++ {
		r.advance()
	}

	// Assert
	after := r.current()
	require.Equal(t, start.Kind, after.Kind)
	assert.Equal(t, start.Ad.ID, after.Ad.ID)
}

func TestRotator_AdsOnlyWhenNewsDisabled(t *testing.T) {
	r, _, _ := testRotator(
		[]entity.Ad{imageAd("a0"), imageAd("a1")},
		[]entity.NewsItem{newsItem("n0")},
		false,
	)

	var got []string
	for i := 0; i < 4; i++ {
		slide := r.current()
		require.Equal(t, SlideAd, slide.Kind)
		got = append(got, slide.Ad.ID)
		r.advance()
	}

	assert.Equal(t, []string{"a0", "a1", "a0", "a1"}, got)
}

func TestRotator_AdsOnlyWhenNoNewsRows(t *testing.T) {
	// Настройка включена, но новостей нет — чередование не включается
	r, _, _ := testRotator([]entity.Ad{imageAd("a0")}, nil, true)

	for i := 0; i < 3; i++ {
		assert.Equal(t, SlideAd, r.current().Kind)
		r.advance()
	}
}

func TestRotator_EmptyPlaylistShowsEmptyStateWithoutTimers(t *testing.T) {
	// Arrange: пустой плейлист — только заставка, Run висит до отмены
	gw := new(MockGateway)
	gw.On("ActiveAds").Return([]entity.Ad{}, nil)
	gw.On("LatestNews").Return([]entity.NewsItem{}, nil)
	gw.On("NewsEnabled").Return(true, nil)

	screen := &fakeScreen{}
	r := NewRotator(gw, screen, NewAnalyticsSink(nil, 8), "rickshaw-1", DefaultRotatorConfig())

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	// Act
	err := r.Run(ctx)

	// Assert
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"empty"}, screen.snapshot())
}

func TestRotator_ImpressionOncePerEntry(t *testing.T) {
	// Arrange
	r, _, sink := testRotator(
		[]entity.Ad{imageAd("a0"), imageAd("a1")},
		nil, false,
	)

	// Act: повторный enter того же слайда показа не дублирует
	r.enter(context.Background())
	r.enter(context.Background())
	r.enter(context.Background())
	r.advance()
	r.enter(context.Background())

	// Assert: ровно две записи — по одной на каждый вход в рекламный слайд
	require.Len(t, sink.queue, 2)
	first := <-sink.queue
	second := <-sink.queue
	assert.Equal(t, "a0", first.AdID)
	assert.Equal(t, entity.InteractionImpression, first.Type)
	assert.Equal(t, "a1", second.AdID)
}

func TestRotator_ImpressionRepeatsOnReentry(t *testing.T) {
	// Полный круг по одной рекламе — каждый новый вход даёт новый показ
	r, _, sink := testRotator([]entity.Ad{imageAd("a0")}, nil, false)

	r.enter(context.Background())
	r.advance()
	r.enter(context.Background())

	assert.Len(t, sink.queue, 2)
}

func TestRotator_SingleAdDetailCycle(t *testing.T) {
	// Arrange: одна картинка, без тапов — таймер сам ведёт в панель деталей
	gw := new(MockGateway)
	gw.On("ActiveAds").Return([]entity.Ad{imageAd("a0")}, nil)
	gw.On("LatestNews").Return([]entity.NewsItem{}, nil)
	gw.On("NewsEnabled").Return(false, nil)

	screen := &fakeScreen{}
	sink := NewAnalyticsSink(nil, 32)
	r := NewRotator(gw, screen, sink, "rickshaw-1", RotatorConfig{
		NewsDuration:      20 * time.Millisecond,
		DetailSeconds:     2,
		DetailTick:        5 * time.Millisecond,
		DefaultAdDuration: 20 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Act: полный цикл реклама → панель → реклама, руками не трогаем
	time.Sleep(70 * time.Millisecond)
	cancel()
	<-done

	// Assert: реклама, отсчёт 2 → 1, затем та же реклама заново
	events := screen.snapshot()
	require.GreaterOrEqual(t, len(events), 4)
	assert.Equal(t, []string{"ad:a0", "detail:a0:2", "detail:a0:1", "ad:a0"}, events[:4])

	// Показы есть, а read_more без тапа быть не должно
	types := map[string]int{}
	for len(sink.queue) > 0 {
		i := <-sink.queue
		types[i.Type]++
	}
	assert.GreaterOrEqual(t, types[entity.InteractionImpression], 2)
	assert.Zero(t, types[entity.InteractionReadMoreClick])
}

func TestRotator_TapOpensDetailAndRecordsReadMore(t *testing.T) {
	// Arrange: длинная картинка, панель открывается досрочно по тапу
	gw := new(MockGateway)
	gw.On("ActiveAds").Return([]entity.Ad{imageAd("a0")}, nil)
	gw.On("LatestNews").Return([]entity.NewsItem{}, nil)
	gw.On("NewsEnabled").Return(false, nil)

	screen := &fakeScreen{}
	sink := NewAnalyticsSink(nil, 32)
	r := NewRotator(gw, screen, sink, "rickshaw-1", RotatorConfig{
		NewsDuration:      20 * time.Millisecond,
		DetailSeconds:     2,
		DetailTick:        5 * time.Millisecond,
		DefaultAdDuration: 500 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Act: даём рекламе отрисоваться и тапаем
	time.Sleep(10 * time.Millisecond)
	r.RequestDetails()
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	// Assert: тап прервал показ и открыл отсчёт
	events := screen.snapshot()
	require.GreaterOrEqual(t, len(events), 3)
	assert.Equal(t, []string{"ad:a0", "detail:a0:2", "detail:a0:1"}, events[:3])

	// Ровно один read_more — от тапа
	types := map[string]int{}
	for len(sink.queue) > 0 {
		i := <-sink.queue
		types[i.Type]++
	}
	assert.Equal(t, 1, types[entity.InteractionReadMoreClick])
}

func TestRotator_TapDuringNewsDoesNotCutNewsShort(t *testing.T) {
	// Arrange: короткая реклама, длинная новость; тап приходит на новости
	gw := new(MockGateway)
	gw.On("ActiveAds").Return([]entity.Ad{imageAd("a0")}, nil)
	gw.On("LatestNews").Return([]entity.NewsItem{newsItem("n0")}, nil)
	gw.On("NewsEnabled").Return(true, nil)

	screen := &fakeScreen{}
	sink := NewAnalyticsSink(nil, 32)
	r := NewRotator(gw, screen, sink, "rickshaw-1", RotatorConfig{
		NewsDuration:      200 * time.Millisecond,
		DetailSeconds:     2,
		DetailTick:        5 * time.Millisecond,
		DefaultAdDuration: 10 * time.Millisecond,
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	// Act: к 40 мс реклама и панель прошли, на экране новость — тапаем
	time.Sleep(40 * time.Millisecond)
	r.RequestDetails()
	time.Sleep(30 * time.Millisecond)
	cancel()
	<-done

	// Assert: новость осталась на экране, тап её не прервал
	events := screen.snapshot()
	assert.Equal(t, []string{"ad:a0", "detail:a0:2", "detail:a0:1", "news:n0"}, events)

	// И кликом по рекламе такой тап не считается
	for len(sink.queue) > 0 {
		i := <-sink.queue
		assert.NotEqual(t, entity.InteractionReadMoreClick, i.Type)
	}
}

func TestRotator_VideoAdvancesOnPlaybackEnd(t *testing.T) {
	// Arrange: видео "заканчивается" мгновенно, дальше застреваем на картинке
	gw := new(MockGateway)
	video := entity.Ad{ID: "v0", Type: entity.AdTypeVideo}
	gw.On("ActiveAds").Return([]entity.Ad{video, imageAd("a1")}, nil)
	gw.On("LatestNews").Return([]entity.NewsItem{}, nil)
	gw.On("NewsEnabled").Return(false, nil)

	screen := &fakeScreen{}
	r := NewRotator(gw, screen, NewAnalyticsSink(nil, 32), "rickshaw-1", RotatorConfig{
		NewsDuration:      time.Hour,
		DetailSeconds:     2,
		DetailTick:        5 * time.Millisecond,
		DefaultAdDuration: time.Hour, // изображение ротатор не должен успеть пройти
	})

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- r.Run(ctx) }()

	time.Sleep(50 * time.Millisecond)
	cancel()
	<-done

	// Assert: конец видео ведёт в панель деталей, затем следующая реклама
	events := screen.snapshot()
	require.GreaterOrEqual(t, len(events), 4)
	assert.Equal(t, []string{"video:v0", "detail:v0:2", "detail:v0:1", "ad:a1"}, events[:4])
}
