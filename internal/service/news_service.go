package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	"github.com/VLVrishank/revdeploy/internal/domain/repository"
	rediscache "github.com/VLVrishank/revdeploy/internal/repository/redis"
	apperrors "github.com/VLVrishank/revdeploy/internal/pkg/errors"
)

const newsAPIBaseURL = "https://newsapi.org/v2/top-headlines"

// newsAPIResponse — формат ответа NewsAPI top-headlines
type newsAPIResponse struct {
	Status   string `json:"status"`
	Articles []struct {
		Source struct {
			Name string `json:"name"`
		} `json:"source"`
		Title       string `json:"title"`
		Description string `json:"description"`
		URL         string `json:"url"`
		URLToImage  string `json:"urlToImage"`
		PublishedAt string `json:"publishedAt"`
	} `json:"articles"`
}

// NewsConfig — настройки ингеста новостей
type NewsConfig struct {
	APIKey   string
	Country  string
	Category string
	MaxRows  int // жёсткий потолок числа строк в таблице новостей
}

// NewsService отвечает за ингест новостей из внешней ленты и их выдачу дисплеям.
// Лента опрашивается не чаще раза в календарные сутки, таблица ограничена
// MaxRows строками с прореживанием самых старых записей.
type NewsService struct {
	newsRepo    repository.NewsRepository
	settingRepo repository.SettingRepository
	cache       repository.CacheRepository
	httpClient  *http.Client
	cfg         NewsConfig
	baseURL     string
}

// NewNewsService создаёт новый сервис новостей
func NewNewsService(newsRepo repository.NewsRepository, settingRepo repository.SettingRepository, cache repository.CacheRepository, cfg NewsConfig) *NewsService {
	if cfg.MaxRows <= 0 {
		cfg.MaxRows = 100
	}
	if cfg.Country == "" {
		cfg.Country = "us"
	}
	if cfg.Category == "" {
		cfg.Category = "health"
	}
	return &NewsService{
		newsRepo:    newsRepo,
		settingRepo: settingRepo,
		cache:       cache,
		httpClient:  &http.Client{Timeout: 15 * time.Second},
		cfg:         cfg,
		baseURL:     newsAPIBaseURL,
	}
}

// FetchAndStore выполняет один цикл ингеста: пропускает, если сегодня уже
// забирали; прореживает таблицу при достижении потолка; иначе забирает
// свежие заголовки и сохраняет только статьи с картинкой и описанием.
func (s *NewsService) FetchAndStore(ctx context.Context) error {
	// Уже забирали сегодня?
	today := time.Now().Truncate(24 * time.Hour)
	fetchedToday, err := s.newsRepo.CountCreatedSince(today)
	if err != nil {
		return fmt.Errorf("не удалось проверить сегодняшние новости: %w", err)
	}
	if fetchedToday > 0 {
		log.Println("[NewsService] Новости уже загружены сегодня, пропускаем запрос к API")
		return nil
	}

	// Потолок достигнут — прореживаем и не ходим в API
	total, err := s.newsRepo.Count()
	if err != nil {
		return fmt.Errorf("не удалось посчитать новости: %w", err)
	}
	if total >= int64(s.cfg.MaxRows) {
		log.Printf("[NewsService] Таблица новостей достигла потолка %d строк, прореживаем", s.cfg.MaxRows)
		return s.pruneOldNews()
	}

	items, err := s.fetchHeadlines(ctx)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		log.Println("[NewsService] Лента не вернула пригодных статей")
		return nil
	}

	if err := s.newsRepo.CreateBatch(items); err != nil {
		return fmt.Errorf("не удалось сохранить новости: %w", err)
	}
	log.Printf("[NewsService] Сохранено %d новостей", len(items))
	return nil
}

// fetchHeadlines забирает заголовки из NewsAPI
func (s *NewsService) fetchHeadlines(ctx context.Context) ([]entity.NewsItem, error) {
	if s.cfg.APIKey == "" {
		return nil, fmt.Errorf("NewsAPI key не задан")
	}

	params := url.Values{}
	params.Set("country", s.cfg.Country)
	params.Set("category", s.cfg.Category)
	params.Set("apiKey", s.cfg.APIKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.baseURL+"?"+params.Encode(), nil)
	if err != nil {
		return nil, err
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("запрос к новостной ленте не удался: %w", err)
	}
	defer resp.Body.Close()

	var apiResp newsAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return nil, fmt.Errorf("не удалось разобрать ответ ленты: %w", err)
	}
	if apiResp.Status != "ok" {
		return nil, fmt.Errorf("новостная лента вернула статус %q", apiResp.Status)
	}

	now := time.Now()
	var items []entity.NewsItem
	for _, article := range apiResp.Articles {
		// Без картинки или описания статья бесполезна на дисплее
		if article.URLToImage == "" || article.Description == "" {
			continue
		}
		publishedAt, err := time.Parse(time.RFC3339, article.PublishedAt)
		if err != nil {
			publishedAt = now
		}
		items = append(items, entity.NewsItem{
			ID:          uuid.NewString(),
			Title:       article.Title,
			Description: article.Description,
			URL:         article.URL,
			ImageURL:    article.URLToImage,
			Source:      article.Source.Name,
			PublishedAt: publishedAt,
			CreatedAt:   now,
		})
	}
	return items, nil
}

// pruneOldNews удаляет самые старые записи, оставляя новейшую половину потолка
func (s *NewsService) pruneOldNews() error {
	keepCount := s.cfg.MaxRows / 2

	oldest, err := s.newsRepo.Oldest(s.cfg.MaxRows)
	if err != nil {
		return fmt.Errorf("не удалось выбрать старые новости: %w", err)
	}
	if len(oldest) <= keepCount {
		return nil // нечего прореживать
	}

	toDelete := oldest[:len(oldest)-keepCount]
	ids := make([]string, 0, len(toDelete))
	for _, item := range toDelete {
		ids = append(ids, item.ID)
	}

	if err := s.newsRepo.DeleteByIDs(ids); err != nil {
		return fmt.Errorf("не удалось удалить старые новости: %w", err)
	}
	log.Printf("[NewsService] Удалено %d старых новостей", len(ids))
	return nil
}

// RunDailyIngest запускает фоновый цикл ингеста: сразу и далее каждый час.
// Часовой тик дешёв: FetchAndStore сам пропускает повторные запросы за сутки.
func (s *NewsService) RunDailyIngest(ctx context.Context) {
	if err := s.FetchAndStore(ctx); err != nil {
		log.Printf("[NewsService] Ошибка ингеста новостей: %v", err)
	}

	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("[NewsService] Фоновый ингест остановлен")
			return
		case <-ticker.C:
			if err := s.FetchAndStore(ctx); err != nil {
				log.Printf("[NewsService] Ошибка ингеста новостей: %v", err)
			}
		}
	}
}

// LatestNews возвращает последние новости для дисплея
func (s *NewsService) LatestNews(limit int) ([]entity.NewsItem, error) {
	if limit <= 0 {
		limit = 20
	}
	return s.newsRepo.Latest(limit)
}

// NewsEnabled возвращает настройку чередования новостей.
// Отсутствующая настройка трактуется как включённая и создаётся.
func (s *NewsService) NewsEnabled() (bool, error) {
	if s.cache != nil {
		var cached entity.NewsEnabledValue
		if err := s.cache.GetJSON(rediscache.KeyNewsSettings, &cached); err == nil {
			return cached.Enabled, nil
		}
	}

	setting, err := s.settingRepo.Get(entity.SettingKeyNewsEnabled)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			if setErr := s.SetNewsEnabled(true); setErr != nil {
				log.Printf("[NewsService] Не удалось создать настройку news_enabled: %v", setErr)
			}
			return true, nil
		}
		return true, err // по умолчанию новости включены
	}

	var value entity.NewsEnabledValue
	if err := json.Unmarshal(setting.Value, &value); err != nil {
		log.Printf("[NewsService] Некорректное значение настройки news_enabled: %v", err)
		return true, nil
	}

	s.cacheNewsEnabled(value.Enabled)
	return value.Enabled, nil
}

// SetNewsEnabled сохраняет настройку чередования новостей (upsert по ключу)
func (s *NewsService) SetNewsEnabled(enabled bool) error {
	raw, err := json.Marshal(entity.NewsEnabledValue{Enabled: enabled})
	if err != nil {
		return err
	}
	setting := &entity.Setting{
		Key:       entity.SettingKeyNewsEnabled,
		Value:     raw,
		UpdatedAt: time.Now(),
	}
	if err := s.settingRepo.Upsert(setting); err != nil {
		return err
	}
	s.cacheNewsEnabled(enabled)
	log.Printf("[NewsService] news_enabled=%t", enabled)
	return nil
}

func (s *NewsService) cacheNewsEnabled(enabled bool) {
	if s.cache == nil {
		return
	}
	err := s.cache.SetJSON(rediscache.KeyNewsSettings, entity.NewsEnabledValue{Enabled: enabled}, time.Minute)
	if err != nil {
		log.Printf("[NewsService] Не удалось закешировать настройку новостей: %v", err)
	}
}
