package service

import (
	"context"
	"fmt"
	"log"
	"mime/multipart"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/VLVrishank/revdeploy/internal/domain/entity"
	"github.com/VLVrishank/revdeploy/internal/domain/repository"
	rediscache "github.com/VLVrishank/revdeploy/internal/repository/redis"
	"github.com/VLVrishank/revdeploy/pkg/storage"
)

// Допустимые расширения загружаемых медиа-файлов
var allowedAdExts = map[string]string{
	".jpg":  entity.AdTypeImage,
	".jpeg": entity.AdTypeImage,
	".png":  entity.AdTypeImage,
	".webp": entity.AdTypeImage,
	".gif":  entity.AdTypeImage,
	".mp4":  entity.AdTypeVideo,
	".webm": entity.AdTypeVideo,
}

// AdService предоставляет методы для управления рекламой
type AdService struct {
	adRepo repository.AdRepository
	cache  repository.CacheRepository
	media  storage.MediaStorage
}

// NewAdService создаёт новый сервис рекламы
func NewAdService(adRepo repository.AdRepository, cache repository.CacheRepository, media storage.MediaStorage) *AdService {
	return &AdService{
		adRepo: adRepo,
		cache:  cache,
		media:  media,
	}
}

// UploadAdRequest — параметры создания рекламы
type UploadAdRequest struct {
	Title        string
	Description  string
	MediaType    string // "image" | "video"
	DurationSec  int    // только для изображений
	ExternalLink string // цель QR-кода на панели деталей
}

// UploadAd загружает медиа-файл в хранилище и создаёт рекламу
func (s *AdService) UploadAd(ctx context.Context, file *multipart.FileHeader, req UploadAdRequest) (*entity.Ad, error) {
	// Валидация типа файла
	ext := strings.ToLower(filepath.Ext(file.Filename))
	expectedType, ok := allowedAdExts[ext]
	if !ok {
		return nil, fmt.Errorf("недопустимый формат файла: %s", ext)
	}
	if expectedType != req.MediaType {
		return nil, fmt.Errorf("тип файла %s не соответствует указанному типу %s", ext, req.MediaType)
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("не удалось открыть загруженный файл: %w", err)
	}
	defer src.Close()

	adID := uuid.NewString()
	isVideo := req.MediaType == entity.AdTypeVideo

	// Загружаем в Cloudinary с управляемым public ID
	uploadID := fmt.Sprintf("ad_%s_%d", adID, time.Now().UnixNano())
	url, publicID, err := s.media.Upload(ctx, src, uploadID, isVideo)
	if err != nil {
		return nil, fmt.Errorf("не удалось загрузить файл в хранилище: %w", err)
	}

	ad := &entity.Ad{
		ID:           adID,
		Title:        req.Title,
		Description:  req.Description,
		Type:         req.MediaType,
		URL:          url,
		PublicID:     publicID,
		DurationSec:  req.DurationSec,
		ExternalLink: req.ExternalLink,
		IsActive:     true,
	}

	if err := s.adRepo.Create(ad); err != nil {
		// Откатываем загрузку, чтобы не копить файлы-сироты
		if destroyErr := s.media.Destroy(ctx, publicID, isVideo); destroyErr != nil {
			log.Printf("[AdService] Не удалось удалить файл %s после ошибки БД: %v", publicID, destroyErr)
		}
		return nil, fmt.Errorf("не удалось сохранить в БД: %w", err)
	}

	s.invalidatePlaylist()
	log.Printf("[AdService] Создана реклама %s: %q (%s)", ad.ID, req.Title, req.MediaType)
	return ad, nil
}

// ListAds возвращает все рекламы
func (s *AdService) ListAds() ([]entity.Ad, error) {
	return s.adRepo.List()
}

// ActivePlaylist возвращает активные рекламы для дисплея, с кешем в Redis
func (s *AdService) ActivePlaylist() ([]entity.Ad, error) {
	if s.cache != nil {
		var cached []entity.Ad
		if err := s.cache.GetJSON(rediscache.KeyActivePlaylist, &cached); err == nil {
			return cached, nil
		}
	}

	ads, err := s.adRepo.ListActive()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if err := s.cache.SetJSON(rediscache.KeyActivePlaylist, ads, 30*time.Second); err != nil {
			log.Printf("[AdService] Не удалось закешировать плейлист: %v", err)
		}
	}
	return ads, nil
}

// SetActive переключает флаг активности рекламы
func (s *AdService) SetActive(id string, active bool) error {
	if err := s.adRepo.SetActive(id, active); err != nil {
		return err
	}
	s.invalidatePlaylist()
	log.Printf("[AdService] Реклама %s: is_active=%t", id, active)
	return nil
}

// DeleteAd удаляет рекламу вместе с медиа-файлом в хранилище.
// Если файл удалить не удалось, строка всё равно удаляется: осиротевший
// файл безвреден, а призрачная реклама продолжала бы крутиться на дисплеях.
func (s *AdService) DeleteAd(ctx context.Context, id string) error {
	ad, err := s.adRepo.GetByID(id)
	if err != nil {
		return err
	}

	if ad.PublicID != "" {
		if err := s.media.Destroy(ctx, ad.PublicID, ad.IsVideo()); err != nil {
			log.Printf("[AdService] Не удалось удалить медиа-файл %s: %v", ad.PublicID, err)
		}
	}

	if err := s.adRepo.Delete(id); err != nil {
		return err
	}

	s.invalidatePlaylist()
	log.Printf("[AdService] Реклама %s удалена", id)
	return nil
}

// invalidatePlaylist сбрасывает кеш плейлиста после любой мутации
func (s *AdService) invalidatePlaylist() {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(rediscache.KeyActivePlaylist); err != nil {
		log.Printf("[AdService] Не удалось сбросить кеш плейлиста: %v", err)
	}
}
