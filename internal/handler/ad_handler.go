package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VLVrishank/revdeploy/internal/service"
)

// AdHandler обрабатывает HTTP запросы для управления рекламой
type AdHandler struct {
	adService *service.AdService
}

// NewAdHandler создаёт новый обработчик рекламы
func NewAdHandler(adService *service.AdService) *AdHandler {
	return &AdHandler{adService: adService}
}

// UploadAd загружает рекламный медиа-файл и создаёт рекламу
// POST /api/admin/ads
func (h *AdHandler) UploadAd(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "файл не найден: " + err.Error()})
		return
	}

	// Ограничение размера файла (50 MB)
	if file.Size > 50*1024*1024 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "файл слишком большой (макс. 50 MB)"})
		return
	}

	title := c.PostForm("title")
	if title == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "title обязателен"})
		return
	}

	mediaType := c.PostForm("media_type")
	if mediaType != "image" && mediaType != "video" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "media_type должен быть 'image' или 'video'"})
		return
	}

	durationSec := 10 // default для изображений
	if s := c.PostForm("duration_sec"); s != "" {
		if d, err := strconv.Atoi(s); err == nil && d >= 3 && d <= 60 {
			durationSec = d
		}
	}

	ad, err := h.adService.UploadAd(c.Request.Context(), file, service.UploadAdRequest{
		Title:        title,
		Description:  c.PostForm("description"),
		MediaType:    mediaType,
		DurationSec:  durationSec,
		ExternalLink: c.PostForm("external_link"),
	})
	if err != nil {
		log.Printf("[AdHandler] Ошибка загрузки рекламы: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, ad)
}

// ListAds возвращает список всех реклам
// GET /api/admin/ads
func (h *AdHandler) ListAds(c *gin.Context) {
	ads, err := h.adService.ListAds()
	if err != nil {
		log.Printf("[AdHandler] Ошибка получения списка рекламы: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить список"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": ads})
}

// setActiveRequest — тело запроса переключения активности
type setActiveRequest struct {
	IsActive *bool `json:"is_active" binding:"required"`
}

// SetActive переключает флаг активности рекламы
// PATCH /api/admin/ads/:id/active
func (h *AdHandler) SetActive(c *gin.Context) {
	var req setActiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	id := c.Param("id")
	if err := h.adService.SetActive(id, *req.IsActive); err != nil {
		log.Printf("[AdHandler] Ошибка переключения рекламы %s: %v", id, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "статус обновлён"})
}

// DeleteAd удаляет рекламу вместе с медиа-файлом
// DELETE /api/admin/ads/:id
func (h *AdHandler) DeleteAd(c *gin.Context) {
	id := c.Param("id")
	if err := h.adService.DeleteAd(c.Request.Context(), id); err != nil {
		log.Printf("[AdHandler] Ошибка удаления рекламы %s: %v", id, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "реклама удалена"})
}

// ActivePlaylist возвращает активные рекламы для дисплея
// GET /api/display/ads
func (h *AdHandler) ActivePlaylist(c *gin.Context) {
	ads, err := h.adService.ActivePlaylist()
	if err != nil {
		log.Printf("[AdHandler] Ошибка получения плейлиста: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить плейлист"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": ads})
}
