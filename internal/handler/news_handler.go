package handler

import (
	"log"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/VLVrishank/revdeploy/internal/service"
)

// NewsHandler обрабатывает HTTP запросы новостной ленты и её настроек
type NewsHandler struct {
	newsService *service.NewsService
}

// NewNewsHandler создаёт новый обработчик новостей
func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{newsService: newsService}
}

// LatestNews возвращает последние новости для дисплея
// GET /api/display/news
func (h *NewsHandler) LatestNews(c *gin.Context) {
	limit := 20
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 && n <= 100 {
			limit = n
		}
	}

	items, err := h.newsService.LatestNews(limit)
	if err != nil {
		log.Printf("[NewsHandler] Ошибка получения новостей: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить новости"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// NewsSettings возвращает настройку чередования новостей
// GET /api/display/settings/news
func (h *NewsHandler) NewsSettings(c *gin.Context) {
	enabled, err := h.newsService.NewsEnabled()
	if err != nil {
		log.Printf("[NewsHandler] Ошибка чтения настройки новостей: %v", err)
		// Дисплей не должен гаснуть из-за ошибки настроек
		c.JSON(http.StatusOK, gin.H{"news_enabled": true})
		return
	}

	c.JSON(http.StatusOK, gin.H{"news_enabled": enabled})
}

// updateNewsSettingsRequest — тело запроса смены настройки новостей
type updateNewsSettingsRequest struct {
	NewsEnabled *bool `json:"news_enabled" binding:"required"`
}

// UpdateNewsSettings включает или выключает чередование новостей
// PUT /api/admin/settings/news
func (h *NewsHandler) UpdateNewsSettings(c *gin.Context) {
	var req updateNewsSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.newsService.SetNewsEnabled(*req.NewsEnabled); err != nil {
		log.Printf("[NewsHandler] Ошибка сохранения настройки новостей: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сохранить настройку"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"news_enabled": *req.NewsEnabled})
}

// TriggerIngest запускает внеплановый цикл ингеста новостей
// POST /api/admin/news/ingest
func (h *NewsHandler) TriggerIngest(c *gin.Context) {
	if err := h.newsService.FetchAndStore(c.Request.Context()); err != nil {
		log.Printf("[NewsHandler] Ошибка ручного ингеста: %v", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ингест выполнен"})
}
