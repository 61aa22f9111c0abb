package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VLVrishank/revdeploy/internal/service"
)

// AnalyticsHandler обрабатывает HTTP запросы аналитики взаимодействий
type AnalyticsHandler struct {
	analyticsService *service.AnalyticsService
}

// NewAnalyticsHandler создаёт новый обработчик аналитики
func NewAnalyticsHandler(analyticsService *service.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// RecordInteraction принимает запись о взаимодействии от дисплея
// POST /api/display/interactions
func (h *AnalyticsHandler) RecordInteraction(c *gin.Context) {
	var req service.RecordInteractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.analyticsService.Record(req); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"message": "записано"})
}

// Summary возвращает агрегаты показов и кликов по каждой рекламе
// GET /api/admin/analytics/summary
func (h *AnalyticsHandler) Summary(c *gin.Context) {
	summaries, err := h.analyticsService.Summary()
	if err != nil {
		log.Printf("[AnalyticsHandler] Ошибка получения агрегатов: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось собрать агрегаты"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": summaries})
}

// Recent возвращает последние записи журнала взаимодействий
// GET /api/admin/analytics/interactions
func (h *AnalyticsHandler) Recent(c *gin.Context) {
	limit := 100
	if s := c.Query("limit"); s != "" {
		if n, err := strconv.Atoi(s); err == nil {
			limit = n
		}
	}

	interactions, err := h.analyticsService.RecentInteractions(limit)
	if err != nil {
		log.Printf("[AnalyticsHandler] Ошибка получения журнала: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить журнал"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": interactions})
}

// ExportXLSX отдаёт Excel-отчёт по аналитике
// GET /api/admin/analytics/export
func (h *AnalyticsHandler) ExportXLSX(c *gin.Context) {
	data, err := h.analyticsService.ExportXLSX()
	if err != nil {
		log.Printf("[AnalyticsHandler] Ошибка экспорта отчёта: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось сформировать отчёт"})
		return
	}

	filename := fmt.Sprintf("ad-analytics-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", data)
}
