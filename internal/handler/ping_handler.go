package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VLVrishank/revdeploy/internal/service"
)

// PingHandler обрабатывает HTTP запросы пинг-запросов "где ты?"
type PingHandler struct {
	pingService *service.PingService
	events      *PingEventBroadcaster // может быть nil
}

// NewPingHandler создаёт новый обработчик пингов
func NewPingHandler(pingService *service.PingService, events *PingEventBroadcaster) *PingHandler {
	return &PingHandler{
		pingService: pingService,
		events:      events,
	}
}

// CreatePing создаёт pending-запрос к устройству
// POST /api/admin/devices/:id/ping
func (h *PingHandler) CreatePing(c *gin.Context) {
	deviceID := c.Param("id")

	ping, err := h.pingService.CreatePing(deviceID)
	if err != nil {
		log.Printf("[PingHandler] Ошибка создания пинга для %s: %v", deviceID, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, ping)
}

// GetPing возвращает пинг-запрос по ID (контроллер опрашивает результат)
// GET /api/admin/pings/:id
func (h *PingHandler) GetPing(c *gin.Context) {
	ping, err := h.pingService.GetPing(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ping)
}

// PendingPing возвращает самый старый pending-запрос устройства.
// Устройство опрашивает этот маршрут каждые несколько секунд.
// GET /api/display/devices/:id/pings/pending
func (h *PingHandler) PendingPing(c *gin.Context) {
	ping, err := h.pingService.OldestPending(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, ping)
}

// CompletePing принимает данные, собранные устройством в ответ на пинг
// POST /api/display/pings/:id/complete
func (h *PingHandler) CompletePing(c *gin.Context) {
	var req service.PingResponse
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ping, err := h.pingService.CompletePing(c.Param("id"), req)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.events != nil {
		h.events.Broadcast(PingEvent{Kind: "ping_completed", Ping: ping})
	}
	c.JSON(http.StatusOK, ping)
}

// failPingRequest — тело запроса провала пинга
type failPingRequest struct {
	ErrorMessage string `json:"error_message"`
}

// FailPing помечает пинг проваленным (устройство не смогло собрать данные)
// POST /api/display/pings/:id/fail
func (h *PingHandler) FailPing(c *gin.Context) {
	var req failPingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ping, err := h.pingService.FailPing(c.Param("id"), req.ErrorMessage)
	if err != nil {
		respondError(c, err)
		return
	}

	if h.events != nil {
		h.events.Broadcast(PingEvent{Kind: "ping_failed", Ping: ping})
	}
	c.JSON(http.StatusOK, ping)
}
