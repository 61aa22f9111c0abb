package handler

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/VLVrishank/revdeploy/internal/service"
)

// DeviceHandler обрабатывает HTTP запросы управления устройствами рикш
type DeviceHandler struct {
	deviceService *service.DeviceService
}

// NewDeviceHandler создаёт новый обработчик устройств
func NewDeviceHandler(deviceService *service.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

// Register регистрирует новое устройство
// POST /api/admin/devices
func (h *DeviceHandler) Register(c *gin.Context) {
	var req service.RegisterDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := h.deviceService.Register(req)
	if err != nil {
		log.Printf("[DeviceHandler] Ошибка регистрации устройства: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, device)
}

// ListDevices возвращает все устройства
// GET /api/admin/devices
func (h *DeviceHandler) ListDevices(c *gin.Context) {
	devices, err := h.deviceService.ListDevices()
	if err != nil {
		log.Printf("[DeviceHandler] Ошибка получения списка устройств: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "не удалось получить список"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"items": devices})
}

// GetDevice возвращает устройство по ID
// GET /api/admin/devices/:id
func (h *DeviceHandler) GetDevice(c *gin.Context) {
	device, err := h.deviceService.GetDevice(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

// deviceLoginRequest — тело запроса входа устройства
type deviceLoginRequest struct {
	DeviceID string `json:"device_id" binding:"required"`
	PIN      string `json:"pin" binding:"required"`
}

// Login проверяет PIN устройства (вызывается киоском при запуске)
// POST /api/display/login
func (h *DeviceHandler) Login(c *gin.Context) {
	var req deviceLoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	device, err := h.deviceService.LoginWithPIN(req.DeviceID, req.PIN)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, device)
}

// Heartbeat обновляет метку последней активности устройства
// POST /api/display/devices/:id/heartbeat
func (h *DeviceHandler) Heartbeat(c *gin.Context) {
	if err := h.deviceService.Heartbeat(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "ok"})
}

// TriggerForceRefresh посылает устройству сигнал принудительной перезагрузки
// POST /api/admin/devices/:id/refresh
func (h *DeviceHandler) TriggerForceRefresh(c *gin.Context) {
	id := c.Param("id")
	if err := h.deviceService.TriggerForceRefresh(id); err != nil {
		log.Printf("[DeviceHandler] Ошибка force-refresh для %s: %v", id, err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "сигнал отправлен"})
}

// RefreshState возвращает состояние сигнала force-refresh.
// Устройство опрашивает этот маршрут и само решает, свежий ли сигнал.
// GET /api/display/devices/:id/refresh
func (h *DeviceHandler) RefreshState(c *gin.Context) {
	device, err := h.deviceService.RefreshState(c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	resp := gin.H{
		"force_refresh": device.ForceRefresh,
		"fresh":         device.RefreshIsFresh(time.Now(), service.ForceRefreshWindow),
	}
	if device.ForceRefreshAt != nil {
		resp["force_refresh_at"] = device.ForceRefreshAt
	}
	c.JSON(http.StatusOK, resp)
}

// ClearForceRefresh сбрасывает сигнал force-refresh
// DELETE /api/display/devices/:id/refresh
func (h *DeviceHandler) ClearForceRefresh(c *gin.Context) {
	if err := h.deviceService.ClearForceRefresh(c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "сигнал сброшен"})
}
