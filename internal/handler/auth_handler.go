package handler

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/VLVrishank/revdeploy/internal/service"
)

// AuthHandler обрабатывает HTTP запросы аутентификации операторов
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler создаёт новый обработчик аутентификации
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// Register регистрирует нового оператора
// POST /api/auth/register
func (h *AuthHandler) Register(c *gin.Context) {
	var req service.RegisterOperatorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	operator, err := h.authService.Register(req)
	if err != nil {
		log.Printf("[AuthHandler] Ошибка регистрации оператора: %v", err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, operator)
}

// loginRequest — тело запроса входа
type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login выполняет вход оператора и выдаёт JWT
// POST /api/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.authService.Login(req.Email, req.Password)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Me возвращает текущего оператора
// GET /api/auth/me
func (h *AuthHandler) Me(c *gin.Context) {
	operatorID, exists := c.Get("operator_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	operator, err := h.authService.GetOperator(operatorID.(string))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, operator)
}
