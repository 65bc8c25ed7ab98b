package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/orion-api/internal/middleware"
	"github.com/yourusername/orion-api/internal/service"
)

// UserHandler обрабатывает запросы профиля игрока
type UserHandler struct {
	userService *service.UserService
}

// NewUserHandler создает новый обработчик пользователей
func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// UpdateLanguagesRequest представляет запрос на смену предпочитаемых языков
type UpdateLanguagesRequest struct {
	Languages []string `json:"languages" binding:"required,min=1,max=5"`
}

// GetMe возвращает профиль аутентифицированного игрока
func (h *UserHandler) GetMe(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	user, err := h.userService.GetByID(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// GetStats возвращает игровую статистику игрока
func (h *UserHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	stats, err := h.userService.GetStats(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, stats)
}

// UpdateLanguages обновляет список предпочитаемых языков игрока
func (h *UserHandler) UpdateLanguages(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req UpdateLanguagesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	if err := h.userService.UpdateLanguages(userID, req.Languages); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Languages updated"})
}
