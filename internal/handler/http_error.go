package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

// handleError переводит ошибку доменного слоя в HTTP-ответ
func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, apperrors.ErrAlreadyPlayedToday):
		c.JSON(http.StatusForbidden, gin.H{"error": "Сегодняшний челлендж уже сыгран", "error_type": "already_played_today"})
	case errors.Is(err, apperrors.ErrNoEligibleChallenge):
		c.JSON(http.StatusNotFound, gin.H{"error": "Нет подходящих челленджей, попробуйте позже", "error_type": "no_eligible_challenge"})
	case errors.Is(err, apperrors.ErrInvalidAttempt):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Недопустимый номер попытки", "error_type": "invalid_attempt"})
	case errors.Is(err, apperrors.ErrChallengeNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Челлендж не найден или неактивен", "error_type": "challenge_not_found"})
	case errors.Is(err, apperrors.ErrSubmissionInProgress):
		c.JSON(http.StatusConflict, gin.H{"error": "Предыдущая отправка еще обрабатывается", "error_type": "submission_in_progress"})
	case errors.Is(err, apperrors.ErrVerification):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Не удалось проверить ответ, попробуйте еще раз", "error_type": "verification_failed"})
	case errors.Is(err, apperrors.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Ошибка аутентификации или неверные данные", "error_type": "unauthorized"})
	case errors.Is(err, apperrors.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Доступ запрещен", "error_type": "forbidden"})
	case errors.Is(err, apperrors.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Запрашиваемый ресурс не найден", "error_type": "not_found"})
	case errors.Is(err, apperrors.ErrConflict):
		c.JSON(http.StatusConflict, gin.H{"error": "Конфликт данных", "error_type": "conflict"})
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "error_type": "validation_error"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Внутренняя ошибка сервера", "error_type": "internal_server_error"})
	}
}
