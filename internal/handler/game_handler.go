package handler

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/yourusername/orion-api/internal/middleware"
	"github.com/yourusername/orion-api/internal/service"
)

// GameHandler обрабатывает игровые запросы: дневной челлендж,
// отправка ответов и лидерборд
type GameHandler struct {
	gameService        *service.GameService
	leaderboardService *service.LeaderboardService
}

// NewGameHandler создает новый игровой обработчик
func NewGameHandler(gameService *service.GameService, leaderboardService *service.LeaderboardService) *GameHandler {
	return &GameHandler{
		gameService:        gameService,
		leaderboardService: leaderboardService,
	}
}

// SubmitAnswerRequest представляет отправку ответа на челлендж
type SubmitAnswerRequest struct {
	ChallengeID   uint   `json:"challenge_id" binding:"required"`
	Answer        string `json:"answer" binding:"required"`
	AttemptNumber int    `json:"attempt_number" binding:"required,min=1"`
}

// GetDailyChallenge выдает игроку сегодняшний челлендж.
// Параметры: excludeTypes — типы через запятую, unique=true — только
// еще не решённые игроком челленджи.
func (h *GameHandler) GetDailyChallenge(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var excludeTypes []string
	if raw := c.Query("excludeTypes"); raw != "" {
		for _, t := range strings.Split(raw, ",") {
			if t = strings.TrimSpace(t); t != "" {
				excludeTypes = append(excludeTypes, t)
			}
		}
	}
	requireUnique := c.Query("unique") == "true"

	challenge, err := h.gameService.GetDailyChallenge(c.Request.Context(), userID, excludeTypes, requireUnique)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, challenge)
}

// SubmitAnswer принимает ответ игрока и возвращает результат попытки
func (h *GameHandler) SubmitAnswer(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	var req SubmitAnswerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request data", "details": err.Error()})
		return
	}

	result, err := h.gameService.SubmitAnswer(c.Request.Context(), userID, req.ChallengeID, req.Answer, req.AttemptNumber)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetDailyStatus сообщает, сыграна ли сегодняшняя сессия
func (h *GameHandler) GetDailyStatus(c *gin.Context) {
	userID, ok := middleware.UserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
		return
	}

	status, err := h.gameService.GetDailyStatus(userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, status)
}

// GetLeaderboard возвращает топ лидерборда. Если аутентифицированный
// игрок не попал в топ, отдельно возвращается его ранг.
func (h *GameHandler) GetLeaderboard(c *gin.Context) {
	limit := 100
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil && parsed > 0 && parsed <= 100 {
			limit = parsed
		}
	}

	entries, err := h.leaderboardService.GetTop(limit)
	if err != nil {
		handleError(c, err)
		return
	}

	response := gin.H{"leaderboard": entries}

	if userID, ok := middleware.UserIDFromContext(c); ok {
		inTop := false
		for i := range entries {
			if entries[i].UserID == userID {
				inTop = true
				break
			}
		}
		if !inTop {
			if rank, err := h.leaderboardService.RankOf(userID); err == nil {
				response["user_rank"] = rank
			}
		}
	}

	c.JSON(http.StatusOK, response)
}
