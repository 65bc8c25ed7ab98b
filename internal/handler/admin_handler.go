package handler

import (
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"github.com/yourusername/orion-api/internal/service"
)

// AdminHandler обрабатывает административные операции
type AdminHandler struct {
	gameService        *service.GameService
	leaderboardService *service.LeaderboardService
}

// NewAdminHandler создает новый административный обработчик
func NewAdminHandler(gameService *service.GameService, leaderboardService *service.LeaderboardService) *AdminHandler {
	return &AdminHandler{
		gameService:        gameService,
		leaderboardService: leaderboardService,
	}
}

// ResetPlayerGameState сбрасывает отметку последней игры указанного игрока,
// позволяя ему сыграть еще раз сегодня
func (h *AdminHandler) ResetPlayerGameState(c *gin.Context) {
	playerID, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid player ID"})
		return
	}

	player, err := h.gameService.ResetPlayerGameState(uint(playerID))
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Player game state reset",
		"user":    player,
	})
}

// GetRecentChallenges возвращает последние созданные челленджи
func (h *AdminHandler) GetRecentChallenges(c *gin.Context) {
	limit := 20
	if raw := c.Query("limit"); raw != "" {
		if parsed, err := strconv.Atoi(raw); err == nil {
			limit = parsed
		}
	}

	challenges, err := h.gameService.GetRecentChallenges(limit)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"challenges": challenges})
}

// ExportLeaderboard отдает лидерборд в формате XLSX.
// Используем StreamWriter для эффективной работы с большими файлами.
func (h *AdminHandler) ExportLeaderboard(c *gin.Context) {
	entries, err := h.leaderboardService.GetTop(100)
	if err != nil {
		handleError(c, err)
		return
	}

	filename := fmt.Sprintf("leaderboard_%s", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=\"%s.xlsx\"", filename))

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Лидерборд"
	f.SetSheetName("Sheet1", sheetName)

	sw, err := f.NewStreamWriter(sheetName)
	if err != nil {
		log.Printf("[AdminHandler] Ошибка создания StreamWriter: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create Excel file"})
		return
	}

	// Заголовки
	headers := []interface{}{"Место", "Игрок", "XP", "Уровень", "Победы", "Серия", "Поражения", "Игры"}
	if err := sw.SetRow("A1", headers); err != nil {
		log.Printf("[AdminHandler] Ошибка записи заголовков: %v", err)
	}

	// Данные
	for i, e := range entries {
		rowNum := i + 2 // Начинаем с 2 строки (1 - заголовки)
		cell := fmt.Sprintf("A%d", rowNum)

		row := []interface{}{e.Rank, sanitizeForExcel(e.Username), e.XP, e.Level, e.Wins, e.Streak, e.Losses, e.GamesPlayed}
		if err := sw.SetRow(cell, row); err != nil {
			log.Printf("[AdminHandler] Ошибка записи строки %d: %v", rowNum, err)
		}
	}

	if err := sw.Flush(); err != nil {
		log.Printf("[AdminHandler] Ошибка при Flush: %v", err)
	}

	if err := f.Write(c.Writer); err != nil {
		log.Printf("[AdminHandler] Ошибка записи Excel в response: %v", err)
	}
}

// sanitizeForExcel экранирует данные для защиты от formula injection в Excel/CSV
func sanitizeForExcel(s string) string {
	if len(s) == 0 {
		return s
	}
	// Символы, начинающие формулу в Excel/LibreOffice: = + - @ \t \r
	if s[0] == '=' || s[0] == '+' || s[0] == '-' || s[0] == '@' || s[0] == '\t' || s[0] == '\r' {
		return "'" + s
	}
	return s
}
