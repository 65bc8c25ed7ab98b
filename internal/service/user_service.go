package service

import (
	"fmt"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

// UserStats — публичный срез прогресса игрока
type UserStats struct {
	Username    string   `json:"username"`
	XP          int64    `json:"xp"`
	Level       int      `json:"level"`
	Wins        int64    `json:"wins"`
	Losses      int64    `json:"losses"`
	Streak      int64    `json:"streak"`
	GamesPlayed int64    `json:"games_played"`
	Languages   []string `json:"languages"`
	LastPlayed  string   `json:"last_played,omitempty"`
	IsAdmin     bool     `json:"is_admin"`
}

// UserService предоставляет операции над профилем игрока
type UserService struct {
	userRepo repository.UserRepository
}

// NewUserService создает новый сервис пользователей
func NewUserService(userRepo repository.UserRepository) *UserService {
	return &UserService{userRepo: userRepo}
}

// GetByID возвращает игрока по ID
func (s *UserService) GetByID(userID uint) (*entity.User, error) {
	return s.userRepo.GetByID(userID)
}

// GetStats возвращает публичную статистику игрока
func (s *UserService) GetStats(userID uint) (*UserStats, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	stats := &UserStats{
		Username:    user.Username,
		XP:          user.XP,
		Level:       user.Level,
		Wins:        user.Wins,
		Losses:      user.Losses,
		Streak:      user.Streak,
		GamesPlayed: user.GamesPlayed,
		Languages:   user.Languages,
		IsAdmin:     user.IsAdmin,
	}
	if user.LastPlayed != nil {
		stats.LastPlayed = user.LastPlayed.Format("2006-01-02T15:04:05Z07:00")
	}
	return stats, nil
}

// UpdateLanguages заменяет набор предпочитаемых языков игрока
func (s *UserService) UpdateLanguages(userID uint, languages []string) error {
	if len(languages) == 0 {
		return fmt.Errorf("%w: select at least one programming language", apperrors.ErrValidation)
	}
	for _, lang := range languages {
		if !entity.IsValidLanguage(lang) {
			return fmt.Errorf("%w: invalid language %q", apperrors.ErrValidation, lang)
		}
	}
	return s.userRepo.UpdateLanguages(userID, languages)
}
