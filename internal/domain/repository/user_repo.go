package repository

import (
	"time"

	"github.com/yourusername/orion-api/internal/domain/entity"
)

// UserRepository определяет методы для работы с игроками
type UserRepository interface {
	Create(user *entity.User) error
	GetByID(id uint) (*entity.User, error)
	GetByEmail(email string) (*entity.User, error)
	GetByUsername(username string) (*entity.User, error)
	Update(user *entity.User) error
	UpdateLanguages(userID uint, languages entity.StringArray) error
	UpdatePassword(userID uint, newPassword string) error

	// RecordWin атомарно начисляет выигрыш: xp += xpGained, wins += 1,
	// streak += 1, games_played += 1, пересчёт уровня, отметка last_played
	// и идемпотентное добавление challengeID в набор пройденных.
	// Возвращает обновлённого игрока.
	RecordWin(userID uint, xpGained int64, challengeID uint, playedAt time.Time) (*entity.User, error)

	// RecordLoss атомарно фиксирует проигрыш: streak = 0, losses += 1,
	// games_played += 1, отметка last_played. Возвращает обновлённого игрока.
	RecordLoss(userID uint, playedAt time.Time) (*entity.User, error)

	// ClearLastPlayed сбрасывает отметку последней игры (админская операция)
	ClearLastPlayed(userID uint) error

	SetPasswordResetToken(userID uint, tokenHash string, expires time.Time) error
	GetByResetToken(tokenHash string) (*entity.User, error)
}
