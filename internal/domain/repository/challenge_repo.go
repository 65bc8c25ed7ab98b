package repository

import (
	"time"

	"github.com/yourusername/orion-api/internal/domain/entity"
)

// ChallengeFilter описывает параметры выборки челленджей из каталога.
// Нулевые значения означают отсутствие ограничения.
type ChallengeFilter struct {
	// Languages — допустимые языки (пусто = любой)
	Languages []string
	// Difficulty — точный уровень сложности (0 = любой)
	Difficulty int
	// ExcludeTypes — исключаемые типы челленджей
	ExcludeTypes []string
	// ExcludeIDs — исключаемые ID (уже пройденные игроком)
	ExcludeIDs []uint
	// Now — момент времени для проверки expires_at
	Now time.Time
}

// ChallengeRepository определяет методы для работы с каталогом челленджей
type ChallengeRepository interface {
	Create(challenge *entity.Challenge) error
	GetByID(id uint) (*entity.Challenge, error)

	// FindActive возвращает активные неистёкшие челленджи по фильтру
	FindActive(filter ChallengeFilter) ([]entity.Challenge, error)

	// ListRecent возвращает последние созданные челленджи (для админки)
	ListRecent(limit int) ([]entity.Challenge, error)

	CountByDifficulty(difficulty int) (int64, error)

	// IncrementCompleted/IncrementFailed ведут счётчики для очистки каталога
	IncrementCompleted(id uint) error
	IncrementFailed(id uint) error

	// DeactivateExpired снимает флаг active у челленджей с истёкшим expires_at
	DeactivateExpired(now time.Time) (int64, error)

	// DeleteOlderThan удаляет челленджи старше cutoff (окно хранения каталога)
	DeleteOlderThan(cutoff time.Time) (int64, error)

	// DeleteResolvedBefore удаляет челленджи, созданные до cutoff, которые
	// уже были кем-то пройдены или провалены (льготный период после решения)
	DeleteResolvedBefore(cutoff time.Time) (int64, error)
}
