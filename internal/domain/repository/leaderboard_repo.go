package repository

import (
	"github.com/yourusername/orion-api/internal/domain/entity"
)

// LeaderboardRepository определяет методы ранжирования игроков.
// Порядок сортировки фиксирован: XP desc, wins desc, streak desc.
type LeaderboardRepository interface {
	// Upsert вставляет или полностью перезаписывает запись игрока (ключ — user_id)
	Upsert(entry *entity.LeaderboardEntry) error

	// GetTop возвращает первые limit записей в порядке ранжирования
	// (без проставленных рангов — ранги назначает сервис)
	GetTop(limit int) ([]entity.LeaderboardEntry, error)

	GetByUserID(userID uint) (*entity.LeaderboardEntry, error)

	// CountBetter возвращает количество записей строго лучше данной
	// в порядке ранжирования. Ранг игрока = CountBetter + 1.
	CountBetter(entry *entity.LeaderboardEntry) (int64, error)
}
