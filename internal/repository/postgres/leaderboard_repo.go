package postgres

import (
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/yourusername/orion-api/internal/domain/entity"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

// LeaderboardRepo реализует repository.LeaderboardRepository
type LeaderboardRepo struct {
	db *gorm.DB
}

// NewLeaderboardRepo создает новый репозиторий лидерборда
func NewLeaderboardRepo(db *gorm.DB) *LeaderboardRepo {
	return &LeaderboardRepo{db: db}
}

// Upsert вставляет или перезаписывает запись игрока (ключ — user_id)
func (r *LeaderboardRepo) Upsert(entry *entity.LeaderboardEntry) error {
	return r.db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"username", "xp", "level", "wins", "streak",
			"losses", "games_played", "last_updated",
		}),
	}).Create(entry).Error
}

// GetTop возвращает первые limit записей в порядке ранжирования
func (r *LeaderboardRepo) GetTop(limit int) ([]entity.LeaderboardEntry, error) {
	var entries []entity.LeaderboardEntry
	err := r.db.
		Order("xp DESC, wins DESC, streak DESC, user_id ASC").
		Limit(limit).
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// GetByUserID возвращает запись лидерборда игрока
func (r *LeaderboardRepo) GetByUserID(userID uint) (*entity.LeaderboardEntry, error) {
	var entry entity.LeaderboardEntry
	err := r.db.Where("user_id = ?", userID).First(&entry).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &entry, nil
}

// CountBetter возвращает количество записей строго лучше данной.
// Порядок тот же, что в GetTop, поэтому ранги обоих путей согласованы.
func (r *LeaderboardRepo) CountBetter(entry *entity.LeaderboardEntry) (int64, error) {
	var count int64
	err := r.db.Model(&entity.LeaderboardEntry{}).
		Where(`xp > ?
			OR (xp = ? AND wins > ?)
			OR (xp = ? AND wins = ? AND streak > ?)`,
			entry.XP,
			entry.XP, entry.Wins,
			entry.XP, entry.Wins, entry.Streak,
		).
		Count(&count).Error
	return count, err
}
