package postgres

import (
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

// ChallengeRepo реализует repository.ChallengeRepository
type ChallengeRepo struct {
	db *gorm.DB
}

// NewChallengeRepo создает новый репозиторий каталога челленджей
func NewChallengeRepo(db *gorm.DB) *ChallengeRepo {
	return &ChallengeRepo{db: db}
}

// Create создает новый челлендж
func (r *ChallengeRepo) Create(challenge *entity.Challenge) error {
	return r.db.Create(challenge).Error
}

// GetByID возвращает челлендж по ID
func (r *ChallengeRepo) GetByID(id uint) (*entity.Challenge, error) {
	var challenge entity.Challenge
	err := r.db.First(&challenge, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}
	return &challenge, nil
}

// FindActive возвращает активные неистёкшие челленджи по фильтру
func (r *ChallengeRepo) FindActive(filter repository.ChallengeFilter) ([]entity.Challenge, error) {
	now := filter.Now
	if now.IsZero() {
		now = time.Now()
	}

	query := r.db.Where("active = ? AND expires_at > ?", true, now)

	if len(filter.Languages) > 0 {
		query = query.Where("language IN ?", filter.Languages)
	}
	if filter.Difficulty > 0 {
		query = query.Where("difficulty = ?", filter.Difficulty)
	}
	if len(filter.ExcludeTypes) > 0 {
		query = query.Where("type NOT IN ?", filter.ExcludeTypes)
	}
	if len(filter.ExcludeIDs) > 0 {
		query = query.Where("id NOT IN ?", filter.ExcludeIDs)
	}

	var challenges []entity.Challenge
	if err := query.Find(&challenges).Error; err != nil {
		return nil, err
	}
	return challenges, nil
}

// ListRecent возвращает последние созданные челленджи
func (r *ChallengeRepo) ListRecent(limit int) ([]entity.Challenge, error) {
	var challenges []entity.Challenge
	err := r.db.Order("created_at DESC").Limit(limit).Find(&challenges).Error
	if err != nil {
		return nil, err
	}
	return challenges, nil
}

// CountByDifficulty возвращает количество активных челленджей уровня
func (r *ChallengeRepo) CountByDifficulty(difficulty int) (int64, error) {
	var count int64
	err := r.db.Model(&entity.Challenge{}).
		Where("active = ? AND difficulty = ?", true, difficulty).
		Count(&count).Error
	return count, err
}

// IncrementCompleted увеличивает счётчик прошедших челлендж
func (r *ChallengeRepo) IncrementCompleted(id uint) error {
	return r.db.Model(&entity.Challenge{}).Where("id = ?", id).
		UpdateColumn("completed_by", gorm.Expr("completed_by + 1")).Error
}

// IncrementFailed увеличивает счётчик проваливших челлендж
func (r *ChallengeRepo) IncrementFailed(id uint) error {
	return r.db.Model(&entity.Challenge{}).Where("id = ?", id).
		UpdateColumn("failed_by", gorm.Expr("failed_by + 1")).Error
}

// DeactivateExpired снимает флаг active с челленджей, чей срок истёк
func (r *ChallengeRepo) DeactivateExpired(now time.Time) (int64, error) {
	result := r.db.Model(&entity.Challenge{}).
		Where("active = ? AND expires_at < ?", true, now).
		Update("active", false)
	return result.RowsAffected, result.Error
}

// DeleteOlderThan удаляет челленджи старше cutoff
func (r *ChallengeRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	result := r.db.Where("created_at < ?", cutoff).Delete(&entity.Challenge{})
	return result.RowsAffected, result.Error
}

// DeleteResolvedBefore удаляет решённые челленджи, созданные до cutoff
func (r *ChallengeRepo) DeleteResolvedBefore(cutoff time.Time) (int64, error) {
	result := r.db.
		Where("created_at < ? AND (completed_by > 0 OR failed_by > 0)", cutoff).
		Delete(&entity.Challenge{})
	return result.RowsAffected, result.Error
}
