package service

import (
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

// topCacheKey — ключ кеша топа лидерборда в Redis
const topCacheKey = "leaderboard:top"

// topCacheTTL ограничивает устаревание кеша между инвалидациями
const topCacheTTL = 30 * time.Second

// LeaderboardService отвечает на запросы ранжирования игроков
type LeaderboardService struct {
	leaderboardRepo repository.LeaderboardRepository
	cacheRepo       repository.CacheRepository
}

// NewLeaderboardService создает новый сервис лидерборда
func NewLeaderboardService(
	leaderboardRepo repository.LeaderboardRepository,
	cacheRepo repository.CacheRepository,
) *LeaderboardService {
	return &LeaderboardService{
		leaderboardRepo: leaderboardRepo,
		cacheRepo:       cacheRepo,
	}
}

// GetTop возвращает первые limit записей с проставленными рангами.
// Результат кешируется в Redis; кеш сбрасывается после каждой оценённой
// отправки ответа.
func (s *LeaderboardService) GetTop(limit int) ([]entity.LeaderboardEntry, error) {
	if limit <= 0 {
		limit = 100
	}

	cacheKey := fmt.Sprintf("%s:%d", topCacheKey, limit)
	if s.cacheRepo != nil {
		var cached []entity.LeaderboardEntry
		if err := s.cacheRepo.GetJSON(cacheKey, &cached); err == nil {
			return cached, nil
		} else if !errors.Is(err, apperrors.ErrNotFound) {
			log.Printf("[LeaderboardService] Ошибка чтения кеша топа: %v", err)
		}
	}

	entries, err := s.leaderboardRepo.GetTop(limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load leaderboard top: %w", err)
	}

	// Ранг — 1-based позиция в отсортированном порядке; точные совпадения
	// по всем трём полям получают различные последовательные ранги
	for i := range entries {
		entries[i].Rank = int64(i + 1)
	}

	if s.cacheRepo != nil {
		if err := s.cacheRepo.SetJSON(cacheKey, entries, topCacheTTL); err != nil {
			log.Printf("[LeaderboardService] Ошибка записи кеша топа: %v", err)
		}
	}
	return entries, nil
}

// RankOf возвращает ранг игрока: 1 + число записей строго лучше.
// Согласован с порядком GetTop для любого игрока из топа.
// Для игрока без записи возвращает ErrNotFound.
func (s *LeaderboardService) RankOf(userID uint) (int64, error) {
	entry, err := s.leaderboardRepo.GetByUserID(userID)
	if err != nil {
		return 0, err
	}

	better, err := s.leaderboardRepo.CountBetter(entry)
	if err != nil {
		return 0, fmt.Errorf("failed to count better entries: %w", err)
	}
	return better + 1, nil
}

// EntryOf возвращает запись игрока с вычисленным рангом
func (s *LeaderboardService) EntryOf(userID uint) (*entity.LeaderboardEntry, error) {
	entry, err := s.leaderboardRepo.GetByUserID(userID)
	if err != nil {
		return nil, err
	}
	better, err := s.leaderboardRepo.CountBetter(entry)
	if err != nil {
		return nil, fmt.Errorf("failed to count better entries: %w", err)
	}
	entry.Rank = better + 1
	return entry, nil
}

// InvalidateTopCache сбрасывает кешированный топ после обновления записи
func (s *LeaderboardService) InvalidateTopCache() {
	if s.cacheRepo == nil {
		return
	}
	// Кеш ведётся для стандартного размера страницы
	for _, limit := range []int{10, 100} {
		key := fmt.Sprintf("%s:%d", topCacheKey, limit)
		if err := s.cacheRepo.Delete(key); err != nil {
			log.Printf("[LeaderboardService] Ошибка инвалидации кеша %s: %v", key, err)
		}
	}
}
