package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
	"github.com/yourusername/orion-api/internal/service/gamemanager"
)

// submitLockTTL ограничивает жизнь блокировки отправки на игрока.
// Защищает от гонки двойного клика поверх атомарных инкрементов в базе.
const submitLockTTL = 10 * time.Second

// EventBroadcaster рассылает событие всем подключенным клиентам
type EventBroadcaster interface {
	BroadcastEvent(eventType string, data interface{}) error
}

// DailyChallenge — санитизированное представление челленджа для клиента.
// Правильный ответ, подсказки и разбор не выдаются до завершения игры.
type DailyChallenge struct {
	ID                uint   `json:"id"`
	Title             string `json:"title"`
	Prompt            string `json:"prompt"`
	CodeSnippet       string `json:"code_snippet"`
	Difficulty        string `json:"difficulty"` // Имя уровня: easy..legendary
	Language          string `json:"language"`
	Type              string `json:"type"`
	AttemptsRemaining int    `json:"attempts_remaining"`
}

// SubmitResult — результат оценённой попытки вместе с рангом игрока
type SubmitResult struct {
	*gamemanager.AttemptResult
	Rank int64 `json:"rank,omitempty"`
}

// DailyStatus — состояние дневной сессии игрока
type DailyStatus struct {
	Completed bool  `json:"completed"`
	Streak    int64 `json:"streak"`
}

// GameService — фасад игрового ядра: выдача дневного челленджа,
// оценка ответов и сопутствующее обновление лидерборда
type GameService struct {
	userRepo      repository.UserRepository
	challengeRepo repository.ChallengeRepository
	cacheRepo     repository.CacheRepository
	leaderboard   *LeaderboardService
	selector      *gamemanager.ChallengeSelector
	evaluator     *gamemanager.AttemptEvaluator
	wsManager     EventBroadcaster
	config        *gamemanager.Config
	now           func() time.Time
}

// NewGameService создает новый игровой сервис
func NewGameService(
	userRepo repository.UserRepository,
	challengeRepo repository.ChallengeRepository,
	cacheRepo repository.CacheRepository,
	leaderboard *LeaderboardService,
	selector *gamemanager.ChallengeSelector,
	evaluator *gamemanager.AttemptEvaluator,
	wsManager EventBroadcaster,
	config *gamemanager.Config,
) *GameService {
	return &GameService{
		userRepo:      userRepo,
		challengeRepo: challengeRepo,
		cacheRepo:     cacheRepo,
		leaderboard:   leaderboard,
		selector:      selector,
		evaluator:     evaluator,
		wsManager:     wsManager,
		config:        config,
		now:           time.Now,
	}
}

// GetDailyChallenge выдает игроку дневной челлендж
func (s *GameService) GetDailyChallenge(
	ctx context.Context,
	userID uint,
	excludeTypes []string,
	requireUnique bool,
) (*DailyChallenge, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	challenge, err := s.selector.SelectChallenge(ctx, user, excludeTypes, requireUnique)
	if err != nil {
		return nil, err
	}

	return &DailyChallenge{
		ID:                challenge.ID,
		Title:             challenge.Title,
		Prompt:            challenge.Prompt,
		CodeSnippet:       challenge.CodeSnippet,
		Difficulty:        entity.DifficultyBand(challenge.Difficulty),
		Language:          challenge.Language,
		Type:              challenge.Type,
		AttemptsRemaining: s.config.MaxAttempts,
	}, nil
}

// SubmitAnswer оценивает ответ игрока на челлендж.
// Параллельные отправки одного игрока отсекаются блокировкой в Redis.
func (s *GameService) SubmitAnswer(
	ctx context.Context,
	userID uint,
	challengeID uint,
	answer string,
	attemptNumber int,
) (*SubmitResult, error) {
	if s.cacheRepo != nil {
		lockKey := fmt.Sprintf("lock:submit:%d", userID)
		acquired, err := s.cacheRepo.SetNX(lockKey, 1, submitLockTTL)
		if err != nil {
			log.Printf("[GameService] Ошибка блокировки отправки для user=%d: %v", userID, err)
		} else if !acquired {
			return nil, apperrors.ErrSubmissionInProgress
		} else {
			defer func() {
				if err := s.cacheRepo.Delete(lockKey); err != nil {
					log.Printf("[GameService] Ошибка снятия блокировки %s: %v", lockKey, err)
				}
			}()
		}
	}

	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}

	result, err := s.evaluator.SubmitAttempt(ctx, user, challengeID, answer, attemptNumber)
	if err != nil {
		return nil, err
	}

	submit := &SubmitResult{AttemptResult: result}

	// Состояние менялось — лидерборд уже обновлён, осталось сбросить кеш,
	// узнать ранг и уведомить подписчиков
	if result.Player != nil {
		s.leaderboard.InvalidateTopCache()

		rank, rankErr := s.leaderboard.RankOf(userID)
		if rankErr != nil {
			log.Printf("[GameService] Не удалось вычислить ранг user=%d: %v", userID, rankErr)
		} else {
			submit.Rank = rank
		}

		if s.wsManager != nil {
			if err := s.wsManager.BroadcastEvent("leaderboard_updated", map[string]interface{}{
				"user_id":  result.Player.ID,
				"username": result.Player.Username,
				"xp":       result.Player.XP,
				"level":    result.Player.Level,
			}); err != nil {
				log.Printf("[GameService] Ошибка broadcast leaderboard_updated: %v", err)
			}
		}
	}

	return submit, nil
}

// GetDailyStatus сообщает, сыграна ли сегодняшняя сессия
func (s *GameService) GetDailyStatus(userID uint) (*DailyStatus, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	return &DailyStatus{
		Completed: user.HasPlayedToday(s.now()),
		Streak:    user.Streak,
	}, nil
}

// ResetPlayerGameState сбрасывает отметку последней игры игрока (админ)
func (s *GameService) ResetPlayerGameState(playerID uint) (*entity.User, error) {
	player, err := s.userRepo.GetByID(playerID)
	if err != nil {
		return nil, err
	}

	if err := s.userRepo.ClearLastPlayed(playerID); err != nil {
		return nil, err
	}

	log.Printf("[GameService] Сброшен last_played для игрока %s (id=%d)", player.Username, playerID)
	player.ClearGameState()
	return player, nil
}

// GetRecentChallenges возвращает последние созданные челленджи (админ)
func (s *GameService) GetRecentChallenges(limit int) ([]entity.Challenge, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.challengeRepo.ListRecent(limit)
}
