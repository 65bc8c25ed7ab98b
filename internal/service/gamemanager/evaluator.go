package gamemanager

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/yourusername/orion-api/internal/domain/entity"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

// AttemptResult описывает исход оценённой попытки
type AttemptResult struct {
	Correct           bool   `json:"correct"`
	XPGained          int64  `json:"xp_gained,omitempty"`
	NewXPTotal        int64  `json:"new_xp_total,omitempty"`
	NewLevel          int    `json:"new_level,omitempty"`
	Wins              int64  `json:"wins,omitempty"`
	Streak            int64  `json:"streak,omitempty"`
	Losses            int64  `json:"losses,omitempty"`
	GamesPlayed       int64  `json:"games_played,omitempty"`
	AttemptsRemaining int    `json:"attempts_remaining"`
	GameOver          bool   `json:"game_over,omitempty"`
	Hint              string `json:"hint,omitempty"`
	Explanation       string `json:"explanation,omitempty"`

	// Player — снимок игрока после мутации (nil, если состояние не менялось)
	Player *entity.User `json:"-"`
}

// AttemptEvaluator оценивает отправленный ответ и обновляет прогресс игрока
type AttemptEvaluator struct {
	config *Config
	deps   *Dependencies
	now    func() time.Time
}

// NewAttemptEvaluator создаёт новый оценщик попыток
func NewAttemptEvaluator(config *Config, deps *Dependencies) *AttemptEvaluator {
	return &AttemptEvaluator{
		config: config,
		deps:   deps,
		now:    time.Now,
	}
}

// SubmitAttempt оценивает ответ игрока на челлендж.
//
// Правильный ответ: начисляется XP с затуханием по номеру попытки,
// инкрементируются wins/streak/games_played, челлендж попадает в набор
// пройденных, запись лидерборда синхронно обновляется.
//
// Неправильный ответ до исчерпания попыток ничего не мутирует и возвращает
// подсказку. Неправильный ответ на последней попытке обнуляет серию,
// фиксирует проигрыш и также обновляет лидерборд.
func (e *AttemptEvaluator) SubmitAttempt(
	ctx context.Context,
	player *entity.User,
	challengeID uint,
	answer string,
	attemptNumber int,
) (*AttemptResult, error) {
	// Номер попытки проверяется до любых чтений и записей
	if attemptNumber < 1 || attemptNumber > e.config.MaxAttempts {
		return nil, fmt.Errorf("%w: attempt %d is outside 1..%d",
			apperrors.ErrInvalidAttempt, attemptNumber, e.config.MaxAttempts)
	}

	challenge, err := e.deps.ChallengeRepo.GetByID(challengeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.ErrChallengeNotFound
		}
		return nil, fmt.Errorf("failed to load challenge %d: %w", challengeID, err)
	}

	correct, err := e.deps.Verifier.Verify(ctx, challenge.CorrectAnswer, answer, challenge.Language)
	if err != nil {
		// Сбой оракула: состояние не менялось, запрос можно повторить
		return nil, fmt.Errorf("%w: %v", apperrors.ErrVerification, err)
	}

	if correct {
		return e.recordWin(player, challenge, attemptNumber)
	}

	if attemptNumber < e.config.MaxAttempts {
		// Попытки ещё есть — только подсказка, без мутаций
		return &AttemptResult{
			Correct:           false,
			AttemptsRemaining: e.config.MaxAttempts - attemptNumber,
			Hint:              challenge.HintForAttempt(attemptNumber),
		}, nil
	}

	return e.recordLoss(player, challenge, attemptNumber)
}

func (e *AttemptEvaluator) recordWin(player *entity.User, challenge *entity.Challenge, attemptNumber int) (*AttemptResult, error) {
	xpGained := e.config.XPGained(challenge.XPReward, attemptNumber)

	updated, err := e.deps.UserRepo.RecordWin(player.ID, xpGained, challenge.ID, e.now())
	if err != nil {
		return nil, fmt.Errorf("failed to record win for user %d: %w", player.ID, err)
	}

	// Счётчик решивших челлендж ведётся для очистки каталога; его сбой не
	// должен ронять оценённую попытку
	if err := e.deps.ChallengeRepo.IncrementCompleted(challenge.ID); err != nil {
		log.Printf("[Evaluator] Ошибка инкремента completed_by для challenge=%d: %v", challenge.ID, err)
	}

	if err := e.upsertLeaderboard(updated); err != nil {
		return nil, err
	}

	log.Printf("[Evaluator] User ID=%d решил challenge=%d с попытки %d: +%d XP (итого %d, уровень %d)",
		updated.ID, challenge.ID, attemptNumber, xpGained, updated.XP, updated.Level)

	return &AttemptResult{
		Correct:     true,
		XPGained:    xpGained,
		NewXPTotal:  updated.XP,
		NewLevel:    updated.Level,
		Wins:        updated.Wins,
		Streak:      updated.Streak,
		Losses:      updated.Losses,
		GamesPlayed: updated.GamesPlayed,
		Explanation: challenge.Explanation,
		Player:      updated,
	}, nil
}

func (e *AttemptEvaluator) recordLoss(player *entity.User, challenge *entity.Challenge, attemptNumber int) (*AttemptResult, error) {
	updated, err := e.deps.UserRepo.RecordLoss(player.ID, e.now())
	if err != nil {
		return nil, fmt.Errorf("failed to record loss for user %d: %w", player.ID, err)
	}

	if err := e.deps.ChallengeRepo.IncrementFailed(challenge.ID); err != nil {
		log.Printf("[Evaluator] Ошибка инкремента failed_by для challenge=%d: %v", challenge.ID, err)
	}

	if err := e.upsertLeaderboard(updated); err != nil {
		return nil, err
	}

	log.Printf("[Evaluator] User ID=%d исчерпал попытки на challenge=%d: серия сброшена, losses=%d",
		updated.ID, challenge.ID, updated.Losses)

	return &AttemptResult{
		Correct:           false,
		AttemptsRemaining: 0,
		GameOver:          true,
		Hint:              challenge.HintForAttempt(attemptNumber),
		Explanation:       challenge.Explanation,
		Streak:            updated.Streak,
		Losses:            updated.Losses,
		GamesPlayed:       updated.GamesPlayed,
		Player:            updated,
	}, nil
}

// upsertLeaderboard синхронно обновляет запись лидерборда из снимка игрока.
// Ошибка персистентности поднимается наверх, молчаливых потерь нет.
func (e *AttemptEvaluator) upsertLeaderboard(player *entity.User) error {
	entry := entity.SnapshotFromUser(player, e.now())
	if err := e.deps.LeaderboardRepo.Upsert(entry); err != nil {
		return fmt.Errorf("failed to upsert leaderboard entry for user %d: %w", player.ID, err)
	}
	return nil
}
