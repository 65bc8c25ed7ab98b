package gamemanager

import (
	"context"
	"errors"
	"fmt"
	"log"
	"math/rand"
	"time"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

// ChallengeSelector подбирает игроку челлендж по его XP
type ChallengeSelector struct {
	config *Config
	deps   *Dependencies
	now    func() time.Time
	randFn func(n int) int
}

// NewChallengeSelector создаёт новый селектор
func NewChallengeSelector(config *Config, deps *Dependencies) *ChallengeSelector {
	return &ChallengeSelector{
		config: config,
		deps:   deps,
		now:    time.Now,
		randFn: rand.Intn,
	}
}

// SelectChallenge выбирает челлендж для игрока.
//
// Порядок:
//  1. Дневной гейт: один челлендж в календарный день, админ не ограничен.
//  2. Выборка из каталога: активные, язык из предпочтений игрока, сложность
//     по XP-порогу, с учётом исключённых типов и (при requireUnique) уже
//     пройденных челленджей.
//  3. Если пусто — генерация ровно одного нового челленджа на случайном
//     предпочитаемом языке и случайном типе; при сбое генерации — fallback
//     на любой активный челлендж, проходящий только фильтры исключения.
//  4. Если и после этого пусто — ErrNoEligibleChallenge.
//
// При нескольких кандидатах выбор равновероятный.
func (s *ChallengeSelector) SelectChallenge(
	ctx context.Context,
	player *entity.User,
	excludeTypes []string,
	requireUnique bool,
) (*entity.Challenge, error) {
	if player.HasPlayedToday(s.now()) && !player.IsAdmin {
		return nil, apperrors.ErrAlreadyPlayedToday
	}

	targetDifficulty := s.config.TargetDifficulty(player.XP)
	log.Printf("[Selector] User ID=%d XP=%d: target difficulty=%d (%s)",
		player.ID, player.XP, targetDifficulty, entity.DifficultyBand(targetDifficulty))

	var excludeIDs []uint
	if requireUnique {
		excludeIDs = player.CompletedChallenges
	}

	challenges, err := s.deps.ChallengeRepo.FindActive(repository.ChallengeFilter{
		Languages:    player.Languages,
		Difficulty:   targetDifficulty,
		ExcludeTypes: excludeTypes,
		ExcludeIDs:   excludeIDs,
		Now:          s.now(),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query challenge catalog: %w", err)
	}

	if len(challenges) == 0 {
		// В каталоге пусто — синтезируем один новый челлендж
		generated, genErr := s.generateOne(ctx, player, targetDifficulty)
		if genErr == nil {
			return generated, nil
		}
		log.Printf("[Selector] Генерация не удалась (%v), fallback на любой активный челлендж", genErr)

		// Fallback: любой активный челлендж, только фильтры исключения
		challenges, err = s.deps.ChallengeRepo.FindActive(repository.ChallengeFilter{
			ExcludeTypes: excludeTypes,
			ExcludeIDs:   excludeIDs,
			Now:          s.now(),
		})
		if err != nil {
			return nil, fmt.Errorf("failed to query fallback challenges: %w", err)
		}
	}

	if len(challenges) == 0 {
		return nil, apperrors.ErrNoEligibleChallenge
	}

	selected := challenges[s.randFn(len(challenges))]
	log.Printf("[Selector] Selected challenge ID=%d (%s, %s, difficulty=%d)",
		selected.ID, selected.Language, selected.Type, selected.Difficulty)
	return &selected, nil
}

// generateOne вызывает внешний генератор со случайным предпочитаемым языком
// и случайным типом челленджа. Сбой генерации поглощается вызывающей стороной.
func (s *ChallengeSelector) generateOne(ctx context.Context, player *entity.User, difficulty int) (*entity.Challenge, error) {
	if s.deps.Generator == nil {
		return nil, apperrors.ErrGenerationFailed
	}
	if len(player.Languages) == 0 {
		return nil, fmt.Errorf("%w: player has no preferred languages", apperrors.ErrGenerationFailed)
	}

	language := player.Languages[s.randFn(len(player.Languages))]
	challengeType := entity.ChallengeTypes[s.randFn(len(entity.ChallengeTypes))]

	log.Printf("[Selector] Каталог пуст, генерируем челлендж: language=%s type=%s difficulty=%d",
		language, challengeType, difficulty)

	genCtx, cancel := context.WithTimeout(ctx, s.config.GenerationTimeout)
	defer cancel()

	challenge, err := s.deps.Generator.Generate(genCtx, language, difficulty, challengeType)
	if err != nil {
		if errors.Is(err, apperrors.ErrGenerationFailed) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrGenerationFailed, err)
	}
	return challenge, nil
}
