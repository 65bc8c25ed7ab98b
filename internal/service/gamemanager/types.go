package gamemanager

import (
	"context"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
)

// ChallengeGenerator — внешний коллаборатор, синтезирующий челлендж.
// Возвращает полностью заполненный и уже сохранённый челлендж либо ошибку;
// частичного сохранения при ошибке не бывает.
type ChallengeGenerator interface {
	Generate(ctx context.Context, language string, difficulty int, challengeType string) (*entity.Challenge, error)
}

// AnswerVerifier — оракул проверки ответа. Семантика проверки зависит от
// языка челленджа и для ядра является чёрным ящиком.
type AnswerVerifier interface {
	Verify(ctx context.Context, correctAnswer, submittedAnswer, language string) (bool, error)
}

// Dependencies объединяет зависимости компонентов игрового ядра
type Dependencies struct {
	UserRepo        repository.UserRepository
	ChallengeRepo   repository.ChallengeRepository
	LeaderboardRepo repository.LeaderboardRepository
	Generator       ChallengeGenerator
	Verifier        AnswerVerifier
}
