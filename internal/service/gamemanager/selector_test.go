package gamemanager

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

// fixedNow — детерминированный момент времени для тестов селектора
var fixedNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.Local)

func newTestSelector(challengeRepo *MockChallengeRepo, generator *MockGenerator) *ChallengeSelector {
	deps := &Dependencies{
		ChallengeRepo: challengeRepo,
	}
	if generator != nil {
		deps.Generator = generator
	}
	selector := NewChallengeSelector(DefaultConfig(), deps)
	selector.now = func() time.Time { return fixedNow }
	selector.randFn = func(n int) int { return 0 }
	return selector
}

func testPlayer() *entity.User {
	return &entity.User{
		ID:        42,
		Username:  "player",
		Languages: entity.StringArray{"javascript"},
		XP:        250,
	}
}

func TestSelectChallenge_AlreadyPlayedToday(t *testing.T) {
	// Arrange
	mockChallengeRepo := new(MockChallengeRepo)
	selector := newTestSelector(mockChallengeRepo, nil)

	player := testPlayer()
	playedAt := fixedNow.Add(-2 * time.Hour)
	player.LastPlayed = &playedAt

	// Act
	challenge, err := selector.SelectChallenge(context.Background(), player, nil, false)

	// Assert: дневной гейт срабатывает до обращения к каталогу
	assert.Nil(t, challenge)
	assert.ErrorIs(t, err, apperrors.ErrAlreadyPlayedToday)
	mockChallengeRepo.AssertNotCalled(t, "FindActive", mock.Anything)
}

func TestSelectChallenge_AdminBypassesDailyGate(t *testing.T) {
	// Arrange
	mockChallengeRepo := new(MockChallengeRepo)
	selector := newTestSelector(mockChallengeRepo, nil)

	player := testPlayer()
	player.IsAdmin = true
	playedAt := fixedNow.Add(-2 * time.Hour)
	player.LastPlayed = &playedAt

	catalog := []entity.Challenge{{ID: 7, Language: "javascript", Type: "fix_bug", Difficulty: 3}}
	mockChallengeRepo.On("FindActive", mock.Anything).Return(catalog, nil)

	// Act
	challenge, err := selector.SelectChallenge(context.Background(), player, nil, false)

	// Assert: админ играет без ограничения
	require.NoError(t, err)
	require.NotNil(t, challenge)
	assert.Equal(t, uint(7), challenge.ID)
}

func TestSelectChallenge_FilterMatchesPlayerProfile(t *testing.T) {
	// Arrange
	mockChallengeRepo := new(MockChallengeRepo)
	selector := newTestSelector(mockChallengeRepo, nil)

	player := testPlayer() // XP=250 → сложность 3
	player.CompletedChallenges = entity.UintArray{11, 12}

	catalog := []entity.Challenge{{ID: 5, Language: "javascript", Difficulty: 3}}
	mockChallengeRepo.On("FindActive", mock.MatchedBy(func(f repository.ChallengeFilter) bool {
		return len(f.Languages) == 1 && f.Languages[0] == "javascript" &&
			f.Difficulty == 3 &&
			len(f.ExcludeTypes) == 1 && f.ExcludeTypes[0] == "explain_output" &&
			len(f.ExcludeIDs) == 2
	})).Return(catalog, nil)

	// Act: requireUnique добавляет в фильтр пройденные челленджи
	challenge, err := selector.SelectChallenge(context.Background(), player, []string{"explain_output"}, true)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(5), challenge.ID)
	mockChallengeRepo.AssertExpectations(t)
}

func TestSelectChallenge_NoUniqueFilterWithoutFlag(t *testing.T) {
	// Arrange
	mockChallengeRepo := new(MockChallengeRepo)
	selector := newTestSelector(mockChallengeRepo, nil)

	player := testPlayer()
	player.CompletedChallenges = entity.UintArray{11, 12}

	catalog := []entity.Challenge{{ID: 11, Language: "javascript", Difficulty: 3}}
	mockChallengeRepo.On("FindActive", mock.MatchedBy(func(f repository.ChallengeFilter) bool {
		return len(f.ExcludeIDs) == 0
	})).Return(catalog, nil)

	// Act: без requireUnique пройденные челленджи не исключаются
	challenge, err := selector.SelectChallenge(context.Background(), player, nil, false)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, uint(11), challenge.ID)
}

func TestSelectChallenge_GeneratesWhenCatalogEmpty(t *testing.T) {
	// Arrange
	mockChallengeRepo := new(MockChallengeRepo)
	mockGenerator := new(MockGenerator)
	selector := newTestSelector(mockChallengeRepo, mockGenerator)

	player := testPlayer()

	mockChallengeRepo.On("FindActive", mock.Anything).Return([]entity.Challenge{}, nil).Once()

	generated := &entity.Challenge{ID: 99, Language: "javascript", Type: "fix_bug", Difficulty: 3}
	mockGenerator.On("Generate", mock.Anything, "javascript", 3, "fix_bug").Return(generated, nil)

	// Act
	challenge, err := selector.SelectChallenge(context.Background(), player, nil, false)

	// Assert: синтезирован ровно один новый челлендж
	require.NoError(t, err)
	assert.Equal(t, uint(99), challenge.ID)
	mockGenerator.AssertExpectations(t)
	mockChallengeRepo.AssertNumberOfCalls(t, "FindActive", 1)
}

func TestSelectChallenge_GenerationFailureFallsBack(t *testing.T) {
	// Arrange
	mockChallengeRepo := new(MockChallengeRepo)
	mockGenerator := new(MockGenerator)
	selector := newTestSelector(mockChallengeRepo, mockGenerator)

	player := testPlayer()

	// Первая выборка по профилю пуста
	mockChallengeRepo.On("FindActive", mock.MatchedBy(func(f repository.ChallengeFilter) bool {
		return f.Difficulty == 3
	})).Return([]entity.Challenge{}, nil).Once()

	mockGenerator.On("Generate", mock.Anything, "javascript", 3, "fix_bug").
		Return(nil, errors.New("api quota exceeded"))

	// Fallback-выборка без фильтров языка и сложности
	fallback := []entity.Challenge{{ID: 3, Language: "python", Difficulty: 8}}
	mockChallengeRepo.On("FindActive", mock.MatchedBy(func(f repository.ChallengeFilter) bool {
		return f.Difficulty == 0 && len(f.Languages) == 0
	})).Return(fallback, nil).Once()

	// Act
	challenge, err := selector.SelectChallenge(context.Background(), player, nil, false)

	// Assert: сбой генерации поглощается, игрок получает челлендж
	require.NoError(t, err)
	assert.Equal(t, uint(3), challenge.ID)
	mockChallengeRepo.AssertExpectations(t)
}

func TestSelectChallenge_NoEligibleChallenge(t *testing.T) {
	// Arrange: каталог пуст, генератора нет, fallback тоже пуст
	mockChallengeRepo := new(MockChallengeRepo)
	selector := newTestSelector(mockChallengeRepo, nil)

	player := testPlayer()
	mockChallengeRepo.On("FindActive", mock.Anything).Return([]entity.Challenge{}, nil)

	// Act
	challenge, err := selector.SelectChallenge(context.Background(), player, nil, false)

	// Assert
	assert.Nil(t, challenge)
	assert.ErrorIs(t, err, apperrors.ErrNoEligibleChallenge)
}

func TestSelectChallenge_CatalogQueryError(t *testing.T) {
	// Arrange
	mockChallengeRepo := new(MockChallengeRepo)
	selector := newTestSelector(mockChallengeRepo, nil)

	player := testPlayer()
	mockChallengeRepo.On("FindActive", mock.Anything).Return(nil, errors.New("connection refused"))

	// Act
	challenge, err := selector.SelectChallenge(context.Background(), player, nil, false)

	// Assert: ошибка базы не маскируется под "нет челленджей"
	assert.Nil(t, challenge)
	require.Error(t, err)
	assert.NotErrorIs(t, err, apperrors.ErrNoEligibleChallenge)
}
