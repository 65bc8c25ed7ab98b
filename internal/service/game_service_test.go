package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
	"github.com/yourusername/orion-api/internal/service/gamemanager"
)

// MockUserRepoForGame реализует repository.UserRepository
type MockUserRepoForGame struct {
	mock.Mock
}

func (m *MockUserRepoForGame) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepoForGame) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForGame) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForGame) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForGame) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepoForGame) UpdateLanguages(userID uint, languages entity.StringArray) error {
	args := m.Called(userID, languages)
	return args.Error(0)
}

func (m *MockUserRepoForGame) UpdatePassword(userID uint, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

func (m *MockUserRepoForGame) RecordWin(userID uint, xpGained int64, challengeID uint, playedAt time.Time) (*entity.User, error) {
	args := m.Called(userID, xpGained, challengeID, playedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForGame) RecordLoss(userID uint, playedAt time.Time) (*entity.User, error) {
	args := m.Called(userID, playedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepoForGame) ClearLastPlayed(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepoForGame) SetPasswordResetToken(userID uint, tokenHash string, expires time.Time) error {
	args := m.Called(userID, tokenHash, expires)
	return args.Error(0)
}

func (m *MockUserRepoForGame) GetByResetToken(tokenHash string) (*entity.User, error) {
	args := m.Called(tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockChallengeRepoForGame реализует repository.ChallengeRepository
type MockChallengeRepoForGame struct {
	mock.Mock
}

func (m *MockChallengeRepoForGame) Create(challenge *entity.Challenge) error {
	args := m.Called(challenge)
	return args.Error(0)
}

func (m *MockChallengeRepoForGame) GetByID(id uint) (*entity.Challenge, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepoForGame) FindActive(filter repository.ChallengeFilter) ([]entity.Challenge, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepoForGame) ListRecent(limit int) ([]entity.Challenge, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepoForGame) CountByDifficulty(difficulty int) (int64, error) {
	args := m.Called(difficulty)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepoForGame) IncrementCompleted(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockChallengeRepoForGame) IncrementFailed(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockChallengeRepoForGame) DeactivateExpired(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepoForGame) DeleteOlderThan(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepoForGame) DeleteResolvedBefore(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

type gameServiceMocks struct {
	userRepo        *MockUserRepoForGame
	challengeRepo   *MockChallengeRepoForGame
	leaderboardRepo *MockLeaderboardRepoForService
	cacheRepo       *MockCacheRepoForService
	verifier        *CodeVerifier
}

func newTestGameService(withCache bool) (*GameService, *gameServiceMocks) {
	m := &gameServiceMocks{
		userRepo:        new(MockUserRepoForGame),
		challengeRepo:   new(MockChallengeRepoForGame),
		leaderboardRepo: new(MockLeaderboardRepoForService),
		cacheRepo:       new(MockCacheRepoForService),
		verifier:        NewCodeVerifier(),
	}

	config := gamemanager.DefaultConfig()
	deps := &gamemanager.Dependencies{
		UserRepo:        m.userRepo,
		ChallengeRepo:   m.challengeRepo,
		LeaderboardRepo: m.leaderboardRepo,
		Verifier:        m.verifier,
	}

	var cacheRepo repository.CacheRepository
	if withCache {
		cacheRepo = m.cacheRepo
	}

	svc := NewGameService(
		m.userRepo,
		m.challengeRepo,
		cacheRepo,
		NewLeaderboardService(m.leaderboardRepo, nil),
		gamemanager.NewChallengeSelector(config, deps),
		gamemanager.NewAttemptEvaluator(config, deps),
		nil,
		config,
	)
	return svc, m
}

func TestGameService_GetDailyChallenge_SanitizesPayload(t *testing.T) {
	// Arrange
	svc, m := newTestGameService(false)

	user := &entity.User{ID: 1, Username: "player", Languages: entity.StringArray{"javascript"}, XP: 0}
	m.userRepo.On("GetByID", uint(1)).Return(user, nil)

	catalog := []entity.Challenge{{
		ID: 5, Language: "javascript", Type: "fix_bug", Difficulty: 1,
		Title: "Test", Prompt: "Fix it", CodeSnippet: "code",
		CorrectAnswer: "secret", Hints: entity.StringArray{"hint"}, Explanation: "because",
	}}
	m.challengeRepo.On("FindActive", mock.Anything).Return(catalog, nil)

	// Act
	daily, err := svc.GetDailyChallenge(context.Background(), 1, nil, false)

	// Assert: ответ, подсказки и разбор не попадают в выдачу
	require.NoError(t, err)
	assert.Equal(t, uint(5), daily.ID)
	assert.Equal(t, "easy", daily.Difficulty)
	assert.Equal(t, 5, daily.AttemptsRemaining)
}

func TestGameService_SubmitAnswer_RejectsConcurrentSubmission(t *testing.T) {
	// Arrange: блокировка уже удерживается другой отправкой
	svc, m := newTestGameService(true)

	m.cacheRepo.On("SetNX", "lock:submit:1", mock.Anything, mock.Anything).Return(false, nil)

	// Act
	result, err := svc.SubmitAnswer(context.Background(), 1, 5, "answer", 1)

	// Assert: до оценки дело не доходит
	assert.Nil(t, result)
	assert.ErrorIs(t, err, apperrors.ErrSubmissionInProgress)
	m.userRepo.AssertNotCalled(t, "GetByID", mock.Anything)
}

func TestGameService_SubmitAnswer_ReleasesLock(t *testing.T) {
	// Arrange
	svc, m := newTestGameService(true)

	m.cacheRepo.On("SetNX", "lock:submit:1", mock.Anything, mock.Anything).Return(true, nil)
	m.cacheRepo.On("Delete", "lock:submit:1").Return(nil)

	user := &entity.User{ID: 1, Username: "player", Languages: entity.StringArray{"javascript"}}
	m.userRepo.On("GetByID", uint(1)).Return(user, nil)

	challenge := &entity.Challenge{
		ID: 5, Language: "javascript", CorrectAnswer: "answer",
		Hints: entity.StringArray{"hint"}, XPReward: 100,
	}
	m.challengeRepo.On("GetByID", uint(5)).Return(challenge, nil)

	// Act: неправильный ответ на первой попытке — без мутаций
	result, err := svc.SubmitAnswer(context.Background(), 1, 5, "wrong", 1)

	// Assert: блокировка снята после оценки
	require.NoError(t, err)
	assert.False(t, result.Correct)
	assert.Equal(t, 4, result.AttemptsRemaining)
	m.cacheRepo.AssertCalled(t, "Delete", "lock:submit:1")
}

func TestGameService_SubmitAnswer_CorrectAnswerUpdatesRank(t *testing.T) {
	// Arrange
	svc, m := newTestGameService(false)

	user := &entity.User{ID: 1, Username: "player", Languages: entity.StringArray{"javascript"}}
	m.userRepo.On("GetByID", uint(1)).Return(user, nil)

	challenge := &entity.Challenge{ID: 5, Language: "javascript", CorrectAnswer: "answer", XPReward: 100}
	m.challengeRepo.On("GetByID", uint(5)).Return(challenge, nil)

	updated := &entity.User{ID: 1, Username: "player", XP: 100, Level: 2, Wins: 1, Streak: 1, GamesPlayed: 1}
	m.userRepo.On("RecordWin", uint(1), int64(100), uint(5), mock.Anything).Return(updated, nil)
	m.challengeRepo.On("IncrementCompleted", uint(5)).Return(nil)
	m.leaderboardRepo.On("Upsert", mock.Anything).Return(nil)

	entry := &entity.LeaderboardEntry{UserID: 1, XP: 100, Wins: 1, Streak: 1}
	m.leaderboardRepo.On("GetByUserID", uint(1)).Return(entry, nil)
	m.leaderboardRepo.On("CountBetter", entry).Return(int64(2), nil)

	// Act
	result, err := svc.SubmitAnswer(context.Background(), 1, 5, "answer", 1)

	// Assert: ранг подтягивается после обновления лидерборда
	require.NoError(t, err)
	assert.True(t, result.Correct)
	assert.Equal(t, int64(100), result.XPGained)
	assert.Equal(t, int64(3), result.Rank)
}

func TestGameService_GetDailyStatus(t *testing.T) {
	// Arrange
	svc, m := newTestGameService(false)

	now := time.Now()
	user := &entity.User{ID: 1, Streak: 4, LastPlayed: &now}
	m.userRepo.On("GetByID", uint(1)).Return(user, nil)

	// Act
	status, err := svc.GetDailyStatus(1)

	// Assert
	require.NoError(t, err)
	assert.True(t, status.Completed)
	assert.Equal(t, int64(4), status.Streak)
}

func TestGameService_ResetPlayerGameState(t *testing.T) {
	// Arrange
	svc, m := newTestGameService(false)

	played := time.Now()
	user := &entity.User{ID: 7, Username: "stuck", LastPlayed: &played}
	m.userRepo.On("GetByID", uint(7)).Return(user, nil)
	m.userRepo.On("ClearLastPlayed", uint(7)).Return(nil)

	// Act
	player, err := svc.ResetPlayerGameState(7)

	// Assert
	require.NoError(t, err)
	assert.Nil(t, player.LastPlayed)
	m.userRepo.AssertExpectations(t)
}

func TestGameService_GetRecentChallenges_ClampsLimit(t *testing.T) {
	// Arrange
	svc, m := newTestGameService(false)

	m.challengeRepo.On("ListRecent", 20).Return([]entity.Challenge{}, nil)

	// Act: запредельный limit заменяется дефолтным
	_, err := svc.GetRecentChallenges(500)

	// Assert
	require.NoError(t, err)
	m.challengeRepo.AssertCalled(t, "ListRecent", 20)
}
