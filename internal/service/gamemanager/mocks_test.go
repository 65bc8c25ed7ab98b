package gamemanager

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/yourusername/orion-api/internal/domain/entity"
	"github.com/yourusername/orion-api/internal/domain/repository"
)

// MockUserRepo реализует repository.UserRepository
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) GetByID(id uint) (*entity.User, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByEmail(email string) (*entity.User, error) {
	args := m.Called(email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) GetByUsername(username string) (*entity.User, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) Update(user *entity.User) error {
	args := m.Called(user)
	return args.Error(0)
}

func (m *MockUserRepo) UpdateLanguages(userID uint, languages entity.StringArray) error {
	args := m.Called(userID, languages)
	return args.Error(0)
}

func (m *MockUserRepo) UpdatePassword(userID uint, newPassword string) error {
	args := m.Called(userID, newPassword)
	return args.Error(0)
}

func (m *MockUserRepo) RecordWin(userID uint, xpGained int64, challengeID uint, playedAt time.Time) (*entity.User, error) {
	args := m.Called(userID, xpGained, challengeID, playedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) RecordLoss(userID uint, playedAt time.Time) (*entity.User, error) {
	args := m.Called(userID, playedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

func (m *MockUserRepo) ClearLastPlayed(userID uint) error {
	args := m.Called(userID)
	return args.Error(0)
}

func (m *MockUserRepo) SetPasswordResetToken(userID uint, tokenHash string, expires time.Time) error {
	args := m.Called(userID, tokenHash, expires)
	return args.Error(0)
}

func (m *MockUserRepo) GetByResetToken(tokenHash string) (*entity.User, error) {
	args := m.Called(tokenHash)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.User), args.Error(1)
}

// MockChallengeRepo реализует repository.ChallengeRepository
type MockChallengeRepo struct {
	mock.Mock
}

func (m *MockChallengeRepo) Create(challenge *entity.Challenge) error {
	args := m.Called(challenge)
	return args.Error(0)
}

func (m *MockChallengeRepo) GetByID(id uint) (*entity.Challenge, error) {
	args := m.Called(id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepo) FindActive(filter repository.ChallengeFilter) ([]entity.Challenge, error) {
	args := m.Called(filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepo) ListRecent(limit int) ([]entity.Challenge, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.Challenge), args.Error(1)
}

func (m *MockChallengeRepo) CountByDifficulty(difficulty int) (int64, error) {
	args := m.Called(difficulty)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepo) IncrementCompleted(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockChallengeRepo) IncrementFailed(id uint) error {
	args := m.Called(id)
	return args.Error(0)
}

func (m *MockChallengeRepo) DeactivateExpired(now time.Time) (int64, error) {
	args := m.Called(now)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepo) DeleteOlderThan(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockChallengeRepo) DeleteResolvedBefore(cutoff time.Time) (int64, error) {
	args := m.Called(cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockLeaderboardRepo реализует repository.LeaderboardRepository
type MockLeaderboardRepo struct {
	mock.Mock
}

func (m *MockLeaderboardRepo) Upsert(entry *entity.LeaderboardEntry) error {
	args := m.Called(entry)
	return args.Error(0)
}

func (m *MockLeaderboardRepo) GetTop(limit int) ([]entity.LeaderboardEntry, error) {
	args := m.Called(limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]entity.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepo) GetByUserID(userID uint) (*entity.LeaderboardEntry, error) {
	args := m.Called(userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.LeaderboardEntry), args.Error(1)
}

func (m *MockLeaderboardRepo) CountBetter(entry *entity.LeaderboardEntry) (int64, error) {
	args := m.Called(entry)
	return args.Get(0).(int64), args.Error(1)
}

// MockGenerator реализует ChallengeGenerator
type MockGenerator struct {
	mock.Mock
}

func (m *MockGenerator) Generate(ctx context.Context, language string, difficulty int, challengeType string) (*entity.Challenge, error) {
	args := m.Called(ctx, language, difficulty, challengeType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*entity.Challenge), args.Error(1)
}

// MockVerifier реализует AnswerVerifier
type MockVerifier struct {
	mock.Mock
}

func (m *MockVerifier) Verify(ctx context.Context, correctAnswer, submittedAnswer, language string) (bool, error) {
	args := m.Called(ctx, correctAnswer, submittedAnswer, language)
	return args.Bool(0), args.Error(1)
}
