package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/orion-api/internal/domain/entity"
	apperrors "github.com/yourusername/orion-api/internal/pkg/errors"
)

func TestUserService_GetStats(t *testing.T) {
	// Arrange
	mockRepo := new(MockUserRepoForGame)
	svc := NewUserService(mockRepo)

	played := time.Date(2025, 6, 15, 9, 30, 0, 0, time.UTC)
	user := &entity.User{
		ID: 1, Username: "player", XP: 450, Level: 3,
		Wins: 5, Losses: 2, Streak: 3, GamesPlayed: 7,
		Languages: entity.StringArray{"go", "python"},
		LastPlayed: &played, IsAdmin: true,
	}
	mockRepo.On("GetByID", uint(1)).Return(user, nil)

	// Act
	stats, err := svc.GetStats(1)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "player", stats.Username)
	assert.Equal(t, int64(450), stats.XP)
	assert.Equal(t, 3, stats.Level)
	assert.True(t, stats.IsAdmin)
	assert.Equal(t, "2025-06-15T09:30:00Z", stats.LastPlayed)
}

func TestUserService_GetStats_NeverPlayed(t *testing.T) {
	// Arrange
	mockRepo := new(MockUserRepoForGame)
	svc := NewUserService(mockRepo)

	mockRepo.On("GetByID", uint(1)).Return(&entity.User{ID: 1, Username: "fresh", Level: 1}, nil)

	// Act
	stats, err := svc.GetStats(1)

	// Assert
	require.NoError(t, err)
	assert.Empty(t, stats.LastPlayed)
}

func TestUserService_UpdateLanguages(t *testing.T) {
	// Arrange
	mockRepo := new(MockUserRepoForGame)
	svc := NewUserService(mockRepo)

	mockRepo.On("UpdateLanguages", uint(1), entity.StringArray{"go", "rust"}).Return(nil)

	// Act
	err := svc.UpdateLanguages(1, []string{"go", "rust"})

	// Assert
	require.NoError(t, err)
	mockRepo.AssertExpectations(t)
}

func TestUserService_UpdateLanguages_Invalid(t *testing.T) {
	mockRepo := new(MockUserRepoForGame)
	svc := NewUserService(mockRepo)

	testCases := []struct {
		name      string
		languages []string
	}{
		{"Пустой список", nil},
		{"Неподдерживаемый язык", []string{"brainfuck"}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := svc.UpdateLanguages(1, tc.languages)

			assert.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}

	mockRepo.AssertNotCalled(t, "UpdateLanguages", mock.Anything, mock.Anything)
}
