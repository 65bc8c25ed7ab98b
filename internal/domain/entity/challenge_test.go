package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestChallenge_HintForAttempt_Saturating(t *testing.T) {
	// Arrange: подсказок меньше, чем попыток
	challenge := &Challenge{
		Hints: StringArray{"first", "second", "third"},
	}

	tests := []struct {
		name          string
		attemptNumber int
		expected      string
	}{
		{"попытка 1 → первая подсказка", 1, "first"},
		{"попытка 2 → вторая подсказка", 2, "second"},
		{"попытка 3 → третья подсказка", 3, "third"},
		{"попытка 4 → последняя повторяется", 4, "third"},
		{"попытка 5 → последняя повторяется", 5, "third"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, challenge.HintForAttempt(tt.attemptNumber))
		})
	}
}

func TestChallenge_HintForAttempt_NoHints(t *testing.T) {
	challenge := &Challenge{Hints: StringArray{}}
	assert.Equal(t, "", challenge.HintForAttempt(1), "Без подсказок возвращается пустая строка")
}

func TestChallenge_IsExpired(t *testing.T) {
	now := time.Now()
	challenge := &Challenge{ExpiresAt: now.Add(time.Hour)}

	assert.False(t, challenge.IsExpired(now))
	assert.True(t, challenge.IsExpired(now.Add(2*time.Hour)))
}

func TestDifficultyBand(t *testing.T) {
	tests := []struct {
		difficulty int
		expected   string
	}{
		{1, "easy"},
		{2, "easy"},
		{3, "medium"},
		{4, "medium"},
		{5, "hard"},
		{6, "hard"},
		{7, "expert"},
		{8, "expert"},
		{9, "master"},
		{10, "legendary"},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, DifficultyBand(tt.difficulty), "difficulty=%d", tt.difficulty)
	}
}

func TestIsValidLanguage(t *testing.T) {
	assert.True(t, IsValidLanguage("python"))
	assert.True(t, IsValidLanguage("typescript"))
	assert.False(t, IsValidLanguage("brainfuck"))
	assert.False(t, IsValidLanguage(""))
}

func TestIsValidChallengeType(t *testing.T) {
	assert.True(t, IsValidChallengeType("fix_bug"))
	assert.True(t, IsValidChallengeType("identify_pattern"))
	assert.False(t, IsValidChallengeType("write_essay"))
}

func TestStringArray_Contains(t *testing.T) {
	arr := StringArray{"python", "go"}
	assert.True(t, arr.Contains("go"))
	assert.False(t, arr.Contains("java"))
}

func TestChallenge_TableName(t *testing.T) {
	assert.Equal(t, "challenges", Challenge{}.TableName())
}
