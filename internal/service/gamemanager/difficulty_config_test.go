package gamemanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTargetDifficulty(t *testing.T) {
	config := DefaultConfig()

	testCases := []struct {
		name     string
		xp       int64
		expected int
	}{
		{"Новичок без XP", 0, 1},
		{"Ниже первого порога", 150, 1},
		{"Ровно на границе 200", 200, 3},
		{"Внутри среднего диапазона", 499, 3},
		{"Граница 500", 500, 5},
		{"Граница 1000", 1000, 7},
		{"Опытный игрок", 2500, 9},
		{"Граница 3500", 3500, 10},
		{"Далеко за последним порогом", 100000, 10},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, config.TargetDifficulty(tc.xp))
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, 5, config.MaxAttempts)
	assert.Equal(t, 0.15, config.DecayPerAttempt)
	assert.Equal(t, 0.25, config.DecayFloor)
	assert.NotEmpty(t, config.Thresholds)

	// Пороги должны быть отсортированы по возрастанию MinXP
	for i := 1; i < len(config.Thresholds); i++ {
		assert.Greater(t, config.Thresholds[i].MinXP, config.Thresholds[i-1].MinXP,
			"пороги должны идти по возрастанию")
	}
}
