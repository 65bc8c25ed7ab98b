package gamemanager

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestXPGained(t *testing.T) {
	config := DefaultConfig()

	testCases := []struct {
		name     string
		reward   int
		attempt  int
		expected int64
	}{
		{"Первая попытка — полная награда", 100, 1, 100},
		{"Вторая попытка — минус 15%", 100, 2, 85},
		{"Третья попытка", 100, 3, 70},
		{"Четвёртая попытка", 100, 4, 55},
		{"Пятая попытка", 100, 5, 40},
		{"Нецелый результат округляется вниз", 70, 2, 59}, // 70*0.85 = 59.5
		{"Маленькая награда", 10, 1, 10},
		{"Минимум 25% на пятой попытке маленькой награды", 10, 5, 4}, // 10*0.4=4 > floor(2.5)=2
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, config.XPGained(tc.reward, tc.attempt))
		})
	}
}

func TestXPGained_FloorClamp(t *testing.T) {
	// Arrange: агрессивное затухание, при котором нижняя граница срабатывает
	config := DefaultConfig()
	config.DecayPerAttempt = 0.3

	// Act: 100*(1 - 0.3*4) = -20, но нижняя граница floor(100*0.25) = 25
	gained := config.XPGained(100, 5)

	// Assert
	assert.Equal(t, int64(25), gained)
}

func TestXPGained_NeverNegative(t *testing.T) {
	config := DefaultConfig()
	config.DecayPerAttempt = 0.5
	config.DecayFloor = 0

	gained := config.XPGained(100, 5)

	assert.Equal(t, int64(0), gained)
}
