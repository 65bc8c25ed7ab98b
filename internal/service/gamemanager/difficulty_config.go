package gamemanager

import "time"

// XPThreshold привязывает нижнюю границу XP к целевому уровню сложности
type XPThreshold struct {
	MinXP      int64
	Difficulty int
}

// Config содержит продуктовые константы игрового ядра.
// Значения по умолчанию соответствуют наблюдаемому поведению;
// всё выносится в конфигурацию, а не зашивается по месту.
type Config struct {
	// Thresholds — отображение XP на целевую сложность; отсортировано по MinXP.
	// Берётся последняя граница, которую XP игрока достиг.
	Thresholds []XPThreshold

	// MaxAttempts — число попыток на челлендж
	MaxAttempts int

	// DecayPerAttempt — доля награды, теряемая за каждую попытку после первой
	DecayPerAttempt float64

	// DecayFloor — нижняя граница награды как доля от базовой
	DecayFloor float64

	// GenerationTimeout ограничивает вызов генератора: генерация может быть
	// медленной, селектор не должен блокироваться на ней неограниченно
	GenerationTimeout time.Duration
}

// DefaultConfig возвращает настройки игрового ядра по умолчанию
func DefaultConfig() *Config {
	return &Config{
		Thresholds: []XPThreshold{
			{MinXP: 0, Difficulty: 1},    // easy
			{MinXP: 200, Difficulty: 3},  // medium
			{MinXP: 500, Difficulty: 5},  // hard
			{MinXP: 1000, Difficulty: 7}, // expert
			{MinXP: 2000, Difficulty: 9}, // master
			{MinXP: 3500, Difficulty: 10}, // legendary
		},
		MaxAttempts:       5,
		DecayPerAttempt:   0.15,
		DecayFloor:        0.25,
		GenerationTimeout: 30 * time.Second,
	}
}

// TargetDifficulty возвращает целевой уровень сложности для XP игрока
func (c *Config) TargetDifficulty(xp int64) int {
	difficulty := 1
	for _, t := range c.Thresholds {
		if xp >= t.MinXP {
			difficulty = t.Difficulty
		}
	}
	return difficulty
}
