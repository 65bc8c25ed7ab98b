package gamemanager

import "math"

// XPGained вычисляет награду за правильный ответ с учётом затухания.
// Каждая попытка после первой снимает DecayPerAttempt от базовой награды,
// но итог не опускается ниже DecayFloor от неё:
//
//	gained = max(floor(R*(1 - decay*(n-1))), floor(R*floor_share))
func (c *Config) XPGained(reward int, attemptNumber int) int64 {
	decayed := float64(reward) * (1 - c.DecayPerAttempt*float64(attemptNumber-1))
	floor := float64(reward) * c.DecayFloor

	gained := math.Floor(decayed)
	if gained < math.Floor(floor) {
		gained = math.Floor(floor)
	}
	if gained < 0 {
		gained = 0
	}
	return int64(gained)
}
