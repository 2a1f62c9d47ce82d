package quest

import (
	"fmt"
	"math"
)

// MaxStars is the best rating a quest can give.
const MaxStars = 3

// Stars rates a completion time. Both thresholds are inclusive.
func Stars(elapsed, timeFor3, timeFor2 float64) int {
	switch {
	case elapsed <= timeFor3:
		return 3
	case elapsed <= timeFor2:
		return 2
	default:
		return 1
	}
}

// Reward looks up the reward for a star count. Missing entries give 0.
func Reward(rewards []int, stars int) int {
	if stars < 1 || stars > MaxStars || stars > len(rewards) {
		return 0
	}
	return rewards[stars-1]
}

// FormatClock formats seconds as "MM:SS".
func FormatClock(seconds float64) string {
	m, s := splitMinutes(seconds)
	return fmt.Sprintf("%02d:%02d", m, s)
}

// FormatThreshold formats seconds as "M:SS" for star thresholds.
func FormatThreshold(seconds float64) string {
	m, s := splitMinutes(seconds)
	return fmt.Sprintf("%d:%02d", m, s)
}

func splitMinutes(seconds float64) (int, int) {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	total := int(math.Floor(seconds))
	return total / 60, total % 60
}
