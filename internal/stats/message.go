package stats

import "fmt"

// StreakMessage returns reminder copy for the given current streak.
func StreakMessage(current int) (title, body string) {
	switch {
	case current <= 0:
		return "Start your streak!", "Begin tracking your progress today."
	case current >= 7:
		return fmt.Sprintf("%d day streak!", current), "Don't break your streak. Log today's progress."
	default:
		return "Keep it going!", fmt.Sprintf("You're on a %d day streak. Keep it up!", current)
	}
}
