package usercontext

import (
	"fmt"
	"strings"
)

// Summary renders the bundle as compact prompt text.
func (b Bundle) Summary() string {
	var lines []string
	if b.Fallback {
		lines = append(lines, "(no reliable recent history)")
	}
	if b.MoodTrend.Samples > 0 {
		lines = append(lines, fmt.Sprintf("Mood over the last %d days: average %.1f/5, %s.", b.Days, b.MoodTrend.Average, b.MoodTrend.Direction))
	}
	if len(b.UpcomingTodos) > 0 {
		titles := make([]string, 0, len(b.UpcomingTodos))
		for _, t := range b.UpcomingTodos {
			titles = append(titles, t.Title)
		}
		lines = append(lines, "Open todos: "+strings.Join(titles, "; ")+".")
	}
	if len(b.RecentMedia) > 0 {
		titles := make([]string, 0, len(b.RecentMedia))
		for _, m := range b.RecentMedia {
			titles = append(titles, fmt.Sprintf("%s (%s)", m.Title, m.Status))
		}
		lines = append(lines, "Media: "+strings.Join(titles, "; ")+".")
	}
	if len(b.HabitProgress) > 0 {
		hs := make([]string, 0, len(b.HabitProgress))
		for _, h := range b.HabitProgress {
			hs = append(hs, fmt.Sprintf("%s %d/%d", h.Name, h.Done, h.Done+h.Missed))
		}
		lines = append(lines, "Habits: "+strings.Join(hs, "; ")+".")
	}
	return strings.Join(lines, "\n")
}
