package usercontext

import (
	"time"

	"github.com/google/uuid"

	"github.com/yungbote/lifelog-backend/internal/modules/preferences"
)

type MoodPoint struct {
	Value      string    `json:"value"`
	Label      string    `json:"label,omitempty"`
	Score      float64   `json:"score"`
	RecordedAt time.Time `json:"recordedAt"`
}

type MoodTrend struct {
	Samples   int     `json:"samples"`
	Average   float64 `json:"average"`
	Direction string  `json:"direction"` // improving | declining | steady | unknown
}

type TodoItem struct {
	ID       uuid.UUID  `json:"id"`
	Title    string     `json:"title"`
	Priority string     `json:"priority"`
	DueDate  *time.Time `json:"dueDate,omitempty"`
	Overdue  bool       `json:"overdue"`
}

type MediaItem struct {
	ID     uuid.UUID `json:"id"`
	Title  string    `json:"title"`
	Type   string    `json:"type,omitempty"`
	Status string    `json:"status"`
}

type HabitProgress struct {
	Name           string  `json:"name"`
	Done           int     `json:"done"`
	Missed         int     `json:"missed"`
	CompletionRate float64 `json:"completionRate"`
	Streak         int     `json:"streak"`
}

type JournalSnippet struct {
	ID        uuid.UUID `json:"id"`
	Snippet   string    `json:"snippet"`
	WordCount int       `json:"wordCount"`
	CreatedAt time.Time `json:"createdAt"`
}

// Bundle is the context handed to the extraction prompt and to suggestion ranking.
// Fallback bundles are static placeholders and must be treated as low-confidence.
type Bundle struct {
	UserID         uuid.UUID           `json:"userId"`
	Days           int                 `json:"days"`
	GeneratedAt    time.Time           `json:"generatedAt"`
	RecentMoods    []MoodPoint         `json:"recentMoods"`
	MoodTrend      MoodTrend           `json:"moodTrend"`
	UpcomingTodos  []TodoItem          `json:"upcomingTodos"`
	RecentMedia    []MediaItem         `json:"recentMedia"`
	HabitProgress  []HabitProgress     `json:"habitProgress"`
	JournalHistory []JournalSnippet    `json:"journalHistory"`
	Preferences    preferences.Filters `json:"preferences"`
	Degraded       []string            `json:"degraded,omitempty"`
	Fallback       bool                `json:"fallback"`
}

// Lightweight is the cheap context for high-frequency callers.
type Lightweight struct {
	LatestMood  *MoodPoint `json:"latestMood,omitempty"`
	ActiveTodos int64      `json:"activeTodos"`
	Keywords    []string   `json:"keywords"`
	GeneratedAt time.Time  `json:"generatedAt"`
}

func fallbackBundle(userID uuid.UUID, days int, prefs preferences.Filters, now time.Time) Bundle {
	return Bundle{
		UserID:      userID,
		Days:        days,
		GeneratedAt: now,
		RecentMoods: []MoodPoint{{Value: "neutral", Score: 3, RecordedAt: now}},
		MoodTrend:   MoodTrend{Samples: 0, Average: 3, Direction: "unknown"},
		UpcomingTodos: []TodoItem{{
			Title:    "Review your open tasks",
			Priority: "medium",
		}},
		RecentMedia:    []MediaItem{{Title: "Something you have been meaning to read", Type: "book", Status: "planned"}},
		HabitProgress:  []HabitProgress{{Name: "Daily reflection"}},
		JournalHistory: []JournalSnippet{{Snippet: "No recent journal entries available.", CreatedAt: now}},
		Preferences:    prefs,
		Fallback:       true,
	}
}
