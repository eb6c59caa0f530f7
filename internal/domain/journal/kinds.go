package journal

import "strings"

// ItemType names a kind of candidate record extracted from a journal entry.
type ItemType string

const (
	ItemMood  ItemType = "mood"
	ItemTodo  ItemType = "todo"
	ItemMedia ItemType = "media"
	ItemHabit ItemType = "habit"
)

// ItemTypes lists the committable kinds in batch order.
var ItemTypes = []ItemType{ItemMood, ItemTodo, ItemMedia, ItemHabit}

// SuggestionType is what a user may opt in to; reflection prompts are never committed.
type SuggestionType string

const (
	SuggestMood       SuggestionType = "mood"
	SuggestTodo       SuggestionType = "todo"
	SuggestMedia      SuggestionType = "media"
	SuggestHabit      SuggestionType = "habit"
	SuggestReflection SuggestionType = "reflection"
)

var AllSuggestionTypes = []SuggestionType{SuggestMood, SuggestTodo, SuggestMedia, SuggestHabit, SuggestReflection}

func ParseSuggestionType(s string) (SuggestionType, bool) {
	st := SuggestionType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range AllSuggestionTypes {
		if v == st {
			return st, true
		}
	}
	return "", false
}

func ParseItemType(s string) (ItemType, bool) {
	it := ItemType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range ItemTypes {
		if v == it {
			return it, true
		}
	}
	return "", false
}

// Label is the capitalized form used in validation messages ("Todo 2: ...").
func (t ItemType) Label() string {
	if t == "" {
		return ""
	}
	return strings.ToUpper(string(t[:1])) + string(t[1:])
}

const (
	SourceJournal = "journal"
	SourceManual  = "manual"
)

type MoodValue string

const (
	MoodExcellent MoodValue = "excellent"
	MoodGood      MoodValue = "good"
	MoodNeutral   MoodValue = "neutral"
	MoodBad       MoodValue = "bad"
	MoodTerrible  MoodValue = "terrible"
)

var moodSynonyms = map[string]MoodValue{
	"excellent": MoodExcellent, "amazing": MoodExcellent, "ecstatic": MoodExcellent, "great": MoodExcellent,
	"fantastic": MoodExcellent, "thrilled": MoodExcellent, "elated": MoodExcellent, "wonderful": MoodExcellent,
	"good": MoodGood, "happy": MoodGood, "content": MoodGood, "calm": MoodGood, "grateful": MoodGood,
	"relaxed": MoodGood, "focused": MoodGood, "hopeful": MoodGood, "positive": MoodGood, "excited": MoodGood,
	"neutral": MoodNeutral, "ok": MoodNeutral, "okay": MoodNeutral, "fine": MoodNeutral, "meh": MoodNeutral,
	"tired": MoodNeutral, "mixed": MoodNeutral,
	"bad": MoodBad, "sad": MoodBad, "anxious": MoodBad, "stressed": MoodBad, "frustrated": MoodBad,
	"angry": MoodBad, "lonely": MoodBad, "down": MoodBad, "worried": MoodBad, "negative": MoodBad,
	"terrible": MoodTerrible, "awful": MoodTerrible, "miserable": MoodTerrible, "depressed": MoodTerrible,
	"devastated": MoodTerrible, "horrible": MoodTerrible,
}

// CanonicalMood maps free mood text onto the five-point scale; unknown words are neutral.
func CanonicalMood(raw string) MoodValue {
	if v, ok := moodSynonyms[strings.ToLower(strings.TrimSpace(raw))]; ok {
		return v
	}
	return MoodNeutral
}

// MoodScore places a canonical value on [1,5] for trend math.
func MoodScore(v MoodValue) float64 {
	switch v {
	case MoodExcellent:
		return 5
	case MoodGood:
		return 4
	case MoodBad:
		return 2
	case MoodTerrible:
		return 1
	default:
		return 3
	}
}

var (
	TodoTimes         = []string{"past", "future"}
	TodoPriorities    = []string{"low", "medium", "high"}
	MediaTypes        = []string{"movie", "show", "book", "game", "podcast", "music"}
	MediaStatuses     = []string{"planned", "watched", "playing", "completed", "reading", "read"}
	HabitStatuses     = []string{"done", "missed"}
	HabitFrequencies  = []string{"daily", "weekly", "monthly"}
	DefaultPriority   = "medium"
	DefaultFrequency  = "daily"
	DefaultMediaState = "planned"
)

func OneOf(v string, allowed []string) bool {
	for _, a := range allowed {
		if v == a {
			return true
		}
	}
	return false
}
