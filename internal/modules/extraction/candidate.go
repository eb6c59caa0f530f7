package extraction

import (
	"github.com/yungbote/lifelog-backend/internal/domain/journal"
)

// Candidate is a normalized, AI-proposed record that still has to pass the gate.
type Candidate interface {
	Kind() journal.ItemType
	Score() float64
	// Raw renders the candidate in the producer's wire shape so it can be normalized again.
	Raw() map[string]any
}

type MoodCandidate struct {
	Value      string  `json:"value"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (c MoodCandidate) Kind() journal.ItemType { return journal.ItemMood }
func (c MoodCandidate) Score() float64         { return c.Confidence }
func (c MoodCandidate) Raw() map[string]any {
	return map[string]any{"value": c.Value, "confidence": c.Confidence, "reasoning": c.Reasoning}
}

type TodoCandidate struct {
	Title      string  `json:"title"`
	Time       string  `json:"time,omitempty"`
	Priority   string  `json:"priority,omitempty"`
	DueDate    string  `json:"dueDate,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (c TodoCandidate) Kind() journal.ItemType { return journal.ItemTodo }
func (c TodoCandidate) Score() float64         { return c.Confidence }
func (c TodoCandidate) Raw() map[string]any {
	m := map[string]any{"title": c.Title, "confidence": c.Confidence, "reasoning": c.Reasoning}
	putIf(m, "time", c.Time)
	putIf(m, "priority", c.Priority)
	putIf(m, "dueDate", c.DueDate)
	return m
}

type MediaCandidate struct {
	Title      string  `json:"title"`
	Type       string  `json:"type,omitempty"`
	Status     string  `json:"status,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (c MediaCandidate) Kind() journal.ItemType { return journal.ItemMedia }
func (c MediaCandidate) Score() float64         { return c.Confidence }
func (c MediaCandidate) Raw() map[string]any {
	m := map[string]any{"title": c.Title, "confidence": c.Confidence, "reasoning": c.Reasoning}
	putIf(m, "type", c.Type)
	putIf(m, "status", c.Status)
	return m
}

type HabitCandidate struct {
	Name       string  `json:"name"`
	Status     string  `json:"status,omitempty"`
	Frequency  string  `json:"frequency,omitempty"`
	Confidence float64 `json:"confidence"`
	Reasoning  string  `json:"reasoning"`
}

func (c HabitCandidate) Kind() journal.ItemType { return journal.ItemHabit }
func (c HabitCandidate) Score() float64         { return c.Confidence }
func (c HabitCandidate) Raw() map[string]any {
	m := map[string]any{"name": c.Name, "confidence": c.Confidence, "reasoning": c.Reasoning}
	putIf(m, "status", c.Status)
	putIf(m, "frequency", c.Frequency)
	return m
}

func putIf(m map[string]any, key, v string) {
	if v != "" {
		m[key] = v
	}
}

// RawExtraction is the unvalidated output of the extraction provider.
// Mood may be a bare string or an object; list items are whatever JSON decoded to.
type RawExtraction struct {
	Mood       any      `json:"mood,omitempty"`
	Todos      []any    `json:"todos,omitempty"`
	Media      []any    `json:"media,omitempty"`
	Habits     []any    `json:"habits,omitempty"`
	Confidence *float64 `json:"confidence,omitempty"`
}

// Empty reports whether the producer proposed nothing at all.
func (r RawExtraction) Empty() bool {
	return r.Mood == nil && len(r.Todos) == 0 && len(r.Media) == 0 && len(r.Habits) == 0
}
