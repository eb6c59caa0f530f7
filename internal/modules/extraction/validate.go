package extraction

import (
	"fmt"
	"math"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/pkg/pointers"
)

// Batch is the normalized view of one extraction; it only holds items that passed.
type Batch struct {
	Mood   *MoodCandidate   `json:"mood,omitempty"`
	Todos  []TodoCandidate  `json:"todos"`
	Media  []MediaCandidate `json:"media"`
	Habits []HabitCandidate `json:"habits"`
}

func (b Batch) Len() int {
	n := len(b.Todos) + len(b.Media) + len(b.Habits)
	if b.Mood != nil {
		n++
	}
	return n
}

// ItemError locates a validation failure in the original input arrays.
// Index is zero-based and is -1 for the mood.
type ItemError struct {
	Type    journal.ItemType
	Index   int
	Reasons []string
}

func (e ItemError) Message() string {
	prefix := e.Type.Label()
	if e.Index >= 0 {
		prefix = fmt.Sprintf("%s %d", prefix, e.Index+1)
	}
	msg := prefix + ": "
	for i, r := range e.Reasons {
		if i > 0 {
			msg += "; "
		}
		msg += r
	}
	return msg
}

type BatchOutcome struct {
	Normalized Batch    `json:"normalized"`
	Errors     []string `json:"errors"`

	ItemErrors []ItemError `json:"-"`
	// BatchConfidence is the producer's whole-batch score, clamped; nil when absent.
	BatchConfidence *float64 `json:"batchConfidence,omitempty"`
}

// Counts returns, per kind, how many inputs ended up normalized and how many errored.
func (o BatchOutcome) Counts(kind journal.ItemType) (normalized, failed int) {
	switch kind {
	case journal.ItemMood:
		if o.Normalized.Mood != nil {
			normalized = 1
		}
	case journal.ItemTodo:
		normalized = len(o.Normalized.Todos)
	case journal.ItemMedia:
		normalized = len(o.Normalized.Media)
	case journal.ItemHabit:
		normalized = len(o.Normalized.Habits)
	}
	for _, e := range o.ItemErrors {
		if e.Type == kind {
			failed++
		}
	}
	return normalized, failed
}

type Validator struct {
	norm *Normalizer
}

func NewValidator(norm *Normalizer) *Validator {
	return &Validator{norm: norm}
}

func (v *Validator) Normalizer() *Normalizer { return v.norm }

// Validate normalizes every item independently. One bad item never discards the rest.
func (v *Validator) Validate(raw RawExtraction) BatchOutcome {
	out := BatchOutcome{
		Normalized: Batch{
			Todos:  []TodoCandidate{},
			Media:  []MediaCandidate{},
			Habits: []HabitCandidate{},
		},
		Errors: []string{},
	}
	// an unusable whole-batch score is dropped rather than replaced
	if raw.Confidence != nil {
		if c := ClampConfidence(*raw.Confidence, math.NaN()); !math.IsNaN(c) {
			out.BatchConfidence = pointers.Ptr(c)
		}
	}

	fail := func(kind journal.ItemType, idx int, reasons []string) {
		ie := ItemError{Type: kind, Index: idx, Reasons: reasons}
		out.ItemErrors = append(out.ItemErrors, ie)
		out.Errors = append(out.Errors, ie.Message())
	}

	if raw.Mood != nil {
		res := v.norm.NormalizeMood(raw.Mood)
		if res.Valid {
			m := res.Candidate.(MoodCandidate)
			out.Normalized.Mood = &m
		} else {
			fail(journal.ItemMood, -1, res.Errors)
		}
	}
	for i, item := range raw.Todos {
		res := v.norm.NormalizeTodo(item)
		if !res.Valid {
			fail(journal.ItemTodo, i, res.Errors)
			continue
		}
		out.Normalized.Todos = append(out.Normalized.Todos, res.Candidate.(TodoCandidate))
	}
	for i, item := range raw.Media {
		res := v.norm.NormalizeMedia(item)
		if !res.Valid {
			fail(journal.ItemMedia, i, res.Errors)
			continue
		}
		out.Normalized.Media = append(out.Normalized.Media, res.Candidate.(MediaCandidate))
	}
	for i, item := range raw.Habits {
		res := v.norm.NormalizeHabit(item)
		if !res.Valid {
			fail(journal.ItemHabit, i, res.Errors)
			continue
		}
		out.Normalized.Habits = append(out.Normalized.Habits, res.Candidate.(HabitCandidate))
	}
	return out
}
