package extraction

import (
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/pipelinecfg"
)

const stringMoodReasoning = "Default confidence for string format"

// Result is the outcome of normalizing one raw candidate.
// Candidate is set iff Valid.
type Result struct {
	Valid     bool
	Errors    []string
	Candidate Candidate
}

func invalid(errs ...string) Result { return Result{Valid: false, Errors: errs} }

func valid(c Candidate) Result { return Result{Valid: true, Candidate: c} }

// Normalizer validates and coerces raw candidates. It holds only immutable tuning.
type Normalizer struct {
	defaults pipelinecfg.ConfidenceDefaults
}

func NewNormalizer(defaults pipelinecfg.ConfidenceDefaults) *Normalizer {
	return &Normalizer{defaults: defaults}
}

// DefaultConfidence is the score assigned when the producer omitted one or sent garbage.
func (n *Normalizer) DefaultConfidence(kind journal.ItemType) float64 {
	switch kind {
	case journal.ItemMood:
		return n.defaults.Mood
	case journal.ItemTodo:
		return n.defaults.Todo
	case journal.ItemMedia:
		return n.defaults.Media
	case journal.ItemHabit:
		return n.defaults.Habit
	default:
		return 0.5
	}
}

// ClampConfidence keeps x when it is a finite number in [0,1] and returns def otherwise.
func ClampConfidence(x any, def float64) float64 {
	f, ok := toFloat(x)
	if !ok || math.IsNaN(f) || math.IsInf(f, 0) || f < 0 || f > 1 {
		return def
	}
	return f
}

func (n *Normalizer) Normalize(kind journal.ItemType, raw any) Result {
	switch kind {
	case journal.ItemMood:
		return n.NormalizeMood(raw)
	case journal.ItemTodo:
		return n.NormalizeTodo(raw)
	case journal.ItemMedia:
		return n.NormalizeMedia(raw)
	case journal.ItemHabit:
		return n.NormalizeHabit(raw)
	default:
		return invalid(fmt.Sprintf("unknown item type %q", kind))
	}
}

// moodShape is the tagged union of the two wire forms a mood arrives in.
type moodShape struct {
	text   string
	obj    map[string]any
	isText bool
}

func classifyMood(raw any) (moodShape, bool) {
	if s, ok := raw.(string); ok {
		return moodShape{text: s, isText: true}, true
	}
	if obj, ok := asObject(raw); ok {
		return moodShape{obj: obj}, true
	}
	return moodShape{}, false
}

func (n *Normalizer) NormalizeMood(raw any) Result {
	shape, ok := classifyMood(raw)
	if !ok {
		return invalid("mood must be a string or an object")
	}
	if shape.isText {
		value := strings.ToLower(strings.TrimSpace(shape.text))
		if value == "" {
			return invalid("value is required")
		}
		return valid(MoodCandidate{
			Value:      value,
			Confidence: n.defaults.Mood,
			Reasoning:  stringMoodReasoning,
		})
	}

	obj := shape.obj
	value := strings.ToLower(str(obj, "value"))
	if value == "" {
		// some producers name the field after the record
		value = strings.ToLower(str(obj, "mood"))
	}
	if value == "" {
		return invalid("value is required")
	}
	return valid(MoodCandidate{
		Value:      value,
		Confidence: ClampConfidence(obj["confidence"], n.defaults.Mood),
		Reasoning:  str(obj, "reasoning"),
	})
}

func (n *Normalizer) NormalizeTodo(raw any) Result {
	obj, ok := asObject(raw)
	if !ok {
		return invalid("todo must be an object")
	}
	var errs []string
	title := str(obj, "title")
	if title == "" {
		errs = append(errs, "title is required")
	}
	tm, err := enumField(obj, "time", journal.TodoTimes)
	errs = appendErr(errs, err)
	priority, err := enumField(obj, "priority", journal.TodoPriorities)
	errs = appendErr(errs, err)
	due, err := dateField(obj, "dueDate")
	errs = appendErr(errs, err)
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid(TodoCandidate{
		Title:      title,
		Time:       tm,
		Priority:   priority,
		DueDate:    due,
		Confidence: ClampConfidence(obj["confidence"], n.defaults.Todo),
		Reasoning:  str(obj, "reasoning"),
	})
}

func (n *Normalizer) NormalizeMedia(raw any) Result {
	obj, ok := asObject(raw)
	if !ok {
		return invalid("media must be an object")
	}
	var errs []string
	title := str(obj, "title")
	if title == "" {
		errs = append(errs, "title is required")
	}
	typ, err := enumField(obj, "type", journal.MediaTypes)
	errs = appendErr(errs, err)
	status, err := enumField(obj, "status", journal.MediaStatuses)
	errs = appendErr(errs, err)
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid(MediaCandidate{
		Title:      title,
		Type:       typ,
		Status:     status,
		Confidence: ClampConfidence(obj["confidence"], n.defaults.Media),
		Reasoning:  str(obj, "reasoning"),
	})
}

func (n *Normalizer) NormalizeHabit(raw any) Result {
	obj, ok := asObject(raw)
	if !ok {
		return invalid("habit must be an object")
	}
	var errs []string
	name := str(obj, "name")
	if name == "" {
		errs = append(errs, "name is required")
	}
	status, err := enumField(obj, "status", journal.HabitStatuses)
	errs = appendErr(errs, err)
	freq, err := enumField(obj, "frequency", journal.HabitFrequencies)
	errs = appendErr(errs, err)
	if len(errs) > 0 {
		return invalid(errs...)
	}
	return valid(HabitCandidate{
		Name:       name,
		Status:     status,
		Frequency:  freq,
		Confidence: ClampConfidence(obj["confidence"], n.defaults.Habit),
		Reasoning:  str(obj, "reasoning"),
	})
}

func asObject(raw any) (map[string]any, bool) {
	switch v := raw.(type) {
	case map[string]any:
		return v, v != nil
	case Candidate:
		return v.Raw(), true
	default:
		return nil, false
	}
}

func str(obj map[string]any, key string) string {
	s, _ := obj[key].(string)
	return strings.TrimSpace(s)
}

// enumField accepts an absent or empty field; a present value must be in allowed.
func enumField(obj map[string]any, key string, allowed []string) (string, error) {
	raw, present := obj[key]
	if !present || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be a string", key)
	}
	v := strings.ToLower(strings.TrimSpace(s))
	if v == "" {
		return "", nil
	}
	if !journal.OneOf(v, allowed) {
		return "", fmt.Errorf("invalid %s %q (allowed: %s)", key, s, strings.Join(allowed, ", "))
	}
	return v, nil
}

const dateLayout = "2006-01-02"

func dateField(obj map[string]any, key string) (string, error) {
	raw, present := obj[key]
	if !present || raw == nil {
		return "", nil
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%s must be an ISO date string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", nil
	}
	if t, err := time.Parse(dateLayout, s); err == nil {
		return t.Format(dateLayout), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC().Format(dateLayout), nil
	}
	return "", fmt.Errorf("%s %q is not an ISO date", key, s)
}

func appendErr(errs []string, err error) []string {
	if err != nil {
		return append(errs, err.Error())
	}
	return errs
}

func toFloat(x any) (float64, bool) {
	switch v := x.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case *float64:
		if v == nil {
			return 0, false
		}
		return *v, true
	default:
		return 0, false
	}
}
