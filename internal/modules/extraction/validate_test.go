package extraction

import (
	"math"
	"strings"
	"testing"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
)

func TestValidateKeepsGoodItems(t *testing.T) {
	v := NewValidator(testNormalizer())
	out := v.Validate(RawExtraction{
		Mood: "happy",
		Todos: []any{
			map[string]any{"title": "Call doctor", "confidence": 0.85},
			map[string]any{"confidence": 0.9},
			"not an object",
		},
		Media:  []any{map[string]any{"title": "Dune", "type": "comic"}},
		Habits: []any{map[string]any{"name": "run", "status": "done"}},
	})
	if out.Normalized.Mood == nil || out.Normalized.Mood.Value != "happy" {
		t.Fatalf("expected mood kept, got %+v", out.Normalized.Mood)
	}
	if len(out.Normalized.Todos) != 1 || len(out.Normalized.Media) != 0 || len(out.Normalized.Habits) != 1 {
		t.Fatalf("unexpected normalized %+v", out.Normalized)
	}
	if len(out.Errors) != 3 {
		t.Fatalf("expected 3 errors, got %v", out.Errors)
	}
	if !strings.HasPrefix(out.Errors[0], "Todo 2: ") || !strings.Contains(out.Errors[0], "title is required") {
		t.Fatalf("unexpected first error %q", out.Errors[0])
	}
	if !strings.HasPrefix(out.Errors[1], "Todo 3: ") {
		t.Fatalf("unexpected second error %q", out.Errors[1])
	}
	if !strings.HasPrefix(out.Errors[2], "Media 1: ") {
		t.Fatalf("unexpected third error %q", out.Errors[2])
	}
}

func TestValidateMoodErrorPrefix(t *testing.T) {
	out := NewValidator(testNormalizer()).Validate(RawExtraction{Mood: "   "})
	if len(out.Errors) != 1 || out.Errors[0] != "Mood: value is required" {
		t.Fatalf("unexpected errors %v", out.Errors)
	}
}

func TestValidateConservesCounts(t *testing.T) {
	v := NewValidator(testNormalizer())
	todos := []any{
		map[string]any{"title": "a"},
		map[string]any{"title": ""},
		map[string]any{"title": "b", "priority": "nope"},
		map[string]any{"title": "c", "time": "past"},
		nil,
	}
	media := []any{map[string]any{"title": "x"}, map[string]any{}}
	habits := []any{map[string]any{"name": "y", "status": "skipped"}}
	out := v.Validate(RawExtraction{Todos: todos, Media: media, Habits: habits})

	for kind, n := range map[journal.ItemType]int{
		journal.ItemTodo:  len(todos),
		journal.ItemMedia: len(media),
		journal.ItemHabit: len(habits),
	} {
		ok, failed := out.Counts(kind)
		if ok+failed != n {
			t.Fatalf("%s: normalized %d + errors %d != input %d", kind, ok, failed, n)
		}
	}
	if len(out.Errors) != len(out.ItemErrors) {
		t.Fatalf("errors and item errors disagree")
	}
}

func TestValidateBatchConfidence(t *testing.T) {
	v := NewValidator(testNormalizer())
	for _, c := range []float64{1.5, -0.1, math.NaN(), math.Inf(1)} {
		c := c
		out := v.Validate(RawExtraction{Confidence: &c})
		if out.BatchConfidence != nil {
			t.Fatalf("confidence %v: expected no batch confidence, got %v", c, *out.BatchConfidence)
		}
		if out.Normalized.Len() != 0 || len(out.Errors) != 0 {
			t.Fatalf("expected empty outcome")
		}
	}

	ok := 0.82
	out := v.Validate(RawExtraction{Confidence: &ok})
	if out.BatchConfidence == nil || *out.BatchConfidence != 0.82 {
		t.Fatalf("expected batch confidence 0.82, got %v", out.BatchConfidence)
	}
	if out := v.Validate(RawExtraction{}); out.BatchConfidence != nil {
		t.Fatalf("expected nil batch confidence when absent")
	}
}
