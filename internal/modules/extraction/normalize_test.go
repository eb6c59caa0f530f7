package extraction

import (
	"math"
	"reflect"
	"testing"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/pipelinecfg"
)

func testNormalizer() *Normalizer {
	return NewNormalizer(pipelinecfg.Default().ConfidenceDefaults)
}

func TestClampConfidence(t *testing.T) {
	cases := []struct {
		name string
		in   any
		def  float64
		want float64
	}{
		{"in range", 0.85, 0.7, 0.85},
		{"zero", 0.0, 0.7, 0.0},
		{"one", 1.0, 0.7, 1.0},
		{"nan", math.NaN(), 0.7, 0.7},
		{"inf", math.Inf(1), 0.5, 0.5},
		{"negative", -0.1, 0.7, 0.7},
		{"above one", 1.2, 0.7, 0.7},
		{"missing", nil, 0.5, 0.5},
		{"string", "0.8", 0.7, 0.7},
		{"int", 1, 0.7, 1.0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got := ClampConfidence(tc.in, tc.def)
			if got != tc.want {
				t.Fatalf("ClampConfidence(%v,%v)=%v want %v", tc.in, tc.def, got, tc.want)
			}
			if got < 0 || got > 1 {
				t.Fatalf("clamped value out of range: %v", got)
			}
		})
	}
}

func TestNormalizeMoodBareString(t *testing.T) {
	res := testNormalizer().NormalizeMood("happy")
	if !res.Valid {
		t.Fatalf("expected valid, got errors %v", res.Errors)
	}
	want := MoodCandidate{Value: "happy", Confidence: 0.5, Reasoning: "Default confidence for string format"}
	if got := res.Candidate.(MoodCandidate); got != want {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestNormalizeMoodObject(t *testing.T) {
	n := testNormalizer()
	res := n.NormalizeMood(map[string]any{"value": "Good", "confidence": 0.9, "reasoning": "said so"})
	if !res.Valid {
		t.Fatalf("expected valid: %v", res.Errors)
	}
	if m := res.Candidate.(MoodCandidate); m.Value != "good" || m.Confidence != 0.9 {
		t.Fatalf("unexpected mood %+v", m)
	}
	if res := n.NormalizeMood(map[string]any{"confidence": 0.9}); res.Valid {
		t.Fatalf("expected missing value to be invalid")
	}
	if res := n.NormalizeMood(42.0); res.Valid {
		t.Fatalf("expected number mood to be invalid")
	}
}

func TestNormalizeRequiredFields(t *testing.T) {
	n := testNormalizer()
	cases := []struct {
		kind journal.ItemType
		raw  map[string]any
	}{
		{journal.ItemTodo, map[string]any{"confidence": 0.9}},
		{journal.ItemTodo, map[string]any{"title": "   "}},
		{journal.ItemMedia, map[string]any{"type": "book"}},
		{journal.ItemHabit, map[string]any{"status": "done"}},
	}
	for _, tc := range cases {
		if res := n.Normalize(tc.kind, tc.raw); res.Valid || len(res.Errors) == 0 {
			t.Fatalf("%s %v: expected invalid with errors, got %+v", tc.kind, tc.raw, res)
		}
	}
}

func TestNormalizeEnums(t *testing.T) {
	n := testNormalizer()
	if res := n.NormalizeTodo(map[string]any{"title": "x", "priority": "urgent"}); res.Valid {
		t.Fatalf("expected out-of-range priority to be invalid")
	}
	if res := n.NormalizeMedia(map[string]any{"title": "Dune", "type": "comic"}); res.Valid {
		t.Fatalf("expected out-of-range media type to be invalid")
	}
	if res := n.NormalizeHabit(map[string]any{"name": "run", "frequency": "hourly"}); res.Valid {
		t.Fatalf("expected out-of-range frequency to be invalid")
	}
	res := n.NormalizeTodo(map[string]any{"title": "x", "time": "FUTURE", "priority": "High"})
	if !res.Valid {
		t.Fatalf("expected case-insensitive enums to pass: %v", res.Errors)
	}
	if td := res.Candidate.(TodoCandidate); td.Time != "future" || td.Priority != "high" {
		t.Fatalf("unexpected todo %+v", td)
	}
	// absent enums are fine
	if res := n.NormalizeHabit(map[string]any{"name": "run"}); !res.Valid {
		t.Fatalf("expected habit without enums to be valid: %v", res.Errors)
	}
}

func TestNormalizeDueDate(t *testing.T) {
	n := testNormalizer()
	res := n.NormalizeTodo(map[string]any{"title": "x", "dueDate": "2026-03-04T10:00:00Z"})
	if !res.Valid {
		t.Fatalf("expected valid: %v", res.Errors)
	}
	if got := res.Candidate.(TodoCandidate).DueDate; got != "2026-03-04" {
		t.Fatalf("unexpected due date %q", got)
	}
	if res := n.NormalizeTodo(map[string]any{"title": "x", "dueDate": "next tuesday"}); res.Valid {
		t.Fatalf("expected invalid due date to fail")
	}
}

func TestNormalizeDefaultsPerKind(t *testing.T) {
	n := testNormalizer()
	if c := n.NormalizeTodo(map[string]any{"title": "x"}).Candidate.Score(); c != 0.7 {
		t.Fatalf("todo default %v", c)
	}
	if c := n.NormalizeMedia(map[string]any{"title": "x", "confidence": 7.0}).Candidate.Score(); c != 0.7 {
		t.Fatalf("media default %v", c)
	}
	if c := n.NormalizeHabit(map[string]any{"name": "x", "confidence": "high"}).Candidate.Score(); c != 0.7 {
		t.Fatalf("habit default %v", c)
	}
}

func TestNormalizeIsIdempotent(t *testing.T) {
	n := testNormalizer()
	inputs := []struct {
		kind journal.ItemType
		raw  any
	}{
		{journal.ItemMood, "happy"},
		{journal.ItemMood, map[string]any{"value": "sad", "confidence": 2.0}},
		{journal.ItemTodo, map[string]any{"title": " Call doctor ", "priority": "HIGH", "dueDate": "2026-01-02T00:00:00Z"}},
		{journal.ItemMedia, map[string]any{"title": "Dune", "type": "book", "status": "reading", "confidence": 0.4}},
		{journal.ItemHabit, map[string]any{"name": "run", "status": "missed"}},
	}
	for _, in := range inputs {
		first := n.Normalize(in.kind, in.raw)
		if !first.Valid {
			t.Fatalf("%v: expected valid: %v", in.raw, first.Errors)
		}
		second := n.Normalize(in.kind, first.Candidate.Raw())
		if !second.Valid || !reflect.DeepEqual(first.Candidate, second.Candidate) {
			t.Fatalf("drift: %+v -> %+v", first.Candidate, second.Candidate)
		}
		third := n.Normalize(in.kind, first.Candidate)
		if !reflect.DeepEqual(first.Candidate, third.Candidate) {
			t.Fatalf("typed drift: %+v -> %+v", first.Candidate, third.Candidate)
		}
	}
}
