package pipelinecfg

import "testing"

func TestEmbeddedDefaults(t *testing.T) {
	cfg := Default()
	if cfg.ConfidenceDefaults.Mood != 0.5 || cfg.ConfidenceDefaults.Todo != 0.7 {
		t.Fatalf("unexpected confidence defaults: %+v", cfg.ConfidenceDefaults)
	}
	if cfg.AutoAdjust.MinInteractions != 10 || cfg.AutoAdjust.Step != 0.05 {
		t.Fatalf("unexpected auto-adjust tuning: %+v", cfg.AutoAdjust)
	}
	if cfg.Context.DefaultDays != 7 {
		t.Fatalf("unexpected default window: %d", cfg.Context.DefaultDays)
	}
}

func TestParseRejectsInvertedBounds(t *testing.T) {
	raw := []byte(`
confidence_defaults: {mood: 0.5, todo: 0.7, media: 0.7, habit: 0.7}
threshold: {default: 0.7, min: 0.9, max: 0.5}
auto_adjust: {min_interactions: 10, step: 0.05, lower_above: 0.8, raise_below: 0.4}
context: {default_days: 7, max_days: 90}
`)
	if _, err := Parse(raw); err == nil {
		t.Fatalf("expected error for min > max")
	}
}
