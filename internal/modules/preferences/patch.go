package preferences

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/datatypes"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/domain/user"
	pkgerrors "github.com/yungbote/lifelog-backend/internal/pkg/errors"
)

var PromptStyles = []string{"balanced", "conservative", "exploratory"}

const (
	DefaultPromptStyle = "balanced"
	maxTopics          = 20
	maxTopicLen        = 64
)

// Patch is the complete set of fields a client may change. Nil means unchanged.
type Patch struct {
	SuggestionTypes        *[]string `json:"suggestionTypes,omitempty"`
	ConfidenceThreshold    *float64  `json:"confidenceThreshold,omitempty"`
	PromptStyle            *string   `json:"promptStyle,omitempty"`
	TopicsOfInterest       *[]string `json:"topicsOfInterest,omitempty"`
	AutoAdjustThreshold    *bool     `json:"autoAdjustThreshold,omitempty"`
	MinConfidenceThreshold *float64  `json:"minConfidenceThreshold,omitempty"`
	MaxConfidenceThreshold *float64  `json:"maxConfidenceThreshold,omitempty"`
}

func (p Patch) Empty() bool {
	return p.SuggestionTypes == nil && p.ConfidenceThreshold == nil && p.PromptStyle == nil &&
		p.TopicsOfInterest == nil && p.AutoAdjustThreshold == nil &&
		p.MinConfidenceThreshold == nil && p.MaxConfidenceThreshold == nil
}

func invalidf(format string, args ...any) error {
	return fmt.Errorf("%w: "+format, append([]any{pkgerrors.ErrInvalidArgument}, args...)...)
}

func checkUnit(name string, v *float64) error {
	if v != nil && !unitInterval(*v) {
		return invalidf("%s must be within [0,1]", name)
	}
	return nil
}

// applyPatch validates patch against p and applies it atomically: on error p is untouched.
func applyPatch(p *user.UserPreferences, patch Patch, now time.Time) (bool, error) {
	if patch.Empty() {
		return false, nil
	}
	for name, v := range map[string]*float64{
		"confidenceThreshold":    patch.ConfidenceThreshold,
		"minConfidenceThreshold": patch.MinConfidenceThreshold,
		"maxConfidenceThreshold": patch.MaxConfidenceThreshold,
	} {
		if err := checkUnit(name, v); err != nil {
			return false, err
		}
	}

	lo, hi := p.MinConfidenceThreshold, p.MaxConfidenceThreshold
	if patch.MinConfidenceThreshold != nil {
		lo = *patch.MinConfidenceThreshold
	}
	if patch.MaxConfidenceThreshold != nil {
		hi = *patch.MaxConfidenceThreshold
	}
	if lo > hi {
		return false, invalidf("minConfidenceThreshold (%v) exceeds maxConfidenceThreshold (%v)", lo, hi)
	}
	threshold := clamp(p.ConfidenceThreshold, lo, hi)
	if patch.ConfidenceThreshold != nil {
		threshold = *patch.ConfidenceThreshold
		if threshold < lo || threshold > hi {
			return false, invalidf("confidenceThreshold (%v) outside [%v,%v]", threshold, lo, hi)
		}
	}

	var types []string
	if patch.SuggestionTypes != nil {
		seen := map[journal.SuggestionType]bool{}
		types = []string{}
		for _, raw := range *patch.SuggestionTypes {
			st, ok := journal.ParseSuggestionType(raw)
			if !ok {
				return false, invalidf("unknown suggestion type %q", raw)
			}
			if !seen[st] {
				seen[st] = true
				types = append(types, string(st))
			}
		}
	}

	style := p.PromptStyle
	if patch.PromptStyle != nil {
		style = strings.ToLower(strings.TrimSpace(*patch.PromptStyle))
		if !journal.OneOf(style, PromptStyles) {
			return false, invalidf("promptStyle must be one of %s", strings.Join(PromptStyles, ", "))
		}
	}

	var topics []string
	if patch.TopicsOfInterest != nil {
		topics = cleanTopics(*patch.TopicsOfInterest)
		if len(topics) > maxTopics {
			return false, invalidf("at most %d topicsOfInterest", maxTopics)
		}
	}

	p.MinConfidenceThreshold = lo
	p.MaxConfidenceThreshold = hi
	p.ConfidenceThreshold = threshold
	p.PromptStyle = style
	if types != nil {
		p.SuggestionTypes = datatypes.JSONSlice[string](types)
	}
	if topics != nil {
		p.TopicsOfInterest = datatypes.JSONSlice[string](topics)
	}
	if patch.AutoAdjustThreshold != nil {
		p.AutoAdjustThreshold = *patch.AutoAdjustThreshold
	}
	p.Version++
	p.LastUpdated = now
	return true, nil
}

func cleanTopics(in []string) []string {
	out := []string{}
	seen := map[string]bool{}
	for _, t := range in {
		t = strings.TrimSpace(t)
		if t == "" {
			continue
		}
		if r := []rune(t); len(r) > maxTopicLen {
			t = strings.TrimSpace(string(r[:maxTopicLen]))
		}
		k := strings.ToLower(t)
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	return out
}
