package user

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AcceptancePattern accumulates accept/reject outcomes for one item type.
// AverageConfidence is the running mean of confidences the user accepted.
type AcceptancePattern struct {
	Accepted          int     `json:"accepted"`
	Rejected          int     `json:"rejected"`
	AverageConfidence float64 `json:"averageConfidence"`
}

func (p AcceptancePattern) Total() int { return p.Accepted + p.Rejected }

type AcceptancePatterns map[string]AcceptancePattern

// UserPreferences is the per-user state of the suggestion pipeline. One row per user.
type UserPreferences struct {
	ID     uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex" json:"userId"`

	SuggestionTypes     datatypes.JSONSlice[string]            `gorm:"column:suggestion_types" json:"suggestionTypes"`
	ConfidenceThreshold float64                                `gorm:"column:confidence_threshold;not null" json:"confidenceThreshold"`
	PromptStyle         string                                 `gorm:"column:prompt_style;not null;default:'balanced'" json:"promptStyle"`
	TopicsOfInterest    datatypes.JSONSlice[string]            `gorm:"column:topics_of_interest" json:"topicsOfInterest"`
	AcceptancePatterns  datatypes.JSONType[AcceptancePatterns] `gorm:"column:acceptance_patterns" json:"acceptancePatterns"`

	AutoAdjustThreshold    bool    `gorm:"column:auto_adjust_threshold;not null;default:true" json:"autoAdjustThreshold"`
	MinConfidenceThreshold float64 `gorm:"column:min_confidence_threshold;not null" json:"minConfidenceThreshold"`
	MaxConfidenceThreshold float64 `gorm:"column:max_confidence_threshold;not null" json:"maxConfidenceThreshold"`

	Version     int       `gorm:"not null;default:1" json:"version"`
	LastUpdated time.Time `gorm:"column:last_updated;not null;index" json:"lastUpdated"`
	CreatedAt   time.Time `json:"createdAt"`
}

func (UserPreferences) TableName() string { return "user_preferences" }

// Patterns returns a mutable copy of the acceptance counters.
func (p *UserPreferences) Patterns() AcceptancePatterns {
	out := AcceptancePatterns{}
	for k, v := range p.AcceptancePatterns.Data() {
		out[k] = v
	}
	return out
}

func (p *UserPreferences) SetPatterns(patterns AcceptancePatterns) {
	p.AcceptancePatterns = datatypes.NewJSONType(patterns)
}

// Totals sums outcomes across every item type.
func (p *UserPreferences) Totals() (accepted, rejected int) {
	for _, v := range p.AcceptancePatterns.Data() {
		accepted += v.Accepted
		rejected += v.Rejected
	}
	return accepted, rejected
}

// Clone deep-copies the row so callers can mutate without aliasing slices or maps.
func (p *UserPreferences) Clone() *UserPreferences {
	if p == nil {
		return nil
	}
	cp := *p
	cp.SuggestionTypes = append(datatypes.JSONSlice[string]{}, p.SuggestionTypes...)
	cp.TopicsOfInterest = append(datatypes.JSONSlice[string]{}, p.TopicsOfInterest...)
	cp.SetPatterns(p.Patterns())
	return &cp
}
