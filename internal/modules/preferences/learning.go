package preferences

import (
	"fmt"
	"math"
	"time"

	"github.com/yungbote/lifelog-backend/internal/domain/journal"
	"github.com/yungbote/lifelog-backend/internal/domain/user"
	"github.com/yungbote/lifelog-backend/internal/pipelinecfg"
	pkgerrors "github.com/yungbote/lifelog-backend/internal/pkg/errors"
)

type Action string

const (
	ActionAccepted Action = "accepted"
	ActionRejected Action = "rejected"
)

func ParseAction(s string) (Action, bool) {
	switch Action(s) {
	case ActionAccepted, ActionRejected:
		return Action(s), true
	default:
		return "", false
	}
}

// Outcome is one user decision on one suggestion.
type Outcome struct {
	ItemType   journal.SuggestionType `json:"itemType"`
	Action     Action                 `json:"action"`
	Confidence float64                `json:"confidence"`
}

func (o Outcome) Validate() error {
	if _, ok := journal.ParseSuggestionType(string(o.ItemType)); !ok {
		return fmt.Errorf("%w: unknown item type %q", pkgerrors.ErrInvalidArgument, o.ItemType)
	}
	if _, ok := ParseAction(string(o.Action)); !ok {
		return fmt.Errorf("%w: action must be accepted or rejected", pkgerrors.ErrInvalidArgument)
	}
	if o.Action == ActionAccepted && !unitInterval(o.Confidence) {
		return fmt.Errorf("%w: confidence must be within [0,1]", pkgerrors.ErrInvalidArgument)
	}
	return nil
}

func unitInterval(x float64) bool {
	return !math.IsNaN(x) && !math.IsInf(x, 0) && x >= 0 && x <= 1
}

// applyOutcome bumps counters and the running accepted-confidence mean. It never touches Version.
func applyOutcome(p *user.UserPreferences, o Outcome, now time.Time) {
	patterns := p.Patterns()
	key := string(o.ItemType)
	pat := patterns[key]
	switch o.Action {
	case ActionAccepted:
		pat.Accepted++
		pat.AverageConfidence += (o.Confidence - pat.AverageConfidence) / float64(pat.Accepted)
	case ActionRejected:
		pat.Rejected++
	}
	patterns[key] = pat
	p.SetPatterns(patterns)
	p.LastUpdated = now
}

// Adjustment describes what one auto-adjust pass did.
type Adjustment struct {
	Applied        bool    `json:"applied"`
	Reason         string  `json:"reason"`
	Interactions   int     `json:"interactions"`
	AcceptanceRate float64 `json:"acceptanceRate"`
	From           float64 `json:"from"`
	To             float64 `json:"to"`
}

const (
	reasonDisabled = "auto-adjust disabled"
	reasonSparse   = "not enough interactions"
	reasonBand     = "acceptance rate inside hysteresis band"
	reasonAtFloor  = "threshold already at floor"
	reasonAtCeil   = "threshold already at ceiling"
	reasonLowered  = "high acceptance, threshold lowered"
	reasonRaised   = "low acceptance, threshold raised"
)

// roundThreshold keeps repeated ±step moves from accumulating float noise.
func roundThreshold(x float64) float64 {
	return math.Round(x*1e4) / 1e4
}

func clamp(x, lo, hi float64) float64 {
	if x < lo {
		return lo
	}
	if x > hi {
		return hi
	}
	return x
}

// adjust applies one bounded auto-adjust step. Version is bumped only when the threshold moves.
func adjust(p *user.UserPreferences, cfg pipelinecfg.AutoAdjust, now time.Time) Adjustment {
	acc, rej := p.Totals()
	total := acc + rej
	out := Adjustment{Interactions: total, From: p.ConfidenceThreshold, To: p.ConfidenceThreshold}
	if total > 0 {
		out.AcceptanceRate = float64(acc) / float64(total)
	}
	if !p.AutoAdjustThreshold {
		out.Reason = reasonDisabled
		return out
	}
	if total < cfg.MinInteractions {
		out.Reason = reasonSparse
		return out
	}

	cur := p.ConfidenceThreshold
	next := cur
	switch {
	case out.AcceptanceRate > cfg.LowerAbove:
		if cur <= p.MinConfidenceThreshold {
			out.Reason = reasonAtFloor
			return out
		}
		next = clamp(roundThreshold(cur-cfg.Step), p.MinConfidenceThreshold, p.MaxConfidenceThreshold)
		out.Reason = reasonLowered
	case out.AcceptanceRate < cfg.RaiseBelow:
		if cur >= p.MaxConfidenceThreshold {
			out.Reason = reasonAtCeil
			return out
		}
		next = clamp(roundThreshold(cur+cfg.Step), p.MinConfidenceThreshold, p.MaxConfidenceThreshold)
		out.Reason = reasonRaised
	default:
		out.Reason = reasonBand
		return out
	}

	if next == cur {
		return out
	}
	p.ConfidenceThreshold = next
	p.Version++
	p.LastUpdated = now
	out.Applied = true
	out.To = next
	return out
}
