package preferences

import (
	"sort"

	"github.com/yungbote/lifelog-backend/internal/domain/user"
)

type TypeStats struct {
	ItemType          string  `json:"itemType"`
	Accepted          int     `json:"accepted"`
	Rejected          int     `json:"rejected"`
	Total             int     `json:"total"`
	AcceptanceRate    float64 `json:"acceptanceRate"`
	AverageConfidence float64 `json:"averageConfidence"`
}

type Stats struct {
	ByType         []TypeStats `json:"byType"`
	Accepted       int         `json:"accepted"`
	Rejected       int         `json:"rejected"`
	Total          int         `json:"total"`
	AcceptanceRate float64     `json:"acceptanceRate"`
}

// ComputeStats derives acceptance statistics from the stored counters.
func ComputeStats(p *user.UserPreferences) Stats {
	out := Stats{ByType: []TypeStats{}}
	if p == nil {
		return out
	}
	for k, v := range p.Patterns() {
		ts := TypeStats{
			ItemType:          k,
			Accepted:          v.Accepted,
			Rejected:          v.Rejected,
			Total:             v.Total(),
			AverageConfidence: v.AverageConfidence,
		}
		if ts.Total > 0 {
			ts.AcceptanceRate = float64(ts.Accepted) / float64(ts.Total)
		}
		out.ByType = append(out.ByType, ts)
		out.Accepted += v.Accepted
		out.Rejected += v.Rejected
	}
	sort.Slice(out.ByType, func(i, j int) bool { return out.ByType[i].ItemType < out.ByType[j].ItemType })
	out.Total = out.Accepted + out.Rejected
	if out.Total > 0 {
		out.AcceptanceRate = float64(out.Accepted) / float64(out.Total)
	}
	return out
}
