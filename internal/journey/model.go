// Package journey records the selection audit trail: for each ranking
// request, which candidates were suggested and which the traveler actually
// picked, together with the scores that produced the suggestion. The trail
// is what later weight calibration is derived from.
package journey

import (
	"errors"
	"fmt"
	"time"

	"github.com/debbielamxy/WanderTogether/internal/profile"
)

// Selection limits. A submission must pick at least one suggested
// companion and at most the full shortlist.
const (
	MinSelections = 1
	MaxSelections = 6
)

// Journey validation errors.
var (
	ErrNoSelections        = errors.New("journey has no selections")
	ErrTooManySelections   = errors.New("journey exceeds the selection limit")
	ErrSelectionNotOffered = errors.New("selected profile was not among the suggestions")
)

// Selection is one chosen companion with the scores it was suggested at.
type Selection struct {
	ProfileID  int64   `json:"profile_id"`
	RawScore   float64 `json:"raw_score"`
	FinalScore float64 `json:"final_score"`
	Trust      float64 `json:"trust"`
}

// Journey is one completed request/selection round trip.
type Journey struct {
	ID               string        `json:"id"`
	Query            profile.Query `json:"query"`
	SuggestedIDs     []int64       `json:"suggested_ids"`
	Selections       []Selection   `json:"selections"`
	AlgorithmVersion string        `json:"algorithm_version"`
	CreatedAt        time.Time     `json:"created_at"`
}

// Validate checks the selection count and that every selection was among
// the suggested profiles.
func (j *Journey) Validate() error {
	if len(j.Selections) < MinSelections {
		return ErrNoSelections
	}
	if len(j.Selections) > MaxSelections {
		return fmt.Errorf("%w: %d > %d", ErrTooManySelections, len(j.Selections), MaxSelections)
	}

	offered := make(map[int64]struct{}, len(j.SuggestedIDs))
	for _, id := range j.SuggestedIDs {
		offered[id] = struct{}{}
	}
	for _, s := range j.Selections {
		if _, ok := offered[s.ProfileID]; !ok {
			return fmt.Errorf("%w: profile %d", ErrSelectionNotOffered, s.ProfileID)
		}
	}
	return nil
}
