// Package survey derives empirical ranking weights from companion-survey
// responses. Each respondent names the factors that matter to them when
// choosing a travel companion; a factor's weight is the share of
// respondents who named it.
package survey

import (
	"errors"
	"fmt"

	"github.com/debbielamxy/WanderTogether/internal/match"
)

// ErrNoRespondents is returned when weights are derived from an empty
// survey.
var ErrNoRespondents = errors.New("survey has no respondents")

// FactorCounts holds, per compatibility factor, the number of respondents
// who named it as important.
type FactorCounts struct {
	Respondents int

	Pace      int
	Budget    int
	Interests int
	Style     int
	Sleep     int

	// Gender and age preferences fold into the single demographics
	// component of the engine.
	Gender int
	Age    int
}

// DeriveWeights converts factor counts into engine weights: each
// component's weight is the fraction of respondents who named the factor.
// Gender and age counts are averaged into the demographics component.
// The result is validated before being returned.
func DeriveWeights(counts FactorCounts) (match.Weights, error) {
	if counts.Respondents <= 0 {
		return match.Weights{}, ErrNoRespondents
	}

	n := float64(counts.Respondents)
	w := match.Weights{
		Pace:         float64(counts.Pace) / n,
		Budget:       float64(counts.Budget) / n,
		Interests:    float64(counts.Interests) / n,
		Style:        float64(counts.Style) / n,
		Sleep:        float64(counts.Sleep) / n,
		Demographics: (float64(counts.Gender) + float64(counts.Age)) / (2 * n),
	}

	if err := w.Validate(); err != nil {
		return match.Weights{}, fmt.Errorf("derive survey weights: %w", err)
	}
	return w, nil
}

// ReferenceWeights returns the fixed fallback derived from the original
// companion survey, for use when no fresh survey data is available.
func ReferenceWeights() match.Weights {
	return match.Weights{
		Pace:         0.12,
		Budget:       0.15,
		Interests:    0.18,
		Style:        0.10,
		Sleep:        0.08,
		Demographics: 0.22,
	}
}
