package match

import (
	"errors"
	"fmt"
)

// Component identifies one named per-attribute similarity contributing to
// the weighted aggregate. The set is closed: weights are carried in a
// typed struct with one field per component, so an unrecognized component
// cannot be introduced at a call site, and calibration files are validated
// against the Components list at load time.
type Component string

const (
	ComponentPace         Component = "pace"
	ComponentBudget       Component = "budget"
	ComponentInterests    Component = "interests"
	ComponentStyle        Component = "style"
	ComponentSleep        Component = "sleep"
	ComponentSmoking      Component = "smoking"
	ComponentAlcohol      Component = "alcohol"
	ComponentDietary      Component = "dietary"
	ComponentCleanliness  Component = "cleanliness"
	ComponentDemographics Component = "demographics"
	ComponentBio          Component = "bio"
)

// Components lists every known component in a fixed order. The order is
// also the aggregation order, which keeps floating-point summation
// deterministic across calls.
var Components = []Component{
	ComponentPace,
	ComponentBudget,
	ComponentInterests,
	ComponentStyle,
	ComponentSleep,
	ComponentSmoking,
	ComponentAlcohol,
	ComponentDietary,
	ComponentCleanliness,
	ComponentDemographics,
	ComponentBio,
}

// Weight configuration errors.
var (
	// ErrZeroWeightSum marks a configuration whose weights sum to zero.
	// Aggregation is undefined in that case; it is a fatal configuration
	// error, never silently treated as an all-zero score.
	ErrZeroWeightSum = errors.New("weight configuration sums to zero")

	// ErrNegativeWeight marks a configuration containing a negative weight.
	ErrNegativeWeight = errors.New("weight configuration contains a negative weight")

	// ErrUnknownComponent marks a calibration entry whose key is not a
	// known component.
	ErrUnknownComponent = errors.New("unknown component in weight configuration")
)

// Weights assigns a non-negative weight to each component. Weights need
// not sum to 1; the aggregator normalizes by their sum.
type Weights struct {
	Pace         float64 `json:"pace"`
	Budget       float64 `json:"budget"`
	Interests    float64 `json:"interests"`
	Style        float64 `json:"style"`
	Sleep        float64 `json:"sleep"`
	Smoking      float64 `json:"smoking"`
	Alcohol      float64 `json:"alcohol"`
	Dietary      float64 `json:"dietary"`
	Cleanliness  float64 `json:"cleanliness"`
	Demographics float64 `json:"demographics"`
	Bio          float64 `json:"bio"`
}

// get returns the weight for a component.
func (w *Weights) get(c Component) float64 {
	switch c {
	case ComponentPace:
		return w.Pace
	case ComponentBudget:
		return w.Budget
	case ComponentInterests:
		return w.Interests
	case ComponentStyle:
		return w.Style
	case ComponentSleep:
		return w.Sleep
	case ComponentSmoking:
		return w.Smoking
	case ComponentAlcohol:
		return w.Alcohol
	case ComponentDietary:
		return w.Dietary
	case ComponentCleanliness:
		return w.Cleanliness
	case ComponentDemographics:
		return w.Demographics
	case ComponentBio:
		return w.Bio
	}
	return 0.0
}

// set assigns the weight for a component. Returns ErrUnknownComponent for
// keys outside the closed set; used by calibration loading.
func (w *Weights) set(c Component, v float64) error {
	switch c {
	case ComponentPace:
		w.Pace = v
	case ComponentBudget:
		w.Budget = v
	case ComponentInterests:
		w.Interests = v
	case ComponentStyle:
		w.Style = v
	case ComponentSleep:
		w.Sleep = v
	case ComponentSmoking:
		w.Smoking = v
	case ComponentAlcohol:
		w.Alcohol = v
	case ComponentDietary:
		w.Dietary = v
	case ComponentCleanliness:
		w.Cleanliness = v
	case ComponentDemographics:
		w.Demographics = v
	case ComponentBio:
		w.Bio = v
	default:
		return fmt.Errorf("%w: %q", ErrUnknownComponent, c)
	}
	return nil
}

// Sum returns the total of all component weights.
func (w *Weights) Sum() float64 {
	total := 0.0
	for _, c := range Components {
		total += w.get(c)
	}
	return total
}

// Validate rejects negative weights and a zero weight sum.
func (w *Weights) Validate() error {
	for _, c := range Components {
		if w.get(c) < 0 {
			return fmt.Errorf("%w: %s = %f", ErrNegativeWeight, c, w.get(c))
		}
	}
	if w.Sum() <= 0 {
		return ErrZeroWeightSum
	}
	return nil
}

// componentScores carries the computed per-component similarities for one
// candidate. A component the strategy did not compute stays at zero; its
// weight still divides the aggregate denominator, so configuring a weight
// for an uncomputed component lowers the score instead of being silently
// ignored.
type componentScores struct {
	pace         float64
	budget       float64
	interests    float64
	style        float64
	sleep        float64
	smoking      float64
	alcohol      float64
	dietary      float64
	cleanliness  float64
	demographics float64
	bio          float64
}

// get returns the score for a component.
func (s *componentScores) get(c Component) float64 {
	switch c {
	case ComponentPace:
		return s.pace
	case ComponentBudget:
		return s.budget
	case ComponentInterests:
		return s.interests
	case ComponentStyle:
		return s.style
	case ComponentSleep:
		return s.sleep
	case ComponentSmoking:
		return s.smoking
	case ComponentAlcohol:
		return s.alcohol
	case ComponentDietary:
		return s.dietary
	case ComponentCleanliness:
		return s.cleanliness
	case ComponentDemographics:
		return s.demographics
	case ComponentBio:
		return s.bio
	}
	return 0.0
}

// Aggregate combines component scores into a single raw compatibility
// score in [0,1]: sum(w_i * s_i) / sum(w_i). The caller must have
// validated the weights; a zero sum returns ErrZeroWeightSum.
func (w *Weights) Aggregate(scores *componentScores) (float64, error) {
	total := w.Sum()
	if total <= 0 {
		return 0, ErrZeroWeightSum
	}
	weighted := 0.0
	for _, c := range Components {
		weighted += w.get(c) * scores.get(c)
	}
	return weighted / total, nil
}
