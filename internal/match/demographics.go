package match

import (
	"strings"

	"github.com/debbielamxy/WanderTogether/internal/profile"
)

// DemographicsVariant selects which demographics scorer a strategy uses.
// The two variants are deliberately kept as named alternatives rather than
// reconciled: the strict one is safety-biased and weighs gender far above
// age proximity.
type DemographicsVariant int

const (
	// DemographicsLenient sums gender equality and coarse age-proximity
	// tiers, normalized by the two achievable points.
	DemographicsLenient DemographicsVariant = iota

	// DemographicsStrict blends 0.7*gender + 0.3*ageTier with finer age
	// bands. Used by the safety-focused strategies.
	DemographicsStrict
)

// String returns the variant name used in configuration and logs.
func (v DemographicsVariant) String() string {
	switch v {
	case DemographicsStrict:
		return "strict"
	default:
		return "lenient"
	}
}

// genderMatch returns 1.0 on case-insensitive equality when both sides are
// known, 0.0 otherwise (including absence on either side).
func genderMatch(a, b string) float64 {
	if a == "" || b == "" {
		return 0.0
	}
	if strings.EqualFold(a, b) {
		return 1.0
	}
	return 0.0
}

// ageDiff returns the absolute age difference and whether both ages are known.
func ageDiff(a, b *int) (int, bool) {
	if a == nil || b == nil {
		return 0, false
	}
	d := *a - *b
	if d < 0 {
		d = -d
	}
	return d, true
}

// DemographicsScore computes the demographics similarity in [0,1] for the
// given variant.
//
// Lenient: gender equality contributes 1.0 and age proximity contributes
// tiered credit (<=5 years -> 1.0, <=10 -> 0.5, else 0.0); the sum is
// divided by 2, the maximum achievable.
//
// Strict: 0.7*genderMatch + 0.3*ageTier with bands <=3 -> 1.0, <=7 -> 0.6,
// <=12 -> 0.3, else 0.0.
func DemographicsScore(v DemographicsVariant, q profile.Query, c *profile.Candidate) float64 {
	switch v {
	case DemographicsStrict:
		age := 0.0
		if diff, ok := ageDiff(q.Age, c.Age); ok {
			switch {
			case diff <= 3:
				age = 1.0
			case diff <= 7:
				age = 0.6
			case diff <= 12:
				age = 0.3
			}
		}
		return 0.7*genderMatch(q.Gender, c.Gender) + 0.3*age

	default:
		score := genderMatch(q.Gender, c.Gender)
		if diff, ok := ageDiff(q.Age, c.Age); ok {
			switch {
			case diff <= 5:
				score += 1.0
			case diff <= 10:
				score += 0.5
			}
		}
		if score > 2.0 {
			score = 2.0
		}
		return score / 2.0
	}
}
