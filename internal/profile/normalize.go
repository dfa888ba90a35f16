package profile

import "strings"

// legacyPaceValues maps the textual pace choices used by early snapshot
// exports onto the numeric 1-3 scale.
var legacyPaceValues = map[string]int{
	"relaxed_itinerary": 1,
	"spontaneous":       2,
	"packed_itinerary":  3,
}

// LegacyPace converts a legacy textual pace value to the numeric scale.
// Returns false when the text is not a known legacy value.
func LegacyPace(text string) (int, bool) {
	v, ok := legacyPaceValues[strings.ToLower(strings.TrimSpace(text))]
	return v, ok
}

// CanonicalGender normalizes free-form gender values to "male" or "female".
// Unrecognized or empty values fall back to a deterministic id-parity
// mapping (even id -> male, odd id -> female) so repeated runs over the
// same snapshot always produce the same output.
func CanonicalGender(gender string, id int64) string {
	switch strings.ToLower(strings.TrimSpace(gender)) {
	case "male", "m":
		return "male"
	case "female", "f":
		return "female"
	}
	if id%2 == 0 {
		return "male"
	}
	return "female"
}

// NormalizeCandidate applies the legacy-field cleanups to a candidate in
// place: gender canonicalization, scale clamping, and habit casing. It
// reports whether any field changed.
func NormalizeCandidate(c *Candidate) bool {
	changed := false

	if g := CanonicalGender(c.Gender, c.ID); g != c.Gender {
		c.Gender = g
		changed = true
	}
	if p := normalizeScale(c.Pace); p != c.Pace {
		c.Pace = p
		changed = true
	}
	if b := normalizeScale(c.Budget); b != c.Budget {
		c.Budget = b
		changed = true
	}

	for _, f := range []*string{&c.Smoking, &c.Alcohol, &c.Dietary, &c.Cleanliness, &c.Fitness} {
		if h := canonicalHabit(*f); h != *f {
			*f = h
			changed = true
		}
	}

	return changed
}
