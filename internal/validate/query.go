// Package validate provides input validation for the ranking API. It
// bounds the size of user-supplied profile fields before they reach the
// scoring engine.
package validate

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/debbielamxy/WanderTogether/internal/profile"
)

// Validation errors.
var (
	ErrStringTooLong = errors.New("string is too long")
	ErrListTooLong   = errors.New("list has too many entries")
	ErrAgeOutOfRange = errors.New("age is out of range")
)

// Field size limits. Out-of-range pace and budget values are not rejected
// here; the scoring engine degrades them to the scale midpoint.
const (
	MaxNameLength     = 120
	MaxBioLength      = 2000
	MaxHabitLength    = 60
	MaxInterestLength = 100
	MaxInterests      = 25
	MaxSleepEntries   = 10

	MinAge = 13
	MaxAge = 120
)

// StringConstraints defines validation constraints for a string field.
type StringConstraints struct {
	MaxLength int  // Maximum length in runes (0 = no maximum)
	TrimSpace bool // Whether to trim whitespace before validation
}

// String validates a string against the given constraints. Returns the
// validated (and optionally trimmed) string and an error if it fails.
func String(s string, c StringConstraints) (string, error) {
	if c.TrimSpace {
		s = strings.TrimSpace(s)
	}
	if c.MaxLength > 0 {
		if length := utf8.RuneCountInString(s); length > c.MaxLength {
			return "", fmt.Errorf("%w: got %d chars, maximum is %d", ErrStringTooLong, length, c.MaxLength)
		}
	}
	return s, nil
}

// StringList validates every entry of a list against the given
// constraints and bounds the entry count.
func StringList(list []string, maxEntries int, c StringConstraints) error {
	if maxEntries > 0 && len(list) > maxEntries {
		return fmt.Errorf("%w: got %d entries, maximum is %d", ErrListTooLong, len(list), maxEntries)
	}
	for i, s := range list {
		if _, err := String(s, c); err != nil {
			return fmt.Errorf("entry %d: %w", i, err)
		}
	}
	return nil
}

// Query checks the size bounds of a ranking query profile. It rejects
// oversized text fields and implausible ages but leaves semantic defaults
// (midpoint pace, unknown habits) to the scoring engine.
func Query(q *profile.Query) error {
	fields := []struct {
		name  string
		value string
		max   int
	}{
		{"name", q.Name, MaxNameLength},
		{"gender", q.Gender, MaxHabitLength},
		{"style", q.Style, MaxHabitLength},
		{"smoking", q.Smoking, MaxHabitLength},
		{"alcohol", q.Alcohol, MaxHabitLength},
		{"dietary", q.Dietary, MaxHabitLength},
		{"cleanliness", q.Cleanliness, MaxHabitLength},
		{"fitness", q.Fitness, MaxHabitLength},
		{"bio", q.Bio, MaxBioLength},
	}
	for _, f := range fields {
		if _, err := String(f.value, StringConstraints{MaxLength: f.max}); err != nil {
			return fmt.Errorf("%s: %w", f.name, err)
		}
	}

	if err := StringList(q.Interests, MaxInterests, StringConstraints{MaxLength: MaxInterestLength}); err != nil {
		return fmt.Errorf("interests: %w", err)
	}
	if err := StringList(q.Sleep, MaxSleepEntries, StringConstraints{MaxLength: MaxHabitLength}); err != nil {
		return fmt.Errorf("sleep: %w", err)
	}

	if q.Age != nil && (*q.Age < MinAge || *q.Age > MaxAge) {
		return fmt.Errorf("%w: %d", ErrAgeOutOfRange, *q.Age)
	}
	return nil
}
