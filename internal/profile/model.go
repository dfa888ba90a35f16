// Package profile provides the traveler profile models and the candidate
// pool repository used by the matching engine.
package profile

import "strings"

// Pace and budget both live on a 1-3 scale. The midpoint is used as the
// deterministic default whenever a value is missing or malformed, so a
// sparse profile degrades to neutral rather than being rejected.
const (
	ScaleMin      = 1
	ScaleMax      = 3
	ScaleMidpoint = 2
)

// Query is the requesting user's profile for a single ranking call.
// It is constructed once per request from parsed form input and is
// read-only for the duration of the call.
type Query struct {
	Name      string   `json:"name"`
	Age       *int     `json:"age,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Pace      int      `json:"pace"`
	Budget    int      `json:"budget"`
	Style     string   `json:"style"`
	Interests []string `json:"interests"`
	Sleep     []string `json:"sleep"`

	// Lifestyle habits, compared as trimmed lowercase strings.
	// Empty means unknown.
	Smoking     string `json:"smoking,omitempty"`
	Alcohol     string `json:"alcohol,omitempty"`
	Dietary     string `json:"dietary,omitempty"`
	Cleanliness string `json:"cleanliness,omitempty"`
	Fitness     string `json:"fitness,omitempty"`

	Bio string `json:"bio,omitempty"`
}

// Candidate is one member of the candidate pool. It has the same attribute
// shape as Query plus a stable ID and a verification trust signal.
type Candidate struct {
	ID     int64   `json:"id"`
	Name   string  `json:"name"`
	Trust  float64 `json:"trust"` // conventionally in [0,1]

	Age       *int     `json:"age,omitempty"`
	Gender    string   `json:"gender,omitempty"`
	Pace      int      `json:"pace"`
	Budget    int      `json:"budget"`
	Style     string   `json:"style"`
	Interests []string `json:"interests"`
	Sleep     []string `json:"sleep"`

	Smoking     string `json:"smoking,omitempty"`
	Alcohol     string `json:"alcohol,omitempty"`
	Dietary     string `json:"dietary,omitempty"`
	Cleanliness string `json:"cleanliness,omitempty"`
	Fitness     string `json:"fitness,omitempty"`

	Bio string `json:"bio,omitempty"`
}

// Normalize returns a copy of the query with deterministic defaults applied:
// pace and budget outside the 1-3 scale fall back to the midpoint, and habit
// strings are canonicalized to trimmed lowercase. The original is not
// modified.
func (q Query) Normalize() Query {
	q.Pace = normalizeScale(q.Pace)
	q.Budget = normalizeScale(q.Budget)
	q.Smoking = canonicalHabit(q.Smoking)
	q.Alcohol = canonicalHabit(q.Alcohol)
	q.Dietary = canonicalHabit(q.Dietary)
	q.Cleanliness = canonicalHabit(q.Cleanliness)
	q.Fitness = canonicalHabit(q.Fitness)
	q.Gender = strings.TrimSpace(q.Gender)
	return q
}

// normalizeScale maps any value outside the 1-3 scale to the midpoint.
func normalizeScale(v int) int {
	if v < ScaleMin || v > ScaleMax {
		return ScaleMidpoint
	}
	return v
}

// canonicalHabit trims and lowercases a habit string so that comparisons
// are case- and whitespace-insensitive. Empty stays empty (unknown).
func canonicalHabit(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// PaceOrDefault returns the candidate's pace, or the scale midpoint when
// the stored value is missing or out of range.
func (c *Candidate) PaceOrDefault() int {
	return normalizeScale(c.Pace)
}

// BudgetOrDefault returns the candidate's budget, or the scale midpoint
// when the stored value is missing or out of range.
func (c *Candidate) BudgetOrDefault() int {
	return normalizeScale(c.Budget)
}
