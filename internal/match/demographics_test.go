package match

import (
	"testing"

	"github.com/debbielamxy/WanderTogether/internal/profile"
)

func intPtr(v int) *int { return &v }

func TestDemographicsVariantString(t *testing.T) {
	if got := DemographicsLenient.String(); got != "lenient" {
		t.Errorf("lenient variant name = %q", got)
	}
	if got := DemographicsStrict.String(); got != "strict" {
		t.Errorf("strict variant name = %q", got)
	}
}

func TestDemographicsScoreLenient(t *testing.T) {
	tests := []struct {
		name     string
		query    profile.Query
		cand     profile.Candidate
		expected float64
	}{
		{
			name:     "gender and close age",
			query:    profile.Query{Gender: "female", Age: intPtr(28)},
			cand:     profile.Candidate{Gender: "female", Age: intPtr(30)},
			expected: 1.0, // (1 + 1) / 2
		},
		{
			name:     "gender and mid age gap",
			query:    profile.Query{Gender: "female", Age: intPtr(28)},
			cand:     profile.Candidate{Gender: "female", Age: intPtr(36)},
			expected: 0.75, // (1 + 0.5) / 2
		},
		{
			name:     "gender only, far age",
			query:    profile.Query{Gender: "male", Age: intPtr(25)},
			cand:     profile.Candidate{Gender: "male", Age: intPtr(45)},
			expected: 0.5,
		},
		{
			name:     "age only",
			query:    profile.Query{Gender: "female", Age: intPtr(28)},
			cand:     profile.Candidate{Gender: "male", Age: intPtr(29)},
			expected: 0.5,
		},
		{
			name:     "gender case insensitive",
			query:    profile.Query{Gender: "Female"},
			cand:     profile.Candidate{Gender: "female"},
			expected: 0.5,
		},
		{
			name:     "missing ages contribute nothing",
			query:    profile.Query{Gender: "female"},
			cand:     profile.Candidate{Gender: "female", Age: intPtr(30)},
			expected: 0.5,
		},
		{
			name:     "nothing known",
			query:    profile.Query{},
			cand:     profile.Candidate{},
			expected: 0.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DemographicsScore(DemographicsLenient, tt.query, &tt.cand)
			if !almostEqual(got, tt.expected) {
				t.Errorf("lenient score = %f, want %f", got, tt.expected)
			}
		})
	}
}

func TestDemographicsScoreStrict(t *testing.T) {
	tests := []struct {
		name     string
		query    profile.Query
		cand     profile.Candidate
		expected float64
	}{
		{
			name:     "gender and tight age band",
			query:    profile.Query{Gender: "female", Age: intPtr(28)},
			cand:     profile.Candidate{Gender: "female", Age: intPtr(30)},
			expected: 1.0, // 0.7 + 0.3*1.0
		},
		{
			name:     "gender and second band",
			query:    profile.Query{Gender: "female", Age: intPtr(28)},
			cand:     profile.Candidate{Gender: "female", Age: intPtr(34)},
			expected: 0.88, // 0.7 + 0.3*0.6
		},
		{
			name:     "gender and third band",
			query:    profile.Query{Gender: "female", Age: intPtr(28)},
			cand:     profile.Candidate{Gender: "female", Age: intPtr(39)},
			expected: 0.79, // 0.7 + 0.3*0.3
		},
		{
			name:     "gender only beyond bands",
			query:    profile.Query{Gender: "female", Age: intPtr(28)},
			cand:     profile.Candidate{Gender: "female", Age: intPtr(50)},
			expected: 0.7,
		},
		{
			name:     "age only",
			query:    profile.Query{Gender: "female", Age: intPtr(28)},
			cand:     profile.Candidate{Gender: "male", Age: intPtr(28)},
			expected: 0.3,
		},
		{
			name:     "missing gender contributes nothing",
			query:    profile.Query{Age: intPtr(28)},
			cand:     profile.Candidate{Gender: "female", Age: intPtr(28)},
			expected: 0.3,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := DemographicsScore(DemographicsStrict, tt.query, &tt.cand)
			if !almostEqual(got, tt.expected) {
				t.Errorf("strict score = %f, want %f", got, tt.expected)
			}
		})
	}
}
