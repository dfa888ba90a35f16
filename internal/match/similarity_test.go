package match

import (
	"math"
	"testing"
)

const tolerance = 1e-9

func almostEqual(a, b float64) bool {
	return math.Abs(a-b) < tolerance
}

func TestScaleSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     int
		expected float64
	}{
		{"identical values", 2, 2, 1.0},
		{"adjacent values", 1, 2, 0.5},
		{"extreme values", 1, 3, 0.0},
		{"symmetric", 3, 1, 0.0},
		{"both midpoint defaults", 2, 2, 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ScaleSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.expected) {
				t.Errorf("ScaleSimilarity(%d, %d) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestInterestsSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected float64
	}{
		{
			name:     "identical sets",
			a:        []string{"Hiking & Nature", "Food & Culinary"},
			b:        []string{"Hiking & Nature", "Food & Culinary"},
			expected: 1.0,
		},
		{
			name:     "partial overlap normalized by larger set",
			a:        []string{"Hiking & Nature"},
			b:        []string{"Hiking & Nature", "Food & Culinary", "Museums & Art"},
			expected: 1.0 / 3.0,
		},
		{
			name:     "no overlap",
			a:        []string{"Hiking & Nature"},
			b:        []string{"Nightlife & Parties"},
			expected: 0.0,
		},
		{
			name:     "both empty scores zero",
			a:        nil,
			b:        nil,
			expected: 0.0,
		},
		{
			name:     "one empty scores zero",
			a:        []string{"Hiking & Nature"},
			b:        nil,
			expected: 0.0,
		},
		{
			name:     "duplicates deduplicated",
			a:        []string{"Hiking & Nature", "Hiking & Nature"},
			b:        []string{"Hiking & Nature"},
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := InterestsSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.expected) {
				t.Errorf("InterestsSimilarity(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestSetOverlapSimilaritiesAreSymmetric(t *testing.T) {
	pairs := []struct {
		name string
		a, b []string
	}{
		{
			name: "partial overlap",
			a:    []string{"Hiking & Nature", "Food & Culinary", "Photography"},
			b:    []string{"Hiking & Nature", "Nightlife & Parties"},
		},
		{
			name: "disjoint",
			a:    []string{"Hiking & Nature"},
			b:    []string{"Nightlife & Parties"},
		},
		{
			name: "different sizes",
			a:    []string{"early_riser", "flexible", "night_owl"},
			b:    []string{"flexible"},
		},
		{
			name: "one empty",
			a:    []string{"Hiking & Nature"},
			b:    nil,
		},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			if ab, ba := InterestsSimilarity(tt.a, tt.b), InterestsSimilarity(tt.b, tt.a); !almostEqual(ab, ba) {
				t.Errorf("InterestsSimilarity not symmetric: (a,b) = %f, (b,a) = %f", ab, ba)
			}
			if ab, ba := SleepSimilarity(tt.a, tt.b), SleepSimilarity(tt.b, tt.a); !almostEqual(ab, ba) {
				t.Errorf("SleepSimilarity not symmetric: (a,b) = %f, (b,a) = %f", ab, ba)
			}
		})
	}
}

func TestSleepSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     []string
		expected float64
	}{
		{"identical", []string{"early_riser"}, []string{"early_riser"}, 1.0},
		{"disjoint", []string{"early_riser"}, []string{"night_owl"}, 0.0},
		{"jaccard partial", []string{"early_riser", "flexible"}, []string{"flexible"}, 0.5},
		{"both empty scores zero", nil, nil, 0.0},
		{"one empty scores zero", []string{"flexible"}, nil, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SleepSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.expected) {
				t.Errorf("SleepSimilarity(%v, %v) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestStyleSimilarity(t *testing.T) {
	if got := StyleSimilarity("budget_backpacker", "budget_backpacker"); !almostEqual(got, 1.0) {
		t.Errorf("equal styles = %f, want 1.0", got)
	}
	if got := StyleSimilarity("budget_backpacker", "luxury_traveler"); !almostEqual(got, 0.0) {
		t.Errorf("different styles = %f, want 0.0", got)
	}
}

func TestHabitMatch(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"both known match", "never", "never", 1.0},
		{"both known mismatch", "never", "regularly", 0.0},
		{"first blank is neutral", "", "never", 0.5},
		{"second blank is neutral", "never", "", 0.5},
		{"both blank is neutral", "", "", 0.5},
		{"case insensitive", "Never", "never", 1.0},
		{"whitespace trimmed", " never ", "never", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := HabitMatch(tt.a, tt.b)
			if !almostEqual(got, tt.expected) {
				t.Errorf("HabitMatch(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCategoricalSimilarity(t *testing.T) {
	tests := []struct {
		name     string
		a, b     string
		expected float64
	}{
		{"both known match", "vegetarian", "vegetarian", 1.0},
		{"both known mismatch", "vegetarian", "omnivore", 0.0},
		{"one blank is neutral", "", "vegetarian", 0.5},
		{"other blank is neutral", "vegetarian", "", 0.5},
		{"both blank scores zero", "", "", 0.0},
		{"case insensitive", "Vegetarian", "vegetarian", 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CategoricalSimilarity(tt.a, tt.b)
			if !almostEqual(got, tt.expected) {
				t.Errorf("CategoricalSimilarity(%q, %q) = %f, want %f", tt.a, tt.b, got, tt.expected)
			}
		})
	}
}

func TestCategoricalDiffersFromHabitOnBothBlank(t *testing.T) {
	// The both-blank case is the one deliberate divergence between the two
	// tri-state comparisons and it changes ranking on sparse profiles.
	if h, c := HabitMatch("", ""), CategoricalSimilarity("", ""); h == c {
		t.Errorf("HabitMatch and CategoricalSimilarity should differ on both-blank, both = %f", h)
	}
}

func TestSafetyKeywordScore(t *testing.T) {
	tests := []struct {
		name       string
		query, bio string
		expected   float64
	}{
		{
			name:     "no safety tokens",
			query:    "love beaches and sunshine",
			bio:      "foodie exploring street markets",
			expected: 0.0,
		},
		{
			name:     "one hit across both bios",
			query:    "verified traveler",
			bio:      "love beaches",
			expected: 1.0 / 3.0,
		},
		{
			name:     "three hits saturate",
			query:    "verified and respectful",
			bio:      "safety first",
			expected: 1.0,
		},
		{
			name:     "duplicate tokens count once",
			query:    "verified verified verified",
			bio:      "",
			expected: 1.0 / 3.0,
		},
		{
			name:     "hyphenated keywords unreachable after punctuation strip",
			query:    "female-only groups, id-verified",
			bio:      "",
			expected: 0.0,
		},
		{
			name:     "caps above one",
			query:    "verified respectful cautious quiet",
			bio:      "calm safe trust",
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SafetyKeywordScore(tt.query, tt.bio)
			if !almostEqual(got, tt.expected) {
				t.Errorf("SafetyKeywordScore(%q, %q) = %f, want %f", tt.query, tt.bio, got, tt.expected)
			}
		})
	}
}

func TestSemanticBioScore(t *testing.T) {
	tests := []struct {
		name       string
		query, bio string
		expected   float64
	}{
		{
			name:     "full echo",
			query:    "hiking and photography",
			bio:      "hiking and photography",
			expected: 1.0,
		},
		{
			name:     "half of query tokens echoed",
			query:    "hiking photography",
			bio:      "photography museums food",
			expected: 0.5,
		},
		{
			name:     "empty query scores zero",
			query:    "",
			bio:      "hiking photography",
			expected: 0.0,
		},
		{
			name:     "punctuation stripped before matching",
			query:    "hiking, photography!",
			bio:      "hiking photography",
			expected: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := SemanticBioScore(tt.query, tt.bio)
			if !almostEqual(got, tt.expected) {
				t.Errorf("SemanticBioScore(%q, %q) = %f, want %f", tt.query, tt.bio, got, tt.expected)
			}
		})
	}
}

func TestSemanticBioScoreIsAsymmetric(t *testing.T) {
	query := "hiking"
	bio := "hiking photography museums"
	forward := SemanticBioScore(query, bio)
	reverse := SemanticBioScore(bio, query)
	if almostEqual(forward, reverse) {
		t.Errorf("expected asymmetry, forward = %f reverse = %f", forward, reverse)
	}
	if !almostEqual(forward, 1.0) {
		t.Errorf("forward = %f, want 1.0", forward)
	}
	if !almostEqual(reverse, 1.0/3.0) {
		t.Errorf("reverse = %f, want %f", reverse, 1.0/3.0)
	}
}

func TestDetectOutdoors(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		expected bool
	}{
		{"hiking keyword", "I love hiking on weekends", true},
		{"mountain keyword uppercase", "Mountain lover", true},
		{"no outdoors signal", "foodie exploring street markets", false},
		{"empty text", "", false},
		{"substring does not count", "hitchhiker guides", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectOutdoors(tt.text); got != tt.expected {
				t.Errorf("DetectOutdoors(%q) = %v, want %v", tt.text, got, tt.expected)
			}
		})
	}
}

func TestHasOutdoorSignal(t *testing.T) {
	if !HasOutdoorSignal("love hiking", nil) {
		t.Error("bio keyword should signal outdoors")
	}
	if !HasOutdoorSignal("", []string{"Camping & Outdoors"}) {
		t.Error("structured interest tag should signal outdoors")
	}
	if HasOutdoorSignal("city breaks", []string{"Nightlife & Parties"}) {
		t.Error("no outdoors signal expected")
	}
}
