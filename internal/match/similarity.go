// Package match implements the compatibility scoring and ranking engine:
// per-attribute similarity functions, demographics and safety scorers, the
// trust gate, weighted aggregation, and the deterministic ranking pipeline.
package match

import (
	"regexp"
	"strings"
)

// punctStripper removes everything that is not a lowercase letter, digit,
// or whitespace before tokenizing free text.
var punctStripper = regexp.MustCompile(`[^a-z0-9\s]`)

// safetyKeywords is the fixed closed vocabulary for the bio safety signal.
// It is not learned and must not grow at runtime.
var safetyKeywords = map[string]struct{}{
	"female-only": {},
	"verified":    {},
	"low-key":     {},
	"cautious":    {},
	"quiet":       {},
	"calm":        {},
	"safe":        {},
	"safety":      {},
	"trust":       {},
	"id-verified": {},
	"blockchain":  {},
	"respectful":  {},
}

// outdoorKeywords is the fixed closed vocabulary for inferring an outdoors
// affinity from free-text bios.
var outdoorKeywords = map[string]struct{}{
	"hike": {}, "hiking": {}, "trek": {}, "trekking": {}, "trail": {},
	"camp": {}, "camping": {}, "backpack": {}, "backpacking": {},
	"mountain": {}, "nature": {}, "outdoor": {}, "outdoors": {},
	"wild": {}, "summit": {},
}

// outdoorInterestTags are structured interest tags that count as an
// outdoors signal even when the bio says nothing.
var outdoorInterestTags = map[string]struct{}{
	"Hiking & Nature":    {},
	"Camping & Outdoors": {},
	"National Parks":     {},
	"Mountains & Scenery": {},
}

// tokenize lowercases text, strips punctuation, and splits on whitespace,
// returning the token set.
func tokenize(text string) map[string]struct{} {
	cleaned := punctStripper.ReplaceAllString(strings.ToLower(text), "")
	tokens := make(map[string]struct{})
	for _, tok := range strings.Fields(cleaned) {
		tokens[tok] = struct{}{}
	}
	return tokens
}

// toSet deduplicates a string slice into a set.
func toSet(vals []string) map[string]struct{} {
	set := make(map[string]struct{}, len(vals))
	for _, v := range vals {
		set[v] = struct{}{}
	}
	return set
}

// intersectionSize counts the elements common to both sets.
func intersectionSize(a, b map[string]struct{}) int {
	if len(b) < len(a) {
		a, b = b, a
	}
	n := 0
	for v := range a {
		if _, ok := b[v]; ok {
			n++
		}
	}
	return n
}

// ScaleSimilarity computes numeric proximity on the shared 1-3 scale:
// 1 - |a-b|/2. Both pace and budget use this contract. Callers are
// responsible for defaulting missing values to the scale midpoint first.
func ScaleSimilarity(a, b int) float64 {
	diff := a - b
	if diff < 0 {
		diff = -diff
	}
	return 1.0 - float64(diff)/2.0
}

// InterestsSimilarity computes set overlap as |A∩B| / max(|A|,|B|,1).
// Two empty sets score 0.0: the absence of shared interests is not
// rewarded, but it does not divide by zero either.
func InterestsSimilarity(a, b []string) float64 {
	as, bs := toSet(a), toSet(b)
	if len(as) == 0 && len(bs) == 0 {
		return 0.0
	}
	denom := len(as)
	if len(bs) > denom {
		denom = len(bs)
	}
	if denom < 1 {
		denom = 1
	}
	return float64(intersectionSize(as, bs)) / float64(denom)
}

// SleepSimilarity computes the Jaccard index |A∩B| / |A∪B| over sleep
// schedule tags, with the empty/empty case mapped to 0.0.
func SleepSimilarity(a, b []string) float64 {
	as, bs := toSet(a), toSet(b)
	if len(as) == 0 && len(bs) == 0 {
		return 0.0
	}
	inter := intersectionSize(as, bs)
	union := len(as) + len(bs) - inter
	if union < 1 {
		union = 1
	}
	return float64(inter) / float64(union)
}

// StyleSimilarity is an exact categorical match: 1.0 on equality, else 0.0.
func StyleSimilarity(a, b string) float64 {
	if a == b {
		return 1.0
	}
	return 0.0
}

// HabitMatch compares tri-state habit attributes (smoking, alcohol).
// When either side is blank the answer is unknown and scores a neutral
// 0.5; otherwise it is a strict match on the trimmed lowercase values.
func HabitMatch(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" || b == "" {
		return 0.5
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

// CategoricalSimilarity compares tri-state attributes with an asymmetric
// empty case (dietary, cleanliness): both blank scores 0.0, exactly one
// blank scores 0.5, and two known values score 1.0/0.0 on match/mismatch.
// Note the both-blank case differs from HabitMatch and changes ranking
// outcomes on sparse data.
func CategoricalSimilarity(a, b string) float64 {
	a = strings.ToLower(strings.TrimSpace(a))
	b = strings.ToLower(strings.TrimSpace(b))
	if a == "" && b == "" {
		return 0.0
	}
	if a == "" || b == "" {
		return 0.5
	}
	if a == b {
		return 1.0
	}
	return 0.0
}

// SafetyKeywordScore counts safety-vocabulary tokens across both bios
// concatenated and normalizes by hits/3 capped at 1.0. The cap keeps a
// keyword-stuffed bio from dominating the aggregate.
func SafetyKeywordScore(queryBio, candidateBio string) float64 {
	tokens := tokenize(queryBio + " " + candidateBio)
	hits := 0
	for tok := range tokens {
		if _, ok := safetyKeywords[tok]; ok {
			hits++
		}
	}
	score := float64(hits) / 3.0
	if score > 1.0 {
		return 1.0
	}
	return score
}

// SemanticBioScore computes token overlap between the two bios divided by
// the query token count. The denominator is query-only, so the score is
// deliberately asymmetric: it measures how much of the requester's bio the
// candidate echoes, not the reverse.
func SemanticBioScore(queryBio, candidateBio string) float64 {
	qt := tokenize(queryBio)
	ct := tokenize(candidateBio)
	denom := len(qt)
	if denom < 1 {
		denom = 1
	}
	return float64(intersectionSize(qt, ct)) / float64(denom)
}

// DetectOutdoors reports whether free text signals an outdoors or hiking
// affinity via the fixed outdoors vocabulary.
func DetectOutdoors(text string) bool {
	if text == "" {
		return false
	}
	for tok := range tokenize(text) {
		if _, ok := outdoorKeywords[tok]; ok {
			return true
		}
	}
	return false
}

// HasOutdoorSignal reports whether a profile signals outdoors affinity
// either through its bio or through a structured outdoors interest tag.
func HasOutdoorSignal(bio string, interests []string) bool {
	if DetectOutdoors(bio) {
		return true
	}
	for _, tag := range interests {
		if _, ok := outdoorInterestTags[tag]; ok {
			return true
		}
	}
	return false
}
