package match

import (
	"fmt"
	"sort"
	"time"

	"github.com/debbielamxy/WanderTogether/internal/profile"
)

// BioMode selects how the bio text contributes to the aggregate.
type BioMode int

const (
	// BioNone skips bio scoring entirely.
	BioNone BioMode = iota

	// BioSemantic uses the asymmetric token-overlap score.
	BioSemantic

	// BioSafety uses the safety keyword score.
	BioSafety

	// BioTieBreak uses 0.03 * semantic overlap. The tiny factor keeps the
	// bio signal as a tie-breaker between otherwise equal candidates
	// without letting it move the ranking on its own.
	BioTieBreak
)

// String returns the mode name used in configuration and logs.
func (m BioMode) String() string {
	switch m {
	case BioSemantic:
		return "semantic"
	case BioSafety:
		return "safety"
	case BioTieBreak:
		return "tie_break"
	default:
		return "none"
	}
}

// outdoorBoost is added to interests similarity when both sides signal an
// outdoors affinity, capped at 1.0.
const outdoorBoost = 0.35

// Ranker holds the strategy configuration for a ranking call. The zero
// value ranks with no gate, hard trust multiplication, lenient
// demographics, and no bio signal.
type Ranker struct {
	// Gate is the hard trust pre-filter. Nil means no gating.
	Gate *TrustGate

	// Policy decides how a gated-in candidate's trust attenuates its raw
	// score.
	Policy TrustPolicy

	// Demographics selects the demographics scorer variant.
	Demographics DemographicsVariant

	// BioMode selects the bio contribution.
	BioMode BioMode

	// OutdoorBoost enables the interests boost when both sides signal an
	// outdoors affinity: the query through its bio text only, the
	// candidate through bio text or a structured outdoors interest tag.
	OutdoorBoost bool

	// Metrics is optional instrumentation. Nil disables it.
	Metrics *Metrics
}

// ScoredResult pairs a candidate with its raw and trust-adjusted scores.
type ScoredResult struct {
	Candidate  profile.Candidate `json:"candidate"`
	RawScore   float64           `json:"raw_score"`
	FinalScore float64           `json:"final_score"`
}

// Rank scores the candidate pool against the query and returns the top
// candidates in descending final-score order.
//
// Pipeline per candidate: trust gate, per-component similarity scoring,
// weighted aggregation, trust policy. Gated-out candidates never appear
// in the output regardless of how few survivors remain. Results are
// sorted with sort.SliceStable so equal final scores keep the pool's
// iteration order, making the full pipeline deterministic for a given
// pool ordering. topK <= 0 means no truncation.
//
// The pool is read-only for the duration of the call and candidates are
// copied into the results.
func (r *Ranker) Rank(q profile.Query, w Weights, pool []profile.Candidate, topK int) ([]ScoredResult, error) {
	start := time.Now()

	if err := w.Validate(); err != nil {
		if r.Metrics != nil {
			r.Metrics.IncRankErrors()
		}
		return nil, fmt.Errorf("rank: %w", err)
	}

	q = q.Normalize()
	queryOutdoors := r.OutdoorBoost && DetectOutdoors(q.Bio)

	results := make([]ScoredResult, 0, len(pool))
	gatedOut := 0
	for i := range pool {
		c := &pool[i]
		if !r.Gate.Admit(c.Trust) {
			gatedOut++
			continue
		}

		raw, err := r.score(q, c, &w, queryOutdoors)
		if err != nil {
			if r.Metrics != nil {
				r.Metrics.IncRankErrors()
			}
			return nil, fmt.Errorf("rank: score candidate %d: %w", c.ID, err)
		}

		results = append(results, ScoredResult{
			Candidate:  *c,
			RawScore:   raw,
			FinalScore: r.Policy.Apply(raw, c.Trust),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].FinalScore > results[j].FinalScore
	})

	if topK > 0 && len(results) > topK {
		results = results[:topK]
	}

	if r.Metrics != nil {
		r.Metrics.ObserveRank(len(pool), gatedOut, time.Since(start).Seconds())
	}
	return results, nil
}

// score computes the raw compatibility score for one candidate. The query
// is already normalized.
func (r *Ranker) score(q profile.Query, c *profile.Candidate, w *Weights, queryOutdoors bool) (float64, error) {
	scores := componentScores{
		pace:         ScaleSimilarity(q.Pace, c.PaceOrDefault()),
		budget:       ScaleSimilarity(q.Budget, c.BudgetOrDefault()),
		interests:    InterestsSimilarity(q.Interests, c.Interests),
		style:        StyleSimilarity(q.Style, c.Style),
		sleep:        SleepSimilarity(q.Sleep, c.Sleep),
		smoking:      HabitMatch(q.Smoking, c.Smoking),
		alcohol:      HabitMatch(q.Alcohol, c.Alcohol),
		dietary:      CategoricalSimilarity(q.Dietary, c.Dietary),
		cleanliness:  CategoricalSimilarity(q.Cleanliness, c.Cleanliness),
		demographics: DemographicsScore(r.Demographics, q, c),
	}

	switch r.BioMode {
	case BioSemantic:
		scores.bio = SemanticBioScore(q.Bio, c.Bio)
	case BioSafety:
		scores.bio = SafetyKeywordScore(q.Bio, c.Bio)
	case BioTieBreak:
		scores.bio = 0.03 * SemanticBioScore(q.Bio, c.Bio)
	}

	if queryOutdoors && HasOutdoorSignal(c.Bio, c.Interests) {
		scores.interests += outdoorBoost
		if scores.interests > 1.0 {
			scores.interests = 1.0
		}
	}

	return w.Aggregate(&scores)
}
