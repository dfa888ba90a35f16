package match

import (
	"fmt"
	"sort"
)

// Strategy bundles a named weight configuration with the ranker settings
// that were tuned alongside it. Strategies are alternatives, never merged:
// the logistics-only variant and the safety-heavy variant encode different
// product bets and are selected whole, by name.
type Strategy struct {
	Name         string
	Description  string
	Weights      Weights
	Gate         *TrustGate
	Policy       TrustPolicy
	Demographics DemographicsVariant
	BioMode      BioMode
	OutdoorBoost bool
}

// Ranker builds a ranker configured for this strategy.
func (s *Strategy) Ranker(metrics *Metrics) *Ranker {
	return &Ranker{
		Gate:         s.Gate,
		Policy:       s.Policy,
		Demographics: s.Demographics,
		BioMode:      s.BioMode,
		OutdoorBoost: s.OutdoorBoost,
		Metrics:      metrics,
	}
}

// Strategy names accepted in configuration.
const (
	StrategySafetyHybrid = "safety_hybrid"
	StrategyEmpirical    = "empirical"
	StrategyLogistics    = "logistics"
	StrategySafetySocial = "safety_social"
	StrategySemanticBio  = "semantic_bio"
)

// DefaultStrategyName is the reference configuration used when no strategy
// is configured.
const DefaultStrategyName = StrategySafetyHybrid

// presets is the registry of built-in strategies.
var presets = map[string]Strategy{
	// The reference configuration: a broad hybrid across logistics,
	// lifestyle, and safety signals, with strict demographics, the 0.7
	// trust gate, and the soft trust floor so admitted candidates lose at
	// most 40% of their raw score.
	StrategySafetyHybrid: {
		Name:        StrategySafetyHybrid,
		Description: "Broad hybrid of logistics, lifestyle, and safety signals behind a trust gate.",
		Weights: Weights{
			Pace:         0.20,
			Budget:       0.25,
			Interests:    0.10,
			Style:        0.02,
			Sleep:        0.03,
			Smoking:      0.03,
			Alcohol:      0.03,
			Dietary:      0.02,
			Cleanliness:  0.02,
			Demographics: 0.35,
			Bio:          0.05,
		},
		Gate:         &TrustGate{Threshold: DefaultGateThreshold},
		Policy:       TrustSoftFloor,
		Demographics: DemographicsStrict,
		BioMode:      BioSafety,
	},

	// Weights derived from the companion survey; bio only breaks ties.
	StrategyEmpirical: {
		Name:        StrategyEmpirical,
		Description: "Survey-derived weights emphasizing pace and budget compatibility.",
		Weights: Weights{
			Pace:         0.28,
			Budget:       0.26,
			Interests:    0.20,
			Style:        0.20,
			Demographics: 0.03,
			Bio:          0.03,
		},
		Policy:       TrustHardMultiply,
		Demographics: DemographicsLenient,
		BioMode:      BioTieBreak,
	},

	// Pure trip-logistics control: no trust, no bio, no safety signals.
	StrategyLogistics: {
		Name:        StrategyLogistics,
		Description: "Trip-logistics control strategy ignoring trust and safety signals.",
		Weights: Weights{
			Pace:      0.45,
			Budget:    0.45,
			Interests: 0.05,
			Style:     0.05,
		},
		Policy:       TrustIgnore,
		Demographics: DemographicsLenient,
		BioMode:      BioNone,
	},

	// Safety-first: demographics dominate, gated, trust multiplies hard.
	StrategySafetySocial: {
		Name:        StrategySafetySocial,
		Description: "Safety-first strategy dominated by demographics and bio safety signals.",
		Weights: Weights{
			Pace:         0.10,
			Budget:       0.10,
			Interests:    0.10,
			Style:        0.10,
			Demographics: 0.40,
			Bio:          0.20,
		},
		Gate:         &TrustGate{Threshold: DefaultGateThreshold},
		Policy:       TrustHardMultiply,
		Demographics: DemographicsStrict,
		BioMode:      BioSafety,
	},

	// Bio-overlap driven, with the outdoors interests boost.
	StrategySemanticBio: {
		Name:        StrategySemanticBio,
		Description: "Bio-overlap driven strategy with an outdoors affinity boost.",
		Weights: Weights{
			Pace:         0.10,
			Budget:       0.10,
			Interests:    0.25,
			Style:        0.10,
			Demographics: 0.05,
			Bio:          0.40,
		},
		Policy:       TrustHardMultiply,
		Demographics: DemographicsLenient,
		BioMode:      BioSemantic,
		OutdoorBoost: true,
	},
}

// PresetByName returns the named strategy. The lookup is by the exact
// configuration name; an unknown name is a configuration error.
func PresetByName(name string) (Strategy, error) {
	s, ok := presets[name]
	if !ok {
		return Strategy{}, fmt.Errorf("unknown strategy %q (known: %v)", name, PresetNames())
	}
	return s, nil
}

// DefaultStrategy returns the reference configuration.
func DefaultStrategy() Strategy {
	return presets[DefaultStrategyName]
}

// PresetNames lists the available strategy names in sorted order.
func PresetNames() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
