package match

// Trust gating and trust-to-score policies. The gate is a hard admission
// filter applied before any scoring; the policies decide how a survivor's
// normalized trust attenuates its raw compatibility score.

// DefaultGateThreshold is the reference trust gate: candidates below it
// never enter aggregation or appear in output.
const DefaultGateThreshold = 0.7

// NormalizedTrust clamps a stored trust value into [0,1].
func NormalizedTrust(trust float64) float64 {
	if trust < 0.0 {
		return 0.0
	}
	if trust > 1.0 {
		return 1.0
	}
	return trust
}

// TrustGate is a hard pre-filter on normalized trust. A nil *TrustGate
// means no gating.
type TrustGate struct {
	Threshold float64
}

// Admit reports whether a candidate's trust passes the gate. Gate
// exclusion is a normal filtering outcome, not an error.
func (g *TrustGate) Admit(trust float64) bool {
	if g == nil {
		return true
	}
	return NormalizedTrust(trust) >= g.Threshold
}

// TrustPolicy is the closed set of trust-application strategies.
type TrustPolicy int

const (
	// TrustHardMultiply scales the raw score linearly by normalized
	// trust: final = raw * t.
	TrustHardMultiply TrustPolicy = iota

	// TrustSoftFloor compresses the multiplier into [0.6, 1.0]:
	// final = raw * (0.6 + 0.4*t). Intended for candidates that already
	// passed the gate, so residual trust variance never penalizes an
	// admitted candidate by more than 40%.
	TrustSoftFloor

	// TrustIgnore leaves the raw score untouched (control strategy).
	TrustIgnore
)

// String returns the policy name used in configuration and logs.
func (p TrustPolicy) String() string {
	switch p {
	case TrustSoftFloor:
		return "soft_floor"
	case TrustIgnore:
		return "ignore"
	default:
		return "hard_multiply"
	}
}

// Apply attenuates a raw compatibility score by normalized trust according
// to the policy. The result never exceeds the raw score.
func (p TrustPolicy) Apply(raw, trust float64) float64 {
	t := NormalizedTrust(trust)
	switch p {
	case TrustSoftFloor:
		return raw * (0.6 + 0.4*t)
	case TrustIgnore:
		return raw
	default:
		return raw * t
	}
}
