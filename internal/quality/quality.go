// Package quality turns a fetched page into an accept/reject decision with a
// tier and explainable rejection reasons. All scorers are pure functions over
// (url, markup, text); the Evaluator fuses them and applies the whitelist and
// classifier rules.
package quality

// Tier buckets pages by unified score. It is independent of the binary
// accept/reject outcome: a whitelisted page can be accepted at tier medium
// while scoring below the acceptance threshold.
type Tier string

// Tier values persisted on Page records.
const (
	TierHigh     Tier = "high"
	TierMedium   Tier = "medium"
	TierLow      Tier = "low"
	TierRejected Tier = "rejected"
)

// Thresholds holds every numeric knob used by the evaluation pipeline.
type Thresholds struct {
	MinTextRatio             float64
	IdealTextRatio           float64
	MinWords                 int
	MaxWords                 int
	MinReadability           float64
	MaxReadability           float64
	CorporateRejectThreshold float64
	CorporateFlagThreshold   float64
	UnifiedScoreThreshold    float64
	HighTierThreshold        float64
	AdScorePenaltyFloor      float64
	// UncertainScoreCeiling bounds the unified-score band in which
	// classifier refinement runs when the evaluator is in uncertain-only
	// mode. Pages at or above the ceiling keep their rule verdict.
	UncertainScoreCeiling float64
}

// DefaultThresholds returns the tuning the corpus was built with.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MinTextRatio:             0.1,
		IdealTextRatio:           0.3,
		MinWords:                 100,
		MaxWords:                 8000,
		MinReadability:           20,
		MaxReadability:           100,
		CorporateRejectThreshold: 80,
		CorporateFlagThreshold:   10,
		UnifiedScoreThreshold:    40,
		HighTierThreshold:        80,
		AdScorePenaltyFloor:      20,
		UncertainScoreCeiling:    80,
	}
}

// Result is the transient outcome of evaluating one page. Its fields are
// folded into the Page record on acceptance or the rejection log otherwise.
type Result struct {
	Acceptable       bool
	Scores           map[string]float64
	RejectionReasons []string
	Tier             Tier
	Whitelisted      bool
}

// Options modify a single evaluation.
type Options struct {
	// Whitelist is a set of bare domains that bypass score-based rejection.
	Whitelist map[string]struct{}
	// SkipClassifier disables classifier refinement for this evaluation.
	SkipClassifier bool
	// Force bypasses score-based rejection the same way a whitelist hit
	// does, without marking the page whitelisted. Used for manual re-adds.
	Force bool
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
