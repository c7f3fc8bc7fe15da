package matching

import (
	"math"

	"recruiting-backend/internal/shared/telemetry"
)

// Default blend between the CV match score and the personality fit score.
const (
	DefaultCVWeight          = 0.70
	DefaultPersonalityWeight = 0.30
)

// CombinedScore is the blended candidate score with its inputs and the
// weights that were actually applied.
type CombinedScore struct {
	Combined    float64 `json:"combined_score"`
	CVMatch     float64 `json:"cv_match_score"`
	Personality float64 `json:"personality_fit_score"`
	Weights     struct {
		CV          float64 `json:"cv"`
		Personality float64 `json:"personality"`
	} `json:"weights"`
}

// Combine blends a CV match score and a personality fit score, both on the
// 0-100 scale, into one figure. Weights that do not sum to 1 (beyond a 0.01
// tolerance) are renormalized proportionally. Callers decide whether both
// inputs are available; a missing score should not reach this function.
func Combine(cvScore, fitScore, cvWeight, personalityWeight float64) CombinedScore {
	total := cvWeight + personalityWeight
	if total <= 0 {
		cvWeight = DefaultCVWeight
		personalityWeight = DefaultPersonalityWeight
		total = cvWeight + personalityWeight
	}
	if math.Abs(total-1) > 0.01 {
		telemetry.Warn("matching.combine.renormalized", map[string]any{
			"cv_weight":          cvWeight,
			"personality_weight": personalityWeight,
			"sum":                total,
		})
		cvWeight /= total
		personalityWeight /= total
	}

	combined := round1(cvScore*cvWeight + fitScore*personalityWeight)
	if combined < 0 {
		combined = 0
	}
	if combined > 100 {
		combined = 100
	}

	out := CombinedScore{
		Combined:    combined,
		CVMatch:     round1(cvScore),
		Personality: round1(fitScore),
	}
	out.Weights.CV = cvWeight
	out.Weights.Personality = personalityWeight
	return out
}
