package bigfive

import (
	"math"

	"recruiting-backend/internal/shared/telemetry"
)

// Defaults applied when a profile entry omits a field. Job configuration
// loading fills these in so every ProfileDimension reaching FitScore is
// complete.
const (
	DefaultIdealScore = 18
	DefaultWeight     = 0.2
)

// ProfileDimension describes a position's expectation for one factor.
// Reversed marks factors where a low raw score is what the position wants
// (typically Neuroticism); it documents which ideal was configured and does
// not change the distance model.
type ProfileDimension struct {
	IdealScore int
	Weight     float64
	Reversed   bool
}

// Profile maps factors to position-specific expectations. Factors absent
// from the profile are excluded from the fit calculation entirely.
type Profile map[Dimension]ProfileDimension

// FitScore converts an OCEAN score vector into a 0-100 fit figure.
//
// With a profile, each configured factor scores 100 minus the normalized
// distance to its ideal (clamped at 0), and the factors combine as a
// weighted mean. A profile whose weights sum to zero falls back to the
// no-profile model. Without a profile, the Conscientiousness score is
// rescaled from [6,30] to [0,100]; C is the strongest general predictor of
// job performance.
func FitScore(scores Scores, profile Profile) int {
	if len(profile) > 0 {
		totalWeighted := 0.0
		totalWeight := 0.0
		for _, d := range Dimensions {
			pd, ok := profile[d]
			if !ok {
				continue
			}
			distance := math.Abs(float64(scores.Get(d) - pd.IdealScore))
			fit := 100 - distance/scoreRange*100
			if fit < 0 {
				fit = 0
			}
			totalWeighted += fit * pd.Weight
			totalWeight += pd.Weight
		}
		if totalWeight > 0 {
			return clampScore(int(totalWeighted / totalWeight))
		}
		telemetry.Warn("bigfive.fit.zero_weight_profile", map[string]any{
			"dimensions": len(profile),
		})
	}

	c := scores.Conscientiousness
	return clampScore(int(float64(c-MinDimensionScore) / scoreRange * 100))
}

// InterpretFit maps a fit score to its band and description. Bands are
// inclusive on the lower side: >=80, >=65, >=50, >=35, below.
func InterpretFit(score int) (Level, string) {
	switch {
	case score >= 80:
		return LevelVeryHigh, "Your profile matches the position very well. Excellent professional suitability."
	case score >= 65:
		return LevelHigh, "Your profile matches the position well. Good professional suitability."
	case score >= 50:
		return LevelMedium, "Your profile moderately matches the position. Average suitability."
	case score >= 35:
		return LevelLow, "Your profile matches the position less well. Lower suitability."
	default:
		return LevelVeryLow, "Your profile does not match the position well. Very low suitability."
	}
}

func clampScore(v int) int {
	if v < 0 {
		return 0
	}
	if v > 100 {
		return 100
	}
	return v
}
