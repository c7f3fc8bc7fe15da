package bigfive

import (
	"errors"
	"fmt"

	"recruiting-backend/internal/shared/telemetry"
)

// Level is the ordinal interpretation band for a raw dimension score.
type Level string

const (
	LevelVeryLow  Level = "Very Low"
	LevelLow      Level = "Low"
	LevelMedium   Level = "Medium"
	LevelHigh     Level = "High"
	LevelVeryHigh Level = "Very High"
)

// Levels lists the bands from lowest to highest.
var Levels = [5]Level{LevelVeryLow, LevelLow, LevelMedium, LevelHigh, LevelVeryHigh}

// ErrInvalidDimension reports a dimension code outside {O,C,E,A,N}. Seeing it
// at runtime means a caller bypassed pool validation.
var ErrInvalidDimension = errors.New("invalid dimension")

// Interpret classifies a raw dimension score into one of five bands and
// returns the band's description for that factor. Scores outside [6,30] are
// classified by the same boundaries after a warning; out-of-range values are
// never an error.
func Interpret(d Dimension, score int) (Level, string, error) {
	if !d.Valid() {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidDimension, string(d))
	}
	if score < MinDimensionScore || score > MaxDimensionScore {
		telemetry.Warn("bigfive.interpret.out_of_range", map[string]any{
			"dimension": string(d),
			"score":     score,
		})
	}
	level := LevelForScore(score)
	return level, descriptions[d][level], nil
}

// LevelForScore maps a raw score to its band. The five bands are inclusive
// and partition the whole integer line: <=10, <=15, <=20, <=25, above.
func LevelForScore(score int) Level {
	switch {
	case score <= 10:
		return LevelVeryLow
	case score <= 15:
		return LevelLow
	case score <= 20:
		return LevelMedium
	case score <= 25:
		return LevelHigh
	default:
		return LevelVeryHigh
	}
}

var descriptions = map[Dimension]map[Level]string{
	Openness: {
		LevelVeryLow:  "Very conventional, prefers the familiar",
		LevelLow:      "Pragmatic, focused on the practical",
		LevelMedium:   "Balanced interest in the new and the familiar",
		LevelHigh:     "Creative, curious, eager to learn",
		LevelVeryHigh: "Very creative, experimental, open to new experiences",
	},
	Conscientiousness: {
		LevelVeryLow:  "Disorganized, unreliable",
		LevelLow:      "Easygoing, spontaneous",
		LevelMedium:   "Moderately organized",
		LevelHigh:     "Reliable, organized, dutiful",
		LevelVeryHigh: "Very reliable, very organized, very dutiful",
	},
	Extraversion: {
		LevelVeryLow:  "Very introverted, withdrawn",
		LevelLow:      "Quiet, reserved",
		LevelMedium:   "Moderately sociable",
		LevelHigh:     "Sociable, talkative, energetic",
		LevelVeryHigh: "Very extraverted, very sociable, very communicative",
	},
	Agreeableness: {
		LevelVeryLow:  "Competitive, skeptical",
		LevelLow:      "Somewhat skeptical, distanced",
		LevelMedium:   "Moderately cooperative",
		LevelHigh:     "Cooperative, compassionate, trusting",
		LevelVeryHigh: "Very compassionate, very trusting, very friendly",
	},
	Neuroticism: {
		LevelVeryLow:  "Very emotionally stable, stress-resistant",
		LevelLow:      "Emotionally stable, calm",
		LevelMedium:   "Moderately emotionally reactive",
		LevelHigh:     "Emotionally reactive, stress-sensitive",
		LevelVeryHigh: "Very emotionally reactive, very stress-sensitive",
	},
}
