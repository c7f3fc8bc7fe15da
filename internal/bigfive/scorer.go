package bigfive

import (
	"fmt"

	"recruiting-backend/internal/shared/telemetry"
)

const (
	// MinDimensionScore is the lowest raw sum under the full 6-item protocol.
	MinDimensionScore = 6
	// MaxDimensionScore is the highest raw sum under the full 6-item protocol.
	MaxDimensionScore = 30

	scoreRange = MaxDimensionScore - MinDimensionScore
)

// Scores is the raw OCEAN score vector. Under the canonical 30-question
// protocol each field lies in [6,30]; partial answer sets scale down.
type Scores struct {
	Openness          int `json:"O"`
	Conscientiousness int `json:"C"`
	Extraversion      int `json:"E"`
	Agreeableness     int `json:"A"`
	Neuroticism       int `json:"N"`
}

// Get returns the raw score for one factor.
func (s Scores) Get(d Dimension) int {
	switch d {
	case Openness:
		return s.Openness
	case Conscientiousness:
		return s.Conscientiousness
	case Extraversion:
		return s.Extraversion
	case Agreeableness:
		return s.Agreeableness
	case Neuroticism:
		return s.Neuroticism
	default:
		return 0
	}
}

func (s *Scores) add(d Dimension, value int) {
	switch d {
	case Openness:
		s.Openness += value
	case Conscientiousness:
		s.Conscientiousness += value
	case Extraversion:
		s.Extraversion += value
	case Agreeableness:
		s.Agreeableness += value
	case Neuroticism:
		s.Neuroticism += value
	}
}

// Result couples the score vector with answer coverage.
type Result struct {
	Scores   Scores
	Answered int
	PerDim   map[Dimension]int
}

// ScoringError reports an unusable answer set.
type ScoringError struct {
	Reason string
}

func (e *ScoringError) Error() string {
	return "big five scoring: " + e.Reason
}

func scoringErrorf(format string, args ...any) *ScoringError {
	return &ScoringError{Reason: fmt.Sprintf(format, args...)}
}

// CalculateScores aggregates Likert answers (question id -> value 1..5) into
// raw per-dimension sums. Iteration is driven by the question pool, so
// answers whose ids are not in the pool are inherently skipped. Reversed
// items contribute 6-answer, normal items contribute the answer itself.
// Unanswered questions are skipped; fewer than 6 answers in a dimension is
// tolerated with a warning since partial test runs still score.
func CalculateScores(answers map[int]int, questions []Question) (Result, error) {
	if len(answers) == 0 {
		return Result{}, &ScoringError{Reason: "no answers provided"}
	}

	var scores Scores
	perDim := make(map[Dimension]int, len(Dimensions))

	for _, q := range questions {
		if !q.Dimension.Valid() {
			return Result{}, scoringErrorf("invalid dimension %q in question %d", string(q.Dimension), q.ID)
		}
		if q.Keying != KeyingNormal && q.Keying != KeyingReversed {
			return Result{}, scoringErrorf("invalid keying %q in question %d", string(q.Keying), q.ID)
		}

		answer, ok := answers[q.ID]
		if !ok {
			continue
		}
		if answer < 1 || answer > 5 {
			return Result{}, scoringErrorf("invalid answer for question %d: %d (must be 1-5)", q.ID, answer)
		}

		value := answer
		if q.Keying == KeyingReversed {
			value = 6 - answer
		}
		scores.add(q.Dimension, value)
		perDim[q.Dimension]++
	}

	total := 0
	for _, n := range perDim {
		total += n
	}
	if total == 0 {
		return Result{}, scoringErrorf("no valid answers found: received %d answers but none matched the question pool", len(answers))
	}
	if total < MinQuestions {
		telemetry.Warn("bigfive.score.partial", map[string]any{
			"answered": total,
			"expected": MinQuestions,
		})
	}
	for _, d := range Dimensions {
		if perDim[d] < MinPerDimension {
			telemetry.Warn("bigfive.score.dimension_partial", map[string]any{
				"dimension": string(d),
				"answered":  perDim[d],
				"expected":  MinPerDimension,
			})
		}
	}

	telemetry.Info("bigfive.score.calculated", map[string]any{
		"o":        scores.Openness,
		"c":        scores.Conscientiousness,
		"e":        scores.Extraversion,
		"a":        scores.Agreeableness,
		"n":        scores.Neuroticism,
		"answered": total,
	})

	return Result{Scores: scores, Answered: total, PerDim: perDim}, nil
}
