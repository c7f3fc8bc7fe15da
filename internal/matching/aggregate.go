package matching

import "math"

// Scores summarizes a Result as percentages per requirement level plus the
// weighted total. All figures are rounded to one decimal place.
type Scores struct {
	MustHave      float64 `json:"must_have"`
	ShouldHave    float64 `json:"should_have"`
	NiceToHave    float64 `json:"nice_to_have"`
	WeightedTotal float64 `json:"weighted_total"`
}

// Aggregate reduces the per-skill matches to level percentages and a weighted
// total score. Skills are counted flat across all categories of a level; a
// level with no skills at all scores 0. The total is computed from the
// unrounded level percentages before its own rounding.
func Aggregate(result Result, weights Weights) Scores {
	if weights == (Weights{}) {
		weights = DefaultWeights
	}

	must := levelPercentage(result.MustHave)
	should := levelPercentage(result.ShouldHave)
	nice := levelPercentage(result.NiceToHave)

	total := must*weights.MustHave + should*weights.ShouldHave + nice*weights.NiceToHave

	return Scores{
		MustHave:      round1(must),
		ShouldHave:    round1(should),
		NiceToHave:    round1(nice),
		WeightedTotal: round1(total),
	}
}

func levelPercentage(categories []CategoryMatch) float64 {
	matched, total := 0, 0
	for _, c := range categories {
		for _, s := range c.Skills {
			total++
			if s.Found {
				matched++
			}
		}
	}
	if total == 0 {
		return 0
	}
	return float64(matched) / float64(total) * 100
}

func round1(v float64) float64 {
	return math.Round(v*10) / 10
}
