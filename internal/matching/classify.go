package matching

// MatchLevel is the categorical tag derived from a weighted total score.
type MatchLevel string

const (
	ExcellentMatch MatchLevel = "excellent_match"
	GoodMatch      MatchLevel = "good_match"
	PartialMatch   MatchLevel = "partial_match"
	PoorMatch      MatchLevel = "poor_match"
)

// Thresholds holds the score cut-offs for the match levels. A zero value for
// any field falls back to the default for that field, so partially configured
// thresholds still behave sensibly.
type Thresholds struct {
	Excellent float64 `yaml:"excellent" json:"excellent"`
	Good      float64 `yaml:"good" json:"good"`
	Partial   float64 `yaml:"partial" json:"partial"`
}

// DefaultThresholds are used when a position configures none of its own.
var DefaultThresholds = Thresholds{Excellent: 80, Good: 60, Partial: 40}

// Classify maps a weighted total score to its match level. Cut-offs are
// inclusive on the lower side.
func Classify(score float64, t Thresholds) MatchLevel {
	if t.Excellent == 0 {
		t.Excellent = DefaultThresholds.Excellent
	}
	if t.Good == 0 {
		t.Good = DefaultThresholds.Good
	}
	if t.Partial == 0 {
		t.Partial = DefaultThresholds.Partial
	}

	switch {
	case score >= t.Excellent:
		return ExcellentMatch
	case score >= t.Good:
		return GoodMatch
	case score >= t.Partial:
		return PartialMatch
	default:
		return PoorMatch
	}
}

// Label returns the display text for a match level. Position configuration
// may override these per level; callers pass their overrides and fall back
// here for anything missing.
func (m MatchLevel) Label() string {
	switch m {
	case ExcellentMatch:
		return "Excellent Match"
	case GoodMatch:
		return "Good Match"
	case PartialMatch:
		return "Partial Match"
	case PoorMatch:
		return "Poor Match"
	default:
		return string(m)
	}
}
