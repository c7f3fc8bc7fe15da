// Package matching scores how well an extracted CV satisfies a position's
// requirement catalogue and blends the result with the personality fit.
package matching

// SkillMatch records whether a single required skill was found in the CV,
// with a short evidence snippet when it was.
type SkillMatch struct {
	Skill    string `json:"skill"`
	Found    bool   `json:"found"`
	Evidence string `json:"evidence,omitempty"`
}

// CategoryMatch groups the skill matches of one requirement category
// (for example "Programming Languages" under must-have).
type CategoryMatch struct {
	Category string       `json:"category"`
	Skills   []SkillMatch `json:"skills"`
}

// Result carries the per-level match details produced by the language model
// for one analysis run.
type Result struct {
	MustHave   []CategoryMatch `json:"must_have"`
	ShouldHave []CategoryMatch `json:"should_have"`
	NiceToHave []CategoryMatch `json:"nice_to_have"`
}

// Weights distributes the overall CV score across the three requirement
// levels. The three values are expected to sum to 1.
type Weights struct {
	MustHave   float64 `json:"must_have" yaml:"must_have"`
	ShouldHave float64 `json:"should_have" yaml:"should_have"`
	NiceToHave float64 `json:"nice_to_have" yaml:"nice_to_have"`
}

// DefaultWeights weights must-have requirements heaviest.
var DefaultWeights = Weights{MustHave: 0.6, ShouldHave: 0.3, NiceToHave: 0.1}
