package bigfive

// Dimension identifies one of the five OCEAN personality factors.
type Dimension string

const (
	Openness          Dimension = "O"
	Conscientiousness Dimension = "C"
	Extraversion      Dimension = "E"
	Agreeableness     Dimension = "A"
	Neuroticism       Dimension = "N"
)

// Dimensions lists the five factors in canonical order.
var Dimensions = [5]Dimension{Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism}

// Valid reports whether d is one of the five OCEAN codes.
func (d Dimension) Valid() bool {
	switch d {
	case Openness, Conscientiousness, Extraversion, Agreeableness, Neuroticism:
		return true
	default:
		return false
	}
}

// Name returns the English display name for the factor.
func (d Dimension) Name() string {
	switch d {
	case Openness:
		return "Openness to Experience"
	case Conscientiousness:
		return "Conscientiousness"
	case Extraversion:
		return "Extraversion"
	case Agreeableness:
		return "Agreeableness"
	case Neuroticism:
		return "Neuroticism"
	default:
		return string(d)
	}
}

// Keying states whether an item's Likert response counts directly or reversed.
type Keying string

const (
	KeyingNormal   Keying = "+"
	KeyingReversed Keying = "-"
)

// Question is a single questionnaire item. Keying never leaves the server.
type Question struct {
	ID        int       `yaml:"id" json:"id"`
	Dimension Dimension `yaml:"dimension" json:"dimension"`
	Keying    Keying    `yaml:"keying" json:"-"`
	Text      string    `yaml:"text" json:"text"`
}

// QuestionSet is a validated, immutable pool of questionnaire items.
type QuestionSet struct {
	Dimensions map[Dimension]string
	Questions  []Question
}

// ByDimension groups the pool's questions by factor, preserving pool order.
func (qs *QuestionSet) ByDimension() map[Dimension][]Question {
	out := make(map[Dimension][]Question, len(Dimensions))
	for _, q := range qs.Questions {
		out[q.Dimension] = append(out[q.Dimension], q)
	}
	return out
}

// Counts returns the number of questions per factor.
func (qs *QuestionSet) Counts() map[Dimension]int {
	out := make(map[Dimension]int, len(Dimensions))
	for _, q := range qs.Questions {
		out[q.Dimension]++
	}
	return out
}
