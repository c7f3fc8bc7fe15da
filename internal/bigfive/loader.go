package bigfive

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"recruiting-backend/internal/shared/telemetry"
)

const (
	// MinQuestions is the hard floor for a usable pool.
	MinQuestions = 30
	// MinPerDimension is the hard floor per factor.
	MinPerDimension = 6
	// RecommendedQuestions enables random subsampling during test runs.
	RecommendedQuestions = 60
	// RecommendedPerDimension enables drawing 6 distinct items per factor.
	RecommendedPerDimension = 12
)

// ConfigError reports a missing, malformed, or under-covered question pool.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "big five config: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

type questionsFile struct {
	Dimensions map[Dimension]string `yaml:"dimensions"`
	Questions  []Question           `yaml:"questions"`
}

// LoadQuestions reads and validates the question pool from a YAML file.
func LoadQuestions(path string) (*QuestionSet, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf("config file not readable: %s: %v", path, err)
	}

	var file questionsFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, configErrorf("failed to parse YAML: %v", err)
	}
	if len(file.Questions) == 0 {
		return nil, &ConfigError{Reason: "'questions' key missing or empty"}
	}
	if len(file.Dimensions) == 0 {
		return nil, &ConfigError{Reason: "'dimensions' key missing or empty"}
	}
	for _, d := range Dimensions {
		if _, ok := file.Dimensions[d]; !ok {
			return nil, configErrorf("dimension %s missing from 'dimensions'", d)
		}
	}

	if err := ValidateQuestions(file.Questions); err != nil {
		return nil, err
	}

	set := &QuestionSet{
		Dimensions: file.Dimensions,
		Questions:  file.Questions,
	}
	logPoolStats(path, set)
	return set, nil
}

// ValidateQuestions enforces the structural invariants of a question pool:
// at least 30 items, at least 6 per factor, unique positive ids, keying in
// {+,-}, non-blank text.
func ValidateQuestions(questions []Question) error {
	if len(questions) < MinQuestions {
		return configErrorf("at least %d questions required, found %d", MinQuestions, len(questions))
	}

	seen := make(map[int]bool, len(questions))
	counts := make(map[Dimension]int, len(Dimensions))
	for _, q := range questions {
		if q.ID < 1 {
			return configErrorf("question id must be positive, got %d", q.ID)
		}
		if seen[q.ID] {
			return configErrorf("duplicate question id: %d", q.ID)
		}
		seen[q.ID] = true
		if !q.Dimension.Valid() {
			return configErrorf("invalid dimension %q in question %d", string(q.Dimension), q.ID)
		}
		if q.Keying != KeyingNormal && q.Keying != KeyingReversed {
			return configErrorf("invalid keying %q in question %d (expected '+' or '-')", string(q.Keying), q.ID)
		}
		if isBlank(q.Text) {
			return configErrorf("question %d: text is empty", q.ID)
		}
		counts[q.Dimension]++
	}

	for _, d := range Dimensions {
		if counts[d] < MinPerDimension {
			return configErrorf("dimension %s: only %d questions found (minimum %d required)", d, counts[d], MinPerDimension)
		}
	}
	return nil
}

func logPoolStats(path string, set *QuestionSet) {
	counts := set.Counts()
	normal, reversed := 0, 0
	for _, q := range set.Questions {
		if q.Keying == KeyingReversed {
			reversed++
		} else {
			normal++
		}
	}

	telemetry.Info("bigfive.pool.loaded", map[string]any{
		"path":     path,
		"total":    len(set.Questions),
		"o":        counts[Openness],
		"c":        counts[Conscientiousness],
		"e":        counts[Extraversion],
		"a":        counts[Agreeableness],
		"n":        counts[Neuroticism],
		"normal":   normal,
		"reversed": reversed,
	})

	if len(set.Questions) < RecommendedQuestions {
		telemetry.Warn("bigfive.pool.small", map[string]any{
			"total":       len(set.Questions),
			"recommended": RecommendedQuestions,
		})
	}
	for _, d := range Dimensions {
		if counts[d] < RecommendedPerDimension {
			telemetry.Warn("bigfive.pool.dimension_small", map[string]any{
				"dimension":   string(d),
				"count":       counts[d],
				"recommended": RecommendedPerDimension,
			})
		}
	}
}

func isBlank(s string) bool {
	for _, r := range s {
		if r != ' ' && r != '\t' && r != '\n' && r != '\r' {
			return false
		}
	}
	return true
}
