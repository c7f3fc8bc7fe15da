// Package jobs loads the position catalogue: requirement categories per
// level, the target personality profile, and the scoring configuration.
package jobs

import (
	"fmt"

	"recruiting-backend/internal/bigfive"
	"recruiting-backend/internal/matching"
)

// RequirementCategory groups related skills under one heading within a
// requirement level. Weight is the category's share within its level; the
// scoring pipeline currently counts skills flat, so the weight is
// informational.
type RequirementCategory struct {
	Category string   `yaml:"category" json:"category"`
	Weight   float64  `yaml:"weight" json:"weight"`
	Skills   []string `yaml:"skills" json:"skills"`
}

// Position is one open role with its full requirement catalogue.
type Position struct {
	ID         string `yaml:"position_id" json:"position_id"`
	Title      string `yaml:"position_title" json:"position_title"`
	Department string `yaml:"department" json:"department"`

	MustHave   []RequirementCategory `yaml:"must_have" json:"must_have"`
	ShouldHave []RequirementCategory `yaml:"should_have" json:"should_have"`
	NiceToHave []RequirementCategory `yaml:"nice_to_have" json:"nice_to_have"`

	// Profile is nil when the position defines no personality expectations;
	// the fit calculation then falls back to its no-profile model.
	Profile bigfive.Profile `yaml:"-" json:"-"`
}

// Summary is the trimmed listing shape for position pickers.
type Summary struct {
	ID         string `json:"position_id"`
	Title      string `json:"position_title"`
	Department string `json:"department"`
}

// SkillCounts returns the number of individual skills per level.
func (p *Position) SkillCounts() (must, should, nice int) {
	count := func(categories []RequirementCategory) int {
		n := 0
		for _, c := range categories {
			n += len(c.Skills)
		}
		return n
	}
	return count(p.MustHave), count(p.ShouldHave), count(p.NiceToHave)
}

// Scoring is the catalogue-wide scoring configuration shared by all
// positions.
type Scoring struct {
	Weights    matching.Weights               `yaml:"weights"`
	Thresholds matching.Thresholds            `yaml:"thresholds"`
	Labels     map[matching.MatchLevel]string `yaml:"recommendations"`
}

// Label returns the configured display text for a match level, falling back
// to the built-in English labels.
func (s Scoring) Label(level matching.MatchLevel) string {
	if text, ok := s.Labels[level]; ok && text != "" {
		return text
	}
	return level.Label()
}

// Catalog is the loaded position catalogue.
type Catalog struct {
	Scoring Scoring

	positions []Position
	byID      map[string]*Position
}

// Get returns the position with the given id.
func (c *Catalog) Get(id string) (*Position, error) {
	p, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("position %q not found", id)
	}
	return p, nil
}

// List returns summaries of all positions in catalogue order.
func (c *Catalog) List() []Summary {
	out := make([]Summary, 0, len(c.positions))
	for _, p := range c.positions {
		out = append(out, Summary{ID: p.ID, Title: p.Title, Department: p.Department})
	}
	return out
}
