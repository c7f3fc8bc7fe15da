package jobs

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"recruiting-backend/internal/bigfive"
	"recruiting-backend/internal/shared/telemetry"
)

// ConfigError reports a missing or malformed position catalogue.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "job requirements config: " + e.Reason
}

func configErrorf(format string, args ...any) *ConfigError {
	return &ConfigError{Reason: fmt.Sprintf(format, args...)}
}

type catalogFile struct {
	Positions []positionYAML `yaml:"positions"`
	Scoring   Scoring        `yaml:"scoring"`
}

type positionYAML struct {
	ID         string                `yaml:"position_id"`
	Title      string                `yaml:"position_title"`
	Department string                `yaml:"department"`
	MustHave   []RequirementCategory `yaml:"must_have"`
	ShouldHave []RequirementCategory `yaml:"should_have"`
	NiceToHave []RequirementCategory `yaml:"nice_to_have"`
	Profile    *profileYAML          `yaml:"personality_profile"`
}

type profileYAML struct {
	Dimensions map[bigfive.Dimension]profileDimensionYAML `yaml:"dimensions"`
}

// Pointer fields distinguish "absent" from "zero" so defaults only fill
// omitted values.
type profileDimensionYAML struct {
	IdealScore *int     `yaml:"ideal_score"`
	Weight     *float64 `yaml:"weight"`
	Reversed   bool     `yaml:"reversed"`
}

// Load reads and validates the position catalogue from a YAML file.
func Load(path string) (*Catalog, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, configErrorf("config file not readable: %s: %v", path, err)
	}

	var file catalogFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, configErrorf("failed to parse YAML: %v", err)
	}
	if len(file.Positions) == 0 {
		return nil, &ConfigError{Reason: "'positions' key missing or empty"}
	}

	catalog := &Catalog{
		Scoring:   file.Scoring,
		positions: make([]Position, 0, len(file.Positions)),
		byID:      make(map[string]*Position, len(file.Positions)),
	}

	for _, py := range file.Positions {
		if py.ID == "" {
			return nil, &ConfigError{Reason: "position without position_id"}
		}
		if py.Title == "" {
			return nil, configErrorf("position %s: position_title missing", py.ID)
		}
		if _, exists := catalog.byID[py.ID]; exists {
			return nil, configErrorf("duplicate position_id: %s", py.ID)
		}

		p := Position{
			ID:         py.ID,
			Title:      py.Title,
			Department: py.Department,
			MustHave:   pruneCategories(py.ID, "must_have", py.MustHave),
			ShouldHave: pruneCategories(py.ID, "should_have", py.ShouldHave),
			NiceToHave: pruneCategories(py.ID, "nice_to_have", py.NiceToHave),
		}
		if py.Department == "" {
			p.Department = "IT"
		}
		if py.Profile != nil {
			profile, err := buildProfile(py.ID, py.Profile)
			if err != nil {
				return nil, err
			}
			p.Profile = profile
		}

		catalog.positions = append(catalog.positions, p)
		catalog.byID[p.ID] = &catalog.positions[len(catalog.positions)-1]
	}

	must, should, nice := 0, 0, 0
	for i := range catalog.positions {
		m, s, n := catalog.positions[i].SkillCounts()
		must, should, nice = must+m, should+s, nice+n
	}
	telemetry.Info("jobs.catalog.loaded", map[string]any{
		"path":         path,
		"positions":    len(catalog.positions),
		"must_have":    must,
		"should_have":  should,
		"nice_to_have": nice,
	})

	return catalog, nil
}

// pruneCategories drops categories with no skills; an empty category would
// silently distort the level percentage.
func pruneCategories(positionID, level string, categories []RequirementCategory) []RequirementCategory {
	out := make([]RequirementCategory, 0, len(categories))
	for _, c := range categories {
		if len(c.Skills) == 0 {
			telemetry.Warn("jobs.category.empty", map[string]any{
				"position": positionID,
				"level":    level,
				"category": c.Category,
			})
			continue
		}
		out = append(out, c)
	}
	return out
}

func buildProfile(positionID string, py *profileYAML) (bigfive.Profile, error) {
	if len(py.Dimensions) == 0 {
		return nil, nil
	}

	profile := make(bigfive.Profile, len(py.Dimensions))
	for d, entry := range py.Dimensions {
		if !d.Valid() {
			return nil, configErrorf("position %s: invalid profile dimension %q", positionID, string(d))
		}
		pd := bigfive.ProfileDimension{
			IdealScore: bigfive.DefaultIdealScore,
			Weight:     bigfive.DefaultWeight,
			Reversed:   entry.Reversed,
		}
		if entry.IdealScore != nil {
			pd.IdealScore = *entry.IdealScore
		}
		if entry.Weight != nil {
			pd.Weight = *entry.Weight
		}
		if pd.IdealScore < bigfive.MinDimensionScore || pd.IdealScore > bigfive.MaxDimensionScore {
			return nil, configErrorf("position %s: dimension %s ideal_score %d outside [%d,%d]",
				positionID, d, pd.IdealScore, bigfive.MinDimensionScore, bigfive.MaxDimensionScore)
		}
		if pd.Weight < 0 {
			return nil, configErrorf("position %s: dimension %s has negative weight", positionID, d)
		}
		profile[d] = pd
	}
	return profile, nil
}
