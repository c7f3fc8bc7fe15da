package analyses

import (
	"encoding/json"
	"testing"

	"recruiting-backend/internal/bigfive"
	"recruiting-backend/internal/jobs"
	"recruiting-backend/internal/matching"
)

func samplePayload() analysisPayload {
	return analysisPayload{
		StandardCVAnalysis: map[string]any{"career_level": "senior"},
		RequirementsMatching: matching.Result{
			MustHave: []matching.CategoryMatch{{
				Category: "Languages",
				Skills: []matching.SkillMatch{
					{Skill: "Go", Found: true, Evidence: "5 years of Go"},
					{Skill: "SQL", Found: true, Evidence: "PostgreSQL projects"},
				},
			}},
			ShouldHave: []matching.CategoryMatch{{
				Category: "Infra",
				Skills: []matching.SkillMatch{
					{Skill: "Docker", Found: true},
					{Skill: "Kubernetes", Found: false},
				},
			}},
			NiceToHave: []matching.CategoryMatch{{
				Category: "Cloud",
				Skills: []matching.SkillMatch{
					{Skill: "AWS", Found: false},
				},
			}},
		},
	}
}

func TestBuildResultScoresAndClassifies(t *testing.T) {
	result := buildResult(samplePayload(), jobs.Scoring{}, nil, 0.7, 0.3)

	scores, ok := result["requirement_scores"].(matching.Scores)
	if !ok {
		t.Fatalf("requirement_scores missing or wrong type: %T", result["requirement_scores"])
	}
	// 100*0.6 + 50*0.3 + 0*0.1 = 75.0
	if scores.WeightedTotal != 75.0 {
		t.Fatalf("expected weighted total 75.0, got %v", scores.WeightedTotal)
	}
	if result["match_level"] != matching.GoodMatch {
		t.Fatalf("expected good_match, got %v", result["match_level"])
	}
	if result["recommendation"] != "Good Match" {
		t.Fatalf("expected default label, got %v", result["recommendation"])
	}
	if _, ok := result["personality"]; ok {
		t.Fatal("personality must be absent without a fit")
	}
	if _, ok := result["combined_score"]; ok {
		t.Fatal("combined_score must be absent without a fit")
	}
}

func TestBuildResultWithPersonalityFit(t *testing.T) {
	fit := &personalityFit{Score: 60, Level: bigfive.LevelMedium, Description: "d"}
	result := buildResult(samplePayload(), jobs.Scoring{}, fit, 0.7, 0.3)

	combined, ok := result["combined_score"].(matching.CombinedScore)
	if !ok {
		t.Fatalf("combined_score missing: %T", result["combined_score"])
	}
	// 75*0.7 + 60*0.3 = 70.5
	if combined.Combined != 70.5 {
		t.Fatalf("expected 70.5, got %v", combined.Combined)
	}
}

func TestBuildResultSuppressesBlendOnZeroFit(t *testing.T) {
	fit := &personalityFit{Score: 0, Level: bigfive.LevelVeryLow, Description: "d"}
	result := buildResult(samplePayload(), jobs.Scoring{}, fit, 0.7, 0.3)

	if _, ok := result["personality"]; !ok {
		t.Fatal("personality block should still be present")
	}
	if _, ok := result["combined_score"]; ok {
		t.Fatal("combined_score must be suppressed for a zero fit score")
	}
}

func TestParsePayloadFillsMissingLevels(t *testing.T) {
	raw := json.RawMessage(`{
		"standard_cv_analysis": {},
		"requirements_matching": {
			"must_have": [{"category": "c", "skills": [{"skill": "Go", "found": true}]}]
		},
		"gap_analysis": {}
	}`)

	payload, err := parsePayload(raw)
	if err != nil {
		t.Fatalf("parsePayload: %v", err)
	}
	if payload.RequirementsMatching.ShouldHave == nil || payload.RequirementsMatching.NiceToHave == nil {
		t.Fatal("missing levels must be filled with empty slices")
	}
}

func TestParsePayloadRejectsInvalidJSON(t *testing.T) {
	_, err := parsePayload(json.RawMessage(`{"requirements_matching": [`))
	if err == nil {
		t.Fatal("expected parse error")
	}
}
