package analyses

import (
	"encoding/json"
	"fmt"

	"recruiting-backend/internal/bigfive"
	"recruiting-backend/internal/jobs"
	"recruiting-backend/internal/matching"
	"recruiting-backend/internal/shared/telemetry"
)

// analysisPayload is the JSON structure the model is instructed to return.
type analysisPayload struct {
	StandardCVAnalysis   map[string]any  `json:"standard_cv_analysis"`
	RequirementsMatching matching.Result `json:"requirements_matching"`
	GapAnalysis          struct {
		CriticalMissing []string `json:"critical_missing"`
		NiceMissing     []string `json:"nice_missing"`
		Strengths       []string `json:"strengths"`
	} `json:"gap_analysis"`
}

func parsePayload(raw json.RawMessage) (analysisPayload, error) {
	var payload analysisPayload
	if err := json.Unmarshal(raw, &payload); err != nil {
		return analysisPayload{}, fmt.Errorf("llm output parse: %w", err)
	}
	// The model occasionally drops a level despite the prompt; missing
	// levels score 0 rather than failing the analysis.
	if payload.RequirementsMatching.MustHave == nil {
		telemetry.Warn("analysis.payload.missing_level", map[string]any{"level": "must_have"})
		payload.RequirementsMatching.MustHave = []matching.CategoryMatch{}
	}
	if payload.RequirementsMatching.ShouldHave == nil {
		telemetry.Warn("analysis.payload.missing_level", map[string]any{"level": "should_have"})
		payload.RequirementsMatching.ShouldHave = []matching.CategoryMatch{}
	}
	if payload.RequirementsMatching.NiceToHave == nil {
		telemetry.Warn("analysis.payload.missing_level", map[string]any{"level": "nice_to_have"})
		payload.RequirementsMatching.NiceToHave = []matching.CategoryMatch{}
	}
	return payload, nil
}

// personalityFit is what the assessment side contributes to a finished
// analysis. A zero Score means "not yet available" and suppresses blending.
type personalityFit struct {
	Score       int
	Level       bigfive.Level
	Description string
}

// buildResult assembles the stored result document: the model's output plus
// the deterministic requirement scores, classification, and the optional
// personality blend.
func buildResult(payload analysisPayload, scoring jobs.Scoring, fit *personalityFit, cvWeight, personalityWeight float64) map[string]any {
	scores := matching.Aggregate(payload.RequirementsMatching, scoring.Weights)
	level := matching.Classify(scores.WeightedTotal, scoring.Thresholds)

	result := map[string]any{
		"standard_cv_analysis":  payload.StandardCVAnalysis,
		"requirements_matching": payload.RequirementsMatching,
		"gap_analysis": map[string]any{
			"critical_missing": emptyIfNil(payload.GapAnalysis.CriticalMissing),
			"nice_missing":     emptyIfNil(payload.GapAnalysis.NiceMissing),
			"strengths":        emptyIfNil(payload.GapAnalysis.Strengths),
		},
		"requirement_scores": scores,
		"match_level":        level,
		"recommendation":     scoring.Label(level),
	}

	if fit != nil {
		result["personality"] = map[string]any{
			"fit_score":       fit.Score,
			"fit_level":       fit.Level,
			"fit_description": fit.Description,
		}
		// A zero score on either side means that input is not available
		// yet; a blended figure would be misleading.
		if scores.WeightedTotal > 0 && fit.Score > 0 {
			result["combined_score"] = matching.Combine(scores.WeightedTotal, float64(fit.Score), cvWeight, personalityWeight)
		}
	}

	return result
}

func emptyIfNil(list []string) []string {
	if list == nil {
		return []string{}
	}
	return list
}
