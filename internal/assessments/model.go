// Package assessments runs the Big Five personality questionnaire for a
// session: question draw, progress tracking, and final scoring.
package assessments

import (
	"time"

	"recruiting-backend/internal/bigfive"
)

// Interpretation is the band and description for one scored factor.
type Interpretation struct {
	Level       bigfive.Level `json:"level"`
	Description string        `json:"description"`
	Score       int           `json:"score"`
}

// Result holds the outcome of a submitted questionnaire. The fit figures are
// computed against the default position's profile at submit time; analyses
// recompute the fit per position from the raw scores.
type Result struct {
	Scores          bigfive.Scores                       `json:"scores"`
	Interpretations map[bigfive.Dimension]Interpretation `json:"interpretations"`
	FitScore        int                                  `json:"fit_score"`
	FitLevel        bigfive.Level                        `json:"fit_level"`
	FitDescription  string                               `json:"fit_description"`
}

// Assessment is the per-session questionnaire state.
type Assessment struct {
	SessionID    string
	Started      bool
	Completed    bool
	Answers      map[int]int
	CurrentIndex int
	Result       *Result
	StartedAt    *time.Time
	CompletedAt  *time.Time
	UpdatedAt    time.Time
}
