package assessments

import (
	"context"
	"errors"
	"math/rand/v2"
	"time"

	"recruiting-backend/internal/bigfive"
	"recruiting-backend/internal/jobs"
	"recruiting-backend/internal/shared/metrics"
	"recruiting-backend/internal/shared/telemetry"
)

// DefaultPerDimension is how many items are drawn per factor for one test run.
const DefaultPerDimension = 6

// Service implements the questionnaire flow on top of the question pool and
// the position catalogue.
type Service struct {
	Repo      Repo
	Questions *bigfive.QuestionSet
	Catalog   *jobs.Catalog

	// DefaultPositionID selects the profile used for the fit figure shown
	// right after submit. Analyses compute position-specific fits later.
	DefaultPositionID string

	// PerDimension overrides the draw size per factor; zero means the default.
	PerDimension int
}

// Draw selects a random test run from the pool: PerDimension items per
// factor, shuffled together. A factor with fewer items than requested
// contributes everything it has.
func (s *Service) Draw() []bigfive.Question {
	per := s.PerDimension
	if per <= 0 {
		per = DefaultPerDimension
	}

	byDim := s.Questions.ByDimension()
	out := make([]bigfive.Question, 0, per*len(bigfive.Dimensions))
	for _, d := range bigfive.Dimensions {
		pool := byDim[d]
		if len(pool) <= per {
			if len(pool) < per {
				telemetry.Warn("assessment.draw.short_dimension", map[string]any{
					"dimension": string(d),
					"available": len(pool),
					"requested": per,
				})
			}
			out = append(out, pool...)
			continue
		}
		for _, idx := range rand.Perm(len(pool))[:per] {
			out = append(out, pool[idx])
		}
	}

	rand.Shuffle(len(out), func(i, j int) {
		out[i], out[j] = out[j], out[i]
	})
	return out
}

// Start resets the session's assessment to a fresh started state.
func (s *Service) Start(ctx context.Context, sessionID string) (Assessment, error) {
	now := time.Now().UTC()
	a := Assessment{
		SessionID: sessionID,
		Started:   true,
		Answers:   map[int]int{},
		StartedAt: &now,
		UpdatedAt: now,
	}
	if err := s.Repo.Upsert(ctx, a); err != nil {
		return Assessment{}, err
	}

	metrics.IncAssessmentStarted()
	telemetry.Info("assessment.started", map[string]any{
		"session_id": sessionID,
	})
	return a, nil
}

// Status returns the session's assessment state. Sessions that never started
// get a zero-value state rather than an error.
func (s *Service) Status(ctx context.Context, sessionID string) (Assessment, error) {
	a, err := s.Repo.Get(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return Assessment{SessionID: sessionID}, nil
	}
	if err != nil {
		return Assessment{}, err
	}
	return a, nil
}

// Progress replaces the session's saved answers and cursor wholesale; clients
// send their complete local state on every save.
func (s *Service) Progress(ctx context.Context, sessionID string, answers map[int]int, currentIndex int) (Assessment, error) {
	a, err := s.Repo.Get(ctx, sessionID)
	if err != nil {
		return Assessment{}, err
	}

	if answers == nil {
		answers = map[int]int{}
	}
	if currentIndex < 0 {
		currentIndex = 0
	}
	a.Answers = answers
	a.CurrentIndex = currentIndex
	a.UpdatedAt = time.Now().UTC()
	if err := s.Repo.Upsert(ctx, a); err != nil {
		return Assessment{}, err
	}
	return a, nil
}

// Submit scores the final answer set, interprets each factor, computes the
// fit against the default position's profile, and marks the assessment
// completed. Answers outside the 1-5 scale are dropped with a warning so one
// corrupt value does not void an otherwise complete run.
func (s *Service) Submit(ctx context.Context, sessionID string, answers map[int]int) (*Result, error) {
	if len(answers) == 0 {
		return nil, ErrNoAnswers
	}

	valid := make(map[int]int, len(answers))
	for id, value := range answers {
		if value < 1 || value > 5 {
			telemetry.Warn("assessment.answer.out_of_range", map[string]any{
				"session_id":  sessionID,
				"question_id": id,
				"value":       value,
			})
			continue
		}
		valid[id] = value
	}
	if len(valid) == 0 {
		return nil, ErrNoAnswers
	}

	scored, err := bigfive.CalculateScores(valid, s.Questions.Questions)
	if err != nil {
		var scoringErr *bigfive.ScoringError
		if errors.As(err, &scoringErr) {
			return nil, ErrNoMatchingQuestions
		}
		return nil, err
	}

	interpretations := make(map[bigfive.Dimension]Interpretation, len(bigfive.Dimensions))
	for _, d := range bigfive.Dimensions {
		score := scored.Scores.Get(d)
		level, description, err := bigfive.Interpret(d, score)
		if err != nil {
			return nil, err
		}
		interpretations[d] = Interpretation{Level: level, Description: description, Score: score}
	}

	fitScore := bigfive.FitScore(scored.Scores, s.defaultProfile())
	fitLevel, fitDescription := bigfive.InterpretFit(fitScore)

	result := &Result{
		Scores:          scored.Scores,
		Interpretations: interpretations,
		FitScore:        fitScore,
		FitLevel:        fitLevel,
		FitDescription:  fitDescription,
	}

	now := time.Now().UTC()
	a, err := s.Repo.Get(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		// Submitting without an explicit start is fine; the client may have
		// kept all state locally.
		a = Assessment{SessionID: sessionID, StartedAt: &now}
	} else if err != nil {
		return nil, err
	}
	a.Started = true
	a.Completed = true
	a.Answers = valid
	a.Result = result
	a.CompletedAt = &now
	a.UpdatedAt = now
	if err := s.Repo.Upsert(ctx, a); err != nil {
		return nil, err
	}

	metrics.IncAssessmentCompleted()
	telemetry.Info("assessment.completed", map[string]any{
		"session_id": sessionID,
		"answered":   scored.Answered,
		"fit_score":  fitScore,
	})
	return result, nil
}

// FitForSession recomputes the session's personality fit against a specific
// position profile. It reports ok=false while the session has no completed
// assessment.
func (s *Service) FitForSession(ctx context.Context, sessionID string, profile bigfive.Profile) (int, bool, error) {
	a, err := s.Repo.Get(ctx, sessionID)
	if errors.Is(err, ErrNotFound) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	if !a.Completed || a.Result == nil {
		return 0, false, nil
	}
	return bigfive.FitScore(a.Result.Scores, profile), true, nil
}

func (s *Service) defaultProfile() bigfive.Profile {
	if s.Catalog == nil || s.DefaultPositionID == "" {
		return nil
	}
	position, err := s.Catalog.Get(s.DefaultPositionID)
	if err != nil {
		telemetry.Warn("assessment.default_position_missing", map[string]any{
			"position_id": s.DefaultPositionID,
		})
		return nil
	}
	return position.Profile
}
