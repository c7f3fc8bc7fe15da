package assessments

import (
	"context"
	"sync"

	"recruiting-backend/internal/bigfive"
)

// MemoryRepo is an in-memory Repo for local runs and tests.
type MemoryRepo struct {
	mu    sync.RWMutex
	state map[string]Assessment
}

// NewMemoryRepo constructs an empty MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{state: make(map[string]Assessment)}
}

// Get returns the assessment for a session.
func (r *MemoryRepo) Get(ctx context.Context, sessionID string) (Assessment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.state[sessionID]
	if !ok {
		return Assessment{}, ErrNotFound
	}
	return cloneAssessment(a), nil
}

// Upsert stores the assessment, replacing any previous state for the session.
func (r *MemoryRepo) Upsert(ctx context.Context, assessment Assessment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.state[assessment.SessionID] = cloneAssessment(assessment)
	return nil
}

func cloneAssessment(a Assessment) Assessment {
	out := a
	if a.Answers != nil {
		out.Answers = make(map[int]int, len(a.Answers))
		for id, v := range a.Answers {
			out.Answers[id] = v
		}
	}
	if a.Result != nil {
		result := *a.Result
		if a.Result.Interpretations != nil {
			result.Interpretations = make(map[bigfive.Dimension]Interpretation, len(a.Result.Interpretations))
			for d, i := range a.Result.Interpretations {
				result.Interpretations[d] = i
			}
		}
		out.Result = &result
	}
	return out
}

var _ Repo = (*MemoryRepo)(nil)
