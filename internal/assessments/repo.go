package assessments

import "context"

// Repo defines persistence operations for assessments. State is keyed by
// session, one assessment per session.
type Repo interface {
	Get(ctx context.Context, sessionID string) (Assessment, error)
	Upsert(ctx context.Context, assessment Assessment) error
}
