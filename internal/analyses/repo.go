package analyses

import (
	"context"
	"time"
)

// Repo defines persistence operations for analyses.
type Repo interface {
	Create(ctx context.Context, analysis Analysis) error
	GetByID(ctx context.Context, analysisID string) (Analysis, error)
	UpdateStatusResultAndError(ctx context.Context, analysisID, status string, result map[string]any, errorCode, errorMessage *string, startedAt, completedAt *time.Time) error
	ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Analysis, error)
}
