package assessments

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// PGRepo implements Repo using Postgres. Answers and results are stored as
// JSONB since they are only ever read back whole.
type PGRepo struct {
	DB *sql.DB
}

const assessmentColumns = `session_id, started, completed, current_index, answers, result, started_at, completed_at, updated_at`

// Get returns the assessment for a session.
func (r *PGRepo) Get(ctx context.Context, sessionID string) (Assessment, error) {
	const query = `
SELECT ` + assessmentColumns + `
FROM assessments
WHERE session_id = $1
LIMIT 1`

	var a Assessment
	var answers []byte
	var result []byte
	var startedAt sql.NullTime
	var completedAt sql.NullTime
	err := r.DB.QueryRowContext(ctx, query, sessionID).Scan(
		&a.SessionID,
		&a.Started,
		&a.Completed,
		&a.CurrentIndex,
		&answers,
		&result,
		&startedAt,
		&completedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, ErrNotFound
		}
		return Assessment{}, err
	}

	if len(answers) > 0 {
		if err := json.Unmarshal(answers, &a.Answers); err != nil {
			return Assessment{}, fmt.Errorf("decode answers: %w", err)
		}
	}
	if len(result) > 0 {
		a.Result = &Result{}
		if err := json.Unmarshal(result, a.Result); err != nil {
			return Assessment{}, fmt.Errorf("decode result: %w", err)
		}
	}
	if startedAt.Valid {
		a.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		a.CompletedAt = &completedAt.Time
	}
	return a, nil
}

// Upsert writes the full assessment state for a session.
func (r *PGRepo) Upsert(ctx context.Context, a Assessment) error {
	const query = `
INSERT INTO assessments (
    session_id,
    started,
    completed,
    current_index,
    answers,
    result,
    started_at,
    completed_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
ON CONFLICT (session_id) DO UPDATE SET
    started = EXCLUDED.started,
    completed = EXCLUDED.completed,
    current_index = EXCLUDED.current_index,
    answers = EXCLUDED.answers,
    result = EXCLUDED.result,
    started_at = EXCLUDED.started_at,
    completed_at = EXCLUDED.completed_at,
    updated_at = EXCLUDED.updated_at`

	answers, err := json.Marshal(a.Answers)
	if err != nil {
		return fmt.Errorf("encode answers: %w", err)
	}
	var result any
	if a.Result != nil {
		encoded, err := json.Marshal(a.Result)
		if err != nil {
			return fmt.Errorf("encode result: %w", err)
		}
		result = encoded
	}

	_, err = r.DB.ExecContext(
		ctx,
		query,
		a.SessionID,
		a.Started,
		a.Completed,
		a.CurrentIndex,
		answers,
		result,
		a.StartedAt,
		a.CompletedAt,
		a.UpdatedAt,
	)
	return err
}

var _ Repo = (*PGRepo)(nil)
