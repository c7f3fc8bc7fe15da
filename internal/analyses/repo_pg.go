package analyses

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"time"
)

// PGRepo implements Repo using Postgres. The result document is stored as
// JSONB.
type PGRepo struct {
	DB *sql.DB
}

const analysisColumns = `id, session_id, document_id, position_id, provider, model, status, result, error_code, error_message, started_at, completed_at, created_at, updated_at`

// Create inserts a new analysis.
func (r *PGRepo) Create(ctx context.Context, analysis Analysis) error {
	const query = `
INSERT INTO analyses (
    id,
    session_id,
    document_id,
    position_id,
    provider,
    model,
    status,
    created_at,
    updated_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)`

	_, err := r.DB.ExecContext(
		ctx,
		query,
		analysis.ID,
		analysis.SessionID,
		analysis.DocumentID,
		analysis.PositionID,
		analysis.Provider,
		analysis.Model,
		analysis.Status,
		analysis.CreatedAt,
	)
	return err
}

// GetByID returns an analysis by its ID.
func (r *PGRepo) GetByID(ctx context.Context, analysisID string) (Analysis, error) {
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE id = $1
LIMIT 1`
	analysis, err := scanAnalysis(r.DB.QueryRowContext(ctx, query, analysisID))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Analysis{}, ErrNotFound
		}
		return Analysis{}, err
	}
	return analysis, nil
}

// UpdateStatusResultAndError updates status, result, error fields and
// timestamps. Nil pointers leave the corresponding columns untouched.
func (r *PGRepo) UpdateStatusResultAndError(ctx context.Context, analysisID, status string, result map[string]any, errorCode, errorMessage *string, startedAt, completedAt *time.Time) error {
	const query = `
UPDATE analyses
SET status = $2,
    result = COALESCE($3, result),
    error_code = COALESCE($4, error_code),
    error_message = COALESCE($5, error_message),
    started_at = COALESCE($6, started_at),
    completed_at = COALESCE($7, completed_at),
    updated_at = $8
WHERE id = $1`

	var resultJSON any
	if result != nil {
		data, err := json.Marshal(result)
		if err != nil {
			return err
		}
		resultJSON = data
	}

	res, err := r.DB.ExecContext(
		ctx,
		query,
		analysisID,
		status,
		resultJSON,
		errorCode,
		errorMessage,
		startedAt,
		completedAt,
		time.Now().UTC(),
	)
	if err != nil {
		return err
	}
	affected, _ := res.RowsAffected()
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

// ListBySession lists analyses for a session, newest first.
func (r *PGRepo) ListBySession(ctx context.Context, sessionID string, limit, offset int) ([]Analysis, error) {
	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}
	if offset < 0 {
		offset = 0
	}
	const query = `
SELECT ` + analysisColumns + `
FROM analyses
WHERE session_id = $1
ORDER BY created_at DESC
LIMIT $2 OFFSET $3`

	rows, err := r.DB.QueryContext(ctx, query, sessionID, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Analysis
	for rows.Next() {
		analysis, err := scanAnalysis(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, analysis)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnalysis(row rowScanner) (Analysis, error) {
	var analysis Analysis
	var resultRaw []byte
	var errorCode sql.NullString
	var errorMessage sql.NullString
	var startedAt sql.NullTime
	var completedAt sql.NullTime
	err := row.Scan(
		&analysis.ID,
		&analysis.SessionID,
		&analysis.DocumentID,
		&analysis.PositionID,
		&analysis.Provider,
		&analysis.Model,
		&analysis.Status,
		&resultRaw,
		&errorCode,
		&errorMessage,
		&startedAt,
		&completedAt,
		&analysis.CreatedAt,
		&analysis.UpdatedAt,
	)
	if err != nil {
		return Analysis{}, err
	}
	if len(resultRaw) > 0 {
		if err := json.Unmarshal(resultRaw, &analysis.Result); err != nil {
			return Analysis{}, err
		}
	}
	if errorCode.Valid {
		analysis.ErrorCode = &errorCode.String
	}
	if errorMessage.Valid {
		analysis.ErrorMessage = &errorMessage.String
	}
	if startedAt.Valid {
		analysis.StartedAt = &startedAt.Time
	}
	if completedAt.Valid {
		analysis.CompletedAt = &completedAt.Time
	}
	return analysis, nil
}

var _ Repo = (*PGRepo)(nil)
