package analyses

import "time"

// Analysis represents a CV analysis job for one document and position.
type Analysis struct {
	ID           string         `json:"id"`
	SessionID    string         `json:"sessionId"`
	DocumentID   string         `json:"documentId"`
	PositionID   string         `json:"positionId"`
	Provider     string         `json:"provider"`
	Model        string         `json:"model"`
	Status       string         `json:"status"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorCode    *string        `json:"errorCode,omitempty"`
	ErrorMessage *string        `json:"errorMessage,omitempty"`
	StartedAt    *time.Time     `json:"startedAt,omitempty"`
	CompletedAt  *time.Time     `json:"completedAt,omitempty"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
}
