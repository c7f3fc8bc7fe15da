package documents

import "time"

// Document represents an uploaded CV owned by an anonymous session.
type Document struct {
	ID               string
	SessionID        string
	FileName         string
	MimeType         string
	SizeBytes        int64
	StorageProvider  string
	StorageKey       string
	ExtractedTextKey string
	ExtractedAt      *time.Time
	CreatedAt        time.Time
}
