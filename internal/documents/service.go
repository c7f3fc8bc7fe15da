package documents

import (
	"bytes"
	"context"
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruiting-backend/internal/shared/storage/object"
	"recruiting-backend/internal/shared/telemetry"
	"recruiting-backend/internal/shared/util"
)

// MaxUploadSize caps CV uploads at 10MB.
const MaxUploadSize = 10 << 20

var pdfMagic = []byte("%PDF-")

// Service contains business logic for documents.
type Service struct {
	Store object.ObjectStore
	Repo  DocumentsRepo
}

// Upload validates the file, saves it to object storage, and records the
// document. Only PDF files up to MaxUploadSize are accepted.
func (s *Service) Upload(ctx context.Context, sessionID, fileName string, r io.Reader) (Document, error) {
	if sessionID == "" {
		return Document{}, ErrInvalidInput
	}
	clean, err := util.SanitizeFileName(fileName)
	if err != nil {
		return Document{}, ErrInvalidInput
	}
	if strings.ToLower(filepath.Ext(clean)) != ".pdf" {
		return Document{}, ErrUnsupportedType
	}

	// Buffer the payload to validate the magic bytes before anything is
	// persisted. The handler caps the request body, the extra byte here
	// detects oversized payloads that slipped past the declared size.
	raw, err := io.ReadAll(io.LimitReader(r, MaxUploadSize+1))
	if err != nil {
		return Document{}, err
	}
	if len(raw) > MaxUploadSize {
		return Document{}, ErrTooLarge
	}
	if !bytes.HasPrefix(raw, pdfMagic) {
		return Document{}, ErrUnsupportedType
	}

	storageKey, size, mimeType, err := s.Store.Save(ctx, sessionID, clean, bytes.NewReader(raw))
	if err != nil {
		return Document{}, err
	}

	doc := Document{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		FileName:   clean,
		MimeType:   mimeType,
		SizeBytes:  size,
		StorageKey: storageKey,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		return Document{}, err
	}

	telemetry.Info("documents.uploaded", map[string]any{
		"document_id": doc.ID,
		"session_id":  sessionID,
		"size_bytes":  size,
	})
	return doc, nil
}

// Current returns the newest document for a session.
func (s *Service) Current(ctx context.Context, sessionID string) (Document, error) {
	if sessionID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetCurrentBySession(ctx, sessionID)
}

// Get returns a document by id, scoped to the session.
func (s *Service) Get(ctx context.Context, sessionID, documentID string) (Document, error) {
	if sessionID == "" || documentID == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.GetByID(ctx, sessionID, documentID)
}

// List returns the session's documents, newest first.
func (s *Service) List(ctx context.Context, sessionID string, limit, offset int) ([]Document, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListBySession(ctx, sessionID, limit, offset)
}

// MarkExtracted records the derived text object for a document.
func (s *Service) MarkExtracted(ctx context.Context, sessionID, documentID, extractedKey string) error {
	return s.Repo.UpdateExtraction(ctx, sessionID, documentID, extractedKey, time.Now().UTC())
}
