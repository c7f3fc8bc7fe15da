package documents

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
)

type fakeStore struct {
	saved map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{saved: make(map[string][]byte)}
}

func (s *fakeStore) Save(ctx context.Context, sessionID, fileName string, r io.Reader) (string, int64, string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", 0, "", err
	}
	key := sessionID + "/" + fileName
	s.saved[key] = data
	return key, int64(len(data)), "application/pdf", nil
}

func (s *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := s.saved[storageKey]
	if !ok {
		return nil, errors.New("not found")
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func pdfPayload() []byte {
	return []byte("%PDF-1.7 test payload")
}

func TestUploadAndCurrent(t *testing.T) {
	svc := &Service{Store: newFakeStore(), Repo: NewMemoryRepo()}
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "session-1", "cv.pdf", bytes.NewReader(pdfPayload()))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}
	if doc.ID == "" || doc.SessionID != "session-1" || doc.FileName != "cv.pdf" {
		t.Fatalf("unexpected document: %+v", doc)
	}

	current, err := svc.Current(ctx, "session-1")
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	if current.ID != doc.ID {
		t.Fatalf("expected current to be %s, got %s", doc.ID, current.ID)
	}
}

func TestUploadValidation(t *testing.T) {
	svc := &Service{Store: newFakeStore(), Repo: NewMemoryRepo()}
	ctx := context.Background()

	cases := []struct {
		name     string
		session  string
		fileName string
		payload  []byte
		wantErr  error
	}{
		{name: "missing_session", session: "", fileName: "cv.pdf", payload: pdfPayload(), wantErr: ErrInvalidInput},
		{name: "traversal_name", session: "s", fileName: "../cv.pdf", payload: pdfPayload(), wantErr: ErrInvalidInput},
		{name: "non_pdf_extension", session: "s", fileName: "cv.docx", payload: pdfPayload(), wantErr: ErrUnsupportedType},
		{name: "wrong_magic_bytes", session: "s", fileName: "cv.pdf", payload: []byte("not a pdf"), wantErr: ErrUnsupportedType},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Upload(ctx, tc.session, tc.fileName, bytes.NewReader(tc.payload))
			if !errors.Is(err, tc.wantErr) {
				t.Fatalf("expected %v, got %v", tc.wantErr, err)
			}
		})
	}
}

func TestUploadRejectsOversizedPayload(t *testing.T) {
	svc := &Service{Store: newFakeStore(), Repo: NewMemoryRepo()}

	payload := "%PDF-" + strings.Repeat("x", MaxUploadSize)
	_, err := svc.Upload(context.Background(), "s", "cv.pdf", strings.NewReader(payload))
	if !errors.Is(err, ErrTooLarge) {
		t.Fatalf("expected ErrTooLarge, got %v", err)
	}
}

func TestCurrentEmptySession(t *testing.T) {
	svc := &Service{Store: newFakeStore(), Repo: NewMemoryRepo()}

	_, err := svc.Current(context.Background(), "session-without-docs")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestListNewestFirst(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Store: newFakeStore(), Repo: repo}
	ctx := context.Background()

	for _, name := range []string{"a.pdf", "b.pdf", "c.pdf"} {
		if _, err := svc.Upload(ctx, "s", name, bytes.NewReader(pdfPayload())); err != nil {
			t.Fatalf("Upload %s: %v", name, err)
		}
	}

	docs, err := svc.List(ctx, "s", 2, 0)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(docs) != 2 {
		t.Fatalf("expected 2 documents, got %d", len(docs))
	}
}

func TestMarkExtractedOnce(t *testing.T) {
	repo := NewMemoryRepo()
	svc := &Service{Store: newFakeStore(), Repo: repo}
	ctx := context.Background()

	doc, err := svc.Upload(ctx, "s", "cv.pdf", bytes.NewReader(pdfPayload()))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	if err := svc.MarkExtracted(ctx, "s", doc.ID, doc.StorageKey+".extracted.txt"); err != nil {
		t.Fatalf("MarkExtracted: %v", err)
	}
	stored, err := repo.GetByID(ctx, "s", doc.ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if stored.ExtractedTextKey == "" || stored.ExtractedAt == nil {
		t.Fatalf("extraction metadata missing: %+v", stored)
	}

	// A second call must not overwrite the original key.
	firstKey := stored.ExtractedTextKey
	if err := svc.MarkExtracted(ctx, "s", doc.ID, "other-key"); err != nil {
		t.Fatalf("MarkExtracted second: %v", err)
	}
	stored, _ = repo.GetByID(ctx, "s", doc.ID)
	if stored.ExtractedTextKey != firstKey {
		t.Fatalf("extraction key overwritten: %s", stored.ExtractedTextKey)
	}
}
