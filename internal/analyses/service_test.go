package analyses

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"recruiting-backend/internal/bigfive"
	"recruiting-backend/internal/documents"
	"recruiting-backend/internal/jobs"
	"recruiting-backend/internal/llm"
	"recruiting-backend/internal/matching"
)

type fakeStore struct {
	objects map[string][]byte
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Save(ctx context.Context, sessionID, fileName string, r io.Reader) (string, int64, string, error) {
	data, _ := io.ReadAll(r)
	key := sessionID + "/" + fileName
	s.objects[key] = data
	return key, int64(len(data)), "application/pdf", nil
}

func (s *fakeStore) SaveWithKey(ctx context.Context, storageKey, contentType string, r io.Reader) (int64, error) {
	data, _ := io.ReadAll(r)
	s.objects[storageKey] = data
	return int64(len(data)), nil
}

func (s *fakeStore) Open(ctx context.Context, storageKey string) (io.ReadCloser, error) {
	data, ok := s.objects[storageKey]
	if !ok {
		return nil, errors.New("object not found: " + storageKey)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fakeLLM struct {
	response json.RawMessage
	err      error
	calls    int
}

func (f *fakeLLM) AnalyzeCV(ctx context.Context, input llm.AnalyzeInput) (json.RawMessage, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.response, nil
}

type fakeFit struct {
	score int
	ok    bool
}

func (f *fakeFit) FitForSession(ctx context.Context, sessionID string, profile bigfive.Profile) (int, bool, error) {
	return f.score, f.ok, nil
}

const testCatalogYAML = `
positions:
  - position_id: backend-dev
    position_title: Backend Developer
    must_have:
      - category: Languages
        weight: 1.0
        skills:
          - Go
          - SQL
    personality_profile:
      dimensions:
        C:
          ideal_score: 24
          weight: 1.0
`

func testCatalog(t *testing.T) *jobs.Catalog {
	t.Helper()
	path := filepath.Join(t.TempDir(), "job_requirements.yaml")
	if err := os.WriteFile(path, []byte(testCatalogYAML), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}
	catalog, err := jobs.Load(path)
	if err != nil {
		t.Fatalf("load catalog: %v", err)
	}
	return catalog
}

const llmResponse = `{
	"standard_cv_analysis": {"career_level": "senior"},
	"requirements_matching": {
		"must_have": [{"category": "Languages", "skills": [
			{"skill": "Go", "found": true, "evidence": "5 years"},
			{"skill": "SQL", "found": false}
		]}],
		"should_have": [],
		"nice_to_have": []
	},
	"gap_analysis": {"critical_missing": ["SQL"], "nice_missing": [], "strengths": ["Go"]}
}`

func newTestService(t *testing.T, client llm.Client, fit FitProvider) (*Service, *documents.MemoryRepo, *fakeStore) {
	t.Helper()
	docRepo := documents.NewMemoryRepo()
	store := newFakeStore()
	svc := &Service{
		Repo:              NewMemoryRepo(),
		DocRepo:           docRepo,
		Store:             store,
		LLM:               client,
		Catalog:           testCatalog(t),
		Fit:               fit,
		Provider:          "openai",
		Model:             "gpt-4o-mini",
		DefaultPositionID: "backend-dev",
		CVWeight:          0.7,
		PersonalityWeight: 0.3,
	}
	return svc, docRepo, store
}

func seedDocument(t *testing.T, docRepo *documents.MemoryRepo, store *fakeStore, sessionID string) documents.Document {
	t.Helper()
	// Pre-extracted text avoids the PDF parser in tests.
	store.objects["key/cv.pdf.extracted.txt"] = []byte("Go developer with five years of experience")
	doc := documents.Document{
		ID:               "doc-1",
		SessionID:        sessionID,
		FileName:         "cv.pdf",
		MimeType:         "application/pdf",
		StorageKey:       "key/cv.pdf",
		ExtractedTextKey: "key/cv.pdf.extracted.txt",
		CreatedAt:        time.Now().UTC(),
	}
	if err := docRepo.Create(context.Background(), doc); err != nil {
		t.Fatalf("seed document: %v", err)
	}
	return doc
}

func waitForTerminal(t *testing.T, svc *Service, sessionID, analysisID string) Analysis {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		analysis, err := svc.Get(context.Background(), sessionID, analysisID)
		if err != nil {
			t.Fatalf("Get: %v", err)
		}
		if analysis.Status == StatusCompleted || analysis.Status == StatusFailed {
			return analysis
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("analysis did not reach a terminal status")
	return Analysis{}
}

func TestAnalysisCompletes(t *testing.T) {
	client := &fakeLLM{response: json.RawMessage(llmResponse)}
	svc, docRepo, store := newTestService(t, client, nil)
	doc := seedDocument(t, docRepo, store, "session-1")

	analysis, err := svc.Create(context.Background(), "session-1", doc.ID, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if analysis.Status != StatusQueued {
		t.Fatalf("expected queued, got %s", analysis.Status)
	}
	if analysis.PositionID != "backend-dev" {
		t.Fatalf("expected default position, got %s", analysis.PositionID)
	}

	done := waitForTerminal(t, svc, "session-1", analysis.ID)
	if done.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s (%v)", done.Status, done.ErrorMessage)
	}

	scores, ok := done.Result["requirement_scores"].(matching.Scores)
	if !ok {
		t.Fatalf("requirement_scores missing: %T", done.Result["requirement_scores"])
	}
	// 1 of 2 must-have skills: 50% * 0.6 = 30.0 weighted total.
	if scores.WeightedTotal != 30.0 {
		t.Fatalf("expected 30.0, got %v", scores.WeightedTotal)
	}
	if done.Result["match_level"] != matching.PoorMatch {
		t.Fatalf("expected poor_match, got %v", done.Result["match_level"])
	}
}

func TestAnalysisAttachesPersonalityFit(t *testing.T) {
	client := &fakeLLM{response: json.RawMessage(llmResponse)}
	svc, docRepo, store := newTestService(t, client, &fakeFit{score: 80, ok: true})
	doc := seedDocument(t, docRepo, store, "session-1")

	analysis, err := svc.Create(context.Background(), "session-1", doc.ID, "backend-dev")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	done := waitForTerminal(t, svc, "session-1", analysis.ID)
	if done.Status != StatusCompleted {
		t.Fatalf("expected completed, got %s", done.Status)
	}

	if _, ok := done.Result["personality"]; !ok {
		t.Fatal("expected personality block")
	}
	combined, ok := done.Result["combined_score"].(matching.CombinedScore)
	if !ok {
		t.Fatalf("expected combined_score, got %T", done.Result["combined_score"])
	}
	// 30*0.7 + 80*0.3 = 45.0
	if combined.Combined != 45.0 {
		t.Fatalf("expected 45.0, got %v", combined.Combined)
	}
}

func TestAnalysisSkipsFitWhenAssessmentMissing(t *testing.T) {
	client := &fakeLLM{response: json.RawMessage(llmResponse)}
	svc, docRepo, store := newTestService(t, client, &fakeFit{ok: false})
	doc := seedDocument(t, docRepo, store, "session-1")

	analysis, err := svc.Create(context.Background(), "session-1", doc.ID, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	done := waitForTerminal(t, svc, "session-1", analysis.ID)

	if _, ok := done.Result["personality"]; ok {
		t.Fatal("personality must be absent without a completed assessment")
	}
}

func TestAnalysisFailsOnLLMError(t *testing.T) {
	client := &fakeLLM{err: errors.New("openai request timeout: deadline")}
	svc, docRepo, store := newTestService(t, client, nil)
	doc := seedDocument(t, docRepo, store, "session-1")

	analysis, err := svc.Create(context.Background(), "session-1", doc.ID, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	done := waitForTerminal(t, svc, "session-1", analysis.ID)
	if done.Status != StatusFailed {
		t.Fatalf("expected failed, got %s", done.Status)
	}
	if done.ErrorCode == nil || *done.ErrorCode != ErrorCodeLLMTimeout {
		t.Fatalf("expected LLM_TIMEOUT, got %v", done.ErrorCode)
	}
}

func TestCreateValidations(t *testing.T) {
	client := &fakeLLM{response: json.RawMessage(llmResponse)}
	svc, docRepo, store := newTestService(t, client, nil)
	seedDocument(t, docRepo, store, "session-1")

	if _, err := svc.Create(context.Background(), "session-1", "", ""); err == nil {
		t.Fatal("expected error for missing documentID")
	}
	if _, err := svc.Create(context.Background(), "session-1", "doc-1", "unknown-position"); err == nil {
		t.Fatal("expected error for unknown position")
	}
	if _, err := svc.Create(context.Background(), "other-session", "doc-1", ""); !errors.Is(err, documents.ErrNotFound) {
		t.Fatalf("expected document not found for foreign session, got %v", err)
	}
}

func TestGetScopedToSession(t *testing.T) {
	client := &fakeLLM{response: json.RawMessage(llmResponse)}
	svc, docRepo, store := newTestService(t, client, nil)
	doc := seedDocument(t, docRepo, store, "session-1")

	analysis, err := svc.Create(context.Background(), "session-1", doc.ID, "")
	if err != nil {
		t.Fatalf("Create: %v", err)
	}

	if _, err := svc.Get(context.Background(), "other-session", analysis.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign session, got %v", err)
	}
}
