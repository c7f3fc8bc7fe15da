package analyses

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"recruiting-backend/internal/bigfive"
	"recruiting-backend/internal/documents"
	"recruiting-backend/internal/extract"
	"recruiting-backend/internal/jobs"
	"recruiting-backend/internal/llm"
	"recruiting-backend/internal/shared/metrics"
	"recruiting-backend/internal/shared/storage/object"
	"recruiting-backend/internal/shared/telemetry"
)

const (
	StatusQueued     = "queued"
	StatusProcessing = "processing"
	StatusCompleted  = "completed"
	StatusFailed     = "failed"
)

// FitProvider reports the session's personality fit against a position
// profile, when the assessment has been completed.
type FitProvider interface {
	FitForSession(ctx context.Context, sessionID string, profile bigfive.Profile) (score int, ok bool, err error)
}

// Service contains business logic for analyses.
type Service struct {
	Repo    Repo
	DocRepo documents.DocumentsRepo
	Store   object.ObjectStore
	LLM     llm.Client
	Catalog *jobs.Catalog
	Fit     FitProvider

	Provider          string
	Model             string
	DefaultPositionID string
	CVWeight          float64
	PersonalityWeight float64
}

// Create enqueues a new analysis for a document and kicks off asynchronous
// completion. An empty positionID falls back to the configured default.
func (s *Service) Create(ctx context.Context, sessionID, documentID, positionID string) (Analysis, error) {
	if documentID == "" || sessionID == "" {
		return Analysis{}, errors.New("documentID and sessionID are required")
	}
	if positionID == "" {
		positionID = s.DefaultPositionID
	}
	if _, err := s.Catalog.Get(positionID); err != nil {
		return Analysis{}, fmt.Errorf("validation: %w", err)
	}
	if _, err := s.DocRepo.GetByID(ctx, sessionID, documentID); err != nil {
		return Analysis{}, err
	}

	analysis := Analysis{
		ID:         uuid.NewString(),
		SessionID:  sessionID,
		DocumentID: documentID,
		PositionID: positionID,
		Provider:   normalizeProvider(s.Provider),
		Model:      s.Model,
		Status:     StatusQueued,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, analysis); err != nil {
		return Analysis{}, err
	}

	go s.completeAsync(backgroundWithRequestID(ctx), analysis.ID)

	return analysis, nil
}

// Get returns an analysis by ID, scoped to the caller's session.
func (s *Service) Get(ctx context.Context, sessionID, analysisID string) (Analysis, error) {
	if analysisID == "" {
		return Analysis{}, errors.New("analysisID is required")
	}
	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		return Analysis{}, err
	}
	if analysis.SessionID != sessionID {
		return Analysis{}, ErrNotFound
	}
	return analysis, nil
}

// List returns analyses for a session ordered newest-first.
func (s *Service) List(ctx context.Context, sessionID string, limit, offset int) ([]Analysis, error) {
	if sessionID == "" {
		return nil, errors.New("sessionID is required")
	}
	return s.Repo.ListBySession(ctx, sessionID, limit, offset)
}

func normalizeProvider(provider string) string {
	if strings.TrimSpace(provider) == "" {
		return "openai"
	}
	return provider
}

func (s *Service) completeAsync(ctx context.Context, analysisID string) {
	defer func() {
		if r := recover(); r != nil {
			s.failAnalysis(ctx, analysisID, "", "", fmt.Errorf("panic: %v", r), nil)
		}
	}()
	startedAt := time.Now().UTC()
	if err := s.Repo.UpdateStatusResultAndError(ctx, analysisID, StatusProcessing, nil, nil, nil, &startedAt, nil); err != nil {
		s.failAnalysis(ctx, analysisID, "", "", fmt.Errorf("set processing failed: %w", err), &startedAt)
		return
	}

	analysis, err := s.Repo.GetByID(ctx, analysisID)
	if err != nil {
		s.failAnalysis(ctx, analysisID, "", "", fmt.Errorf("analysis lookup: %w", err), &startedAt)
		return
	}
	metrics.IncAnalysisStarted()
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"session_id":        analysis.SessionID,
		"document_id":       analysis.DocumentID,
		"analysis_id":       analysis.ID,
		"position_id":       analysis.PositionID,
		"status":            StatusProcessing,
		"status_transition": "queued->processing",
	})
	if s.DocRepo == nil || s.Store == nil {
		s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, errors.New("missing document store dependencies"), &startedAt)
		return
	}
	if s.LLM == nil {
		s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, errors.New("missing llm client"), &startedAt)
		return
	}

	position, err := s.Catalog.Get(analysis.PositionID)
	if err != nil {
		s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, fmt.Errorf("validation: %w", err), &startedAt)
		return
	}

	doc, err := s.DocRepo.GetByID(ctx, analysis.SessionID, analysis.DocumentID)
	if err != nil {
		s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, fmt.Errorf("document lookup id=%s: %w", analysis.DocumentID, err), &startedAt)
		return
	}

	extractedKey := doc.ExtractedTextKey
	if extractedKey == "" {
		if _, _, err := extract.ExtractText(ctx, s.Store, doc.StorageKey, doc.MimeType, doc.FileName); err != nil {
			s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, fmt.Errorf("document %s: %w", doc.ID, err), &startedAt)
			return
		}
		extractedKey = doc.StorageKey + ".extracted.txt"
		if err := s.DocRepo.UpdateExtraction(ctx, doc.SessionID, doc.ID, extractedKey, time.Now().UTC()); err != nil {
			s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, fmt.Errorf("document %s: update extraction: %w", doc.ID, err), &startedAt)
			return
		}
	}

	cvText, err := loadText(ctx, s.Store, extractedKey)
	if err != nil {
		s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, fmt.Errorf("document %s: load extracted text: %w", doc.ID, err), &startedAt)
		return
	}

	input := llm.AnalyzeInput{
		CVText:        cvText,
		PositionTitle: position.Title,
		Requirements:  jobs.FormatForPrompt(position),
	}

	raw, err := s.LLM.AnalyzeCV(ctx, input)
	if err != nil {
		s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, fmt.Errorf("llm analyze: %w", err), &startedAt)
		return
	}

	payload, err := parsePayload(raw)
	if err != nil {
		// One repair round-trip before giving up on the schema.
		rawRetry, retryErr := s.LLM.AnalyzeCV(llm.WithFixJSON(ctx, string(raw)), input)
		if retryErr != nil {
			s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, fmt.Errorf("llm analyze retry: %w", retryErr), &startedAt)
			return
		}
		payload, err = parsePayload(rawRetry)
		if err != nil {
			s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, fmt.Errorf("llm output invalid: %w", err), &startedAt)
			return
		}
	}

	fit := s.lookupFit(ctx, analysis.SessionID, position.Profile)
	result := buildResult(payload, s.Catalog.Scoring, fit, s.CVWeight, s.PersonalityWeight)

	completedAt := time.Now().UTC()
	if err := s.Repo.UpdateStatusResultAndError(ctx, analysisID, StatusCompleted, result, nil, nil, nil, &completedAt); err != nil {
		s.failAnalysis(ctx, analysisID, analysis.SessionID, analysis.DocumentID, fmt.Errorf("set analysis result failed: %w", err), &startedAt)
		return
	}
	metrics.IncAnalysisCompleted()
	metrics.ObserveAnalysisDurationMs(durationMs(&startedAt, &completedAt))
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"session_id":        analysis.SessionID,
		"document_id":       analysis.DocumentID,
		"analysis_id":       analysis.ID,
		"position_id":       analysis.PositionID,
		"status":            StatusCompleted,
		"status_transition": "processing->completed",
		"duration_ms":       durationMs(&startedAt, &completedAt),
	})
}

// lookupFit fetches the session's personality fit when an assessment has
// been completed. Analyses finish without it; the blend simply stays out of
// the result.
func (s *Service) lookupFit(ctx context.Context, sessionID string, profile bigfive.Profile) *personalityFit {
	if s.Fit == nil {
		return nil
	}
	score, ok, err := s.Fit.FitForSession(ctx, sessionID, profile)
	if err != nil {
		telemetry.Warn("analysis.fit_lookup_failed", map[string]any{
			"session_id": sessionID,
			"err":        err.Error(),
		})
		return nil
	}
	if !ok {
		return nil
	}
	level, description := bigfive.InterpretFit(score)
	return &personalityFit{Score: score, Level: level, Description: description}
}

func (s *Service) failAnalysis(ctx context.Context, analysisID, sessionID, documentID string, err error, startedAt *time.Time) {
	code := classifyFailure(err)
	msg := sanitizeError(err)
	completedAt := time.Now().UTC()
	if updateErr := s.Repo.UpdateStatusResultAndError(context.Background(), analysisID, StatusFailed, nil, &code, &msg, nil, &completedAt); updateErr != nil {
		telemetry.Error("analysis.fail_update_failed", map[string]any{
			"analysis_id": analysisID,
			"err":         updateErr.Error(),
			"orig":        msg,
		})
	}
	metrics.IncAnalysisFailed()
	if startedAt != nil {
		metrics.ObserveAnalysisDurationMs(durationMs(startedAt, &completedAt))
	}
	telemetry.Info("analysis.status", map[string]any{
		"request_id":        requestIDFromContext(ctx),
		"session_id":        sessionID,
		"document_id":       documentID,
		"analysis_id":       analysisID,
		"status":            StatusFailed,
		"status_transition": "processing->failed",
		"error_code":        code,
		"duration_ms":       durationMs(startedAt, &completedAt),
	})
}

func durationMs(startedAt, completedAt *time.Time) float64 {
	if startedAt == nil || completedAt == nil {
		return 0
	}
	return float64(completedAt.Sub(*startedAt).Microseconds()) / 1000.0
}

func classifyFailure(err error) string {
	if err == nil {
		return ErrorCodeInternal
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return ErrorCodeLLMTimeout
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "openai request timeout"):
		return ErrorCodeLLMTimeout
	case strings.Contains(msg, "llm output"):
		return ErrorCodeLLMSchemaMismatch
	case strings.Contains(msg, "validation"):
		return ErrorCodeValidation
	case strings.Contains(msg, "document") || strings.Contains(msg, "storage") || strings.Contains(msg, "analysis result") || strings.Contains(msg, "set processing"):
		return ErrorCodeStorage
	default:
		return ErrorCodeInternal
	}
}

func sanitizeError(err error) string {
	if err == nil {
		return ""
	}
	msg := strings.ReplaceAll(err.Error(), "\n", " ")
	msg = strings.ReplaceAll(msg, "\r", " ")
	msg = strings.TrimSpace(msg)
	const maxLen = 500
	if len(msg) > maxLen {
		msg = msg[:maxLen]
	}
	return msg
}

func loadText(ctx context.Context, store object.ObjectStore, key string) (string, error) {
	body, err := store.Open(ctx, key)
	if err != nil {
		return "", err
	}
	defer body.Close()

	data, err := io.ReadAll(body)
	if err != nil {
		return "", err
	}
	return string(data), nil
}
