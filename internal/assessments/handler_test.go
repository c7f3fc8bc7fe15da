package assessments

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"

	"recruiting-backend/internal/shared/server/middleware"
)

const testSessionID = "11111111-2222-3333-4444-555555555555"

func testRouter(t *testing.T) (*gin.Engine, *Service) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	svc := newTestService(t)
	router := gin.New()
	router.Use(middleware.Session())
	NewHandler(svc).RegisterRoutes(router.Group("/api/v1"))
	return router, svc
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("encode body: %v", err)
		}
		reader = bytes.NewBuffer(encoded)
	} else {
		reader = &bytes.Buffer{}
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("X-Session-Id", testSessionID)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp
}

func TestQuestionsEndpointHidesKeying(t *testing.T) {
	router, _ := testRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/assessments/questions", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var payload questionsResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload.Total != 30 || len(payload.Questions) != 30 {
		t.Fatalf("expected 30 questions, got total=%d len=%d", payload.Total, len(payload.Questions))
	}
}

func TestQuestionsBodyOmitsKeying(t *testing.T) {
	router, _ := testRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/assessments/questions", nil)
	if strings.Contains(resp.Body.String(), "keying") {
		t.Fatal("keying must never be exposed to clients")
	}
}

func TestStartStatusProgressFlow(t *testing.T) {
	router, _ := testRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/assessments/start", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("start: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, router, http.MethodPost, "/api/v1/assessments/progress", map[string]any{
		"answers":              map[string]int{"1": 3, "2": 5},
		"currentQuestionIndex": 2,
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("progress: expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	resp = doJSON(t, router, http.MethodGet, "/api/v1/assessments/status", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("status: expected 200, got %d", resp.Code)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if !status.Started || status.Completed {
		t.Fatalf("unexpected status: %+v", status)
	}
	if status.CurrentQuestionIndex != 2 || status.Answers[1] != 3 || status.Answers[2] != 5 {
		t.Fatalf("progress not reflected: %+v", status)
	}
}

func TestStatusForFreshSession(t *testing.T) {
	router, _ := testRouter(t)

	resp := doJSON(t, router, http.MethodGet, "/api/v1/assessments/status", nil)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.Code)
	}
	var status statusResponse
	if err := json.NewDecoder(resp.Body).Decode(&status); err != nil {
		t.Fatalf("decode status: %v", err)
	}
	if status.Started || status.Completed {
		t.Fatalf("expected fresh state, got %+v", status)
	}
}

func TestProgressBeforeStartReturns404(t *testing.T) {
	router, _ := testRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/assessments/progress", map[string]any{
		"answers": map[string]int{"1": 3},
	})
	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSubmitEndpoint(t *testing.T) {
	router, svc := testRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/assessments/submit", map[string]any{
		"answers": answersAll(svc.Questions, 4),
	})
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", resp.Code, resp.Body.String())
	}

	var result resultResponse
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.Scores.Conscientiousness != 22 {
		t.Fatalf("expected C=22, got %d", result.Scores.Conscientiousness)
	}
	if result.FitScore != 100 {
		t.Fatalf("expected fit 100, got %d", result.FitScore)
	}
	if len(result.Interpretations) != 5 {
		t.Fatalf("expected five interpretations, got %d", len(result.Interpretations))
	}
}

func TestSubmitRejectsEmptyAnswers(t *testing.T) {
	router, _ := testRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/assessments/submit", map[string]any{
		"answers": map[string]int{},
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestSubmitRejectsUnknownQuestionIDs(t *testing.T) {
	router, _ := testRouter(t)

	resp := doJSON(t, router, http.MethodPost, "/api/v1/assessments/submit", map[string]any{
		"answers": map[string]int{"900": 3, "901": 2},
	})
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", resp.Code, resp.Body.String())
	}
}
