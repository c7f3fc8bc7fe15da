package assessments

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"recruiting-backend/internal/bigfive"
	"recruiting-backend/internal/shared/server/middleware"
	"recruiting-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches assessment routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/assessments/questions", h.questions)
	rg.POST("/assessments/start", h.start)
	rg.GET("/assessments/status", h.status)
	rg.POST("/assessments/progress", h.progress)
	rg.POST("/assessments/submit", h.submit)
}

type questionsResponse struct {
	// Question marshalling hides the keying; clients only ever see id, text
	// and dimension.
	Questions []bigfive.Question `json:"questions"`
	Total     int                `json:"total"`
}

func (h *Handler) questions(c *gin.Context) {
	questions := h.Svc.Draw()
	respond.JSON(c, http.StatusOK, questionsResponse{
		Questions: questions,
		Total:     len(questions),
	})
}

type statusResponse struct {
	Started              bool        `json:"started"`
	Completed            bool        `json:"completed"`
	CurrentQuestionIndex int         `json:"currentQuestionIndex"`
	Answers              map[int]int `json:"answers"`
}

func toStatusResponse(a Assessment) statusResponse {
	answers := a.Answers
	if answers == nil {
		answers = map[int]int{}
	}
	return statusResponse{
		Started:              a.Started,
		Completed:            a.Completed,
		CurrentQuestionIndex: a.CurrentIndex,
		Answers:              answers,
	}
}

func (h *Handler) start(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	a, err := h.Svc.Start(c.Request.Context(), sessionID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start assessment", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toStatusResponse(a))
}

func (h *Handler) status(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	a, err := h.Svc.Status(c.Request.Context(), sessionID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch assessment status", nil)
		return
	}
	respond.JSON(c, http.StatusOK, toStatusResponse(a))
}

type progressRequest struct {
	Answers              map[int]int `json:"answers"`
	CurrentQuestionIndex int         `json:"currentQuestionIndex"`
}

func (h *Handler) progress(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req progressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	a, err := h.Svc.Progress(c.Request.Context(), sessionID, req.Answers, req.CurrentQuestionIndex)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "assessment not started", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to save progress", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toStatusResponse(a))
}

type submitRequest struct {
	Answers map[int]int `json:"answers"`
}

type fitInterpretation struct {
	Level       bigfive.Level `json:"level"`
	Description string        `json:"description"`
}

type resultResponse struct {
	Scores            bigfive.Scores                       `json:"scores"`
	Interpretations   map[bigfive.Dimension]Interpretation `json:"interpretations"`
	FitScore          int                                  `json:"fitScore"`
	FitInterpretation fitInterpretation                    `json:"fitInterpretation"`
}

func (h *Handler) submit(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	var req submitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
		return
	}

	result, err := h.Svc.Submit(c.Request.Context(), sessionID, req.Answers)
	if err != nil {
		switch {
		case errors.Is(err, ErrNoAnswers), errors.Is(err, ErrNoMatchingQuestions):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to submit assessment", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, resultResponse{
		Scores:          result.Scores,
		Interpretations: result.Interpretations,
		FitScore:        result.FitScore,
		FitInterpretation: fitInterpretation{
			Level:       result.FitLevel,
			Description: result.FitDescription,
		},
	})
}
