package analyses

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"recruiting-backend/internal/documents"
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

// RegisterRoutes attaches analysis routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/documents/:id/analyze", h.create)
	rg.GET("/analyses/:id", h.get)
	rg.GET("/analyses", h.list)
}

type createRequest struct {
	PositionID string `json:"positionId"`
}

func (h *Handler) create(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	documentID := strings.TrimSpace(c.Param("id"))

	var req createRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid request body", nil)
			return
		}
	}

	ctx := WithRequestID(c.Request.Context(), middleware.RequestIDFromContext(c))
	analysis, err := h.Svc.Create(ctx, sessionID, documentID, strings.TrimSpace(req.PositionID))
	if err != nil {
		switch {
		case errors.Is(err, documents.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case strings.Contains(err.Error(), "validation"):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to start analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusAccepted, toResponse(analysis))
}

func (h *Handler) get(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)
	analysisID := strings.TrimSpace(c.Param("id"))

	analysis, err := h.Svc.Get(c.Request.Context(), sessionID, analysisID)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "analysis not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch analysis", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, toResponse(analysis))
}

func (h *Handler) list(c *gin.Context) {
	sessionID := middleware.SessionIDFromContext(c)

	limit := 20
	offset := 0
	if v := c.Query("limit"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			limit = parsed
		}
	}
	if v := c.Query("offset"); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			offset = parsed
		}
	}

	analyses, err := h.Svc.List(c.Request.Context(), sessionID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list analyses", nil)
		return
	}

	resp := make([]analysisResponse, 0, len(analyses))
	for _, a := range analyses {
		resp = append(resp, toResponse(a))
	}
	respond.JSON(c, http.StatusOK, resp)
}

type analysisResponse struct {
	AnalysisID   string         `json:"analysisId"`
	DocumentID   string         `json:"documentId"`
	PositionID   string         `json:"positionId"`
	Status       string         `json:"status"`
	Result       map[string]any `json:"result,omitempty"`
	ErrorCode    *string        `json:"errorCode,omitempty"`
	ErrorMessage *string        `json:"errorMessage,omitempty"`
	CreatedAt    string         `json:"createdAt"`
	CompletedAt  *string        `json:"completedAt,omitempty"`
}

func toResponse(a Analysis) analysisResponse {
	resp := analysisResponse{
		AnalysisID:   a.ID,
		DocumentID:   a.DocumentID,
		PositionID:   a.PositionID,
		Status:       a.Status,
		Result:       a.Result,
		ErrorCode:    a.ErrorCode,
		ErrorMessage: a.ErrorMessage,
		CreatedAt:    a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.CompletedAt != nil {
		s := a.CompletedAt.UTC().Format(time.RFC3339)
		resp.CompletedAt = &s
	}
	return resp
}
