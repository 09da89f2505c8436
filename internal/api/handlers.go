package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/vietddude/triage/internal/core/domain"
	"github.com/vietddude/triage/internal/health"
	"github.com/vietddude/triage/internal/ingest"
	"github.com/vietddude/triage/internal/metrics"
)

// Predictor classifies a text.
type Predictor interface {
	Predict(text string) domain.Verdict
}

// Incidents stores and reports classified incidents.
type Incidents interface {
	Ingest(ctx context.Context, message string) (*domain.Incident, error)
	List(ctx context.Context, f ingest.Filter) ([]*domain.Incident, error)
	Stats(ctx context.Context) (domain.SeverityStats, error)
}

// HealthChecker produces health reports.
type HealthChecker interface {
	CheckHealth(ctx context.Context) health.HealthReport
}

// PredictRequest is the body of POST /predict. Text is a pointer so a
// missing field can be told apart from an empty string.
type PredictRequest struct {
	Text *string `json:"text" binding:"required"`
}

// IngestRequest is the body of POST /ingest.
type IngestRequest struct {
	Message *string `json:"message" binding:"required"`
}

type listQuery struct {
	Limit    int    `form:"limit"    json:"limit"    binding:"gte=0"`
	Severity string `form:"severity" json:"severity" binding:"omitempty,oneof=critical high medium low"`
}

type handlers struct {
	predictor Predictor
	incidents Incidents
	monitor   HealthChecker
}

func (h *handlers) predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, "body", err)
		return
	}

	verdict := h.predictor.Predict(*req.Text)
	metrics.PredictionsTotal.
		WithLabelValues(string(verdict.Category), string(verdict.Severity), "http").
		Inc()
	slog.Debug("Prediction served",
		"length", len(*req.Text),
		"category", verdict.Category,
		"severity", verdict.Severity,
	)

	c.JSON(http.StatusOK, verdict)
}

func (h *handlers) ingest(c *gin.Context) {
	var req IngestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortValidation(c, "body", err)
		return
	}

	inc, err := h.incidents.Ingest(c.Request.Context(), *req.Message)
	switch {
	case errors.Is(err, ingest.ErrEmptyMessage):
		abortError(c, http.StatusBadRequest, err.Error())
		return
	case err != nil:
		slog.Error("Failed to ingest incident", "error", err, "request_id", c.GetString(requestIDKey))
		abortError(c, http.StatusInternalServerError, "failed to store incident")
		return
	}

	c.JSON(http.StatusCreated, inc)
}

func (h *handlers) listIncidents(c *gin.Context) {
	var q listQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		abortValidation(c, "query", err)
		return
	}

	incidents, err := h.incidents.List(c.Request.Context(), ingest.Filter{
		Limit:    q.Limit,
		Severity: domain.Severity(q.Severity),
	})
	if err != nil {
		slog.Error("Failed to list incidents", "error", err, "request_id", c.GetString(requestIDKey))
		abortError(c, http.StatusInternalServerError, "failed to list incidents")
		return
	}

	c.JSON(http.StatusOK, incidents)
}

func (h *handlers) stats(c *gin.Context) {
	stats, err := h.incidents.Stats(c.Request.Context())
	if err != nil {
		slog.Error("Failed to read stats", "error", err, "request_id", c.GetString(requestIDKey))
		abortError(c, http.StatusInternalServerError, "failed to read stats")
		return
	}
	c.JSON(http.StatusOK, stats)
}

func (h *handlers) health(c *gin.Context) {
	report := h.monitor.CheckHealth(c.Request.Context())

	status := http.StatusOK
	if report.SystemStatus == health.StatusCritical {
		status = http.StatusServiceUnavailable
	}
	c.JSON(status, gin.H{"status": report.SystemStatus})
}

func (h *handlers) healthDetailed(c *gin.Context) {
	c.JSON(http.StatusOK, h.monitor.CheckHealth(c.Request.Context()))
}
