package handler

import (
	"log/slog"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"

	"finbrief/internal/model"

	"github.com/gin-gonic/gin"
)

type JobStore interface {
	CreateJob(symbol string) (*model.ReportJob, error)
	GetByID(id int64) (*model.ReportJob, error)
	GetPendingBySymbol(symbol string) (*model.ReportJob, error)
}

type ReportStore interface {
	GetByJobID(jobID int64) (*model.Report, error)
	GetLatestBySymbol(symbol string) (*model.Report, error)
	GetHistory(symbol string, limit, offset int) ([]model.Report, error)
	GetHistoryTotal(symbol string) (int, error)
	GetReportTotal() (int, error)
}

type JobQueue interface {
	Enqueue(jobID int64) error
}

type ReportHandler struct {
	jobs    JobStore
	reports ReportStore
	queue   JobQueue
	ttl     time.Duration
}

func NewReportHandler(jobs JobStore, reports ReportStore, queue JobQueue, ttl time.Duration) *ReportHandler {
	return &ReportHandler{jobs: jobs, reports: reports, queue: queue, ttl: ttl}
}

var symbolPattern = regexp.MustCompile(`^[A-Z][A-Z0-9.\-]{0,9}$`)

func normalizeSymbol(raw string) (string, bool) {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	return symbol, symbolPattern.MatchString(symbol)
}

func toReportResponse(r model.Report) ReportResponse {
	return ReportResponse{
		ID:          r.ID,
		JobID:       r.JobID,
		Symbol:      r.Symbol,
		Headline:    r.Headline,
		Narrative:   r.Narrative,
		Takeaways:   r.Takeaways,
		Snapshot:    r.Snapshot,
		Regime:      r.Regime,
		ModelUsed:   r.ModelUsed,
		GeneratedAt: r.GeneratedAt.Format(time.RFC3339),
	}
}

func (h *ReportHandler) SubmitReport(c *gin.Context) {
	var req SubmitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	symbol, ok := normalizeSymbol(req.Symbol)
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symbol"})
		return
	}

	// A fresh cached report answers the request without a new job.
	latest, err := h.reports.GetLatestBySymbol(symbol)
	if err != nil {
		slog.Error("error fetching latest report", "error", err, "symbol", symbol)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if latest != nil && time.Since(latest.GeneratedAt) < h.ttl {
		report := toReportResponse(*latest)
		c.JSON(http.StatusOK, JobResponse{
			JobID:     latest.JobID,
			Symbol:    symbol,
			Status:    model.StatusCompleted,
			CreatedAt: latest.GeneratedAt.Format(time.RFC3339),
			Cached:    true,
			Report:    &report,
		})
		return
	}

	// Reuse an in-flight job instead of stacking duplicates.
	pending, err := h.jobs.GetPendingBySymbol(symbol)
	if err != nil {
		slog.Error("error checking pending jobs", "error", err, "symbol", symbol)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if pending != nil {
		c.JSON(http.StatusAccepted, JobResponse{
			JobID:     pending.ID,
			Symbol:    pending.Symbol,
			Status:    pending.Status,
			CreatedAt: pending.CreatedAt.Format(time.RFC3339),
		})
		return
	}

	job, err := h.jobs.CreateJob(symbol)
	if err != nil {
		slog.Error("error creating report job", "error", err, "symbol", symbol)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if err := h.queue.Enqueue(job.ID); err != nil {
		slog.Error("error enqueueing report job", "error", err, "job_id", job.ID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Queue error"})
		return
	}

	c.JSON(http.StatusAccepted, JobResponse{
		JobID:     job.ID,
		Symbol:    job.Symbol,
		Status:    job.Status,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
	})
}

func (h *ReportHandler) GetJob(c *gin.Context) {
	id := c.Param("id")

	jobID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		slog.Error("invalid job id", "id", id, "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid job id"})
		return
	}

	job, err := h.jobs.GetByID(jobID)
	if err != nil {
		slog.Error("error fetching job", "error", err, "job_id", jobID)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if job == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Job not found"})
		return
	}

	res := JobResponse{
		JobID:     job.ID,
		Symbol:    job.Symbol,
		Status:    job.Status,
		CreatedAt: job.CreatedAt.Format(time.RFC3339),
	}

	if job.Status == model.StatusCompleted {
		report, err := h.reports.GetByJobID(job.ID)
		if err != nil {
			slog.Error("error fetching report for job", "error", err, "job_id", job.ID)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
			return
		}
		if report != nil {
			r := toReportResponse(*report)
			res.Report = &r
		}
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GetLatestReport(c *gin.Context) {
	symbol, ok := normalizeSymbol(c.Param("symbol"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symbol"})
		return
	}

	report, err := h.reports.GetLatestBySymbol(symbol)
	if err != nil {
		slog.Error("error fetching latest report", "error", err, "symbol", symbol)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	if report == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "No report for symbol"})
		return
	}

	c.JSON(http.StatusOK, toReportResponse(*report))
}

func (h *ReportHandler) GetReportHistory(c *gin.Context) {
	symbol, ok := normalizeSymbol(c.Param("symbol"))
	if !ok {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid symbol"})
		return
	}

	limit := getQueryLimit(c)
	offset := getQueryOffset(c)

	reports, err := h.reports.GetHistory(symbol, limit, offset)
	if err != nil {
		slog.Error("error fetching report history", "error", err, "symbol", symbol)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	total, err := h.reports.GetHistoryTotal(symbol)
	if err != nil {
		slog.Error("error fetching report history total", "error", err, "symbol", symbol)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := HistoryResponse{
		Reports: []ReportResponse{},
		Total:   total,
		Limit:   limit,
		Offset:  offset,
	}
	for _, r := range reports {
		res.Reports = append(res.Reports, toReportResponse(r))
	}

	c.JSON(http.StatusOK, res)
}

func (h *ReportHandler) GetHealth(c *gin.Context) {
	_, err := h.reports.GetReportTotal()
	if err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{
			"status":   "unhealthy",
			"database": "disconnected",
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "healthy",
		"database": "connected",
	})
}

func getQueryInt(name string, defaultValue int, c *gin.Context) int {
	param := c.Query(name)

	if param == "" {
		return defaultValue
	}

	parsedValue, err := strconv.Atoi(param)
	if err != nil {
		slog.Warn("invalid query parameter, using default", "param", name, "value", param, "error", err)
		return defaultValue
	}

	return parsedValue
}

func getQueryLimit(c *gin.Context) int {
	const (
		defaultLimit = 10
		maxLimit     = 100
	)

	limit := getQueryInt("limit", defaultLimit, c)
	if limit < 1 {
		slog.Warn("invalid query parameter, using default", "param", "limit", "value", limit, "default", defaultLimit)
		return defaultLimit
	}

	if limit > maxLimit {
		slog.Warn("query parameter exceeds max, clamping", "param", "limit", "value", limit, "max", maxLimit)
		return maxLimit
	}

	return limit
}

func getQueryOffset(c *gin.Context) int {
	offset := getQueryInt("offset", 0, c)
	if offset < 0 {
		slog.Warn("invalid query parameter, using default", "param", "offset", "value", offset, "default", 0)
		return 0
	}
	return offset
}
