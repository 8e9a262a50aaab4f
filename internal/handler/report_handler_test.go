package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finbrief/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/assert/v2"
)

type fakeJobStore struct {
	created *model.ReportJob
	job     *model.ReportJob
	pending *model.ReportJob
	err     error
}

func (f *fakeJobStore) CreateJob(symbol string) (*model.ReportJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	f.created = &model.ReportJob{ID: 42, Symbol: symbol, Status: model.StatusPending, CreatedAt: time.Now()}
	return f.created, nil
}

func (f *fakeJobStore) GetByID(id int64) (*model.ReportJob, error) {
	return f.job, f.err
}

func (f *fakeJobStore) GetPendingBySymbol(symbol string) (*model.ReportJob, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.pending, nil
}

type fakeReportStore struct {
	latest  *model.Report
	byJob   *model.Report
	history []model.Report
	total   int
	err     error
}

func (f *fakeReportStore) GetByJobID(jobID int64) (*model.Report, error) {
	return f.byJob, f.err
}

func (f *fakeReportStore) GetLatestBySymbol(symbol string) (*model.Report, error) {
	return f.latest, f.err
}

func (f *fakeReportStore) GetHistory(symbol string, limit, offset int) ([]model.Report, error) {
	return f.history, f.err
}

func (f *fakeReportStore) GetHistoryTotal(symbol string) (int, error) {
	return f.total, f.err
}

func (f *fakeReportStore) GetReportTotal() (int, error) {
	return f.total, f.err
}

type fakeQueue struct {
	enqueued []int64
	err      error
}

func (f *fakeQueue) Enqueue(jobID int64) error {
	if f.err != nil {
		return f.err
	}
	f.enqueued = append(f.enqueued, jobID)
	return nil
}

func newTestRouter(jobs JobStore, reports ReportStore, queue JobQueue) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewReportHandler(jobs, reports, queue, time.Hour)
	r.POST("/reports", h.SubmitReport)
	r.GET("/jobs/:id", h.GetJob)
	r.GET("/reports/:symbol", h.GetLatestReport)
	r.GET("/reports/:symbol/history", h.GetReportHistory)
	r.GET("/health", h.GetHealth)
	return r
}

func submit(r *gin.Engine, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/reports", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestSubmitReport_CreatesJob(t *testing.T) {
	jobs := &fakeJobStore{}
	queue := &fakeQueue{}
	r := newTestRouter(jobs, &fakeReportStore{}, queue)

	w := submit(r, `{"symbol":"aapl"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var res JobResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(42), res.JobID)
	assert.Equal(t, "AAPL", res.Symbol)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, false, res.Cached)
	assert.Equal(t, []int64{42}, queue.enqueued)
}

func TestSubmitReport_ServesFreshCachedReport(t *testing.T) {
	reports := &fakeReportStore{
		latest: &model.Report{
			ID: 7, JobID: 3, Symbol: "AAPL",
			Narrative:   "Quiet session.",
			GeneratedAt: time.Now().Add(-10 * time.Minute),
		},
	}
	queue := &fakeQueue{}
	r := newTestRouter(&fakeJobStore{}, reports, queue)

	w := submit(r, `{"symbol":"AAPL"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var res JobResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, model.StatusCompleted, res.Status)
	assert.Equal(t, true, res.Cached)
	assert.NotEqual(t, nil, res.Report)
	assert.Equal(t, "Quiet session.", res.Report.Narrative)
	assert.Equal(t, 0, len(queue.enqueued))
}

func TestSubmitReport_StaleReportTriggersNewJob(t *testing.T) {
	reports := &fakeReportStore{
		latest: &model.Report{
			ID: 7, JobID: 3, Symbol: "AAPL",
			GeneratedAt: time.Now().Add(-2 * time.Hour),
		},
	}
	queue := &fakeQueue{}
	r := newTestRouter(&fakeJobStore{}, reports, queue)

	w := submit(r, `{"symbol":"AAPL"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)
	assert.Equal(t, 1, len(queue.enqueued))
}

func TestSubmitReport_ReusesPendingJob(t *testing.T) {
	jobs := &fakeJobStore{
		pending: &model.ReportJob{ID: 9, Symbol: "AAPL", Status: model.StatusProcessing, CreatedAt: time.Now()},
	}
	queue := &fakeQueue{}
	r := newTestRouter(jobs, &fakeReportStore{}, queue)

	w := submit(r, `{"symbol":"AAPL"}`)

	assert.Equal(t, http.StatusAccepted, w.Code)

	var res JobResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, int64(9), res.JobID)
	assert.Equal(t, model.StatusProcessing, res.Status)
	assert.Equal(t, 0, len(queue.enqueued))
}

func TestSubmitReport_InvalidSymbol(t *testing.T) {
	r := newTestRouter(&fakeJobStore{}, &fakeReportStore{}, &fakeQueue{})

	tests := []string{
		`{"symbol":""}`,
		`{"symbol":"TOOLONGSYMBOL"}`,
		`{"symbol":"BAD SYMBOL"}`,
		`{"symbol":"123"}`,
		`not json`,
	}

	for _, body := range tests {
		w := submit(r, body)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	}
}

func TestSubmitReport_QueueError(t *testing.T) {
	r := newTestRouter(&fakeJobStore{}, &fakeReportStore{}, &fakeQueue{err: errors.New("redis down")})

	w := submit(r, `{"symbol":"AAPL"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetJob_Pending(t *testing.T) {
	jobs := &fakeJobStore{
		job: &model.ReportJob{ID: 42, Symbol: "AAPL", Status: model.StatusPending, CreatedAt: time.Now()},
	}
	r := newTestRouter(jobs, &fakeReportStore{}, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/jobs/42", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res JobResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, model.StatusPending, res.Status)
	assert.Equal(t, nil, res.Report)
}

func TestGetJob_CompletedEmbedsReport(t *testing.T) {
	jobs := &fakeJobStore{
		job: &model.ReportJob{ID: 42, Symbol: "AAPL", Status: model.StatusCompleted, CreatedAt: time.Now()},
	}
	reports := &fakeReportStore{
		byJob: &model.Report{ID: 7, JobID: 42, Symbol: "AAPL", Headline: "Steady close"},
	}
	r := newTestRouter(jobs, reports, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/jobs/42", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res JobResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, model.StatusCompleted, res.Status)
	assert.NotEqual(t, nil, res.Report)
	assert.Equal(t, "Steady close", res.Report.Headline)
}

func TestGetJob_NotFound(t *testing.T) {
	r := newTestRouter(&fakeJobStore{}, &fakeReportStore{}, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/jobs/999", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetJob_InvalidID(t *testing.T) {
	r := newTestRouter(&fakeJobStore{}, &fakeReportStore{}, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/jobs/abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetLatestReport(t *testing.T) {
	reports := &fakeReportStore{
		latest: &model.Report{ID: 7, Symbol: "AAPL", Headline: "Steady close", Takeaways: []string{"a"}},
	}
	r := newTestRouter(&fakeJobStore{}, reports, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/AAPL", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res ReportResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, "Steady close", res.Headline)
}

func TestGetLatestReport_NotFound(t *testing.T) {
	r := newTestRouter(&fakeJobStore{}, &fakeReportStore{}, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/AAPL", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetReportHistory(t *testing.T) {
	reports := &fakeReportStore{
		history: []model.Report{
			{ID: 2, Symbol: "AAPL", Headline: "Newer"},
			{ID: 1, Symbol: "AAPL", Headline: "Older"},
		},
		total: 2,
	}
	r := newTestRouter(&fakeJobStore{}, reports, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/AAPL/history?limit=10&offset=0", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var res HistoryResponse
	json.Unmarshal(w.Body.Bytes(), &res)
	assert.Equal(t, 2, res.Total)
	assert.Equal(t, 2, len(res.Reports))
	assert.Equal(t, "Newer", res.Reports[0].Headline)
}

func TestGetReportHistory_DBError(t *testing.T) {
	r := newTestRouter(&fakeJobStore{}, &fakeReportStore{err: errors.New("DB down")}, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/reports/AAPL/history", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}

func TestGetHealth(t *testing.T) {
	r := newTestRouter(&fakeJobStore{}, &fakeReportStore{}, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestGetHealth_Unhealthy(t *testing.T) {
	r := newTestRouter(&fakeJobStore{}, &fakeReportStore{err: errors.New("DB down")}, &fakeQueue{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/health", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}
