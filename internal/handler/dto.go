package handler

import "finbrief/internal/model"

type SubmitReportRequest struct {
	Symbol string `json:"symbol"`
}

type ReportResponse struct {
	ID          int64          `json:"id"`
	JobID       int64          `json:"job_id"`
	Symbol      string         `json:"symbol"`
	Headline    string         `json:"headline"`
	Narrative   string         `json:"narrative"`
	Takeaways   []string       `json:"takeaways"`
	Snapshot    model.Snapshot `json:"snapshot"`
	Regime      model.Regime   `json:"regime"`
	ModelUsed   string         `json:"model_used"`
	GeneratedAt string         `json:"generated_at"`
}

type JobResponse struct {
	JobID     int64           `json:"job_id"`
	Symbol    string          `json:"symbol"`
	Status    string          `json:"status"`
	CreatedAt string          `json:"created_at"`
	Cached    bool            `json:"cached,omitempty"`
	Report    *ReportResponse `json:"report,omitempty"`
}

type HistoryResponse struct {
	Reports []ReportResponse `json:"reports"`
	Total   int              `json:"total"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}

type TickerResponse struct {
	Symbol string `json:"symbol"`
	Name   string `json:"name"`
}
