package repository

import (
	"database/sql"
	"encoding/json"

	"finbrief/internal/model"
)

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

// SaveReportAndComplete stores the finished report and flips the job to
// completed in one transaction, so a poller never sees a completed job
// without its report.
func (r *ReportRepository) SaveReportAndComplete(report *model.Report, jobID int64) error {
	takeaways, err := json.Marshal(report.Takeaways)
	if err != nil {
		return err
	}
	snapshot, err := json.Marshal(report.Snapshot)
	if err != nil {
		return err
	}
	regime, err := json.Marshal(report.Regime)
	if err != nil {
		return err
	}

	tx, err := r.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	err = tx.QueryRow(`
		INSERT INTO report(job_id, symbol, headline, narrative, takeaways, snapshot, regime, model_used, prompt_version)
		VALUES($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, generated_at
	`, jobID, report.Symbol, report.Headline, report.Narrative, takeaways, snapshot, regime,
		report.ModelUsed, report.PromptVersion).Scan(&report.ID, &report.GeneratedAt)
	if err != nil {
		return err
	}

	_, err = tx.Exec(`
		UPDATE report_job SET status = $1, updated_at = now() WHERE id = $2
	`, model.StatusCompleted, jobID)
	if err != nil {
		return err
	}

	return tx.Commit()
}

const reportColumns = `id, job_id, symbol, headline, narrative, takeaways, snapshot, regime, model_used, prompt_version, generated_at`

func scanReport(row interface{ Scan(...interface{}) error }) (*model.Report, error) {
	var report model.Report
	var takeaways, snapshot, regime []byte

	err := row.Scan(&report.ID, &report.JobID, &report.Symbol, &report.Headline, &report.Narrative,
		&takeaways, &snapshot, &regime, &report.ModelUsed, &report.PromptVersion, &report.GeneratedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(takeaways, &report.Takeaways); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(snapshot, &report.Snapshot); err != nil {
		return nil, err
	}
	if err := json.Unmarshal(regime, &report.Regime); err != nil {
		return nil, err
	}

	return &report, nil
}

func (r *ReportRepository) GetByJobID(jobID int64) (*model.Report, error) {
	row := r.db.QueryRow(`
		SELECT `+reportColumns+`
		FROM report
		WHERE job_id = $1
	`, jobID)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return report, nil
}

func (r *ReportRepository) GetLatestBySymbol(symbol string) (*model.Report, error) {
	row := r.db.QueryRow(`
		SELECT `+reportColumns+`
		FROM report
		WHERE symbol = $1
		ORDER BY generated_at DESC
		LIMIT 1
	`, symbol)

	report, err := scanReport(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return report, nil
}

func (r *ReportRepository) GetHistory(symbol string, limit, offset int) ([]model.Report, error) {
	rows, err := r.db.Query(`
		SELECT `+reportColumns+`
		FROM report
		WHERE symbol = $1
		ORDER BY generated_at DESC
		LIMIT $2 OFFSET $3
	`, symbol, limit, offset)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reports []model.Report
	for rows.Next() {
		report, err := scanReport(rows)
		if err != nil {
			return nil, err
		}
		reports = append(reports, *report)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return reports, nil
}

func (r *ReportRepository) GetHistoryTotal(symbol string) (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM report WHERE symbol = $1
	`, symbol).Scan(&total)
	return total, err
}

func (r *ReportRepository) GetReportTotal() (int, error) {
	var total int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM report
	`).Scan(&total)
	return total, err
}
