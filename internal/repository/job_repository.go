package repository

import (
	"database/sql"

	"finbrief/internal/model"
)

type JobRepository struct {
	db *sql.DB
}

func NewJobRepository(db *sql.DB) *JobRepository {
	return &JobRepository{db: db}
}

func (r *JobRepository) CreateJob(symbol string) (*model.ReportJob, error) {
	job := &model.ReportJob{
		Symbol: symbol,
		Status: model.StatusPending,
	}

	err := r.db.QueryRow(`
		INSERT INTO report_job(symbol, status)
		VALUES($1, $2)
		RETURNING id, created_at, updated_at
	`, symbol, model.StatusPending).Scan(&job.ID, &job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		return nil, err
	}

	return job, nil
}

func (r *JobRepository) GetByID(id int64) (*model.ReportJob, error) {
	var job model.ReportJob
	err := r.db.QueryRow(`
		SELECT id, symbol, status, created_at, updated_at
		FROM report_job
		WHERE id = $1
	`, id).Scan(&job.ID, &job.Symbol, &job.Status, &job.CreatedAt, &job.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &job, nil
}

func (r *JobRepository) UpdateStatus(id int64, status string) error {
	_, err := r.db.Exec(`
		UPDATE report_job SET status = $1, updated_at = now() WHERE id = $2
	`, status, id)
	return err
}

func (r *JobRepository) SaveError(jobID int64, errMsg string, errType string) error {
	_, err := r.db.Exec(`
		INSERT INTO processing_error(job_id, error_message, error_type)
		VALUES($1, $2, $3)
	`, jobID, errMsg, errType)

	return err
}

func (r *JobRepository) GetErrorCount(jobID int64) (int, error) {
	var count int
	err := r.db.QueryRow(`
		SELECT COUNT(*) FROM processing_error
		WHERE job_id = $1
	`, jobID).Scan(&count)

	return count, err
}

func (r *JobRepository) GetPendingBySymbol(symbol string) (*model.ReportJob, error) {
	var job model.ReportJob
	err := r.db.QueryRow(`
		SELECT id, symbol, status, created_at, updated_at
		FROM report_job
		WHERE symbol = $1 AND status IN ($2, $3)
		ORDER BY created_at DESC
		LIMIT 1
	`, symbol, model.StatusPending, model.StatusProcessing).Scan(&job.ID, &job.Symbol, &job.Status, &job.CreatedAt, &job.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &job, nil
}
