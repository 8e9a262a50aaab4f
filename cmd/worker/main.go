package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"finbrief/db"
	"finbrief/internal/model"
	"finbrief/internal/repository"
	"finbrief/pkg/analysis"
	"finbrief/pkg/llm"
	"finbrief/pkg/marketdata"

	"github.com/joho/godotenv"
)

const candleDays = 90

func newMarketDataClient() marketdata.Client {
	if key := os.Getenv("FINNHUB_API_KEY"); key != "" {
		return marketdata.NewFinnHubClient(key)
	}
	if key := os.Getenv("ALPHA_VANTAGE_API_KEY"); key != "" {
		return marketdata.NewAlphaVantageClient(key)
	}
	return nil
}

func newNarrator() llm.Narrator {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return llm.NewOpenAIClient(key)
	}
	if key := os.Getenv("ANTHROPIC_API_KEY"); key != "" {
		return llm.NewAnthropicClient(key)
	}
	return nil
}

func main() {

	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	const maxRetries = 3

	err := db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	err = db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	jobRepo := repository.NewJobRepository(db.DB)
	reportRepo := repository.NewReportRepository(db.DB)

	market := newMarketDataClient()
	if market == nil {
		log.Fatal("no market data API key configured")
	}

	narrator := newNarrator()
	if narrator == nil {
		log.Fatal("no LLM API key configured")
	}

	slog.Info("worker started", "market_source", market.Name())

	for {
		id, err := db.PopFromQueue(db.ReportQueueKey, 0)
		if err != nil {
			slog.Error("error popping from Redis queue", "error", err)
			break
		}

		jobID, err := strconv.ParseInt(id, 10, 64)
		if err != nil {
			slog.Error("invalid job id in queue", "id", id, "error", err)
			continue
		}

		errorCount, err := jobRepo.GetErrorCount(jobID)
		if err != nil {
			slog.Error("error getting error count", "error", err, "job_id", jobID)
			continue
		}

		if errorCount >= maxRetries {
			slog.Warn("job exceeded max retries, marking as failed", "job_id", jobID, "error_count", errorCount)
			jobRepo.UpdateStatus(jobID, model.StatusFailed)
			db.PushToQueue(db.DeadLetterKey, id)
			continue
		}

		job, err := jobRepo.GetByID(jobID)
		if err != nil {
			slog.Error("error getting job from DB", "error", err, "job_id", jobID)
			continue
		}

		if job == nil {
			slog.Warn("job not found in DB", "job_id", jobID)
			continue
		}

		jobRepo.UpdateStatus(jobID, model.StatusProcessing)

		report, err := generateReport(job, market, narrator)
		if err != nil {
			slog.Error("error generating report", "error", err, "job_id", jobID, "symbol", job.Symbol)

			jobRepo.SaveError(jobID, err.Error(), errorType(err))

			db.PushToQueue(db.ReportQueueKey, id)

			time.Sleep(5 * time.Second)
			continue
		}

		err = reportRepo.SaveReportAndComplete(report, jobID)
		if err != nil {
			slog.Error("error saving report", "error", err, "job_id", jobID)
			continue
		}

		slog.Info("report generated successfully", "job_id", jobID, "symbol", job.Symbol, "report_id", report.ID)
	}
}

func generateReport(job *model.ReportJob, market marketdata.Client, narrator llm.Narrator) (*model.Report, error) {
	candles, err := market.Candles(job.Symbol, candleDays)
	if err != nil {
		return nil, &generationError{stage: "market_data", err: err}
	}

	snapshot, err := analysis.BuildSnapshot(candles)
	if err != nil {
		return nil, &generationError{stage: "analysis", err: err}
	}

	regime := analysis.Classify(*snapshot)

	result, err := narrator.Narrate(llm.NarrativeInput{
		Symbol:   job.Symbol,
		Snapshot: *snapshot,
		Regime:   regime,
	})
	if err != nil {
		return nil, &generationError{stage: "llm", err: err}
	}

	if err := llm.InjectNumbers(result, *snapshot); err != nil {
		return nil, &generationError{stage: "inject", err: err}
	}

	return &model.Report{
		JobID:         job.ID,
		Symbol:        job.Symbol,
		Headline:      result.Headline,
		Narrative:     result.Narrative,
		Takeaways:     result.Takeaways,
		Snapshot:      *snapshot,
		Regime:        regime,
		ModelUsed:     result.ModelUsed,
		PromptVersion: result.PromptVersion,
	}, nil
}

type generationError struct {
	stage string
	err   error
}

func (e *generationError) Error() string {
	return e.stage + ": " + e.err.Error()
}

func (e *generationError) Unwrap() error {
	return e.err
}

func errorType(err error) string {
	if ge, ok := err.(*generationError); ok {
		return ge.stage + "_error"
	}
	return "unknown_error"
}
