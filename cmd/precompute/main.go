package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"finbrief/db"
	"finbrief/internal/repository"

	"github.com/joho/godotenv"
)

// Fans one report job per active ticker out onto the queue. Run on a
// schedule before market open so common tickers come from cache.
func main() {
	godotenv.Load()

	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, nil)))

	err := db.Connect()
	if err != nil {
		log.Fatalf("error connecting to DB: %v", err)
	}
	defer db.Close()

	err = db.ConnectRedis()
	if err != nil {
		log.Fatalf("error connecting to Redis: %v", err)
	}
	defer db.CloseRedis()

	ttl := time.Hour
	if raw := os.Getenv("REPORT_TTL"); raw != "" {
		if parsed, err := time.ParseDuration(raw); err == nil && parsed > 0 {
			ttl = parsed
		}
	}

	tickerRepo := repository.NewTickerRepository(db.DB)
	jobRepo := repository.NewJobRepository(db.DB)
	reportRepo := repository.NewReportRepository(db.DB)

	tickers, err := tickerRepo.GetActiveTickers()
	if err != nil {
		log.Fatalf("error fetching ticker universe: %v", err)
	}

	if len(tickers) == 0 {
		slog.Info("no active tickers, nothing to precompute")
		return
	}

	var queued, skipped, errors int

	for _, ticker := range tickers {
		latest, err := reportRepo.GetLatestBySymbol(ticker.Symbol)
		if err != nil {
			slog.Error("error checking latest report", "symbol", ticker.Symbol, "error", err)
			errors++
			continue
		}

		if latest != nil && time.Since(latest.GeneratedAt) < ttl {
			skipped++
			continue
		}

		pending, err := jobRepo.GetPendingBySymbol(ticker.Symbol)
		if err != nil {
			slog.Error("error checking pending jobs", "symbol", ticker.Symbol, "error", err)
			errors++
			continue
		}

		if pending != nil {
			skipped++
			continue
		}

		job, err := jobRepo.CreateJob(ticker.Symbol)
		if err != nil {
			slog.Error("error creating job", "symbol", ticker.Symbol, "error", err)
			errors++
			continue
		}

		err = db.PushToQueue(db.ReportQueueKey, strconv.FormatInt(job.ID, 10))
		if err != nil {
			slog.Error("error pushing to Redis queue", "symbol", ticker.Symbol, "error", err, "job_id", job.ID)
			errors++
			continue
		}

		queued++
	}

	slog.Info("precompute fan-out complete", "tickers", len(tickers), "queued", queued, "skipped", skipped, "errors", errors)
}
