package main

import (
	"log"
	"log/slog"
	"os"
	"strconv"
	"time"

	"finbrief/db"
	"finbrief/internal/handler"
	"finbrief/internal/repository"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

// redisQueue adapts the shared Redis queue helpers to the handler's
// JobQueue interface.
type redisQueue struct{}

func (redisQueue) Enqueue(jobID int64) error {
	return db.PushToQueue(db.ReportQueueKey, strconv.FormatInt(jobID, 10))
}

func reportTTL() time.Duration {
	const defaultTTL = time.Hour

	raw := os.Getenv("REPORT_TTL")
	if raw == "" {
		return defaultTTL
	}

	ttl, err := time.ParseDuration(raw)
	if err != nil || ttl <= 0 {
		slog.Warn("invalid REPORT_TTL, using default", "value", raw, "default", defaultTTL)
		return defaultTTL
	}
	return ttl
}

func main() {

	godotenv.Load()

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

	jobRepo := repository.NewJobRepository(db.DB)
	reportRepo := repository.NewReportRepository(db.DB)
	reportHandler := handler.NewReportHandler(jobRepo, reportRepo, redisQueue{}, reportTTL())

	tickerRepo := repository.NewTickerRepository(db.DB)
	tickerHandler := handler.NewTickerHandler(tickerRepo)

	r := gin.Default()

	allowedOrigins := []string{"http://localhost:3000"}

	if frontendURL := os.Getenv("FRONTEND_URL"); frontendURL != "" {
		allowedOrigins = append(allowedOrigins, frontendURL)
	}

	slog.Info("AllowOrigins URL:", "urls", allowedOrigins)

	r.Use(cors.New(cors.Config{
		AllowOrigins: allowedOrigins,
		AllowMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders: []string{"Origin", "Content-Type"},
	}))

	r.POST("/reports", reportHandler.SubmitReport)
	r.GET("/jobs/:id", reportHandler.GetJob)
	r.GET("/reports/:symbol", reportHandler.GetLatestReport)
	r.GET("/reports/:symbol/history", reportHandler.GetReportHistory)
	r.GET("/tickers", tickerHandler.GetTickers)
	r.GET("/health", reportHandler.GetHealth)

	err = r.Run(":8080")
	if err != nil {
		log.Fatalf("error starting server: %v", err)
	}
}
