package handler

import (
	"log/slog"
	"net/http"

	"finbrief/internal/model"

	"github.com/gin-gonic/gin"
)

type TickerStore interface {
	GetActiveTickers() ([]model.Ticker, error)
}

type TickerHandler struct {
	repository TickerStore
}

func NewTickerHandler(repository TickerStore) *TickerHandler {
	return &TickerHandler{repository: repository}
}

func (h *TickerHandler) GetTickers(c *gin.Context) {
	tickers, err := h.repository.GetActiveTickers()
	if err != nil {
		slog.Error("error fetching tickers", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Database error"})
		return
	}

	res := make([]TickerResponse, 0, len(tickers))
	for _, t := range tickers {
		res = append(res, TickerResponse{
			Symbol: t.Symbol,
			Name:   t.Name,
		})
	}

	c.JSON(http.StatusOK, res)
}
