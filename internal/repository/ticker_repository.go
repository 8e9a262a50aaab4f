package repository

import (
	"database/sql"

	"finbrief/internal/model"
)

type TickerRepository struct {
	db *sql.DB
}

func NewTickerRepository(db *sql.DB) *TickerRepository {
	return &TickerRepository{db: db}
}

func (r *TickerRepository) GetActiveTickers() ([]model.Ticker, error) {
	rows, err := r.db.Query(`
		SELECT id, symbol, name, active, created_at
		FROM ticker
		WHERE active = TRUE
		ORDER BY symbol
	`)

	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tickers []model.Ticker
	for rows.Next() {
		var t model.Ticker
		err := rows.Scan(&t.ID, &t.Symbol, &t.Name, &t.Active, &t.CreatedAt)
		if err != nil {
			return nil, err
		}
		tickers = append(tickers, t)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return tickers, nil
}

func (r *TickerRepository) GetBySymbol(symbol string) (*model.Ticker, error) {
	var t model.Ticker
	err := r.db.QueryRow(`
		SELECT id, symbol, name, active, created_at
		FROM ticker
		WHERE symbol = $1
	`, symbol).Scan(&t.ID, &t.Symbol, &t.Name, &t.Active, &t.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}

	if err != nil {
		return nil, err
	}

	return &t, nil
}

func (r *TickerRepository) UpsertTicker(symbol, name string) error {
	_, err := r.db.Exec(`
		INSERT INTO ticker(symbol, name)
		VALUES($1, $2)
		ON CONFLICT (symbol) DO UPDATE SET name = EXCLUDED.name, active = TRUE
	`, symbol, name)
	return err
}
