package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// TradeRepository provides data access methods for the append-only trade ledger.
type TradeRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewTradeRepository creates a new TradeRepository with the provided database connection.
func NewTradeRepository(db *sql.DB) *TradeRepository {
	return &TradeRepository{db: db}
}

// WithTx returns a new TradeRepository scoped to the provided transaction.
func (r *TradeRepository) WithTx(tx *sql.Tx) *TradeRepository {
	return &TradeRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *TradeRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const tradeColumns = `id, owner_id, symbol, quantity, price, side, execution_ts, created_at`

// InsertTrade appends a trade. ID and CreatedAt are assigned when unset and written back to t.
func (r *TradeRepository) InsertTrade(ctx context.Context, t *model.Trade) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = time.Now().UTC()
	}

	query := `
        INSERT INTO trade (` + tradeColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.getQuerier().ExecContext(ctx, query,
		t.ID,
		t.OwnerID,
		t.Symbol,
		t.Quantity,
		t.Price.String(),
		string(t.Side),
		FormatTime(t.ExecutionTs),
		FormatTime(t.CreatedAt),
	)
	if err != nil {
		return fmt.Errorf("failed to insert trade: %w", err)
	}

	return nil
}

// GetTrade retrieves a trade by ID.
// Returns ErrTradeNotFound if no trade with the given ID exists.
func (r *TradeRepository) GetTrade(ctx context.Context, id string) (model.Trade, error) {
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+tradeColumns+` FROM trade WHERE id = ?`, id)
	t, err := scanTrade(row)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Trade{}, apperrors.ErrTradeNotFound
	}
	return t, err
}

// GetTrades retrieves the trades of ownerID matching filter, ordered by execution time.
// Returns an empty slice when nothing matches.
func (r *TradeRepository) GetTrades(ctx context.Context, ownerID string, filter model.TradeFilter) ([]model.Trade, error) {
	query := `SELECT ` + tradeColumns + ` FROM trade WHERE owner_id = ?`
	args := []any{ownerID}

	if filter.Symbol != "" {
		query += " AND symbol = ?"
		args = append(args, filter.Symbol)
	}
	if filter.Side != "" {
		query += " AND side = ?"
		args = append(args, string(filter.Side))
	}
	if !filter.From.IsZero() {
		query += " AND execution_ts >= ?"
		args = append(args, FormatTime(filter.From))
	}
	if !filter.To.IsZero() {
		query += " AND execution_ts <= ?"
		args = append(args, FormatTime(filter.To))
	}
	query += " ORDER BY execution_ts ASC, created_at ASC"

	rows, err := r.getQuerier().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query trade table: %w", err)
	}
	defer rows.Close()

	trades := []model.Trade{}
	for rows.Next() {
		t, err := scanTrade(rows)
		if err != nil {
			return nil, err
		}
		trades = append(trades, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trade table: %w", err)
	}

	return trades, nil
}

// DeleteTrade removes a trade by ID. Holdings are not adjusted.
// Returns ErrTradeNotFound if no trade with the given ID exists.
func (r *TradeRepository) DeleteTrade(ctx context.Context, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM trade WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete trade: %w", err)
	}
	return rowsAffected(result, apperrors.ErrTradeNotFound)
}

func scanTrade(s scanner) (model.Trade, error) {
	var t model.Trade
	var price, side, executionTs, createdAt string

	err := s.Scan(&t.ID, &t.OwnerID, &t.Symbol, &t.Quantity, &price, &side, &executionTs, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Trade{}, err
	}
	if err != nil {
		return model.Trade{}, fmt.Errorf("failed to scan trade: %w", err)
	}

	t.Side = model.TradeSide(side)
	if t.Price, err = parseDecimal("price", price); err != nil {
		return model.Trade{}, err
	}
	if t.ExecutionTs, err = parseStoredTime("execution_ts", executionTs); err != nil {
		return model.Trade{}, err
	}
	if t.CreatedAt, err = parseStoredTime("created_at", createdAt); err != nil {
		return model.Trade{}, err
	}

	return t, nil
}
