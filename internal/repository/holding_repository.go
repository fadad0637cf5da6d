package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// HoldingRepository provides data access methods for the portfolio_holding table.
type HoldingRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewHoldingRepository creates a new HoldingRepository with the provided database connection.
func NewHoldingRepository(db *sql.DB) *HoldingRepository {
	return &HoldingRepository{db: db}
}

// WithTx returns a new HoldingRepository scoped to the provided transaction.
func (r *HoldingRepository) WithTx(tx *sql.Tx) *HoldingRepository {
	return &HoldingRepository{
		db: r.db,
		tx: tx,
	}
}

func (r *HoldingRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// GetHoldings retrieves all holdings of a portfolio ordered by symbol.
// Returns an empty slice when the portfolio holds nothing.
func (r *HoldingRepository) GetHoldings(ctx context.Context, portfolioID string) ([]model.Holding, error) {
	query := `
        SELECT id, portfolio_id, symbol, quantity, average_price, current_value
        FROM portfolio_holding
        WHERE portfolio_id = ?
        ORDER BY symbol ASC
    `
	rows, err := r.getQuerier().QueryContext(ctx, query, portfolioID)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio_holding table: %w", err)
	}
	defer rows.Close()

	holdings := []model.Holding{}
	for rows.Next() {
		var h model.Holding
		var avg, value string
		if err := rows.Scan(&h.ID, &h.PortfolioID, &h.Symbol, &h.Quantity, &avg, &value); err != nil {
			return nil, fmt.Errorf("failed to scan portfolio_holding table results: %w", err)
		}
		if h.AveragePrice, err = parseDecimal("average_price", avg); err != nil {
			return nil, err
		}
		if h.CurrentValue, err = parseDecimal("current_value", value); err != nil {
			return nil, err
		}
		holdings = append(holdings, h)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio_holding table: %w", err)
	}

	return holdings, nil
}

// InsertHolding creates a holding, assigning an ID when unset.
// Returns ErrConcurrencyConflict if the portfolio already holds the symbol.
func (r *HoldingRepository) InsertHolding(ctx context.Context, h *model.Holding) error {
	if h.ID == "" {
		h.ID = uuid.New().String()
	}

	query := `
        INSERT INTO portfolio_holding (id, portfolio_id, symbol, quantity, average_price, current_value)
        VALUES (?, ?, ?, ?, ?, ?)
    `
	_, err := r.getQuerier().ExecContext(ctx, query,
		h.ID,
		h.PortfolioID,
		h.Symbol,
		h.Quantity,
		h.AveragePrice.String(),
		h.CurrentValue.String(),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: holding %s already exists", apperrors.ErrConcurrencyConflict, h.Symbol)
		}
		return fmt.Errorf("failed to insert holding: %w", err)
	}

	return nil
}

// UpdateHolding writes quantity, average price and current value of an existing holding.
// Returns ErrHoldingNotFound if the holding does not exist.
func (r *HoldingRepository) UpdateHolding(ctx context.Context, h model.Holding) error {
	query := `
        UPDATE portfolio_holding
        SET quantity = ?, average_price = ?, current_value = ?
        WHERE id = ?
    `
	result, err := r.getQuerier().ExecContext(ctx, query,
		h.Quantity,
		h.AveragePrice.String(),
		h.CurrentValue.String(),
		h.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update holding: %w", err)
	}
	return rowsAffected(result, apperrors.ErrHoldingNotFound)
}

// DeleteHolding removes a holding by ID.
// Returns ErrHoldingNotFound if the holding does not exist.
func (r *HoldingRepository) DeleteHolding(ctx context.Context, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM portfolio_holding WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete holding: %w", err)
	}
	return rowsAffected(result, apperrors.ErrHoldingNotFound)
}

// DeleteHoldings removes every holding of a portfolio and returns how many were removed.
func (r *HoldingRepository) DeleteHoldings(ctx context.Context, portfolioID string) (int64, error) {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM portfolio_holding WHERE portfolio_id = ?`, portfolioID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete holdings: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return n, nil
}
