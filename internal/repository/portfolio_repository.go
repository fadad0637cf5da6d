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

// PortfolioRepository provides data access methods for the portfolio table.
// Writes to an existing row use the version column as a compare-and-set token.
type PortfolioRepository struct {
	db *sql.DB
	tx *sql.Tx
}

// NewPortfolioRepository creates a new PortfolioRepository with the provided database connection.
func NewPortfolioRepository(db *sql.DB) *PortfolioRepository {
	return &PortfolioRepository{db: db}
}

// WithTx returns a new PortfolioRepository scoped to the provided transaction.
func (r *PortfolioRepository) WithTx(tx *sql.Tx) *PortfolioRepository {
	return &PortfolioRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *PortfolioRepository) getQuerier() querier {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

const portfolioColumns = `id, owner_id, cash_balance, current_ts, net_worth, created_at, version`

// GetPortfolio retrieves a portfolio by its ID.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) GetPortfolio(ctx context.Context, id string) (model.Portfolio, error) {
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolio WHERE id = ?`, id)
	return scanPortfolio(row)
}

// GetPortfolioByOwner retrieves the portfolio belonging to ownerID.
// Returns ErrPortfolioNotFound if the owner has no portfolio.
func (r *PortfolioRepository) GetPortfolioByOwner(ctx context.Context, ownerID string) (model.Portfolio, error) {
	row := r.getQuerier().QueryRowContext(ctx, `SELECT `+portfolioColumns+` FROM portfolio WHERE owner_id = ?`, ownerID)
	return scanPortfolio(row)
}

// GetPortfolios retrieves every portfolio ordered by creation time.
// Returns an empty slice when there are none.
func (r *PortfolioRepository) GetPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	rows, err := r.getQuerier().QueryContext(ctx, `SELECT `+portfolioColumns+` FROM portfolio ORDER BY created_at ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query portfolio table: %w", err)
	}
	defer rows.Close()

	portfolios := []model.Portfolio{}
	for rows.Next() {
		p, err := scanPortfolio(rows)
		if err != nil {
			return nil, err
		}
		portfolios = append(portfolios, p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating portfolio table: %w", err)
	}

	return portfolios, nil
}

// InsertPortfolio creates a new portfolio row. ID, CreatedAt and Version are assigned
// when unset and written back to p.
// Returns ErrPortfolioExists if the owner already has a portfolio.
func (r *PortfolioRepository) InsertPortfolio(ctx context.Context, p *model.Portfolio) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now().UTC()
	}
	p.Version = 1

	query := `
        INSERT INTO portfolio (id, owner_id, cash_balance, current_ts, net_worth, created_at, version)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err := r.getQuerier().ExecContext(ctx, query,
		p.ID,
		p.OwnerID,
		p.CashBalance.String(),
		FormatTime(p.CurrentTs),
		p.NetWorth.String(),
		FormatTime(p.CreatedAt),
		p.Version,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrPortfolioExists
		}
		return fmt.Errorf("failed to insert portfolio: %w", err)
	}

	return nil
}

// UpdatePortfolioState writes cash balance, current timestamp and net worth if the
// stored version still equals p.Version, then increments p.Version.
// Returns ErrConcurrencyConflict when another writer got there first or the row is gone.
func (r *PortfolioRepository) UpdatePortfolioState(ctx context.Context, p *model.Portfolio) error {
	query := `
        UPDATE portfolio
        SET cash_balance = ?, current_ts = ?, net_worth = ?, version = version + 1
        WHERE id = ? AND version = ?
    `
	result, err := r.getQuerier().ExecContext(ctx, query,
		p.CashBalance.String(),
		FormatTime(p.CurrentTs),
		p.NetWorth.String(),
		p.ID,
		p.Version,
	)
	if err != nil {
		if IsBusy(err) {
			return fmt.Errorf("%w: %v", apperrors.ErrConcurrencyConflict, err)
		}
		return fmt.Errorf("failed to update portfolio: %w", err)
	}
	if err := rowsAffected(result, apperrors.ErrConcurrencyConflict); err != nil {
		return err
	}

	p.Version++
	return nil
}

// DeletePortfolio removes a portfolio row. Holdings are removed by cascade.
// Returns ErrPortfolioNotFound if no portfolio with the given ID exists.
func (r *PortfolioRepository) DeletePortfolio(ctx context.Context, id string) error {
	result, err := r.getQuerier().ExecContext(ctx, `DELETE FROM portfolio WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete portfolio: %w", err)
	}
	return rowsAffected(result, apperrors.ErrPortfolioNotFound)
}

type scanner interface {
	Scan(dest ...any) error
}

func scanPortfolio(s scanner) (model.Portfolio, error) {
	var p model.Portfolio
	var cash, currentTs, netWorth, createdAt string

	err := s.Scan(&p.ID, &p.OwnerID, &cash, &currentTs, &netWorth, &createdAt, &p.Version)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Portfolio{}, apperrors.ErrPortfolioNotFound
	}
	if err != nil {
		return model.Portfolio{}, fmt.Errorf("failed to scan portfolio: %w", err)
	}

	if p.CashBalance, err = parseDecimal("cash_balance", cash); err != nil {
		return model.Portfolio{}, err
	}
	if p.NetWorth, err = parseDecimal("net_worth", netWorth); err != nil {
		return model.Portfolio{}, err
	}
	if p.CurrentTs, err = parseStoredTime("current_ts", currentTs); err != nil {
		return model.Portfolio{}, err
	}
	if p.CreatedAt, err = parseStoredTime("created_at", createdAt); err != nil {
		return model.Portfolio{}, err
	}

	return p, nil
}
