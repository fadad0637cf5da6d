package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// StrategyRepository provides data access methods for the strategy table.
// Parameters are stored as a JSON object.
type StrategyRepository struct {
	db *sql.DB
}

// NewStrategyRepository creates a new StrategyRepository with the provided database connection.
func NewStrategyRepository(db *sql.DB) *StrategyRepository {
	return &StrategyRepository{db: db}
}

const strategyColumns = `id, name, description, parameters, created_at`

// GetStrategies retrieves all strategies ordered by name.
func (r *StrategyRepository) GetStrategies(ctx context.Context) ([]model.Strategy, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+strategyColumns+` FROM strategy ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query strategy table: %w", err)
	}
	defer rows.Close()

	strategies := []model.Strategy{}
	for rows.Next() {
		s, err := scanStrategy(rows)
		if err != nil {
			return nil, err
		}
		strategies = append(strategies, s)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating strategy table: %w", err)
	}

	return strategies, nil
}

// GetStrategy retrieves a strategy by ID.
// Returns ErrStrategyNotFound if no strategy with the given ID exists.
func (r *StrategyRepository) GetStrategy(ctx context.Context, id string) (model.Strategy, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+strategyColumns+` FROM strategy WHERE id = ?`, id)
	return scanStrategy(row)
}

// InsertStrategy creates a strategy. ID and CreatedAt are assigned when unset.
// Returns ErrDuplicateEntry if the name is taken.
func (r *StrategyRepository) InsertStrategy(ctx context.Context, s *model.Strategy) error {
	if s.ID == "" {
		s.ID = uuid.New().String()
	}
	if s.CreatedAt.IsZero() {
		s.CreatedAt = time.Now().UTC()
	}

	params, err := encodeParameters(s.Parameters)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO strategy (`+strategyColumns+`) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Description, params, FormatTime(s.CreatedAt),
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert strategy: %w", err)
	}
	return nil
}

// UpdateStrategy overwrites name, description and parameters of a strategy.
// Returns ErrStrategyNotFound if no strategy with the given ID exists.
func (r *StrategyRepository) UpdateStrategy(ctx context.Context, s model.Strategy) error {
	params, err := encodeParameters(s.Parameters)
	if err != nil {
		return err
	}

	result, err := r.db.ExecContext(ctx,
		`UPDATE strategy SET name = ?, description = ?, parameters = ? WHERE id = ?`,
		s.Name, s.Description, params, s.ID,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to update strategy: %w", err)
	}
	return rowsAffected(result, apperrors.ErrStrategyNotFound)
}

// DeleteStrategy removes a strategy by ID.
// Returns ErrStrategyNotFound if no strategy with the given ID exists.
func (r *StrategyRepository) DeleteStrategy(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM strategy WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete strategy: %w", err)
	}
	return rowsAffected(result, apperrors.ErrStrategyNotFound)
}

func encodeParameters(params map[string]any) (string, error) {
	if params == nil {
		return "{}", nil
	}
	b, err := json.Marshal(params)
	if err != nil {
		return "", fmt.Errorf("failed to encode parameters: %w", err)
	}
	return string(b), nil
}

func scanStrategy(s scanner) (model.Strategy, error) {
	var st model.Strategy
	var params, createdAt string

	err := s.Scan(&st.ID, &st.Name, &st.Description, &params, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Strategy{}, apperrors.ErrStrategyNotFound
	}
	if err != nil {
		return model.Strategy{}, fmt.Errorf("failed to scan strategy: %w", err)
	}
	if err := json.Unmarshal([]byte(params), &st.Parameters); err != nil {
		return model.Strategy{}, fmt.Errorf("failed to decode parameters: %w", err)
	}
	if st.CreatedAt, err = parseStoredTime("created_at", createdAt); err != nil {
		return model.Strategy{}, err
	}
	return st, nil
}
