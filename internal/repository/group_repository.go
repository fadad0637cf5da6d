package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// GroupRepository provides data access methods for the trading_group table.
type GroupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new GroupRepository with the provided database connection.
func NewGroupRepository(db *sql.DB) *GroupRepository {
	return &GroupRepository{db: db}
}

// GetGroups retrieves all groups ordered by name.
func (r *GroupRepository) GetGroups(ctx context.Context) ([]model.Group, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM trading_group ORDER BY name ASC`)
	if err != nil {
		return nil, fmt.Errorf("failed to query trading_group table: %w", err)
	}
	defer rows.Close()

	groups := []model.Group{}
	for rows.Next() {
		var g model.Group
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return nil, fmt.Errorf("failed to scan trading_group table results: %w", err)
		}
		groups = append(groups, g)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating trading_group table: %w", err)
	}

	return groups, nil
}

// GroupExists reports whether a group with the given ID exists.
func (r *GroupRepository) GroupExists(ctx context.Context, id string) (bool, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(1) FROM trading_group WHERE id = ?`, id).Scan(&n)
	if err != nil {
		return false, fmt.Errorf("failed to query trading_group: %w", err)
	}
	return n > 0, nil
}

// InsertGroup creates a group, assigning an ID when unset.
// Returns ErrDuplicateEntry if the ID or name is taken.
func (r *GroupRepository) InsertGroup(ctx context.Context, g *model.Group) error {
	if g.ID == "" {
		g.ID = uuid.New().String()
	}

	_, err := r.db.ExecContext(ctx, `INSERT INTO trading_group (id, name) VALUES (?, ?)`, g.ID, g.Name)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.ErrDuplicateEntry
		}
		return fmt.Errorf("failed to insert group: %w", err)
	}
	return nil
}
