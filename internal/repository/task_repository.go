package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// TaskRepository provides data access methods for the task table.
// Dates are stored as YYYY-MM-DD and weekdays as a JSON array.
type TaskRepository struct {
	db *sql.DB
}

// NewTaskRepository creates a new TaskRepository with the provided database connection.
func NewTaskRepository(db *sql.DB) *TaskRepository {
	return &TaskRepository{db: db}
}

const taskColumns = `id, group_id, name, start_date, end_date, estimated_effort, weekdays`

// GetTasks retrieves all tasks ordered by start date.
func (r *TaskRepository) GetTasks(ctx context.Context) ([]model.Task, error) {
	return r.query(ctx, `SELECT `+taskColumns+` FROM task ORDER BY start_date ASC, name ASC`)
}

// GetTasksForDay retrieves tasks whose date range contains day.
func (r *TaskRepository) GetTasksForDay(ctx context.Context, day string) ([]model.Task, error) {
	return r.query(ctx,
		`SELECT `+taskColumns+` FROM task WHERE start_date <= ? AND end_date >= ? ORDER BY start_date ASC, name ASC`,
		day, day)
}

// InsertTask creates a task, assigning an ID when unset.
func (r *TaskRepository) InsertTask(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}

	weekdays, err := json.Marshal(t.Weekdays)
	if err != nil {
		return fmt.Errorf("failed to encode weekdays: %w", err)
	}

	query := `
        INSERT INTO task (` + taskColumns + `)
        VALUES (?, ?, ?, ?, ?, ?, ?)
    `
	_, err = r.db.ExecContext(ctx, query,
		t.ID,
		t.GroupID,
		t.Name,
		formatDate(t.StartDate),
		formatDate(t.EndDate),
		t.EstimatedEffort,
		string(weekdays),
	)
	if err != nil {
		return fmt.Errorf("failed to insert task: %w", err)
	}
	return nil
}

func (r *TaskRepository) query(ctx context.Context, query string, args ...any) ([]model.Task, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query task table: %w", err)
	}
	defer rows.Close()

	tasks := []model.Task{}
	for rows.Next() {
		var t model.Task
		var start, end, weekdays string
		if err := rows.Scan(&t.ID, &t.GroupID, &t.Name, &start, &end, &t.EstimatedEffort, &weekdays); err != nil {
			return nil, fmt.Errorf("failed to scan task table results: %w", err)
		}
		if t.StartDate, err = parseStoredDate("start_date", start); err != nil {
			return nil, err
		}
		if t.EndDate, err = parseStoredDate("end_date", end); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(weekdays), &t.Weekdays); err != nil {
			return nil, fmt.Errorf("failed to decode weekdays: %w", err)
		}
		tasks = append(tasks, t)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating task table: %w", err)
	}

	return tasks, nil
}
