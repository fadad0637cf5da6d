package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
)

// TestUserService tests user registration and lookup.
func TestUserService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestUserService(t, db)
	ctx := context.Background()

	var created string
	t.Run("creates a user", func(t *testing.T) {
		u, err := svc.CreateUser(ctx, request.CreateUserRequest{Username: "alice", Email: "Alice@Example.com"})
		if err != nil {
			t.Fatalf("CreateUser() error = %v", err)
		}
		if u.ID == "" || u.Email != "alice@example.com" {
			t.Errorf("user = %+v", u)
		}
		created = u.ID
	})

	t.Run("duplicate username or email fails", func(t *testing.T) {
		_, err := svc.CreateUser(ctx, request.CreateUserRequest{Username: "alice", Email: "other@example.com"})
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("duplicate username error = %v, want ErrDuplicateEntry", err)
		}
		_, err = svc.CreateUser(ctx, request.CreateUserRequest{Username: "alice2", Email: "alice@example.com"})
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("duplicate email error = %v, want ErrDuplicateEntry", err)
		}
	})

	t.Run("reads users", func(t *testing.T) {
		u, err := svc.GetUser(ctx, created)
		if err != nil || u.Username != "alice" {
			t.Errorf("GetUser() = %+v, %v", u, err)
		}
		if _, err := svc.GetUser(ctx, testutil.MakeID()); !errors.Is(err, apperrors.ErrUserNotFound) {
			t.Errorf("GetUser() error = %v, want ErrUserNotFound", err)
		}
		users, err := svc.GetUsers(ctx)
		if err != nil || len(users) != 1 {
			t.Errorf("GetUsers() = %d users, %v", len(users), err)
		}
	})
}

// TestGroupService tests trading group creation.
func TestGroupService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestGroupService(t, db)
	ctx := context.Background()

	t.Run("generates an ID", func(t *testing.T) {
		g, err := svc.CreateGroup(ctx, request.CreateGroupRequest{Name: "Momentum"})
		if err != nil || g.ID == "" {
			t.Errorf("CreateGroup() = %+v, %v", g, err)
		}
	})

	t.Run("keeps a supplied ID", func(t *testing.T) {
		id := testutil.MakeID()
		g, err := svc.CreateGroup(ctx, request.CreateGroupRequest{ID: &id, Name: "Value"})
		if err != nil || g.ID != id {
			t.Errorf("CreateGroup() = %+v, %v, want ID %s", g, err, id)
		}
	})

	t.Run("duplicate name fails", func(t *testing.T) {
		_, err := svc.CreateGroup(ctx, request.CreateGroupRequest{Name: "Value"})
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("CreateGroup() error = %v, want ErrDuplicateEntry", err)
		}
	})

	t.Run("lists groups by name", func(t *testing.T) {
		groups, err := svc.GetGroups(ctx)
		if err != nil || len(groups) != 2 || groups[0].Name != "Momentum" {
			t.Errorf("GetGroups() = %+v, %v", groups, err)
		}
	})
}

// TestTaskService tests task scheduling.
//
// WHY: The per-day view spreads a task's effort over its weekdays, so a 10 hour
// task on five weekdays shows as 2 hours on any day it is active.
func TestTaskService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestTaskService(t, db)
	ctx := context.Background()
	group := testutil.CreateGroup(t, db, "Research")

	t.Run("creates a task for an existing group", func(t *testing.T) {
		task, err := svc.CreateTask(ctx, request.CreateTaskRequest{
			GroupID:         group.ID,
			Name:            "Backfill prices",
			StartDate:       "2024-01-01",
			EndDate:         "2024-01-31",
			EstimatedEffort: 10,
			Weekdays:        []int{0, 1, 2, 3, 4},
		})
		if err != nil {
			t.Fatalf("CreateTask() error = %v", err)
		}
		if task.ID == "" || !task.StartDate.Equal(testutil.Day("2024-01-01")) {
			t.Errorf("task = %+v", task)
		}
	})

	t.Run("unknown group fails", func(t *testing.T) {
		_, err := svc.CreateTask(ctx, request.CreateTaskRequest{
			GroupID:   testutil.MakeID(),
			Name:      "Orphan",
			StartDate: "2024-01-01",
			EndDate:   "2024-01-02",
			Weekdays:  []int{0},
		})
		if !errors.Is(err, apperrors.ErrGroupNotFound) {
			t.Errorf("CreateTask() error = %v, want ErrGroupNotFound", err)
		}
	})

	t.Run("tasks for a day split effort by weekday", func(t *testing.T) {
		testutil.NewTask(group.ID).WithDates("2024-02-01", "2024-02-28").WithEffort(6).WithWeekdays(0, 2, 4).Build(t, db)

		tasks, err := svc.GetTasksForDay(ctx, testutil.Day("2024-01-15"))
		if err != nil {
			t.Fatalf("GetTasksForDay() error = %v", err)
		}
		if len(tasks) != 1 || tasks[0].EstimatedEffort != 2 {
			t.Errorf("tasks = %+v, want one task with effort 2", tasks)
		}

		tasks, _ = svc.GetTasksForDay(ctx, testutil.Day("2024-02-28"))
		if len(tasks) != 1 || tasks[0].EstimatedEffort != 2 {
			t.Errorf("tasks on end date = %+v, want one task with effort 2", tasks)
		}

		all, err := svc.GetTasks(ctx)
		if err != nil || len(all) != 2 {
			t.Errorf("GetTasks() = %d tasks, %v", len(all), err)
		}
	})
}

// TestStrategyService tests strategy storage.
func TestStrategyService(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestStrategyService(t, db)
	ctx := context.Background()

	created, err := svc.CreateStrategy(ctx, request.CreateStrategyRequest{
		Name:        "Momentum",
		Description: "Buy strength",
		Parameters:  map[string]any{"stocks": []any{"reliance", "HDFCBANK"}, "window": 20.0},
	})
	if err != nil {
		t.Fatalf("CreateStrategy() error = %v", err)
	}

	t.Run("reads back parameters", func(t *testing.T) {
		got, err := svc.GetStrategy(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetStrategy() error = %v", err)
		}
		if got.Parameters["window"] != 20.0 {
			t.Errorf("parameters = %+v", got.Parameters)
		}
	})

	t.Run("stocks are upper-cased", func(t *testing.T) {
		stocks, err := svc.GetStrategyStocks(ctx, created.ID)
		if err != nil {
			t.Fatalf("GetStrategyStocks() error = %v", err)
		}
		if len(stocks) != 2 || stocks[0] != "RELIANCE" || stocks[1] != "HDFCBANK" {
			t.Errorf("stocks = %v, want [RELIANCE HDFCBANK]", stocks)
		}
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		desc := "Buy strength, sell weakness"
		got, err := svc.UpdateStrategy(ctx, created.ID, request.UpdateStrategyRequest{Description: &desc})
		if err != nil {
			t.Fatalf("UpdateStrategy() error = %v", err)
		}
		if got.Name != "Momentum" || got.Description != desc || got.Parameters["window"] != 20.0 {
			t.Errorf("strategy = %+v", got)
		}
	})

	t.Run("duplicate name fails", func(t *testing.T) {
		_, err := svc.CreateStrategy(ctx, request.CreateStrategyRequest{Name: "Momentum"})
		if !errors.Is(err, apperrors.ErrDuplicateEntry) {
			t.Errorf("CreateStrategy() error = %v, want ErrDuplicateEntry", err)
		}
	})

	t.Run("strategy without stocks lists none", func(t *testing.T) {
		s, err := svc.CreateStrategy(ctx, request.CreateStrategyRequest{Name: "Empty"})
		if err != nil {
			t.Fatalf("CreateStrategy() error = %v", err)
		}
		stocks, err := svc.GetStrategyStocks(ctx, s.ID)
		if err != nil || len(stocks) != 0 {
			t.Errorf("GetStrategyStocks() = %v, %v", stocks, err)
		}
	})

	t.Run("delete", func(t *testing.T) {
		if err := svc.DeleteStrategy(ctx, created.ID); err != nil {
			t.Fatalf("DeleteStrategy() error = %v", err)
		}
		if _, err := svc.GetStrategy(ctx, created.ID); !errors.Is(err, apperrors.ErrStrategyNotFound) {
			t.Errorf("GetStrategy() error = %v, want ErrStrategyNotFound", err)
		}
		list, _ := svc.GetStrategies(ctx)
		if len(list) != 1 {
			t.Errorf("GetStrategies() = %d, want 1", len(list))
		}
	})
}
