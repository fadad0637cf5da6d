package handlers

import (
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
)

func setupPlanningHandler(t *testing.T) (*PlanningHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewPlanningHandler(
		testutil.NewTestGroupService(t, db),
		testutil.NewTestTaskService(t, db),
		testutil.NewTestStrategyService(t, db),
	), db
}

func TestPlanningHandler_Groups(t *testing.T) {
	handler, db := setupPlanningHandler(t)

	t.Run("creates group", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/group", map[string]any{"name": "Momentum"})
		w := httptest.NewRecorder()

		handler.CreateGroup(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "trading_group", 1)
	})

	t.Run("duplicate name returns 409", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/group", map[string]any{"name": "Momentum"})
		w := httptest.NewRecorder()

		handler.CreateGroup(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("lists groups", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/group", nil)
		w := httptest.NewRecorder()

		handler.Groups(w, req)

		var groups []model.Group
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&groups)
		if len(groups) != 1 || groups[0].Name != "Momentum" {
			t.Errorf("Expected one Momentum group, got %+v", groups)
		}
	})
}

// TestPlanningHandler_Tasks tests task creation and the per-day view.
//
// WHY: The per-day view is how a trader sees today's workload. A task shows on
// every day inside its range, with its effort spread over its weekdays.
func TestPlanningHandler_Tasks(t *testing.T) {
	handler, db := setupPlanningHandler(t)
	group := testutil.CreateGroup(t, db, testutil.MakeName("group"))

	t.Run("creates task", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/task", map[string]any{
			"groupId":         group.ID,
			"name":            "Rebalance",
			"startDate":       "2024-01-01",
			"endDate":         "2024-01-31",
			"estimatedEffort": 10,
			"weekdays":        []int{0, 1, 2, 3, 4},
		})
		w := httptest.NewRecorder()

		handler.CreateTask(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("unknown group returns 404", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/task", map[string]any{
			"groupId":         testutil.MakeID(),
			"name":            "Orphan",
			"startDate":       "2024-01-01",
			"endDate":         "2024-01-31",
			"estimatedEffort": 1,
			"weekdays":        []int{0},
		})
		w := httptest.NewRecorder()

		handler.CreateTask(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("end before start returns 400", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/task", map[string]any{
			"groupId":         group.ID,
			"name":            "Backwards",
			"startDate":       "2024-01-31",
			"endDate":         "2024-01-01",
			"estimatedEffort": 1,
			"weekdays":        []int{0},
		})
		w := httptest.NewRecorder()

		handler.CreateTask(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("tasks for a weekday", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/task/day", map[string]string{"day": "2024-01-03"})
		w := httptest.NewRecorder()

		handler.TasksForDay(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var tasks []model.Task
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&tasks)
		if len(tasks) != 1 {
			t.Fatalf("Expected 1 task, got %d", len(tasks))
		}
		if tasks[0].EstimatedEffort != 2 {
			t.Errorf("Expected effort 2 per day, got %v", tasks[0].EstimatedEffort)
		}
	})

	t.Run("no tasks outside the range", func(t *testing.T) {
		req := testutil.NewRequestWithQueryParams(http.MethodGet, "/api/task/day", map[string]string{"day": "2024-02-05"})
		w := httptest.NewRecorder()

		handler.TasksForDay(w, req)

		var tasks []model.Task
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&tasks)
		if len(tasks) != 0 {
			t.Errorf("Expected no tasks, got %d", len(tasks))
		}
	})

	t.Run("missing day returns 400", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/task/day", nil)
		w := httptest.NewRecorder()

		handler.TasksForDay(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPlanningHandler_Strategies(t *testing.T) {
	handler, db := setupPlanningHandler(t)

	var created model.Strategy

	t.Run("creates strategy", func(t *testing.T) {
		req := testutil.NewRequestWithBody(t, http.MethodPost, "/api/strategy", map[string]any{
			"name":        "Banks",
			"description": "Private sector banks",
			"parameters":  map[string]any{"stocks": []string{"hdfcbank", "ICICIBANK"}},
		})
		w := httptest.NewRecorder()

		handler.CreateStrategy(w, req)

		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&created)
	})

	params := func() map[string]string { return map[string]string{"uuid": created.ID} }

	t.Run("lists stocks upper-cased", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodGet, "/api/strategy/"+created.ID+"/stocks", params())
		w := httptest.NewRecorder()

		handler.StrategyStocks(w, req)

		var stocks []string
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&stocks)
		if len(stocks) != 2 || stocks[0] != "HDFCBANK" || stocks[1] != "ICICIBANK" {
			t.Errorf("Expected [HDFCBANK ICICIBANK], got %v", stocks)
		}
	})

	t.Run("partial update keeps other fields", func(t *testing.T) {
		req := testutil.NewRequestWithURLParamsAndBody(t, http.MethodPut, "/api/strategy/"+created.ID, params(),
			map[string]any{"name": "Big banks"})
		w := httptest.NewRecorder()

		handler.UpdateStrategy(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got model.Strategy
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&got)
		if got.Name != "Big banks" || got.Description != "Private sector banks" {
			t.Errorf("Unexpected strategy after update: %+v", got)
		}
	})

	t.Run("delete then get returns 404", func(t *testing.T) {
		req := testutil.NewRequestWithURLParams(http.MethodDelete, "/api/strategy/"+created.ID, params())
		w := httptest.NewRecorder()

		handler.DeleteStrategy(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}

		req = testutil.NewRequestWithURLParams(http.MethodGet, "/api/strategy/"+created.ID, params())
		w = httptest.NewRecorder()

		handler.GetStrategy(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "strategy", 0)
	})
}
