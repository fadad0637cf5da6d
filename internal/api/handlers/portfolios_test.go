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

func setupPortfolioHandler(t *testing.T) (*PortfolioHandler, *sql.DB) {
	t.Helper()
	db := testutil.SetupTestDB(t)
	return NewPortfolioHandler(testutil.NewTestPortfolioService(t, db)), db
}

// TestPortfolioHandler_CreatePortfolio tests POST /api/portfolio.
//
// WHY: Every trading flow starts here. Cash and net worth must both equal the
// initial capital, and an owner can only ever have one portfolio.
func TestPortfolioHandler_CreatePortfolio(t *testing.T) {
	t.Run("creates portfolio for caller", func(t *testing.T) {
		// Setup
		handler, db := setupPortfolioHandler(t)
		owner := testutil.MakeUsername("owner")

		req := testutil.AsOwner(testutil.NewRequestWithBody(t, http.MethodPost, "/api/portfolio", map[string]any{
			"initialCapital": "100000",
			"currentTs":      "2024-01-02",
		}), owner)
		w := httptest.NewRecorder()

		// Execute
		handler.CreatePortfolio(w, req)

		// Assert
		if w.Code != http.StatusCreated {
			t.Fatalf("Expected 201, got %d: %s", w.Code, w.Body.String())
		}

		var p model.Portfolio
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&p)

		if p.OwnerID != owner {
			t.Errorf("Expected owner %s, got %s", owner, p.OwnerID)
		}
		if !p.CashBalance.Equal(testutil.Dec("100000")) || !p.NetWorth.Equal(testutil.Dec("100000")) {
			t.Errorf("Expected cash and net worth 100000, got %s / %s", p.CashBalance, p.NetWorth)
		}
		if !p.CurrentTs.Equal(testutil.Day("2024-01-02")) {
			t.Errorf("Expected cursor 2024-01-02, got %v", p.CurrentTs)
		}
		testutil.AssertRowCount(t, db, "portfolio", 1)
	})

	t.Run("second portfolio for same owner returns 409", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)
		existing := testutil.NewPortfolio().Build(t, db)

		req := testutil.AsOwner(testutil.NewRequestWithBody(t, http.MethodPost, "/api/portfolio", map[string]any{
			"initialCapital": "500",
		}), existing.OwnerID)
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusConflict {
			t.Errorf("Expected 409, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "portfolio", 1)
	})

	t.Run("non-positive capital returns 400", func(t *testing.T) {
		handler, db := setupPortfolioHandler(t)

		req := testutil.AsOwner(testutil.NewRequestWithBody(t, http.MethodPost, "/api/portfolio", map[string]any{
			"initialCapital": "0",
		}), testutil.MakeUsername("owner"))
		w := httptest.NewRecorder()

		handler.CreatePortfolio(w, req)

		if w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "portfolio", 0)
	})
}

func TestPortfolioHandler_GetPortfolio(t *testing.T) {
	handler, db := setupPortfolioHandler(t)
	p := testutil.NewPortfolio().Build(t, db)

	tests := []struct {
		name       string
		caller     string
		id         string
		wantStatus int
	}{
		{"owner", p.OwnerID, p.ID, http.StatusOK},
		{"someone else", "intruder", p.ID, http.StatusForbidden},
		{"missing portfolio", p.OwnerID, testutil.MakeID(), http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.AsOwner(testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+tt.id,
				map[string]string{"uuid": tt.id}), tt.caller)
			w := httptest.NewRecorder()

			handler.GetPortfolio(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("Expected %d, got %d: %s", tt.wantStatus, w.Code, w.Body.String())
			}
		})
	}

	t.Run("my portfolio without one returns 404", func(t *testing.T) {
		req := testutil.AsOwner(httptest.NewRequest(http.MethodGet, "/api/portfolio", nil), "nobody")
		w := httptest.NewRecorder()

		handler.MyPortfolio(w, req)

		if w.Code != http.StatusNotFound {
			t.Errorf("Expected 404, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("all portfolios lists every owner", func(t *testing.T) {
		testutil.NewPortfolio().Build(t, db)

		req := testutil.AsOwner(httptest.NewRequest(http.MethodGet, "/api/portfolio/all", nil), "anyone")
		w := httptest.NewRecorder()

		handler.AllPortfolios(w, req)

		var all []model.Portfolio
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&all)
		if len(all) != 2 {
			t.Errorf("Expected 2 portfolios, got %d", len(all))
		}
	})
}

// TestPortfolioHandler_UpdateTimestamp tests PUT /api/portfolio/{uuid}/timestamp.
//
// WHY: The cursor is what stops trades being placed in the past. Letting it
// move backwards would reopen already-traded days.
func TestPortfolioHandler_UpdateTimestamp(t *testing.T) {
	handler, db := setupPortfolioHandler(t)
	p := testutil.NewPortfolio().WithCurrentTs(testutil.Day("2024-01-03")).Build(t, db)

	advance := func(t *testing.T, ts string) *httptest.ResponseRecorder {
		t.Helper()
		req := testutil.AsOwner(testutil.NewRequestWithURLParamsAndBody(t, http.MethodPut,
			"/api/portfolio/"+p.ID+"/timestamp", map[string]string{"uuid": p.ID},
			map[string]any{"currentTs": ts}), p.OwnerID)
		w := httptest.NewRecorder()
		handler.UpdateTimestamp(w, req)
		return w
	}

	t.Run("moving backwards returns 400", func(t *testing.T) {
		if w := advance(t, "2024-01-02"); w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("moving forwards updates the cursor", func(t *testing.T) {
		w := advance(t, "2024-01-08")
		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var got model.Portfolio
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&got)
		if !got.CurrentTs.Equal(testutil.Day("2024-01-08")) {
			t.Errorf("Expected cursor 2024-01-08, got %v", got.CurrentTs)
		}
	})

	t.Run("missing currentTs returns 400", func(t *testing.T) {
		if w := advance(t, ""); w.Code != http.StatusBadRequest {
			t.Errorf("Expected 400, got %d: %s", w.Code, w.Body.String())
		}
	})
}

func TestPortfolioHandler_NetWorthAndHoldings(t *testing.T) {
	handler, db := setupPortfolioHandler(t)
	p := testutil.NewPortfolio().WithCash("1000").Build(t, db)
	testutil.NewHolding(p.ID, "RELIANCE").WithQuantity(10).WithAveragePrice("280").Build(t, db)

	t.Run("net worth is cash plus holdings at the cursor", func(t *testing.T) {
		req := testutil.AsOwner(httptest.NewRequest(http.MethodGet, "/api/portfolio/net-worth", nil), p.OwnerID)
		w := httptest.NewRecorder()

		handler.NetWorth(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
		}

		var nw model.NetWorth
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&nw)

		// 1000 + 10 × 285.73
		if !nw.NetWorth.Equal(testutil.Dec("3857.3")) {
			t.Errorf("Expected net worth 3857.30, got %s", nw.NetWorth)
		}
	})

	t.Run("holdings lists positions", func(t *testing.T) {
		req := testutil.AsOwner(testutil.NewRequestWithURLParams(http.MethodGet, "/api/portfolio/"+p.ID+"/holdings",
			map[string]string{"uuid": p.ID}), p.OwnerID)
		w := httptest.NewRecorder()

		handler.Holdings(w, req)

		var holdings []model.Holding
		//nolint:errcheck // Test assertion - decode failure would cause test to fail anyway
		json.NewDecoder(w.Body).Decode(&holdings)
		if len(holdings) != 1 || holdings[0].Symbol != "RELIANCE" {
			t.Errorf("Expected one RELIANCE holding, got %+v", holdings)
		}
	})
}

func TestPortfolioHandler_DeletePortfolio(t *testing.T) {
	handler, db := setupPortfolioHandler(t)
	p := testutil.NewPortfolio().Build(t, db)
	testutil.NewHolding(p.ID, "RELIANCE").Build(t, db)
	testutil.NewTrade(p.OwnerID, "RELIANCE").Build(t, db)

	t.Run("someone else cannot delete", func(t *testing.T) {
		req := testutil.AsOwner(testutil.NewRequestWithURLParams(http.MethodDelete, "/api/portfolio/"+p.ID,
			map[string]string{"uuid": p.ID}), "intruder")
		w := httptest.NewRecorder()

		handler.DeletePortfolio(w, req)

		if w.Code != http.StatusForbidden {
			t.Errorf("Expected 403, got %d: %s", w.Code, w.Body.String())
		}
	})

	t.Run("owner deletes portfolio and holdings but keeps trades", func(t *testing.T) {
		req := testutil.AsOwner(testutil.NewRequestWithURLParams(http.MethodDelete, "/api/portfolio/"+p.ID,
			map[string]string{"uuid": p.ID}), p.OwnerID)
		w := httptest.NewRecorder()

		handler.DeletePortfolio(w, req)

		if w.Code != http.StatusNoContent {
			t.Fatalf("Expected 204, got %d: %s", w.Code, w.Body.String())
		}
		testutil.AssertRowCount(t, db, "portfolio", 0)
		testutil.AssertRowCount(t, db, "portfolio_holding", 0)
		testutil.AssertRowCount(t, db, "trade", 1)
	})
}
