package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
)

func strPtr(s string) *string { return &s }

// TestPortfolioService_CreatePortfolio tests portfolio creation.
//
// WHY: One portfolio per owner is the basis of owner-scoped trading. A second
// create must fail instead of silently resetting the balance.
func TestPortfolioService_CreatePortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)
	ctx := context.Background()

	t.Run("opens with cash equal to net worth", func(t *testing.T) {
		// Execute
		p, err := svc.CreatePortfolio(ctx, "alice", request.CreatePortfolioRequest{
			InitialCapital: testutil.Dec("100000"),
			CurrentTs:      strPtr("2024-01-02"),
		})

		// Assert
		if err != nil {
			t.Fatalf("CreatePortfolio() error = %v", err)
		}
		if p.ID == "" || p.OwnerID != "alice" {
			t.Errorf("unexpected portfolio %+v", p)
		}
		if !p.CashBalance.Equal(testutil.Dec("100000")) || !p.NetWorth.Equal(p.CashBalance) {
			t.Errorf("cash %s, net worth %s, want 100000", p.CashBalance, p.NetWorth)
		}
		if !p.CurrentTs.Equal(testutil.Day("2024-01-02")) {
			t.Errorf("current_ts = %v, want 2024-01-02", p.CurrentTs)
		}
	})

	t.Run("second portfolio for the same owner fails", func(t *testing.T) {
		_, err := svc.CreatePortfolio(ctx, "alice", request.CreatePortfolioRequest{InitialCapital: testutil.Dec("5")})
		if !errors.Is(err, apperrors.ErrPortfolioExists) {
			t.Errorf("CreatePortfolio() error = %v, want ErrPortfolioExists", err)
		}
		testutil.AssertRowCount(t, db, "portfolio", 1)
	})

	t.Run("cursor defaults to now", func(t *testing.T) {
		p, err := svc.CreatePortfolio(ctx, "bob", request.CreatePortfolioRequest{InitialCapital: testutil.Dec("10")})
		if err != nil {
			t.Fatalf("CreatePortfolio() error = %v", err)
		}
		if p.CurrentTs.IsZero() {
			t.Error("expected a current timestamp")
		}
	})
}

// TestPortfolioService_GetPortfolio verifies owner scoping on reads.
func TestPortfolioService_GetPortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)
	ctx := context.Background()
	p := testutil.CreatePortfolio(t, db, "alice")
	testutil.NewHolding(p.ID, "RELIANCE").Build(t, db)

	t.Run("owner can read", func(t *testing.T) {
		got, err := svc.GetPortfolio(ctx, "alice", p.ID)
		if err != nil || got.ID != p.ID {
			t.Errorf("GetPortfolio() = %+v, %v", got, err)
		}
		holdings, err := svc.GetHoldings(ctx, "alice", p.ID)
		if err != nil || len(holdings) != 1 {
			t.Errorf("GetHoldings() = %+v, %v", holdings, err)
		}
	})

	t.Run("other owner is forbidden", func(t *testing.T) {
		if _, err := svc.GetPortfolio(ctx, "mallory", p.ID); !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("GetPortfolio() error = %v, want ErrForbidden", err)
		}
		if _, err := svc.GetHoldings(ctx, "mallory", p.ID); !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("GetHoldings() error = %v, want ErrForbidden", err)
		}
	})

	t.Run("missing portfolio", func(t *testing.T) {
		if _, err := svc.GetPortfolio(ctx, "alice", testutil.MakeID()); !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("GetPortfolio() error = %v, want ErrPortfolioNotFound", err)
		}
		if _, err := svc.GetPortfolioByOwner(ctx, "nobody"); !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("GetPortfolioByOwner() error = %v, want ErrPortfolioNotFound", err)
		}
	})

	t.Run("list returns every portfolio", func(t *testing.T) {
		testutil.CreatePortfolio(t, db, "bob")
		all, err := svc.GetAllPortfolios(ctx)
		if err != nil || len(all) != 2 {
			t.Errorf("GetAllPortfolios() = %d portfolios, %v", len(all), err)
		}
	})
}

// TestPortfolioService_AdvanceTimestamp tests cursor movement.
//
// WHY: The cursor only moves forward. Moving it back would let a client trade
// at prices it has already seen.
func TestPortfolioService_AdvanceTimestamp(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)
	ctx := context.Background()
	p := testutil.NewPortfolio().WithOwner("alice").WithCurrentTs(testutil.Day("2024-01-03")).Build(t, db)

	t.Run("moves forward", func(t *testing.T) {
		got, err := svc.AdvanceTimestamp(ctx, "alice", p.ID, request.UpdateTimestampRequest{CurrentTs: "2024-01-05T09:00:00Z"})
		if err != nil {
			t.Fatalf("AdvanceTimestamp() error = %v", err)
		}
		if got.CurrentTs.Format("2006-01-02T15:04") != "2024-01-05T09:00" {
			t.Errorf("current_ts = %v", got.CurrentTs)
		}
		if got.Version != p.Version+1 {
			t.Errorf("version = %d, want %d", got.Version, p.Version+1)
		}
	})

	t.Run("same timestamp is allowed", func(t *testing.T) {
		if _, err := svc.AdvanceTimestamp(ctx, "alice", p.ID, request.UpdateTimestampRequest{CurrentTs: "2024-01-05T09:00:00Z"}); err != nil {
			t.Errorf("AdvanceTimestamp() error = %v", err)
		}
	})

	t.Run("regression fails", func(t *testing.T) {
		_, err := svc.AdvanceTimestamp(ctx, "alice", p.ID, request.UpdateTimestampRequest{CurrentTs: "2024-01-04"})
		if !errors.Is(err, apperrors.ErrTimestampRegression) {
			t.Errorf("AdvanceTimestamp() error = %v, want ErrTimestampRegression", err)
		}
	})

	t.Run("other owner is forbidden", func(t *testing.T) {
		_, err := svc.AdvanceTimestamp(ctx, "mallory", p.ID, request.UpdateTimestampRequest{CurrentTs: "2024-02-01"})
		if !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("AdvanceTimestamp() error = %v, want ErrForbidden", err)
		}
	})
}

// TestPortfolioService_NetWorth tests valuation at the portfolio cursor.
//
// WHY: Net worth is what the client sees as performance. Holdings without a
// bar on the cursor date must still count, at cost, rather than vanish.
func TestPortfolioService_NetWorth(t *testing.T) {
	t.Run("values holdings at the reference price", func(t *testing.T) {
		// Setup
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		p := testutil.NewPortfolio().WithOwner("alice").WithCash("1000").WithCurrentTs(testutil.Day("2024-01-04")).Build(t, db)
		testutil.NewHolding(p.ID, "RELIANCE").WithQuantity(10).WithAveragePrice("285.73").Build(t, db)
		testutil.NewHolding(p.ID, "HDFCBANK").WithQuantity(2).WithAveragePrice("1505").Build(t, db)

		// Execute
		nw, err := svc.NetWorth(context.Background(), "alice")

		// Assert: 1000 + 10×310 + 2×1535
		if err != nil {
			t.Fatalf("NetWorth() error = %v", err)
		}
		if !nw.NetWorth.Equal(testutil.Dec("7170")) {
			t.Errorf("net worth = %s, want 7170", nw.NetWorth)
		}
		stored, _ := svc.GetPortfolioByOwner(context.Background(), "alice")
		if !stored.NetWorth.Equal(nw.NetWorth) {
			t.Errorf("stored net worth = %s, want %s", stored.NetWorth, nw.NetWorth)
		}
	})

	t.Run("falls back to average price without a bar", func(t *testing.T) {
		// Setup: 2024-01-06 is a Saturday, ICICIBANK has no file at all
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		p := testutil.NewPortfolio().WithOwner("bob").WithCash("0").WithCurrentTs(testutil.Day("2024-01-06")).Build(t, db)
		testutil.NewHolding(p.ID, "RELIANCE").WithQuantity(10).WithAveragePrice("300").Build(t, db)
		testutil.NewHolding(p.ID, "ICICIBANK").WithQuantity(1).WithAveragePrice("950.50").Build(t, db)

		// Execute
		nw, err := svc.NetWorth(context.Background(), "bob")

		// Assert
		if err != nil {
			t.Fatalf("NetWorth() error = %v", err)
		}
		if !nw.NetWorth.Equal(testutil.Dec("3950.50")) {
			t.Errorf("net worth = %s, want 3950.50", nw.NetWorth)
		}
	})

	t.Run("no portfolio", func(t *testing.T) {
		db := testutil.SetupTestDB(t)
		svc := testutil.NewTestPortfolioService(t, db)
		if _, err := svc.NetWorth(context.Background(), "nobody"); !errors.Is(err, apperrors.ErrPortfolioNotFound) {
			t.Errorf("NetWorth() error = %v, want ErrPortfolioNotFound", err)
		}
	})
}

// TestPortfolioService_DeletePortfolio verifies holdings go with the portfolio and the ledger stays.
func TestPortfolioService_DeletePortfolio(t *testing.T) {
	db := testutil.SetupTestDB(t)
	svc := testutil.NewTestPortfolioService(t, db)
	ctx := context.Background()
	p := testutil.CreatePortfolio(t, db, "alice")
	testutil.NewHolding(p.ID, "RELIANCE").Build(t, db)
	testutil.NewTrade("alice", "RELIANCE").Build(t, db)

	t.Run("other owner is forbidden", func(t *testing.T) {
		if err := svc.DeletePortfolio(ctx, "mallory", p.ID); !errors.Is(err, apperrors.ErrForbidden) {
			t.Errorf("DeletePortfolio() error = %v, want ErrForbidden", err)
		}
		testutil.AssertRowCount(t, db, "portfolio", 1)
	})

	t.Run("owner deletes", func(t *testing.T) {
		if err := svc.DeletePortfolio(ctx, "alice", p.ID); err != nil {
			t.Fatalf("DeletePortfolio() error = %v", err)
		}
		testutil.AssertRowCount(t, db, "portfolio", 0)
		testutil.AssertRowCount(t, db, "portfolio_holding", 0)
		testutil.AssertRowCount(t, db, "trade", 1)
	})

	t.Run("owner can open a new portfolio afterwards", func(t *testing.T) {
		_, err := svc.CreatePortfolio(ctx, "alice", request.CreatePortfolioRequest{InitialCapital: testutil.Dec("1")})
		if err != nil {
			t.Errorf("CreatePortfolio() error = %v", err)
		}
	})
}
