package testutil

import (
	"database/sql"
	"math/rand"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/logging"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/market"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/shopspring/decimal"
)

// TestMaxAttempts is the conflict retry budget used by test services.
const TestMaxAttempts = 3

func NewTestTradeService(t *testing.T, db *sql.DB) *service.TradeService {
	t.Helper()
	return NewTestTradeServiceWithStore(t, db, NewTestMarketStore(t))
}

// NewTestTradeServiceWithStore creates a TradeService over a caller-supplied market store.
func NewTestTradeServiceWithStore(t *testing.T, db *sql.DB, store *market.Store) *service.TradeService {
	t.Helper()

	return service.NewTradeService(
		db,
		store,
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		repository.NewTradeRepository(db),
		TestMaxAttempts,
		logging.Nop(),
	)
}

func NewTestPortfolioService(t *testing.T, db *sql.DB) *service.PortfolioService {
	t.Helper()

	return service.NewPortfolioService(
		db,
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		NewTestMarketStore(t),
		TestMaxAttempts,
		logging.Nop(),
	)
}

func NewTestMarketService(t *testing.T) *service.MarketService {
	t.Helper()
	return service.NewMarketService(NewTestMarketStore(t))
}

// NewTestAnalysisService creates an AnalysisService using nearest-date price lookup.
func NewTestAnalysisService(t *testing.T, db *sql.DB) *service.AnalysisService {
	t.Helper()
	return NewTestAnalysisServiceWithMode(t, db, market.Nearest)
}

func NewTestAnalysisServiceWithMode(t *testing.T, db *sql.DB, mode market.LookupMode) *service.AnalysisService {
	t.Helper()

	return service.NewAnalysisService(
		NewTestMarketStore(t),
		repository.NewPortfolioRepository(db),
		repository.NewHoldingRepository(db),
		mode,
	)
}

func NewTestUserService(t *testing.T, db *sql.DB) *service.UserService {
	t.Helper()
	return service.NewUserService(repository.NewUserRepository(db))
}

func NewTestGroupService(t *testing.T, db *sql.DB) *service.GroupService {
	t.Helper()
	return service.NewGroupService(repository.NewGroupRepository(db))
}

func NewTestTaskService(t *testing.T, db *sql.DB) *service.TaskService {
	t.Helper()
	return service.NewTaskService(repository.NewTaskRepository(db), repository.NewGroupRepository(db))
}

func NewTestStrategyService(t *testing.T, db *sql.DB) *service.StrategyService {
	t.Helper()
	return service.NewStrategyService(repository.NewStrategyRepository(db))
}

func NewTestSystemService(t *testing.T, db *sql.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(db)
}

// MakeID generates a UUID string for use in tests.
//
// Example usage:
//
//	id := testutil.MakeID()
//	// Returns: "550e8400-e29b-41d4-a716-446655440000"
func MakeID() string {
	return uuid.New().String()
}

// MakeUsername generates a unique username for testing.
//
// Example usage:
//
//	name := testutil.MakeUsername("trader")
//	// Returns: "trader_a1b2c3"
func MakeUsername(base string) string {
	if base == "" {
		base = "user"
	}
	return base + "_" + randomAlphanumeric(6)
}

// MakeName generates a unique display name for testing.
func MakeName(base string) string {
	if base == "" {
		base = "Name"
	}
	return base + " " + randomAlphanumeric(6)
}

// Day parses a YYYY-MM-DD string as midnight UTC. It panics on malformed input.
func Day(s string) time.Time {
	d, err := time.Parse(time.DateOnly, s)
	if err != nil {
		panic(err)
	}
	return d
}

// Dec parses a decimal literal. It panics on malformed input.
func Dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// randomAlphanumeric generates a random alphanumeric string of specified length.
func randomAlphanumeric(length int) string {
	const charset = "abcdefghijklmnopqrstuvwxyz0123456789"
	result := make([]byte, length)
	for i := range result {
		//nolint:gosec // G404: Using math/rand for test data generation is acceptable
		result[i] = charset[rand.Intn(len(charset))]
	}
	return string(result)
}
