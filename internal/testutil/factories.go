package testutil

import (
	"database/sql"
	"encoding/json"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/shopspring/decimal"
)

// PortfolioBuilder provides a fluent interface for creating test portfolios.
//
// Example usage:
//
//	// Simple creation with defaults
//	portfolio := testutil.NewPortfolio().Build(t, db)
//
//	// Customized portfolio
//	portfolio := testutil.NewPortfolio().
//	    WithOwner("alice").
//	    WithCash("50000").
//	    WithCurrentTs(testutil.Day("2024-01-02")).
//	    Build(t, db)
type PortfolioBuilder struct {
	ID          string
	OwnerID     string
	CashBalance decimal.Decimal
	NetWorth    *decimal.Decimal
	CurrentTs   time.Time
}

// NewPortfolio creates a PortfolioBuilder with 100000 cash at 2024-01-02.
func NewPortfolio() *PortfolioBuilder {
	return &PortfolioBuilder{
		ID:          MakeID(),
		OwnerID:     MakeUsername("owner"),
		CashBalance: decimal.NewFromInt(100000),
		CurrentTs:   Day("2024-01-02"),
	}
}

// WithID sets a custom ID.
func (b *PortfolioBuilder) WithID(id string) *PortfolioBuilder {
	b.ID = id
	return b
}

// WithOwner sets the owner ID.
func (b *PortfolioBuilder) WithOwner(ownerID string) *PortfolioBuilder {
	b.OwnerID = ownerID
	return b
}

// WithCash sets the cash balance from a decimal literal.
func (b *PortfolioBuilder) WithCash(cash string) *PortfolioBuilder {
	b.CashBalance = Dec(cash)
	return b
}

// WithNetWorth sets a stored net worth different from the cash balance.
func (b *PortfolioBuilder) WithNetWorth(netWorth string) *PortfolioBuilder {
	nw := Dec(netWorth)
	b.NetWorth = &nw
	return b
}

// WithCurrentTs sets the portfolio cursor.
func (b *PortfolioBuilder) WithCurrentTs(ts time.Time) *PortfolioBuilder {
	b.CurrentTs = ts
	return b
}

// Build creates the portfolio in the database and returns it.
// Net worth defaults to the cash balance.
func (b *PortfolioBuilder) Build(t *testing.T, db *sql.DB) model.Portfolio {
	t.Helper()

	netWorth := b.CashBalance
	if b.NetWorth != nil {
		netWorth = *b.NetWorth
	}
	createdAt := time.Now().UTC()

	query := `
		INSERT INTO portfolio (id, owner_id, cash_balance, current_ts, net_worth, created_at, version)
		VALUES (?, ?, ?, ?, ?, ?, 1)
	`

	_, err := db.Exec(query, b.ID, b.OwnerID, b.CashBalance.String(),
		repository.FormatTime(b.CurrentTs), netWorth.String(), repository.FormatTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test portfolio: %v", err)
	}

	return model.Portfolio{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		CashBalance: b.CashBalance,
		CurrentTs:   b.CurrentTs.UTC(),
		NetWorth:    netWorth,
		CreatedAt:   createdAt,
		Version:     1,
	}
}

// CreatePortfolio creates a portfolio for ownerID with default values.
//
// Example usage:
//
//	portfolio := testutil.CreatePortfolio(t, db, "alice")
func CreatePortfolio(t *testing.T, db *sql.DB, ownerID string) model.Portfolio {
	t.Helper()
	return NewPortfolio().WithOwner(ownerID).Build(t, db)
}

// HoldingBuilder provides a fluent interface for creating test holdings.
//
// Example usage:
//
//	holding := testutil.NewHolding(portfolio.ID, "RELIANCE").
//	    WithQuantity(10).
//	    WithAveragePrice("285.73").
//	    Build(t, db)
type HoldingBuilder struct {
	ID           string
	PortfolioID  string
	Symbol       string
	Quantity     int64
	AveragePrice decimal.Decimal
}

// NewHolding creates a HoldingBuilder for 10 shares at 100.
func NewHolding(portfolioID, symbol string) *HoldingBuilder {
	return &HoldingBuilder{
		ID:           MakeID(),
		PortfolioID:  portfolioID,
		Symbol:       symbol,
		Quantity:     10,
		AveragePrice: decimal.NewFromInt(100),
	}
}

// WithQuantity sets the number of shares.
func (b *HoldingBuilder) WithQuantity(quantity int64) *HoldingBuilder {
	b.Quantity = quantity
	return b
}

// WithAveragePrice sets the average price from a decimal literal.
func (b *HoldingBuilder) WithAveragePrice(price string) *HoldingBuilder {
	b.AveragePrice = Dec(price)
	return b
}

// Build creates the holding in the database and returns it.
// Current value is quantity × average price.
func (b *HoldingBuilder) Build(t *testing.T, db *sql.DB) model.Holding {
	t.Helper()

	value := b.AveragePrice.Mul(decimal.NewFromInt(b.Quantity))

	query := `
		INSERT INTO portfolio_holding (id, portfolio_id, symbol, quantity, average_price, current_value)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.PortfolioID, b.Symbol, b.Quantity, b.AveragePrice.String(), value.String())
	if err != nil {
		t.Fatalf("Failed to create test holding: %v", err)
	}

	return model.Holding{
		ID:           b.ID,
		PortfolioID:  b.PortfolioID,
		Symbol:       b.Symbol,
		Quantity:     b.Quantity,
		AveragePrice: b.AveragePrice,
		CurrentValue: value,
	}
}

// TradeBuilder provides a fluent interface for creating ledger entries directly.
// It does not touch the portfolio or holdings.
//
// Example usage:
//
//	trade := testutil.NewTrade("alice", "RELIANCE").
//	    WithSide(model.SideSell).
//	    WithExecutionTs(testutil.Day("2024-01-03")).
//	    Build(t, db)
type TradeBuilder struct {
	ID          string
	OwnerID     string
	Symbol      string
	Quantity    int64
	Price       decimal.Decimal
	Side        model.TradeSide
	ExecutionTs time.Time
}

// NewTrade creates a TradeBuilder for a 10 share BUY at 285.73 on 2024-01-02.
func NewTrade(ownerID, symbol string) *TradeBuilder {
	return &TradeBuilder{
		ID:          MakeID(),
		OwnerID:     ownerID,
		Symbol:      symbol,
		Quantity:    10,
		Price:       Dec("285.73"),
		Side:        model.SideBuy,
		ExecutionTs: Day("2024-01-02"),
	}
}

// WithSide sets the trade side.
func (b *TradeBuilder) WithSide(side model.TradeSide) *TradeBuilder {
	b.Side = side
	return b
}

// WithQuantity sets the number of shares.
func (b *TradeBuilder) WithQuantity(quantity int64) *TradeBuilder {
	b.Quantity = quantity
	return b
}

// WithPrice sets the price from a decimal literal.
func (b *TradeBuilder) WithPrice(price string) *TradeBuilder {
	b.Price = Dec(price)
	return b
}

// WithExecutionTs sets the execution timestamp.
func (b *TradeBuilder) WithExecutionTs(ts time.Time) *TradeBuilder {
	b.ExecutionTs = ts
	return b
}

// Build creates the trade in the database and returns it.
func (b *TradeBuilder) Build(t *testing.T, db *sql.DB) model.Trade {
	t.Helper()

	createdAt := time.Now().UTC()

	query := `
		INSERT INTO trade (id, owner_id, symbol, quantity, price, side, execution_ts, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.ID, b.OwnerID, b.Symbol, b.Quantity, b.Price.String(), string(b.Side),
		repository.FormatTime(b.ExecutionTs), repository.FormatTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test trade: %v", err)
	}

	return model.Trade{
		ID:          b.ID,
		OwnerID:     b.OwnerID,
		Symbol:      b.Symbol,
		Quantity:    b.Quantity,
		Price:       b.Price,
		Side:        b.Side,
		ExecutionTs: b.ExecutionTs.UTC(),
		CreatedAt:   createdAt,
	}
}

// UserBuilder provides a fluent interface for creating test users.
type UserBuilder struct {
	ID       string
	Username string
	Email    string
}

// NewUser creates a UserBuilder with a unique username and matching email.
func NewUser() *UserBuilder {
	username := MakeUsername("trader")
	return &UserBuilder{
		ID:       MakeID(),
		Username: username,
		Email:    username + "@example.com",
	}
}

// WithUsername sets the username.
func (b *UserBuilder) WithUsername(username string) *UserBuilder {
	b.Username = username
	return b
}

// WithEmail sets the email.
func (b *UserBuilder) WithEmail(email string) *UserBuilder {
	b.Email = email
	return b
}

// Build creates the user in the database and returns it.
func (b *UserBuilder) Build(t *testing.T, db *sql.DB) model.User {
	t.Helper()

	createdAt := time.Now().UTC()
	_, err := db.Exec(`INSERT INTO users (id, username, email, created_at) VALUES (?, ?, ?, ?)`,
		b.ID, b.Username, b.Email, repository.FormatTime(createdAt))
	if err != nil {
		t.Fatalf("Failed to create test user: %v", err)
	}

	return model.User{ID: b.ID, Username: b.Username, Email: b.Email, CreatedAt: createdAt}
}

// CreateGroup creates a trading group with the given name.
func CreateGroup(t *testing.T, db *sql.DB, name string) model.Group {
	t.Helper()

	g := model.Group{ID: MakeID(), Name: name}
	if _, err := db.Exec(`INSERT INTO trading_group (id, name) VALUES (?, ?)`, g.ID, g.Name); err != nil {
		t.Fatalf("Failed to create test group: %v", err)
	}
	return g
}

// TaskBuilder provides a fluent interface for creating test tasks.
//
// Example usage:
//
//	task := testutil.NewTask(group.ID).
//	    WithDates("2024-01-01", "2024-01-31").
//	    WithWeekdays(0, 2, 4).
//	    Build(t, db)
type TaskBuilder struct {
	ID              string
	GroupID         string
	Name            string
	StartDate       time.Time
	EndDate         time.Time
	EstimatedEffort float64
	Weekdays        []int
}

// NewTask creates a TaskBuilder spanning January 2024 on weekdays Monday to Friday.
func NewTask(groupID string) *TaskBuilder {
	return &TaskBuilder{
		ID:              MakeID(),
		GroupID:         groupID,
		Name:            MakeName("Task"),
		StartDate:       Day("2024-01-01"),
		EndDate:         Day("2024-01-31"),
		EstimatedEffort: 10,
		Weekdays:        []int{0, 1, 2, 3, 4},
	}
}

// WithDates sets the inclusive date range from YYYY-MM-DD strings.
func (b *TaskBuilder) WithDates(start, end string) *TaskBuilder {
	b.StartDate = Day(start)
	b.EndDate = Day(end)
	return b
}

// WithEffort sets the estimated effort.
func (b *TaskBuilder) WithEffort(effort float64) *TaskBuilder {
	b.EstimatedEffort = effort
	return b
}

// WithWeekdays sets the weekdays the effort is spread over.
func (b *TaskBuilder) WithWeekdays(days ...int) *TaskBuilder {
	b.Weekdays = days
	return b
}

// Build creates the task in the database and returns it.
func (b *TaskBuilder) Build(t *testing.T, db *sql.DB) model.Task {
	t.Helper()

	weekdays, err := json.Marshal(b.Weekdays)
	if err != nil {
		t.Fatalf("Failed to encode weekdays: %v", err)
	}

	query := `
		INSERT INTO task (id, group_id, name, start_date, end_date, estimated_effort, weekdays)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`
	_, err = db.Exec(query, b.ID, b.GroupID, b.Name,
		b.StartDate.Format(time.DateOnly), b.EndDate.Format(time.DateOnly),
		b.EstimatedEffort, string(weekdays))
	if err != nil {
		t.Fatalf("Failed to create test task: %v", err)
	}

	return model.Task{
		ID:              b.ID,
		GroupID:         b.GroupID,
		Name:            b.Name,
		StartDate:       b.StartDate,
		EndDate:         b.EndDate,
		EstimatedEffort: b.EstimatedEffort,
		Weekdays:        b.Weekdays,
	}
}

// CreateStrategy creates a strategy with the given name and parameters.
func CreateStrategy(t *testing.T, db *sql.DB, name string, params map[string]any) model.Strategy {
	t.Helper()

	if params == nil {
		params = map[string]any{}
	}
	encoded, err := json.Marshal(params)
	if err != nil {
		t.Fatalf("Failed to encode parameters: %v", err)
	}

	s := model.Strategy{
		ID:          MakeID(),
		Name:        name,
		Description: "Test strategy",
		Parameters:  params,
		CreatedAt:   time.Now().UTC(),
	}
	_, err = db.Exec(`INSERT INTO strategy (id, name, description, parameters, created_at) VALUES (?, ?, ?, ?, ?)`,
		s.ID, s.Name, s.Description, string(encoded), repository.FormatTime(s.CreatedAt))
	if err != nil {
		t.Fatalf("Failed to create test strategy: %v", err)
	}
	return s
}
