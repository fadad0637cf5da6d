package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// Portfolio is a user's simulated trading account.
// There is at most one portfolio per owner. CurrentTs is the portfolio cursor:
// it only moves forward, through trade execution or an explicit advance.
type Portfolio struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	CurrentTs   time.Time       `json:"currentTs"`
	NetWorth    decimal.Decimal `json:"netWorth"`
	CreatedAt   time.Time       `json:"createdAt"`

	// Version is the optimistic concurrency token of the stored row.
	Version int64 `json:"-"`
}

// Holding is a position in a single symbol within a portfolio.
// A holding only exists while Quantity > 0.
type Holding struct {
	ID           string          `json:"id"`
	PortfolioID  string          `json:"portfolioId"`
	Symbol       string          `json:"symbol"`
	Quantity     int64           `json:"quantity"`
	AveragePrice decimal.Decimal `json:"averagePrice"`
	CurrentValue decimal.Decimal `json:"currentValue"`
}

// NetWorth is the valuation of a portfolio at its current timestamp.
type NetWorth struct {
	PortfolioID string          `json:"portfolioId"`
	AsOf        time.Time       `json:"asOf"`
	NetWorth    decimal.Decimal `json:"netWorth"`
	CashBalance decimal.Decimal `json:"cashBalance"`
	Holdings    []Holding       `json:"holdings"`
}
