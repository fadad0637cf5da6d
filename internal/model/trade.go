package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeSide is the direction of a trade.
type TradeSide string

const (
	SideBuy  TradeSide = "BUY"
	SideSell TradeSide = "SELL"
)

// Valid reports whether the side is BUY or SELL.
func (s TradeSide) Valid() bool {
	return s == SideBuy || s == SideSell
}

// Trade is an immutable ledger entry written once per successful execution.
type Trade struct {
	ID          string          `json:"id"`
	OwnerID     string          `json:"ownerId"`
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Side        TradeSide       `json:"side"`
	ExecutionTs time.Time       `json:"executionTs"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// Value returns quantity × price.
func (t Trade) Value() decimal.Decimal {
	return t.Price.Mul(decimal.NewFromInt(t.Quantity))
}

// TradeFilter narrows ledger queries. Zero values mean "no filter".
type TradeFilter struct {
	Symbol string
	Side   TradeSide
	From   time.Time
	To     time.Time
}
