package request

import "github.com/shopspring/decimal"

// CreateTradeRequest represents the request body for executing a trade.
// Price must equal the reference price of the symbol on the execution date.
type CreateTradeRequest struct {
	Symbol      string          `json:"symbol"`
	Quantity    int64           `json:"quantity"`
	Price       decimal.Decimal `json:"price"`
	Side        string          `json:"side"`
	ExecutionTs string          `json:"executionTs"`
}
