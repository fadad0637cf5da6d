package request

import "github.com/shopspring/decimal"

// CreatePortfolioRequest represents the request body for opening the caller's portfolio.
// CurrentTs is optional and defaults to now.
type CreatePortfolioRequest struct {
	InitialCapital decimal.Decimal `json:"initialCapital"`
	CurrentTs      *string         `json:"currentTs,omitempty"`
}

// UpdateTimestampRequest represents the request body for advancing a portfolio cursor.
type UpdateTimestampRequest struct {
	CurrentTs string `json:"currentTs"`
}
