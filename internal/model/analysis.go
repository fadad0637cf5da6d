package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockReturns describes the performance of a symbol between two timestamps.
// ReturnsPercentage is the compound annual growth rate expressed in percent.
type StockReturns struct {
	Symbol            string          `json:"symbol"`
	StartTs           time.Time       `json:"startTs"`
	EndTs             time.Time       `json:"endTs"`
	StartPrice        decimal.Decimal `json:"startPrice"`
	EndPrice          decimal.Decimal `json:"endPrice"`
	Returns           decimal.Decimal `json:"returns"`
	ReturnsPercentage float64         `json:"returnsPercentage"`
}

// PortfolioAnalysis is the estimated return of a portfolio's holdings between two timestamps.
type PortfolioAnalysis struct {
	PortfolioID       string          `json:"portfolioId"`
	TotalInvestment   decimal.Decimal `json:"totalInvestment"`
	CurrentValue      decimal.Decimal `json:"currentValue"`
	Returns           decimal.Decimal `json:"returns"`
	ReturnsPercentage float64         `json:"returnsPercentage"`
	Holdings          []Holding       `json:"holdings"`
}

// RiskMetrics summarises the daily return distribution of a symbol over a range.
// Volatility and MaxDrawdown are in percent.
type RiskMetrics struct {
	Symbol      string  `json:"symbol"`
	Days        int     `json:"days"`
	Volatility  float64 `json:"volatility"`
	SharpeRatio float64 `json:"sharpeRatio"`
	MaxDrawdown float64 `json:"maxDrawdown"`
}
