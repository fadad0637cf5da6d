package model

import (
	"time"

	"github.com/shopspring/decimal"
)

var two = decimal.NewFromInt(2)

// DailyBar is one trading day of a symbol's historical series.
type DailyBar struct {
	Symbol string          `json:"symbol"`
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// ReferencePrice is the single authoritative trade price for the day: (open + close) / 2.
func (b DailyBar) ReferencePrice() decimal.Decimal {
	return b.Open.Add(b.Close).Div(two)
}

// Tick is a daily bar as returned to market data callers, with its reference price.
type Tick struct {
	Symbol    string          `json:"symbol"`
	Timestamp time.Time       `json:"timestamp"`
	Price     decimal.Decimal `json:"price"`
	Open      decimal.Decimal `json:"open"`
	High      decimal.Decimal `json:"high"`
	Low       decimal.Decimal `json:"low"`
	Close     decimal.Decimal `json:"close"`
	Volume    int64           `json:"volume"`
}

// NewTick builds a Tick from a bar, stamped with the given timestamp.
func NewTick(bar DailyBar, ts time.Time) Tick {
	return Tick{
		Symbol:    bar.Symbol,
		Timestamp: ts,
		Price:     bar.ReferencePrice(),
		Open:      bar.Open,
		High:      bar.High,
		Low:       bar.Low,
		Close:     bar.Close,
		Volume:    bar.Volume,
	}
}

// StockInfo lists a tradable symbol and the reference price of its latest bar.
// CurrentPrice is null when no series is available for the symbol.
type StockInfo struct {
	Symbol       string              `json:"symbol"`
	CurrentPrice decimal.NullDecimal `json:"currentPrice"`
}
