// Package trading holds the pure trade validation checks and the holding update rule.
// Nothing here touches storage; callers load state, call Apply and persist the Result.
package trading

import (
	"fmt"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/shopspring/decimal"
)

// Order is a validated-shape trade request awaiting execution.
type Order struct {
	OwnerID     string
	Symbol      string
	Side        model.TradeSide
	Quantity    int64
	Price       decimal.Decimal
	ExecutionTs time.Time
}

// Value returns quantity × price.
func (o Order) Value() decimal.Decimal {
	return o.Price.Mul(decimal.NewFromInt(o.Quantity))
}

// Stage names a validator step. A Rejection carries the step whose check failed.
type Stage string

const (
	StageReceived       Stage = "RECEIVED"
	StageSymbolChecked  Stage = "SYMBOL_CHECKED"
	StagePriced         Stage = "PRICED"
	StageTimeChecked    Stage = "TIME_CHECKED"
	StageBalanceChecked Stage = "FUNDS_OR_INVENTORY_CHECKED"
	StageCommitted      Stage = "COMMITTED"
)

// Rejection is a failed validator step. It unwraps to the apperrors sentinel.
type Rejection struct {
	Stage Stage
	Err   error
}

func (r *Rejection) Error() string {
	return fmt.Sprintf("trade rejected at %s: %v", r.Stage, r.Err)
}

func (r *Rejection) Unwrap() error { return r.Err }

// Reject wraps err as a Rejection at stage.
func Reject(stage Stage, err error) error {
	return &Rejection{Stage: stage, Err: err}
}

// HoldingChange describes what Apply did to the traded holding.
type HoldingChange int

const (
	HoldingCreated HoldingChange = iota + 1
	HoldingUpdated
	HoldingRemoved
)

// Result is the post-trade state of a portfolio.
type Result struct {
	Portfolio model.Portfolio
	// Holding is the traded position after the trade. When Change is HoldingRemoved
	// it carries the last stored values with Quantity set to zero.
	Holding  model.Holding
	Change   HoldingChange
	Holdings []model.Holding
	Trade    model.Trade
}

// CheckSymbol fails with ErrUnknownSymbol when known does not accept symbol.
func CheckSymbol(known func(string) bool, symbol string) error {
	if !known(symbol) {
		return Reject(StageSymbolChecked, fmt.Errorf("%w: %s", apperrors.ErrUnknownSymbol, symbol))
	}
	return nil
}

// CheckPrice fails with ErrPriceMismatch unless price equals the bar's reference price exactly.
func CheckPrice(bar model.DailyBar, price decimal.Decimal) error {
	ref := bar.ReferencePrice()
	if !price.Equal(ref) {
		return Reject(StagePriced, fmt.Errorf("%w: got %s, reference %s", apperrors.ErrPriceMismatch, price, ref))
	}
	return nil
}

// CheckTime fails with ErrTradeInPast when executionTs is before the portfolio cursor.
func CheckTime(current, executionTs time.Time) error {
	if executionTs.Before(current) {
		return Reject(StageTimeChecked, apperrors.ErrTradeInPast)
	}
	return nil
}

// CheckFunds fails with ErrInsufficientFunds when the order costs more than cash.
func CheckFunds(cash decimal.Decimal, o Order) error {
	if o.Value().GreaterThan(cash) {
		return Reject(StageBalanceChecked, fmt.Errorf("%w: need %s, have %s", apperrors.ErrInsufficientFunds, o.Value(), cash))
	}
	return nil
}

// CheckInventory fails with ErrInsufficientShares when h holds fewer shares than the order sells.
// A nil holding holds nothing.
func CheckInventory(h *model.Holding, o Order) error {
	var held int64
	if h != nil {
		held = h.Quantity
	}
	if held < o.Quantity {
		return Reject(StageBalanceChecked, fmt.Errorf("%w: need %d, have %d", apperrors.ErrInsufficientShares, o.Quantity, held))
	}
	return nil
}

// Find returns the holding for symbol, or nil.
func Find(holdings []model.Holding, symbol string) *model.Holding {
	for i := range holdings {
		if holdings[i].Symbol == symbol {
			return &holdings[i]
		}
	}
	return nil
}

// UpdateHolding applies the weighted-average cost basis rule to a single position.
// h may be nil for a first buy. The returned holding has Quantity 0 when a sell exhausts it.
func UpdateHolding(h *model.Holding, o Order) (model.Holding, HoldingChange) {
	qty := decimal.NewFromInt(o.Quantity)

	if h == nil {
		return model.Holding{
			Symbol:       o.Symbol,
			Quantity:     o.Quantity,
			AveragePrice: o.Price,
			CurrentValue: o.Value(),
		}, HoldingCreated
	}

	next := *h
	switch o.Side {
	case model.SideBuy:
		next.Quantity = h.Quantity + o.Quantity
		cost := decimal.NewFromInt(h.Quantity).Mul(h.AveragePrice).Add(qty.Mul(o.Price))
		next.AveragePrice = cost.Div(decimal.NewFromInt(next.Quantity))
	case model.SideSell:
		next.Quantity = h.Quantity - o.Quantity
	}

	if next.Quantity == 0 {
		return next, HoldingRemoved
	}
	next.CurrentValue = decimal.NewFromInt(next.Quantity).Mul(o.Price)
	return next, HoldingUpdated
}

// NetWorth returns cash plus the current value of every holding.
func NetWorth(cash decimal.Decimal, holdings []model.Holding) decimal.Decimal {
	total := cash
	for _, h := range holdings {
		total = total.Add(h.CurrentValue)
	}
	return total
}

// Apply validates o against the portfolio state and computes the state after it.
// The order's price must already have been checked against market data.
// p and holdings are not modified.
func Apply(p model.Portfolio, holdings []model.Holding, o Order) (Result, error) {
	if err := CheckTime(p.CurrentTs, o.ExecutionTs); err != nil {
		return Result{}, err
	}

	existing := Find(holdings, o.Symbol)
	switch o.Side {
	case model.SideBuy:
		if err := CheckFunds(p.CashBalance, o); err != nil {
			return Result{}, err
		}
	case model.SideSell:
		if err := CheckInventory(existing, o); err != nil {
			return Result{}, err
		}
	default:
		return Result{}, fmt.Errorf("invalid trade side %q", o.Side)
	}

	holding, change := UpdateHolding(existing, o)

	next := make([]model.Holding, 0, len(holdings)+1)
	for _, h := range holdings {
		if h.Symbol != o.Symbol {
			next = append(next, h)
		}
	}
	if change != HoldingRemoved {
		holding.PortfolioID = p.ID
		next = append(next, holding)
	}

	after := p
	if o.Side == model.SideBuy {
		after.CashBalance = p.CashBalance.Sub(o.Value())
	} else {
		after.CashBalance = p.CashBalance.Add(o.Value())
	}
	after.CurrentTs = o.ExecutionTs
	after.NetWorth = NetWorth(after.CashBalance, next)

	return Result{
		Portfolio: after,
		Holding:   holding,
		Change:    change,
		Holdings:  next,
		Trade: model.Trade{
			OwnerID:     o.OwnerID,
			Symbol:      o.Symbol,
			Quantity:    o.Quantity,
			Price:       o.Price,
			Side:        o.Side,
			ExecutionTs: o.ExecutionTs,
		},
	}, nil
}
