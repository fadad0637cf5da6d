package service

import (
	"context"
	"errors"
	"math"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/market"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/shopspring/decimal"
)

// DaysPerYear converts day counts to years for CAGR.
const DaysPerYear = 365.25

// RiskFreeRate is the per-period rate subtracted from mean return in the Sharpe ratio.
const RiskFreeRate = 0.02

// AnalysisService computes return and risk estimates from market data.
// Price lookups use the configured mode; nearest-date matching lets ranges
// start or end on non-trading days.
type AnalysisService struct {
	market        *market.Store
	portfolioRepo *repository.PortfolioRepository
	holdingRepo   *repository.HoldingRepository
	mode          market.LookupMode
}

// NewAnalysisService creates a new AnalysisService.
func NewAnalysisService(
	store *market.Store,
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	mode market.LookupMode,
) *AnalysisService {
	return &AnalysisService{
		market:        store,
		portfolioRepo: portfolioRepo,
		holdingRepo:   holdingRepo,
		mode:          mode,
	}
}

// StockReturns compares the reference prices of symbol at start and end.
// ReturnsPercentage is the annualised growth rate in percent.
func (s *AnalysisService) StockReturns(symbol string, start, end time.Time) (model.StockReturns, error) {
	symbol = normalize(symbol)

	startBar, err := s.market.Lookup(s.mode, symbol, start)
	if err != nil {
		return model.StockReturns{}, err
	}
	endBar, err := s.market.Lookup(s.mode, symbol, end)
	if err != nil {
		return model.StockReturns{}, err
	}

	startPrice, endPrice := startBar.ReferencePrice(), endBar.ReferencePrice()
	return model.StockReturns{
		Symbol:            symbol,
		StartTs:           start,
		EndTs:             end,
		StartPrice:        startPrice,
		EndPrice:          endPrice,
		Returns:           endPrice.Sub(startPrice),
		ReturnsPercentage: round(CAGR(startPrice, endPrice, start, end) * 100),
	}, nil
}

// PortfolioReturns estimates the return of a portfolio's holdings if they were
// valued at end. Holdings without market data are left out.
func (s *AnalysisService) PortfolioReturns(ctx context.Context, ownerID, portfolioID string, start, end time.Time) (model.PortfolioAnalysis, error) {
	p, err := s.portfolioRepo.GetPortfolio(ctx, portfolioID)
	if err != nil {
		return model.PortfolioAnalysis{}, err
	}
	if p.OwnerID != ownerID {
		return model.PortfolioAnalysis{}, apperrors.ErrForbidden
	}

	holdings, err := s.holdingRepo.GetHoldings(ctx, p.ID)
	if err != nil {
		return model.PortfolioAnalysis{}, err
	}

	investment, value := decimal.Zero, decimal.Zero
	valued := make([]model.Holding, 0, len(holdings))
	for _, h := range holdings {
		if _, err := s.market.Lookup(s.mode, h.Symbol, start); err != nil {
			if skippable(err) {
				continue
			}
			return model.PortfolioAnalysis{}, err
		}
		endBar, err := s.market.Lookup(s.mode, h.Symbol, end)
		if err != nil {
			if skippable(err) {
				continue
			}
			return model.PortfolioAnalysis{}, err
		}

		qty := decimal.NewFromInt(h.Quantity)
		h.CurrentValue = qty.Mul(endBar.ReferencePrice())
		investment = investment.Add(qty.Mul(h.AveragePrice))
		value = value.Add(h.CurrentValue)
		valued = append(valued, h)
	}

	returns := value.Sub(investment)
	var pct float64
	if investment.IsPositive() {
		pct = round(returns.Div(investment).InexactFloat64() * 100)
	}

	return model.PortfolioAnalysis{
		PortfolioID:       p.ID,
		TotalInvestment:   investment,
		CurrentValue:      value,
		Returns:           returns,
		ReturnsPercentage: pct,
		Holdings:          valued,
	}, nil
}

func skippable(err error) bool {
	return errors.Is(err, apperrors.ErrNoMarketData) || errors.Is(err, apperrors.ErrUnknownSymbol)
}

// StockRisk summarises daily reference-price returns of symbol between start and end.
// Fewer than two bars give zero metrics.
func (s *AnalysisService) StockRisk(symbol string, start, end time.Time) (model.RiskMetrics, error) {
	symbol = normalize(symbol)

	bars, err := s.market.Range(symbol, start, end)
	if err != nil {
		return model.RiskMetrics{}, err
	}

	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.ReferencePrice().InexactFloat64()
	}

	metrics := riskMetrics(prices)
	metrics.Symbol = symbol
	metrics.Days = len(bars)
	return metrics, nil
}

// CAGR returns the compound annual growth rate between two prices.
// Years are whole days between start and end divided by DaysPerYear.
// Returns 0 when the span is not positive or startPrice is not positive.
func CAGR(startPrice, endPrice decimal.Decimal, start, end time.Time) float64 {
	days := math.Floor(end.Sub(start).Hours() / 24)
	years := days / DaysPerYear
	if years <= 0 || !startPrice.IsPositive() {
		return 0
	}
	ratio := endPrice.Div(startPrice).InexactFloat64()
	return math.Pow(ratio, 1/years) - 1
}

func riskMetrics(prices []float64) model.RiskMetrics {
	if len(prices) < 2 {
		return model.RiskMetrics{}
	}

	returns := make([]float64, len(prices)-1)
	var sum float64
	for i := 1; i < len(prices); i++ {
		returns[i-1] = (prices[i] - prices[i-1]) / prices[i-1] * 100
		sum += returns[i-1]
	}
	mean := sum / float64(len(returns))

	var sq float64
	for _, r := range returns {
		sq += (r - mean) * (r - mean)
	}
	volatility := math.Sqrt(sq / float64(len(returns)))

	var sharpe float64
	if volatility > 0 {
		sharpe = (mean - RiskFreeRate) / volatility
	}

	peak, drawdown := prices[0], 0.0
	for _, p := range prices[1:] {
		if p > peak {
			peak = p
			continue
		}
		if dd := (peak - p) / peak * 100; dd > drawdown {
			drawdown = dd
		}
	}

	return model.RiskMetrics{
		Volatility:  round(volatility),
		SharpeRatio: round(sharpe),
		MaxDrawdown: round(drawdown),
	}
}
