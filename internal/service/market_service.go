package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/market"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/shopspring/decimal"
)

// MarketService exposes read-only market data over the price store.
type MarketService struct {
	market *market.Store
}

// NewMarketService creates a new MarketService.
func NewMarketService(store *market.Store) *MarketService {
	return &MarketService{market: store}
}

// GetStocks lists every tradable symbol with the reference price of its latest bar.
// Symbols without a series have a null price.
func (s *MarketService) GetStocks() ([]model.StockInfo, error) {
	symbols := s.market.Symbols()
	stocks := make([]model.StockInfo, 0, len(symbols))

	for _, sym := range symbols {
		bar, ok, err := s.market.Latest(sym)
		if err != nil {
			return nil, err
		}
		info := model.StockInfo{Symbol: sym}
		if ok {
			info.CurrentPrice = decimal.NewNullDecimal(bar.ReferencePrice())
		}
		stocks = append(stocks, info)
	}

	return stocks, nil
}

// GetTick returns the bar of symbol on ts's date with its reference price.
func (s *MarketService) GetTick(symbol string, ts time.Time) (model.Tick, error) {
	bar, err := s.market.PriceAt(normalize(symbol), ts)
	if err != nil {
		return model.Tick{}, err
	}
	return model.NewTick(bar, ts), nil
}

// GetRange returns one tick per bar between from and to, inclusive.
func (s *MarketService) GetRange(symbol string, from, to time.Time) ([]model.Tick, error) {
	if from.After(to) {
		return nil, fmt.Errorf("%w: from %s is after to %s", apperrors.ErrInvalidDateRange, from.Format(time.DateOnly), to.Format(time.DateOnly))
	}
	bars, err := s.market.Range(normalize(symbol), from, to)
	if err != nil {
		return nil, err
	}

	ticks := make([]model.Tick, len(bars))
	for i, bar := range bars {
		ticks[i] = model.NewTick(bar, bar.Date)
	}
	return ticks, nil
}

func normalize(symbol string) string {
	return strings.ToUpper(strings.TrimSpace(symbol))
}
