package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/market"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/trading"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/validation"
	"github.com/rs/zerolog"
)

// TradeService executes trades and serves the trade ledger.
//
// Execution checks the symbol and reference price against market data first,
// then loads the owner's portfolio and holdings inside one transaction, applies
// the holding update rule and writes portfolio, holding and trade together.
// A concurrent writer on the same portfolio surfaces as ErrConcurrencyConflict
// and the whole transaction is retried up to maxAttempts times.
type TradeService struct {
	db            *sql.DB
	market        *market.Store
	portfolioRepo *repository.PortfolioRepository
	holdingRepo   *repository.HoldingRepository
	tradeRepo     *repository.TradeRepository
	maxAttempts   uint64
	log           zerolog.Logger
}

// NewTradeService creates a new TradeService with the provided dependencies.
func NewTradeService(
	db *sql.DB,
	store *market.Store,
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	tradeRepo *repository.TradeRepository,
	maxAttempts uint64,
	logger zerolog.Logger,
) *TradeService {
	return &TradeService{
		db:            db,
		market:        store,
		portfolioRepo: portfolioRepo,
		holdingRepo:   holdingRepo,
		tradeRepo:     tradeRepo,
		maxAttempts:   maxAttempts,
		log:           logger.With().Str("component", "trade").Logger(),
	}
}

// ExecuteTrade validates and commits a trade for ownerID.
//
// Checks run in order and stop at the first failure:
//  1. symbol is in the allow-list (ErrUnknownSymbol)
//  2. a bar exists on the execution date (ErrNoMarketData)
//  3. price equals (open + close) / 2 of that bar (ErrPriceMismatch)
//  4. the owner has a portfolio (ErrPortfolioNotFound)
//  5. execution time is not before the portfolio cursor (ErrTradeInPast)
//  6. cash covers a buy (ErrInsufficientFunds) or holdings cover a sell (ErrInsufficientShares)
//
// On any failure nothing is written.
func (s *TradeService) ExecuteTrade(ctx context.Context, ownerID string, req request.CreateTradeRequest) (model.Trade, error) {
	executionTs, err := validation.ParseTime(req.ExecutionTs)
	if err != nil {
		return model.Trade{}, err
	}

	order := trading.Order{
		OwnerID:     ownerID,
		Symbol:      strings.ToUpper(strings.TrimSpace(req.Symbol)),
		Side:        model.TradeSide(strings.ToUpper(strings.TrimSpace(req.Side))),
		Quantity:    req.Quantity,
		Price:       req.Price,
		ExecutionTs: executionTs,
	}
	logger := s.log.With().
		Str("owner_id", ownerID).
		Str("symbol", order.Symbol).
		Str("side", string(order.Side)).
		Int64("quantity", order.Quantity).
		Str("price", order.Price.String()).
		Logger()

	if err := s.price(order); err != nil {
		logRejection(logger, err)
		return model.Trade{}, err
	}

	var trade model.Trade
	err = retryOnConflict(ctx, s.maxAttempts, func(ctx context.Context) error {
		var err error
		trade, err = s.commit(ctx, order)
		if errors.Is(err, apperrors.ErrConcurrencyConflict) {
			logger.Debug().Err(err).Msg("trade conflicted, retrying")
		}
		return err
	})
	if err != nil {
		logRejection(logger, err)
		return model.Trade{}, err
	}

	logger.Info().
		Str("trade_id", trade.ID).
		Str("stage", string(trading.StageCommitted)).
		Msg("trade executed")
	return trade, nil
}

// price runs the market checks, which need no portfolio state.
func (s *TradeService) price(o trading.Order) error {
	if err := trading.CheckSymbol(s.market.IsKnown, o.Symbol); err != nil {
		return err
	}

	bar, err := s.market.PriceAt(o.Symbol, o.ExecutionTs)
	if err != nil {
		if errors.Is(err, apperrors.ErrNoMarketData) {
			return trading.Reject(trading.StagePriced, err)
		}
		return fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveMarketData, err)
	}

	return trading.CheckPrice(bar, o.Price)
}

// commit performs one transactional attempt at applying o.
func (s *TradeService) commit(ctx context.Context, o trading.Order) (model.Trade, error) {
	var trade model.Trade

	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolioRepo := s.portfolioRepo.WithTx(tx)
		holdingRepo := s.holdingRepo.WithTx(tx)

		portfolio, err := portfolioRepo.GetPortfolioByOwner(ctx, o.OwnerID)
		if err != nil {
			return err
		}
		holdings, err := holdingRepo.GetHoldings(ctx, portfolio.ID)
		if err != nil {
			return err
		}

		result, err := trading.Apply(portfolio, holdings, o)
		if err != nil {
			return err
		}

		switch result.Change {
		case trading.HoldingCreated:
			err = holdingRepo.InsertHolding(ctx, &result.Holding)
		case trading.HoldingUpdated:
			err = holdingRepo.UpdateHolding(ctx, result.Holding)
		case trading.HoldingRemoved:
			err = holdingRepo.DeleteHolding(ctx, result.Holding.ID)
		}
		if err != nil {
			return err
		}

		if err := portfolioRepo.UpdatePortfolioState(ctx, &result.Portfolio); err != nil {
			return err
		}

		trade = result.Trade
		return s.tradeRepo.WithTx(tx).InsertTrade(ctx, &trade)
	})
	if err != nil {
		return model.Trade{}, err
	}
	return trade, nil
}

func logRejection(logger zerolog.Logger, err error) {
	var rej *trading.Rejection
	switch {
	case errors.As(err, &rej):
		logger.Debug().Str("stage", string(rej.Stage)).Err(rej.Err).Msg("trade rejected")
	case errors.Is(err, apperrors.ErrPortfolioNotFound):
		logger.Debug().Err(err).Msg("trade rejected")
	default:
		logger.Error().Err(err).Msg("trade failed")
	}
}

// GetTrade retrieves a trade by ID. Only the trade's owner may read it.
func (s *TradeService) GetTrade(ctx context.Context, ownerID, id string) (model.Trade, error) {
	trade, err := s.tradeRepo.GetTrade(ctx, id)
	if err != nil {
		return model.Trade{}, err
	}
	if trade.OwnerID != ownerID {
		return model.Trade{}, apperrors.ErrForbidden
	}
	return trade, nil
}

// GetTrades retrieves ownerID's trades matching filter, oldest first.
func (s *TradeService) GetTrades(ctx context.Context, ownerID string, filter model.TradeFilter) ([]model.Trade, error) {
	return s.tradeRepo.GetTrades(ctx, ownerID, filter)
}

// DeleteTrade removes a ledger entry for administrative correction.
// Holdings and cash are left as they are.
func (s *TradeService) DeleteTrade(ctx context.Context, id string) error {
	if err := s.tradeRepo.DeleteTrade(ctx, id); err != nil {
		return err
	}
	s.log.Warn().Str("trade_id", id).Msg("trade deleted")
	return nil
}
