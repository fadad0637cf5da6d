package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/market"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/repository"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/trading"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/validation"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// PortfolioService handles portfolio lifecycle, cursor and valuation operations.
// Every operation that rewrites the portfolio row runs in a transaction and
// retries on concurrency conflicts like trade execution does.
type PortfolioService struct {
	db            *sql.DB
	portfolioRepo *repository.PortfolioRepository
	holdingRepo   *repository.HoldingRepository
	market        *market.Store
	maxAttempts   uint64
	log           zerolog.Logger
}

// NewPortfolioService creates a new PortfolioService with the provided dependencies.
func NewPortfolioService(
	db *sql.DB,
	portfolioRepo *repository.PortfolioRepository,
	holdingRepo *repository.HoldingRepository,
	store *market.Store,
	maxAttempts uint64,
	logger zerolog.Logger,
) *PortfolioService {
	return &PortfolioService{
		db:            db,
		portfolioRepo: portfolioRepo,
		holdingRepo:   holdingRepo,
		market:        store,
		maxAttempts:   maxAttempts,
		log:           logger.With().Str("component", "portfolio").Logger(),
	}
}

// CreatePortfolio opens the only portfolio of ownerID with cash and net worth
// equal to the initial capital. The cursor starts at req.CurrentTs, or now.
// Returns ErrPortfolioExists if the owner already has one.
func (s *PortfolioService) CreatePortfolio(ctx context.Context, ownerID string, req request.CreatePortfolioRequest) (model.Portfolio, error) {
	currentTs := time.Now().UTC()
	if req.CurrentTs != nil {
		ts, err := validation.ParseTime(strings.TrimSpace(*req.CurrentTs))
		if err != nil {
			return model.Portfolio{}, err
		}
		currentTs = ts
	}

	p := model.Portfolio{
		OwnerID:     ownerID,
		CashBalance: req.InitialCapital,
		NetWorth:    req.InitialCapital,
		CurrentTs:   currentTs,
	}
	if err := s.portfolioRepo.InsertPortfolio(ctx, &p); err != nil {
		return model.Portfolio{}, err
	}

	s.log.Info().Str("portfolio_id", p.ID).Str("owner_id", ownerID).Str("initial_capital", p.CashBalance.String()).Msg("portfolio created")
	return p, nil
}

// GetPortfolioByOwner retrieves the caller's portfolio.
func (s *PortfolioService) GetPortfolioByOwner(ctx context.Context, ownerID string) (model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
}

// GetPortfolio retrieves a portfolio by ID, failing with ErrForbidden when ownerID does not own it.
func (s *PortfolioService) GetPortfolio(ctx context.Context, ownerID, id string) (model.Portfolio, error) {
	p, err := s.portfolioRepo.GetPortfolio(ctx, id)
	if err != nil {
		return model.Portfolio{}, err
	}
	if p.OwnerID != ownerID {
		return model.Portfolio{}, apperrors.ErrForbidden
	}
	return p, nil
}

// GetAllPortfolios retrieves every portfolio regardless of owner.
func (s *PortfolioService) GetAllPortfolios(ctx context.Context) ([]model.Portfolio, error) {
	return s.portfolioRepo.GetPortfolios(ctx)
}

// GetHoldings lists the holdings of a portfolio owned by ownerID.
func (s *PortfolioService) GetHoldings(ctx context.Context, ownerID, id string) ([]model.Holding, error) {
	if _, err := s.GetPortfolio(ctx, ownerID, id); err != nil {
		return nil, err
	}
	return s.holdingRepo.GetHoldings(ctx, id)
}

// AdvanceTimestamp moves the portfolio cursor forward.
// Returns ErrTimestampRegression when the new timestamp is before the current one.
func (s *PortfolioService) AdvanceTimestamp(ctx context.Context, ownerID, id string, req request.UpdateTimestampRequest) (model.Portfolio, error) {
	newTs, err := validation.ParseTime(req.CurrentTs)
	if err != nil {
		return model.Portfolio{}, err
	}

	var updated model.Portfolio
	err = retryOnConflict(ctx, s.maxAttempts, func(ctx context.Context) error {
		return inTx(ctx, s.db, func(tx *sql.Tx) error {
			repo := s.portfolioRepo.WithTx(tx)
			p, err := repo.GetPortfolio(ctx, id)
			if err != nil {
				return err
			}
			if p.OwnerID != ownerID {
				return apperrors.ErrForbidden
			}
			if newTs.Before(p.CurrentTs) {
				return fmt.Errorf("%w: %s is before %s", apperrors.ErrTimestampRegression,
					newTs.Format(time.RFC3339), p.CurrentTs.Format(time.RFC3339))
			}
			p.CurrentTs = newTs
			if err := repo.UpdatePortfolioState(ctx, &p); err != nil {
				return err
			}
			updated = p
			return nil
		})
	})
	if err != nil {
		return model.Portfolio{}, err
	}
	return updated, nil
}

// NetWorth values the caller's holdings at the portfolio's current timestamp
// and stores the result. A holding is priced at the reference price of its
// bar on that date; without a bar it falls back to its average price.
func (s *PortfolioService) NetWorth(ctx context.Context, ownerID string) (model.NetWorth, error) {
	var result model.NetWorth

	err := retryOnConflict(ctx, s.maxAttempts, func(ctx context.Context) error {
		return inTx(ctx, s.db, func(tx *sql.Tx) error {
			portfolioRepo := s.portfolioRepo.WithTx(tx)
			holdingRepo := s.holdingRepo.WithTx(tx)

			p, err := portfolioRepo.GetPortfolioByOwner(ctx, ownerID)
			if err != nil {
				return err
			}
			holdings, err := holdingRepo.GetHoldings(ctx, p.ID)
			if err != nil {
				return err
			}

			for i := range holdings {
				value, err := s.valueAt(holdings[i], p.CurrentTs)
				if err != nil {
					return err
				}
				if value.Equal(holdings[i].CurrentValue) {
					continue
				}
				holdings[i].CurrentValue = value
				if err := holdingRepo.UpdateHolding(ctx, holdings[i]); err != nil {
					return err
				}
			}

			p.NetWorth = trading.NetWorth(p.CashBalance, holdings)
			if err := portfolioRepo.UpdatePortfolioState(ctx, &p); err != nil {
				return err
			}

			result = model.NetWorth{
				PortfolioID: p.ID,
				AsOf:        p.CurrentTs,
				NetWorth:    p.NetWorth,
				CashBalance: p.CashBalance,
				Holdings:    holdings,
			}
			return nil
		})
	})
	if err != nil {
		return model.NetWorth{}, err
	}
	return result, nil
}

func (s *PortfolioService) valueAt(h model.Holding, ts time.Time) (decimal.Decimal, error) {
	qty := decimal.NewFromInt(h.Quantity)
	bar, err := s.market.PriceAt(h.Symbol, ts)
	switch {
	case err == nil:
		return qty.Mul(bar.ReferencePrice()), nil
	case errors.Is(err, apperrors.ErrNoMarketData), errors.Is(err, apperrors.ErrUnknownSymbol):
		return qty.Mul(h.AveragePrice), nil
	default:
		return decimal.Decimal{}, fmt.Errorf("%w: %v", apperrors.ErrFailedToRetrieveMarketData, err)
	}
}

// DeletePortfolio removes a portfolio owned by ownerID together with its holdings.
// The trade ledger is kept.
func (s *PortfolioService) DeletePortfolio(ctx context.Context, ownerID, id string) error {
	err := inTx(ctx, s.db, func(tx *sql.Tx) error {
		portfolioRepo := s.portfolioRepo.WithTx(tx)

		p, err := portfolioRepo.GetPortfolio(ctx, id)
		if err != nil {
			return err
		}
		if p.OwnerID != ownerID {
			return apperrors.ErrForbidden
		}
		if _, err := s.holdingRepo.WithTx(tx).DeleteHoldings(ctx, id); err != nil {
			return err
		}
		return portfolioRepo.DeletePortfolio(ctx, id)
	})
	if err != nil {
		return err
	}

	s.log.Info().Str("portfolio_id", id).Str("owner_id", ownerID).Msg("portfolio deleted")
	return nil
}
