package apperrors

import "errors"

// Trade rejection errors. These are caller-input or state errors raised by the
// trade validator; they are reported synchronously and never retried.
var (
	// ErrUnknownSymbol indicates the symbol is not in the configured allow-list.
	ErrUnknownSymbol = errors.New("unknown stock symbol")

	// ErrNoMarketData indicates there is no daily bar for the requested symbol and date.
	ErrNoMarketData = errors.New("no market data for date")

	// ErrPriceMismatch indicates the submitted price differs from the day's reference price.
	ErrPriceMismatch = errors.New("trade price must equal the reference price")

	// ErrTradeInPast indicates the execution timestamp is before the portfolio cursor.
	ErrTradeInPast = errors.New("cannot execute trade in the past")

	// ErrInsufficientFunds indicates a buy costs more than the available cash balance.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInsufficientShares indicates a sell exceeds the quantity held.
	ErrInsufficientShares = errors.New("insufficient shares")
)

// Contention errors reflect concurrent writers rather than invalid input.
var (
	// ErrConcurrencyConflict indicates the portfolio row changed between read and write.
	ErrConcurrencyConflict = errors.New("concurrent modification of portfolio")
)

// Domain entity errors represent missing entities in the system.
var (
	ErrPortfolioNotFound = errors.New("portfolio not found")
	ErrHoldingNotFound   = errors.New("holding not found")
	ErrTradeNotFound     = errors.New("trade not found")
	ErrUserNotFound      = errors.New("user not found")
	ErrGroupNotFound     = errors.New("group not found")
	ErrStrategyNotFound  = errors.New("strategy not found")
)

// Business logic errors represent constraint violations outside the trade path.
var (
	// ErrPortfolioExists indicates the owner already has a portfolio.
	ErrPortfolioExists = errors.New("user already has a portfolio")

	// ErrTimestampRegression indicates an attempt to move a portfolio cursor backwards.
	ErrTimestampRegression = errors.New("portfolio timestamp cannot move backwards")

	// ErrForbidden indicates the caller does not own the requested resource.
	ErrForbidden = errors.New("not authorized to access this resource")

	// ErrDuplicateEntry indicates that an entity with the same unique constraint already exists.
	ErrDuplicateEntry = errors.New("duplicate entry")

	// ErrInvalidDateRange indicates that the start of a range is after its end.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrMissingOwner indicates the request carried no caller identity.
	ErrMissingOwner = errors.New("missing user identity")
)

// Operation failure errors are used as user-facing messages for 500 responses.
var (
	ErrFailedToRetrievePortfolio  = errors.New("failed to retrieve portfolio")
	ErrFailedToRetrievePortfolios = errors.New("failed to retrieve portfolios")
	ErrFailedToRetrieveHoldings   = errors.New("failed to retrieve holdings")
	ErrFailedToRetrieveTrades     = errors.New("failed to retrieve trades")
	ErrFailedToRetrieveTrade      = errors.New("failed to retrieve trade")
	ErrFailedToExecuteTrade       = errors.New("failed to execute trade")
	ErrFailedToRetrieveMarketData = errors.New("failed to retrieve market data")
	ErrFailedToComputeAnalysis    = errors.New("failed to compute analysis")
	ErrFailedToRetrieveUsers      = errors.New("failed to retrieve users")
	ErrFailedToRetrieveGroups     = errors.New("failed to retrieve groups")
	ErrFailedToRetrieveTasks      = errors.New("failed to retrieve tasks")
	ErrFailedToRetrieveStrategies = errors.New("failed to retrieve strategies")
	ErrFailedToGetVersionInfo     = errors.New("failed to get version information")
)
