package handlers

import (
	"net/http"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
)

// MarketHandler serves read-only market data.
type MarketHandler struct {
	marketService *service.MarketService
}

// NewMarketHandler creates a new MarketHandler.
func NewMarketHandler(marketService *service.MarketService) *MarketHandler {
	return &MarketHandler{marketService: marketService}
}

// Stocks lists the tradable symbols with their latest reference price.
//
// Endpoint: GET /api/market/stocks
// Response: 200 OK with array of model.StockInfo
func (h *MarketHandler) Stocks(w http.ResponseWriter, _ *http.Request) {
	stocks, err := h.marketService.GetStocks()
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveMarketData)
		return
	}

	response.RespondJSON(w, http.StatusOK, stocks)
}

// Tick returns the bar of a symbol on a date.
//
// Endpoint: GET /api/market/tick?symbol=&ts=
// Response: 200 OK with model.Tick
// Error: 400 Bad Request if symbol or ts is missing or malformed, or the symbol is unknown
// Error: 404 Not Found if there is no bar on that date
func (h *MarketHandler) Tick(w http.ResponseWriter, r *http.Request) {
	symbol, err := requiredQuery(r, "symbol")
	if err != nil {
		respondValidation(w, err)
		return
	}
	ts, err := queryTime(r, "ts", true)
	if err != nil {
		respondValidation(w, err)
		return
	}

	tick, err := h.marketService.GetTick(symbol, ts)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveMarketData)
		return
	}

	response.RespondJSON(w, http.StatusOK, tick)
}

// Range returns every bar of a symbol between two dates, inclusive.
//
// Endpoint: GET /api/market/range?symbol=&from=&to=
// Response: 200 OK with array of model.Tick
// Error: 400 Bad Request if parameters are missing or from is after to
// Error: 404 Not Found if there are no bars in the range
func (h *MarketHandler) Range(w http.ResponseWriter, r *http.Request) {
	symbol, err := requiredQuery(r, "symbol")
	if err != nil {
		respondValidation(w, err)
		return
	}
	from, to, err := queryRange(r, "from", "to")
	if err != nil {
		respondValidation(w, err)
		return
	}

	ticks, err := h.marketService.GetRange(symbol, from, to)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveMarketData)
		return
	}

	response.RespondJSON(w, http.StatusOK, ticks)
}
