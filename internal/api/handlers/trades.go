package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/validation"
)

// TradeHandler handles HTTP requests for trade endpoints.
type TradeHandler struct {
	tradeService *service.TradeService
}

// NewTradeHandler creates a new TradeHandler with the provided service dependency.
func NewTradeHandler(tradeService *service.TradeService) *TradeHandler {
	return &TradeHandler{
		tradeService: tradeService,
	}
}

// CreateTrade executes a trade for the caller.
//
// Endpoint: POST /api/trade
// Request Body: CreateTradeRequest (symbol, quantity, price, side, executionTs)
// Response: 201 Created with model.Trade
// Error: 400 Bad Request if validation or a trade rule fails
// Error: 404 Not Found if there is no bar on the execution date or the caller has no portfolio
// Error: 409 Conflict if concurrent trades kept conflicting
func (h *TradeHandler) CreateTrade(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreateTradeRequest](r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := validation.ValidateCreateTrade(req); err != nil {
		respondValidation(w, err)
		return
	}

	trade, err := h.tradeService.ExecuteTrade(r.Context(), ownerID(r), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToExecuteTrade)
		return
	}

	response.RespondJSON(w, http.StatusCreated, trade)
}

// Trades lists the caller's trades, oldest first.
//
// Endpoint: GET /api/trade?symbol=&side=&from=&to=
// Error: 400 Bad Request if a filter is malformed
func (h *TradeHandler) Trades(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	filter, err := request.ParseTradeFilters(q.Get("symbol"), q.Get("side"), q.Get("from"), q.Get("to"))
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	trades, err := h.tradeService.GetTrades(r.Context(), ownerID(r), filter)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTrades)
		return
	}

	response.RespondJSON(w, http.StatusOK, trades)
}

// GetTrade returns one of the caller's trades.
//
// Endpoint: GET /api/trade/{uuid}
// Error: 403 Forbidden if the trade belongs to someone else
// Error: 404 Not Found if the trade does not exist
func (h *TradeHandler) GetTrade(w http.ResponseWriter, r *http.Request) {
	trade, err := h.tradeService.GetTrade(r.Context(), ownerID(r), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTrade)
		return
	}

	response.RespondJSON(w, http.StatusOK, trade)
}

// DeleteTrade removes a ledger entry. Holdings and cash are not adjusted.
// The route is guarded by the API key middleware.
//
// Endpoint: DELETE /api/trade/{uuid}
// Response: 204 No Content
func (h *TradeHandler) DeleteTrade(w http.ResponseWriter, r *http.Request) {
	if err := h.tradeService.DeleteTrade(r.Context(), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveTrade)
		return
	}

	response.RespondNoContent(w)
}
