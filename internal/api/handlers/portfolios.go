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

// PortfolioHandler handles portfolio-related HTTP requests.
// All operations except AllPortfolios act on behalf of the caller.
type PortfolioHandler struct {
	portfolioService *service.PortfolioService
}

// NewPortfolioHandler creates a new PortfolioHandler
func NewPortfolioHandler(portfolioService *service.PortfolioService) *PortfolioHandler {
	return &PortfolioHandler{
		portfolioService: portfolioService,
	}
}

// CreatePortfolio opens the caller's portfolio.
//
// Endpoint: POST /api/portfolio
// Request Body: CreatePortfolioRequest (initialCapital, optional currentTs)
// Response: 201 Created with model.Portfolio
// Error: 400 Bad Request if validation fails
// Error: 409 Conflict if the caller already has a portfolio
func (h *PortfolioHandler) CreatePortfolio(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.CreatePortfolioRequest](r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := validation.ValidateCreatePortfolio(req); err != nil {
		respondValidation(w, err)
		return
	}

	portfolio, err := h.portfolioService.CreatePortfolio(r.Context(), ownerID(r), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusCreated, portfolio)
}

// MyPortfolio returns the caller's portfolio.
//
// Endpoint: GET /api/portfolio
// Error: 404 Not Found if the caller has none
func (h *PortfolioHandler) MyPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolioByOwner(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// AllPortfolios lists every portfolio. The route is guarded by the internal API key.
//
// Endpoint: GET /api/portfolio/all
func (h *PortfolioHandler) AllPortfolios(w http.ResponseWriter, r *http.Request) {
	portfolios, err := h.portfolioService.GetAllPortfolios(r.Context())
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolios)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolios)
}

// GetPortfolio returns a portfolio by ID.
//
// Endpoint: GET /api/portfolio/{uuid}
// Error: 403 Forbidden if the caller does not own it
// Error: 404 Not Found if it does not exist
func (h *PortfolioHandler) GetPortfolio(w http.ResponseWriter, r *http.Request) {
	portfolio, err := h.portfolioService.GetPortfolio(r.Context(), ownerID(r), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// Holdings lists the holdings of a portfolio.
//
// Endpoint: GET /api/portfolio/{uuid}/holdings
func (h *PortfolioHandler) Holdings(w http.ResponseWriter, r *http.Request) {
	holdings, err := h.portfolioService.GetHoldings(r.Context(), ownerID(r), chi.URLParam(r, "uuid"))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrieveHoldings)
		return
	}

	response.RespondJSON(w, http.StatusOK, holdings)
}

// UpdateTimestamp moves the portfolio cursor forward.
//
// Endpoint: PUT /api/portfolio/{uuid}/timestamp
// Request Body: UpdateTimestampRequest (currentTs)
// Response: 200 OK with the updated model.Portfolio
// Error: 400 Bad Request if currentTs is before the current cursor
func (h *PortfolioHandler) UpdateTimestamp(w http.ResponseWriter, r *http.Request) {
	req, err := parseJSON[request.UpdateTimestampRequest](r)
	if err != nil {
		respondBadRequest(w, err)
		return
	}

	if err := validation.ValidateUpdateTimestamp(req); err != nil {
		respondValidation(w, err)
		return
	}

	portfolio, err := h.portfolioService.AdvanceTimestamp(r.Context(), ownerID(r), chi.URLParam(r, "uuid"), req)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, portfolio)
}

// NetWorth values the caller's portfolio at its current timestamp.
//
// Endpoint: GET /api/portfolio/net-worth
// Response: 200 OK with model.NetWorth
func (h *PortfolioHandler) NetWorth(w http.ResponseWriter, r *http.Request) {
	nw, err := h.portfolioService.NetWorth(r.Context(), ownerID(r))
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondJSON(w, http.StatusOK, nw)
}

// DeletePortfolio removes a portfolio and its holdings. Trades are kept.
//
// Endpoint: DELETE /api/portfolio/{uuid}
// Response: 204 No Content
func (h *PortfolioHandler) DeletePortfolio(w http.ResponseWriter, r *http.Request) {
	if err := h.portfolioService.DeletePortfolio(r.Context(), ownerID(r), chi.URLParam(r, "uuid")); err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToRetrievePortfolio)
		return
	}

	response.RespondNoContent(w)
}
