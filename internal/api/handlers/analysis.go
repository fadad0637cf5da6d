package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/service"
)

// AnalysisHandler serves return and risk estimates.
type AnalysisHandler struct {
	analysisService *service.AnalysisService
}

// NewAnalysisHandler creates a new AnalysisHandler.
func NewAnalysisHandler(analysisService *service.AnalysisService) *AnalysisHandler {
	return &AnalysisHandler{analysisService: analysisService}
}

// StockReturns handles GET /api/analysis/stock?symbol=&start=&end=
func (h *AnalysisHandler) StockReturns(w http.ResponseWriter, r *http.Request) {
	symbol, err := requiredQuery(r, "symbol")
	if err != nil {
		respondValidation(w, err)
		return
	}
	start, end, err := queryRange(r, "start", "end")
	if err != nil {
		respondValidation(w, err)
		return
	}

	result, err := h.analysisService.StockReturns(symbol, start, end)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputeAnalysis)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// StockRisk handles GET /api/analysis/stock/risk?symbol=&start=&end=
func (h *AnalysisHandler) StockRisk(w http.ResponseWriter, r *http.Request) {
	symbol, err := requiredQuery(r, "symbol")
	if err != nil {
		respondValidation(w, err)
		return
	}
	start, end, err := queryRange(r, "start", "end")
	if err != nil {
		respondValidation(w, err)
		return
	}

	result, err := h.analysisService.StockRisk(symbol, start, end)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputeAnalysis)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}

// PortfolioReturns handles GET /api/analysis/portfolio/{uuid}?start=&end=
func (h *AnalysisHandler) PortfolioReturns(w http.ResponseWriter, r *http.Request) {
	start, end, err := queryRange(r, "start", "end")
	if err != nil {
		respondValidation(w, err)
		return
	}

	result, err := h.analysisService.PortfolioReturns(r.Context(), ownerID(r), chi.URLParam(r, "uuid"), start, end)
	if err != nil {
		respondServiceError(w, err, apperrors.ErrFailedToComputeAnalysis)
		return
	}

	response.RespondJSON(w, http.StatusOK, result)
}
