// Package handlers adapts HTTP requests to service calls.
// Handlers parse and validate input, resolve the caller and map service errors
// to status codes; business rules live in the service layer.
package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/middleware"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/response"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/validation"
)

// maxBodyBytes caps JSON request bodies.
const maxBodyBytes = 1 << 20

// parseJSON decodes the request body into T. Trailing data after the JSON value is an error.
func parseJSON[T any](r *http.Request) (T, error) {
	var v T
	if r.Body == nil {
		return v, errors.New("request body is required")
	}

	dec := json.NewDecoder(http.MaxBytesReader(nil, r.Body, maxBodyBytes))
	if err := dec.Decode(&v); err != nil {
		return v, err
	}
	if dec.More() {
		return v, errors.New("request body must contain a single JSON object")
	}
	return v, nil
}

// ownerID returns the caller resolved by the identity middleware.
func ownerID(r *http.Request) string {
	return middleware.OwnerID(r.Context())
}

// queryTime parses the query parameter name as YYYY-MM-DD or RFC3339.
// A missing parameter is a validation error when required, the zero time otherwise.
func queryTime(r *http.Request, name string, required bool) (time.Time, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		if required {
			return time.Time{}, validation.FieldError(name, name+" is required")
		}
		return time.Time{}, nil
	}

	ts, err := validation.ParseTime(raw)
	if err != nil {
		return time.Time{}, validation.FieldError(name, "must be YYYY-MM-DD or RFC3339")
	}
	return ts, nil
}

// queryRange parses required start and end query parameters.
func queryRange(r *http.Request, startName, endName string) (time.Time, time.Time, error) {
	q := r.URL.Query()
	return validation.ParseRange(startName, q.Get(startName), endName, q.Get(endName))
}

// requiredQuery returns the query parameter name or a validation error if it is empty.
func requiredQuery(r *http.Request, name string) (string, error) {
	v := r.URL.Query().Get(name)
	if v == "" {
		return "", validation.FieldError(name, name+" is required")
	}
	return v, nil
}

// errorStatus maps service errors to HTTP status codes.
// The message is the matched sentinel, or fallback for unexpected errors.
func errorStatus(err error, fallback string) (int, string) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		return http.StatusBadRequest, "validation failed"
	}

	for _, m := range []struct {
		target error
		status int
	}{
		{apperrors.ErrUnknownSymbol, http.StatusBadRequest},
		{apperrors.ErrPriceMismatch, http.StatusBadRequest},
		{apperrors.ErrTradeInPast, http.StatusBadRequest},
		{apperrors.ErrInsufficientFunds, http.StatusBadRequest},
		{apperrors.ErrInsufficientShares, http.StatusBadRequest},
		{apperrors.ErrTimestampRegression, http.StatusBadRequest},
		{apperrors.ErrInvalidDateRange, http.StatusBadRequest},
		{validation.ErrInvalidTimestamp, http.StatusBadRequest},
		{apperrors.ErrMissingOwner, http.StatusUnauthorized},
		{apperrors.ErrForbidden, http.StatusForbidden},
		{apperrors.ErrNoMarketData, http.StatusNotFound},
		{apperrors.ErrPortfolioNotFound, http.StatusNotFound},
		{apperrors.ErrHoldingNotFound, http.StatusNotFound},
		{apperrors.ErrTradeNotFound, http.StatusNotFound},
		{apperrors.ErrUserNotFound, http.StatusNotFound},
		{apperrors.ErrGroupNotFound, http.StatusNotFound},
		{apperrors.ErrStrategyNotFound, http.StatusNotFound},
		{apperrors.ErrPortfolioExists, http.StatusConflict},
		{apperrors.ErrDuplicateEntry, http.StatusConflict},
		{apperrors.ErrConcurrencyConflict, http.StatusConflict},
	} {
		if errors.Is(err, m.target) {
			return m.status, m.target.Error()
		}
	}

	return http.StatusInternalServerError, fallback
}

// respondServiceError writes err with the status errorStatus assigns it.
func respondServiceError(w http.ResponseWriter, err error, fallback error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		respondValidation(w, err)
		return
	}
	status, message := errorStatus(err, fallback.Error())
	response.RespondError(w, status, message, err.Error())
}

// respondBadRequest reports an unparseable body or query.
func respondBadRequest(w http.ResponseWriter, err error) {
	response.RespondError(w, http.StatusBadRequest, "invalid request", err.Error())
}

// respondValidation reports field errors from input validation.
func respondValidation(w http.ResponseWriter, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		response.RespondError(w, http.StatusBadRequest, "validation failed", verr.Fields)
		return
	}
	response.RespondError(w, http.StatusBadRequest, "validation failed", fmt.Sprint(err))
}
