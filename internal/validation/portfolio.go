package validation

import (
	"strings"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
)

// ValidateCreatePortfolio checks that initial capital is positive and the optional
// starting timestamp parses.
func ValidateCreatePortfolio(req request.CreatePortfolioRequest) error {
	errors := make(map[string]string)

	if !req.InitialCapital.IsPositive() {
		errors["initialCapital"] = "initialCapital must be positive"
	}

	if req.CurrentTs != nil {
		if _, err := ParseTime(strings.TrimSpace(*req.CurrentTs)); err != nil {
			errors["currentTs"] = "currentTs must be YYYY-MM-DD or RFC3339"
		}
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}

func ValidateUpdateTimestamp(req request.UpdateTimestampRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.CurrentTs) == "" {
		errors["currentTs"] = "currentTs is required"
	} else if _, err := ParseTime(req.CurrentTs); err != nil {
		errors["currentTs"] = "currentTs must be YYYY-MM-DD or RFC3339"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
