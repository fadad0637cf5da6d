package validation

import (
	"fmt"
	"strings"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/api/request"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// ValidateCreateTrade validates the shape of a trade request.
// Market and portfolio rules (symbol allow-list, reference price, funds) are
// enforced at execution time, not here.
//
// Required fields:
//   - symbol: non-empty
//   - quantity: positive
//   - price: positive
//   - side: BUY or SELL, any case
//   - executionTs: YYYY-MM-DD or RFC3339
func ValidateCreateTrade(req request.CreateTradeRequest) error {
	errors := make(map[string]string)

	if strings.TrimSpace(req.Symbol) == "" {
		errors["symbol"] = "symbol is required"
	}

	if req.Quantity <= 0 {
		errors["quantity"] = "quantity must be positive"
	}

	if !req.Price.IsPositive() {
		errors["price"] = "price must be positive"
	}

	if strings.TrimSpace(req.Side) == "" {
		errors["side"] = "side is required"
	} else if !model.TradeSide(strings.ToUpper(req.Side)).Valid() {
		errors["side"] = fmt.Sprintf("invalid side: %s", req.Side)
	}

	if strings.TrimSpace(req.ExecutionTs) == "" {
		errors["executionTs"] = "executionTs is required"
	} else if _, err := ParseTime(req.ExecutionTs); err != nil {
		errors["executionTs"] = "executionTs must be YYYY-MM-DD or RFC3339"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}
	return nil
}
