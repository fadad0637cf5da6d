package request

import (
	"fmt"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
)

// ParseTradeFilters extracts and validates ledger filters from query parameters.
// All parameters are optional.
//
// Validation rules:
//   - symbol: upper-cased
//   - side: BUY or SELL, any case
//   - from/to: YYYY-MM-DD or RFC3339; a date-only "to" covers the whole day
//   - from must not be after to
func ParseTradeFilters(symbolParam, sideParam, fromParam, toParam string) (model.TradeFilter, error) {
	filter := model.TradeFilter{
		Symbol: strings.ToUpper(strings.TrimSpace(symbolParam)),
	}

	if sideParam != "" {
		side := model.TradeSide(strings.ToUpper(strings.TrimSpace(sideParam)))
		if !side.Valid() {
			return model.TradeFilter{}, fmt.Errorf("invalid side: %s", sideParam)
		}
		filter.Side = side
	}

	if fromParam != "" {
		from, _, err := parseFilterTime(fromParam)
		if err != nil {
			return model.TradeFilter{}, fmt.Errorf("invalid from format: %w", err)
		}
		filter.From = from
	}

	if toParam != "" {
		to, dateOnly, err := parseFilterTime(toParam)
		if err != nil {
			return model.TradeFilter{}, fmt.Errorf("invalid to format: %w", err)
		}
		if dateOnly {
			to = to.Add(24*time.Hour - time.Microsecond)
		}
		filter.To = to
	}

	if !filter.From.IsZero() && !filter.To.IsZero() && filter.From.After(filter.To) {
		return model.TradeFilter{}, fmt.Errorf("from must not be after to")
	}

	return filter, nil
}

// parseFilterTime parses date strings for filter parameters.
// Accepts YYYY-MM-DD and RFC3339 (with optional fractional seconds).
func parseFilterTime(str string) (time.Time, bool, error) {
	if t, err := time.Parse("2006-01-02", str); err == nil {
		return t.UTC(), true, nil
	}
	if t, err := time.Parse(time.RFC3339Nano, str); err == nil {
		return t.UTC(), false, nil
	}
	return time.Time{}, false, fmt.Errorf("cannot parse %q as a date or datetime", str)
}
