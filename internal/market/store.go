// Package market resolves symbols and dates to daily bars from per-symbol CSV series.
package market

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"
)

// LookupMode selects how a timestamp is matched to a bar.
type LookupMode string

const (
	// Strict requires a bar on the exact calendar date.
	Strict LookupMode = "strict"
	// Nearest picks the bar with the smallest absolute day distance, earlier date on ties.
	Nearest LookupMode = "nearest"
)

// ParseLookupMode converts a configuration value into a LookupMode.
func ParseLookupMode(s string) (LookupMode, error) {
	switch LookupMode(strings.ToLower(s)) {
	case Strict:
		return Strict, nil
	case Nearest:
		return Nearest, nil
	}
	return "", fmt.Errorf("unknown price lookup mode %q", s)
}

// Store serves read-only daily series for an allow-list of symbols.
// Series are read from <dir>/<SYMBOL>.csv on first use and cached for the life of the Store.
// A missing file is cached as an empty series.
type Store struct {
	dir     string
	symbols []string
	known   map[string]struct{}

	mu     sync.RWMutex
	series map[string][]model.DailyBar
	loads  singleflight.Group
}

// NewStore creates a Store reading from dir for the given symbols.
func NewStore(dir string, symbols []string) *Store {
	s := &Store{
		dir:     dir,
		known:   make(map[string]struct{}, len(symbols)),
		series:  make(map[string][]model.DailyBar, len(symbols)),
		symbols: make([]string, 0, len(symbols)),
	}
	for _, sym := range symbols {
		sym = strings.ToUpper(strings.TrimSpace(sym))
		if _, dup := s.known[sym]; sym == "" || dup {
			continue
		}
		s.known[sym] = struct{}{}
		s.symbols = append(s.symbols, sym)
	}
	return s
}

// Symbols returns the allow-list in configuration order.
func (s *Store) Symbols() []string {
	return slices.Clone(s.symbols)
}

// IsKnown reports whether symbol is in the allow-list.
func (s *Store) IsKnown(symbol string) bool {
	_, ok := s.known[symbol]
	return ok
}

// Preload loads every symbol's series in parallel.
// Missing files are not an error; malformed files are.
func (s *Store) Preload(ctx context.Context) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(4)
	for _, sym := range s.symbols {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			_, err := s.Series(sym)
			return err
		})
	}
	return g.Wait()
}

// Series returns the full ascending series for symbol.
// The returned slice is shared and must not be modified.
func (s *Store) Series(symbol string) ([]model.DailyBar, error) {
	if !s.IsKnown(symbol) {
		return nil, fmt.Errorf("%w: %s", apperrors.ErrUnknownSymbol, symbol)
	}

	s.mu.RLock()
	bars, ok := s.series[symbol]
	s.mu.RUnlock()
	if ok {
		return bars, nil
	}

	v, err, _ := s.loads.Do(symbol, func() (any, error) {
		bars, err := s.readFile(symbol)
		if err != nil {
			return nil, err
		}
		s.mu.Lock()
		s.series[symbol] = bars
		s.mu.Unlock()
		return bars, nil
	})
	if err != nil {
		return nil, err
	}
	return v.([]model.DailyBar), nil
}

func (s *Store) readFile(symbol string) ([]model.DailyBar, error) {
	f, err := os.Open(filepath.Join(s.dir, symbol+".csv"))
	if errors.Is(err, fs.ErrNotExist) {
		return []model.DailyBar{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to open series for %s: %w", symbol, err)
	}
	defer f.Close()

	bars, err := ParseCSV(symbol, f)
	if err != nil {
		return nil, fmt.Errorf("failed to parse series for %s: %w", symbol, err)
	}
	return bars, nil
}

// PriceAt returns the bar dated on ts's calendar day.
func (s *Store) PriceAt(symbol string, ts time.Time) (model.DailyBar, error) {
	bars, err := s.Series(symbol)
	if err != nil {
		return model.DailyBar{}, err
	}
	day := Day(ts)
	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Date.Before(day) })
	if i < len(bars) && bars[i].Date.Equal(day) {
		return bars[i], nil
	}
	return model.DailyBar{}, noData(symbol, day)
}

// Nearest returns the bar closest to ts's calendar day.
func (s *Store) Nearest(symbol string, ts time.Time) (model.DailyBar, error) {
	bars, err := s.Series(symbol)
	if err != nil {
		return model.DailyBar{}, err
	}
	day := Day(ts)
	if len(bars) == 0 {
		return model.DailyBar{}, noData(symbol, day)
	}

	i := sort.Search(len(bars), func(i int) bool { return !bars[i].Date.Before(day) })
	switch {
	case i == 0:
		return bars[0], nil
	case i == len(bars):
		return bars[len(bars)-1], nil
	}

	before, after := bars[i-1], bars[i]
	if after.Date.Equal(day) {
		return after, nil
	}
	if day.Sub(before.Date) <= after.Date.Sub(day) {
		return before, nil
	}
	return after, nil
}

// Lookup resolves ts with the given mode.
func (s *Store) Lookup(mode LookupMode, symbol string, ts time.Time) (model.DailyBar, error) {
	if mode == Nearest {
		return s.Nearest(symbol, ts)
	}
	return s.PriceAt(symbol, ts)
}

// Range returns bars dated between from and to's calendar days, inclusive.
func (s *Store) Range(symbol string, from, to time.Time) ([]model.DailyBar, error) {
	bars, err := s.Series(symbol)
	if err != nil {
		return nil, err
	}
	start, end := Day(from), Day(to)
	lo := sort.Search(len(bars), func(i int) bool { return !bars[i].Date.Before(start) })
	hi := sort.Search(len(bars), func(i int) bool { return bars[i].Date.After(end) })
	if lo >= hi {
		return nil, fmt.Errorf("%w: %s between %s and %s", apperrors.ErrNoMarketData, symbol,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return slices.Clone(bars[lo:hi]), nil
}

// Latest returns the most recent bar for symbol. ok is false when the series is empty.
func (s *Store) Latest(symbol string) (bar model.DailyBar, ok bool, err error) {
	bars, err := s.Series(symbol)
	if err != nil {
		return model.DailyBar{}, false, err
	}
	if len(bars) == 0 {
		return model.DailyBar{}, false, nil
	}
	return bars[len(bars)-1], true, nil
}

func noData(symbol string, day time.Time) error {
	return fmt.Errorf("%w: %s on %s", apperrors.ErrNoMarketData, symbol, day.Format(time.DateOnly))
}
