package market_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/apperrors"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/market"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/testutil"
)

// TestStore_PriceAt tests strict date lookup.
//
// WHY: The trading path prices every order through PriceAt. A lookup that
// drifts to a neighbouring day would accept trades at a price that never existed.
func TestStore_PriceAt(t *testing.T) {
	store := testutil.NewTestMarketStore(t)

	t.Run("returns bar on exact date", func(t *testing.T) {
		// Execute
		bar, err := store.PriceAt("RELIANCE", testutil.Day("2024-01-02"))

		// Assert
		if err != nil {
			t.Fatalf("PriceAt() error = %v", err)
		}
		if !bar.ReferencePrice().Equal(testutil.Dec("285.73")) {
			t.Errorf("ReferencePrice() = %s, want 285.73", bar.ReferencePrice())
		}
	})

	t.Run("ignores time of day", func(t *testing.T) {
		ts := time.Date(2024, 1, 3, 15, 30, 0, 0, time.UTC)

		bar, err := store.PriceAt("RELIANCE", ts)
		if err != nil {
			t.Fatalf("PriceAt() error = %v", err)
		}
		if !bar.Date.Equal(testutil.Day("2024-01-03")) {
			t.Errorf("Date = %v, want 2024-01-03", bar.Date)
		}
	})

	// WHY: 02:00 in +05:30 is still Jan 2 in UTC. The bar must follow the
	// calendar date the caller wrote, not the UTC instant.
	t.Run("uses the date in the timestamp's own offset", func(t *testing.T) {
		// Setup
		ist := time.FixedZone("IST", 5*3600+1800)
		ts := time.Date(2024, 1, 3, 2, 0, 0, 0, ist)

		// Execute
		bar, err := store.PriceAt("RELIANCE", ts)

		// Assert
		if err != nil {
			t.Fatalf("PriceAt() error = %v", err)
		}
		if !bar.Date.Equal(testutil.Day("2024-01-03")) {
			t.Errorf("Date = %v, want 2024-01-03", bar.Date)
		}
		if !bar.ReferencePrice().Equal(testutil.Dec("300")) {
			t.Errorf("ReferencePrice() = %s, want 300", bar.ReferencePrice())
		}
	})

	t.Run("missing date returns ErrNoMarketData", func(t *testing.T) {
		_, err := store.PriceAt("RELIANCE", testutil.Day("2024-01-06"))
		if !errors.Is(err, apperrors.ErrNoMarketData) {
			t.Errorf("expected ErrNoMarketData, got %v", err)
		}
	})

	t.Run("symbol without series returns ErrNoMarketData", func(t *testing.T) {
		_, err := store.PriceAt("TATAMOTORS", testutil.Day("2024-01-02"))
		if !errors.Is(err, apperrors.ErrNoMarketData) {
			t.Errorf("expected ErrNoMarketData, got %v", err)
		}
	})

	t.Run("unknown symbol returns ErrUnknownSymbol", func(t *testing.T) {
		_, err := store.PriceAt("ACME", testutil.Day("2024-01-02"))
		if !errors.Is(err, apperrors.ErrUnknownSymbol) {
			t.Errorf("expected ErrUnknownSymbol, got %v", err)
		}
	})
}

// TestStore_Nearest tests nearest-date lookup used by analysis.
//
// WHY: Analysis tolerates weekends and holidays by snapping to the closest
// trading day. Ties must resolve deterministically to the earlier date.
func TestStore_Nearest(t *testing.T) {
	store := testutil.NewTestMarketStore(t)

	tests := []struct {
		name string
		ts   string
		want string
	}{
		{"exact match", "2024-01-03", "2024-01-03"},
		{"before first bar", "2023-12-01", "2024-01-02"},
		{"after last bar", "2024-03-01", "2024-01-08"},
		{"closer to later bar", "2024-01-07", "2024-01-08"},
		{"tie goes to earlier bar", "2024-01-06", "2024-01-04"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			bar, err := store.Nearest("RELIANCE", testutil.Day(tt.ts))
			if err != nil {
				t.Fatalf("Nearest() error = %v", err)
			}
			if !bar.Date.Equal(testutil.Day(tt.want)) {
				t.Errorf("Date = %s, want %s", bar.Date.Format(time.DateOnly), tt.want)
			}
		})
	}

	t.Run("empty series returns ErrNoMarketData", func(t *testing.T) {
		_, err := store.Nearest("ICICIBANK", testutil.Day("2024-01-02"))
		if !errors.Is(err, apperrors.ErrNoMarketData) {
			t.Errorf("expected ErrNoMarketData, got %v", err)
		}
	})
}

// TestStore_Lookup verifies the mode switch.
func TestStore_Lookup(t *testing.T) {
	store := testutil.NewTestMarketStore(t)
	weekend := testutil.Day("2024-01-06")

	if _, err := store.Lookup(market.Strict, "RELIANCE", weekend); !errors.Is(err, apperrors.ErrNoMarketData) {
		t.Errorf("strict lookup on weekend: expected ErrNoMarketData, got %v", err)
	}
	if _, err := store.Lookup(market.Nearest, "RELIANCE", weekend); err != nil {
		t.Errorf("nearest lookup on weekend: unexpected error %v", err)
	}
}

// TestStore_Range tests inclusive range selection.
func TestStore_Range(t *testing.T) {
	store := testutil.NewTestMarketStore(t)

	t.Run("bounds are inclusive", func(t *testing.T) {
		bars, err := store.Range("RELIANCE", testutil.Day("2024-01-03"), testutil.Day("2024-01-04"))
		if err != nil {
			t.Fatalf("Range() error = %v", err)
		}
		if len(bars) != 2 {
			t.Fatalf("expected 2 bars, got %d", len(bars))
		}
		if !bars[0].Date.Equal(testutil.Day("2024-01-03")) || !bars[1].Date.Equal(testutil.Day("2024-01-04")) {
			t.Errorf("unexpected dates: %v, %v", bars[0].Date, bars[1].Date)
		}
	})

	t.Run("empty range returns ErrNoMarketData", func(t *testing.T) {
		_, err := store.Range("RELIANCE", testutil.Day("2024-01-05"), testutil.Day("2024-01-07"))
		if !errors.Is(err, apperrors.ErrNoMarketData) {
			t.Errorf("expected ErrNoMarketData, got %v", err)
		}
	})
}

// TestStore_Latest tests latest bar resolution.
func TestStore_Latest(t *testing.T) {
	store := testutil.NewTestMarketStore(t)

	bar, ok, err := store.Latest("RELIANCE")
	if err != nil || !ok {
		t.Fatalf("Latest() = ok %v, err %v", ok, err)
	}
	if !bar.Date.Equal(testutil.Day("2024-01-08")) {
		t.Errorf("Date = %v, want 2024-01-08", bar.Date)
	}

	_, ok, err = store.Latest("TATAMOTORS")
	if err != nil || ok {
		t.Errorf("Latest(TATAMOTORS) = ok %v, err %v, want false, nil", ok, err)
	}
}

// TestStore_Preload tests eager loading.
//
// WHY: A corrupt file should stop startup instead of failing the first trade.
func TestStore_Preload(t *testing.T) {
	t.Run("succeeds with missing files", func(t *testing.T) {
		store := testutil.NewTestMarketStore(t)
		if err := store.Preload(context.Background()); err != nil {
			t.Errorf("Preload() error = %v", err)
		}
	})

	t.Run("fails on malformed file", func(t *testing.T) {
		dir := t.TempDir()
		content := "Date,Open,High,Low,Close,Volume\n2024-01-02,abc,1,1,1,10\n"
		if err := os.WriteFile(filepath.Join(dir, "RELIANCE.csv"), []byte(content), 0o600); err != nil {
			t.Fatalf("failed to write fixture: %v", err)
		}
		store := market.NewStore(dir, []string{"RELIANCE"})

		if err := store.Preload(context.Background()); err == nil {
			t.Error("expected error for malformed file")
		}
	})
}

// TestStore_ConcurrentLoad verifies concurrent first access returns one consistent series.
func TestStore_ConcurrentLoad(t *testing.T) {
	store := testutil.NewTestMarketStore(t)

	var wg sync.WaitGroup
	errs := make(chan error, 16)
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			bars, err := store.Series("RELIANCE")
			if err != nil {
				errs <- err
				return
			}
			if len(bars) != 4 {
				errs <- errors.New("unexpected series length")
			}
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Error(err)
	}
}

// TestNewStore verifies symbol normalisation.
func TestNewStore(t *testing.T) {
	store := market.NewStore(t.TempDir(), []string{"reliance", " HDFCBANK ", "RELIANCE", ""})

	got := strings.Join(store.Symbols(), ",")
	if got != "RELIANCE,HDFCBANK" {
		t.Errorf("Symbols() = %s, want RELIANCE,HDFCBANK", got)
	}
	if !store.IsKnown("HDFCBANK") || store.IsKnown("reliance") {
		t.Error("IsKnown() should match normalised symbols exactly")
	}
}
