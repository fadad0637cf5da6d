package testutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/config"
	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/market"
)

// Fixture series. Reference prices are (open + close) / 2:
//
//	RELIANCE  2024-01-02 285.73, 2024-01-03 300, 2024-01-04 310, 2024-01-08 325
//	HDFCBANK  2024-01-02 1505,   2024-01-03 1520, 2024-01-04 1535
//
// ICICIBANK and TATAMOTORS are tradable but have no data file.
var marketFixtures = map[string]string{
	"RELIANCE": `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-02,280.00,295.00,278.50,291.46,291.46,1200000
2024-01-03,295.00,308.00,292.00,305.00,305.00,1100000
2024-01-04,305.00,318.00,301.00,315.00,315.00,1000000
2024-01-08,320.00,335.00,318.00,330.00,330.00,900000
`,
	"HDFCBANK": `Date,Open,High,Low,Close,Adj Close,Volume
2024-01-02,1500.00,1515.00,1495.00,1510.00,1510.00,500000
2024-01-03,1510.00,1535.00,1505.00,1530.00,1530.00,450000
2024-01-04,1530.00,1545.00,1520.00,1540.00,1540.00,400000
`,
}

// WriteMarketFixture writes the fixture CSV files into a temporary directory and returns it.
func WriteMarketFixture(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	for symbol, content := range marketFixtures {
		if err := os.WriteFile(filepath.Join(dir, symbol+".csv"), []byte(content), 0o600); err != nil {
			t.Fatalf("Failed to write market fixture for %s: %v", symbol, err)
		}
	}
	return dir
}

// NewTestMarketStore returns a store over the fixture files with the default symbol universe.
func NewTestMarketStore(t *testing.T) *market.Store {
	t.Helper()
	return market.NewStore(WriteMarketFixture(t), config.DefaultSymbols)
}
