package market

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/ndewijer/Stock-Trading-Simulator-Backend/internal/model"
	"github.com/shopspring/decimal"
)

var requiredColumns = []string{"date", "open", "high", "low", "close", "volume"}

var dateLayouts = []string{"2006-01-02", "2006-01-02 15:04:05", time.RFC3339}

// ParseCSV reads a daily series for symbol.
// The header must name Date, Open, High, Low, Close and Volume (any case, any order);
// other columns are ignored. Rows whose price cells are empty or "null" are skipped.
// The result is sorted by date; when a date repeats the first row wins.
func ParseCSV(symbol string, r io.Reader) ([]model.DailyBar, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return []model.DailyBar{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read header: %w", err)
	}

	idx := make(map[string]int, len(header))
	for i, h := range header {
		idx[strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))] = i
	}
	cols := make([]int, len(requiredColumns))
	for i, name := range requiredColumns {
		pos, ok := idx[name]
		if !ok {
			return nil, fmt.Errorf("missing column %q", name)
		}
		cols[i] = pos
	}

	bars := []model.DailyBar{}
	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		line++
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		cells := make([]string, len(cols))
		missing := false
		for i, pos := range cols {
			if pos >= len(record) {
				missing = true
				break
			}
			cells[i] = strings.TrimSpace(record[pos])
			if cells[i] == "" || strings.EqualFold(cells[i], "null") {
				missing = true
			}
		}
		if missing {
			continue
		}

		bar, err := parseRow(symbol, cells)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		bars = append(bars, bar)
	}

	sort.SliceStable(bars, func(i, j int) bool { return bars[i].Date.Before(bars[j].Date) })

	for i := 1; i < len(bars); i++ {
		if bars[i].Date.Equal(bars[i-1].Date) {
			return nil, fmt.Errorf("duplicate date %s", bars[i].Date.Format(time.DateOnly))
		}
	}

	return bars, nil
}

func parseRow(symbol string, cells []string) (model.DailyBar, error) {
	date, err := parseDate(cells[0])
	if err != nil {
		return model.DailyBar{}, err
	}

	prices := make([]decimal.Decimal, 4)
	for i := range prices {
		prices[i], err = decimal.NewFromString(cells[i+1])
		if err != nil {
			return model.DailyBar{}, fmt.Errorf("invalid %s %q: %w", requiredColumns[i+1], cells[i+1], err)
		}
	}

	volume, err := strconv.ParseInt(cells[5], 10, 64)
	if err != nil {
		f, ferr := strconv.ParseFloat(cells[5], 64)
		if ferr != nil {
			return model.DailyBar{}, fmt.Errorf("invalid volume %q: %w", cells[5], err)
		}
		volume = int64(f)
	}

	return model.DailyBar{
		Symbol: symbol,
		Date:   date,
		Open:   prices[0],
		High:   prices[1],
		Low:    prices[2],
		Close:  prices[3],
		Volume: volume,
	}, nil
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return Day(t), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

// Day truncates t to its calendar date in t's own location, returned as UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
