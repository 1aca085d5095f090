package filestore

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "marketdata-downloader/internal/domain/entity/marketdata"
)

var spy = domain.NewSymbol("SPY", domain.SecurityTypeEquity, domain.MarketUSA)

func readRows[T any](t *testing.T, path string) []T {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	var rows []T
	require.NoError(t, gocsv.UnmarshalFile(f, &rows))
	return rows
}

func TestWriter_Path(t *testing.T) {
	w, err := NewWriter(t.TempDir(), logrus.New())
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(w.root, "equity", "usa", "minute", "spy", "20240301_trade.csv"), w.Path(spy, domain.ResolutionMinute, "20240301"))
	assert.Equal(t, filepath.Join(w.root, "equity", "usa", "tick", "spy", "20240301_tick.csv"), w.Path(spy, domain.ResolutionTick, "20240301"))
	assert.Equal(t, filepath.Join(w.root, "equity", "usa", "daily", "spy.csv"), w.Path(spy, domain.ResolutionDaily, "20240301"))

	es := domain.NewSymbol("ES", domain.SecurityTypeFuture, domain.MarketCME).WithExpiry(time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, filepath.Join(w.root, "future", "cme", "hour", "es_20240621.csv"), w.Path(es, domain.ResolutionHour, ""))
}

func TestWriter_WriteTicksSplitsByDate(t *testing.T) {
	w, err := NewWriter(t.TempDir(), logrus.New())
	require.NoError(t, err)

	day1 := time.Date(2024, 3, 1, 9, 30, 0, 0, domain.NewYork)
	day2 := time.Date(2024, 3, 4, 9, 30, 0, 0, domain.NewYork)
	ticks := []domain.Tick{
		{Time: day1, Value: decimal.RequireFromString("501.25"), Quantity: decimal.NewFromInt(10)},
		{Time: day1.Add(time.Second), Value: decimal.RequireFromString("501.5"), Quantity: decimal.NewFromInt(1)},
		{Time: day2, Value: decimal.RequireFromString("505"), Quantity: decimal.NewFromInt(3)},
	}
	require.NoError(t, w.WriteTicks(context.Background(), spy, ticks))

	rows := readRows[TickRow](t, w.Path(spy, domain.ResolutionTick, "20240301"))
	require.Len(t, rows, 2)
	assert.Equal(t, "2024-03-01 09:30:00.000", rows[0].Time)
	assert.Equal(t, "501.25", rows[0].Price)

	rows = readRows[TickRow](t, w.Path(spy, domain.ResolutionTick, "20240304"))
	require.Len(t, rows, 1)
	assert.Equal(t, "3", rows[0].Quantity)
}

func TestWriter_WriteBarsReplacesFile(t *testing.T) {
	w, err := NewWriter(t.TempDir(), logrus.New())
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 0, 0, 0, 0, domain.NewYork)
	bar := domain.TradeBar{Time: start, EndTime: start.Add(24 * time.Hour), Open: decimal.NewFromInt(500), Close: decimal.NewFromInt(505), Volume: decimal.NewFromInt(1000)}

	require.NoError(t, w.WriteBars(context.Background(), spy, domain.ResolutionDaily, []domain.TradeBar{bar, bar}))
	require.NoError(t, w.WriteBars(context.Background(), spy, domain.ResolutionDaily, []domain.TradeBar{bar}))

	path := w.Path(spy, domain.ResolutionDaily, "")
	rows := readRows[BarRow](t, path)
	require.Len(t, rows, 1)
	assert.Equal(t, "505", rows[0].Close)
	assert.Equal(t, "2024-03-02 00:00:00.000", rows[0].End)

	entries, err := os.ReadDir(filepath.Dir(path))
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestWriter_WriteMinuteBars(t *testing.T) {
	w, err := NewWriter(t.TempDir(), logrus.New())
	require.NoError(t, err)

	start := time.Date(2024, 3, 1, 9, 30, 0, 0, domain.NewYork)
	bars := []domain.TradeBar{
		{Time: start, EndTime: start.Add(time.Minute)},
		{Time: start.Add(time.Minute), EndTime: start.Add(2 * time.Minute)},
	}
	require.NoError(t, w.WriteBars(context.Background(), spy, domain.ResolutionMinute, bars))
	assert.Len(t, readRows[BarRow](t, w.Path(spy, domain.ResolutionMinute, "20240301")), 2)

	require.NoError(t, w.WriteBars(context.Background(), spy, domain.ResolutionMinute, nil))
}
