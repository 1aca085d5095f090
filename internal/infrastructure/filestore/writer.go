package filestore

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	domain "marketdata-downloader/internal/domain/entity/marketdata"
)

const timeLayout = "2006-01-02 15:04:05.000"

type TickRow struct {
	Time     string `csv:"time"`
	Price    string `csv:"price"`
	Bid      string `csv:"bid"`
	Ask      string `csv:"ask"`
	Quantity string `csv:"quantity"`
}

type BarRow struct {
	Start  string `csv:"start"`
	End    string `csv:"end"`
	Open   string `csv:"open"`
	High   string `csv:"high"`
	Low    string `csv:"low"`
	Close  string `csv:"close"`
	Volume string `csv:"volume"`
}

// Writer stores series as CSV files under root. Intraday resolutions get one
// file per trading date, hour and daily one file per symbol.
type Writer struct {
	root   string
	logger *logrus.Entry
}

func NewWriter(root string, logger *logrus.Logger) (*Writer, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}
	return &Writer{root: root, logger: logger.WithField("component", "csv_writer")}, nil
}

func (w *Writer) WriteTicks(_ context.Context, symbol domain.Symbol, ticks []domain.Tick) error {
	byDate := make(map[string][]*TickRow)
	dates := make([]string, 0)
	for _, tick := range ticks {
		date := tick.Time.Format("20060102")
		if _, ok := byDate[date]; !ok {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], &TickRow{
			Time:     tick.Time.Format(timeLayout),
			Price:    tick.Value.String(),
			Bid:      tick.Bid.String(),
			Ask:      tick.Ask.String(),
			Quantity: tick.Quantity.String(),
		})
	}
	for _, date := range dates {
		path := w.Path(symbol, domain.ResolutionTick, date)
		if err := writeAtomic(path, byDate[date]); err != nil {
			return err
		}
		w.logWrite(path, len(byDate[date]))
	}
	return nil
}

func (w *Writer) WriteBars(_ context.Context, symbol domain.Symbol, resolution domain.Resolution, bars []domain.TradeBar) error {
	if len(bars) == 0 {
		return nil
	}
	if !splitsByDate(resolution) {
		rows := make([]*BarRow, 0, len(bars))
		for _, bar := range bars {
			rows = append(rows, barRow(bar))
		}
		path := w.Path(symbol, resolution, "")
		if err := writeAtomic(path, rows); err != nil {
			return err
		}
		w.logWrite(path, len(rows))
		return nil
	}

	byDate := make(map[string][]*BarRow)
	dates := make([]string, 0)
	for _, bar := range bars {
		date := bar.Time.Format("20060102")
		if _, ok := byDate[date]; !ok {
			dates = append(dates, date)
		}
		byDate[date] = append(byDate[date], barRow(bar))
	}
	for _, date := range dates {
		path := w.Path(symbol, resolution, date)
		if err := writeAtomic(path, byDate[date]); err != nil {
			return err
		}
		w.logWrite(path, len(byDate[date]))
	}
	return nil
}

// Path is where a series lands. date is yyyymmdd and ignored for hour and daily.
func (w *Writer) Path(symbol domain.Symbol, resolution domain.Resolution, date string) string {
	ticker := strings.ToLower(symbol.Ticker)
	if !symbol.Expiry.IsZero() {
		ticker = fmt.Sprintf("%s_%s", ticker, symbol.Expiry.Format("20060102"))
	}
	dir := filepath.Join(w.root, symbol.SecurityType.String(), symbol.Market.String(), resolution.String())
	if !splitsByDate(resolution) {
		return filepath.Join(dir, ticker+".csv")
	}
	suffix := "trade"
	if resolution == domain.ResolutionTick {
		suffix = "tick"
	}
	return filepath.Join(dir, ticker, fmt.Sprintf("%s_%s.csv", date, suffix))
}

func (w *Writer) logWrite(path string, rows int) {
	w.logger.WithFields(logrus.Fields{"path": path, "rows": rows}).Debug("series written")
}

func splitsByDate(resolution domain.Resolution) bool {
	return resolution != domain.ResolutionHour && resolution != domain.ResolutionDaily
}

func barRow(bar domain.TradeBar) *BarRow {
	return &BarRow{
		Start:  bar.Time.Format(timeLayout),
		End:    bar.EndTime.Format(timeLayout),
		Open:   bar.Open.String(),
		High:   bar.High.String(),
		Low:    bar.Low.String(),
		Close:  bar.Close.String(),
		Volume: bar.Volume.String(),
	}
}

// writeAtomic replaces path with rows, leaving the old file in place on failure.
func writeAtomic(path string, rows any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create dir for %s: %w", path, err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+"-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	defer os.Remove(tmp.Name())

	if err := gocsv.MarshalFile(rows, tmp); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", path, err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename %s: %w", path, err)
	}
	return nil
}

