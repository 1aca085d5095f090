package feed

import (
	"fmt"
	"strconv"
	"time"
)

// TimestampLayout is the civil-time layout used in temporary files.
const TimestampLayout = "2006-01-02 15:04:05.000000"

// Record is one row of the connector's serialized download.
type Record struct {
	Kind      Kind   `csv:"kind"`
	Timestamp string `csv:"timestamp"`
	Last      string `csv:"last"`
	Bid       string `csv:"bid"`
	Ask       string `csv:"ask"`
	Size      string `csv:"size"`
	Open      string `csv:"open"`
	High      string `csv:"high"`
	Low       string `csv:"low"`
	Close     string `csv:"close"`
	Volume    string `csv:"volume"`
}

func RecordOf(msg Message) Record {
	rec := Record{Kind: msg.Kind(), Timestamp: formatTime(msg.Time())}
	switch m := msg.(type) {
	case TickMessage:
		rec.Last = formatFloat(m.Last)
		rec.Bid = formatFloat(m.Bid)
		rec.Ask = formatFloat(m.Ask)
		rec.Size = formatFloat(m.Size)
	case IntervalMessage:
		rec.Open, rec.High, rec.Low, rec.Close = formatFloat(m.Open), formatFloat(m.High), formatFloat(m.Low), formatFloat(m.Close)
		rec.Volume = formatFloat(m.PeriodVolume)
	case DailyMessage:
		rec.Open, rec.High, rec.Low, rec.Close = formatFloat(m.Open), formatFloat(m.High), formatFloat(m.Low), formatFloat(m.Close)
		rec.Volume = formatFloat(m.PeriodVolume)
	}
	return rec
}

// Message decodes the row into its variant. Timestamps are read in loc.
func (r Record) Message(loc *time.Location) (Message, error) {
	ts, err := parseTime(r.Timestamp, loc)
	if err != nil {
		return nil, err
	}
	p := parser{}
	switch r.Kind {
	case KindTick:
		msg := TickMessage{
			Timestamp: ts,
			Last:      p.float("last", r.Last),
			Bid:       p.float("bid", r.Bid),
			Ask:       p.float("ask", r.Ask),
			Size:      p.float("size", r.Size),
		}
		return msg, p.err
	case KindInterval:
		msg := IntervalMessage{
			Timestamp:    ts,
			Open:         p.float("open", r.Open),
			High:         p.float("high", r.High),
			Low:          p.float("low", r.Low),
			Close:        p.float("close", r.Close),
			PeriodVolume: p.float("volume", r.Volume),
		}
		return msg, p.err
	case KindDaily:
		msg := DailyMessage{
			Timestamp:    ts,
			Open:         p.float("open", r.Open),
			High:         p.float("high", r.High),
			Low:          p.float("low", r.Low),
			Close:        p.float("close", r.Close),
			PeriodVolume: p.float("volume", r.Volume),
		}
		return msg, p.err
	default:
		return nil, fmt.Errorf("unknown record kind %q", r.Kind)
	}
}

type parser struct {
	err error
}

func (p *parser) float(column, value string) float64 {
	if p.err != nil || value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		p.err = fmt.Errorf("parse %s %q: %w", column, value, err)
		return 0
	}
	return f
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(TimestampLayout)
}

func parseTime(value string, loc *time.Location) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	t, err := time.ParseInLocation(TimestampLayout, value, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse timestamp %q: %w", value, err)
	}
	return t, nil
}
