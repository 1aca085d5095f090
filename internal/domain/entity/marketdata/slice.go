package marketdata

import "time"

// Slice carries exactly one of Tick or Bar, keyed by its close/event time.
type Slice struct {
	Time time.Time
	Tick *Tick
	Bar  *TradeBar
}

func TickSlice(tick Tick) Slice {
	return Slice{Time: tick.Time, Tick: &tick}
}

func BarSlice(bar TradeBar) Slice {
	return Slice{Time: bar.EndTime, Bar: &bar}
}

// Ticks returns the ticks carried by slices, preserving order.
func Ticks(slices []Slice) []Tick {
	ticks := make([]Tick, 0, len(slices))
	for _, s := range slices {
		if s.Tick != nil {
			ticks = append(ticks, *s.Tick)
		}
	}
	return ticks
}

// Bars returns the trade bars carried by slices, preserving order.
func Bars(slices []Slice) []TradeBar {
	bars := make([]TradeBar, 0, len(slices))
	for _, s := range slices {
		if s.Bar != nil {
			bars = append(bars, *s.Bar)
		}
	}
	return bars
}
