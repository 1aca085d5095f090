package marketdata

import (
	"time"
	_ "time/tzdata"
)

// NewYork is the daylight-aware zone the feed reports timestamps in.
var NewYork = mustLoadLocation("America/New_York")

// EasternStandard is New York without daylight saving; non-equity data is kept in it.
var EasternStandard = time.FixedZone("EST", -5*60*60)

func mustLoadLocation(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		panic(err)
	}
	return loc
}

// ExchangeTime applies the feed timestamp rule: equities keep the feed's
// New York time, every other security type is moved to Eastern Standard.
func ExchangeTime(securityType SecurityType, t time.Time) time.Time {
	if securityType == SecurityTypeEquity {
		return t.In(NewYork)
	}
	return t.In(EasternStandard)
}

// TruncateWall rounds t down to a multiple of d measured on its wall clock,
// so daily buckets start at local midnight rather than UTC midnight. When New
// York falls back, both occurrences of the repeated hour truncate to its first
// occurrence and share one bucket; equity sessions never trade at that hour.
func TruncateWall(t time.Time, d time.Duration) time.Time {
	if d <= 0 {
		return t
	}
	wall := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), time.UTC)
	w := wall.Truncate(d)
	return time.Date(w.Year(), w.Month(), w.Day(), w.Hour(), w.Minute(), w.Second(), w.Nanosecond(), t.Location())
}
