package history

import (
	"slices"
	"time"

	"github.com/shopspring/decimal"

	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

// AggregateTicks rolls ticks into bars of the given size. Bucket keys are tick
// times truncated on the wall clock; empty buckets produce no bar. Ticks are
// taken in the order given, so equal timestamps keep arrival order for open
// and close.
func AggregateTicks(ticks []marketdata.Tick, symbol marketdata.Symbol, bucket time.Duration) []marketdata.TradeBar {
	if len(ticks) == 0 || bucket <= 0 {
		return nil
	}

	buckets := make(map[int64]*marketdata.TradeBar)
	keys := make([]int64, 0)
	for _, tick := range ticks {
		start := marketdata.TruncateWall(tick.Time, bucket)
		key := start.UnixNano()

		bar, ok := buckets[key]
		if !ok {
			bar = &marketdata.TradeBar{
				Symbol:  symbol,
				Time:    start,
				EndTime: start.Add(bucket),
				Open:    tick.Value,
				High:    tick.Value,
				Low:     tick.Value,
				Volume:  decimal.Zero,
			}
			buckets[key] = bar
			keys = append(keys, key)
		}
		if tick.Value.GreaterThan(bar.High) {
			bar.High = tick.Value
		}
		if tick.Value.LessThan(bar.Low) {
			bar.Low = tick.Value
		}
		bar.Close = tick.Value
		bar.Volume = bar.Volume.Add(tick.Quantity)
	}

	slices.Sort(keys)
	bars := make([]marketdata.TradeBar, 0, len(keys))
	for _, key := range keys {
		bars = append(bars, *buckets[key])
	}
	return bars
}
