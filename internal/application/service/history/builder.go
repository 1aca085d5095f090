package history

import (
	"time"

	"github.com/shopspring/decimal"

	"marketdata-downloader/internal/domain/entity/feed"
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

type convertFunc func(msg feed.Message, req marketdata.HistoryRequest) marketdata.Slice

// SliceBuilder turns raw feed messages into domain slices, one converter per message kind.
type SliceBuilder struct {
	converters map[feed.Kind]convertFunc
}

func NewSliceBuilder() *SliceBuilder {
	return &SliceBuilder{
		converters: map[feed.Kind]convertFunc{
			feed.KindTick:     convertTick,
			feed.KindInterval: convertInterval,
			feed.KindDaily:    convertDaily,
		},
	}
}

// Build converts msg. It returns false for sentinel messages without a
// timestamp and for kinds it has no converter for.
func (b *SliceBuilder) Build(msg feed.Message, req marketdata.HistoryRequest) (marketdata.Slice, bool) {
	if msg == nil || msg.Time().IsZero() {
		return marketdata.Slice{}, false
	}
	convert, ok := b.converters[msg.Kind()]
	if !ok {
		return marketdata.Slice{}, false
	}
	return convert(msg, req), true
}

func convertTick(msg feed.Message, req marketdata.HistoryRequest) marketdata.Slice {
	m := msg.(feed.TickMessage)
	return marketdata.TickSlice(marketdata.Tick{
		Symbol:   req.Symbol,
		Time:     marketdata.ExchangeTime(req.Symbol.SecurityType, m.Timestamp),
		Value:    price(m.Last),
		Bid:      price(m.Bid),
		Ask:      price(m.Ask),
		Quantity: price(m.Size),
	})
}

// convertInterval labels the bar with its close: the message time is the end.
func convertInterval(msg feed.Message, req marketdata.HistoryRequest) marketdata.Slice {
	m := msg.(feed.IntervalMessage)
	end := marketdata.ExchangeTime(req.Symbol.SecurityType, m.Timestamp)
	return marketdata.BarSlice(marketdata.TradeBar{
		Symbol:  req.Symbol,
		Time:    end.Add(-req.Resolution.Period()),
		EndTime: end,
		Open:    price(m.Open),
		High:    price(m.High),
		Low:     price(m.Low),
		Close:   price(m.Close),
		Volume:  price(m.PeriodVolume),
	})
}

func convertDaily(msg feed.Message, req marketdata.HistoryRequest) marketdata.Slice {
	m := msg.(feed.DailyMessage)
	// The bar keeps the feed's calendar date and takes the exchange zone.
	loc := marketdata.ExchangeTime(req.Symbol.SecurityType, m.Timestamp).Location()
	start := time.Date(m.Timestamp.Year(), m.Timestamp.Month(), m.Timestamp.Day(), 0, 0, 0, 0, loc)
	return marketdata.BarSlice(marketdata.TradeBar{
		Symbol:  req.Symbol,
		Time:    start,
		EndTime: start.Add(req.Resolution.Period()),
		Open:    price(m.Open),
		High:    price(m.High),
		Low:     price(m.Low),
		Close:   price(m.Close),
		Volume:  price(m.PeriodVolume),
	})
}

func price(f float64) decimal.Decimal {
	return decimal.NewFromFloat(f)
}
