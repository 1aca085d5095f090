package invest

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"time"

	"github.com/gocarina/gocsv"
	pb "github.com/russianinvestments/invest-api-go-sdk/proto"
	"github.com/sirupsen/logrus"
	"google.golang.org/protobuf/types/known/timestamppb"

	"marketdata-downloader/internal/domain/entity/feed"
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
	interfaces "marketdata-downloader/internal/domain/interfaces"
)

var ErrUnsupportedInterval = errors.New("interval not offered by the broker api")

// tradeWindow is the longest range the trades endpoint accepts per call.
const tradeWindow = time.Hour

var candleIntervals = map[int]pb.CandleInterval{
	60:   pb.CandleInterval_CANDLE_INTERVAL_1_MIN,
	3600: pb.CandleInterval_CANDLE_INTERVAL_HOUR,
}

// Connector serves feed requests from the broker API: trades become tick
// messages and historic candles become interval or daily messages.
type Connector struct {
	api      HistoryAPI
	resolver interfaces.InstrumentResolver
	tempDir  string
	now      func() time.Time
	logger   *logrus.Entry
}

func NewConnector(api HistoryAPI, resolver interfaces.InstrumentResolver, tempDir string, logger *logrus.Logger) *Connector {
	return &Connector{
		api:      api,
		resolver: resolver,
		tempDir:  tempDir,
		now:      time.Now,
		logger:   logger.WithField("component", "invest_connector"),
	}
}

func (c *Connector) Stream(ctx context.Context, req feed.Request) (iter.Seq2[feed.Message, error], error) {
	uid, err := c.resolver.ResolveUID(ctx, req.Ticker, marketdata.SecurityType(req.SecurityType))
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", req.Ticker, err)
	}
	from, to := c.bounds(req)

	switch req.Kind {
	case feed.KindTick:
		return c.trades(ctx, uid, from, to), nil
	case feed.KindInterval, feed.KindDaily:
		interval, err := candleInterval(req)
		if err != nil {
			return nil, err
		}
		candles, err := c.api.HistoricCandles(uid, interval, from, to)
		if err != nil {
			return nil, err
		}
		return candleMessages(candles, req), nil
	default:
		return nil, fmt.Errorf("unknown message kind %q", req.Kind)
	}
}

// Download materializes Stream into a temporary CSV file of feed records.
func (c *Connector) Download(ctx context.Context, req feed.Request) (string, error) {
	seq, err := c.Stream(ctx, req)
	if err != nil {
		return "", err
	}

	records := make([]feed.Record, 0)
	for msg, err := range seq {
		if err != nil {
			return "", err
		}
		records = append(records, feed.RecordOf(msg))
	}

	f, err := os.CreateTemp(c.tempDir, "history-*.csv")
	if err != nil {
		return "", fmt.Errorf("create temporary download: %w", err)
	}
	defer f.Close()

	if len(records) > 0 {
		if err := gocsv.MarshalFile(&records, f); err != nil {
			_ = os.Remove(f.Name())
			return "", fmt.Errorf("write temporary download: %w", err)
		}
	}

	c.logger.WithFields(logrus.Fields{
		"ticker":  req.Ticker,
		"kind":    req.Kind,
		"records": len(records),
	}).Debug("history downloaded")
	return f.Name(), nil
}

func (c *Connector) bounds(req feed.Request) (time.Time, time.Time) {
	to := c.now().UTC()
	if req.End != nil {
		to = req.End.UTC()
	}
	return req.Start.UTC(), to
}

func (c *Connector) trades(ctx context.Context, uid string, from, to time.Time) iter.Seq2[feed.Message, error] {
	return func(yield func(feed.Message, error) bool) {
		for start := from; start.Before(to); start = start.Add(tradeWindow) {
			if err := ctx.Err(); err != nil {
				yield(nil, err)
				return
			}
			end := start.Add(tradeWindow)
			if end.After(to) {
				end = to
			}

			trades, err := c.api.LastTrades(uid, start, end)
			if err != nil {
				yield(nil, err)
				return
			}
			for _, trade := range trades {
				if trade == nil {
					continue
				}
				if !yield(tradeMessage(trade), nil) {
					return
				}
			}
		}
	}
}

func candleInterval(req feed.Request) (pb.CandleInterval, error) {
	if req.Kind == feed.KindDaily {
		return pb.CandleInterval_CANDLE_INTERVAL_DAY, nil
	}
	interval, ok := candleIntervals[req.IntervalSeconds]
	if !ok {
		return pb.CandleInterval_CANDLE_INTERVAL_UNSPECIFIED, fmt.Errorf("%w: %ds", ErrUnsupportedInterval, req.IntervalSeconds)
	}
	return interval, nil
}

func candleMessages(candles []*pb.HistoricCandle, req feed.Request) iter.Seq2[feed.Message, error] {
	period := time.Duration(req.IntervalSeconds) * time.Second
	return func(yield func(feed.Message, error) bool) {
		for _, candle := range candles {
			if candle == nil || !candle.GetIsComplete() {
				continue
			}
			var msg feed.Message
			opened := timestamp(candle.GetTime())
			if req.Kind == feed.KindDaily {
				msg = feed.DailyMessage{
					Timestamp:    sessionDate(candle.GetTime()),
					Open:         quotationToFloat(candle.GetOpen()),
					High:         quotationToFloat(candle.GetHigh()),
					Low:          quotationToFloat(candle.GetLow()),
					Close:        quotationToFloat(candle.GetClose()),
					PeriodVolume: float64(candle.GetVolume()),
				}
			} else {
				closed := opened
				if !opened.IsZero() {
					closed = opened.Add(period)
				}
				msg = feed.IntervalMessage{
					Timestamp:    closed,
					Open:         quotationToFloat(candle.GetOpen()),
					High:         quotationToFloat(candle.GetHigh()),
					Low:          quotationToFloat(candle.GetLow()),
					Close:        quotationToFloat(candle.GetClose()),
					PeriodVolume: float64(candle.GetVolume()),
				}
			}
			if !yield(msg, nil) {
				return
			}
		}
	}
}

func tradeMessage(trade *pb.Trade) feed.TickMessage {
	return feed.TickMessage{
		Timestamp: timestamp(trade.GetTime()),
		Last:      quotationToFloat(trade.GetPrice()),
		Size:      float64(trade.GetQuantity()),
	}
}

// timestamp converts to New York time; a missing stamp stays zero.
func timestamp(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	return ts.AsTime().In(marketdata.NewYork)
}

// sessionDate is midnight New York time on the candle's UTC trading date.
// Daily candles open near UTC midnight, so their New York time can fall on
// the previous day.
func sessionDate(ts *timestamppb.Timestamp) time.Time {
	if ts == nil {
		return time.Time{}
	}
	utc := ts.AsTime().UTC()
	return time.Date(utc.Year(), utc.Month(), utc.Day(), 0, 0, 0, 0, marketdata.NewYork)
}

func quotationToFloat(q *pb.Quotation) float64 {
	if q == nil {
		return 0
	}
	return q.ToFloat()
}
