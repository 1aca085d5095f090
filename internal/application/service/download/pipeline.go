package download

import (
	"context"
	"fmt"
	"iter"
	"time"

	"github.com/sirupsen/logrus"

	"marketdata-downloader/internal/application/service/history"
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
	interfaces "marketdata-downloader/internal/domain/interfaces"
)

// HistorySource yields the slices of one history request, oldest-first.
type HistorySource interface {
	History(ctx context.Context, req marketdata.HistoryRequest) iter.Seq2[marketdata.Slice, error]
}

// Pipeline fetches one work item over a fixed date range and hands the
// result, plus anything aggregated from it, to the writer.
type Pipeline struct {
	history HistorySource
	writer  interfaces.Writer
	start   time.Time
	end     time.Time
	logger  *logrus.Entry
}

func NewPipeline(source HistorySource, writer interfaces.Writer, start, end time.Time, logger *logrus.Logger) (*Pipeline, error) {
	if start.After(end) {
		return nil, fmt.Errorf("%w: %s > %s", marketdata.ErrInvalidRange, start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	return &Pipeline{
		history: source,
		writer:  writer,
		start:   start.UTC(),
		end:     end.UTC(),
		logger:  logger.WithField("component", "pipeline"),
	}, nil
}

// Process streams the item's history into the writer. Bars are gathered
// straight from the stream; ticks are gathered once and reused for every
// derived resolution.
func (p *Pipeline) Process(ctx context.Context, item WorkItem) error {
	req, err := marketdata.NewHistoryRequest(item.Symbol, item.Resolution, p.start, p.end)
	if err != nil {
		return err
	}

	if item.Resolution != marketdata.ResolutionTick {
		bars, err := collect(p.history.History(ctx, req), func(s marketdata.Slice) *marketdata.TradeBar { return s.Bar })
		if err != nil {
			return fmt.Errorf("fetch %s: %w", item, err)
		}
		if len(bars) == 0 {
			p.logEmpty(item)
			return nil
		}
		return p.writeBars(ctx, item.Symbol, item.Resolution, bars)
	}

	ticks, err := collect(p.history.History(ctx, req), func(s marketdata.Slice) *marketdata.Tick { return s.Tick })
	if err != nil {
		return fmt.Errorf("fetch %s: %w", item, err)
	}
	if len(ticks) == 0 {
		p.logEmpty(item)
		return nil
	}
	if err := p.writer.WriteTicks(ctx, item.Symbol, ticks); err != nil {
		return fmt.Errorf("write %s ticks: %w", item.Symbol, err)
	}
	for _, res := range item.Derived {
		bars := history.AggregateTicks(ticks, item.Symbol, res.Period())
		if err := p.writeBars(ctx, item.Symbol, res, bars); err != nil {
			return err
		}
	}
	return nil
}

func (p *Pipeline) logEmpty(item WorkItem) {
	p.logger.WithFields(logrus.Fields{
		"symbol":     item.Symbol.String(),
		"resolution": item.Resolution,
	}).Info("no data in range")
}

// collect keeps the payload pick returns for each slice, skipping slices
// that carry none. It stops at the first error.
func collect[T any](seq iter.Seq2[marketdata.Slice, error], pick func(marketdata.Slice) *T) ([]T, error) {
	out := make([]T, 0)
	for slice, err := range seq {
		if err != nil {
			return nil, err
		}
		if v := pick(slice); v != nil {
			out = append(out, *v)
		}
	}
	return out, nil
}

func (p *Pipeline) writeBars(ctx context.Context, symbol marketdata.Symbol, res marketdata.Resolution, bars []marketdata.TradeBar) error {
	if len(bars) == 0 {
		return nil
	}
	if err := p.writer.WriteBars(ctx, symbol, res, bars); err != nil {
		return fmt.Errorf("write %s %s bars: %w", symbol, res, err)
	}
	return nil
}
