package history

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"os"
	"strings"
	"time"

	"github.com/gocarina/gocsv"
	"github.com/sirupsen/logrus"

	"marketdata-downloader/internal/domain/entity/feed"
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
	interfaces "marketdata-downloader/internal/domain/interfaces"
)

var ErrUnknownStrategy = errors.New("unknown fetch strategy")

// openEndWindow is how close to now an end bound may be before it is dropped.
const openEndWindow = time.Minute

// Strategy selects how a MessageSource gets data out of the connector.
type Strategy string

const (
	// StrategyFile downloads to a temporary file, parses it and removes it.
	StrategyFile Strategy = "file"
	// StrategyMemory streams messages straight from the connector.
	StrategyMemory Strategy = "memory"
)

func ParseStrategy(s string) (Strategy, error) {
	switch st := Strategy(strings.ToLower(strings.TrimSpace(s))); st {
	case StrategyFile, StrategyMemory:
		return st, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownStrategy, s)
	}
}

// MessageSource yields raw feed messages oldest-first. Nothing is fetched
// until the sequence is iterated.
type MessageSource interface {
	Messages(ctx context.Context, req feed.Request) iter.Seq2[feed.Message, error]
}

func NewMessageSource(strategy Strategy, connector interfaces.FeedConnector, logger *logrus.Logger) (MessageSource, error) {
	switch strategy {
	case StrategyFile:
		return &fileSource{
			connector: connector,
			logger:    logger.WithField("component", "file_source"),
		}, nil
	case StrategyMemory:
		return &memorySource{connector: connector}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownStrategy, strategy)
	}
}

// NewFeedRequest translates a history request into the connector's terms.
func NewFeedRequest(req marketdata.HistoryRequest, now time.Time) feed.Request {
	fr := feed.Request{
		Ticker:       req.Symbol.Ticker,
		SecurityType: req.Symbol.SecurityType.String(),
		Start:        req.StartUTC.In(marketdata.NewYork),
		OldestFirst:  true,
	}

	switch req.Resolution {
	case marketdata.ResolutionTick:
		fr.Kind = feed.KindTick
	case marketdata.ResolutionDaily:
		fr.Kind = feed.KindDaily
	default:
		fr.Kind = feed.KindInterval
		fr.IntervalSeconds = IntervalSeconds(req.Resolution)
	}

	if req.EndUTC.Before(now.Add(-openEndWindow)) {
		end := req.EndUTC.In(marketdata.NewYork)
		fr.End = &end
	}
	return fr
}

// IntervalSeconds is the feed interval length for an intraday bar resolution.
// It panics for tick and daily, which have no interval form.
func IntervalSeconds(resolution marketdata.Resolution) int {
	switch resolution {
	case marketdata.ResolutionSecond:
		return 1
	case marketdata.ResolutionMinute:
		return 60
	case marketdata.ResolutionHour:
		return 3600
	default:
		panic(fmt.Sprintf("history: no interval length for %q resolution", resolution))
	}
}

type memorySource struct {
	connector interfaces.FeedConnector
}

func (s *memorySource) Messages(ctx context.Context, req feed.Request) iter.Seq2[feed.Message, error] {
	return func(yield func(feed.Message, error) bool) {
		seq, err := s.connector.Stream(ctx, req)
		if err != nil {
			yield(nil, fmt.Errorf("stream history: %w", err))
			return
		}
		for msg, err := range seq {
			if !yield(msg, err) || err != nil {
				return
			}
		}
	}
}

type fileSource struct {
	connector interfaces.FeedConnector
	logger    *logrus.Entry
}

var errStopIteration = errors.New("iteration stopped")

func (s *fileSource) Messages(ctx context.Context, req feed.Request) iter.Seq2[feed.Message, error] {
	return func(yield func(feed.Message, error) bool) {
		path, err := s.connector.Download(ctx, req)
		if err != nil {
			yield(nil, fmt.Errorf("download history: %w", err))
			return
		}
		defer s.remove(path)

		if err := s.parse(path, yield); err != nil {
			yield(nil, err)
		}
	}
}

func (s *fileSource) parse(path string, yield func(feed.Message, error) bool) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open download: %w", err)
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return fmt.Errorf("stat download: %w", err)
	}
	if info.Size() == 0 {
		return nil
	}

	err = gocsv.UnmarshalToCallbackWithError(f, func(rec feed.Record) error {
		msg, err := rec.Message(marketdata.NewYork)
		if err != nil {
			return err
		}
		if !yield(msg, nil) {
			return errStopIteration
		}
		return nil
	})
	if err != nil && !errors.Is(err, errStopIteration) {
		return fmt.Errorf("parse download %s: %w", path, err)
	}
	return nil
}

// remove deletes the temporary file. A failure here never fails the item.
func (s *fileSource) remove(path string) {
	if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
		s.logger.WithError(err).WithField("path", path).Warn("remove temporary download")
	}
}
