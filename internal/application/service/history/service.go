package history

import (
	"context"
	"iter"
	"time"

	"github.com/sirupsen/logrus"

	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

// Service runs the eligibility check, message retrieval and slice building
// for a single history request.
type Service struct {
	source  MessageSource
	builder *SliceBuilder
	logger  *logrus.Entry
	now     func() time.Time
}

func NewService(source MessageSource, logger *logrus.Logger) *Service {
	return &Service{
		source:  source,
		builder: NewSliceBuilder(),
		logger:  logger.WithField("component", "history"),
		now:     time.Now,
	}
}

// WithClock replaces the clock used for the open-end rule.
func (s *Service) WithClock(now func() time.Time) *Service {
	s.now = now
	return s
}

// History yields the request's slices oldest-first. Ineligible requests
// yield nothing. Iteration stops at the first error.
func (s *Service) History(ctx context.Context, req marketdata.HistoryRequest) iter.Seq2[marketdata.Slice, error] {
	return func(yield func(marketdata.Slice, error) bool) {
		if err := req.Validate(); err != nil {
			yield(marketdata.Slice{}, err)
			return
		}
		if !IsEligible(req) {
			s.logger.WithFields(logrus.Fields{
				"symbol":        req.Symbol.String(),
				"security_type": req.Symbol.SecurityType,
				"resolution":    req.Resolution,
			}).Warn("skip ineligible request")
			return
		}

		for msg, err := range s.source.Messages(ctx, NewFeedRequest(req, s.now().UTC())) {
			if err != nil {
				yield(marketdata.Slice{}, err)
				return
			}
			slice, ok := s.builder.Build(msg, req)
			if !ok {
				continue
			}
			if !yield(slice, nil) {
				return
			}
		}
	}
}

// Fetch collects History into memory.
func (s *Service) Fetch(ctx context.Context, req marketdata.HistoryRequest) ([]marketdata.Slice, error) {
	out := make([]marketdata.Slice, 0)
	for slice, err := range s.History(ctx, req) {
		if err != nil {
			return nil, err
		}
		out = append(out, slice)
	}
	return out, nil
}
