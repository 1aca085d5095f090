package instruments

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	domain "marketdata-downloader/internal/domain/entity/instruments"
	interfaces "marketdata-downloader/internal/domain/interfaces"
)

var ErrNilStore = errors.New("instrument store is nil")

// Listing is one snapshot of the broker's tradable instruments.
type Listing struct {
	Shares     []domain.Share
	Futures    []domain.Future
	Currencies []domain.Currency
}

// Summary counts what a sync saved and skipped per instrument type.
type Summary struct {
	Saved   map[domain.InstrumentType]int
	Skipped map[domain.InstrumentType]int
}

type Service struct {
	store  interfaces.InstrumentStore
	logger *logrus.Entry
}

func NewService(store interfaces.InstrumentStore, logger *logrus.Logger) (*Service, error) {
	if store == nil {
		return nil, ErrNilStore
	}
	return &Service{store: store, logger: logger.WithField("component", "catalog_sync")}, nil
}

// Sync upserts the listing into the store. Invalid and duplicate rows are
// logged and skipped; a store failure aborts the sync.
func (s *Service) Sync(ctx context.Context, listing Listing) (Summary, error) {
	summary := Summary{
		Saved:   make(map[domain.InstrumentType]int),
		Skipped: make(map[domain.InstrumentType]int),
	}

	shares := keepValid(s.logger, listing.Shares, domain.ShareType, summary)
	if err := s.store.SaveShares(ctx, shares); err != nil {
		return summary, fmt.Errorf("save shares: %w", err)
	}
	summary.Saved[domain.ShareType] = len(shares)

	futures := keepValid(s.logger, listing.Futures, domain.FutureType, summary)
	if err := s.store.SaveFutures(ctx, futures); err != nil {
		return summary, fmt.Errorf("save futures: %w", err)
	}
	summary.Saved[domain.FutureType] = len(futures)

	currencies := keepValid(s.logger, listing.Currencies, domain.CurrencyType, summary)
	if err := s.store.SaveCurrencies(ctx, currencies); err != nil {
		return summary, fmt.Errorf("save currencies: %w", err)
	}
	summary.Saved[domain.CurrencyType] = len(currencies)

	s.logger.WithFields(logrus.Fields{
		"shares":     summary.Saved[domain.ShareType],
		"futures":    summary.Saved[domain.FutureType],
		"currencies": summary.Saved[domain.CurrencyType],
	}).Info("catalog synced")
	return summary, nil
}

type listed interface {
	Validate() error
	GetFigi() string
	GetTicker() string
}

func keepValid[T listed](logger *logrus.Entry, items []T, group domain.InstrumentType, summary Summary) []T {
	seen := make(map[string]struct{}, len(items))
	kept := make([]T, 0, len(items))
	for _, item := range items {
		if err := item.Validate(); err != nil {
			logger.WithError(err).WithField("type", group).Warn("skip instrument")
			summary.Skipped[group]++
			continue
		}
		figi := strings.TrimSpace(item.GetFigi())
		if _, dup := seen[figi]; dup {
			logger.WithFields(logrus.Fields{"type": group, "figi": figi, "ticker": item.GetTicker()}).Warn("skip duplicate figi")
			summary.Skipped[group]++
			continue
		}
		seen[figi] = struct{}{}
		kept = append(kept, item)
	}
	return kept
}
