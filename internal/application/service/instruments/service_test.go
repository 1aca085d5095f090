package instruments

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "marketdata-downloader/internal/domain/entity/instruments"
)

type memoryStore struct {
	shares     []domain.Share
	futures    []domain.Future
	currencies []domain.Currency
	err        error
}

func (m *memoryStore) SaveShares(_ context.Context, shares []domain.Share) error {
	m.shares = append(m.shares, shares...)
	return m.err
}

func (m *memoryStore) SaveFutures(_ context.Context, futures []domain.Future) error {
	m.futures = append(m.futures, futures...)
	return nil
}

func (m *memoryStore) SaveCurrencies(_ context.Context, currencies []domain.Currency) error {
	m.currencies = append(m.currencies, currencies...)
	return nil
}

func instrument(figi, ticker string) domain.Instrument {
	return domain.Instrument{UID: uuid.New(), Figi: figi, Ticker: ticker, Lot: 1}
}

func TestNewServiceRequiresStore(t *testing.T) {
	_, err := NewService(nil, logrus.New())
	assert.ErrorIs(t, err, ErrNilStore)
}

func TestSync(t *testing.T) {
	logger, hook := test.NewNullLogger()
	store := &memoryStore{}
	svc, err := NewService(store, logger)
	require.NoError(t, err)

	summary, err := svc.Sync(context.Background(), Listing{
		Shares: []domain.Share{
			{Instrument: instrument("BBG000BDTBL9", "SPY")},
			{Instrument: instrument("BBG000BDTBL9", "SPY")},
			{Instrument: domain.Instrument{Figi: "BBG000B9XRY4", Ticker: "AAPL"}},
		},
		Futures: []domain.Future{
			{Instrument: instrument("FUTES0624000", "ESM4"), AssetType: domain.AssetTypeIndex},
		},
		Currencies: []domain.Currency{
			{Instrument: instrument("BBG0013HGFT4", "USD000UTSTOM"), IsoCode: "usd"},
		},
	})
	require.NoError(t, err)

	assert.Len(t, store.shares, 1)
	assert.Len(t, store.futures, 1)
	assert.Len(t, store.currencies, 1)
	assert.Equal(t, 1, summary.Saved[domain.ShareType])
	assert.Equal(t, 2, summary.Skipped[domain.ShareType])
	assert.Zero(t, summary.Skipped[domain.FutureType])

	warnings := 0
	for _, entry := range hook.AllEntries() {
		if entry.Level == logrus.WarnLevel {
			warnings++
		}
	}
	assert.Equal(t, 2, warnings)
	assert.Equal(t, "catalog synced", hook.LastEntry().Message)
}

func TestSyncStoreError(t *testing.T) {
	logger, _ := test.NewNullLogger()
	boom := errors.New("connection reset")
	store := &memoryStore{err: boom}
	svc, err := NewService(store, logger)
	require.NoError(t, err)

	_, err = svc.Sync(context.Background(), Listing{Shares: []domain.Share{{Instrument: instrument("BBG000BDTBL9", "SPY")}}})
	assert.ErrorIs(t, err, boom)
	assert.Empty(t, store.futures)
}
