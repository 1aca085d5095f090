package interfaces

import (
	"context"

	"marketdata-downloader/internal/domain/entity/instruments"
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

// InstrumentResolver maps a ticker to the broker API's instrument uid.
type InstrumentResolver interface {
	ResolveUID(ctx context.Context, ticker string, securityType marketdata.SecurityType) (string, error)
}

// InstrumentStore persists broker listings into the instrument catalog.
type InstrumentStore interface {
	SaveShares(ctx context.Context, shares []instruments.Share) error
	SaveFutures(ctx context.Context, futures []instruments.Future) error
	SaveCurrencies(ctx context.Context, currencies []instruments.Currency) error
}
