package interfaces

import (
	"context"
	"iter"

	"marketdata-downloader/internal/domain/entity/feed"
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

// FeedConnector retrieves raw history from the vendor. Implementations cap
// the number of calls in flight at the vendor's session limit.
type FeedConnector interface {
	// Stream returns the messages oldest-first without touching disk.
	Stream(ctx context.Context, req feed.Request) (iter.Seq2[feed.Message, error], error)
	// Download writes the same messages to a temporary CSV file of feed.Record rows
	// and returns its path. The caller owns the file.
	Download(ctx context.Context, req feed.Request) (string, error)
}

// Writer persists a finished series for one symbol and one resolution.
type Writer interface {
	WriteTicks(ctx context.Context, symbol marketdata.Symbol, ticks []marketdata.Tick) error
	WriteBars(ctx context.Context, symbol marketdata.Symbol, resolution marketdata.Resolution, bars []marketdata.TradeBar) error
}
