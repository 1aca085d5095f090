package marketdata

import (
	"errors"
	"fmt"
	"time"
)

var ErrInvalidRange = errors.New("start must not be after end")

// HistoryRequest asks for one symbol at one resolution between two UTC instants.
type HistoryRequest struct {
	Symbol     Symbol
	Resolution Resolution
	StartUTC   time.Time
	EndUTC     time.Time
	// IsCanonical marks canonical/universe requests, which this pipeline never serves.
	IsCanonical bool
}

func NewHistoryRequest(symbol Symbol, resolution Resolution, start, end time.Time) (HistoryRequest, error) {
	req := HistoryRequest{
		Symbol:     symbol,
		Resolution: resolution,
		StartUTC:   start.UTC(),
		EndUTC:     end.UTC(),
	}
	if err := req.Validate(); err != nil {
		return HistoryRequest{}, err
	}
	return req, nil
}

func (r HistoryRequest) Validate() error {
	if !r.Resolution.IsValid() {
		return fmt.Errorf("%w: %s", ErrUnknownResolution, r.Resolution)
	}
	if r.StartUTC.After(r.EndUTC) {
		return fmt.Errorf("%w: %s > %s", ErrInvalidRange, r.StartUTC.Format(time.RFC3339), r.EndUTC.Format(time.RFC3339))
	}
	return nil
}
