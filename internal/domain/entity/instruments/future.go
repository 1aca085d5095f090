package instruments

import (
	"fmt"
	"time"
)

// Future is a single dated futures contract.
type Future struct {
	Instrument
	BasicAsset              string
	ExpirationDate          time.Time
	MinPriceIncrement       float64
	MinPriceIncrementAmount float64
	AssetType               AssetType
}

func (f Future) GetType() InstrumentType { return FutureType }

func (f Future) Validate() error {
	if err := f.Instrument.Validate(); err != nil {
		return err
	}
	if f.AssetType != "" && !f.AssetType.IsValid() {
		return fmt.Errorf("%w: asset type %q for %q", ErrInvalidInstrument, f.AssetType, f.Ticker)
	}
	return nil
}
