package instruments

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var ErrInvalidInstrument = errors.New("invalid instrument")

type InstrumentType string

const (
	ShareType    InstrumentType = "share"
	FutureType   InstrumentType = "future"
	CurrencyType InstrumentType = "currency"
)

type AssetType string

const (
	AssetTypeIndex     AssetType = "TYPE_INDEX"
	AssetTypeCommodity AssetType = "TYPE_COMMODITY"
	AssetTypeSecurity  AssetType = "TYPE_SECURITY"
	AssetTypeCurrency  AssetType = "TYPE_CURRENCY"
)

func (at AssetType) String() string {
	return string(at)
}

func (at AssetType) IsValid() bool {
	switch at {
	case AssetTypeIndex, AssetTypeCommodity, AssetTypeSecurity, AssetTypeCurrency:
		return true
	default:
		return false
	}
}

func NewAssetType(s string) (AssetType, error) {
	at := AssetType(s)
	if !at.IsValid() {
		return "", fmt.Errorf("invalid asset type: %s", s)
	}
	return at, nil
}

// Instrument is the listing data shared by every tradable instrument in the catalog.
type Instrument struct {
	UID       uuid.UUID
	Figi      string
	Ticker    string
	Name      string
	Lot       int32
	ClassCode string
	Exchange  string
}

func (i Instrument) GetUID() uuid.UUID { return i.UID }
func (i Instrument) GetFigi() string   { return i.Figi }
func (i Instrument) GetTicker() string { return i.Ticker }
func (i Instrument) GetLots() int32    { return i.Lot }

// Validate reports listings the catalog cannot address by ticker or uid.
func (i Instrument) Validate() error {
	switch {
	case i.UID == uuid.Nil:
		return fmt.Errorf("%w: empty uid for %q", ErrInvalidInstrument, i.Ticker)
	case strings.TrimSpace(i.Figi) == "":
		return fmt.Errorf("%w: empty figi for %q", ErrInvalidInstrument, i.Ticker)
	case strings.TrimSpace(i.Ticker) == "":
		return fmt.Errorf("%w: empty ticker for %s", ErrInvalidInstrument, i.UID)
	case i.Lot < 0:
		return fmt.Errorf("%w: negative lot for %q", ErrInvalidInstrument, i.Ticker)
	}
	return nil
}
