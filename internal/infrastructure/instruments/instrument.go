package instruments

import (
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
	"marketdata-downloader/internal/infrastructure/instruments/models"
)

// InstrumentWrapper is a catalog row of any table.
type InstrumentWrapper struct {
	instrument models.InstrumentModel
}

func NewInstrumentWrapper(instrument models.InstrumentModel) *InstrumentWrapper {
	return &InstrumentWrapper{instrument: instrument}
}

func (w *InstrumentWrapper) GetUID() string {
	if w.instrument == nil {
		return ""
	}
	return w.instrument.GetUID()
}

func (w *InstrumentWrapper) GetTicker() string {
	if w.instrument == nil {
		return ""
	}
	return w.instrument.GetTicker()
}

func (w *InstrumentWrapper) GetType() models.InstrumentType {
	if w.instrument == nil {
		return ""
	}
	return w.instrument.GetType()
}

// GetLots returns the lot size, 1 when unknown.
func (w *InstrumentWrapper) GetLots() int32 {
	if w.instrument == nil || w.instrument.GetLots() <= 0 {
		return 1
	}
	return w.instrument.GetLots()
}

// instrumentTypeFor maps a security type onto the catalog table that lists it.
func instrumentTypeFor(securityType marketdata.SecurityType) (models.InstrumentType, bool) {
	switch securityType {
	case marketdata.SecurityTypeEquity:
		return models.ShareType, true
	case marketdata.SecurityTypeFuture:
		return models.FutureType, true
	case marketdata.SecurityTypeForex:
		return models.CurrencyType, true
	default:
		return "", false
	}
}
