package history

import (
	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

// CanHandle reports whether the feed serves the symbol's security type on its
// market. Option and future chains without an expiry are never served.
func CanHandle(symbol marketdata.Symbol) bool {
	if symbol.IsCanonical() {
		return false
	}
	switch symbol.SecurityType {
	case marketdata.SecurityTypeEquity, marketdata.SecurityTypeOption:
		return symbol.Market == marketdata.MarketUSA
	case marketdata.SecurityTypeForex:
		return symbol.Market == marketdata.MarketFXCM
	case marketdata.SecurityTypeFuture:
		return true
	default:
		return false
	}
}

// IsEligible reports whether req may be fetched at all. Ineligible requests
// produce an empty result, not an error.
func IsEligible(req marketdata.HistoryRequest) bool {
	if req.IsCanonical || req.Symbol.IsCanonical() {
		return false
	}
	if !req.Resolution.IsValid() {
		return false
	}
	return CanHandle(req.Symbol)
}
