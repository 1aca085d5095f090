package marketdata

import (
	"fmt"
	"strings"
	"time"
)

type SecurityType string

const (
	SecurityTypeEquity SecurityType = "equity"
	SecurityTypeForex  SecurityType = "forex"
	SecurityTypeOption SecurityType = "option"
	SecurityTypeFuture SecurityType = "future"
)

func (st SecurityType) String() string {
	return string(st)
}

func (st SecurityType) IsValid() bool {
	switch st {
	case SecurityTypeEquity, SecurityTypeForex, SecurityTypeOption, SecurityTypeFuture:
		return true
	default:
		return false
	}
}

func NewSecurityType(s string) (SecurityType, error) {
	st := SecurityType(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid security type: %s", s)
	}
	return st, nil
}

// Market is the venue code a symbol is listed on.
type Market string

const (
	// MarketUSA is the domestic venue for equities and options.
	MarketUSA Market = "usa"
	// MarketFXCM is the only venue forex symbols are served from.
	MarketFXCM Market = "fxcm"
	MarketCME  Market = "cme"
)

func (m Market) String() string {
	return string(m)
}

// Symbol identifies a tradable instrument. A zero Expiry on an option or
// future means the symbol stands for the whole contract chain.
type Symbol struct {
	Ticker       string
	SecurityType SecurityType
	Market       Market
	Expiry       time.Time
}

func NewSymbol(ticker string, securityType SecurityType, market Market) Symbol {
	return Symbol{
		Ticker:       strings.ToUpper(strings.TrimSpace(ticker)),
		SecurityType: securityType,
		Market:       Market(strings.ToLower(string(market))),
	}
}

// WithExpiry returns a copy of the symbol pinned to a single contract.
func (s Symbol) WithExpiry(expiry time.Time) Symbol {
	s.Expiry = expiry
	return s
}

// IsCanonical reports whether the symbol is an aggregate option or future chain.
func (s Symbol) IsCanonical() bool {
	switch s.SecurityType {
	case SecurityTypeOption, SecurityTypeFuture:
		return s.Expiry.IsZero()
	default:
		return false
	}
}

func (s Symbol) String() string {
	if s.Expiry.IsZero() {
		return fmt.Sprintf("%s/%s/%s", s.SecurityType, s.Market, s.Ticker)
	}
	return fmt.Sprintf("%s/%s/%s %s", s.SecurityType, s.Market, s.Ticker, s.Expiry.Format("20060102"))
}
