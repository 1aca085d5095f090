package marketdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// TradeBar is an OHLCV record covering [Time, EndTime).
type TradeBar struct {
	Symbol  Symbol
	Time    time.Time
	EndTime time.Time
	Open    decimal.Decimal
	High    decimal.Decimal
	Low     decimal.Decimal
	Close   decimal.Decimal
	Volume  decimal.Decimal
}

func (b TradeBar) Period() time.Duration {
	return b.EndTime.Sub(b.Time)
}
