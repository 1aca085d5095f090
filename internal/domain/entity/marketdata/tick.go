package marketdata

import (
	"time"

	"github.com/shopspring/decimal"
)

// Tick is a single trade print. Time is exchange-local.
type Tick struct {
	Symbol   Symbol
	Time     time.Time
	Value    decimal.Decimal
	Bid      decimal.Decimal
	Ask      decimal.Decimal
	Quantity decimal.Decimal
}
