package history

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	marketdata "marketdata-downloader/internal/domain/entity/marketdata"
)

func TestCanHandle(t *testing.T) {
	types := []marketdata.SecurityType{
		marketdata.SecurityTypeEquity,
		marketdata.SecurityTypeForex,
		marketdata.SecurityTypeOption,
		marketdata.SecurityTypeFuture,
		marketdata.SecurityType("crypto"),
	}
	markets := []marketdata.Market{marketdata.MarketUSA, marketdata.MarketFXCM, marketdata.MarketCME, marketdata.Market("lse")}

	servable := map[string]bool{
		"equity/usa":  true,
		"forex/fxcm":  true,
		"option/usa":  true,
		"future/usa":  true,
		"future/fxcm": true,
		"future/cme":  true,
		"future/lse":  true,
	}

	expiry := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)
	for _, st := range types {
		for _, m := range markets {
			key := fmt.Sprintf("%s/%s", st, m)
			t.Run(key, func(t *testing.T) {
				symbol := marketdata.NewSymbol("XYZ", st, m).WithExpiry(expiry)
				assert.Equal(t, servable[key], CanHandle(symbol))
			})
		}
	}
}

func TestCanHandle_RejectsChains(t *testing.T) {
	chains := []marketdata.Symbol{
		marketdata.NewSymbol("ES", marketdata.SecurityTypeFuture, marketdata.MarketCME),
		marketdata.NewSymbol("ES", marketdata.SecurityTypeFuture, marketdata.MarketUSA),
		marketdata.NewSymbol("SPY", marketdata.SecurityTypeOption, marketdata.MarketUSA),
	}
	for _, symbol := range chains {
		t.Run(symbol.String(), func(t *testing.T) {
			require.True(t, symbol.IsCanonical())
			assert.False(t, CanHandle(symbol))
		})
	}

	assert.True(t, CanHandle(marketdata.NewSymbol("SPY", marketdata.SecurityTypeEquity, marketdata.MarketUSA)))
}

func TestIsEligible(t *testing.T) {
	start := time.Date(2024, 3, 1, 14, 30, 0, 0, time.UTC)
	end := start.Add(time.Hour)
	expiry := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		symbol    marketdata.Symbol
		canonical bool
		want      bool
	}{
		{"equity", marketdata.NewSymbol("SPY", marketdata.SecurityTypeEquity, marketdata.MarketUSA), false, true},
		{"equity on wrong market", marketdata.NewSymbol("SPY", marketdata.SecurityTypeEquity, marketdata.MarketFXCM), false, false},
		{"forex", marketdata.NewSymbol("EURUSD", marketdata.SecurityTypeForex, marketdata.MarketFXCM), false, true},
		{"canonical future", marketdata.NewSymbol("ES", marketdata.SecurityTypeFuture, marketdata.MarketCME), false, false},
		{"future contract", marketdata.NewSymbol("ES", marketdata.SecurityTypeFuture, marketdata.MarketCME).WithExpiry(expiry), false, true},
		{"canonical option", marketdata.NewSymbol("SPY", marketdata.SecurityTypeOption, marketdata.MarketUSA), false, false},
		{"option contract", marketdata.NewSymbol("SPY", marketdata.SecurityTypeOption, marketdata.MarketUSA).WithExpiry(expiry), false, true},
		{"canonical request flag", marketdata.NewSymbol("SPY", marketdata.SecurityTypeEquity, marketdata.MarketUSA), true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := marketdata.NewHistoryRequest(tt.symbol, marketdata.ResolutionMinute, start, end)
			assert.NoError(t, err)
			req.IsCanonical = tt.canonical
			assert.Equal(t, tt.want, IsEligible(req))
		})
	}
}
