package instruments

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func validInstrument() Instrument {
	return Instrument{UID: uuid.New(), Figi: "BBG000BDTBL9", Ticker: "SPY", Lot: 1}
}

func TestInstrumentValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Instrument)
		ok     bool
	}{
		{name: "valid", mutate: func(*Instrument) {}, ok: true},
		{name: "nil uid", mutate: func(i *Instrument) { i.UID = uuid.Nil }},
		{name: "blank figi", mutate: func(i *Instrument) { i.Figi = " " }},
		{name: "blank ticker", mutate: func(i *Instrument) { i.Ticker = "" }},
		{name: "negative lot", mutate: func(i *Instrument) { i.Lot = -1 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := validInstrument()
			tt.mutate(&inst)
			err := inst.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, ErrInvalidInstrument)
		})
	}
}

func TestFutureValidateAssetType(t *testing.T) {
	f := Future{Instrument: validInstrument(), AssetType: AssetTypeCommodity}
	assert.NoError(t, f.Validate())

	f.AssetType = "TYPE_WEATHER"
	assert.ErrorIs(t, f.Validate(), ErrInvalidInstrument)

	_, err := NewAssetType("TYPE_WEATHER")
	assert.Error(t, err)
}

func TestGetType(t *testing.T) {
	assert.Equal(t, ShareType, Share{}.GetType())
	assert.Equal(t, FutureType, Future{}.GetType())
	assert.Equal(t, CurrencyType, Currency{}.GetType())
}
