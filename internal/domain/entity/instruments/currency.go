package instruments

type Currency struct {
	Instrument
	IsoCode string
}

func (c Currency) GetType() InstrumentType { return CurrencyType }
