package instruments

type Share struct {
	Instrument
	Currency string
}

func (s Share) GetType() InstrumentType { return ShareType }
