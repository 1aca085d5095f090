package broker

import (
	"time"

	"github.com/shopspring/decimal"

	domain "marketdata-downloader/internal/domain/entity/marketdata"
)

type SeriesKind string

const (
	SeriesTicks SeriesKind = "ticks"
	SeriesBars  SeriesKind = "bars"
)

type SymbolPayload struct {
	Ticker       string     `json:"ticker"`
	SecurityType string     `json:"security_type"`
	Market       string     `json:"market"`
	Expiry       *time.Time `json:"expiry,omitempty"`
}

type TickPayload struct {
	Time     time.Time       `json:"time"`
	Price    decimal.Decimal `json:"price"`
	Bid      decimal.Decimal `json:"bid"`
	Ask      decimal.Decimal `json:"ask"`
	Quantity decimal.Decimal `json:"quantity"`
}

type BarPayload struct {
	Start  time.Time       `json:"start"`
	End    time.Time       `json:"end"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume decimal.Decimal `json:"volume"`
}

// BatchMessage is one published chunk of a series. Part counts from 1 to Parts.
type BatchMessage struct {
	Kind       SeriesKind    `json:"kind"`
	Symbol     SymbolPayload `json:"symbol"`
	Resolution string        `json:"resolution"`
	Part       int           `json:"part"`
	Parts      int           `json:"parts"`
	Ticks      []TickPayload `json:"ticks,omitempty"`
	Bars       []BarPayload  `json:"bars,omitempty"`
}

func symbolPayload(s domain.Symbol) SymbolPayload {
	p := SymbolPayload{
		Ticker:       s.Ticker,
		SecurityType: s.SecurityType.String(),
		Market:       s.Market.String(),
	}
	if !s.Expiry.IsZero() {
		expiry := s.Expiry.UTC()
		p.Expiry = &expiry
	}
	return p
}

func tickPayload(t domain.Tick) TickPayload {
	return TickPayload{Time: t.Time.UTC(), Price: t.Value, Bid: t.Bid, Ask: t.Ask, Quantity: t.Quantity}
}

func barPayload(b domain.TradeBar) BarPayload {
	return BarPayload{
		Start:  b.Time.UTC(),
		End:    b.EndTime.UTC(),
		Open:   b.Open,
		High:   b.High,
		Low:    b.Low,
		Close:  b.Close,
		Volume: b.Volume,
	}
}
