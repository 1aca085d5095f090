package invest

import (
	"fmt"
	"time"

	investgo "github.com/russianinvestments/invest-api-go-sdk/investgo"
	pb "github.com/russianinvestments/invest-api-go-sdk/proto"
)

// HistoryAPI is the part of the broker market-data service the connector calls.
type HistoryAPI interface {
	HistoricCandles(instrumentUID string, interval pb.CandleInterval, from, to time.Time) ([]*pb.HistoricCandle, error)
	LastTrades(instrumentUID string, from, to time.Time) ([]*pb.Trade, error)
}

type sdkAPI struct {
	md *investgo.MarketDataServiceClient
}

func NewHistoryAPI(client *investgo.Client) HistoryAPI {
	return &sdkAPI{md: client.NewMarketDataServiceClient()}
}

func (a *sdkAPI) HistoricCandles(instrumentUID string, interval pb.CandleInterval, from, to time.Time) ([]*pb.HistoricCandle, error) {
	candles, err := a.md.GetHistoricCandles(&investgo.GetHistoricCandlesRequest{
		Instrument: instrumentUID,
		Interval:   interval,
		From:       from,
		To:         to,
	})
	if err != nil {
		return nil, fmt.Errorf("get historic candles: %w", err)
	}
	return candles, nil
}

func (a *sdkAPI) LastTrades(instrumentUID string, from, to time.Time) ([]*pb.Trade, error) {
	resp, err := a.md.GetLastTrades(instrumentUID, from, to)
	if err != nil {
		return nil, fmt.Errorf("get last trades: %w", err)
	}
	return resp.GetTrades(), nil
}
