package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	pb "github.com/russianinvestments/invest-api-go-sdk/proto"
	"github.com/sirupsen/logrus"

	domain "marketdata-downloader/internal/domain/entity/instruments"
)

func parseInstrumentUID(raw string) (uuid.UUID, error) {
	value := strings.TrimSpace(raw)
	if value == "" {
		return uuid.Nil, errors.New("instrument uid is empty")
	}
	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, fmt.Errorf("parse instrument uid: %w", err)
	}
	return id, nil
}

func quotationToFloat(q *pb.Quotation) float64 {
	if q == nil {
		return 0
	}
	return q.ToFloat()
}

func convertShares(items []*pb.Share, logger *logrus.Logger) []domain.Share {
	shares := make([]domain.Share, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		uid, err := parseInstrumentUID(item.GetUid())
		if err != nil {
			logger.WithError(err).WithField("ticker", item.GetTicker()).Warn("skip share")
			continue
		}
		shares = append(shares, domain.Share{
			Instrument: domain.Instrument{
				UID:       uid,
				Figi:      item.GetFigi(),
				Ticker:    item.GetTicker(),
				Name:      strings.TrimSpace(item.GetName()),
				Lot:       item.GetLot(),
				ClassCode: item.GetClassCode(),
				Exchange:  item.GetExchange(),
			},
			Currency: item.GetCurrency(),
		})
	}
	return shares
}

func convertFutures(items []*pb.Future, logger *logrus.Logger) []domain.Future {
	futures := make([]domain.Future, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		uid, err := parseInstrumentUID(item.GetUid())
		if err != nil {
			logger.WithError(err).WithField("ticker", item.GetTicker()).Warn("skip future")
			continue
		}
		var expiration time.Time
		if ts := item.GetExpirationDate(); ts != nil {
			expiration = ts.AsTime().UTC()
		}
		futures = append(futures, domain.Future{
			Instrument: domain.Instrument{
				UID:       uid,
				Figi:      item.GetFigi(),
				Ticker:    item.GetTicker(),
				Name:      strings.TrimSpace(item.GetName()),
				Lot:       item.GetLot(),
				ClassCode: item.GetClassCode(),
				Exchange:  item.GetExchange(),
			},
			BasicAsset:        item.GetBasicAsset(),
			ExpirationDate:    expiration,
			MinPriceIncrement: quotationToFloat(item.GetMinPriceIncrement()),
			AssetType:         domain.AssetType(item.GetAssetType()),
		})
	}
	return futures
}

func convertCurrencies(items []*pb.Currency, logger *logrus.Logger) []domain.Currency {
	currencies := make([]domain.Currency, 0, len(items))
	for _, item := range items {
		if item == nil {
			continue
		}
		uid, err := parseInstrumentUID(item.GetUid())
		if err != nil {
			logger.WithError(err).WithField("ticker", item.GetTicker()).Warn("skip currency")
			continue
		}
		currencies = append(currencies, domain.Currency{
			Instrument: domain.Instrument{
				UID:       uid,
				Figi:      item.GetFigi(),
				Ticker:    item.GetTicker(),
				Name:      strings.TrimSpace(item.GetName()),
				Lot:       item.GetLot(),
				ClassCode: item.GetClassCode(),
				Exchange:  item.GetExchange(),
			},
			IsoCode: item.GetIsoCurrencyName(),
		})
	}
	return currencies
}
