package main

import (
	"testing"
	"time"

	"github.com/google/uuid"
	pb "github.com/russianinvestments/invest-api-go-sdk/proto"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/protobuf/types/known/timestamppb"

	domain "marketdata-downloader/internal/domain/entity/instruments"
)

func TestConvertSharesSkipsBadUID(t *testing.T) {
	logger, hook := test.NewNullLogger()
	uid := uuid.New()

	shares := convertShares([]*pb.Share{
		{Uid: uid.String(), Figi: "BBG000BDTBL9", Ticker: "SPY", Lot: 1, Currency: "usd", Name: " SPDR S&P 500 "},
		{Uid: "not-a-uuid", Ticker: "BAD"},
		nil,
	}, logger)

	require.Len(t, shares, 1)
	assert.Equal(t, uid, shares[0].UID)
	assert.Equal(t, "SPDR S&P 500", shares[0].Name)
	assert.Len(t, hook.AllEntries(), 1)
}

func TestConvertFutures(t *testing.T) {
	logger, _ := test.NewNullLogger()
	expiry := time.Date(2024, 6, 21, 0, 0, 0, 0, time.UTC)

	futures := convertFutures([]*pb.Future{{
		Uid:               uuid.NewString(),
		Figi:              "FUTES0624000",
		Ticker:            "ESM4",
		ExpirationDate:    timestamppb.New(expiry),
		MinPriceIncrement: &pb.Quotation{Units: 0, Nano: 250000000},
		AssetType:         "TYPE_INDEX",
	}}, logger)

	require.Len(t, futures, 1)
	assert.True(t, futures[0].ExpirationDate.Equal(expiry))
	assert.InDelta(t, 0.25, futures[0].MinPriceIncrement, 1e-9)
	assert.Zero(t, futures[0].MinPriceIncrementAmount)
	assert.Equal(t, domain.AssetTypeIndex, futures[0].AssetType)
}

func TestConvertCurrencies(t *testing.T) {
	logger, _ := test.NewNullLogger()

	currencies := convertCurrencies([]*pb.Currency{{
		Uid:             uuid.NewString(),
		Figi:            "BBG0013HGFT4",
		Ticker:          "USD000UTSTOM",
		IsoCurrencyName: "usd",
	}}, logger)

	require.Len(t, currencies, 1)
	assert.Equal(t, "usd", currencies[0].IsoCode)
}
