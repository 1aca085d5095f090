package instruments

import (
	"strings"

	domain "marketdata-downloader/internal/domain/entity/instruments"
	"marketdata-downloader/internal/infrastructure/instruments/models"
)

func mapRows[T, M any](items []T, fn func(T) M) []M {
	rows := make([]M, 0, len(items))
	for _, item := range items {
		rows = append(rows, fn(item))
	}
	return rows
}

func baseModel(i domain.Instrument, group models.InstrumentType) models.BaseModel {
	return models.BaseModel{
		Figi:            strings.TrimSpace(i.Figi),
		UID:             i.UID.String(),
		Ticker:          strings.ToUpper(strings.TrimSpace(i.Ticker)),
		Name:            strings.TrimSpace(i.Name),
		Lot:             i.Lot,
		ClassCode:       i.ClassCode,
		Exchange:        i.Exchange,
		InstrumentGroup: group,
	}
}

func shareModel(s domain.Share) models.ShareModel {
	return models.ShareModel{
		BaseModel: baseModel(s.Instrument, models.ShareType),
		Currency:  strings.ToLower(s.Currency),
	}
}

func futureModel(f domain.Future) models.FutureModel {
	assetType := models.AssetType(f.AssetType)
	if assetType == "" {
		assetType = models.AssetTypeCommodity
	}
	return models.FutureModel{
		BaseModel:               baseModel(f.Instrument, models.FutureType),
		BasicAsset:              f.BasicAsset,
		ExpirationDate:          f.ExpirationDate.UTC(),
		MinPriceIncrement:       f.MinPriceIncrement,
		MinPriceIncrementAmount: f.MinPriceIncrementAmount,
		AssetType:               assetType,
	}
}

func currencyModel(c domain.Currency) models.CurrencyModel {
	return models.CurrencyModel{
		BaseModel: baseModel(c.Instrument, models.CurrencyType),
		IsoCode:   strings.ToLower(c.IsoCode),
	}
}
