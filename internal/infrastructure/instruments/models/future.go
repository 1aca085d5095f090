package models

import "time"

type FutureModel struct {
	BaseModel
	BasicAsset              string    `gorm:"column:basic_asset;type:varchar(100)"`
	ExpirationDate          time.Time `gorm:"column:expiration_date;type:timestamp;index"`
	MinPriceIncrement       float64   `gorm:"column:min_price_increment;type:decimal(18,9)"`
	MinPriceIncrementAmount float64   `gorm:"column:min_price_increment_amount;type:decimal(18,9)"`
	AssetType               AssetType `gorm:"column:asset_type;type:varchar(20);not null"`
}

func (FutureModel) TableName() string {
	return "futures"
}

// PointValue is the money value of a price move of the given points.
func (f FutureModel) PointValue(points float64) float64 {
	if f.MinPriceIncrement == 0 {
		return 0
	}
	return (points / f.MinPriceIncrement) * f.MinPriceIncrementAmount
}
