package models

type CurrencyModel struct {
	BaseModel
	IsoCode string `gorm:"column:iso_code;type:varchar(10)"`
}

func (CurrencyModel) TableName() string {
	return "currencies"
}
