package models

import (
	"fmt"
	"time"

	"gorm.io/gorm"
)

type InstrumentType string

const (
	ShareType    InstrumentType = "share"
	FutureType   InstrumentType = "future"
	CurrencyType InstrumentType = "currency"
)

type AssetType string

const (
	AssetTypeIndex     AssetType = "TYPE_INDEX"
	AssetTypeCommodity AssetType = "TYPE_COMMODITY"
	AssetTypeSecurity  AssetType = "TYPE_SECURITY"
	AssetTypeCurrency  AssetType = "TYPE_CURRENCY"
)

func (at AssetType) String() string {
	return string(at)
}

func (at AssetType) IsValid() bool {
	switch at {
	case AssetTypeIndex, AssetTypeCommodity, AssetTypeSecurity, AssetTypeCurrency:
		return true
	default:
		return false
	}
}

func NewAssetType(s string) (AssetType, error) {
	at := AssetType(s)
	if !at.IsValid() {
		return "", fmt.Errorf("invalid asset type: %s", s)
	}
	return at, nil
}

// InstrumentModel is implemented by every catalog table row.
type InstrumentModel interface {
	GetUID() string
	GetFigi() string
	GetTicker() string
	GetLots() int32
	GetType() InstrumentType
}

type BaseModel struct {
	Figi            string         `gorm:"primaryKey;column:figi;type:varchar(255);not null"`
	UID             string         `gorm:"column:uid;type:varchar(64);not null;uniqueIndex"`
	Ticker          string         `gorm:"column:ticker;type:varchar(50);not null;index"`
	Name            string         `gorm:"column:name;type:varchar(255)"`
	Lot             int32          `gorm:"column:lot;type:integer;not null"`
	ClassCode       string         `gorm:"column:class_code;type:varchar(50)"`
	Exchange        string         `gorm:"column:exchange;type:varchar(50)"`
	InstrumentGroup InstrumentType `gorm:"column:instrument_group;type:varchar(50)"`
	CreatedAt       time.Time      `gorm:"column:created_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time      `gorm:"column:updated_at;type:timestamp;default:CURRENT_TIMESTAMP"`
	DeletedAt       gorm.DeletedAt `gorm:"column:deleted_at;type:timestamp;index"`
}

func (b BaseModel) GetUID() string {
	return b.UID
}

func (b BaseModel) GetFigi() string {
	return b.Figi
}

func (b BaseModel) GetTicker() string {
	return b.Ticker
}

func (b BaseModel) GetLots() int32 {
	return b.Lot
}

func (b BaseModel) GetType() InstrumentType {
	return b.InstrumentGroup
}
