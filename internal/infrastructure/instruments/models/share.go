package models

type ShareModel struct {
	BaseModel
	Currency string `gorm:"column:currency;type:varchar(10)"`
}

func (ShareModel) TableName() string {
	return "shares"
}
