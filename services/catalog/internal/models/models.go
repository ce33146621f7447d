package models

type Product struct {
	ID    int     `gorm:"primaryKey;autoIncrement:false" json:"id"    yaml:"id"`
	Title string  `gorm:"not null"                       json:"title" yaml:"title"`
	Price float64 `gorm:"not null"                       json:"price" yaml:"price"`
	Image string  `gorm:"not null"                       json:"image" yaml:"image"`
}

type Stock struct {
	ID     int `gorm:"primaryKey;autoIncrement:false" json:"id"     yaml:"id"`
	Amount int `gorm:"not null"                       json:"amount" yaml:"amount"`
}

func (Stock) TableName() string {
	return "stock"
}
