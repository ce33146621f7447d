package models

import "time"

type Product struct {
	ID     int     `json:"id"`
	Title  string  `json:"title"`
	Price  float64 `json:"price"`
	Image  string  `json:"image"`
	Amount int     `json:"amount"`
}

type Stock struct {
	ID     int `json:"id"`
	Amount int `json:"amount"`
}

type UpdateProductAmount struct {
	ProductID int `json:"productId"`
	Amount    int `json:"amount"`
}

// Snapshot is the published state of one cart. Version grows by one with
// every committed mutation and restarts at zero when the cart is restored.
type Snapshot struct {
	Owner   string    `json:"owner"`
	Version uint64    `json:"version"`
	Items   []Product `json:"items"`
}

// StoredValue is the row behind the SQL key/value store.
type StoredValue struct {
	Key       string    `gorm:"column:storage_key;primaryKey;size:255"  json:"key"`
	Value     string    `gorm:"type:text;not null"                     json:"value"`
	UpdatedAt time.Time `gorm:"not null"                               json:"updated_at"`
}

func (StoredValue) TableName() string {
	return "cart_snapshots"
}
