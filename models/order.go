package models

import "time"

// SavedOrder is a snapshot of a finished order as written to an order store.
type SavedOrder struct {
	ID           uint      `gorm:"primaryKey"`
	Ref          string    `gorm:"type:varchar(36);uniqueIndex;not null"`
	CustomerName string    `gorm:"not null"`
	IsDelivery   bool      `gorm:"not null"`
	Address      string
	ItemsTotal   int64     `gorm:"not null"`
	DeliveryFee  int64     `gorm:"not null"`
	GrandTotal   int64     `gorm:"not null"`
	Summary      string    `gorm:"type:text;not null"`
	SavedAt      time.Time `gorm:"index;not null"`
}

func (SavedOrder) TableName() string {
	return "saved_orders"
}
