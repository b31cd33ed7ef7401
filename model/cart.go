package model

import (
	"time"

	"github.com/shopspring/decimal"
)

// ItemType discriminates the two kinds of cart/order lines. Exactly one of
// the product or service field groups is populated per line.
type ItemType string

const (
	ItemTypeProduct ItemType = "PRODUCT"
	ItemTypeService ItemType = "SERVICE"
)

type Cart struct {
	ID         uint       `gorm:"primaryKey" json:"id"`
	CustomerID uint       `gorm:"uniqueIndex;not null" json:"customer_id"`
	Items      []CartItem `gorm:"foreignKey:CartID;constraint:OnDelete:CASCADE" json:"items"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

type CartItem struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	CartID   uint     `gorm:"index;not null" json:"cart_id"`
	ItemType ItemType `gorm:"not null" json:"item_type"`

	// Product lines
	ProductID   *uint  `gorm:"index" json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	ProductSku  string `json:"product_sku,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`

	// Service lines
	ServiceID        *uint            `gorm:"index" json:"service_id,omitempty"`
	ServiceName      string           `json:"service_name,omitempty"`
	RentalPeriod     int              `json:"rental_period,omitempty"`
	RentalPeriodType RentalPeriodType `json:"rental_period_type,omitempty"`

	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2)" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (i *CartItem) IsProduct() bool {
	return i.ItemType == ItemTypeProduct
}

func (i *CartItem) IsService() bool {
	return i.ItemType == ItemTypeService
}

// RecalculateTotal derives the line total from the unit price and the
// quantity (product lines) or rental period count (service lines).
func (i *CartItem) RecalculateTotal() {
	switch i.ItemType {
	case ItemTypeService:
		i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.RentalPeriod)))
	default:
		i.TotalPrice = i.UnitPrice.Mul(decimal.NewFromInt(int64(i.Quantity)))
	}
}
