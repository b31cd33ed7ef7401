package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type RentalPeriodType string

const (
	RentalPeriodHourly RentalPeriodType = "HOURLY"
	RentalPeriodDaily  RentalPeriodType = "DAILY"
)

type Category struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	CategoryName string    `gorm:"not null" json:"category_name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProductName string          `gorm:"not null" json:"product_name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	Stock       int             `json:"stock"`
	CategoryID  *uint           `json:"category_id,omitempty"`
	Category    *Category       `json:"category,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// CategoryLabel is what gets snapshotted into cart/order lines as the SKU
// label; products without a category fall back to "N/A".
func (p *Product) CategoryLabel() string {
	if p.Category != nil && p.Category.CategoryName != "" {
		return p.Category.CategoryName
	}
	return "N/A"
}

type RentalService struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ServiceName string          `gorm:"not null" json:"service_name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `gorm:"type:numeric(10,2)" json:"price"`
	Available   bool            `gorm:"default:true" json:"available"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
