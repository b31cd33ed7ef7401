package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type PaymentStatus string

const (
	PaymentStatusPending    PaymentStatus = "PENDING"
	PaymentStatusProcessing PaymentStatus = "PROCESSING"
	PaymentStatusCompleted  PaymentStatus = "COMPLETED"
	PaymentStatusFailed     PaymentStatus = "FAILED"
	PaymentStatusRefunded   PaymentStatus = "REFUNDED"
	PaymentStatusCancelled  PaymentStatus = "CANCELLED"
)

// PaymentTransaction is the one-to-one payment record attached to an order
// at checkout. Its amount always equals the order total.
type PaymentTransaction struct {
	ID            uint            `gorm:"primaryKey" json:"id"`
	OrderID       uint            `gorm:"uniqueIndex;not null" json:"order_id"`
	PaymentNumber string          `gorm:"uniqueIndex;not null" json:"payment_number"`
	Amount        decimal.Decimal `gorm:"type:numeric(10,2)" json:"amount"`
	Method        PaymentMethod   `gorm:"not null" json:"method"`
	Status        PaymentStatus   `gorm:"not null;default:PENDING" json:"status"`
	TransactionID string          `json:"transaction_id,omitempty"`
	Notes         string          `gorm:"size:500" json:"notes,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
	ProcessedAt   *time.Time      `json:"processed_at,omitempty"`
}
