package service

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// TaxRate is the flat 10% sales tax applied to every order subtotal.
var TaxRate = decimal.RequireFromString("0.10")

// FlatShippingCost is the fixed shipping fee charged per order.
var FlatShippingCost = decimal.RequireFromString("500.00")

// CalculateTax returns subtotal * TaxRate rounded half-up to cents. The
// subtotal itself is an exact sum of already-rounded line totals and is
// never re-rounded.
func CalculateTax(subtotal decimal.Decimal) decimal.Decimal {
	return subtotal.Mul(TaxRate).Round(2)
}

func numberToken() string {
	return strings.ToUpper(uuid.NewString()[:8])
}

// GenerateOrderNumber produces a human-readable order number. The uuid
// suffix covers what the millisecond timestamp alone cannot: uniqueness
// under concurrent checkouts; the store's unique index is the backstop.
func GenerateOrderNumber() string {
	return fmt.Sprintf("ORD-%d-%s", time.Now().UnixMilli(), numberToken())
}

func GeneratePaymentNumber() string {
	return fmt.Sprintf("PAY-%d-%s", time.Now().UnixMilli(), numberToken())
}

// GenerateTransactionID fabricates a gateway transaction reference for the
// simulated payment network.
func GenerateTransactionID() string {
	return fmt.Sprintf("TXN-%d-%s", time.Now().UnixMilli(), numberToken())
}
