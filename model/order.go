package model

import (
	"time"

	"github.com/shopspring/decimal"
)

type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "PENDING"
	OrderStatusConfirmed  OrderStatus = "CONFIRMED"
	OrderStatusProcessing OrderStatus = "PROCESSING"
	OrderStatusShipped    OrderStatus = "SHIPPED"
	OrderStatusDelivered  OrderStatus = "DELIVERED"
	OrderStatusCancelled  OrderStatus = "CANCELLED"
	OrderStatusRefunded   OrderStatus = "REFUNDED"
)

type PaymentMethod string

const (
	PaymentMethodCashOnDelivery PaymentMethod = "CASH_ON_DELIVERY"
	PaymentMethodBankTransfer   PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCreditCard     PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard      PaymentMethod = "DEBIT_CARD"
	PaymentMethodDigitalWallet  PaymentMethod = "DIGITAL_WALLET"
)

// Order is an immutable snapshot taken at checkout; only its status and the
// attached payment change afterwards.
type Order struct {
	ID            uint        `gorm:"primaryKey" json:"id"`
	OrderNumber   string      `gorm:"uniqueIndex;not null" json:"order_number"`
	CustomerID    uint        `gorm:"index;not null" json:"customer_id"`
	CustomerEmail string      `gorm:"not null" json:"customer_email"`
	Status        OrderStatus `gorm:"not null;default:PENDING" json:"status"`

	Subtotal     decimal.Decimal `gorm:"type:numeric(10,2)" json:"subtotal"`
	Tax          decimal.Decimal `gorm:"type:numeric(10,2)" json:"tax"`
	ShippingCost decimal.Decimal `gorm:"type:numeric(10,2)" json:"shipping_cost"`
	TotalAmount  decimal.Decimal `gorm:"type:numeric(10,2)" json:"total_amount"`

	Notes string `gorm:"size:500" json:"notes,omitempty"`

	ShippingName       string `gorm:"not null" json:"shipping_name"`
	ShippingAddress    string `gorm:"not null" json:"shipping_address"`
	ShippingCity       string `gorm:"not null" json:"shipping_city"`
	ShippingPostalCode string `gorm:"not null" json:"shipping_postal_code"`
	ShippingPhone      string `gorm:"not null" json:"shipping_phone"`

	PaymentMethod PaymentMethod `gorm:"not null" json:"payment_method"`

	// Bank transfer receipt, only set for BANK_TRANSFER checkouts that
	// uploaded one.
	ReceiptData        []byte `json:"-"`
	ReceiptFileName    string `json:"receipt_file_name,omitempty"`
	ReceiptContentType string `json:"receipt_content_type,omitempty"`

	Items   []OrderItem         `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"items"`
	Payment *PaymentTransaction `gorm:"foreignKey:OrderID" json:"payment,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// OrderItem is a frozen copy of a cart line. Name, sku and price are
// captured at checkout time so later catalog changes never touch it.
type OrderItem struct {
	ID       uint     `gorm:"primaryKey" json:"id"`
	OrderID  uint     `gorm:"index;not null" json:"order_id"`
	ItemType ItemType `gorm:"not null" json:"item_type"`

	ProductID   *uint  `json:"product_id,omitempty"`
	ProductName string `json:"product_name,omitempty"`
	ProductSku  string `json:"product_sku,omitempty"`
	Quantity    int    `json:"quantity,omitempty"`

	ServiceID        *uint            `json:"service_id,omitempty"`
	ServiceName      string           `json:"service_name,omitempty"`
	RentalPeriod     int              `json:"rental_period,omitempty"`
	RentalPeriodType RentalPeriodType `json:"rental_period_type,omitempty"`

	UnitPrice  decimal.Decimal `gorm:"type:numeric(10,2)" json:"unit_price"`
	TotalPrice decimal.Decimal `gorm:"type:numeric(10,2)" json:"total_price"`

	CreatedAt time.Time `json:"created_at"`
}

// CanCancel reports whether an order is still early enough in its lifecycle
// to be cancelled by an admin.
func (o *Order) CanCancel() bool {
	return o.Status == OrderStatusPending || o.Status == OrderStatusConfirmed
}
