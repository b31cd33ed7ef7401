package dto

import (
	"github.com/shopspring/decimal"

	"github.com/sithumisanilka/Technova/model"
)

type AddCartItemRequest struct {
	ProductID uint            `json:"product_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type AddServiceRequest struct {
	ServiceID        uint                   `json:"service_id"`
	RentalPeriod     int                    `json:"rental_period"`
	RentalPeriodType model.RentalPeriodType `json:"rental_period_type"`
	UnitPrice        decimal.Decimal        `json:"unit_price"`
}

type UpdateCartItemRequest struct {
	Quantity int `json:"quantity"`
}

type CheckoutRequest struct {
	CustomerID         uint                `json:"customer_id"`
	Email              string              `json:"email"`
	ShippingName       string              `json:"shipping_name"`
	ShippingAddress    string              `json:"shipping_address"`
	ShippingCity       string              `json:"shipping_city"`
	ShippingPostalCode string              `json:"shipping_postal_code"`
	ShippingPhone      string              `json:"shipping_phone"`
	PaymentMethod      model.PaymentMethod `json:"payment_method"`
	Notes              string              `json:"notes,omitempty"`

	// Bank transfer receipt, optional. Filled from the multipart variant of
	// the checkout endpoint.
	ReceiptFileName    string `json:"receipt_file_name,omitempty"`
	ReceiptContentType string `json:"receipt_content_type,omitempty"`
	ReceiptData        []byte `json:"-"`
}

// MissingFields returns a field -> message map for every required checkout
// field that is absent. An empty map means the request is valid.
func (r *CheckoutRequest) MissingFields() map[string]string {
	missing := map[string]string{}
	if r.CustomerID == 0 {
		missing["customer_id"] = "customer_id is required"
	}
	if r.Email == "" {
		missing["email"] = "email is required"
	}
	if r.ShippingName == "" {
		missing["shipping_name"] = "shipping_name is required"
	}
	if r.ShippingAddress == "" {
		missing["shipping_address"] = "shipping_address is required"
	}
	if r.ShippingCity == "" {
		missing["shipping_city"] = "shipping_city is required"
	}
	if r.ShippingPostalCode == "" {
		missing["shipping_postal_code"] = "shipping_postal_code is required"
	}
	if r.ShippingPhone == "" {
		missing["shipping_phone"] = "shipping_phone is required"
	}
	if r.PaymentMethod == "" {
		missing["payment_method"] = "payment_method is required"
	}
	return missing
}

type PaymentRequest struct {
	OrderID       uint                `json:"order_id"`
	PaymentMethod model.PaymentMethod `json:"payment_method"`

	// Simulated gateway credentials.
	CardNumber     string `json:"card_number,omitempty"`
	CardHolderName string `json:"card_holder_name,omitempty"`
	ExpiryDate     string `json:"expiry_date,omitempty"`
	CVV            string `json:"cvv,omitempty"`

	Notes string `json:"notes,omitempty"`
}

type RefundRequest struct {
	Reason string `json:"reason"`
}
