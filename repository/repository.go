package repository

import (
	"context"
	"errors"

	"github.com/sithumisanilka/Technova/model"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type CartRepository interface {
	// GetOrCreate returns the customer's cart with its items, creating an
	// empty cart on first access. Inside a transaction the cart row is
	// locked, serializing all mutations for the same customer.
	GetOrCreate(ctx context.Context, customerID uint) (*model.Cart, error)
	// Get returns the customer's cart or ErrNotFound.
	Get(ctx context.Context, customerID uint) (*model.Cart, error)
	SaveItem(ctx context.Context, item *model.CartItem) error
	FindItemByProduct(ctx context.Context, cartID, productID uint) (*model.CartItem, error)
	FindItemByService(ctx context.Context, cartID, serviceID uint) (*model.CartItem, error)
	// Delete* are idempotent: deleting an absent line is not an error.
	DeleteItem(ctx context.Context, itemID uint) error
	DeleteItemByProduct(ctx context.Context, cartID, productID uint) error
	DeleteItemByService(ctx context.Context, cartID, serviceID uint) error
	ClearItems(ctx context.Context, cartID uint) error
}

type OrderRepository interface {
	// Create persists the order together with its items and payment.
	Create(ctx context.Context, order *model.Order) error
	GetByID(ctx context.Context, id uint) (*model.Order, error)
	GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error)
	ListByCustomer(ctx context.Context, customerID uint) ([]model.Order, error)
	ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error)
	ListAll(ctx context.Context) ([]model.Order, error)
	UpdateStatus(ctx context.Context, orderID uint, status model.OrderStatus) error
}

type PaymentRepository interface {
	// GetByID locks the payment row inside a transaction, serializing
	// concurrent processing of the same payment.
	GetByID(ctx context.Context, id uint) (*model.PaymentTransaction, error)
	GetByOrderID(ctx context.Context, orderID uint) (*model.PaymentTransaction, error)
	GetByPaymentNumber(ctx context.Context, paymentNumber string) (*model.PaymentTransaction, error)
	ListByStatus(ctx context.Context, status model.PaymentStatus) ([]model.PaymentTransaction, error)
	Save(ctx context.Context, payment *model.PaymentTransaction) error
}

// CatalogRepository is the read-only product/service lookup the cart needs.
type CatalogRepository interface {
	GetProduct(ctx context.Context, id uint) (*model.Product, error)
	GetService(ctx context.Context, id uint) (*model.RentalService, error)
}

// Store bundles the aggregate repositories and transaction control.
type Store interface {
	Carts() CartRepository
	Orders() OrderRepository
	Payments() PaymentRepository
	Catalog() CatalogRepository
	// WithinTx runs fn against a transaction-bound Store. If fn returns an
	// error every write made through that Store is rolled back. Nested
	// calls reuse the surrounding transaction.
	WithinTx(ctx context.Context, fn func(Store) error) error
}
