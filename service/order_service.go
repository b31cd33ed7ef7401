package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/shopspring/decimal"

	"github.com/sithumisanilka/Technova/cache"
	"github.com/sithumisanilka/Technova/dto"
	"github.com/sithumisanilka/Technova/model"
	"github.com/sithumisanilka/Technova/repository"
)

// Notifier receives post-commit events. Implementations must be best-effort:
// they may not block the calling request or surface errors back to it.
type Notifier interface {
	OrderCreated(order *model.Order)
	PaymentCompleted(payment *model.PaymentTransaction, order *model.Order)
	PaymentRefunded(payment *model.PaymentTransaction, order *model.Order)
}

// checkoutAttempts bounds retries when a generated order/payment number
// collides with an existing one.
const checkoutAttempts = 3

// OrderService converts carts into immutable orders.
type OrderService struct {
	store    repository.Store
	orders   *cache.OrderCache
	notifier Notifier
}

func NewOrderService(store repository.Store, orders *cache.OrderCache, notifier Notifier) *OrderService {
	return &OrderService{store: store, orders: orders, notifier: notifier}
}

// Checkout atomically converts the customer's cart into an order with a
// pending payment and clears the cart. The order, its line snapshots, the
// payment row and the cart clear commit as one unit; on any storage failure
// none of it is visible and the cart is untouched.
func (s *OrderService) Checkout(ctx context.Context, req dto.CheckoutRequest) (*model.Order, error) {
	if fields := req.MissingFields(); len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var order *model.Order
	var err error
	for attempt := 1; attempt <= checkoutAttempts; attempt++ {
		order, err = s.checkoutOnce(ctx, req)
		if !errors.Is(err, repository.ErrDuplicate) {
			break
		}
		log.Printf("Order number collision on attempt %d, regenerating", attempt)
	}
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx, order)
	if s.notifier != nil {
		s.notifier.OrderCreated(order)
	}

	log.Printf("Created order %s for customer %d", order.OrderNumber, order.CustomerID)
	return order, nil
}

func (s *OrderService) checkoutOnce(ctx context.Context, req dto.CheckoutRequest) (*model.Order, error) {
	var order *model.Order
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		cart, err := tx.Carts().GetOrCreate(ctx, req.CustomerID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if len(cart.Items) == 0 {
			return ErrEmptyCart
		}

		subtotal := decimal.Zero
		for _, item := range cart.Items {
			subtotal = subtotal.Add(item.TotalPrice)
		}
		tax := CalculateTax(subtotal)
		shipping := FlatShippingCost
		total := subtotal.Add(tax).Add(shipping)

		o := &model.Order{
			OrderNumber:        GenerateOrderNumber(),
			CustomerID:         req.CustomerID,
			CustomerEmail:      req.Email,
			Status:             model.OrderStatusPending,
			Subtotal:           subtotal,
			Tax:                tax,
			ShippingCost:       shipping,
			TotalAmount:        total,
			Notes:              req.Notes,
			ShippingName:       req.ShippingName,
			ShippingAddress:    req.ShippingAddress,
			ShippingCity:       req.ShippingCity,
			ShippingPostalCode: req.ShippingPostalCode,
			ShippingPhone:      req.ShippingPhone,
			PaymentMethod:      req.PaymentMethod,
		}

		for i := range cart.Items {
			o.Items = append(o.Items, snapshotLine(&cart.Items[i]))
		}

		o.Payment = &model.PaymentTransaction{
			PaymentNumber: GeneratePaymentNumber(),
			Amount:        total,
			Method:        req.PaymentMethod,
			Status:        model.PaymentStatusPending,
		}

		if len(req.ReceiptData) > 0 {
			o.ReceiptData = req.ReceiptData
			o.ReceiptFileName = req.ReceiptFileName
			o.ReceiptContentType = req.ReceiptContentType
		}

		if err := tx.Orders().Create(ctx, o); err != nil {
			return fmt.Errorf("create order: %w", err)
		}
		if err := tx.Carts().ClearItems(ctx, cart.ID); err != nil {
			return fmt.Errorf("clear cart: %w", err)
		}

		order = o
		return nil
	})
	if err != nil {
		return nil, err
	}
	return order, nil
}

// snapshotLine freezes a cart line into an order line. Name, sku and price
// are copied so later catalog changes never alter the order.
func snapshotLine(item *model.CartItem) model.OrderItem {
	line := model.OrderItem{
		ItemType:   item.ItemType,
		UnitPrice:  item.UnitPrice,
		TotalPrice: item.TotalPrice,
	}
	if item.IsService() {
		line.ServiceID = item.ServiceID
		line.ServiceName = item.ServiceName
		line.RentalPeriod = item.RentalPeriod
		line.RentalPeriodType = item.RentalPeriodType
	} else {
		line.ProductID = item.ProductID
		line.ProductName = item.ProductName
		line.ProductSku = item.ProductSku
		line.Quantity = item.Quantity
	}
	return line
}

func (s *OrderService) GetOrder(ctx context.Context, id uint) (*model.Order, error) {
	return s.store.Orders().GetByID(ctx, id)
}

func (s *OrderService) GetOrderByNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	return s.store.Orders().GetByOrderNumber(ctx, orderNumber)
}

// GetOrdersByCustomer lists a customer's orders newest first, served from
// the redis cache when possible.
func (s *OrderService) GetOrdersByCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	if orders, ok := s.orders.GetCustomerOrders(ctx, customerID); ok {
		return orders, nil
	}
	orders, err := s.store.Orders().ListByCustomer(ctx, customerID)
	if err != nil {
		return nil, err
	}
	s.orders.SetCustomerOrders(ctx, customerID, orders)
	return orders, nil
}

func (s *OrderService) GetOrdersByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	return s.store.Orders().ListByStatus(ctx, status)
}

func (s *OrderService) GetAllOrders(ctx context.Context) ([]model.Order, error) {
	return s.store.Orders().ListAll(ctx)
}

// UpdateOrderStatus is the admin override. Cancellation is only allowed
// while the order is still PENDING or CONFIRMED; every other status write is
// unconstrained. Transitions driven by payments go through PaymentService.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, orderID uint, status model.OrderStatus) (*model.Order, error) {
	order, err := s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if status == model.OrderStatusCancelled && !order.CanCancel() {
		return nil, ErrNotCancellable
	}

	if err := s.store.Orders().UpdateStatus(ctx, orderID, status); err != nil {
		return nil, err
	}
	order, err = s.store.Orders().GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	s.invalidate(ctx, order)
	log.Printf("Updated order %s status to %s", order.OrderNumber, status)
	return order, nil
}

func (s *OrderService) invalidate(ctx context.Context, order *model.Order) {
	s.orders.Invalidate(ctx, order.CustomerID)
}
