package service

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/sithumisanilka/Technova/dto"
	"github.com/sithumisanilka/Technova/model"
	"github.com/sithumisanilka/Technova/repository"
)

// CartService owns the mutable per-customer cart. Every mutation runs in a
// store transaction with the cart row locked, so concurrent requests for the
// same customer serialize while different customers proceed in parallel.
type CartService struct {
	store repository.Store
}

func NewCartService(store repository.Store) *CartService {
	return &CartService{store: store}
}

// GetCart returns the customer's cart, lazily creating an empty one.
func (s *CartService) GetCart(ctx context.Context, customerID uint) (*model.Cart, error) {
	return s.store.Carts().GetOrCreate(ctx, customerID)
}

func (s *CartService) AddItem(ctx context.Context, customerID uint, req dto.AddCartItemRequest) (*model.Cart, error) {
	fields := map[string]string{}
	if req.ProductID == 0 {
		fields["product_id"] = "product_id is required"
	}
	if req.Quantity <= 0 {
		fields["quantity"] = "quantity must be greater than zero"
	}
	if !req.UnitPrice.IsPositive() {
		fields["unit_price"] = "unit_price must be greater than zero"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var cart *model.Cart
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		locked, err := tx.Carts().GetOrCreate(ctx, customerID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		product, err := tx.Catalog().GetProduct(ctx, req.ProductID)
		if err != nil {
			return fmt.Errorf("product %d: %w", req.ProductID, err)
		}

		existing, err := tx.Carts().FindItemByProduct(ctx, locked.ID, req.ProductID)
		switch {
		case err == nil:
			existing.Quantity += req.Quantity
			existing.RecalculateTotal()
			if err := tx.Carts().SaveItem(ctx, existing); err != nil {
				return fmt.Errorf("update cart item: %w", err)
			}
		case errors.Is(err, repository.ErrNotFound):
			productID := req.ProductID
			item := &model.CartItem{
				CartID:      locked.ID,
				ItemType:    model.ItemTypeProduct,
				ProductID:   &productID,
				ProductName: product.ProductName,
				ProductSku:  product.CategoryLabel(),
				Quantity:    req.Quantity,
				UnitPrice:   req.UnitPrice,
			}
			item.RecalculateTotal()
			if err := tx.Carts().SaveItem(ctx, item); err != nil {
				return fmt.Errorf("add cart item: %w", err)
			}
		default:
			return fmt.Errorf("find cart item: %w", err)
		}

		cart, err = tx.Carts().Get(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Added product %d to cart for customer %d", req.ProductID, customerID)
	return cart, nil
}

// AddService upserts a rental-service line. Unlike product lines, the rental
// period of an existing line is overwritten rather than accumulated.
func (s *CartService) AddService(ctx context.Context, customerID uint, req dto.AddServiceRequest) (*model.Cart, error) {
	fields := map[string]string{}
	if req.ServiceID == 0 {
		fields["service_id"] = "service_id is required"
	}
	if req.RentalPeriod <= 0 {
		fields["rental_period"] = "rental_period must be greater than zero"
	}
	if req.RentalPeriodType != model.RentalPeriodHourly && req.RentalPeriodType != model.RentalPeriodDaily {
		fields["rental_period_type"] = "rental_period_type must be HOURLY or DAILY"
	}
	if !req.UnitPrice.IsPositive() {
		fields["unit_price"] = "unit_price must be greater than zero"
	}
	if len(fields) > 0 {
		return nil, &ValidationError{Fields: fields}
	}

	var cart *model.Cart
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		locked, err := tx.Carts().GetOrCreate(ctx, customerID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		rental, err := tx.Catalog().GetService(ctx, req.ServiceID)
		if err != nil {
			return fmt.Errorf("service %d: %w", req.ServiceID, err)
		}

		existing, err := tx.Carts().FindItemByService(ctx, locked.ID, req.ServiceID)
		switch {
		case err == nil:
			existing.RentalPeriod = req.RentalPeriod
			existing.RentalPeriodType = req.RentalPeriodType
			existing.RecalculateTotal()
			if err := tx.Carts().SaveItem(ctx, existing); err != nil {
				return fmt.Errorf("update service line: %w", err)
			}
		case errors.Is(err, repository.ErrNotFound):
			serviceID := req.ServiceID
			item := &model.CartItem{
				CartID:           locked.ID,
				ItemType:         model.ItemTypeService,
				ServiceID:        &serviceID,
				ServiceName:      rental.ServiceName,
				RentalPeriod:     req.RentalPeriod,
				RentalPeriodType: req.RentalPeriodType,
				UnitPrice:        req.UnitPrice,
			}
			item.RecalculateTotal()
			if err := tx.Carts().SaveItem(ctx, item); err != nil {
				return fmt.Errorf("add service line: %w", err)
			}
		default:
			return fmt.Errorf("find service line: %w", err)
		}

		cart, err = tx.Carts().Get(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Added service %d to cart for customer %d (%d %s)",
		req.ServiceID, customerID, req.RentalPeriod, req.RentalPeriodType)
	return cart, nil
}

// UpdateItemQuantity sets a product line's quantity; zero or negative removes
// the line. Missing cart or line is an error, matching the read-modify intent
// of the call.
func (s *CartService) UpdateItemQuantity(ctx context.Context, customerID, productID uint, quantity int) (*model.Cart, error) {
	var cart *model.Cart
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		locked, err := tx.Carts().Get(ctx, customerID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}

		item, err := tx.Carts().FindItemByProduct(ctx, locked.ID, productID)
		if err != nil {
			return fmt.Errorf("cart item for product %d: %w", productID, err)
		}

		if quantity <= 0 {
			if err := tx.Carts().DeleteItem(ctx, item.ID); err != nil {
				return fmt.Errorf("delete cart item: %w", err)
			}
		} else {
			item.Quantity = quantity
			item.RecalculateTotal()
			if err := tx.Carts().SaveItem(ctx, item); err != nil {
				return fmt.Errorf("update cart item: %w", err)
			}
		}

		cart, err = tx.Carts().Get(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}

	log.Printf("Updated cart item for product %d, customer %d", productID, customerID)
	return cart, nil
}

// RemoveItem deletes the product line if present. Deleting an absent line is
// a silent no-op (idempotent delete).
func (s *CartService) RemoveItem(ctx context.Context, customerID, productID uint) (*model.Cart, error) {
	return s.removeLine(ctx, customerID, func(tx repository.Store, cartID uint) error {
		return tx.Carts().DeleteItemByProduct(ctx, cartID, productID)
	})
}

// RemoveService deletes the service line if present, silently like RemoveItem.
func (s *CartService) RemoveService(ctx context.Context, customerID, serviceID uint) (*model.Cart, error) {
	return s.removeLine(ctx, customerID, func(tx repository.Store, cartID uint) error {
		return tx.Carts().DeleteItemByService(ctx, cartID, serviceID)
	})
}

func (s *CartService) removeLine(ctx context.Context, customerID uint, del func(repository.Store, uint) error) (*model.Cart, error) {
	var cart *model.Cart
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		locked, err := tx.Carts().Get(ctx, customerID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		if err := del(tx, locked.ID); err != nil {
			return fmt.Errorf("delete cart line: %w", err)
		}
		cart, err = tx.Carts().Get(ctx, customerID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// ClearCart deletes every line; the cart row itself persists.
func (s *CartService) ClearCart(ctx context.Context, customerID uint) error {
	err := s.store.WithinTx(ctx, func(tx repository.Store) error {
		locked, err := tx.Carts().Get(ctx, customerID)
		if err != nil {
			return fmt.Errorf("load cart: %w", err)
		}
		return tx.Carts().ClearItems(ctx, locked.ID)
	})
	if err != nil {
		return err
	}
	log.Printf("Cleared cart for customer %d", customerID)
	return nil
}
