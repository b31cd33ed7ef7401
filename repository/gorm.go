package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/sithumisanilka/Technova/model"
)

// gormStore is the Postgres-backed Store. Open the DB with
// gorm.Config{TranslateError: true} so duplicate-key errors surface as
// gorm.ErrDuplicatedKey.
type gormStore struct {
	db   *gorm.DB
	inTx bool
}

func NewGormStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

// AutoMigrate creates or updates the schema for every aggregate the store
// persists.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.Category{},
		&model.Product{},
		&model.RentalService{},
		&model.Cart{},
		&model.CartItem{},
		&model.Order{},
		&model.OrderItem{},
		&model.PaymentTransaction{},
	)
}

func (s *gormStore) Carts() CartRepository       { return &gormCarts{s} }
func (s *gormStore) Orders() OrderRepository     { return &gormOrders{s} }
func (s *gormStore) Payments() PaymentRepository { return &gormPayments{s} }
func (s *gormStore) Catalog() CatalogRepository  { return &gormCatalog{s} }

func (s *gormStore) WithinTx(ctx context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&gormStore{db: tx, inTx: true})
	})
}

// locked applies SELECT ... FOR UPDATE when running inside a transaction.
func (s *gormStore) locked(q *gorm.DB) *gorm.DB {
	if s.inTx {
		return q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return q
}

func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

type gormCarts struct{ *gormStore }

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("cart_items.id")
}

func (r *gormCarts) load(ctx context.Context, customerID uint) (*model.Cart, error) {
	var cart model.Cart
	err := r.locked(r.db.WithContext(ctx)).
		Preload("Items", itemOrder).
		Where("customer_id = ?", customerID).
		First(&cart).Error
	if err != nil {
		return nil, translate(err)
	}
	return &cart, nil
}

func (r *gormCarts) GetOrCreate(ctx context.Context, customerID uint) (*model.Cart, error) {
	cart, err := r.load(ctx, customerID)
	if err == nil {
		return cart, nil
	}
	if !errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("load cart: %w", err)
	}

	// ON CONFLICT DO NOTHING: losing a creation race must not abort the
	// surrounding transaction. The reload picks up whichever row won.
	fresh := model.Cart{CustomerID: customerID}
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "customer_id"}},
			DoNothing: true,
		}).
		Create(&fresh).Error
	if err != nil {
		return nil, fmt.Errorf("create cart: %w", err)
	}

	cart, err = r.load(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("reload cart: %w", err)
	}
	return cart, nil
}

func (r *gormCarts) Get(ctx context.Context, customerID uint) (*model.Cart, error) {
	return r.load(ctx, customerID)
}

func (r *gormCarts) SaveItem(ctx context.Context, item *model.CartItem) error {
	return translate(r.db.WithContext(ctx).Save(item).Error)
}

func (r *gormCarts) FindItemByProduct(ctx context.Context, cartID, productID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *gormCarts) FindItemByService(ctx context.Context, cartID, serviceID uint) (*model.CartItem, error) {
	var item model.CartItem
	err := r.db.WithContext(ctx).
		Where("cart_id = ? AND service_id = ?", cartID, serviceID).
		First(&item).Error
	if err != nil {
		return nil, translate(err)
	}
	return &item, nil
}

func (r *gormCarts) DeleteItem(ctx context.Context, itemID uint) error {
	return translate(r.db.WithContext(ctx).Delete(&model.CartItem{}, itemID).Error)
}

func (r *gormCarts) DeleteItemByProduct(ctx context.Context, cartID, productID uint) error {
	return translate(r.db.WithContext(ctx).
		Where("cart_id = ? AND product_id = ?", cartID, productID).
		Delete(&model.CartItem{}).Error)
}

func (r *gormCarts) DeleteItemByService(ctx context.Context, cartID, serviceID uint) error {
	return translate(r.db.WithContext(ctx).
		Where("cart_id = ? AND service_id = ?", cartID, serviceID).
		Delete(&model.CartItem{}).Error)
}

func (r *gormCarts) ClearItems(ctx context.Context, cartID uint) error {
	return translate(r.db.WithContext(ctx).
		Where("cart_id = ?", cartID).
		Delete(&model.CartItem{}).Error)
}

type gormOrders struct{ *gormStore }

func (r *gormOrders) Create(ctx context.Context, order *model.Order) error {
	return translate(r.db.WithContext(ctx).Create(order).Error)
}

func (r *gormOrders) preloaded(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB { return db.Order("order_items.id") }).
		Preload("Payment")
}

func (r *gormOrders) GetByID(ctx context.Context, id uint) (*model.Order, error) {
	var order model.Order
	if err := r.preloaded(ctx).First(&order, id).Error; err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *gormOrders) GetByOrderNumber(ctx context.Context, orderNumber string) (*model.Order, error) {
	var order model.Order
	err := r.preloaded(ctx).Where("order_number = ?", orderNumber).First(&order).Error
	if err != nil {
		return nil, translate(err)
	}
	return &order, nil
}

func (r *gormOrders) ListByCustomer(ctx context.Context, customerID uint) ([]model.Order, error) {
	var orders []model.Order
	err := r.preloaded(ctx).
		Where("customer_id = ?", customerID).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err)
}

func (r *gormOrders) ListByStatus(ctx context.Context, status model.OrderStatus) ([]model.Order, error) {
	var orders []model.Order
	err := r.preloaded(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&orders).Error
	return orders, translate(err)
}

func (r *gormOrders) ListAll(ctx context.Context) ([]model.Order, error) {
	var orders []model.Order
	err := r.preloaded(ctx).Order("created_at DESC").Find(&orders).Error
	return orders, translate(err)
}

func (r *gormOrders) UpdateStatus(ctx context.Context, orderID uint, status model.OrderStatus) error {
	res := r.db.WithContext(ctx).
		Model(&model.Order{}).
		Where("id = ?", orderID).
		Update("status", status)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

type gormPayments struct{ *gormStore }

func (r *gormPayments) GetByID(ctx context.Context, id uint) (*model.PaymentTransaction, error) {
	var payment model.PaymentTransaction
	if err := r.locked(r.db.WithContext(ctx)).First(&payment, id).Error; err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *gormPayments) GetByOrderID(ctx context.Context, orderID uint) (*model.PaymentTransaction, error) {
	var payment model.PaymentTransaction
	err := r.locked(r.db.WithContext(ctx)).
		Where("order_id = ?", orderID).
		First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *gormPayments) GetByPaymentNumber(ctx context.Context, paymentNumber string) (*model.PaymentTransaction, error) {
	var payment model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("payment_number = ?", paymentNumber).
		First(&payment).Error
	if err != nil {
		return nil, translate(err)
	}
	return &payment, nil
}

func (r *gormPayments) ListByStatus(ctx context.Context, status model.PaymentStatus) ([]model.PaymentTransaction, error) {
	var payments []model.PaymentTransaction
	err := r.db.WithContext(ctx).
		Where("status = ?", status).
		Order("created_at DESC").
		Find(&payments).Error
	return payments, translate(err)
}

func (r *gormPayments) Save(ctx context.Context, payment *model.PaymentTransaction) error {
	return translate(r.db.WithContext(ctx).Save(payment).Error)
}

type gormCatalog struct{ *gormStore }

func (r *gormCatalog) GetProduct(ctx context.Context, id uint) (*model.Product, error) {
	var product model.Product
	if err := r.db.WithContext(ctx).Preload("Category").First(&product, id).Error; err != nil {
		return nil, translate(err)
	}
	return &product, nil
}

func (r *gormCatalog) GetService(ctx context.Context, id uint) (*model.RentalService, error) {
	var service model.RentalService
	if err := r.db.WithContext(ctx).First(&service, id).Error; err != nil {
		return nil, translate(err)
	}
	return &service, nil
}
