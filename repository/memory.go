package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sithumisanilka/Technova/model"
)

// MemoryStore is a mutex-serialized in-memory Store with the same
// transactional semantics as the Postgres store: WithinTx snapshots the data
// and restores it when fn fails. It backs the service tests and runs the
// backend without a database in development.
type MemoryStore struct {
	mu   *sync.Mutex
	data *memData
	inTx bool
}

type memData struct {
	seq      uint
	carts    map[uint]*model.Cart // keyed by customer ID
	orders   map[uint]*model.Order
	payments map[uint]*model.PaymentTransaction
	products map[uint]*model.Product
	services map[uint]*model.RentalService
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		mu: &sync.Mutex{},
		data: &memData{
			carts:    map[uint]*model.Cart{},
			orders:   map[uint]*model.Order{},
			payments: map[uint]*model.PaymentTransaction{},
			products: map[uint]*model.Product{},
			services: map[uint]*model.RentalService{},
		},
	}
}

func (s *MemoryStore) Carts() CartRepository       { return &memCarts{s} }
func (s *MemoryStore) Orders() OrderRepository     { return &memOrders{s} }
func (s *MemoryStore) Payments() PaymentRepository { return &memPayments{s} }
func (s *MemoryStore) Catalog() CatalogRepository  { return &memCatalog{s} }

func (s *MemoryStore) WithinTx(_ context.Context, fn func(Store) error) error {
	if s.inTx {
		return fn(s)
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	snapshot := s.data.clone()
	err := fn(&MemoryStore{mu: s.mu, data: s.data, inTx: true})
	if err != nil {
		*s.data = *snapshot
		return err
	}
	return nil
}

// lock serializes single-statement operations; transaction-bound stores
// already hold the mutex.
func (s *MemoryStore) lock() func() {
	if s.inTx {
		return func() {}
	}
	s.mu.Lock()
	return s.mu.Unlock
}

// SeedProduct registers a catalog product, assigning an id if absent.
func (s *MemoryStore) SeedProduct(p model.Product) model.Product {
	defer s.lock()()
	if p.ID == 0 {
		s.data.seq++
		p.ID = s.data.seq
	}
	s.data.products[p.ID] = copyProduct(&p)
	return p
}

// SeedService registers a catalog rental service, assigning an id if absent.
func (s *MemoryStore) SeedService(rs model.RentalService) model.RentalService {
	defer s.lock()()
	if rs.ID == 0 {
		s.data.seq++
		rs.ID = s.data.seq
	}
	s.data.services[rs.ID] = copyService(&rs)
	return rs
}

func (d *memData) nextID() uint {
	d.seq++
	return d.seq
}

func (d *memData) clone() *memData {
	c := &memData{
		seq:      d.seq,
		carts:    make(map[uint]*model.Cart, len(d.carts)),
		orders:   make(map[uint]*model.Order, len(d.orders)),
		payments: make(map[uint]*model.PaymentTransaction, len(d.payments)),
		products: make(map[uint]*model.Product, len(d.products)),
		services: make(map[uint]*model.RentalService, len(d.services)),
	}
	for k, v := range d.carts {
		c.carts[k] = copyCart(v)
	}
	for k, v := range d.orders {
		c.orders[k] = copyOrder(v)
	}
	for k, v := range d.payments {
		c.payments[k] = copyPayment(v)
	}
	for k, v := range d.products {
		c.products[k] = copyProduct(v)
	}
	for k, v := range d.services {
		c.services[k] = copyService(v)
	}
	return c
}

func copyUintPtr(p *uint) *uint {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyCart(c *model.Cart) *model.Cart {
	cc := *c
	cc.Items = make([]model.CartItem, len(c.Items))
	for i := range c.Items {
		cc.Items[i] = *copyCartItem(&c.Items[i])
	}
	return &cc
}

func copyCartItem(i *model.CartItem) *model.CartItem {
	ci := *i
	ci.ProductID = copyUintPtr(i.ProductID)
	ci.ServiceID = copyUintPtr(i.ServiceID)
	return &ci
}

func copyOrder(o *model.Order) *model.Order {
	oo := *o
	oo.Items = make([]model.OrderItem, len(o.Items))
	for i := range o.Items {
		item := o.Items[i]
		item.ProductID = copyUintPtr(item.ProductID)
		item.ServiceID = copyUintPtr(item.ServiceID)
		oo.Items[i] = item
	}
	if o.Payment != nil {
		oo.Payment = copyPayment(o.Payment)
	}
	oo.ReceiptData = append([]byte(nil), o.ReceiptData...)
	return &oo
}

func copyPayment(p *model.PaymentTransaction) *model.PaymentTransaction {
	pp := *p
	if p.ProcessedAt != nil {
		t := *p.ProcessedAt
		pp.ProcessedAt = &t
	}
	return &pp
}

func copyProduct(p *model.Product) *model.Product {
	pp := *p
	pp.CategoryID = copyUintPtr(p.CategoryID)
	if p.Category != nil {
		cat := *p.Category
		pp.Category = &cat
	}
	return &pp
}

func copyService(s *model.RentalService) *model.RentalService {
	ss := *s
	return &ss
}

type memCarts struct{ *MemoryStore }

func (r *memCarts) cartByID(cartID uint) *model.Cart {
	for _, c := range r.data.carts {
		if c.ID == cartID {
			return c
		}
	}
	return nil
}

func (r *memCarts) GetOrCreate(_ context.Context, customerID uint) (*model.Cart, error) {
	defer r.lock()()
	if c, ok := r.data.carts[customerID]; ok {
		return copyCart(c), nil
	}
	c := &model.Cart{ID: r.data.nextID(), CustomerID: customerID}
	r.data.carts[customerID] = c
	return copyCart(c), nil
}

func (r *memCarts) Get(_ context.Context, customerID uint) (*model.Cart, error) {
	defer r.lock()()
	c, ok := r.data.carts[customerID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyCart(c), nil
}

func (r *memCarts) SaveItem(_ context.Context, item *model.CartItem) error {
	defer r.lock()()
	cart := r.cartByID(item.CartID)
	if cart == nil {
		return ErrNotFound
	}
	if item.ID == 0 {
		item.ID = r.data.nextID()
		cart.Items = append(cart.Items, *copyCartItem(item))
		return nil
	}
	for i := range cart.Items {
		if cart.Items[i].ID == item.ID {
			cart.Items[i] = *copyCartItem(item)
			return nil
		}
	}
	cart.Items = append(cart.Items, *copyCartItem(item))
	return nil
}

func (r *memCarts) FindItemByProduct(_ context.Context, cartID, productID uint) (*model.CartItem, error) {
	defer r.lock()()
	cart := r.cartByID(cartID)
	if cart == nil {
		return nil, ErrNotFound
	}
	for i := range cart.Items {
		it := &cart.Items[i]
		if it.ProductID != nil && *it.ProductID == productID {
			return copyCartItem(it), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memCarts) FindItemByService(_ context.Context, cartID, serviceID uint) (*model.CartItem, error) {
	defer r.lock()()
	cart := r.cartByID(cartID)
	if cart == nil {
		return nil, ErrNotFound
	}
	for i := range cart.Items {
		it := &cart.Items[i]
		if it.ServiceID != nil && *it.ServiceID == serviceID {
			return copyCartItem(it), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memCarts) deleteWhere(cartID uint, match func(*model.CartItem) bool) {
	cart := r.cartByID(cartID)
	if cart == nil {
		return
	}
	kept := cart.Items[:0]
	for i := range cart.Items {
		if !match(&cart.Items[i]) {
			kept = append(kept, cart.Items[i])
		}
	}
	cart.Items = kept
}

func (r *memCarts) DeleteItem(_ context.Context, itemID uint) error {
	defer r.lock()()
	for _, cart := range r.data.carts {
		r.deleteWhere(cart.ID, func(i *model.CartItem) bool { return i.ID == itemID })
	}
	return nil
}

func (r *memCarts) DeleteItemByProduct(_ context.Context, cartID, productID uint) error {
	defer r.lock()()
	r.deleteWhere(cartID, func(i *model.CartItem) bool {
		return i.ProductID != nil && *i.ProductID == productID
	})
	return nil
}

func (r *memCarts) DeleteItemByService(_ context.Context, cartID, serviceID uint) error {
	defer r.lock()()
	r.deleteWhere(cartID, func(i *model.CartItem) bool {
		return i.ServiceID != nil && *i.ServiceID == serviceID
	})
	return nil
}

func (r *memCarts) ClearItems(_ context.Context, cartID uint) error {
	defer r.lock()()
	if cart := r.cartByID(cartID); cart != nil {
		cart.Items = nil
	}
	return nil
}

type memOrders struct{ *MemoryStore }

func (r *memOrders) Create(_ context.Context, order *model.Order) error {
	defer r.lock()()
	for _, o := range r.data.orders {
		if o.OrderNumber == order.OrderNumber {
			return ErrDuplicate
		}
	}
	order.ID = r.data.nextID()
	if order.CreatedAt.IsZero() {
		order.CreatedAt = time.Now()
	}
	for i := range order.Items {
		order.Items[i].ID = r.data.nextID()
		order.Items[i].OrderID = order.ID
	}
	if order.Payment != nil {
		for _, p := range r.data.payments {
			if p.PaymentNumber == order.Payment.PaymentNumber {
				return ErrDuplicate
			}
		}
		order.Payment.ID = r.data.nextID()
		order.Payment.OrderID = order.ID
		r.data.payments[order.Payment.ID] = copyPayment(order.Payment)
	}
	stored := copyOrder(order)
	stored.Payment = nil // payments live in their own map
	r.data.orders[order.ID] = stored
	return nil
}

func (r *memOrders) withPayment(o *model.Order) *model.Order {
	out := copyOrder(o)
	for _, p := range r.data.payments {
		if p.OrderID == o.ID {
			out.Payment = copyPayment(p)
			break
		}
	}
	return out
}

func (r *memOrders) GetByID(_ context.Context, id uint) (*model.Order, error) {
	defer r.lock()()
	o, ok := r.data.orders[id]
	if !ok {
		return nil, ErrNotFound
	}
	return r.withPayment(o), nil
}

func (r *memOrders) GetByOrderNumber(_ context.Context, orderNumber string) (*model.Order, error) {
	defer r.lock()()
	for _, o := range r.data.orders {
		if o.OrderNumber == orderNumber {
			return r.withPayment(o), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memOrders) list(match func(*model.Order) bool) []model.Order {
	var orders []model.Order
	for _, o := range r.data.orders {
		if match(o) {
			orders = append(orders, *r.withPayment(o))
		}
	}
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
	return orders
}

func (r *memOrders) ListByCustomer(_ context.Context, customerID uint) ([]model.Order, error) {
	defer r.lock()()
	return r.list(func(o *model.Order) bool { return o.CustomerID == customerID }), nil
}

func (r *memOrders) ListByStatus(_ context.Context, status model.OrderStatus) ([]model.Order, error) {
	defer r.lock()()
	return r.list(func(o *model.Order) bool { return o.Status == status }), nil
}

func (r *memOrders) ListAll(_ context.Context) ([]model.Order, error) {
	defer r.lock()()
	return r.list(func(*model.Order) bool { return true }), nil
}

func (r *memOrders) UpdateStatus(_ context.Context, orderID uint, status model.OrderStatus) error {
	defer r.lock()()
	o, ok := r.data.orders[orderID]
	if !ok {
		return ErrNotFound
	}
	o.Status = status
	return nil
}

type memPayments struct{ *MemoryStore }

func (r *memPayments) GetByID(_ context.Context, id uint) (*model.PaymentTransaction, error) {
	defer r.lock()()
	p, ok := r.data.payments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyPayment(p), nil
}

func (r *memPayments) GetByOrderID(_ context.Context, orderID uint) (*model.PaymentTransaction, error) {
	defer r.lock()()
	for _, p := range r.data.payments {
		if p.OrderID == orderID {
			return copyPayment(p), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memPayments) GetByPaymentNumber(_ context.Context, paymentNumber string) (*model.PaymentTransaction, error) {
	defer r.lock()()
	for _, p := range r.data.payments {
		if p.PaymentNumber == paymentNumber {
			return copyPayment(p), nil
		}
	}
	return nil, ErrNotFound
}

func (r *memPayments) ListByStatus(_ context.Context, status model.PaymentStatus) ([]model.PaymentTransaction, error) {
	defer r.lock()()
	var payments []model.PaymentTransaction
	for _, p := range r.data.payments {
		if p.Status == status {
			payments = append(payments, *copyPayment(p))
		}
	}
	sort.Slice(payments, func(i, j int) bool { return payments[i].ID > payments[j].ID })
	return payments, nil
}

func (r *memPayments) Save(_ context.Context, payment *model.PaymentTransaction) error {
	defer r.lock()()
	if payment.ID == 0 {
		payment.ID = r.data.nextID()
	}
	r.data.payments[payment.ID] = copyPayment(payment)
	return nil
}

type memCatalog struct{ *MemoryStore }

func (r *memCatalog) GetProduct(_ context.Context, id uint) (*model.Product, error) {
	defer r.lock()()
	p, ok := r.data.products[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyProduct(p), nil
}

func (r *memCatalog) GetService(_ context.Context, id uint) (*model.RentalService, error) {
	defer r.lock()()
	s, ok := r.data.services[id]
	if !ok {
		return nil, ErrNotFound
	}
	return copyService(s), nil
}
