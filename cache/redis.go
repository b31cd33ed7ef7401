package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/sithumisanilka/Technova/model"
)

// Connect opens a redis client and verifies the connection.
func Connect(addr string) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{Addr: addr})
	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	log.Println("Redis connected")
	return rdb, nil
}

// OrderCache keeps per-customer order lists. A nil *OrderCache is a valid
// no-op so the backend runs without redis.
type OrderCache struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewOrderCache(rdb *redis.Client) *OrderCache {
	if rdb == nil {
		return nil
	}
	return &OrderCache{rdb: rdb, ttl: 5 * time.Minute}
}

func customerOrdersKey(customerID uint) string {
	return fmt.Sprintf("orders:customer:%d", customerID)
}

func (c *OrderCache) GetCustomerOrders(ctx context.Context, customerID uint) ([]model.Order, bool) {
	if c == nil {
		return nil, false
	}
	raw, err := c.rdb.Get(ctx, customerOrdersKey(customerID)).Bytes()
	if err != nil {
		return nil, false
	}
	var orders []model.Order
	if err := json.Unmarshal(raw, &orders); err != nil {
		log.Printf("Dropping corrupt order cache for customer %d: %v", customerID, err)
		c.rdb.Del(ctx, customerOrdersKey(customerID))
		return nil, false
	}
	return orders, true
}

func (c *OrderCache) SetCustomerOrders(ctx context.Context, customerID uint, orders []model.Order) {
	if c == nil {
		return
	}
	data, err := json.Marshal(orders)
	if err != nil {
		log.Printf("Failed to marshal order cache for customer %d: %v", customerID, err)
		return
	}
	if err := c.rdb.Set(ctx, customerOrdersKey(customerID), data, c.ttl).Err(); err != nil {
		log.Printf("Failed to cache orders for customer %d: %v", customerID, err)
	}
}

// Invalidate drops the customer's cached order list after any write that
// changes it.
func (c *OrderCache) Invalidate(ctx context.Context, customerID uint) {
	if c == nil {
		return
	}
	if err := c.rdb.Del(ctx, customerOrdersKey(customerID)).Err(); err != nil {
		log.Printf("Failed to invalidate order cache for customer %d: %v", customerID, err)
	}
}
