package service

import (
	"context"
	"encoding/json"
	"sync"

	"overcooked-delivery/apperr"
	"overcooked-delivery/storefront-svc/internal/domain"
)

// CartStore holds the lines of one session's cart. Every mutation is written
// through to the "cart" key before it becomes visible.
type CartStore struct {
	mu      sync.RWMutex
	storage LocalStorage
	pricing domain.Pricing
	lines   []domain.CartLine
}

// NewCartStore restores the cart from storage. A snapshot that cannot be
// decoded is reported as an integrity error.
func NewCartStore(ctx context.Context, storage LocalStorage, pricing domain.Pricing) (*CartStore, error) {
	c := &CartStore{storage: storage, pricing: pricing, lines: []domain.CartLine{}}

	raw, ok, err := storage.Get(ctx, KeyCart)
	if err != nil {
		return nil, apperr.Network("load cart", err)
	}
	if !ok || raw == "" {
		return c, nil
	}

	var lines []domain.CartLine
	if err := json.Unmarshal([]byte(raw), &lines); err != nil {
		return nil, apperr.Integrity("cart snapshot: %v", err)
	}
	for i := range lines {
		c.lines = append(c.lines, lines[i].WithTotal())
	}
	return c, nil
}

func (c *CartStore) AddItem(ctx context.Context, item domain.CartLine) error {
	if item.ID == "" || item.RestaurantID == "" {
		return apperr.Validation("item id and restaurant are required")
	}
	if item.Quantity < 1 {
		return apperr.Validation("quantity must be at least 1, got %d", item.Quantity)
	}
	if item.Price.IsNegative() {
		return apperr.Validation("price must not be negative")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	// Items from another restaurant start a new cart.
	if len(c.lines) > 0 && c.lines[0].RestaurantID != item.RestaurantID {
		return c.commit(ctx, []domain.CartLine{item})
	}

	next := c.copyLines()
	for i := range next {
		if next[i].ID == item.ID {
			next[i].Quantity += item.Quantity
			return c.commit(ctx, next)
		}
	}
	return c.commit(ctx, append(next, item))
}

// UpdateQuantity stores quantity as given. Unknown ids are ignored.
func (c *CartStore) UpdateQuantity(ctx context.Context, id string, quantity int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.copyLines()
	for i := range next {
		if next[i].ID == id {
			next[i].Quantity = quantity
			return c.commit(ctx, next)
		}
	}
	return nil
}

func (c *CartStore) RemoveItem(ctx context.Context, id string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	next := make([]domain.CartLine, 0, len(c.lines))
	for _, line := range c.lines {
		if line.ID != id {
			next = append(next, line)
		}
	}
	if len(next) == len(c.lines) {
		return nil
	}
	return c.commit(ctx, next)
}

func (c *CartStore) Clear(ctx context.Context) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.commit(ctx, []domain.CartLine{})
}

func (c *CartStore) Items() []domain.CartLine {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.copyLines()
}

func (c *CartStore) RestaurantID() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if len(c.lines) == 0 {
		return ""
	}
	return c.lines[0].RestaurantID
}

func (c *CartStore) Totals() domain.Totals {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.pricing.Totals(c.lines)
}

func (c *CartStore) Snapshot() domain.Cart {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cart := domain.Cart{Items: c.copyLines(), Totals: c.pricing.Totals(c.lines)}
	if len(c.lines) > 0 {
		cart.RestaurantID = c.lines[0].RestaurantID
		cart.RestaurantName = c.lines[0].RestaurantName
	}
	return cart
}

// commit persists next and only then swaps it in. Callers hold c.mu.
func (c *CartStore) commit(ctx context.Context, next []domain.CartLine) error {
	for i := range next {
		next[i] = next[i].WithTotal()
	}
	payload, err := json.Marshal(next)
	if err != nil {
		return apperr.Integrity("encode cart: %v", err)
	}
	if err := c.storage.Set(ctx, KeyCart, string(payload)); err != nil {
		return apperr.Network("persist cart", err)
	}
	c.lines = next
	return nil
}

func (c *CartStore) copyLines() []domain.CartLine {
	return append(make([]domain.CartLine, 0, len(c.lines)), c.lines...)
}
