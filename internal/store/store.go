package store

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/auramicrolocs/storefront/pkg/response"
)

// Item is a catalog product plus the quantity the visitor picked. Quantity is
// never below one; deleting an entry goes through Remove, not a decrement.
type Item struct {
	Product  response.Product
	Quantity int32
}

// Store holds one browser session's cart. It lives only in memory and is
// mutated by a single visitor at a time, so it carries no lock of its own.
type Store struct {
	items []Item
}

func NewStore() *Store {
	return &Store{items: []Item{}}
}

// Add appends the product with quantity one, or increments the quantity when
// the product is already in the cart. The cart stays keyed by product id with
// no duplicate entries.
func (s *Store) Add(product response.Product) {
	for i, item := range s.items {
		if item.Product.ID == product.ID {
			s.items[i].Quantity++
			return
		}
	}
	s.items = append(s.items, Item{Product: product, Quantity: 1})
}

// Remove deletes the entry entirely regardless of quantity. Removing an
// absent id is a no-op.
func (s *Store) Remove(productId string) {
	for i, item := range s.items {
		if item.Product.ID == productId {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return
		}
	}
}

// UpdateQuantity applies delta and clamps the result at one. It reports
// whether the product was present.
func (s *Store) UpdateQuantity(productId string, delta int32) bool {
	for i, item := range s.items {
		if item.Product.ID == productId {
			quantity := item.Quantity + delta
			if quantity < 1 {
				quantity = 1
			}
			s.items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// Clear empties the cart. Only a confirmed successful payment calls this; a
// cancelled or failed checkout leaves the cart for a retry.
func (s *Store) Clear() {
	s.items = []Item{}
}

func (s *Store) Items() []Item {
	out := make([]Item, len(s.items))
	copy(out, s.items)
	return out
}

func (s *Store) Len() int {
	return len(s.items)
}

func (s *Store) Subtotal() decimal.Decimal {
	subtotal := decimal.Zero
	for _, item := range s.items {
		subtotal = subtotal.Add(item.Product.Price.Mul(decimal.NewFromInt32(item.Quantity)))
	}
	return subtotal
}

// Registry maps cart ids from the visitor cookie to their stores. Different
// visitors hit the registry concurrently even though each store has a single
// writer.
type Registry struct {
	mu     sync.RWMutex
	stores map[uuid.UUID]*Store
}

func NewRegistry() *Registry {
	return &Registry{stores: map[uuid.UUID]*Store{}}
}

// Get returns the store for id, creating it when absent.
func (r *Registry) Get(id uuid.UUID) *Store {
	r.mu.RLock()
	s, ok := r.stores[id]
	r.mu.RUnlock()
	if ok {
		return s
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if s, ok = r.stores[id]; ok {
		return s
	}
	s = NewStore()
	r.stores[id] = s
	return s
}
