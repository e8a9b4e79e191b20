package services

import (
	"errors"
	"sync"

	"QuickBiteAPI/internal/model"

	"github.com/shopspring/decimal"
)

var (
	ErrQuantityLimit = errors.New("item quantity limit reached")
	ErrLineNotFound  = errors.New("cart item not found")
)

// CartService holds every customer's cart in memory for the lifetime of the
// process. Carts are ephemeral session state: nothing here is persisted, and
// a successful checkout clears the cart. All mutation goes through this
// narrow API; Get returns copies, never the live slices.
type CartService struct {
	mu    sync.Mutex
	carts map[int64][]model.CartItem
}

func NewCartService() *CartService {
	return &CartService{carts: make(map[int64][]model.CartItem)}
}

func copyItem(it model.CartItem) model.CartItem {
	out := it
	if len(it.SelectedOptions) > 0 {
		out.SelectedOptions = make([]model.CartOption, len(it.SelectedOptions))
		copy(out.SelectedOptions, it.SelectedOptions)
	}
	return out
}

// AddItem merges the item into an existing same-line entry (same product and
// identical option set) or appends a new line. Quantities clamp to the line
// limit; hitting the cap on a merge returns ErrQuantityLimit so the caller
// can tell the customer instead of silently truncating.
func (s *CartService) AddItem(customerID int64, item model.CartItem) error {
	if item.ProductID == 0 {
		return errors.New("product is required")
	}
	if item.Quantity <= 0 {
		item.Quantity = 1
	}
	if item.Quantity > model.MaxLineQuantity {
		item.Quantity = model.MaxLineQuantity
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	key := item.OptionsKey()
	lines := s.carts[customerID]
	for i := range lines {
		if lines[i].ProductID == item.ProductID && lines[i].OptionsKey() == key {
			merged := lines[i].Quantity + item.Quantity
			if merged > model.MaxLineQuantity {
				lines[i].Quantity = model.MaxLineQuantity
				return ErrQuantityLimit
			}
			lines[i].Quantity = merged
			return nil
		}
	}
	s.carts[customerID] = append(lines, copyItem(item))
	return nil
}

// UpdateQuantity sets the quantity of one line. Zero or negative removes the
// line; anything above the cap clamps to it.
func (s *CartService) UpdateQuantity(customerID, productID int64, optionsKey string, qty int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[customerID]
	for i := range lines {
		if lines[i].ProductID == productID && lines[i].OptionsKey() == optionsKey {
			if qty <= 0 {
				s.carts[customerID] = append(lines[:i], lines[i+1:]...)
				return nil
			}
			if qty > model.MaxLineQuantity {
				qty = model.MaxLineQuantity
			}
			lines[i].Quantity = qty
			return nil
		}
	}
	return ErrLineNotFound
}

// RemoveItem deletes one line from the cart.
func (s *CartService) RemoveItem(customerID, productID int64, optionsKey string) error {
	return s.UpdateQuantity(customerID, productID, optionsKey, 0)
}

// Clear empties the customer's cart.
func (s *CartService) Clear(customerID int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, customerID)
}

// Get returns a snapshot of the cart with derived subtotal and item count.
// The subtotal is recomputed from the current lines on every call, never
// cached.
func (s *CartService) Get(customerID int64) *model.CartResponse {
	s.mu.Lock()
	defer s.mu.Unlock()

	lines := s.carts[customerID]
	items := make([]model.CartItem, 0, len(lines))
	subtotal := decimal.Zero
	count := 0
	for _, it := range lines {
		items = append(items, copyItem(it))
		subtotal = subtotal.Add(it.LineTotal())
		count += it.Quantity
	}
	return &model.CartResponse{
		Items:     items,
		Subtotal:  subtotal,
		ItemCount: count,
	}
}

// Subtotal is Σ (unitprice + optionsprice) * quantity over all lines.
func (s *CartService) Subtotal(customerID int64) decimal.Decimal {
	return s.Get(customerID).Subtotal
}

// TotalItemCount is Σ quantity over all lines.
func (s *CartService) TotalItemCount(customerID int64) int {
	return s.Get(customerID).ItemCount
}
