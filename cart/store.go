// Package cart owns the in-memory shopping carts. The Store is the single
// writer for a customer's cart; everything else observes snapshots.
package cart

import (
	"sync"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/dineflow/ordering-api/models"
	"github.com/dineflow/ordering-api/pricing"
)

// AddSpec describes the item to append. The caller resolves product data
// from the menu catalog before building one.
type AddSpec struct {
	ProductID          uint
	ProductName        string
	ProductDescription string
	BasePrice          decimal.Decimal
	ImageURL           string
	SelectedOptions    []models.SelectedOption
	Quantity           int
}

// Subscriber receives every post-mutation snapshot, in mutation order.
// Callbacks run synchronously under the store lock and must not call back
// into the store or block.
type Subscriber func(models.CartSnapshot)

// Store holds one customer's cart lines. All operations are synchronous;
// every mutation recomputes derived totals and notifies subscribers before
// returning.
type Store struct {
	mu      sync.Mutex
	lines   []models.CartLine
	subs    map[int]Subscriber
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: make(map[int]Subscriber)}
}

// AddItem appends a new line with a fresh id. Identical additions are never
// merged; each call yields a distinct line. Returns the created line.
func (s *Store) AddItem(spec AddSpec) models.CartLine {
	qty := spec.Quantity
	if qty < 1 {
		qty = 1
	}
	opts := make([]models.SelectedOption, len(spec.SelectedOptions))
	copy(opts, spec.SelectedOptions)

	line := models.CartLine{
		ID:                 uuid.NewString(),
		ProductID:          spec.ProductID,
		ProductName:        spec.ProductName,
		ProductDescription: spec.ProductDescription,
		BasePrice:          spec.BasePrice,
		ImageURL:           spec.ImageURL,
		SelectedOptions:    opts,
		Quantity:           qty,
	}
	line.TotalPrice = pricing.LineTotal(line.BasePrice, line.SelectedOptions, line.Quantity)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = append(s.lines, line)
	s.notifyLocked()
	return line
}

// RemoveItem deletes the line with the given id. Absent ids are a no-op,
// not an error; subscribers are still notified so views stay consistent.
func (s *Store) RemoveItem(lineID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, line := range s.lines {
		if line.ID == lineID {
			s.lines = append(s.lines[:i], s.lines[i+1:]...)
			break
		}
	}
	s.notifyLocked()
}

// UpdateQuantity sets the line's quantity, clamping values below 1 up to 1,
// and recomputes the derived total. Unknown ids are a no-op.
func (s *Store) UpdateQuantity(lineID string, quantity int) {
	if quantity < 1 {
		quantity = 1
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.lines {
		if s.lines[i].ID == lineID {
			s.lines[i].Quantity = quantity
			s.lines[i].TotalPrice = pricing.LineTotal(
				s.lines[i].BasePrice, s.lines[i].SelectedOptions, quantity)
			break
		}
	}
	s.notifyLocked()
}

// Clear empties the cart.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lines = nil
	s.notifyLocked()
}

// Snapshot returns a consistent copy of the cart with freshly derived
// totals. Mutating the returned value does not affect the store.
func (s *Store) Snapshot() models.CartSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

// TotalItems returns the summed quantity across lines.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.ItemCount(s.lines)
}

// TotalPrice returns the summed derived line totals.
func (s *Store) TotalPrice() decimal.Decimal {
	s.mu.Lock()
	defer s.mu.Unlock()
	return pricing.Subtotal(s.lines)
}

// Subscribe registers fn for post-mutation snapshots. The returned function
// removes the subscription.
func (s *Store) Subscribe(fn Subscriber) (unsubscribe func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.subs, id)
	}
}

func (s *Store) snapshotLocked() models.CartSnapshot {
	lines := make([]models.CartLine, len(s.lines))
	copy(lines, s.lines)
	for i := range lines {
		opts := make([]models.SelectedOption, len(lines[i].SelectedOptions))
		copy(opts, lines[i].SelectedOptions)
		lines[i].SelectedOptions = opts
	}
	return models.CartSnapshot{
		Lines:      lines,
		TotalItems: pricing.ItemCount(s.lines),
		TotalPrice: pricing.Subtotal(s.lines),
	}
}

func (s *Store) notifyLocked() {
	if len(s.subs) == 0 {
		return
	}
	snap := s.snapshotLocked()
	for _, fn := range s.subs {
		fn(snap)
	}
}
