package cart

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/swara2402/Trenzy/pkg/models"
)

// Persister stores the durable per-session cart record. Consumers define the
// interface; the Redis implementation lives in pkg/redis. Persistence is
// best-effort: the in-memory store never blocks on it.
type Persister interface {
	SaveLines(ctx context.Context, sessionID string, lines []models.PersistedCartLine) error
	LoadLines(ctx context.Context, sessionID string) ([]models.PersistedCartLine, error)
	DeleteLines(ctx context.Context, sessionID string) error
}

// Snapshot is a consistent view of one cart state: the lines plus the totals
// derived from exactly those lines. Observers only ever see snapshots.
type Snapshot struct {
	SessionID  string            `json:"session_id"`
	Lines      []models.CartLine `json:"lines"`
	TotalItems int               `json:"total_items"`
	TotalPrice float64           `json:"total_price"`
	IsOpen     bool              `json:"is_open"`
}

// Store holds one browsing session's cart. A single mutex covers both the
// line mutations and the derived totals, so a subscriber or reader can never
// observe updated lines with stale totals.
type Store struct {
	mu        sync.Mutex
	sessionID string
	order     []string // product ids, insertion order = display order
	lines     map[string]*models.CartLine
	isOpen    bool
	subs      []func(Snapshot)
	persister Persister

	persistTimeout time.Duration
	persistWG      sync.WaitGroup
	persistMu      sync.Mutex
	persistSeq     uint64
	persistApplied uint64
}

func NewStore(sessionID string, persister Persister) *Store {
	return &Store{
		sessionID:      sessionID,
		lines:          make(map[string]*models.CartLine),
		persister:      persister,
		persistTimeout: 5 * time.Second,
	}
}

// AddToCart merges the product into the cart: an existing line for the same
// product id has its quantity incremented, otherwise a new line is appended.
// Quantities below 1 count as 1. Never fails.
func (s *Store) AddToCart(product models.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	s.mu.Lock()
	if line, ok := s.lines[product.ID]; ok {
		line.Quantity += quantity
	} else {
		s.lines[product.ID] = &models.CartLine{Product: product, Quantity: quantity}
		s.order = append(s.order, product.ID)
	}
	s.afterMutationLocked(true)
}

// UpdateQuantity sets the line's quantity, removing the line entirely when
// the new quantity drops below 1. Unknown product ids are a no-op.
func (s *Store) UpdateQuantity(productID string, quantity int) {
	s.mu.Lock()
	line, ok := s.lines[productID]
	if !ok {
		s.mu.Unlock()
		return
	}
	if quantity < 1 {
		s.removeLocked(productID)
	} else {
		line.Quantity = quantity
	}
	s.afterMutationLocked(true)
}

// RemoveFromCart deletes the line if present; absent ids are a no-op.
func (s *Store) RemoveFromCart(productID string) {
	s.mu.Lock()
	if _, ok := s.lines[productID]; !ok {
		s.mu.Unlock()
		return
	}
	s.removeLocked(productID)
	s.afterMutationLocked(true)
}

// ClearCart empties all lines. The open/closed drawer flag is untouched.
func (s *Store) ClearCart() {
	s.mu.Lock()
	s.lines = make(map[string]*models.CartLine)
	s.order = nil
	s.afterMutationLocked(true)
}

// SetOpen flips the drawer visibility flag. Presentation-only: it is not
// persisted and does not touch line data.
func (s *Store) SetOpen(open bool) {
	s.mu.Lock()
	s.isOpen = open
	s.afterMutationLocked(false)
}

// ToggleOpen flips the drawer flag and reports the new state.
func (s *Store) ToggleOpen() bool {
	s.mu.Lock()
	s.isOpen = !s.isOpen
	open := s.isOpen
	s.afterMutationLocked(false)
	return open
}

// Subscribe registers an observer that receives one consistent snapshot per
// mutation. Callbacks run outside the store lock.
func (s *Store) Subscribe(fn func(Snapshot)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subs = append(s.subs, fn)
}

func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshotLocked()
}

func (s *Store) Lines() []models.CartLine {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.copyLinesLocked()
}

func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	total := 0
	for _, line := range s.lines {
		total += line.Quantity
	}
	return total
}

// TotalPrice is the exact sum of quantity * price over the current lines, at
// full precision. Rounding to two decimals happens only at display time.
func (s *Store) TotalPrice() float64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	var total float64
	for _, line := range s.lines {
		total += line.Subtotal()
	}
	return total
}

func (s *Store) IsOpen() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isOpen
}

// seed loads restored lines without notifying subscribers or writing the
// persister back. Used by the manager when rehydrating a session.
func (s *Store) seed(lines []models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, line := range lines {
		if line.Quantity < 1 {
			continue
		}
		if _, ok := s.lines[line.Product.ID]; ok {
			continue
		}
		copied := line
		s.lines[line.Product.ID] = &copied
		s.order = append(s.order, line.Product.ID)
	}
}

// Flush waits for in-flight persistence writes. Test hook.
func (s *Store) Flush() {
	s.persistWG.Wait()
}

func (s *Store) removeLocked(productID string) {
	delete(s.lines, productID)
	for i, id := range s.order {
		if id == productID {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// afterMutationLocked finishes every mutation: it takes the snapshot while
// still holding the lock, unlocks, notifies subscribers, and kicks off the
// best-effort persistence write. Callers enter with s.mu held.
func (s *Store) afterMutationLocked(persist bool) {
	snapshot := s.snapshotLocked()
	subs := make([]func(Snapshot), len(s.subs))
	copy(subs, s.subs)

	var persisted []models.PersistedCartLine
	var seq uint64
	if persist && s.persister != nil {
		persisted = make([]models.PersistedCartLine, 0, len(snapshot.Lines))
		for _, line := range snapshot.Lines {
			persisted = append(persisted, models.PersistedCartLine{
				ProductID: line.Product.ID,
				Quantity:  line.Quantity,
			})
		}
		s.persistSeq++
		seq = s.persistSeq
	}
	s.mu.Unlock()

	for _, fn := range subs {
		fn(snapshot)
	}

	if persist && s.persister != nil {
		s.persistWG.Add(1)
		go func() {
			defer s.persistWG.Done()
			// Writes are serialized and stale snapshots skipped, so the
			// record always converges on the latest mutation.
			s.persistMu.Lock()
			defer s.persistMu.Unlock()
			if seq <= s.persistApplied {
				return
			}
			s.persistApplied = seq

			ctx, cancel := context.WithTimeout(context.Background(), s.persistTimeout)
			defer cancel()
			if err := s.persister.SaveLines(ctx, s.sessionID, persisted); err != nil {
				// In-memory state is authoritative; a storage hiccup must
				// never block or revert the interactive session.
				log.Printf("Warning: failed to persist cart %s: %v", s.sessionID, err)
			}
		}()
	}
}

func (s *Store) snapshotLocked() Snapshot {
	lines := s.copyLinesLocked()
	totalItems := 0
	var totalPrice float64
	for _, line := range lines {
		totalItems += line.Quantity
		totalPrice += line.Subtotal()
	}
	return Snapshot{
		SessionID:  s.sessionID,
		Lines:      lines,
		TotalItems: totalItems,
		TotalPrice: totalPrice,
		IsOpen:     s.isOpen,
	}
}

func (s *Store) copyLinesLocked() []models.CartLine {
	lines := make([]models.CartLine, 0, len(s.order))
	for _, id := range s.order {
		if line, ok := s.lines[id]; ok {
			lines = append(lines, *line)
		}
	}
	return lines
}
