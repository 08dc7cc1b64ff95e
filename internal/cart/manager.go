package cart

import (
	"context"
	"log"
	"sync"

	"github.com/swara2402/Trenzy/pkg/models"
)

// Catalog resolves product ids back to products when a persisted cart is
// restored. Absent products return (nil, nil).
type Catalog interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

// Manager owns one Store per browsing session. Sessions are single-writer;
// the manager only guards the registry itself.
type Manager struct {
	mu        sync.Mutex
	stores    map[string]*Store
	persister Persister
	catalog   Catalog
}

func NewManager(persister Persister, catalog Catalog) *Manager {
	return &Manager{
		stores:    make(map[string]*Store),
		persister: persister,
		catalog:   catalog,
	}
}

// Get returns the session's store, creating and restoring it on first touch.
// Restoration re-joins the persisted {product id, quantity} list against the
// catalog; lines whose product no longer exists are dropped.
func (m *Manager) Get(ctx context.Context, sessionID string) *Store {
	m.mu.Lock()
	if store, ok := m.stores[sessionID]; ok {
		m.mu.Unlock()
		return store
	}
	store := NewStore(sessionID, m.persister)
	m.stores[sessionID] = store
	m.mu.Unlock()

	m.restore(ctx, store, sessionID)
	return store
}

func (m *Manager) restore(ctx context.Context, store *Store, sessionID string) {
	if m.persister == nil {
		return
	}
	persisted, err := m.persister.LoadLines(ctx, sessionID)
	if err != nil {
		// A fresh cart beats a blocked session.
		log.Printf("Warning: failed to restore cart %s: %v", sessionID, err)
		return
	}
	if len(persisted) == 0 {
		return
	}

	lines := make([]models.CartLine, 0, len(persisted))
	for _, record := range persisted {
		product, err := m.catalog.GetProduct(ctx, record.ProductID)
		if err != nil {
			log.Printf("Warning: failed to re-join product %s for cart %s: %v",
				record.ProductID, sessionID, err)
			continue
		}
		if product == nil {
			continue
		}
		lines = append(lines, models.CartLine{Product: *product, Quantity: record.Quantity})
	}
	store.seed(lines)
}
