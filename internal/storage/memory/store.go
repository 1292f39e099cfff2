package memory

import (
	"context"
	"fmt"
	"sync"

	interfaces "github.com/sheikh-saqib/cashbook/internal/interfaces" // interface ItemStore
	"github.com/sheikh-saqib/cashbook/internal/models"                 // domain models: Item
	"github.com/sheikh-saqib/cashbook/internal/storage"                // shared store errors
)

// ItemStore is an in-memory implementation of interfaces.ItemStore.
// It keeps items in insertion order and is safe for concurrent use.
type ItemStore struct {
	mu    sync.Mutex     // protects items and index
	items []models.Item  // all items in the order they were saved
	index map[uint64]int // item id -> position in items
}

// NewItemStore creates and returns an empty ItemStore
func NewItemStore() *ItemStore {
	return &ItemStore{
		items: make([]models.Item, 0),
		index: make(map[uint64]int),
	}
}

// SaveItem appends item. Saving an id twice returns storage.ErrDuplicate.
func (m *ItemStore) SaveItem(ctx context.Context, item models.Item) error {

	m.mu.Lock()         // lock to prevent concurrent writes
	defer m.mu.Unlock() // unlock when the function exits

	if _, exists := m.index[item.ID]; exists {
		return fmt.Errorf("item %d: %w", item.ID, storage.ErrDuplicate)
	}
	m.index[item.ID] = len(m.items)
	m.items = append(m.items, item.Clone())
	return nil
}

func (m *ItemStore) GetItem(ctx context.Context, id uint64) (models.Item, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	pos, exists := m.index[id]
	if !exists {
		return models.Item{}, fmt.Errorf("item %d: %w", id, storage.ErrNotFound)
	}
	return m.items[pos].Clone(), nil
}

// ListItems returns copies of all items so callers can't modify internal state.
func (m *ItemStore) ListItems(ctx context.Context) ([]models.Item, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	copied := make([]models.Item, len(m.items))
	for i, item := range m.items {
		copied[i] = item.Clone()
	}
	return copied, nil
}

func (m *ItemStore) ListItemsByKind(ctx context.Context, kind models.Entry) ([]models.Item, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	var result []models.Item
	for _, item := range m.items {
		if item.Kind == kind {
			result = append(result, item.Clone())
		}
	}
	return result, nil
}

func (m *ItemStore) LastID(ctx context.Context) (uint64, error) {

	m.mu.Lock()
	defer m.mu.Unlock()

	var last uint64
	for id := range m.index {
		last = max(last, id)
	}
	return last, nil
}

// Compile-time check: ensure ItemStore implements the ItemStore interface
var _ interfaces.ItemStore = (*ItemStore)(nil)
