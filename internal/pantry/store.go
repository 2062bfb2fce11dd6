// Package pantry tracks on-hand ingredients and the shopping list.
package pantry

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/snapshot"
)

// Store owns pantry items and the shopping list. Operations on unknown ids
// are silent no-ops.
type Store struct {
	mu        sync.Mutex
	state     State
	snapshots snapshot.Store
	log       *logrus.Entry
	newID     func() string
}

// NewStore restores the pantry snapshot, falling back to the default seed.
func NewStore(ctx context.Context, snapshots snapshot.Store) *Store {
	if snapshots == nil {
		snapshots = snapshot.NewMemoryStore()
	}
	s := &Store{
		state:     DefaultState(),
		snapshots: snapshots,
		log:       logrus.WithField("store", "pantry"),
		newID:     uuid.NewString,
	}

	var restored State
	ok, err := snapshot.Restore(ctx, snapshots, snapshot.KeyPantry, &restored)
	switch {
	case err != nil:
		s.log.WithError(err).Warn("discarding pantry snapshot, using defaults")
	case ok:
		s.state = restored
	}
	return s
}

func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)

	if err := snapshot.Persist(context.Background(), s.snapshots, snapshot.KeyPantry, s.state); err != nil {
		s.log.WithError(err).Error("failed to persist pantry")
	}
}

func (s *Store) read() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// AddPantryItem appends item under a fresh id and returns the stored copy.
func (s *Store) AddPantryItem(item PantryItem) PantryItem {
	item.ID = s.newID()
	s.update(func(st *State) {
		st.PantryItems = append(st.PantryItems, item)
	})
	return item
}

// RemovePantryItem deletes the pantry item with id.
func (s *Store) RemovePantryItem(id string) {
	s.update(func(st *State) {
		kept := st.PantryItems[:0:0]
		for _, item := range st.PantryItems {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		st.PantryItems = kept
	})
}

// UpdatePantryItem merges the non-nil fields of u into the item with id.
func (s *Store) UpdatePantryItem(id string, u PantryItemUpdate) {
	s.update(func(st *State) {
		for i := range st.PantryItems {
			if st.PantryItems[i].ID == id {
				u.apply(&st.PantryItems[i])
			}
		}
	})
}

// AddShoppingItem appends item under a fresh id and returns the stored copy.
func (s *Store) AddShoppingItem(item ShoppingListItem) ShoppingListItem {
	item.ID = s.newID()
	s.update(func(st *State) {
		st.ShoppingList = append(st.ShoppingList, item)
	})
	return item
}

// RemoveShoppingItem deletes the shopping item with id.
func (s *Store) RemoveShoppingItem(id string) {
	s.update(func(st *State) {
		kept := st.ShoppingList[:0:0]
		for _, item := range st.ShoppingList {
			if item.ID != id {
				kept = append(kept, item)
			}
		}
		st.ShoppingList = kept
	})
}

// ToggleShoppingItem flips the checked flag of the shopping item with id.
func (s *Store) ToggleShoppingItem(id string) {
	s.update(func(st *State) {
		for i := range st.ShoppingList {
			if st.ShoppingList[i].ID == id {
				st.ShoppingList[i].Checked = !st.ShoppingList[i].Checked
			}
		}
	})
}

// SetShoppingList replaces the list with items exactly as given.
func (s *Store) SetShoppingList(items []ShoppingListItem) {
	next := append([]ShoppingListItem(nil), items...)
	s.update(func(st *State) {
		st.ShoppingList = next
	})
}

// ClearCheckedItems drops every checked shopping item.
func (s *Store) ClearCheckedItems() {
	s.update(func(st *State) {
		kept := st.ShoppingList[:0:0]
		for _, item := range st.ShoppingList {
			if !item.Checked {
				kept = append(kept, item)
			}
		}
		st.ShoppingList = kept
	})
}

// ImportLowStock adds an unchecked shopping item for every low pantry item
// not already on the list, comparing names case-insensitively. It returns
// the number of items added.
func (s *Store) ImportLowStock() int {
	added := 0
	s.update(func(st *State) {
		onList := make(map[string]struct{}, len(st.ShoppingList))
		for _, item := range st.ShoppingList {
			onList[normalizeName(item.Name)] = struct{}{}
		}
		for _, p := range st.PantryItems {
			if !p.IsLow {
				continue
			}
			key := normalizeName(p.Name)
			if _, ok := onList[key]; ok {
				continue
			}
			onList[key] = struct{}{}
			st.ShoppingList = append(st.ShoppingList, ShoppingListItem{
				ID:   s.newID(),
				Name: p.Name,
			})
			added++
		}
	})
	return added
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() State {
	return s.read()
}

// PantryItems returns a copy of the pantry items.
func (s *Store) PantryItems() []PantryItem {
	return s.read().PantryItems
}

// ShoppingList returns a copy of the shopping list.
func (s *Store) ShoppingList() []ShoppingListItem {
	return s.read().ShoppingList
}

// LowStockItems returns the pantry items flagged as running low.
func (s *Store) LowStockItems() []PantryItem {
	var low []PantryItem
	for _, item := range s.read().PantryItems {
		if item.IsLow {
			low = append(low, item)
		}
	}
	return low
}

// CheckedCount returns how many shopping items are checked off.
func (s *Store) CheckedCount() int {
	n := 0
	for _, item := range s.read().ShoppingList {
		if item.Checked {
			n++
		}
	}
	return n
}
