package pantry

import (
	"context"
	"reflect"
	"testing"

	"nutri-meal-planner/internal/snapshot"
)

func strPtr(s string) *string { return &s }
func boolPtr(b bool) *bool    { return &b }

func TestPantryItems(t *testing.T) {
	s := NewStore(context.Background(), nil)

	if got := len(s.PantryItems()); got != 6 {
		t.Fatalf("Expected 6 default pantry items, got %d", got)
	}

	t.Run("AddAssignsFreshID", func(t *testing.T) {
		a := s.AddPantryItem(PantryItem{ID: "ignored", Name: "Tofu", Quantity: "400g", ExpiresIn: "1 week", Icon: "🧈"})
		b := s.AddPantryItem(PantryItem{Name: "Tofu", Quantity: "400g"})
		if a.ID == "" || a.ID == "ignored" || a.ID == b.ID {
			t.Errorf("Expected distinct fresh ids, got '%s' and '%s'", a.ID, b.ID)
		}
		if got := len(s.PantryItems()); got != 8 {
			t.Errorf("Expected 8 pantry items, got %d", got)
		}
	})

	t.Run("UpdateMergesFields", func(t *testing.T) {
		s.UpdatePantryItem("3", PantryItemUpdate{Quantity: strPtr("2 pcs"), IsLow: boolPtr(true)})
		var eggs PantryItem
		for _, item := range s.PantryItems() {
			if item.ID == "3" {
				eggs = item
			}
		}
		if eggs.Name != "Eggs" || eggs.Quantity != "2 pcs" || !eggs.IsLow || eggs.ExpiresIn != "1 week" {
			t.Errorf("Unexpected merged item: %+v", eggs)
		}
	})

	t.Run("UnknownIDIsNoop", func(t *testing.T) {
		before := s.PantryItems()
		s.UpdatePantryItem("missing", PantryItemUpdate{Name: strPtr("X")})
		s.RemovePantryItem("missing")
		if !reflect.DeepEqual(before, s.PantryItems()) {
			t.Error("Expected pantry to be unchanged")
		}
	})

	t.Run("Remove", func(t *testing.T) {
		s.RemovePantryItem("1")
		for _, item := range s.PantryItems() {
			if item.ID == "1" {
				t.Error("Expected Chicken Breast to be removed")
			}
		}
	})

	if got := len(s.LowStockItems()); got != 3 {
		t.Errorf("Expected 3 low stock items, got %d", got)
	}
}

func TestShoppingList(t *testing.T) {
	s := NewStore(context.Background(), nil)

	item := s.AddShoppingItem(ShoppingListItem{Name: "Oats", Quantity: "1kg"})
	if item.Checked {
		t.Error("Expected new item to be unchecked")
	}

	s.ToggleShoppingItem(item.ID)
	s.ToggleShoppingItem("1")
	if got := s.CheckedCount(); got != 2 {
		t.Fatalf("Expected 2 checked items, got %d", got)
	}

	t.Run("ClearCheckedIsIdempotent", func(t *testing.T) {
		s.ClearCheckedItems()
		first := s.ShoppingList()
		s.ClearCheckedItems()
		second := s.ShoppingList()
		if len(first) != 4 {
			t.Errorf("Expected 4 items after clearing, got %d", len(first))
		}
		if !reflect.DeepEqual(first, second) {
			t.Error("Expected second clear to leave the list unchanged")
		}
	})

	t.Run("RemoveAndToggleUnknown", func(t *testing.T) {
		s.RemoveShoppingItem("2")
		s.ToggleShoppingItem("missing")
		if got := len(s.ShoppingList()); got != 3 {
			t.Errorf("Expected 3 items, got %d", got)
		}
	})

	t.Run("SetShoppingListIsVerbatim", func(t *testing.T) {
		items := []ShoppingListItem{
			{ID: "a", Name: "Kale", Quantity: "1 bunch", Category: "Produce"},
			{ID: "b", Name: "Feta", Category: "Dairy", Checked: true},
		}
		s.SetShoppingList(items)
		items[0].Name = "mutated"
		got := s.ShoppingList()
		if got[0].Name != "Kale" || got[0].Category != "Produce" || !got[1].Checked {
			t.Errorf("Unexpected list after replace: %+v", got)
		}
	})
}

func TestImportLowStock(t *testing.T) {
	s := NewStore(context.Background(), nil)
	s.SetShoppingList(nil)
	s.UpdatePantryItem("4", PantryItemUpdate{IsLow: boolPtr(false)})

	if added := s.ImportLowStock(); added != 1 {
		t.Fatalf("Expected 1 item added, got %d", added)
	}
	list := s.ShoppingList()
	if len(list) != 1 || list[0].Name != "Brown Rice" || list[0].Checked || list[0].ID == "" {
		t.Fatalf("Unexpected shopping list: %+v", list)
	}

	if added := s.ImportLowStock(); added != 0 {
		t.Errorf("Expected second import to add nothing, got %d", added)
	}

	t.Run("CaseInsensitiveMatch", func(t *testing.T) {
		s.SetShoppingList([]ShoppingListItem{{ID: "x", Name: "  brown rice "}})
		if added := s.ImportLowStock(); added != 0 {
			t.Errorf("Expected case-insensitive duplicate to be skipped, got %d", added)
		}
	})
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()
	snapshots := snapshot.NewMemoryStore()

	s := NewStore(ctx, snapshots)
	added := s.AddPantryItem(PantryItem{Name: "Lentils", Quantity: "1kg"})
	s.ToggleShoppingItem("5")

	reloaded := NewStore(ctx, snapshots)
	found := false
	for _, item := range reloaded.PantryItems() {
		if item.ID == added.ID && item.Name == "Lentils" {
			found = true
		}
	}
	if !found {
		t.Error("Expected added pantry item to survive reload")
	}
	if reloaded.CheckedCount() != 1 {
		t.Errorf("Expected 1 checked item after reload, got %d", reloaded.CheckedCount())
	}
}
