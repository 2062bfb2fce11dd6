package mealplan

import "fmt"

// Slot is one of the four fixed meal-plan positions.
type Slot string

const (
	Breakfast Slot = "breakfast"
	Lunch     Slot = "lunch"
	Dinner    Slot = "dinner"
	Snacks    Slot = "snacks"
)

// Slots lists every slot in display order.
var Slots = []Slot{Breakfast, Lunch, Dinner, Snacks}

// ParseSlot validates a slot name.
func ParseSlot(name string) (Slot, error) {
	for _, s := range Slots {
		if string(s) == name {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown meal slot %q", name)
}

// SelectedMeals holds at most one meal per slot.
type SelectedMeals struct {
	Breakfast *Meal `json:"breakfast"`
	Lunch     *Meal `json:"lunch"`
	Dinner    *Meal `json:"dinner"`
	Snacks    *Meal `json:"snacks"`
}

func (s *SelectedMeals) ref(slot Slot) **Meal {
	switch slot {
	case Breakfast:
		return &s.Breakfast
	case Lunch:
		return &s.Lunch
	case Dinner:
		return &s.Dinner
	case Snacks:
		return &s.Snacks
	}
	return nil
}

// Get returns the meal in slot, or nil.
func (s SelectedMeals) Get(slot Slot) *Meal {
	if p := s.ref(slot); p != nil {
		return *p
	}
	return nil
}

func (s SelectedMeals) clone() SelectedMeals {
	out := SelectedMeals{}
	for _, slot := range Slots {
		if m := s.Get(slot); m != nil {
			c := m.Clone()
			*out.ref(slot) = &c
		}
	}
	return out
}
