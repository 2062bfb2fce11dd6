package app

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"nutri-meal-planner/internal/assistant"
	"nutri-meal-planner/internal/mealplan"
	"nutri-meal-planner/internal/metrics"
	"nutri-meal-planner/internal/pantry"
	"nutri-meal-planner/internal/preferences"
	"nutri-meal-planner/internal/shared"
)

// App holds the application's state modules and the generation layer.
type App struct {
	Preferences *preferences.Store
	Pantry      *pantry.Store
	MealPlan    *mealplan.Store
	Assistant   *assistant.Assistant

	metricsStore *metrics.Store
	closers      []func() error
}

// NewApp creates an App from already-built components. metricsStore may be nil.
func NewApp(
	prefs *preferences.Store,
	pantryStore *pantry.Store,
	meals *mealplan.Store,
	asst *assistant.Assistant,
	metricsStore *metrics.Store,
) *App {
	return &App{
		Preferences:  prefs,
		Pantry:       pantryStore,
		MealPlan:     meals,
		Assistant:    asst,
		metricsStore: metricsStore,
	}
}

// Close releases everything Bootstrap opened, last opened first.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}

// AddDietaryPreference adds an active preference unless the label is blank
// or already present under any capitalisation.
func (a *App) AddDietaryPreference(label string) error {
	label = strings.TrimSpace(label)
	if label == "" {
		return &shared.ValidationError{Field: "label", Message: "is required"}
	}
	for _, p := range a.Preferences.DietaryPreferences() {
		if strings.EqualFold(p.Label, label) {
			return &shared.ValidationError{Field: "label", Message: fmt.Sprintf("%q already exists", p.Label)}
		}
	}
	a.Preferences.AddDietaryPreference(label)
	return nil
}

// UpdateGoal sets one nutrition goal by label.
func (a *App) UpdateGoal(label string, rawValue float64) error {
	if rawValue < 0 {
		return &shared.ValidationError{Field: "value", Message: "must not be negative"}
	}
	switch label {
	case preferences.GoalCalories, preferences.GoalProtein, preferences.GoalCarbs, preferences.GoalFats:
	default:
		return &shared.ValidationError{Field: "label", Message: fmt.Sprintf("unknown goal %q", label)}
	}
	a.Preferences.SetGoal(label, rawValue)
	return nil
}

// AddPantryItem validates and stores a new pantry item.
func (a *App) AddPantryItem(item pantry.PantryItem) (pantry.PantryItem, error) {
	item.Name = strings.TrimSpace(item.Name)
	if item.Name == "" {
		return pantry.PantryItem{}, &shared.ValidationError{Field: "name", Message: "is required"}
	}
	item.Quantity = strings.TrimSpace(item.Quantity)
	if item.Quantity == "" {
		return pantry.PantryItem{}, &shared.ValidationError{Field: "quantity", Message: "is required"}
	}
	return a.Pantry.AddPantryItem(item), nil
}

// AddShoppingItem validates and stores a new, unchecked shopping item.
func (a *App) AddShoppingItem(name, quantity string) (pantry.ShoppingListItem, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return pantry.ShoppingListItem{}, &shared.ValidationError{Field: "name", Message: "is required"}
	}
	return a.Pantry.AddShoppingItem(pantry.ShoppingListItem{
		Name:     name,
		Quantity: strings.TrimSpace(quantity),
	}), nil
}

// SelectMeal puts the recommended meal with mealID into the named slot. An
// empty mealID clears the slot.
func (a *App) SelectMeal(slotName, mealID string) error {
	slot, err := mealplan.ParseSlot(slotName)
	if err != nil {
		return &shared.ValidationError{Field: "slot", Message: err.Error()}
	}
	if mealID == "" {
		a.MealPlan.SelectMeal(slot, nil)
		return nil
	}
	m, ok := a.MealPlan.FindMeal(mealID)
	if !ok {
		return &shared.ValidationError{Field: "meal", Message: fmt.Sprintf("no recommendation with id %q", mealID)}
	}
	a.MealPlan.SelectMeal(slot, &m)
	return nil
}

// GenerateMeals runs a meal generation.
func (a *App) GenerateMeals(ctx context.Context) ([]mealplan.Meal, error) {
	return a.Assistant.GenerateMeals(ctx)
}

// DailyUsage returns stored generation usage, or nothing when no metrics
// store is configured.
func (a *App) DailyUsage(days int) ([]metrics.DailyUsage, error) {
	if a.metricsStore == nil {
		return nil, nil
	}
	return a.metricsStore.GetDailyUsage(days)
}

// CleanupMetrics removes generation metrics older than days.
func (a *App) CleanupMetrics(days int) (int64, error) {
	if a.metricsStore == nil {
		return 0, nil
	}
	return a.metricsStore.Cleanup(days)
}
