// Package assistant gathers store state, calls the meal and shopping list
// generators and commits their results back into the stores.
package assistant

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/generator"
	"nutri-meal-planner/internal/mealplan"
	"nutri-meal-planner/internal/pantry"
	"nutri-meal-planner/internal/preferences"
)

// ErrSuperseded is returned by a generation call whose result was discarded
// because a newer call of the same kind was started before it finished.
var ErrSuperseded = errors.New("generation superseded by a newer request")

// Generator produces meals and shopping lists. *generator.Service runs them
// in-process; HTTPGenerator calls a remote generator server.
type Generator interface {
	GenerateMeals(ctx context.Context, req generator.MealRequest) (*generator.MealResponse, error)
	GenerateShoppingList(ctx context.Context, req generator.ShoppingListRequest) (*generator.ShoppingListResponse, error)
}

// Assistant runs generation calls against the stores. Each call takes a
// token; only the call holding the latest token of its kind may commit.
type Assistant struct {
	prefs  *preferences.Store
	pantry *pantry.Store
	meals  *mealplan.Store
	gen    Generator

	defaultDays int

	mu            sync.Mutex
	mealEpoch     uint64
	shoppingEpoch uint64

	log *logrus.Entry
}

// New creates an Assistant. defaultDays is used when GenerateShoppingList
// is called without a positive horizon.
func New(prefs *preferences.Store, pantryStore *pantry.Store, meals *mealplan.Store, gen Generator, defaultDays int) *Assistant {
	if defaultDays <= 0 {
		defaultDays = generator.DefaultDaysToPlan
	}
	return &Assistant{
		prefs:       prefs,
		pantry:      pantryStore,
		meals:       meals,
		gen:         gen,
		defaultDays: defaultDays,
		log:         logrus.WithField("component", "assistant"),
	}
}

// GenerateMeals requests fresh recommendations. On success they replace the
// current ones; on failure the error message is stored and the
// recommendations are left as they were. The loading flag is cleared by the
// latest call whichever way it ends.
func (a *Assistant) GenerateMeals(ctx context.Context) ([]mealplan.Meal, error) {
	a.mu.Lock()
	a.mealEpoch++
	token := a.mealEpoch
	a.meals.ClearError()
	a.meals.SetLoading(true)
	a.mu.Unlock()

	start := time.Now()
	log := a.log.WithFields(logrus.Fields{"operation": generator.OpGenerateMeals, "epoch": token})

	resp, genErr := a.callMeals(ctx, a.mealRequest())

	a.mu.Lock()
	defer a.mu.Unlock()

	if token != a.mealEpoch {
		log.WithField("duration", time.Since(start)).Info("discarding superseded meal generation")
		return nil, ErrSuperseded
	}

	a.meals.SetLoading(false)

	if genErr != nil {
		msg := genErr.Error()
		a.meals.SetError(&msg)
		log.WithError(genErr).WithField("duration", time.Since(start)).Warn("meal generation failed")
		return nil, fmt.Errorf("failed to generate meals: %w", genErr)
	}

	a.meals.SetRecommendations(resp.Meals)
	log.WithFields(logrus.Fields{
		"count":    len(resp.Meals),
		"duration": time.Since(start),
	}).Info("meal recommendations updated")
	return resp.Meals, nil
}

func (a *Assistant) callMeals(ctx context.Context, req generator.MealRequest) (resp *generator.MealResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("meal generator panicked: %v", r)
		}
	}()
	resp, err = a.gen.GenerateMeals(ctx, req)
	if err == nil && resp == nil {
		err = errors.New("empty response from meal generator")
	}
	return resp, err
}

// GenerateShoppingList requests a shopping list for daysToPlan days and
// replaces the current list with it. Nothing is written on failure.
func (a *Assistant) GenerateShoppingList(ctx context.Context, daysToPlan int) (*generator.ShoppingListResponse, error) {
	if daysToPlan <= 0 {
		daysToPlan = a.defaultDays
	}

	a.mu.Lock()
	a.shoppingEpoch++
	token := a.shoppingEpoch
	a.mu.Unlock()

	start := time.Now()
	log := a.log.WithFields(logrus.Fields{
		"operation": generator.OpGenerateShoppingList,
		"epoch":     token,
		"days":      daysToPlan,
	})

	resp, genErr := a.callShoppingList(ctx, a.shoppingListRequest(daysToPlan))

	a.mu.Lock()
	defer a.mu.Unlock()

	if token != a.shoppingEpoch {
		log.WithField("duration", time.Since(start)).Info("discarding superseded shopping list generation")
		return nil, ErrSuperseded
	}

	if genErr != nil {
		log.WithError(genErr).WithField("duration", time.Since(start)).Warn("shopping list generation failed")
		return nil, fmt.Errorf("failed to generate shopping list: %w", genErr)
	}

	a.pantry.SetShoppingList(resp.ShoppingList)
	log.WithFields(logrus.Fields{
		"count":          len(resp.ShoppingList),
		"estimatedMeals": resp.EstimatedMeals,
		"duration":       time.Since(start),
	}).Info("shopping list replaced")
	return resp, nil
}

func (a *Assistant) callShoppingList(ctx context.Context, req generator.ShoppingListRequest) (resp *generator.ShoppingListResponse, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("shopping list generator panicked: %v", r)
		}
	}()
	resp, err = a.gen.GenerateShoppingList(ctx, req)
	if err == nil && resp == nil {
		err = errors.New("empty response from shopping list generator")
	}
	return resp, err
}

func (a *Assistant) mealRequest() generator.MealRequest {
	items := a.pantry.PantryItems()
	entries := make([]generator.PantryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, generator.PantryEntry{
			Name:      item.Name,
			Quantity:  item.Quantity,
			ExpiresIn: item.ExpiresIn,
		})
	}
	return generator.MealRequest{
		Preferences:    a.prefs.ActivePreferences(),
		Pantry:         entries,
		QuickSettings:  a.prefs.QuickSettingFlags(),
		NutritionGoals: a.prefs.GoalTargets(),
	}
}

func (a *Assistant) shoppingListRequest(daysToPlan int) generator.ShoppingListRequest {
	items := a.pantry.PantryItems()
	entries := make([]generator.PantryEntry, 0, len(items))
	for _, item := range items {
		entries = append(entries, generator.PantryEntry{Name: item.Name, Quantity: item.Quantity})
	}

	recs := a.meals.Recommendations()
	summaries := make([]generator.MealSummary, 0, len(recs))
	for _, m := range recs {
		summaries = append(summaries, generator.MealSummary{
			Title:              m.Title,
			Ingredients:        m.Ingredients,
			MissingIngredients: m.MissingIngredients(),
		})
	}

	return generator.ShoppingListRequest{
		Preferences:    a.prefs.ActivePreferences(),
		Pantry:         entries,
		NutritionGoals: a.prefs.GoalTargets(),
		SelectedMeals:  summaries,
		DaysToPlan:     daysToPlan,
	}
}
