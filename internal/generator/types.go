package generator

import (
	"bytes"
	"encoding/json"
	"strconv"

	"nutri-meal-planner/internal/mealplan"
	"nutri-meal-planner/internal/pantry"
	"nutri-meal-planner/internal/preferences"
)

// DefaultDaysToPlan applies when a shopping list request names no horizon.
const DefaultDaysToPlan = 7

// PantryEntry is the pantry view sent to the generators.
type PantryEntry struct {
	Name      string `json:"name"`
	Quantity  string `json:"quantity"`
	ExpiresIn string `json:"expiresIn,omitempty"`
}

// MealRequest is the body of a meal generation call.
type MealRequest struct {
	Preferences    []string            `json:"preferences"`
	Pantry         []PantryEntry       `json:"pantry"`
	QuickSettings  map[string]bool     `json:"quickSettings"`
	NutritionGoals preferences.Targets `json:"nutritionGoals"`
}

// MealResponse is the success body of a meal generation call.
type MealResponse struct {
	Meals []mealplan.Meal `json:"meals"`
}

// MealSummary tells the shopping list generator what a recommended meal still needs.
type MealSummary struct {
	Title              string   `json:"title"`
	Ingredients        []string `json:"ingredients"`
	MissingIngredients []string `json:"missingIngredients"`
}

// ShoppingListRequest is the body of a shopping list generation call.
type ShoppingListRequest struct {
	Preferences    []string            `json:"preferences"`
	Pantry         []PantryEntry       `json:"pantry"`
	NutritionGoals preferences.Targets `json:"nutritionGoals"`
	SelectedMeals  []MealSummary       `json:"selectedMeals"`
	DaysToPlan     int                 `json:"daysToPlan"`
}

// UnmarshalJSON also accepts the legacy "daysToplan" spelling.
func (r *ShoppingListRequest) UnmarshalJSON(data []byte) error {
	type plain ShoppingListRequest
	var aux struct {
		plain
		Legacy *int `json:"daysToplan"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*r = ShoppingListRequest(aux.plain)
	if r.DaysToPlan == 0 && aux.Legacy != nil {
		r.DaysToPlan = *aux.Legacy
	}
	return nil
}

// ShoppingListResponse is the success body of a shopping list generation call.
type ShoppingListResponse struct {
	ShoppingList   []pantry.ShoppingListItem `json:"shoppingList"`
	EstimatedMeals int                       `json:"estimatedMeals"`
	Tips           []string                  `json:"tips"`
}

// ErrorResponse is the failure body of both generation calls.
type ErrorResponse struct {
	Error string `json:"error"`
}

// flexString accepts a JSON string or number; models sometimes answer
// quantities as bare numbers.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*f = flexString(n.String())
	return nil
}

// flexNumber accepts a JSON number or a numeric string.
type flexNumber float64

func (f *flexNumber) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*f = 0
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return err
		}
		*f = flexNumber(v)
		return nil
	}
	var v float64
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*f = flexNumber(v)
	return nil
}
