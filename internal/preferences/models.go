package preferences

import (
	"math"
	"strconv"

	"github.com/dustin/go-humanize"
)

// Fixed nutrition goal labels.
const (
	GoalCalories = "Daily Calories"
	GoalProtein  = "Protein Target"
	GoalCarbs    = "Carb Limit"
	GoalFats     = "Fat Target"
)

// Fixed quick setting ids.
const (
	QuickMeals     = "quick-meals"
	FamilyPortions = "family-portions"
	EcoFriendly    = "eco-friendly"
)

// DietaryPreference is a named dietary restriction toggle.
type DietaryPreference struct {
	Label  string `json:"label"`
	Active bool   `json:"active"`
}

// QuickSetting is one of the fixed planning shortcuts.
type QuickSetting struct {
	ID       string `json:"id"`
	Label    string `json:"label"`
	Sublabel string `json:"sublabel"`
	Active   bool   `json:"active"`
}

// NutritionGoal is a daily target. Value is always derived from RawValue.
type NutritionGoal struct {
	Label    string  `json:"label"`
	Value    string  `json:"value"`
	RawValue float64 `json:"rawValue"`
	Color    string  `json:"color"`
}

// Targets is the numeric view of the nutrition goals sent to the generators.
type Targets struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

// FormatGoalValue renders rawValue for display: "2,400 kcal" for the
// calorie goal and "120g" for every other goal.
func FormatGoalValue(label string, rawValue float64) string {
	if label == GoalCalories {
		// Grouped thousands, at most three fraction digits.
		return humanize.Commaf(math.Round(rawValue*1000)/1000) + " kcal"
	}
	return strconv.FormatFloat(rawValue, 'f', -1, 64) + "g"
}

func newGoal(label string, rawValue float64, color string) NutritionGoal {
	return NutritionGoal{
		Label:    label,
		Value:    FormatGoalValue(label, rawValue),
		RawValue: rawValue,
		Color:    color,
	}
}

// State is the persisted preferences snapshot.
type State struct {
	DietaryPreferences []DietaryPreference `json:"dietaryPreferences"`
	QuickSettings      []QuickSetting      `json:"quickSettings"`
	NutritionGoals     []NutritionGoal     `json:"nutritionGoals"`
}

// DefaultState returns the preferences a new user starts with.
func DefaultState() State {
	return State{
		DietaryPreferences: []DietaryPreference{
			{Label: "Vegetarian", Active: false},
			{Label: "Gluten-Free", Active: true},
			{Label: "Dairy-Free", Active: false},
			{Label: "Low-Carb", Active: true},
			{Label: "High-Protein", Active: true},
			{Label: "Keto", Active: false},
		},
		QuickSettings: []QuickSetting{
			{ID: QuickMeals, Label: "Quick meals only", Sublabel: "Under 30 min", Active: false},
			{ID: FamilyPortions, Label: "Family portions", Sublabel: "4+ servings", Active: true},
			{ID: EcoFriendly, Label: "Eco-friendly", Sublabel: "Low footprint", Active: true},
		},
		NutritionGoals: []NutritionGoal{
			newGoal(GoalCalories, 2400, "bg-accent"),
			newGoal(GoalProtein, 120, "bg-nutrition-protein"),
			newGoal(GoalCarbs, 250, "bg-nutrition-carbs"),
			newGoal(GoalFats, 80, "bg-nutrition-fats"),
		},
	}
}

func (s State) clone() State {
	return State{
		DietaryPreferences: append([]DietaryPreference(nil), s.DietaryPreferences...),
		QuickSettings:      append([]QuickSetting(nil), s.QuickSettings...),
		NutritionGoals:     append([]NutritionGoal(nil), s.NutritionGoals...),
	}
}
