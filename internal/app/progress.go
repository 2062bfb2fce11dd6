package app

import (
	"math"

	"nutri-meal-planner/internal/mealplan"
	"nutri-meal-planner/internal/preferences"
)

// MacroProgress compares the planned intake of one macro with its goal.
type MacroProgress struct {
	Label   string
	Unit    string
	Current float64
	Target  float64
	Percent float64
}

// NutritionProgress sums the filled meal slots against the nutrition goals.
// Percent is capped at 100 and is zero for a zero target.
func (a *App) NutritionProgress() []MacroProgress {
	return nutritionProgress(a.MealPlan.TotalNutrition(), a.Preferences.GoalTargets())
}

func nutritionProgress(total mealplan.Nutrition, targets preferences.Targets) []MacroProgress {
	rows := []MacroProgress{
		{Label: "Calories", Unit: " kcal", Current: total.Calories, Target: targets.Calories},
		{Label: "Protein", Unit: "g", Current: total.Protein, Target: targets.Protein},
		{Label: "Carbs", Unit: "g", Current: total.Carbs, Target: targets.Carbs},
		{Label: "Fats", Unit: "g", Current: total.Fats, Target: targets.Fats},
	}
	for i := range rows {
		if rows[i].Target > 0 {
			rows[i].Percent = math.Min(rows[i].Current/rows[i].Target*100, 100)
		}
	}
	return rows
}
