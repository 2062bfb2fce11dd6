package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutri-meal-planner/internal/app"
	"nutri-meal-planner/internal/assistant"
	"nutri-meal-planner/internal/generator"
	"nutri-meal-planner/internal/mealplan"
	"nutri-meal-planner/internal/pantry"
	"nutri-meal-planner/internal/preferences"
)

type recordingGenerator struct {
	shoppingReqs []generator.ShoppingListRequest
}

func (g *recordingGenerator) GenerateMeals(ctx context.Context, req generator.MealRequest) (*generator.MealResponse, error) {
	return &generator.MealResponse{Meals: []mealplan.Meal{{
		ID:          "gen-1",
		Title:       "Salmon Bowl",
		Calories:    610,
		Ingredients: []string{"Salmon", "Rice", "Spinach"},
		InPantry:    []string{"Brown Rice", "Spinach"},
	}}}, nil
}

func (g *recordingGenerator) GenerateShoppingList(ctx context.Context, req generator.ShoppingListRequest) (*generator.ShoppingListResponse, error) {
	g.shoppingReqs = append(g.shoppingReqs, req)
	return &generator.ShoppingListResponse{
		ShoppingList: []pantry.ShoppingListItem{{ID: "s1", Name: "Salmon"}},
		Tips:         []string{},
	}, nil
}

func newShellApp(gen assistant.Generator) *app.App {
	ctx := context.Background()
	prefs := preferences.NewStore(ctx, nil)
	pantryStore := pantry.NewStore(ctx, nil)
	meals := mealplan.NewStore(ctx, nil)
	return app.NewApp(prefs, pantryStore, meals, assistant.New(prefs, pantryStore, meals, gen, 0), nil)
}

func TestShellKeepsRecommendationsAcrossCommands(t *testing.T) {
	gen := &recordingGenerator{}
	a := newShellApp(gen)

	script := strings.Join([]string{
		"generate-meals",
		"select lunch gen-1",
		"favorite gen-1",
		"shopping-list -days 3",
		"exit",
		"select dinner gen-1",
	}, "\n")
	var out bytes.Buffer
	require.NoError(t, runShell(context.Background(), a, strings.NewReader(script), &out))

	lunch := a.MealPlan.SelectedMeals().Get(mealplan.Lunch)
	require.NotNil(t, lunch)
	assert.Equal(t, "Salmon Bowl", lunch.Title)
	assert.Nil(t, a.MealPlan.SelectedMeals().Get(mealplan.Dinner), "commands after exit are not run")
	require.Len(t, a.MealPlan.FavoriteMeals(), 1)

	require.Len(t, gen.shoppingReqs, 1)
	req := gen.shoppingReqs[0]
	assert.Equal(t, 3, req.DaysToPlan)
	require.Len(t, req.SelectedMeals, 1)
	assert.Equal(t, []string{"Salmon"}, req.SelectedMeals[0].MissingIngredients)
	assert.Equal(t, "Salmon", a.Pantry.ShoppingList()[0].Name)
	assert.NotContains(t, out.String(), "error:")
}

func TestShellReportsErrorsAndContinues(t *testing.T) {
	a := newShellApp(&recordingGenerator{})

	script := "select brunch default-1\nbogus\nshopping-list -days=x\npreferences add \"Low FODMAP\"\nshopping add \"Oat milk\"\n"
	var out bytes.Buffer
	require.NoError(t, runShell(context.Background(), a, strings.NewReader(script), &out))

	assert.Contains(t, out.String(), "error: slot:")
	assert.Contains(t, out.String(), "Unknown command: bogus")
	assert.Contains(t, a.Preferences.ActivePreferences(), "Low FODMAP")
	list := a.Pantry.ShoppingList()
	assert.Equal(t, "Oat milk", list[len(list)-1].Name)
}

func TestSplitArgs(t *testing.T) {
	tests := []struct {
		line    string
		want    []string
		wantErr bool
	}{
		{line: "", want: nil},
		{line: "  summary  ", want: []string{"summary"}},
		{line: `goals set "Protein Target" 150`, want: []string{"goals", "set", "Protein Target", "150"}},
		{line: `shopping add "" 2`, want: []string{"shopping", "add", "", "2"}},
		{line: `preferences add "Paleo`, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := splitArgs(tt.line)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
