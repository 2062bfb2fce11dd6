package mealplan

import (
	"context"
	"reflect"
	"testing"

	"nutri-meal-planner/internal/snapshot"
)

func testMeal(id string, calories, protein, carbs, fats float64) Meal {
	return Meal{
		ID:          id,
		Title:       "Meal " + id,
		Calories:    calories,
		Protein:     protein,
		Carbs:       carbs,
		Fats:        fats,
		Tags:        []string{"Quick"},
		Ingredients: []string{"rice", "egg"},
	}
}

func TestTotalNutrition(t *testing.T) {
	s := NewStore(context.Background(), nil)

	if got := s.TotalNutrition(); got != (Nutrition{}) {
		t.Fatalf("Expected zero totals for empty slots, got %+v", got)
	}

	a := testMeal("a", 400, 30, 40, 10)
	b := testMeal("b", 250.5, 12, 20, 8)
	s.SelectMeal(Breakfast, &a)
	s.SelectMeal(Dinner, &b)
	s.SelectMeal(Snacks, &a)

	want := Nutrition{Calories: 1050.5, Protein: 72, Carbs: 100, Fats: 28}
	if got := s.TotalNutrition(); got != want {
		t.Errorf("Expected %+v, got %+v", want, got)
	}

	t.Run("RecommendationsDoNotCount", func(t *testing.T) {
		s.SetRecommendations([]Meal{testMeal("c", 999, 99, 99, 99)})
		if got := s.TotalNutrition(); got != want {
			t.Errorf("Expected totals unaffected by recommendations, got %+v", got)
		}
	})

	t.Run("ClearingSlot", func(t *testing.T) {
		s.SelectMeal(Snacks, nil)
		want := Nutrition{Calories: 650.5, Protein: 42, Carbs: 60, Fats: 18}
		if got := s.TotalNutrition(); got != want {
			t.Errorf("Expected %+v, got %+v", want, got)
		}
	})
}

func TestSelectMeal(t *testing.T) {
	s := NewStore(context.Background(), nil)

	t.Run("SlotSurvivesNewRecommendations", func(t *testing.T) {
		mealA := testMeal("a", 400, 30, 40, 10)
		mealB := testMeal("b", 300, 20, 30, 5)
		s.SetRecommendations([]Meal{mealA})
		s.SelectMeal(Lunch, &mealA)
		s.SetRecommendations([]Meal{mealB})

		lunch := s.SelectedMeals().Lunch
		if lunch == nil || !reflect.DeepEqual(*lunch, mealA) {
			t.Errorf("Expected lunch to still hold meal a, got %+v", lunch)
		}
	})

	t.Run("StoresDetachedCopy", func(t *testing.T) {
		meal := testMeal("d", 100, 1, 1, 1)
		s.SelectMeal(Dinner, &meal)
		meal.Title = "changed"
		meal.Tags[0] = "changed"
		dinner := s.SelectedMeals().Dinner
		if dinner.Title != "Meal d" || dinner.Tags[0] != "Quick" {
			t.Errorf("Expected slot to hold a detached copy, got %+v", dinner)
		}
	})

	t.Run("UnknownSlotIsNoop", func(t *testing.T) {
		before := s.SelectedMeals()
		meal := testMeal("e", 1, 1, 1, 1)
		s.SelectMeal(Slot("brunch"), &meal)
		if !reflect.DeepEqual(before, s.SelectedMeals()) {
			t.Error("Expected slots unchanged")
		}
	})
}

func TestToggleFavorite(t *testing.T) {
	s := NewStore(context.Background(), nil)

	s.ToggleFavorite("x")
	if !s.IsFavorite("x") {
		t.Fatal("Expected x to be a favorite")
	}
	s.ToggleFavorite("x")
	if s.IsFavorite("x") {
		t.Error("Expected double toggle to restore membership")
	}

	meal := testMeal("m1", 1, 1, 1, 1)
	s.SetRecommendations([]Meal{meal})
	s.ToggleFavorite("m1")
	s.ToggleFavorite("gone")
	favs := s.FavoriteMeals()
	if len(favs) != 1 || favs[0].ID != "m1" {
		t.Errorf("Expected only resolvable favorites, got %+v", favs)
	}
	if ids := s.Favorites(); !reflect.DeepEqual(ids, []string{"gone", "m1"}) {
		t.Errorf("Expected stale favorite ids to be kept, got %v", ids)
	}
}

func TestStatus(t *testing.T) {
	s := NewStore(context.Background(), nil)

	s.SetLoading(true)
	msg := "Rate limit exceeded"
	s.SetError(&msg)
	st := s.Status()
	if !st.Loading || st.Error == nil || *st.Error != msg {
		t.Fatalf("Unexpected status: %+v", st)
	}

	s.SetLoading(false)
	s.ClearError()
	st = s.Status()
	if st.Loading || st.Error != nil {
		t.Errorf("Expected cleared status, got %+v", st)
	}
}

func TestRecommendationsOrDefault(t *testing.T) {
	s := NewStore(context.Background(), nil)

	defaults := s.RecommendationsOrDefault()
	if len(defaults) != 4 || defaults[0].Title != "Mediterranean Quinoa Bowl" {
		t.Fatalf("Expected the four default meals, got %d", len(defaults))
	}
	if _, ok := s.FindMeal("default-2"); !ok {
		t.Error("Expected default meal to be found by id")
	}

	s.SetRecommendations([]Meal{testMeal("g", 1, 1, 1, 1)})
	if recs := s.RecommendationsOrDefault(); len(recs) != 1 || recs[0].ID != "g" {
		t.Errorf("Expected generated recommendations, got %+v", recs)
	}
}

func TestPersistence(t *testing.T) {
	ctx := context.Background()
	snapshots := snapshot.NewMemoryStore()

	s := NewStore(ctx, snapshots)
	meal := testMeal("p", 500, 40, 50, 20)
	s.SetRecommendations([]Meal{meal})
	s.SelectMeal(Breakfast, &meal)
	s.ToggleFavorite("p")
	s.ToggleFavorite("q")
	msg := "boom"
	s.SetError(&msg)

	reloaded := NewStore(ctx, snapshots)
	if b := reloaded.SelectedMeals().Breakfast; b == nil || b.ID != "p" {
		t.Errorf("Expected breakfast to survive reload, got %+v", b)
	}
	if !reloaded.IsFavorite("p") || !reloaded.IsFavorite("q") {
		t.Error("Expected favorites to survive reload")
	}
	if len(reloaded.Recommendations()) != 0 {
		t.Error("Expected recommendations not to be persisted")
	}
	if reloaded.Status().Error != nil {
		t.Error("Expected error not to be persisted")
	}
}

func TestMissingIngredients(t *testing.T) {
	meal := Meal{
		Ingredients: []string{"Chicken", "rice", "Lemon", "garlic"},
		InPantry:    []string{"chicken breast", "Brown Rice"},
	}

	missing := meal.MissingIngredients()
	if !reflect.DeepEqual(missing, []string{"Lemon", "garlic"}) {
		t.Errorf("Expected [Lemon garlic], got %v", missing)
	}
	matched, total := meal.PantryMatch()
	if matched != 2 || total != 4 {
		t.Errorf("Expected 2/4, got %d/%d", matched, total)
	}

	t.Run("NoPantryList", func(t *testing.T) {
		m := Meal{Ingredients: []string{"a", "b"}}
		if got := m.MissingIngredients(); len(got) != 2 {
			t.Errorf("Expected every ingredient missing, got %v", got)
		}
	})
}

func TestParseSlot(t *testing.T) {
	if s, err := ParseSlot("dinner"); err != nil || s != Dinner {
		t.Errorf("Expected dinner, got %v %v", s, err)
	}
	if _, err := ParseSlot("brunch"); err == nil {
		t.Error("Expected an error for unknown slot")
	}
	if ClampMatchScore(140) != 100 || ClampMatchScore(-3) != 0 || ClampMatchScore(87) != 87 {
		t.Error("Unexpected ClampMatchScore result")
	}
}
