package mealplan

// PlaceholderImages rotate over generated meals that come without a picture.
var PlaceholderImages = []string{
	"https://images.unsplash.com/photo-1512621776951-a57141f2eefd?w=600&q=80",
	"https://images.unsplash.com/photo-1467003909585-2f8a72700288?w=600&q=80",
	"https://images.unsplash.com/photo-1603133872878-684f208fb84b?w=600&q=80",
	"https://images.unsplash.com/photo-1525351484163-7529414344d8?w=600&q=80",
	"https://images.unsplash.com/photo-1546069901-ba9599a7e63c?w=600&q=80",
	"https://images.unsplash.com/photo-1540189549336-e6e99c3679fe?w=600&q=80",
	"https://images.unsplash.com/photo-1565299624946-b28f40a0ae38?w=600&q=80",
	"https://images.unsplash.com/photo-1504674900247-0877df9cc836?w=600&q=80",
}

// PlaceholderImage picks the image for the meal at index.
func PlaceholderImage(index int) string {
	if index < 0 {
		index = -index
	}
	return PlaceholderImages[index%len(PlaceholderImages)]
}

// DefaultMeals is shown until the first generation succeeds.
func DefaultMeals() []Meal {
	return []Meal{
		{
			ID:          "default-1",
			Title:       "Mediterranean Quinoa Bowl",
			Description: "Fresh vegetables, feta cheese, olives, and lemon herb dressing over fluffy quinoa.",
			Image:       PlaceholderImages[0],
			Calories:    485,
			Time:        "25 min",
			Servings:    2,
			Tags:        []string{"High Protein", "Vegetarian"},
			MatchScore:  98,
		},
		{
			ID:          "default-2",
			Title:       "Grilled Salmon with Asparagus",
			Description: "Omega-3 rich salmon with roasted asparagus and garlic mashed cauliflower.",
			Image:       PlaceholderImages[1],
			Calories:    520,
			Time:        "30 min",
			Servings:    2,
			Tags:        []string{"High Protein", "Keto"},
			MatchScore:  94,
		},
		{
			ID:          "default-3",
			Title:       "Asian Chicken Stir-Fry",
			Description: "Colorful bell peppers, snap peas, and tender chicken in a savory ginger sauce.",
			Image:       PlaceholderImages[2],
			Calories:    410,
			Time:        "20 min",
			Servings:    3,
			Tags:        []string{"Quick", "Low Carb"},
			MatchScore:  91,
		},
		{
			ID:          "default-4",
			Title:       "Avocado Toast Stack",
			Description: "Multi-grain toast with smashed avocado, poached eggs, and microgreens.",
			Image:       PlaceholderImages[3],
			Calories:    380,
			Time:        "15 min",
			Servings:    1,
			Tags:        []string{"Breakfast", "Vegetarian"},
			MatchScore:  87,
		},
	}
}
