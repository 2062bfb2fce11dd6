package mealplan

import "strings"

// Meal is a recommended recipe with its nutrition facts.
type Meal struct {
	ID           string   `json:"id"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Image        string   `json:"image"`
	Calories     float64  `json:"calories"`
	Protein      float64  `json:"protein"`
	Carbs        float64  `json:"carbs"`
	Fats         float64  `json:"fats"`
	Time         string   `json:"time"`
	Servings     int      `json:"servings"`
	Tags         []string `json:"tags"`
	MatchScore   int      `json:"matchScore"`
	Ingredients  []string `json:"ingredients"`
	Instructions []string `json:"instructions"`
	InPantry     []string `json:"inPantry,omitempty"`
}

// Clone returns a deep copy so slots never share slices with recommendations.
func (m Meal) Clone() Meal {
	m.Tags = cloneStrings(m.Tags)
	m.Ingredients = cloneStrings(m.Ingredients)
	m.Instructions = cloneStrings(m.Instructions)
	m.InPantry = cloneStrings(m.InPantry)
	return m
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	return append([]string(nil), s...)
}

// MissingIngredients returns the ingredients not covered by InPantry. An
// ingredient is covered when some pantry entry contains it, ignoring case.
func (m Meal) MissingIngredients() []string {
	missing := []string{}
	for _, ing := range m.Ingredients {
		if !m.hasInPantry(ing) {
			missing = append(missing, ing)
		}
	}
	return missing
}

func (m Meal) hasInPantry(ingredient string) bool {
	needle := strings.ToLower(ingredient)
	for _, p := range m.InPantry {
		if strings.Contains(strings.ToLower(p), needle) {
			return true
		}
	}
	return false
}

// PantryMatch reports how many ingredients are already on hand.
func (m Meal) PantryMatch() (matched, total int) {
	total = len(m.Ingredients)
	return total - len(m.MissingIngredients()), total
}

// Nutrition is a summed macro breakdown.
type Nutrition struct {
	Calories float64 `json:"calories"`
	Protein  float64 `json:"protein"`
	Carbs    float64 `json:"carbs"`
	Fats     float64 `json:"fats"`
}

func (n Nutrition) add(m *Meal) Nutrition {
	return Nutrition{
		Calories: n.Calories + m.Calories,
		Protein:  n.Protein + m.Protein,
		Carbs:    n.Carbs + m.Carbs,
		Fats:     n.Fats + m.Fats,
	}
}

// ClampMatchScore keeps a service-assigned score inside 0..100.
func ClampMatchScore(score int) int {
	switch {
	case score < 0:
		return 0
	case score > 100:
		return 100
	default:
		return score
	}
}
