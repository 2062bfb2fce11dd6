// Package mealplan holds meal recommendations, the four meal slots,
// favorites and the generation status.
package mealplan

import (
	"context"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/snapshot"
)

// persisted is the durable part of the meal plan. Recommendations and the
// generation status live only for the session.
type persisted struct {
	SelectedMeals SelectedMeals `json:"selectedMeals"`
	Favorites     []string      `json:"favorites"`
}

// Status is the generation lifecycle state.
type Status struct {
	Loading bool
	Error   *string
}

// Store owns the meal plan state.
type Store struct {
	mu              sync.Mutex
	recommendations []Meal
	selected        SelectedMeals
	favorites       map[string]struct{}
	loading         bool
	err             *string

	snapshots snapshot.Store
	log       *logrus.Entry
}

// NewStore restores selected meals and favorites from the snapshot.
func NewStore(ctx context.Context, snapshots snapshot.Store) *Store {
	if snapshots == nil {
		snapshots = snapshot.NewMemoryStore()
	}
	s := &Store{
		favorites: make(map[string]struct{}),
		snapshots: snapshots,
		log:       logrus.WithField("store", "mealplan"),
	}

	var restored persisted
	ok, err := snapshot.Restore(ctx, snapshots, snapshot.KeyMealPlan, &restored)
	switch {
	case err != nil:
		s.log.WithError(err).Warn("discarding meal plan snapshot, using defaults")
	case ok:
		s.selected = restored.SelectedMeals
		for _, id := range restored.Favorites {
			s.favorites[id] = struct{}{}
		}
	}
	return s
}

// update applies fn under the lock. Only changes to slots or favorites are
// written to the snapshot.
func (s *Store) update(persist bool, fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn()

	if !persist {
		return
	}
	state := persisted{SelectedMeals: s.selected, Favorites: s.favoriteIDs()}
	if err := snapshot.Persist(context.Background(), s.snapshots, snapshot.KeyMealPlan, state); err != nil {
		s.log.WithError(err).Error("failed to persist meal plan")
	}
}

// favoriteIDs must be called with mu held.
func (s *Store) favoriteIDs() []string {
	ids := make([]string, 0, len(s.favorites))
	for id := range s.favorites {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// SetRecommendations replaces the recommendation list. Slots and favorites
// keep whatever they held.
func (s *Store) SetRecommendations(meals []Meal) {
	next := make([]Meal, len(meals))
	for i, m := range meals {
		next[i] = m.Clone()
	}
	s.update(false, func() {
		s.recommendations = next
	})
}

// SelectMeal stores a copy of meal in slot, or clears it when meal is nil.
// Unknown slots are ignored.
func (s *Store) SelectMeal(slot Slot, meal *Meal) {
	var stored *Meal
	if meal != nil {
		c := meal.Clone()
		stored = &c
	}
	s.update(true, func() {
		if ref := s.selected.ref(slot); ref != nil {
			*ref = stored
		}
	})
}

// ToggleFavorite flips membership of id in the favorites set.
func (s *Store) ToggleFavorite(id string) {
	s.update(true, func() {
		if _, ok := s.favorites[id]; ok {
			delete(s.favorites, id)
		} else {
			s.favorites[id] = struct{}{}
		}
	})
}

// SetLoading sets the generation-in-progress flag.
func (s *Store) SetLoading(loading bool) {
	s.update(false, func() {
		s.loading = loading
	})
}

// SetError records the last generation failure; nil clears it.
func (s *Store) SetError(msg *string) {
	var stored *string
	if msg != nil {
		m := *msg
		stored = &m
	}
	s.update(false, func() {
		s.err = stored
	})
}

// ClearError forgets the last generation failure.
func (s *Store) ClearError() {
	s.SetError(nil)
}

// TotalNutrition sums the macros of the filled slots.
func (s *Store) TotalNutrition() Nutrition {
	s.mu.Lock()
	defer s.mu.Unlock()

	var total Nutrition
	for _, slot := range Slots {
		if m := s.selected.Get(slot); m != nil {
			total = total.add(m)
		}
	}
	return total
}

// Recommendations returns copies of the current recommendations.
func (s *Store) Recommendations() []Meal {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Meal, len(s.recommendations))
	for i, m := range s.recommendations {
		out[i] = m.Clone()
	}
	return out
}

// RecommendationsOrDefault falls back to the built-in meals before the
// first successful generation.
func (s *Store) RecommendationsOrDefault() []Meal {
	if recs := s.Recommendations(); len(recs) > 0 {
		return recs
	}
	return DefaultMeals()
}

// FindMeal looks id up in the recommendations, then the defaults.
func (s *Store) FindMeal(id string) (Meal, bool) {
	for _, m := range s.RecommendationsOrDefault() {
		if m.ID == id {
			return m, true
		}
	}
	return Meal{}, false
}

// SelectedMeals returns a copy of the four slots.
func (s *Store) SelectedMeals() SelectedMeals {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.selected.clone()
}

// IsFavorite reports whether id is in the favorites set.
func (s *Store) IsFavorite(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.favorites[id]
	return ok
}

// Favorites returns the favorite ids in sorted order.
func (s *Store) Favorites() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.favoriteIDs()
}

// FavoriteMeals resolves favorite ids against the current recommendations
// and the filled slots. Ids with no matching meal are skipped.
func (s *Store) FavoriteMeals() []Meal {
	s.mu.Lock()
	defer s.mu.Unlock()

	byID := make(map[string]Meal)
	for _, slot := range Slots {
		if m := s.selected.Get(slot); m != nil {
			byID[m.ID] = *m
		}
	}
	for _, m := range s.recommendations {
		byID[m.ID] = m
	}

	var out []Meal
	for _, id := range s.favoriteIDs() {
		if m, ok := byID[id]; ok {
			out = append(out, m.Clone())
		}
	}
	return out
}

// Status returns the loading flag and the last error.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := Status{Loading: s.loading}
	if s.err != nil {
		e := *s.err
		st.Error = &e
	}
	return st
}
