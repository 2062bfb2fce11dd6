// Package preferences holds the user's dietary restrictions, quick settings
// and nutrition goals.
package preferences

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/snapshot"
)

// Store owns the preferences state. Every mutation is applied atomically
// and persisted before it returns.
type Store struct {
	mu        sync.Mutex
	state     State
	snapshots snapshot.Store
	log       *logrus.Entry
}

// NewStore restores the preferences snapshot, falling back to defaults when
// none exists or it cannot be read. A nil snapshots keeps state in memory.
func NewStore(ctx context.Context, snapshots snapshot.Store) *Store {
	if snapshots == nil {
		snapshots = snapshot.NewMemoryStore()
	}
	s := &Store{
		state:     DefaultState(),
		snapshots: snapshots,
		log:       logrus.WithField("store", "preferences"),
	}

	var restored State
	ok, err := snapshot.Restore(ctx, snapshots, snapshot.KeyPreferences, &restored)
	switch {
	case err != nil:
		s.log.WithError(err).Warn("discarding preferences snapshot, using defaults")
	case ok:
		s.state = restored
	}
	return s
}

// update applies fn under the lock and persists the result.
func (s *Store) update(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	fn(&s.state)

	if err := snapshot.Persist(context.Background(), s.snapshots, snapshot.KeyPreferences, s.state); err != nil {
		s.log.WithError(err).Error("failed to persist preferences")
	}
}

func (s *Store) read() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.clone()
}

// ToggleDietaryPreference flips the preference with exactly this label.
// Unknown labels are ignored.
func (s *Store) ToggleDietaryPreference(label string) {
	s.update(func(st *State) {
		for i := range st.DietaryPreferences {
			if st.DietaryPreferences[i].Label == label {
				st.DietaryPreferences[i].Active = !st.DietaryPreferences[i].Active
			}
		}
	})
}

// AddDietaryPreference appends an active preference. Duplicates are not
// rejected here; callers check first.
func (s *Store) AddDietaryPreference(label string) {
	s.update(func(st *State) {
		st.DietaryPreferences = append(st.DietaryPreferences, DietaryPreference{Label: label, Active: true})
	})
}

// ToggleQuickSetting flips the quick setting with the given id.
func (s *Store) ToggleQuickSetting(id string) {
	s.update(func(st *State) {
		for i := range st.QuickSettings {
			if st.QuickSettings[i].ID == id {
				st.QuickSettings[i].Active = !st.QuickSettings[i].Active
			}
		}
	})
}

// UpdateNutritionGoals replaces the goals, re-deriving each display value.
func (s *Store) UpdateNutritionGoals(goals []NutritionGoal) {
	next := make([]NutritionGoal, len(goals))
	for i, g := range goals {
		g.Value = FormatGoalValue(g.Label, g.RawValue)
		next[i] = g
	}
	s.update(func(st *State) {
		st.NutritionGoals = next
	})
}

// SetGoal updates the raw value of a single goal by label.
func (s *Store) SetGoal(label string, rawValue float64) {
	s.update(func(st *State) {
		for i := range st.NutritionGoals {
			if st.NutritionGoals[i].Label == label {
				st.NutritionGoals[i].RawValue = rawValue
				st.NutritionGoals[i].Value = FormatGoalValue(label, rawValue)
			}
		}
	})
}

// Snapshot returns a copy of the full state.
func (s *Store) Snapshot() State {
	return s.read()
}

// DietaryPreferences returns every dietary preference in display order.
func (s *Store) DietaryPreferences() []DietaryPreference {
	return s.read().DietaryPreferences
}

// ActivePreferences returns the labels of the active dietary preferences.
func (s *Store) ActivePreferences() []string {
	active := []string{}
	for _, p := range s.read().DietaryPreferences {
		if p.Active {
			active = append(active, p.Label)
		}
	}
	return active
}

// QuickSettings returns the fixed quick settings with their current flags.
func (s *Store) QuickSettings() []QuickSetting {
	return s.read().QuickSettings
}

// QuickSettingFlags returns the active flag of every quick setting by id.
func (s *Store) QuickSettingFlags() map[string]bool {
	flags := make(map[string]bool)
	for _, q := range s.read().QuickSettings {
		flags[q.ID] = q.Active
	}
	return flags
}

// NutritionGoals returns the goals with their formatted values.
func (s *Store) NutritionGoals() []NutritionGoal {
	return s.read().NutritionGoals
}

// GoalTargets maps the fixed goal labels to their numeric targets.
func (s *Store) GoalTargets() Targets {
	var t Targets
	for _, g := range s.read().NutritionGoals {
		switch g.Label {
		case GoalCalories:
			t.Calories = g.RawValue
		case GoalProtein:
			t.Protein = g.RawValue
		case GoalCarbs:
			t.Carbs = g.RawValue
		case GoalFats:
			t.Fats = g.RawValue
		}
	}
	return t
}
