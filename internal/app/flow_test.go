package app

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"nutri-meal-planner/internal/config"
	"nutri-meal-planner/internal/database"
	"nutri-meal-planner/internal/mealplan"
	"nutri-meal-planner/internal/metrics"
	"nutri-meal-planner/internal/server"
)

// fakeGateway answers OpenAI-style chat requests with canned meal and
// shopping list replies, picked by the system prompt.
func fakeGateway(t *testing.T) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Messages []struct {
				Role    string `json:"role"`
				Content string `json:"content"`
			} `json:"messages"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Messages) == 0 {
			t.Errorf("bad gateway request: %v", err)
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		content := "```json\n" + `[{"title":"Spinach Omelette","calories":"350","protein":24,"carbs":6,"fats":22,"time":"10 min","servings":1,` +
			`"tags":["Quick"],"matchScore":120,"ingredients":["Eggs","Spinach","Feta"],"inPantry":["Eggs","Spinach"]}]` + "\n```"
		if strings.Contains(req.Messages[0].Content, "meal planning") {
			content = `{"shoppingList":[{"name":"Feta","quantity":"200g","category":"Dairy"},{"name":"  "}],"estimatedMeals":21,"tips":["Buy feta in brine"]}`
		}

		resp := map[string]any{
			"model":   "test-model",
			"choices": []map[string]any{{"message": map[string]string{"content": content}}},
			"usage":   map[string]int{"prompt_tokens": 100, "completion_tokens": 50, "total_tokens": 150},
		}
		w.Header().Set("Content-Type", "application/json")
		json.NewEncoder(w).Encode(resp)
	}))
}

func TestGenerationFlowThroughServer(t *testing.T) {
	ctx := context.Background()
	gateway := fakeGateway(t)
	defer gateway.Close()

	serverDir := t.TempDir()
	serverCfg := &config.Config{
		Provider:      config.ProviderGateway,
		GatewayURL:    gateway.URL,
		GatewayAPIKey: "test-key",
		GatewayModel:  "test-model",
		DatabasePath:  filepath.Join(serverDir, "server.db"),
	}
	db, err := database.NewDB(serverCfg.DatabasePath)
	require.NoError(t, err)
	defer db.Close()
	usageStore := metrics.NewStore(db.SQL)

	collectors := metrics.NewCollectors()
	svc, closeFn, err := NewGeneratorService(ctx, serverCfg, usageStore, collectors)
	require.NoError(t, err)
	assert.Nil(t, closeFn)

	api := httptest.NewServer(server.New(svc, collectors, serverCfg.DatabasePath).Handler())
	defer api.Close()

	clientDir := t.TempDir()
	a, err := Bootstrap(ctx, &config.Config{
		DatabasePath:      filepath.Join(clientDir, "client.db"),
		SnapshotBackend:   config.SnapshotSQLite,
		GeneratorURL:      api.URL + "/functions/v1",
		DefaultDaysToPlan: 3,
		HTTPTimeout:       5 * time.Second,
	})
	require.NoError(t, err)
	defer a.Close()

	meals, err := a.GenerateMeals(ctx)
	require.NoError(t, err)
	require.Len(t, meals, 1)
	meal := meals[0]
	assert.Equal(t, "Spinach Omelette", meal.Title)
	assert.Equal(t, 350.0, meal.Calories)
	assert.Equal(t, 100, meal.MatchScore)
	assert.Equal(t, mealplan.PlaceholderImage(0), meal.Image)
	assert.NotEmpty(t, meal.ID)
	assert.Equal(t, []string{"Feta"}, meal.MissingIngredients())

	status := a.MealPlan.Status()
	assert.False(t, status.Loading)
	assert.Nil(t, status.Error)

	require.NoError(t, a.SelectMeal("breakfast", meal.ID))
	assert.Equal(t, 350.0, a.MealPlan.TotalNutrition().Calories)

	list, err := a.Assistant.GenerateShoppingList(ctx, 0)
	require.NoError(t, err)
	assert.Equal(t, 21, list.EstimatedMeals)
	require.Len(t, list.ShoppingList, 1)
	assert.Equal(t, "Feta", list.ShoppingList[0].Name)
	assert.False(t, list.ShoppingList[0].Checked)
	assert.Equal(t, list.ShoppingList, a.Pantry.ShoppingList())

	usage, err := usageStore.GetDailyUsage(1)
	require.NoError(t, err)
	require.Len(t, usage, 1)
	assert.Equal(t, 2, usage[0].TotalExecution)
	assert.Equal(t, 200, usage[0].TotalPrompt)
}
