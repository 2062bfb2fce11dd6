package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dustin/go-humanize"

	"nutri-meal-planner/internal/app"
	"nutri-meal-planner/internal/config"
	"nutri-meal-planner/internal/mealplan"
	"nutri-meal-planner/internal/metrics"
	"nutri-meal-planner/internal/pantry"
)

type command struct {
	help string
	run  func(ctx context.Context, a *app.App, args []string) error
}

var commandOrder = []string{
	"generate-meals", "shopping-list", "summary",
	"select", "favorite", "favorites",
	"pantry", "shopping", "import-low-stock",
	"preferences", "quick", "goals",
	"metrics-usage", "metrics-cleanup",
}

var commands = map[string]command{
	"generate-meals":   {"Generate meal recommendations from preferences and pantry", runGenerateMeals},
	"shopping-list":    {"Generate a shopping list (-days N)", runShoppingList},
	"summary":          {"Show the meal plan and nutrition progress", runSummary},
	"select":           {"Put a recommended meal in a slot: select <slot> [meal-id]", runSelect},
	"favorite":         {"Toggle a favorite meal: favorite <meal-id>", runFavorite},
	"favorites":        {"List favorite meals", runFavorites},
	"pantry":           {"Manage pantry items: list|low|add|remove|update", runPantry},
	"shopping":         {"Manage the shopping list: list|add|toggle|remove|clear-checked", runShopping},
	"import-low-stock": {"Add low-stock pantry items to the shopping list", runImportLowStock},
	"preferences":      {"Manage dietary preferences: list|toggle|add", runPreferences},
	"quick":            {"Toggle a quick setting: quick <id>", runQuick},
	"goals":            {"Show or set nutrition goals: goals [set <label> <value>]", runGoals},
	"metrics-usage":    {"Show daily LLM token usage (-days N)", runMetricsUsage},
	"metrics-cleanup":  {"Remove old metric records (-days N)", runMetricsCleanup},
}

func requireArgs(args []string, n int, usage string) error {
	if len(args) < n {
		return fmt.Errorf("usage: %s", usage)
	}
	return nil
}

func runGenerateMeals(ctx context.Context, a *app.App, _ []string) error {
	meals, err := a.GenerateMeals(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("Generated %d meals:\n", len(meals))
	printMeals(meals)
	return nil
}

func runShoppingList(ctx context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("shopping-list", flag.ContinueOnError)
	days := fs.Int("days", 0, "Number of days to plan for (default from config)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	resp, err := a.Assistant.GenerateShoppingList(ctx, *days)
	if err != nil {
		return err
	}
	fmt.Printf("Shopping list for about %d meals:\n", resp.EstimatedMeals)
	printShoppingList(resp.ShoppingList)
	if len(resp.Tips) > 0 {
		fmt.Println("\nTips:")
		for _, tip := range resp.Tips {
			fmt.Printf("  - %s\n", tip)
		}
	}
	return nil
}

func runSummary(_ context.Context, a *app.App, _ []string) error {
	selected := a.MealPlan.SelectedMeals()
	fmt.Println("Meal plan:")
	for _, slot := range mealplan.Slots {
		title := "-"
		if m := selected.Get(slot); m != nil {
			title = fmt.Sprintf("%s (%s kcal)", m.Title, humanize.Ftoa(m.Calories))
		}
		fmt.Printf("  %-10s %s\n", slot, title)
	}

	fmt.Println("\nNutrition:")
	for _, row := range a.NutritionProgress() {
		fmt.Printf("  %-9s %s / %s%s (%.0f%%)\n",
			row.Label, humanize.Ftoa(row.Current), humanize.Ftoa(row.Target), row.Unit, row.Percent)
	}

	if status := a.MealPlan.Status(); status.Error != nil {
		fmt.Printf("\nLast generation failed: %s\n", *status.Error)
	}

	fmt.Println("\nRecommendations:")
	printMeals(a.MealPlan.RecommendationsOrDefault())
	return nil
}

func runSelect(_ context.Context, a *app.App, args []string) error {
	if err := requireArgs(args, 1, "select <slot> [meal-id]"); err != nil {
		return err
	}
	mealID := ""
	if len(args) > 1 {
		mealID = args[1]
	}
	return a.SelectMeal(args[0], mealID)
}

func runFavorite(_ context.Context, a *app.App, args []string) error {
	if err := requireArgs(args, 1, "favorite <meal-id>"); err != nil {
		return err
	}
	a.MealPlan.ToggleFavorite(args[0])
	fmt.Printf("Favorite %s: %t\n", args[0], a.MealPlan.IsFavorite(args[0]))
	return nil
}

func runFavorites(_ context.Context, a *app.App, _ []string) error {
	printMeals(a.MealPlan.FavoriteMeals())
	return nil
}

func runPantry(_ context.Context, a *app.App, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		for _, item := range a.Pantry.PantryItems() {
			low := ""
			if item.IsLow {
				low = " [low]"
			}
			fmt.Printf("  %s %-20s %-8s expires in %s%s  (%s)\n", item.Icon, item.Name, item.Quantity, item.ExpiresIn, low, item.ID)
		}
		return nil
	}

	switch args[0] {
	case "low":
		for _, item := range a.Pantry.LowStockItems() {
			fmt.Printf("  %s %-20s %-8s (%s)\n", item.Icon, item.Name, item.Quantity, item.ID)
		}
	case "add":
		fs := flag.NewFlagSet("pantry add", flag.ContinueOnError)
		name := fs.String("name", "", "Item name")
		quantity := fs.String("quantity", "", "Quantity, e.g. 500g")
		expires := fs.String("expires", "", "Time until expiry, e.g. 3 days")
		low := fs.Bool("low", false, "Mark as running low")
		icon := fs.String("icon", "🥫", "Display icon")
		if err := fs.Parse(args[1:]); err != nil {
			return err
		}

		item, err := a.AddPantryItem(pantry.PantryItem{
			Name: *name, Quantity: *quantity, ExpiresIn: *expires, IsLow: *low, Icon: *icon,
		})
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", item.Name, item.ID)
	case "remove":
		if err := requireArgs(args, 2, "pantry remove <id>"); err != nil {
			return err
		}
		a.Pantry.RemovePantryItem(args[1])
	case "update":
		if err := requireArgs(args, 2, "pantry update <id> [flags]"); err != nil {
			return err
		}
		return updatePantryItem(a, args[1], args[2:])
	default:
		return fmt.Errorf("unknown pantry command %q", args[0])
	}
	return nil
}

func updatePantryItem(a *app.App, id string, args []string) error {
	fs := flag.NewFlagSet("pantry update", flag.ContinueOnError)
	name := fs.String("name", "", "Item name")
	quantity := fs.String("quantity", "", "Quantity")
	expires := fs.String("expires", "", "Time until expiry")
	low := fs.String("low", "", "Running low (true|false)")
	icon := fs.String("icon", "", "Display icon")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var u pantry.PantryItemUpdate
	var parseErr error
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "name":
			u.Name = name
		case "quantity":
			u.Quantity = quantity
		case "expires":
			u.ExpiresIn = expires
		case "icon":
			u.Icon = icon
		case "low":
			v, err := strconv.ParseBool(*low)
			if err != nil {
				parseErr = fmt.Errorf("invalid -low value %q", *low)
				return
			}
			u.IsLow = &v
		}
	})
	if parseErr != nil {
		return parseErr
	}
	a.Pantry.UpdatePantryItem(id, u)
	return nil
}

func runShopping(_ context.Context, a *app.App, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		printShoppingList(a.Pantry.ShoppingList())
		fmt.Printf("%d checked\n", a.Pantry.CheckedCount())
		return nil
	}

	switch args[0] {
	case "add":
		if err := requireArgs(args, 2, "shopping add <name> [quantity]"); err != nil {
			return err
		}
		quantity := ""
		if len(args) > 2 {
			quantity = strings.Join(args[2:], " ")
		}
		item, err := a.AddShoppingItem(args[1], quantity)
		if err != nil {
			return err
		}
		fmt.Printf("Added %s (%s)\n", item.Name, item.ID)
	case "toggle":
		if err := requireArgs(args, 2, "shopping toggle <id>"); err != nil {
			return err
		}
		a.Pantry.ToggleShoppingItem(args[1])
	case "remove":
		if err := requireArgs(args, 2, "shopping remove <id>"); err != nil {
			return err
		}
		a.Pantry.RemoveShoppingItem(args[1])
	case "clear-checked":
		a.Pantry.ClearCheckedItems()
	default:
		return fmt.Errorf("unknown shopping command %q", args[0])
	}
	return nil
}

func runImportLowStock(_ context.Context, a *app.App, _ []string) error {
	n := a.Pantry.ImportLowStock()
	fmt.Printf("Added %d low-stock items to the shopping list.\n", n)
	return nil
}

func runPreferences(_ context.Context, a *app.App, args []string) error {
	if len(args) == 0 || args[0] == "list" {
		for _, p := range a.Preferences.DietaryPreferences() {
			mark := " "
			if p.Active {
				mark = "x"
			}
			fmt.Printf("  [%s] %s\n", mark, p.Label)
		}
		return nil
	}
	if err := requireArgs(args, 2, "preferences toggle|add <label>"); err != nil {
		return err
	}
	label := strings.Join(args[1:], " ")
	switch args[0] {
	case "toggle":
		a.Preferences.ToggleDietaryPreference(label)
	case "add":
		return a.AddDietaryPreference(label)
	default:
		return fmt.Errorf("unknown preferences command %q", args[0])
	}
	return nil
}

func runQuick(_ context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		for _, q := range a.Preferences.QuickSettings() {
			fmt.Printf("  %-16s %-18s %-14s %t\n", q.ID, q.Label, q.Sublabel, q.Active)
		}
		return nil
	}
	a.Preferences.ToggleQuickSetting(args[0])
	return nil
}

func runGoals(_ context.Context, a *app.App, args []string) error {
	if len(args) == 0 {
		for _, g := range a.Preferences.NutritionGoals() {
			fmt.Printf("  %-16s %s\n", g.Label, g.Value)
		}
		return nil
	}
	if args[0] != "set" || len(args) < 3 {
		return fmt.Errorf("usage: goals set <label> <value>")
	}
	value, err := strconv.ParseFloat(args[len(args)-1], 64)
	if err != nil {
		return fmt.Errorf("invalid goal value %q: %w", args[len(args)-1], err)
	}
	return a.UpdateGoal(strings.Join(args[1:len(args)-1], " "), value)
}

func runMetricsUsage(_ context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("metrics-usage", flag.ContinueOnError)
	days := fs.Int("days", 7, "Number of days to report")
	if err := fs.Parse(args); err != nil {
		return err
	}

	usage, err := a.DailyUsage(*days)
	if err != nil {
		return err
	}
	fmt.Printf("%-12s %10s %12s %6s %8s\n", "DATE", "PROMPT", "COMPLETION", "CALLS", "FAILED")
	for _, u := range usage {
		fmt.Printf("%-12s %10s %12s %6d %8d\n",
			u.Date, humanize.Comma(int64(u.TotalPrompt)), humanize.Comma(int64(u.TotalCompletion)), u.TotalExecution, u.Failures)
	}
	return nil
}

func runMetricsCleanup(_ context.Context, a *app.App, args []string) error {
	fs := flag.NewFlagSet("metrics-cleanup", flag.ContinueOnError)
	days := fs.Int("days", 30, "Keep records for the last N days")
	if err := fs.Parse(args); err != nil {
		return err
	}

	affected, err := a.CleanupMetrics(*days)
	if err != nil {
		return err
	}
	fmt.Printf("Successfully removed %d old metric records.\n", affected)
	return nil
}

func printHealth(cfg *config.Config) {
	dataPath := cfg.DatabasePath
	if cfg.SnapshotBackend == config.SnapshotFile {
		dataPath = cfg.SnapshotDir
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	enc.Encode(metrics.GetSysHealth(dataPath))
}

func printMeals(meals []mealplan.Meal) {
	for _, m := range meals {
		matched, total := m.PantryMatch()
		fmt.Printf("  %-12s %-34s %5s kcal  %-7s %d%% match  pantry %d/%d\n",
			m.ID, m.Title, humanize.Ftoa(m.Calories), m.Time, m.MatchScore, matched, total)
	}
}

func printShoppingList(items []pantry.ShoppingListItem) {
	for _, item := range items {
		mark := " "
		if item.Checked {
			mark = "x"
		}
		line := fmt.Sprintf("  [%s] %s", mark, item.Name)
		if item.Quantity != "" {
			line += " - " + item.Quantity
		}
		if item.Category != "" {
			line += " (" + item.Category + ")"
		}
		fmt.Printf("%s  {%s}\n", line, item.ID)
	}
}
