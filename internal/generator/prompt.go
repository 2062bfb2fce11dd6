package generator

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"
)

//go:embed meal_prompt.md
var mealPrompt string

//go:embed shopping_prompt.md
var shoppingPrompt string

const (
	mealSystemPrompt     = "You are a helpful nutrition and cooking assistant. Always respond with valid JSON only, no markdown formatting."
	shoppingSystemPrompt = "You are a helpful meal planning assistant. Always respond with valid JSON only, no markdown formatting."
)

var promptFuncs = template.FuncMap{
	"json": func(v any) (string, error) {
		b, err := json.Marshal(v)
		if err != nil {
			return "", err
		}
		return string(b), nil
	},
	"join": strings.Join,
}

var (
	mealTemplate     = template.Must(template.New("meal").Funcs(promptFuncs).Parse(mealPrompt))
	shoppingTemplate = template.Must(template.New("shopping").Funcs(promptFuncs).Parse(shoppingPrompt))
)

func buildMealPrompt(req MealRequest) (string, error) {
	return render(mealTemplate, req)
}

func buildShoppingPrompt(req ShoppingListRequest) (string, error) {
	return render(shoppingTemplate, req)
}

func render(tmpl *template.Template, data any) (string, error) {
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to render %s prompt: %w", tmpl.Name(), err)
	}
	return buf.String(), nil
}
