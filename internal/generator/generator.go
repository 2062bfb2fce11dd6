// Package generator implements the meal and shopping list generation
// functions on top of an LLM.
package generator

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/llm"
	"nutri-meal-planner/internal/mealplan"
	"nutri-meal-planner/internal/pantry"
	"nutri-meal-planner/internal/shared"
)

// Operation names used in logs and metrics.
const (
	OpGenerateMeals        = "generate-meals"
	OpGenerateShoppingList = "generate-shopping-list"
)

// Recorder receives the outcome of every LLM call.
type Recorder interface {
	RecordGeneration(meta shared.AgentMeta, err error)
}

// Service turns generation requests into prompts and shapes the replies.
type Service struct {
	textGen  llm.TextGenerator
	recorder Recorder
	newID    func() string
	log      *logrus.Entry
}

// NewService creates a Service. recorder may be nil.
func NewService(textGen llm.TextGenerator, recorder Recorder) *Service {
	return &Service{
		textGen:  textGen,
		recorder: recorder,
		newID:    uuid.NewString,
		log:      logrus.WithField("component", "generator"),
	}
}

type rawMeal struct {
	Title        string     `json:"title"`
	Description  string     `json:"description"`
	Image        string     `json:"image"`
	Calories     flexNumber `json:"calories"`
	Protein      flexNumber `json:"protein"`
	Carbs        flexNumber `json:"carbs"`
	Fats         flexNumber `json:"fats"`
	Time         flexString `json:"time"`
	Servings     flexNumber `json:"servings"`
	Tags         []string   `json:"tags"`
	MatchScore   flexNumber `json:"matchScore"`
	Ingredients  []string   `json:"ingredients"`
	InPantry     []string   `json:"inPantry"`
	Instructions []string   `json:"instructions"`
}

type rawShoppingItem struct {
	Name     string     `json:"name"`
	Quantity flexString `json:"quantity"`
	Category string     `json:"category"`
}

type rawShoppingList struct {
	ShoppingList   []rawShoppingItem `json:"shoppingList"`
	EstimatedMeals flexNumber        `json:"estimatedMeals"`
	Tips           []string          `json:"tips"`
}

// GenerateMeals asks the model for meal recommendations and assigns each
// one an id and a placeholder image.
func (s *Service) GenerateMeals(ctx context.Context, req MealRequest) (*MealResponse, error) {
	s.log.WithFields(logrus.Fields{
		"preferences": req.Preferences,
		"pantry":      len(req.Pantry),
	}).Info("generating meals")

	prompt, err := buildMealPrompt(req)
	if err != nil {
		return nil, err
	}

	content, meta, err := s.call(ctx, OpGenerateMeals, llm.Prompt{System: mealSystemPrompt, User: prompt})
	if err != nil {
		s.record(meta, err)
		return nil, err
	}

	resp, err := s.shapeMeals(content)
	s.record(meta, err)
	return resp, err
}

func (s *Service) shapeMeals(content string) (*MealResponse, error) {
	raws, err := parseMeals(content)
	if err != nil {
		s.log.WithError(err).WithField("content", content).Error("failed to parse AI response")
		return nil, &shared.ParseError{What: "meal recommendations", Err: err}
	}

	meals := make([]mealplan.Meal, 0, len(raws))
	for _, r := range raws {
		if strings.TrimSpace(r.Title) == "" {
			s.log.Warn("dropping generated meal without title")
			continue
		}
		meals = append(meals, mealplan.Meal{
			ID:           s.newID(),
			Title:        r.Title,
			Description:  r.Description,
			Image:        mealplan.PlaceholderImage(len(meals)),
			Calories:     float64(r.Calories),
			Protein:      float64(r.Protein),
			Carbs:        float64(r.Carbs),
			Fats:         float64(r.Fats),
			Time:         string(r.Time),
			Servings:     int(math.Round(float64(r.Servings))),
			Tags:         nonNil(r.Tags),
			MatchScore:   mealplan.ClampMatchScore(int(math.Round(float64(r.MatchScore)))),
			Ingredients:  nonNil(r.Ingredients),
			Instructions: nonNil(r.Instructions),
			InPantry:     r.InPantry,
		})
	}

	s.log.WithField("count", len(meals)).Info("generated meals")
	return &MealResponse{Meals: meals}, nil
}

// GenerateShoppingList asks the model for a shopping list covering
// req.DaysToPlan days. Items get fresh ids and start unchecked.
func (s *Service) GenerateShoppingList(ctx context.Context, req ShoppingListRequest) (*ShoppingListResponse, error) {
	if req.DaysToPlan <= 0 {
		req.DaysToPlan = DefaultDaysToPlan
	}
	s.log.WithFields(logrus.Fields{
		"preferences": req.Preferences,
		"days":        req.DaysToPlan,
	}).Info("generating shopping list")

	prompt, err := buildShoppingPrompt(req)
	if err != nil {
		return nil, err
	}

	content, meta, err := s.call(ctx, OpGenerateShoppingList, llm.Prompt{System: shoppingSystemPrompt, User: prompt})
	if err != nil {
		s.record(meta, err)
		return nil, err
	}

	resp, err := s.shapeShoppingList(content)
	s.record(meta, err)
	return resp, err
}

func (s *Service) shapeShoppingList(content string) (*ShoppingListResponse, error) {
	var raw rawShoppingList
	if err := json.Unmarshal([]byte(llm.StripCodeFence(content)), &raw); err != nil || raw.ShoppingList == nil {
		if err == nil {
			err = fmt.Errorf("missing shoppingList field")
		}
		s.log.WithError(err).WithField("content", content).Error("failed to parse AI response")
		return nil, &shared.ParseError{What: "shopping list", Err: err}
	}

	items := make([]pantry.ShoppingListItem, 0, len(raw.ShoppingList))
	for _, r := range raw.ShoppingList {
		if strings.TrimSpace(r.Name) == "" {
			continue
		}
		items = append(items, pantry.ShoppingListItem{
			ID:       s.newID(),
			Name:     r.Name,
			Quantity: string(r.Quantity),
			Category: r.Category,
			Checked:  false,
		})
	}

	s.log.WithField("count", len(items)).Info("generated shopping list")
	return &ShoppingListResponse{
		ShoppingList:   items,
		EstimatedMeals: int(math.Round(float64(raw.EstimatedMeals))),
		Tips:           nonNil(raw.Tips),
	}, nil
}

func (s *Service) call(ctx context.Context, op string, prompt llm.Prompt) (string, shared.AgentMeta, error) {
	start := time.Now()
	resp, err := s.textGen.GenerateContent(ctx, prompt)
	meta := shared.AgentMeta{
		AgentName: op,
		Usage:     resp.Usage,
		Latency:   time.Since(start),
	}
	if err != nil {
		return "", meta, err
	}
	return resp.Content, meta, nil
}

// record reports one generation with its final outcome, parse failures included.
func (s *Service) record(meta shared.AgentMeta, err error) {
	if s.recorder != nil {
		s.recorder.RecordGeneration(meta, err)
	}
}

// parseMeals accepts either a bare array or an object with a meals field.
func parseMeals(content string) ([]rawMeal, error) {
	body := llm.StripCodeFence(content)

	var meals []rawMeal
	if strings.HasPrefix(body, "[") {
		if err := json.Unmarshal([]byte(body), &meals); err != nil {
			return nil, err
		}
		return meals, nil
	}

	var wrapped struct {
		Meals []rawMeal `json:"meals"`
	}
	if err := json.Unmarshal([]byte(body), &wrapped); err != nil {
		return nil, err
	}
	if wrapped.Meals == nil {
		return nil, fmt.Errorf("missing meals field")
	}
	return wrapped.Meals, nil
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
