package assistant

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"nutri-meal-planner/internal/generator"
	"nutri-meal-planner/internal/shared"
)

// HTTPGenerator calls a generator server over HTTP.
type HTTPGenerator struct {
	baseURL    string
	httpClient *http.Client
}

// NewHTTPGenerator creates a client for the functions mounted at baseURL,
// e.g. http://localhost:8080/functions/v1.
func NewHTTPGenerator(baseURL string, timeout time.Duration) *HTTPGenerator {
	return &HTTPGenerator{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (g *HTTPGenerator) GenerateMeals(ctx context.Context, req generator.MealRequest) (*generator.MealResponse, error) {
	var resp generator.MealResponse
	if err := g.post(ctx, "/generate-meals", req, &resp, "meal recommendations"); err != nil {
		return nil, err
	}
	if resp.Meals == nil {
		return nil, &shared.ParseError{What: "meal recommendations", Err: fmt.Errorf("missing meals field")}
	}
	return &resp, nil
}

func (g *HTTPGenerator) GenerateShoppingList(ctx context.Context, req generator.ShoppingListRequest) (*generator.ShoppingListResponse, error) {
	var resp generator.ShoppingListResponse
	if err := g.post(ctx, "/generate-shopping-list", req, &resp, "shopping list"); err != nil {
		return nil, err
	}
	if resp.ShoppingList == nil {
		return nil, &shared.ParseError{What: "shopping list", Err: fmt.Errorf("missing shoppingList field")}
	}
	return &resp, nil
}

func (g *HTTPGenerator) post(ctx context.Context, path string, body, out any, what string) error {
	jsonBody, err := json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.baseURL+path, bytes.NewReader(jsonBody))
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return &shared.TransportError{Message: fmt.Sprintf("failed to send request: %v", err), Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &shared.TransportError{StatusCode: resp.StatusCode, Message: "failed to read response", Err: err}
	}

	errMsg := errorMessage(data)
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return shared.NewStatusError(resp.StatusCode, errMsg)
	}
	if errMsg != "" {
		return &shared.TransportError{StatusCode: resp.StatusCode, Message: errMsg}
	}

	if err := json.Unmarshal(data, out); err != nil {
		return &shared.ParseError{What: what, Err: err}
	}
	return nil
}

// errorMessage returns the error field of an {"error": ...} body. Bodies
// that are not JSON objects, such as proxy HTML pages, yield "".
func errorMessage(data []byte) string {
	var body generator.ErrorResponse
	if err := json.Unmarshal(data, &body); err != nil {
		return ""
	}
	return body.Error
}
