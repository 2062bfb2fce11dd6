package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/sirupsen/logrus"

	"nutri-meal-planner/internal/config"
	"nutri-meal-planner/internal/shared"
)

// errNoContent is returned when the gateway answers without a message.
var errNoContent = errors.New("No content in AI response")

// gatewayClient talks to an OpenAI-compatible chat completions gateway.
type gatewayClient struct {
	url        string
	apiKey     string
	model      string
	httpClient *http.Client
}

// NewGatewayClient creates a new chat completions gateway client.
func NewGatewayClient(cfg *config.Config) TextGenerator {
	return &gatewayClient{
		url:    cfg.GatewayURL,
		apiKey: cfg.GatewayAPIKey,
		model:  cfg.GatewayModel,
		httpClient: &http.Client{
			Timeout: cfg.HTTPTimeout,
		},
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model    string        `json:"model"`
	Messages []chatMessage `json:"messages"`
}

type chatResponse struct {
	Model   string `json:"model"`
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
		TotalTokens      int `json:"total_tokens"`
	} `json:"usage"`
}

// GenerateContent sends the prompt to the gateway and returns the reply text.
func (c *gatewayClient) GenerateContent(ctx context.Context, prompt Prompt) (ContentResponse, error) {
	messages := []chatMessage{}
	if prompt.System != "" {
		messages = append(messages, chatMessage{Role: "system", Content: prompt.System})
	}
	messages = append(messages, chatMessage{Role: "user", Content: prompt.User})

	jsonBody, err := json.Marshal(chatRequest{Model: c.model, Messages: messages})
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(jsonBody))
	if err != nil {
		return ContentResponse{}, fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return ContentResponse{}, &shared.TransportError{
			Message: fmt.Sprintf("failed to send request: %v", err),
			Err:     err,
		}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		bodyBytes, _ := io.ReadAll(resp.Body)
		logrus.WithFields(logrus.Fields{
			"status": resp.StatusCode,
			"body":   string(bodyBytes),
		}).Error("AI gateway error")
		return ContentResponse{}, shared.NewStatusError(resp.StatusCode, "")
	}

	var chatResp chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&chatResp); err != nil {
		return ContentResponse{}, fmt.Errorf("failed to decode response: %w", err)
	}

	if len(chatResp.Choices) == 0 || chatResp.Choices[0].Message.Content == "" {
		return ContentResponse{}, errNoContent
	}

	model := chatResp.Model
	if model == "" {
		model = c.model
	}

	return ContentResponse{
		Content: chatResp.Choices[0].Message.Content,
		Usage: shared.TokenUsage{
			PromptTokens:     chatResp.Usage.PromptTokens,
			CompletionTokens: chatResp.Usage.CompletionTokens,
			TotalTokens:      chatResp.Usage.TotalTokens,
			Model:            model,
		},
	}, nil
}
