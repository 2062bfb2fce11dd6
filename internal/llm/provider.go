package llm

import (
	"context"

	"nutri-meal-planner/internal/config"
)

// NewFromConfig builds the TextGenerator selected by cfg.Provider. The
// returned Closer is nil when the provider holds no resources.
func NewFromConfig(ctx context.Context, cfg *config.Config) (TextGenerator, Closer, error) {
	if cfg.Provider == config.ProviderGemini {
		client, err := NewGeminiClient(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return client, client, nil
	}
	return NewGatewayClient(cfg), nil, nil
}
