package provider

import (
	"context"

	"studypal/config"
	"studypal/models"
	openai_provider "studypal/provider/openai"
)

// Provider abstracts the external language-model service. Both operations
// are potentially high-latency network calls and must be given a context
// with a bounded deadline.
type Provider interface {
	// CreateEmbedding converts texts into fixed-length vectors, one per input.
	CreateEmbedding(ctx context.Context, texts []string) ([][]float32, error)
	// ChatCompletion produces a completion for the given messages.
	ChatCompletion(ctx context.Context, messages []models.Message) (string, error)
}

// NewProvider builds the configured provider, or nil when the credential is
// missing so the service can start degraded.
func NewProvider(cfg config.ProviderConfig) Provider {
	if !cfg.Configured() {
		return nil
	}
	return openai_provider.New(openai_provider.Options{
		APIKey:          cfg.APIKey,
		BaseURL:         cfg.BaseURL,
		CompletionModel: cfg.CompletionModel,
		EmbeddingModel:  cfg.EmbeddingModel,
		Temperature:     cfg.Temperature,
		MaxTokens:       cfg.MaxTokens,
		Timeout:         cfg.Timeout,
		MaxRetries:      cfg.MaxRetries,
	})
}
