package embed

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/kaio-w-b/EixoAi/internal/config"
	eixoerrors "github.com/kaio-w-b/EixoAi/internal/errors"
)

// NewFromConfig builds the configured embedder, wrapped in the LRU cache.
func NewFromConfig(ctx context.Context, cfg config.EmbeddingsConfig, logger *slog.Logger) (Embedder, error) {
	var inner Embedder

	switch cfg.Provider {
	case "", "ollama":
		ollama, err := NewOllamaEmbedder(ctx, OllamaConfig{
			Host:       cfg.OllamaHost,
			Model:      cfg.Model,
			Dimensions: cfg.Dimensions,
			BatchSize:  cfg.BatchSize,
			Timeout:    cfg.Timeout,
		}, logger)
		if err != nil {
			return nil, err
		}
		inner = ollama
	case "static":
		inner = NewStaticEmbedder()
	default:
		return nil, eixoerrors.ConfigError(
			fmt.Sprintf("unknown embedding provider %q", cfg.Provider), nil).
			WithSuggestion("use \"ollama\" or \"static\"")
	}

	return NewCachedEmbedder(inner, cfg.CacheSize, logger)
}
