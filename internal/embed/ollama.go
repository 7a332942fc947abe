package embed

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"sync"
	"time"

	eixoerrors "github.com/kaio-w-b/EixoAi/internal/errors"
)

// OllamaEmbedder generates embeddings via a local Ollama server.
type OllamaEmbedder struct {
	host       string
	model      string
	dimensions int
	batchSize  int
	timeout    time.Duration
	maxRetries int
	client     *http.Client
	logger     *slog.Logger

	mu     sync.Mutex
	closed bool
}

var _ Embedder = (*OllamaEmbedder)(nil)

// NewOllamaEmbedder creates an Ollama-backed embedder. Unless
// cfg.SkipHealthCheck is set, it probes the server and verifies the model
// is present before returning.
func NewOllamaEmbedder(ctx context.Context, cfg OllamaConfig, logger *slog.Logger) (*OllamaEmbedder, error) {
	if cfg.Host == "" {
		cfg.Host = DefaultOllamaHost
	}
	if cfg.Model == "" {
		return nil, eixoerrors.ConfigError("embedding model name is required", nil)
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = DefaultBatchSize
	}
	if cfg.BatchSize > MaxBatchSize {
		cfg.BatchSize = MaxBatchSize
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = DefaultMaxRetries
	}
	if cfg.PoolSize <= 0 {
		cfg.PoolSize = DefaultPoolSize
	}
	if logger == nil {
		logger = slog.Default()
	}

	transport := &http.Transport{
		MaxIdleConns:        cfg.PoolSize,
		MaxIdleConnsPerHost: cfg.PoolSize,
		IdleConnTimeout:     90 * time.Second,
	}

	e := &OllamaEmbedder{
		host:       strings.TrimRight(cfg.Host, "/"),
		model:      cfg.Model,
		dimensions: cfg.Dimensions,
		batchSize:  cfg.BatchSize,
		timeout:    cfg.Timeout,
		maxRetries: cfg.MaxRetries,
		client:     &http.Client{Transport: transport},
		logger:     logger.With("component", "embed.ollama"),
	}

	if !cfg.SkipHealthCheck {
		probeCtx, cancel := context.WithTimeout(ctx, OllamaConnectTimeout)
		defer cancel()
		if err := e.checkModel(probeCtx); err != nil {
			return nil, err
		}
	}

	return e, nil
}

// checkModel verifies the server responds and the configured model exists.
func (e *OllamaEmbedder) checkModel(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, e.host+"/api/tags", nil)
	if err != nil {
		return eixoerrors.New(eixoerrors.ErrCodeNetworkUnavailable, "failed to build Ollama request", err)
	}

	resp, err := e.client.Do(req)
	if err != nil {
		return eixoerrors.New(eixoerrors.ErrCodeNetworkUnavailable,
			fmt.Sprintf("cannot reach Ollama at %s", e.host), err).
			WithSuggestion("start Ollama with 'ollama serve' or set EIXOAI_OLLAMA_HOST")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return eixoerrors.New(eixoerrors.ErrCodeNetworkUnavailable,
			fmt.Sprintf("Ollama returned status %d", resp.StatusCode), nil)
	}

	var list ollamaModelListResponse
	if err := json.NewDecoder(resp.Body).Decode(&list); err != nil {
		return eixoerrors.New(eixoerrors.ErrCodeNetworkUnavailable, "failed to decode Ollama model list", err)
	}

	for _, m := range list.Models {
		if m.Name == e.model || m.Model == e.model ||
			strings.TrimSuffix(m.Name, ":latest") == e.model {
			return nil
		}
	}

	return eixoerrors.New(eixoerrors.ErrCodeModelNotFound,
		fmt.Sprintf("model %q not found on Ollama server", e.model), nil).
		WithSuggestion(fmt.Sprintf("pull it with 'ollama pull %s'", e.model))
}

// Embed generates an embedding for a single text.
func (e *OllamaEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	vecs, err := e.EmbedBatch(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	return vecs[0], nil
}

// EmbedBatch generates embeddings for multiple texts, splitting the input
// into batches of at most BatchSize per request.
func (e *OllamaEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	e.mu.Lock()
	if e.closed {
		e.mu.Unlock()
		return nil, eixoerrors.New(eixoerrors.ErrCodeInternal, "embedder is closed", nil)
	}
	e.mu.Unlock()

	results := make([][]float32, 0, len(texts))
	for start := 0; start < len(texts); start += e.batchSize {
		end := start + e.batchSize
		if end > len(texts) {
			end = len(texts)
		}

		var vecs [][]float32
		err := withRetry(ctx, e.maxRetries, func() error {
			var reqErr error
			vecs, reqErr = e.embedOnce(ctx, texts[start:end])
			return reqErr
		})
		if err != nil {
			return nil, err
		}
		results = append(results, vecs...)
	}

	return results, nil
}

// embedOnce sends a single /api/embed request for one batch of texts.
func (e *OllamaEmbedder) embedOnce(ctx context.Context, texts []string) ([][]float32, error) {
	reqCtx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	body, err := json.Marshal(ollamaEmbedRequest{Model: e.model, Input: texts})
	if err != nil {
		return nil, eixoerrors.EmbeddingError("failed to encode embedding request", err)
	}

	req, err := http.NewRequestWithContext(reqCtx, http.MethodPost, e.host+"/api/embed", bytes.NewReader(body))
	if err != nil {
		return nil, eixoerrors.EmbeddingError("failed to build embedding request", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := e.client.Do(req)
	if err != nil {
		return nil, eixoerrors.New(eixoerrors.ErrCodeNetworkUnavailable, "embedding request failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, eixoerrors.EmbeddingError(
			fmt.Sprintf("Ollama returned status %d: %s", resp.StatusCode, strings.TrimSpace(string(data))), nil)
	}

	var embedResp ollamaEmbedResponse
	if err := json.NewDecoder(resp.Body).Decode(&embedResp); err != nil {
		return nil, eixoerrors.EmbeddingError("failed to decode embedding response", err)
	}

	if len(embedResp.Embeddings) != len(texts) {
		return nil, eixoerrors.EmbeddingError(
			fmt.Sprintf("expected %d embeddings, got %d", len(texts), len(embedResp.Embeddings)), nil)
	}

	vecs := make([][]float32, len(embedResp.Embeddings))
	for i, raw := range embedResp.Embeddings {
		vec := make([]float32, len(raw))
		for j, val := range raw {
			vec[j] = float32(val)
		}
		vecs[i] = normalizeVector(vec)
	}

	// Auto-detect dimensions from the first response.
	e.mu.Lock()
	if e.dimensions == 0 && len(vecs) > 0 {
		e.dimensions = len(vecs[0])
		e.logger.Debug("detected embedding dimensions", "dimensions", e.dimensions)
	}
	e.mu.Unlock()

	return vecs, nil
}

// Dimensions returns the embedding dimension (0 before the first request
// when auto-detecting).
func (e *OllamaEmbedder) Dimensions() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.dimensions
}

// ModelName returns the model identifier.
func (e *OllamaEmbedder) ModelName() string {
	return e.model
}

// Available checks if the Ollama server is reachable and has the model.
func (e *OllamaEmbedder) Available(ctx context.Context) bool {
	probeCtx, cancel := context.WithTimeout(ctx, OllamaConnectTimeout)
	defer cancel()
	return e.checkModel(probeCtx) == nil
}

// Close releases the HTTP connection pool.
func (e *OllamaEmbedder) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.closed {
		return nil
	}
	e.closed = true
	e.client.CloseIdleConnections()
	return nil
}
