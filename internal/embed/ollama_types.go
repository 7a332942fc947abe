package embed

import "time"

// Ollama API constants.
const (
	// DefaultOllamaHost is the default Ollama server address.
	DefaultOllamaHost = "http://localhost:11434"

	// OllamaConnectTimeout is the timeout for the availability probe.
	OllamaConnectTimeout = 5 * time.Second

	// DefaultPoolSize is the HTTP connection pool size.
	DefaultPoolSize = 10
)

// OllamaConfig configures the Ollama embedder.
type OllamaConfig struct {
	// Host is the Ollama server URL.
	Host string

	// Model is the embedding model name (e.g. "nomic-embed-text").
	Model string

	// Dimensions is the expected embedding dimension. Zero means auto-detect
	// from the first response.
	Dimensions int

	// BatchSize is the number of texts per embedding request.
	BatchSize int

	// Timeout is the per-request timeout.
	Timeout time.Duration

	// MaxRetries is the number of retry attempts for transient failures.
	MaxRetries int

	// PoolSize is the HTTP connection pool size.
	PoolSize int

	// SkipHealthCheck skips the startup availability probe (used in tests).
	SkipHealthCheck bool
}

// ollamaEmbedRequest is the request body for POST /api/embed.
// Input accepts a string or a []string for batched requests.
type ollamaEmbedRequest struct {
	Model string `json:"model"`
	Input any    `json:"input"`
}

// ollamaEmbedResponse is the response body from POST /api/embed.
type ollamaEmbedResponse struct {
	Model      string      `json:"model"`
	Embeddings [][]float64 `json:"embeddings"`
}

// ollamaModelInfo describes a model from GET /api/tags.
type ollamaModelInfo struct {
	Name  string `json:"name"`
	Model string `json:"model"`
}

// ollamaModelListResponse is the response body from GET /api/tags.
type ollamaModelListResponse struct {
	Models []ollamaModelInfo `json:"models"`
}
