// Package config loads and validates EixoAi configuration.
//
// Configuration is resolved in precedence order:
//  1. EIXOAI_* environment variables (highest)
//  2. Explicit config file (--config or eixoai.yaml in the data directory)
//  3. Built-in defaults
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Strategy selects the chunk boundary policy.
type Strategy string

const (
	// StrategyFixed slides a fixed-width character window.
	StrategyFixed Strategy = "fixed"
	// StrategySentence groups a fixed number of sentences per chunk.
	StrategySentence Strategy = "sentence"
	// StrategySemantic groups paragraphs with sentence-level overlap.
	StrategySemantic Strategy = "semantic"
)

// Config represents the complete EixoAi configuration.
type Config struct {
	Version    int              `yaml:"version"`
	Chunking   ChunkingConfig   `yaml:"chunking"`
	Embeddings EmbeddingsConfig `yaml:"embeddings"`
	Store      StoreConfig      `yaml:"store"`
	Retrieval  RetrievalConfig  `yaml:"retrieval"`
	Logging    LoggingConfig    `yaml:"logging"`
}

// ChunkingConfig is the single fixed chunking configuration for the whole
// system. The same strategy and parameters apply to every indexed document;
// there is no per-call override.
type ChunkingConfig struct {
	// Strategy is one of "fixed", "sentence", "semantic".
	Strategy Strategy `yaml:"strategy"`

	// Size is the chunk size: characters for fixed/semantic, sentences for
	// sentence strategy.
	Size int `yaml:"size"`

	// Overlap is the chunk overlap: characters for fixed, sentences for
	// sentence strategy. The semantic strategy derives its overlap from the
	// trailing sentences of the previous chunk.
	Overlap int `yaml:"overlap"`
}

// EmbeddingsConfig configures the embedding collaborator.
type EmbeddingsConfig struct {
	// Provider selects the embedder: "ollama" (default) or "static" (offline).
	Provider string `yaml:"provider"`
	// OllamaHost is the Ollama API endpoint (default: http://localhost:11434).
	OllamaHost string `yaml:"ollama_host"`
	// Model is the embedding model name.
	Model string `yaml:"model"`
	// Dimensions is the embedding dimension (0 = auto-detect from embedder).
	Dimensions int `yaml:"dimensions"`
	// BatchSize is the number of texts per embedding request.
	BatchSize int `yaml:"batch_size"`
	// CacheSize is the number of query embeddings kept in the LRU cache.
	CacheSize int `yaml:"cache_size"`
	// Timeout is the per-request embedding timeout.
	Timeout time.Duration `yaml:"timeout"`
}

// StoreConfig configures the vector store location.
type StoreConfig struct {
	// Path is the data directory holding the SQLite database and vector index.
	Path string `yaml:"path"`
}

// RetrievalConfig configures search and context assembly defaults.
type RetrievalConfig struct {
	// TopK is the default number of results to return.
	TopK int `yaml:"top_k"`
	// MinRelevance filters context blocks below this relevance (0-1).
	MinRelevance float64 `yaml:"min_relevance"`
	// IncludeNeighbors enables neighbor expansion in expanded context.
	IncludeNeighbors bool `yaml:"include_neighbors"`
}

// LoggingConfig configures structured logging.
type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// NewConfig creates a new Config with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Version: 1,
		Chunking: ChunkingConfig{
			Strategy: StrategySemantic,
			Size:     512,
			Overlap:  100,
		},
		Embeddings: EmbeddingsConfig{
			Provider:   "ollama",
			OllamaHost: "", // empty uses the embedder default
			Model:      "nomic-embed-text",
			Dimensions: 0, // auto-detect
			BatchSize:  32,
			CacheSize:  1000,
			Timeout:    60 * time.Second,
		},
		Store: StoreConfig{
			Path: defaultStorePath(),
		},
		Retrieval: RetrievalConfig{
			TopK:             5,
			MinRelevance:     0.0,
			IncludeNeighbors: true,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// defaultStorePath returns the default data directory.
func defaultStorePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), ".eixoai")
	}
	return filepath.Join(home, ".eixoai")
}

// Load reads configuration from path, falling back to defaults for missing
// fields, then applies environment overrides and validates.
// A missing file is not an error: defaults are used.
func Load(path string) (*Config, error) {
	cfg := NewConfig()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("read config %s: %w", path, err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies EIXOAI_* environment variables.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("EIXOAI_STORE_PATH"); v != "" {
		c.Store.Path = v
	}
	if v := os.Getenv("EIXOAI_OLLAMA_HOST"); v != "" {
		c.Embeddings.OllamaHost = v
	}
	if v := os.Getenv("EIXOAI_EMBED_MODEL"); v != "" {
		c.Embeddings.Model = v
	}
	if v := os.Getenv("EIXOAI_EMBED_PROVIDER"); v != "" {
		c.Embeddings.Provider = v
	}
	if v := os.Getenv("EIXOAI_CHUNK_STRATEGY"); v != "" {
		c.Chunking.Strategy = Strategy(v)
	}
	if v := os.Getenv("EIXOAI_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Chunking.Size = n
		}
	}
	if v := os.Getenv("EIXOAI_CHUNK_OVERLAP"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Chunking.Overlap = n
		}
	}
	if v := os.Getenv("EIXOAI_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Validate checks configuration invariants.
func (c *Config) Validate() error {
	switch c.Chunking.Strategy {
	case StrategyFixed, StrategySentence, StrategySemantic:
	default:
		return fmt.Errorf("invalid chunking strategy %q (want fixed, sentence, or semantic)", c.Chunking.Strategy)
	}
	if c.Chunking.Size <= 0 {
		return fmt.Errorf("chunking size must be positive, got %d", c.Chunking.Size)
	}
	if c.Chunking.Overlap < 0 {
		return fmt.Errorf("chunking overlap must be non-negative, got %d", c.Chunking.Overlap)
	}
	if c.Chunking.Strategy != StrategySemantic && c.Chunking.Overlap >= c.Chunking.Size {
		return fmt.Errorf("chunking overlap %d must be smaller than size %d", c.Chunking.Overlap, c.Chunking.Size)
	}
	if c.Embeddings.BatchSize <= 0 {
		return fmt.Errorf("embeddings batch_size must be positive, got %d", c.Embeddings.BatchSize)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("retrieval top_k must be positive, got %d", c.Retrieval.TopK)
	}
	if c.Retrieval.MinRelevance < 0 {
		return fmt.Errorf("retrieval min_relevance must be non-negative, got %f", c.Retrieval.MinRelevance)
	}
	if c.Store.Path == "" {
		return fmt.Errorf("store path must not be empty")
	}
	return nil
}

// Save writes the configuration to path as YAML.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return os.WriteFile(path, data, 0644)
}

// DefaultConfigPath returns the config file path inside the data directory.
func (c *Config) DefaultConfigPath() string {
	return filepath.Join(c.Store.Path, "eixoai.yaml")
}
