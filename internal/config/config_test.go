package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfig_Defaults(t *testing.T) {
	cfg := NewConfig()

	assert.Equal(t, StrategySemantic, cfg.Chunking.Strategy)
	assert.Equal(t, 512, cfg.Chunking.Size)
	assert.Equal(t, 100, cfg.Chunking.Overlap)
	assert.Equal(t, "ollama", cfg.Embeddings.Provider)
	assert.Equal(t, "nomic-embed-text", cfg.Embeddings.Model)
	assert.Equal(t, 32, cfg.Embeddings.BatchSize)
	assert.Equal(t, 60*time.Second, cfg.Embeddings.Timeout)
	assert.Equal(t, 5, cfg.Retrieval.TopK)
	assert.True(t, cfg.Retrieval.IncludeNeighbors)
	assert.NotEmpty(t, cfg.Store.Path)

	require.NoError(t, cfg.Validate())
}

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, StrategySemantic, cfg.Chunking.Strategy)
}

func TestLoad_FileOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eixoai.yaml")
	content := `
chunking:
  strategy: fixed
  size: 256
  overlap: 32
retrieval:
  top_k: 10
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StrategyFixed, cfg.Chunking.Strategy)
	assert.Equal(t, 256, cfg.Chunking.Size)
	assert.Equal(t, 32, cfg.Chunking.Overlap)
	assert.Equal(t, 10, cfg.Retrieval.TopK)

	// Untouched sections keep their defaults.
	assert.Equal(t, "nomic-embed-text", cfg.Embeddings.Model)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("chunking: ["), 0o644))

	_, err := Load(path)
	require.Error(t, err)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("EIXOAI_CHUNK_STRATEGY", "sentence")
	t.Setenv("EIXOAI_CHUNK_SIZE", "7")
	t.Setenv("EIXOAI_CHUNK_OVERLAP", "2")
	t.Setenv("EIXOAI_EMBED_MODEL", "all-minilm")
	t.Setenv("EIXOAI_STORE_PATH", "/tmp/eixoai-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, StrategySentence, cfg.Chunking.Strategy)
	assert.Equal(t, 7, cfg.Chunking.Size)
	assert.Equal(t, 2, cfg.Chunking.Overlap)
	assert.Equal(t, "all-minilm", cfg.Embeddings.Model)
	assert.Equal(t, "/tmp/eixoai-test", cfg.Store.Path)
}

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown strategy", func(c *Config) { c.Chunking.Strategy = "wild" }},
		{"zero size", func(c *Config) { c.Chunking.Size = 0 }},
		{"negative overlap", func(c *Config) { c.Chunking.Overlap = -1 }},
		{"overlap >= size", func(c *Config) {
			c.Chunking.Strategy = StrategyFixed
			c.Chunking.Size = 10
			c.Chunking.Overlap = 10
		}},
		{"zero batch size", func(c *Config) { c.Embeddings.BatchSize = 0 }},
		{"zero top_k", func(c *Config) { c.Retrieval.TopK = 0 }},
		{"negative min_relevance", func(c *Config) { c.Retrieval.MinRelevance = -0.1 }},
		{"empty store path", func(c *Config) { c.Store.Path = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := NewConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_SemanticAllowsLargeOverlap(t *testing.T) {
	cfg := NewConfig()
	cfg.Chunking.Strategy = StrategySemantic
	cfg.Chunking.Size = 100
	cfg.Chunking.Overlap = 100
	assert.NoError(t, cfg.Validate())
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "eixoai.yaml")

	cfg := NewConfig()
	cfg.Chunking.Strategy = StrategyFixed
	cfg.Retrieval.TopK = 9
	require.NoError(t, cfg.Save(path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, StrategyFixed, loaded.Chunking.Strategy)
	assert.Equal(t, 9, loaded.Retrieval.TopK)
}
