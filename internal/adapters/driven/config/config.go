// Package config resolves runtime settings for the docsage CLI.
// Values are layered: built-in defaults, then an optional docsage.toml
// in the working directory, then environment variables, which a .env
// file may populate first.
package config

import (
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"

	"github.com/docsage/docsage-cli/internal/core/domain"
)

// Built-in defaults.
const (
	DefaultDatabase        = "neo4j"
	DefaultOllamaBaseURL   = "http://localhost:11434"
	DefaultEmbeddingModel  = "nomic-embed-text"
	DefaultChatModel       = "mistral"
	DefaultTemperature     = 0.0
	DefaultTopKVectors     = 4
	DefaultTopKGraph       = 8
	DefaultChunkSize       = 900
	DefaultChunkOverlap    = 150
	DefaultDataDir         = "data/docs"
	DefaultVectorStorePath = "storage/vector_store"

	// ConfigFileName is the optional TOML file looked up in the working
	// directory.
	ConfigFileName = "docsage.toml"
)

// Environment variable names. The three NEO4J_* credentials are required;
// everything else falls back to a default.
const (
	EnvNeo4jURI               = "NEO4J_URI"
	EnvNeo4jUsername          = "NEO4J_USERNAME"
	EnvNeo4jPassword          = "NEO4J_PASSWORD"
	EnvNeo4jDatabase          = "NEO4J_DATABASE"
	EnvOllamaBaseURL          = "OLLAMA_BASE_URL"
	EnvEmbeddingModel         = "EMBEDDING_MODEL"
	EnvChatModel              = "CHAT_MODEL"
	EnvChatTemperature        = "CHAT_TEMPERATURE"
	EnvTopKVectors            = "TOP_K_VECTORS"
	EnvTopKGraph              = "TOP_K_GRAPH"
	EnvChunkSize              = "CHUNK_SIZE"
	EnvChunkOverlap           = "CHUNK_OVERLAP"
	EnvDataDir                = "DATA_DIR"
	EnvVectorStorePath        = "VECTOR_STORE_PATH"
	EnvAllowDangerousRequests = "ALLOW_DANGEROUS_REQUESTS"
	EnvTrustVectorStore       = "TRUST_VECTOR_STORE"
)

// Config holds every setting the pipeline needs.
type Config struct {
	Neo4jURI      string
	Neo4jUsername string
	Neo4jPassword string
	Neo4jDatabase string

	OllamaBaseURL   string
	EmbeddingModel  string
	ChatModel       string
	ChatTemperature float64

	TopKVectors int
	TopKGraph   int

	ChunkSize    int
	ChunkOverlap int

	DataDir         string
	VectorStorePath string

	AllowDangerousRequests bool
	TrustVectorStore       bool
}

// fileConfig mirrors docsage.toml. Pointer fields distinguish absent keys
// from explicit zero values.
type fileConfig struct {
	Neo4j struct {
		URI      *string `toml:"uri"`
		Username *string `toml:"username"`
		Password *string `toml:"password"`
		Database *string `toml:"database"`
	} `toml:"neo4j"`
	Ollama struct {
		BaseURL        *string  `toml:"base_url"`
		EmbeddingModel *string  `toml:"embedding_model"`
		ChatModel      *string  `toml:"chat_model"`
		Temperature    *float64 `toml:"temperature"`
	} `toml:"ollama"`
	Retrieval struct {
		TopKVectors *int `toml:"top_k_vectors"`
		TopKGraph   *int `toml:"top_k_graph"`
	} `toml:"retrieval"`
	Chunking struct {
		Size    *int `toml:"size"`
		Overlap *int `toml:"overlap"`
	} `toml:"chunking"`
	Paths struct {
		DataDir     *string `toml:"data_dir"`
		VectorStore *string `toml:"vector_store"`
	} `toml:"paths"`
	Security struct {
		AllowDangerousRequests *bool `toml:"allow_dangerous_requests"`
		TrustVectorStore       *bool `toml:"trust_vector_store"`
	} `toml:"security"`
}

// Load resolves the configuration. envFile, when non-empty, names a
// dotenv file that must exist; otherwise a .env in the working directory
// is loaded if present.
func Load(envFile string) (*Config, error) {
	cfg := defaults()

	if err := applyFile(cfg, ConfigFileName); err != nil {
		return nil, err
	}

	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			return nil, fmt.Errorf("%w: load env file %s: %w", domain.ErrConfig, envFile, err)
		}
	} else {
		// Optional by default.
		_ = godotenv.Load()
	}

	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	if err := validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Neo4jDatabase:    DefaultDatabase,
		OllamaBaseURL:    DefaultOllamaBaseURL,
		EmbeddingModel:   DefaultEmbeddingModel,
		ChatModel:        DefaultChatModel,
		ChatTemperature:  DefaultTemperature,
		TopKVectors:      DefaultTopKVectors,
		TopKGraph:        DefaultTopKGraph,
		ChunkSize:        DefaultChunkSize,
		ChunkOverlap:     DefaultChunkOverlap,
		DataDir:          DefaultDataDir,
		VectorStorePath:  DefaultVectorStorePath,
		TrustVectorStore: true,
	}
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("%w: read %s: %w", domain.ErrConfig, path, err)
	}

	var fc fileConfig
	if err := toml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("%w: parse %s: %w", domain.ErrConfig, path, err)
	}

	setString(&cfg.Neo4jURI, fc.Neo4j.URI)
	setString(&cfg.Neo4jUsername, fc.Neo4j.Username)
	setString(&cfg.Neo4jPassword, fc.Neo4j.Password)
	setString(&cfg.Neo4jDatabase, fc.Neo4j.Database)
	setString(&cfg.OllamaBaseURL, fc.Ollama.BaseURL)
	setString(&cfg.EmbeddingModel, fc.Ollama.EmbeddingModel)
	setString(&cfg.ChatModel, fc.Ollama.ChatModel)
	setString(&cfg.DataDir, fc.Paths.DataDir)
	setString(&cfg.VectorStorePath, fc.Paths.VectorStore)

	if fc.Ollama.Temperature != nil {
		cfg.ChatTemperature = *fc.Ollama.Temperature
	}
	setInt(&cfg.TopKVectors, fc.Retrieval.TopKVectors)
	setInt(&cfg.TopKGraph, fc.Retrieval.TopKGraph)
	setInt(&cfg.ChunkSize, fc.Chunking.Size)
	setInt(&cfg.ChunkOverlap, fc.Chunking.Overlap)

	if fc.Security.AllowDangerousRequests != nil {
		cfg.AllowDangerousRequests = *fc.Security.AllowDangerousRequests
	}
	if fc.Security.TrustVectorStore != nil {
		cfg.TrustVectorStore = *fc.Security.TrustVectorStore
	}

	return nil
}

func applyEnv(cfg *Config) error {
	overlayString(&cfg.Neo4jURI, EnvNeo4jURI)
	overlayString(&cfg.Neo4jUsername, EnvNeo4jUsername)
	overlayString(&cfg.Neo4jPassword, EnvNeo4jPassword)
	overlayString(&cfg.Neo4jDatabase, EnvNeo4jDatabase)
	overlayString(&cfg.OllamaBaseURL, EnvOllamaBaseURL)
	overlayString(&cfg.EmbeddingModel, EnvEmbeddingModel)
	overlayString(&cfg.ChatModel, EnvChatModel)
	overlayString(&cfg.DataDir, EnvDataDir)
	overlayString(&cfg.VectorStorePath, EnvVectorStorePath)

	if err := overlayFloat(&cfg.ChatTemperature, EnvChatTemperature); err != nil {
		return err
	}
	for _, f := range []struct {
		dst *int
		key string
	}{
		{&cfg.TopKVectors, EnvTopKVectors},
		{&cfg.TopKGraph, EnvTopKGraph},
		{&cfg.ChunkSize, EnvChunkSize},
		{&cfg.ChunkOverlap, EnvChunkOverlap},
	} {
		if err := overlayInt(f.dst, f.key); err != nil {
			return err
		}
	}
	if err := overlayBool(&cfg.AllowDangerousRequests, EnvAllowDangerousRequests); err != nil {
		return err
	}
	return overlayBool(&cfg.TrustVectorStore, EnvTrustVectorStore)
}

// validate checks required credentials and chunking parameters. All
// missing credentials are reported at once.
func validate(cfg *Config) error {
	var missing []string
	if cfg.Neo4jURI == "" {
		missing = append(missing, EnvNeo4jURI)
	}
	if cfg.Neo4jUsername == "" {
		missing = append(missing, EnvNeo4jUsername)
	}
	if cfg.Neo4jPassword == "" {
		missing = append(missing, EnvNeo4jPassword)
	}
	if len(missing) > 0 {
		sort.Strings(missing)
		return fmt.Errorf("%w: missing required settings: %s", domain.ErrConfig, strings.Join(missing, ", "))
	}

	if cfg.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk size must be positive, got %d", domain.ErrConfig, cfg.ChunkSize)
	}
	if cfg.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk overlap must not be negative, got %d", domain.ErrConfig, cfg.ChunkOverlap)
	}
	if cfg.ChunkOverlap >= cfg.ChunkSize {
		return fmt.Errorf("%w: chunk overlap %d must be smaller than chunk size %d",
			domain.ErrConfig, cfg.ChunkOverlap, cfg.ChunkSize)
	}

	return nil
}

func setString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func setInt(dst *int, src *int) {
	if src != nil {
		*dst = *src
	}
}

func overlayString(dst *string, key string) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		*dst = v
	}
}

func overlayInt(dst *int, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be an integer, got %q", domain.ErrConfig, key, v)
	}
	*dst = n
	return nil
}

func overlayFloat(dst *float64, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return fmt.Errorf("%w: %s must be a number, got %q", domain.ErrConfig, key, v)
	}
	*dst = f
	return nil
}

func overlayBool(dst *bool, key string) error {
	v, ok := os.LookupEnv(key)
	if !ok || v == "" {
		return nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fmt.Errorf("%w: %s must be a boolean, got %q", domain.ErrConfig, key, v)
	}
	*dst = b
	return nil
}
