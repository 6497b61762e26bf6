package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	Store     StoreConfig
	Retrieval RetrievalConfig
	Reranking RerankingConfig
	Metadata  MetadataConfig
	Redis     RedisConfig
	Auth      AuthConfig
	HTTP      HTTPConfig
}

// StoreConfig describes the Elasticsearch/OpenSearch-compatible document
// store holding the paragraph and journal indexes.
type StoreConfig struct {
	Host            string
	Port            string
	User            string
	Password        string
	UseSSL          bool
	IndexParagraphs string
	IndexJournals   string
	Timeout         time.Duration
}

type RetrievalConfig struct {
	// MaxLength is the paragraph length ceiling; longer hits are dropped
	// as garbage rather than truncated.
	MaxLength     int
	QueryMaxSize  int
	HierarchyFile string
}

type RerankingConfig struct {
	// Token empty means no reranker is configured and the pipeline
	// degrades to pass-through ranking.
	Token    string
	Endpoint string
	Model    string
	Timeout  time.Duration
}

type MetadataConfig struct {
	ExternalAPIs bool
	Timeout      time.Duration
}

type RedisConfig struct {
	// Addr empty disables the metadata cache.
	Addr   string
	Expiry time.Duration
}

type AuthConfig struct {
	ValidateToken    bool
	UserInfoEndpoint string
	ServiceSecret    string
}

type HTTPConfig struct {
	Addr              string
	ReadHeaderTimeout time.Duration
}

func Load() (*Config, error) {
	cfg := &Config{
		Store: StoreConfig{
			Host:            getEnvRequired("DS_HOST"),
			Port:            getEnvRequired("DS_PORT"),
			User:            getEnvOrDefault("DS_USER", ""),
			Password:        getEnvOrDefault("DS_PASSWORD", ""),
			UseSSL:          boolEnv("DS_USE_SSL", false),
			IndexParagraphs: getEnvRequired("DS_INDEX_PARAGRAPHS"),
			IndexJournals:   getEnvOrDefault("DS_INDEX_JOURNALS", ""),
			Timeout:         durationEnv("DS_TIMEOUT", 60*time.Second),
		},
		Retrieval: RetrievalConfig{
			MaxLength:     intEnv("RETRIEVAL_MAX_LENGTH", 100000),
			QueryMaxSize:  intEnv("RETRIEVAL_QUERY_MAX_SIZE", 10000),
			HierarchyFile: getEnvOrDefault("HIERARCHY_FILE", "brainregion_hierarchy.json"),
		},
		Reranking: RerankingConfig{
			Token:    getEnvOrDefault("RERANKER_API_KEY", ""),
			Endpoint: getEnvOrDefault("RERANKER_ENDPOINT", "https://api.cohere.com/v1/rerank"),
			Model:    getEnvOrDefault("RERANKER_MODEL", "rerank-english-v3.0"),
			Timeout:  durationEnv("RERANKER_TIMEOUT", 30*time.Second),
		},
		Metadata: MetadataConfig{
			ExternalAPIs: boolEnv("METADATA_EXTERNAL_APIS", true),
			Timeout:      durationEnv("METADATA_TIMEOUT", 30*time.Second),
		},
		Redis: RedisConfig{
			Addr:   getEnvOrDefault("REDIS_ADDR", ""),
			Expiry: durationEnv("REDIS_EXPIRY", 30*24*time.Hour),
		},
		Auth: AuthConfig{
			ValidateToken:    boolEnv("AUTH_VALIDATE_TOKEN", false),
			UserInfoEndpoint: getEnvOrDefault("AUTH_USERINFO_ENDPOINT", ""),
			ServiceSecret:    getEnvOrDefault("AUTH_SERVICE_SECRET", ""),
		},
		HTTP: HTTPConfig{
			Addr:              getEnvOrDefault("HTTP_ADDR", ":9400"),
			ReadHeaderTimeout: durationEnv("HTTP_READ_HEADER_TIMEOUT", 5*time.Second),
		},
	}

	if cfg.Auth.ValidateToken && cfg.Auth.UserInfoEndpoint == "" {
		return nil, fmt.Errorf("AUTH_VALIDATE_TOKEN is set but AUTH_USERINFO_ENDPOINT is empty")
	}
	if cfg.Retrieval.MaxLength <= 0 {
		return nil, fmt.Errorf("RETRIEVAL_MAX_LENGTH must be positive, got %d", cfg.Retrieval.MaxLength)
	}

	slog.Info("Configuration loaded",
		"ds_host", cfg.Store.Host,
		"index_paragraphs", cfg.Store.IndexParagraphs,
		"index_journals", cfg.Store.IndexJournals,
		"external_apis", cfg.Metadata.ExternalAPIs,
		"reranker_configured", cfg.Reranking.Token != "",
	)

	return cfg, nil
}

// StoreURL builds the base URL of the document store.
func (c *StoreConfig) StoreURL() string {
	scheme := "http"
	if c.UseSSL {
		scheme = "https"
	}
	host := strings.TrimPrefix(strings.TrimPrefix(c.Host, "http://"), "https://")
	return fmt.Sprintf("%s://%s:%s", scheme, host, c.Port)
}

func getEnvRequired(key string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	value := os.Getenv(key)
	if value == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return value
}

func getEnvOrDefault(key, defaultValue string) string {
	// Check for _FILE suffix
	if fileValue := os.Getenv(key + "_FILE"); fileValue != "" {
		content, err := os.ReadFile(fileValue)
		if err == nil {
			return strings.TrimSpace(string(content))
		}
	}

	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func intEnv(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func boolEnv(key string, defaultVal bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return defaultVal
}

func durationEnv(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
