package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Generation defaults used when the corresponding variable is unset.
const (
	DefaultModel            = "gpt35"
	DefaultEmbeddingModel   = "text-embedding-ada-amd"
	DefaultAPIVersion       = "2024-02-15-preview"
	DefaultTemperature      = 0.7
	DefaultMaxTokens        = 800
	DefaultTopP             = 0.95
	DefaultFrequencyPenalty = 0
	DefaultPresencePenalty  = 0
)

const (
	BackendPostgres = "postgres"
	BackendMongo    = "mongo"
)

type Config struct {
	ServerAddr  string
	RoutePrefix string
	LogLevel    string

	Search     SearchConfig
	OpenAI     OpenAIConfig
	Generation GenerationConfig
	Facts      FactsConfig
}

type SearchConfig struct {
	Endpoint  string
	IndexName string
	APIKey    string
}

type OpenAIConfig struct {
	Endpoint       string
	Key            string
	APIVersion     string
	EmbeddingModel string
}

// GenerationConfig holds the chat completion parameters.
type GenerationConfig struct {
	Model            string
	Temperature      float32
	MaxTokens        int
	TopP             float32
	FrequencyPenalty float32
	PresencePenalty  float32
	Stop             string
}

type FactsConfig struct {
	Backend   string
	PgConn    string
	MongoURI  string
	Database  string
	Container string
}

// Load reads the configuration from the environment, after loading a .env
// file when one is present, and validates it.
func Load() (*Config, error) {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds and validates the configuration from the current environment only.
func FromEnv() (*Config, error) {
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFacts is Load for tools that only talk to the fact store.
func LoadFacts() (*Config, error) {
	_ = godotenv.Load()
	cfg, err := parse()
	if err != nil {
		return nil, err
	}
	if err := cfg.Facts.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func parse() (*Config, error) {
	var errs []error

	cfg := &Config{
		ServerAddr:  getenv("SERVER_ADDR", ":7071"),
		RoutePrefix: strings.TrimRight(getenv("ROUTE_PREFIX", "/api"), "/"),
		LogLevel:    getenv("LOG_LEVEL", "info"),
		Search: SearchConfig{
			Endpoint:  strings.TrimRight(os.Getenv("AISearchEndpoint"), "/"),
			IndexName: os.Getenv("AISearchIndexName"),
			APIKey:    os.Getenv("AISearchAPIKey"),
		},
		OpenAI: OpenAIConfig{
			Endpoint:       os.Getenv("AOAI_ENDPOINT"),
			Key:            os.Getenv("AOAI_KEY"),
			APIVersion:     getenv("AOAI_API_VERSION", DefaultAPIVersion),
			EmbeddingModel: getenv("EMBEDDING_MODEL", DefaultEmbeddingModel),
		},
		Generation: GenerationConfig{
			Model:            getenv("MODEL", DefaultModel),
			Temperature:      getenvFloat("TEMPERATURE", DefaultTemperature, &errs),
			MaxTokens:        getenvInt("MAX_TOKENS", DefaultMaxTokens, &errs),
			TopP:             getenvFloat("TOP_P", DefaultTopP, &errs),
			FrequencyPenalty: getenvFloat("FREQUENCY_PENALTY", DefaultFrequencyPenalty, &errs),
			PresencePenalty:  getenvFloat("PRESENCE_PENALTY", DefaultPresencePenalty, &errs),
			Stop:             os.Getenv("STOP"),
		},
		Facts: FactsConfig{
			Backend:   strings.ToLower(getenv("FACTS_BACKEND", BackendPostgres)),
			PgConn:    os.Getenv("PG_CONN"),
			MongoURI:  os.Getenv("MONGO_URI"),
			Database:  getenv("FACTS_DATABASE", "aoaidb"),
			Container: getenv("FACTS_CONTAINER", "facts"),
		},
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error
	required := []struct{ name, value string }{
		{"AISearchEndpoint", c.Search.Endpoint},
		{"AISearchIndexName", c.Search.IndexName},
		{"AISearchAPIKey", c.Search.APIKey},
		{"AOAI_ENDPOINT", c.OpenAI.Endpoint},
		{"AOAI_KEY", c.OpenAI.Key},
	}
	for _, r := range required {
		if r.value == "" {
			errs = append(errs, fmt.Errorf("%s is required", r.name))
		}
	}

	if c.Generation.MaxTokens <= 0 {
		errs = append(errs, fmt.Errorf("MAX_TOKENS must be positive, got %d", c.Generation.MaxTokens))
	}

	if err := c.Facts.Validate(); err != nil {
		errs = append(errs, err)
	}

	return errors.Join(errs...)
}

func (f FactsConfig) Validate() error {
	switch f.Backend {
	case BackendPostgres:
		if f.PgConn == "" {
			return errors.New("PG_CONN is required for the postgres facts backend")
		}
	case BackendMongo:
		if f.MongoURI == "" {
			return errors.New("MONGO_URI is required for the mongo facts backend")
		}
	default:
		return fmt.Errorf("unknown FACTS_BACKEND %q", f.Backend)
	}
	return nil
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func getenvFloat(k string, def float32, errs *[]error) float32 {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(v), 32)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid number %q", k, v))
		return def
	}
	return float32(f)
}

func getenvInt(k string, def int, errs *[]error) int {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: invalid integer %q", k, v))
		return def
	}
	return n
}
