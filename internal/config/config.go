// Package config loads the pipeline's layered YAML + environment
// configuration, following the same Load/applyEnvOverrides/Validate
// shape used across the example knowledge-engine service.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config is the root configuration object.
type Config struct {
	Store         StoreConfig         `yaml:"store"`
	Router        RouterConfig        `yaml:"router"`
	Models        ModelsConfig        `yaml:"models"`
	Observability ObservabilityConfig `yaml:"observability"`
	Server        ServerConfig        `yaml:"server"`
	PromptCatalog string              `yaml:"prompt_catalog_dir"`
}

// StoreConfig configures the section store backend.
type StoreConfig struct {
	Driver string `yaml:"driver"` // "memory" or "sqlite"
	DSN    string `yaml:"dsn"`    // sqlite file path
}

// RouterConfig configures C5's concurrency and circuit-breaker policy.
type RouterConfig struct {
	MaxConcurrent          int `yaml:"max_concurrent"`
	CircuitBreakerThreshold int `yaml:"circuit_breaker_threshold"`
	CircuitBreakerCooloffS int `yaml:"circuit_breaker_cooloff_seconds"`
}

// ModelBackendConfig configures one model handle.
type ModelBackendConfig struct {
	Name           string `yaml:"name"`
	BaseURL        string `yaml:"base_url"`
	Model          string `yaml:"model"`
	APIKeyEnv      string `yaml:"api_key_env"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
	CostPerToken   float64 `yaml:"cost_per_token"`
}

// ModelsConfig holds the three fixed model handles: local, hosted-A, hosted-B.
type ModelsConfig struct {
	Local   ModelBackendConfig `yaml:"local"`
	HostedA ModelBackendConfig `yaml:"hosted_a"`
	HostedB ModelBackendConfig `yaml:"hosted_b"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	RedisURL string `yaml:"redis_url"`
}

// ServerConfig configures the optional `fddctl serve` HTTP server.
type ServerConfig struct {
	Port int `yaml:"port"`
}

// DefaultConfig returns a fully populated, runnable configuration:
// in-memory store, concurrency 5, local-only model backend.
func DefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{Driver: "memory"},
		Router: RouterConfig{
			MaxConcurrent:           5,
			CircuitBreakerThreshold: 5,
			CircuitBreakerCooloffS:  30,
		},
		Models: ModelsConfig{
			Local:   ModelBackendConfig{Name: "local", BaseURL: "http://localhost:11434/api/generate", Model: "llama3.2", TimeoutSeconds: 120, CostPerToken: 0},
			HostedA: ModelBackendConfig{Name: "hosted_a", Model: "gemini-1.5-pro", APIKeyEnv: "HOSTED_A_API_KEY", TimeoutSeconds: 60, CostPerToken: 0.000125},
			HostedB: ModelBackendConfig{Name: "hosted_b", Model: "gpt-4-turbo-preview", APIKeyEnv: "HOSTED_B_API_KEY", TimeoutSeconds: 60, CostPerToken: 0.00003},
		},
		Observability: ObservabilityConfig{Level: "info", Format: "console"},
		Server:        ServerConfig{Port: 8080},
		PromptCatalog: "prompts",
	}
}

// Load reads a YAML file, applies environment overrides, then validates.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("FDD_STORE_DRIVER"); v != "" {
		cfg.Store.Driver = v
	}
	if v := os.Getenv("FDD_STORE_DSN"); v != "" {
		cfg.Store.DSN = v
	}
	if v := os.Getenv("FDD_ROUTER_MAX_CONCURRENT"); v != "" {
		var n int
		if _, err := fmt.Sscanf(v, "%d", &n); err == nil {
			cfg.Router.MaxConcurrent = n
		}
	}
	if v := os.Getenv("FDD_LOG_LEVEL"); v != "" {
		cfg.Observability.Level = v
	}
	if v := os.Getenv("FDD_LOG_FORMAT"); v != "" {
		cfg.Observability.Format = v
	}
	if v := os.Getenv("FDD_REDIS_URL"); v != "" {
		cfg.Observability.RedisURL = v
	}
	if v := os.Getenv("FDD_PROMPT_CATALOG_DIR"); v != "" {
		cfg.PromptCatalog = v
	}
}

// Validate rejects configurations that cannot run.
func (c *Config) Validate() error {
	if c.Router.MaxConcurrent <= 0 {
		return fmt.Errorf("router.max_concurrent must be positive, got %d", c.Router.MaxConcurrent)
	}
	switch c.Store.Driver {
	case "memory", "sqlite":
	default:
		return fmt.Errorf("store.driver must be memory or sqlite, got %q", c.Store.Driver)
	}
	if c.Store.Driver == "sqlite" && c.Store.DSN == "" {
		return fmt.Errorf("store.dsn is required when store.driver is sqlite")
	}
	return nil
}

// APIKey resolves a model backend's API key from its configured env var.
func (m ModelBackendConfig) APIKey() string {
	if m.APIKeyEnv == "" {
		return ""
	}
	return os.Getenv(m.APIKeyEnv)
}
