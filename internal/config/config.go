package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StoragePostgres = "postgres"
	StorageMemory   = "memory"
)

type Config struct {
	Port        string
	Environment string
	Storage     string // postgres or memory
	DatabaseURL string
	TablePrefix string
	CORSOrigins string

	// BaseURL is prepended to generated page URLs.
	BaseURL string

	// APIToken grants the edit capability when presented as a bearer token.
	// Empty disables the static-token path.
	APIToken string

	// JWTSecret verifies HS256 bearer tokens carrying an "edit" claim.
	// Empty disables the JWT path.
	JWTSecret string

	Debug bool
}

// fileConfig mirrors Config with optional fields for the YAML overlay.
// Values present in the file override environment values.
type fileConfig struct {
	Port        *string `yaml:"port"`
	Environment *string `yaml:"environment"`
	Storage     *string `yaml:"storage"`
	DatabaseURL *string `yaml:"database_url"`
	TablePrefix *string `yaml:"table_prefix"`
	CORSOrigins *string `yaml:"cors_origins"`
	BaseURL     *string `yaml:"base_url"`
	APIToken    *string `yaml:"api_token"`
	JWTSecret   *string `yaml:"jwt_secret"`
	Debug       *bool   `yaml:"debug"`
}

// Load builds the configuration from environment variables, then applies the
// optional YAML file named by WIKIPRESS_CONFIG (or ./wikipress.yaml when it
// exists). A missing file is not an error; an unreadable one is.
func Load() (*Config, error) {
	env := getEnv("ENVIRONMENT", "dev")

	cfg := &Config{
		Port:        getEnv("PORT", "8080"),
		Environment: env,
		Storage:     getEnv("STORAGE", StoragePostgres),
		DatabaseURL: getEnv("DATABASE_URL", ""),
		TablePrefix: getTablePrefix(env),
		CORSOrigins: getEnv("CORS_ORIGINS", "http://localhost:3000"),
		BaseURL:     getEnv("BASE_URL", "http://localhost:8080"),
		APIToken:    getEnv("WIKI_API_TOKEN", ""),
		JWTSecret:   getEnv("WIKI_JWT_SECRET", ""),
		Debug:       getEnv("DEBUG", getDefaultDebug(env)) == "true",
	}

	path := os.Getenv("WIKIPRESS_CONFIG")
	if path == "" {
		if _, err := os.Stat("wikipress.yaml"); err == nil {
			path = "wikipress.yaml"
		}
	}
	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if cfg.Storage != StoragePostgres && cfg.Storage != StorageMemory {
		return nil, fmt.Errorf("unknown storage backend %q", cfg.Storage)
	}

	return cfg, nil
}

func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return fmt.Errorf("parse config file %s: %w", path, err)
	}

	setIf(&cfg.Port, fc.Port)
	setIf(&cfg.Environment, fc.Environment)
	setIf(&cfg.Storage, fc.Storage)
	setIf(&cfg.DatabaseURL, fc.DatabaseURL)
	setIf(&cfg.TablePrefix, fc.TablePrefix)
	setIf(&cfg.CORSOrigins, fc.CORSOrigins)
	setIf(&cfg.BaseURL, fc.BaseURL)
	setIf(&cfg.APIToken, fc.APIToken)
	setIf(&cfg.JWTSecret, fc.JWTSecret)
	if fc.Debug != nil {
		cfg.Debug = *fc.Debug
	}
	return nil
}

func setIf(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// getDefaultDebug returns the default debug setting based on environment
func getDefaultDebug(env string) string {
	if env == "prod" {
		return "false"
	}
	return "true"
}

// getTablePrefix returns the table prefix based on environment
func getTablePrefix(env string) string {
	if prefix := os.Getenv("TABLE_PREFIX"); prefix != "" {
		return prefix
	}

	switch env {
	case "prod":
		return "prod_"
	case "test":
		return "test_"
	default:
		return "dev_"
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
