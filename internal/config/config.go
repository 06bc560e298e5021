package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"repoproxy/internal/domain/repo"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

// Enrichment failure policies
const (
	FailurePolicySkip = "skip"
	FailurePolicyFail = "fail"
)

// Config holds all configuration for the application
type Config struct {
	Server  ServerConfig
	GitHub  GitHubConfig
	Search  SearchConfig
	CORS    CORSConfig
	Logging LoggingConfig
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port         string
	Host         string
	ReadTimeout  int
	WriteTimeout int
	IdleTimeout  int
	GinMode      string
}

// GitHubConfig holds upstream API configuration
type GitHubConfig struct {
	Token     string
	APIURL    string
	UserAgent string
	Timeout   int
}

// SearchConfig holds the defaults used by the search and detail endpoints
type SearchConfig struct {
	DefaultSort           string
	EnrichSearchLanguages bool
	EnrichRepoLanguages   bool
	FailurePolicy         string
}

// CORSConfig holds cross-origin configuration
type CORSConfig struct {
	AllowedOrigins []string
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level   string
	Console bool
}

// Load loads configuration from environment variables
func Load() (*Config, error) {
	// .env is optional
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			Host:         getEnv("SERVER_HOST", "0.0.0.0"),
			ReadTimeout:  getEnvAsInt("SERVER_READ_TIMEOUT", 30),
			WriteTimeout: getEnvAsInt("SERVER_WRITE_TIMEOUT", 30),
			IdleTimeout:  getEnvAsInt("SERVER_IDLE_TIMEOUT", 120),
			GinMode:      getEnv("GIN_MODE", "release"),
		},
		GitHub: GitHubConfig{
			Token:     getEnv("GITHUB_TOKEN", ""),
			APIURL:    getEnv("GITHUB_API_URL", "https://api.github.com/"),
			UserAgent: getEnv("GITHUB_USER_AGENT", "repoproxy/1.0"),
			Timeout:   getEnvAsInt("GITHUB_TIMEOUT", 30),
		},
		Search: SearchConfig{
			DefaultSort:           strings.ToLower(getEnv("SEARCH_DEFAULT_SORT", "")),
			EnrichSearchLanguages: getEnvAsBool("SEARCH_ENRICH_LANGUAGES", false),
			EnrichRepoLanguages:   getEnvAsBool("REPO_ENRICH_LANGUAGES", false),
			FailurePolicy:         strings.ToLower(getEnv("ENRICHMENT_FAILURE_POLICY", FailurePolicySkip)),
		},
		CORS: CORSConfig{
			AllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", ",", []string{"*"}),
		},
		Logging: LoggingConfig{
			Level:   getEnv("LOG_LEVEL", "info"),
			Console: getEnvAsBool("LOG_CONSOLE", false),
		},
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}
	switch c.Server.GinMode {
	case "debug", "release", "test":
	default:
		return fmt.Errorf("GIN_MODE must be debug, release or test")
	}
	if c.GitHub.UserAgent == "" {
		return fmt.Errorf("GITHUB_USER_AGENT is required")
	}
	if c.GitHub.Timeout <= 0 {
		return fmt.Errorf("GITHUB_TIMEOUT must be positive")
	}
	u, err := url.Parse(c.GitHub.APIURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("GITHUB_API_URL must be an absolute HTTP(S) URL")
	}
	if string(repo.ParseSort(c.Search.DefaultSort)) != c.Search.DefaultSort {
		return fmt.Errorf("SEARCH_DEFAULT_SORT must be empty or %q", repo.SortStars)
	}
	switch c.Search.FailurePolicy {
	case FailurePolicySkip, FailurePolicyFail:
	default:
		return fmt.Errorf("ENRICHMENT_FAILURE_POLICY must be %q or %q", FailurePolicySkip, FailurePolicyFail)
	}
	if len(c.CORS.AllowedOrigins) == 0 {
		return fmt.Errorf("CORS_ALLOWED_ORIGINS cannot be empty")
	}
	if _, err := zerolog.ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("LOG_LEVEL is invalid: %w", err)
	}
	return nil
}

// GetServerAddress returns the server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%s", c.Server.Host, c.Server.Port)
}

// RequestTimeout returns the upstream HTTP client timeout
func (c *GitHubConfig) RequestTimeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}

// getEnv gets an environment variable with a fallback value
func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// getEnvAsInt gets an environment variable as integer with a fallback value
func getEnvAsInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return fallback
}

// getEnvAsBool gets an environment variable as boolean with a fallback value
func getEnvAsBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return fallback
}

// getEnvAsSlice gets an environment variable as slice with a fallback value
func getEnvAsSlice(key, separator string, fallback []string) []string {
	if value := os.Getenv(key); value != "" {
		var out []string
		for _, part := range strings.Split(value, separator) {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
		return out
	}
	return fallback
}
