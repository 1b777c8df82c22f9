package common

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
)

// Config represents the application configuration
type Config struct {
	Environment string        `toml:"environment"` // "development" or "production"
	Server      ServerConfig  `toml:"server"`
	Logging     LoggingConfig `toml:"logging"`
	LLM         LLMConfig     `toml:"llm"`
	Ollama      OllamaConfig  `toml:"ollama"`
	Gemini      GeminiConfig  `toml:"gemini"`
	Claude      ClaudeConfig  `toml:"claude"`
	Report      ReportConfig  `toml:"report"`
	PDF         PDFConfig     `toml:"pdf"`
}

type ServerConfig struct {
	Port         int    `toml:"port"`
	Host         string `toml:"host"`
	MaxBodyBytes int64  `toml:"max_body_bytes"` // Upper bound on request bodies (default: 1 MiB)
}

type LoggingConfig struct {
	Level      string   `toml:"level"`       // "debug", "info", "warn", "error"
	Output     []string `toml:"output"`      // "stdout", "file"
	TimeFormat string   `toml:"time_format"` // Time format for log lines (default: "15:04:05")
	FilePath   string   `toml:"file_path"`   // Log file when "file" output is enabled (default: logs/curavie.log next to the binary)
}

// LLMProvider represents the generation backend
type LLMProvider string

const (
	// LLMProviderOllama uses a local Ollama server
	LLMProviderOllama LLMProvider = "ollama"
	// LLMProviderGemini uses Google Gemini API
	LLMProviderGemini LLMProvider = "gemini"
	// LLMProviderClaude uses Anthropic Claude API
	LLMProviderClaude LLMProvider = "claude"
)

// LLMConfig contains provider-independent generation settings
type LLMConfig struct {
	DefaultProvider LLMProvider `toml:"default_provider"` // "ollama", "gemini" or "claude" (default: "ollama")
	Model           string      `toml:"model"`            // Model identifier (default: "llama3")
	Timeout         string      `toml:"timeout"`          // Bound on a single generation call (default: "2m")
	RateLimit       string      `toml:"rate_limit"`       // Minimum spacing between calls, empty or "0" disables (default: "")
}

// OllamaConfig contains the local Ollama server settings
type OllamaConfig struct {
	BaseURL     string  `toml:"base_url"`    // default: "http://localhost:11434"
	Temperature float32 `toml:"temperature"` // 0 leaves the model default
}

// GeminiConfig contains Google Gemini API configuration
type GeminiConfig struct {
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`    // API gateway override; empty uses Google's endpoint
	Temperature float32 `toml:"temperature"` // default: 0.7
}

// ClaudeConfig contains Anthropic Claude API configuration
type ClaudeConfig struct {
	APIKey      string  `toml:"api_key"`
	BaseURL     string  `toml:"base_url"`    // API gateway override; empty uses Anthropic's endpoint
	MaxTokens   int     `toml:"max_tokens"`  // default: 4096
	Temperature float32 `toml:"temperature"` // default: 0.7
}

// ReportConfig contains health report content settings
type ReportConfig struct {
	Region     string `toml:"region"`      // Region named in the prompt role line (default: "Kerala, India")
	ProfileURL string `toml:"profile_url"` // Where users are sent when a worker has no profile
}

// PDFConfig contains document layout settings
type PDFConfig struct {
	FontSize float64 `toml:"font_size"` // Body font size in points (default: 11)
	Compress bool    `toml:"compress"`  // Compress page streams (default: true)
	Author   string  `toml:"author"`    // Document author metadata (default: "CuraVie")
}

// NewDefaultConfig creates a configuration with default values
func NewDefaultConfig() *Config {
	return &Config{
		Environment: "development",
		Server: ServerConfig{
			Port:         8080,
			Host:         "localhost",
			MaxBodyBytes: 1 << 20,
		},
		Logging: LoggingConfig{
			Level:      "info",
			Output:     []string{"stdout"},
			TimeFormat: "15:04:05",
		},
		LLM: LLMConfig{
			DefaultProvider: LLMProviderOllama,
			Model:           "llama3",
			Timeout:         "2m",
		},
		Ollama: OllamaConfig{
			BaseURL: "http://localhost:11434",
		},
		Gemini: GeminiConfig{
			Temperature: 0.7,
		},
		Claude: ClaudeConfig{
			MaxTokens:   4096,
			Temperature: 0.7,
		},
		Report: ReportConfig{
			Region:     "Kerala, India",
			ProfileURL: "/worker/profile",
		},
		PDF: PDFConfig{
			FontSize: 11,
			Compress: true,
			Author:   "CuraVie",
		},
	}
}

// LoadFromFiles loads configuration with priority: default -> file1 -> file2 -> ... -> env.
// Later files override earlier files. CLI flags are applied afterwards with ApplyFlagOverrides.
func LoadFromFiles(paths ...string) (*Config, error) {
	config := NewDefaultConfig()

	for i, path := range paths {
		if path == "" {
			continue
		}

		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
		}

		// Unmarshal merges into the existing values
		if err := toml.Unmarshal(data, config); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s (file %d of %d): %w", path, i+1, len(paths), err)
		}
	}

	applyEnvOverrides(config)

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// applyEnvOverrides applies environment variable overrides to config
func applyEnvOverrides(config *Config) {
	if env := os.Getenv("CURAVIE_ENV"); env != "" {
		config.Environment = env
	} else if env := os.Getenv("GO_ENV"); env != "" {
		config.Environment = env
	}

	// Server configuration
	if port := os.Getenv("CURAVIE_SERVER_PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			config.Server.Port = p
		}
	}
	if host := os.Getenv("CURAVIE_SERVER_HOST"); host != "" {
		config.Server.Host = host
	}

	// Logging configuration
	if level := os.Getenv("CURAVIE_LOG_LEVEL"); level != "" {
		config.Logging.Level = level
	}
	if output := os.Getenv("CURAVIE_LOG_OUTPUT"); output != "" {
		outputs := []string{}
		for _, o := range strings.Split(output, ",") {
			if trimmed := strings.TrimSpace(o); trimmed != "" {
				outputs = append(outputs, trimmed)
			}
		}
		if len(outputs) > 0 {
			config.Logging.Output = outputs
		}
	}

	// LLM configuration. OLLAMA_MODEL is the legacy name and loses to CURAVIE_LLM_MODEL.
	if model := os.Getenv("CURAVIE_LLM_MODEL"); model != "" {
		config.LLM.Model = model
	} else if model := os.Getenv("OLLAMA_MODEL"); model != "" {
		config.LLM.Model = model
	}
	if provider := os.Getenv("CURAVIE_LLM_PROVIDER"); provider != "" {
		config.LLM.DefaultProvider = LLMProvider(strings.ToLower(provider))
	}
	if timeout := os.Getenv("CURAVIE_LLM_TIMEOUT"); timeout != "" {
		config.LLM.Timeout = timeout
	}
	if baseURL := os.Getenv("CURAVIE_OLLAMA_BASE_URL"); baseURL != "" {
		config.Ollama.BaseURL = baseURL
	} else if host := os.Getenv("OLLAMA_HOST"); host != "" {
		config.Ollama.BaseURL = host
	}

	// Report configuration
	if region := os.Getenv("CURAVIE_REPORT_REGION"); region != "" {
		config.Report.Region = region
	}
}

// ApplyFlagOverrides applies command-line flag overrides to config
func ApplyFlagOverrides(config *Config, port int, host string) {
	if port > 0 {
		config.Server.Port = port
	}
	if host != "" {
		config.Server.Host = host
	}
}

// ResolveAPIKey resolves an API key by name with environment variable priority.
// Resolution order: environment variables → config fallback → error
func ResolveAPIKey(name string, configFallback string) (string, error) {
	keyToEnvMapping := map[string][]string{
		"gemini_api_key": {"CURAVIE_GEMINI_API_KEY", "GOOGLE_API_KEY", "GEMINI_API_KEY"},
		"claude_api_key": {"CURAVIE_CLAUDE_API_KEY", "ANTHROPIC_API_KEY"},
	}

	for _, envVarName := range keyToEnvMapping[name] {
		if envValue := os.Getenv(envVarName); envValue != "" {
			return envValue, nil
		}
	}

	if configFallback != "" {
		return configFallback, nil
	}

	return "", fmt.Errorf("API key '%s' not found in environment or config", name)
}

// Validate checks values that cannot be defaulted sensibly at use time
func (c *Config) Validate() error {
	switch c.LLM.DefaultProvider {
	case LLMProviderOllama, LLMProviderGemini, LLMProviderClaude:
	default:
		return fmt.Errorf("unknown llm.default_provider %q (expected ollama, gemini or claude)", c.LLM.DefaultProvider)
	}
	if _, err := ParseDuration(c.LLM.Timeout, 0); err != nil {
		return fmt.Errorf("invalid llm.timeout: %w", err)
	}
	if _, err := ParseDuration(c.LLM.RateLimit, 0); err != nil {
		return fmt.Errorf("invalid llm.rate_limit: %w", err)
	}
	if c.Server.MaxBodyBytes < 0 {
		return fmt.Errorf("server.max_body_bytes must not be negative")
	}
	return nil
}

// ParseDuration parses a duration setting, returning fallback for an empty value
func ParseDuration(value string, fallback time.Duration) (time.Duration, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, fmt.Errorf("duration %q is negative", value)
	}
	return d, nil
}

// IsProduction returns true if the environment is set to production
func (c *Config) IsProduction() bool {
	env := strings.ToLower(strings.TrimSpace(c.Environment))
	return env == "production" || env == "prod"
}

// DeepCloneConfig creates a deep copy of the Config struct
func DeepCloneConfig(c *Config) *Config {
	if c == nil {
		return nil
	}

	clone := *c

	if len(c.Logging.Output) > 0 {
		clone.Logging.Output = make([]string, len(c.Logging.Output))
		copy(clone.Logging.Output, c.Logging.Output)
	}

	return &clone
}
