package shared

import (
	_ "embed"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
)

//go:embed config.example.toml
var exampleConf []byte

// Supported chat backends.
const (
	ProviderGemini = "gemini"
	ProviderOpenAI = "openai"
)

var safetyThresholds = []string{"BLOCK_NONE", "BLOCK_ONLY_HIGH", "BLOCK_MEDIUM_AND_ABOVE", "BLOCK_LOW_AND_ABOVE"}

// Config represents the application configuration loaded from a TOML file.
type Config struct {
	Credentials CredentialsConfig `toml:"credentials"`
	LLM         LLMConfig         `toml:"llm"`
	Server      ServerConfig      `toml:"server"`
	Log         LogConfig         `toml:"log"`
}

// CredentialsConfig locates the API key.
type CredentialsConfig struct {
	APIKeyFile string `toml:"api_key_file"`
	APIKey     string `toml:"api_key"`
}

// LLMConfig contains the generative model settings shared by every surface.
type LLMConfig struct {
	Provider        string        `toml:"provider"`
	Model           string        `toml:"model"`
	BaseURL         string        `toml:"base_url"`
	Temperature     float32       `toml:"temperature"`
	CandidateCount  int32         `toml:"candidate_count"`
	Timeout         time.Duration `toml:"timeout"`
	SafetyThreshold string        `toml:"safety_threshold"`
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Host         string        `toml:"host"`
	Port         int           `toml:"port"`
	ReadTimeout  time.Duration `toml:"read_timeout"`
	WriteTimeout time.Duration `toml:"write_timeout"`
	SessionTTL   time.Duration `toml:"session_ttl"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level string `toml:"level"`
}

// Addr returns the host:port the web server listens on.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// LoadConfig reads and parses a TOML configuration file from the specified path.
//
// Values missing from the file keep the defaults from the embedded example config.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := toml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// DefaultConfig returns a Config with sensible defaults loaded from the embedded example config.
func DefaultConfig() *Config {
	var config Config
	if err := toml.Unmarshal(exampleConf, &config); err != nil {
		panic(fmt.Sprintf("failed to parse embedded default config: %v", err))
	}
	return &config
}

// CreateConfigFile creates a config.toml file at the specified path using the embedded example config.
func CreateConfigFile(path string) error {
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}

	if err := os.WriteFile(path, exampleConf, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks values that would otherwise fail late, at the first remote call.
func (c *Config) Validate() error {
	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	switch c.LLM.Provider {
	case ProviderGemini, ProviderOpenAI:
	default:
		return fmt.Errorf("%w: unknown llm provider %q", ErrInvalidConfig, c.LLM.Provider)
	}

	if strings.TrimSpace(c.LLM.Model) == "" {
		return fmt.Errorf("%w: llm model is required", ErrInvalidConfig)
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("%w: temperature %.2f out of range [0, 2]", ErrInvalidConfig, c.LLM.Temperature)
	}
	if c.LLM.CandidateCount < 1 {
		return fmt.Errorf("%w: candidate_count must be at least 1", ErrInvalidConfig)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("%w: llm timeout must be positive", ErrInvalidConfig)
	}

	c.LLM.SafetyThreshold = strings.ToUpper(strings.TrimSpace(c.LLM.SafetyThreshold))
	known := false
	for _, t := range safetyThresholds {
		if c.LLM.SafetyThreshold == t {
			known = true
			break
		}
	}
	if !known {
		return fmt.Errorf("%w: unknown safety_threshold %q", ErrInvalidConfig, c.LLM.SafetyThreshold)
	}

	if c.Server.WriteTimeout > 0 && c.Server.WriteTimeout <= 2*c.LLM.Timeout {
		return fmt.Errorf("%w: server write_timeout %v must exceed twice llm timeout %v", ErrInvalidConfig, c.Server.WriteTimeout, c.LLM.Timeout)
	}

	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("%w: server port %d out of range", ErrInvalidConfig, c.Server.Port)
	}
	return nil
}
