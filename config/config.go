// Package config loads service settings from an optional JSON file, the environment and .env.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// DefaultPath is read when present; a missing file at this path is not an error.
const DefaultPath = "config/config.json"

// EnvPrefix namespaces environment overrides, e.g. SOCIALGEN_LLM_MODEL.
const EnvPrefix = "SOCIALGEN"

// Config is the full service configuration.
type Config struct {
	ServerAddr string       `mapstructure:"server_addr"`
	LLM        LLMConfig    `mapstructure:"llm"`
	Prompt     PromptConfig `mapstructure:"prompt"`
	Log        LogConfig    `mapstructure:"log"`
}

// LLMConfig selects and tunes the completion API.
type LLMConfig struct {
	Provider    string        `mapstructure:"provider"`
	Model       string        `mapstructure:"model"`
	APIKey      string        `mapstructure:"api_key"`
	BaseURL     string        `mapstructure:"base_url"`
	Temperature float64       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

// PromptConfig holds the instruction parameters.
type PromptConfig struct {
	System          string `mapstructure:"system"`
	MinWordsPerPost int    `mapstructure:"min_words_per_post"`
	VaryTone        bool   `mapstructure:"vary_tone"`
	DefaultCount    int    `mapstructure:"default_count"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// Load reads .env (if any), then path, then SOCIALGEN_* variables. An empty path skips the file.
func Load(path string) (Config, error) {
	if err := loadDotEnv(".env"); err != nil {
		return Config{}, err
	}

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	if err := v.BindEnv("llm.api_key", EnvPrefix+"_LLM_API_KEY", "OPENAI_API_KEY"); err != nil {
		return Config{}, err
	}

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			if !(path == DefaultPath && errors.Is(err, os.ErrNotExist)) {
				return Config{}, fmt.Errorf("config file %s: %w", path, err)
			}
		} else {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return Config{}, fmt.Errorf("failed to read config %s: %w", path, err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.LLM.Provider = strings.ToLower(strings.TrimSpace(cfg.LLM.Provider))
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func loadDotEnv(path string) error {
	if _, err := os.Stat(path); err != nil {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("error loading %s: %w", path, err)
	}
	return nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server_addr", ":8080")

	v.SetDefault("llm.provider", "openai")
	v.SetDefault("llm.model", "gpt-4.1-mini")
	v.SetDefault("llm.api_key", "")
	v.SetDefault("llm.base_url", "")
	v.SetDefault("llm.temperature", 0.8)
	v.SetDefault("llm.max_tokens", 800)
	v.SetDefault("llm.timeout", "60s")

	v.SetDefault("prompt.system", "")
	v.SetDefault("prompt.min_words_per_post", 150)
	v.SetDefault("prompt.vary_tone", true)
	v.SetDefault("prompt.default_count", 3)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "text")
}

// Validate checks ranges and provider requirements.
func (c Config) Validate() error {
	switch c.LLM.Provider {
	case "openai":
	case "deepseek":
		// DeepSeek exposes an OpenAI-compatible API but has no default endpoint in the SDK.
		if c.LLM.BaseURL == "" {
			return errors.New("llm provider deepseek requires base_url (OpenAI-compatible endpoint)")
		}
	case "mock":
	default:
		return fmt.Errorf("llm provider %q not supported", c.LLM.Provider)
	}
	if c.LLM.Provider != "mock" {
		if c.LLM.APIKey == "" {
			return errors.New("llm api key missing; set llm.api_key or OPENAI_API_KEY")
		}
		if c.LLM.Model == "" {
			return errors.New("llm model is required")
		}
	}
	if c.LLM.Temperature < 0 || c.LLM.Temperature > 2 {
		return fmt.Errorf("llm temperature %v out of range [0,2]", c.LLM.Temperature)
	}
	if c.LLM.MaxTokens <= 0 {
		return fmt.Errorf("llm max_tokens must be positive, got %d", c.LLM.MaxTokens)
	}
	if c.LLM.Timeout <= 0 {
		return fmt.Errorf("llm timeout must be positive, got %s", c.LLM.Timeout)
	}
	if c.Prompt.MinWordsPerPost < 0 {
		return fmt.Errorf("prompt min_words_per_post must not be negative, got %d", c.Prompt.MinWordsPerPost)
	}
	if c.Prompt.DefaultCount < 1 || c.Prompt.DefaultCount > 10 {
		return fmt.Errorf("prompt default_count %d out of range [1,10]", c.Prompt.DefaultCount)
	}
	return nil
}
