package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the service
type Config struct {
	General  GeneralConfig  `mapstructure:"general"`
	Provider ProviderConfig `mapstructure:"provider"`
	Chat     ChatConfig     `mapstructure:"chat"`
	Storage  StorageConfig  `mapstructure:"storage"`
}

// GeneralConfig contains general application settings
type GeneralConfig struct {
	Listen   string `mapstructure:"listen"`
	Debug    bool   `mapstructure:"debug"`
	LogLevel string `mapstructure:"log_level"`
}

// ProviderConfig configures the OpenAI-compatible LLM provider. The default
// base URL points at Groq's OpenAI-compatible endpoint; any server speaking
// the same wire format works.
type ProviderConfig struct {
	APIKey          string        `mapstructure:"api_key"`
	BaseURL         string        `mapstructure:"base_url"`
	CompletionModel string        `mapstructure:"completion_model"`
	EmbeddingModel  string        `mapstructure:"embedding_model"`
	Temperature     float64       `mapstructure:"temperature"`
	MaxTokens       int           `mapstructure:"max_tokens"`
	Timeout         time.Duration `mapstructure:"timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
}

// Configured reports whether the provider credential is present. A missing
// key is not fatal: the service starts degraded and the health endpoint
// reports it.
func (p ProviderConfig) Configured() bool {
	return strings.TrimSpace(p.APIKey) != ""
}

// ChatConfig contains retrieval and prompt assembly settings
type ChatConfig struct {
	TopK          int  `mapstructure:"top_k"`
	HistoryWindow int  `mapstructure:"history_window"`
	ChunkSize     int  `mapstructure:"chunk_size"`
	ChunkOverlap  int  `mapstructure:"chunk_overlap"`
	Hybrid        bool `mapstructure:"hybrid"`
}

func (c ChatConfig) Validate() error {
	if c.TopK <= 0 {
		return fmt.Errorf("chat.top_k must be > 0")
	}
	if c.HistoryWindow <= 0 {
		return fmt.Errorf("chat.history_window must be > 0")
	}
	if c.ChunkSize <= 0 {
		return fmt.Errorf("chat.chunk_size must be > 0")
	}
	if c.ChunkOverlap < 0 || c.ChunkOverlap >= c.ChunkSize {
		return fmt.Errorf("chat.chunk_overlap must be in [0, chunk_size)")
	}
	return nil
}

// StorageConfig selects the conversation store backend
type StorageConfig struct {
	Conversations string      `mapstructure:"conversations"` // inmemory, redis
	Redis         RedisConfig `mapstructure:"redis"`
}

// RedisConfig contains Redis connection settings
type RedisConfig struct {
	Host     string        `mapstructure:"host"`
	Port     string        `mapstructure:"port"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	Timeout  time.Duration `mapstructure:"timeout"`
}

func (r RedisConfig) Validate() error {
	if strings.TrimSpace(r.Host) == "" {
		return fmt.Errorf("storage.redis.host required")
	}
	if strings.TrimSpace(r.Port) == "" {
		return fmt.Errorf("storage.redis.port required")
	}
	return nil
}

func (s StorageConfig) Validate() error {
	switch s.Conversations {
	case "", "inmemory":
		return nil
	case "redis":
		return s.Redis.Validate()
	default:
		return fmt.Errorf("unsupported storage.conversations: %s", s.Conversations)
	}
}

// LoadConfig loads config from file, environment variables taking precedence.
// A missing config file is fine: the service can run from env alone.
func LoadConfig(path string) *Config {
	viper.SetConfigName("config")
	viper.SetConfigType("json")
	viper.SetDefault("general.listen", ":8000")
	viper.SetDefault("general.log_level", "info")
	viper.SetDefault("provider.base_url", "https://api.groq.com/openai/v1")
	viper.SetDefault("provider.completion_model", "llama-3.1-8b-instant")
	viper.SetDefault("provider.embedding_model", "text-embedding-3-small")
	viper.SetDefault("provider.temperature", 0.7)
	viper.SetDefault("provider.timeout", 30*time.Second)
	viper.SetDefault("provider.max_retries", 1)
	viper.SetDefault("chat.top_k", 3)
	viper.SetDefault("chat.history_window", 10)
	viper.SetDefault("chat.chunk_size", 800)
	viper.SetDefault("chat.chunk_overlap", 200)
	viper.SetDefault("chat.hybrid", false)
	viper.SetDefault("storage.conversations", "inmemory")

	if path == "" {
		viper.AddConfigPath("./config")
		viper.AddConfigPath(".")
	} else {
		viper.SetConfigFile(path)
	}

	viper.SetEnvPrefix("STUDYPAL")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok && path != "" {
			panic(fmt.Errorf("fatal error config file: %w", err))
		}
	}

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		panic(fmt.Errorf("fatal error config file: %w", err))
	}

	// GROQ_API_KEY is what the service historically shipped with;
	// OPENAI_API_KEY works for any other OpenAI-compatible deployment.
	if config.Provider.APIKey == "" {
		config.Provider.APIKey = os.Getenv("GROQ_API_KEY")
	}
	if config.Provider.APIKey == "" {
		config.Provider.APIKey = os.Getenv("OPENAI_API_KEY")
	}

	if err := config.Chat.Validate(); err != nil {
		panic(err)
	}
	if err := config.Storage.Validate(); err != nil {
		panic(err)
	}
	return &config
}
