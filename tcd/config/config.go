package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"

	internal "github.com/ZanzyTHEbar/toolcall-decoder/tcd"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Decoder DecoderConfig `mapstructure:"decoder"`
	Model   ModelConfig   `mapstructure:"model"`
	Store   StoreConfig   `mapstructure:"store"`
	Dataset DatasetConfig `mapstructure:"dataset"`
}

// DecoderConfig stores constrained-decoding settings.
type DecoderConfig struct {
	MaxValueSteps    int  `mapstructure:"max_value_steps"`   // step budget per free-form value
	BatchConcurrency int  `mapstructure:"batch_concurrency"` // concurrent runs in batch decoding
	PersistRuns      bool `mapstructure:"persist_runs"`      // save completed runs to the store
	EnableTracing    bool `mapstructure:"enable_tracing"`    // structured span/event logging
}

// ModelConfig stores vocabulary/model backend settings.
type ModelConfig struct {
	Provider     string  `mapstructure:"provider"`       // "tiktoken" or "gguf"
	Encoding     string  `mapstructure:"encoding"`       // tiktoken encoding name
	ModelPath    string  `mapstructure:"model_path"`     // GGUF model path
	ContextSize  int     `mapstructure:"context_size"`   // llama context window
	GPULayers    int     `mapstructure:"gpu_layers"`     // layers offloaded to GPU
	MaxNewTokens int     `mapstructure:"max_new_tokens"` // cap for raw (unconstrained) generation
	Temperature  float32 `mapstructure:"temperature"`
	TopP         float32 `mapstructure:"top_p"`
}

// StoreConfig stores run/dataset persistence settings.
type StoreConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"` // libsql database file
}

// DatasetConfig stores synthetic-corpus generation settings.
type DatasetConfig struct {
	Size       int    `mapstructure:"size"`
	Seed       int64  `mapstructure:"seed"`
	OutputPath string `mapstructure:"output_path"` // JSONL export path
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	if configPath != "" {
		viper.SetConfigFile(configPath)
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		viper.AddConfigPath(internal.DefaultConfigPath)
		viper.SetConfigName("config")
		viper.SetConfigType("yaml")
	}

	// Decoder defaults
	viper.SetDefault("decoder.max_value_steps", internal.DefaultMaxValueSteps)
	viper.SetDefault("decoder.batch_concurrency", 4)
	viper.SetDefault("decoder.persist_runs", false)
	viper.SetDefault("decoder.enable_tracing", true)

	// Model defaults (distilgpt2-compatible BPE)
	viper.SetDefault("model.provider", "tiktoken")
	viper.SetDefault("model.encoding", "gpt2")
	viper.SetDefault("model.model_path", "")
	viper.SetDefault("model.context_size", 2048)
	viper.SetDefault("model.gpu_layers", 0)
	viper.SetDefault("model.max_new_tokens", 60)
	viper.SetDefault("model.temperature", 0.7)
	viper.SetDefault("model.top_p", 0.9)

	// Store defaults
	viper.SetDefault("store.enabled", false)
	viper.SetDefault("store.path", internal.DefaultDatabasePath)

	// Dataset defaults
	viper.SetDefault("dataset.size", 500)
	viper.SetDefault("dataset.seed", 0)
	viper.SetDefault("dataset.output_path", "./data/tool_calls.jsonl")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults are used.
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}

	clamp(&AppConfig)
	return &AppConfig, nil
}

// Watch re-reads the config when the file changes and invokes onChange
// with the fresh values.
func Watch(onChange func(*Config)) {
	viper.OnConfigChange(func(e fsnotify.Event) {
		var fresh Config
		if err := viper.Unmarshal(&fresh); err != nil {
			return
		}
		clamp(&fresh)
		AppConfig = fresh
		if onChange != nil {
			onChange(&AppConfig)
		}
	})
	viper.WatchConfig()
}

// clamp keeps tunables inside workable bounds.
func clamp(c *Config) {
	if c.Decoder.MaxValueSteps <= 0 {
		c.Decoder.MaxValueSteps = internal.DefaultMaxValueSteps
	}
	if c.Decoder.BatchConcurrency <= 0 {
		c.Decoder.BatchConcurrency = 1
	}
	if c.Model.ContextSize <= 0 {
		c.Model.ContextSize = 2048
	}
	if c.Model.MaxNewTokens <= 0 {
		c.Model.MaxNewTokens = 60
	}
	if c.Model.Temperature < 0 || c.Model.Temperature > 2 {
		c.Model.Temperature = 0.7
	}
	if c.Model.TopP <= 0 || c.Model.TopP > 1 {
		c.Model.TopP = 0.9
	}
	if c.Dataset.Size <= 0 {
		c.Dataset.Size = 500
	}
}
