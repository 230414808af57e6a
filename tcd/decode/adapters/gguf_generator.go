package adapters

import (
	"fmt"
	"time"
)

// GGUFConfig holds configuration for GGUF model loading.
type GGUFConfig struct {
	ModelPath      string
	ContextSize    int
	GPULayers      int
	MaxNewTokens   int
	Temperature    float32
	TopP           float32
	RequestTimeout time.Duration
}

// DefaultGGUFConfig returns default configuration for a GGUF model.
func DefaultGGUFConfig(modelPath string) *GGUFConfig {
	return &GGUFConfig{
		ModelPath:      modelPath,
		ContextSize:    2048,
		GPULayers:      0, // CPU-only by default
		MaxNewTokens:   60,
		Temperature:    0.7,
		TopP:           0.9,
		RequestTimeout: 30 * time.Second,
	}
}

// ValidateGGUFConfig validates the GGUF model configuration.
func ValidateGGUFConfig(config *GGUFConfig) error {
	if config == nil {
		return fmt.Errorf("config cannot be nil")
	}
	if config.ModelPath == "" {
		return fmt.Errorf("model path cannot be empty")
	}
	if config.ContextSize <= 0 {
		return fmt.Errorf("context size must be positive, got %d", config.ContextSize)
	}
	if config.GPULayers < 0 {
		return fmt.Errorf("GPU layers cannot be negative, got %d", config.GPULayers)
	}
	if config.MaxNewTokens <= 0 {
		return fmt.Errorf("max new tokens must be positive, got %d", config.MaxNewTokens)
	}
	if config.Temperature < 0 || config.Temperature > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", config.Temperature)
	}
	if config.TopP < 0 || config.TopP > 1 {
		return fmt.Errorf("top_p must be between 0 and 1, got %f", config.TopP)
	}
	if config.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %v", config.RequestTimeout)
	}
	return nil
}
