package adapters

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestValidateGGUFConfig(t *testing.T) {
	valid := func() *GGUFConfig {
		return DefaultGGUFConfig("/models/distilgpt2.gguf")
	}

	t.Run("default config is valid", func(t *testing.T) {
		assert.NoError(t, ValidateGGUFConfig(valid()))
	})

	cases := []struct {
		name   string
		mutate func(*GGUFConfig)
		want   string
	}{
		{"empty model path", func(c *GGUFConfig) { c.ModelPath = "" }, "model path"},
		{"zero context size", func(c *GGUFConfig) { c.ContextSize = 0 }, "context size"},
		{"negative gpu layers", func(c *GGUFConfig) { c.GPULayers = -1 }, "GPU layers"},
		{"zero max new tokens", func(c *GGUFConfig) { c.MaxNewTokens = 0 }, "max new tokens"},
		{"temperature too high", func(c *GGUFConfig) { c.Temperature = 2.5 }, "temperature"},
		{"top_p out of range", func(c *GGUFConfig) { c.TopP = 1.5 }, "top_p"},
		{"zero timeout", func(c *GGUFConfig) { c.RequestTimeout = 0 }, "timeout"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			err := ValidateGGUFConfig(cfg)
			assert.ErrorContains(t, err, tc.want)
		})
	}

	t.Run("nil config", func(t *testing.T) {
		assert.ErrorContains(t, ValidateGGUFConfig(nil), "nil")
	})
}

func TestDefaultGGUFConfig(t *testing.T) {
	cfg := DefaultGGUFConfig("/models/m.gguf")
	assert.Equal(t, "/models/m.gguf", cfg.ModelPath)
	assert.Equal(t, 2048, cfg.ContextSize)
	assert.Equal(t, 0, cfg.GPULayers)
	assert.Equal(t, 30*time.Second, cfg.RequestTimeout)
}
