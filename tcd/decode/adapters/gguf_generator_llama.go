//go:build llama && !no_llama

package adapters

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	llama "github.com/go-skynet/go-llama.cpp"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// GGUFGenerator implements the TextGenerator port over a local GGUF
// model via llama.cpp. Used by the raw-output evaluator; the
// constrained decoding path never touches it.
type GGUFGenerator struct {
	config *GGUFConfig
	model  *llama.LLama
	mu     sync.Mutex // llama models are not goroutine safe
	logger *slog.Logger
}

// NewGGUFGenerator loads the model (llama-specific).
func NewGGUFGenerator(config *GGUFConfig) (*GGUFGenerator, error) {
	if err := ValidateGGUFConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	logger := slog.Default().With("component", "GGUFGenerator", "model_path", config.ModelPath)

	model, err := llama.New(config.ModelPath,
		llama.SetContext(config.ContextSize),
		llama.SetGPULayers(config.GPULayers),
	)
	if err != nil {
		return nil, fmt.Errorf("llama.New failed: %w", err)
	}

	logger.Info("GGUFGenerator initialized", "context_size", config.ContextSize)
	return &GGUFGenerator{config: config, model: model, logger: logger}, nil
}

// GenerateText produces an unconstrained completion for the prompt.
func (g *GGUFGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	if prompt == "" {
		return "", fmt.Errorf("prompt cannot be empty")
	}

	_, cancel := context.WithTimeout(ctx, g.config.RequestTimeout)
	defer cancel()

	g.mu.Lock()
	defer g.mu.Unlock()

	start := time.Now()
	result, err := g.model.Predict(prompt,
		llama.SetTemperature(g.config.Temperature),
		llama.SetTopP(g.config.TopP),
		llama.SetTokens(g.config.MaxNewTokens),
		llama.SetRepeat(1),
	)
	if err != nil {
		return "", fmt.Errorf("prediction failed: %w", err)
	}

	g.logger.Debug("text generation completed",
		"duration_ms", time.Since(start).Milliseconds(), "output_length", len(result))
	return result, nil
}

// Close frees the underlying model.
func (g *GGUFGenerator) Close() error {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.model != nil {
		g.model.Free()
		g.model = nil
	}
	return nil
}

var _ ports.TextGenerator = (*GGUFGenerator)(nil)
