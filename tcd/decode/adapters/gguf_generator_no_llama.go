//go:build !llama || no_llama

package adapters

import (
	"context"
	"fmt"
	"log/slog"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// Placeholder for non-CGO builds.
var llamaPackageNotAvailable = fmt.Errorf("llama.cpp not available in this build")

// GGUFGenerator is a no-op placeholder when built without llama.
type GGUFGenerator struct {
	config *GGUFConfig
	logger *slog.Logger
}

// NewGGUFGenerator validates the config but cannot load a model (no-op).
func NewGGUFGenerator(config *GGUFConfig) (*GGUFGenerator, error) {
	if err := ValidateGGUFConfig(config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	logger := slog.Default().With("component", "GGUFGenerator", "model_path", config.ModelPath)
	logger.Warn("GGUFGenerator built without llama support")
	return &GGUFGenerator{config: config, logger: logger}, nil
}

// GenerateText always fails in non-CGO builds.
func (g *GGUFGenerator) GenerateText(ctx context.Context, prompt string) (string, error) {
	return "", llamaPackageNotAvailable
}

// Close is a no-op.
func (g *GGUFGenerator) Close() error { return nil }

var _ ports.TextGenerator = (*GGUFGenerator)(nil)
