package decode

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/ZanzyTHEbar/toolcall-decoder/tcd/config"
	"github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/adapters"
	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
	"github.com/ZanzyTHEbar/toolcall-decoder/tcd/schema"
)

// Factory creates and wires decoding components from configuration.
type Factory struct {
	cfg    *config.Config
	db     *sql.DB // Optional, for run persistence
	logger zerolog.Logger
}

// NewFactory creates a new decoder factory.
func NewFactory(cfg *config.Config, db *sql.DB, logger zerolog.Logger) *Factory {
	return &Factory{
		cfg:    cfg,
		db:     db,
		logger: logger,
	}
}

// CreateDecoder creates a fully wired Decoder over the given tool
// schemas and model scorer.
func (f *Factory) CreateDecoder(scorer adapters.ScoreFunc, tools ...schema.ToolSchema) (*Decoder, error) {
	vocab, err := f.CreateVocabulary(scorer)
	if err != nil {
		return nil, err
	}

	registry, err := schema.New(vocab, tools...)
	if err != nil {
		return nil, err
	}

	tracer := f.createTracer()
	store := f.createStore()

	opts := Options{
		MaxValueSteps: f.cfg.Decoder.MaxValueSteps,
		PersistRuns:   f.cfg.Decoder.PersistRuns,
	}

	return NewDecoder(registry, vocab, tracer, store, opts), nil
}

// CreateVocabulary creates a vocabulary adapter from config.
func (f *Factory) CreateVocabulary(scorer adapters.ScoreFunc) (ports.Vocabulary, error) {
	switch f.cfg.Model.Provider {
	case "", "tiktoken":
		return adapters.NewTiktokenVocabulary(f.cfg.Model.Encoding, scorer, -1)
	default:
		return nil, fmt.Errorf("unknown model provider: %s", f.cfg.Model.Provider)
	}
}

// CreateTextGenerator creates the unconstrained generation adapter
// used for raw-output evaluation.
func (f *Factory) CreateTextGenerator() (ports.TextGenerator, error) {
	gcfg := adapters.DefaultGGUFConfig(f.cfg.Model.ModelPath)
	gcfg.ContextSize = f.cfg.Model.ContextSize
	gcfg.GPULayers = f.cfg.Model.GPULayers
	gcfg.MaxNewTokens = f.cfg.Model.MaxNewTokens
	gcfg.Temperature = f.cfg.Model.Temperature
	gcfg.TopP = f.cfg.Model.TopP

	if err := adapters.ValidateGGUFConfig(gcfg); err != nil {
		return nil, err
	}
	return adapters.NewGGUFGenerator(gcfg)
}

// createTracer creates a tracer adapter from config.
func (f *Factory) createTracer() ports.Tracer {
	if !f.cfg.Decoder.EnableTracing {
		return &noOpTracer{}
	}

	return adapters.NewZerologTracer(f.logger)
}

// createStore creates a run store adapter from config.
func (f *Factory) createStore() ports.RunStore {
	if !f.cfg.Store.Enabled || f.db == nil {
		return &noOpStore{}
	}

	return adapters.NewLibSQLRunStore(f.db)
}

// noOpTracer implements Tracer with no-op behavior.
type noOpTracer struct{}

func (t *noOpTracer) StartSpan(ctx context.Context, name string, attrs map[string]any) (context.Context, func(err error)) {
	return ctx, func(err error) {}
}

func (t *noOpTracer) Event(ctx context.Context, name string, attrs map[string]any) {}

// noOpStore implements RunStore with no-op behavior.
type noOpStore struct{}

func (s *noOpStore) SaveRun(ctx context.Context, rec ports.RunRecord) error { return nil }

func (s *noOpStore) RecentRuns(ctx context.Context, limit int) ([]ports.RunRecord, error) {
	return nil, nil
}

// Ensure all no-op types implement their interfaces.
var (
	_ ports.Tracer   = (*noOpTracer)(nil)
	_ ports.RunStore = (*noOpStore)(nil)
)
