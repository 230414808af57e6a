// Package decode implements schema-constrained decoding: a state
// machine that drives an autoregressive model through a fixed tool-call
// grammar, forcing structural literals, restricting enumerated choices
// to registered tool names, and bounding free-form values, so the
// assembled output is structurally guaranteed to be a valid tool call.
package decode

import (
	"context"
	"fmt"
	"time"

	"github.com/ZanzyTHEbar/toolcall-decoder/tcd"
	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
	"github.com/ZanzyTHEbar/toolcall-decoder/tcd/schema"
)

// valueTerminator closes every free-form string value.
const valueTerminator = '"'

// stateKind tags the decoding state machine. Literal-forcing
// transitions are folded into the actions between states since they
// never query the model.
type stateKind int

const (
	stateStart stateKind = iota
	stateAwaitToolName
	stateAwaitArgValue
	stateAwaitNextFieldOrClose
	stateDone
)

// constraintState is the current machine state plus the argument index
// it applies to.
type constraintState struct {
	kind     stateKind
	argIndex int
}

// Options tunes a Decoder.
type Options struct {
	// MaxValueSteps bounds model queries per free-form value.
	MaxValueSteps int
	// PersistRuns saves completed runs to the RunStore.
	PersistRuns bool
}

// DefaultOptions returns sensible defaults.
func DefaultOptions() Options {
	return Options{MaxValueSteps: tcd.DefaultMaxValueSteps}
}

// Decoder drives constrained decoding runs against one registry and
// vocabulary. A Decoder holds no per-run state: each Decode call owns
// an independent generation context, so one Decoder serves many
// concurrent runs as long as the vocabulary tolerates them.
type Decoder struct {
	registry *schema.Registry
	vocab    ports.Vocabulary
	tracer   ports.Tracer
	store    ports.RunStore
	opts     Options
}

// NewDecoder wires a decoder. Nil tracer or store fall back to no-ops.
func NewDecoder(registry *schema.Registry, vocab ports.Vocabulary, tracer ports.Tracer, store ports.RunStore, opts Options) *Decoder {
	if tracer == nil {
		tracer = &noOpTracer{}
	}
	if store == nil {
		store = &noOpStore{}
	}
	if opts.MaxValueSteps <= 0 {
		opts.MaxValueSteps = tcd.DefaultMaxValueSteps
	}
	return &Decoder{
		registry: registry,
		vocab:    vocab,
		tracer:   tracer,
		store:    store,
		opts:     opts,
	}
}

// Decode runs the full grammar to completion for one request and
// returns the assembled, self-validated tool call.
func (d *Decoder) Decode(ctx context.Context, request string) (*Result, error) {
	gctx := newGenerationContext()

	ctx, finish := d.tracer.StartSpan(ctx, "decode", map[string]any{
		"run_id":     gctx.runID,
		"tool_count": d.registry.Len(),
	})
	result, err := d.run(ctx, gctx, request)
	finish(err)
	if err != nil {
		return nil, err
	}

	if d.opts.PersistRuns {
		rec := ports.RunRecord{
			ID:         result.RunID,
			Request:    request,
			Output:     result.Text,
			Tool:       result.Tool,
			Truncated:  result.Truncated,
			Confidence: result.Confidence,
			CreatedAt:  time.Now(),
		}
		if err := d.store.SaveRun(ctx, rec); err != nil {
			// Persistence is best-effort; the run already succeeded.
			d.tracer.Event(ctx, "store_error", map[string]any{"error": err.Error()})
		}
	}

	return result, nil
}

func (d *Decoder) run(ctx context.Context, gctx *generationContext, request string) (*Result, error) {
	promptTokens, err := d.vocab.Encode(BuildPrompt(request))
	if err != nil {
		return nil, fmt.Errorf("encode prompt: %w", err)
	}
	if err := gctx.appendTokens(d.vocab, promptTokens); err != nil {
		return nil, fmt.Errorf("encode prompt: %w", err)
	}
	gctx.markPromptEnd()

	var (
		chosen     *schema.CompiledTool
		args       []ArgValue
		truncated  bool
		confidence float64
	)

	state := constraintState{kind: stateStart}
	for state.kind != stateDone {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		switch state.kind {
		case stateStart:
			if err := forceLiteral(d.vocab, gctx, schema.LiteralOpen); err != nil {
				return nil, err
			}
			state = constraintState{kind: stateAwaitToolName}

		case stateAwaitToolName:
			candidates := make([]enumCandidate, 0, d.registry.Len())
			for _, t := range d.registry.Tools() {
				candidates = append(candidates, enumCandidate{id: t.Schema.Name, tokens: t.NameTokens})
			}
			idx, conf, err := selectEnum(ctx, d.vocab, gctx, candidates)
			if err != nil {
				return nil, err
			}
			chosen = d.registry.Tools()[idx]
			confidence = conf
			d.tracer.Event(ctx, "tool_selected", map[string]any{
				"tool":       chosen.Schema.Name,
				"confidence": conf,
			})

			if err := forceTokens(d.vocab, gctx, chosen.NameTokens); err != nil {
				return nil, err
			}
			if err := forceLiteral(d.vocab, gctx, schema.LiteralArgsOpen); err != nil {
				return nil, err
			}
			if len(chosen.Schema.Args) == 0 {
				if err := forceLiteral(d.vocab, gctx, schema.LiteralCloseEmpty); err != nil {
					return nil, err
				}
				state = constraintState{kind: stateDone}
			} else {
				state = constraintState{kind: stateAwaitArgValue}
			}

		case stateAwaitArgValue:
			i := state.argIndex
			if err := forceLiteral(d.vocab, gctx, chosen.Schema.KeyLiteral(i)); err != nil {
				return nil, err
			}
			val, err := generateValue(ctx, d.vocab, gctx, valueTerminator, d.opts.MaxValueSteps)
			if err != nil {
				return nil, err
			}
			if !val.terminated {
				truncated = true
				d.tracer.Event(ctx, "value_truncated", map[string]any{
					"arg":   chosen.Schema.Args[i],
					"steps": val.steps,
				})
			}
			args = append(args, ArgValue{Name: chosen.Schema.Args[i], Value: val.text})
			state = constraintState{kind: stateAwaitNextFieldOrClose, argIndex: i}

		case stateAwaitNextFieldOrClose:
			if state.argIndex == len(chosen.Schema.Args)-1 {
				if err := forceLiteral(d.vocab, gctx, schema.LiteralClose); err != nil {
					return nil, err
				}
				state = constraintState{kind: stateDone}
			} else {
				if err := forceLiteral(d.vocab, gctx, schema.LiteralNextField); err != nil {
					return nil, err
				}
				state = constraintState{kind: stateAwaitArgValue, argIndex: state.argIndex + 1}
			}
		}
	}

	output := gctx.output()
	if err := validateOutput(chosen, output); err != nil {
		return nil, err
	}

	return &Result{
		RunID:      gctx.runID,
		Tool:       chosen.Schema.Name,
		Args:       args,
		Text:       output,
		Truncated:  truncated,
		Confidence: confidence,
	}, nil
}
