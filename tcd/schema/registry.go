// Package schema holds the static tool-call grammar: every tool name,
// its ordered argument names, and the forced literal fragments that
// glue them into JSON. The registry is built once and read-only after.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	radix "github.com/armon/go-radix"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
)

// Grammar literals forced between model-chosen spans. These are the
// only fragments ever injected without a model query, so each one is
// round-trip validated at registry construction.
const (
	LiteralOpen       = `{"tool": "` // start of every tool call
	LiteralArgsOpen   = `", "args": {`
	LiteralNextField  = `", ` // closes a value, separates from next key
	LiteralClose      = `"}}` // closes the last value and the object
	LiteralCloseEmpty = `}}`  // closes a zero-argument args object
)

// ErrSchemaMismatch indicates a tool name or forced literal does not
// survive the vocabulary's encode→decode round trip. Raised only at
// registry construction.
var ErrSchemaMismatch = errors.New("schema mismatch")

// ErrDuplicateTool indicates two registrations share a tool name.
var ErrDuplicateTool = errors.New("duplicate tool name")

// ToolSchema declares a tool: its name and ordered argument names.
// Argument order is significant and fixed.
type ToolSchema struct {
	Name string
	Args []string
}

// KeyLiteral returns the forced fragment that opens the value of the
// i-th argument, e.g. `"to": "`.
func (t ToolSchema) KeyLiteral(i int) string {
	return fmt.Sprintf("%q: \"", t.Args[i])
}

// CompiledTool is a registered tool with its pre-validated token
// sequence and the JSON schema its output must satisfy.
type CompiledTool struct {
	Schema     ToolSchema
	NameTokens []int  // Encode(name), validated non-empty
	JSONSchema []byte // draft-07 document for the final self-check
}

// Registry maps tool names to compiled schemas, insertion-ordered.
// Built once at startup; read-only thereafter.
type Registry struct {
	tools []*CompiledTool
	names *radix.Tree
}

// New builds a registry, validating every tool against the vocabulary.
// Each tool name and every forced literal it will ever need must
// tokenize deterministically (round-trip byte-for-byte), so that later
// literal injection is guaranteed safe without further checks.
func New(vocab ports.Vocabulary, tools ...ToolSchema) (*Registry, error) {
	r := &Registry{names: radix.New()}

	for _, ls := range []string{LiteralOpen, LiteralArgsOpen, LiteralNextField, LiteralClose, LiteralCloseEmpty} {
		if err := roundTrip(vocab, ls); err != nil {
			return nil, err
		}
	}

	for _, t := range tools {
		if _, exists := r.names.Get(t.Name); exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateTool, t.Name)
		}
		if err := roundTrip(vocab, t.Name); err != nil {
			return nil, err
		}
		for i := range t.Args {
			if err := roundTrip(vocab, t.KeyLiteral(i)); err != nil {
				return nil, err
			}
		}

		nameTokens, err := vocab.Encode(t.Name)
		if err != nil {
			return nil, fmt.Errorf("%w: encode %s: %v", ErrSchemaMismatch, t.Name, err)
		}

		doc, err := buildJSONSchema(t)
		if err != nil {
			return nil, fmt.Errorf("build schema for %s: %w", t.Name, err)
		}

		ct := &CompiledTool{Schema: t, NameTokens: nameTokens, JSONSchema: doc}
		r.tools = append(r.tools, ct)
		r.names.Insert(t.Name, ct)
	}

	return r, nil
}

// roundTrip verifies encode→decode reproduces text byte-for-byte.
func roundTrip(vocab ports.Vocabulary, text string) error {
	tokens, err := vocab.Encode(text)
	if err != nil {
		return fmt.Errorf("%w: encode %q: %v", ErrSchemaMismatch, text, err)
	}
	if len(tokens) == 0 {
		return fmt.Errorf("%w: %q encodes to no tokens", ErrSchemaMismatch, text)
	}
	decoded, err := vocab.Decode(tokens)
	if err != nil {
		return fmt.Errorf("%w: decode %q: %v", ErrSchemaMismatch, text, err)
	}
	if decoded != text {
		return fmt.Errorf("%w: %q round-trips to %q", ErrSchemaMismatch, text, decoded)
	}
	return nil
}

// buildJSONSchema produces the draft-07 document a completed call for
// this tool must satisfy: exact tool name, exact string-typed argument
// set, nothing else.
func buildJSONSchema(t ToolSchema) ([]byte, error) {
	argProps := make(map[string]any, len(t.Args))
	for _, a := range t.Args {
		argProps[a] = map[string]any{"type": "string"}
	}
	required := t.Args
	if required == nil {
		required = []string{}
	}
	doc := map[string]any{
		"type":                 "object",
		"required":             []string{"tool", "args"},
		"additionalProperties": false,
		"properties": map[string]any{
			"tool": map[string]any{"const": t.Name},
			"args": map[string]any{
				"type":                 "object",
				"required":             required,
				"additionalProperties": false,
				"properties":           argProps,
			},
		},
	}
	return json.Marshal(doc)
}

// Tools returns the registered tools in insertion order.
func (r *Registry) Tools() []*CompiledTool { return r.tools }

// Len returns the number of registered tools.
func (r *Registry) Len() int { return len(r.tools) }

// Lookup finds a compiled tool by exact name.
func (r *Registry) Lookup(name string) (*CompiledTool, bool) {
	v, ok := r.names.Get(name)
	if !ok {
		return nil, false
	}
	return v.(*CompiledTool), true
}

// WalkPrefix visits registered tools whose names begin with prefix, in
// lexical order. Used by callers that surface tool listings.
func (r *Registry) WalkPrefix(prefix string, fn func(*CompiledTool) bool) {
	r.names.WalkPrefix(prefix, func(_ string, v any) bool {
		return fn(v.(*CompiledTool))
	})
}
