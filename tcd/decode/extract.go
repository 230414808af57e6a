package decode

import (
	"context"
	"encoding/json"
	"fmt"

	ports "github.com/ZanzyTHEbar/toolcall-decoder/tcd/decode/ports"
	"github.com/ZanzyTHEbar/toolcall-decoder/tcd/schema"
)

// ExtractJSON finds the first balanced JSON object in free-form text,
// respecting strings and escapes. Returns "" when none is present.
// Used only to score unconstrained model output; the constrained path
// never needs extraction.
func ExtractJSON(text string) string {
	start := -1
	for i, c := range text {
		if c == '{' {
			start = i
			break
		}
	}
	if start == -1 {
		return ""
	}

	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(text); i++ {
		c := text[i]
		if escaped {
			escaped = false
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '"':
			inString = !inString
		case inString:
		case c == '{':
			depth++
		case c == '}':
			depth--
			if depth == 0 {
				return text[start : i+1]
			}
		}
	}
	return ""
}

// ValidateRaw checks free-form model output against the registry: a
// balanced JSON object with a registered tool and its complete argument
// set. Returns the extracted JSON and a descriptive reason on failure.
func ValidateRaw(registry *schema.Registry, text string) (string, error) {
	raw := ExtractJSON(text)
	if raw == "" {
		return "", fmt.Errorf("no JSON found")
	}

	var call struct {
		Tool string            `json:"tool"`
		Args map[string]string `json:"args"`
	}
	if err := json.Unmarshal([]byte(raw), &call); err != nil {
		return raw, fmt.Errorf("invalid JSON: %w", err)
	}
	if call.Tool == "" {
		return raw, fmt.Errorf("missing tool field")
	}
	tool, ok := registry.Lookup(call.Tool)
	if !ok {
		return raw, fmt.Errorf("unknown tool: %s", call.Tool)
	}
	if call.Args == nil {
		return raw, fmt.Errorf("missing args field")
	}
	for _, a := range tool.Schema.Args {
		if _, ok := call.Args[a]; !ok {
			return raw, fmt.Errorf("missing arg: %s", a)
		}
	}
	return raw, nil
}

// RawEvaluation summarizes how often unconstrained generation produced
// a valid call. This is the baseline the constrained engine removes.
type RawEvaluation struct {
	Total  int
	Valid  int
	Errors []string // one reason per invalid output, in prompt order
}

// ValidRate returns the fraction of valid outputs.
func (e RawEvaluation) ValidRate() float64 {
	if e.Total == 0 {
		return 0
	}
	return float64(e.Valid) / float64(e.Total)
}

// EvaluateRaw generates unconstrained completions for each request and
// validates them post hoc against the registry.
func EvaluateRaw(ctx context.Context, gen ports.TextGenerator, registry *schema.Registry, requests []string) (RawEvaluation, error) {
	eval := RawEvaluation{Total: len(requests)}
	for _, req := range requests {
		out, err := gen.GenerateText(ctx, BuildPrompt(req))
		if err != nil {
			return eval, fmt.Errorf("generate for %q: %w", req, err)
		}
		if _, err := ValidateRaw(registry, out); err != nil {
			eval.Errors = append(eval.Errors, err.Error())
			continue
		}
		eval.Valid++
	}
	return eval, nil
}
