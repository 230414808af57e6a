package decode

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"

	"github.com/ZanzyTHEbar/toolcall-decoder/tcd/schema"
)

// ArgValue is one generated argument, in declared order.
type ArgValue struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// Result is the outcome of one completed decoding run: the assembled
// tool-call JSON decoded into its parts.
type Result struct {
	RunID      string     `json:"run_id"`
	Tool       string     `json:"tool"`
	Args       []ArgValue `json:"args"`
	Text       string     `json:"text"`
	Truncated  bool       `json:"truncated"`  // a free value hit its step budget
	Confidence float64    `json:"confidence"` // softmax confidence of the tool choice
}

// ArgsMap returns the arguments as a map, losing declared order.
func (r *Result) ArgsMap() map[string]string {
	m := make(map[string]string, len(r.Args))
	for _, a := range r.Args {
		m[a.Name] = a.Value
	}
	return m
}

// validateOutput is the closing self-check: the assembled text must
// parse as JSON, satisfy the chosen tool's schema, and carry the
// argument keys in declared order. Unreachable by construction; a
// failure here means the vocabulary broke a round-trip guarantee.
func validateOutput(tool *schema.CompiledTool, text string) error {
	res, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(tool.JSONSchema),
		gojsonschema.NewStringLoader(text),
	)
	if err != nil {
		return fmt.Errorf("%w: schema validation: %v", ErrConstraintViolation, err)
	}
	if !res.Valid() {
		var msgs []string
		for _, e := range res.Errors() {
			msgs = append(msgs, e.String())
		}
		return fmt.Errorf("%w: output does not match schema for %s: %s",
			ErrConstraintViolation, tool.Schema.Name, strings.Join(msgs, "; "))
	}
	return checkArgOrder(tool, text)
}

// checkArgOrder walks the raw JSON tokens to confirm the args object
// lists keys in exactly the declared order. JSON Schema cannot express
// key order, so this is done on the token stream.
func checkArgOrder(tool *schema.CompiledTool, text string) error {
	dec := json.NewDecoder(strings.NewReader(text))
	if err := expectDelim(dec, '{'); err != nil {
		return err
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: arg order scan: %v", ErrConstraintViolation, err)
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("%w: arg order scan: unexpected token %v", ErrConstraintViolation, tok)
		}
		if key != "args" {
			if err := skipValue(dec); err != nil {
				return err
			}
			continue
		}

		if err := expectDelim(dec, '{'); err != nil {
			return err
		}
		var keys []string
		for dec.More() {
			kt, err := dec.Token()
			if err != nil {
				return fmt.Errorf("%w: arg order scan: %v", ErrConstraintViolation, err)
			}
			k, ok := kt.(string)
			if !ok {
				return fmt.Errorf("%w: arg order scan: unexpected key %v", ErrConstraintViolation, kt)
			}
			keys = append(keys, k)
			if err := skipValue(dec); err != nil {
				return err
			}
		}

		declared := tool.Schema.Args
		if len(keys) != len(declared) {
			return fmt.Errorf("%w: %s has %d args, output has %d",
				ErrConstraintViolation, tool.Schema.Name, len(declared), len(keys))
		}
		for i, k := range keys {
			if k != declared[i] {
				return fmt.Errorf("%w: arg %d is %q, want %q",
					ErrConstraintViolation, i, k, declared[i])
			}
		}
		return nil
	}

	return fmt.Errorf("%w: output has no args object", ErrConstraintViolation)
}

func expectDelim(dec *json.Decoder, want json.Delim) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: arg order scan: %v", ErrConstraintViolation, err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return fmt.Errorf("%w: arg order scan: got %v, want %v", ErrConstraintViolation, tok, want)
	}
	return nil
}

// skipValue consumes one JSON value, descending into containers.
func skipValue(dec *json.Decoder) error {
	tok, err := dec.Token()
	if err != nil {
		return fmt.Errorf("%w: arg order scan: %v", ErrConstraintViolation, err)
	}
	d, ok := tok.(json.Delim)
	if !ok || (d != '{' && d != '[') {
		return nil
	}
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return fmt.Errorf("%w: arg order scan: %v", ErrConstraintViolation, err)
		}
		if d, ok := tok.(json.Delim); ok {
			switch d {
			case '{', '[':
				depth++
			case '}', ']':
				depth--
			}
		}
	}
	return nil
}
