package dataset

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateBalance(t *testing.T) {
	g := NewGenerator(1)
	examples := g.Generate(90)
	require.Len(t, examples, 90)

	counts := Counts(examples)
	assert.Equal(t, 30, counts["send_email"])
	assert.Equal(t, 30, counts["get_weather"])
	assert.Equal(t, 30, counts["search_web"])
}

func TestGenerateRemainderToppedUp(t *testing.T) {
	g := NewGenerator(1)
	examples := g.Generate(100)
	require.Len(t, examples, 100)

	counts := Counts(examples)
	total := 0
	for tool, n := range counts {
		assert.GreaterOrEqual(t, n, 33, "tool %s underrepresented", tool)
		total += n
	}
	assert.Equal(t, 100, total)
}

func TestGenerateDeterministic(t *testing.T) {
	first := NewGenerator(42).Generate(50)
	second := NewGenerator(42).Generate(50)
	assert.Equal(t, first, second)

	different := NewGenerator(43).Generate(50)
	assert.NotEqual(t, first, different)
}

func TestGenerateCompletionShape(t *testing.T) {
	examples := NewGenerator(7).Generate(60)
	for _, ex := range examples {
		require.True(t, json.Valid([]byte(ex.Completion)), "completion must be valid JSON: %s", ex.Completion)

		// Canonical layout: tool key first, args after, no extra
		// whitespace variation.
		assert.True(t, strings.HasPrefix(ex.Completion, `{"tool": "`), ex.Completion)
		assert.True(t, strings.HasSuffix(ex.Completion, `}}`), ex.Completion)

		var call struct {
			Tool string            `json:"tool"`
			Args map[string]string `json:"args"`
		}
		require.NoError(t, json.Unmarshal([]byte(ex.Completion), &call))
		assert.Equal(t, ex.Tool, call.Tool)
		assert.NotEmpty(t, call.Args)
		assert.NotEmpty(t, ex.Prompt)

		// Every argument value appears verbatim in the prompt.
		for _, v := range call.Args {
			assert.Contains(t, ex.Prompt, v)
		}
	}
}

func TestWriteJSONL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "data", "tool_calls.jsonl")

	examples := NewGenerator(3).Generate(10)
	require.NoError(t, WriteJSONL(path, examples))

	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var lines int
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		var ex Example
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &ex))
		assert.NotEmpty(t, ex.Prompt)
		assert.NotEmpty(t, ex.Completion)
		lines++
	}
	require.NoError(t, scanner.Err())
	assert.Equal(t, 10, lines)
}
