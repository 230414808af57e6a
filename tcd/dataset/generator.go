// Package dataset generates synthetic tool-call training corpora:
// natural-language prompts paired with canonical JSON completions,
// balanced across the registered tool family.
package dataset

import (
	"bufio"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

var names = []string{"alice", "bob", "charlie", "diana", "eve", "frank", "grace", "henry"}

var domains = []string{"gmail.com", "company.com", "work.org", "email.net", "outlook.com"}

var cities = []string{"London", "Tokyo", "Paris", "New York", "Sydney", "Berlin", "Toronto", "Mumbai"}

var subjects = []string{
	"the meeting", "quarterly report", "project update", "lunch plans",
	"vacation request", "bug fix", "code review", "team sync",
	"deadline reminder", "weekly summary", "feedback", "proposal",
}

var searchQueries = []string{
	"python tutorials", "machine learning basics", "best restaurants nearby",
	"weather forecast", "flight prices", "hotel deals", "recipe ideas",
	"javascript frameworks", "how to learn coding", "stock prices today",
	"latest news", "movie reviews", "book recommendations",
}

var emailTemplates = []string{
	"Send an email to %s about %s",
	"Email %s with subject %s",
	"Write an email to %s about %s",
	"Please email %s regarding %s",
	"Can you send %s an email about %s",
	"Message %s about %s",
	"Send %s a note about %s",
	"Compose an email to %s subject %s",
}

var weatherTemplates = []string{
	"What's the weather in %s?",
	"Get the weather for %s",
	"Weather in %s",
	"How's the weather in %s?",
	"Check the weather in %s",
	"What's it like in %s today?",
	"Tell me the weather in %s",
	"Is it raining in %s?",
}

var searchTemplates = []string{
	"Search the web for %s",
	"Look up %s",
	"Search for %s",
	"Find information about %s",
	"Google %s",
	"Can you search %s",
	"Look up information on %s",
	"Search %s online",
}

// Example pairs a natural-language prompt with its canonical tool-call
// completion.
type Example struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
	Tool       string `json:"-"`
}

// Generator produces balanced synthetic examples from a seeded source,
// so the same seed yields the same corpus.
type Generator struct {
	rng *rand.Rand
}

// NewGenerator creates a generator seeded for reproducibility.
func NewGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

func (g *Generator) pick(pool []string) string {
	return pool[g.rng.Intn(len(pool))]
}

func (g *Generator) emailAddress() string {
	return g.pick(names) + "@" + g.pick(domains)
}

// completion marshals the canonical tool-call JSON. Encoding goes
// through an ordered key/value walk so "tool" always precedes "args"
// and args keep their declared order.
func completion(tool string, args [][2]string) string {
	out := fmt.Sprintf("{%q: %q, %q: {", "tool", tool, "args")
	for i, kv := range args {
		if i > 0 {
			out += ", "
		}
		k, _ := json.Marshal(kv[0])
		v, _ := json.Marshal(kv[1])
		out += string(k) + ": " + string(v)
	}
	return out + "}}"
}

func (g *Generator) emailExample() Example {
	email := g.emailAddress()
	subject := g.pick(subjects)
	return Example{
		Prompt:     fmt.Sprintf(g.pick(emailTemplates), email, subject),
		Completion: completion("send_email", [][2]string{{"to", email}, {"subject", subject}}),
		Tool:       "send_email",
	}
}

func (g *Generator) weatherExample() Example {
	city := g.pick(cities)
	return Example{
		Prompt:     fmt.Sprintf(g.pick(weatherTemplates), city),
		Completion: completion("get_weather", [][2]string{{"city", city}}),
		Tool:       "get_weather",
	}
}

func (g *Generator) searchExample() Example {
	query := g.pick(searchQueries)
	return Example{
		Prompt:     fmt.Sprintf(g.pick(searchTemplates), query),
		Completion: completion("search_web", [][2]string{{"query", query}}),
		Tool:       "search_web",
	}
}

// Generate produces n examples split evenly across the tool family,
// topped up at random when n is not divisible by three, then shuffled.
func (g *Generator) Generate(n int) []Example {
	generators := []func() Example{g.emailExample, g.weatherExample, g.searchExample}

	examples := make([]Example, 0, n)
	perTool := n / len(generators)
	for _, gen := range generators {
		for i := 0; i < perTool; i++ {
			examples = append(examples, gen())
		}
	}
	for len(examples) < n {
		examples = append(examples, generators[g.rng.Intn(len(generators))]())
	}

	g.rng.Shuffle(len(examples), func(i, j int) {
		examples[i], examples[j] = examples[j], examples[i]
	})
	return examples
}

// Counts tallies examples by tool name.
func Counts(examples []Example) map[string]int {
	counts := make(map[string]int)
	for _, ex := range examples {
		counts[ex.Tool]++
	}
	return counts
}

// WriteJSONL exports examples one JSON object per line, creating the
// parent directory when needed.
func WriteJSONL(path string, examples []Example) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create dataset dir: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create dataset file: %w", err)
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, ex := range examples {
		if err := enc.Encode(ex); err != nil {
			return fmt.Errorf("encode example: %w", err)
		}
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush dataset file: %w", err)
	}
	return nil
}
