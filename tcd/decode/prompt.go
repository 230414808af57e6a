package decode

import "strings"

// BuildPrompt shapes a natural-language request into the prompt the
// model was trained on. Newlines are normalized and the request trimmed
// so equivalent requests produce identical contexts.
func BuildPrompt(request string) string {
	norm := strings.TrimSpace(strings.ReplaceAll(request, "\r\n", "\n"))
	return "User request: " + norm + "\nTool call JSON: "
}
