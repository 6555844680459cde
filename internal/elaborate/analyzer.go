// Package elaborate asks a language model to explain a search match in the
// context of its file. It re-reads nothing itself: callers pass the full
// file content they already hold (or fetched by path).
package elaborate

import (
	"context"
	"fmt"
	"strings"

	anthropic "github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/bethropolis/code-searcher/internal/search"
	"github.com/bethropolis/code-searcher/internal/utils"
)

// DefaultContextWindow is how many lines around the match line are lifted
// from the full file content into the prompt.
const DefaultContextWindow = 10

const systemPrompt = "You are a senior engineer reviewing code search results. " +
	"Explain concisely what the matched code does in its surrounding context, " +
	"and anything a reader should know before changing it. Plain prose, no headings."

// Analyzer elaborates on matches through the Anthropic API.
type Analyzer struct {
	client    anthropic.Client
	model     anthropic.Model
	maxTokens int64
	log       utils.Logger
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithLogger sets the diagnostic logger.
func WithLogger(log utils.Logger) Option {
	return func(a *Analyzer) {
		if log != nil {
			a.log = log
		}
	}
}

// WithModel overrides the default model.
func WithModel(model string) Option {
	return func(a *Analyzer) {
		if model != "" {
			a.model = anthropic.Model(model)
		}
	}
}

// New creates an Analyzer. An empty apiKey defers to the SDK's environment
// lookup (ANTHROPIC_API_KEY).
func New(apiKey string, opts ...Option) *Analyzer {
	var client anthropic.Client
	if apiKey != "" {
		client = anthropic.NewClient(option.WithAPIKey(apiKey))
	} else {
		client = anthropic.NewClient()
	}
	a := &Analyzer{
		client:    client,
		model:     anthropic.ModelClaudeSonnet4_5_20250929,
		maxTokens: 1024,
		log:       utils.NopLogger{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ElaborateOnMatch returns the model's explanation of a match. fullContent
// may be empty, in which case only the snippet is offered as context.
// contextWindow <= 0 selects DefaultContextWindow.
func (a *Analyzer) ElaborateOnMatch(ctx context.Context, m search.Match, fullContent string, contextWindow int) (string, error) {
	prompt := buildPrompt(m, fullContent, contextWindow)
	a.log.Debug("elaborate: requesting elaboration for %s:%d", m.FilePath, m.LineNumber)

	resp, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: a.maxTokens,
		System:    []anthropic.TextBlockParam{{Text: systemPrompt}},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return "", fmt.Errorf("elaboration request for %s:%d: %w", m.FilePath, m.LineNumber, err)
	}

	var parts []string
	for _, block := range resp.Content {
		if text, ok := block.AsAny().(anthropic.TextBlock); ok {
			parts = append(parts, text.Text)
		}
	}
	return strings.TrimSpace(strings.Join(parts, "\n")), nil
}

// buildPrompt assembles the user prompt from the match and its broader
// file context. Pure function, covered by tests.
func buildPrompt(m search.Match, fullContent string, contextWindow int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "A code search matched %q at line %d of %s.\n\n", m.MatchText, m.LineNumber, m.FilePath)
	fmt.Fprintf(&b, "Matched snippet (>>> <<< delimit the match):\n%s\n", m.Snippet)
	if ctx := buildContext(fullContent, m.LineNumber, contextWindow); ctx != "" {
		fmt.Fprintf(&b, "\nBroader file context (>> marks the match line):\n%s\n", ctx)
	}
	b.WriteString("\nExplain what this code does and how the match fits in.")
	return b.String()
}

// buildContext lifts contextWindow lines either side of the 1-based match
// line out of fullContent, numbering each line and marking the match line.
// Returns "" when there is no content or the line is out of range.
func buildContext(fullContent string, lineNumber, contextWindow int) string {
	if fullContent == "" {
		return ""
	}
	if contextWindow <= 0 {
		contextWindow = DefaultContextWindow
	}
	lines := strings.Split(strings.TrimSuffix(fullContent, "\n"), "\n")
	matchIdx := lineNumber - 1
	if matchIdx < 0 || matchIdx >= len(lines) {
		return ""
	}

	first := matchIdx - contextWindow
	if first < 0 {
		first = 0
	}
	last := matchIdx + contextWindow + 1
	if last > len(lines) {
		last = len(lines)
	}

	out := make([]string, 0, last-first)
	for i := first; i < last; i++ {
		prefix := "  "
		if i == matchIdx {
			prefix = ">> "
		}
		out = append(out, fmt.Sprintf("%s%4d: %s", prefix, i+1, lines[i]))
	}
	return strings.Join(out, "\n")
}
