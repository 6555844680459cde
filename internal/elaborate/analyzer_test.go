package elaborate

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bethropolis/code-searcher/internal/search"
)

func tenLines() string {
	return "l1\nl2\nl3\nl4\nl5\nl6\nl7\nl8\nl9\nl10\n"
}

func TestBuildContextWindow(t *testing.T) {
	got := buildContext(tenLines(), 5, 2)
	want := strings.Join([]string{
		"     3: l3",
		"     4: l4",
		">>    5: l5",
		"     6: l6",
		"     7: l7",
	}, "\n")
	assert.Equal(t, want, got)
}

func TestBuildContextClampedAtEdges(t *testing.T) {
	got := buildContext(tenLines(), 1, 2)
	require.True(t, strings.HasPrefix(got, ">>    1: l1"))
	assert.Len(t, strings.Split(got, "\n"), 3)

	got = buildContext(tenLines(), 10, 2)
	assert.True(t, strings.HasSuffix(got, ">>   10: l10"))
	assert.Len(t, strings.Split(got, "\n"), 3)
}

func TestBuildContextDefaultWindow(t *testing.T) {
	var b strings.Builder
	for i := 1; i <= 40; i++ {
		b.WriteString("line\n")
	}
	got := buildContext(b.String(), 20, 0)
	// 10 either side plus the match line.
	assert.Len(t, strings.Split(got, "\n"), 21)
}

func TestBuildContextOutOfRange(t *testing.T) {
	assert.Empty(t, buildContext("", 1, 2))
	assert.Empty(t, buildContext("only\n", 0, 2))
	assert.Empty(t, buildContext("only\n", 5, 2))
}

func TestBuildPrompt(t *testing.T) {
	m := search.Match{
		FilePath:   "/src/main.go",
		LineNumber: 2,
		MatchText:  "serve",
		Snippet:    "   2: go >>>serve<<<()",
	}

	prompt := buildPrompt(m, "func main() {\n\tgo serve()\n}\n", 1)
	assert.Contains(t, prompt, `"serve"`)
	assert.Contains(t, prompt, "line 2 of /src/main.go")
	assert.Contains(t, prompt, "   2: go >>>serve<<<()")
	assert.Contains(t, prompt, ">>    2: \tgo serve()")

	// Without file content the broader-context section is dropped.
	bare := buildPrompt(m, "", 1)
	assert.NotContains(t, bare, "Broader file context")
}

func TestNewDefaults(t *testing.T) {
	a := New("test-key")
	assert.NotEmpty(t, a.model)
	assert.EqualValues(t, 1024, a.maxTokens)

	a = New("test-key", WithModel("claude-3-haiku-20240307"))
	assert.EqualValues(t, "claude-3-haiku-20240307", a.model)

	// Empty override keeps the default.
	def := New("test-key")
	a = New("test-key", WithModel(""))
	assert.Equal(t, def.model, a.model)
}
