package analyzer

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sujikathir/gdev/pkg/types"
)

type fakeCompleter struct {
	response string
	err      error
	lastUser string
}

func (f *fakeCompleter) Complete(ctx context.Context, system, user string, temperature float32) (string, error) {
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

func testSnapshot() types.RepositorySnapshot {
	return types.RepositorySnapshot{
		RepositoryName: "octocat/Hello-World",
		Summary:        "Repository octocat/Hello-World (3 files)",
		Tree:           "README.md\nauth/login.go\ndb/pool.go",
		Content: map[string]string{
			"README.md":     "# Hello World",
			"auth/login.go": "package auth // login handler with token validation",
			"db/pool.go":    "package db // connection pool with timeout handling",
		},
	}
}

func TestParseSectionsLabeled(t *testing.T) {
	raw := `Analysis: The login handler drops the session token.
It never refreshes expired credentials.

Suggested Solution: Refresh the token before each request.
Add a retry on 401 responses.

Priority Level: High
Complexity Level: simple fix`

	analysis, solution, priority, complexity := ParseSections(raw)

	assert.Contains(t, analysis, "drops the session token")
	// marker-line remainders are discarded, only following lines count
	assert.Equal(t, "Add a retry on 401 responses.", solution)
	assert.Equal(t, types.PriorityHigh, priority)
	assert.Equal(t, types.ComplexitySimple, complexity)
}

func TestParseSectionsMarkdownHeadings(t *testing.T) {
	raw := "The bug is in the parser.\n" +
		"## Suggested Solution\n" +
		"Rewrite the tokenizer.\n" +
		"## Priority: High\n" +
		"## Complexity Level: complex\n"

	analysis, solution, priority, complexity := ParseSections(raw)

	assert.Equal(t, "The bug is in the parser.", analysis)
	assert.Equal(t, "Rewrite the tokenizer.", solution)
	assert.Equal(t, types.PriorityHigh, priority)
	assert.Equal(t, types.ComplexityComplex, complexity)
}

func TestParseSectionsHeadingsAreNotContent(t *testing.T) {
	raw := "## Analysis\nThe loop never terminates.\n## Notes\n"

	analysis, _, _, _ := ParseSections(raw)

	assert.Equal(t, "The loop never terminates.", analysis)
}

func TestParseSectionsComplexityWordDoesNotSelfMatch(t *testing.T) {
	_, _, _, complexity := ParseSections("Complexity Level: simple fix")
	assert.Equal(t, types.ComplexitySimple, complexity)

	_, _, _, complexity = ParseSections("Complexity: complex refactor")
	assert.Equal(t, types.ComplexityComplex, complexity)

	_, _, _, complexity = ParseSections("Complexity Level: medium")
	assert.Equal(t, types.ComplexityMedium, complexity)
}

func TestParseSectionsUnlabeledGoesToAnalysis(t *testing.T) {
	raw := "The bug is caused by an off-by-one error in the pagination loop."

	analysis, solution, priority, complexity := ParseSections(raw)

	assert.Equal(t, raw, analysis)
	assert.Equal(t, "Solution analysis included in main analysis", solution)
	assert.Equal(t, types.PriorityMedium, priority)
	assert.Equal(t, types.ComplexityMedium, complexity)
}

func TestParseSectionsDefaults(t *testing.T) {
	_, _, priority, complexity := ParseSections("Some analysis text")
	assert.Equal(t, types.PriorityMedium, priority)
	assert.Equal(t, types.ComplexityMedium, complexity)
}

func TestAnalyzeDegradedOnLLMError(t *testing.T) {
	a := NewAnalyzer(&fakeCompleter{err: errors.New("rate limited")}, 0.2, zap.NewNop())

	result := a.Analyze(context.Background(), testSnapshot(), types.Issue{
		Number: 5,
		Title:  "Login broken",
	})

	assert.Equal(t, 5, result.IssueID)
	assert.Contains(t, result.Analysis, "rate limited")
	assert.Equal(t, "Manual analysis required", result.SuggestedSolution)
	assert.Equal(t, types.PriorityMedium, result.Priority)
	assert.Equal(t, types.ComplexityMedium, result.Complexity)
}

func TestAnalyzeEmptyBodyDefault(t *testing.T) {
	fc := &fakeCompleter{response: "Analysis text"}
	a := NewAnalyzer(fc, 0.2, zap.NewNop())

	result := a.Analyze(context.Background(), testSnapshot(), types.Issue{Number: 1, Title: "Bug"})

	assert.Equal(t, "No description provided", result.Body)
}

func TestAnalyzePromptIncludesRelevantFiles(t *testing.T) {
	fc := &fakeCompleter{response: "Analysis text"}
	a := NewAnalyzer(fc, 0.2, zap.NewNop())

	a.Analyze(context.Background(), testSnapshot(), types.Issue{
		Number: 2,
		Title:  "Authentication login failure",
		Body:   "Users cannot login after token expiry",
	})

	assert.Contains(t, fc.lastUser, "auth/login.go")
	assert.NotContains(t, fc.lastUser, "--- db/pool.go ---")
}

func TestRelevantFilesScoringAndOrdering(t *testing.T) {
	snap := types.RepositorySnapshot{
		Content: map[string]string{
			"auth/login.go":  "token validation",
			"docs/login.md":  "login guide",
			"db/pool.go":     "nothing related",
			"auth/token.go":  "token refresh login",
			"misc/login.txt": "login",
		},
	}
	issue := types.Issue{Title: "login token broken"}

	files := relevantFiles(snap, issue)

	require.Len(t, files, maxRelevantFiles)
	for i := 1; i < len(files); i++ {
		if files[i-1].score == files[i].score {
			assert.Less(t, files[i-1].path, files[i].path)
		} else {
			assert.Greater(t, files[i-1].score, files[i].score)
		}
	}
	for _, f := range files {
		assert.NotEqual(t, "db/pool.go", f.path)
	}
}

func TestRelevantFilesNoKeywords(t *testing.T) {
	files := relevantFiles(testSnapshot(), types.Issue{Title: "a of to"})
	assert.Empty(t, files)
}

func TestTruncate(t *testing.T) {
	long := strings.Repeat("x", maxExcerptChars+50)
	got := truncate(long, maxExcerptChars)
	assert.True(t, strings.HasSuffix(got, "... [truncated]"))
	assert.Equal(t, "short", truncate("short", maxExcerptChars))
}

func TestIssueKeywords(t *testing.T) {
	words := issueKeywords(types.Issue{
		Title: "Fix database-connection pool_timeout",
		Body:  "The app and the db",
	})

	assert.Contains(t, words, "database")
	assert.Contains(t, words, "connection")
	assert.Contains(t, words, "pool")
	assert.Contains(t, words, "timeout")
	assert.NotContains(t, words, "the")
	assert.NotContains(t, words, "app")
}
