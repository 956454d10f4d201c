package analyzer

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/sujikathir/gdev/internal/llm"
	"github.com/sujikathir/gdev/pkg/types"
)

const (
	maxRelevantFiles = 3
	maxExcerptChars  = 1000
	maxTreeChars     = 1000
)

// Analyzer produces structured analyses of issues against a repository
// snapshot. Analyze is total: LLM failures produce a degraded analysis
// instead of an error.
type Analyzer struct {
	llm         llm.Completer
	temperature float32
	logger      *zap.Logger
}

func NewAnalyzer(completer llm.Completer, temperature float32, logger *zap.Logger) *Analyzer {
	return &Analyzer{llm: completer, temperature: temperature, logger: logger}
}

// Analyze evaluates a single issue against the snapshot.
func (a *Analyzer) Analyze(ctx context.Context, snap types.RepositorySnapshot, issue types.Issue) types.IssueAnalysis {
	body := issue.Body
	if body == "" {
		body = "No description provided"
	}

	prompt := a.buildPrompt(snap, issue, body)
	raw, err := a.llm.Complete(ctx,
		"You are an expert software engineer analyzing GitHub issues. Be concise and practical.",
		prompt, a.temperature)
	if err != nil {
		a.logger.Warn("issue analysis failed",
			zap.Int("issue", issue.Number),
			zap.Error(err),
		)
		return types.IssueAnalysis{
			IssueID:           issue.Number,
			Title:             issue.Title,
			Body:              body,
			Analysis:          fmt.Sprintf("Error analyzing issue: %v", err),
			SuggestedSolution: "Manual analysis required",
			Priority:          types.PriorityMedium,
			Complexity:        types.ComplexityMedium,
		}
	}

	analysis, solution, priority, complexity := ParseSections(raw)
	return types.IssueAnalysis{
		IssueID:           issue.Number,
		Title:             issue.Title,
		Body:              body,
		Analysis:          analysis,
		SuggestedSolution: solution,
		Priority:          priority,
		Complexity:        complexity,
	}
}

// AnalyzeAll analyzes a batch of issues in order.
func (a *Analyzer) AnalyzeAll(ctx context.Context, snap types.RepositorySnapshot, issues []types.Issue) []types.IssueAnalysis {
	out := make([]types.IssueAnalysis, 0, len(issues))
	for _, issue := range issues {
		out = append(out, a.Analyze(ctx, snap, issue))
	}
	return out
}

func (a *Analyzer) buildPrompt(snap types.RepositorySnapshot, issue types.Issue, body string) string {
	var b strings.Builder
	b.WriteString("Repository: ")
	b.WriteString(snap.RepositoryName)
	b.WriteString("\n")
	b.WriteString(snap.Summary)
	b.WriteString("\n\nFile tree:\n")
	b.WriteString(truncate(snap.Tree, maxTreeChars))
	b.WriteString("\n")

	for _, f := range relevantFiles(snap, issue) {
		b.WriteString("\n--- ")
		b.WriteString(f.path)
		b.WriteString(" ---\n")
		b.WriteString(f.excerpt)
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "\nIssue #%d: %s\n%s\n", issue.Number, issue.Title, body)
	b.WriteString(`
Please provide:
1. Analysis: what is wrong and which parts of the codebase are involved
2. Suggested Solution: concrete steps to resolve it
3. Priority Level: high, medium, or low
4. Complexity Level: simple, medium, or complex
`)
	return b.String()
}

type scoredFile struct {
	path    string
	excerpt string
	score   int
}

// relevantFiles ranks snapshot files by keyword overlap with the issue and
// returns at most maxRelevantFiles excerpts. Ordering is deterministic:
// score descending, then path ascending.
func relevantFiles(snap types.RepositorySnapshot, issue types.Issue) []scoredFile {
	keywords := issueKeywords(issue)
	if len(keywords) == 0 {
		return nil
	}

	var files []scoredFile
	for path, content := range snap.Content {
		lowerPath := strings.ToLower(path)
		lowerContent := strings.ToLower(content)
		score := 0
		for _, kw := range keywords {
			if strings.Contains(lowerPath, kw) {
				score += 3
			}
			if strings.Contains(lowerContent, kw) {
				score++
			}
		}
		if score > 0 {
			files = append(files, scoredFile{
				path:    path,
				excerpt: truncate(content, maxExcerptChars),
				score:   score,
			})
		}
	}

	sort.Slice(files, func(i, j int) bool {
		if files[i].score != files[j].score {
			return files[i].score > files[j].score
		}
		return files[i].path < files[j].path
	})
	if len(files) > maxRelevantFiles {
		files = files[:maxRelevantFiles]
	}
	return files
}

var keywordCleaner = strings.NewReplacer("-", " ", "_", " ")

// issueKeywords extracts lowercase words longer than three characters from
// the issue title and body.
func issueKeywords(issue types.Issue) []string {
	text := strings.ToLower(keywordCleaner.Replace(issue.Title + " " + issue.Body))
	seen := map[string]bool{}
	var words []string
	for _, w := range strings.Fields(text) {
		w = strings.Trim(w, ".,:;!?()[]{}\"'`")
		if len(w) > 3 && !seen[w] {
			seen[w] = true
			words = append(words, w)
		}
	}
	return words
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "... [truncated]"
}
