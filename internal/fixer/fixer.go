package fixer

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/go-git/go-git/v5"
	shellquote "github.com/kballard/go-shellquote"
	"go.uber.org/zap"

	"github.com/sujikathir/gdev/internal/llm"
	"github.com/sujikathir/gdev/pkg/types"
)

// CommandRunner executes a command in a directory and returns its output.
type CommandRunner interface {
	Run(ctx context.Context, dir, name string, args ...string) (stdout, stderr string, err error)
}

// ExecRunner runs commands through os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, dir, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	err := cmd.Run()
	return stdout.String(), stderr.String(), err
}

// Result is the outcome of applying a fix to a checked-out repository.
type Result struct {
	Success bool
	Output  string
	PRURL   string
	Err     string
}

// Generator asks the model for a fix plan, applies it to a working copy,
// and commits and pushes the change.
type Generator struct {
	llm         llm.Completer
	runner      CommandRunner
	temperature float32
	logger      *zap.Logger
}

func NewGenerator(completer llm.Completer, runner CommandRunner, temperature float32, logger *zap.Logger) *Generator {
	return &Generator{llm: completer, runner: runner, temperature: temperature, logger: logger}
}

// Fix generates and applies a fix for the analyzed issue in repoPath on a
// new branch. commitMessage overrides the plan's commit message when set.
func (g *Generator) Fix(ctx context.Context, repoPath, branch string, analysis types.IssueAnalysis, commitMessage string) Result {
	if _, stderr, err := g.runner.Run(ctx, repoPath, "git", "checkout", "-b", branch); err != nil {
		return failure("failed to create branch %s: %v: %s", branch, err, stderr)
	}

	raw, err := g.llm.Complete(ctx, fixSystemPrompt, g.buildPrompt(analysis, branch), g.temperature)
	if err != nil {
		return failure("failed to generate fix: %v", err)
	}

	plan := ParsePlan(raw)
	if len(plan.Files) == 0 {
		// commands-only fixes (renames, deletions) are valid plans
		g.logger.Info("fix plan has no file changes", zap.Int("commands", len(plan.Commands)))
	}
	if err := applyFiles(repoPath, plan.Files); err != nil {
		return failure("failed to write fix files: %v", err)
	}

	output, err := g.runCommands(ctx, repoPath, plan.Commands, analysis.IssueID, commitMessage)
	if err != nil {
		return Result{Output: output, Err: err.Error()}
	}

	prURL := ""
	if url, err := compareURL(repoPath, branch); err != nil {
		g.logger.Warn("failed to build compare url", zap.Error(err))
	} else {
		prURL = url
	}
	return Result{Success: true, Output: output, PRURL: prURL}
}

const fixSystemPrompt = "You are an expert software engineer producing minimal, safe fixes. " +
	"Respond with complete file contents in fenced blocks opened with ```file:<path> " +
	"followed by the git commands to commit and push the change."

func (g *Generator) buildPrompt(analysis types.IssueAnalysis, branch string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Issue #%d: %s\n\n", analysis.IssueID, analysis.Title)
	fmt.Fprintf(&b, "Description:\n%s\n\n", analysis.Body)
	fmt.Fprintf(&b, "Analysis:\n%s\n\n", analysis.Analysis)
	fmt.Fprintf(&b, "Suggested solution:\n%s\n\n", analysis.SuggestedSolution)
	fmt.Fprintf(&b, "The working copy is already on branch %s. ", branch)
	b.WriteString("Provide the changed files and then the exact git commands, one per line, to add, commit, and push the fix to origin. ")
	fmt.Fprintf(&b, "Use a commit message of the form %q.", fmt.Sprintf("Fix issue #%d: %s", analysis.IssueID, analysis.Title))
	return b.String()
}

// runCommands executes the git commands of the plan in order. Non-git lines
// are skipped. A commit rejected with a pathspec error is retried once with
// a plain message; a commit that still fails aborts the fix. Failures of
// other commands are logged and the run continues.
func (g *Generator) runCommands(ctx context.Context, repoPath string, commands []string, issueID int, commitOverride string) (string, error) {
	var output strings.Builder
	for _, command := range commands {
		if !strings.HasPrefix(command, "git") {
			g.logger.Debug("skipping non-git command", zap.String("command", command))
			continue
		}

		name, args, err := splitCommand(command, issueID, commitOverride)
		if err != nil {
			return output.String(), err
		}
		isCommit := strings.HasPrefix(command, "git commit")

		stdout, stderr, err := g.runner.Run(ctx, repoPath, name, args...)
		if err != nil && isCommit && strings.Contains(stderr, "error: pathspec") {
			g.logger.Warn("commit rejected with pathspec error, retrying with plain message",
				zap.String("command", command))
			stdout, stderr, err = g.runner.Run(ctx, repoPath, "git", "commit", "-m",
				fmt.Sprintf("Fix issue #%d", issueID))
		}
		output.WriteString(stdout)
		if err != nil {
			if isCommit {
				return output.String(), fmt.Errorf("command %q failed: %w: %s", command, err, stderr)
			}
			g.logger.Warn("command failed, continuing",
				zap.String("command", command),
				zap.String("stderr", stderr),
				zap.Error(err),
			)
		}
	}
	return output.String(), nil
}

// splitCommand turns a shell-style command line into exec arguments. Commit
// commands get dedicated handling so the message survives quoting intact.
func splitCommand(command string, issueID int, commitOverride string) (string, []string, error) {
	if strings.HasPrefix(command, "git commit") {
		if pre, message, ok := SplitCommit(command); ok {
			if commitOverride != "" {
				message = commitOverride
			}
			return pre[0], append(pre[1:], "-m", message), nil
		}
	}
	parts, err := shellquote.Split(command)
	if err != nil {
		return "", nil, fmt.Errorf("failed to parse command %q: %w", command, err)
	}
	return parts[0], parts[1:], nil
}

func applyFiles(repoPath string, files map[string]string) error {
	for path, content := range files {
		full := filepath.Join(repoPath, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
			return fmt.Errorf("failed to create directory for %s: %w", path, err)
		}
		if err := os.WriteFile(full, []byte(content), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
	}
	return nil
}

// compareURL derives a GitHub compare link for the branch from the working
// copy's origin remote.
func compareURL(repoPath, branch string) (string, error) {
	repo, err := git.PlainOpen(repoPath)
	if err != nil {
		return "", fmt.Errorf("failed to open repository: %w", err)
	}
	remote, err := repo.Remote("origin")
	if err != nil {
		return "", fmt.Errorf("failed to resolve origin remote: %w", err)
	}
	urls := remote.Config().URLs
	if len(urls) == 0 {
		return "", fmt.Errorf("origin remote has no URL")
	}
	return CompareURL(urls[0], branch), nil
}

// CompareURL rewrites a git remote URL into a GitHub compare link against
// main. SSH remotes and embedded credentials are normalized away.
func CompareURL(remoteURL, branch string) string {
	url := strings.TrimSuffix(remoteURL, ".git")
	if rest, ok := strings.CutPrefix(url, "git@github.com:"); ok {
		url = "https://github.com/" + rest
	}
	if idx := strings.Index(url, "://"); idx >= 0 {
		rest := url[idx+3:]
		if at := strings.Index(rest, "@"); at >= 0 {
			url = url[:idx+3] + rest[at+1:]
		}
	}
	return fmt.Sprintf("%s/compare/main...%s", url, branch)
}

func failure(format string, args ...any) Result {
	return Result{Err: fmt.Sprintf(format, args...)}
}
