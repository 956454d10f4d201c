package autofix

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/sync/semaphore"

	"github.com/sujikathir/gdev/internal/fixer"
	"github.com/sujikathir/gdev/internal/toolkit"
	"github.com/sujikathir/gdev/pkg/types"
)

// IssueSource lists the open issues of a repository.
type IssueSource interface {
	OpenIssues(ctx context.Context, owner, repo string) []types.Issue
}

// SnapshotSource captures repository snapshots for analysis.
type SnapshotSource interface {
	Snapshot(ctx context.Context, owner, repo string) types.RepositorySnapshot
}

// IssueAnalyzer produces a structured analysis for one issue.
type IssueAnalyzer interface {
	Analyze(ctx context.Context, snap types.RepositorySnapshot, issue types.Issue) types.IssueAnalysis
}

// FixApplier generates and applies a fix in a working copy.
type FixApplier interface {
	Fix(ctx context.Context, repoPath, branch string, analysis types.IssueAnalysis, commitMessage string) fixer.Result
}

// Cloner materializes a repository clone on disk.
type Cloner interface {
	Clone(ctx context.Context, dir, url string) error
	SetOrigin(dir, url string) error
}

// BranchResolver reports the default branch of a repository.
type BranchResolver interface {
	DefaultBranch(ctx context.Context, owner, repo string) string
}

// Notifier is told when a task reaches a terminal status.
type Notifier interface {
	TaskFinished(ctx context.Context, task types.AutoFixTask)
}

// Runner drives auto-fix tasks through their pipeline: analyze the issue,
// fork if needed, clone, apply a fix, and open a pull request. Each task
// runs in its own goroutine; sem bounds how many run the pipeline at once.
type Runner struct {
	issues   IssueSource
	snaps    SnapshotSource
	analyzer IssueAnalyzer
	fixer    FixApplier
	cloner   Cloner
	branches BranchResolver
	tools    toolkit.Toolkit
	notifier Notifier
	store    *Store
	sem      *semaphore.Weighted
	username string
	token    string
	logger   *zap.Logger
}

// RunnerConfig wires the runner's collaborators.
type RunnerConfig struct {
	Issues        IssueSource
	Snapshots     SnapshotSource
	Analyzer      IssueAnalyzer
	Fixer         FixApplier
	Cloner        Cloner
	Branches      BranchResolver
	Toolkit       toolkit.Toolkit
	Notifier      Notifier
	Store         *Store
	MaxConcurrent int64
	Username      string
	Token         string
	Logger        *zap.Logger
}

func NewRunner(cfg RunnerConfig) *Runner {
	if cfg.MaxConcurrent <= 0 {
		cfg.MaxConcurrent = 4
	}
	return &Runner{
		issues:   cfg.Issues,
		snaps:    cfg.Snapshots,
		analyzer: cfg.Analyzer,
		fixer:    cfg.Fixer,
		cloner:   cfg.Cloner,
		branches: cfg.Branches,
		tools:    cfg.Toolkit,
		notifier: cfg.Notifier,
		store:    cfg.Store,
		sem:      semaphore.NewWeighted(cfg.MaxConcurrent),
		username: cfg.Username,
		token:    cfg.Token,
		logger:   cfg.Logger,
	}
}

// Submit registers a pending task and starts its pipeline in the
// background. The returned task snapshot always has status pending.
func (r *Runner) Submit(ctx context.Context, owner, repo string, issueNumber int, branchName, commitMessage string) types.AutoFixTask {
	if branchName == "" {
		branchName = GenerateBranchName(issueNumber)
	}
	task := types.AutoFixTask{
		ID:          uuid.NewString(),
		Status:      types.StatusPending,
		Repository:  owner + "/" + repo,
		IssueNumber: issueNumber,
		BranchName:  branchName,
		CreatedAt:   time.Now(),
	}
	r.store.Put(task)

	go r.run(context.WithoutCancel(ctx), task.ID, owner, repo, issueNumber, branchName, commitMessage)
	return task
}

// Get returns a snapshot of a task.
func (r *Runner) Get(id string) (types.AutoFixTask, bool) {
	return r.store.Get(id)
}

// Count returns the number of tracked tasks.
func (r *Runner) Count() int {
	return r.store.Count()
}

func (r *Runner) run(ctx context.Context, taskID, owner, repo string, issueNumber int, branch, commitMessage string) {
	logger := r.logger.With(
		zap.String("task_id", taskID),
		zap.String("repository", owner+"/"+repo),
		zap.Int("issue", issueNumber),
	)

	var tempDir string
	defer func() {
		if tempDir != "" {
			if err := os.RemoveAll(tempDir); err != nil {
				logger.Warn("failed to remove working directory", zap.Error(err))
			}
		}
	}()
	defer func() {
		if p := recover(); p != nil {
			logger.Error("auto-fix pipeline panicked", zap.Any("panic", p))
			r.fail(taskID, fmt.Sprintf("internal error: %v", p))
		}
		if task, ok := r.store.Get(taskID); ok && task.Status.Terminal() && r.notifier != nil {
			r.notifier.TaskFinished(ctx, task)
		}
	}()

	if err := r.sem.Acquire(ctx, 1); err != nil {
		r.fail(taskID, fmt.Sprintf("failed to acquire worker slot: %v", err))
		return
	}
	defer r.sem.Release(1)

	// analyzing
	r.setStatus(taskID, types.StatusAnalyzing)
	snap := r.snaps.Snapshot(ctx, owner, repo)
	var issue *types.Issue
	for _, candidate := range r.issues.OpenIssues(ctx, owner, repo) {
		if candidate.Number == issueNumber {
			c := candidate
			issue = &c
			break
		}
	}
	if issue == nil {
		r.fail(taskID, fmt.Sprintf("issue #%d not found in repository %s/%s", issueNumber, owner, repo))
		return
	}
	analysis := r.analyzer.Analyze(ctx, snap, *issue)

	// forking, skipped when the acting user already owns the repository or
	// no acting user is configured
	forkOwner, forkRepo := owner, repo
	if r.username != "" && !strings.EqualFold(r.username, owner) {
		r.setStatus(taskID, types.StatusForking)
		results, err := r.tools.Execute(ctx,
			fmt.Sprintf("Fork the repository %s/%s to my account.", owner, repo))
		if err != nil {
			r.fail(taskID, fmt.Sprintf("failed to fork repository: %v", err))
			return
		}
		forkOwner = r.username
		if data := toolkit.FirstData(results); data != nil {
			if name, ok := data["name"].(string); ok && name != "" {
				forkRepo = name
			}
		}
	}

	// cloning
	r.setStatus(taskID, types.StatusCloning)
	var err error
	tempDir, err = os.MkdirTemp("", "gdev_autofix_")
	if err != nil {
		r.fail(taskID, fmt.Sprintf("failed to create working directory: %v", err))
		return
	}
	repoPath := filepath.Join(tempDir, forkRepo)
	cloneURL := r.cloneURL(forkOwner, forkRepo)
	if err := r.cloner.Clone(ctx, repoPath, cloneURL); err != nil {
		r.fail(taskID, fmt.Sprintf("failed to clone %s/%s: %v", forkOwner, forkRepo, err))
		return
	}
	if err := r.cloner.SetOrigin(repoPath, cloneURL); err != nil {
		logger.Warn("failed to reset origin remote", zap.Error(err))
	}

	// fixing
	r.setStatus(taskID, types.StatusFixing)
	fixResult := r.fixer.Fix(ctx, repoPath, branch, analysis, commitMessage)
	if !fixResult.Success {
		r.fail(taskID, fixResult.Err)
		return
	}

	// creating_pr
	r.setStatus(taskID, types.StatusCreatingPR)
	base := r.branches.DefaultBranch(ctx, owner, repo)
	head := branch
	if !strings.EqualFold(forkOwner, owner) {
		head = forkOwner + ":" + branch
	}
	title := GeneratePRTitle(*issue)
	results, err := r.tools.Execute(ctx, fmt.Sprintf(
		"Create a pull request on %s/%s with title %q, head branch %q, base branch %q, and body %q.",
		owner, repo, title, head, base, GeneratePRBody(*issue)))
	if err != nil {
		r.partialSuccess(taskID, fmt.Sprintf("Fixed issue but failed to create PR: %v", err))
		return
	}
	data := toolkit.FirstData(results)
	prURL, _ := data["html_url"].(string)
	if prURL == "" {
		r.partialSuccess(taskID, "Fixed issue but failed to create PR: no pull request returned")
		return
	}

	r.store.Update(taskID, func(t *types.AutoFixTask) {
		t.Status = types.StatusCompleted
		t.PRURL = prURL
	})
	logger.Info("auto-fix completed", zap.String("pr_url", prURL))
}

func (r *Runner) cloneURL(owner, repo string) string {
	if r.token != "" {
		return fmt.Sprintf("https://%s@github.com/%s/%s.git", r.token, owner, repo)
	}
	return fmt.Sprintf("https://github.com/%s/%s.git", owner, repo)
}

func (r *Runner) setStatus(taskID string, status types.TaskStatus) {
	r.store.Update(taskID, func(t *types.AutoFixTask) {
		t.Status = status
	})
}

func (r *Runner) fail(taskID, msg string) {
	r.store.Update(taskID, func(t *types.AutoFixTask) {
		t.Status = types.StatusFailed
		t.Error = msg
	})
}

func (r *Runner) partialSuccess(taskID, msg string) {
	r.store.Update(taskID, func(t *types.AutoFixTask) {
		t.Status = types.StatusPartialSuccess
		t.Error = msg
	})
}

// GenerateBranchName builds a unique fix branch name for an issue.
func GenerateBranchName(issueNumber int) string {
	suffix := strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	return fmt.Sprintf("fix/issue-%d-%s", issueNumber, suffix)
}
