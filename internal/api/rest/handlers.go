package rest

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sujikathir/gdev/internal/toolkit"
	"github.com/sujikathir/gdev/pkg/types"
)

// IssueProvider lists open issues. Implementations are total: they fall
// back to fixture data rather than failing.
type IssueProvider interface {
	OpenIssues(ctx context.Context, owner, repo string) []types.Issue
}

// PullRequestProvider lists pull requests filtered by state.
type PullRequestProvider interface {
	PullRequests(ctx context.Context, owner, repo, state string) []types.PullRequest
}

// SnapshotProvider captures repository snapshots.
type SnapshotProvider interface {
	Snapshot(ctx context.Context, owner, repo string) types.RepositorySnapshot
}

// IssueAnalyzer analyzes issues against a snapshot.
type IssueAnalyzer interface {
	Analyze(ctx context.Context, snap types.RepositorySnapshot, issue types.Issue) types.IssueAnalysis
	AnalyzeAll(ctx context.Context, snap types.RepositorySnapshot, issues []types.Issue) []types.IssueAnalysis
}

// AutoFixService runs background auto-fix tasks.
type AutoFixService interface {
	Submit(ctx context.Context, owner, repo string, issueNumber int, branchName, commitMessage string) types.AutoFixTask
	Get(id string) (types.AutoFixTask, bool)
	Count() int
}

// Handler handles REST API requests
type Handler struct {
	issues    IssueProvider
	prs       PullRequestProvider
	snapshots SnapshotProvider
	analyzer  IssueAnalyzer
	autofix   AutoFixService
	tools     toolkit.Toolkit

	defaultOwner      string
	defaultRepo       string
	demoIssue         int
	defaultIssueLimit int
	maxIssueLimit     int
	githubConnected   bool

	logger *zap.Logger
}

// HandlerConfig wires the handler's collaborators and defaults.
type HandlerConfig struct {
	Issues            IssueProvider
	PullRequests      PullRequestProvider
	Snapshots         SnapshotProvider
	Analyzer          IssueAnalyzer
	AutoFix           AutoFixService
	Toolkit           toolkit.Toolkit
	DefaultOwner      string
	DefaultRepo       string
	DemoIssue         int
	DefaultIssueLimit int
	MaxIssueLimit     int
	GitHubConnected   bool
	Logger            *zap.Logger
}

// NewHandler creates a new REST handler
func NewHandler(cfg HandlerConfig) *Handler {
	if cfg.DefaultIssueLimit <= 0 {
		cfg.DefaultIssueLimit = 20
	}
	if cfg.MaxIssueLimit <= 0 {
		cfg.MaxIssueLimit = 100
	}
	return &Handler{
		issues:            cfg.Issues,
		prs:               cfg.PullRequests,
		snapshots:         cfg.Snapshots,
		analyzer:          cfg.Analyzer,
		autofix:           cfg.AutoFix,
		tools:             cfg.Toolkit,
		defaultOwner:      cfg.DefaultOwner,
		defaultRepo:       cfg.DefaultRepo,
		demoIssue:         cfg.DemoIssue,
		defaultIssueLimit: cfg.DefaultIssueLimit,
		maxIssueLimit:     cfg.MaxIssueLimit,
		githubConnected:   cfg.GitHubConnected,
		logger:            cfg.Logger,
	}
}

// AutoFixRequest is the optional body of POST /issues/{number}/auto-fix.
type AutoFixRequest struct {
	BranchName    string `json:"branch_name"`
	CommitMessage string `json:"commit_message"`
}

// CreatePRRequest is the body of POST /prs.
type CreatePRRequest struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	Head  string `json:"head"`
	Base  string `json:"base"`
}

// MergePRRequest is the body of PUT /prs/{number}/merge.
type MergePRRequest struct {
	CommitTitle   string `json:"commit_title"`
	CommitMessage string `json:"commit_message"`
	MergeMethod   string `json:"merge_method"`
}

// Root handles GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]any{
		"message":         "GDev GitHub Issue Analyzer",
		"demo_repository": h.defaultOwner + "/" + h.defaultRepo,
		"demo_issue":      h.demoIssue,
		"endpoints": []string{
			"GET /health",
			"GET /auto-fix/{task_id}",
			"GET /repository/{owner}/{repo}/info",
			"GET /repository/{owner}/{repo}/issues",
			"GET /repository/{owner}/{repo}/issues/raw",
			"GET /repository/{owner}/{repo}/issues/stats",
			"GET /repository/{owner}/{repo}/issues/{number}",
			"POST /repository/{owner}/{repo}/issues/{number}/auto-fix",
			"GET /repository/{owner}/{repo}/prs",
			"GET /repository/{owner}/{repo}/prs/raw",
			"GET /repository/{owner}/{repo}/prs/stats",
			"POST /repository/{owner}/{repo}/prs",
			"PUT /repository/{owner}/{repo}/prs/{number}/merge",
		},
	})
}

// Health handles GET /health
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	h.respond(w, http.StatusOK, map[string]any{
		"status":           "healthy",
		"github_connected": h.githubConnected,
		"tools":            h.tools.ToolNames(),
		"auto_fix_tasks":   h.autofix.Count(),
	})
}

// RepositoryInfo handles GET /repository/{owner}/{repo}/info
func (h *Handler) RepositoryInfo(w http.ResponseWriter, r *http.Request) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")

	snap := h.snapshots.Snapshot(r.Context(), owner, repo)
	h.respond(w, http.StatusOK, map[string]any{
		"repository": snap.RepositoryName,
		"summary":    snap.Summary,
		"file_count": len(snap.Content),
		"tree":       snap.Tree,
	})
}

// ListAnalyzedIssues handles GET /issues
func (h *Handler) ListAnalyzedIssues(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)
	limit := h.limit(r)

	issues := h.issues.OpenIssues(r.Context(), owner, repo)
	if len(issues) == 0 {
		h.error(w, http.StatusNotFound, "No issues found in repository")
		return
	}
	if len(issues) > limit {
		issues = issues[:limit]
	}

	snap := h.snapshots.Snapshot(r.Context(), owner, repo)
	analyzed := h.analyzer.AnalyzeAll(r.Context(), snap, issues)

	h.respond(w, http.StatusOK, map[string]any{
		"repository":      owner + "/" + repo,
		"total_issues":    len(analyzed),
		"analyzed_issues": analyzed,
	})
}

// ListRawIssues handles GET /issues/raw
func (h *Handler) ListRawIssues(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)
	limit := h.limit(r)

	issues := h.issues.OpenIssues(r.Context(), owner, repo)
	if len(issues) > limit {
		issues = issues[:limit]
	}

	h.respond(w, http.StatusOK, map[string]any{
		"repository":   owner + "/" + repo,
		"total_issues": len(issues),
		"issues":       issues,
	})
}

// IssueStats handles GET /issues/stats
func (h *Handler) IssueStats(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)

	issues := h.issues.OpenIssues(r.Context(), owner, repo)

	labelCounts := map[string]int{}
	priorities := map[string]int{}
	for _, issue := range issues {
		priority := types.PriorityMedium
		for _, label := range issue.Labels {
			labelCounts[label.Name]++
			switch strings.ToLower(label.Name) {
			case "critical", "urgent", "high priority", "security":
				priority = types.PriorityHigh
			case "enhancement", "documentation", "good first issue":
				if priority != types.PriorityHigh {
					priority = types.PriorityLow
				}
			}
		}
		priorities[priority]++
	}

	h.respond(w, http.StatusOK, map[string]any{
		"repository":            owner + "/" + repo,
		"total_open_issues":     len(issues),
		"label_counts":          labelCounts,
		"priority_distribution": priorities,
	})
}

// GetAnalyzedIssue handles GET /issues/{number}
func (h *Handler) GetAnalyzedIssue(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		h.error(w, http.StatusBadRequest, "Invalid issue number")
		return
	}

	for _, issue := range h.issues.OpenIssues(r.Context(), owner, repo) {
		if issue.Number == number {
			snap := h.snapshots.Snapshot(r.Context(), owner, repo)
			h.respond(w, http.StatusOK, h.analyzer.Analyze(r.Context(), snap, issue))
			return
		}
	}
	h.error(w, http.StatusNotFound, fmt.Sprintf("Issue #%d not found", number))
}

// StartAutoFix handles POST /issues/{number}/auto-fix
func (h *Handler) StartAutoFix(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		h.error(w, http.StatusBadRequest, "Invalid issue number")
		return
	}

	// body is optional
	var req AutoFixRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}

	task := h.autofix.Submit(r.Context(), owner, repo, number, req.BranchName, req.CommitMessage)
	h.logger.Info("auto-fix task accepted",
		zap.String("task_id", task.ID),
		zap.String("repository", task.Repository),
		zap.Int("issue", number),
	)
	h.respond(w, http.StatusAccepted, task)
}

// GetAutoFixTask handles GET /auto-fix/{task_id}
func (h *Handler) GetAutoFixTask(w http.ResponseWriter, r *http.Request) {
	task, ok := h.autofix.Get(chi.URLParam(r, "task_id"))
	if !ok {
		h.error(w, http.StatusNotFound, "Auto-fix task not found")
		return
	}
	h.respond(w, http.StatusOK, task)
}

// ListPullRequests handles GET /prs
func (h *Handler) ListPullRequests(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)
	state := r.URL.Query().Get("state")
	if state == "" {
		state = "all"
	}
	limit := h.limit(r)

	prs := h.prs.PullRequests(r.Context(), owner, repo, state)
	if len(prs) > limit {
		prs = prs[:limit]
	}

	h.respond(w, http.StatusOK, map[string]any{
		"repository":    owner + "/" + repo,
		"state":         state,
		"total_prs":     len(prs),
		"pull_requests": prs,
	})
}

// ListRawPullRequests handles GET /prs/raw
func (h *Handler) ListRawPullRequests(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)

	prs := h.prs.PullRequests(r.Context(), owner, repo, "all")
	h.respond(w, http.StatusOK, prs)
}

// PullRequestStats handles GET /prs/stats
func (h *Handler) PullRequestStats(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)

	prs := h.prs.PullRequests(r.Context(), owner, repo, "all")

	states := map[string]int{}
	authors := map[string]int{}
	for _, pr := range prs {
		states[pr.State]++
		if pr.Author != "" {
			authors[pr.Author]++
		}
	}

	h.respond(w, http.StatusOK, map[string]any{
		"repository": owner + "/" + repo,
		"total_prs":  len(prs),
		"by_state":   states,
		"by_author":  authors,
	})
}

// CreatePullRequest handles POST /prs
func (h *Handler) CreatePullRequest(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)

	var req CreatePRRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.error(w, http.StatusBadRequest, "Invalid request body")
		return
	}
	if req.Base == "" {
		req.Base = "main"
	}

	if !h.tools.Available() {
		h.respond(w, http.StatusOK, mockPullRequest(owner, repo, req))
		return
	}

	results, err := h.tools.Execute(r.Context(), fmt.Sprintf(
		"Create a pull request on %s/%s with title %q, head branch %q, base branch %q, and body %q.",
		owner, repo, req.Title, req.Head, req.Base, req.Body))
	if err != nil {
		h.logger.Warn("pull request creation via tools failed, returning mock response", zap.Error(err))
		h.respond(w, http.StatusOK, mockPullRequest(owner, repo, req))
		return
	}

	data := toolkit.FirstData(results)
	if data == nil {
		h.error(w, http.StatusInternalServerError, "Failed to create pull request")
		return
	}
	h.respond(w, http.StatusCreated, data)
}

// MergePullRequest handles PUT /prs/{number}/merge
func (h *Handler) MergePullRequest(w http.ResponseWriter, r *http.Request) {
	owner, repo := h.target(r)

	number, err := strconv.Atoi(chi.URLParam(r, "number"))
	if err != nil {
		h.error(w, http.StatusBadRequest, "Invalid pull request number")
		return
	}

	var req MergePRRequest
	if r.Body != nil {
		_ = json.NewDecoder(r.Body).Decode(&req)
	}
	if req.MergeMethod == "" {
		req.MergeMethod = "merge"
	}

	results, err := h.tools.Execute(r.Context(), fmt.Sprintf(
		"Merge pull request #%d on %s/%s using the %s method with commit title %q and commit message %q.",
		number, owner, repo, req.MergeMethod, req.CommitTitle, req.CommitMessage))
	if err != nil {
		h.error(w, http.StatusInternalServerError, fmt.Sprintf("Failed to merge pull request: %v", err))
		return
	}

	data := toolkit.FirstData(results)
	if data == nil {
		h.error(w, http.StatusInternalServerError, "Failed to merge pull request")
		return
	}
	h.respond(w, http.StatusOK, data)
}

// RegisterRoutes registers REST API routes. The issue and PR routes are
// also exposed flat, bound to the configured demo repository.
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/", h.Root)
	r.Get("/health", h.Health)
	r.Get("/auto-fix/{task_id}", h.GetAutoFixTask)

	r.Route("/repository/{owner}/{repo}", func(r chi.Router) {
		r.Get("/info", h.RepositoryInfo)
		h.registerRepoRoutes(r)
	})
	h.registerRepoRoutes(r)
}

func (h *Handler) registerRepoRoutes(r chi.Router) {
	r.Get("/issues", h.ListAnalyzedIssues)
	r.Get("/issues/raw", h.ListRawIssues)
	r.Get("/issues/stats", h.IssueStats)
	r.Get("/issues/{number}", h.GetAnalyzedIssue)
	r.Post("/issues/{number}/auto-fix", h.StartAutoFix)
	r.Get("/prs", h.ListPullRequests)
	r.Get("/prs/raw", h.ListRawPullRequests)
	r.Get("/prs/stats", h.PullRequestStats)
	r.Post("/prs", h.CreatePullRequest)
	r.Put("/prs/{number}/merge", h.MergePullRequest)
}

func mockPullRequest(owner, repo string, req CreatePRRequest) map[string]any {
	return map[string]any{
		"number":   123,
		"title":    req.Title,
		"state":    "open",
		"html_url": fmt.Sprintf("https://github.com/%s/%s/pull/123", owner, repo),
		"mock":     true,
	}
}

// target resolves the repository the request addresses: the path parameters
// when present, otherwise the configured demo repository.
func (h *Handler) target(r *http.Request) (string, string) {
	owner := chi.URLParam(r, "owner")
	repo := chi.URLParam(r, "repo")
	if owner == "" {
		owner = h.defaultOwner
	}
	if repo == "" {
		repo = h.defaultRepo
	}
	return owner, repo
}

// limit parses the limit query parameter clamped to [1, maxIssueLimit].
func (h *Handler) limit(r *http.Request) int {
	raw := r.URL.Query().Get("limit")
	if raw == "" {
		return h.defaultIssueLimit
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 1 {
		return h.defaultIssueLimit
	}
	if n > h.maxIssueLimit {
		return h.maxIssueLimit
	}
	return n
}

func (h *Handler) respond(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.logger.Error("failed to encode response", zap.Error(err))
	}
}

func (h *Handler) error(w http.ResponseWriter, status int, detail string) {
	h.respond(w, status, map[string]string{"detail": detail})
}
