package github

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/sujikathir/gdev/pkg/types"
)

// IssueSource supplies open issues for a repository.
type IssueSource interface {
	OpenIssues(ctx context.Context, owner, repo string) ([]types.Issue, error)
}

// PullRequestSource supplies pull requests for a repository.
type PullRequestSource interface {
	PullRequests(ctx context.Context, owner, repo, state string) ([]types.PullRequest, error)
}

// LiveIssueSource reads issues from the GitHub API.
type LiveIssueSource struct {
	Client *Client
}

func (s *LiveIssueSource) OpenIssues(ctx context.Context, owner, repo string) ([]types.Issue, error) {
	return s.Client.ListOpenIssues(ctx, owner, repo)
}

// LivePullRequestSource reads pull requests from the GitHub API.
type LivePullRequestSource struct {
	Client *Client
}

func (s *LivePullRequestSource) PullRequests(ctx context.Context, owner, repo, state string) ([]types.PullRequest, error) {
	return s.Client.ListPullRequests(ctx, owner, repo, state)
}

// FixtureIssueSource serves the built-in sample issues. It is wired in when
// no GitHub credentials are configured, keeping the service demoable.
type FixtureIssueSource struct{}

func (FixtureIssueSource) OpenIssues(ctx context.Context, owner, repo string) ([]types.Issue, error) {
	return SampleIssues(), nil
}

// FixturePullRequestSource serves the built-in sample pull requests.
type FixturePullRequestSource struct{}

func (FixturePullRequestSource) PullRequests(ctx context.Context, owner, repo, state string) ([]types.PullRequest, error) {
	return SamplePullRequests(), nil
}

// Fetcher retrieves issues and pull requests with a hard per-call timeout.
// Both operations are total: on any source failure or timeout the sample
// data set is returned instead, so callers always receive a value and never
// an error.
type Fetcher struct {
	issues  IssueSource
	prs     PullRequestSource
	timeout time.Duration
	logger  *zap.Logger
}

// NewFetcher creates a fetcher over the given sources.
func NewFetcher(issues IssueSource, prs PullRequestSource, timeout time.Duration, logger *zap.Logger) *Fetcher {
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &Fetcher{
		issues:  issues,
		prs:     prs,
		timeout: timeout,
		logger:  logger,
	}
}

// OpenIssues returns the open issues for a repository, or the sample set on
// failure.
func (f *Fetcher) OpenIssues(ctx context.Context, owner, repo string) []types.Issue {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	issues, err := f.issues.OpenIssues(ctx, owner, repo)
	if err != nil {
		f.logger.Warn("issue fetch failed, using sample data",
			zap.String("repository", owner+"/"+repo),
			zap.Error(err),
		)
		return SampleIssues()
	}
	return issues
}

// PullRequests returns pull requests for a repository, or the sample set on
// failure.
func (f *Fetcher) PullRequests(ctx context.Context, owner, repo, state string) []types.PullRequest {
	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	prs, err := f.prs.PullRequests(ctx, owner, repo, state)
	if err != nil {
		f.logger.Warn("pull request fetch failed, using sample data",
			zap.String("repository", owner+"/"+repo),
			zap.Error(err),
		)
		return SamplePullRequests()
	}
	return prs
}
