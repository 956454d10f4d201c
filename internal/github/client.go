package github

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/google/go-github/v57/github"
	"go.uber.org/zap"
	"golang.org/x/oauth2"

	"github.com/sujikathir/gdev/pkg/types"
)

const perPage = 100

// Client wraps the GitHub REST API for the narrow needs of this service:
// paginated issue listing, default-branch resolution, forks, and pull
// request operations.
type Client struct {
	api    *github.Client
	logger *zap.Logger
}

// NewClient creates a GitHub client. An empty access token yields an
// unauthenticated client, which is enough for public-repository reads.
func NewClient(ctx context.Context, accessToken string, logger *zap.Logger) *Client {
	var hc *http.Client
	if accessToken != "" {
		ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: accessToken})
		hc = oauth2.NewClient(ctx, ts)
	}
	return &Client{
		api:    github.NewClient(hc),
		logger: logger,
	}
}

// ListOpenIssues returns all open issues for a repository, following
// pagination until a short or empty page is returned.
func (c *Client) ListOpenIssues(ctx context.Context, owner, repo string) ([]types.Issue, error) {
	var all []types.Issue
	for page := 1; ; page++ {
		issues, _, err := c.api.Issues.ListByRepo(ctx, owner, repo, &github.IssueListByRepoOptions{
			State:       "open",
			ListOptions: github.ListOptions{PerPage: perPage, Page: page},
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list issues: %w", err)
		}
		for _, is := range issues {
			all = append(all, convertIssue(is))
		}
		if len(issues) < perPage {
			break
		}
	}
	c.logger.Debug("fetched open issues",
		zap.String("repository", owner+"/"+repo),
		zap.Int("count", len(all)),
	)
	return all, nil
}

// DefaultBranch resolves a repository's default branch, falling back to
// "main" when the lookup fails or the field is absent.
func (c *Client) DefaultBranch(ctx context.Context, owner, repo string) string {
	r, _, err := c.api.Repositories.Get(ctx, owner, repo)
	if err != nil {
		c.logger.Warn("could not resolve default branch",
			zap.String("repository", owner+"/"+repo),
			zap.Error(err),
		)
		return "main"
	}
	if r.GetDefaultBranch() == "" {
		return "main"
	}
	return r.GetDefaultBranch()
}

// CreateFork forks a repository to the acting user's account. GitHub performs
// forks asynchronously; an AcceptedError still carries the fork.
func (c *Client) CreateFork(ctx context.Context, owner, repo string) (types.ForkInfo, error) {
	f, _, err := c.api.Repositories.CreateFork(ctx, owner, repo, nil)
	if err != nil {
		var accepted *github.AcceptedError
		if !errors.As(err, &accepted) || f == nil {
			return types.ForkInfo{}, fmt.Errorf("failed to fork repository: %w", err)
		}
	}
	info := types.ForkInfo{
		Owner: f.GetOwner().GetLogin(),
		Name:  f.GetName(),
	}
	c.logger.Info("forked repository",
		zap.String("upstream", owner+"/"+repo),
		zap.String("fork", info.Owner+"/"+info.Name),
	)
	return info, nil
}

// ListPullRequests lists pull requests for a repository. state is "open",
// "closed", or "all"; merged pull requests are reported with state "merged".
func (c *Client) ListPullRequests(ctx context.Context, owner, repo, state string) ([]types.PullRequest, error) {
	if state == "" {
		state = "all"
	}
	prs, _, err := c.api.PullRequests.List(ctx, owner, repo, &github.PullRequestListOptions{
		State:       state,
		ListOptions: github.ListOptions{PerPage: perPage},
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list pull requests: %w", err)
	}
	out := make([]types.PullRequest, 0, len(prs))
	for _, pr := range prs {
		out = append(out, convertPullRequest(pr))
	}
	return out, nil
}

// CreatePullRequest opens a pull request with an explicit head and base.
func (c *Client) CreatePullRequest(ctx context.Context, owner, repo, title, body, head, base string) (types.PullRequest, error) {
	pr, _, err := c.api.PullRequests.Create(ctx, owner, repo, &github.NewPullRequest{
		Title: github.String(title),
		Body:  github.String(body),
		Head:  github.String(head),
		Base:  github.String(base),
	})
	if err != nil {
		return types.PullRequest{}, fmt.Errorf("failed to create pull request: %w", err)
	}
	created := convertPullRequest(pr)
	c.logger.Info("created pull request",
		zap.String("repository", owner+"/"+repo),
		zap.Int("number", created.Number),
		zap.String("url", created.HTMLURL),
	)
	return created, nil
}

// MergePullRequest merges a pull request. method is "merge", "squash", or
// "rebase".
func (c *Client) MergePullRequest(ctx context.Context, owner, repo string, number int, commitTitle, commitMessage, method string) (types.MergeResult, error) {
	if method == "" {
		method = "merge"
	}
	res, _, err := c.api.PullRequests.Merge(ctx, owner, repo, number, commitMessage, &github.PullRequestOptions{
		CommitTitle: commitTitle,
		MergeMethod: method,
	})
	if err != nil {
		return types.MergeResult{}, fmt.Errorf("failed to merge pull request: %w", err)
	}
	return types.MergeResult{
		Merged:      res.GetMerged(),
		Message:     res.GetMessage(),
		SHA:         res.GetSHA(),
		Number:      number,
		MergeMethod: method,
	}, nil
}

func convertIssue(is *github.Issue) types.Issue {
	out := types.Issue{
		Number:    is.GetNumber(),
		Title:     is.GetTitle(),
		Body:      is.GetBody(),
		State:     is.GetState(),
		CreatedAt: is.GetCreatedAt().Time,
		UpdatedAt: is.GetUpdatedAt().Time,
	}
	for _, l := range is.Labels {
		out.Labels = append(out.Labels, types.Label{Name: l.GetName()})
	}
	return out
}

func convertPullRequest(pr *github.PullRequest) types.PullRequest {
	state := pr.GetState()
	if pr.MergedAt != nil {
		state = "merged"
	}
	return types.PullRequest{
		Number:     pr.GetNumber(),
		Title:      pr.GetTitle(),
		Body:       pr.GetBody(),
		State:      state,
		HTMLURL:    pr.GetHTMLURL(),
		Author:     pr.GetUser().GetLogin(),
		HeadBranch: pr.GetHead().GetRef(),
		BaseBranch: pr.GetBase().GetRef(),
		CreatedAt:  pr.GetCreatedAt().Time,
		UpdatedAt:  pr.GetUpdatedAt().Time,
	}
}
