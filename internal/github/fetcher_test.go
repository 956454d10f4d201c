package github

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sujikathir/gdev/pkg/types"
)

type failingIssueSource struct{}

func (failingIssueSource) OpenIssues(ctx context.Context, owner, repo string) ([]types.Issue, error) {
	return nil, fmt.Errorf("upstream unavailable")
}

type hangingIssueSource struct{}

func (hangingIssueSource) OpenIssues(ctx context.Context, owner, repo string) ([]types.Issue, error) {
	<-ctx.Done()
	return nil, ctx.Err()
}

type failingPRSource struct{}

func (failingPRSource) PullRequests(ctx context.Context, owner, repo, state string) ([]types.PullRequest, error) {
	return nil, fmt.Errorf("upstream unavailable")
}

func TestFetcherFallsBackOnError(t *testing.T) {
	f := NewFetcher(failingIssueSource{}, failingPRSource{}, time.Second, zap.NewNop())

	issues := f.OpenIssues(context.Background(), "o", "r")
	require.NotNil(t, issues)
	assert.Equal(t, SampleIssues(), issues)

	prs := f.PullRequests(context.Background(), "o", "r", "all")
	require.NotNil(t, prs)
	assert.Equal(t, SamplePullRequests(), prs)
}

func TestFetcherFallsBackOnTimeout(t *testing.T) {
	f := NewFetcher(hangingIssueSource{}, failingPRSource{}, 50*time.Millisecond, zap.NewNop())

	start := time.Now()
	issues := f.OpenIssues(context.Background(), "o", "r")
	require.NotNil(t, issues)
	assert.Equal(t, SampleIssues(), issues)
	assert.Less(t, time.Since(start), 2*time.Second)
}

func TestFixtureSources(t *testing.T) {
	issues, err := FixtureIssueSource{}.OpenIssues(context.Background(), "o", "r")
	require.NoError(t, err)
	require.Len(t, issues, 3)
	assert.Equal(t, 1, issues[0].Number)
	assert.Equal(t, "open", issues[0].State)

	prs, err := FixturePullRequestSource{}.PullRequests(context.Background(), "o", "r", "all")
	require.NoError(t, err)
	require.Len(t, prs, 3)
	assert.Equal(t, "merged", prs[2].State)
}
