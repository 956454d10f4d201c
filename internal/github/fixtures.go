package github

import (
	"time"

	"github.com/sujikathir/gdev/pkg/types"
)

// SampleIssues is the fixed fallback issue set served when live data is
// unavailable.
func SampleIssues() []types.Issue {
	return []types.Issue{
		{
			Number:    1,
			Title:     "Sample Issue - Database Schema Update",
			Body:      "We need to update the database schema to include new fields for user preferences.",
			State:     "open",
			Labels:    []types.Label{{Name: "enhancement"}, {Name: "database"}},
			CreatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			Number:    2,
			Title:     "Bug Fix - Authentication Error",
			Body:      "Users are experiencing authentication errors when logging in with OAuth providers.",
			State:     "open",
			Labels:    []types.Label{{Name: "bug"}, {Name: "high-priority"}},
			CreatedAt: time.Date(2024, 1, 14, 15, 30, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 14, 16, 45, 0, 0, time.UTC),
		},
		{
			Number:    3,
			Title:     "Feature Request - API Rate Limiting",
			Body:      "Implement rate limiting for the REST API endpoints to prevent abuse.",
			State:     "open",
			Labels:    []types.Label{{Name: "feature"}, {Name: "api"}},
			CreatedAt: time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC),
			UpdatedAt: time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC),
		},
	}
}

// SamplePullRequests is the fixed fallback pull request set served when live
// data is unavailable.
func SamplePullRequests() []types.PullRequest {
	return []types.PullRequest{
		{
			Number:     1,
			Title:      "Add new feature - User authentication",
			Body:       "This PR adds user authentication functionality with OAuth support.",
			State:      "open",
			Author:     "developer1",
			HeadBranch: "feature/auth",
			BaseBranch: "main",
			CreatedAt:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 1, 15, 10, 0, 0, 0, time.UTC),
		},
		{
			Number:     2,
			Title:      "Fix bug - Database connection timeout",
			Body:       "Fixes the database connection timeout issue in production.",
			State:      "open",
			Author:     "developer2",
			HeadBranch: "fix/db-timeout",
			BaseBranch: "main",
			CreatedAt:  time.Date(2024, 1, 14, 15, 30, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 1, 14, 16, 45, 0, 0, time.UTC),
		},
		{
			Number:     3,
			Title:      "Update documentation",
			Body:       "Updates the API documentation with new endpoints.",
			State:      "merged",
			Author:     "developer3",
			HeadBranch: "docs/update",
			BaseBranch: "main",
			CreatedAt:  time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC),
			UpdatedAt:  time.Date(2024, 1, 13, 9, 15, 0, 0, time.UTC),
		},
	}
}
