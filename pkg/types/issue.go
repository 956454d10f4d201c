package types

import (
	"time"
)

// Label is a GitHub issue or pull request label.
type Label struct {
	Name string `json:"name"`
}

// Issue is a GitHub issue as returned by the hosting API. Issues are
// read-only to this system; they are never mutated here.
type Issue struct {
	Number    int       `json:"number"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	State     string    `json:"state"`
	Labels    []Label   `json:"labels"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// PullRequest is the projection of a GitHub pull request used by the
// listing and creation endpoints.
type PullRequest struct {
	Number     int       `json:"number"`
	Title      string    `json:"title"`
	Body       string    `json:"body"`
	State      string    `json:"state"`
	HTMLURL    string    `json:"html_url,omitempty"`
	Author     string    `json:"author"`
	HeadBranch string    `json:"head_branch"`
	BaseBranch string    `json:"base_branch"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// MergeResult describes the outcome of merging a pull request.
type MergeResult struct {
	Merged      bool   `json:"merged"`
	Message     string `json:"message"`
	SHA         string `json:"sha"`
	Number      int    `json:"number"`
	Title       string `json:"title"`
	MergeMethod string `json:"merge_method"`
}

// ForkInfo identifies a fork created for the acting user.
type ForkInfo struct {
	Owner string `json:"owner"`
	Name  string `json:"name"`
}
