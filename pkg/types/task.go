package types

import (
	"time"
)

// TaskStatus is the lifecycle state of an auto-fix task.
type TaskStatus string

// Task statuses in order of normal progression. forking is entered only when
// the acting identity differs from the repository owner. failed is reachable
// from any state; partial_success only from creating_pr.
const (
	StatusPending        TaskStatus = "pending"
	StatusAnalyzing      TaskStatus = "analyzing"
	StatusForking        TaskStatus = "forking"
	StatusCloning        TaskStatus = "cloning"
	StatusFixing         TaskStatus = "fixing"
	StatusCreatingPR     TaskStatus = "creating_pr"
	StatusCompleted      TaskStatus = "completed"
	StatusFailed         TaskStatus = "failed"
	StatusPartialSuccess TaskStatus = "partial_success"
)

// Terminal reports whether the status is a pipeline end state.
func (s TaskStatus) Terminal() bool {
	switch s {
	case StatusCompleted, StatusFailed, StatusPartialSuccess:
		return true
	}
	return false
}

// AutoFixTask tracks one auto-fix attempt through the pipeline. A task is
// created when a request is accepted and advanced by the background pipeline;
// its terminal status plus the error and pr_url fields are the authoritative
// outcome signal.
type AutoFixTask struct {
	ID          string     `json:"task_id"`
	Status      TaskStatus `json:"status"`
	Repository  string     `json:"repository"`
	IssueNumber int        `json:"issue_number"`
	BranchName  string     `json:"branch_name,omitempty"`
	PRURL       string     `json:"pr_url,omitempty"`
	Error       string     `json:"error,omitempty"`
	CreatedAt   time.Time  `json:"-"`
}
