package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/sujikathir/gdev/pkg/types"
)

func TestTaskFinishedPostsPayload(t *testing.T) {
	var payload map[string]string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&payload))
	}))
	defer srv.Close()

	n := NewSlackNotifier(srv.URL, zap.NewNop())
	n.TaskFinished(context.Background(), types.AutoFixTask{
		ID:          "t1",
		Status:      types.StatusCompleted,
		Repository:  "octocat/Hello-World",
		IssueNumber: 3,
		PRURL:       "https://github.com/octocat/Hello-World/pull/9",
	})

	require.Contains(t, payload, "text")
	assert.Contains(t, payload["text"], "issue #3")
	assert.Contains(t, payload["text"], "pull/9")
}

func TestTaskFinishedNoWebhookIsNoop(t *testing.T) {
	n := NewSlackNotifier("", zap.NewNop())
	n.TaskFinished(context.Background(), types.AutoFixTask{ID: "t1", Status: types.StatusFailed})
}

func TestFormatTask(t *testing.T) {
	failed := formatTask(types.AutoFixTask{
		Status:      types.StatusFailed,
		Repository:  "o/r",
		IssueNumber: 1,
		Error:       "issue #1 not found in repository o/r",
	})
	assert.Contains(t, failed, "failed")
	assert.Contains(t, failed, "not found")

	partial := formatTask(types.AutoFixTask{
		Status:      types.StatusPartialSuccess,
		Repository:  "o/r",
		IssueNumber: 2,
		BranchName:  "fix/issue-2-abc",
		Error:       "Fixed issue but failed to create PR: validation failed",
	})
	assert.Contains(t, partial, "fix/issue-2-abc")
	assert.Contains(t, partial, "could not open a PR")
}
