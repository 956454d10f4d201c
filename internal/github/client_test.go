package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	gogithub "github.com/google/go-github/v57/github"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := &Client{api: gogithub.NewClient(nil), logger: zap.NewNop()}
	base, err := url.Parse(srv.URL + "/")
	require.NoError(t, err)
	c.api.BaseURL = base
	return c
}

func TestListOpenIssuesPaginates(t *testing.T) {
	var pagesServed []string
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/octocat/Hello-World/issues", func(w http.ResponseWriter, r *http.Request) {
		page := r.URL.Query().Get("page")
		pagesServed = append(pagesServed, page)
		assert.Equal(t, "open", r.URL.Query().Get("state"))
		assert.Equal(t, "100", r.URL.Query().Get("per_page"))

		var issues []map[string]any
		if page == "1" || page == "" {
			for i := 1; i <= 100; i++ {
				issues = append(issues, map[string]any{
					"number": i,
					"title":  fmt.Sprintf("issue %d", i),
					"state":  "open",
				})
			}
		} else {
			issues = append(issues, map[string]any{
				"number": 101,
				"title":  "issue 101",
				"state":  "open",
				"labels": []map[string]any{{"name": "bug"}},
			})
		}
		w.Header().Set("Content-Type", "application/json")
		require.NoError(t, json.NewEncoder(w).Encode(issues))
	})

	c := testClient(t, mux)
	issues, err := c.ListOpenIssues(context.Background(), "octocat", "Hello-World")
	require.NoError(t, err)

	assert.Len(t, issues, 101)
	assert.Len(t, pagesServed, 2)
	assert.Equal(t, 101, issues[100].Number)
	assert.Equal(t, []string{"bug"}, func() []string {
		var names []string
		for _, l := range issues[100].Labels {
			names = append(names, l.Name)
		}
		return names
	}())
}

func TestListOpenIssuesShortFirstPage(t *testing.T) {
	calls := 0
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/issues", func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[{"number": 7, "title": "only one", "state": "open"}]`)
	})

	c := testClient(t, mux)
	issues, err := c.ListOpenIssues(context.Background(), "o", "r")
	require.NoError(t, err)
	assert.Len(t, issues, 1)
	assert.Equal(t, 1, calls)
}

func TestDefaultBranch(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"name": "r", "default_branch": "develop"}`)
	})

	c := testClient(t, mux)
	assert.Equal(t, "develop", c.DefaultBranch(context.Background(), "o", "r"))
}

func TestDefaultBranchFallsBackToMain(t *testing.T) {
	t.Run("request fails", func(t *testing.T) {
		c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, "nope", http.StatusInternalServerError)
		}))
		assert.Equal(t, "main", c.DefaultBranch(context.Background(), "o", "r"))
	})

	t.Run("field absent", func(t *testing.T) {
		mux := http.NewServeMux()
		mux.HandleFunc("/repos/o/r", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{"name": "r"}`)
		})
		c := testClient(t, mux)
		assert.Equal(t, "main", c.DefaultBranch(context.Background(), "o", "r"))
	})
}

func TestListPullRequestsMarksMerged(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/repos/o/r/pulls", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `[
			{"number": 1, "title": "open pr", "state": "open", "user": {"login": "a"}, "head": {"ref": "x"}, "base": {"ref": "main"}},
			{"number": 2, "title": "merged pr", "state": "closed", "merged_at": "2024-01-15T10:00:00Z", "user": {"login": "b"}, "head": {"ref": "y"}, "base": {"ref": "main"}}
		]`)
	})

	c := testClient(t, mux)
	prs, err := c.ListPullRequests(context.Background(), "o", "r", "all")
	require.NoError(t, err)
	require.Len(t, prs, 2)
	assert.Equal(t, "open", prs[0].State)
	assert.Equal(t, "merged", prs[1].State)
	assert.Equal(t, "b", prs[1].Author)
	assert.Equal(t, "y", prs[1].HeadBranch)
}
