package toolkit

import (
	"context"
	"encoding/json"
	"fmt"

	openai "github.com/sashabaranov/go-openai"
	"go.uber.org/zap"

	"github.com/sujikathir/gdev/pkg/types"
)

// Result is the outcome of executing a single tool call.
type Result struct {
	Successful bool           `json:"successful"`
	Tool       string         `json:"tool"`
	Error      string         `json:"error,omitempty"`
	Data       map[string]any `json:"data,omitempty"`
}

// GitHubAPI is the subset of GitHub operations the toolkit can dispatch to.
type GitHubAPI interface {
	ListOpenIssues(ctx context.Context, owner, repo string) ([]types.Issue, error)
	CreateFork(ctx context.Context, owner, repo string) (types.ForkInfo, error)
	CreatePullRequest(ctx context.Context, owner, repo, title, body, head, base string) (types.PullRequest, error)
	ListPullRequests(ctx context.Context, owner, repo, state string) ([]types.PullRequest, error)
	MergePullRequest(ctx context.Context, owner, repo string, number int, commitTitle, commitMessage, method string) (types.MergeResult, error)
}

// Toolkit executes natural-language instructions by translating them into
// GitHub operations.
type Toolkit interface {
	Available() bool
	ToolNames() []string
	Execute(ctx context.Context, instruction string) ([]Result, error)
}

// GitHubToolkit asks the model to pick tool calls for an instruction and
// dispatches them against the GitHub API.
type GitHubToolkit struct {
	llm    *openai.Client
	model  string
	api    GitHubAPI
	logger *zap.Logger
}

// NewGitHubToolkit creates a live toolkit. model falls back to GPT-4o when
// empty.
func NewGitHubToolkit(llm *openai.Client, model string, api GitHubAPI, logger *zap.Logger) *GitHubToolkit {
	if model == "" {
		model = openai.GPT4o
	}
	return &GitHubToolkit{llm: llm, model: model, api: api, logger: logger}
}

func (t *GitHubToolkit) Available() bool { return true }

func (t *GitHubToolkit) ToolNames() []string {
	names := make([]string, 0, len(toolDefinitions))
	for _, d := range toolDefinitions {
		names = append(names, d.Function.Name)
	}
	return names
}

// Execute sends the instruction to the model with the tool catalog attached
// and runs every tool call the model selects.
func (t *GitHubToolkit) Execute(ctx context.Context, instruction string) ([]Result, error) {
	resp, err := t.llm.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: t.model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role:    openai.ChatMessageRoleSystem,
				Content: "You translate instructions into GitHub tool calls. Always call exactly the tools needed.",
			},
			{Role: openai.ChatMessageRoleUser, Content: instruction},
		},
		Tools:      toolDefinitions,
		ToolChoice: "required",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to resolve instruction to tool calls: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("no completion choices returned")
	}

	calls := resp.Choices[0].Message.ToolCalls
	if len(calls) == 0 {
		return nil, fmt.Errorf("model selected no tools for instruction")
	}

	results := make([]Result, 0, len(calls))
	for _, call := range calls {
		results = append(results, t.dispatch(ctx, call))
	}
	return results, nil
}

func (t *GitHubToolkit) dispatch(ctx context.Context, call openai.ToolCall) Result {
	name := call.Function.Name
	t.logger.Info("dispatching tool call", zap.String("tool", name))

	var args struct {
		Owner         string `json:"owner"`
		Repo          string `json:"repo"`
		Title         string `json:"title"`
		Body          string `json:"body"`
		Head          string `json:"head"`
		Base          string `json:"base"`
		State         string `json:"state"`
		Number        int    `json:"number"`
		CommitTitle   string `json:"commit_title"`
		CommitMessage string `json:"commit_message"`
		MergeMethod   string `json:"merge_method"`
	}
	if err := json.Unmarshal([]byte(call.Function.Arguments), &args); err != nil {
		return Result{Tool: name, Error: fmt.Sprintf("invalid tool arguments: %v", err)}
	}

	var (
		data any
		err  error
	)
	switch name {
	case "list_issues":
		data, err = t.api.ListOpenIssues(ctx, args.Owner, args.Repo)
	case "fork_repository":
		data, err = t.api.CreateFork(ctx, args.Owner, args.Repo)
	case "create_pull_request":
		data, err = t.api.CreatePullRequest(ctx, args.Owner, args.Repo, args.Title, args.Body, args.Head, args.Base)
	case "list_pull_requests":
		data, err = t.api.ListPullRequests(ctx, args.Owner, args.Repo, args.State)
	case "merge_pull_request":
		data, err = t.api.MergePullRequest(ctx, args.Owner, args.Repo, args.Number, args.CommitTitle, args.CommitMessage, args.MergeMethod)
	default:
		return Result{Tool: name, Error: fmt.Sprintf("unknown tool %q", name)}
	}
	if err != nil {
		return Result{Tool: name, Error: err.Error()}
	}
	return Result{Successful: true, Tool: name, Data: asMap(data)}
}

// asMap flattens a typed value into a generic map through JSON. List results
// are wrapped under an "items" key.
func asMap(v any) map[string]any {
	b, err := json.Marshal(v)
	if err != nil {
		return nil
	}
	var m map[string]any
	if err := json.Unmarshal(b, &m); err == nil {
		return m
	}
	var list []any
	if err := json.Unmarshal(b, &list); err == nil {
		return map[string]any{"items": list}
	}
	return nil
}

// FirstData returns the data of the first successful result, or nil.
func FirstData(results []Result) map[string]any {
	for _, r := range results {
		if r.Successful {
			return r.Data
		}
	}
	return nil
}

// Disabled is the degraded toolkit used when credentials are missing.
type Disabled struct{}

func (Disabled) Available() bool     { return false }
func (Disabled) ToolNames() []string { return nil }

func (Disabled) Execute(ctx context.Context, instruction string) ([]Result, error) {
	return nil, nil
}
