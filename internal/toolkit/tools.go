package toolkit

import (
	openai "github.com/sashabaranov/go-openai"
	"github.com/sashabaranov/go-openai/jsonschema"
)

var toolDefinitions = []openai.Tool{
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "list_issues",
			Description: "List open issues for a GitHub repository",
			Parameters:  repoParams(nil),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "fork_repository",
			Description: "Fork a GitHub repository to the authenticated user's account",
			Parameters:  repoParams(nil),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "create_pull_request",
			Description: "Create a pull request on a GitHub repository",
			Parameters: repoParams(map[string]jsonschema.Definition{
				"title": {Type: jsonschema.String, Description: "Pull request title"},
				"body":  {Type: jsonschema.String, Description: "Pull request body"},
				"head":  {Type: jsonschema.String, Description: "Head branch, user:branch for cross fork"},
				"base":  {Type: jsonschema.String, Description: "Base branch"},
			}, "title", "head", "base"),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "list_pull_requests",
			Description: "List pull requests for a GitHub repository",
			Parameters: repoParams(map[string]jsonschema.Definition{
				"state": {Type: jsonschema.String, Description: "open, closed, or all"},
			}),
		},
	},
	{
		Type: openai.ToolTypeFunction,
		Function: &openai.FunctionDefinition{
			Name:        "merge_pull_request",
			Description: "Merge a pull request",
			Parameters: repoParams(map[string]jsonschema.Definition{
				"number":         {Type: jsonschema.Integer, Description: "Pull request number"},
				"commit_title":   {Type: jsonschema.String, Description: "Merge commit title"},
				"commit_message": {Type: jsonschema.String, Description: "Merge commit message"},
				"merge_method":   {Type: jsonschema.String, Description: "merge, squash, or rebase"},
			}, "number"),
		},
	},
}

// repoParams builds a schema with the common owner/repo properties plus any
// extras. extraRequired lists required keys beyond owner and repo.
func repoParams(extra map[string]jsonschema.Definition, extraRequired ...string) jsonschema.Definition {
	props := map[string]jsonschema.Definition{
		"owner": {Type: jsonschema.String, Description: "Repository owner"},
		"repo":  {Type: jsonschema.String, Description: "Repository name"},
	}
	for k, v := range extra {
		props[k] = v
	}
	return jsonschema.Definition{
		Type:       jsonschema.Object,
		Properties: props,
		Required:   append([]string{"owner", "repo"}, extraRequired...),
	}
}
