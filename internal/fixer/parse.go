package fixer

import (
	"strings"
)

// Plan is a set of file contents to write and shell commands to run,
// parsed from a model response.
type Plan struct {
	Files    map[string]string
	Commands []string
}

// ParsePlan extracts file blocks and commands from a fenced response.
// A fence opening with "```file:<path>" starts a file block; the following
// lines up to the closing fence become that file's content, kept verbatim.
// Non-empty lines outside fences are treated as commands.
func ParsePlan(raw string) Plan {
	plan := Plan{Files: map[string]string{}}

	var (
		inFile   bool
		filePath string
		buf      []string
	)
	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inFile {
				plan.Files[filePath] = strings.Join(buf, "\n")
				inFile = false
				buf = nil
				continue
			}
			if rest, ok := strings.CutPrefix(trimmed, "```file:"); ok {
				filePath = strings.TrimSpace(rest)
				if filePath != "" {
					inFile = true
					buf = nil
				}
			}
			continue
		}

		if inFile {
			buf = append(buf, line)
			continue
		}
		if trimmed != "" {
			plan.Commands = append(plan.Commands, trimmed)
		}
	}
	if inFile && filePath != "" {
		plan.Files[filePath] = strings.Join(buf, "\n")
	}
	return plan
}

// SplitCommit splits a git commit command into its pre-message arguments
// and the commit message. The message is everything after the first " -m ",
// with one layer of surrounding quotes removed and escaped quotes restored.
// ok is false when the command has no -m flag.
func SplitCommit(command string) (args []string, message string, ok bool) {
	idx := strings.Index(command, " -m ")
	if idx < 0 {
		return nil, "", false
	}
	args = strings.Fields(command[:idx])
	message = unquote(strings.TrimSpace(command[idx+len(" -m "):]))
	return args, message, true
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			s = s[1 : len(s)-1]
		}
	}
	s = strings.ReplaceAll(s, `\"`, `"`)
	s = strings.ReplaceAll(s, `\'`, `'`)
	return s
}
