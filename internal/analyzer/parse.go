package analyzer

import (
	"strings"

	"github.com/sujikathir/gdev/pkg/types"
)

// ParseSections splits a free-form analysis response into its analysis and
// solution sections and extracts the priority and complexity levels.
// Unlabeled responses land entirely in the analysis section, missing levels
// default to medium, and an empty solution section is replaced with a pointer
// to the analysis.
func ParseSections(raw string) (analysis, solution, priority, complexity string) {
	priority = types.PriorityMedium
	complexity = types.ComplexityMedium

	var analysisParts, solutionParts []string
	current := "analysis"

	for _, line := range strings.Split(raw, "\n") {
		trimmed := strings.TrimSpace(line)
		if trimmed == "" {
			continue
		}
		lower := strings.ToLower(trimmed)

		switch {
		case strings.Contains(lower, "suggested solution") ||
			strings.Contains(lower, "solution steps") ||
			strings.Contains(lower, "solution:"):
			current = "solution"

		case strings.Contains(lower, "priority") &&
			(strings.Contains(lower, ":") || strings.Contains(lower, "level")):
			priority = parsePriority(lower)

		case strings.Contains(lower, "complexity") &&
			(strings.Contains(lower, ":") || strings.Contains(lower, "level")):
			complexity = parseComplexity(lower)

		// headings can steer sections above, but are never content
		case strings.HasPrefix(trimmed, "##"):

		case current == "solution":
			solutionParts = append(solutionParts, trimmed)

		default:
			analysisParts = append(analysisParts, trimmed)
		}
	}

	analysis = strings.Join(analysisParts, " ")
	solution = strings.Join(solutionParts, " ")
	if analysis == "" {
		analysis = strings.TrimSpace(raw)
	}
	if solution == "" {
		solution = "Solution analysis included in main analysis"
	}
	return analysis, solution, priority, complexity
}

func parsePriority(lower string) string {
	rest := strings.Replace(lower, "priority", "", 1)
	switch {
	case strings.Contains(rest, "high"):
		return types.PriorityHigh
	case strings.Contains(rest, "low"):
		return types.PriorityLow
	default:
		return types.PriorityMedium
	}
}

// parseComplexity removes the marker word before matching so that the
// "complex" inside "complexity" never counts as a classification.
func parseComplexity(lower string) string {
	rest := strings.Replace(lower, "complexity", "", 1)
	switch {
	case strings.Contains(rest, "simple"):
		return types.ComplexitySimple
	case strings.Contains(rest, "complex"):
		return types.ComplexityComplex
	default:
		return types.ComplexityMedium
	}
}
