package types

// Priority levels assigned by the issue analyzer.
const (
	PriorityHigh   = "High"
	PriorityMedium = "Medium"
	PriorityLow    = "Low"
)

// Complexity levels assigned by the issue analyzer.
const (
	ComplexitySimple  = "Simple"
	ComplexityMedium  = "Medium"
	ComplexityComplex = "Complex"
)

// IssueAnalysis is the structured result of analyzing one issue against a
// repository snapshot. Created once per issue and immutable thereafter.
type IssueAnalysis struct {
	IssueID           int    `json:"issue_id"`
	Title             string `json:"title"`
	Body              string `json:"body"`
	Analysis          string `json:"analysis"`
	SuggestedSolution string `json:"suggested_solution"`
	Priority          string `json:"priority"`
	Complexity        string `json:"complexity"`
}
