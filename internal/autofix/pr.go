package autofix

import (
	"fmt"

	"github.com/sujikathir/gdev/pkg/types"
)

// GeneratePRTitle builds the pull request title for a fixed issue.
func GeneratePRTitle(issue types.Issue) string {
	return fmt.Sprintf("Fix issue #%d: %s", issue.Number, issue.Title)
}

// GeneratePRBody builds the pull request body for a fixed issue.
func GeneratePRBody(issue types.Issue) string {
	return fmt.Sprintf("This PR addresses issue #%d\n\nAutomatic fix generated by GDev.", issue.Number)
}
