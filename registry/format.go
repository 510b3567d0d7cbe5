package registry

import (
	"fmt"
	"strings"

	"github.com/jonwraymond/docregistry/index"
)

// FormatSearchResults renders results as a numbered plain-text list.
func FormatSearchResults(keyword string, results index.Results) string {
	if len(results) == 0 {
		return fmt.Sprintf("No functions match %q, try another keyword.", keyword)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Found %d matching functions:\n\n", len(results))
	for i, r := range results {
		fmt.Fprintf(&b, "%d. **%s**\n", i+1, r.ID)
		fmt.Fprintf(&b, "   Description: %s\n", r.Description)
		fmt.Fprintf(&b, "   Category: %s\n", r.Category)
		if len(r.Params) > 0 {
			fmt.Fprintf(&b, "   Params: %s\n", strings.Join(r.Params, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}
