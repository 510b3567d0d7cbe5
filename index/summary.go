package index

import "github.com/jonwraymond/docregistry/tooldoc"

// Summary is the search-result view of a record.
type Summary struct {
	// Name is the canonical ID with the standard prefix stripped.
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Params      []string `json:"params"`
	// ID is the full canonical ID.
	ID string `json:"full_name"`
}

// SummaryFor renders a record as a search result.
func SummaryFor(prefix string, rec tooldoc.Record) Summary {
	return Summary{
		Name:        tooldoc.DisplayName(prefix, rec.ID),
		Description: rec.Description,
		Category:    rec.Category,
		Params:      rec.ParamNames(),
		ID:          rec.ID,
	}
}
