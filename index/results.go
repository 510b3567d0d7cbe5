package index

// Results is a slice of Summary with helper methods.
type Results []Summary

// IDs returns just the canonical IDs from the results.
func (r Results) IDs() []string {
	ids := make([]string, len(r))
	for i, s := range r {
		ids[i] = s.ID
	}
	return ids
}

// FilterByCategory returns results in the given category.
func (r Results) FilterByCategory(category string) Results {
	var filtered Results
	for _, s := range r {
		if s.Category == category {
			filtered = append(filtered, s)
		}
	}
	return filtered
}
