// Package frame defines the tabular value providers return: named columns
// over positional rows.
//
// A Table is plain data. Providers build one directly, or from a slice of
// records with [FromRecords]; the normalize package turns it into
// JSON-safe records for callers.
package frame
