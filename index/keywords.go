package index

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/width"

	"github.com/jonwraymond/docregistry/tooldoc"
)

var wordPattern = regexp.MustCompile(`[\p{L}\p{N}_]+`)

// Fold normalizes text for keyword comparison: fullwidth forms become
// their narrow equivalents and letters are lower-cased.
func Fold(s string) string {
	return cases.Lower(language.Und).String(width.Fold.String(s))
}

// Tokenize splits a query on whitespace after folding it. Repeated tokens
// are returned once, in first-seen order.
func Tokenize(query string) []string {
	fields := strings.Fields(Fold(query))
	seen := make(map[string]struct{}, len(fields))
	out := fields[:0]
	for _, f := range fields {
		if _, ok := seen[f]; ok {
			continue
		}
		seen[f] = struct{}{}
		out = append(out, f)
	}
	return out
}

// Keywords returns the folded keyword set a record contributes to the
// index: category, bare name, description words and parameter names.
func Keywords(rec tooldoc.Record) []string {
	raw := make([]string, 0, 2+len(rec.Params))
	raw = append(raw, rec.Category, rec.Name)
	raw = append(raw, wordPattern.FindAllString(rec.Description, -1)...)
	for _, p := range rec.Params {
		raw = append(raw, p.Name)
	}

	seen := make(map[string]struct{}, len(raw))
	out := make([]string, 0, len(raw))
	for _, kw := range raw {
		kw = Fold(kw)
		if kw == "" {
			continue
		}
		if _, ok := seen[kw]; ok {
			continue
		}
		seen[kw] = struct{}{}
		out = append(out, kw)
	}
	return out
}
