package index

import (
	"log/slog"
	"sort"
	"strings"
)

// Ranker reorders matched IDs by relevance to the query.
//
// Implementations receive the IDs in canonical order and must return a
// permutation of them; anything else is discarded in favor of the input
// order.
type Ranker interface {
	Rank(query string, ids []string, catalog *Catalog) ([]string, error)
}

// IndexOptions configures a KeywordIndex.
type IndexOptions struct {
	// Ranker optionally orders matches. Nil keeps canonical ID order.
	Ranker Ranker
	// Logger receives ranker failures. Default: slog.Default().
	Logger *slog.Logger
}

// KeywordIndex is an inverted index from folded keyword to canonical IDs.
type KeywordIndex struct {
	catalog  *Catalog
	postings map[string][]string
	keywords []string
	ranker   Ranker
	logger   *slog.Logger
}

// NewKeywordIndex builds the index over every record in the catalog.
func NewKeywordIndex(c *Catalog, opts IndexOptions) *KeywordIndex {
	x := &KeywordIndex{
		catalog:  c,
		postings: make(map[string][]string),
		ranker:   opts.Ranker,
		logger:   opts.Logger,
	}
	if x.logger == nil {
		x.logger = slog.Default()
	}

	for _, id := range c.ids {
		for _, kw := range Keywords(c.records[id]) {
			x.postings[kw] = append(x.postings[kw], id)
		}
	}
	x.keywords = make([]string, 0, len(x.postings))
	for kw := range x.postings {
		x.keywords = append(x.keywords, kw)
	}
	sort.Strings(x.keywords)
	return x
}

// Catalog returns the catalog the index was built over.
func (x *KeywordIndex) Catalog() *Catalog {
	return x.catalog
}

// Len returns the number of distinct keywords.
func (x *KeywordIndex) Len() int {
	return len(x.keywords)
}

// Lookup returns the IDs indexed under exactly the given keyword.
func (x *KeywordIndex) Lookup(keyword string) []string {
	ids := x.postings[Fold(keyword)]
	out := make([]string, len(ids))
	copy(out, ids)
	return out
}

// Search returns up to limit records matching every query token.
func (x *KeywordIndex) Search(query string, limit int) Results {
	tokens := Tokenize(query)
	if len(tokens) == 0 || limit <= 0 {
		return Results{}
	}

	tally := make(map[string]int)
	for _, token := range tokens {
		for id := range x.candidates(token) {
			tally[id]++
		}
	}

	matched := make([]string, 0, len(tally))
	for id, n := range tally {
		if n == len(tokens) {
			matched = append(matched, id)
		}
	}
	sort.Strings(matched)
	matched = x.rank(query, matched)

	if len(matched) > limit {
		matched = matched[:limit]
	}
	results := make(Results, len(matched))
	for i, id := range matched {
		results[i] = SummaryFor(x.catalog.prefix, x.catalog.records[id])
	}
	return results
}

// candidates returns the IDs a single token reaches: exact keyword hits
// plus every keyword that contains the token or is contained by it.
func (x *KeywordIndex) candidates(token string) map[string]struct{} {
	set := make(map[string]struct{})
	for _, id := range x.postings[token] {
		set[id] = struct{}{}
	}
	for _, kw := range x.keywords {
		if kw == token || !(strings.Contains(kw, token) || strings.Contains(token, kw)) {
			continue
		}
		for _, id := range x.postings[kw] {
			set[id] = struct{}{}
		}
	}
	return set
}

func (x *KeywordIndex) rank(query string, ids []string) []string {
	if x.ranker == nil || len(ids) < 2 {
		return ids
	}
	ranked, err := x.ranker.Rank(query, ids, x.catalog)
	if err != nil {
		x.logger.Warn("index: ranker failed, keeping id order", "query", query, "err", err)
		return ids
	}
	if !isPermutation(ranked, ids) {
		x.logger.Warn("index: ranker returned a different id set, keeping id order", "query", query)
		return ids
	}
	return ranked
}

func isPermutation(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	seen := make(map[string]int, len(b))
	for _, id := range b {
		seen[id]++
	}
	for _, id := range a {
		if seen[id] == 0 {
			return false
		}
		seen[id]--
	}
	return true
}
