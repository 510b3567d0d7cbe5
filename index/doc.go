// Package index holds the function catalog and the keyword index built
// over it.
//
// Both structures are write-once: a [Catalog] is built from parsed
// records, a [KeywordIndex] is built from a fully populated Catalog, and
// neither changes afterwards. They are safe for concurrent readers without
// locking.
//
// # Catalog
//
// The catalog maps canonical IDs to records. When two records share an
// ID the later one wins; every such overwrite is kept as a [Collision] so
// documentation problems can be diagnosed.
//
//	cat := index.NewCatalog("ak", records)
//	rec, ok := cat.Get("ak_futures_inventory_em")
//
// # Keyword Search
//
// Each record contributes the keywords {category, bare name, description
// words, parameter names}, folded to lower case. A query is split on
// whitespace and every token must match at least one keyword of a record,
// either exactly or by substring containment in either direction:
//
//	idx := index.NewKeywordIndex(cat, index.IndexOptions{})
//	results := idx.Search("futures inventory", 20)
//
// An empty query matches nothing. Matches are ordered by canonical ID
// unless a [Ranker] is configured.
package index
