// Package search provides a relevance ranker for the index package backed by
// an in-memory Bleve index.
//
// It exists to:
//   - Keep index small and dependency-light
//   - Offer relevance ordering without forcing Bleve on every consumer
//
// # Usage
//
// The primary type is [BleveRanker], which implements [index.Ranker]:
//
//	ranker := search.NewBleveRanker(search.BM25Config{})
//	defer ranker.Close()
//
//	idx := index.NewKeywordIndex(catalog, index.IndexOptions{Ranker: ranker})
//
// The keyword index still decides which records match. The ranker only
// reorders that set.
//
// # Configuration
//
// [BM25Config] allows customization of field boosts:
//
//	cfg := search.BM25Config{
//	    NameBoost:        3, // default: 3
//	    CategoryBoost:    2, // default: 2
//	    ParamsBoost:      1, // default: 1
//	    DescriptionBoost: 1, // default: 1
//	}
//
// # Thread Safety
//
// BleveRanker is safe for concurrent use. It caches one Bleve index keyed on
// the catalog fingerprint and rebuilds only when a different catalog is
// ranked.
//
// # Behavior
//
// Records Bleve scored are ordered by score DESC, then ID ASC. Records the
// keyword index matched by substring but Bleve did not score follow in their
// input order.
package search
