package search

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/blevesearch/bleve/v2"
	"github.com/blevesearch/bleve/v2/search/query"

	"github.com/jonwraymond/docregistry/index"
)

// ErrClosed is returned when ranking with a closed ranker.
var ErrClosed = errors.New("ranker closed")

// BM25Config configures field boosts for the Bleve ranker.
type BM25Config struct {
	NameBoost        float64
	CategoryBoost    float64
	ParamsBoost      float64
	DescriptionBoost float64
}

func (c BM25Config) withDefaults() BM25Config {
	if c.NameBoost <= 0 {
		c.NameBoost = 3
	}
	if c.CategoryBoost <= 0 {
		c.CategoryBoost = 2
	}
	if c.ParamsBoost <= 0 {
		c.ParamsBoost = 1
	}
	if c.DescriptionBoost <= 0 {
		c.DescriptionBoost = 1
	}
	return c
}

// BleveRanker orders keyword matches by Bleve relevance score.
type BleveRanker struct {
	cfg BM25Config

	mu          sync.RWMutex
	idx         bleve.Index
	fingerprint string
	closed      bool
}

// NewBleveRanker creates a ranker with the given config.
func NewBleveRanker(cfg BM25Config) *BleveRanker {
	return &BleveRanker{cfg: cfg.withDefaults()}
}

// Rank implements index.Ranker.
func (r *BleveRanker) Rank(q string, ids []string, catalog *index.Catalog) ([]string, error) {
	if len(ids) == 0 || strings.TrimSpace(q) == "" {
		return ids, nil
	}

	idx, err := r.indexFor(catalog)
	if err != nil {
		return nil, err
	}

	req := bleve.NewSearchRequestOptions(r.buildQuery(q, ids), len(ids), 0, false)
	req.SortBy([]string{"-_score", "_id"})

	r.mu.RLock()
	res, err := idx.Search(req)
	r.mu.RUnlock()
	if err != nil {
		return nil, fmt.Errorf("bleve search: %w", err)
	}

	out := make([]string, 0, len(ids))
	scored := make(map[string]struct{}, len(res.Hits))
	for _, hit := range res.Hits {
		if _, dup := scored[hit.ID]; dup {
			continue
		}
		scored[hit.ID] = struct{}{}
		out = append(out, hit.ID)
	}
	for _, id := range ids {
		if _, ok := scored[id]; !ok {
			out = append(out, id)
		}
	}
	return out, nil
}

func (r *BleveRanker) buildQuery(q string, ids []string) query.Query {
	field := func(name string, boost float64) query.Query {
		m := bleve.NewMatchQuery(q)
		m.SetField(name)
		m.SetBoost(boost)
		return m
	}
	text := bleve.NewDisjunctionQuery(
		field("name", r.cfg.NameBoost),
		field("words", r.cfg.NameBoost),
		field("category", r.cfg.CategoryBoost),
		field("params", r.cfg.ParamsBoost),
		field("description", r.cfg.DescriptionBoost),
	)
	return bleve.NewConjunctionQuery(text, bleve.NewDocIDQuery(ids))
}

// indexFor returns the cached index for the catalog, rebuilding it when the
// catalog fingerprint differs from the cached one.
func (r *BleveRanker) indexFor(catalog *index.Catalog) (bleve.Index, error) {
	fp := catalog.Fingerprint()

	r.mu.RLock()
	if r.closed {
		r.mu.RUnlock()
		return nil, ErrClosed
	}
	if r.idx != nil && r.fingerprint == fp {
		idx := r.idx
		r.mu.RUnlock()
		return idx, nil
	}
	r.mu.RUnlock()

	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if r.idx != nil && r.fingerprint == fp {
		return r.idx, nil
	}

	idx, err := buildIndex(catalog)
	if err != nil {
		return nil, err
	}
	if r.idx != nil {
		_ = r.idx.Close()
	}
	r.idx = idx
	r.fingerprint = fp
	return idx, nil
}

func buildIndex(catalog *index.Catalog) (bleve.Index, error) {
	idx, err := bleve.NewMemOnly(bleve.NewIndexMapping())
	if err != nil {
		return nil, fmt.Errorf("bleve index: %w", err)
	}

	batch := idx.NewBatch()
	for _, rec := range catalog.Records() {
		doc := map[string]any{
			"name":        rec.Name,
			"words":       strings.ReplaceAll(rec.Name, "_", " "),
			"category":    rec.Category,
			"params":      strings.Join(rec.ParamNames(), " "),
			"description": rec.Description,
		}
		if err := batch.Index(rec.ID, doc); err != nil {
			_ = idx.Close()
			return nil, fmt.Errorf("bleve index %s: %w", rec.ID, err)
		}
	}
	if err := idx.Batch(batch); err != nil {
		_ = idx.Close()
		return nil, fmt.Errorf("bleve batch: %w", err)
	}
	return idx, nil
}

// Close releases the cached index. Rank fails with ErrClosed afterwards.
func (r *BleveRanker) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	if r.idx == nil {
		return nil
	}
	err := r.idx.Close()
	r.idx = nil
	r.fingerprint = ""
	return err
}
