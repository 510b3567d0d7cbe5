package search

import (
	"errors"
	"reflect"
	"sort"
	"sync"
	"testing"

	"github.com/jonwraymond/docregistry/index"
	"github.com/jonwraymond/docregistry/tooldoc"
)

func rec(category, name, description string, params ...string) tooldoc.Record {
	r := tooldoc.Record{
		Name:        name,
		ID:          tooldoc.CanonicalID("ak", category, name),
		Category:    category,
		Description: description,
	}
	for _, p := range params {
		r.Params = append(r.Params, tooldoc.Param{Name: p, Type: "str"})
	}
	return r
}

func testCatalog() *index.Catalog {
	return index.NewCatalog("ak", []tooldoc.Record{
		rec("bond", "bond_yield_curve", "treasury yield curve history", "start_date"),
		rec("fund", "fund_daily_nav", "open fund net asset value by day", "symbol"),
		rec("stock", "stock_daily_bars", "daily bars for listed equities", "symbol", "period"),
	})
}

func newTestRanker(t *testing.T) *BleveRanker {
	t.Helper()
	r := NewBleveRanker(BM25Config{})
	t.Cleanup(func() {
		if err := r.Close(); err != nil {
			t.Errorf("close failed: %v", err)
		}
	})
	return r
}

func TestBleveRanker_ScoredFirst(t *testing.T) {
	r := newTestRanker(t)
	cat := testCatalog()

	got, err := r.Rank("treasury", cat.IDs(), cat)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	want := []string{"ak_bond_yield_curve", "ak_fund_daily_nav", "ak_stock_daily_bars"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Rank = %v, want %v", got, want)
	}

	got, err = r.Rank("equities", cat.IDs(), cat)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if got[0] != "ak_stock_daily_bars" {
		t.Errorf("expected stock first, got %v", got)
	}
}

func TestBleveRanker_RestrictedToInput(t *testing.T) {
	r := newTestRanker(t)
	cat := testCatalog()

	ids := []string{"ak_fund_daily_nav"}
	got, err := r.Rank("treasury yield", ids, cat)
	if err != nil {
		t.Fatalf("Rank error: %v", err)
	}
	if !reflect.DeepEqual(got, ids) {
		t.Errorf("Rank = %v, want %v", got, ids)
	}
}

func TestBleveRanker_IsPermutation(t *testing.T) {
	r := newTestRanker(t)
	cat := testCatalog()

	for _, q := range []string{"daily", "symbol", "fund", "no such words"} {
		got, err := r.Rank(q, cat.IDs(), cat)
		if err != nil {
			t.Fatalf("Rank(%q) error: %v", q, err)
		}
		sorted := append([]string(nil), got...)
		sort.Strings(sorted)
		if !reflect.DeepEqual(sorted, cat.IDs()) {
			t.Errorf("Rank(%q) = %v, not a permutation", q, got)
		}
	}
}

func TestBleveRanker_EmptyInput(t *testing.T) {
	r := newTestRanker(t)
	cat := testCatalog()

	got, err := r.Rank("daily", nil, cat)
	if err != nil || len(got) != 0 {
		t.Errorf("Rank(nil) = %v, %v", got, err)
	}
	got, err = r.Rank("  ", cat.IDs(), cat)
	if err != nil || !reflect.DeepEqual(got, cat.IDs()) {
		t.Errorf("Rank(blank) = %v, %v", got, err)
	}
}

func TestBleveRanker_CachesByFingerprint(t *testing.T) {
	r := newTestRanker(t)
	cat := testCatalog()

	if _, err := r.Rank("daily", cat.IDs(), cat); err != nil {
		t.Fatal(err)
	}
	first := r.idx
	if _, err := r.Rank("symbol", cat.IDs(), testCatalog()); err != nil {
		t.Fatal(err)
	}
	if r.idx != first {
		t.Error("index rebuilt for a catalog with the same fingerprint")
	}

	other := index.NewCatalog("ak", []tooldoc.Record{rec("macro", "china_cpi", "consumer prices")})
	if _, err := r.Rank("prices", other.IDs(), other); err != nil {
		t.Fatal(err)
	}
	if r.fingerprint != other.Fingerprint() {
		t.Error("index not rebuilt for a different catalog")
	}
}

func TestBleveRanker_Closed(t *testing.T) {
	r := NewBleveRanker(BM25Config{})
	cat := testCatalog()
	if _, err := r.Rank("daily", cat.IDs(), cat); err != nil {
		t.Fatal(err)
	}
	if err := r.Close(); err != nil {
		t.Fatalf("close failed: %v", err)
	}
	if _, err := r.Rank("daily", cat.IDs(), cat); !errors.Is(err, ErrClosed) {
		t.Errorf("expected ErrClosed, got %v", err)
	}
}

func TestBleveRanker_Concurrent(t *testing.T) {
	r := newTestRanker(t)
	cat := testCatalog()

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 20 {
				if _, err := r.Rank("daily symbol", cat.IDs(), cat); err != nil {
					t.Errorf("Rank error: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()
}

func TestBM25Config_Defaults(t *testing.T) {
	cfg := BM25Config{}.withDefaults()
	if cfg.NameBoost != 3 || cfg.CategoryBoost != 2 || cfg.ParamsBoost != 1 || cfg.DescriptionBoost != 1 {
		t.Errorf("unexpected defaults %+v", cfg)
	}
	cfg = BM25Config{NameBoost: 10}.withDefaults()
	if cfg.NameBoost != 10 {
		t.Errorf("NameBoost overridden: %v", cfg.NameBoost)
	}
}

func TestKeywordIndexWithBleveRanker(t *testing.T) {
	r := newTestRanker(t)
	idx := index.NewKeywordIndex(testCatalog(), index.IndexOptions{Ranker: r})

	got := idx.Search("daily", 10).IDs()
	if len(got) != 2 {
		t.Fatalf("expected 2 results, got %v", got)
	}
}
