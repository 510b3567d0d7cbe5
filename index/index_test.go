package index

import (
	"errors"
	"io"
	"log/slog"
	"reflect"
	"sync"
	"testing"

	"github.com/jonwraymond/docregistry/tooldoc"
)

// Helper to create a record with its canonical ID derived the usual way
func makeRecord(category, name, description string, params ...string) tooldoc.Record {
	rec := tooldoc.Record{
		Name:        name,
		ID:          tooldoc.CanonicalID("ak", category, name),
		Category:    category,
		Description: description,
		Source:      category + ".md",
	}
	for _, p := range params {
		rec.Params = append(rec.Params, tooldoc.Param{Name: p, Type: "str"})
	}
	return rec
}

func fixtureRecords() []tooldoc.Record {
	return []tooldoc.Record{
		makeRecord("futures", "futures_inventory_em", "东方财富网-期货库存数据", "symbol"),
		makeRecord("futures", "inventory_99", "99期货网-大宗商品库存数据", "exchange", "symbol"),
		makeRecord("futures", "futures_zh_spot", "新浪财经-期货实时行情"),
		makeRecord("stock", "stock_zh_a_spot_em", "沪深京A股-实时行情数据"),
		makeRecord("macro", "china_gdp", "中国 GDP 年度报告"),
	}
}

func quietOptions() IndexOptions {
	return IndexOptions{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))}
}

func newFixtureIndex() *KeywordIndex {
	return NewKeywordIndex(NewCatalog("ak", fixtureRecords()), quietOptions())
}

// ============================================================
// Catalog
// ============================================================

func TestCatalog_Get(t *testing.T) {
	cat := NewCatalog("ak", fixtureRecords())

	rec, ok := cat.Get("ak_futures_inventory_em")
	if !ok {
		t.Fatal("expected record")
	}
	if rec.Name != "futures_inventory_em" || rec.Category != "futures" {
		t.Errorf("unexpected record %+v", rec)
	}

	if _, ok := cat.Get("futures_inventory_em"); ok {
		t.Error("Get must be exact; bare name should not resolve")
	}
	if _, ok := cat.Get("ak_missing"); ok {
		t.Error("expected absence for unknown id")
	}
}

func TestCatalog_ListingIsSorted(t *testing.T) {
	cat := NewCatalog("ak", fixtureRecords())

	wantIDs := []string{
		"ak_futures_inventory_99",
		"ak_futures_inventory_em",
		"ak_futures_zh_spot",
		"ak_macro_china_gdp",
		"ak_stock_zh_a_spot_em",
	}
	if got := cat.IDs(); !reflect.DeepEqual(got, wantIDs) {
		t.Errorf("IDs = %v, want %v", got, wantIDs)
	}
	if got := cat.Categories(); !reflect.DeepEqual(got, []string{"futures", "macro", "stock"}) {
		t.Errorf("Categories = %v", got)
	}
	if cat.Len() != 5 {
		t.Errorf("Len = %d", cat.Len())
	}
	records := cat.Records()
	if records[0].ID != wantIDs[0] {
		t.Errorf("Records not sorted: first %q", records[0].ID)
	}
}

func TestCatalog_LastWriteWins(t *testing.T) {
	first := makeRecord("futures", "futures_x", "first")
	first.Source = "futures.md:1"
	second := makeRecord("futures", "x", "second")
	second.Source = "futures.md:9"

	cat := NewCatalog("ak", []tooldoc.Record{first, second})

	if cat.Len() != 1 {
		t.Fatalf("expected 1 record, got %d", cat.Len())
	}
	rec, _ := cat.Get("ak_futures_x")
	if rec.Description != "second" {
		t.Errorf("expected later record to win, got %q", rec.Description)
	}
	want := []Collision{{ID: "ak_futures_x", Replaced: "futures.md:1", Kept: "futures.md:9"}}
	if got := cat.Collisions(); !reflect.DeepEqual(got, want) {
		t.Errorf("Collisions = %+v, want %+v", got, want)
	}
}

func TestCatalog_GetReturnsCopy(t *testing.T) {
	cat := NewCatalog("ak", fixtureRecords())
	rec, _ := cat.Get("ak_futures_inventory_em")
	rec.Params[0].Name = "mutated"

	again, _ := cat.Get("ak_futures_inventory_em")
	if again.Params[0].Name != "symbol" {
		t.Fatal("catalog record was mutated through a returned copy")
	}
}

func TestCatalog_Fingerprint(t *testing.T) {
	a := NewCatalog("ak", fixtureRecords())
	b := NewCatalog("ak", fixtureRecords())
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("same records produced different fingerprints")
	}
	if a.Fingerprint() == "" {
		t.Error("fingerprint is empty")
	}

	changed := fixtureRecords()
	changed[0].Description = "changed"
	c := NewCatalog("ak", changed)
	if a.Fingerprint() == c.Fingerprint() {
		t.Error("different records produced the same fingerprint")
	}

	reversed := fixtureRecords()
	for i, j := 0, len(reversed)-1; i < j; i, j = i+1, j-1 {
		reversed[i], reversed[j] = reversed[j], reversed[i]
	}
	if a.Fingerprint() != NewCatalog("ak", reversed).Fingerprint() {
		t.Error("fingerprint should not depend on input order without collisions")
	}
}

// ============================================================
// Keywords
// ============================================================

func TestKeywords(t *testing.T) {
	rec := makeRecord("Stock", "Stock_ZH_A_Spot_EM", "沪深京 A 股-实时行情", "Symbol", "symbol")
	got := Keywords(rec)
	want := []string{"stock", "stock_zh_a_spot_em", "沪深京", "a", "股", "实时行情", "symbol"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords = %v, want %v", got, want)
	}
}

func TestTokenize(t *testing.T) {
	tests := []struct {
		query string
		want  []string
	}{
		{"", []string{}},
		{"   \t ", []string{}},
		{"Futures  Inventory", []string{"futures", "inventory"}},
		{"futures futures", []string{"futures"}},
		{"ＧＤＰ", []string{"gdp"}},
	}
	for _, tt := range tests {
		got := Tokenize(tt.query)
		if len(got) == 0 && len(tt.want) == 0 {
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("Tokenize(%q) = %v, want %v", tt.query, got, tt.want)
		}
	}
}

// ============================================================
// Search
// ============================================================

func TestSearch_TokenAND(t *testing.T) {
	idx := newFixtureIndex()

	got := idx.Search("futures inventory", 20).IDs()
	want := []string{"ak_futures_inventory_99", "ak_futures_inventory_em"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search = %v, want %v", got, want)
	}
}

func TestSearch_SingleTokenIsSuperset(t *testing.T) {
	idx := newFixtureIndex()

	pair := idx.Search("futures inventory", 20).IDs()
	single := idx.Search("futures", 20).IDs()
	if len(single) <= len(pair) {
		t.Fatalf("expected single-token query to match more, got %v vs %v", single, pair)
	}
	set := make(map[string]bool)
	for _, id := range single {
		set[id] = true
	}
	for _, id := range pair {
		if !set[id] {
			t.Errorf("%s matched the two-token query but not the single-token query", id)
		}
	}
}

func TestSearch_ChineseSubstring(t *testing.T) {
	idx := newFixtureIndex()

	got := idx.Search("期货 库存", 20).IDs()
	want := []string{"ak_futures_inventory_99", "ak_futures_inventory_em"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search = %v, want %v", got, want)
	}

	got = idx.Search("实时行情", 20).IDs()
	want = []string{"ak_futures_zh_spot", "ak_stock_zh_a_spot_em"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search = %v, want %v", got, want)
	}
}

func TestSearch_KeywordContainedInToken(t *testing.T) {
	idx := newFixtureIndex()

	got := idx.Search("stock_zh_a_spot_em_extra", 20).IDs()
	if !reflect.DeepEqual(got, []string{"ak_stock_zh_a_spot_em"}) {
		t.Errorf("Search = %v", got)
	}
}

func TestSearch_ByParamName(t *testing.T) {
	idx := newFixtureIndex()

	got := idx.Search("exchange", 20).IDs()
	if !reflect.DeepEqual(got, []string{"ak_futures_inventory_99"}) {
		t.Errorf("Search = %v", got)
	}
}

func TestSearch_CaseAndWidthInsensitive(t *testing.T) {
	idx := newFixtureIndex()

	lower := idx.Search("gdp", 20).IDs()
	upper := idx.Search("GDP", 20).IDs()
	wide := idx.Search("ＧＤＰ", 20).IDs()
	if !reflect.DeepEqual(lower, []string{"ak_macro_china_gdp"}) {
		t.Fatalf("Search(gdp) = %v", lower)
	}
	if !reflect.DeepEqual(lower, upper) || !reflect.DeepEqual(lower, wide) {
		t.Errorf("case/width variants differ: %v %v %v", lower, upper, wide)
	}
}

func TestSearch_EmptyQuery(t *testing.T) {
	idx := newFixtureIndex()

	for _, q := range []string{"", "   ", "\t\n"} {
		if got := idx.Search(q, 20); len(got) != 0 {
			t.Errorf("Search(%q) returned %d results", q, len(got))
		}
	}
}

func TestSearch_NoResults(t *testing.T) {
	idx := newFixtureIndex()

	if got := idx.Search("gdp futures", 20); len(got) != 0 {
		t.Errorf("expected no results, got %v", got.IDs())
	}
	if got := idx.Search("terraform", 20); len(got) != 0 {
		t.Errorf("expected no results, got %v", got.IDs())
	}
}

func TestSearch_Limit(t *testing.T) {
	idx := newFixtureIndex()

	got := idx.Search("futures", 2).IDs()
	want := []string{"ak_futures_inventory_99", "ak_futures_inventory_em"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search = %v, want %v", got, want)
	}
	if got := idx.Search("futures", 0); len(got) != 0 {
		t.Errorf("limit 0 returned %d results", len(got))
	}
}

func TestSearch_SummaryFields(t *testing.T) {
	idx := newFixtureIndex()

	results := idx.Search("exchange", 1)
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	want := Summary{
		Name:        "futures_inventory_99",
		Description: "99期货网-大宗商品库存数据",
		Category:    "futures",
		Params:      []string{"exchange", "symbol"},
		ID:          "ak_futures_inventory_99",
	}
	if !reflect.DeepEqual(results[0], want) {
		t.Errorf("Summary = %+v, want %+v", results[0], want)
	}
}

func TestSearch_Deterministic(t *testing.T) {
	idx := newFixtureIndex()
	first := idx.Search("futures", 20).IDs()
	for range 20 {
		if got := idx.Search("futures", 20).IDs(); !reflect.DeepEqual(got, first) {
			t.Fatalf("non-deterministic order: %v vs %v", got, first)
		}
	}
}

func TestLookup(t *testing.T) {
	idx := newFixtureIndex()
	if got := idx.Lookup("SYMBOL"); !reflect.DeepEqual(got, []string{"ak_futures_inventory_99", "ak_futures_inventory_em"}) {
		t.Errorf("Lookup = %v", got)
	}
	if idx.Len() == 0 {
		t.Error("expected keywords")
	}
}

func TestResults_FilterByCategory(t *testing.T) {
	idx := newFixtureIndex()
	got := idx.Search("实时行情", 20).FilterByCategory("stock").IDs()
	if !reflect.DeepEqual(got, []string{"ak_stock_zh_a_spot_em"}) {
		t.Errorf("FilterByCategory = %v", got)
	}
}

// ============================================================
// Ranker
// ============================================================

type reverseRanker struct{}

func (reverseRanker) Rank(_ string, ids []string, _ *Catalog) ([]string, error) {
	out := make([]string, len(ids))
	for i, id := range ids {
		out[len(ids)-1-i] = id
	}
	return out, nil
}

type funcRanker func(string, []string, *Catalog) ([]string, error)

func (f funcRanker) Rank(q string, ids []string, c *Catalog) ([]string, error) { return f(q, ids, c) }

func TestSearch_CustomRanker(t *testing.T) {
	opts := quietOptions()
	opts.Ranker = reverseRanker{}
	idx := NewKeywordIndex(NewCatalog("ak", fixtureRecords()), opts)

	got := idx.Search("futures inventory", 20).IDs()
	want := []string{"ak_futures_inventory_em", "ak_futures_inventory_99"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Search = %v, want %v", got, want)
	}
}

func TestSearch_RankerFailureKeepsIDOrder(t *testing.T) {
	rankers := map[string]Ranker{
		"error": funcRanker(func(string, []string, *Catalog) ([]string, error) {
			return nil, errors.New("boom")
		}),
		"foreign ids": funcRanker(func(_ string, ids []string, _ *Catalog) ([]string, error) {
			return append([]string{"ak_other"}, ids[1:]...), nil
		}),
	}
	for name, r := range rankers {
		t.Run(name, func(t *testing.T) {
			opts := quietOptions()
			opts.Ranker = r
			idx := NewKeywordIndex(NewCatalog("ak", fixtureRecords()), opts)
			got := idx.Search("futures inventory", 20).IDs()
			want := []string{"ak_futures_inventory_99", "ak_futures_inventory_em"}
			if !reflect.DeepEqual(got, want) {
				t.Errorf("Search = %v, want %v", got, want)
			}
		})
	}
}

func TestConcurrentSearch(t *testing.T) {
	idx := newFixtureIndex()
	want := idx.Search("期货", 20).IDs()

	var wg sync.WaitGroup
	for range 16 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 50 {
				if got := idx.Search("期货", 20).IDs(); !reflect.DeepEqual(got, want) {
					t.Errorf("concurrent search mismatch: %v", got)
					return
				}
			}
		}()
	}
	wg.Wait()
}
