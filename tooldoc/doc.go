// Package tooldoc parses structured provider documentation into typed
// function records.
//
// A documentation source is a directory holding one markdown document per
// category. The document's file name (without the .md extension) is the
// category. Each document contains zero or more interface blocks:
//
//	接口: futures_inventory_em
//
//	描述: 东方财富网-期货库存数据
//
//	输入参数
//
//	| 名称   | 类型 | 描述 |
//	|--------|------|------|
//	| symbol | str  | 品种 |
//
// A block starts at an interface marker line and runs until the next
// interface marker or the end of the document. From each block the parser
// extracts the bare function name, the first description line and the
// first input parameter table.
//
// # Canonical IDs
//
// Every record gets a canonical ID built from a fixed prefix, the category
// and the bare name. A bare name that already starts with "<category>_" is
// not prefixed with the category again:
//
//	CanonicalID("ak", "futures", "futures_inventory_em") // ak_futures_inventory_em
//	CanonicalID("ak", "stock", "zh_a_spot_em")           // ak_stock_zh_a_spot_em
//
// # Failure Policy
//
// Parsing never aborts. A document that cannot be read is logged and
// skipped; a block without a recognizable name is skipped on its own.
// Both are counted in the [Result] for diagnostics.
//
// # Markers
//
// The marker words default to the akshare documentation conventions and
// can be replaced through [Markers] for documentation written in another
// language.
package tooldoc
