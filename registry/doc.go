// Package registry is the document-derived function registry: it parses a
// documentation source into a catalog, indexes it for keyword search and
// dispatches calls to a provider namespace.
//
// Registry ties tooldoc, index, dispatch and calllog together behind one
// lifecycle: construct, Initialize once, then serve reads.
//
// Features:
//   - One-time parse and index build, safe under concurrent Initialize
//   - Token-AND keyword search with optional relevance ranking
//   - Calls by canonical ID, with or without the prefix, bounded and
//     normalized
//   - A record of every search and call, listable newest first
//   - MCP tools ak_search, ak_call, ak_describe and ak_logs over stdio,
//     streamable HTTP or SSE
//
// Example usage:
//
//	reg := registry.New(registry.Options{
//	    DocsFS:   os.DirFS("/srv/akshare_docs"),
//	    Provider: namespace,
//	})
//
//	ctx := context.Background()
//	if err := reg.Initialize(ctx); err != nil {
//	    log.Fatal(err)
//	}
//
//	results := reg.Search(ctx, "期货 库存", 20)
//	out := reg.Call(ctx, results[0].ID, map[string]any{})
//
//	registry.ServeStdio(ctx, reg)
package registry
