// Package dispatch resolves function references against a catalog, invokes
// them through a provider namespace and classifies what happened.
//
// Call never returns a Go error and never lets a provider panic escape. It
// returns an [Outcome] whose [Kind] says how the call ended:
//
//	out := d.Call(ctx, "stock_zh_a_spot_em", map[string]any{})
//	if !out.OK() {
//	    log.Println(out.Err())
//	}
//	body := out.Response() // JSON-safe value or error structure
//
// References resolve as an exact canonical ID first, then with the catalog
// prefix prepended.
package dispatch
