package tooldoc

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"testing/fstest"
)

const benchBlockCount = 1000

func makeBenchDoc(category string, n int) string {
	var b strings.Builder
	for i := range n {
		fmt.Fprintf(&b, "接口: %s_fn_%d\n\n", category, i)
		fmt.Fprintf(&b, "描述: benchmark function %d with keywords like futures stock bond\n\n", i)
		b.WriteString("输入参数\n\n| 名称 | 类型 | 描述 |\n|---|---|---|\n")
		b.WriteString("| symbol | str | - |\n| start_date | str | - |\n| adjust | str | - |\n\n")
	}
	return b.String()
}

func BenchmarkParseDocument(b *testing.B) {
	p := quietParser(Options{})
	content := makeBenchDoc("futures", benchBlockCount)

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		_ = p.ParseDocument("futures", "futures.md", content)
	}
}

func BenchmarkParseFS(b *testing.B) {
	fsys := fstest.MapFS{}
	for _, category := range []string{"futures", "stock", "bond", "index", "macro", "fund"} {
		fsys[category+".md"] = &fstest.MapFile{Data: []byte(makeBenchDoc(category, benchBlockCount/4))}
	}
	p := quietParser(Options{})
	ctx := context.Background()

	b.ReportAllocs()
	b.ResetTimer()
	for b.Loop() {
		if _, err := p.ParseFS(ctx, fsys, "."); err != nil {
			b.Fatal(err)
		}
	}
}
