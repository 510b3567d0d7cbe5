package tooldoc_test

import (
	"context"
	"fmt"
	"testing/fstest"

	"github.com/jonwraymond/docregistry/tooldoc"
)

func ExampleCanonicalID() {
	fmt.Println(tooldoc.CanonicalID("ak", "futures", "futures_inventory_em"))
	fmt.Println(tooldoc.CanonicalID("ak", "stock", "zh_a_spot_em"))
	// Output:
	// ak_futures_inventory_em
	// ak_stock_zh_a_spot_em
}

func ExampleParser_ParseFS() {
	docs := fstest.MapFS{
		"stock.md": {Data: []byte("接口: stock_zh_a_spot_em\n\n描述: 沪深京 A 股-实时行情数据\n\n输入参数\n\n| 名称 | 类型 | 描述 |\n|---|---|---|\n| symbol | str | - |\n")},
	}

	p := tooldoc.NewParser(tooldoc.Options{})
	res, err := p.ParseFS(context.Background(), docs, ".")
	if err != nil {
		fmt.Println("error:", err)
		return
	}
	for _, rec := range res.Records() {
		fmt.Println(rec.ID, rec.Category, rec.ParamNames())
	}
	// Output:
	// ak_stock_zh_a_spot_em stock [symbol]
}
