package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"gopkg.in/yaml.v3"
)

const futuresDoc = `接口: futures_inventory_em

描述: 东方财富网-数据中心-期货库存数据

输入参数

| 名称     | 类型  | 描述           |
|--------|-----|--------------|
| symbol | str | symbol="a"; 品种 |

接口: inventory_99

描述: 99期货网-大宗商品库存数据
`

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "futures.md"), []byte(futuresDoc), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("AKSHARE_DOCS_DIR", dir)
	t.Setenv("AKSHARE_LOG_LEVEL", "error")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestSearchCmd(t *testing.T) {
	out, err := run(t, "search", "期货", "库存")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	if !strings.HasPrefix(out, "Found 2 matching functions:") {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = run(t, "search", "--json", "--limit", "1", "期货")
	if err != nil {
		t.Fatalf("search error = %v", err)
	}
	var results []map[string]any
	if err := json.Unmarshal([]byte(out), &results); err != nil {
		t.Fatalf("decode: %v\n%s", err, out)
	}
	if len(results) != 1 || results[0]["full_name"] != "ak_futures_inventory_99" {
		t.Errorf("results = %v", results)
	}
}

func TestCallCmd_NoProvider(t *testing.T) {
	out, err := run(t, "call", "futures_inventory_em", `{"symbol": "a"}`)
	if err == nil {
		t.Fatal("expected error without a provider")
	}
	if !strings.Contains(out, `"type": "FunctionNotFound"`) {
		t.Errorf("unexpected output:\n%s", out)
	}

	out, err = run(t, "call", "futures_inventory_em", `{"symbol": `)
	if err == nil || !strings.Contains(out, `"type": "MalformedQuery"`) {
		t.Errorf("malformed params: err %v, output:\n%s", err, out)
	}
}

func TestDescribeCmd(t *testing.T) {
	out, err := run(t, "describe", "futures_inventory_em")
	if err != nil {
		t.Fatalf("describe error = %v", err)
	}
	if !strings.Contains(out, `"full_name": "ak_futures_inventory_em"`) || !strings.Contains(out, `"available": false`) {
		t.Errorf("unexpected output:\n%s", out)
	}

	if _, err := run(t, "describe", "nope"); err == nil || !strings.Contains(err.Error(), "docregistry search nope") {
		t.Errorf("describe(nope) error = %v", err)
	}
}

func TestCatalogCmd(t *testing.T) {
	out, err := run(t, "catalog")
	if err != nil {
		t.Fatalf("catalog error = %v", err)
	}
	var records []map[string]any
	if err := yaml.Unmarshal([]byte(out), &records); err != nil {
		t.Fatalf("decode yaml: %v\n%s", err, out)
	}
	if len(records) != 2 || records[1]["full_name"] != "ak_futures_inventory_em" {
		t.Errorf("records = %v", records)
	}

	out, err = run(t, "catalog", "--view", "stats", "--format", "json")
	if err != nil {
		t.Fatalf("catalog stats error = %v", err)
	}
	if !strings.Contains(out, `"records": 2`) {
		t.Errorf("unexpected stats:\n%s", out)
	}

	out, err = run(t, "catalog", "--view", "tools", "--format", "json")
	if err != nil {
		t.Fatalf("catalog tools error = %v", err)
	}
	if !strings.Contains(out, `"ak_futures_inventory_em"`) {
		t.Errorf("unexpected tools:\n%s", out)
	}

	if _, err := run(t, "catalog", "--format", "toml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestServeCmd_InvalidConfig(t *testing.T) {
	if _, err := run(t, "serve", "--mode", "carrier-pigeon"); err == nil {
		t.Fatal("expected validation error for unknown mode")
	}
}

func TestVersionCmd(t *testing.T) {
	out, err := run(t, "version")
	if err != nil {
		t.Fatal(err)
	}
	if out != "docregistry dev\n" {
		t.Errorf("version output = %q", out)
	}
}
