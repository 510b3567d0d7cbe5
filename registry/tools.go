package registry

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/docregistry/dispatch"
)

// Tool names served by NewServer.
const (
	ToolSearch   = "ak_search"
	ToolCall     = "ak_call"
	ToolDescribe = "ak_describe"
	ToolLogs     = "ak_logs"
)

// DefaultLogsLimit is the ak_logs limit when none is given.
const DefaultLogsLimit = 50

// SearchInput is the ak_search argument set.
type SearchInput struct {
	Keyword string `json:"keyword" jsonschema:"search keywords separated by spaces, e.g. 期货 库存 or GDP"`
	Limit   int    `json:"limit,omitempty" jsonschema:"maximum number of results, default 20"`
}

// CallInput is the ak_call argument set.
type CallInput struct {
	Function string `json:"function" jsonschema:"function id from ak_search, with or without the ak_ prefix"`
	Params   any    `json:"params,omitempty" jsonschema:"arguments as a JSON object or a JSON-encoded string"`
}

// DescribeInput is the ak_describe argument set.
type DescribeInput struct {
	Function string `json:"function" jsonschema:"function id, with or without the ak_ prefix"`
}

// LogsInput is the ak_logs argument set.
type LogsInput struct {
	Limit int    `json:"limit,omitempty" jsonschema:"number of records, newest first, default 50"`
	Type  string `json:"type,omitempty" jsonschema:"only records of this type: call or search"`
}

// NewServer builds an MCP server exposing the registry's tools.
func NewServer(r *Registry) *mcp.Server {
	server := mcp.NewServer(&mcp.Implementation{
		Name:    r.opts.ServerInfo.Name,
		Version: r.opts.ServerInfo.Version,
	}, &mcp.ServerOptions{Logger: r.logger})

	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolSearch,
		Description: "Search data functions by keyword. Every space-separated keyword must match the function's name, category, description or parameters.",
	}, r.handleSearch)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolCall,
		Description: "Call a data function found with ak_search. Large tables are truncated.",
	}, r.handleCall)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolDescribe,
		Description: "Describe a data function: parameters, input schema and source.",
	}, r.handleDescribe)
	mcp.AddTool(server, &mcp.Tool{
		Name:        ToolLogs,
		Description: "List recent searches and calls, newest first.",
	}, r.handleLogs)
	return server
}

func (r *Registry) handleSearch(ctx context.Context, _ *mcp.CallToolRequest, in SearchInput) (*mcp.CallToolResult, any, error) {
	results := r.Search(ctx, in.Keyword, in.Limit)
	return textResult(FormatSearchResults(in.Keyword, results)), nil, nil
}

func (r *Registry) handleCall(ctx context.Context, _ *mcp.CallToolRequest, in CallInput) (*mcp.CallToolResult, any, error) {
	var out dispatch.Outcome
	switch p := in.Params.(type) {
	case nil:
		out = r.Call(ctx, in.Function, map[string]any{})
	case string:
		out = r.CallJSON(ctx, in.Function, p)
	case map[string]any:
		out = r.Call(ctx, in.Function, p)
	default:
		out = r.reject(ctx, in.Function, fmt.Errorf("%w: params must be an object or a string, got %T", ErrInvalidRequest, p))
	}

	text, err := jsonText(out.Response())
	if err != nil {
		return nil, nil, err
	}
	res := textResult(text)
	res.IsError = !out.OK()
	return res, nil, nil
}

func (r *Registry) handleDescribe(ctx context.Context, _ *mcp.CallToolRequest, in DescribeInput) (*mcp.CallToolResult, any, error) {
	desc, err := r.Describe(ctx, in.Function)
	if err != nil {
		return nil, nil, err
	}
	text, err := jsonText(desc)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

func (r *Registry) handleLogs(_ context.Context, _ *mcp.CallToolRequest, in LogsInput) (*mcp.CallToolResult, any, error) {
	limit := in.Limit
	if limit <= 0 {
		limit = DefaultLogsLimit
	}
	records := r.Logs(in.Type, limit)
	if len(records) == 0 {
		return textResult("No records yet."), nil, nil
	}
	text, err := jsonText(records)
	if err != nil {
		return nil, nil, err
	}
	return textResult(text), nil, nil
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{Content: []mcp.Content{&mcp.TextContent{Text: text}}}
}

func jsonText(v any) (string, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode result: %w", err)
	}
	return string(b), nil
}
