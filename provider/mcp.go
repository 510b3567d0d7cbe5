package provider

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/jonwraymond/toolfoundation/adapter"
	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/jsonrpc"
	"github.com/modelcontextprotocol/go-sdk/mcp"
)

// MCPConfig describes a remote provider reached over MCP. Each remote tool
// is one function, named by the tool name.
type MCPConfig struct {
	// Name identifies the provider.
	Name string
	// Version is reported in the provider info.
	Version string
	// URL is the MCP server URL (http(s)://, sse://).
	URL string
	// Headers are optional HTTP headers for authenticated servers.
	Headers map[string]string
	// MaxRetries controls reconnect attempts for streamable HTTP transport.
	MaxRetries int
	// Transport overrides URL handling when provided (useful for tests).
	Transport mcp.Transport
}

// MCPNamespace is a namespace backed by the tools of a remote MCP server.
type MCPNamespace struct {
	config MCPConfig

	mu        sync.RWMutex
	session   *mcp.ClientSession
	tools     map[string]model.Tool
	connected bool
}

// NewMCPNamespace creates an unconnected namespace.
func NewMCPNamespace(cfg MCPConfig) *MCPNamespace {
	return &MCPNamespace{config: cfg}
}

// Connect opens the session and snapshots the remote tool list. It is a
// no-op when already connected.
func (n *MCPNamespace) Connect(ctx context.Context) error {
	n.mu.RLock()
	connected := n.connected
	n.mu.RUnlock()
	if connected {
		return nil
	}

	transport, err := n.transport()
	if err != nil {
		return err
	}

	client := mcp.NewClient(&mcp.Implementation{Name: "docregistry-provider"}, nil)
	session, err := client.Connect(ctx, transport, nil)
	if err != nil {
		return fmt.Errorf("connect %s: %w", n.config.Name, err)
	}

	res, err := session.ListTools(ctx, nil)
	if err != nil {
		_ = session.Close()
		return fmt.Errorf("list tools %s: %w", n.config.Name, err)
	}

	tools := make(map[string]model.Tool, len(res.Tools))
	for _, tool := range res.Tools {
		if tool == nil || tool.Name == "" {
			continue
		}
		tools[tool.Name] = model.Tool{Tool: *tool, Namespace: n.config.Name}
	}

	n.mu.Lock()
	n.session = session
	n.tools = tools
	n.connected = true
	n.mu.Unlock()
	return nil
}

// Close ends the session.
func (n *MCPNamespace) Close() error {
	n.mu.Lock()
	if !n.connected {
		n.mu.Unlock()
		return nil
	}
	session := n.session
	n.session = nil
	n.connected = false
	n.mu.Unlock()

	if session != nil {
		return session.Close()
	}
	return nil
}

// Lookup implements Namespace.
func (n *MCPNamespace) Lookup(name string) (Function, bool) {
	n.mu.RLock()
	_, ok := n.tools[name]
	n.mu.RUnlock()
	if !ok {
		return nil, false
	}
	return mcpFunction{ns: n, name: name}, true
}

// Names implements Namespace.
func (n *MCPNamespace) Names() []string {
	n.mu.RLock()
	names := make([]string, 0, len(n.tools))
	for name := range n.tools {
		names = append(names, name)
	}
	n.mu.RUnlock()
	sort.Strings(names)
	return names
}

// Info implements Namespace.
func (n *MCPNamespace) Info() adapter.CanonicalProvider {
	return adapter.CanonicalProvider{
		Name:        n.config.Name,
		Description: "MCP provider at " + n.config.URL,
		Version:     n.config.Version,
	}
}

// Tools returns the remote tool definitions seen at Connect, sorted by name.
func (n *MCPNamespace) Tools() []model.Tool {
	names := n.Names()
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]model.Tool, 0, len(names))
	for _, name := range names {
		if tool, ok := n.tools[name]; ok {
			out = append(out, tool)
		}
	}
	return out
}

type mcpFunction struct {
	ns   *MCPNamespace
	name string
}

func (f mcpFunction) Name() string { return f.name }

func (f mcpFunction) Invoke(ctx context.Context, args map[string]any) (any, error) {
	return f.ns.callTool(ctx, f.name, args)
}

func (n *MCPNamespace) callTool(ctx context.Context, name string, args map[string]any) (any, error) {
	n.mu.RLock()
	session := n.session
	connected := n.connected
	n.mu.RUnlock()

	if !connected || session == nil {
		return nil, fmt.Errorf("%w: %s", ErrNotConnected, n.config.Name)
	}
	if args == nil {
		args = map[string]any{}
	}

	result, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      name,
		Arguments: args,
	})
	if err != nil {
		return nil, classifyCallError(name, err)
	}
	if result == nil {
		return nil, nil
	}
	if result.IsError {
		return nil, fmt.Errorf("%w: %s", ErrCallFailed, toolResultError(result))
	}
	return toolResultValue(result), nil
}

// classifyCallError maps protocol errors onto the provider error set.
// The server reports both bad arguments and unknown tools as invalid
// params; the message tells them apart.
func classifyCallError(name string, err error) error {
	var wire *jsonrpc.Error
	if errors.As(err, &wire) && wire.Code == jsonrpc.CodeInvalidParams {
		if strings.HasPrefix(wire.Message, "unknown tool") {
			return fmt.Errorf("%w: %s", ErrUnknownFunction, name)
		}
		return &ParameterError{Function: name, Details: wire.Message}
	}
	return fmt.Errorf("%w: %v", ErrCallFailed, err)
}

func (n *MCPNamespace) transport() (mcp.Transport, error) {
	if n.config.Transport != nil {
		return n.config.Transport, nil
	}
	if strings.TrimSpace(n.config.URL) == "" {
		return nil, errors.New("provider URL is required")
	}

	parsed, err := url.Parse(n.config.URL)
	if err != nil {
		return nil, fmt.Errorf("invalid provider URL: %w", err)
	}

	httpClient := httpClientWithHeaders(n.config.Headers)

	switch parsed.Scheme {
	case "http", "https":
		return &mcp.StreamableClientTransport{
			Endpoint:   n.config.URL,
			HTTPClient: httpClient,
			MaxRetries: n.config.MaxRetries,
		}, nil
	case "sse":
		parsed.Scheme = "http"
		return &mcp.SSEClientTransport{
			Endpoint:   parsed.String(),
			HTTPClient: httpClient,
		}, nil
	default:
		return nil, fmt.Errorf("unsupported provider URL scheme %q", parsed.Scheme)
	}
}

func httpClientWithHeaders(headers map[string]string) *http.Client {
	if len(headers) == 0 {
		return nil
	}
	clone := make(map[string]string, len(headers))
	for k, v := range headers {
		if strings.TrimSpace(k) == "" {
			continue
		}
		clone[k] = v
	}
	if len(clone) == 0 {
		return nil
	}
	return &http.Client{
		Transport: &headerRoundTripper{
			base:    http.DefaultTransport,
			headers: clone,
		},
	}
}

type headerRoundTripper struct {
	base    http.RoundTripper
	headers map[string]string
}

func (h *headerRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	base := h.base
	if base == nil {
		base = http.DefaultTransport
	}
	req = req.Clone(req.Context())
	for key, value := range h.headers {
		if req.Header.Get(key) == "" {
			req.Header.Set(key, value)
		}
	}
	return base.RoundTrip(req)
}

func toolResultValue(result *mcp.CallToolResult) any {
	if result.StructuredContent != nil {
		return result.StructuredContent
	}
	if len(result.Content) == 1 {
		if text, ok := result.Content[0].(*mcp.TextContent); ok {
			return text.Text
		}
	}
	if len(result.Content) == 0 {
		return nil
	}
	texts := make([]any, 0, len(result.Content))
	for _, c := range result.Content {
		if text, ok := c.(*mcp.TextContent); ok {
			texts = append(texts, text.Text)
		}
	}
	return texts
}

func toolResultError(result *mcp.CallToolResult) string {
	for _, content := range result.Content {
		if text, ok := content.(*mcp.TextContent); ok && text.Text != "" {
			return text.Text
		}
	}
	if result.StructuredContent != nil {
		return fmt.Sprintf("%v", result.StructuredContent)
	}
	return "tool execution failed"
}
