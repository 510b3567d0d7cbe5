package registry

import (
	"context"
	"fmt"

	"github.com/jonwraymond/toolfoundation/model"
	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/jonwraymond/docregistry/tooldoc"
)

// Description is the full view of one function.
type Description struct {
	ID          string          `json:"full_name" yaml:"full_name"`
	Name        string          `json:"name" yaml:"name"`
	Category    string          `json:"category" yaml:"category"`
	Description string          `json:"description" yaml:"description"`
	Params      []tooldoc.Param `json:"params" yaml:"params"`
	Source      string          `json:"source" yaml:"source"`
	InputSchema map[string]any  `json:"input_schema" yaml:"input_schema"`
	// Available reports whether the provider has the function.
	Available bool `json:"available" yaml:"available"`
}

// Describe resolves ref like Call does and returns the function's full
// description.
func (r *Registry) Describe(ctx context.Context, ref string) (Description, error) {
	r.ensure(ctx)
	rec, ok := r.dispatcher.Resolve(ref)
	if !ok {
		return Description{}, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	available := false
	if r.opts.Provider != nil {
		_, available = r.opts.Provider.Lookup(rec.Name)
	}
	return Description{
		ID:          rec.ID,
		Name:        rec.Name,
		Category:    rec.Category,
		Description: rec.Description,
		Params:      rec.Params,
		Source:      rec.Source,
		InputSchema: rec.InputSchema(),
		Available:   available,
	}, nil
}

// ToolFor projects a record onto an MCP tool definition. The category is
// the tool namespace.
func ToolFor(rec tooldoc.Record) model.Tool {
	return model.Tool{
		Tool: mcp.Tool{
			Name:        rec.ID,
			Description: rec.Description,
			InputSchema: rec.InputSchema(),
		},
		Namespace: rec.Category,
		Tags:      model.NormalizeTags([]string{rec.Category}),
	}
}

// Tools returns every catalog record as a tool definition, sorted by
// canonical ID. Records whose projection does not validate are skipped.
func (r *Registry) Tools(ctx context.Context) []model.Tool {
	records := r.Catalog(ctx).Records()
	tools := make([]model.Tool, 0, len(records))
	for _, rec := range records {
		tool := ToolFor(rec)
		if err := tool.Validate(); err != nil {
			r.logger.Debug("registry: skip invalid tool projection", "id", rec.ID, "err", err)
			continue
		}
		tools = append(tools, tool)
	}
	return tools
}
