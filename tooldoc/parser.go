package tooldoc

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path"
	"runtime"
	"strings"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"
)

// Options configures a Parser.
type Options struct {
	// Prefix is the canonical ID prefix. Default: DefaultPrefix.
	Prefix string
	// Markers overrides the block grammar words. Zero fields take defaults.
	Markers Markers
	// Logger receives skip diagnostics. Default: slog.Default().
	Logger *slog.Logger
	// Concurrency bounds parallel document reads. Default: GOMAXPROCS.
	Concurrency int
}

// Parser turns documentation text into records.
type Parser struct {
	prefix      string
	markers     Markers
	logger      *slog.Logger
	concurrency int
}

// NewParser creates a Parser with the given options.
func NewParser(opts Options) *Parser {
	p := &Parser{
		prefix:      opts.Prefix,
		markers:     opts.Markers.withDefaults(),
		logger:      opts.Logger,
		concurrency: opts.Concurrency,
	}
	if p.prefix == "" {
		p.prefix = DefaultPrefix
	}
	if p.logger == nil {
		p.logger = slog.Default()
	}
	if p.concurrency <= 0 {
		p.concurrency = runtime.GOMAXPROCS(0)
	}
	return p
}

// Prefix returns the canonical ID prefix in use.
func (p *Parser) Prefix() string {
	return p.prefix
}

// Document is the parse result of a single category document.
type Document struct {
	Category string
	Source   string
	Records  []Record
	// Skipped counts blocks dropped for lack of a recognizable name.
	Skipped int
}

// Result is the parse result of a whole documentation source.
type Result struct {
	// Documents are in file name order.
	Documents []Document
	// Unreadable lists documents that could not be read.
	Unreadable []string
}

// Records returns all records in document order, then block order.
func (r Result) Records() []Record {
	n := 0
	for _, d := range r.Documents {
		n += len(d.Records)
	}
	out := make([]Record, 0, n)
	for _, d := range r.Documents {
		out = append(out, d.Records...)
	}
	return out
}

// Skipped returns the total number of skipped blocks.
func (r Result) Skipped() int {
	n := 0
	for _, d := range r.Documents {
		n += d.Skipped
	}
	return n
}

// ParseFS parses every document under root in fsys.
//
// Documents are read concurrently but returned in file name order, so a
// later document deterministically overrides an earlier one on ID
// collision. Only a root that cannot be listed is reported as an error.
func (p *Parser) ParseFS(ctx context.Context, fsys fs.FS, root string) (Result, error) {
	if root == "" {
		root = "."
	}
	entries, err := fs.ReadDir(fsys, root)
	if err != nil {
		return Result{}, fmt.Errorf("%w: %s: %v", ErrSourceUnavailable, root, err)
	}

	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), p.markers.Extension) {
			continue
		}
		names = append(names, entry.Name())
	}

	docs := make([]*Document, len(names))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.concurrency)
	for i, name := range names {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			source := path.Join(root, name)
			data, err := fs.ReadFile(fsys, source)
			if err != nil {
				p.logger.Warn("tooldoc: skip unreadable document", "source", source, "err", err)
				return nil
			}
			if !utf8.Valid(data) {
				p.logger.Warn("tooldoc: skip document with invalid utf-8", "source", source)
				return nil
			}
			category := strings.TrimSuffix(name, p.markers.Extension)
			doc := p.ParseDocument(category, source, string(data))
			docs[i] = &doc
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Result{}, err
	}

	var res Result
	for i, doc := range docs {
		if doc == nil {
			res.Unreadable = append(res.Unreadable, path.Join(root, names[i]))
			continue
		}
		res.Documents = append(res.Documents, *doc)
	}
	return res, nil
}

type block struct {
	name  string
	line  int
	lines []string
}

// ParseDocument parses one category document's content.
func (p *Parser) ParseDocument(category, source, content string) Document {
	doc := Document{Category: category, Source: source}

	blocks, skipped := p.splitBlocks(source, content)
	doc.Skipped = skipped
	for _, b := range blocks {
		doc.Records = append(doc.Records, Record{
			Name:        b.name,
			ID:          CanonicalID(p.prefix, category, b.name),
			Category:    category,
			Description: p.description(b.lines),
			Params:      p.params(b.lines),
			Source:      fmt.Sprintf("%s:%d", source, b.line),
		})
	}
	return doc
}

// splitBlocks cuts content at interface marker lines. A marker without a
// usable name is counted as skipped and does not end the current block.
func (p *Parser) splitBlocks(source, content string) (blocks []block, skipped int) {
	cur := -1
	for i, line := range strings.Split(content, "\n") {
		line = strings.TrimSuffix(line, "\r")
		if name, ok := labeled(line, p.markers.Interface); ok {
			if bareNamePattern.MatchString(name) {
				blocks = append(blocks, block{name: name, line: i + 1})
				cur = len(blocks) - 1
				continue
			}
			skipped++
			p.logger.Debug("tooldoc: skip block without name",
				"source", source, "line", i+1, "marker", name)
		}
		if cur >= 0 {
			blocks[cur].lines = append(blocks[cur].lines, line)
		}
	}
	return blocks, skipped
}

// description returns the first labeled description. A label with no
// text on its line takes the next non-blank line.
func (p *Parser) description(lines []string) string {
	for i, line := range lines {
		text, ok := labeled(line, p.markers.Description)
		if !ok {
			continue
		}
		if text != "" {
			return text
		}
		for _, next := range lines[i+1:] {
			if next = cleanLine(next); next != "" {
				return next
			}
		}
		return ""
	}
	return ""
}

// params reads the first table following the input parameter marker.
// Blank lines may separate the marker from the table; the first
// non-table line after the table ends it.
func (p *Parser) params(lines []string) []Param {
	start := -1
	for i, line := range lines {
		if p.markers.isInputParamsLine(line) {
			start = i + 1
			break
		}
	}
	if start < 0 {
		return nil
	}
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}

	var params []Param
	for _, line := range lines[start:] {
		if !isTableRow(line) {
			break
		}
		cells := splitRow(line)
		if isSeparatorRow(cells) || p.markers.isHeaderRow(cells) {
			continue
		}
		if !paramNamePattern.MatchString(cells[0]) {
			continue
		}
		typ := DefaultParamType
		if len(cells) >= 2 && cells[1] != "" {
			typ = cells[1]
		}
		params = append(params, Param{Name: cells[0], Type: typ})
	}
	return params
}
