package index

import (
	"encoding/hex"
	"fmt"
	"sort"

	"github.com/zeebo/blake3"

	"github.com/jonwraymond/docregistry/tooldoc"
)

// Collision records a canonical ID produced by more than one block.
type Collision struct {
	ID string
	// Replaced is the source of the record that was overwritten.
	Replaced string
	// Kept is the source of the record that won.
	Kept string
}

// Catalog is an immutable mapping from canonical ID to record.
type Catalog struct {
	prefix      string
	records     map[string]tooldoc.Record
	ids         []string
	categories  []string
	collisions  []Collision
	fingerprint string
}

// NewCatalog builds a catalog from records in order. A record whose ID was
// already seen replaces the earlier one.
func NewCatalog(prefix string, records []tooldoc.Record) *Catalog {
	c := &Catalog{
		prefix:  prefix,
		records: make(map[string]tooldoc.Record, len(records)),
	}
	for _, rec := range records {
		if prev, ok := c.records[rec.ID]; ok {
			c.collisions = append(c.collisions, Collision{
				ID:       rec.ID,
				Replaced: prev.Source,
				Kept:     rec.Source,
			})
		}
		c.records[rec.ID] = rec.Clone()
	}

	c.ids = make([]string, 0, len(c.records))
	seen := make(map[string]struct{})
	for id, rec := range c.records {
		c.ids = append(c.ids, id)
		if _, ok := seen[rec.Category]; !ok {
			seen[rec.Category] = struct{}{}
			c.categories = append(c.categories, rec.Category)
		}
	}
	sort.Strings(c.ids)
	sort.Strings(c.categories)
	c.fingerprint = c.computeFingerprint()
	return c
}

// Prefix returns the canonical ID prefix the catalog was built with.
func (c *Catalog) Prefix() string {
	return c.prefix
}

// Get returns the record with exactly the given canonical ID.
func (c *Catalog) Get(id string) (tooldoc.Record, bool) {
	rec, ok := c.records[id]
	if !ok {
		return tooldoc.Record{}, false
	}
	return rec.Clone(), true
}

// Len returns the number of records.
func (c *Catalog) Len() int {
	return len(c.records)
}

// IDs returns all canonical IDs in sorted order.
func (c *Catalog) IDs() []string {
	out := make([]string, len(c.ids))
	copy(out, c.ids)
	return out
}

// Records returns all records sorted by canonical ID.
func (c *Catalog) Records() []tooldoc.Record {
	out := make([]tooldoc.Record, len(c.ids))
	for i, id := range c.ids {
		out[i] = c.records[id].Clone()
	}
	return out
}

// Categories returns the distinct categories in sorted order.
func (c *Catalog) Categories() []string {
	out := make([]string, len(c.categories))
	copy(out, c.categories)
	return out
}

// Collisions returns every overwrite that happened while building.
func (c *Catalog) Collisions() []Collision {
	out := make([]Collision, len(c.collisions))
	copy(out, c.collisions)
	return out
}

// Fingerprint returns a stable hash of the catalog contents. Two catalogs
// with the same records have the same fingerprint.
func (c *Catalog) Fingerprint() string {
	return c.fingerprint
}

func (c *Catalog) computeFingerprint() string {
	h := blake3.New()
	write := func(s string) {
		_, _ = h.Write([]byte(s))
		_, _ = h.Write([]byte{0})
	}
	write(c.prefix)
	for _, id := range c.ids {
		rec := c.records[id]
		write(rec.ID)
		write(rec.Name)
		write(rec.Category)
		write(rec.Description)
		for _, p := range rec.Params {
			write(fmt.Sprintf("%s\x01%s", p.Name, p.Type))
		}
		_, _ = h.Write([]byte{1})
	}
	return hex.EncodeToString(h.Sum(nil))
}
