// Package style maps style names to prompt templates.
package style

import (
	"strings"
)

// DefaultName is the catalog entry used for unknown names. It doubles as the
// "nothing selected" value in the style selector.
const DefaultName = "(No style)"

// Placeholder is replaced by the user's positive prompt.
const Placeholder = "{prompt}"

// Entry is a named prompt template.
type Entry struct {
	Name           string `yaml:"name"`
	Prompt         string `yaml:"prompt"`
	NegativePrompt string `yaml:"negative_prompt"`
}

// Catalog is an immutable, ordered set of styles with a default entry.
type Catalog struct {
	entries     []Entry
	index       map[string]int
	defaultName string
}

// Lookup returns the entry for name, or the default entry if name is unknown.
func (c *Catalog) Lookup(name string) Entry {
	if i, ok := c.index[name]; ok {
		return c.entries[i]
	}
	return c.Default()
}

// Apply substitutes positive into the style template and appends negative to
// the style's negative prompt. Unknown names use the default entry.
func (c *Catalog) Apply(name, positive, negative string) (string, string) {
	e := c.Lookup(name)
	return strings.ReplaceAll(e.Prompt, Placeholder, positive), e.NegativePrompt + negative
}

// Has reports whether name is a catalog entry.
func (c *Catalog) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Default returns the fallback entry.
func (c *Catalog) Default() Entry {
	return c.entries[c.index[c.defaultName]]
}

// IsDefault reports whether name is the default entry.
func (c *Catalog) IsDefault(name string) bool { return name == c.defaultName }

// Names returns the style names in catalog order.
func (c *Catalog) Names() []string {
	out := make([]string, len(c.entries))
	for i, e := range c.entries {
		out[i] = e.Name
	}
	return out
}

// Entries returns a copy of the catalog entries.
func (c *Catalog) Entries() []Entry {
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of entries.
func (c *Catalog) Len() int { return len(c.entries) }
