package style

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrInvalidCatalog is wrapped by every validation failure in Parse.
var ErrInvalidCatalog = errors.New("style: invalid catalog")

type catalogFile struct {
	Default string  `yaml:"default"`
	Styles  []Entry `yaml:"styles"`
}

// Parse reads a YAML catalog:
//
//	default: "(No style)"
//	styles:
//	  - name: "(No style)"
//	    prompt: "{prompt}"
//	    negative_prompt: "lowres"
//
// When default is omitted DefaultName is assumed.
func Parse(r io.Reader) (*Catalog, error) {
	var f catalogFile
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidCatalog)
		}
		return nil, fmt.Errorf("%w: %v", ErrInvalidCatalog, err)
	}
	if f.Default == "" {
		f.Default = DefaultName
	}
	return NewCatalog(f.Default, f.Styles)
}

// NewCatalog validates entries and builds a Catalog.
func NewCatalog(defaultName string, entries []Entry) (*Catalog, error) {
	if len(entries) == 0 {
		return nil, fmt.Errorf("%w: no styles defined", ErrInvalidCatalog)
	}
	c := &Catalog{
		entries:     make([]Entry, 0, len(entries)),
		index:       make(map[string]int, len(entries)),
		defaultName: defaultName,
	}
	for i, e := range entries {
		e.Name = strings.TrimSpace(e.Name)
		if e.Name == "" {
			return nil, fmt.Errorf("%w: style %d has no name", ErrInvalidCatalog, i+1)
		}
		if _, dup := c.index[e.Name]; dup {
			return nil, fmt.Errorf("%w: duplicate style %q", ErrInvalidCatalog, e.Name)
		}
		if !strings.Contains(e.Prompt, Placeholder) {
			return nil, fmt.Errorf("%w: style %q prompt lacks %s", ErrInvalidCatalog, e.Name, Placeholder)
		}
		c.index[e.Name] = len(c.entries)
		c.entries = append(c.entries, e)
	}
	if _, ok := c.index[defaultName]; !ok {
		return nil, fmt.Errorf("%w: default style %q is not defined", ErrInvalidCatalog, defaultName)
	}
	return c, nil
}
