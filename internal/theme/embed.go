package theme

import (
	"embed"
	"io/fs"
	"sort"
	"strings"
)

//go:embed defaults/*.theme
var EmbeddedThemes embed.FS

// Builtin lists the names of the embedded themes without extension.
func Builtin() []string {
	entries, err := fs.ReadDir(EmbeddedThemes, "defaults")
	if err != nil {
		return nil
	}
	var names []string
	for _, e := range entries {
		if name, ok := strings.CutSuffix(e.Name(), ".theme"); ok {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}
