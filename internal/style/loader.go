package style

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/mitchellh/go-homedir"
)

//go:embed defaults/styles.yaml
var embedded embed.FS

var (
	builtinOnce sync.Once
	builtin     *Catalog
	builtinErr  error
)

// Builtin returns the catalog shipped with the binary.
func Builtin() *Catalog {
	builtinOnce.Do(func() {
		f, err := embedded.Open("defaults/styles.yaml")
		if err != nil {
			builtinErr = err
			return
		}
		defer f.Close()
		builtin, builtinErr = Parse(f)
	})
	if builtinErr != nil {
		panic(fmt.Sprintf("style: embedded catalog: %v", builtinErr))
	}
	return builtin
}

// Loader resolves the style catalog.
type Loader struct {
	// Path, when set, must point at a catalog file.
	Path string
	// ConfigDir is searched for styles.yaml when Path is empty.
	ConfigDir string
}

// NewLoader creates a Loader with the standard user config directory.
func NewLoader(path string) *Loader {
	home, _ := homedir.Dir()
	return &Loader{
		Path:      path,
		ConfigDir: filepath.Join(home, ".config", "copainter"),
	}
}

// Load returns the catalog from Path, then ConfigDir/styles.yaml, then the
// embedded default.
func (l *Loader) Load() (*Catalog, error) {
	if l.Path != "" {
		p, err := homedir.Expand(l.Path)
		if err != nil {
			return nil, err
		}
		return loadFile(p)
	}
	if l.ConfigDir != "" {
		p := filepath.Join(l.ConfigDir, "styles.yaml")
		if _, err := os.Stat(p); err == nil {
			return loadFile(p)
		}
	}
	return Builtin(), nil
}

func loadFile(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}
