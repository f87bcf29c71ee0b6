// Package config reads and writes the copainter rc file.
package config

import (
	"fmt"
	"image/color"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/example/copainter/internal/theme"
)

// Canvas holds drawing surface settings.
type Canvas struct {
	Width       int
	Height      int
	PencilWidth int
	EraserWidth int
}

// Generate holds generation settings.
type Generate struct {
	Backend        string
	Style          string
	Styles         string // path to a styles.yaml catalog
	Prompt         string
	NegativePrompt string
	Steps          int
	Guidance       float64
	Control        float64
	Seed           int64
	Timeout        time.Duration
	InputSize      int
	OutputSize     int
	Invert         bool
}

// OpenAI holds image API settings. The key is never stored here.
type OpenAI struct {
	Model   string
	Size    string
	BaseURL string
}

// Notify holds notification settings.
type Notify struct {
	Generated bool
	Failed    bool
	Copy      bool
}

// Log holds logging settings.
type Log struct {
	Level string
	File  string
}

// Config holds the application configuration.
type Config struct {
	Theme    string
	SaveDir  string
	Canvas   Canvas
	Generate Generate
	OpenAI   OpenAI
	Notify   Notify
	Log      Log
	Themes   map[string]*theme.Theme
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		Canvas: Canvas{
			Width:       600,
			Height:      600,
			PencilWidth: 2,
			EraserWidth: 10,
		},
		Generate: Generate{
			Backend:    "openai",
			Steps:      25,
			Guidance:   5,
			Control:    1.0,
			Timeout:    2 * time.Minute,
			InputSize:  1024,
			OutputSize: 600,
			Invert:     true,
		},
		OpenAI: OpenAI{
			Model: "dall-e-2",
			Size:  "1024x1024",
		},
		Notify: Notify{
			Failed: true,
		},
		Log: Log{
			Level: "info",
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// String returns the configuration in rc format.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "width = %d\n", c.Canvas.Width)
	fmt.Fprintf(&sb, "height = %d\n", c.Canvas.Height)
	fmt.Fprintf(&sb, "pencil_width = %d\n", c.Canvas.PencilWidth)
	fmt.Fprintf(&sb, "eraser_width = %d\n", c.Canvas.EraserWidth)
	sb.WriteString("\n")

	g := c.Generate
	sb.WriteString("[generate]\n")
	fmt.Fprintf(&sb, "backend = %s\n", g.Backend)
	if g.Style != "" {
		fmt.Fprintf(&sb, "style = %q\n", g.Style)
	}
	if g.Styles != "" {
		fmt.Fprintf(&sb, "styles = %s\n", g.Styles)
	}
	if g.Prompt != "" {
		fmt.Fprintf(&sb, "prompt = %q\n", g.Prompt)
	}
	if g.NegativePrompt != "" {
		fmt.Fprintf(&sb, "negative_prompt = %q\n", g.NegativePrompt)
	}
	fmt.Fprintf(&sb, "steps = %d\n", g.Steps)
	fmt.Fprintf(&sb, "guidance = %g\n", g.Guidance)
	fmt.Fprintf(&sb, "control = %g\n", g.Control)
	fmt.Fprintf(&sb, "seed = %d\n", g.Seed)
	fmt.Fprintf(&sb, "timeout = %s\n", g.Timeout)
	fmt.Fprintf(&sb, "input_size = %d\n", g.InputSize)
	fmt.Fprintf(&sb, "output_size = %d\n", g.OutputSize)
	fmt.Fprintf(&sb, "invert = %v\n", g.Invert)
	sb.WriteString("\n")

	sb.WriteString("[openai]\n")
	fmt.Fprintf(&sb, "model = %s\n", c.OpenAI.Model)
	fmt.Fprintf(&sb, "size = %s\n", c.OpenAI.Size)
	if c.OpenAI.BaseURL != "" {
		fmt.Fprintf(&sb, "base_url = %s\n", c.OpenAI.BaseURL)
	}
	sb.WriteString("\n")

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "generated = %v\n", c.Notify.Generated)
	fmt.Fprintf(&sb, "failed = %v\n", c.Notify.Failed)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	sb.WriteString("[log]\n")
	fmt.Fprintf(&sb, "level = %s\n", c.Log.Level)
	if c.Log.File != "" {
		fmt.Fprintf(&sb, "file = %s\n", c.Log.File)
	}
	sb.WriteString("\n")

	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		t := c.Themes[name]
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		fmt.Fprintf(&sb, "Name: %s\n", t.Name)
		writeThemeColours(&sb, t)
		sb.WriteString("\n")
	}

	return sb.String()
}

func writeThemeColours(sb *strings.Builder, t *theme.Theme) {
	val := reflect.ValueOf(t).Elem()
	typ := val.Type()
	for i := 0; i < typ.NumField(); i++ {
		col, ok := val.Field(i).Interface().(color.RGBA)
		if !ok {
			continue
		}
		fmt.Fprintf(sb, "%s: %s\n", typ.Field(i).Name, toHex(col))
	}
}

func toHex(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
