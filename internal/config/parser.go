package config

import (
	"bufio"
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/example/copainter/internal/theme"
)

// Parse reads configuration from an io.Reader over the defaults of New.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var currentSection string
	var currentTheme *theme.Theme
	lineNo := 0

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			currentSection = strings.ToLower(strings.TrimSuffix(strings.TrimPrefix(line, "["), "]"))
			currentTheme = nil

			if strings.HasPrefix(currentSection, "theme.") {
				// keep the name's case
				name := line[len("[theme.") : len(line)-1]
				currentTheme = theme.Default()
				currentTheme.Name = name
				cfg.Themes[name] = currentTheme
			}
			continue
		}

		key, value, ok := splitLine(line)
		if !ok {
			continue
		}

		var err error
		switch {
		case currentTheme != nil:
			err = setThemeField(currentTheme, key, value)
		case currentSection == "":
			err = setRootField(cfg, key, value)
		case currentSection == "canvas":
			err = setCanvasField(&cfg.Canvas, key, value)
		case currentSection == "generate":
			err = setGenerateField(&cfg.Generate, key, value)
		case currentSection == "openai":
			err = setOpenAIField(&cfg.OpenAI, key, value)
		case currentSection == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		case currentSection == "log":
			err = setLogField(&cfg.Log, key, value)
		}
		if err != nil {
			if currentSection == "" {
				return nil, fmt.Errorf("line %d: root section: %w", lineNo, err)
			}
			return nil, fmt.Errorf("line %d: section [%s]: %w", lineNo, currentSection, err)
		}
	}

	return cfg, scanner.Err()
}

// splitLine accepts "key = value" and "Key: value". Quoted values are unquoted.
func splitLine(line string) (string, string, bool) {
	eq := strings.Index(line, "=")
	colon := strings.Index(line, ":")
	var key, value string
	switch {
	case eq >= 0 && (colon < 0 || eq < colon):
		key, value = line[:eq], line[eq+1:]
	case colon >= 0:
		key, value = line[:colon], line[colon+1:]
	default:
		return "", "", false
	}
	key, value = strings.TrimSpace(key), strings.TrimSpace(value)
	if len(value) >= 2 && strings.HasPrefix(value, "\"") && strings.HasSuffix(value, "\"") {
		if uq, err := strconv.Unquote(value); err == nil {
			value = uq
		} else {
			value = value[1 : len(value)-1]
		}
	}
	return key, value, true
}

func setRootField(cfg *Config, key, value string) error {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
	return nil
}

func setCanvasField(c *Canvas, key, value string) error {
	var dst *int
	switch strings.ToLower(key) {
	case "width":
		dst = &c.Width
	case "height":
		dst = &c.Height
	case "pencil_width":
		dst = &c.PencilWidth
	case "eraser_width":
		dst = &c.EraserWidth
	default:
		return nil
	}
	n, err := parsePositive(key, value)
	if err != nil {
		return err
	}
	*dst = n
	return nil
}

func setGenerateField(g *Generate, key, value string) error {
	var err error
	switch strings.ToLower(key) {
	case "backend":
		g.Backend = value
	case "style":
		g.Style = value
	case "styles":
		g.Styles = value
	case "prompt":
		g.Prompt = value
	case "negative_prompt":
		g.NegativePrompt = value
	case "steps":
		g.Steps, err = parsePositive(key, value)
	case "guidance":
		g.Guidance, err = parseFloat(key, value)
	case "control":
		g.Control, err = parseFloat(key, value)
	case "seed":
		g.Seed, err = strconv.ParseInt(value, 10, 64)
		if err != nil {
			err = fmt.Errorf("invalid integer for key %s: %w", key, err)
		}
	case "timeout":
		g.Timeout, err = time.ParseDuration(value)
		if err != nil {
			err = fmt.Errorf("invalid duration for key %s: %w", key, err)
		}
	case "input_size":
		g.InputSize, err = parsePositive(key, value)
	case "output_size":
		g.OutputSize, err = parsePositive(key, value)
	case "invert":
		g.Invert, err = parseBool(key, value)
	}
	return err
}

func setOpenAIField(o *OpenAI, key, value string) error {
	switch strings.ToLower(key) {
	case "model":
		o.Model = value
	case "size":
		o.Size = value
	case "base_url":
		o.BaseURL = value
	case "api_key":
		return fmt.Errorf("api_key does not belong in the config file; set OPENAI_API_KEY")
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := parseBool(key, value)
	if err != nil {
		return err
	}
	switch strings.ToLower(key) {
	case "generated":
		n.Generated = b
	case "failed":
		n.Failed = b
	case "copy":
		n.Copy = b
	}
	return nil
}

func setLogField(l *Log, key, value string) error {
	switch strings.ToLower(key) {
	case "level":
		l.Level = value
	case "file":
		l.File = value
	}
	return nil
}

func setThemeField(t *theme.Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}

	// Case-insensitive field lookup
	typ := reflect.TypeOf(*t)
	for i := 0; i < typ.NumField(); i++ {
		f := typ.Field(i)
		if strings.EqualFold(f.Name, key) {
			if err := t.Set(f.Name, value); err != nil {
				return fmt.Errorf("invalid color for key %s: %w", key, err)
			}
			return nil
		}
	}
	return nil
}

func parsePositive(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("invalid integer for key %s: %w", key, err)
	}
	if n <= 0 {
		return 0, fmt.Errorf("key %s must be positive, got %d", key, n)
	}
	return n, nil
}

func parseFloat(key, value string) (float64, error) {
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid number for key %s: %w", key, err)
	}
	return f, nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	return b, nil
}
