package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestParse(t *testing.T) {
	input := `
theme = my_custom_theme
save_dir = /tmp/paintings

[canvas]
width = 800
height = 640
pencil_width = 3

[generate]
backend = solid
style = "Pixel art"
prompt = "a lighthouse at dusk"
steps = 30
guidance = 7.5
seed = -1
timeout = 45s
invert = false

[openai]
model = dall-e-2
size = 512x512

[notify]
generated = true
failed = false
copy = true

[log]
level = debug
file = ~/copainter.log

[theme.my_custom_theme]
Background = #111111
Accent: #FF0000
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	if cfg.Theme != "my_custom_theme" {
		t.Errorf("Expected theme 'my_custom_theme', got '%s'", cfg.Theme)
	}
	if cfg.SaveDir != "/tmp/paintings" {
		t.Errorf("Expected save_dir '/tmp/paintings', got '%s'", cfg.SaveDir)
	}
	if cfg.Canvas.Width != 800 || cfg.Canvas.Height != 640 || cfg.Canvas.PencilWidth != 3 {
		t.Errorf("Unexpected canvas section: %+v", cfg.Canvas)
	}
	if cfg.Canvas.EraserWidth != 10 {
		t.Errorf("Expected default eraser width 10, got %d", cfg.Canvas.EraserWidth)
	}

	g := cfg.Generate
	if g.Backend != "solid" || g.Style != "Pixel art" || g.Prompt != "a lighthouse at dusk" {
		t.Errorf("Unexpected generate strings: %+v", g)
	}
	if g.Steps != 30 || g.Guidance != 7.5 || g.Seed != -1 || g.Timeout != 45*time.Second || g.Invert {
		t.Errorf("Unexpected generate values: %+v", g)
	}
	if g.Control != 1.0 || g.OutputSize != 600 {
		t.Errorf("Defaults lost: %+v", g)
	}

	if cfg.OpenAI.Size != "512x512" {
		t.Errorf("Expected openai size 512x512, got %q", cfg.OpenAI.Size)
	}
	if !cfg.Notify.Generated || cfg.Notify.Failed || !cfg.Notify.Copy {
		t.Errorf("Unexpected notify section: %+v", cfg.Notify)
	}
	if cfg.Log.Level != "debug" || cfg.Log.File != "~/copainter.log" {
		t.Errorf("Unexpected log section: %+v", cfg.Log)
	}

	th, ok := cfg.Themes["my_custom_theme"]
	if !ok {
		t.Fatal("Expected theme 'my_custom_theme' to be loaded")
	}
	if th.Background.R != 0x11 || th.Background.G != 0x11 || th.Background.B != 0x11 {
		t.Errorf("Unexpected Background color: %+v", th.Background)
	}
	if th.Accent.R != 0xFF || th.Accent.G != 0 {
		t.Errorf("Unexpected Accent color: %+v", th.Accent)
	}
}

func TestParseErrors(t *testing.T) {
	cases := map[string]string{
		"bad int":      "[canvas]\nwidth = wide\n",
		"negative":     "[canvas]\nheight = -4\n",
		"bad bool":     "[notify]\ncopy = sometimes\n",
		"bad duration": "[generate]\ntimeout = soon\n",
		"api key":      "[openai]\napi_key = sk-123\n",
		"bad colour":   "[theme.x]\nAccent = red\n",
	}
	for name, input := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(input)); err == nil {
				t.Fatalf("expected error for %q", input)
			}
		})
	}
}

func TestCircular(t *testing.T) {
	input := `theme = dark
save_dir = /home/user/paintings

[generate]
style = "3D Model"
prompt = "a \"quoted\" robot"
seed = 42

[notify]
generated = true
failed = true
copy = false

[theme.custom]
Name = custom
Background = #000000
Foreground = #FFFFFF
Muted = #80808080
`
	cfg, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Initial parse failed: %v", err)
	}

	generated := cfg.String()

	cfg2, err := Parse(strings.NewReader(generated))
	if err != nil {
		t.Fatalf("Circular parse failed: %v\n%s", err, generated)
	}

	if cfg.Theme != cfg2.Theme {
		t.Errorf("Theme mismatch: %q vs %q", cfg.Theme, cfg2.Theme)
	}
	if cfg.SaveDir != cfg2.SaveDir {
		t.Errorf("SaveDir mismatch: %q vs %q", cfg.SaveDir, cfg2.SaveDir)
	}
	if cfg.Notify != cfg2.Notify {
		t.Errorf("Notify mismatch: %+v vs %+v", cfg.Notify, cfg2.Notify)
	}
	if cfg.Generate != cfg2.Generate {
		t.Errorf("Generate mismatch: %+v vs %+v", cfg.Generate, cfg2.Generate)
	}
	if cfg2.Generate.Prompt != `a "quoted" robot` {
		t.Errorf("Prompt not unquoted: %q", cfg2.Generate.Prompt)
	}
	if cfg.Canvas != cfg2.Canvas || cfg.OpenAI != cfg2.OpenAI || cfg.Log != cfg2.Log {
		t.Errorf("Section mismatch after round trip")
	}

	t1 := cfg.Themes["custom"]
	t2 := cfg2.Themes["custom"]
	if t1 == nil || t2 == nil {
		t.Fatalf("Custom theme missing in one config")
	}
	if *t1 != *t2 {
		t.Errorf("Theme mismatch: %+v vs %+v", t1, t2)
	}
}

func TestLoaderOverridePath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "custom.rc")
	if err := os.WriteFile(path, []byte("theme = dark\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := NewLoader("1.0.0", path).Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Theme != "dark" {
		t.Errorf("Expected theme dark, got %q", cfg.Theme)
	}
}

func TestLoaderDevDirectory(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	if err := os.WriteFile(filepath.Join(dir, ".copainterrc"), []byte("[log]\nlevel = warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := NewLoader("dev", "")
	if got := l.GetConfigPath(); got != filepath.Join(dir, ".copainterrc") {
		t.Fatalf("GetConfigPath = %q", got)
	}
	cfg, err := l.Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if cfg.Log.Level != "warn" {
		t.Errorf("Expected level warn, got %q", cfg.Log.Level)
	}
}

func TestAPIKeyFromDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", dir)
	t.Setenv(APIKeyEnv, "")
	os.Unsetenv(APIKeyEnv)
	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte(APIKeyEnv+"=sk-from-dotenv\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	if got := APIKey(); got != "sk-from-dotenv" {
		t.Errorf("APIKey = %q", got)
	}

	t.Setenv(APIKeyEnv, "sk-from-env")
	if got := APIKey(); got != "sk-from-env" {
		t.Errorf("APIKey = %q, environment should win", got)
	}
}
