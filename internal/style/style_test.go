package style

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const defaultNegative = "longbody, lowres, bad anatomy, bad hands, missing fingers, extra digit, fewer digits, cropped, worst quality, low quality"

func TestBuiltinCatalog(t *testing.T) {
	c := Builtin()
	assert.Equal(t, []string{
		"(No style)", "Cinematic", "3D Model", "Anime", "Digital Art",
		"Photographic", "Pixel art", "Fantasy art", "Neonpunk", "Manga",
	}, c.Names())
	assert.Equal(t, DefaultName, c.Default().Name)
	assert.True(t, c.IsDefault(DefaultName))
	assert.False(t, c.IsDefault("Anime"))
}

func TestLookupFallsBackToDefault(t *testing.T) {
	c := Builtin()
	assert.Equal(t, "Manga", c.Lookup("Manga").Name)
	assert.Equal(t, DefaultName, c.Lookup("Watercolour").Name)
	assert.Equal(t, DefaultName, c.Lookup("").Name)
	assert.False(t, c.Has("Watercolour"))
}

func TestApply(t *testing.T) {
	c := Builtin()

	tests := []struct {
		name         string
		style        string
		positive     string
		negative     string
		wantPositive string
		wantNegative string
	}{
		{
			name:         "anime",
			style:        "Anime",
			positive:     "a cat",
			wantPositive: "anime artwork a cat . anime style, key visual, vibrant, studio anime,  highly detailed",
			wantNegative: "photo, deformed, black and white, realism, disfigured, low contrast",
		},
		{
			name:         "cinematic",
			style:        "Cinematic",
			positive:     "a cat",
			wantPositive: "cinematic still a cat . emotional, harmonious, vignette, highly detailed, high budget, bokeh, cinemascope, moody, epic, gorgeous, film grain, grainy",
			wantNegative: "anime, cartoon, graphic, text, painting, crayon, graphite, abstract, glitch, deformed, mutated, ugly, disfigured",
		},
		{
			name:         "unknown style uses default",
			style:        "Nope",
			positive:     "x",
			negative:     "y",
			wantPositive: "x",
			wantNegative: defaultNegative + "y",
		},
		{
			name:         "negative is concatenated verbatim",
			style:        "Digital Art",
			positive:     "",
			negative:     ", blurry",
			wantPositive: "concept art  . digital artwork, illustrative, painterly, matte painting, highly detailed",
			wantNegative: "photo, photorealistic, realism, ugly, blurry",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, n := c.Apply(tt.style, tt.positive, tt.negative)
			assert.Equal(t, tt.wantPositive, p)
			assert.Equal(t, tt.wantNegative, n)
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", "empty document"},
		{"no styles", "default: a\nstyles: []\n", "no styles"},
		{"missing default", "styles:\n  - name: a\n    prompt: \"{prompt}\"\n", "not defined"},
		{"duplicate", "default: a\nstyles:\n  - name: a\n    prompt: \"{prompt}\"\n  - name: a\n    prompt: \"{prompt}\"\n", "duplicate"},
		{"no placeholder", "default: a\nstyles:\n  - name: a\n    prompt: plain\n", "lacks"},
		{"unknown field", "default: a\ncolour: red\nstyles:\n  - name: a\n    prompt: \"{prompt}\"\n", "colour"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(strings.NewReader(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidCatalog))
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestSuggest(t *testing.T) {
	c := Builtin()
	got, ok := c.Suggest("anmie")
	require.True(t, ok)
	assert.Equal(t, "Anime", got)

	got, ok = c.Suggest("pixel ART")
	require.True(t, ok)
	assert.Equal(t, "Pixel art", got)

	_, ok = c.Suggest("zzzzzzzzzzzzzz")
	assert.False(t, ok)
}

func TestLoaderPrefersExplicitPath(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "mine.yaml")
	data := "default: Plain\nstyles:\n  - name: Plain\n    prompt: \"{prompt}\"\n    negative_prompt: \"\"\n  - name: Ink\n    prompt: \"ink drawing of {prompt}\"\n    negative_prompt: colour\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	c, err := (&Loader{Path: path}).Load()
	require.NoError(t, err)
	assert.Equal(t, []string{"Plain", "Ink"}, c.Names())
	p, n := c.Apply("Ink", "a fox", "")
	assert.Equal(t, "ink drawing of a fox", p)
	assert.Equal(t, "colour", n)
}

func TestLoaderConfigDirThenBuiltin(t *testing.T) {
	dir := t.TempDir()
	c, err := (&Loader{ConfigDir: dir}).Load()
	require.NoError(t, err)
	assert.Same(t, Builtin(), c)

	data := "styles:\n  - name: \"(No style)\"\n    prompt: \"{prompt}\"\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "styles.yaml"), []byte(data), 0o644))
	c, err = (&Loader{ConfigDir: dir}).Load()
	require.NoError(t, err)
	assert.Equal(t, 1, c.Len())
}

func TestLoaderMissingPath(t *testing.T) {
	_, err := (&Loader{Path: filepath.Join(t.TempDir(), "absent.yaml")}).Load()
	assert.Error(t, err)
}
