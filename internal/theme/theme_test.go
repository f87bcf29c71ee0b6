package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    color.RGBA
		wantErr bool
	}{
		{"#29be46", color.RGBA{0x29, 0xbe, 0x46, 0xff}, false},
		{"#00000080", color.RGBA{0, 0, 0, 0x80}, false},
		{"29be46", color.RGBA{}, true},
		{"#12345", color.RGBA{}, true},
		{"#gggggg", color.RGBA{}, true},
	}
	for _, tt := range tests {
		got, err := ParseColor(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseColor(%q) err = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if err == nil && got != tt.want {
			t.Fatalf("ParseColor(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseOverridesDefault(t *testing.T) {
	input := "# comment\nName: Test\nAccent: #ff0000\nUnknown: #000000\nnot a pair\n"
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if th.Name != "Test" {
		t.Fatalf("Name = %q", th.Name)
	}
	if th.Accent != (color.RGBA{255, 0, 0, 255}) {
		t.Fatalf("Accent = %v", th.Accent)
	}
	if th.Background != Default().Background {
		t.Fatalf("unset fields should keep defaults")
	}
}

func TestParseReportsLine(t *testing.T) {
	_, err := Parse(strings.NewReader("Name: x\nAccent: red\n"))
	if err == nil || !strings.Contains(err.Error(), "line 2") {
		t.Fatalf("expected line number in error, got %v", err)
	}
}

func TestSet(t *testing.T) {
	th := Default()
	if err := th.Set("Error", "#010203"); err != nil {
		t.Fatalf("Set: %v", err)
	}
	if th.Error != (color.RGBA{1, 2, 3, 255}) {
		t.Fatalf("Error = %v", th.Error)
	}
	if err := th.Set("Name", "#010203"); err == nil {
		t.Fatalf("Name is not a colour field")
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	if got := Builtin(); !reflect.DeepEqual(got, []string{"dark", "default"}) {
		t.Fatalf("Builtin() = %v", got)
	}
	l := &Loader{}
	def, err := l.Load("default")
	if err != nil {
		t.Fatalf("Load default: %v", err)
	}
	if !reflect.DeepEqual(def, Default()) {
		t.Fatalf("embedded default.theme drifted from Default():\n%+v\n%+v", def, Default())
	}
	dark, err := l.Load("Dark")
	if err != nil {
		t.Fatalf("Load Dark: %v", err)
	}
	if dark.Name != "Dark" {
		t.Fatalf("Name = %q", dark.Name)
	}
}

func TestLoaderSearchesConfigDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "mine.theme"), []byte("Name: Mine\nAccent: #0000ff\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	th, err := (&Loader{ConfigDir: dir}).Load("mine")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if th.Name != "Mine" || th.Accent != (color.RGBA{0, 0, 255, 255}) {
		t.Fatalf("got %+v", th)
	}
	if _, err := (&Loader{ConfigDir: dir}).Load("absent"); err == nil {
		t.Fatalf("expected error for missing theme")
	}
}

func TestLoadEmptyNameIsDefault(t *testing.T) {
	th, err := NewLoader().Load("")
	if err != nil || th.Name != "Default" {
		t.Fatalf("got %v, %v", th, err)
	}
}
