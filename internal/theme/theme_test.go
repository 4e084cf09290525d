package theme

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"image/color"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	input := `
# comment
Name: mine
background: #101010
Selection: tomato
CropShade: #00000040
Unknown: #ffffff
`
	th, err := Parse(strings.NewReader(input))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	if th.Name != "mine" {
		t.Errorf("Name = %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x10, 0x10, 0xff}) {
		t.Errorf("Background = %+v", th.Background)
	}
	if th.Selection != (color.RGBA{0xff, 0x63, 0x47, 0xff}) {
		t.Errorf("Selection = %+v", th.Selection)
	}
	if th.CropShade.A != 0x40 {
		t.Errorf("CropShade = %+v", th.CropShade)
	}
	if th.CheckerDark != Default().CheckerDark {
		t.Error("missing keys should keep defaults")
	}
}

func TestParseBadColor(t *testing.T) {
	if _, err := Parse(strings.NewReader("Background: #12")); err == nil {
		t.Fatal("expected error")
	}
}

func TestWriteToRoundTrip(t *testing.T) {
	th := Default()
	th.Name = "roundtrip"
	th.Handle = color.RGBA{1, 2, 3, 4}
	var buf bytes.Buffer
	if _, err := th.WriteTo(&buf); err != nil {
		t.Fatal(err)
	}
	got, err := Parse(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *th {
		t.Fatalf("got %+v want %+v", got, th)
	}
}

func TestLoaderEmbedded(t *testing.T) {
	l := &Loader{Dirs: []string{t.TempDir()}}
	for _, name := range []string{"dark", "light"} {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if th.Name != name {
			t.Errorf("Name = %q", th.Name)
		}
	}
	if _, err := l.Load("missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	th, err := l.Load("")
	if err != nil || th.Name != "Default" {
		t.Fatalf("empty name gave %v %v", th, err)
	}
}

func TestOverlayColors(t *testing.T) {
	th := Default()
	o := th.Overlay()
	if o.Selection != th.Selection || o.CropShade != th.CropShade {
		t.Fatalf("overlay %+v", o)
	}
}

func TestLoaderSearchesDirs(t *testing.T) {
	first, second := t.TempDir(), t.TempDir()
	if err := os.WriteFile(filepath.Join(second, "ocean.theme"), []byte("Name: ocean\nBackground: #003366\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{Dirs: []string{first, second}}
	th, err := l.Load("ocean")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if th.Name != "ocean" || th.Background != (color.RGBA{0x00, 0x33, 0x66, 0xff}) {
		t.Fatalf("unexpected theme %+v", th)
	}

	bad := filepath.Join(first, "broken.theme")
	if err := os.WriteFile(bad, []byte("Background: nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := l.Load(bad); err == nil || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected parse error for %s, got %v", bad, err)
	}
}
