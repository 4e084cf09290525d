package clipboard

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/example/shineymark/internal/export"
	"github.com/example/shineymark/internal/shape"
)

type memoryBackend map[format][]byte

func (m memoryBackend) write(f format, data []byte) error {
	m[f] = append([]byte(nil), data...)
	return nil
}

func (m memoryBackend) read(f format) ([]byte, error) { return m[f], nil }

func useMemory(t *testing.T) memoryBackend {
	t.Helper()
	m := memoryBackend{}
	old := current
	current = func() (backend, error) { return m, nil }
	t.Cleanup(func() { current = old })
	return m
}

func TestWriteExportRejectsNonPNG(t *testing.T) {
	for _, f := range []export.Format{export.JPEG, export.PDF} {
		err := WriteExport(export.Result{Format: f, Data: []byte{1}})
		if !errors.Is(err, export.ErrUnsupportedFormat) {
			t.Fatalf("%s: got %v", f, err)
		}
	}
}

func TestWriteExportEmpty(t *testing.T) {
	if err := WriteExport(export.Result{Format: export.PNG}); !errors.Is(err, export.ErrNotReady) {
		t.Fatalf("got %v", err)
	}
}

func TestImageRoundTrip(t *testing.T) {
	useMemory(t)
	if _, err := ReadImage(); !errors.Is(err, errNoImage) {
		t.Fatalf("empty clipboard: %v", err)
	}
	src := image.NewRGBA(image.Rect(0, 0, 3, 2))
	src.Set(1, 1, color.RGBA{R: 200, A: 255})
	if err := WriteImage(src); err != nil {
		t.Fatal(err)
	}
	got, err := ReadImage()
	if err != nil {
		t.Fatal(err)
	}
	if got.Bounds() != src.Bounds() {
		t.Fatalf("bounds %v", got.Bounds())
	}
	if r, _, _, _ := got.At(1, 1).RGBA(); r>>8 != 200 {
		t.Fatalf("pixel r=%d", r>>8)
	}
}

func TestReadTextTrimsNul(t *testing.T) {
	m := useMemory(t)
	m[formatText] = []byte("note\x00")
	got, err := ReadText()
	if err != nil || got != "note" {
		t.Fatalf("got %q, %v", got, err)
	}
	m[formatText] = []byte{0}
	if _, err := ReadText(); !errors.Is(err, errNoText) {
		t.Fatalf("expected errNoText, got %v", err)
	}
}

func TestShapesRoundTrip(t *testing.T) {
	m := useMemory(t)
	r := shape.New(shape.KindRect, 4, 5, shape.Style{Stroke: "red", StrokeWidth: 2})
	r.Width, r.Height = 10, 6
	if err := WriteShapes([]shape.Shape{r}); err != nil {
		t.Fatal(err)
	}
	if len(m[formatPNG]) != 0 {
		t.Fatal("shapes should travel as text")
	}
	list, err := ReadShapes()
	if err != nil {
		t.Fatal(err)
	}
	if len(list) != 1 || list[0].ID != r.ID || list[0].Width != 10 {
		t.Fatalf("got %+v", list)
	}

	m[formatText] = []byte("not json")
	if _, err := ReadShapes(); err == nil {
		t.Fatal("expected decode error")
	}
}
