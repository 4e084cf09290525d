package export

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"strings"
	"testing"

	"github.com/example/shineymark/internal/shape"
)

func background(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.RGBA{40, 40, 40, 255}), image.Point{}, draw.Src)
	return img
}

func TestExportDimensionsIndependentOfZoom(t *testing.T) {
	r := shape.New(shape.KindRect, 10, 10, shape.Style{Stroke: "red", StrokeWidth: 3})
	r.Width, r.Height = 50, 30
	bg := background(333, 217)
	for _, eff := range []float64{0.37, 1, 2, 2.75} {
		img, err := Image(Source{Background: bg, Shapes: []shape.Shape{r}, Effective: eff})
		if err != nil {
			t.Fatalf("Image(eff=%v): %v", eff, err)
		}
		if img.Bounds().Dx() != 333 || img.Bounds().Dy() != 217 {
			t.Fatalf("eff=%v: got %v, want 333x217", eff, img.Bounds())
		}
	}
}

func TestExportWithoutBackground(t *testing.T) {
	res, err := Export(Source{}, Options{})
	if !errors.Is(err, ErrNotReady) {
		t.Fatalf("expected ErrNotReady, got %v", err)
	}
	if len(res.Data) != 0 || res.DataURL() != "" {
		t.Fatal("failed export should return an empty result")
	}
}

func TestExportPNGDecodes(t *testing.T) {
	res, err := Export(Source{Background: background(20, 10), Effective: 1.5}, Options{Format: PNG})
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	img, err := png.Decode(bytes.NewReader(res.Data))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if img.Bounds().Dx() != 20 || img.Bounds().Dy() != 10 {
		t.Fatalf("decoded bounds %v", img.Bounds())
	}
	if !strings.HasPrefix(res.DataURL(), "data:image/png;base64,") {
		t.Fatalf("unexpected data url prefix: %.30s", res.DataURL())
	}
}

func TestExportJPEGAndPDF(t *testing.T) {
	src := Source{Background: background(16, 16)}
	jpg, err := Export(src, Options{Format: JPEG, Quality: 80})
	if err != nil {
		t.Fatalf("jpeg: %v", err)
	}
	if len(jpg.Data) < 2 || jpg.Data[0] != 0xff || jpg.Data[1] != 0xd8 {
		t.Fatal("jpeg output missing SOI marker")
	}
	pdf, err := Export(src, Options{Format: PDF})
	if err != nil {
		t.Fatalf("pdf: %v", err)
	}
	if !bytes.HasPrefix(pdf.Data, []byte("%PDF-")) {
		t.Fatalf("pdf output missing header: %.10q", pdf.Data)
	}
}

func TestParseFormat(t *testing.T) {
	tests := map[string]Format{"": PNG, "PNG": PNG, ".jpg": JPEG, "jpeg": JPEG, "pdf": PDF}
	for in, want := range tests {
		got, err := ParseFormat(in)
		if err != nil || got != want {
			t.Errorf("ParseFormat(%q) = %v, %v; want %v", in, got, err, want)
		}
	}
	if _, err := ParseFormat("gif"); !errors.Is(err, ErrUnsupportedFormat) {
		t.Fatalf("expected ErrUnsupportedFormat, got %v", err)
	}
}
