package main

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/shineymark/internal/capture"
	"github.com/example/shineymark/internal/config"
	"github.com/example/shineymark/internal/export"
	"github.com/example/shineymark/internal/shape"
)

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.White)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func writeShapes(t *testing.T, path string, list []shape.Shape) {
	t.Helper()
	data, err := shape.Marshal(list)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatal(err)
	}
}

func testRoot() *root {
	return &root{program: "shineymark", config: config.New()}
}

func TestSourceValidate(t *testing.T) {
	tests := []struct {
		name string
		src  sourceFlags
		want string
	}{
		{"none", sourceFlags{}, "is required"},
		{"two", sourceFlags{file: "a.png", fromClipboard: true}, "mutually exclusive"},
		{"bad capture", sourceFlags{capture: "window"}, "unknown capture mode"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.src.validate()
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Fatalf("expected error containing %q, got %v", tt.want, err)
			}
		})
	}
	ok := sourceFlags{capture: "region"}
	if err := ok.validate(); err != nil {
		t.Fatalf("region capture rejected: %v", err)
	}
}

func TestParseAspect(t *testing.T) {
	if v, err := parseAspect("16:9"); err != nil || v != 16.0/9.0 {
		t.Fatalf("16:9 = %v, %v", v, err)
	}
	if v, err := parseAspect("1.5"); err != nil || v != 1.5 {
		t.Fatalf("1.5 = %v, %v", v, err)
	}
	for _, bad := range []string{"0:1", "a:b", "-2", ""} {
		if _, err := parseAspect(bad); err == nil {
			t.Errorf("expected error for %q", bad)
		}
	}
}

func TestParseShadowOffset(t *testing.T) {
	p, err := parseShadowOffset(" 4, -2")
	if err != nil || p != image.Pt(4, -2) {
		t.Fatalf("got %v, %v", p, err)
	}
	if _, err := parseShadowOffset("4"); err == nil {
		t.Fatal("expected error")
	}
	if got := formatShadowOffset(image.Pt(3, 5)); got != "3,5" {
		t.Fatalf("format = %q", got)
	}
}

func TestResolveOutput(t *testing.T) {
	r := testRoot()
	r.config.SaveDir = "/tmp/marks"
	if got := r.resolveOutput("a.png"); got != filepath.Join("/tmp/marks", "a.png") {
		t.Fatalf("relative = %q", got)
	}
	if got := r.resolveOutput("/abs/a.png"); got != "/abs/a.png" {
		t.Fatalf("absolute = %q", got)
	}
}

func TestParseRenderRequiresDestination(t *testing.T) {
	_, err := parseRenderCmd([]string{"-file", "bg.png"}, testRoot())
	if err == nil || !strings.Contains(err.Error(), "-output or -to-clipboard") {
		t.Fatalf("expected destination error, got %v", err)
	}
}

func TestRenderRunCaptureError(t *testing.T) {
	original := captureScreenshotFn
	sentinel := errors.New("portal offline")
	captureScreenshotFn = func(capture.CaptureOptions) (*image.RGBA, error) { return nil, sentinel }
	t.Cleanup(func() { captureScreenshotFn = original })

	cmd, err := parseRenderCmd([]string{"-capture", "screen", "-output", filepath.Join(t.TempDir(), "out.png")}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil {
		t.Fatalf("expected error")
	} else {
		if !errors.Is(err, sentinel) {
			t.Fatalf("expected wrapped error, got %v", err)
		}
		if want := "failed to capture screen"; !strings.Contains(err.Error(), want) {
			t.Fatalf("expected error to contain %q, got %v", want, err)
		}
	}
}

func TestRenderWritesAnnotatedImage(t *testing.T) {
	dir := t.TempDir()
	bg := filepath.Join(dir, "bg.png")
	writePNG(t, bg, 50, 40)
	rect := shape.New(shape.KindRect, 10, 10, shape.Style{Stroke: "#ff0000", StrokeWidth: 3})
	rect.Width, rect.Height = 20, 20
	list := filepath.Join(dir, "shapes.json")
	writeShapes(t, list, []shape.Shape{rect})
	out := filepath.Join(dir, "out.png")

	cmd, err := parseRenderCmd([]string{"-file", bg, "-shapes", list, "-output", out, "-zoom", "2"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	f, err := os.Open(out)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	img, err := png.Decode(f)
	if err != nil {
		t.Fatal(err)
	}
	if b := img.Bounds(); b.Dx() != 50 || b.Dy() != 40 {
		t.Fatalf("output size %v, want 50x40", b)
	}
	r, g, _, _ := img.At(10, 20).RGBA()
	if r>>8 < 200 || g>>8 > 80 {
		t.Fatalf("expected red stroke at 10,20, got r=%d g=%d", r>>8, g>>8)
	}
}

func TestRenderToClipboard(t *testing.T) {
	var got export.Result
	original := writeExportFn
	writeExportFn = func(res export.Result) error {
		got = res
		return nil
	}
	t.Cleanup(func() { writeExportFn = original })

	bg := filepath.Join(t.TempDir(), "bg.png")
	writePNG(t, bg, 12, 8)
	cmd, err := parseRenderCmd([]string{"-file", bg, "-to-clipboard"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("run: %v", err)
	}
	if got.Format != export.PNG || got.Width != 12 || got.Height != 8 {
		t.Fatalf("clipboard got %s %dx%d", got.Format, got.Width, got.Height)
	}
}

func TestRenderClipboardRejectsPDF(t *testing.T) {
	cmd, err := parseRenderCmd([]string{"-file", "bg.png", "-to-clipboard", "-format", "pdf"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), "needs png") {
		t.Fatalf("expected png error, got %v", err)
	}
}

func TestShapesValidateAndFormat(t *testing.T) {
	dir := t.TempDir()
	list := filepath.Join(dir, "shapes.json")
	a := shape.New(shape.KindRect, 1, 2, shape.Style{Stroke: "black", StrokeWidth: 1})
	a.Width, a.Height = 3, 4
	b := shape.New(shape.KindText, 5, 6, shape.Style{Stroke: "white", StrokeWidth: 1})
	b.Text, b.FontSize = "hi", 14
	writeShapes(t, list, []shape.Shape{a, b})

	cmd, err := parseShapesCmd([]string{"-file", list, "validate"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	cmd.stdout = &buf
	if err := cmd.Run(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := buf.String(); got != "2 shapes ok\n" {
		t.Fatalf("validate output %q", got)
	}

	out := filepath.Join(dir, "pretty.json")
	cmd, err = parseShapesCmd([]string{"-file", list, "-output", out, "format"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err != nil {
		t.Fatalf("format: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "\n  ") {
		t.Fatalf("expected indented output, got %s", data)
	}
	decoded, err := shape.Unmarshal(data)
	if err != nil || len(decoded) != 2 || decoded[1].Text != "hi" {
		t.Fatalf("formatted list = %+v, %v", decoded, err)
	}
}

func TestShapesValidateRejectsBadFile(t *testing.T) {
	list := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(list, []byte(`[{"kind":"hexagon"}]`), 0o644); err != nil {
		t.Fatal(err)
	}
	cmd, err := parseShapesCmd([]string{"-file", list, "validate"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	if err := cmd.Run(); err == nil || !strings.Contains(err.Error(), list) {
		t.Fatalf("expected error naming %s, got %v", list, err)
	}
}

func TestShapesFromClipboard(t *testing.T) {
	original := readShapesFn
	readShapesFn = func() ([]shape.Shape, error) {
		return []shape.Shape{shape.New(shape.KindPath, 0, 0, shape.Style{Stroke: "red", StrokeWidth: 2})}, nil
	}
	t.Cleanup(func() { readShapesFn = original })

	cmd, err := parseShapesCmd([]string{"-from-clipboard", "validate"}, testRoot())
	if err != nil {
		t.Fatalf("parse: %v", err)
	}
	var buf bytes.Buffer
	cmd.stdout = &buf
	if err := cmd.Run(); err != nil {
		t.Fatalf("validate: %v", err)
	}
	if got := buf.String(); got != "1 shapes ok\n" {
		t.Fatalf("validate output %q", got)
	}
}

func TestShapesUsageError(t *testing.T) {
	_, err := parseShapesCmd([]string{"-file", "x.json", "explode"}, testRoot())
	var uerr *UsageError
	if !errors.As(err, &uerr) {
		t.Fatalf("expected usage error, got %v", err)
	}
	help := uerr.Error()
	for _, want := range []string{"shineymark shapes", "validate|format", "-from-clipboard"} {
		if !strings.Contains(help, want) {
			t.Errorf("help missing %q:\n%s", want, help)
		}
	}
}

func TestRootUsageListsCommands(t *testing.T) {
	help := (&UsageError{of: newRoot()}).Error()
	for _, want := range []string{"annotate", "render", "serve", "-notify-export", "-theme"} {
		if !strings.Contains(help, want) {
			t.Errorf("root help missing %q:\n%s", want, help)
		}
	}
}
