package compose

import (
	"context"
	"errors"
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/example/shineymark/internal/render"
	"github.com/example/shineymark/internal/shape"
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), image.NewUniform(c), image.Point{}, draw.Src)
	return img
}

func TestCompositePassThrough(t *testing.T) {
	src := solid(20, 10, color.RGBA{1, 2, 3, 255})
	out, err := Pipeline{}.Composite(context.Background(), src, Options{})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if out.Bounds() != src.Bounds() {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if out == image.Image(src) {
		t.Fatal("composite should not return the source image itself")
	}
}

func TestCompositePaddingAndFrame(t *testing.T) {
	src := solid(20, 10, color.RGBA{255, 0, 0, 255})
	fill := color.RGBA{0, 0, 255, 255}
	out, err := Pipeline{}.Composite(context.Background(), src, Options{Padding: 5, Fill: fill, AspectRatio: 1})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if out.Bounds().Dx() != 30 || out.Bounds().Dy() != 30 {
		t.Fatalf("bounds = %v, want 30x30", out.Bounds())
	}
	rgba := out.(*image.RGBA)
	if rgba.RGBAAt(0, 0) != fill {
		t.Fatalf("corner = %+v, want fill", rgba.RGBAAt(0, 0))
	}
	if got := rgba.RGBAAt(15, 15); got.R != 255 {
		t.Fatalf("centre = %+v, want source", got)
	}
}

func TestCompositeShadowGrowsCanvas(t *testing.T) {
	src := solid(10, 10, color.RGBA{255, 255, 255, 255})
	out, err := Pipeline{}.Composite(context.Background(), src, Options{Shadow: render.DefaultShadowOptions()})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	if out.Bounds().Dx() <= 10 {
		t.Fatalf("shadow did not grow canvas: %v", out.Bounds())
	}
}

func TestCompositeRoundCorners(t *testing.T) {
	src := solid(40, 40, color.RGBA{255, 255, 255, 255})
	out, err := Pipeline{}.Composite(context.Background(), src, Options{CornerRadius: 10})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	rgba := out.(*image.RGBA)
	if rgba.RGBAAt(0, 0).A != 0 {
		t.Fatalf("corner should be transparent: %+v", rgba.RGBAAt(0, 0))
	}
	if rgba.RGBAAt(20, 20).A != 255 {
		t.Fatalf("centre should stay opaque: %+v", rgba.RGBAAt(20, 20))
	}
}

func TestCompositeErrors(t *testing.T) {
	if _, err := (Pipeline{}).Composite(context.Background(), nil, Options{}); !errors.Is(err, ErrNoSource) {
		t.Fatalf("expected ErrNoSource, got %v", err)
	}
	src := solid(4, 4, color.RGBA{A: 255})
	if _, err := (Pipeline{}).Composite(context.Background(), src, Options{Padding: -1}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := (Pipeline{}).Composite(ctx, src, Options{}); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWatermarkDrawsText(t *testing.T) {
	src := solid(120, 40, color.RGBA{0, 0, 0, 255})
	out, err := Pipeline{}.Composite(context.Background(), src, Options{Watermark: "shineymark"})
	if err != nil {
		t.Fatalf("Composite: %v", err)
	}
	rgba := out.(*image.RGBA)
	lit := false
	for y := 20; y < 40 && !lit; y++ {
		for x := 40; x < 120; x++ {
			if rgba.RGBAAt(x, y).R > 0 {
				lit = true
				break
			}
		}
	}
	if !lit {
		t.Fatal("watermark not drawn")
	}
}

func TestCrop(t *testing.T) {
	src := solid(50, 50, color.RGBA{9, 9, 9, 255})
	out, err := Crop(src, shape.Rect{X: 10, Y: 5, Width: 20, Height: 100})
	if err != nil {
		t.Fatalf("Crop: %v", err)
	}
	if out.Bounds().Dx() != 20 || out.Bounds().Dy() != 45 {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if _, err := Crop(src, shape.Rect{X: 100, Y: 100, Width: 5, Height: 5}); !errors.Is(err, ErrInvalidOptions) {
		t.Fatalf("expected ErrInvalidOptions, got %v", err)
	}
}
