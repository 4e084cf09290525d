package render

import (
	"image"
	"image/draw"
)

// boxBlur runs a separable box blur over an interleaved pixel buffer with the
// given number of channels per pixel. Each pass uses running prefix sums so
// the cost does not depend on the radius.
func boxBlur(src []uint8, w, h, stride, channels, radius int) []uint8 {
	out := make([]uint8, len(src))
	if radius <= 0 || w == 0 || h == 0 {
		copy(out, src)
		return out
	}
	tmp := make([]uint8, len(src))
	prefix := make([]int, max(w, h)+1)

	for y := 0; y < h; y++ {
		row := y * stride
		for c := 0; c < channels; c++ {
			for x := 0; x < w; x++ {
				prefix[x+1] = prefix[x] + int(src[row+x*channels+c])
			}
			for x := 0; x < w; x++ {
				x0 := max(x-radius, 0)
				x1 := min(x+radius, w-1)
				tmp[row+x*channels+c] = uint8((prefix[x1+1] - prefix[x0]) / (x1 - x0 + 1))
			}
		}
	}

	for x := 0; x < w; x++ {
		for c := 0; c < channels; c++ {
			off := x*channels + c
			for y := 0; y < h; y++ {
				prefix[y+1] = prefix[y] + int(tmp[y*stride+off])
			}
			for y := 0; y < h; y++ {
				y0 := max(y-radius, 0)
				y1 := min(y+radius, h-1)
				out[y*stride+off] = uint8((prefix[y1+1] - prefix[y0]) / (y1 - y0 + 1))
			}
		}
	}
	return out
}

func blurGray(src *image.Gray, radius int) *image.Gray {
	b := src.Bounds()
	dst := image.NewGray(b)
	dst.Pix = boxBlur(src.Pix, b.Dx(), b.Dy(), src.Stride, 1, radius)
	return dst
}

// BlurRGBA returns a blurred copy of img. passes box blurs are applied in
// sequence; three passes approximate a gaussian.
func BlurRGBA(img *image.RGBA, radius, passes int) *image.RGBA {
	b := img.Bounds()
	dst := image.NewRGBA(b)
	draw.Draw(dst, b, img, b.Min, draw.Src)
	for i := 0; i < max(passes, 1); i++ {
		dst.Pix = boxBlur(dst.Pix, b.Dx(), b.Dy(), dst.Stride, 4, radius)
	}
	return dst
}

// toRGBA returns img as a zero-based *image.RGBA, copying when needed.
func toRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}
