package render

import (
	"image"
	"image/color"
	"image/draw"
)

// Checkerboard fills rect of dst with squares of the given size, the usual
// backdrop for transparent regions.
func Checkerboard(dst *image.RGBA, rect image.Rectangle, size int, light, dark color.Color) {
	rect = rect.Intersect(dst.Bounds())
	if size <= 0 || rect.Empty() {
		return
	}
	lu, du := image.NewUniform(light), image.NewUniform(dark)
	for y := rect.Min.Y - rect.Min.Y%size; y < rect.Max.Y; y += size {
		for x := rect.Min.X - rect.Min.X%size; x < rect.Max.X; x += size {
			cell := image.Rect(x, y, x+size, y+size).Intersect(rect)
			src := lu
			if ((x/size)+(y/size))%2 != 0 {
				src = du
			}
			draw.Draw(dst, cell, src, image.Point{}, draw.Src)
		}
	}
}
