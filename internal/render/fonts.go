package render

import (
	"fmt"
	"sync"

	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"

	"github.com/example/shineymark/internal/shape"
)

type faceKey struct {
	family string
	size   float64
}

var (
	ttFonts sync.Map // map[string]*truetype.Font
	ttFaces sync.Map // map[faceKey]font.Face
)

// fontFace returns a cached truetype face for the shape font family.
func fontFace(family string, size float64) (font.Face, error) {
	if size <= 0 {
		size = shape.DefaultFontSize
	}
	key := faceKey{family: family, size: size}
	if f, ok := ttFaces.Load(key); ok {
		return f.(font.Face), nil
	}
	var tt *truetype.Font
	if f, ok := ttFonts.Load(family); ok {
		tt = f.(*truetype.Font)
	} else {
		parsed, err := truetype.Parse(shape.FontData(family))
		if err != nil {
			return nil, fmt.Errorf("parse font %s: %w", family, err)
		}
		ttFonts.Store(family, parsed)
		tt = parsed
	}
	face := truetype.NewFace(tt, &truetype.Options{Size: size, DPI: 72, Hinting: font.HintingFull})
	ttFaces.Store(key, face)
	return face, nil
}
