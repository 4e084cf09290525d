package shape

import (
	"log"
	"sync"

	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/opentype"
)

// Font families available to text shapes.
const (
	FamilySans = "sans"
	FamilyMono = "mono"
	FamilyBold = "bold"
)

// DefaultFontSize is used when a text shape carries no size.
const DefaultFontSize = 24

// FontData returns the TrueType data backing family. Unknown families fall
// back to the sans face.
func FontData(family string) []byte {
	switch family {
	case FamilyMono:
		return gomono.TTF
	case FamilyBold:
		return gobold.TTF
	}
	return goregular.TTF
}

type faceKey struct {
	family string
	size   float64
}

var (
	parsedFonts sync.Map // map[string]*opentype.Font
	metricFaces sync.Map // map[faceKey]font.Face
)

func parsedFont(family string) (*opentype.Font, error) {
	if f, ok := parsedFonts.Load(family); ok {
		return f.(*opentype.Font), nil
	}
	f, err := opentype.Parse(FontData(family))
	if err != nil {
		return nil, err
	}
	parsedFonts.Store(family, f)
	return f, nil
}

// Face returns a cached metrics face for family at size points.
func Face(family string, size float64) (font.Face, error) {
	if size <= 0 {
		size = DefaultFontSize
	}
	key := faceKey{family: family, size: size}
	if face, ok := metricFaces.Load(key); ok {
		return face.(font.Face), nil
	}
	f, err := parsedFont(family)
	if err != nil {
		return nil, err
	}
	face, err := opentype.NewFace(f, &opentype.FaceOptions{Size: size, DPI: 72, Hinting: font.HintingFull})
	if err != nil {
		return nil, err
	}
	metricFaces.Store(key, face)
	return face, nil
}

// MeasureText returns the width and height of text rendered with the given
// family and size. Height covers one line from ascent to descent.
func MeasureText(text string, size float64, family string) (width, height float64) {
	face, err := Face(family, size)
	if err != nil {
		log.Printf("measure text: %v", err)
		if size <= 0 {
			size = DefaultFontSize
		}
		return float64(len([]rune(text))) * size * 0.6, size * 1.2
	}
	drawer := &font.Drawer{Face: face}
	m := face.Metrics()
	width = float64(drawer.MeasureString(text).Ceil())
	height = float64(m.Ascent.Ceil() + m.Descent.Ceil())
	return width, height
}
