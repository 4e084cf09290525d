package shape

import (
	"fmt"
	"image/color"
	"strconv"
	"strings"

	"golang.org/x/image/colornames"
)

// ParseColor accepts a CSS colour name or a #rrggbb / #rrggbbaa hex value.
func ParseColor(s string) (color.RGBA, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	if name == "" {
		return color.RGBA{}, fmt.Errorf("color cannot be empty")
	}
	if name == "transparent" {
		return color.RGBA{}, nil
	}
	if c, ok := colornames.Map[name]; ok {
		return c, nil
	}
	if !strings.HasPrefix(name, "#") || (len(name) != 7 && len(name) != 9) {
		return color.RGBA{}, fmt.Errorf("invalid color %q", s)
	}
	var parts [4]uint8
	parts[3] = 255
	for i := 0; i < (len(name)-1)/2; i++ {
		v, err := strconv.ParseUint(name[1+2*i:3+2*i], 16, 8)
		if err != nil {
			return color.RGBA{}, fmt.Errorf("invalid color %q", s)
		}
		parts[i] = uint8(v)
	}
	return color.RGBA{R: parts[0], G: parts[1], B: parts[2], A: parts[3]}, nil
}

// FormatColor renders c as #rrggbb, or #rrggbbaa when it is translucent.
func FormatColor(c color.RGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02x%02x%02x", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", c.R, c.G, c.B, c.A)
}

// StrokeColor resolves the stroke colour, falling back to black.
func (st Style) StrokeColor() color.RGBA {
	c, err := ParseColor(st.Stroke)
	if err != nil {
		return color.RGBA{A: 255}
	}
	return c
}

// FillColor resolves the fill colour. ok is false when the shape is
// unfilled.
func (st Style) FillColor() (c color.RGBA, ok bool) {
	if st.Fill == "" {
		return color.RGBA{}, false
	}
	c, err := ParseColor(st.Fill)
	if err != nil || c.A == 0 {
		return color.RGBA{}, false
	}
	return c, true
}
