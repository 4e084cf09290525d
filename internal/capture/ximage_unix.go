//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"

	"github.com/jezek/xgb/xproto"
)

var errEmptyPixmap = errors.New("empty pixmap")

// pixmapBytes returns the bytes per pixel the server uses for depth.
func pixmapBytes(formats []xproto.Format, depth byte) (int, error) {
	for _, f := range formats {
		if f.Depth != depth {
			continue
		}
		if f.BitsPerPixel < 24 {
			return 0, fmt.Errorf("unsupported pixel format %d bpp", f.BitsPerPixel)
		}
		return int(f.BitsPerPixel) / 8, nil
	}
	return 0, fmt.Errorf("unsupported depth %d", depth)
}

// decodeZPixmap converts a little-endian BGR(X) ZPixmap into RGBA. Rows may
// carry scanline padding; the stride is derived from the data length. Depths
// below 32 have no alpha channel and come out opaque.
func decodeZPixmap(formats []xproto.Format, depth byte, data []byte, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 || len(data) == 0 {
		return nil, errEmptyPixmap
	}
	bpp, err := pixmapBytes(formats, depth)
	if err != nil {
		return nil, err
	}
	stride := len(data) / height
	if stride*height != len(data) || stride < width*bpp {
		return nil, fmt.Errorf("pixmap of %d bytes does not fit %dx%d", len(data), width, height)
	}
	hasAlpha := depth == 32 && bpp >= 4

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		src := data[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			s, d := src[x*bpp:], dst[x*4:]
			d[0], d[1], d[2], d[3] = s[2], s[1], s[0], 0xff
			if hasAlpha {
				d[3] = s[3]
			}
		}
	}
	return img, nil
}

func replyToRGBA(setup *xproto.SetupInfo, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if reply == nil {
		return nil, errEmptyPixmap
	}
	return decodeZPixmap(setup.PixmapFormats, reply.Depth, reply.Data, width, height)
}
