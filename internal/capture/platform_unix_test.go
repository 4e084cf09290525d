//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"image/color"
	"testing"

	"github.com/jezek/xgb/xproto"
)

func TestRunningOnWayland(t *testing.T) {
	tests := []struct {
		session, display string
		want             bool
	}{
		{"wayland", "", true},
		{"Wayland ", "", true},
		{"x11", "wayland-0", true},
		{"x11", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		t.Setenv("XDG_SESSION_TYPE", tt.session)
		t.Setenv("WAYLAND_DISPLAY", tt.display)
		if got := runningOnWayland(); got != tt.want {
			t.Errorf("session=%q display=%q: got %v want %v", tt.session, tt.display, got, tt.want)
		}
	}
}

func TestDecodeZPixmap(t *testing.T) {
	formats := []xproto.Format{{Depth: 24, BitsPerPixel: 32}, {Depth: 32, BitsPerPixel: 32}, {Depth: 16, BitsPerPixel: 16}}

	// 2x1 BGRX with two bytes of row padding
	data := []byte{0x10, 0x20, 0x30, 0x00, 0x01, 0x02, 0x03, 0x00, 0xee, 0xee}
	img, err := decodeZPixmap(formats, 24, data, 2, 1)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{0x30, 0x20, 0x10, 0xff}) {
		t.Errorf("pixel 0 = %v", got)
	}
	if got := img.RGBAAt(1, 0); got != (color.RGBA{0x03, 0x02, 0x01, 0xff}) {
		t.Errorf("pixel 1 = %v", got)
	}

	img, err = decodeZPixmap(formats, 32, []byte{0, 0, 0xff, 0x80}, 1, 1)
	if err != nil {
		t.Fatalf("decode argb: %v", err)
	}
	if got := img.RGBAAt(0, 0); got.A != 0x80 || got.R != 0xff {
		t.Errorf("argb pixel = %v", got)
	}

	if _, err := decodeZPixmap(formats, 16, []byte{0, 0}, 1, 1); err == nil {
		t.Error("expected 16bpp to be rejected")
	}
	if _, err := decodeZPixmap(formats, 8, []byte{0}, 1, 1); err == nil {
		t.Error("expected unknown depth to be rejected")
	}
	if _, err := decodeZPixmap(formats, 24, nil, 1, 1); !errors.Is(err, errEmptyPixmap) {
		t.Errorf("expected errEmptyPixmap, got %v", err)
	}
	if _, err := decodeZPixmap(formats, 24, make([]byte, 7), 2, 1); err == nil {
		t.Error("expected short row to be rejected")
	}
}
