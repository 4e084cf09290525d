//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"fmt"
	"image"
	"os"
	"strings"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/randr"
	"github.com/jezek/xgb/xproto"
)

func runningOnWayland() bool {
	if strings.EqualFold(strings.TrimSpace(os.Getenv("XDG_SESSION_TYPE")), "wayland") {
		return true
	}
	return os.Getenv("WAYLAND_DISPLAY") != ""
}

// withScreen connects to the X server and hands the default screen to fn.
func withScreen(fn func(conn *xgb.Conn, setup *xproto.SetupInfo, screen *xproto.ScreenInfo) error) error {
	conn, err := xgb.NewConn()
	if err != nil {
		return fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	if screen == nil {
		return fmt.Errorf("xproto screen unavailable")
	}
	return fn(conn, setup, screen)
}

func listMonitors() ([]MonitorInfo, error) {
	var monitors []MonitorInfo
	err := withScreen(func(conn *xgb.Conn, _ *xproto.SetupInfo, screen *xproto.ScreenInfo) error {
		var err error
		monitors, err = fetchMonitors(conn, screen.Root)
		return err
	})
	if err != nil {
		return nil, err
	}
	if len(monitors) == 0 {
		return nil, errNoMonitors
	}
	return monitors, nil
}

// rootScreenshot reads the pixels of the X11 root window. Under Wayland the
// root window is only XWayland's, so the portal is the only real option.
func rootScreenshot() (*image.RGBA, error) {
	if runningOnWayland() {
		return nil, fmt.Errorf("root window capture unavailable under wayland")
	}
	var img *image.RGBA
	err := withScreen(func(conn *xgb.Conn, setup *xproto.SetupInfo, screen *xproto.ScreenInfo) error {
		w, h := screen.WidthInPixels, screen.HeightInPixels
		reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root), 0, 0, w, h, ^uint32(0)).Reply()
		if err != nil {
			return fmt.Errorf("root pixels: %w", err)
		}
		img, err = replyToRGBA(setup, reply, int(w), int(h))
		if err != nil {
			return fmt.Errorf("root pixels: %w", err)
		}
		return nil
	})
	return img, err
}

func fetchMonitors(conn *xgb.Conn, root xproto.Window) ([]MonitorInfo, error) {
	if err := randr.Init(conn); err != nil {
		return nil, fmt.Errorf("init randr: %w", err)
	}
	res, err := randr.GetScreenResources(conn, root).Reply()
	if err != nil {
		return nil, fmt.Errorf("randr screen resources: %w", err)
	}
	var primary randr.Output
	if p, err := randr.GetOutputPrimary(conn, root).Reply(); err == nil {
		primary = p.Output
	}
	var monitors []MonitorInfo
	for _, output := range res.Outputs {
		info, err := randr.GetOutputInfo(conn, output, res.ConfigTimestamp).Reply()
		if err != nil || info.Connection != randr.ConnectionConnected || info.Crtc == 0 {
			continue
		}
		crtc, err := randr.GetCrtcInfo(conn, info.Crtc, res.ConfigTimestamp).Reply()
		if err != nil {
			continue
		}
		r := image.Rect(0, 0, int(crtc.Width), int(crtc.Height)).Add(image.Pt(int(crtc.X), int(crtc.Y)))
		monitors = append(monitors, MonitorInfo{
			Index:   len(monitors),
			Name:    strings.TrimSpace(string(info.Name)),
			Rect:    r,
			Primary: output == primary,
		})
	}
	return monitors, nil
}
