//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/png"
	"log"
	"net/url"
	"os"
	"time"

	"github.com/godbus/dbus/v5"
)

const (
	portalDest     = "org.freedesktop.portal.Desktop"
	portalPath     = "/org/freedesktop/portal/desktop"
	portalMethod   = "org.freedesktop.portal.Screenshot.Screenshot"
	portalResponse = "org.freedesktop.portal.Request.Response"
)

var portalHandleToken = func() string {
	return fmt.Sprintf("shineymark-%d", time.Now().UnixNano())
}

var (
	errNoSessionBus   = errors.New("session bus unavailable")
	errPortalCanceled = errors.New("portal screenshot cancelled")
)

func portalScreenshot(interactive bool, captureOpts CaptureOptions) (*image.RGBA, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("dbus connect: %w: %v", errNoSessionBus, err)
	}
	defer conn.Close()

	var handle dbus.ObjectPath
	call := conn.Object(portalDest, portalPath).Call(portalMethod, 0, "", portalScreenshotOptions(interactive, captureOpts))
	if err := call.Store(&handle); err != nil {
		return nil, fmt.Errorf("portal screenshot call: %w", err)
	}

	rule := fmt.Sprintf("type='signal',interface='org.freedesktop.portal.Request',member='Response',path='%s'", handle)
	if err := conn.BusObject().Call("org.freedesktop.DBus.AddMatch", 0, rule).Err; err != nil {
		return nil, fmt.Errorf("portal screenshot subscribe: %w", err)
	}
	defer conn.BusObject().Call("org.freedesktop.DBus.RemoveMatch", 0, rule)
	signals := make(chan *dbus.Signal, 1)
	conn.Signal(signals)

	for sig := range signals {
		if sig.Path != handle || sig.Name != portalResponse {
			continue
		}
		path, err := responsePath(sig.Body)
		if err != nil {
			return nil, err
		}
		img, err := readCapture(path)
		if err != nil {
			return nil, fmt.Errorf("portal screenshot image: %w", err)
		}
		return img, nil
	}
	return nil, fmt.Errorf("portal screenshot: connection closed before a response")
}

// responsePath extracts the local file named by a Request.Response body:
// a uint32 status followed by a results dictionary holding "uri".
func responsePath(body []interface{}) (string, error) {
	if len(body) < 2 {
		return "", fmt.Errorf("portal screenshot: malformed response")
	}
	if code, ok := body[0].(uint32); !ok || code != 0 {
		return "", fmt.Errorf("%w (response %v)", errPortalCanceled, body[0])
	}
	results, _ := body[1].(map[string]dbus.Variant)
	v, ok := results["uri"]
	if !ok {
		return "", fmt.Errorf("portal screenshot: response missing image data")
	}
	raw, _ := v.Value().(string)
	u, err := url.Parse(raw)
	if err != nil || u.Scheme != "file" || u.Path == "" {
		return "", fmt.Errorf("portal screenshot: unexpected uri %q", raw)
	}
	return u.Path, nil
}

func portalScreenshotOptions(interactive bool, captureOpts CaptureOptions) map[string]dbus.Variant {
	cursor := "hidden"
	if captureOpts.IncludeCursor {
		cursor = "embedded"
	}
	return map[string]dbus.Variant{
		"handle_token":   dbus.MakeVariant(portalHandleToken()),
		"interactive":    dbus.MakeVariant(interactive),
		"modal":          dbus.MakeVariant(interactive),
		"cursor_mode":    dbus.MakeVariant(cursor),
		"restore_window": dbus.MakeVariant(captureOpts.IncludeDecorations),
	}
}

var portalUnsupportedErrors = map[string]bool{
	"org.freedesktop.portal.Error.NotSupported":   true,
	"org.freedesktop.DBus.Error.ServiceUnknown":   true,
	"org.freedesktop.DBus.Error.UnknownMethod":    true,
	"org.freedesktop.DBus.Error.UnknownInterface": true,
	"org.freedesktop.DBus.Error.Disconnected":     true,
	"org.freedesktop.DBus.Error.NoReply":          true,
}

// isPortalUnsupportedError reports whether err means no usable screenshot
// portal is running, as opposed to the user cancelling the request.
func isPortalUnsupportedError(err error) bool {
	// godbus reports method errors by value; accept both forms
	var byValue dbus.Error
	if errors.As(err, &byValue) {
		return portalUnsupportedErrors[byValue.Name]
	}
	var byPointer *dbus.Error
	if errors.As(err, &byPointer) {
		return portalUnsupportedErrors[byPointer.Name]
	}
	return errors.Is(err, errNoSessionBus)
}

// readCapture decodes the portal's temporary file and removes it.
func readCapture(path string) (*image.RGBA, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer func() {
		f.Close()
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			log.Printf("capture: remove %s: %v", path, err)
		}
	}()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	if rgba, ok := img.(*image.RGBA); ok {
		return rgba, nil
	}
	rgba := image.NewRGBA(img.Bounds())
	draw.Draw(rgba, rgba.Bounds(), img, img.Bounds().Min, draw.Src)
	return rgba, nil
}
