//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"errors"
	"fmt"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestPortalScreenshotOptions(t *testing.T) {
	prevToken := portalHandleToken
	portalHandleToken = func() string { return "test-token" }
	t.Cleanup(func() { portalHandleToken = prevToken })

	tests := []struct {
		name        string
		interactive bool
		opts        CaptureOptions
		wantCursor  string
		wantRestore bool
	}{
		{
			name:        "defaults",
			interactive: false,
			opts:        CaptureOptions{},
			wantCursor:  "hidden",
			wantRestore: false,
		},
		{
			name:        "cursor and decorations",
			interactive: true,
			opts: CaptureOptions{
				IncludeDecorations: true,
				IncludeCursor:      true,
			},
			wantCursor:  "embedded",
			wantRestore: true,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			values := portalScreenshotOptions(tc.interactive, tc.opts)

			if got := boolVariant(t, values, "interactive"); got != tc.interactive {
				t.Fatalf("interactive = %v, want %v", got, tc.interactive)
			}
			if got := boolVariant(t, values, "modal"); got != tc.interactive {
				t.Fatalf("modal = %v, want %v", got, tc.interactive)
			}
			if got := stringVariant(t, values, "cursor_mode"); got != tc.wantCursor {
				t.Fatalf("cursor_mode = %q, want %q", got, tc.wantCursor)
			}
			if got := boolVariant(t, values, "restore_window"); got != tc.wantRestore {
				t.Fatalf("restore_window = %v, want %v", got, tc.wantRestore)
			}
			if got := stringVariant(t, values, "handle_token"); got != "test-token" {
				t.Fatalf("handle_token = %q, want %q", got, "test-token")
			}
			if len(values) != 5 {
				t.Fatalf("expected 5 options, got %d", len(values))
			}
		})
	}
}

func TestPortalUnsupportedError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"not supported", &dbus.Error{Name: "org.freedesktop.portal.Error.NotSupported"}, true},
		{"wrapped disconnect", fmt.Errorf("call: %w", &dbus.Error{Name: "org.freedesktop.DBus.Error.Disconnected"}), true},
		{"no bus", fmt.Errorf("dbus connect: %w: boom", errNoSessionBus), true},
		{"by value", dbus.Error{Name: "org.freedesktop.DBus.Error.ServiceUnknown"}, true},
		{"access denied", &dbus.Error{Name: "org.freedesktop.DBus.Error.AccessDenied"}, false},
		{"plain", errors.New("decode failed"), false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := isPortalUnsupportedError(tc.err); got != tc.want {
				t.Fatalf("isPortalUnsupportedError = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestResponsePath(t *testing.T) {
	ok := map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/Screenshot%20one.png")}
	path, err := responsePath([]interface{}{uint32(0), ok})
	if err != nil || path != "/tmp/Screenshot one.png" {
		t.Fatalf("path %q, err %v", path, err)
	}

	if _, err := responsePath([]interface{}{uint32(1), ok}); !errors.Is(err, errPortalCanceled) {
		t.Fatalf("expected cancel, got %v", err)
	}
	bad := []struct {
		name string
		body []interface{}
	}{
		{"short", []interface{}{uint32(0)}},
		{"no uri", []interface{}{uint32(0), map[string]dbus.Variant{}}},
		{"remote uri", []interface{}{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("https://example.com/a.png")}}},
	}
	for _, tc := range bad {
		if _, err := responsePath(tc.body); err == nil {
			t.Errorf("%s: expected error", tc.name)
		}
	}
}

func boolVariant(t *testing.T, values map[string]dbus.Variant, key string) bool {
	t.Helper()
	variant, ok := values[key]
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	v, ok := variant.Value().(bool)
	if !ok {
		t.Fatalf("key %q value is %T, want bool", key, variant.Value())
	}
	return v
}

func stringVariant(t *testing.T, values map[string]dbus.Variant, key string) string {
	t.Helper()
	variant, ok := values[key]
	if !ok {
		t.Fatalf("missing key %q", key)
	}
	v, ok := variant.Value().(string)
	if !ok {
		t.Fatalf("key %q value is %T, want string", key, variant.Value())
	}
	return v
}
