package notify

import (
	"bytes"
	"errors"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/example/shineymark/internal/config"
	"github.com/example/shineymark/internal/platform"
)

type sent struct {
	title, body string
	opts        platform.Options
	iconExisted bool
}

func captureSends(t *testing.T) *[]sent {
	t.Helper()
	var got []sent
	old := send
	send = func(title, body string, opts platform.Options) error {
		s := sent{title: title, body: body, opts: opts}
		if opts.IconPath != "" {
			_, err := os.Stat(opts.IconPath)
			s.iconExisted = err == nil
		}
		got = append(got, s)
		return nil
	}
	t.Cleanup(func() { send = old })
	return &got
}

func TestDisabledEventsAreSilent(t *testing.T) {
	got := captureSends(t)
	n := New(DefaultPreferences())
	n.Export("a.png", nil)
	n.Save("a.png")
	n.Copy("")
	var nilNotifier *Notifier
	nilNotifier.Copy("x")
	if len(*got) != 0 {
		t.Fatalf("sent %d notifications", len(*got))
	}
}

func TestFromConfig(t *testing.T) {
	got := captureSends(t)
	n := FromConfig(config.Notify{Copy: true})
	n.Copy("")
	n.Save("x.png")
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications", len(*got))
	}
	if (*got)[0].body != "Copied image to clipboard" {
		t.Fatalf("body %q", (*got)[0].body)
	}
}

func TestExportPreview(t *testing.T) {
	got := captureSends(t)
	n := New(DefaultPreferences())
	n.Enable(EventExport, true)
	n.Export("800x600", image.NewRGBA(image.Rect(0, 0, 4, 4)))
	if len(*got) != 1 {
		t.Fatalf("sent %d notifications", len(*got))
	}
	s := (*got)[0]
	if s.body != "Exported 800x600" || s.title != platform.AppName {
		t.Fatalf("got %+v", s)
	}
	if !s.iconExisted {
		t.Fatal("preview should exist while sending")
	}
	if _, err := os.Stat(s.opts.IconPath); !os.IsNotExist(err) {
		t.Fatal("preview should be removed afterwards")
	}
}

func TestSaveUsesAbsolutePath(t *testing.T) {
	got := captureSends(t)
	dir := t.TempDir()
	path := filepath.Join(dir, "out.png")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Save(path)
	if len(*got) != 1 || (*got)[0].opts.IconPath != path {
		t.Fatalf("got %+v", *got)
	}
}

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	w := log.Writer()
	log.SetOutput(&buf)
	t.Cleanup(func() { log.SetOutput(w) })
	return &buf
}

func TestSendFailureIsLogged(t *testing.T) {
	old := send
	send = func(string, string, platform.Options) error { return errors.New("no bus") }
	t.Cleanup(func() { send = old })
	buf := captureLog(t)
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	n.Copy("shapes")
	if !strings.Contains(buf.String(), "notification copy: no bus") {
		t.Fatalf("log %q", buf.String())
	}
}

func TestUnsupportedPlatformIsQuiet(t *testing.T) {
	old := send
	send = func(string, string, platform.Options) error { return platform.ErrUnsupported }
	t.Cleanup(func() { send = old })
	buf := captureLog(t)
	n := New(DefaultPreferences())
	n.Enable(EventCopy, true)
	n.Copy("shapes")
	if buf.Len() != 0 {
		t.Fatalf("unexpected log %q", buf.String())
	}
}

func TestEnvironmentOverrides(t *testing.T) {
	t.Setenv("SHINEYMARK_NOTIFY_TITLE", "Marks")
	t.Setenv("SHINEYMARK_NOTIFY_SAVE_TEXT", "Wrote %s")
	p := LoadPreferences()
	if p.Title != "Marks" || p.Templates[EventSave] != "Wrote %s" {
		t.Fatalf("prefs %+v", p)
	}
}

func TestThumbnailBoundsLongEdge(t *testing.T) {
	got := thumbnail(image.NewRGBA(image.Rect(0, 0, 1024, 512))).Bounds()
	if got.Dx() != previewSize || got.Dy() != previewSize/2 {
		t.Fatalf("wide thumbnail %v", got)
	}
	got = thumbnail(image.NewRGBA(image.Rect(0, 0, 100, 2000))).Bounds()
	if got.Dy() != previewSize || got.Dx() != 12 {
		t.Fatalf("tall thumbnail %v", got)
	}
	small := image.NewRGBA(image.Rect(0, 0, 10, 10))
	if thumbnail(small) != image.Image(small) {
		t.Fatal("small images should pass through")
	}
}

func TestSaveSkipsIconForPDF(t *testing.T) {
	got := captureSends(t)
	path := filepath.Join(t.TempDir(), "doc.pdf")
	if err := os.WriteFile(path, []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	n := New(DefaultPreferences())
	n.Enable(EventSave, true)
	n.Save(path)
	if len(*got) != 1 || (*got)[0].opts.IconPath != "" {
		t.Fatalf("got %+v", *got)
	}
	if want := "Saved " + path; (*got)[0].body != want {
		t.Fatalf("body %q want %q", (*got)[0].body, want)
	}
}
