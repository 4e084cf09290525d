// Package notify sends desktop notifications after exports, saves and
// clipboard copies.
package notify

import (
	"errors"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/image/draw"

	"github.com/example/shineymark/internal/config"
	"github.com/example/shineymark/internal/export"
	"github.com/example/shineymark/internal/platform"
)

// Event identifies a notification trigger.
type Event string

const (
	EventExport Event = "export"
	EventSave   Event = "save"
	EventCopy   Event = "copy"
)

// previewSize bounds the longer edge of export previews.
const previewSize = 256

// Preferences holds the notification title and one message template per
// event. Each template receives the event detail through a single %s.
type Preferences struct {
	Title     string
	Templates map[Event]string
}

func DefaultPreferences() Preferences {
	return Preferences{
		Title: platform.AppName,
		Templates: map[Event]string{
			EventExport: "Exported %s",
			EventSave:   "Saved %s",
			EventCopy:   "Copied %s to clipboard",
		},
	}
}

var envTemplates = map[Event]string{
	EventExport: "SHINEYMARK_NOTIFY_EXPORT_TEXT",
	EventSave:   "SHINEYMARK_NOTIFY_SAVE_TEXT",
	EventCopy:   "SHINEYMARK_NOTIFY_COPY_TEXT",
}

// LoadPreferences applies SHINEYMARK_NOTIFY_* overrides to the defaults.
func LoadPreferences() Preferences {
	prefs := DefaultPreferences()
	if v := strings.TrimSpace(os.Getenv("SHINEYMARK_NOTIFY_TITLE")); v != "" {
		prefs.Title = v
	}
	for event, key := range envTemplates {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			prefs.Templates[event] = v
		}
	}
	return prefs
}

var send = platform.Notify

// Notifier sends notifications for the events that are enabled. A nil
// Notifier is silent.
type Notifier struct {
	title     string
	templates map[Event]string
	enabled   map[Event]bool
}

func New(prefs Preferences) *Notifier {
	n := &Notifier{
		title:     prefs.Title,
		templates: make(map[Event]string, len(prefs.Templates)),
		enabled:   make(map[Event]bool),
	}
	for k, v := range prefs.Templates {
		n.templates[k] = strings.TrimSpace(v)
	}
	return n
}

// FromConfig returns a notifier with the events enabled in cfg.
func FromConfig(cfg config.Notify) *Notifier {
	n := New(LoadPreferences())
	n.Enable(EventExport, cfg.Export)
	n.Enable(EventSave, cfg.Save)
	n.Enable(EventCopy, cfg.Copy)
	return n
}

func (n *Notifier) Enable(event Event, enabled bool) {
	if n != nil {
		n.enabled[event] = enabled
	}
}

func (n *Notifier) on(event Event) bool {
	return n != nil && n.enabled[event] && n.templates[event] != ""
}

// Export announces a rendered image. When img is set a thumbnail is written
// to a temporary file for the notification icon and removed afterwards.
func (n *Notifier) Export(detail string, img image.Image) {
	if !n.on(EventExport) {
		return
	}
	var opts platform.Options
	if img != nil {
		path, err := writePreview(img)
		if err != nil {
			log.Printf("notification preview: %v", err)
		} else {
			defer removePreview(path)
			opts.IconPath = path
		}
	}
	n.dispatch(EventExport, detail, opts)
}

// Save announces a written file. Saved images double as the icon.
func (n *Notifier) Save(path string) {
	if !n.on(EventSave) {
		return
	}
	var opts platform.Options
	abs, err := filepath.Abs(path)
	if err != nil {
		abs = path
	}
	if _, err := os.Stat(abs); err == nil && isImage(abs) {
		opts.IconPath = abs
	}
	n.dispatch(EventSave, abs, opts)
}

func (n *Notifier) Copy(detail string) {
	if !n.on(EventCopy) {
		return
	}
	if strings.TrimSpace(detail) == "" {
		detail = "image"
	}
	n.dispatch(EventCopy, detail, platform.Options{})
}

func (n *Notifier) dispatch(event Event, detail string, opts platform.Options) {
	body := strings.TrimSpace(fmt.Sprintf(n.templates[event], strings.TrimSpace(detail)))
	if body == "" {
		return
	}
	if err := send(n.title, body, opts); err != nil && !errors.Is(err, platform.ErrUnsupported) {
		log.Printf("notification %s: %v", event, err)
	}
}

func isImage(path string) bool {
	f, err := export.ParseFormat(filepath.Ext(path))
	return err == nil && filepath.Ext(path) != "" && f != export.PDF
}

// thumbnail scales img down so its longer edge is at most previewSize.
func thumbnail(img image.Image) image.Image {
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= previewSize && h <= previewSize {
		return img
	}
	if w >= h {
		w, h = previewSize, max(1, h*previewSize/w)
	} else {
		w, h = max(1, w*previewSize/h), previewSize
	}
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

func writePreview(img image.Image) (string, error) {
	res, err := export.Encode(thumbnail(img), export.Options{Format: export.PNG})
	if err != nil {
		return "", err
	}
	f, err := os.CreateTemp("", "shineymark-preview-*.png")
	if err != nil {
		return "", err
	}
	_, werr := f.Write(res.Data)
	cerr := f.Close()
	if werr == nil {
		werr = cerr
	}
	if werr != nil {
		removePreview(f.Name())
		return "", werr
	}
	return f.Name(), nil
}

func removePreview(path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("remove preview: %v", err)
	}
}
