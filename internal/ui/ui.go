// Package ui hosts the annotation engine in a shiny window.
package ui

import (
	"context"
	"fmt"
	"image"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"golang.org/x/exp/shiny/driver"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/mobile/event/key"
	"golang.org/x/mobile/event/lifecycle"
	"golang.org/x/mobile/event/mouse"
	"golang.org/x/mobile/event/paint"
	"golang.org/x/mobile/event/size"

	"github.com/example/shineymark/internal/canvas"
	"github.com/example/shineymark/internal/clipboard"
	"github.com/example/shineymark/internal/compose"
	"github.com/example/shineymark/internal/export"
	"github.com/example/shineymark/internal/notify"
	"github.com/example/shineymark/internal/theme"
)

// frameDropThreshold specifies how many consecutive frames can be canceled
// before a draw is allowed to complete to keep the UI responsive.
const frameDropThreshold = 10

const messageDuration = 2 * time.Second

// Window is the annotation window. All engine calls happen on the window's
// event loop.
type Window struct {
	engine   *canvas.Engine
	output   string
	title    string
	theme    *theme.Theme
	notifier *notify.Notifier
	onClose  func()

	mu      sync.Mutex
	win     screen.Window
	pending []func()

	message      string
	messageErr   bool
	messageUntil time.Time
	closeOnce    sync.Once
}

// Option configures a Window.
type Option func(*Window)

// WithOutput sets the file written by the save shortcut. The extension picks
// the export format.
func WithOutput(path string) Option { return func(w *Window) { w.output = path } }

// WithTitle sets the window title.
func WithTitle(title string) Option { return func(w *Window) { w.title = title } }

// WithTheme sets the window colours.
func WithTheme(t *theme.Theme) Option {
	return func(w *Window) {
		if t != nil {
			w.theme = t
		}
	}
}

// WithNotifier sends desktop notifications after saves and copies.
func WithNotifier(n *notify.Notifier) Option { return func(w *Window) { w.notifier = n } }

// WithOnClose registers a callback invoked when the window closes.
func WithOnClose(fn func()) Option { return func(w *Window) { w.onClose = fn } }

// taskEvent carries deferred engine work onto the event loop.
type taskEvent struct{ fn func() }

// New creates a window and its engine. The engine options are extended with
// a scheduler that runs deferred work on the window's event loop.
func New(engineOpts []canvas.Option, opts ...Option) *Window {
	w := &Window{
		title: "ShineyMark",
		theme: theme.Default(),
	}
	for _, o := range opts {
		o(w)
	}
	engineOpts = append(engineOpts[:len(engineOpts):len(engineOpts)], canvas.WithScheduler(w.post))
	w.engine = canvas.New(engineOpts...)
	w.engine.OnApplyCrop(w.applyCrop)
	return w
}

// Engine returns the hosted engine. Before Run it may be used directly to
// load the background and shapes.
func (w *Window) Engine() *canvas.Engine { return w.engine }

// post runs fn on the event loop. Work posted before the window exists is
// queued until it opens.
func (w *Window) post(fn func()) {
	w.mu.Lock()
	win := w.win
	if win == nil {
		w.pending = append(w.pending, fn)
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()
	win.Send(taskEvent{fn: fn})
}

func (w *Window) attach(win screen.Window) {
	w.mu.Lock()
	w.win = win
	pending := w.pending
	w.pending = nil
	w.mu.Unlock()
	for _, fn := range pending {
		win.Send(taskEvent{fn: fn})
	}
}

func (w *Window) detach() {
	w.mu.Lock()
	w.win = nil
	w.mu.Unlock()
}

func (w *Window) notifyClose() {
	w.closeOnce.Do(func() {
		if err := w.engine.Close(); err != nil {
			log.Printf("save shapes: %v", err)
		}
		if w.onClose != nil {
			w.onClose()
		}
	})
}

// Run executes the UI loop using shiny's driver.
func (w *Window) Run() { driver.Main(w.Main) }

// Main runs the window on s until it is closed.
func (w *Window) Main(s screen.Screen) {
	width, height := initialSize(w.engine.Background())
	win, err := s.NewWindow(&screen.NewWindowOptions{Width: width, Height: height, Title: w.title})
	if err != nil {
		log.Fatalf("new window: %v", err)
	}
	defer win.Release()
	defer w.notifyClose()

	w.attach(win)
	defer w.detach()

	var paintMu sync.Mutex
	var paintCancel context.CancelFunc
	var dropCount int
	paintCh := make(chan paintState, 1)
	defer close(paintCh)
	go func() {
		for st := range paintCh {
			ctx, cancel := context.WithCancel(context.Background())
			paintMu.Lock()
			paintCancel = cancel
			paintMu.Unlock()
			drawFrame(ctx, s, win, st)
			paintMu.Lock()
			paintCancel = nil
			if ctx.Err() == nil {
				dropCount = 0
			}
			paintMu.Unlock()
			cancel()
		}
	}()

	sized := false
	for {
		e := win.NextEvent()
		switch e := e.(type) {
		case taskEvent:
			e.fn()
			win.Send(paint.Event{})
		case lifecycle.Event:
			if e.To == lifecycle.StageDead {
				paintMu.Lock()
				if paintCancel != nil {
					paintCancel()
				}
				paintMu.Unlock()
				return
			}
		case size.Event:
			width, height = e.WidthPx, e.HeightPx
			cw, ch := canvasSize(width, height)
			if sized {
				w.engine.Resize(float64(cw), float64(ch))
			} else {
				w.engine.ResizeNow(float64(cw), float64(ch))
				sized = true
			}
			win.Send(paint.Event{})
		case paint.Event:
			paintMu.Lock()
			if paintCancel != nil && dropCount < frameDropThreshold {
				paintCancel()
				dropCount++
			}
			paintMu.Unlock()
			st := w.paintState(width, height)
			select {
			case paintCh <- st:
			default:
				select {
				case <-paintCh:
				default:
				}
				paintCh <- st
			}
		case mouse.Event:
			if w.handleMouse(e) {
				win.Send(paint.Event{})
			}
		case key.Event:
			if e.Direction != key.DirPress {
				continue
			}
			if w.handleKey(e) {
				win.Send(paint.Event{})
			}
		case error:
			log.Print(e)
		}
	}
}

func (w *Window) handleMouse(e mouse.Event) bool {
	switch e.Button {
	case mouse.ButtonWheelUp:
		return e.Direction == mouse.DirStep && w.engine.ZoomIn()
	case mouse.ButtonWheelDown:
		return e.Direction == mouse.DirStep && w.engine.ZoomOut()
	}
	ev, ok := pointerEvent(e)
	if !ok {
		return false
	}
	return w.engine.Dispatch(ev)
}

func (w *Window) handleKey(e key.Event) bool {
	if !w.engine.Editing() {
		if action, ok := lookupHostAction(e); ok {
			w.runHostAction(action)
			return true
		}
	}
	return w.engine.Dispatch(keyEvent(e))
}

func (w *Window) runHostAction(a hostAction) {
	switch a {
	case actionSave:
		w.save()
	case actionCopyImage:
		w.copyImage()
	case actionPasteBackground:
		w.pasteBackground()
	}
}

func (w *Window) save() {
	if w.output == "" {
		w.fail(fmt.Errorf("save: no output file"))
		return
	}
	format, err := export.ParseFormat(filepath.Ext(w.output))
	if err != nil {
		w.fail(fmt.Errorf("save: %w", err))
		return
	}
	res, err := w.engine.Export(export.Options{Format: format})
	if err != nil {
		w.fail(fmt.Errorf("save: %w", err))
		return
	}
	if err := os.WriteFile(w.output, res.Data, 0o644); err != nil {
		w.fail(fmt.Errorf("save: %w", err))
		return
	}
	w.show(fmt.Sprintf("saved %s", w.output))
	if w.notifier != nil {
		w.notifier.Save(w.output)
	}
}

func (w *Window) copyImage() {
	res, err := w.engine.Export(export.Options{Format: export.PNG})
	if err != nil {
		w.fail(fmt.Errorf("copy: %w", err))
		return
	}
	if err := clipboard.WriteExport(res); err != nil {
		w.fail(fmt.Errorf("copy: %w", err))
		return
	}
	w.show("image copied to clipboard")
	if w.notifier != nil {
		w.notifier.Copy(fmt.Sprintf("%dx%d image", res.Width, res.Height))
	}
}

func (w *Window) pasteBackground() {
	img, err := clipboard.ReadImage()
	if err != nil {
		w.fail(fmt.Errorf("paste background: %w", err))
		return
	}
	if err := w.engine.LoadBackground(context.Background(), img, compose.Options{}); err != nil {
		w.fail(err)
		return
	}
	w.show("background replaced from clipboard")
}

func (w *Window) applyCrop(r canvas.CropBounds) {
	img, err := compose.Crop(w.engine.Background(), r)
	if err != nil {
		w.fail(fmt.Errorf("crop: %w", err))
		return
	}
	w.engine.SetBackground(img)
	w.show(fmt.Sprintf("cropped to %dx%d", img.Bounds().Dx(), img.Bounds().Dy()))
}

func (w *Window) show(msg string) {
	log.Print(msg)
	w.message = msg
	w.messageErr = false
	w.messageUntil = time.Now().Add(messageDuration)
}

func (w *Window) fail(err error) {
	log.Printf("%v", err)
	w.message = err.Error()
	w.messageErr = true
	w.messageUntil = time.Now().Add(messageDuration)
}

func (w *Window) paintState(width, height int) paintState {
	f := w.engine.Frame()
	if f.Scene.Overlay != nil {
		f.Scene.Overlay.Colors = w.theme.Overlay()
	}
	st := paintState{
		width:  width,
		height: height,
		frame:  f,
		theme:  *w.theme,
		status: statusLine(f),
	}
	if w.message != "" && time.Now().Before(w.messageUntil) {
		st.message = w.message
		st.messageErr = w.messageErr
	}
	if f.Err != nil {
		st.message = f.Err.Error()
		st.messageErr = true
	}
	return st
}

// initialSize fits the window around the background, within sane limits.
func initialSize(bg image.Image) (int, int) {
	const maxW, maxH = 1600, 1000
	if bg == nil {
		return 800, 600
	}
	b := bg.Bounds()
	w, h := b.Dx(), b.Dy()+statusHeight
	if w > maxW {
		w = maxW
	}
	if h > maxH {
		h = maxH
	}
	if w < 320 {
		w = 320
	}
	if h < 240 {
		h = 240
	}
	return w, h
}
