// Package canvas is the annotation editor: it owns the shape list, the
// active tool, the selection, the undo history and the viewport, and turns
// pointer and keyboard input into committed shape edits.
//
// An Engine is not safe for concurrent use. Hosts call it from a single
// event loop, or serialize calls themselves and install a matching
// scheduler with WithScheduler.
package canvas

import (
	"context"
	"fmt"
	"image"
	"log"
	"time"

	"github.com/example/shineymark/internal/compose"
	"github.com/example/shineymark/internal/debounce"
	"github.com/example/shineymark/internal/export"
	"github.com/example/shineymark/internal/history"
	"github.com/example/shineymark/internal/persist"
	"github.com/example/shineymark/internal/shape"
	"github.com/example/shineymark/internal/viewport"
)

// ErrNotReady is returned by operations that need a background image.
var ErrNotReady = export.ErrNotReady

// Compositor produces the background bitmap from a source image.
type Compositor interface {
	Composite(ctx context.Context, src image.Image, opts compose.Options) (image.Image, error)
}

// Style is the active drawing style applied to new shapes.
type Style struct {
	shape.Style
	FontSize   float64
	FontFamily string
}

// DefaultStyle is a red 4px stroke with 24pt sans text.
func DefaultStyle() Style {
	return Style{
		Style:      shape.Style{Stroke: "#ff3b30", StrokeWidth: 4},
		FontSize:   shape.DefaultFontSize,
		FontFamily: shape.FamilySans,
	}
}

// State is reported to OnChange listeners after every history or selection
// change.
type State struct {
	CanUndo    bool
	CanRedo    bool
	ShapeCount int
	Selected   string
	Tool       Tool
	Editing    bool
}

// CropBounds is a finalized crop rectangle in logical coordinates.
type CropBounds = shape.Rect

const (
	DefaultPasteOffset  = 20
	DefaultPlaceholder  = "Text"
	DefaultResizeDelay  = 150 * time.Millisecond
	defaultHandleSize   = 8
	defaultRotateOffset = 24
	defaultHitTolerance = 6
)

// Engine is the annotation canvas.
type Engine struct {
	shapes   []shape.Shape
	history  *history.History
	view     *viewport.Viewport
	tool     Tool
	style    Style
	selected string

	clip        *shape.Shape
	pasteOffset shape.Point
	placeholder string

	gesture gesture
	crop    cropState
	edit    *textEdit

	background image.Image
	err        error
	compositor Compositor

	saver       *persist.Saver
	resize      *debounce.Debouncer
	resizeDelay time.Duration
	pendingW    float64
	pendingH    float64
	post        func(func())

	handleSize   float64
	rotateOffset float64
	hitTolerance float64
	keymap       *Keymap

	onChange func(State)
	onZoom   func(float64)
	onCrop   func(*CropBounds)
	onApply  func(CropBounds)
}

// Option configures an Engine.
type Option func(*Engine)

// WithViewport passes options to the engine's viewport.
func WithViewport(opts ...viewport.Option) Option {
	return func(e *Engine) { e.view = viewport.New(opts...) }
}

// WithSaver persists every committed change through s.
func WithSaver(s *persist.Saver) Option {
	return func(e *Engine) { e.saver = s }
}

// WithStyle sets the initial drawing style.
func WithStyle(st Style) Option {
	return func(e *Engine) { e.style = st }
}

// WithPasteOffset sets the displacement applied to pasted shapes.
func WithPasteOffset(dx, dy float64) Option {
	return func(e *Engine) { e.pasteOffset = shape.Pt(dx, dy) }
}

// WithPlaceholder sets the initial content of new text shapes.
func WithPlaceholder(text string) Option {
	return func(e *Engine) {
		if text != "" {
			e.placeholder = text
		}
	}
}

// WithCompositor replaces the default background pipeline.
func WithCompositor(c Compositor) Option {
	return func(e *Engine) { e.compositor = c }
}

// WithResizeDelay sets how long container resizes are debounced.
func WithResizeDelay(d time.Duration) Option {
	return func(e *Engine) { e.resizeDelay = d }
}

// WithScheduler sets the function used to run deferred work, such as a
// debounced resize, on the host's event loop. The default runs it directly
// on the timer goroutine.
func WithScheduler(post func(func())) Option {
	return func(e *Engine) { e.post = post }
}

// WithKeymap replaces the default keyboard bindings.
func WithKeymap(m *Keymap) Option {
	return func(e *Engine) {
		if m != nil {
			e.keymap = m
		}
	}
}

// New returns an engine with an empty shape list and no background.
func New(opts ...Option) *Engine {
	e := &Engine{
		history:      history.New(nil),
		view:         viewport.New(),
		tool:         ToolSelect,
		style:        DefaultStyle(),
		pasteOffset:  shape.Pt(DefaultPasteOffset, DefaultPasteOffset),
		placeholder:  DefaultPlaceholder,
		compositor:   compose.Pipeline{},
		resizeDelay:  DefaultResizeDelay,
		handleSize:   defaultHandleSize,
		rotateOffset: defaultRotateOffset,
		hitTolerance: defaultHitTolerance,
		keymap:       DefaultKeymap(),
		shapes:       []shape.Shape{},
	}
	for _, o := range opts {
		o(e)
	}
	if e.post == nil {
		e.post = func(fn func()) { fn() }
	}
	e.resize = debounce.New(e.resizeDelay, func() { e.post(e.applyResize) })
	return e
}

// OnChange registers the history/selection listener.
func (e *Engine) OnChange(fn func(State)) { e.onChange = fn }

// OnZoom registers the zoom listener.
func (e *Engine) OnZoom(fn func(float64)) { e.onZoom = fn }

// OnCrop registers the crop bounds listener. It receives nil when the crop
// preview is removed.
func (e *Engine) OnCrop(fn func(*CropBounds)) { e.onCrop = fn }

// State returns the current summary.
func (e *Engine) State() State {
	return State{
		CanUndo:    e.history.CanUndo(),
		CanRedo:    e.history.CanRedo(),
		ShapeCount: len(e.shapes),
		Selected:   e.selected,
		Tool:       e.tool,
		Editing:    e.edit != nil,
	}
}

func (e *Engine) notify() {
	if e.onChange != nil {
		e.onChange(e.State())
	}
}

func (e *Engine) notifyZoom() {
	if e.onZoom != nil {
		e.onZoom(e.view.Zoom())
	}
}

// Shapes returns a copy of the current shape list in paint order.
func (e *Engine) Shapes() []shape.Shape { return shape.CloneAll(e.shapes) }

// Viewport exposes the engine's viewport for read-only queries.
func (e *Engine) Viewport() *viewport.Viewport { return e.view }

// Style returns the active drawing style.
func (e *Engine) Style() Style { return e.style }

// SetStyle replaces the active drawing style used for new shapes.
func (e *Engine) SetStyle(st Style) { e.style = st }

// Ready reports whether a background is loaded and input is accepted.
func (e *Engine) Ready() bool { return e.background != nil && e.err == nil }

// Err returns the last background failure.
func (e *Engine) Err() error { return e.err }

// Background returns the current background bitmap.
func (e *Engine) Background() image.Image { return e.background }

// SetBackground swaps the background bitmap, rescales the viewport and
// clears any crop preview.
func (e *Engine) SetBackground(img image.Image) {
	e.background = img
	e.err = nil
	if img != nil {
		b := img.Bounds()
		e.view.SetImage(float64(b.Dx()), float64(b.Dy()))
	}
	e.clearCrop()
	e.notifyZoom()
	e.notify()
}

// LoadBackground composites src and installs the result. On failure the
// engine is left without a background and reports the error through Err.
func (e *Engine) LoadBackground(ctx context.Context, src image.Image, opts compose.Options) error {
	img, err := e.compositor.Composite(ctx, src, opts)
	if err != nil {
		e.background = nil
		e.err = fmt.Errorf("compose background: %w", err)
		e.cancelGesture()
		e.notify()
		return e.err
	}
	e.SetBackground(img)
	return nil
}

// Load replaces the shape list with persisted data and restarts history
// from it. Malformed data is logged and treated as an empty list.
func (e *Engine) Load(data string) {
	list, err := shape.Decode(data)
	if err != nil {
		log.Printf("load shapes: %v", err)
		list = []shape.Shape{}
	}
	e.cancelGesture()
	e.edit = nil
	e.shapes = list
	e.selected = ""
	e.history.Reset(list)
	if e.saver != nil {
		e.saver.MarkSaved(e.history.CurrentKey())
	}
	e.notify()
}

// LoadFrom reads persisted data from store and loads it.
func (e *Engine) LoadFrom(ctx context.Context, store persist.Store) error {
	data, err := store.Load(ctx)
	if err != nil {
		e.Load("")
		return fmt.Errorf("load shapes: %w", err)
	}
	e.Load(data)
	return nil
}

// Serialize returns the committed shape list as JSON.
func (e *Engine) Serialize() (string, error) {
	return shape.Encode(e.shapes)
}

// commit records the current shape list in history and schedules a save.
func (e *Engine) commit() {
	e.history.Commit(e.shapes)
	e.persist()
	e.notify()
}

func (e *Engine) persist() {
	if e.saver == nil {
		return
	}
	data, err := shape.Encode(e.shapes)
	if err != nil {
		log.Printf("save: %v", err)
		return
	}
	e.saver.Schedule(data)
}

// restore installs a history snapshot.
func (e *Engine) restore(list []shape.Shape) {
	e.cancelGesture()
	e.shapes = list
	if _, ok := e.index(e.selected); !ok {
		e.selected = ""
	}
	e.persist()
	e.notify()
}

// Export renders the committed shapes over the background at native
// resolution.
func (e *Engine) Export(opts export.Options) (export.Result, error) {
	if !e.Ready() {
		return export.Result{}, ErrNotReady
	}
	return export.Export(export.Source{
		Background: e.background,
		Shapes:     shape.CloneAll(e.shapes),
		Effective:  e.view.Effective(),
	}, opts)
}

// Resize schedules a container size change. Bursts of resizes are
// debounced.
func (e *Engine) Resize(w, h float64) {
	e.pendingW, e.pendingH = w, h
	e.resize.Trigger()
}

// ResizeNow applies a container size immediately.
func (e *Engine) ResizeNow(w, h float64) {
	e.resize.Cancel()
	e.pendingW, e.pendingH = w, h
	e.applyResize()
}

func (e *Engine) applyResize() {
	e.view.SetContainer(e.pendingW, e.pendingH)
	e.notifyZoom()
}

// Close flushes pending saves and stops timers.
func (e *Engine) Close() error {
	e.resize.Cancel()
	if e.saver != nil {
		return e.saver.Close()
	}
	return nil
}

func (e *Engine) index(id string) (int, bool) {
	if id == "" {
		return -1, false
	}
	for i := range e.shapes {
		if e.shapes[i].ID == id {
			return i, true
		}
	}
	return -1, false
}
