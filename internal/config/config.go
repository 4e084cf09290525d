package config

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/example/shineymark/internal/canvas"
	"github.com/example/shineymark/internal/persist"
	"github.com/example/shineymark/internal/shape"
	"github.com/example/shineymark/internal/theme"
	"github.com/example/shineymark/internal/viewport"
)

// Notify holds notification settings.
type Notify struct {
	Export bool
	Save   bool
	Copy   bool
}

// Canvas holds editor behaviour settings.
type Canvas struct {
	ZoomMin     float64
	ZoomMax     float64
	ZoomStep    float64
	FitMargin   float64
	PasteOffset float64
	SaveDelay   time.Duration
	ResizeDelay time.Duration
	Placeholder string
}

// Style holds the drawing style new shapes start with.
type Style struct {
	Stroke      string
	StrokeWidth float64
	Fill        string
	FontSize    float64
	FontFamily  string
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Canvas  Canvas
	Style   Style
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New creates a new Config with defaults.
func New() *Config {
	st := canvas.DefaultStyle()
	return &Config{
		Theme: "", // Default to empty to allow fallback to Env/Default
		Canvas: Canvas{
			ZoomMin:     viewport.DefaultZoomMin,
			ZoomMax:     viewport.DefaultZoomMax,
			ZoomStep:    viewport.DefaultStep,
			FitMargin:   viewport.DefaultMargin,
			PasteOffset: canvas.DefaultPasteOffset,
			SaveDelay:   persist.DefaultDelay,
			ResizeDelay: canvas.DefaultResizeDelay,
			Placeholder: canvas.DefaultPlaceholder,
		},
		Style: Style{
			Stroke:      st.Stroke,
			StrokeWidth: st.StrokeWidth,
			Fill:        st.Fill,
			FontSize:    st.FontSize,
			FontFamily:  st.FontFamily,
		},
		Themes: make(map[string]*theme.Theme),
	}
}

// EngineOptions translates the canvas and style sections into engine
// options.
func (c *Config) EngineOptions() []canvas.Option {
	return []canvas.Option{
		canvas.WithViewport(
			viewport.WithZoomRange(c.Canvas.ZoomMin, c.Canvas.ZoomMax),
			viewport.WithZoomStep(c.Canvas.ZoomStep),
			viewport.WithMargin(c.Canvas.FitMargin),
		),
		canvas.WithPasteOffset(c.Canvas.PasteOffset, c.Canvas.PasteOffset),
		canvas.WithPlaceholder(c.Canvas.Placeholder),
		canvas.WithResizeDelay(c.Canvas.ResizeDelay),
		canvas.WithStyle(c.DrawStyle()),
	}
}

// DrawStyle returns the configured style as the engine's drawing style.
func (c *Config) DrawStyle() canvas.Style {
	return canvas.Style{
		Style: shape.Style{
			Stroke:      c.Style.Stroke,
			StrokeWidth: c.Style.StrokeWidth,
			Fill:        c.Style.Fill,
		},
		FontSize:   c.Style.FontSize,
		FontFamily: c.Style.FontFamily,
	}
}

// String implements fmt.Stringer and returns the configuration in RC format.
func (c *Config) String() string {
	var sb strings.Builder

	// Root section
	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[canvas]\n")
	fmt.Fprintf(&sb, "zoom_min = %v\n", c.Canvas.ZoomMin)
	fmt.Fprintf(&sb, "zoom_max = %v\n", c.Canvas.ZoomMax)
	fmt.Fprintf(&sb, "zoom_step = %v\n", c.Canvas.ZoomStep)
	fmt.Fprintf(&sb, "fit_margin = %v\n", c.Canvas.FitMargin)
	fmt.Fprintf(&sb, "paste_offset = %v\n", c.Canvas.PasteOffset)
	fmt.Fprintf(&sb, "save_delay_ms = %d\n", c.Canvas.SaveDelay.Milliseconds())
	fmt.Fprintf(&sb, "resize_delay_ms = %d\n", c.Canvas.ResizeDelay.Milliseconds())
	fmt.Fprintf(&sb, "text_placeholder = %q\n", c.Canvas.Placeholder)
	sb.WriteString("\n")

	sb.WriteString("[style]\n")
	fmt.Fprintf(&sb, "stroke = %s\n", c.Style.Stroke)
	fmt.Fprintf(&sb, "stroke_width = %v\n", c.Style.StrokeWidth)
	if c.Style.Fill != "" {
		fmt.Fprintf(&sb, "fill = %s\n", c.Style.Fill)
	}
	fmt.Fprintf(&sb, "font_size = %v\n", c.Style.FontSize)
	fmt.Fprintf(&sb, "font_family = %s\n", c.Style.FontFamily)
	sb.WriteString("\n")

	// Notify section
	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "export = %v\n", c.Notify.Export)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	// Sort keys for deterministic output
	var themeNames []string
	for name := range c.Themes {
		themeNames = append(themeNames, name)
	}
	sort.Strings(themeNames)

	for _, name := range themeNames {
		fmt.Fprintf(&sb, "[theme.%s]\n", name)
		c.Themes[name].WriteTo(&sb)
		sb.WriteString("\n")
	}

	return sb.String()
}
