package ui

import (
	"context"
	"image"
	"image/color"
	"image/draw"
	"log"

	"github.com/fogleman/gg"
	"golang.org/x/exp/shiny/screen"
	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/example/shineymark/internal/canvas"
	"github.com/example/shineymark/internal/render"
	"github.com/example/shineymark/internal/theme"
)

const (
	statusHeight = 24
	checkerSize  = 8
)

type paintState struct {
	width, height int
	frame         canvas.Frame
	theme         theme.Theme
	status        string
	message       string
	messageErr    bool
}

// canvasSize is the area left for the stage once the status bar is placed.
func canvasSize(width, height int) (int, int) {
	h := height - statusHeight
	if h < 0 {
		h = 0
	}
	return width, h
}

func drawFrame(ctx context.Context, s screen.Screen, w screen.Window, st paintState) {
	if st.width <= 0 || st.height <= 0 {
		return
	}
	b, err := s.NewBuffer(image.Point{st.width, st.height})
	if err != nil {
		log.Printf("new buffer: %v", err)
		return
	}
	defer b.Release()

	if !renderFrame(ctx, b.RGBA(), st) {
		return
	}
	w.Upload(image.Point{}, b, b.Bounds())
	w.Publish()
}

// renderFrame paints st into dst. It reports false when ctx was cancelled
// part way through.
func renderFrame(ctx context.Context, dst *image.RGBA, st paintState) bool {
	cw, ch := canvasSize(st.width, st.height)
	area := image.Rect(0, 0, cw, ch)
	draw.Draw(dst, area, image.NewUniform(st.theme.Background), image.Point{}, draw.Src)

	f := st.frame
	if f.Scene.Background != nil {
		stage := image.Rect(0, 0, int(f.Stage.X+0.5), int(f.Stage.Y+0.5)).
			Add(image.Pt(int(f.View.Offset.X), int(f.View.Offset.Y))).
			Intersect(area)
		render.Checkerboard(dst, stage, checkerSize, st.theme.CheckerLight, st.theme.CheckerDark)
	}
	if ctx.Err() != nil {
		return false
	}

	dc := gg.NewContextForRGBA(dst)
	dc.DrawRectangle(0, 0, float64(cw), float64(ch))
	dc.Clip()
	render.Draw(dc, f.Scene, f.View)
	dc.ResetClip()
	if ctx.Err() != nil {
		return false
	}

	drawStatus(dst, st, ch)
	return ctx.Err() == nil
}

func drawStatus(dst *image.RGBA, st paintState, top int) {
	bar := image.Rect(0, top, st.width, st.height)
	draw.Draw(dst, bar, image.NewUniform(st.theme.StatusBackground), image.Point{}, draw.Src)
	text, col := st.status, st.theme.StatusText
	if st.message != "" {
		text = st.message
		if st.messageErr {
			col = st.theme.StatusError
		}
	}
	drawString(dst, text, image.Pt(8, top+statusHeight/2+5), col)
}

func drawString(dst *image.RGBA, s string, at image.Point, col color.Color) {
	d := &font.Drawer{Dst: dst, Src: image.NewUniform(col), Face: basicfont.Face7x13}
	d.Dot = fixed.P(at.X, at.Y)
	d.DrawString(s)
}
