package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/example/shineymark/internal/canvas"
	"github.com/example/shineymark/internal/clipboard"
	"github.com/example/shineymark/internal/export"
	"github.com/example/shineymark/internal/persist"
)

var writeExportFn = clipboard.WriteExport

// renderCmd exports a background and shape list without opening a window.
type renderCmd struct {
	source      sourceFlags
	compose     composeFlags
	shapes      string
	output      string
	format      string
	quality     int
	zoom        float64
	toClipboard bool
	*root
	fs *flag.FlagSet
}

func (c *renderCmd) FlagSet() *flag.FlagSet {
	return c.fs
}

func (c *renderCmd) Program() string {
	return c.root.subProgram("render")
}

func parseRenderCmd(args []string, r *root) (*renderCmd, error) {
	fs := flag.NewFlagSet("render", flag.ExitOnError)
	c := &renderCmd{root: r, fs: fs}
	fs.Usage = usageFunc(c)
	c.source.register(fs)
	c.compose.register(fs)
	fs.StringVar(&c.shapes, "shapes", "", "shape list file to draw over the background")
	fs.StringVar(&c.output, "output", "", "output file path")
	fs.StringVar(&c.format, "format", "", "output format: png, jpeg or pdf (default from the output extension)")
	fs.IntVar(&c.quality, "quality", export.DefaultQuality, "jpeg quality 1-100")
	fs.Float64Var(&c.zoom, "zoom", 1, "viewport zoom applied before exporting; the output size does not depend on it")
	fs.BoolVar(&c.toClipboard, "to-clipboard", false, "copy the rendered PNG to the clipboard")
	fs.BoolVar(&c.toClipboard, "to-clip", false, "copy the rendered PNG to the clipboard (alias)")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: c}
	}
	if err := c.source.validate(); err != nil {
		return nil, err
	}
	if c.output == "" && !c.toClipboard {
		return nil, fmt.Errorf("-output or -to-clipboard is required")
	}
	if c.format == "" {
		c.format = filepath.Ext(c.output)
	}
	return c, nil
}

func (c *renderCmd) Run() error {
	format, err := export.ParseFormat(c.format)
	if err != nil {
		return err
	}
	if c.toClipboard && format != export.PNG {
		return fmt.Errorf("-to-clipboard needs png output, got %s", format)
	}
	opts, err := c.compose.options()
	if err != nil {
		return err
	}
	img, err := c.source.load()
	if err != nil {
		return err
	}

	var engineOpts []canvas.Option
	if c.config != nil {
		engineOpts = c.config.EngineOptions()
	}
	e := canvas.New(engineOpts...)
	defer e.Close()
	ctx := context.Background()
	if err := e.LoadBackground(ctx, img, opts); err != nil {
		return err
	}
	if c.shapes != "" {
		if err := e.LoadFrom(ctx, persist.FileStore{Path: c.shapes}); err != nil {
			return err
		}
	}
	e.SetZoom(c.zoom)

	res, err := e.Export(export.Options{Format: format, Quality: c.quality})
	if err != nil {
		return fmt.Errorf("failed to render: %w", err)
	}
	detail := fmt.Sprintf("%s (%dx%d)", c.source.describe(), res.Width, res.Height)
	if preview, err := export.Image(export.Source{Background: e.Background(), Shapes: e.Shapes()}); err == nil {
		c.notifyExport(detail, preview)
	}

	if c.output != "" {
		path := c.resolveOutput(c.output)
		if err := os.WriteFile(path, res.Data, 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", path, err)
		}
		fmt.Fprintf(os.Stderr, "wrote %s (%dx%d %s)\n", path, res.Width, res.Height, res.Format)
		c.notifySave(path)
	}
	if c.toClipboard {
		if err := writeExportFn(res); err != nil {
			return fmt.Errorf("failed to copy to clipboard: %w", err)
		}
		c.notifyCopy(fmt.Sprintf("%dx%d image", res.Width, res.Height))
	}
	return nil
}
