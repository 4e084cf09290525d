package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/shineymark/internal/canvas"
	"github.com/example/shineymark/internal/persist"
	"github.com/example/shineymark/internal/ui"
)

// annotateCmd opens the annotation window.
type annotateCmd struct {
	source  sourceFlags
	compose composeFlags
	shapes  string
	output  string
	*root
	fs *flag.FlagSet
}

func (a *annotateCmd) FlagSet() *flag.FlagSet {
	return a.fs
}

func (a *annotateCmd) Program() string {
	return a.root.subProgram("annotate")
}

func parseAnnotateCmd(args []string, r *root) (*annotateCmd, error) {
	fs := flag.NewFlagSet("annotate", flag.ExitOnError)
	a := &annotateCmd{root: r, fs: fs}
	fs.Usage = usageFunc(a)
	a.source.register(fs)
	a.compose.register(fs)
	fs.StringVar(&a.shapes, "shapes", "", "shape list file loaded at start and saved after every change")
	fs.StringVar(&a.output, "output", "annotated.png", "file written by Ctrl+S; the extension picks png, jpeg or pdf")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: a}
	}
	if err := a.source.validate(); err != nil {
		return nil, err
	}
	return a, nil
}

func (a *annotateCmd) Run() error {
	opts, err := a.compose.options()
	if err != nil {
		return err
	}
	img, err := a.source.load()
	if err != nil {
		return err
	}

	engineOpts := a.config.EngineOptions()
	var store persist.Store
	if a.shapes != "" {
		store = persist.FileStore{Path: a.shapes}
		engineOpts = append(engineOpts, canvas.WithSaver(persist.NewSaver(store, a.config.Canvas.SaveDelay)))
	}

	win := ui.New(engineOpts,
		ui.WithOutput(a.resolveOutput(a.output)),
		ui.WithTitle(fmt.Sprintf("ShineyMark - %s", a.source.describe())),
		ui.WithTheme(a.activeTheme),
		ui.WithNotifier(a.notifier),
	)
	ctx := context.Background()
	e := win.Engine()
	if err := e.LoadBackground(ctx, img, opts); err != nil {
		return err
	}
	if store != nil {
		if err := e.LoadFrom(ctx, store); err != nil {
			return err
		}
	}
	win.Run()
	return nil
}
