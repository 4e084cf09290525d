package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/example/shineymark/internal/bridge"
	"github.com/example/shineymark/internal/canvas"
	"github.com/example/shineymark/internal/persist"
)

// serveCmd runs a headless engine behind the websocket bridge.
type serveCmd struct {
	source  sourceFlags
	compose composeFlags
	shapes  string
	addr    string
	path    string
	*root
	fs *flag.FlagSet
}

func (s *serveCmd) FlagSet() *flag.FlagSet {
	return s.fs
}

func (s *serveCmd) Program() string {
	return s.root.subProgram("serve")
}

func parseServeCmd(args []string, r *root) (*serveCmd, error) {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	s := &serveCmd{root: r, fs: fs}
	fs.Usage = usageFunc(s)
	s.source.register(fs)
	s.compose.register(fs)
	fs.StringVar(&s.shapes, "shapes", "", "shape list file loaded at start and saved after every change")
	fs.StringVar(&s.addr, "addr", "127.0.0.1:8765", "listen address")
	fs.StringVar(&s.path, "path", "/ws", "websocket endpoint path")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() > 0 {
		return nil, &UsageError{of: s}
	}
	if err := s.source.validate(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *serveCmd) Run() error {
	opts, err := s.compose.options()
	if err != nil {
		return err
	}
	img, err := s.source.load()
	if err != nil {
		return err
	}

	engineOpts := s.config.EngineOptions()
	var store persist.Store
	if s.shapes != "" {
		store = persist.FileStore{Path: s.shapes}
		engineOpts = append(engineOpts, canvas.WithSaver(persist.NewSaver(store, s.config.Canvas.SaveDelay)))
	}
	b := bridge.New(engineOpts...)
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := b.LoadBackground(ctx, img, opts); err != nil {
		return err
	}
	if store != nil {
		var loadErr error
		b.Do(func(e *canvas.Engine) { loadErr = e.LoadFrom(ctx, store) })
		if loadErr != nil {
			return loadErr
		}
	}

	mux := http.NewServeMux()
	mux.Handle(s.path, b)
	srv := &http.Server{Addr: s.addr, Handler: mux, ReadHeaderTimeout: 10 * time.Second}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.ListenAndServe() }()
	log.Printf("serving %s on ws://%s%s", s.source.describe(), s.addr, s.path)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			b.Close()
			return fmt.Errorf("serve: %w", err)
		}
	case <-ctx.Done():
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("serve: shutdown: %v", err)
	}
	return b.Close()
}
