// Package bridge exposes an engine to remote toolbars over a websocket.
// Clients send commands, tool changes and pointer input; every client
// receives state, zoom and crop updates.
package bridge

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/example/shineymark/internal/canvas"
	"github.com/example/shineymark/internal/compose"
	"github.com/example/shineymark/internal/export"
)

const (
	writeWait  = 10 * time.Second
	sendBuffer = 32
)

// Bridge is an http.Handler upgrading requests to websocket sessions on a
// shared engine. Engine calls are serialized by a mutex.
type Bridge struct {
	mu     sync.Mutex
	engine *canvas.Engine

	upgrader websocket.Upgrader

	clientsMu sync.Mutex
	clients   map[*client]struct{}
}

type client struct {
	conn *websocket.Conn
	send chan Outbound
	once sync.Once
}

func (c *client) close() {
	c.once.Do(func() { close(c.send) })
}

// New creates a bridge and its engine. The engine's deferred work runs
// under the bridge's lock.
func New(opts ...canvas.Option) *Bridge {
	b := &Bridge{clients: map[*client]struct{}{}}
	opts = append(opts[:len(opts):len(opts)], canvas.WithScheduler(b.locked))
	b.engine = canvas.New(opts...)
	b.engine.OnChange(func(s canvas.State) { b.broadcast(stateMessage(s)) })
	b.engine.OnZoom(func(z float64) { b.broadcast(Outbound{Type: TypeZoom, Zoom: z}) })
	b.engine.OnCrop(func(r *canvas.CropBounds) { b.broadcast(Outbound{Type: TypeCrop, Crop: r}) })
	b.engine.OnApplyCrop(b.applyCrop)
	return b
}

func (b *Bridge) locked(fn func()) {
	b.mu.Lock()
	defer b.mu.Unlock()
	fn()
}

// Do runs fn with exclusive access to the engine.
func (b *Bridge) Do(fn func(e *canvas.Engine)) {
	b.locked(func() { fn(b.engine) })
}

// Close disconnects every client and flushes the engine.
func (b *Bridge) Close() error {
	b.clientsMu.Lock()
	for c := range b.clients {
		if err := c.conn.Close(); err != nil {
			log.Printf("bridge: close client: %v", err)
		}
	}
	b.clientsMu.Unlock()
	var err error
	b.Do(func(e *canvas.Engine) { err = e.Close() })
	return err
}

// ServeHTTP upgrades the request and serves the session until the client
// disconnects.
func (b *Bridge) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("bridge: upgrade: %v", err)
		return
	}
	c := &client{conn: conn, send: make(chan Outbound, sendBuffer)}
	go c.writeLoop()

	// register under the engine lock so no update slips between the
	// snapshot and the subscription
	b.Do(func(e *canvas.Engine) {
		c.push(stateMessage(e.State()))
		c.push(Outbound{Type: TypeZoom, Zoom: e.Zoom()})
		if rect, ok := e.CropRect(); ok {
			c.push(Outbound{Type: TypeCrop, Crop: &rect})
		}
		b.clientsMu.Lock()
		b.clients[c] = struct{}{}
		b.clientsMu.Unlock()
	})

	defer func() {
		b.clientsMu.Lock()
		delete(b.clients, c)
		b.clientsMu.Unlock()
		c.close()
	}()
	for {
		var in Inbound
		if err := conn.ReadJSON(&in); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("bridge: read: %v", err)
			}
			return
		}
		if reply, ok := b.handle(in); ok {
			c.push(reply)
		}
	}
}

// handle applies one message. Replies meant only for the sender are
// returned.
func (b *Bridge) handle(in Inbound) (Outbound, bool) {
	switch in.Type {
	case TypeExport:
		return b.export(in), true
	case TypeApplyCrop:
		var ok bool
		b.Do(func(e *canvas.Engine) { _, ok = e.ApplyCrop() })
		if !ok {
			return errorMessage(fmt.Errorf("apply-crop: no crop selected")), true
		}
		return Outbound{}, false
	}
	ev, err := in.event()
	if err != nil {
		return errorMessage(err), true
	}
	b.Do(func(e *canvas.Engine) { e.Dispatch(ev) })
	return Outbound{}, false
}

func (b *Bridge) export(in Inbound) Outbound {
	format, err := export.ParseFormat(in.Format)
	if err != nil {
		return errorMessage(err)
	}
	var res export.Result
	b.Do(func(e *canvas.Engine) {
		res, err = e.Export(export.Options{Format: format, Quality: in.Quality})
	})
	if err != nil {
		return errorMessage(fmt.Errorf("export: %w", err))
	}
	return Outbound{Type: TypeExport, URL: res.DataURL(), Width: res.Width, Height: res.Height}
}

// applyCrop runs on the engine's goroutine with the lock held.
func (b *Bridge) applyCrop(r canvas.CropBounds) {
	img, err := compose.Crop(b.engine.Background(), r)
	if err != nil {
		b.broadcast(errorMessage(fmt.Errorf("crop: %w", err)))
		return
	}
	b.engine.SetBackground(img)
}

// LoadBackground composites src into the engine's background.
func (b *Bridge) LoadBackground(ctx context.Context, src image.Image, opts compose.Options) error {
	var err error
	b.Do(func(e *canvas.Engine) { err = e.LoadBackground(ctx, src, opts) })
	return err
}

func (b *Bridge) broadcast(m Outbound) {
	b.clientsMu.Lock()
	defer b.clientsMu.Unlock()
	for c := range b.clients {
		c.push(m)
	}
}

// push queues m without blocking. Messages to a client that is not keeping
// up are dropped.
func (c *client) push(m Outbound) {
	select {
	case c.send <- m:
	default:
		log.Printf("bridge: dropping %s message for slow client", m.Type)
	}
}

func (c *client) writeLoop() {
	defer c.conn.Close()
	for m := range c.send {
		if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
			log.Printf("bridge: deadline: %v", err)
			return
		}
		if err := c.conn.WriteJSON(m); err != nil {
			log.Printf("bridge: write: %v", err)
			return
		}
	}
	deadline := time.Now().Add(writeWait)
	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
	if err := c.conn.WriteControl(websocket.CloseMessage, msg, deadline); err != nil && !errors.Is(err, websocket.ErrCloseSent) {
		log.Printf("bridge: close: %v", err)
	}
}
