//go:build (linux || freebsd || openbsd || netbsd || dragonfly) && !cgo

package clipboard

import (
	"errors"
	"fmt"
	"sync"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

var errTargetUnavailable = errors.New("clipboard target unavailable")

// x11Backend speaks the X11 selection protocol directly for builds without
// cgo. Writes claim CLIPBOARD with a hidden window and serve the payload from
// an event loop; reads convert the selection into a property on a scratch
// window.
type x11Backend struct {
	conn   *xgb.Conn
	owner  xproto.Window
	atoms  x11Atoms
	served selection
}

type x11Atoms struct {
	clipboard, targets, utf8, textPlain, png, property xproto.Atom
}

// selection is the payload currently offered to other clients.
type selection struct {
	mu      sync.RWMutex
	typ     xproto.Atom
	data    []byte
	targets []xproto.Atom
}

func newBackend() (backend, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	b := &x11Backend{conn: conn}
	if err := b.setup(); err != nil {
		conn.Close()
		return nil, err
	}
	go b.serve()
	return b, nil
}

func (b *x11Backend) setup() error {
	screen := xproto.Setup(b.conn).DefaultScreen(b.conn)
	win, err := xproto.NewWindowId(b.conn)
	if err != nil {
		return err
	}
	mask := []uint32{xproto.EventMaskPropertyChange | xproto.EventMaskStructureNotify}
	if err := xproto.CreateWindowChecked(b.conn, screen.RootDepth, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOutput, screen.RootVisual, xproto.CwEventMask, mask).Check(); err != nil {
		return err
	}
	atoms, err := internAll(b.conn, "CLIPBOARD", "TARGETS", "UTF8_STRING", "text/plain;charset=utf-8", "image/png", "SHINEYMARK_CLIPBOARD")
	if err != nil {
		xproto.DestroyWindow(b.conn, win)
		return err
	}
	b.owner = win
	b.atoms = x11Atoms{clipboard: atoms[0], targets: atoms[1], utf8: atoms[2], textPlain: atoms[3], png: atoms[4], property: atoms[5]}
	return nil
}

func internAll(conn *xgb.Conn, names ...string) ([]xproto.Atom, error) {
	cookies := make([]xproto.InternAtomCookie, len(names))
	for i, name := range names {
		cookies[i] = xproto.InternAtom(conn, false, uint16(len(name)), name)
	}
	atoms := make([]xproto.Atom, len(names))
	for i, c := range cookies {
		reply, err := c.Reply()
		if err != nil {
			return nil, fmt.Errorf("intern %s: %w", names[i], err)
		}
		atoms[i] = reply.Atom
	}
	return atoms, nil
}

func (b *x11Backend) write(f format, data []byte) error {
	s := &b.served
	s.mu.Lock()
	s.data = append([]byte(nil), data...)
	if f == formatPNG {
		s.typ, s.targets = b.atoms.png, []xproto.Atom{b.atoms.png}
	} else {
		s.typ, s.targets = b.atoms.utf8, []xproto.Atom{b.atoms.utf8, xproto.AtomString, b.atoms.textPlain}
	}
	s.mu.Unlock()
	return xproto.SetSelectionOwnerChecked(b.conn, b.owner, b.atoms.clipboard, xproto.TimeCurrentTime).Check()
}

// read fetches the selection. Text falls back to the legacy STRING target.
func (b *x11Backend) read(f format) ([]byte, error) {
	if f == formatPNG {
		return b.convert(b.atoms.png)
	}
	data, err := b.convert(b.atoms.utf8)
	if err != nil {
		return b.convert(xproto.AtomString)
	}
	return data, nil
}

func (b *x11Backend) serve() {
	for {
		ev, err := b.conn.WaitForEvent()
		if err != nil {
			return
		}
		switch e := ev.(type) {
		case xproto.SelectionRequestEvent:
			b.respond(e)
		case xproto.SelectionClearEvent:
			b.served.mu.Lock()
			b.served.typ, b.served.data, b.served.targets = 0, nil, nil
			b.served.mu.Unlock()
		}
	}
}

// lookup returns the property contents for target, or ok false when the
// target is not offered.
func (s *selection) lookup(target, targetsAtom xproto.Atom) (typ xproto.Atom, unit byte, data []byte, ok bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if target == targetsAtom {
		list := append([]xproto.Atom{targetsAtom}, s.targets...)
		buf := make([]byte, 4*len(list))
		for i, a := range list {
			xgb.Put32(buf[4*i:], uint32(a))
		}
		return xproto.AtomAtom, 32, buf, true
	}
	if len(s.data) == 0 {
		return 0, 0, nil, false
	}
	for _, a := range s.targets {
		if a == target {
			return s.typ, 8, s.data, true
		}
	}
	return 0, 0, nil, false
}

func (b *x11Backend) respond(e xproto.SelectionRequestEvent) {
	prop := e.Property
	if prop == xproto.AtomNone {
		prop = e.Target
	}
	typ, unit, data, ok := b.served.lookup(e.Target, b.atoms.targets)
	if ok {
		n := uint32(len(data)) / uint32(unit/8)
		xproto.ChangeProperty(b.conn, xproto.PropModeReplace, e.Requestor, prop, typ, unit, n, data)
	} else {
		prop = xproto.AtomNone
	}
	ev := xproto.SelectionNotifyEvent{
		Time:      e.Time,
		Requestor: e.Requestor,
		Selection: e.Selection,
		Target:    e.Target,
		Property:  prop,
	}
	xproto.SendEvent(b.conn, false, e.Requestor, 0, string(ev.Bytes()))
}

// convert asks the selection owner for target on a private connection so
// the owner's event loop is never blocked by a read.
func (b *x11Backend) convert(target xproto.Atom) ([]byte, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	screen := xproto.Setup(conn).DefaultScreen(conn)
	win, err := xproto.NewWindowId(conn)
	if err != nil {
		return nil, err
	}
	if err := xproto.CreateWindowChecked(conn, 0, win, screen.Root, 0, 0, 1, 1, 0,
		xproto.WindowClassInputOnly, 0, xproto.CwEventMask, []uint32{xproto.EventMaskPropertyChange}).Check(); err != nil {
		return nil, err
	}
	defer xproto.DestroyWindow(conn, win)

	prop := b.atoms.property
	if err := xproto.DeletePropertyChecked(conn, win, prop).Check(); err != nil {
		return nil, err
	}
	if err := xproto.ConvertSelectionChecked(conn, win, b.atoms.clipboard, target, prop, xproto.TimeCurrentTime).Check(); err != nil {
		return nil, err
	}
	for {
		ev, err := conn.WaitForEvent()
		if err != nil {
			return nil, err
		}
		n, ok := ev.(xproto.SelectionNotifyEvent)
		if !ok {
			continue
		}
		if n.Property == xproto.AtomNone {
			return nil, errTargetUnavailable
		}
		if n.Property != prop {
			continue
		}
		reply, perr := xproto.GetProperty(conn, false, win, prop, xproto.GetPropertyTypeAny, 0, (1<<31)-1).Reply()
		if perr != nil {
			return nil, perr
		}
		return append([]byte(nil), reply.Value...), nil
	}
}
