package persist

import (
	"context"
	"log"
	"sync"
	"time"

	"github.com/example/shineymark/internal/debounce"
)

// DefaultDelay is the quiet period before a scheduled save is written.
const DefaultDelay = 400 * time.Millisecond

// Saver writes the latest scheduled content to a Store once mutations have
// been quiet for the configured delay. Content equal to the last successful
// save is never written again.
type Saver struct {
	store Store
	deb   *debounce.Debouncer

	mu        sync.Mutex
	content   string
	dirty     bool
	lastSaved string
	saved     bool

	// OnSave, when set, is called after every write attempt.
	OnSave func(data string, err error)
}

// NewSaver returns a saver writing to store.
func NewSaver(store Store, delay time.Duration) *Saver {
	if delay <= 0 {
		delay = DefaultDelay
	}
	s := &Saver{store: store}
	s.deb = debounce.New(delay, func() {
		if err := s.save(context.Background()); err != nil {
			log.Printf("save: %v", err)
		}
	})
	return s
}

// WithAfterFunc swaps the timer source.
func (s *Saver) WithAfterFunc(af debounce.AfterFunc) *Saver {
	s.deb.WithAfterFunc(af)
	return s
}

// MarkSaved records data as already persisted, typically right after a
// load, so that an unchanged state is not written back.
func (s *Saver) MarkSaved(data string) {
	s.mu.Lock()
	s.lastSaved = data
	s.saved = true
	s.content = data
	s.dirty = false
	s.mu.Unlock()
	s.deb.Cancel()
}

// Schedule marks the state dirty with the given content and restarts the
// countdown. Scheduling the last saved content clears the dirty flag.
func (s *Saver) Schedule(data string) {
	s.mu.Lock()
	if s.saved && data == s.lastSaved {
		s.content = data
		s.dirty = false
		s.mu.Unlock()
		s.deb.Cancel()
		return
	}
	s.content = data
	s.dirty = true
	s.mu.Unlock()
	s.deb.Trigger()
}

// Dirty reports whether there is unsaved content.
func (s *Saver) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Flush writes pending content immediately.
func (s *Saver) Flush(ctx context.Context) error {
	s.deb.Cancel()
	return s.save(ctx)
}

// Close flushes and stops the saver.
func (s *Saver) Close() error {
	return s.Flush(context.Background())
}

func (s *Saver) save(ctx context.Context) error {
	s.mu.Lock()
	if !s.dirty {
		s.mu.Unlock()
		return nil
	}
	data := s.content
	if s.saved && data == s.lastSaved {
		s.dirty = false
		s.mu.Unlock()
		return nil
	}
	s.mu.Unlock()

	err := s.store.Save(ctx, data)

	s.mu.Lock()
	if err == nil {
		s.lastSaved = data
		s.saved = true
		if s.content == data {
			s.dirty = false
		}
	}
	cb := s.OnSave
	s.mu.Unlock()
	if cb != nil {
		cb(data, err)
	}
	return err
}
