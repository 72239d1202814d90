package project

import (
	"log"
	"path/filepath"
	"time"
)

// Store debounces project saves. The engine queues a snapshot on every
// canonical commit; the store writes at most once per debounce window,
// fire-and-forget. Write failures are logged and dropped — persistence
// problems never surface through the paint engine.
type Store struct {
	dir      string
	debounce time.Duration

	pending  *Project
	queuedAt time.Time
	writing  chan struct{}
}

func NewStore(dir string, debounce time.Duration) *Store {
	if debounce <= 0 {
		debounce = 300 * time.Millisecond
	}
	return &Store{dir: dir, debounce: debounce, writing: make(chan struct{}, 1)}
}

// Path returns the on-disk location for a project name.
func (s *Store) Path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

// Queue replaces any pending snapshot and restarts the debounce window.
func (s *Store) Queue(p *Project) {
	s.pending = p
	s.queuedAt = time.Now()
}

// Update writes the pending snapshot once the window has elapsed. Call
// once per tick. The write happens off the game loop; a slow disk never
// stalls a frame.
func (s *Store) Update(now time.Time) {
	if s.pending == nil || now.Sub(s.queuedAt) < s.debounce {
		return
	}
	select {
	case s.writing <- struct{}{}:
	default:
		return // previous write still in flight; keep pending
	}
	p := s.pending
	s.pending = nil
	path := s.Path(p.Name)
	go func() {
		defer func() { <-s.writing }()
		if err := p.Save(path); err != nil {
			log.Printf("project save %s: %v", path, err)
		}
	}()
}

// Flush writes any pending snapshot synchronously, for shutdown. It
// waits for an in-flight background write first so the two never race
// on the same temp file.
func (s *Store) Flush() {
	if s.pending == nil {
		return
	}
	p := s.pending
	s.pending = nil
	s.writing <- struct{}{}
	defer func() { <-s.writing }()
	if err := p.Save(s.Path(p.Name)); err != nil {
		log.Printf("project save %s: %v", s.Path(p.Name), err)
	}
}
