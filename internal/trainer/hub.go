package trainer

import (
	"time"

	"go.uber.org/zap"

	"puzzletrainer/internal/logging"
	"puzzletrainer/internal/puzzle"
)

const (
	defaultIdleTTL    = 24 * time.Hour
	defaultSweepEvery = 5 * time.Minute
)

// NewHub creates a hub that hands every new session its own copy of list,
// and starts the idle-session cleanup goroutine.
func NewHub(list []puzzle.Puzzle, opts Options) (*Hub, error) {
	if len(list) == 0 {
		return nil, &puzzle.EmptySetError{Source: "hub"}
	}
	if opts.IdleTTL <= 0 {
		opts.IdleTTL = defaultIdleTTL
	}
	if opts.SweepEvery <= 0 {
		opts.SweepEvery = defaultSweepEvery
	}
	h := &Hub{
		Sessions: make(map[string]*Session),
		puzzles:  append([]puzzle.Puzzle(nil), list...),
		opts:     opts,
		stop:     make(chan struct{}),
	}
	go func() {
		t := time.NewTicker(opts.SweepEvery)
		defer t.Stop()
		for {
			select {
			case <-h.stop:
				return
			case <-t.C:
				h.Sweep(time.Now())
			}
		}
	}()
	return h, nil
}

// Stop ends the cleanup goroutine.
func (h *Hub) Stop() {
	h.once.Do(func() { close(h.stop) })
}

// Puzzles returns the list sessions are seeded from.
func (h *Hub) Puzzles() []puzzle.Puzzle {
	return append([]puzzle.Puzzle(nil), h.puzzles...)
}

// Sweep drops sessions idle for longer than the configured TTL.
func (h *Hub) Sweep(now time.Time) int {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	removed := 0
	for id, s := range h.Sessions {
		s.Mu.Lock()
		idle := now.Sub(s.LastSeen) > h.opts.IdleTTL
		s.Mu.Unlock()
		if idle {
			delete(h.Sessions, id)
			removed++
		}
	}
	if removed > 0 {
		logging.L().Info("dropped idle sessions", zap.Int("count", removed))
	}
	return removed
}

// Get retrieves an existing session or creates a new one
func (h *Hub) Get(id string) (*Session, error) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	if s, ok := h.Sessions[id]; ok {
		return s, nil
	}
	s, err := NewSession(id, h.puzzles, h.opts.RevertDelay)
	if err != nil {
		return nil, err
	}
	h.Sessions[id] = s
	logging.Debugf("session %s created with %d puzzles", id, len(h.puzzles))
	return s, nil
}

// Lookup returns the session for id without creating it.
func (h *Hub) Lookup(id string) (*Session, bool) {
	h.Mu.Lock()
	defer h.Mu.Unlock()
	s, ok := h.Sessions[id]
	return s, ok
}
