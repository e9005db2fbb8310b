package trainer

import (
	"errors"
	"testing"
	"time"

	"puzzletrainer/internal/puzzle"
)

func newTestHub(t *testing.T) *Hub {
	t.Helper()
	h, err := NewHub(testPuzzles(), Options{})
	if err != nil {
		t.Fatalf("new hub: %v", err)
	}
	t.Cleanup(h.Stop)
	return h
}

func TestNewHubEmpty(t *testing.T) {
	_, err := NewHub(nil, Options{})
	if !errors.Is(err, puzzle.ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
}

func TestGetReturnsSameSession(t *testing.T) {
	h := newTestHub(t)
	a, err := h.Get("s1")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	b, _ := h.Get("s1")
	if a != b {
		t.Fatalf("expected the same session for the same id")
	}
	c, _ := h.Get("s2")
	if a == c {
		t.Fatalf("expected independent sessions for different ids")
	}
}

func TestSessionsAreIndependent(t *testing.T) {
	h := newTestHub(t)
	a, _ := h.Get("a")
	b, _ := h.Get("b")
	a.Next()
	if b.State().Index != 0 {
		t.Fatalf("navigation leaked across sessions")
	}
}

func TestSessionPersistenceBeforeCleanup(t *testing.T) {
	h := newTestHub(t)
	s, _ := h.Get("test")

	// Simulate a session that was last seen 23 hours ago.
	s.Mu.Lock()
	s.LastSeen = time.Now().Add(-23 * time.Hour)
	s.Mu.Unlock()

	h.Sweep(time.Now())
	if _, exists := h.Lookup("test"); !exists {
		t.Fatalf("session removed before 24 hours of inactivity")
	}

	// Simulate a session that was last seen 25 hours ago.
	s.Mu.Lock()
	s.LastSeen = time.Now().Add(-25 * time.Hour)
	s.Mu.Unlock()

	if n := h.Sweep(time.Now()); n != 1 {
		t.Fatalf("expected one session swept, got %d", n)
	}
	if _, exists := h.Lookup("test"); exists {
		t.Fatalf("session not removed after 24 hours of inactivity")
	}
}

func TestHubCopiesPuzzles(t *testing.T) {
	list := testPuzzles()
	h, _ := NewHub(list, Options{})
	defer h.Stop()
	list[0].Title = "changed"
	if h.Puzzles()[0].Title != "Open game" {
		t.Fatalf("hub shares the caller's slice")
	}
}
