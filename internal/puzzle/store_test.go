package puzzle

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func samplePuzzles(n int) []Puzzle {
	out := make([]Puzzle, n)
	for i := range out {
		out[i] = Puzzle{
			FEN:         "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			SideToMove:  White,
			BestLineSAN: []string{"e4"},
			Title:       string(rune('A' + i)),
		}
	}
	return out
}

func TestLoadEmptySet(t *testing.T) {
	var s Store
	err := s.Load(nil)
	if !errors.Is(err, ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
	var ese *EmptySetError
	if !errors.As(err, &ese) {
		t.Fatalf("expected *EmptySetError, got %T", err)
	}
}

func TestLoadResetsIndex(t *testing.T) {
	s, err := NewStore(samplePuzzles(3))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	s.Next()
	s.Next()
	if err := s.Load(samplePuzzles(2)); err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Index() != 0 {
		t.Fatalf("expected index 0 after load, got %d", s.Index())
	}
	if s.Len() != 2 {
		t.Fatalf("expected 2 puzzles, got %d", s.Len())
	}
}

func TestNextWrapsAround(t *testing.T) {
	const n = 4
	s, _ := NewStore(samplePuzzles(n))
	for i := 0; i < n; i++ {
		s.Next()
	}
	if s.Index() != 0 {
		t.Fatalf("expected index 0 after %d calls to Next, got %d", n, s.Index())
	}
}

func TestPrevWrapsAround(t *testing.T) {
	s, _ := NewStore(samplePuzzles(3))
	p := s.Prev()
	if s.Index() != 2 {
		t.Fatalf("expected index 2, got %d", s.Index())
	}
	if p.Title != "C" {
		t.Fatalf("expected puzzle C, got %q", p.Title)
	}
	for i := 0; i < 3; i++ {
		s.Prev()
	}
	if s.Index() != 2 {
		t.Fatalf("expected index 2 after full cycle, got %d", s.Index())
	}
}

func TestResetKeepsIndex(t *testing.T) {
	s, _ := NewStore(samplePuzzles(3))
	s.Next()
	p := s.Reset()
	if s.Index() != 1 || p.Title != "B" {
		t.Fatalf("reset moved the index: %d %q", s.Index(), p.Title)
	}
}

func TestLoadCopiesInput(t *testing.T) {
	in := samplePuzzles(2)
	s, _ := NewStore(in)
	in[0].Title = "mutated"
	if diff := cmp.Diff(samplePuzzles(2), s.All()); diff != "" {
		t.Fatalf("store shares caller slice (-want +got):\n%s", diff)
	}
}
