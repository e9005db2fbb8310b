package puzzle

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

const listJSON = `[
  {"fen":"rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1","sideToMove":"w","bestLineSAN":["e4","e5","Nf3"],"title":"Open game"},
  {"fen":"6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1","sideToMove":"w","bestLineSAN":["Ra8#"],"title":"Back rank","hint":"Look at the eighth rank"}
]`

func wantList() []Puzzle {
	return []Puzzle{
		{
			FEN:         "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1",
			SideToMove:  White,
			BestLineSAN: []string{"e4", "e5", "Nf3"},
			Title:       "Open game",
		},
		{
			FEN:         "6k1/5ppp/8/8/8/8/5PPP/R5K1 w - - 0 1",
			SideToMove:  White,
			BestLineSAN: []string{"Ra8#"},
			Title:       "Back rank",
			Hint:        "Look at the eighth rank",
		},
	}
}

func TestHTTPSource(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(listJSON))
	}))
	defer srv.Close()

	list, err := HTTPSource{URL: srv.URL}.Puzzles(context.Background())
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if diff := cmp.Diff(wantList(), list); diff != "" {
		t.Fatalf("decoded list mismatch (-want +got):\n%s", diff)
	}
}

func TestHTTPSourceStatusError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	}))
	defer srv.Close()

	_, err := HTTPSource{URL: srv.URL}.Puzzles(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
	if fe.Status != http.StatusNotFound {
		t.Fatalf("expected status 404, got %d", fe.Status)
	}
}

func TestHTTPSourceTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	_, err := HTTPSource{URL: url}.Puzzles(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) || fe.Err == nil {
		t.Fatalf("expected wrapped transport error, got %v", err)
	}
}

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "puzzles.json")
	if err := os.WriteFile(path, []byte(listJSON), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	src := SourceFor(path, nil)
	if _, ok := src.(FileSource); !ok {
		t.Fatalf("expected FileSource for %q, got %T", path, src)
	}
	s, err := LoadStore(context.Background(), src)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if s.Len() != 2 || s.Current().Title != "Open game" {
		t.Fatalf("unexpected store contents: %d %q", s.Len(), s.Current().Title)
	}
}

func TestBytesSourceMalformed(t *testing.T) {
	_, err := BytesSource{Name: "inline", Data: []byte(`{"not":"a list"}`)}.Puzzles(context.Background())
	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %v", err)
	}
}

func TestBadSide(t *testing.T) {
	_, err := BytesSource{Name: "inline", Data: []byte(`[{"fen":"x","sideToMove":"green"}]`)}.Puzzles(context.Background())
	if err == nil {
		t.Fatalf("expected error for unknown side")
	}
}

func TestLoadStoreEmpty(t *testing.T) {
	_, err := LoadStore(context.Background(), BytesSource{Name: "inline", Data: []byte(`[]`)})
	if !errors.Is(err, ErrEmptySet) {
		t.Fatalf("expected ErrEmptySet, got %v", err)
	}
}

func TestSourceForURL(t *testing.T) {
	if _, ok := SourceFor("https://example.com/p.json", nil).(HTTPSource); !ok {
		t.Fatalf("expected HTTPSource for https URL")
	}
}
