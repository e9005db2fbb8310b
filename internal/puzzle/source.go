package puzzle

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strings"
)

// Source yields the flat puzzle list the trainer consumes.
type Source interface {
	Puzzles(ctx context.Context) ([]Puzzle, error)
}

// Decode reads a JSON array of puzzles.
func Decode(r io.Reader) ([]Puzzle, error) {
	var list []Puzzle
	if err := json.NewDecoder(r).Decode(&list); err != nil {
		return nil, err
	}
	return list, nil
}

// HTTPSource fetches the list once from a URL.
type HTTPSource struct {
	URL    string
	Client *http.Client
}

func (s HTTPSource) Puzzles(ctx context.Context) ([]Puzzle, error) {
	client := s.Client
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.URL, nil)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: err}
	}
	req.Header.Set("Accept", "application/json")
	resp, err := client.Do(req)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: err}
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &FetchError{Source: s.URL, Status: resp.StatusCode}
	}
	list, err := Decode(resp.Body)
	if err != nil {
		return nil, &FetchError{Source: s.URL, Err: err}
	}
	return list, nil
}

// FileSource reads the list from a local JSON file.
type FileSource struct {
	Path string
}

func (s FileSource) Puzzles(ctx context.Context) ([]Puzzle, error) {
	f, err := os.Open(s.Path)
	if err != nil {
		return nil, &FetchError{Source: s.Path, Err: err}
	}
	defer f.Close()
	list, err := Decode(f)
	if err != nil {
		return nil, &FetchError{Source: s.Path, Err: err}
	}
	return list, nil
}

// BytesSource decodes an in-memory document, such as the embedded default list.
type BytesSource struct {
	Name string
	Data []byte
}

func (s BytesSource) Puzzles(ctx context.Context) ([]Puzzle, error) {
	list, err := Decode(bytes.NewReader(s.Data))
	if err != nil {
		return nil, &FetchError{Source: s.Name, Err: err}
	}
	return list, nil
}

// SourceFor picks an HTTP or file source for loc.
func SourceFor(loc string, client *http.Client) Source {
	if strings.HasPrefix(loc, "http://") || strings.HasPrefix(loc, "https://") {
		return HTTPSource{URL: loc, Client: client}
	}
	return FileSource{Path: loc}
}

// LoadStore pulls the list from src and builds a store from it.
func LoadStore(ctx context.Context, src Source) (*Store, error) {
	list, err := src.Puzzles(ctx)
	if err != nil {
		return nil, err
	}
	return NewStore(list)
}
