package puzzle

// Store holds the ordered puzzle set and the current index.
// Its zero value is unusable until Load succeeds.
type Store struct {
	puzzles []Puzzle
	index   int
}

// NewStore creates a store loaded with list.
func NewStore(list []Puzzle) (*Store, error) {
	s := &Store{}
	if err := s.Load(list); err != nil {
		return nil, err
	}
	return s, nil
}

// Load replaces the set and moves to the first puzzle.
func (s *Store) Load(list []Puzzle) error {
	if len(list) == 0 {
		return &EmptySetError{}
	}
	s.puzzles = append([]Puzzle(nil), list...)
	s.index = 0
	return nil
}

// Current returns the puzzle at the current index.
func (s *Store) Current() Puzzle { return s.puzzles[s.index] }

// Index returns the zero-based current index.
func (s *Store) Index() int { return s.index }

// Len returns the number of puzzles in the set.
func (s *Store) Len() int { return len(s.puzzles) }

// All returns a copy of the loaded set.
func (s *Store) All() []Puzzle { return append([]Puzzle(nil), s.puzzles...) }

// Next advances to the following puzzle, wrapping to the first.
func (s *Store) Next() Puzzle {
	s.index = (s.index + 1) % len(s.puzzles)
	return s.Current()
}

// Prev retreats to the previous puzzle, wrapping to the last.
func (s *Store) Prev() Puzzle {
	s.index = (s.index - 1 + len(s.puzzles)) % len(s.puzzles)
	return s.Current()
}

// Reset keeps the index and returns the puzzle the caller should reload.
func (s *Store) Reset() Puzzle { return s.Current() }
