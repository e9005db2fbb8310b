package puzzle

import (
	"encoding/json"
	"fmt"
)

// Side is the color that moves first in a puzzle.
type Side string

const (
	White Side = "w"
	Black Side = "b"
)

// String returns the display name of the side.
func (s Side) String() string {
	if s == Black {
		return "Black"
	}
	return "White"
}

// Opponent returns the other side.
func (s Side) Opponent() Side {
	if s == Black {
		return White
	}
	return Black
}

// UnmarshalJSON accepts "w"/"b" as well as "white"/"black".
func (s *Side) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw {
	case "w", "white", "White":
		*s = White
	case "b", "black", "Black":
		*s = Black
	default:
		return fmt.Errorf("unknown side %q", raw)
	}
	return nil
}

// Puzzle is a starting position plus the best line that solves it.
type Puzzle struct {
	FEN         string   `json:"fen"`
	SideToMove  Side     `json:"sideToMove"`
	BestLineSAN []string `json:"bestLineSAN"`
	Title       string   `json:"title"`
	Hint        string   `json:"hint,omitempty"`
}

// Verdict is the outcome of submitting a move against the solution line.
type Verdict int

const (
	Rejected Verdict = iota
	Accepted
	Solved
)

func (v Verdict) String() string {
	switch v {
	case Accepted:
		return "accepted"
	case Solved:
		return "solved"
	default:
		return "rejected"
	}
}

// MarshalJSON encodes the verdict by name.
func (v Verdict) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.String())
}

// UnmarshalJSON decodes a verdict name written by MarshalJSON.
func (v *Verdict) UnmarshalJSON(b []byte) error {
	var raw string
	if err := json.Unmarshal(b, &raw); err != nil {
		return err
	}
	switch raw {
	case "rejected":
		*v = Rejected
	case "accepted":
		*v = Accepted
	case "solved":
		*v = Solved
	default:
		return fmt.Errorf("unknown verdict %q", raw)
	}
	return nil
}
