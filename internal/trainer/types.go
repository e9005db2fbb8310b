package trainer

import (
	"sync"
	"time"

	"puzzletrainer/internal/puzzle"
	"puzzletrainer/internal/rules"
	"puzzletrainer/internal/status"
)

// Hub manages all active trainer sessions
type Hub struct {
	Mu       sync.Mutex
	Sessions map[string]*Session

	puzzles []puzzle.Puzzle
	opts    Options
	stop    chan struct{}
	once    sync.Once
}

// Options tune session behaviour.
type Options struct {
	// RevertDelay is how long a rejected move stays visible before the
	// board is refreshed. Zero refreshes immediately.
	RevertDelay time.Duration
	// IdleTTL drops sessions not touched for this long.
	IdleTTL time.Duration
	// SweepEvery is the cleanup interval.
	SweepEvery time.Duration
}

// BoardEvents is what the board widget reports.
type BoardEvents interface {
	OnDragStart(piece string) bool
	OnDrop(from, to, promotion string) DropResult
	OnSnapEnd() string
}

// Session is one trainer instance: a puzzle set, the live board and the
// solution cursor, plus the watchers that mirror it.
type Session struct {
	Mu       sync.Mutex
	ID       string
	Watchers map[chan []byte]struct{}
	LastSeen time.Time

	store       *puzzle.Store
	validator   *puzzle.Validator
	board       *rules.Board
	last        *puzzle.Verdict
	notice      string
	gen         uint64
	revertDelay time.Duration
}

// DropResult is returned to the widget after a drop.
type DropResult struct {
	Applied bool          `json:"applied"`
	Move    *rules.Move   `json:"move,omitempty"`
	Result  puzzle.Result `json:"result"`
	FEN     string        `json:"fen"`
	// RevertAfter is set on rejected moves; the widget keeps the attempted
	// move on screen this long.
	RevertAfter int64 `json:"revertAfterMs,omitempty"`
}

// MoveRequest represents a drop forwarded by the page
type MoveRequest struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Promotion string `json:"promotion,omitempty"`
}

// DragRequest represents a drag-start forwarded by the page
type DragRequest struct {
	Piece string `json:"piece"`
}

// State is the snapshot pushed to watchers
type State struct {
	Kind       string `json:"kind"`
	FEN        string `json:"fen"`
	Index      int    `json:"index"`
	Total      int    `json:"total"`
	Title      string `json:"title"`
	SideToMove string `json:"sideToMove"`
	Step       int    `json:"step"`
	LineLength int    `json:"lineLength"`
	status.View
	Solved   bool  `json:"solved"`
	GameOver bool  `json:"gameOver"`
	LastSeen int64 `json:"lastSeen"`
	Watchers int   `json:"watchers"`
}
