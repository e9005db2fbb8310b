// Package rules adapts notnil/chess to the small surface the trainer needs:
// attempt a move, apply a scripted SAN, undo, and read the position.
package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/notnil/chess"
)

// ErrNoMoves is returned by Undo when nothing has been played.
var ErrNoMoves = errors.New("no moves to undo")

// Move is a move that was applied to the board.
type Move struct {
	From string `json:"from"`
	To   string `json:"to"`
	SAN  string `json:"san"`
	UCI  string `json:"uci"`
}

// Board is the live game seeded from a puzzle's starting position.
type Board struct {
	start string
	g     *chess.Game
	uci   []string
}

// New creates a board from a FEN string.
func New(fen string) (*Board, error) {
	g, err := newGame(fen)
	if err != nil {
		return nil, err
	}
	return &Board{start: fen, g: g}, nil
}

func newGame(fen string) (*chess.Game, error) {
	opt, err := chess.FEN(fen)
	if err != nil {
		return nil, fmt.Errorf("bad fen %q: %w", fen, err)
	}
	return chess.NewGame(opt), nil
}

// ParsePromotion maps "q", "r", "b", "n" to a piece type. Anything else is a queen.
func ParsePromotion(s string) chess.PieceType {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "r", "rook":
		return chess.Rook
	case "b", "bishop":
		return chess.Bishop
	case "n", "knight":
		return chess.Knight
	default:
		return chess.Queen
	}
}

// Attempt plays from→to if it is legal and returns the applied move, or nil.
// promo is only consulted for pawn promotions.
func (b *Board) Attempt(from, to string, promo chess.PieceType) *Move {
	from = strings.ToLower(strings.TrimSpace(from))
	to = strings.ToLower(strings.TrimSpace(to))
	if promo == chess.NoPieceType {
		promo = chess.Queen
	}
	for _, m := range b.g.ValidMoves() {
		if m.S1().String() != from || m.S2().String() != to {
			continue
		}
		if m.Promo() != chess.NoPieceType && m.Promo() != promo {
			continue
		}
		return b.apply(m)
	}
	return nil
}

// ApplySAN plays a move given in standard algebraic notation.
func (b *Board) ApplySAN(san string) error {
	m, err := decodeSAN(b.g.Position(), strings.TrimSpace(san))
	if err != nil {
		return err
	}
	if b.apply(m) == nil {
		return fmt.Errorf("move %q is not legal here", san)
	}
	return nil
}

var annotations = strings.NewReplacer("+", "", "#", "", "!", "", "?", "")

// decodeSAN falls back to comparing against every legal move's encoding when
// the library decoder rejects a string that only differs in annotations.
func decodeSAN(pos *chess.Position, san string) (*chess.Move, error) {
	an := chess.AlgebraicNotation{}
	m, err := an.Decode(pos, san)
	if err == nil {
		return m, nil
	}
	want := annotations.Replace(san)
	for _, cand := range pos.ValidMoves() {
		if annotations.Replace(an.Encode(pos, cand)) == want {
			return cand, nil
		}
	}
	return nil, fmt.Errorf("decode %q: %w", san, err)
}

func (b *Board) apply(m *chess.Move) *Move {
	pos := b.g.Position()
	san := chess.AlgebraicNotation{}.Encode(pos, m)
	uci := chess.UCINotation{}.Encode(pos, m)
	if err := b.g.Move(m); err != nil {
		return nil
	}
	b.uci = append(b.uci, uci)
	return &Move{From: m.S1().String(), To: m.S2().String(), SAN: san, UCI: uci}
}

// Undo takes back the last move by replaying the others from the start.
func (b *Board) Undo() error {
	if len(b.uci) == 0 {
		return ErrNoMoves
	}
	g, err := newGame(b.start)
	if err != nil {
		return err
	}
	keep := b.uci[:len(b.uci)-1]
	uci := chess.UCINotation{}
	for _, s := range keep {
		m, err := uci.Decode(g.Position(), s)
		if err != nil {
			return fmt.Errorf("replay %s: %w", s, err)
		}
		if err := g.Move(m); err != nil {
			return fmt.Errorf("replay %s: %w", s, err)
		}
	}
	b.g = g
	b.uci = append([]string(nil), keep...)
	return nil
}

// FEN returns the current position.
func (b *Board) FEN() string { return b.g.Position().String() }

// Turn returns the color to move.
func (b *Board) Turn() chess.Color { return b.g.Position().Turn() }

// IsGameOver reports whether the game has an outcome.
func (b *Board) IsGameOver() bool { return b.g.Outcome() != chess.NoOutcome }

// Status describes the outcome, or "" while the game is in progress.
func (b *Board) Status() string {
	if !b.IsGameOver() {
		return ""
	}
	return fmt.Sprintf("%s by %s", b.g.Outcome().String(), b.g.Method().String())
}

// MovesUCI returns the moves played since the start position.
func (b *Board) MovesUCI() []string { return append([]string(nil), b.uci...) }

// PieceColor parses a board-widget piece code such as "wP" or "bK".
func PieceColor(piece string) (chess.Color, bool) {
	if piece == "" {
		return chess.NoColor, false
	}
	switch piece[0] {
	case 'w':
		return chess.White, true
	case 'b':
		return chess.Black, true
	}
	return chess.NoColor, false
}
