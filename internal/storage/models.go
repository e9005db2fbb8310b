package storage

import (
	"time"

	"github.com/google/uuid"

	"puzzletrainer/internal/puzzle"
)

// Puzzle is one row of the puzzle list. Ordinal fixes the order the
// trainer walks through.
type Puzzle struct {
	ID          uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey"`
	Ordinal     int       `gorm:"index"`
	FEN         string    `gorm:"not null"`
	SideToMove  string    `gorm:"size:1;not null"`
	BestLineSAN []string  `gorm:"serializer:json;not null"`
	Title       string
	Hint        string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func fromDomain(ordinal int, p puzzle.Puzzle) Puzzle {
	return Puzzle{
		ID:          uuid.New(),
		Ordinal:     ordinal,
		FEN:         p.FEN,
		SideToMove:  string(p.SideToMove),
		BestLineSAN: append([]string(nil), p.BestLineSAN...),
		Title:       p.Title,
		Hint:        p.Hint,
	}
}

func (r Puzzle) toDomain() puzzle.Puzzle {
	side := puzzle.White
	if r.SideToMove == string(puzzle.Black) {
		side = puzzle.Black
	}
	return puzzle.Puzzle{
		FEN:         r.FEN,
		SideToMove:  side,
		BestLineSAN: append([]string(nil), r.BestLineSAN...),
		Title:       r.Title,
		Hint:        r.Hint,
	}
}
