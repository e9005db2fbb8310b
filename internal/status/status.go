// Package status renders the text shown around the board.
package status

import (
	"fmt"
	"strings"

	"puzzletrainer/internal/puzzle"
)

const (
	DefaultHint = "Try checks, captures, threats!"
	SolvedText  = "✅ Puzzle solved! Great job."
	Incorrect   = "❌ Not the best move. Try again or use a hint!"
	Correct     = "🎉 Correct!"
)

// Header is the title line: "<title> | Puzzle i/N | White to move".
func Header(p puzzle.Puzzle, index, total int) string {
	return fmt.Sprintf("%s | Puzzle %d/%d | %s to move", p.Title, index+1, total, p.SideToMove)
}

// Progress reports how far into the line the user is.
func Progress(step, total int) string {
	return fmt.Sprintf("Good! Keep going… (%d/%d)", step, total)
}

// SolutionLine joins the best line for display.
func SolutionLine(p puzzle.Puzzle) string {
	return strings.Join(p.BestLineSAN, " → ")
}

// Hint returns the puzzle hint or the default advice.
func Hint(p puzzle.Puzzle) string {
	if strings.TrimSpace(p.Hint) != "" {
		return p.Hint
	}
	return DefaultHint
}

// View is everything the page prints next to the board.
type View struct {
	Status   string `json:"status"`
	Solution string `json:"solution"`
	Notice   string `json:"notice,omitempty"`
}

// Render builds the view for a puzzle at the given cursor. last is the most
// recent verdict, nil when the puzzle was just loaded.
func Render(p puzzle.Puzzle, index, total, step int, last *puzzle.Verdict) View {
	v := View{Solution: SolutionLine(p)}
	switch {
	case last == nil:
		v.Status = Header(p, index, total)
	case *last == puzzle.Solved:
		v.Status = SolvedText
		v.Notice = Correct
	case *last == puzzle.Rejected:
		v.Status = Header(p, index, total)
		if step > 0 {
			v.Status = Progress(step, len(p.BestLineSAN))
		}
		v.Notice = Incorrect
	default:
		v.Status = Progress(step, len(p.BestLineSAN))
	}
	return v
}
