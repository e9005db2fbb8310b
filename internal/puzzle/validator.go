package puzzle

import (
	"strings"

	"go.uber.org/zap"

	"puzzletrainer/internal/logging"
)

// ReplyApplier plays a scripted reply on the live position.
type ReplyApplier interface {
	ApplySAN(san string) error
}

// Result describes what happened to a submitted move.
type Result struct {
	Verdict Verdict `json:"verdict"`
	Reply   string  `json:"reply,omitempty"`
	Step    int     `json:"step"`
}

var sanNoise = strings.NewReplacer("+", "", "#", "", "x", "")

// NormalizeSAN drops check, mate and capture marks. Disambiguation is kept,
// so "Nbd2" and "Nd2" stay different.
func NormalizeSAN(san string) string {
	return sanNoise.Replace(strings.TrimSpace(san))
}

// SANEqual reports whether two SAN strings match after normalization.
func SANEqual(a, b string) bool {
	return NormalizeSAN(a) == NormalizeSAN(b)
}

// Validator walks a puzzle's solution line one move at a time.
type Validator struct {
	puzzle Puzzle
	step   int
}

// NewValidator creates a validator positioned at the start of p's line.
func NewValidator(p Puzzle) *Validator {
	return &Validator{puzzle: p}
}

// Reset reseeds the validator for a freshly loaded puzzle.
func (v *Validator) Reset(p Puzzle) {
	v.puzzle = p
	v.step = 0
}

// Step returns the solution cursor.
func (v *Validator) Step() int { return v.step }

// Len returns the length of the solution line.
func (v *Validator) Len() int { return len(v.puzzle.BestLineSAN) }

// UserTurn reports whether the cursor sits on a move the user plays.
func (v *Validator) UserTurn() bool { return v.step%2 == 0 }

// Expected returns the SAN the user must play next, or "" when the line is done.
func (v *Validator) Expected() string {
	if v.step >= len(v.puzzle.BestLineSAN) {
		return ""
	}
	return v.puzzle.BestLineSAN[v.step]
}

// Submit checks san against the line. On a match the scripted reply, if any,
// is played through board. A Rejected result leaves the cursor untouched and
// the caller must revert the move.
func (v *Validator) Submit(san string, board ReplyApplier) Result {
	line := v.puzzle.BestLineSAN
	if v.step >= len(line) {
		v.step = 0
	}
	if len(line) == 0 || !SANEqual(san, line[v.step]) {
		return Result{Verdict: Rejected, Step: v.step}
	}
	v.step++

	res := Result{Verdict: Accepted}
	if v.step < len(line) {
		reply := line[v.step]
		if err := board.ApplySAN(reply); err != nil {
			logging.L().Warn("scripted reply did not apply",
				zap.String("puzzle", v.puzzle.Title),
				zap.String("san", reply),
				zap.Error(err))
		} else {
			v.step++
			res.Reply = reply
		}
	}

	if v.step >= len(line) {
		res.Verdict = Solved
		v.step = 0
	}
	res.Step = v.step
	return res
}
