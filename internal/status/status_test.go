package status

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"puzzletrainer/internal/puzzle"
)

func opening() puzzle.Puzzle {
	return puzzle.Puzzle{
		SideToMove:  puzzle.Black,
		BestLineSAN: []string{"e5", "Nf3", "Nc6"},
		Title:       "Reply",
	}
}

func TestHeader(t *testing.T) {
	got := Header(opening(), 1, 5)
	want := "Reply | Puzzle 2/5 | Black to move"
	if got != want {
		t.Fatalf("got %q want %q", got, want)
	}
}

func TestHintFallback(t *testing.T) {
	p := opening()
	if got := Hint(p); got != "Try checks, captures, threats!" {
		t.Fatalf("unexpected default hint %q", got)
	}
	p.Hint = "Develop"
	if got := Hint(p); got != "Develop" {
		t.Fatalf("unexpected hint %q", got)
	}
}

func TestSolutionLine(t *testing.T) {
	if got := SolutionLine(opening()); got != "e5 → Nf3 → Nc6" {
		t.Fatalf("unexpected line %q", got)
	}
}

func TestRender(t *testing.T) {
	accepted, rejected, solved := puzzle.Accepted, puzzle.Rejected, puzzle.Solved
	cases := []struct {
		name string
		step int
		last *puzzle.Verdict
		want View
	}{
		{"fresh", 0, nil, View{Status: "Reply | Puzzle 1/2 | Black to move", Solution: "e5 → Nf3 → Nc6"}},
		{"progress", 2, &accepted, View{Status: "Good! Keep going… (2/3)", Solution: "e5 → Nf3 → Nc6"}},
		{"wrong first", 0, &rejected, View{Status: "Reply | Puzzle 1/2 | Black to move", Solution: "e5 → Nf3 → Nc6", Notice: Incorrect}},
		{"wrong later", 2, &rejected, View{Status: "Good! Keep going… (2/3)", Solution: "e5 → Nf3 → Nc6", Notice: Incorrect}},
		{"solved", 0, &solved, View{Status: SolvedText, Solution: "e5 → Nf3 → Nc6", Notice: Correct}},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got := Render(opening(), 0, 2, c.step, c.last)
			if diff := cmp.Diff(c.want, got); diff != "" {
				t.Fatalf("mismatch (-want +got):\n%s", diff)
			}
		})
	}
}
