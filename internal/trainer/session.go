package trainer

import (
	"encoding/json"
	"time"

	"github.com/notnil/chess"
	"go.uber.org/zap"

	"puzzletrainer/internal/logging"
	"puzzletrainer/internal/puzzle"
	"puzzletrainer/internal/rules"
	"puzzletrainer/internal/status"
)

var _ BoardEvents = (*Session)(nil)

// NewSession creates a session positioned on the first puzzle of list.
func NewSession(id string, list []puzzle.Puzzle, revertDelay time.Duration) (*Session, error) {
	store, err := puzzle.NewStore(list)
	if err != nil {
		return nil, err
	}
	s := &Session{
		ID:          id,
		Watchers:    make(map[chan []byte]struct{}),
		LastSeen:    time.Now(),
		store:       store,
		validator:   puzzle.NewValidator(store.Current()),
		revertDelay: revertDelay,
	}
	s.loadLocked(store.Current())
	return s, nil
}

// loadLocked makes p the live puzzle: fresh board, cursor at 0.
func (s *Session) loadLocked(p puzzle.Puzzle) {
	s.gen++
	s.last = nil
	s.notice = ""
	s.validator.Reset(p)
	b, err := rules.New(p.FEN)
	if err != nil {
		logging.L().Error("puzzle has an unusable position",
			zap.String("session", s.ID),
			zap.String("puzzle", p.Title),
			zap.Error(err))
		s.board = nil
		s.notice = "This puzzle has a broken position: " + err.Error()
		return
	}
	s.board = b
}

// Touch updates the last seen timestamp for a session
func (s *Session) Touch() {
	s.Mu.Lock()
	s.LastSeen = time.Now()
	s.Mu.Unlock()
}

// OnDragStart allows dragging only the user's own pieces on the user's turn.
func (s *Session) OnDragStart(piece string) bool {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.canDragLocked(piece)
}

func (s *Session) canDragLocked(piece string) bool {
	if s.board == nil || s.board.IsGameOver() {
		return false
	}
	if !s.validator.UserTurn() {
		return false
	}
	color, ok := rules.PieceColor(piece)
	if !ok {
		return false
	}
	return color == sideColor(s.store.Current().SideToMove)
}

// OnDrop tries the move, checks it against the line and plays the scripted
// reply. A move off the line is taken back straight away; watchers see the
// reverted board after the revert delay.
func (s *Session) OnDrop(from, to, promotion string) DropResult {
	s.Mu.Lock()
	if s.board == nil {
		s.Mu.Unlock()
		return DropResult{}
	}
	m := s.board.Attempt(from, to, rules.ParsePromotion(promotion))
	if m == nil {
		res := DropResult{FEN: s.board.FEN(), Result: puzzle.Result{Verdict: puzzle.Rejected, Step: s.validator.Step()}}
		s.Mu.Unlock()
		return res
	}

	res := s.validator.Submit(m.SAN, s.board)
	verdict := res.Verdict
	s.last = &verdict
	out := DropResult{Applied: true, Move: m, Result: res}

	if verdict == puzzle.Rejected {
		if err := s.board.Undo(); err != nil {
			logging.L().Error("undo failed", zap.String("session", s.ID), zap.Error(err))
		}
		out.FEN = s.board.FEN()
		out.RevertAfter = s.revertDelay.Milliseconds()
		gen := s.gen
		s.Mu.Unlock()
		logging.Debugf("session %s: %s is off the line", s.ID, m.SAN)
		s.scheduleRefresh(gen)
		return out
	}

	out.FEN = s.board.FEN()
	s.Mu.Unlock()
	logging.Debugf("session %s: %s %s reply=%q", s.ID, m.SAN, verdict, res.Reply)
	go s.Broadcast()
	return out
}

// scheduleRefresh pushes the board after the revert delay unless the puzzle
// changed in the meantime.
func (s *Session) scheduleRefresh(gen uint64) {
	if s.revertDelay <= 0 {
		go s.Broadcast()
		return
	}
	time.AfterFunc(s.revertDelay, func() {
		s.Mu.Lock()
		stale := s.gen != gen
		s.Mu.Unlock()
		if stale {
			return
		}
		s.Broadcast()
	})
}

// OnSnapEnd returns the position the widget should show.
func (s *Session) OnSnapEnd() string {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.fenLocked()
}

func (s *Session) fenLocked() string {
	if s.board == nil {
		return s.store.Current().FEN
	}
	return s.board.FEN()
}

// Next moves to the following puzzle.
func (s *Session) Next() State {
	return s.navigate(s.store.Next)
}

// Prev moves to the previous puzzle.
func (s *Session) Prev() State {
	return s.navigate(s.store.Prev)
}

// Reset reloads the current puzzle.
func (s *Session) Reset() State {
	return s.navigate(s.store.Reset)
}

func (s *Session) navigate(step func() puzzle.Puzzle) State {
	s.Mu.Lock()
	s.loadLocked(step())
	s.LastSeen = time.Now()
	st := s.StateLocked()
	s.Mu.Unlock()
	go s.Broadcast()
	return st
}

// Hint returns the hint for the current puzzle.
func (s *Session) Hint() string {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	h := status.Hint(s.store.Current())
	s.notice = h
	return h
}

// State returns a snapshot of the session.
func (s *Session) State() State {
	s.Mu.Lock()
	defer s.Mu.Unlock()
	return s.StateLocked()
}

// StateLocked returns the current session state (must be called with lock held)
func (s *Session) StateLocked() State {
	p := s.store.Current()
	view := status.Render(p, s.store.Index(), s.store.Len(), s.validator.Step(), s.last)
	if view.Notice == "" {
		view.Notice = s.notice
	}
	st := State{
		Kind:       "state",
		FEN:        s.fenLocked(),
		Index:      s.store.Index(),
		Total:      s.store.Len(),
		Title:      p.Title,
		SideToMove: string(p.SideToMove),
		Step:       s.validator.Step(),
		LineLength: s.validator.Len(),
		View:       view,
		Solved:     s.last != nil && *s.last == puzzle.Solved,
		LastSeen:   s.LastSeen.UnixMilli(),
		Watchers:   len(s.Watchers),
	}
	if s.board != nil {
		st.GameOver = s.board.IsGameOver()
	}
	return st
}

// Broadcast sends the current state to all watchers
func (s *Session) Broadcast() {
	s.Mu.Lock()
	data, _ := json.Marshal(s.StateLocked())
	for ch := range s.Watchers {
		select {
		case ch <- data:
		default:
		}
	}
	s.Mu.Unlock()
}

// AddWatcher adds a new watcher channel
func (s *Session) AddWatcher(ch chan []byte) {
	s.Mu.Lock()
	s.Watchers[ch] = struct{}{}
	s.Mu.Unlock()
}

// RemoveWatcher removes a watcher channel
func (s *Session) RemoveWatcher(ch chan []byte) {
	s.Mu.Lock()
	delete(s.Watchers, ch)
	s.Mu.Unlock()
}

func sideColor(side puzzle.Side) chess.Color {
	if side == puzzle.Black {
		return chess.Black
	}
	return chess.White
}
