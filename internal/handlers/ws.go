package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"puzzletrainer/internal/logging"
	"puzzletrainer/internal/trainer"
)

// Msg is the websocket envelope in both directions.
type Msg struct {
	T string          `json:"t"`
	M json.RawMessage `json:"m,omitempty"`
}

type dropMsg struct {
	Source    string `json:"source"`
	Target    string `json:"target"`
	Promotion string `json:"promotion"`
}

func envelope(t string, payload any) []byte {
	m, err := json.Marshal(payload)
	if err != nil {
		m = nil
	}
	data, _ := json.Marshal(Msg{T: t, M: m})
	return data
}

// HandleWS carries board events for one session over a websocket.
func (h *Handler) HandleWS(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, "/ws/")
	if !ok {
		return
	}

	c, err := websocket.Accept(w, r, nil)
	if err != nil {
		logging.Debugf("ws accept failed: %v", err)
		return
	}
	defer c.Close(websocket.StatusInternalError, "")

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	states := make(chan []byte, 16)
	s.AddWatcher(states)
	defer s.RemoveWatcher(states)

	send := make(chan []byte, 16)
	send <- envelope("state", s.State())

	// writer
	go func() {
		ping := time.NewTicker(15 * time.Second)
		defer ping.Stop()
		for {
			var msg []byte
			select {
			case <-ctx.Done():
				return
			case msg = <-send:
			case raw := <-states:
				msg, _ = json.Marshal(Msg{T: "state", M: raw})
			case <-ping.C:
				pctx, pcancel := context.WithTimeout(ctx, 5*time.Second)
				err := c.Ping(pctx)
				pcancel()
				if err != nil {
					cancel()
					return
				}
				continue
			}
			if err := c.Write(ctx, websocket.MessageText, msg); err != nil {
				cancel()
				return
			}
		}
	}()

	// reader
	for {
		_, data, err := c.Read(ctx)
		if err != nil {
			break
		}
		var m Msg
		if err := json.Unmarshal(data, &m); err != nil {
			continue
		}
		s.Touch()
		reply := dispatch(s, m)
		if reply == nil {
			continue
		}
		select {
		case send <- reply:
		case <-ctx.Done():
		}
	}

	logging.L().Debug("ws closed", zap.String("session", s.ID))
	_ = c.Close(websocket.StatusNormalClosure, "bye")
}

func dispatch(s *trainer.Session, m Msg) []byte {
	switch m.T {
	case "drag-start":
		var body trainer.DragRequest
		_ = json.Unmarshal(m.M, &body)
		return envelope("drag-start", map[string]bool{"allow": s.OnDragStart(body.Piece)})
	case "drop":
		var body dropMsg
		if err := json.Unmarshal(m.M, &body); err != nil || !isSquare(body.Source) || !isSquare(body.Target) {
			return envelope("error", map[string]string{"error": "bad drop"})
		}
		return envelope("drop", s.OnDrop(body.Source, body.Target, body.Promotion))
	case "snap-end":
		return envelope("snap-end", map[string]string{"fen": s.OnSnapEnd()})
	case "next":
		return envelope("state", s.Next())
	case "prev":
		return envelope("state", s.Prev())
	case "reset":
		return envelope("state", s.Reset())
	case "hint":
		text := s.Hint()
		go s.Broadcast()
		return envelope("hint", map[string]string{"text": text})
	default:
		return envelope("error", map[string]string{"error": "unknown message " + m.T})
	}
}
