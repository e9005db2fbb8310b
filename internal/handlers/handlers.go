package handlers

import (
	"encoding/json"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"puzzletrainer/internal/engine"
	"puzzletrainer/internal/logging"
	"puzzletrainer/internal/templates"
	"puzzletrainer/internal/trainer"
	"puzzletrainer/web"
)

// Handler contains dependencies for HTTP handlers
type Handler struct {
	Hub    *trainer.Hub
	Engine *engine.Worker
}

// NewHandler creates a new handler instance
func NewHandler(hub *trainer.Hub) *Handler {
	return &Handler{Hub: hub}
}

// Register wires every route onto mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(web.StaticFS())))
	mux.HandleFunc("/health", h.HandleHealth)
	mux.HandleFunc("/new", h.HandleNew)
	mux.HandleFunc("/puzzles.json", h.HandlePuzzles)
	mux.HandleFunc("/sse/", h.HandleSSE)
	mux.HandleFunc("/ws/", h.HandleWS)
	mux.HandleFunc("/dragstart/", h.HandleDragStart)
	mux.HandleFunc("/move/", h.HandleMove)
	mux.HandleFunc("/snapend/", h.HandleSnapEnd)
	mux.HandleFunc("/next/", h.HandleNext)
	mux.HandleFunc("/prev/", h.HandlePrev)
	mux.HandleFunc("/reset/", h.HandleReset)
	mux.HandleFunc("/hint/", h.HandleHint)
	mux.HandleFunc("/", h.HandlePage)
}

// session resolves the id after prefix, creating the session on first use.
func (h *Handler) session(w http.ResponseWriter, r *http.Request, prefix string) (*trainer.Session, bool) {
	id := strings.TrimPrefix(r.URL.Path, prefix)
	if _, err := uuid.Parse(id); err != nil {
		WriteJSON(w, http.StatusNotFound, map[string]any{"ok": false, "error": "unknown session"})
		return nil, false
	}
	s, err := h.Hub.Get(id)
	if err != nil {
		logging.L().Error("session unavailable", zap.String("session", id), zap.Error(err))
		WriteJSON(w, http.StatusInternalServerError, map[string]any{"ok": false, "error": err.Error()})
		return nil, false
	}
	s.Touch()
	return s, true
}

func requirePost(w http.ResponseWriter, r *http.Request) bool {
	if r.Method != http.MethodPost {
		WriteJSON(w, http.StatusMethodNotAllowed, map[string]any{"ok": false, "error": "method not allowed"})
		return false
	}
	return true
}

// HandleHealth reports liveness and the engine identity, if any
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	out := map[string]any{"ok": true, "puzzles": len(h.Hub.Puzzles())}
	if id := h.Engine.ID(); id != nil {
		out["engine"] = id
	}
	WriteJSON(w, http.StatusOK, out)
}

// HandleNew creates a new session and redirects to it
func (h *Handler) HandleNew(w http.ResponseWriter, r *http.Request) {
	id := uuid.NewString()
	http.Redirect(w, r, "/"+id, http.StatusFound)
}

// HandlePage serves the home page or a trainer page
func (h *Handler) HandlePage(w http.ResponseWriter, r *http.Request) {
	path := strings.TrimPrefix(r.URL.Path, "/")
	if path == "" || path == "index.html" {
		templates.WriteHomeHTML(w, len(h.Hub.Puzzles()))
		return
	}
	if _, err := uuid.Parse(path); err != nil {
		http.NotFound(w, r)
		return
	}
	if _, err := h.Hub.Get(path); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	templates.WriteTrainerHTML(w, path)
}

// HandlePuzzles serves the loaded puzzle list
func (h *Handler) HandlePuzzles(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, h.Hub.Puzzles())
}

// HandleSSE handles Server-Sent Events for live session updates
func (h *Handler) HandleSSE(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, "/sse/")
	if !ok {
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		http.Error(w, "streaming unsupported", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	ch := make(chan []byte, 16)
	s.AddWatcher(ch)
	defer s.RemoveWatcher(ch)

	initial, _ := json.Marshal(s.State())
	_, _ = fmt.Fprintf(w, "data: %s\n\n", initial)
	flusher.Flush()

	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()

	ctx := r.Context()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			// heartbeat
			_, _ = w.Write([]byte("data: {}\n\n"))
			flusher.Flush()
		case msg := <-ch:
			_, _ = w.Write([]byte("data: "))
			_, _ = w.Write(msg)
			_, _ = w.Write([]byte("\n\n"))
			flusher.Flush()
		}
	}
}

// HandleDragStart answers whether a piece may be picked up
func (h *Handler) HandleDragStart(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s, ok := h.session(w, r, "/dragstart/")
	if !ok {
		return
	}
	var body trainer.DragRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "allow": s.OnDragStart(body.Piece)})
}

// HandleMove processes a dropped piece
func (h *Handler) HandleMove(w http.ResponseWriter, r *http.Request) {
	if !requirePost(w, r) {
		return
	}
	s, ok := h.session(w, r, "/move/")
	if !ok {
		return
	}

	var m trainer.MoveRequest
	if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad json"})
		return
	}
	if !isSquare(m.From) || !isSquare(m.To) {
		WriteJSON(w, http.StatusBadRequest, map[string]any{"ok": false, "error": "bad square"})
		return
	}

	res := s.OnDrop(m.From, m.To, m.Promotion)
	if !res.Applied {
		WriteJSON(w, http.StatusOK, map[string]any{"ok": false, "error": "illegal move", "result": res, "state": s.State()})
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "result": res, "state": s.State()})
}

// HandleSnapEnd returns the position the board should settle on
func (h *Handler) HandleSnapEnd(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, "/snapend/")
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "fen": s.OnSnapEnd()})
}

// HandleNext moves to the next puzzle
func (h *Handler) HandleNext(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, "/next/", (*trainer.Session).Next)
}

// HandlePrev moves to the previous puzzle
func (h *Handler) HandlePrev(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, "/prev/", (*trainer.Session).Prev)
}

// HandleReset reloads the current puzzle
func (h *Handler) HandleReset(w http.ResponseWriter, r *http.Request) {
	h.navigate(w, r, "/reset/", (*trainer.Session).Reset)
}

func (h *Handler) navigate(w http.ResponseWriter, r *http.Request, prefix string, step func(*trainer.Session) trainer.State) {
	if !requirePost(w, r) {
		return
	}
	s, ok := h.session(w, r, prefix)
	if !ok {
		return
	}
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "state": step(s)})
}

// HandleHint returns the hint for the current puzzle
func (h *Handler) HandleHint(w http.ResponseWriter, r *http.Request) {
	s, ok := h.session(w, r, "/hint/")
	if !ok {
		return
	}
	hint := s.Hint()
	go s.Broadcast()
	WriteJSON(w, http.StatusOK, map[string]any{"ok": true, "hint": hint})
}

// ClientIP extracts the client IP from the request
func ClientIP(r *http.Request) string {
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		parts := strings.Split(xff, ",")
		return strings.TrimSpace(parts[0])
	}
	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}
