package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/notnil/chess/uci"
)

type fakeProcess struct {
	mu     sync.Mutex
	ran    int
	runErr error
	closed bool
}

func (p *fakeProcess) Run(cmds ...uci.Cmd) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.ran += len(cmds)
	return p.runErr
}

func (p *fakeProcess) ID() map[string]string {
	return map[string]string{"name": "fake"}
}

func (p *fakeProcess) Close() error {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
	return nil
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestWorkerHandshake(t *testing.T) {
	p := &fakeProcess{}
	w := Start(context.Background(), "fake", func(string) (Process, error) { return p, nil })

	if err := w.Wait(waitCtx(t)); err != nil {
		t.Fatalf("wait: %v", err)
	}
	if p.ran != 3 {
		t.Fatalf("expected uci, isready and ucinewgame, got %d commands", p.ran)
	}
	if w.ID()["name"] != "fake" {
		t.Fatalf("unexpected id %v", w.ID())
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
	if !p.closed {
		t.Fatalf("process not closed")
	}
}

func TestWorkerLaunchFailure(t *testing.T) {
	boom := errors.New("no such binary")
	w := Start(context.Background(), "missing", func(string) (Process, error) { return nil, boom })
	if err := w.Wait(waitCtx(t)); !errors.Is(err, boom) {
		t.Fatalf("expected launch error, got %v", err)
	}
	if w.ID() != nil {
		t.Fatalf("expected no id after failure")
	}
}

func TestWorkerHandshakeFailureClosesProcess(t *testing.T) {
	p := &fakeProcess{runErr: errors.New("bad handshake")}
	w := Start(context.Background(), "fake", func(string) (Process, error) { return p, nil })
	if err := w.Wait(waitCtx(t)); err == nil {
		t.Fatalf("expected handshake error")
	}
	if !p.closed {
		t.Fatalf("process should be closed after a failed handshake")
	}
}

func TestWorkerCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &fakeProcess{}
	w := Start(ctx, "fake", func(string) (Process, error) { return p, nil })
	if err := w.Wait(waitCtx(t)); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestWorkerWaitAfterClose(t *testing.T) {
	w := Start(context.Background(), "fake", func(string) (Process, error) { return &fakeProcess{}, nil })
	_ = w.Wait(waitCtx(t))
	_ = w.Close()
	if err := w.Wait(waitCtx(t)); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestNilWorker(t *testing.T) {
	var w *Worker
	if w.ID() != nil {
		t.Fatalf("nil worker reported an id")
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close nil worker: %v", err)
	}
}
