// Package engine boots an external UCI engine in the background. The trainer
// only performs the handshake; no search is requested.
package engine

import (
	"context"
	"errors"
	"sync"

	"github.com/notnil/chess/uci"
	"go.uber.org/zap"

	"puzzletrainer/internal/logging"
)

// ErrClosed is returned by Wait after Close.
var ErrClosed = errors.New("engine worker closed")

// Process is the subset of *uci.Engine the worker drives.
type Process interface {
	Run(cmds ...uci.Cmd) error
	ID() map[string]string
	Close() error
}

// Launcher starts an engine process from a binary path.
type Launcher func(path string) (Process, error)

// UCILauncher launches a real UCI binary.
func UCILauncher(path string) (Process, error) {
	eng, err := uci.New(path)
	if err != nil {
		return nil, err
	}
	return eng, nil
}

// Worker owns one background engine process.
type Worker struct {
	path  string
	ready chan struct{}

	mu     sync.Mutex
	proc   Process
	err    error
	closed bool
}

// Start launches path with launch and runs the UCI handshake in a goroutine.
// The returned worker is usable immediately; Wait blocks until the engine is
// ready or failed.
func Start(ctx context.Context, path string, launch Launcher) *Worker {
	if launch == nil {
		launch = UCILauncher
	}
	w := &Worker{path: path, ready: make(chan struct{})}
	go w.boot(ctx, launch)
	return w
}

func (w *Worker) boot(ctx context.Context, launch Launcher) {
	defer close(w.ready)
	log := logging.L().With(zap.String("engine", w.path))

	proc, err := launch(w.path)
	if err != nil {
		log.Warn("engine did not start", zap.Error(err))
		w.fail(err)
		return
	}
	if err := ctx.Err(); err != nil {
		_ = proc.Close()
		w.fail(err)
		return
	}
	if err := proc.Run(uci.CmdUCI, uci.CmdIsReady, uci.CmdUCINewGame); err != nil {
		log.Warn("engine handshake failed", zap.Error(err))
		_ = proc.Close()
		w.fail(err)
		return
	}

	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		_ = proc.Close()
		return
	}
	w.proc = proc
	w.mu.Unlock()
	log.Info("engine ready", zap.Any("id", proc.ID()))
}

func (w *Worker) fail(err error) {
	w.mu.Lock()
	w.err = err
	w.mu.Unlock()
}

// Wait blocks until the handshake finishes or ctx is done.
func (w *Worker) Wait(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-w.ready:
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	return w.err
}

// ID returns the engine's self-reported identity, empty until ready.
func (w *Worker) ID() map[string]string {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.proc == nil {
		return nil
	}
	return w.proc.ID()
}

// Close stops the engine process.
func (w *Worker) Close() error {
	if w == nil {
		return nil
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return nil
	}
	w.closed = true
	if w.proc == nil {
		return nil
	}
	return w.proc.Close()
}
