package quiz

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/heartmarshall/flashquiz/internal/domain"
)

type saveFunc func(ctx context.Context, snap domain.SessionSnapshot) error

type queued struct {
	snap domain.SessionSnapshot
	seq  uint64
}

// snapshotWriter writes progress snapshots of one session in the background.
// Only the latest unwritten snapshot is kept; a slow write never blocks the
// next command, and writes are issued in command order because a single
// goroutine drains the slot.
type snapshotWriter struct {
	save    saveFunc
	base    context.Context
	timeout time.Duration
	log     *slog.Logger

	mu        sync.Mutex
	pending   *queued
	seq       uint64
	floor     uint64 // snapshots with seq <= floor are superseded
	discarded bool

	// writeMu serializes every write, including the completion write.
	writeMu sync.Mutex

	wake chan struct{}
	done chan struct{}
	idle chan struct{}
}

func newSnapshotWriter(base context.Context, save saveFunc, timeout time.Duration, log *slog.Logger) *snapshotWriter {
	w := &snapshotWriter{
		save:    save,
		base:    base,
		timeout: timeout,
		log:     log,
		wake:    make(chan struct{}, 1),
		done:    make(chan struct{}),
		idle:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Enqueue replaces any pending snapshot with snap.
func (w *snapshotWriter) Enqueue(snap domain.SessionSnapshot) {
	w.mu.Lock()
	if w.discarded {
		w.mu.Unlock()
		return
	}
	w.seq++
	w.pending = &queued{snap: snap, seq: w.seq}
	w.mu.Unlock()

	select {
	case w.wake <- struct{}{}:
	default:
	}
}

// Flush supersedes every snapshot enqueued so far, waits for an in-flight
// write to finish and then runs fn while holding the write lock.
func (w *snapshotWriter) Flush(fn func() error) error {
	w.mu.Lock()
	w.pending = nil
	w.floor = w.seq
	w.mu.Unlock()

	w.writeMu.Lock()
	defer w.writeMu.Unlock()
	return fn()
}

// Discard stops the writer. A pending snapshot is dropped and the result
// of an in-flight write is ignored.
func (w *snapshotWriter) Discard() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.discarded {
		return
	}
	w.discarded = true
	w.pending = nil
	close(w.done)
}

// Stopped is closed once the background goroutine has exited.
func (w *snapshotWriter) Stopped() <-chan struct{} { return w.idle }

func (w *snapshotWriter) run() {
	defer close(w.idle)
	for {
		select {
		case <-w.done:
			return
		case <-w.wake:
			w.drain()
		}
	}
}

func (w *snapshotWriter) drain() {
	for {
		w.mu.Lock()
		q := w.pending
		w.pending = nil
		discarded := w.discarded
		w.mu.Unlock()

		if q == nil || discarded {
			return
		}
		w.write(*q)
	}
}

func (w *snapshotWriter) write(q queued) {
	w.writeMu.Lock()
	defer w.writeMu.Unlock()

	w.mu.Lock()
	skip := w.discarded || q.seq <= w.floor
	w.mu.Unlock()
	if skip {
		return
	}

	snap := q.snap
	ctx, cancel := context.WithTimeout(w.base, w.timeout)
	defer cancel()

	err := w.save(ctx, snap)
	if err == nil {
		return
	}

	w.mu.Lock()
	discarded := w.discarded
	w.mu.Unlock()
	if discarded {
		return
	}
	w.log.WarnContext(ctx, "progress snapshot not saved",
		slog.String("session_id", snap.SessionID.String()),
		slog.Int("current_index", snap.CurrentCardIndex),
		slog.String("error", err.Error()),
	)
}
