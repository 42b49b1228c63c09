package playback

import (
	"context"
	"sync"
	"time"
)

// Runner owns at most one active Worker. Starting a new run stops the
// previous one, and the new worker stays silent until the old has exited.
type Runner struct {
	speaker WordSpeaker

	mu     sync.Mutex
	active *Worker
}

// NewRunner creates a runner that speaks through speaker
func NewRunner(speaker WordSpeaker) *Runner {
	return &Runner{speaker: speaker}
}

// Run replaces the active worker with one reading words. It never blocks
// on the previous worker.
func (r *Runner) Run(words []string, interval time.Duration, listener Listener) *Worker {
	r.mu.Lock()
	defer r.mu.Unlock()

	worker := NewWorker(r.speaker, listener)
	if prev := r.active; prev != nil {
		prev.Stop()
		worker.after = prev.Done()
	}
	r.active = worker

	worker.mu.Lock()
	worker.launch(context.Background(), words, interval)
	worker.mu.Unlock()
	return worker
}

// Active reports whether a worker is still running
func (r *Runner) Active() bool {
	r.mu.Lock()
	w := r.active
	r.mu.Unlock()

	if w == nil {
		return false
	}
	select {
	case <-w.Done():
		return false
	default:
		return true
	}
}

// Stop asks the active worker to stop without waiting for it
func (r *Runner) Stop() {
	r.mu.Lock()
	w := r.active
	r.mu.Unlock()

	if w != nil {
		w.Stop()
	}
}

// Wait blocks until the active worker has exited
func (r *Runner) Wait() {
	r.mu.Lock()
	w := r.active
	r.mu.Unlock()

	if w != nil {
		<-w.Done()
	}
}

// Close stops the active worker and waits for it
func (r *Runner) Close() {
	r.Stop()
	r.Wait()
}
