package playback

import (
	"context"
	"errors"
	"sync"
	"time"
)

// ErrAlreadyStarted is returned when Start is called twice on a Worker
var ErrAlreadyStarted = errors.New("playback worker already started")

// WordSpeaker speaks a single word synchronously
type WordSpeaker interface {
	Speak(ctx context.Context, word string)
	Interrupt()
}

// Listener receives progress from a Worker on the worker's goroutine.
// Either callback may be nil.
type Listener struct {
	OnWord     func(index int, word string)
	OnFinished func(cancelled bool)
}

// Worker reads a list of words aloud, pausing between them
type Worker struct {
	speaker  WordSpeaker
	listener Listener

	mu      sync.Mutex
	started bool
	cancel  context.CancelFunc
	done    chan struct{}
	after   <-chan struct{}
}

// NewWorker creates a worker that speaks through speaker
func NewWorker(speaker WordSpeaker, listener Listener) *Worker {
	return &Worker{
		speaker:  speaker,
		listener: listener,
		done:     make(chan struct{}),
	}
}

// Start begins reading words on a new goroutine
func (w *Worker) Start(words []string, interval time.Duration) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.started {
		return ErrAlreadyStarted
	}
	w.launch(context.Background(), words, interval)
	return nil
}

// launch starts the worker goroutine. w.mu must be held and the worker
// must not have been started.
func (w *Worker) launch(parent context.Context, words []string, interval time.Duration) {
	w.started = true

	ctx, cancel := context.WithCancel(parent)
	w.cancel = cancel

	list := append([]string(nil), words...)
	go w.run(ctx, list, interval, w.after)
}

// run is the worker loop. after, when set, is the exit signal of the worker
// this one replaced; nothing is spoken until it has fired.
func (w *Worker) run(ctx context.Context, words []string, interval time.Duration, after <-chan struct{}) {
	defer close(w.done)

	cancelled := false
	defer func() {
		if w.listener.OnFinished != nil {
			w.listener.OnFinished(cancelled)
		}
	}()

	if after != nil {
		select {
		case <-after:
		case <-ctx.Done():
			cancelled = true
			return
		}
	}

	for i, word := range words {
		if ctx.Err() != nil {
			cancelled = true
			return
		}

		if w.listener.OnWord != nil {
			w.listener.OnWord(i, word)
		}
		w.speaker.Speak(ctx, word)

		if i == len(words)-1 {
			break
		}

		timer := time.NewTimer(interval)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			cancelled = true
			return
		}
	}

	// A stop that lands during the final word still counts
	if ctx.Err() != nil {
		cancelled = true
	}
}

// Stop requests cancellation and cuts off the word being spoken.
// It does not wait; use Done for that.
func (w *Worker) Stop() {
	w.mu.Lock()
	cancel := w.cancel
	started := w.started
	w.mu.Unlock()

	if !started {
		return
	}
	cancel()

	// The device may belong to a newer worker by now
	select {
	case <-w.done:
		return
	default:
	}
	w.speaker.Interrupt()
}

// Done is closed once the worker has exited and OnFinished has returned
func (w *Worker) Done() <-chan struct{} {
	return w.done
}
