// Package quiz holds the spelling test state machine and its results file.
package quiz

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	// ErrNoWords is returned when an action needs a loaded, non-empty list
	ErrNoWords = errors.New("no words loaded")
	// ErrNotTesting is returned for test-only actions outside a test
	ErrNotTesting = errors.New("no test in progress")
	// ErrTestInProgress is returned by StartTest while a test is running
	ErrTestInProgress = errors.New("test already in progress")
	// ErrNoCurrentWord is returned before the first word has been read
	ErrNoCurrentWord = errors.New("no word has been read yet")
	// ErrAlreadyMarked is returned when the current word is already recorded
	ErrAlreadyMarked = errors.New("word already marked incorrect")
)

// State of a Session
type State int

const (
	Idle           State = iota // nothing loaded
	ListLoaded                  // words loaded, no test running
	Testing                     // test running, current word already recorded
	AwaitingAnswer              // test running, current word not yet recorded
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ListLoaded:
		return "list loaded"
	case Testing:
		return "testing"
	case AwaitingAnswer:
		return "awaiting answer"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// Action is something the user can ask the session to do
type Action int

const (
	ActionLoad Action = iota
	ActionReadAll
	ActionStartTest
	ActionEndTest
	ActionReadNext
	ActionReveal
	ActionMarkIncorrect
	ActionSubmit
)

// Entry is one miss: the word and what was typed for it
type Entry struct {
	Word   string
	Answer string
}

// Announcer speaks the word the session has just moved to
type Announcer interface {
	Announce(word string)
}

// AnnouncerFunc adapts a function to Announcer
type AnnouncerFunc func(word string)

// Announce calls f(word)
func (f AnnouncerFunc) Announce(word string) { f(word) }

// WriteFunc persists the misses of a finished test and returns the file written
type WriteFunc func(dir string, t time.Time, entries []Entry) (string, error)

// Options configure a Session
type Options struct {
	// EndEarly ends the test as soon as the last word is read, before it
	// is answered. Off by default: the test ends after the final answer.
	EndEarly bool

	Announcer  Announcer
	ResultsDir string
	Write      WriteFunc        // defaults to WriteResults
	Now        func() time.Time // defaults to time.Now
}

// Summary describes a finished test
type Summary struct {
	Path   string // results file, empty if writing failed
	Misses int
	Err    error
}

// Step is the result of moving to the next word
type Step struct {
	Index   int
	Word    string // word now being asked, empty when the test ended instead
	Ended   bool
	Summary Summary // set when Ended
}

// Outcome is the result of submitting an answer
type Outcome struct {
	Word    string // the word that was answered
	Answer  string // trimmed submission
	Correct bool
	Next    Step
}

// Session is the spelling test state machine. It is not safe for concurrent
// use; the GUI drives it from the UI goroutine.
type Session struct {
	opts Options

	state      State
	words      []string
	index      int
	incorrects []Entry
	recorded   int // position in incorrects of the current word's entry, or -1
}

// NewSession creates an idle session
func NewSession(opts Options) *Session {
	if opts.Write == nil {
		opts.Write = WriteResults
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.ResultsDir == "" {
		opts.ResultsDir = "."
	}
	return &Session{
		opts:     opts,
		index:    -1,
		recorded: -1,
	}
}

// Load replaces the word list. Any running test is abandoned unsaved.
func (s *Session) Load(words []string) {
	s.words = append([]string(nil), words...)
	s.index = -1
	s.incorrects = nil
	s.recorded = -1

	if len(s.words) == 0 {
		s.state = Idle
	} else {
		s.state = ListLoaded
	}
}

// StartTest clears the misses and reads the first word
func (s *Session) StartTest() (Step, error) {
	if len(s.words) == 0 {
		return Step{}, ErrNoWords
	}
	if s.testing() {
		return Step{}, ErrTestInProgress
	}

	s.index = -1
	s.incorrects = nil
	s.state = Testing

	return s.Advance()
}

// Advance moves to the next word, wrapping after the last, and announces it
func (s *Session) Advance() (Step, error) {
	if len(s.words) == 0 {
		return Step{}, ErrNoWords
	}

	s.index = (s.index + 1) % len(s.words)
	s.recorded = -1
	word := s.words[s.index]

	if s.testing() {
		s.state = AwaitingAnswer
	}
	if s.opts.Announcer != nil {
		s.opts.Announcer.Announce(word)
	}

	step := Step{Index: s.index, Word: word}
	if s.testing() && s.opts.EndEarly && s.index == len(s.words)-1 {
		step.Ended = true
		step.Summary = s.finish()
	}
	return step, nil
}

// Submit checks an answer for the current word and moves on. Misses are only
// recorded during a test.
func (s *Session) Submit(text string) (Outcome, error) {
	if len(s.words) == 0 {
		return Outcome{}, ErrNoWords
	}
	if s.index < 0 {
		return Outcome{}, ErrNoCurrentWord
	}

	word := s.words[s.index]
	answer := strings.TrimSpace(text)
	out := Outcome{
		Word:    word,
		Answer:  answer,
		Correct: answer == word,
	}

	if s.testing() && !out.Correct {
		s.record(word, answer)
	}

	if s.testing() && s.index == len(s.words)-1 {
		out.Next = Step{Index: s.index, Ended: true, Summary: s.finish()}
		return out, nil
	}

	next, err := s.Advance()
	if err != nil {
		return out, err
	}
	out.Next = next
	return out, nil
}

// MarkIncorrect records the current word as missed without an answer
func (s *Session) MarkIncorrect() (string, error) {
	if !s.testing() {
		return "", ErrNotTesting
	}
	if s.index < 0 {
		return "", ErrNoCurrentWord
	}
	if s.recorded >= 0 {
		return "", ErrAlreadyMarked
	}

	word := s.words[s.index]
	s.record(word, "")
	return word, nil
}

// record adds the current word to the misses once. A later wrong answer
// fills in the answer of an entry created by MarkIncorrect.
func (s *Session) record(word, answer string) {
	if s.recorded >= 0 {
		if answer != "" {
			s.incorrects[s.recorded].Answer = answer
		}
		return
	}

	s.incorrects = append(s.incorrects, Entry{Word: word, Answer: answer})
	s.recorded = len(s.incorrects) - 1
	s.state = Testing
}

// Reveal returns the current word
func (s *Session) Reveal() (string, error) {
	if len(s.words) == 0 {
		return "", ErrNoWords
	}
	if s.index < 0 {
		return "", ErrNoCurrentWord
	}
	return s.words[s.index], nil
}

// EndTest writes the misses and returns to ListLoaded
func (s *Session) EndTest() (Summary, error) {
	if !s.testing() {
		return Summary{}, ErrNotTesting
	}
	summary := s.finish()
	return summary, summary.Err
}

// finish ends the running test. On a write error the misses are kept so
// Incorrects still reports them.
func (s *Session) finish() Summary {
	s.state = ListLoaded
	s.recorded = -1

	summary := Summary{Misses: len(s.incorrects)}
	path, err := s.opts.Write(s.opts.ResultsDir, s.opts.Now(), s.incorrects)
	if err != nil {
		summary.Err = fmt.Errorf("failed to save results: %w", err)
		return summary
	}

	summary.Path = path
	s.incorrects = nil
	return summary
}

// Can reports whether action is currently valid
func (s *Session) Can(action Action) bool {
	switch action {
	case ActionLoad:
		return true
	case ActionReadAll, ActionStartTest:
		return s.state == ListLoaded
	case ActionEndTest:
		return s.testing()
	case ActionReadNext:
		if s.state == Idle {
			return false
		}
		// The last word of a test is answered, not skipped
		return !(s.testing() && s.index == len(s.words)-1)
	case ActionReveal, ActionSubmit:
		return s.state != Idle && s.index >= 0
	case ActionMarkIncorrect:
		return s.state == AwaitingAnswer
	}
	return false
}

func (s *Session) testing() bool {
	return s.state == Testing || s.state == AwaitingAnswer
}

// State returns the current state
func (s *Session) State() State { return s.state }

// Index returns the current position, -1 before the first word
func (s *Session) Index() int { return s.index }

// Words returns a copy of the loaded list
func (s *Session) Words() []string { return append([]string(nil), s.words...) }

// Incorrects returns a copy of the misses recorded so far
func (s *Session) Incorrects() []Entry { return append([]Entry(nil), s.incorrects...) }
