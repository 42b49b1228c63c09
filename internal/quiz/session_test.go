package quiz

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
	"time"
)

var fixedTime = time.Date(2024, 3, 9, 14, 5, 7, 0, time.UTC)

// announcements collects announced words
type announcements []string

func (a *announcements) Announce(word string) { *a = append(*a, word) }

func newTestSession(t *testing.T, endEarly bool) (*Session, *announcements, string) {
	t.Helper()
	dir := t.TempDir()
	ann := &announcements{}
	s := NewSession(Options{
		EndEarly:   endEarly,
		Announcer:  ann,
		ResultsDir: dir,
		Now:        func() time.Time { return fixedTime },
	})
	return s, ann, dir
}

func TestLoad(t *testing.T) {
	s, _, _ := newTestSession(t, false)

	if s.State() != Idle {
		t.Errorf("New session state = %v, want idle", s.State())
	}

	s.Load([]string{"cat", "dog"})
	if s.State() != ListLoaded {
		t.Errorf("State after Load = %v, want list loaded", s.State())
	}
	if s.Index() != -1 {
		t.Errorf("Index after Load = %d, want -1", s.Index())
	}

	s.Load(nil)
	if s.State() != Idle {
		t.Errorf("Loading an empty list should leave the session idle, got %v", s.State())
	}
	for _, a := range []Action{ActionReadAll, ActionStartTest, ActionReadNext, ActionReveal, ActionSubmit, ActionMarkIncorrect, ActionEndTest} {
		if s.Can(a) {
			t.Errorf("Can(%d) = true with no words", a)
		}
	}
	if !s.Can(ActionLoad) {
		t.Error("Loading must always be possible")
	}
}

func TestEmptyListActionsFail(t *testing.T) {
	s, ann, _ := newTestSession(t, false)

	if _, err := s.StartTest(); !errors.Is(err, ErrNoWords) {
		t.Errorf("StartTest() error = %v, want ErrNoWords", err)
	}
	if _, err := s.Advance(); !errors.Is(err, ErrNoWords) {
		t.Errorf("Advance() error = %v, want ErrNoWords", err)
	}
	if _, err := s.Submit("x"); !errors.Is(err, ErrNoWords) {
		t.Errorf("Submit() error = %v, want ErrNoWords", err)
	}
	if _, err := s.EndTest(); !errors.Is(err, ErrNotTesting) {
		t.Errorf("EndTest() error = %v, want ErrNotTesting", err)
	}
	if len(*ann) != 0 {
		t.Errorf("Nothing should be announced, got %v", *ann)
	}
}

func TestAdvanceWraps(t *testing.T) {
	for n := 1; n <= 5; n++ {
		s, ann, _ := newTestSession(t, false)
		words := make([]string, n)
		for i := range words {
			words[i] = strings.Repeat("w", i+1)
		}
		s.Load(words)

		for step := 0; step < 3*n; step++ {
			got, err := s.Advance()
			if err != nil {
				t.Fatalf("n=%d: Advance() error = %v", n, err)
			}
			want := step % n
			if got.Index != want || s.Index() != want {
				t.Fatalf("n=%d step=%d: index = %d, want %d", n, step, got.Index, want)
			}
			if got.Word != words[want] {
				t.Errorf("n=%d step=%d: word = %q, want %q", n, step, got.Word, words[want])
			}
		}
		if len(*ann) != 3*n {
			t.Errorf("n=%d: announced %d words, want %d", n, len(*ann), 3*n)
		}
	}
}

func TestSubmitRecordsMissIffMismatch(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		correct bool
		answer  string
	}{
		{"exact", "Apple", true, "Apple"},
		{"surrounding whitespace", "  Apple\t", true, "Apple"},
		{"wrong case", "apple", false, "apple"},
		{"typo", "Appel", false, "Appel"},
		{"empty", "", false, ""},
		{"inner space", "Ap ple", false, "Ap ple"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession(t, false)
			s.Load([]string{"Apple", "Pear", "Plum"})
			if _, err := s.StartTest(); err != nil {
				t.Fatalf("StartTest() error = %v", err)
			}

			out, err := s.Submit(tt.text)
			if err != nil {
				t.Fatalf("Submit() error = %v", err)
			}
			if out.Correct != tt.correct {
				t.Errorf("Correct = %v, want %v", out.Correct, tt.correct)
			}
			if out.Word != "Apple" || out.Answer != tt.answer {
				t.Errorf("Outcome = %+v", out)
			}

			misses := s.Incorrects()
			if tt.correct && len(misses) != 0 {
				t.Errorf("Correct answer recorded a miss: %v", misses)
			}
			if !tt.correct {
				want := []Entry{{Word: "Apple", Answer: tt.answer}}
				if !reflect.DeepEqual(misses, want) {
					t.Errorf("Incorrects() = %v, want %v", misses, want)
				}
			}

			// Always advances
			if s.Index() != 1 || out.Next.Word != "Pear" {
				t.Errorf("Submit should advance to Pear, at %d (%q)", s.Index(), out.Next.Word)
			}
		})
	}
}

func TestSubmitOutsideTestDoesNotRecord(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Load([]string{"cat", "dog"})

	if _, err := s.Submit("cat"); !errors.Is(err, ErrNoCurrentWord) {
		t.Errorf("Submit() before any word error = %v, want ErrNoCurrentWord", err)
	}

	if _, err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	out, err := s.Submit("kat")
	if err != nil {
		t.Fatalf("Submit() error = %v", err)
	}
	if out.Correct {
		t.Error("kat is not cat")
	}
	if len(s.Incorrects()) != 0 {
		t.Error("Practice answers must not be recorded")
	}
	if s.State() != ListLoaded {
		t.Errorf("State = %v, want list loaded", s.State())
	}
}

func TestMarkIncorrectThenSubmit(t *testing.T) {
	tests := []struct {
		name   string
		submit string
		want   Entry
	}{
		{"empty answer keeps mark", "", Entry{Word: "cat", Answer: ""}},
		{"wrong answer fills in", "kat", Entry{Word: "cat", Answer: "kat"}},
		{"correct answer keeps mark", "cat", Entry{Word: "cat", Answer: ""}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _, _ := newTestSession(t, false)
			s.Load([]string{"cat", "dog", "eel"})
			if _, err := s.StartTest(); err != nil {
				t.Fatal(err)
			}

			if !s.Can(ActionMarkIncorrect) {
				t.Fatal("Marking should be possible for a fresh word")
			}
			word, err := s.MarkIncorrect()
			if err != nil || word != "cat" {
				t.Fatalf("MarkIncorrect() = %q, %v", word, err)
			}
			if s.Can(ActionMarkIncorrect) {
				t.Error("Marking should be disabled until the next word")
			}
			if _, err := s.MarkIncorrect(); !errors.Is(err, ErrAlreadyMarked) {
				t.Errorf("Second MarkIncorrect() error = %v, want ErrAlreadyMarked", err)
			}

			if _, err := s.Submit(tt.submit); err != nil {
				t.Fatalf("Submit() error = %v", err)
			}

			misses := s.Incorrects()
			if len(misses) != 1 || misses[0] != tt.want {
				t.Errorf("Incorrects() = %v, want [%v]", misses, tt.want)
			}
			if !s.Can(ActionMarkIncorrect) {
				t.Error("Marking should be enabled again after advancing")
			}
		})
	}
}

func TestMarkIncorrectOutsideTest(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Load([]string{"cat"})
	if _, err := s.MarkIncorrect(); !errors.Is(err, ErrNotTesting) {
		t.Errorf("MarkIncorrect() error = %v, want ErrNotTesting", err)
	}
}

func TestReveal(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Load([]string{"cat", "dog"})

	if _, err := s.Reveal(); !errors.Is(err, ErrNoCurrentWord) {
		t.Errorf("Reveal() before reading error = %v", err)
	}
	if _, err := s.StartTest(); err != nil {
		t.Fatal(err)
	}
	if word, err := s.Reveal(); err != nil || word != "cat" {
		t.Errorf("Reveal() = %q, %v; want cat", word, err)
	}
}

func TestStartTestResetsState(t *testing.T) {
	s, ann, _ := newTestSession(t, false)
	s.Load([]string{"cat", "dog", "eel"})

	if _, err := s.Advance(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.Advance(); err != nil {
		t.Fatal(err)
	}

	step, err := s.StartTest()
	if err != nil {
		t.Fatalf("StartTest() error = %v", err)
	}
	if step.Index != 0 || step.Word != "cat" {
		t.Errorf("StartTest() step = %+v, want index 0 cat", step)
	}
	if s.State() != AwaitingAnswer {
		t.Errorf("State = %v, want awaiting answer", s.State())
	}
	if last := (*ann)[len(*ann)-1]; last != "cat" {
		t.Errorf("Last announced = %q, want cat", last)
	}
	if _, err := s.StartTest(); !errors.Is(err, ErrTestInProgress) {
		t.Errorf("StartTest() twice error = %v, want ErrTestInProgress", err)
	}
	if s.Can(ActionStartTest) || s.Can(ActionReadAll) {
		t.Error("Start test and read all are disabled during a test")
	}
	if !s.Can(ActionEndTest) {
		t.Error("End test should be enabled during a test")
	}
}

func TestEndTestWritesMisses(t *testing.T) {
	s, _, dir := newTestSession(t, false)
	s.Load([]string{"one", "two", "three", "four"})
	if _, err := s.StartTest(); err != nil {
		t.Fatal(err)
	}

	answers := []string{"won", "two", "tree"}
	for _, a := range answers {
		if _, err := s.Submit(a); err != nil {
			t.Fatal(err)
		}
	}

	summary, err := s.EndTest()
	if err != nil {
		t.Fatalf("EndTest() error = %v", err)
	}
	if summary.Misses != 2 {
		t.Errorf("Misses = %d, want 2", summary.Misses)
	}
	if want := filepath.Join(dir, "incorrects_20240309140507.txt"); summary.Path != want {
		t.Errorf("Path = %q, want %q", summary.Path, want)
	}

	data, err := os.ReadFile(summary.Path)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(string(data), "\n")
	if len(lines) != summary.Misses {
		t.Errorf("File has %d lines, want %d", len(lines), summary.Misses)
	}
	if !reflect.DeepEqual(lines, []string{"one: won", "three: tree"}) {
		t.Errorf("File lines = %q", lines)
	}

	if s.State() != ListLoaded {
		t.Errorf("State after EndTest = %v, want list loaded", s.State())
	}
	if len(s.Incorrects()) != 0 {
		t.Error("Misses should be discarded once saved")
	}
}

func TestEndTestWriteFailureKeepsMisses(t *testing.T) {
	s := NewSession(Options{
		Write: func(string, time.Time, []Entry) (string, error) {
			return "", errors.New("read-only file system")
		},
	})
	s.Load([]string{"cat", "dog"})
	if _, err := s.StartTest(); err != nil {
		t.Fatal(err)
	}
	if _, err := s.MarkIncorrect(); err != nil {
		t.Fatal(err)
	}

	summary, err := s.EndTest()
	if err == nil || summary.Err == nil {
		t.Fatal("EndTest() should report the write failure")
	}
	if len(s.Incorrects()) != 1 {
		t.Error("Misses should survive a failed save")
	}
	if s.State() != ListLoaded {
		t.Errorf("State = %v, want list loaded", s.State())
	}
}

func TestDefaultEndsAfterFinalAnswer(t *testing.T) {
	s, ann, dir := newTestSession(t, false)
	s.Load([]string{"apple", "grape"})

	if _, err := s.StartTest(); err != nil {
		t.Fatal(err)
	}
	out, err := s.Submit("appel")
	if err != nil {
		t.Fatal(err)
	}
	if out.Next.Ended {
		t.Fatal("Test must not end before the last word is answered")
	}
	if out.Next.Word != "grape" || s.State() != AwaitingAnswer {
		t.Errorf("Expected to be asked grape, got %+v in %v", out.Next, s.State())
	}
	if s.Can(ActionReadNext) {
		t.Error("The last word of a test cannot be skipped")
	}

	out, err = s.Submit("grap")
	if err != nil {
		t.Fatal(err)
	}
	if !out.Next.Ended {
		t.Fatal("Answering the last word should end the test")
	}
	if !reflect.DeepEqual([]string(*ann), []string{"apple", "grape"}) {
		t.Errorf("Announced %v, nothing after the last word", *ann)
	}

	data, err := os.ReadFile(filepath.Join(dir, "incorrects_20240309140507.txt"))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "apple: appel\ngrape: grap" {
		t.Errorf("Results = %q", data)
	}
	if out.Next.Summary.Path == "" || out.Next.Summary.Misses != 2 {
		t.Errorf("Summary = %+v", out.Next.Summary)
	}
}

func TestEndEarlyScenario(t *testing.T) {
	s, ann, dir := newTestSession(t, true)
	s.Load([]string{"apple", "grape"})

	step, err := s.StartTest()
	if err != nil {
		t.Fatal(err)
	}
	if step.Index != 0 || step.Word != "apple" || step.Ended {
		t.Fatalf("StartTest() step = %+v", step)
	}

	out, err := s.Submit("appel")
	if err != nil {
		t.Fatal(err)
	}
	if out.Correct {
		t.Error("appel is not apple")
	}
	if out.Next.Index != 1 || out.Next.Word != "grape" {
		t.Errorf("Next = %+v, want index 1 grape", out.Next)
	}
	if !out.Next.Ended {
		t.Fatal("Reading the last word ends the test in end-early mode")
	}
	if !reflect.DeepEqual([]string(*ann), []string{"apple", "grape"}) {
		t.Errorf("Announced %v", *ann)
	}
	if s.State() != ListLoaded {
		t.Errorf("State = %v, want list loaded", s.State())
	}

	files, err := filepath.Glob(filepath.Join(dir, "incorrects_*.txt"))
	if err != nil || len(files) != 1 {
		t.Fatalf("Expected exactly one results file, got %v (%v)", files, err)
	}
	data, err := os.ReadFile(files[0])
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "apple: appel" {
		t.Errorf("Results = %q, want %q", data, "apple: appel")
	}
}

func TestCanFollowsState(t *testing.T) {
	s, _, _ := newTestSession(t, false)
	s.Load([]string{"a", "b", "c"})

	check := func(stage string, want map[Action]bool) {
		t.Helper()
		for action, expected := range want {
			if got := s.Can(action); got != expected {
				t.Errorf("%s: Can(%d) = %v, want %v", stage, action, got, expected)
			}
		}
	}

	check("loaded", map[Action]bool{
		ActionReadAll: true, ActionStartTest: true, ActionReadNext: true,
		ActionEndTest: false, ActionReveal: false, ActionMarkIncorrect: false, ActionSubmit: false,
	})

	if _, err := s.StartTest(); err != nil {
		t.Fatal(err)
	}
	check("testing", map[Action]bool{
		ActionReadAll: false, ActionStartTest: false, ActionReadNext: true,
		ActionEndTest: true, ActionReveal: true, ActionMarkIncorrect: true, ActionSubmit: true,
	})

	if _, err := s.EndTest(); err != nil {
		t.Fatal(err)
	}
	check("ended", map[Action]bool{
		ActionReadAll: true, ActionStartTest: true, ActionEndTest: false, ActionMarkIncorrect: false,
	})
}

func TestStateString(t *testing.T) {
	if AwaitingAnswer.String() != "awaiting answer" {
		t.Errorf("String() = %q", AwaitingAnswer.String())
	}
	if State(42).String() != "State(42)" {
		t.Errorf("String() = %q", State(42).String())
	}
}
