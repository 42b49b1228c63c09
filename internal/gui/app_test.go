package gui

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"fyne.io/fyne/v2/test"

	"codeberg.org/snonux/spellbee/internal/testutil"
)

func newTestApp(t *testing.T, endEarly bool) (*Application, *testutil.RecordingSpeaker, string) {
	t.Helper()

	dir := t.TempDir()
	speaker := &testutil.RecordingSpeaker{}
	a := New(test.NewTempApp(t), speaker, &Config{
		ResultsDir:   dir,
		ReadInterval: time.Millisecond,
		TestInterval: time.Millisecond,
		EndEarly:     endEarly,
	})
	t.Cleanup(a.shutdown)
	return a, speaker, dir
}

func TestInitialState(t *testing.T) {
	a, _, _ := newTestApp(t, false)

	if a.Status() != "Load a word list to begin." {
		t.Errorf("Status() = %q", a.Status())
	}
	for name, b := range map[string]interface{ Disabled() bool }{
		"read all":       a.readAllBtn,
		"stop":           a.stopBtn,
		"start test":     a.startTestBtn,
		"end test":       a.endTestBtn,
		"read next":      a.readNextBtn,
		"show spelling":  a.showSpellingBtn,
		"mark incorrect": a.markIncorrectBtn,
		"answer":         a.answerEntry,
	} {
		if !b.Disabled() {
			t.Errorf("%s should be disabled before a list is loaded", name)
		}
	}
	if a.loadBtn.Disabled() {
		t.Error("Load should always be enabled")
	}
	if a.answerEntry.PlaceHolder != "Type spelling here and press Enter" {
		t.Errorf("PlaceHolder = %q", a.answerEntry.PlaceHolder)
	}
}

func TestLoadFile(t *testing.T) {
	a, _, dir := newTestApp(t, false)

	a.LoadFile(testutil.CreateWordFile(t, dir, "cat", "", "dog"))
	if a.Status() != "Loaded 2 words." {
		t.Errorf("Status() = %q", a.Status())
	}
	if a.readAllBtn.Disabled() || a.startTestBtn.Disabled() || a.readNextBtn.Disabled() {
		t.Error("Reading and testing should be enabled after loading")
	}
	if !a.endTestBtn.Disabled() {
		t.Error("End test should stay disabled until a test starts")
	}
}

func TestLoadFileError(t *testing.T) {
	a, _, dir := newTestApp(t, false)

	a.LoadFile(filepath.Join(dir, "missing.txt"))
	if !strings.HasPrefix(a.Status(), "Error: ") {
		t.Errorf("Status() = %q, want an error", a.Status())
	}
}

func TestReadAll(t *testing.T) {
	a, speaker, _ := newTestApp(t, false)
	a.loadWords([]string{"cat", "dog", "eel"})

	a.onReadAll()
	testutil.Eventually(t, 5*time.Second, func() bool {
		return a.Status() == "Done reading."
	}, "reading finished")

	if got := speaker.Words(); strings.Join(got, ",") != "cat,dog,eel" {
		t.Errorf("Spoken = %v", got)
	}
	if a.isReading() {
		t.Error("Reading flag still set")
	}
	if a.readAllBtn.Disabled() || !a.stopBtn.Disabled() {
		t.Error("Read all should be re-enabled and stop disabled after reading")
	}
}

func TestStopReading(t *testing.T) {
	a, speaker, _ := newTestApp(t, false)
	speaker.Duration = 5 * time.Second
	a.loadWords([]string{"cat", "dog", "eel"})

	a.onReadAll()
	if a.stopBtn.Disabled() {
		t.Fatal("Stop should be enabled while reading")
	}
	if !a.startTestBtn.Disabled() {
		t.Error("Tests cannot start while the list is being read")
	}
	testutil.Eventually(t, time.Second, func() bool { return len(speaker.Words()) == 1 }, "first word")

	a.onStop()
	testutil.Eventually(t, 5*time.Second, func() bool {
		return a.Status() == "Done reading."
	}, "stopped run finished")

	if got := speaker.Words(); len(got) != 1 {
		t.Errorf("Spoken after stop = %v", got)
	}
}

func TestSpellingTest(t *testing.T) {
	a, speaker, dir := newTestApp(t, false)
	a.loadWords([]string{"apple", "grape"})

	a.onStartTest()
	testutil.Eventually(t, time.Second, func() bool { return len(speaker.Words()) == 1 }, "first prompt")
	if a.startTestBtn.Disabled() == false || a.endTestBtn.Disabled() {
		t.Error("Start test should be disabled and end test enabled during a test")
	}

	a.onSubmit("appel")
	if a.Status() != "Incorrect: apple" {
		t.Errorf("Status() = %q", a.Status())
	}
	if !a.readNextBtn.Disabled() {
		t.Error("The last word of a test cannot be skipped")
	}
	testutil.Eventually(t, time.Second, func() bool { return len(speaker.Words()) == 2 }, "second prompt")

	a.onSubmit("grape")
	if !strings.HasPrefix(a.Status(), "Correct: grape | Saved 1 incorrect word(s) to incorrects_") {
		t.Errorf("Status() = %q", a.Status())
	}

	files := testutil.Glob(t, dir, "incorrects_*.txt")
	if len(files) != 1 {
		t.Fatalf("Results files = %v", files)
	}
	testutil.AssertFileContent(t, filepath.Join(dir, files[0]), []byte("apple: appel"))

	if a.startTestBtn.Disabled() || !a.endTestBtn.Disabled() {
		t.Error("Controls should return to the loaded state after the test")
	}
}

func TestSpellingTestEndEarly(t *testing.T) {
	a, _, dir := newTestApp(t, true)
	a.loadWords([]string{"apple", "grape"})

	a.onStartTest()
	a.onSubmit("appel")

	if !strings.HasPrefix(a.Status(), "Incorrect: apple | Saved 1 incorrect word(s)") {
		t.Errorf("Status() = %q", a.Status())
	}
	files := testutil.Glob(t, dir, "incorrects_*.txt")
	if len(files) != 1 {
		t.Fatalf("Results files = %v", files)
	}
	testutil.AssertFileContent(t, filepath.Join(dir, files[0]), []byte("apple: appel"))
}

func TestMarkIncorrectAndShowSpelling(t *testing.T) {
	a, _, dir := newTestApp(t, false)
	a.loadWords([]string{"rhythm", "queue", "onion"})

	a.handleShortcut('t')
	if a.endTestBtn.Disabled() {
		t.Fatal("Shortcut t should start a test")
	}

	a.handleShortcut('w')
	if a.Status() != "Spelling: rhythm" {
		t.Errorf("Status() = %q", a.Status())
	}

	a.onMarkIncorrect()
	if a.Status() != "Incorrect: rhythm" {
		t.Errorf("Status() = %q", a.Status())
	}
	if !a.markIncorrectBtn.Disabled() {
		t.Error("Mark incorrect should be disabled once the word is marked")
	}

	a.onReadNext()
	if a.markIncorrectBtn.Disabled() {
		t.Error("Mark incorrect should be enabled for the next word")
	}

	a.onEndTest()
	if a.Status() != "Saved 1 incorrect word(s) to "+testutil.Glob(t, dir, "incorrects_*.txt")[0] {
		t.Errorf("Status() = %q", a.Status())
	}
}

func TestSubmitIgnoredWithoutWord(t *testing.T) {
	a, _, _ := newTestApp(t, false)
	a.onSubmit("anything")
	if a.Status() != "Load a word list to begin." {
		t.Errorf("Status() = %q", a.Status())
	}
}

func TestClearLogShortcut(t *testing.T) {
	a, _, _ := newTestApp(t, false)

	a.logViewer.AddMessage("Error: synthesis failed")
	if len(a.logViewer.Messages()) != 1 {
		t.Fatalf("Messages() = %v, want one line", a.logViewer.Messages())
	}

	a.handleShortcut('c')
	if got := a.logViewer.Messages(); len(got) != 0 {
		t.Errorf("Messages() after clear = %v, want none", got)
	}
}
