package gui

import (
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/dialog"
	"fyne.io/fyne/v2/storage"
	"fyne.io/fyne/v2/theme"
	"fyne.io/fyne/v2/widget"
	fynetooltip "github.com/dweymouth/fyne-tooltip"
	ttwidget "github.com/dweymouth/fyne-tooltip/widget"

	"codeberg.org/snonux/spellbee/internal/playback"
	"codeberg.org/snonux/spellbee/internal/quiz"
	"codeberg.org/snonux/spellbee/internal/wordlist"
)

const initialStatus = "Load a word list to begin."

// Application represents the main GUI application
type Application struct {
	// Fyne components
	app    fyne.App
	window fyne.Window

	// UI elements
	loadBtn          *ttwidget.Button
	readAllBtn       *ttwidget.Button
	stopBtn          *ttwidget.Button
	startTestBtn     *ttwidget.Button
	endTestBtn       *ttwidget.Button
	readNextBtn      *ttwidget.Button
	showSpellingBtn  *ttwidget.Button
	markIncorrectBtn *ttwidget.Button
	answerEntry      *AnswerEntry
	statusLabel      *widget.Label
	logViewer        *LogViewer

	session *quiz.Session
	runner  *playback.Runner
	config  *Config

	// A full-list reading run is active. Guarded by mu because the
	// worker's completion callback may run off the UI goroutine in tests.
	mu       sync.Mutex
	reading  bool
	readRuns int
}

// Config holds GUI application configuration
type Config struct {
	ResultsDir   string        // where incorrects_*.txt files go
	ReadInterval time.Duration // pause between words when reading the list
	TestInterval time.Duration // interval of the single-word test prompt
	EndEarly     bool          // end tests when the last word is read
	WordFile     string        // loaded at startup when set
	CaptureLogs  bool          // mirror stdout/stderr into the log panel
}

// DefaultConfig returns default GUI configuration
func DefaultConfig() *Config {
	return &Config{
		ResultsDir:   ".",
		ReadInterval: 5 * time.Second,
		TestInterval: 1 * time.Second,
		CaptureLogs:  true,
	}
}

// New creates the application window. Words are spoken through speaker.
func New(fyneApp fyne.App, speaker playback.WordSpeaker, config *Config) *Application {
	if config == nil {
		config = DefaultConfig()
	} else {
		defaults := DefaultConfig()
		if config.ResultsDir == "" {
			config.ResultsDir = defaults.ResultsDir
		}
		if config.ReadInterval <= 0 {
			config.ReadInterval = defaults.ReadInterval
		}
		if config.TestInterval <= 0 {
			config.TestInterval = defaults.TestInterval
		}
	}

	a := &Application{
		app:    fyneApp,
		config: config,
		runner: playback.NewRunner(speaker),
	}
	a.session = quiz.NewSession(quiz.Options{
		EndEarly:   config.EndEarly,
		Announcer:  quiz.AnnouncerFunc(a.announce),
		ResultsDir: config.ResultsDir,
	})

	a.setupUI()
	a.refreshControls()

	return a
}

// setupUI creates the main user interface
func (a *Application) setupUI() {
	a.window = a.app.NewWindow("Spelling Bee Reader")
	a.window.SetIcon(theme.VolumeUpIcon())
	a.window.Resize(fyne.NewSize(520, 560))

	a.loadBtn = ttwidget.NewButtonWithIcon("Load Word File", theme.FolderOpenIcon(), a.onLoad)
	a.readAllBtn = ttwidget.NewButtonWithIcon("Start Reading All", theme.MediaPlayIcon(), a.onReadAll)
	a.stopBtn = ttwidget.NewButtonWithIcon("Stop All", theme.MediaStopIcon(), a.onStop)
	a.startTestBtn = ttwidget.NewButtonWithIcon("Start Test", theme.DocumentCreateIcon(), a.onStartTest)
	a.endTestBtn = ttwidget.NewButtonWithIcon("End Test", theme.DocumentSaveIcon(), a.onEndTest)
	a.readNextBtn = ttwidget.NewButtonWithIcon("Read Next", theme.MediaSkipNextIcon(), a.onReadNext)
	a.showSpellingBtn = ttwidget.NewButtonWithIcon("Show Spelling", theme.VisibilityIcon(), a.onShowSpelling)
	a.markIncorrectBtn = ttwidget.NewButtonWithIcon("Mark Incorrect", theme.CancelIcon(), a.onMarkIncorrect)
	a.markIncorrectBtn.Importance = widget.DangerImportance

	a.answerEntry = NewAnswerEntry()
	a.answerEntry.OnSubmitted = func(text string) {
		a.onSubmit(text)
	}
	a.answerEntry.SetOnEscape(func() {
		a.window.Canvas().Unfocus()
	})

	a.statusLabel = widget.NewLabel(initialStatus)
	a.statusLabel.Wrapping = fyne.TextWrapWord

	helpButton := ttwidget.NewButtonWithIcon("", theme.HelpIcon(), a.onShowHotkeys)

	controls := container.NewVBox(
		a.statusLabel,
		widget.NewSeparator(),
		a.loadBtn,
		container.NewGridWithColumns(2, a.readAllBtn, a.stopBtn),
		container.NewGridWithColumns(2, a.startTestBtn, a.endTestBtn),
		a.readNextBtn,
		container.NewGridWithColumns(2, a.showSpellingBtn, a.markIncorrectBtn),
		container.NewBorder(nil, nil, nil, helpButton, a.answerEntry),
	)

	a.logViewer = NewLogViewer(500)
	content := container.NewBorder(controls, nil, nil, nil, a.logViewer)

	a.window.SetContent(fynetooltip.AddWindowToolTipLayer(content, a.window.Canvas()))

	a.loadBtn.SetToolTip("Open a word list, one word per line (l)")
	a.readAllBtn.SetToolTip("Read every word aloud (r)")
	a.stopBtn.SetToolTip("Stop reading (s)")
	a.startTestBtn.SetToolTip("Start a spelling test (t)")
	a.endTestBtn.SetToolTip("End the test and save misses (e)")
	a.readNextBtn.SetToolTip("Read the next word (n)")
	a.showSpellingBtn.SetToolTip("Show the current word (w)")
	a.markIncorrectBtn.SetToolTip("Record the current word as missed (m)")
	helpButton.SetToolTip("Show hotkeys (h)")

	a.window.SetOnClosed(a.shutdown)

	a.setupKeyboardShortcuts()
}

// Run starts the GUI application
func (a *Application) Run() {
	if a.config.CaptureLogs {
		if err := a.logViewer.StartCapture(); err != nil {
			fmt.Printf("Warning: %v\n", err)
		}
	}
	if a.config.WordFile != "" {
		a.LoadFile(a.config.WordFile)
	}
	a.window.ShowAndRun()
}

func (a *Application) shutdown() {
	a.runner.Close()
	a.logViewer.StopCapture()
}

// LoadFile loads a word list from disk
func (a *Application) LoadFile(path string) {
	words, err := wordlist.ReadWordFile(path)
	if err != nil {
		a.showError(err)
		return
	}
	a.loadWords(words)
}

func (a *Application) onLoad() {
	d := dialog.NewFileOpen(func(reader fyne.URIReadCloser, err error) {
		if err != nil {
			a.showError(err)
			return
		}
		if reader == nil {
			return // cancelled
		}
		defer reader.Close()

		words, err := wordlist.ParseWords(reader)
		if err != nil {
			a.showError(fmt.Errorf("failed to read word file: %w", err))
			return
		}
		fmt.Printf("Loaded %s\n", reader.URI().Path())
		a.loadWords(words)
	}, a.window)
	d.SetFilter(storage.NewExtensionFileFilter([]string{".txt"}))
	d.Show()
}

func (a *Application) loadWords(words []string) {
	a.runner.Stop()
	a.mu.Lock()
	a.reading = false
	a.mu.Unlock()

	a.session.Load(words)
	a.answerEntry.SetText("")
	a.updateStatus(fmt.Sprintf("Loaded %d words.", len(words)))
	a.refreshControls()
}

func (a *Application) onReadAll() {
	if a.isReading() || !a.session.Can(quiz.ActionReadAll) {
		return
	}

	a.mu.Lock()
	a.reading = true
	a.readRuns++
	run := a.readRuns
	a.mu.Unlock()

	a.runner.Run(a.session.Words(), a.config.ReadInterval, playback.Listener{
		OnWord: func(_ int, word string) {
			fyne.Do(func() {
				a.updateStatus("Reading: " + word)
			})
		},
		OnFinished: func(bool) {
			fyne.Do(func() {
				a.readingFinished(run)
			})
		},
	})
	a.refreshControls()
}

// readingFinished ends reading run number run; stale runs are ignored
func (a *Application) readingFinished(run int) {
	a.mu.Lock()
	if run != a.readRuns || !a.reading {
		a.mu.Unlock()
		return
	}
	a.reading = false
	a.mu.Unlock()

	a.updateStatus("Done reading.")
	a.refreshControls()
}

func (a *Application) onStop() {
	a.runner.Stop()
	a.stopBtn.Disable()
}

func (a *Application) onStartTest() {
	if a.isReading() || !a.session.Can(quiz.ActionStartTest) {
		return
	}
	step, err := a.session.StartTest()
	if err != nil {
		a.showError(err)
		return
	}
	a.updateStatus("Test started. Listen and type the spelling.")
	a.handleStep(step)
	a.window.Canvas().Focus(a.answerEntry)
}

func (a *Application) onEndTest() {
	if !a.session.Can(quiz.ActionEndTest) {
		return
	}
	summary, _ := a.session.EndTest()
	a.updateStatus(summaryText(summary))
	a.refreshControls()
}

func (a *Application) onReadNext() {
	if a.isReading() || !a.session.Can(quiz.ActionReadNext) {
		return
	}
	step, err := a.session.Advance()
	if err != nil {
		a.showError(err)
		return
	}
	a.handleStep(step)
}

func (a *Application) onShowSpelling() {
	word, err := a.session.Reveal()
	if err != nil {
		return
	}
	a.updateStatus("Spelling: " + word)
}

func (a *Application) onMarkIncorrect() {
	if !a.session.Can(quiz.ActionMarkIncorrect) {
		return
	}
	word, err := a.session.MarkIncorrect()
	if err != nil {
		a.showError(err)
		return
	}
	a.updateStatus("Incorrect: " + word)
	a.refreshControls()
}

func (a *Application) onSubmit(text string) {
	if a.isReading() || !a.session.Can(quiz.ActionSubmit) {
		return
	}
	out, err := a.session.Submit(text)
	if err != nil {
		a.showError(err)
		return
	}

	status := "Correct: " + out.Word
	if !out.Correct {
		status = "Incorrect: " + out.Word
	}
	if out.Next.Ended {
		status += " | " + summaryText(out.Next.Summary)
	}
	a.updateStatus(status)
	a.refreshControls()
}

// handleStep reacts to the session moving on; the announcer has already
// spoken the word
func (a *Application) handleStep(step quiz.Step) {
	if step.Ended {
		a.updateStatus(summaryText(step.Summary))
	}
	a.refreshControls()
}

// announce speaks a test prompt; it replaces any run in progress
func (a *Application) announce(word string) {
	a.answerEntry.SetText("")
	a.runner.Run([]string{word}, a.config.TestInterval, playback.Listener{})
}

func summaryText(s quiz.Summary) string {
	if s.Err != nil {
		return "Error: " + s.Err.Error()
	}
	return fmt.Sprintf("Saved %d incorrect word(s) to %s", s.Misses, filepath.Base(s.Path))
}

func (a *Application) isReading() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.reading
}

// refreshControls derives every control's enablement from the session
func (a *Application) refreshControls() {
	reading := a.isReading()
	can := func(action quiz.Action) bool {
		return !reading && a.session.Can(action)
	}

	setEnabled(a.readAllBtn, can(quiz.ActionReadAll))
	setEnabled(a.stopBtn, reading)
	setEnabled(a.startTestBtn, can(quiz.ActionStartTest))
	setEnabled(a.endTestBtn, can(quiz.ActionEndTest))
	setEnabled(a.readNextBtn, can(quiz.ActionReadNext))
	setEnabled(a.showSpellingBtn, can(quiz.ActionReveal))
	setEnabled(a.markIncorrectBtn, can(quiz.ActionMarkIncorrect))

	if can(quiz.ActionSubmit) {
		a.answerEntry.Enable()
	} else {
		a.answerEntry.Disable()
	}
}

func setEnabled(b *ttwidget.Button, enabled bool) {
	if enabled {
		b.Enable()
	} else {
		b.Disable()
	}
}

func (a *Application) updateStatus(message string) {
	a.statusLabel.SetText(message)
}

// showError reports err in the status label, the only feedback channel
func (a *Application) showError(err error) {
	if errors.Is(err, quiz.ErrNoWords) {
		a.updateStatus(initialStatus)
		return
	}
	fmt.Printf("Error: %v\n", err)
	a.updateStatus("Error: " + err.Error())
}

// Status returns the status label text
func (a *Application) Status() string {
	return a.statusLabel.Text
}
