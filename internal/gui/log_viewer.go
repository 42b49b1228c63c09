package gui

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"sync"
	"time"

	"fyne.io/fyne/v2"
	"fyne.io/fyne/v2/container"
	"fyne.io/fyne/v2/widget"
)

// LogViewer shows console output inside the window, so per-word synthesis
// errors are visible without a terminal.
type LogViewer struct {
	widget.BaseWidget

	container  *fyne.Container
	logEntry   *widget.Entry
	scrollView *container.Scroll

	mu          sync.Mutex
	messages    []string
	maxMessages int
	now         func() time.Time

	originalStdout *os.File
	originalStderr *os.File
	pipes          []*os.File
	readers        sync.WaitGroup
}

// NewLogViewer creates a log viewer keeping the last maxMessages lines
func NewLogViewer(maxMessages int) *LogViewer {
	if maxMessages <= 0 {
		maxMessages = 500
	}
	v := &LogViewer{
		maxMessages: maxMessages,
		now:         time.Now,
	}

	v.logEntry = widget.NewMultiLineEntry()
	v.logEntry.Disable() // read-only
	v.logEntry.Wrapping = fyne.TextWrapWord

	v.scrollView = container.NewVScroll(v.logEntry)
	v.scrollView.SetMinSize(fyne.NewSize(0, 120))

	v.container = container.NewBorder(
		widget.NewLabel("Log (newest first):"),
		nil, nil, nil,
		v.scrollView,
	)

	v.ExtendBaseWidget(v)
	return v
}

// CreateRenderer implements fyne.Widget
func (v *LogViewer) CreateRenderer() fyne.WidgetRenderer {
	return widget.NewSimpleRenderer(v.container)
}

// StartCapture tees stdout, stderr and the log package into the viewer
func (v *LogViewer) StartCapture() error {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.originalStdout != nil {
		return nil
	}

	stdoutR, stdoutW, err := os.Pipe()
	if err != nil {
		return fmt.Errorf("failed to capture stdout: %w", err)
	}
	stderrR, stderrW, err := os.Pipe()
	if err != nil {
		stdoutR.Close()
		stdoutW.Close()
		return fmt.Errorf("failed to capture stderr: %w", err)
	}

	v.originalStdout = os.Stdout
	v.originalStderr = os.Stderr
	v.pipes = []*os.File{stdoutW, stderrW}

	os.Stdout = stdoutW
	os.Stderr = stderrW
	log.SetOutput(stderrW)

	v.readers.Add(2)
	go v.copyLines(stdoutR, v.originalStdout)
	go v.copyLines(stderrR, v.originalStderr)

	return nil
}

// copyLines forwards each captured line to the terminal and the viewer
func (v *LogViewer) copyLines(r io.ReadCloser, original io.Writer) {
	defer v.readers.Done()
	defer r.Close()

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := scanner.Text()
		fmt.Fprintln(original, line)
		v.AddMessage(line)
	}
}

// StopCapture restores the original outputs and drains the pipes
func (v *LogViewer) StopCapture() {
	v.mu.Lock()
	if v.originalStdout == nil {
		v.mu.Unlock()
		return
	}
	os.Stdout = v.originalStdout
	os.Stderr = v.originalStderr
	log.SetOutput(os.Stderr)
	for _, p := range v.pipes {
		p.Close()
	}
	v.originalStdout = nil
	v.originalStderr = nil
	v.pipes = nil
	v.mu.Unlock()

	v.readers.Wait()
}

// AddMessage adds a timestamped line to the top of the log
func (v *LogViewer) AddMessage(message string) {
	message = strings.TrimRight(message, "\r\n")
	if message == "" {
		return
	}

	v.mu.Lock()
	line := fmt.Sprintf("[%s] %s", v.now().Format("15:04:05"), message)
	v.messages = append([]string{line}, v.messages...)
	if len(v.messages) > v.maxMessages {
		v.messages = v.messages[:v.maxMessages]
	}
	text := strings.Join(v.messages, "\n")
	v.mu.Unlock()

	fyne.Do(func() {
		v.logEntry.SetText(text)
		v.scrollView.ScrollToTop()
	})
}

// Messages returns the lines currently shown, newest first
func (v *LogViewer) Messages() []string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return append([]string(nil), v.messages...)
}

// Clear removes all lines
func (v *LogViewer) Clear() {
	v.mu.Lock()
	v.messages = nil
	v.mu.Unlock()

	fyne.Do(func() {
		v.logEntry.SetText("")
	})
}
