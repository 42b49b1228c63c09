package quiz

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/spellbee/internal"
)

// separator splits word from answer on each results line
const separator = ": "

// ResultsFilename returns the results file name for a test ending at t
func ResultsFilename(t time.Time) string {
	return "incorrects_" + internal.Timestamp(t) + ".txt"
}

// WriteResults writes one "word: answer" line per entry into dir, lines
// joined by a newline with none after the last. A file from the same
// second is overwritten.
func WriteResults(dir string, t time.Time, entries []Entry) (string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create results directory: %w", err)
	}

	lines := make([]string, 0, len(entries))
	for _, e := range entries {
		if strings.Contains(e.Word, separator) {
			fmt.Printf("Warning: word %q contains %q and will not read back unambiguously\n", e.Word, separator)
		}
		lines = append(lines, e.Word+separator+e.Answer)
	}

	path := filepath.Join(dir, ResultsFilename(t))
	if err := os.WriteFile(path, []byte(strings.Join(lines, "\n")), 0644); err != nil {
		return "", fmt.Errorf("failed to write results: %w", err)
	}

	return path, nil
}

// ParseResults reads a results file back. Each line is split on the first
// ": ", so a word containing that sequence is cut short.
func ParseResults(r io.Reader) ([]Entry, error) {
	var entries []Entry

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSuffix(scanner.Text(), "\r")
		if line == "" {
			continue
		}

		word, answer, found := strings.Cut(line, separator)
		if !found {
			// "word:" with an empty answer loses nothing but the space
			word = strings.TrimSuffix(line, ":")
		}
		entries = append(entries, Entry{Word: word, Answer: answer})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read results: %w", err)
	}

	return entries, nil
}
