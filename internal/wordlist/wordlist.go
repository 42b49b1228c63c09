// Package wordlist reads spelling lists: plain text, one word per line.
package wordlist

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineLength bounds a single line; longer lines are an error
const maxLineLength = 1024 * 1024

// ReadWordFile reads the words of a word list file
func ReadWordFile(filename string) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}
	defer f.Close()

	words, err := ParseWords(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read word file: %w", err)
	}
	return words, nil
}

// ParseWords returns the trimmed, non-blank lines of r in order.
// Duplicates are kept; a word listed twice is asked twice.
func ParseWords(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineLength)

	var words []string
	for scanner.Scan() {
		// TrimSpace also drops the \r of CRLF files
		if word := strings.TrimSpace(scanner.Text()); word != "" {
			words = append(words, word)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	return words, nil
}
