package wordlist

import (
	"errors"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"codeberg.org/snonux/spellbee/internal/testutil"
)

func TestParseWords(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    []string
	}{
		{
			name:    "empty file",
			content: "",
			want:    nil,
		},
		{
			name:    "only whitespace",
			content: "   \n\t\r\n   ",
			want:    nil,
		},
		{
			name:    "blank line skipped",
			content: "cat\n\ndog\n",
			want:    []string{"cat", "dog"},
		},
		{
			name:    "surrounding whitespace trimmed",
			content: "  necessary  \n\trhythm\t\n",
			want:    []string{"necessary", "rhythm"},
		},
		{
			name:    "windows line endings",
			content: "cat\r\ndog\r\n",
			want:    []string{"cat", "dog"},
		},
		{
			name:    "no trailing newline",
			content: "cat\ndog",
			want:    []string{"cat", "dog"},
		},
		{
			name:    "duplicates and order kept",
			content: "b\na\nb\n",
			want:    []string{"b", "a", "b"},
		},
		{
			name:    "inner spaces kept",
			content: "ice cream\n",
			want:    []string{"ice cream"},
		},
		{
			name:    "unicode",
			content: "café\nnaïve\n",
			want:    []string{"café", "naïve"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseWords(strings.NewReader(tt.content))
			if err != nil {
				t.Fatalf("ParseWords() error = %v", err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("ParseWords() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseWordsInvariant(t *testing.T) {
	// Every returned word is non-empty and equal to its own trim
	content := "  a \n\n b\n\t\n c\t\r\n"
	words, err := ParseWords(strings.NewReader(content))
	if err != nil {
		t.Fatalf("ParseWords() error = %v", err)
	}
	for _, w := range words {
		if w == "" || w != strings.TrimSpace(w) {
			t.Errorf("Word %q is blank or untrimmed", w)
		}
	}
	if len(words) != 3 {
		t.Errorf("Got %d words, want 3", len(words))
	}
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("disk on fire") }

func TestParseWordsReadError(t *testing.T) {
	if _, err := ParseWords(failingReader{}); err == nil {
		t.Error("ParseWords() should return the reader's error")
	}
}

func TestReadWordFile(t *testing.T) {
	dir := t.TempDir()
	path := testutil.CreateWordFile(t, dir, "apple", "", "banana")

	words, err := ReadWordFile(path)
	if err != nil {
		t.Fatalf("ReadWordFile() error = %v", err)
	}
	if !reflect.DeepEqual(words, []string{"apple", "banana"}) {
		t.Errorf("ReadWordFile() = %v", words)
	}
}

func TestReadWordFileMissing(t *testing.T) {
	_, err := ReadWordFile(filepath.Join(t.TempDir(), "nope.txt"))
	if err == nil {
		t.Fatal("ReadWordFile() should fail for a missing file")
	}
	if !strings.Contains(err.Error(), "failed to read word file") {
		t.Errorf("Unexpected error: %v", err)
	}
}
