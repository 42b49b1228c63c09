package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	htgotts "github.com/hegedustibor/htgo-tts"
)

// gttsTimeout bounds one download; the endpoint has no timeout of its own
const gttsTimeout = 20 * time.Second

// downloadFunc fetches text as MP3 into folder/name.mp3 and returns the path
type downloadFunc func(folder, language, text, name string) (string, error)

func htgoDownload(folder, language, text, name string) (string, error) {
	speech := htgotts.Speech{Folder: folder, Language: language}
	return speech.CreateSpeechFile(text, name)
}

// GTTSProvider implements Provider interface for the Google Translate TTS endpoint
type GTTSProvider struct {
	language string
	timeout  time.Duration
	download downloadFunc
}

// NewGTTSProvider creates a new Google TTS provider; no API key is needed
func NewGTTSProvider(config *Config) (Provider, error) {
	if err := ValidateLanguage(config.Language); err != nil {
		return nil, err
	}
	return &GTTSProvider{
		language: config.Language,
		timeout:  gttsTimeout,
		download: htgoDownload,
	}, nil
}

// GenerateAudio downloads the spoken word as MP3. The download runs in a
// scratch directory next to outputFile and is abandoned when ctx ends or
// the timeout passes.
func (p *GTTSProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}
	if ext := strings.ToLower(filepath.Ext(outputFile)); ext != ".mp3" {
		return fmt.Errorf("google TTS only produces mp3, got %q", outputFile)
	}

	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	scratch, err := os.MkdirTemp(filepath.Dir(outputFile), "gtts-")
	if err != nil {
		return fmt.Errorf("failed to create download directory: %w", err)
	}

	type result struct {
		path string
		err  error
	}
	done := make(chan result, 1)
	word := strings.TrimSpace(text)

	fmt.Printf("Google TTS: '%s' (lang %s)\n", word, p.language)
	go func() {
		path, err := p.download(scratch, p.language, word, "clip")
		done <- result{path, err}
	}()

	var r result
	select {
	case r = <-done:
	case <-ctx.Done():
		// The request cannot be cancelled; clean up once it gives up
		go func() {
			<-done
			os.RemoveAll(scratch)
		}()
		return fmt.Errorf("google TTS: %w", ctx.Err())
	}
	defer os.RemoveAll(scratch)

	if r.err != nil {
		return fmt.Errorf("google TTS error: %w", r.err)
	}
	if err := checkMP3(r.path); err != nil {
		return fmt.Errorf("google TTS: %w", err)
	}
	if err := os.Rename(r.path, outputFile); err != nil {
		return fmt.Errorf("failed to move audio file: %w", err)
	}

	return nil
}

// checkMP3 rejects empty files and anything that does not start like an
// MP3 stream, such as an HTML error page
func checkMP3(file string) error {
	f, err := os.Open(file)
	if err != nil {
		return fmt.Errorf("no audio file produced: %w", err)
	}
	defer f.Close()

	header := make([]byte, 3)
	n, err := io.ReadFull(f, header)
	if n == 0 {
		return fmt.Errorf("no audio data received")
	}
	if err != nil && err != io.ErrUnexpectedEOF {
		return fmt.Errorf("failed to read audio file: %w", err)
	}
	if !isMP3Header(header[:n]) {
		return fmt.Errorf("response is not MP3 audio (starts with %q)", header[:n])
	}
	return nil
}

// isMP3Header reports whether b starts with an ID3 tag or an MPEG frame sync
func isMP3Header(b []byte) bool {
	if len(b) >= 3 && string(b[:3]) == "ID3" {
		return true
	}
	return len(b) >= 2 && b[0] == 0xFF && b[1]&0xE0 == 0xE0
}

// Name returns the provider name
func (p *GTTSProvider) Name() string {
	return "gtts"
}

// IsAvailable always succeeds; the endpoint is only known to be reachable after a request
func (p *GTTSProvider) IsAvailable() error {
	return nil
}
