// Package playback speaks words aloud: one at a time through Speaker, or a
// whole list on a background goroutine through Worker and Runner.
package playback

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"codeberg.org/snonux/spellbee/internal"
	"codeberg.org/snonux/spellbee/internal/audio"
)

// Player is the audio device a Speaker plays through
type Player interface {
	Load(file string) error
	Play() error
	Stop()
	Unload()
	Busy() bool
}

// SpeakerConfig configures where temporary clips go and how playback is watched
type SpeakerConfig struct {
	TempDir      string        // directory for temp_<hex>.<ext> files
	Format       string        // clip format, "mp3" or "wav"
	PollInterval time.Duration // how often Busy is checked
}

// DefaultSpeakerConfig returns the default speaker configuration
func DefaultSpeakerConfig() *SpeakerConfig {
	return &SpeakerConfig{
		TempDir:      os.TempDir(),
		Format:       "mp3",
		PollInterval: 100 * time.Millisecond,
	}
}

// Speaker synthesizes a word and plays it to completion
type Speaker struct {
	provider audio.Provider
	player   Player
	config   SpeakerConfig
}

// NewSpeaker creates a speaker; a nil config uses the defaults
func NewSpeaker(provider audio.Provider, player Player, config *SpeakerConfig) *Speaker {
	if config == nil {
		config = DefaultSpeakerConfig()
	}
	cfg := *config
	if cfg.TempDir == "" {
		cfg.TempDir = os.TempDir()
	}
	if cfg.Format == "" {
		cfg.Format = "mp3"
	}
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = 100 * time.Millisecond
	}

	return &Speaker{
		provider: provider,
		player:   player,
		config:   cfg,
	}
}

// Speak says word and blocks until playback ends. Failures are printed and
// swallowed so that one bad word never aborts a reading run.
func (s *Speaker) Speak(ctx context.Context, word string) {
	if err := s.SpeakErr(ctx, word); err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		fmt.Printf("Error: %v\n", err)
	}
}

// SpeakErr is Speak with the error returned to the caller
func (s *Speaker) SpeakErr(ctx context.Context, word string) error {
	word = strings.TrimSpace(word)
	if err := audio.ValidateText(word); err != nil {
		return err
	}

	file := filepath.Join(s.config.TempDir, internal.TempFileName("temp", s.config.Format))
	defer removeClip(file)

	if err := s.synthesize(ctx, word, file); err != nil {
		return fmt.Errorf("failed to synthesize %q: %w", word, err)
	}

	if err := s.player.Load(file); err != nil {
		return fmt.Errorf("failed to load audio for %q: %w", word, err)
	}
	defer s.player.Unload()

	if err := s.player.Play(); err != nil {
		return fmt.Errorf("failed to play %q: %w", word, err)
	}

	ticker := time.NewTicker(s.config.PollInterval)
	defer ticker.Stop()

	for s.player.Busy() {
		select {
		case <-ctx.Done():
			s.player.Stop()
			return ctx.Err()
		case <-ticker.C:
		}
	}

	return nil
}

// synthesize runs the provider but returns as soon as ctx is done, even if
// the provider ignores ctx. An abandoned clip is removed once it is written.
func (s *Speaker) synthesize(ctx context.Context, word, file string) error {
	done := make(chan error, 1)
	go func() {
		done <- s.provider.GenerateAudio(ctx, word, file)
	}()

	select {
	case err := <-done:
		return err
	case <-ctx.Done():
		go func() {
			<-done
			removeClip(file)
		}()
		return ctx.Err()
	}
}

// Interrupt stops whatever is playing right now
func (s *Speaker) Interrupt() {
	s.player.Stop()
}

func removeClip(file string) {
	if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
		fmt.Printf("Warning: failed to remove %s: %v\n", file, err)
	}
}
