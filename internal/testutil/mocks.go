package testutil

import (
	"context"
	"errors"
	"fmt"
	"os"
	"sync"
	"time"
)

// MockProvider is a speech synthesizer that writes a fake MP3 frame.
// It satisfies audio.Provider without importing it.
type MockProvider struct {
	mu sync.Mutex

	Errors map[string]error // per word
	Delay  time.Duration    // simulated synthesis latency, honours ctx
	Calls  []string
}

// GenerateAudio records the call and writes mock audio data to outputFile
func (m *MockProvider) GenerateAudio(ctx context.Context, text, outputFile string) error {
	m.mu.Lock()
	m.Calls = append(m.Calls, text)
	err := m.Errors[text]
	delay := m.Delay
	m.mu.Unlock()

	if delay > 0 {
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if err != nil {
		return err
	}

	return os.WriteFile(outputFile, GenerateAudioData(), 0644)
}

// Name returns the provider name
func (m *MockProvider) Name() string { return "mock" }

// IsAvailable always succeeds
func (m *MockProvider) IsAvailable() error { return nil }

// Words returns the words synthesized so far
func (m *MockProvider) Words() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.Calls...)
}

// MockPlayer is a playback device whose clips last PlayDuration
type MockPlayer struct {
	mu sync.Mutex

	PlayDuration time.Duration
	LoadErr      error
	PlayErr      error

	file    string
	until   time.Time
	Loaded  []string
	Stops   int
	Unloads int
}

// Load selects the file to play; the file must exist
func (m *MockPlayer) Load(file string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.LoadErr != nil {
		return m.LoadErr
	}
	if _, err := os.Stat(file); err != nil {
		return fmt.Errorf("cannot load audio file: %w", err)
	}
	m.file = file
	m.Loaded = append(m.Loaded, file)
	return nil
}

// Play starts the simulated clip
func (m *MockPlayer) Play() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.PlayErr != nil {
		return m.PlayErr
	}
	if m.file == "" {
		return errors.New("no audio file loaded")
	}
	m.until = time.Now().Add(m.PlayDuration)
	return nil
}

// Stop ends the clip immediately
func (m *MockPlayer) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Stops++
	m.until = time.Time{}
}

// Unload forgets the loaded file
func (m *MockPlayer) Unload() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Unloads++
	m.file = ""
	m.until = time.Time{}
}

// Busy reports whether the simulated clip is still playing
func (m *MockPlayer) Busy() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return time.Now().Before(m.until)
}

// StopCount returns how many times Stop was called
func (m *MockPlayer) StopCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.Stops
}

// RecordingSpeaker records spoken words instead of producing audio.
// Each Speak blocks for Duration or until interrupted.
type RecordingSpeaker struct {
	mu       sync.Mutex
	Duration time.Duration
	Spoken   []string
	OnSpeak  func(word string)

	interrupt chan struct{}
}

// Speak records word and simulates playback
func (r *RecordingSpeaker) Speak(ctx context.Context, word string) {
	r.mu.Lock()
	r.Spoken = append(r.Spoken, word)
	hook := r.OnSpeak
	if r.interrupt == nil {
		r.interrupt = make(chan struct{})
	}
	interrupt := r.interrupt
	r.mu.Unlock()

	if hook != nil {
		hook(word)
	}
	if r.Duration <= 0 {
		return
	}

	select {
	case <-time.After(r.Duration):
	case <-interrupt:
	case <-ctx.Done():
	}
}

// Interrupt cuts the current Speak short
func (r *RecordingSpeaker) Interrupt() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.interrupt != nil {
		close(r.interrupt)
		r.interrupt = nil
	}
}

// Words returns the words spoken so far
func (r *RecordingSpeaker) Words() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.Spoken...)
}

// GenerateAudioData generates mock audio data
func GenerateAudioData() []byte {
	// Simple mock MP3 header
	return []byte{0xFF, 0xFB, 0x90, 0x00, 0x00, 0x00, 0x00, 0x00}
}
