package audio

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// ESpeakConfig holds configuration for espeak-ng audio generation
type ESpeakConfig struct {
	Voice     string // Voice variant (e.g., "en", "en+m1", "en-us+f1")
	Speed     int    // Speech speed in words per minute (default: 150)
	Pitch     int    // Pitch adjustment, 0 to 99 (default: 50)
	Amplitude int    // Volume/amplitude, 0 to 200 (default: 100)
	WordGap   int    // Gap between words in 10ms units (default: 0)
}

// DefaultConfig returns the default espeak-ng configuration for English
func DefaultConfig() *ESpeakConfig {
	return &ESpeakConfig{
		Voice:     "en",
		Speed:     150,
		Pitch:     50,
		Amplitude: 100,
		WordGap:   0,
	}
}

// ESpeakConfigFor derives the espeak-ng settings from the provider config
func ESpeakConfigFor(config *Config) *ESpeakConfig {
	c := DefaultConfig()
	if config == nil {
		return c
	}
	if config.Language != "" {
		c.Voice = strings.ToLower(config.Language)
	}
	if config.ESpeakVoice != "" {
		c.Voice = config.ESpeakVoice
	}
	if config.ESpeakSpeed > 0 {
		c.Speed = clamp(config.ESpeakSpeed, 80, 450)
	}
	return c
}

// ESpeak provides an interface to the espeak-ng text-to-speech engine
type ESpeak struct {
	config *ESpeakConfig
}

// New creates a new ESpeak instance with the given configuration
func New(config *ESpeakConfig) (*ESpeak, error) {
	if err := checkESpeakInstalled(); err != nil {
		return nil, err
	}

	if config == nil {
		config = DefaultConfig()
	}

	return &ESpeak{config: config}, nil
}

// GenerateAudio generates a WAV file for the given text
func (e *ESpeak) GenerateAudio(text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	dir := filepath.Dir(outputFile)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	cmd := exec.Command("espeak-ng", e.args(text, outputFile)...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("espeak-ng failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// args builds the espeak-ng command line
func (e *ESpeak) args(text, outputFile string) []string {
	args := []string{
		"-v", e.config.Voice,
		"-s", fmt.Sprintf("%d", e.config.Speed),
		"-p", fmt.Sprintf("%d", e.config.Pitch),
		"-a", fmt.Sprintf("%d", e.config.Amplitude),
	}

	if e.config.WordGap > 0 {
		args = append(args, "-g", fmt.Sprintf("%d", e.config.WordGap))
	}

	return append(args, "-w", outputFile, strings.TrimSpace(text))
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// checkESpeakInstalled verifies that espeak-ng is available on the system
func checkESpeakInstalled() error {
	cmd := exec.Command("espeak-ng", "--version")
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("espeak-ng is not installed or not in PATH: %w", err)
	}
	return nil
}

// ListVoices returns the espeak-ng voice variants accepted for a language
func ListVoices(language string) []string {
	base := baseLanguage(strings.ToLower(language))
	return []string{
		base,
		base + "+m1",
		base + "+m2",
		base + "+m3",
		base + "+f1",
		base + "+f2",
		base + "+f3",
	}
}

// ConvertWAVToMP3 converts a WAV file to MP3 using ffmpeg
func ConvertWAVToMP3(wavFile, mp3File string) error {
	if err := exec.Command("ffmpeg", "-version").Run(); err != nil {
		return fmt.Errorf("ffmpeg is not installed or not in PATH: %w", err)
	}

	cmd := exec.Command("ffmpeg", "-i", wavFile, "-acodec", "mp3", "-y", mp3File)
	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg conversion failed: %w\nOutput: %s", err, string(output))
	}

	return nil
}

// GenerateMP3 generates an MP3 file for the given text
func (e *ESpeak) GenerateMP3(text string, outputFile string) error {
	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_temp.wav"

	if err := e.GenerateAudio(text, tempWAV); err != nil {
		return err
	}
	defer os.Remove(tempWAV)

	return ConvertWAVToMP3(tempWAV, outputFile)
}

// IsESpeakVoice reports whether voice is one of ListVoices(language)
func IsESpeakVoice(language, voice string) bool {
	for _, v := range ListVoices(language) {
		if v == voice {
			return true
		}
	}
	return false
}
