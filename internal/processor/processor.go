package processor

import (
	"context"
	"fmt"
	"os"
	"strings"
	"sync"

	"fyne.io/fyne/v2/app"

	"codeberg.org/snonux/spellbee/internal/audio"
	"codeberg.org/snonux/spellbee/internal/cli"
	"codeberg.org/snonux/spellbee/internal/gui"
	"codeberg.org/snonux/spellbee/internal/playback"
	"codeberg.org/snonux/spellbee/internal/wordlist"
)

// AppID identifies the fyne application (preferences, storage)
const AppID = "org.codeberg.snonux.spellbee"

// wordSpeaker is what the processor needs from a playback.Speaker
type wordSpeaker interface {
	playback.WordSpeaker
	SpeakErr(ctx context.Context, word string) error
}

// Processor runs one of the program's modes from the parsed flags
type Processor struct {
	flags *cli.Flags

	// newSpeaker is replaced in tests to avoid real synthesis and playback.
	// The returned func releases what the speaker holds for the run.
	newSpeaker func() (wordSpeaker, func(), error)
}

// NewProcessor creates a new processor
func NewProcessor(flags *cli.Flags) *Processor {
	p := &Processor{flags: flags}
	p.newSpeaker = p.defaultSpeaker
	return p
}

// AudioConfig translates the flags into a provider configuration
func (p *Processor) AudioConfig() *audio.Config {
	config := audio.DefaultProviderConfig()
	f := p.flags

	config.Provider = strings.ToLower(f.Provider)
	config.OutputFormat = f.AudioFormat
	config.Language = f.Language
	if config.Provider == "gtts" && config.OutputFormat != "mp3" {
		fmt.Printf("Note: Google TTS only produces mp3, using mp3\n")
		config.OutputFormat = "mp3"
	}
	config.Fallback = !f.NoFallback
	config.EnableCache = !f.NoCache
	if f.Rate > 0 {
		config.RequestsPerSecond = f.Rate
	}

	config.OpenAIKey = cli.GetOpenAIKey()
	if f.OpenAIModel != "" {
		config.OpenAIModel = f.OpenAIModel
	}
	if f.OpenAISpeed > 0 {
		config.OpenAISpeed = f.OpenAISpeed
	}
	if f.OpenAIInstruction != "" {
		config.OpenAIInstruction = f.OpenAIInstruction
	}

	config.GeminiKey = cli.GetGeminiKey()
	if f.GeminiModel != "" {
		config.GeminiModel = f.GeminiModel
	}

	if f.Voice != "" {
		switch config.Provider {
		case "openai":
			config.OpenAIVoice = f.Voice
		case "gemini":
			config.GeminiVoice = f.Voice
		case "espeak":
			if audio.IsESpeakVoice(config.Language, f.Voice) {
				config.ESpeakVoice = f.Voice
			} else {
				fmt.Printf("Warning: unknown espeak-ng voice %q, choose one of %s\n",
					f.Voice, strings.Join(audio.ListVoices(config.Language), ", "))
			}
		default:
			fmt.Printf("Warning: --voice is ignored by the %s provider\n", config.Provider)
		}
	}

	return config
}

func (p *Processor) defaultSpeaker() (wordSpeaker, func(), error) {
	config := p.AudioConfig()

	chain, err := audio.NewProviderChain(config)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create audio provider: %w", err)
	}
	release := func() {
		if err := chain.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to remove audio cache: %v\n", err)
		}
	}

	speakerConfig := playback.DefaultSpeakerConfig()
	speakerConfig.Format = config.OutputFormat

	return playback.NewSpeaker(chain, audio.NewDevice(), speakerConfig), release, nil
}

// RunGUIMode launches the GUI application, optionally with a word list
// already loaded
func (p *Processor) RunGUIMode(wordFile string) error {
	speaker, release, err := p.newSpeaker()
	if err != nil {
		return err
	}
	defer release()

	guiConfig := gui.DefaultConfig()
	guiConfig.ResultsDir = p.flags.OutputDir
	guiConfig.ReadInterval = p.flags.Interval
	guiConfig.TestInterval = p.flags.TestInterval
	guiConfig.EndEarly = p.flags.EarlyEnd
	guiConfig.WordFile = wordFile

	application := gui.New(app.NewWithID(AppID), speaker, guiConfig)
	application.Run()

	return nil
}

// ReadAll reads every word of wordFile aloud, waiting the configured interval
// between words. Cancelling ctx stops the run after the current word.
func (p *Processor) ReadAll(ctx context.Context, wordFile string) error {
	words, err := wordlist.ReadWordFile(wordFile)
	if err != nil {
		return err
	}
	if len(words) == 0 {
		return fmt.Errorf("no words found in %s", wordFile)
	}

	speaker, release, err := p.newSpeaker()
	if err != nil {
		return err
	}
	defer release()

	counter := &countingSpeaker{speaker: speaker}
	var cancelled bool
	worker := playback.NewWorker(counter, playback.Listener{
		OnWord: func(index int, word string) {
			fmt.Printf("Reading %d/%d: %s\n", index+1, len(words), word)
		},
		OnFinished: func(c bool) {
			cancelled = c
		},
	})

	if err := worker.Start(words, p.flags.Interval); err != nil {
		return err
	}

	select {
	case <-worker.Done():
	case <-ctx.Done():
		worker.Stop()
		<-worker.Done()
	}

	spoken, failed := counter.counts()
	fmt.Printf("\n=== Reading Summary ===\n")
	fmt.Printf("Total words: %d\n", len(words))
	fmt.Printf("Spoken: %d\n", spoken)
	if failed > 0 {
		fmt.Printf("Errors: %d\n", failed)
	}
	if cancelled {
		fmt.Printf("Stopped early\n")
	}
	fmt.Printf("=======================\n")

	if cancelled {
		return ctx.Err()
	}
	return nil
}

// SayWord speaks a single word and reports any failure
func (p *Processor) SayWord(ctx context.Context, word string) error {
	word = strings.TrimSpace(word)
	if err := audio.ValidateText(word); err != nil {
		return fmt.Errorf("invalid word '%s': %w", word, err)
	}

	speaker, release, err := p.newSpeaker()
	if err != nil {
		return err
	}
	defer release()

	fmt.Printf("Saying: %s\n", word)
	return speaker.SpeakErr(ctx, word)
}

// countingSpeaker tallies outcomes while keeping the worker's
// log-and-continue behaviour
type countingSpeaker struct {
	speaker wordSpeaker

	mu     sync.Mutex
	spoken int
	failed int
}

func (c *countingSpeaker) Speak(ctx context.Context, word string) {
	err := c.speaker.SpeakErr(ctx, word)
	if ctx.Err() != nil {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		c.failed++
		return
	}
	c.spoken++
}

func (c *countingSpeaker) Interrupt() {
	c.speaker.Interrupt()
}

func (c *countingSpeaker) counts() (spoken, failed int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.spoken, c.failed
}
