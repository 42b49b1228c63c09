package audio

import (
	"context"
	"fmt"
	"time"

	"github.com/hegedustibor/htgo-tts/voices"
)

// Provider defines the interface for text-to-speech providers
type Provider interface {
	// GenerateAudio generates audio from text and saves it to the specified file
	GenerateAudio(ctx context.Context, text string, outputFile string) error

	// Name returns the provider name
	Name() string

	// IsAvailable checks if the provider is properly configured and available
	IsAvailable() error
}

// Config holds common configuration for audio providers
type Config struct {
	Provider     string // Provider name: "gtts", "openai", "gemini" or "espeak"
	OutputFormat string // Output format: "mp3" or "wav"
	Language     string // Language code passed to the synthesizer, e.g. "en"

	// Fallback to espeak-ng when the primary provider fails
	Fallback bool

	// Network providers are rate limited and guarded by a circuit breaker
	RequestsPerSecond float64
	MaxFailures       uint32
	BreakerTimeout    time.Duration

	// Cache synthesized words for the length of the run. CacheDir is the
	// parent of the temporary cache directory, os.TempDir() when empty.
	EnableCache bool
	CacheDir    string

	// OpenAI-specific settings
	OpenAIKey         string
	OpenAIModel       string  // "tts-1", "tts-1-hd", or "gpt-4o-mini-tts"
	OpenAIVoice       string  // "alloy", "ash", "coral", "echo", "fable", "onyx", "nova", "sage", "shimmer"
	OpenAISpeed       float64 // 0.25 to 4.0
	OpenAIInstruction string  // Voice instructions for gpt-4o-mini-tts model

	// Gemini-specific settings
	GeminiKey   string
	GeminiModel string
	GeminiVoice string

	// espeak-ng settings
	ESpeakSpeed int
	ESpeakVoice string // variant such as "en+f1", empty for the language default
}

// DefaultProviderConfig returns default configuration
func DefaultProviderConfig() *Config {
	return &Config{
		Provider:          "gtts",
		OutputFormat:      "mp3",
		Language:          voices.English,
		Fallback:          true,
		RequestsPerSecond: 2,
		MaxFailures:       5,
		BreakerTimeout:    30 * time.Second,
		OpenAIModel:       "gpt-4o-mini-tts",
		OpenAIVoice:       "alloy",
		OpenAISpeed:       1.0,
		OpenAIInstruction: "Read the single word slowly and clearly, the way a spelling bee host pronounces it.",
		GeminiModel:       "gemini-2.5-flash-preview-tts",
		GeminiVoice:       "Kore",
		ESpeakSpeed:       140,
	}
}

// NewProvider creates the appropriate audio provider based on configuration
func NewProvider(config *Config) (Provider, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	if err := ValidateLanguage(config.Language); err != nil {
		return nil, err
	}

	switch config.Provider {
	case "gtts":
		return NewGTTSProvider(config)

	case "openai":
		if config.OpenAIKey == "" {
			return nil, fmt.Errorf("OpenAI API key is required")
		}
		return NewOpenAIProvider(config)

	case "gemini":
		if config.GeminiKey == "" {
			return nil, fmt.Errorf("Gemini API key is required")
		}
		return NewGeminiProvider(context.Background(), config)

	case "espeak":
		return NewESpeakProvider(ESpeakConfigFor(config))

	default:
		return nil, fmt.Errorf("unknown audio provider: %s", config.Provider)
	}
}

// Chain is the provider used for speaking words. Close removes the clips it
// cached during the run.
type Chain struct {
	Provider
	cache *CachingProvider
}

// Close deletes the run's audio cache
func (c *Chain) Close() error {
	if c.cache == nil {
		return nil
	}
	return c.cache.ClearCache()
}

// NewProviderChain builds the provider used for speaking words: the configured
// provider, guarded when it talks to the network, optionally cached for the
// run, with an espeak-ng fallback when one is installed.
func NewProviderChain(config *Config) (*Chain, error) {
	if config == nil {
		config = DefaultProviderConfig()
	}

	provider, err := NewProvider(config)
	if err != nil {
		return nil, err
	}

	if IsNetworkProvider(config.Provider) {
		provider = Guard(provider, GuardConfig{
			RequestsPerSecond: config.RequestsPerSecond,
			MaxFailures:       config.MaxFailures,
			OpenTimeout:       config.BreakerTimeout,
		})
	}

	chain := &Chain{}
	if config.EnableCache {
		chain.cache, err = NewSessionCache(provider, config.CacheDir, cacheKeyParts(config)...)
		if err != nil {
			return nil, err
		}
		provider = chain.cache
	}

	if config.Fallback && config.Provider != "espeak" {
		fallback, err := NewESpeakProvider(ESpeakConfigFor(config))
		if err != nil {
			fmt.Printf("No offline fallback available: %v\n", err)
		} else {
			provider = NewProviderWithFallback(provider, fallback)
		}
	}

	chain.Provider = provider
	return chain, nil
}

// IsNetworkProvider reports whether the named provider calls a remote API
func IsNetworkProvider(name string) bool {
	switch name {
	case "gtts", "openai", "gemini":
		return true
	}
	return false
}

// cacheKeyParts lists the settings that change the synthesized audio
func cacheKeyParts(config *Config) []string {
	parts := []string{config.Provider, config.Language, config.OutputFormat}
	switch config.Provider {
	case "openai":
		parts = append(parts, config.OpenAIModel, config.OpenAIVoice,
			fmt.Sprintf("%.2f", config.OpenAISpeed), config.OpenAIInstruction)
	case "gemini":
		parts = append(parts, config.GeminiModel, config.GeminiVoice)
	case "espeak":
		parts = append(parts, config.ESpeakVoice)
	}
	return parts
}

// ProviderWithFallback wraps a primary provider with a fallback option
type ProviderWithFallback struct {
	primary  Provider
	fallback Provider
}

// NewProviderWithFallback creates a provider that falls back to secondary if primary fails
func NewProviderWithFallback(primary, fallback Provider) Provider {
	return &ProviderWithFallback{
		primary:  primary,
		fallback: fallback,
	}
}

// GenerateAudio tries primary provider first, falls back to secondary on error
func (p *ProviderWithFallback) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	err := p.primary.GenerateAudio(ctx, text, outputFile)
	if err != nil {
		// A cancelled run must not start a second synthesis
		if ctx.Err() != nil {
			return err
		}

		fmt.Printf("Primary provider (%s) failed: %v. Falling back to %s\n",
			p.primary.Name(), err, p.fallback.Name())

		return p.fallback.GenerateAudio(ctx, text, outputFile)
	}
	return nil
}

// Name returns the provider name
func (p *ProviderWithFallback) Name() string {
	return fmt.Sprintf("%s (fallback: %s)", p.primary.Name(), p.fallback.Name())
}

// IsAvailable checks if at least one provider is available
func (p *ProviderWithFallback) IsAvailable() error {
	primaryErr := p.primary.IsAvailable()
	if primaryErr == nil {
		return nil
	}

	fallbackErr := p.fallback.IsAvailable()
	if fallbackErr == nil {
		return nil
	}

	return fmt.Errorf("both providers unavailable: primary=%v, fallback=%v",
		primaryErr, fallbackErr)
}
