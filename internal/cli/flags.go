package cli

import "time"

// Flags holds all command-line flag values
type Flags struct {
	// General flags
	CfgFile    string
	OutputDir  string // where incorrects_*.txt files are written
	ListModels bool
	Archive    bool
	Read       bool   // read the word file aloud without the GUI
	Say        string // speak a single word and exit

	// Quiz flags
	Interval     time.Duration
	TestInterval time.Duration
	EarlyEnd     bool

	// Audio flags
	Provider    string
	Language    string
	Voice       string
	AudioFormat string
	NoFallback  bool
	NoCache     bool
	Rate        float64

	// OpenAI flags
	OpenAIModel       string
	OpenAISpeed       float64
	OpenAIInstruction string

	// Gemini flags
	GeminiModel string
}

// NewFlags creates a new Flags instance with default values
func NewFlags() *Flags {
	return &Flags{
		OutputDir:    ".",
		Interval:     5 * time.Second,
		TestInterval: 1 * time.Second,
		Provider:     "gtts",
		Language:     "en",
		AudioFormat:  "mp3",
		Rate:         2,
		OpenAIModel:  "gpt-4o-mini-tts",
		OpenAISpeed:  1.0,
		GeminiModel:  "gemini-2.5-flash-preview-tts",
	}
}
