package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"codeberg.org/snonux/spellbee/internal"
)

// CreateRootCommand creates and configures the root cobra command
func CreateRootCommand(flags *Flags) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "spellbee [wordfile]",
		Short: "Spelling bee word reader and quiz",
		Long: `spellbee reads a spelling list aloud and quizzes you on it.

Words come from a plain text file, one word per line. Each word is
synthesized with a text-to-speech service and played back. In a test,
every word you miss is saved to incorrects_<timestamp>.txt.

Examples:
  spellbee                        # Launch the GUI (default)
  spellbee words.txt              # Launch the GUI with a list loaded
  spellbee --read words.txt       # Read the list aloud in the terminal
  spellbee --say necessary        # Speak one word
  spellbee --archive              # Move old results into archive/`,
		Args:    cobra.MaximumNArgs(1),
		Version: internal.Version,
	}

	setupFlags(rootCmd, flags)

	return rootCmd
}

func setupFlags(cmd *cobra.Command, flags *Flags) {
	// Global flags
	cmd.PersistentFlags().StringVar(&flags.CfgFile, "config", "", "config file (default is $HOME/.spellbee.yaml)")

	// Local flags
	cmd.Flags().StringVarP(&flags.OutputDir, "output", "o", flags.OutputDir, "Directory for incorrects_*.txt result files")
	cmd.Flags().BoolVar(&flags.Read, "read", false, "Read the word file aloud without opening the GUI")
	cmd.Flags().StringVar(&flags.Say, "say", "", "Speak a single word and exit")
	cmd.Flags().BoolVar(&flags.ListModels, "list-models", false, "List available OpenAI speech models for the current API key")
	cmd.Flags().BoolVar(&flags.Archive, "archive", false, "Move result files in the output directory into archive/")

	// Quiz flags
	cmd.Flags().DurationVar(&flags.Interval, "interval", flags.Interval, "Pause between words when reading the whole list")
	cmd.Flags().DurationVar(&flags.TestInterval, "test-interval", flags.TestInterval, "Pause after each test prompt")
	cmd.Flags().BoolVar(&flags.EarlyEnd, "early-end", false, "End a test as soon as the last word is read, before it is answered")

	// Audio flags
	cmd.Flags().StringVar(&flags.Provider, "provider", flags.Provider, "Speech provider: gtts, openai, gemini or espeak")
	cmd.Flags().StringVar(&flags.Language, "lang", flags.Language, "Language code of the word list, e.g. en or en-GB")
	cmd.Flags().StringVar(&flags.Voice, "voice", "", "Voice name for the chosen provider (default: provider default)")
	cmd.Flags().StringVarP(&flags.AudioFormat, "format", "f", flags.AudioFormat, "Audio format (mp3 or wav)")
	cmd.Flags().BoolVar(&flags.NoFallback, "no-fallback", false, "Do not fall back to espeak-ng when the provider fails")
	cmd.Flags().BoolVar(&flags.NoCache, "no-cache", false, "Synthesize every word again instead of reusing clips from this session")
	cmd.Flags().Float64Var(&flags.Rate, "rate", flags.Rate, "Maximum speech requests per second for network providers")

	// OpenAI flags
	cmd.Flags().StringVar(&flags.OpenAIModel, "openai-model", flags.OpenAIModel, "OpenAI TTS model: tts-1, tts-1-hd, gpt-4o-mini-tts")
	cmd.Flags().Float64Var(&flags.OpenAISpeed, "openai-speed", flags.OpenAISpeed, "OpenAI speech speed (0.25 to 4.0)")
	cmd.Flags().StringVar(&flags.OpenAIInstruction, "openai-instruction", "", "Voice instructions for the gpt-4o-mini-tts model")

	// Gemini flags
	cmd.Flags().StringVar(&flags.GeminiModel, "gemini-model", flags.GeminiModel, "Gemini speech model")

	bindFlagsToViper(cmd)
}

// flagKeys maps config file keys to the flags that override them
var flagKeys = map[string]string{
	"output.directory":         "output",
	"quiz.interval":            "interval",
	"quiz.test_interval":       "test-interval",
	"quiz.early_end":           "early-end",
	"audio.provider":           "provider",
	"audio.language":           "lang",
	"audio.voice":              "voice",
	"audio.format":             "format",
	"audio.no_fallback":        "no-fallback",
	"audio.no_cache":           "no-cache",
	"audio.rate":               "rate",
	"audio.openai_model":       "openai-model",
	"audio.openai_speed":       "openai-speed",
	"audio.openai_instruction": "openai-instruction",
	"audio.gemini_model":       "gemini-model",
}

func bindFlagsToViper(cmd *cobra.Command) {
	for key, name := range flagKeys {
		if f := cmd.Flags().Lookup(name); f != nil {
			viper.BindPFlag(key, f)
		}
	}
}

// ResolveFlags fills flags from the merged view of command line, environment
// and config file. Explicit flags win over the config file.
func ResolveFlags(flags *Flags) {
	flags.OutputDir = viper.GetString("output.directory")
	flags.Interval = viper.GetDuration("quiz.interval")
	flags.TestInterval = viper.GetDuration("quiz.test_interval")
	flags.EarlyEnd = viper.GetBool("quiz.early_end")
	flags.Provider = viper.GetString("audio.provider")
	flags.Language = viper.GetString("audio.language")
	flags.Voice = viper.GetString("audio.voice")
	flags.AudioFormat = viper.GetString("audio.format")
	flags.NoFallback = viper.GetBool("audio.no_fallback")
	flags.NoCache = viper.GetBool("audio.no_cache")
	flags.Rate = viper.GetFloat64("audio.rate")
	flags.OpenAIModel = viper.GetString("audio.openai_model")
	flags.OpenAISpeed = viper.GetFloat64("audio.openai_speed")
	flags.OpenAIInstruction = viper.GetString("audio.openai_instruction")
	flags.GeminiModel = viper.GetString("audio.gemini_model")
}

// InitConfig initializes viper configuration
func InitConfig(cfgFile string) {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error getting home directory: %v\n", err)
			return
		}

		// Search config in home directory with name ".spellbee" (without extension)
		viper.AddConfigPath(home)
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName(".spellbee")
	}

	// Environment variables
	// SPELLBEE_AUDIO_PROVIDER overrides audio.provider
	viper.SetEnvPrefix("SPELLBEE")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// GetOpenAIKey retrieves the OpenAI API key from environment or config
func GetOpenAIKey() string {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.openai_key")
}

// GetGeminiKey retrieves the Gemini API key from environment or config
func GetGeminiKey() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	if key := os.Getenv("GOOGLE_API_KEY"); key != "" {
		return key
	}
	return viper.GetString("audio.gemini_key")
}
