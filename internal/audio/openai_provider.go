package audio

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// OpenAIProvider implements Provider interface for OpenAI TTS
type OpenAIProvider struct {
	client *openai.Client
	config *Config
}

// NewOpenAIProvider creates a new OpenAI TTS provider
func NewOpenAIProvider(config *Config) (Provider, error) {
	if config.OpenAIKey == "" {
		return nil, fmt.Errorf("OpenAI API key is required")
	}

	return &OpenAIProvider{
		client: openai.NewClient(config.OpenAIKey),
		config: config,
	}, nil
}

// supportsInstructions reports whether the model accepts voice instructions
func (p *OpenAIProvider) supportsInstructions() bool {
	return p.config.OpenAIModel == "gpt-4o-mini-tts" || p.config.OpenAIModel == "gpt-4o-mini-audio-preview"
}

var speechFormats = map[string]openai.SpeechResponseFormat{
	".mp3":  openai.SpeechResponseFormatMp3,
	".wav":  openai.SpeechResponseFormatWav,
	".opus": openai.SpeechResponseFormatOpus,
	".aac":  openai.SpeechResponseFormatAac,
	".flac": openai.SpeechResponseFormatFlac,
}

// speechRequest builds the request for one spoken word
func (p *OpenAIProvider) speechRequest(word, outputFile string) (openai.CreateSpeechRequest, error) {
	format, ok := speechFormats[strings.ToLower(filepath.Ext(outputFile))]
	if !ok {
		return openai.CreateSpeechRequest{}, fmt.Errorf("unsupported audio format for OpenAI: %q", filepath.Ext(outputFile))
	}

	req := openai.CreateSpeechRequest{
		Model:          openai.SpeechModel(p.config.OpenAIModel),
		Input:          word,
		Voice:          openai.SpeechVoice(p.config.OpenAIVoice),
		Speed:          p.config.OpenAISpeed,
		ResponseFormat: format,
	}
	if p.config.OpenAIInstruction != "" && p.supportsInstructions() {
		req.Instructions = p.config.OpenAIInstruction
	}
	return req, nil
}

// GenerateAudio streams the spoken word from the speech endpoint into outputFile
func (p *OpenAIProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	req, err := p.speechRequest(strings.TrimSpace(text), outputFile)
	if err != nil {
		return err
	}
	fmt.Printf("OpenAI TTS: '%s' (%s, voice %s)\n", req.Input, req.Model, req.Voice)

	response, err := p.client.CreateSpeech(ctx, req)
	if err != nil {
		if strings.Contains(err.Error(), "does not have access to model") {
			return fmt.Errorf("OpenAI TTS API error: %w (try --openai-model tts-1)", err)
		}
		return fmt.Errorf("OpenAI TTS API error: %w", err)
	}
	defer response.Close()

	out, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	written, err := io.Copy(out, response)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	if written == 0 {
		return fmt.Errorf("no audio data received from OpenAI")
	}

	return nil
}

// Name returns the provider name
func (p *OpenAIProvider) Name() string {
	return "openai"
}

// IsAvailable checks if the OpenAI API is accessible
func (p *OpenAIProvider) IsAvailable() error {
	if p.config.OpenAIKey == "" {
		return fmt.Errorf("OpenAI API key not configured")
	}
	return nil
}
