package audio

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"google.golang.org/genai"
)

// GeminiProvider implements Provider interface for Gemini speech generation
type GeminiProvider struct {
	client *genai.Client
	config *Config
}

// NewGeminiProvider creates a new Gemini TTS provider
func NewGeminiProvider(ctx context.Context, config *Config) (Provider, error) {
	if config.GeminiKey == "" {
		return nil, fmt.Errorf("Gemini API key is required")
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  config.GeminiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create Gemini client: %w", err)
	}

	return &GeminiProvider{client: client, config: config}, nil
}

// prompt asks the model to pronounce exactly one word
func (p *GeminiProvider) prompt(text string) string {
	return fmt.Sprintf("Say clearly, once: %s", strings.TrimSpace(text))
}

// speechConfig builds the request settings for the configured voice and language
func (p *GeminiProvider) speechConfig() *genai.GenerateContentConfig {
	return &genai.GenerateContentConfig{
		ResponseModalities: []string{"AUDIO"},
		SpeechConfig: &genai.SpeechConfig{
			LanguageCode: p.config.Language,
			VoiceConfig: &genai.VoiceConfig{
				PrebuiltVoiceConfig: &genai.PrebuiltVoiceConfig{
					VoiceName: p.config.GeminiVoice,
				},
			},
		},
	}
}

// GenerateAudio generates audio using Gemini; PCM output is stored as WAV
// (and converted with ffmpeg when an MP3 is requested)
func (p *GeminiProvider) GenerateAudio(ctx context.Context, text string, outputFile string) error {
	if err := ValidateText(text); err != nil {
		return err
	}

	fmt.Printf("Gemini TTS: Using model '%s' with voice '%s'\n", p.config.GeminiModel, p.config.GeminiVoice)

	resp, err := p.client.Models.GenerateContent(ctx, p.config.GeminiModel, genai.Text(p.prompt(text)), p.speechConfig())
	if err != nil {
		return fmt.Errorf("Gemini TTS API error: %w", err)
	}

	pcm, mime := extractAudio(resp)
	if len(pcm) == 0 {
		return fmt.Errorf("no audio data received from Gemini")
	}

	var buf bytes.Buffer
	if err := WriteWAV(&buf, pcm, sampleRateFromMIME(mime)); err != nil {
		return err
	}

	if strings.ToLower(filepath.Ext(outputFile)) == ".wav" {
		return os.WriteFile(outputFile, buf.Bytes(), 0644)
	}

	tempWAV := strings.TrimSuffix(outputFile, filepath.Ext(outputFile)) + "_gemini.wav"
	if err := os.WriteFile(tempWAV, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write audio file: %w", err)
	}
	defer os.Remove(tempWAV)

	return ConvertWAVToMP3(tempWAV, outputFile)
}

// extractAudio concatenates all inline audio parts of the first candidate
func extractAudio(resp *genai.GenerateContentResponse) ([]byte, string) {
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, ""
	}

	var data []byte
	mime := ""
	for _, part := range resp.Candidates[0].Content.Parts {
		if part == nil || part.InlineData == nil {
			continue
		}
		data = append(data, part.InlineData.Data...)
		if mime == "" {
			mime = part.InlineData.MIMEType
		}
	}
	return data, mime
}

// Name returns the provider name
func (p *GeminiProvider) Name() string {
	return "gemini"
}

// IsAvailable checks that an API key is configured
func (p *GeminiProvider) IsAvailable() error {
	if p.config.GeminiKey == "" {
		return fmt.Errorf("Gemini API key not configured")
	}
	return nil
}
