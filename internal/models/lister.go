package models

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/sashabaranov/go-openai"
)

// modelClient is the part of the OpenAI client the lister needs
type modelClient interface {
	ListModels(ctx context.Context) (openai.ModelsList, error)
}

// Lister handles listing available OpenAI models
type Lister struct {
	apiKey string
	client modelClient
}

// NewLister creates a new model lister
func NewLister(apiKey string) *Lister {
	return &Lister{
		apiKey: apiKey,
		client: openai.NewClient(apiKey),
	}
}

// ListTTSModels returns the sorted IDs of speech-capable models
func (l *Lister) ListTTSModels(ctx context.Context) ([]string, error) {
	if l.apiKey == "" {
		return nil, fmt.Errorf("OpenAI API key not found. Set OPENAI_API_KEY environment variable or configure in .spellbee.yaml")
	}

	models, err := l.client.ListModels(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list models: %w", err)
	}

	var tts []string
	for _, model := range models.Models {
		if isSpeechModel(model.ID) {
			tts = append(tts, model.ID)
		}
	}
	sort.Strings(tts)

	return tts, nil
}

// isSpeechModel reports whether id can synthesize speech. Transcription
// models mention "audio" too but cannot speak.
func isSpeechModel(id string) bool {
	if strings.Contains(id, "transcribe") || strings.Contains(id, "whisper") {
		return false
	}
	return strings.Contains(id, "tts") || strings.Contains(id, "audio")
}

// PrintTTSModels writes the available speech models to w
func (l *Lister) PrintTTSModels(ctx context.Context, w io.Writer) error {
	models, err := l.ListTTSModels(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintln(w, "Text-to-Speech (TTS) Models:")
	if len(models) == 0 {
		fmt.Fprintln(w, "  No TTS models found")
		return nil
	}
	for _, model := range models {
		fmt.Fprintf(w, "  %s\n", model)
	}
	fmt.Fprintln(w, "\nUse one with: spellbee --provider openai --openai-model <model>")

	return nil
}
