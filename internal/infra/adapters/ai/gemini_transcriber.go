package ai

import (
	"context"
	"errors"
	"strings"

	"google.golang.org/genai"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
)

var _ adapter.AudioTranscriber = (*GeminiTranscriber)(nil)

const transcribePrompt = "Transcribe this audio accurately. Respond only with the full plain text transcript."

// GeminiTranscriber implements the audio-transcription fallback using the
// official Gemini SDK with inline audio data.
type GeminiTranscriber struct {
	client *genai.Client
	model  string
}

func NewGeminiTranscriber(ctx context.Context, apiKey, model string) (*GeminiTranscriber, error) {
	if apiKey == "" {
		return nil, errors.New("gemini: empty api key")
	}
	if model == "" {
		model = "gemini-2.0-flash"
	}
	c, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, err
	}
	return &GeminiTranscriber{client: c, model: model}, nil
}

func (g *GeminiTranscriber) TranscribeAudio(ctx context.Context, mimeType string, audio []byte) (string, error) {
	contents := []*genai.Content{{
		Parts: []*genai.Part{
			{InlineData: &genai.Blob{MIMEType: mimeType, Data: audio}},
			{Text: transcribePrompt},
		},
	}}
	resp, err := g.client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", err
	}
	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return "", errors.New("gemini: empty transcription")
	}
	return text, nil
}
