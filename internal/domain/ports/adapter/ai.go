package adapter

import "context"

// Message represents a chat message.
type Message struct {
	Role    string `json:"role"` // "user", "assistant", "system"
	Content string `json:"content"`
}

// GenerateOptions tune a single text-generation call.
type GenerateOptions struct {
	Model       string
	Temperature float64
	// JSONMode asks the provider for a JSON object response. The returned
	// text may still carry markdown fences; callers must unwrap before
	// parsing.
	JSONMode bool
}

// TextGenerator is the port for the opaque text-generation capability.
type TextGenerator interface {
	// Generate returns the assistant text for the given messages.
	Generate(ctx context.Context, messages []Message, opts GenerateOptions) (string, error)

	// CountTokens returns a best-effort prompt token count for the messages.
	CountTokens(messages []Message) int
}

// AudioTranscriber turns a raw audio payload into a plain-text transcript.
// Used only by the expensive acquisition fallback.
type AudioTranscriber interface {
	TranscribeAudio(ctx context.Context, mimeType string, audio []byte) (string, error)
}
