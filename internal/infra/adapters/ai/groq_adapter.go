package ai

import (
	"context"
	"errors"
	"fmt"
	"time"

	openai "github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/pkoukk/tiktoken-go"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/metrics"
)

// Compile-time assurance this adapter satisfies the port
var _ adapter.TextGenerator = (*GroqAdapter)(nil)

// GroqAdapter implements adapter.TextGenerator against Groq's
// OpenAI-compatible Chat Completions endpoint.
type GroqAdapter struct {
	client       openai.Client
	defaultModel string
	encoding     *tiktoken.Tiktoken
}

func NewGroqAdapter(apiKey, baseURL, defaultModel string) (*GroqAdapter, error) {
	if apiKey == "" {
		return nil, errors.New("groq api key empty")
	}
	if baseURL == "" {
		baseURL = "https://api.groq.com/openai/v1"
	}
	// Best-effort token estimation; Groq models are not in tiktoken's
	// registry so the cl100k base encoding stands in for all of them.
	enc, err := tiktoken.GetEncoding("cl100k_base")
	if err != nil {
		return nil, fmt.Errorf("load token encoding: %w", err)
	}
	return &GroqAdapter{
		client:       openai.NewClient(option.WithAPIKey(apiKey), option.WithBaseURL(baseURL)),
		defaultModel: defaultModel,
		encoding:     enc,
	}, nil
}

func (g *GroqAdapter) Generate(ctx context.Context, messages []adapter.Message, opts adapter.GenerateOptions) (string, error) {
	model := opts.Model
	if model == "" {
		model = g.defaultModel
	}

	params := openai.ChatCompletionNewParams{
		Model:       openai.ChatModel(model),
		Messages:    toOpenAIMessages(messages),
		Temperature: openai.Float(opts.Temperature),
	}
	if opts.JSONMode {
		params.ResponseFormat = openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONObject: &openai.ResponseFormatJSONObjectParam{},
		}
	}

	start := time.Now()
	completion, err := g.client.Chat.Completions.New(ctx, params)
	latency := int(time.Since(start) / time.Millisecond)

	if err != nil {
		metrics.ObserveGeneration("groq", model, g.CountTokens(messages), latency, false)
		return "", fmt.Errorf("groq chat: %w", err)
	}
	if len(completion.Choices) == 0 {
		metrics.ObserveGeneration("groq", model, g.CountTokens(messages), latency, false)
		return "", errors.New("groq chat: empty choices")
	}

	metrics.ObserveGeneration("groq", model, g.CountTokens(messages), latency, true)
	return completion.Choices[0].Message.Content, nil
}

func (g *GroqAdapter) CountTokens(messages []adapter.Message) int {
	n := 0
	for _, m := range messages {
		n += len(g.encoding.Encode(m.Content, nil, nil))
	}
	return n
}

func toOpenAIMessages(messages []adapter.Message) []openai.ChatCompletionMessageParamUnion {
	out := make([]openai.ChatCompletionMessageParamUnion, 0, len(messages))
	for _, m := range messages {
		switch m.Role {
		case "system":
			out = append(out, openai.SystemMessage(m.Content))
		case "assistant":
			out = append(out, openai.AssistantMessage(m.Content))
		default:
			out = append(out, openai.UserMessage(m.Content))
		}
	}
	return out
}
