package ai

import (
	"context"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/adapter"
)

var _ adapter.TextGenerator = (*NoopGenerator)(nil)

// NoopGenerator returns canned responses; useful for dev mode without keys.
type NoopGenerator struct {
	Reply string
}

func (n *NoopGenerator) Generate(ctx context.Context, messages []adapter.Message, opts adapter.GenerateOptions) (string, error) {
	if n.Reply != "" {
		return n.Reply, nil
	}
	if opts.JSONMode {
		return `{"course":{"title":"Sample Course","description":"","difficulty":"beginner","estimated_time":"1h"},"lessons":[]}`, nil
	}
	return "ok", nil
}

func (n *NoopGenerator) CountTokens(messages []adapter.Message) int {
	total := 0
	for _, m := range messages {
		total += len(m.Content) / 4
	}
	return total
}
