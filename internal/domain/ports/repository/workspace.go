package repository

import (
	"context"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
)

// WorkspaceContextRepository reads and writes the conversational context of a
// workspace: key/value memories and the message history.
type WorkspaceContextRepository interface {
	ListMemories(ctx context.Context, tx Tx, workspaceID int64) ([]model.Memory, error)

	// RecentMessages returns up to limit messages ordered oldest-first.
	RecentMessages(ctx context.Context, tx Tx, workspaceID int64, limit int) ([]model.Message, error)

	SaveMessage(ctx context.Context, tx Tx, msg *model.Message) error

	// UpsertMemory inserts or replaces the value for workspace+key.
	UpsertMemory(ctx context.Context, tx Tx, mem *model.Memory) error
}
