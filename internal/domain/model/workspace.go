package model

import "time"

// Memory is a key/value fact remembered for a workspace, unique per
// workspace+key and upsertable.
type Memory struct {
	WorkspaceID int64  `json:"workspace_id"`
	Key         string `json:"key"`
	Value       string `json:"value"`
}

// Message is one turn of the workspace conversation.
type Message struct {
	ID          string    `json:"id"`
	WorkspaceID int64     `json:"workspace_id"`
	Role        string    `json:"role"` // "user", "assistant", "system"
	Content     string    `json:"content"`
	CreatedAt   time.Time `json:"created_at"`
}

// Transcript is an ephemeral value produced by acquisition and consumed
// immediately by the structuring stage; it is never persisted as an entity.
type Transcript struct {
	Text string
	Path string
}
