package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v4/pgxpool"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/repository"
)

var _ repository.WorkspaceContextRepository = (*workspaceContextRepo)(nil)

type workspaceContextRepo struct {
	pool *pgxpool.Pool
}

func NewWorkspaceContextRepo(pool *pgxpool.Pool) *workspaceContextRepo {
	return &workspaceContextRepo{pool: pool}
}

func (r *workspaceContextRepo) ListMemories(ctx context.Context, tx repository.Tx, workspaceID int64) ([]model.Memory, error) {
	const q = `SELECT key, value FROM memories WHERE workspace_id = $1;`

	rows, err := pickRows(ctx, r.pool, tx, q, workspaceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Memory
	for rows.Next() {
		m := model.Memory{WorkspaceID: workspaceID}
		if err := rows.Scan(&m.Key, &m.Value); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *workspaceContextRepo) RecentMessages(ctx context.Context, tx repository.Tx, workspaceID int64, limit int) ([]model.Message, error) {
	const q = `
SELECT id, role, content, created_at
FROM messages
WHERE workspace_id = $1
ORDER BY created_at ASC
LIMIT $2;`

	rows, err := pickRows(ctx, r.pool, tx, q, workspaceID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Message
	for rows.Next() {
		m := model.Message{WorkspaceID: workspaceID}
		if err := rows.Scan(&m.ID, &m.Role, &m.Content, &m.CreatedAt); err != nil {
			return nil, domain.ErrReadDatabaseRow
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func (r *workspaceContextRepo) SaveMessage(ctx context.Context, tx repository.Tx, m *model.Message) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	const q = `
INSERT INTO messages (id, workspace_id, role, content, created_at)
VALUES ($1,$2,$3,$4,$5);`

	if _, err := execSQL(ctx, r.pool, tx, q, m.ID, m.WorkspaceID, m.Role, m.Content, m.CreatedAt); err != nil {
		return fmt.Errorf("save message: %w", err)
	}
	return nil
}

func (r *workspaceContextRepo) UpsertMemory(ctx context.Context, tx repository.Tx, mem *model.Memory) error {
	const q = `
INSERT INTO memories (workspace_id, key, value)
VALUES ($1,$2,$3)
ON CONFLICT (workspace_id, key) DO UPDATE SET value = EXCLUDED.value;`

	if _, err := execSQL(ctx, r.pool, tx, q, mem.WorkspaceID, mem.Key, mem.Value); err != nil {
		return fmt.Errorf("upsert memory: %w", err)
	}
	return nil
}
