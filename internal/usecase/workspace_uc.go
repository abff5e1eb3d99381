package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/model"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/repository"
)

// Compile-time check
var _ WorkspaceUseCase = (*workspaceUC)(nil)

// memoryLimit caps transcript text stored as a workspace memory so the prompt
// context stays within model limits.
const memoryLimit = 8000

// contextInvalidator drops cached workspace context after a write.
type contextInvalidator interface {
	Invalidate(workspaceID int64)
}

// transcriptAcquirer resolves a video reference to normalized transcript text.
type transcriptAcquirer interface {
	Acquire(ctx context.Context, videoRef string) (*model.Transcript, error)
}

type WorkspaceUseCase interface {
	// AppendMessage stores one conversation turn and invalidates the cached
	// workspace context.
	AppendMessage(ctx context.Context, workspaceID int64, role, content string) (*model.Message, error)

	// UpsertMemory writes a key/value fact and invalidates the cached
	// workspace context.
	UpsertMemory(ctx context.Context, workspaceID int64, key, value string) (*model.Memory, error)

	// AttachVideoTranscript acquires the transcript for a video and folds it
	// into the workspace context as a memory plus a marker message, so the
	// next course build can draw on it.
	AttachVideoTranscript(ctx context.Context, workspaceID int64, videoRef string) (*model.Transcript, error)
}

type workspaceUC struct {
	repo        repository.WorkspaceContextRepository
	cache       contextInvalidator
	transcripts transcriptAcquirer
}

func NewWorkspaceUseCase(repo repository.WorkspaceContextRepository, cache contextInvalidator, transcripts transcriptAcquirer) *workspaceUC {
	return &workspaceUC{repo: repo, cache: cache, transcripts: transcripts}
}

func (w *workspaceUC) AppendMessage(ctx context.Context, workspaceID int64, role, content string) (*model.Message, error) {
	role = strings.TrimSpace(role)
	content = strings.TrimSpace(content)
	if workspaceID <= 0 || content == "" {
		return nil, domain.ErrInvalidArgument
	}
	switch role {
	case "user", "assistant", "system":
	default:
		return nil, domain.ErrInvalidArgument
	}

	msg := &model.Message{WorkspaceID: workspaceID, Role: role, Content: content}
	if err := w.repo.SaveMessage(ctx, nil, msg); err != nil {
		return nil, err
	}
	w.cache.Invalidate(workspaceID)
	return msg, nil
}

func (w *workspaceUC) UpsertMemory(ctx context.Context, workspaceID int64, key, value string) (*model.Memory, error) {
	key = strings.TrimSpace(key)
	if workspaceID <= 0 || key == "" {
		return nil, domain.ErrInvalidArgument
	}

	mem := &model.Memory{WorkspaceID: workspaceID, Key: key, Value: value}
	if err := w.repo.UpsertMemory(ctx, nil, mem); err != nil {
		return nil, err
	}
	w.cache.Invalidate(workspaceID)
	return mem, nil
}

func (w *workspaceUC) AttachVideoTranscript(ctx context.Context, workspaceID int64, videoRef string) (*model.Transcript, error) {
	videoRef = strings.TrimSpace(videoRef)
	if workspaceID <= 0 || videoRef == "" {
		return nil, domain.ErrInvalidArgument
	}

	transcript, err := w.transcripts.Acquire(ctx, videoRef)
	if err != nil {
		return nil, fmt.Errorf("acquire transcript: %w", err)
	}

	text := transcript.Text
	if len(text) > memoryLimit {
		text = text[:memoryLimit]
	}
	mem := &model.Memory{WorkspaceID: workspaceID, Key: "video_transcript", Value: text}
	if err := w.repo.UpsertMemory(ctx, nil, mem); err != nil {
		return nil, err
	}

	msg := &model.Message{
		WorkspaceID: workspaceID,
		Role:        "system",
		Content:     fmt.Sprintf("Video transcript attached for %s (%d characters)", videoRef, len(transcript.Text)),
	}
	if err := w.repo.SaveMessage(ctx, nil, msg); err != nil {
		return nil, err
	}

	w.cache.Invalidate(workspaceID)
	return transcript, nil
}
