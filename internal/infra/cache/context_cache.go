package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/domain/ports/repository"
	"github.com/harperkollinsinc-bit/HKAI-SERVER/internal/infra/metrics"
)

const recentMessageLimit = 20

// WorkspaceContext is the derived conversational context fed to pipeline
// prompts: a summary of remembered facts plus recent chat history.
type WorkspaceContext struct {
	MemoryContext string
	ChatContext   string
}

type entry struct {
	data      WorkspaceContext
	timestamp time.Time
}

// ContextCache shields repeated pipeline and poll reads from redundant store
// queries with a short-TTL per-workspace cache. Writers that mutate memories
// or messages must call Invalidate; the cache does no write tracking itself.
type ContextCache struct {
	mu      sync.RWMutex
	entries map[int64]entry

	repo repository.WorkspaceContextRepository
	ttl  time.Duration
	log  *zerolog.Logger

	now  func() time.Time
	stop chan struct{}
	once sync.Once
}

func NewContextCache(repo repository.WorkspaceContextRepository, ttl time.Duration, log *zerolog.Logger) *ContextCache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &ContextCache{
		entries: make(map[int64]entry),
		repo:    repo,
		ttl:     ttl,
		log:     log,
		now:     time.Now,
		stop:    make(chan struct{}),
	}
}

// Get returns the cached context for the workspace when fresh, otherwise
// reads memories and recent messages through the repository (honoring tx),
// composes the summaries, and caches the result.
func (c *ContextCache) Get(ctx context.Context, tx repository.Tx, workspaceID int64) (WorkspaceContext, error) {
	c.mu.RLock()
	e, ok := c.entries[workspaceID]
	c.mu.RUnlock()
	if ok && c.now().Sub(e.timestamp) < c.ttl {
		metrics.IncCacheRequest("context", "hit")
		return e.data, nil
	}
	metrics.IncCacheRequest("context", "miss")

	memories, err := c.repo.ListMemories(ctx, tx, workspaceID)
	if err != nil {
		return WorkspaceContext{}, err
	}
	messages, err := c.repo.RecentMessages(ctx, tx, workspaceID, recentMessageLimit)
	if err != nil {
		return WorkspaceContext{}, err
	}

	var memParts []string
	for _, m := range memories {
		memParts = append(memParts, m.Key+": "+m.Value)
	}
	memoryContext := strings.Join(memParts, ", ")
	if memoryContext == "" {
		memoryContext = "None"
	}

	var chatParts []string
	for _, m := range messages {
		chatParts = append(chatParts, strings.ToUpper(m.Role)+": "+m.Content)
	}
	chatContext := strings.Join(chatParts, "\n")
	if chatContext == "" {
		chatContext = "No chat history"
	}

	data := WorkspaceContext{MemoryContext: memoryContext, ChatContext: chatContext}
	c.mu.Lock()
	c.entries[workspaceID] = entry{data: data, timestamp: c.now()}
	c.mu.Unlock()
	return data, nil
}

// Invalidate removes any cached entry for the workspace. Callers that mutate
// memories or messages must call this to prevent staleness.
func (c *ContextCache) Invalidate(workspaceID int64) {
	c.mu.Lock()
	delete(c.entries, workspaceID)
	c.mu.Unlock()
}

// Clear drops the whole cache; test lifecycle hook.
func (c *ContextCache) Clear() {
	c.mu.Lock()
	c.entries = make(map[int64]entry)
	c.mu.Unlock()
}

// StartSweeper launches the periodic expiry sweep that bounds memory use
// independent of Invalidate calls.
func (c *ContextCache) StartSweeper(interval time.Duration) {
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-c.stop:
				return
			case <-ticker.C:
				c.sweep()
			}
		}
	}()
}

func (c *ContextCache) Stop() {
	c.once.Do(func() { close(c.stop) })
}

func (c *ContextCache) sweep() {
	now := c.now()
	c.mu.Lock()
	removed := 0
	for id, e := range c.entries {
		if now.Sub(e.timestamp) >= c.ttl {
			delete(c.entries, id)
			removed++
		}
	}
	c.mu.Unlock()
	if removed > 0 {
		c.log.Debug().Int("removed", removed).Msg("context cache sweep")
	}
}
