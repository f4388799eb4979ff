package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/ndemidov/campusforum/internal/cache"
	"github.com/ndemidov/campusforum/internal/models"
	"github.com/ndemidov/campusforum/internal/realtime"
	apperrors "github.com/ndemidov/campusforum/pkg/errors"
	"github.com/ndemidov/campusforum/pkg/logger"
	"github.com/ndemidov/campusforum/pkg/metrics"
)

// ErrThreadNotFound rejects message operations against nonexistent threads.
var ErrThreadNotFound = apperrors.New("THREAD_NOT_FOUND", "Thread not found", http.StatusNotFound)

const threadListCacheKey = "threads:list"

// ForumConfig carries the optional collaborators of the ForumService.
type ForumConfig struct {
	Cache    cache.Store
	CacheTTL time.Duration
	Hub      *realtime.Hub
}

// ForumService orchestrates thread and message persistence. Threads and
// messages are append-only: nothing here updates or deletes rows, so id
// order is creation order throughout.
type ForumService struct {
	db       *gorm.DB
	cache    cache.Store
	cacheTTL time.Duration
	hub      *realtime.Hub
}

// NewForumService constructs a ForumService over the given store.
func NewForumService(db *gorm.DB, cfg ForumConfig) (*ForumService, error) {
	if db == nil {
		return nil, errors.New("forum service: db is required")
	}

	ttl := cfg.CacheTTL
	if ttl <= 0 {
		ttl = 30 * time.Second
	}

	return &ForumService{
		db:       db,
		cache:    cfg.Cache,
		cacheTTL: ttl,
		hub:      cfg.Hub,
	}, nil
}

// CreateThread persists a new thread with a server-assigned timestamp.
// Authentication has already happened at the middleware boundary; no
// creator is recorded against the thread.
func (s *ForumService) CreateThread(ctx context.Context, title string) (*models.Thread, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, apperrors.NewBadRequest("title is required")
	}

	thread := &models.Thread{Title: title, CreatedAt: time.Now().UTC()}
	if err := s.db.WithContext(ctx).Create(thread).Error; err != nil {
		return nil, fmt.Errorf("forum service: create thread: %w", err)
	}

	s.invalidateThreadList(ctx)
	metrics.ThreadsCreated.Inc()

	return thread, nil
}

// ListThreads returns all threads in creation order. The listing is public
// and may be served from the cache store; a fresh call re-reads current
// state once the cached copy expires.
func (s *ForumService) ListThreads(ctx context.Context) ([]models.Thread, error) {
	if s.cache != nil {
		if raw, ok, err := s.cache.Get(ctx, threadListCacheKey); err == nil && ok {
			var threads []models.Thread
			if err := json.Unmarshal(raw, &threads); err == nil {
				return threads, nil
			}
		}
	}

	var threads []models.Thread
	if err := s.db.WithContext(ctx).Order("id ASC").Find(&threads).Error; err != nil {
		return nil, fmt.Errorf("forum service: list threads: %w", err)
	}

	if s.cache != nil {
		if raw, err := json.Marshal(threads); err == nil {
			if err := s.cache.Set(ctx, threadListCacheKey, raw, s.cacheTTL); err != nil {
				logger.WithModule("forum").Warn("thread list cache write failed", zap.Error(err))
			}
		}
	}

	return threads, nil
}

// CreateMessage persists a message in an existing thread and notifies
// realtime subscribers of that thread.
func (s *ForumService) CreateMessage(ctx context.Context, threadID uint64, content string) (*models.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apperrors.NewBadRequest("content is required")
	}

	if err := s.requireThread(ctx, threadID); err != nil {
		return nil, err
	}

	message := &models.Message{
		ThreadID:  threadID,
		Content:   content,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(message).Error; err != nil {
		return nil, fmt.Errorf("forum service: create message: %w", err)
	}

	metrics.MessagesCreated.Inc()

	if s.hub != nil {
		s.hub.Broadcast(threadID, realtime.Event{Event: "message.created", Data: message})
	}

	return message, nil
}

// ListMessages returns all messages of a thread in creation order.
func (s *ForumService) ListMessages(ctx context.Context, threadID uint64) ([]models.Message, error) {
	if err := s.requireThread(ctx, threadID); err != nil {
		return nil, err
	}

	var messages []models.Message
	err := s.db.WithContext(ctx).
		Where("thread_id = ?", threadID).
		Order("id ASC").
		Find(&messages).Error
	if err != nil {
		return nil, fmt.Errorf("forum service: list messages: %w", err)
	}

	return messages, nil
}

// ThreadExists reports whether a thread id resolves, mapped to the same
// not-found error the message operations use.
func (s *ForumService) ThreadExists(ctx context.Context, threadID uint64) error {
	return s.requireThread(ctx, threadID)
}

func (s *ForumService) requireThread(ctx context.Context, threadID uint64) error {
	var thread models.Thread
	err := s.db.WithContext(ctx).Select("id").Take(&thread, threadID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrThreadNotFound
	}
	if err != nil {
		return fmt.Errorf("forum service: query thread: %w", err)
	}
	return nil
}

func (s *ForumService) invalidateThreadList(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Delete(ctx, threadListCacheKey); err != nil {
		logger.WithModule("forum").Warn("thread list cache invalidation failed", zap.Error(err))
	}
}
