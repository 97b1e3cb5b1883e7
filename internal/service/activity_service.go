package service

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"recipebox/internal/model"
	"recipebox/internal/repository"
)

const (
	activityBatchSize     = 10
	activityFlushInterval = time.Second
	activityBufferSize    = 100
)

// ActivityRecorder accepts recipe activity entries.
type ActivityRecorder interface {
	Record(ctx context.Context, entry model.ActivityLog)
}

// ActivityService writes activity entries in batches from a background worker
// and serves a user's recent activity.
type ActivityService struct {
	repo    repository.ActivityLogRepository
	log     *zap.Logger
	entries chan model.ActivityLog
	done    chan struct{}
	once    sync.Once
	closed  chan struct{}
	mu      sync.RWMutex
}

// NewActivityService creates the service and starts its worker.
func NewActivityService(repo repository.ActivityLogRepository, log *zap.Logger) *ActivityService {
	s := &ActivityService{
		repo:    repo,
		log:     log,
		entries: make(chan model.ActivityLog, activityBufferSize),
		done:    make(chan struct{}),
		closed:  make(chan struct{}),
	}
	go s.worker()
	return s
}

// Record queues entry. When the buffer is full the entry is written synchronously.
// Entries recorded after Close are dropped.
func (s *ActivityService) Record(ctx context.Context, entry model.ActivityLog) {
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	select {
	case <-s.closed:
		return
	default:
	}

	select {
	case s.entries <- entry:
	default:
		if err := s.repo.Create(ctx, &entry); err != nil {
			s.log.Warn("write activity log", zap.Error(err))
		}
	}
}

// Recent returns up to limit entries for username, newest first.
func (s *ActivityService) Recent(ctx context.Context, username string, limit int) ([]model.ActivityLog, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	return s.repo.ListByUsername(ctx, username, limit)
}

// Close stops accepting entries and waits until everything queued is written.
func (s *ActivityService) Close() {
	s.once.Do(func() {
		s.mu.Lock()
		close(s.closed)
		close(s.entries)
		s.mu.Unlock()
		<-s.done
	})
}

func (s *ActivityService) worker() {
	defer close(s.done)

	batch := make([]model.ActivityLog, 0, activityBatchSize)
	ticker := time.NewTicker(activityFlushInterval)
	defer ticker.Stop()

	flush := func() {
		if len(batch) == 0 {
			return
		}
		if err := s.repo.CreateBatch(context.Background(), batch); err != nil {
			s.log.Warn("write activity batch", zap.Int("batchSize", len(batch)), zap.Error(err))
		}
		batch = batch[:0]
	}

	for {
		select {
		case entry, ok := <-s.entries:
			if !ok {
				flush()
				return
			}
			batch = append(batch, entry)
			if len(batch) >= activityBatchSize {
				flush()
			}
		case <-ticker.C:
			flush()
		}
	}
}
