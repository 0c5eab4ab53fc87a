package feedback

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/pagewright/pagewright/internal/domain"
)

const (
	// flushInterval bounds how stale buffered feedback can get.
	flushInterval = 10 * time.Second
	// flushThreshold triggers an early flush when the buffer grows fast.
	flushThreshold = 100
	// flushTimeout caps how long a background flush may hold a connection.
	flushTimeout = 30 * time.Second
)

// Recorder buffers feedback and writes it out in batches. Feedback is
// advisory product telemetry: it never influences engine output, and a
// failed write is logged and dropped rather than surfaced to the caller.
type Recorder struct {
	repo   domain.FeedbackRepository
	logger *zap.Logger

	buffer    []*domain.Feedback
	bufferMu  sync.Mutex
	flushChan chan struct{}
	done      chan struct{}
	wg        sync.WaitGroup
}

// NewRecorder creates a recorder and starts its background flusher.
func NewRecorder(repo domain.FeedbackRepository, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	r := &Recorder{
		repo:      repo,
		logger:    logger,
		flushChan: make(chan struct{}, 1),
		done:      make(chan struct{}),
	}

	r.wg.Add(1)
	go r.backgroundFlusher()

	return r
}

// Record validates and buffers one piece of feedback. The write happens
// later; only validation failures are returned.
func (r *Recorder) Record(ctx context.Context, fb *domain.Feedback) error {
	if err := fb.Validate(); err != nil {
		return err
	}

	r.bufferMu.Lock()
	r.buffer = append(r.buffer, fb)
	size := len(r.buffer)
	r.bufferMu.Unlock()

	if size > flushThreshold {
		select {
		case r.flushChan <- struct{}{}:
		default:
		}
	}

	return nil
}

// RecentForTarget returns the latest feedback for one target, flushing the
// buffer first so just-recorded entries are visible.
func (r *Recorder) RecentForTarget(ctx context.Context, target domain.FeedbackTarget, targetID string, limit int) ([]*domain.Feedback, error) {
	r.flush()
	return r.repo.ListByTarget(ctx, target, targetID, limit)
}

// CountSince reports how much feedback arrived after the given time.
func (r *Recorder) CountSince(ctx context.Context, since time.Time) (int, error) {
	r.flush()
	return r.repo.CountSince(ctx, since)
}

// backgroundFlusher drains the buffer on a timer, on demand and at shutdown.
func (r *Recorder) backgroundFlusher() {
	defer r.wg.Done()

	ticker := time.NewTicker(flushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			r.flush()
		case <-r.flushChan:
			r.flush()
		case <-r.done:
			r.flush()
			return
		}
	}
}

// flush swaps the buffer out and writes it in one batch. Failed batches are
// logged and dropped.
func (r *Recorder) flush() {
	r.bufferMu.Lock()
	if len(r.buffer) == 0 {
		r.bufferMu.Unlock()
		return
	}
	batch := r.buffer
	r.buffer = nil
	r.bufferMu.Unlock()

	ctx, cancel := context.WithTimeout(context.Background(), flushTimeout)
	defer cancel()

	if err := r.repo.CreateBatch(ctx, batch); err != nil {
		r.logger.Error("failed to persist feedback batch",
			zap.Int("count", len(batch)),
			zap.Error(err),
		)
	}
}

// Close flushes remaining feedback and stops the background flusher.
func (r *Recorder) Close() error {
	close(r.done)
	r.wg.Wait()
	return nil
}
