// internal/draft/saver.go
package draft

import (
	"context"
	"sync"
	"time"

	"hauler-portal/internal/common/logger"
	"hauler-portal/internal/common/metrics"
	"hauler-portal/internal/models"
)

// Saver coalesces the change stream from a wizard into at most one Redis
// write per quiescence window. Every Offer resets the timer; only the
// latest snapshot is ever written. Persistence failures are logged and
// swallowed so a flaky Redis never blocks form entry.
type Saver struct {
	store     *Store
	logger    logger.Logger
	sessionID string
	debounce  time.Duration

	mu      sync.Mutex
	pending *models.DraftSnapshot
	timer   *time.Timer
	stopped bool
}

func NewSaver(store *Store, log logger.Logger, sessionID string, debounce time.Duration) *Saver {
	return &Saver{
		store:     store,
		logger:    log,
		sessionID: sessionID,
		debounce:  debounce,
	}
}

// Offer records the snapshot as the latest candidate and (re)starts the
// debounce timer. Called from the wizard's change listener.
func (s *Saver) Offer(snapshot models.DraftSnapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		return
	}

	s.pending = &snapshot
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, s.fire)
}

// Flush writes any pending snapshot immediately, cancelling the timer.
func (s *Saver) Flush(ctx context.Context) {
	s.mu.Lock()
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	snapshot := s.pending
	s.pending = nil
	s.mu.Unlock()

	if snapshot != nil {
		s.save(ctx, *snapshot)
	}
}

// Stop cancels any pending write and prevents further offers from
// scheduling one.
func (s *Saver) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stopped = true
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
	s.pending = nil
}

func (s *Saver) fire() {
	s.mu.Lock()
	snapshot := s.pending
	s.pending = nil
	s.timer = nil
	stopped := s.stopped
	s.mu.Unlock()

	if stopped || snapshot == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	s.save(ctx, *snapshot)
}

func (s *Saver) save(ctx context.Context, snapshot models.DraftSnapshot) {
	if err := s.store.Save(ctx, s.sessionID, snapshot); err != nil {
		s.logger.WithError(err).Warn("Draft save failed", map[string]interface{}{
			"session_id": s.sessionID,
		})
		metrics.DraftSaves.WithLabelValues("error").Inc()
		return
	}
	metrics.DraftSaves.WithLabelValues("success").Inc()
}
