package conversation

import (
	"sync"
	"time"

	"github.com/VladanMarkovic1/dental-ai-platform/pkg/logging"
)

// Registry owns the in-memory session table and its idle-eviction sweep.
// Sessions are created lazily on first message and removed after the idle
// timeout. Nothing here survives a restart.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session

	idleTimeout   time.Duration
	sweepInterval time.Duration
	logger        *logging.Logger
	now           func() time.Time

	stopOnce sync.Once
	done     chan struct{}
	wg       sync.WaitGroup
}

// NewRegistry creates a session registry. Zero durations fall back to
// 30 minutes idle and a 5 minute sweep.
func NewRegistry(idleTimeout, sweepInterval time.Duration, logger *logging.Logger) *Registry {
	if idleTimeout <= 0 {
		idleTimeout = 30 * time.Minute
	}
	if sweepInterval <= 0 {
		sweepInterval = 5 * time.Minute
	}
	if logger == nil {
		logger = logging.Default()
	}
	return &Registry{
		sessions:      make(map[string]*Session),
		idleTimeout:   idleTimeout,
		sweepInterval: sweepInterval,
		logger:        logger,
		now:           time.Now,
		done:          make(chan struct{}),
	}
}

// GetOrCreate returns the session for sessionID, creating it if absent.
func (r *Registry) GetOrCreate(sessionID, businessID string) *Session {
	r.mu.Lock()
	defer r.mu.Unlock()

	if sess, ok := r.sessions[sessionID]; ok {
		return sess
	}
	sess := &Session{
		ID:           sessionID,
		BusinessID:   businessID,
		State:        StateNew,
		LastActivity: r.now(),
	}
	r.sessions[sessionID] = sess
	return sess
}

// Touch refreshes a session's last-activity timestamp.
func (r *Registry) Touch(sess *Session) {
	sess.LastActivity = r.now()
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// EvictIdle removes every session idle past the timeout and returns how
// many were dropped. Eviction is housekeeping and never reports errors.
func (r *Registry) EvictIdle() int {
	cutoff := r.now().Add(-r.idleTimeout)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, sess := range r.sessions {
		if sess.LastActivity.Before(cutoff) {
			delete(r.sessions, id)
			evicted++
		}
	}
	return evicted
}

// Start launches the background eviction sweep.
func (r *Registry) Start() {
	r.wg.Add(1)
	go func() {
		defer r.wg.Done()
		ticker := time.NewTicker(r.sweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := r.EvictIdle(); n > 0 {
					r.logger.Debug("evicted idle sessions", "count", n)
				}
			case <-r.done:
				return
			}
		}
	}()
}

// Stop halts the eviction sweep. Safe to call more than once.
func (r *Registry) Stop() {
	r.stopOnce.Do(func() {
		close(r.done)
	})
	r.wg.Wait()
}
