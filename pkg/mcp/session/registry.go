package session

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/marmos91/shortcut-mcp/internal/logger"
)

const (
	defaultIdleTimeout   = 30 * time.Minute
	defaultSweepInterval = 60 * time.Second
)

// Config tunes registry eviction. Zero values fall back to defaults.
type Config struct {
	// IdleTimeout is how long a session may go untouched before a sweep
	// evicts it.
	IdleTimeout time.Duration

	// SweepInterval is how often the background sweeper scans the table.
	SweepInterval time.Duration

	// Metrics records session counters. May be nil.
	Metrics *Metrics
}

// Registry is the synchronized session table. Every mutation goes through
// its methods; the sweeper and request handlers interleave safely behind
// the mutex.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*Session

	idleTimeout   time.Duration
	sweepInterval time.Duration
	metrics       *Metrics
}

// NewRegistry creates an empty registry.
func NewRegistry(cfg Config) *Registry {
	if cfg.IdleTimeout <= 0 {
		cfg.IdleTimeout = defaultIdleTimeout
	}
	if cfg.SweepInterval <= 0 {
		cfg.SweepInterval = defaultSweepInterval
	}
	return &Registry{
		sessions:      make(map[string]*Session),
		idleTimeout:   cfg.IdleTimeout,
		sweepInterval: cfg.SweepInterval,
		metrics:       cfg.Metrics,
	}
}

// Create registers a session under the id the transport minted. Fails if
// the transport has no id yet or the id is already taken.
func (r *Registry) Create(t Transport, credential string) (string, error) {
	id := t.SessionID()
	if id == "" {
		return "", errors.New("transport has not established a session id")
	}

	now := time.Now()
	r.mu.Lock()
	if _, exists := r.sessions[id]; exists {
		r.mu.Unlock()
		return "", fmt.Errorf("session %s already registered", id)
	}
	r.sessions[id] = &Session{
		ID:             id,
		Credential:     credential,
		CreatedAt:      now,
		LastAccessedAt: now,
		Transport:      t,
	}
	total := len(r.sessions)
	r.mu.Unlock()

	r.metrics.recordCreated()
	logger.Debug("session created", logger.SessionID(id), logger.Sessions(total))
	return id, nil
}

// Get looks a session up and refreshes its LastAccessedAt. Every accepted
// continuation request keeps its session alive through this touch.
func (r *Registry) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return nil, false
	}
	s.LastAccessedAt = time.Now()
	return s, true
}

// Has reports whether the id is registered without touching the session.
func (r *Registry) Has(id string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.sessions[id]
	return ok
}

// ValidateCredential reports whether the session exists and was bootstrapped
// with the given credential. The comparison is constant-time.
func (r *Registry) ValidateCredential(id, credential string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.Credential), []byte(credential)) == 1
}

// Remove drops the session from the table without closing its transport.
// Unknown ids are a no-op: the transport's closed callback and a sweep can
// race here, and whichever runs second must not fail.
func (r *Registry) Remove(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	if ok {
		delete(r.sessions, id)
	}
	total := len(r.sessions)
	r.mu.Unlock()

	if !ok {
		return
	}
	r.metrics.recordRemoved(ReasonClient, time.Since(s.CreatedAt).Seconds())
	logger.Debug("session removed", logger.SessionID(id), logger.Sessions(total))
}

// Count returns the number of live sessions.
func (r *Registry) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

// Sweep evicts every session idle for at least the configured timeout and
// returns how many were removed. Expired sessions are collected and purged
// under the lock; their transports are closed after it is released, since a
// closing transport re-enters the registry through its closed callback.
func (r *Registry) Sweep(now time.Time) int {
	r.mu.Lock()
	var expired []*Session
	for _, s := range r.sessions {
		if s.IdleFor(now) >= r.idleTimeout {
			expired = append(expired, s)
		}
	}
	for _, s := range expired {
		delete(r.sessions, s.ID)
	}
	r.mu.Unlock()

	for _, s := range expired {
		r.metrics.recordRemoved(ReasonIdleTimeout, now.Sub(s.CreatedAt).Seconds())
		logger.Debug("evicting idle session", logger.SessionID(s.ID), logger.IdleFor(s.IdleFor(now)))
		if err := s.Transport.Close(); err != nil {
			logger.Warn("idle session close failed", logger.SessionID(s.ID), logger.Err(err))
		}
	}
	if len(expired) > 0 {
		logger.Info("swept idle sessions", logger.Sessions(len(expired)))
	}
	return len(expired)
}

// StartSweeper runs the periodic sweep until the context is cancelled.
func (r *Registry) StartSweeper(ctx context.Context) {
	go func() {
		ticker := time.NewTicker(r.sweepInterval)
		defer ticker.Stop()

		logger.Debug("session sweeper started",
			"interval", r.sweepInterval.String(),
			"idle_timeout", r.idleTimeout.String())

		for {
			select {
			case <-ctx.Done():
				logger.Debug("session sweeper stopped")
				return
			case <-ticker.C:
				r.Sweep(time.Now())
			}
		}
	}()
}

// CloseAll closes every transport and clears the table. Every close is
// attempted; failures are collected so one misbehaving session cannot block
// the others' shutdown.
func (r *Registry) CloseAll() error {
	r.mu.Lock()
	doomed := make([]*Session, 0, len(r.sessions))
	for _, s := range r.sessions {
		doomed = append(doomed, s)
	}
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	var errs []error
	now := time.Now()
	for _, s := range doomed {
		r.metrics.recordRemoved(ReasonShutdown, now.Sub(s.CreatedAt).Seconds())
		if err := s.Transport.Close(); err != nil {
			logger.Warn("session close failed during shutdown", logger.SessionID(s.ID), logger.Err(err))
			errs = append(errs, fmt.Errorf("closing session %s: %w", s.ID, err))
		}
	}
	if len(doomed) > 0 {
		logger.Info("closed all sessions", logger.Sessions(len(doomed)))
	}
	return errors.Join(errs...)
}
