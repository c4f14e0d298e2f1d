package app

import (
	"context"
	"fmt"
	"sync"
	"time"

	"annexval/domain/coercion"
	"annexval/domain/core"
	"annexval/domain/rules"
	"annexval/domain/table"
	"annexval/domain/validation"
	"annexval/internal"
	apperrors "annexval/internal/errors"

	"golang.org/x/sync/semaphore"
)

// ManagerConfig bounds the session registry.
type ManagerConfig struct {
	MaxSessions     int           `json:"max_sessions"`     // Registry cap; creates beyond it are rejected
	SessionTTL      time.Duration `json:"session_ttl"`      // Idle sessions expire after this
	SweepInterval   time.Duration `json:"sweep_interval"`   // How often expired sessions are collected
	ValidationSlots int64         `json:"validation_slots"` // Server-wide concurrent validation passes
}

// DefaultManagerConfig returns sensible defaults for an interactive server.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		MaxSessions:     100,              // Enough for a team of operators
		SessionTTL:      30 * time.Minute, // Idle sessions are abandoned work
		SweepInterval:   5 * time.Minute,
		ValidationSlots: 4, // Validation is O(rows x fields); keep passes bounded
	}
}

// SessionManager holds the server's independent validation sessions. Each
// session owns its dataset exclusively; the manager only guards the
// registry and bounds validation concurrency across sessions.
type SessionManager struct {
	config ManagerConfig
	logger *internal.Logger

	mu       sync.RWMutex
	sessions map[core.SessionID]*DatasetSession

	validationSem *semaphore.Weighted

	stopCh chan struct{}
	wg     sync.WaitGroup
}

// NewSessionManager creates a manager with the given bounds.
func NewSessionManager(config ManagerConfig, log *internal.Logger) *SessionManager {
	if config.ValidationSlots <= 0 {
		config.ValidationSlots = DefaultManagerConfig().ValidationSlots
	}
	return &SessionManager{
		config:        config,
		logger:        log,
		sessions:      make(map[core.SessionID]*DatasetSession),
		validationSem: semaphore.NewWeighted(config.ValidationSlots),
		stopCh:        make(chan struct{}),
	}
}

// Start launches the TTL sweep loop.
func (m *SessionManager) Start() {
	if m.config.SweepInterval <= 0 || m.config.SessionTTL <= 0 {
		m.logger.Info("Session expiry disabled (no TTL configured)")
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		ticker := time.NewTicker(m.config.SweepInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if removed := m.sweepExpired(); removed > 0 {
					m.logger.Info("Expired %d idle session(s)", removed)
				}
			case <-m.stopCh:
				return
			}
		}
	}()
	m.logger.Info("Session manager started (cap=%d, ttl=%s)", m.config.MaxSessions, m.config.SessionTTL)
}

// Stop halts the sweep loop and waits for it.
func (m *SessionManager) Stop() {
	close(m.stopCh)
	m.wg.Wait()
}

// Create opens a session for a compiled rule set and loaded dataset. The
// initial validation pass runs under the server-wide validation bound.
func (m *SessionManager) Create(ctx context.Context, spec *rules.ValidationSpec, states *rules.StateMaster, data *table.Table) (*DatasetSession, error) {
	m.mu.RLock()
	count := len(m.sessions)
	m.mu.RUnlock()
	if m.config.MaxSessions > 0 && count >= m.config.MaxSessions {
		return nil, apperrors.LimitExceeded(fmt.Sprintf("session limit reached (%d)", m.config.MaxSessions))
	}

	if err := m.acquireValidationSlot(ctx); err != nil {
		return nil, err
	}
	session := NewDatasetSession(spec, states, data)
	m.validationSem.Release(1)

	m.mu.Lock()
	m.sessions[session.ID()] = session
	m.mu.Unlock()

	m.logger.Info("Session %s created (%d columns, %d rows, %d findings)",
		session.ID(), data.NumColumns(), data.NumRows(), session.Report().Len())
	return session, nil
}

// Get returns a session by ID.
func (m *SessionManager) Get(id core.SessionID) (*DatasetSession, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	session, ok := m.sessions[id]
	if !ok {
		return nil, fmt.Errorf("session %s: %w", id, core.ErrSessionNotFound)
	}
	return session, nil
}

// Delete removes a session from the registry.
func (m *SessionManager) Delete(id core.SessionID) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.sessions[id]; !ok {
		return fmt.Errorf("session %s: %w", id, core.ErrSessionNotFound)
	}
	delete(m.sessions, id)
	m.logger.Info("Session %s deleted", id)
	return nil
}

// Count returns the number of live sessions.
func (m *SessionManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// ApplyCoercion applies one fix on a session and re-validates under the
// server-wide validation bound.
func (m *SessionManager) ApplyCoercion(ctx context.Context, id core.SessionID, req coercion.Request) (coercion.Result, *validation.Report, error) {
	session, err := m.Get(id)
	if err != nil {
		return coercion.Result{}, nil, err
	}

	if err := m.acquireValidationSlot(ctx); err != nil {
		return coercion.Result{}, nil, err
	}
	defer m.validationSem.Release(1)

	return session.ApplyCoercion(req)
}

// AbandonFix rolls back one pending fix and re-validates.
func (m *SessionManager) AbandonFix(ctx context.Context, id core.SessionID, field string) (*validation.Report, error) {
	session, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	if err := m.acquireValidationSlot(ctx); err != nil {
		return nil, err
	}
	defer m.validationSem.Release(1)

	return session.AbandonFix(field)
}

// Reset returns a session's dataset to its originally loaded state.
func (m *SessionManager) Reset(ctx context.Context, id core.SessionID) (*validation.Report, error) {
	session, err := m.Get(id)
	if err != nil {
		return nil, err
	}

	if err := m.acquireValidationSlot(ctx); err != nil {
		return nil, err
	}
	defer m.validationSem.Release(1)

	return session.Reset(), nil
}

func (m *SessionManager) acquireValidationSlot(ctx context.Context) error {
	if err := m.validationSem.Acquire(ctx, 1); err != nil {
		return apperrors.Wrap(err, "waiting for a validation slot")
	}
	return nil
}

func (m *SessionManager) sweepExpired() int {
	cutoff := time.Now().Add(-m.config.SessionTTL)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, session := range m.sessions {
		if session.LastActiveAt().Time().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}
