package state

import (
	"sync"
	"time"
)

// Manager manages shared-session state with thread-safe access.
type Manager struct {
	mu sync.RWMutex

	// Session identity
	sessionID   string
	sessionName string

	// Lifecycle
	role   Role
	health SyncHealth

	// Revision ordering. The host increments revision for every state
	// change it broadcasts; a guest records the highest revision it has
	// applied and discards anything at or below it.
	revision    uint64
	lastApplied uint64

	// Heartbeat tracking (guest side)
	lastHeartbeat time.Time

	startedAt *time.Time
}

// New creates a new state manager in the solo role.
func New() *Manager {
	return &Manager{
		role:   RoleSolo,
		health: SyncLive,
	}
}

// GetRole returns the current role.
func (m *Manager) GetRole() Role {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.role
}

// BeginHosting transitions to the host role with a fresh session.
func (m *Manager) BeginHosting(sessionID, sessionName string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionID = sessionID
	m.sessionName = sessionName
	m.role = RoleHost
	m.health = SyncLive
	m.revision = 0
	now := time.Now()
	m.startedAt = &now
}

// BeginFollowing transitions to the guest role for the given session.
func (m *Manager) BeginFollowing(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionID = sessionID
	m.role = RoleGuest
	m.health = SyncLive
	m.lastApplied = 0
	m.lastHeartbeat = time.Now()
	now := time.Now()
	m.startedAt = &now
}

// Reset returns to the solo role, clearing session identity.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessionID = ""
	m.sessionName = ""
	m.role = RoleSolo
	m.health = SyncLive
	m.revision = 0
	m.lastApplied = 0
	m.startedAt = nil
}

// GetSessionID returns the session ID.
func (m *Manager) GetSessionID() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionID
}

// GetSessionName returns the session display name.
func (m *Manager) GetSessionName() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.sessionName
}

// NextRevision increments and returns the broadcast revision. Host only.
func (m *Manager) NextRevision() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.revision++
	return m.revision
}

// CurrentRevision returns the latest broadcast revision.
func (m *Manager) CurrentRevision() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.revision
}

// LastApplied returns the highest revision applied locally.
func (m *Manager) LastApplied() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.lastApplied
}

// MarkApplied records a revision as applied if it is newer than the
// current high-water mark. Returns false if the revision was stale.
func (m *Manager) MarkApplied(revision uint64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if revision <= m.lastApplied {
		return false
	}
	m.lastApplied = revision
	return true
}

// GetHealth returns the sync health.
func (m *Manager) GetHealth() SyncHealth {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.health
}

// SetHealth sets the sync health.
func (m *Manager) SetHealth(h SyncHealth) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.health = h
}

// TouchHeartbeat records a heartbeat arrival and restores live health.
func (m *Manager) TouchHeartbeat() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastHeartbeat = time.Now()
	m.health = SyncLive
}

// HeartbeatAge returns the time since the last heartbeat.
func (m *Manager) HeartbeatAge() time.Duration {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.lastHeartbeat.IsZero() {
		return 0
	}
	return time.Since(m.lastHeartbeat)
}

// StartedAt returns when the session began, or nil in solo mode.
func (m *Manager) StartedAt() *time.Time {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.startedAt
}
