// Package session tracks conversational state between tool calls: who the
// caller is, what they said, and any action awaiting confirmation. Sessions
// expire after a configurable idle period; every read or write resets the
// clock.
package session

import (
	"errors"
	"fmt"
	"maps"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
)

// ErrSessionNotFound is returned when a session id is unknown or expired.
// Callers cannot distinguish the two; an expired session is gone.
var ErrSessionNotFound = errors.New("session not found")

// Role identifies the kind of caller behind a session.
type Role string

const (
	RolePatient Role = "patient"
	RoleDoctor  Role = "doctor"
	RoleGuest   Role = "guest"
)

// ParseRole validates a role string; empty defaults to guest.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RolePatient, RoleDoctor, RoleGuest:
		return Role(s), nil
	case "":
		return RoleGuest, nil
	default:
		return "", fmt.Errorf("unknown session role: %q", s)
	}
}

// HistoryEntry records one exchange within a session.
type HistoryEntry struct {
	Role     string    `json:"role"` // "user", "assistant", or "tool"
	Content  string    `json:"content,omitempty"`
	ToolName string    `json:"tool_name,omitempty"`
	At       time.Time `json:"at"`
}

// PendingAction is a tool call parked for user confirmation, e.g. a booking
// proposed but not yet confirmed.
type PendingAction struct {
	ToolName  string         `json:"tool_name"`
	Args      map[string]any `json:"args,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// Session is a snapshot of one caller's conversational state. Values returned
// by Manager are copies; mutate through Manager methods, not on the snapshot.
type Session struct {
	ID            string         `json:"id"`
	Role          Role           `json:"role"`
	CreatedAt     time.Time      `json:"created_at"`
	LastActivity  time.Time      `json:"last_activity"`
	Context       map[string]any `json:"context,omitempty"`
	History       []HistoryEntry `json:"history,omitempty"`
	PendingAction *PendingAction `json:"pending_action,omitempty"`
}

func (s *Session) snapshot() Session {
	out := *s
	out.Context = maps.Clone(s.Context)
	out.History = append([]HistoryEntry(nil), s.History...)
	if s.PendingAction != nil {
		pa := *s.PendingAction
		pa.Args = maps.Clone(s.PendingAction.Args)
		out.PendingAction = &pa
	}
	return out
}

// Manager stores sessions with an idle TTL and a bounded capacity. At capacity
// the least recently used session is evicted. Safe for concurrent use.
type Manager struct {
	mu         sync.Mutex
	cache      *expirable.LRU[string, *Session]
	ttl        time.Duration
	maxHistory int
}

// ManagerOption configures a Manager.
type ManagerOption func(*managerConfig)

type managerConfig struct {
	ttl        time.Duration
	capacity   int
	maxHistory int
}

// WithTTL sets the idle expiry; zero means sessions never expire.
func WithTTL(ttl time.Duration) ManagerOption {
	return func(c *managerConfig) { c.ttl = ttl }
}

// WithCapacity bounds the number of live sessions; zero means unbounded.
func WithCapacity(n int) ManagerOption {
	return func(c *managerConfig) { c.capacity = n }
}

// WithMaxHistory caps history length per session; older entries are dropped.
// Zero keeps the default of 50.
func WithMaxHistory(n int) ManagerOption {
	return func(c *managerConfig) { c.maxHistory = n }
}

// NewManager creates a Manager. Defaults: 30 minute idle TTL, 1000 sessions,
// 50 history entries.
func NewManager(opts ...ManagerOption) *Manager {
	cfg := managerConfig{
		ttl:        30 * time.Minute,
		capacity:   1000,
		maxHistory: 50,
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Manager{
		cache:      expirable.NewLRU[string, *Session](cfg.capacity, nil, cfg.ttl),
		ttl:        cfg.ttl,
		maxHistory: cfg.maxHistory,
	}
}

// Create starts a new session with a generated id and returns its snapshot.
func (m *Manager) Create(role Role) Session {
	now := time.Now()
	s := &Session{
		ID:           uuid.NewString(),
		Role:         role,
		CreatedAt:    now,
		LastActivity: now,
		Context:      make(map[string]any),
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Add(s.ID, s)
	return s.snapshot()
}

// Get returns a snapshot of the session and resets its idle timer.
func (m *Manager) Get(id string) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.touch(id)
	if err != nil {
		return Session{}, err
	}
	return s.snapshot(), nil
}

// touch looks up a session, bumps LastActivity, and re-adds it to the cache
// so the TTL restarts. Caller holds m.mu.
func (m *Manager) touch(id string) (*Session, error) {
	s, ok := m.cache.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	s.LastActivity = time.Now()
	m.cache.Add(id, s)
	return s, nil
}

// UpdateContext merges the given keys into the session context. A nil value
// deletes the key.
func (m *Manager) UpdateContext(id string, updates map[string]any) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.touch(id)
	if err != nil {
		return err
	}
	if s.Context == nil {
		s.Context = make(map[string]any, len(updates))
	}
	for k, v := range updates {
		if v == nil {
			delete(s.Context, k)
			continue
		}
		s.Context[k] = v
	}
	return nil
}

// AppendHistory adds an entry to the session history, trimming the oldest
// entries past the history cap. A zero At is stamped with the current time.
func (m *Manager) AppendHistory(id string, entry HistoryEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.touch(id)
	if err != nil {
		return err
	}
	if entry.At.IsZero() {
		entry.At = time.Now()
	}
	s.History = append(s.History, entry)
	if m.maxHistory > 0 && len(s.History) > m.maxHistory {
		s.History = s.History[len(s.History)-m.maxHistory:]
	}
	return nil
}

// SetPendingAction parks a tool call awaiting confirmation, replacing any
// previous one.
func (m *Manager) SetPendingAction(id string, action PendingAction) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.touch(id)
	if err != nil {
		return err
	}
	if action.CreatedAt.IsZero() {
		action.CreatedAt = time.Now()
	}
	s.PendingAction = &action
	return nil
}

// ClearPendingAction removes the parked action, if any.
func (m *Manager) ClearPendingAction(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, err := m.touch(id)
	if err != nil {
		return err
	}
	s.PendingAction = nil
	return nil
}

// Delete removes a session. Deleting an unknown id is not an error.
func (m *Manager) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cache.Remove(id)
}

// Len reports the number of live sessions (expired ones may still count until
// the cache sweeps them).
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cache.Len()
}
