// Package session gives every browser its own in-memory task list.
//
// Sessions are managed by scs with an in-memory store. The task list is kept
// in the session data itself, so a session only exists once something has
// been written to it and it disappears after the configured idle timeout.
package session

import (
	"context"
	"encoding/gob"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/alexedwards/scs/v2/memstore"
	"github.com/hiroki-koketsu/studysprint/internal/model"
	"github.com/hiroki-koketsu/studysprint/internal/repository"
)

// DefaultCookieName is used when the manager is created without one.
const DefaultCookieName = "studysprint_session"

const tasksKey = "tasks"

// DefaultCleanupInterval is how often expired sessions are purged from
// memory.
const DefaultCleanupInterval = time.Minute

func init() {
	gob.Register([]model.Task{})
}

// Manager keeps the task list of every browser session.
type Manager struct {
	scs *scs.SessionManager
}

// Option configures a Manager.
type Option func(*scs.SessionManager)

// WithCookieName sets the name of the session cookie.
func WithCookieName(name string) Option {
	return func(sm *scs.SessionManager) {
		if name != "" {
			sm.Cookie.Name = name
		}
	}
}

// WithCleanupInterval sets how often expired sessions are purged.
func WithCleanupInterval(d time.Duration) Option {
	return func(sm *scs.SessionManager) {
		sm.Store = memstore.NewWithCleanupInterval(d)
	}
}

// NewManager creates a Manager whose sessions end after being idle for ttl.
// A ttl of zero leaves only the absolute session lifetime.
func NewManager(ttl time.Duration, opts ...Option) *Manager {
	sm := scs.New()
	sm.Store = memstore.NewWithCleanupInterval(DefaultCleanupInterval)
	if ttl > 0 {
		sm.IdleTimeout = ttl
		if ttl > sm.Lifetime {
			sm.Lifetime = ttl
		}
	}
	sm.Cookie.Name = DefaultCookieName
	sm.Cookie.Path = "/"
	sm.Cookie.HttpOnly = true
	sm.Cookie.SameSite = http.SameSiteLaxMode

	for _, opt := range opts {
		opt(sm)
	}
	return &Manager{scs: sm}
}

// LoadAndSave is the middleware that loads the session of a request and
// writes it back, with its cookie, before the response header goes out.
func (m *Manager) LoadAndSave(next http.Handler) http.Handler {
	return m.scs.LoadAndSave(next)
}

// Load returns a working copy of the session's tasks. Reading never starts
// a session.
func (m *Manager) Load(ctx context.Context) *repository.TaskRepository {
	tasks, _ := m.scs.Get(ctx, tasksKey).([]model.Task)
	return repository.NewTaskRepository(tasks...)
}

// Update applies fn to the session's tasks and stores the result. The first
// update of a request without a session starts one.
func (m *Manager) Update(ctx context.Context, fn func(*repository.TaskRepository)) {
	repo := m.Load(ctx)
	fn(repo)
	m.scs.Put(ctx, tasksKey, repo.List(ctx))
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	n := 0
	m.scs.Iterate(context.Background(), func(context.Context) error {
		n++
		return nil
	})
	return n
}

// TaskCount returns the number of tasks across all live sessions.
func (m *Manager) TaskCount() int64 {
	var n int64
	m.scs.Iterate(context.Background(), func(ctx context.Context) error {
		tasks, _ := m.scs.Get(ctx, tasksKey).([]model.Task)
		n += int64(len(tasks))
		return nil
	})
	return n
}
