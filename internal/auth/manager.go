package auth

import (
	"sync"

	"tutor-cerdas-console/internal/pkg/logger"
	"tutor-cerdas-console/internal/repository/contract"
	"tutor-cerdas-console/internal/session"
)

// Manager owns one Resolver per active session id. Resolvers are created
// lazily on the first request that carries the cookie and closed when the
// session disappears, so no subscription outlives its consumer.
type Manager struct {
	store    *session.Store
	profiles contract.ProfileRepository
	identity IdentitySignOuter
	log      logger.ILogger

	mu        sync.Mutex
	resolvers map[string]*Resolver
}

func NewManager(
	store *session.Store,
	profiles contract.ProfileRepository,
	identity IdentitySignOuter,
	log logger.ILogger,
) *Manager {
	return &Manager{
		store:     store,
		profiles:  profiles,
		identity:  identity,
		log:       log,
		resolvers: make(map[string]*Resolver),
	}
}

// For returns the resolver for a session id, creating it if the session
// exists. A stale resolver whose session is gone is torn down and nil is
// returned; callers treat nil as anonymous.
func (m *Manager) For(sessionID string) *Resolver {
	if sessionID == "" {
		return nil
	}

	_, alive := m.store.Get(sessionID)

	m.mu.Lock()
	r, ok := m.resolvers[sessionID]
	if ok && alive {
		m.mu.Unlock()
		return r
	}
	if ok && !alive {
		delete(m.resolvers, sessionID)
		m.mu.Unlock()
		r.Close()
		return nil
	}
	if !alive {
		m.mu.Unlock()
		return nil
	}
	r = NewResolver(sessionID, m.store, m.profiles, m.identity, m.log)
	m.resolvers[sessionID] = r
	m.mu.Unlock()
	return r
}

// Drop closes and forgets the resolver for a session id.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	r, ok := m.resolvers[sessionID]
	if ok {
		delete(m.resolvers, sessionID)
	}
	m.mu.Unlock()
	if ok {
		r.Close()
	}
}

// Shutdown closes every resolver. Used on server teardown and in tests.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	all := make([]*Resolver, 0, len(m.resolvers))
	for id, r := range m.resolvers {
		all = append(all, r)
		delete(m.resolvers, id)
	}
	m.mu.Unlock()
	for _, r := range all {
		r.Close()
	}
}
