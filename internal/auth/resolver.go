package auth

import (
	"context"
	"sync"

	"tutor-cerdas-console/internal/entity"
	"tutor-cerdas-console/internal/pkg/logger"
	"tutor-cerdas-console/internal/repository/contract"
	"tutor-cerdas-console/internal/session"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"
)

// IdentitySignOuter is the slice of the identity client the resolver needs.
type IdentitySignOuter interface {
	SignOut(ctx context.Context, accessToken string) error
}

// Resolver derives {loading, user, role} for one client session and keeps it
// current against session change events. Role resolution is asynchronous:
// each fetch captures the user id it was issued for and its result is
// discarded if that id is stale by the time it lands.
type Resolver struct {
	sessionID string
	store     *session.Store
	profiles  contract.ProfileRepository
	identity  IdentitySignOuter
	log       logger.ILogger

	mu          sync.Mutex
	loading     bool
	user        *entity.User
	role        entity.UserRole
	accessToken string

	cancel context.CancelFunc
	done   chan struct{}
}

func NewResolver(
	sessionID string,
	store *session.Store,
	profiles contract.ProfileRepository,
	identity IdentitySignOuter,
	log logger.ILogger,
) *Resolver {
	ctx, cancel := context.WithCancel(context.Background())
	r := &Resolver{
		sessionID: sessionID,
		store:     store,
		profiles:  profiles,
		identity:  identity,
		log:       log,
		loading:   true,
		cancel:    cancel,
		done:      make(chan struct{}),
	}

	// Subscribe before probing so no change slips between the two.
	changes, err := store.Changes(ctx)
	if err != nil {
		log.Warn("auth", "session change subscription failed", map[string]interface{}{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}

	sess, _ := store.Get(sessionID)
	r.apply(ctx, sess)
	r.mu.Lock()
	r.loading = false
	r.mu.Unlock()

	if changes != nil {
		go r.watch(ctx, changes)
	} else {
		close(r.done)
	}
	return r
}

func (r *Resolver) watch(ctx context.Context, changes <-chan *message.Message) {
	defer close(r.done)
	for msg := range changes {
		if string(msg.Payload) == r.sessionID {
			sess, _ := r.store.Get(r.sessionID)
			r.apply(ctx, sess)
		}
		msg.Ack()
	}
}

// apply commits a session snapshot atomically relative to role re-derivation.
func (r *Resolver) apply(ctx context.Context, sess *entity.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var next *entity.User
	token := ""
	if sess != nil {
		u := sess.User
		next = &u
		token = sess.AccessToken
	}

	changed := userID(next) != userID(r.user)
	r.user = next
	r.accessToken = token
	if !changed {
		return
	}

	if next == nil {
		// No user, no network call.
		r.role = entity.RoleUnknown
		return
	}
	r.role = entity.RoleUnknown
	go r.fetchRole(ctx, next.Id)
}

func (r *Resolver) fetchRole(ctx context.Context, id uuid.UUID) {
	role, err := r.profiles.GetRole(ctx, id)
	if err != nil {
		// Fail open to least privilege; rendering is never blocked on a
		// profile lookup.
		r.log.Warn("auth", "role lookup failed, defaulting to user", map[string]interface{}{
			"user_id": id.String(),
			"error":   err.Error(),
		})
		role = entity.UserRoleUser
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	// Identity guard: the session may have moved on while we were fetching.
	if r.user != nil && r.user.Id == id {
		r.role = role
	}
}

// State returns the current AuthState snapshot. Safe to call from any
// goroutine and cheap enough to re-evaluate on every request.
func (r *Resolver) State() entity.AuthState {
	r.mu.Lock()
	defer r.mu.Unlock()
	st := entity.AuthState{
		Loading: r.loading,
		Role:    r.role,
	}
	if r.user != nil {
		u := *r.user
		st.User = &u
	}
	return st
}

// AccessToken returns the provider token for the current session, or "".
func (r *Resolver) AccessToken() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.accessToken
}

// SignOut revokes the provider session, removes the stored session and
// clears the role locally. Navigation is the guards' job: they react to the
// resulting change event.
func (r *Resolver) SignOut(ctx context.Context) {
	r.mu.Lock()
	token := r.accessToken
	r.role = entity.RoleUnknown
	r.mu.Unlock()

	if token != "" {
		if err := r.identity.SignOut(ctx, token); err != nil {
			r.log.Warn("auth", "provider sign-out failed", map[string]interface{}{
				"session_id": r.sessionID,
				"error":      err.Error(),
			})
		}
	}
	r.store.Delete(r.sessionID)
}

// Close releases the session change subscription. In-flight role fetches are
// cancelled through the shared context.
func (r *Resolver) Close() {
	r.cancel()
	<-r.done
}

func userID(u *entity.User) string {
	if u == nil {
		return ""
	}
	return u.Id.String()
}
