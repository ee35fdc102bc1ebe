package session

import (
	"context"
	"time"

	"tutor-cerdas-console/internal/entity"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/patrickmn/go-cache"
)

// ChangeTopic carries the session id of every session that was created,
// replaced, signed out or expired.
const ChangeTopic = "session.changed"

// Store holds at most one Session per client, keyed by the session cookie
// value. Mutations publish a change event so resolvers can re-derive their
// state; expiry from the cache behaves exactly like a sign-out.
type Store struct {
	cache      *cache.Cache
	bus        *gochannel.GoChannel
	defaultTTL time.Duration
}

func NewStore(bus *gochannel.GoChannel, defaultTTL time.Duration) *Store {
	c := cache.New(defaultTTL, 10*time.Minute)
	s := &Store{
		cache:      c,
		bus:        bus,
		defaultTTL: defaultTTL,
	}
	// Fires on Delete and on TTL expiry; both are session changes.
	c.OnEvicted(func(id string, _ interface{}) {
		s.publish(id)
	})
	return s
}

// Put stores the session until its access token expires, falling back to the
// default TTL for opaque tokens, and notifies subscribers.
func (s *Store) Put(sess *entity.Session) {
	ttl := s.defaultTTL
	if !sess.ExpiresAt.IsZero() {
		if until := time.Until(sess.ExpiresAt); until > 0 {
			ttl = until
		}
	}
	s.cache.Set(sess.Id, sess, ttl)
	s.publish(sess.Id)
}

func (s *Store) Get(id string) (*entity.Session, bool) {
	if x, found := s.cache.Get(id); found {
		return x.(*entity.Session), true
	}
	return nil, false
}

func (s *Store) Delete(id string) {
	// OnEvicted publishes the change.
	s.cache.Delete(id)
}

// Changes subscribes to session change events. The subscription lives until
// ctx is cancelled; each message payload is the affected session id.
func (s *Store) Changes(ctx context.Context) (<-chan *message.Message, error) {
	return s.bus.Subscribe(ctx, ChangeTopic)
}

func (s *Store) publish(id string) {
	msg := message.NewMessage(watermill.NewUUID(), []byte(id))
	// Best effort: a full in-process bus means the process is shutting down.
	_ = s.bus.Publish(ChangeTopic, msg)
}
