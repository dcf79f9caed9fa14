package wizard

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"energy_diagnostic_backend/platform/apperr"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	DefaultSessionTTL = 2 * time.Hour
	sessionKeyPrefix  = "wizard:session:"
	maxUpdateAttempts = 3
)

// Store persists sessions between requests.
type Store interface {
	Create(ctx context.Context, s Session) error
	Get(ctx context.Context, id uuid.UUID) (Session, error)
	// Update loads the session, applies fn and saves the result atomically.
	// An error from fn aborts the update and is returned unchanged.
	Update(ctx context.Context, id uuid.UUID, fn func(*Session) error) (Session, error)
}

func errSessionNotFound() error {
	return apperr.NotFound("wizard session not found or expired")
}

// RedisStore keeps sessions as JSON documents with a sliding TTL.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisStore creates a store. A non-positive ttl uses DefaultSessionTTL.
func NewRedisStore(client *redis.Client, ttl time.Duration) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &RedisStore{client: client, ttl: ttl}
}

func sessionKey(id uuid.UUID) string {
	return sessionKeyPrefix + id.String()
}

func (r *RedisStore) Create(ctx context.Context, s Session) error {
	data, err := json.Marshal(s)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	ok, err := r.client.SetNX(ctx, sessionKey(s.ID), data, r.ttl).Result()
	if err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	if !ok {
		return apperr.Conflict("wizard session already exists")
	}
	return nil
}

func (r *RedisStore) Get(ctx context.Context, id uuid.UUID) (Session, error) {
	key := sessionKey(id)
	raw, err := r.client.GetEx(ctx, key, r.ttl).Bytes()
	if errors.Is(err, redis.Nil) {
		return Session{}, errSessionNotFound()
	}
	if err != nil {
		return Session{}, fmt.Errorf("load session: %w", err)
	}
	return decodeSession(raw)
}

func (r *RedisStore) Update(ctx context.Context, id uuid.UUID, fn func(*Session) error) (Session, error) {
	key := sessionKey(id)
	var updated Session

	txf := func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if errors.Is(err, redis.Nil) {
			return errSessionNotFound()
		}
		if err != nil {
			return fmt.Errorf("load session: %w", err)
		}
		s, err := decodeSession(raw)
		if err != nil {
			return err
		}
		if err := fn(&s); err != nil {
			return err
		}
		data, err := json.Marshal(s)
		if err != nil {
			return fmt.Errorf("marshal session: %w", err)
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.ttl)
			return nil
		})
		if err != nil {
			return err
		}
		updated = s
		return nil
	}

	for attempt := 0; attempt < maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return updated, nil
		}
		if errors.Is(err, redis.TxFailedErr) {
			continue
		}
		return Session{}, err
	}
	return Session{}, apperr.Conflict("wizard session was modified concurrently, retry the request")
}

func decodeSession(raw []byte) (Session, error) {
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return Session{}, fmt.Errorf("decode session: %w", err)
	}
	return s, nil
}

// MemoryStore keeps sessions in process memory. Used when Redis is not
// configured and in tests.
type MemoryStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	now      func() time.Time
	sessions map[uuid.UUID]memoryEntry
}

type memoryEntry struct {
	session   Session
	expiresAt time.Time
}

// NewMemoryStore creates an in-process store. A non-positive ttl uses DefaultSessionTTL.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &MemoryStore{ttl: ttl, now: time.Now, sessions: make(map[uuid.UUID]memoryEntry)}
}

func (m *MemoryStore) Create(_ context.Context, s Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pruneExpired()
	if _, ok := m.live(s.ID); ok {
		return apperr.Conflict("wizard session already exists")
	}
	m.sessions[s.ID] = memoryEntry{session: s, expiresAt: m.now().Add(m.ttl)}
	return nil
}

func (m *MemoryStore) Get(_ context.Context, id uuid.UUID) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.live(id)
	if !ok {
		return Session{}, errSessionNotFound()
	}
	entry.expiresAt = m.now().Add(m.ttl)
	m.sessions[id] = entry
	return entry.session, nil
}

func (m *MemoryStore) Update(_ context.Context, id uuid.UUID, fn func(*Session) error) (Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	entry, ok := m.live(id)
	if !ok {
		return Session{}, errSessionNotFound()
	}
	s := entry.session
	if s.Result != nil {
		r := *s.Result
		s.Result = &r
	}
	if err := fn(&s); err != nil {
		return Session{}, err
	}
	m.sessions[id] = memoryEntry{session: s, expiresAt: m.now().Add(m.ttl)}
	return s, nil
}

// pruneExpired drops every expired entry. Must be called with mu held.
func (m *MemoryStore) pruneExpired() {
	now := m.now()
	for id, entry := range m.sessions {
		if !now.Before(entry.expiresAt) {
			delete(m.sessions, id)
		}
	}
}

// live must be called with mu held.
func (m *MemoryStore) live(id uuid.UUID) (memoryEntry, bool) {
	entry, ok := m.sessions[id]
	if !ok {
		return memoryEntry{}, false
	}
	if !m.now().Before(entry.expiresAt) {
		delete(m.sessions, id)
		return memoryEntry{}, false
	}
	return entry, true
}

var (
	_ Store = (*RedisStore)(nil)
	_ Store = (*MemoryStore)(nil)
)
