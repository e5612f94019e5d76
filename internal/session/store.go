package session

import (
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrNotFound is returned for an unknown or expired session id.
var ErrNotFound = errors.New("session not found")

// DefaultTTL is how long an idle session is kept.
const DefaultTTL = time.Hour

// Store holds live sessions. Each lookup extends the session's lifetime.
type Store struct {
	data     *Dataset
	settings Settings
	ttl      time.Duration
	sessions *cache.Cache
}

// NewStore creates a store over the shared dataset. A ttl <= 0 uses DefaultTTL.
func NewStore(data *Dataset, settings Settings, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		data:     data,
		settings: settings,
		ttl:      ttl,
		sessions: cache.New(ttl, 2*ttl),
	}
}

// Dataset returns the shared survey data.
func (st *Store) Dataset() *Dataset { return st.data }

// Settings returns the rendering settings shared by every session.
func (st *Store) Settings() Settings { return st.settings }

// Create starts a session with every option selected and the rating layer.
func (st *Store) Create() *Session {
	s := newSession(uuid.NewString(), st.data, st.settings)
	st.sessions.Set(s.ID, s, cache.DefaultExpiration)
	slog.Debug("session created", "id", s.ID, "live", st.sessions.ItemCount())
	return s
}

// Get returns a live session and extends its lifetime.
func (st *Store) Get(id string) (*Session, error) {
	v, ok := st.sessions.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	s := v.(*Session)
	st.sessions.Set(id, s, cache.DefaultExpiration)
	return s, nil
}

// Update applies c to the session with the given id.
func (st *Store) Update(id string, c Change) (*Snapshot, error) {
	s, err := st.Get(id)
	if err != nil {
		return nil, err
	}
	return s.Apply(c)
}

// Delete ends a session. Unknown ids are ignored.
func (st *Store) Delete(id string) {
	st.sessions.Delete(id)
}

// Len counts live sessions, including expired ones not yet swept.
func (st *Store) Len() int { return st.sessions.ItemCount() }
