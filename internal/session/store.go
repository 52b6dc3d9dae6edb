// Package session owns the authentication state of the client: the bearer
// token, the authenticated user profile, and the persisted copy of the
// token. Every mutation flows through the store, which keeps one invariant
// at all observable points: token in memory ⇔ token on disk ⇔ credential
// attached to the backend client.
package session

import (
	"context"
	"log"
	"sync"

	"github.com/kfranzen/pokedeck/internal/backend"
)

// Backend is the slice of the backend client the session store needs.
type Backend interface {
	Login(ctx context.Context, username, password string) (string, error)
	Register(ctx context.Context, username, email, password string) (string, error)
	CurrentUser(ctx context.Context) (backend.User, error)
	SetCredential(token string)
	ClearCredential()
}

// Snapshot is a copy of the session state at one point in time.
type Snapshot struct {
	Token   string
	User    *backend.User
	Loading bool
}

// Authenticated reports whether a bearer token is held. The user profile may
// still be absent for the duration of one profile fetch after login.
func (s Snapshot) Authenticated() bool {
	return s.Token != ""
}

// Store coordinates session mutations. Login, register, logout, and the
// startup restore all take the store mutex, so overlapping calls serialize
// here rather than relying on the UI to prevent them.
type Store struct {
	mu        sync.Mutex
	backend   Backend
	tokenPath string

	token   string
	user    *backend.User
	loading bool
}

// New builds a Store persisting its token at tokenPath. The session counts
// as loading until Initialize has run once.
func New(b Backend, tokenPath string) *Store {
	return &Store{
		backend:   b,
		tokenPath: tokenPath,
		loading:   true,
	}
}

// Initialize restores the session from the persisted token. With no token on
// disk it completes immediately. With a token it attaches the credential and
// validates it by fetching the user profile; any failure there clears both
// the in-memory and persisted token. Loading is marked complete exactly once
// per call, on every path.
func (s *Store) Initialize(ctx context.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	defer func() { s.loading = false }()

	token, err := readToken(s.tokenPath)
	if err != nil {
		log.Printf("session restore: %v", err)
		s.clearLocked()
		return
	}
	if token == "" {
		return
	}

	s.token = token
	s.backend.SetCredential(token)

	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		log.Printf("session restore: profile fetch failed: %v", err)
		s.clearLocked()
		return
	}
	s.user = &user
}

// Login authenticates with the backend, persists the returned token, and
// fetches the user profile. On failure no session state is left behind: a
// failed credential exchange mutates nothing, and a failed profile fetch
// rolls the token back before the error is returned.
func (s *Store) Login(ctx context.Context, username, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.backend.Login(ctx, username, password)
	if err != nil {
		return err
	}
	return s.adoptTokenLocked(ctx, token)
}

// Register creates an account and establishes a session with the same
// token-then-profile sequencing and failure contract as Login.
func (s *Store) Register(ctx context.Context, username, email, password string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	token, err := s.backend.Register(ctx, username, email, password)
	if err != nil {
		return err
	}
	return s.adoptTokenLocked(ctx, token)
}

// Logout clears the user, the token, the persisted token, and the attached
// credential. No server call is made.
func (s *Store) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearLocked()
}

// Authenticated reports whether a bearer token is currently held.
func (s *Store) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.token != ""
}

// Snapshot returns a copy of the current session state.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{Token: s.token, Loading: s.loading}
	if s.user != nil {
		user := *s.user
		snap.User = &user
	}
	return snap
}

func (s *Store) adoptTokenLocked(ctx context.Context, token string) error {
	s.token = token
	s.backend.SetCredential(token)
	if err := writeToken(s.tokenPath, token); err != nil {
		s.clearLocked()
		return err
	}

	user, err := s.backend.CurrentUser(ctx)
	if err != nil {
		s.clearLocked()
		return err
	}
	s.user = &user
	return nil
}

func (s *Store) clearLocked() {
	s.user = nil
	s.token = ""
	s.backend.ClearCredential()
	if err := removeToken(s.tokenPath); err != nil {
		log.Printf("session: %v", err)
	}
}
