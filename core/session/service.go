package session

import (
	"context"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/pkg/errors"

	"github.com/stiedu/loggedin/core"
)

var (
	// errors
	ErrNotAuthenticated = errors.New("no active session")
)

type (
	// Directory is the remote identity boundary the Store validates
	// credentials against.
	Directory interface {
		Authenticate(ctx context.Context, email, credential string) (Identity, error)
	}

	// Storage is the durable client storage holding the persisted Identity.
	Storage interface {
		SaveIdentity(Identity) error
		LoadIdentity() (*Identity, error)
		ClearIdentity() error
		ClearMarker(key string) error
	}

	// Watcher is notified whenever the session identity changes.
	// It receives the new identity, or nil when the session ends.
	Watcher func(*Identity)

	// Store holds the current Identity, persists it across restarts and
	// fans identity changes out to registered watchers. Exactly one
	// session is active at a time.
	Store struct {
		dir     Directory
		storage Storage
		logger  core.Logger

		// TokenFunc, when set, issues the API token attached to the
		// identity on login/register.
		TokenFunc func(Identity) (string, error)

		mu       sync.RWMutex
		current  *Identity
		watchers []Watcher
	}
)

func NewStore(dir Directory, storage Storage, logger core.Logger) *Store {
	return &Store{dir: dir, storage: storage, logger: logger}
}

// Watch registers a watcher; it must be called before Restore so start-of-day
// restores are observed too.
func (s *Store) Watch(w Watcher) {
	s.mu.Lock()
	s.watchers = append(s.watchers, w)
	s.mu.Unlock()
}

// Current returns the active identity, or nil when unauthenticated.
func (s *Store) Current() *Identity {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return nil
	}
	ident := *s.current
	return &ident
}

// Login validates the credentials against the identity boundary and, on
// success, installs and persists the resulting identity.
func (s *Store) Login(ctx context.Context, in LoginInput) (Identity, error) {
	ident, err := s.dir.Authenticate(ctx, in.Email, in.Credential)
	if err != nil {
		return Identity{}, errors.Wrap(err, "authenticating")
	}
	if err := s.install(ident, true); err != nil {
		return Identity{}, err
	}
	return ident, nil
}

// Register constructs a fresh identity and installs it analogous to Login.
// The mock boundary keeps no user list, so no uniqueness check happens.
func (s *Store) Register(ctx context.Context, in RegisterInput) (Identity, error) {
	ident := Identity{
		ID:        uuid.New().String(),
		Name:      in.Name,
		Email:     in.Email,
		Role:      in.Role,
		StudentID: in.StudentID,
	}
	if err := s.install(ident, false); err != nil {
		return Identity{}, err
	}
	return ident, nil
}

// Logout clears the persisted and in-memory identity. It cannot fail:
// storage errors are logged and the in-memory session ends regardless.
func (s *Store) Logout() {
	if err := s.storage.ClearIdentity(); err != nil {
		s.logger.Error(fmt.Sprintf("clearing persisted identity: %v", err), err)
	}
	s.mu.Lock()
	s.current = nil
	watchers := s.watchers
	s.mu.Unlock()

	for _, w := range watchers {
		w(nil)
	}
}

// Restore is invoked once at process start. It reads the persisted identity,
// if any, and installs it without re-validating credentials (trust-on-read;
// the boundary is a mock). Absent or corrupt storage leaves the session
// unauthenticated and never fails.
func (s *Store) Restore() {
	ident, err := s.storage.LoadIdentity()
	if err != nil {
		s.logger.Warn(fmt.Sprintf("restoring session: %v", err), err)
		return
	}
	if ident == nil {
		return
	}

	s.mu.Lock()
	s.current = ident
	watchers := s.watchers
	s.mu.Unlock()

	for _, w := range watchers {
		cp := *ident
		w(&cp)
	}
}

func (s *Store) install(ident Identity, freshLogin bool) error {
	if s.TokenFunc != nil {
		token, err := s.TokenFunc(ident)
		if err != nil {
			return errors.Wrap(err, "issuing token")
		}
		ident.Token = token
	}

	if err := s.storage.SaveIdentity(ident); err != nil {
		return errors.Wrap(err, "persisting identity")
	}
	if freshLogin {
		// only a fresh login re-arms the role's one-time dashboard welcome
		if err := s.storage.ClearMarker(WelcomeMarker(ident.Role)); err != nil {
			s.logger.Error(fmt.Sprintf("clearing welcome marker: %v", err), err)
		}
	}

	s.mu.Lock()
	s.current = &ident
	watchers := s.watchers
	s.mu.Unlock()

	for _, w := range watchers {
		cp := ident
		w(&cp)
	}
	return nil
}

// WelcomeMarker names the durable boolean gating the role dashboard's
// one-time welcome notification.
func WelcomeMarker(role Role) string {
	if role == RoleAdmin {
		return "hasVisitedAdminDashboard"
	}
	return "hasVisitedDashboard"
}
