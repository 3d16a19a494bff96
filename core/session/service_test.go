package session_test

import (
	"context"
	"testing"

	"github.com/pkg/errors"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/session"
	"github.com/stiedu/loggedin/storage/localstore"
	"github.com/stiedu/loggedin/storage/mockapi"
	testutil "github.com/stiedu/loggedin/tests"
)

func newStore(t *testing.T) (*session.Store, *localstore.Store) {
	t.Helper()
	conf := core.NewTestConfig()

	ls, err := localstore.Open(":memory:")
	if err != nil {
		t.Fatalf("localstore.Open(): %v", err)
	}
	t.Cleanup(func() { _ = ls.Close() })

	dir := mockapi.NewDirectory(mockapi.New(conf))
	return session.NewStore(dir, ls, testutil.NewLogger()), ls
}

func TestStoreLogin(t *testing.T) {
	ctx := context.Background()

	t.Run("admin pair opens an admin session", func(t *testing.T) {
		store, ls := newStore(t)
		store.TokenFunc = func(session.Identity) (string, error) { return "tok", nil }

		ident, err := store.Login(ctx, session.LoginInput{Email: "admin@sti.edu", Credential: "admin123"})
		if err != nil {
			t.Fatalf("Login(): %v", err)
		}
		if !ident.IsAdmin() {
			t.Errorf("Role = %q; want %q", ident.Role, session.RoleAdmin)
		}
		if ident.Token != "tok" {
			t.Errorf("Token = %q; want %q", ident.Token, "tok")
		}
		if curr := store.Current(); curr == nil || curr.ID != ident.ID {
			t.Errorf("Current() = %+v; want %+v", curr, ident)
		}

		persisted, err := ls.LoadIdentity()
		if err != nil {
			t.Fatalf("LoadIdentity(): %v", err)
		}
		if persisted == nil || persisted.Role != session.RoleAdmin {
			t.Errorf("persisted identity = %+v; want admin", persisted)
		}
	})

	t.Run("admin email with wrong secret opens a student session", func(t *testing.T) {
		store, _ := newStore(t)
		ident, err := store.Login(ctx, session.LoginInput{Email: "admin@sti.edu", Credential: "nope"})
		if err != nil {
			t.Fatalf("Login(): %v", err)
		}
		if !ident.IsStudent() {
			t.Errorf("Role = %q; want %q", ident.Role, session.RoleStudent)
		}
		if store.Current() == nil {
			t.Error("Current() = nil after login")
		}
	})

	t.Run("any other pair opens a student session", func(t *testing.T) {
		store, _ := newStore(t)
		ident, err := store.Login(ctx, session.LoginInput{Email: "jane@sti.edu", Credential: "whatever"})
		if err != nil {
			t.Fatalf("Login(): %v", err)
		}
		if !ident.IsStudent() {
			t.Errorf("Role = %q; want %q", ident.Role, session.RoleStudent)
		}
		if !core.StudentIDRegex.MatchString(ident.StudentID) {
			t.Errorf("StudentID = %q; want STI-xxxxx", ident.StudentID)
		}
	})

	t.Run("watchers observe the new identity", func(t *testing.T) {
		store, _ := newStore(t)
		var seen *session.Identity
		store.Watch(func(ident *session.Identity) { seen = ident })

		if _, err := store.Login(ctx, session.LoginInput{Email: "jane@sti.edu", Credential: "x"}); err != nil {
			t.Fatalf("Login(): %v", err)
		}
		if seen == nil || seen.Email != "jane@sti.edu" {
			t.Errorf("watcher saw %+v; want jane@sti.edu", seen)
		}
	})

	t.Run("fresh login re-arms the welcome notification", func(t *testing.T) {
		store, ls := newStore(t)
		if err := ls.SetMarker(session.WelcomeMarker(session.RoleStudent)); err != nil {
			t.Fatalf("SetMarker(): %v", err)
		}
		if _, err := store.Login(ctx, session.LoginInput{Email: "jane@sti.edu", Credential: "x"}); err != nil {
			t.Fatalf("Login(): %v", err)
		}
		shown, err := ls.Marker(session.WelcomeMarker(session.RoleStudent))
		if err != nil {
			t.Fatalf("Marker(): %v", err)
		}
		if shown {
			t.Error("welcome marker still set after fresh login")
		}
	})
}

func TestStoreRegister(t *testing.T) {
	store, ls := newStore(t)
	store.TokenFunc = func(session.Identity) (string, error) { return "tok", nil }

	ident, err := store.Register(context.Background(), session.RegisterInput{
		Name:       "Jane Smith",
		Email:      "jane@sti.edu",
		Credential: "s3cret",
		Role:       session.RoleStudent,
		StudentID:  "STI-23456",
	})
	if err != nil {
		t.Fatalf("Register(): %v", err)
	}
	if ident.ID == "" {
		t.Error("ID is empty")
	}
	if ident.StudentID != "STI-23456" {
		t.Errorf("StudentID = %q; want %q", ident.StudentID, "STI-23456")
	}
	if ident.Token != "tok" {
		t.Errorf("Token = %q; want %q", ident.Token, "tok")
	}

	persisted, err := ls.LoadIdentity()
	if err != nil {
		t.Fatalf("LoadIdentity(): %v", err)
	}
	if persisted == nil || persisted.Email != "jane@sti.edu" {
		t.Errorf("persisted identity = %+v; want jane@sti.edu", persisted)
	}
}

func TestStoreRegisterKeepsWelcomeMarker(t *testing.T) {
	store, ls := newStore(t)
	if err := ls.SetMarker(session.WelcomeMarker(session.RoleStudent)); err != nil {
		t.Fatalf("SetMarker(): %v", err)
	}

	_, err := store.Register(context.Background(), session.RegisterInput{
		Name:       "Jane Smith",
		Email:      "jane@sti.edu",
		Credential: "s3cret",
		Role:       session.RoleStudent,
		StudentID:  "STI-23456",
	})
	if err != nil {
		t.Fatalf("Register(): %v", err)
	}

	shown, err := ls.Marker(session.WelcomeMarker(session.RoleStudent))
	if err != nil {
		t.Fatalf("Marker(): %v", err)
	}
	if !shown {
		t.Error("registration cleared the welcome marker")
	}
}

func TestStoreLogout(t *testing.T) {
	store, ls := newStore(t)
	if _, err := store.Login(context.Background(), session.LoginInput{Email: "jane@sti.edu", Credential: "x"}); err != nil {
		t.Fatalf("Login(): %v", err)
	}

	var calls []*session.Identity
	store.Watch(func(ident *session.Identity) { calls = append(calls, ident) })

	store.Logout()

	if store.Current() != nil {
		t.Error("Current() != nil after logout")
	}
	if len(calls) != 1 || calls[0] != nil {
		t.Errorf("watcher calls = %+v; want a single nil", calls)
	}
	persisted, err := ls.LoadIdentity()
	if err != nil {
		t.Fatalf("LoadIdentity(): %v", err)
	}
	if persisted != nil {
		t.Errorf("persisted identity = %+v; want nil", persisted)
	}
}

func TestStoreRestore(t *testing.T) {
	t.Run("persisted identity is restored without re-validation", func(t *testing.T) {
		store, ls := newStore(t)
		ident, err := store.Login(context.Background(), session.LoginInput{Email: "jane@sti.edu", Credential: "x"})
		if err != nil {
			t.Fatalf("Login(): %v", err)
		}

		// a second store over the same storage stands in for a process restart
		restarted := session.NewStore(nil, ls, testutil.NewLogger())
		var seen *session.Identity
		restarted.Watch(func(ident *session.Identity) { seen = ident })
		restarted.Restore()

		if curr := restarted.Current(); curr == nil || curr.ID != ident.ID {
			t.Errorf("Current() = %+v; want %+v", curr, ident)
		}
		if seen == nil || seen.ID != ident.ID {
			t.Errorf("watcher saw %+v; want %+v", seen, ident)
		}
	})

	t.Run("empty storage stays unauthenticated", func(t *testing.T) {
		store, _ := newStore(t)
		store.Restore()
		if store.Current() != nil {
			t.Errorf("Current() = %+v; want nil", store.Current())
		}
	})

	t.Run("corrupt storage stays unauthenticated", func(t *testing.T) {
		store := session.NewStore(nil, failStorage{}, testutil.NewLogger())
		store.Restore()
		if store.Current() != nil {
			t.Errorf("Current() = %+v; want nil", store.Current())
		}
	})
}

// failStorage fails every read; writes succeed silently.
type failStorage struct{}

func (failStorage) SaveIdentity(session.Identity) error { return nil }
func (failStorage) LoadIdentity() (*session.Identity, error) {
	return nil, errors.New("decoding persisted identity")
}
func (failStorage) ClearIdentity() error         { return nil }
func (failStorage) ClearMarker(key string) error { return nil }
