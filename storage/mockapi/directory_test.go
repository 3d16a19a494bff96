package mockapi

import (
	"context"
	"testing"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/session"
)

func TestDirectoryAuthenticate(t *testing.T) {
	conf := core.NewTestConfig()
	dir := NewDirectory(New(conf))
	ctx := context.Background()

	t.Run("admin pair", func(t *testing.T) {
		ident, err := dir.Authenticate(ctx, "admin@sti.edu", "admin123")
		if err != nil {
			t.Fatalf("Authenticate(): %v", err)
		}
		if !ident.IsAdmin() || ident.Name != "Admin User" {
			t.Errorf("identity = %+v; want the admin", ident)
		}
	})

	t.Run("admin email is case insensitive", func(t *testing.T) {
		ident, err := dir.Authenticate(ctx, "  ADMIN@STI.EDU ", "admin123")
		if err != nil {
			t.Fatalf("Authenticate(): %v", err)
		}
		if !ident.IsAdmin() {
			t.Errorf("Role = %q; want %q", ident.Role, session.RoleAdmin)
		}
	})

	t.Run("admin email with wrong secret becomes a student", func(t *testing.T) {
		ident, err := dir.Authenticate(ctx, "admin@sti.edu", "hunter2")
		if err != nil {
			t.Fatalf("Authenticate(): %v", err)
		}
		if !ident.IsStudent() {
			t.Errorf("Role = %q; want %q", ident.Role, session.RoleStudent)
		}
		if !core.StudentIDRegex.MatchString(ident.StudentID) {
			t.Errorf("StudentID = %q; want STI-NNNNN", ident.StudentID)
		}
	})

	t.Run("empty credentials", func(t *testing.T) {
		if _, err := dir.Authenticate(ctx, "", ""); !core.IsAuthenticationError(err) {
			t.Errorf("err = %v; want AuthenticationError", err)
		}
		if _, err := dir.Authenticate(ctx, "jane@sti.edu", ""); !core.IsAuthenticationError(err) {
			t.Errorf("err = %v; want AuthenticationError", err)
		}
	})

	t.Run("any other pair is a student", func(t *testing.T) {
		ident, err := dir.Authenticate(ctx, "Jane@STI.edu", "whatever")
		if err != nil {
			t.Fatalf("Authenticate(): %v", err)
		}
		if !ident.IsStudent() {
			t.Errorf("Role = %q; want %q", ident.Role, session.RoleStudent)
		}
		if ident.Email != "jane@sti.edu" {
			t.Errorf("Email = %q; want %q", ident.Email, "jane@sti.edu")
		}
		if !core.StudentIDRegex.MatchString(ident.StudentID) {
			t.Errorf("StudentID = %q; want STI-xxxxx", ident.StudentID)
		}
	})
}
