package mockapi

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"golang.org/x/crypto/bcrypt"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/session"
)

var errInvalidCredentials = errors.New("invalid credentials")

// Directory is the mocked identity boundary: the fixed admin pair maps to
// the admin identity, any other non-empty email/credential pair maps to a
// freshly synthesized student.
type Directory struct {
	api *API
}

var _ session.Directory = (*Directory)(nil)

func NewDirectory(api *API) *Directory {
	return &Directory{api: api}
}

func (d *Directory) Authenticate(ctx context.Context, email, credential string) (session.Identity, error) {
	if err := d.api.latency(ctx, "authenticating"); err != nil {
		return session.Identity{}, err
	}

	email = core.CleanString(email, true /* lower */)
	if email == "" || credential == "" {
		return session.Identity{}, core.NewAuthenticationError(errInvalidCredentials)
	}

	if email == d.api.conf.AdminEmail &&
		bcrypt.CompareHashAndPassword([]byte(d.api.conf.AdminSecretHash), []byte(credential)) == nil {
		return session.Identity{
			ID:    "1",
			Name:  "Admin User",
			Email: email,
			Role:  session.RoleAdmin,
		}, nil
	}

	// the admin email with a wrong secret is treated like any other pair
	return session.Identity{
		ID:        uuid.New().String(),
		Name:      "Student User",
		Email:     email,
		Role:      session.RoleStudent,
		StudentID: fmt.Sprintf("STI-%d", 10000+rand.Intn(90000)),
	}, nil
}
