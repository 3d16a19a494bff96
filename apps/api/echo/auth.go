package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/stiedu/loggedin/core"
	"github.com/stiedu/loggedin/core/session"
)

const tokenContextKey = "identityToken"

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	Name      string `json:"name,omitempty"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role,omitempty"`
	StudentID string `json:"student_id,omitempty"`
	IsStudent bool   `json:"is_student,omitempty"` // -> STUDENT PORTAL
	IsAdmin   bool   `json:"is_admin,omitempty"`   // -> ADMIN PORTAL
}

func (c *Claims) Identity() session.Identity {
	return session.Identity{
		ID:        c.Subject,
		Name:      c.Name,
		Email:     c.Email,
		Role:      session.Role(c.Role),
		StudentID: c.StudentID,
	}
}

func newJWTConfig(conf *core.Config) middleware.JWTConfig {
	return middleware.JWTConfig{
		SigningKey:    []byte(conf.SecretKey),
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    tokenContextKey,
		Claims:        new(Claims),
	}
}

// GetIdentityClaims builds the claims carried by a session token.
func GetIdentityClaims(conf *core.Config, ident session.Identity) *Claims {
	now := time.Now()
	return &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    conf.AppName,
			Subject:   ident.ID,
			ExpiresAt: now.Add(conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  now.Unix(),
		},
		Name:      ident.Name,
		Email:     ident.Email,
		Role:      string(ident.Role),
		StudentID: ident.StudentID,
		IsStudent: ident.IsStudent(),
		IsAdmin:   ident.IsAdmin(),
	}
}

// GenerateToken generates a signed JWT token string representing the claims.
func GenerateToken(conf *core.Config, claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(middleware.AlgorithmHS256)
	token := jwt.NewWithClaims(method, claims)
	return token.SignedString([]byte(conf.SecretKey))
}

// TokenFunc adapts token generation to the session store's issuer hook.
func TokenFunc(conf *core.Config) func(session.Identity) (string, error) {
	return func(ident session.Identity) (string, error) {
		return GenerateToken(conf, GetIdentityClaims(conf, ident))
	}
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(tokenContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}
