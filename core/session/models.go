package session

import (
	"github.com/go-playground/validator/v10"

	"github.com/stiedu/loggedin/core"
)

// Roles
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

var AllRoles = []Role{RoleStudent, RoleAdmin}

func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Identity is the authenticated user's role and profile data for the
// current session. It is owned exclusively by the Store and replaced
// immutably on every login/register.
type Identity struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Email     string `json:"email"`
	Role      Role   `json:"role"`
	StudentID string `json:"student_id,omitempty"` // students only
	Token     string `json:"token,omitempty"`
}

func (id Identity) IsStudent() bool { return id.Role == RoleStudent }
func (id Identity) IsAdmin() bool   { return id.Role == RoleAdmin }

// LoginInput contains the credentials supplied on login.
type LoginInput struct {
	Email      string `json:"email" validate:"required,email"`
	Credential string `json:"password" validate:"required"`
}

func (in *LoginInput) Validate(validate *validator.Validate) error {
	in.Email = core.CleanString(in.Email, true /* lower */)
	return validate.Struct(in)
}

// RegisterInput contains information needed to open a session for a new user.
// The mock identity boundary keeps no user list, so there is no uniqueness check.
type RegisterInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Credential string `json:"password" validate:"required"`
	Role       Role   `json:"role" validate:"required,oneof=student admin"`
	StudentID  string `json:"student_id" validate:"required_if=Role student,omitempty,student_id"`
}

func (in *RegisterInput) Validate(validate *validator.Validate) error {
	in.Name = core.CleanString(in.Name)
	in.Email = core.CleanString(in.Email, true /* lower */)
	in.StudentID = core.CleanString(in.StudentID)
	return validate.Struct(in)
}
