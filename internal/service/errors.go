package service

import (
	"errors"

	"github.com/jkx4r/techify/internal/models"
)

var (
	ErrNotFound     = errors.New("not found")
	ErrForbidden    = errors.New("forbidden")
	ErrLimitReached = errors.New("limit reached")
	ErrValidation   = errors.New("validation")
)

// Identity is the already-resolved caller of a request. Services trust it as
// given; resolving a token into one is AuthService's job, once per request.
type Identity struct {
	Handle string
	Role   models.Role
}

func (i Identity) IsAdmin() bool {
	return i.Role == models.RoleAdmin
}
