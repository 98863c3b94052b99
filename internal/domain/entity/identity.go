package entity

import (
	errs "github.com/summitaiAU/invoice-lockd/internal/domain/error"
)

// Identity is the acting user as reported by the authentication collaborator.
// The service never authenticates anyone itself; it trusts the identity the
// API gateway attaches to each request.
type Identity struct {
	UserID string
	Email  string
}

// Validate checks that the identity carries both required fields
func (i Identity) Validate() error {
	if i.UserID == "" || i.Email == "" {
		return errs.ErrInvalidIdentity
	}
	return nil
}
