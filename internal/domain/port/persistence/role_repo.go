package persistence

import (
	"context"
)

// RoleRepository is the allow-list collaborator consulted before a forced
// takeover. Role administration lives elsewhere; this service only reads.
type RoleRepository interface {
	// IsPrivileged reports whether the user behind the email may force-take
	// locks held by other users.
	//
	// Possible errors:
	// - ErrDatabaseConnection: if the store cannot be reached
	IsPrivileged(ctx context.Context, email string) (bool, error)
}
