package auth

import (
	"context"

	"github.com/google/uuid"
)

// System defines the public contract for auth domain operations.
type System interface {
	Handler() *Handler

	Register(ctx context.Context, cmd RegisterCommand) (*User, error)
	Login(ctx context.Context, cmd LoginCommand) (*Session, error)
	Find(ctx context.Context, id uuid.UUID) (*User, error)

	// Authenticate resolves a bearer token to a user. Locally signed
	// tokens are verified first; when an OIDC issuer is configured,
	// tokens that fail local verification are verified as OIDC ID
	// tokens and mapped to users by email claim.
	Authenticate(ctx context.Context, token string) (*User, error)
}
