// Package auth provides local account management, token issuance, and
// request authentication for the Switchyard API. Accounts are stored
// with bcrypt password hashes and sessions are carried as HS256 JWTs in
// the Authorization header or the auth_token cookie. When an OIDC
// issuer is configured, externally issued ID tokens are accepted and
// mapped to local accounts by email claim.
package auth

import (
	"time"

	"github.com/google/uuid"
)

// User represents a registered account. Password hashes never leave
// the repository layer.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}

// RegisterCommand carries the fields required to create an account.
type RegisterCommand struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

// LoginCommand carries local login credentials.
type LoginCommand struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Session pairs an issued token with the user it authenticates.
type Session struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expires_at"`
	User      User      `json:"user"`
}
