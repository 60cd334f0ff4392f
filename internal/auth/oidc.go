package auth

import (
	"context"
	"fmt"
	"sync"

	"github.com/coreos/go-oidc/v3/oidc"
)

// emailVerifier verifies an externally issued token and returns the
// email claim it carries.
type emailVerifier interface {
	VerifyEmail(ctx context.Context, rawToken string) (string, error)
}

// oidcVerifier verifies OIDC ID tokens against a configured issuer.
// Provider discovery runs on first use and the verifier is cached for
// the process lifetime.
type oidcVerifier struct {
	issuer   string
	clientID string

	mu       sync.Mutex
	verifier *oidc.IDTokenVerifier
}

func newOIDCVerifier(issuer, clientID string) *oidcVerifier {
	return &oidcVerifier{issuer: issuer, clientID: clientID}
}

func (v *oidcVerifier) VerifyEmail(ctx context.Context, rawToken string) (string, error) {
	verifier, err := v.tokenVerifier(ctx)
	if err != nil {
		return "", fmt.Errorf("oidc discovery: %w", err)
	}

	token, err := verifier.Verify(ctx, rawToken)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}

	var claims struct {
		Email string `json:"email"`
	}
	if err := token.Claims(&claims); err != nil {
		return "", fmt.Errorf("%w: decode claims: %w", ErrInvalidToken, err)
	}
	if claims.Email == "" {
		return "", fmt.Errorf("%w: id token has no email claim", ErrInvalidToken)
	}

	return claims.Email, nil
}

func (v *oidcVerifier) tokenVerifier(ctx context.Context) (*oidc.IDTokenVerifier, error) {
	v.mu.Lock()
	defer v.mu.Unlock()

	if v.verifier != nil {
		return v.verifier, nil
	}

	provider, err := oidc.NewProvider(ctx, v.issuer)
	if err != nil {
		return nil, err
	}

	v.verifier = provider.Verifier(&oidc.Config{ClientID: v.clientID})
	return v.verifier, nil
}
