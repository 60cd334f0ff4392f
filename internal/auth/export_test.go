package auth

import (
	"context"
	"database/sql"
	"log/slog"
)

// NewWithVerifier builds a System whose OIDC fallback is routed through
// verify instead of live issuer discovery. Tests use it to fabricate
// externally issued identities.
func NewWithVerifier(
	db *sql.DB,
	cfg Config,
	verify func(ctx context.Context, rawToken string) (string, error),
	logger *slog.Logger,
) System {
	return &repo{
		db:     db,
		cfg:    cfg,
		oidc:   verifyFunc(verify),
		logger: logger.With("system", "auth"),
	}
}

type verifyFunc func(ctx context.Context, rawToken string) (string, error)

func (f verifyFunc) VerifyEmail(ctx context.Context, rawToken string) (string, error) {
	return f(ctx, rawToken)
}
