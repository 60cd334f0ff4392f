package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/switchyard-io/switchyard/pkg/repository"
)

type repo struct {
	db     *sql.DB
	cfg    Config
	oidc   emailVerifier
	logger *slog.Logger
}

// New creates an auth repository implementing the System interface.
// When the config names an OIDC issuer, tokens failing local
// verification are retried as OIDC ID tokens.
func New(db *sql.DB, cfg Config, logger *slog.Logger) System {
	r := &repo{
		db:     db,
		cfg:    cfg,
		logger: logger.With("system", "auth"),
	}

	if cfg.OIDCEnabled() {
		r.oidc = newOIDCVerifier(cfg.OIDCIssuer, cfg.OIDCClientID)
	}

	return r
}

func (r *repo) Handler() *Handler {
	return NewHandler(r, r.logger)
}

const userColumns = "id, email, name, created_at"

func (r *repo) Register(ctx context.Context, cmd RegisterCommand) (*User, error) {
	if cmd.Email == "" || cmd.Name == "" || cmd.Password == "" {
		return nil, ErrInvalidRegistration
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(cmd.Password), r.cfg.BcryptCost)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidRegistration, err)
	}

	row := r.db.QueryRowContext(ctx,
		"INSERT INTO users (email, name, password_hash) VALUES ($1, $2, $3) RETURNING "+userColumns,
		cmd.Email, cmd.Name, string(hash))

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrEmailTaken)
	}

	r.logger.InfoContext(ctx, "user registered", "user_id", u.ID, "email", u.Email)
	return &u, nil
}

func (r *repo) Login(ctx context.Context, cmd LoginCommand) (*Session, error) {
	if cmd.Email == "" || cmd.Password == "" {
		return nil, ErrInvalidCredentials
	}

	row := r.db.QueryRowContext(ctx,
		"SELECT id, email, name, password_hash, created_at FROM users WHERE email = $1",
		cmd.Email)

	var u User
	var hash string
	err := row.Scan(&u.ID, &u.Email, &u.Name, &hash, &u.CreatedAt)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return nil, ErrInvalidCredentials
	case err != nil:
		return nil, fmt.Errorf("query user: %w", err)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(cmd.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	token, expires, err := issueToken(&u, r.cfg.TokenSecret, r.cfg.TokenTTLDuration(), time.Now().UTC())
	if err != nil {
		return nil, err
	}

	r.logger.InfoContext(ctx, "user logged in", "user_id", u.ID)

	return &Session{Token: token, ExpiresAt: expires, User: u}, nil
}

func (r *repo) Find(ctx context.Context, id uuid.UUID) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE id = $1", id)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrEmailTaken)
	}
	return &u, nil
}

func (r *repo) Authenticate(ctx context.Context, token string) (*User, error) {
	userID, localErr := parseToken(token, r.cfg.TokenSecret)
	if localErr == nil {
		user, err := r.Find(ctx, userID)
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: unknown subject", ErrInvalidToken)
		}
		return user, err
	}

	if r.oidc == nil {
		return nil, localErr
	}

	email, err := r.oidc.VerifyEmail(ctx, token)
	if err != nil {
		return nil, err
	}

	user, err := r.findByEmail(ctx, email)
	if errors.Is(err, ErrNotFound) {
		return nil, fmt.Errorf("%w: no account for %s", ErrInvalidToken, email)
	}
	return user, err
}

func (r *repo) findByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx,
		"SELECT "+userColumns+" FROM users WHERE email = $1", email)

	var u User
	if err := row.Scan(&u.ID, &u.Email, &u.Name, &u.CreatedAt); err != nil {
		return nil, repository.MapError(err, ErrNotFound, ErrEmailTaken)
	}
	return &u, nil
}
