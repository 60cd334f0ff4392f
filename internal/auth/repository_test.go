package auth_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jackc/pgx/v5/pgconn"
	"golang.org/x/crypto/bcrypt"

	"github.com/switchyard-io/switchyard/internal/auth"
)

func testConfig() auth.Config {
	return auth.Config{
		TokenSecret: "unit-test-secret",
		TokenTTL:    "24h",
		BcryptCost:  bcrypt.MinCost,
	}
}

func newSystemWithMock(t *testing.T) (auth.System, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return auth.New(db, testConfig(), discardLogger()), mock
}

func userRows(u auth.User) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "email", "name", "created_at"}).
		AddRow(u.ID, u.Email, u.Name, u.CreatedAt)
}

func TestRegisterStoresHash(t *testing.T) {
	sys, mock := newSystemWithMock(t)
	user := sampleUser()

	mock.ExpectQuery("INSERT INTO users").
		WithArgs(user.Email, user.Name, sqlmock.AnyArg()).
		WillReturnRows(userRows(user))

	got, err := sys.Register(context.Background(), auth.RegisterCommand{
		Email:    user.Email,
		Name:     user.Name,
		Password: "signal-box-42",
	})
	if err != nil {
		t.Fatalf("Register() error: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %v, want %v", got.ID, user.ID)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("expectations: %v", err)
	}
}

func TestRegisterMissingFields(t *testing.T) {
	sys, _ := newSystemWithMock(t)

	_, err := sys.Register(context.Background(), auth.RegisterCommand{Email: "x@y.z"})
	if !errors.Is(err, auth.ErrInvalidRegistration) {
		t.Errorf("error = %v, want ErrInvalidRegistration", err)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	sys, mock := newSystemWithMock(t)

	mock.ExpectQuery("INSERT INTO users").
		WillReturnError(&pgconn.PgError{Code: "23505"})

	_, err := sys.Register(context.Background(), auth.RegisterCommand{
		Email:    "yard@example.com",
		Name:     "Yard Master",
		Password: "signal-box-42",
	})
	if !errors.Is(err, auth.ErrEmailTaken) {
		t.Errorf("error = %v, want ErrEmailTaken", err)
	}
}

func TestLoginIssuesToken(t *testing.T) {
	sys, mock := newSystemWithMock(t)
	user := sampleUser()

	hash, err := bcrypt.GenerateFromPassword([]byte("signal-box-42"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generate hash: %v", err)
	}

	mock.ExpectQuery("SELECT id, email, name, password_hash, created_at FROM users WHERE email").
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "name", "password_hash", "created_at"},
		).AddRow(user.ID, user.Email, user.Name, string(hash), user.CreatedAt))

	session, err := sys.Login(context.Background(), auth.LoginCommand{
		Email:    user.Email,
		Password: "signal-box-42",
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	if session.Token == "" {
		t.Error("token should not be empty")
	}
	if session.User.ID != user.ID {
		t.Errorf("User.ID = %v, want %v", session.User.ID, user.ID)
	}
	if session.ExpiresAt.Before(time.Now().Add(23 * time.Hour)) {
		t.Errorf("ExpiresAt = %v, want roughly 24h out", session.ExpiresAt)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	sys, mock := newSystemWithMock(t)
	user := sampleUser()

	hash, err := bcrypt.GenerateFromPassword([]byte("signal-box-42"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generate hash: %v", err)
	}

	mock.ExpectQuery("SELECT id, email, name, password_hash, created_at FROM users WHERE email").
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "name", "password_hash", "created_at"},
		).AddRow(user.ID, user.Email, user.Name, string(hash), user.CreatedAt))

	_, err = sys.Login(context.Background(), auth.LoginCommand{
		Email:    user.Email,
		Password: "wrong-password",
	})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestLoginUnknownEmail(t *testing.T) {
	sys, mock := newSystemWithMock(t)

	mock.ExpectQuery("SELECT id, email, name, password_hash, created_at FROM users WHERE email").
		WithArgs("ghost@example.com").
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "name", "password_hash", "created_at"},
		))

	_, err := sys.Login(context.Background(), auth.LoginCommand{
		Email:    "ghost@example.com",
		Password: "anything",
	})
	if !errors.Is(err, auth.ErrInvalidCredentials) {
		t.Errorf("error = %v, want ErrInvalidCredentials", err)
	}
}

func TestAuthenticateRoundTrip(t *testing.T) {
	sys, mock := newSystemWithMock(t)
	user := sampleUser()

	hash, err := bcrypt.GenerateFromPassword([]byte("signal-box-42"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generate hash: %v", err)
	}

	mock.ExpectQuery("SELECT id, email, name, password_hash, created_at FROM users WHERE email").
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "name", "password_hash", "created_at"},
		).AddRow(user.ID, user.Email, user.Name, string(hash), user.CreatedAt))

	session, err := sys.Login(context.Background(), auth.LoginCommand{
		Email:    user.Email,
		Password: "signal-box-42",
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	mock.ExpectQuery("SELECT id, email, name, created_at FROM users WHERE id").
		WithArgs(user.ID).
		WillReturnRows(userRows(user))

	got, err := sys.Authenticate(context.Background(), session.Token)
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %v, want %v", got.ID, user.ID)
	}
	if got.Email != user.Email {
		t.Errorf("Email = %q, want %q", got.Email, user.Email)
	}
}

func TestAuthenticateGarbageToken(t *testing.T) {
	sys, _ := newSystemWithMock(t)

	_, err := sys.Authenticate(context.Background(), "not-a-jwt")
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthenticateOIDCFallback(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	user := sampleUser()
	sys := auth.NewWithVerifier(db, testConfig(),
		func(_ context.Context, rawToken string) (string, error) {
			if rawToken != "external.id.token" {
				t.Errorf("rawToken = %q, want %q", rawToken, "external.id.token")
			}
			return user.Email, nil
		}, discardLogger())

	mock.ExpectQuery("SELECT id, email, name, created_at FROM users WHERE email").
		WithArgs(user.Email).
		WillReturnRows(userRows(user))

	got, err := sys.Authenticate(context.Background(), "external.id.token")
	if err != nil {
		t.Fatalf("Authenticate() error: %v", err)
	}
	if got.ID != user.ID {
		t.Errorf("ID = %v, want %v", got.ID, user.ID)
	}
}

func TestAuthenticateOIDCUnknownEmail(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New() error: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	sys := auth.NewWithVerifier(db, testConfig(),
		func(context.Context, string) (string, error) {
			return "stranger@example.com", nil
		}, discardLogger())

	mock.ExpectQuery("SELECT id, email, name, created_at FROM users WHERE email").
		WithArgs("stranger@example.com").
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "created_at"}))

	_, err = sys.Authenticate(context.Background(), "external.id.token")
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}

func TestAuthenticateUnknownSubject(t *testing.T) {
	sys, mock := newSystemWithMock(t)
	user := sampleUser()

	hash, err := bcrypt.GenerateFromPassword([]byte("signal-box-42"), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("generate hash: %v", err)
	}

	mock.ExpectQuery("SELECT id, email, name, password_hash, created_at FROM users WHERE email").
		WithArgs(user.Email).
		WillReturnRows(sqlmock.NewRows(
			[]string{"id", "email", "name", "password_hash", "created_at"},
		).AddRow(user.ID, user.Email, user.Name, string(hash), user.CreatedAt))

	session, err := sys.Login(context.Background(), auth.LoginCommand{
		Email:    user.Email,
		Password: "signal-box-42",
	})
	if err != nil {
		t.Fatalf("Login() error: %v", err)
	}

	mock.ExpectQuery("SELECT id, email, name, created_at FROM users WHERE id").
		WithArgs(user.ID).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "name", "created_at"}))

	_, err = sys.Authenticate(context.Background(), session.Token)
	if !errors.Is(err, auth.ErrInvalidToken) {
		t.Errorf("error = %v, want ErrInvalidToken", err)
	}
}
