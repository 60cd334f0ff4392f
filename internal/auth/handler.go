package auth

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/switchyard-io/switchyard/pkg/handlers"
	"github.com/switchyard-io/switchyard/pkg/routes"
)

// CookieName is the cookie that carries the session token alongside
// the Authorization header.
const CookieName = "auth_token"

// Handler provides HTTP endpoints for account operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "auth"),
	}
}

// Routes returns the route group definition for auth endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/auth",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/register", Handler: h.Register},
			{Method: "POST", Pattern: "/login", Handler: h.Login},
			{Method: "GET", Pattern: "/me", Handler: h.Me},
		},
	}
}

// Register creates a local account from a JSON request body.
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var cmd RegisterCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	user, err := h.sys.Register(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusCreated, user)
}

// Login verifies credentials and issues a session token, returned in
// the body and set as the auth_token cookie.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var cmd LoginCommand
	if err := json.NewDecoder(r.Body).Decode(&cmd); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	session, err := h.sys.Login(r.Context(), cmd)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	handlers.RespondJSON(w, http.StatusOK, session)
}

// Me returns the identity attached to the request context.
func (h *Handler) Me(w http.ResponseWriter, r *http.Request) {
	user, ok := CurrentUser(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, ErrUnauthorized)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, user)
}
