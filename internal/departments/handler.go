package departments

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/switchyard-io/switchyard/pkg/handlers"
	"github.com/switchyard-io/switchyard/pkg/pagination"
	"github.com/switchyard-io/switchyard/pkg/routes"
)

// Handler provides HTTP endpoints for the department catalog.
type Handler struct {
	sys        System
	logger     *slog.Logger
	pagination pagination.Config
}

// NewHandler creates a Handler with the given system, logger, and
// pagination config.
func NewHandler(sys System, logger *slog.Logger, pagination pagination.Config) *Handler {
	return &Handler{
		sys:        sys,
		logger:     logger.With("handler", "departments"),
		pagination: pagination,
	}
}

// Routes returns the route group definition for department endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/departments",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "", Handler: h.List},
			{Method: "GET", Pattern: "/{code}", Handler: h.Find},
			{Method: "GET", Pattern: "/{code}/documents", Handler: h.Documents},
			{Method: "GET", Pattern: "/{code}/digest", Handler: h.Digest},
		},
	}
}

// List returns the full catalog with routed document counts.
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	deps, err := h.sys.List(r.Context())
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, deps)
}

// Find returns a single department by its code path parameter. Codes
// match case-insensitively.
func (h *Handler) Find(w http.ResponseWriter, r *http.Request) {
	dep, err := h.sys.Find(r.Context(), pathCode(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, dep)
}

// Documents returns a paginated list of the documents routed to a
// department.
func (h *Handler) Documents(w http.ResponseWriter, r *http.Request) {
	page := pagination.PageRequestFromQuery(r.URL.Query(), h.pagination)

	result, err := h.sys.Documents(r.Context(), pathCode(r), page)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Digest returns the most recent document summaries routed to a
// department.
func (h *Handler) Digest(w http.ResponseWriter, r *http.Request) {
	digest, err := h.sys.Digest(r.Context(), pathCode(r))
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, digest)
}

func pathCode(r *http.Request) string {
	return strings.ToLower(strings.TrimSpace(r.PathValue("code")))
}
