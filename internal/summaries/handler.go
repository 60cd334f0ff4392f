package summaries

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/documents"
	"github.com/switchyard-io/switchyard/pkg/handlers"
	"github.com/switchyard-io/switchyard/pkg/routes"
)

// Handler provides HTTP endpoints for summary operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "summaries"),
	}
}

// Routes returns the route group for the batch endpoint.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/summaries",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "/batch", Handler: h.Batch},
		},
	}
}

// DocumentRoutes returns the per-document summary endpoints, mounted
// alongside the documents routes.
func (h *Handler) DocumentRoutes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/summary", Handler: h.ForDocument},
			{Method: "POST", Pattern: "/{id}/summary", Handler: h.Regenerate},
		},
	}
}

// ForDocument returns the stored summary for a document.
func (h *Handler) ForDocument(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	summary, err := h.sys.ForDocument(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, h.status(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Regenerate rebuilds a document's summary from its stored sections.
func (h *Handler) Regenerate(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	summary, err := h.sys.Regenerate(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, h.status(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, summary)
}

// Batch regenerates summaries for up to ten documents.
func (h *Handler) Batch(w http.ResponseWriter, r *http.Request) {
	var req BatchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	entries, err := h.sys.Batch(r.Context(), req.DocumentIDs)
	if err != nil {
		handlers.RespondError(w, h.logger, h.status(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"results": entries})
}

// status widens MapHTTPStatus with the document sentinels surfaced by
// regeneration.
func (h *Handler) status(err error) int {
	if errors.Is(err, documents.ErrNotFound) {
		return http.StatusNotFound
	}
	return MapHTTPStatus(err)
}
