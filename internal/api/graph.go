package api

import (
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/switchyard-io/switchyard/internal/graph"
	"github.com/switchyard-io/switchyard/pkg/handlers"
	"github.com/switchyard-io/switchyard/pkg/routes"
)

// graphHandler exposes the provenance neighborhood of a document. It
// lives at the API layer because the graph system has no domain package
// surface of its own.
type graphHandler struct {
	graph  graph.System
	logger *slog.Logger
}

func newGraphHandler(sys graph.System, logger *slog.Logger) *graphHandler {
	return &graphHandler{
		graph:  sys,
		logger: logger.With("handler", "graph"),
	}
}

func (h *graphHandler) routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/{id}/graph", Handler: h.neighborhood},
		},
	}
}

func (h *graphHandler) neighborhood(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	view, err := h.graph.Neighborhood(r.Context(), id)
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusInternalServerError, err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, view)
}
