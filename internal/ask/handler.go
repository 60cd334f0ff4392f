package ask

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/switchyard-io/switchyard/pkg/handlers"
	"github.com/switchyard-io/switchyard/pkg/routes"
)

// Handler provides the HTTP endpoint for question answering.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "ask"),
	}
}

// Routes returns the route group definition for ask endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/ask",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Ask},
		},
	}
}

// Ask answers a question grounded in the indexed document sections.
func (h *Handler) Ask(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	answer, err := h.sys.Ask(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, answer)
}
