package translation

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/switchyard-io/switchyard/pkg/handlers"
	"github.com/switchyard-io/switchyard/pkg/routes"
)

// Handler provides the HTTP endpoint for translation.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "translation"),
	}
}

// Routes returns the route group definition for translation endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/translate",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Translate},
		},
	}
}

// Translate converts the submitted text between English and Malayalam.
func (h *Handler) Translate(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	result, err := h.sys.Translate(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}
