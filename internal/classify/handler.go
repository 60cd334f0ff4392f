package classify

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/switchyard-io/switchyard/pkg/handlers"
	"github.com/switchyard-io/switchyard/pkg/routes"
)

// Handler provides HTTP endpoints for classification operations.
type Handler struct {
	sys    System
	logger *slog.Logger
}

// NewHandler creates a Handler with the given system and logger.
func NewHandler(sys System, logger *slog.Logger) *Handler {
	return &Handler{
		sys:    sys,
		logger: logger.With("handler", "classify"),
	}
}

// PreviewRequest carries ad hoc text to classify without persisting anything.
type PreviewRequest struct {
	Text string `json:"text"`
}

// Routes returns the route group definition for classification endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/classify",
		Routes: []routes.Route{
			{Method: "GET", Pattern: "/rules", Handler: h.Rules},
			{Method: "POST", Pattern: "/preview", Handler: h.Preview},
		},
	}
}

// Preview classifies the text in the request body and returns the full
// result, including per-department scores and reasons.
func (h *Handler) Preview(w http.ResponseWriter, r *http.Request) {
	var req PreviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, err)
		return
	}

	if strings.TrimSpace(req.Text) == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrEmptyText)
		return
	}

	result, err := h.sys.Preview(r.Context(), req.Text)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

// Rules returns the active rule catalog.
func (h *Handler) Rules(w http.ResponseWriter, r *http.Request) {
	handlers.RespondJSON(w, http.StatusOK, h.sys.Catalog())
}
