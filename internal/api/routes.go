package api

import (
	"net/http"

	"github.com/switchyard-io/switchyard/internal/auth"
	"github.com/switchyard-io/switchyard/internal/config"
	"github.com/switchyard-io/switchyard/pkg/routes"
)

func registerRoutes(
	mux *http.ServeMux,
	domain *Domain,
	cfg *config.Config,
	runtime *Runtime,
) {
	required := auth.Required(domain.Auth, runtime.Logger)
	optional := auth.Optional(domain.Auth, runtime.Logger)

	summariesHandler := domain.Summaries.Handler()

	storageHandler := newStorageHandler(
		runtime.Storage,
		runtime.Logger,
		int32(runtime.Pagination.MaxPageSize),
	)
	graphHandler := newGraphHandler(runtime.Graph, runtime.Logger)

	routes.Register(
		mux,
		protect(domain.Auth.Handler().Routes(), optional),
		protect(domain.Documents.Handler(cfg.API.MaxUploadSizeBytes()).Routes(), required),
		protect(domain.Departments.Handler().Routes(), required),
		protect(domain.Classify.Handler().Routes(), required),
		protect(domain.Prompts.Handler().Routes(), required),
		protect(summariesHandler.Routes(), required),
		protect(summariesHandler.DocumentRoutes(), required),
		protect(domain.Ask.Handler().Routes(), required),
		protect(domain.Translation.Handler().Routes(), required),
		protect(graphHandler.routes(), required),
		protect(storageHandler.routes(), required),
	)
}

// protect wraps every handler in the group (and its children) with the
// given middleware.
func protect(group routes.Group, mw func(http.Handler) http.Handler) routes.Group {
	wrapped := routes.Group{Prefix: group.Prefix}

	wrapped.Routes = make([]routes.Route, len(group.Routes))
	for i, route := range group.Routes {
		handler := mw(route.Handler)
		wrapped.Routes[i] = routes.Route{
			Method:  route.Method,
			Pattern: route.Pattern,
			Handler: handler.ServeHTTP,
		}
	}

	for _, child := range group.Children {
		wrapped.Children = append(wrapped.Children, protect(child, mw))
	}

	return wrapped
}
