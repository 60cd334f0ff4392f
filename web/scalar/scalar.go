// Package scalar serves the Scalar API reference UI over the embedded
// OpenAPI document.
package scalar

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/switchyard-io/switchyard/pkg/module"
	"github.com/switchyard-io/switchyard/pkg/web"
)

//go:embed static
var staticFS embed.FS

// NewModule creates a module that serves the Scalar API reference UI at basePath.
func NewModule(basePath string) *module.Module {
	return module.New(basePath, buildRouter(basePath))
}

func buildRouter(basePath string) http.Handler {
	router := web.NewRouter()

	tmpl := template.Must(template.ParseFS(staticFS, "static/index.html"))
	router.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		tmpl.Execute(w, web.ViewData{Title: "API Reference", BasePath: basePath})
	})

	for _, rt := range web.PublicFileRoutes(staticFS, "static", "scalar.css", "scalar.js") {
		router.HandleFunc(rt.Method+" "+rt.Pattern, rt.Handler)
	}

	return router
}
