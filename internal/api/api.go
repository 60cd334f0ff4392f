// Package api assembles the API module with all domain systems and route registration.
package api

import (
	"net/http"

	"github.com/switchyard-io/switchyard/internal/config"
	"github.com/switchyard-io/switchyard/internal/infrastructure"
	"github.com/switchyard-io/switchyard/pkg/middleware"
	"github.com/switchyard-io/switchyard/pkg/module"
)

// NewModule creates the API module with all domain handlers and middleware.
func NewModule(cfg *config.Config, infra *infrastructure.Infrastructure) (*module.Module, error) {
	runtime, err := NewRuntime(cfg, infra)
	if err != nil {
		return nil, err
	}

	domain, err := NewDomain(runtime)
	if err != nil {
		return nil, err
	}

	mux := http.NewServeMux()
	registerRoutes(mux, domain, cfg, runtime)

	m := module.New(cfg.API.BasePath, mux)
	m.Use(middleware.CORS(&cfg.API.CORS))
	m.Use(middleware.Logger(runtime.Logger))

	return m, nil
}
