package main

import (
	"encoding/json"
	"net/http"

	"github.com/switchyard-io/switchyard/internal/api"
	"github.com/switchyard-io/switchyard/internal/config"
	"github.com/switchyard-io/switchyard/internal/infrastructure"
	"github.com/switchyard-io/switchyard/internal/metrics"
	"github.com/switchyard-io/switchyard/pkg/middleware"
	"github.com/switchyard-io/switchyard/pkg/module"
	"github.com/switchyard-io/switchyard/pkg/openapi"
	"github.com/switchyard-io/switchyard/web/scalar"
)

type Modules struct {
	API    *module.Module
	Scalar *module.Module
}

func NewModules(
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
	httpMetrics *metrics.HTTPMetrics,
) (*Modules, error) {
	apiModule, err := api.NewModule(cfg, infra)
	if err != nil {
		return nil, err
	}
	apiModule.Use(httpMetrics.Middleware)

	scalarModule := scalar.NewModule("/scalar")
	scalarModule.Use(middleware.Logger(infra.Logger))

	return &Modules{
		API:    apiModule,
		Scalar: scalarModule,
	}, nil
}

func (m *Modules) Mount(router *module.Router) {
	router.Mount(m.API)
	router.Mount(m.Scalar)
}

func buildRouter(
	infra *infrastructure.Infrastructure,
	cfg *config.Config,
	httpMetrics *metrics.HTTPMetrics,
) (*module.Router, error) {
	router := module.NewRouter()

	router.HandleNative("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	})

	router.HandleNative("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if !infra.Lifecycle.Ready() {
			w.WriteHeader(http.StatusServiceUnavailable)
			json.NewEncoder(w).Encode(map[string]string{"status": "not ready"})
			return
		}
		w.WriteHeader(http.StatusOK)
		json.NewEncoder(w).Encode(map[string]string{"status": "ready"})
	})

	router.HandleNative("GET /metrics", httpMetrics.Handler().ServeHTTP)

	specBytes, err := openapi.MarshalJSON(api.BuildSpec(cfg))
	if err != nil {
		return nil, err
	}
	router.HandleNative("GET /openapi.json", openapi.ServeSpec(specBytes))

	return router, nil
}
