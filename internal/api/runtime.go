package api

import (
	"fmt"

	"github.com/switchyard-io/switchyard/internal/config"
	"github.com/switchyard-io/switchyard/internal/infrastructure"
	"github.com/switchyard-io/switchyard/internal/llm"
	"github.com/switchyard-io/switchyard/pkg/pagination"
)

// Runtime extends Infrastructure with the API-specific collaborators:
// the language model client and pagination defaults.
type Runtime struct {
	*infrastructure.Infrastructure
	Config     *config.Config
	LLM        llm.System
	Pagination pagination.Config
}

// NewRuntime creates an API runtime with a module-scoped logger.
func NewRuntime(cfg *config.Config, infra *infrastructure.Infrastructure) (*Runtime, error) {
	logger := infra.Logger.With("module", "api")

	model, err := llm.New(cfg.LLM, logger)
	if err != nil {
		return nil, fmt.Errorf("llm init failed: %w", err)
	}

	return &Runtime{
		Infrastructure: &infrastructure.Infrastructure{
			Lifecycle: infra.Lifecycle,
			Logger:    logger,
			Database:  infra.Database,
			Storage:   infra.Storage,
			Queue:     infra.Queue,
			Graph:     infra.Graph,
		},
		Config:     cfg,
		LLM:        model,
		Pagination: cfg.API.Pagination,
	}, nil
}
