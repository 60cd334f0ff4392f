package api

import (
	"fmt"

	"github.com/switchyard-io/switchyard/internal/ask"
	"github.com/switchyard-io/switchyard/internal/auth"
	"github.com/switchyard-io/switchyard/internal/classify"
	"github.com/switchyard-io/switchyard/internal/departments"
	"github.com/switchyard-io/switchyard/internal/documents"
	"github.com/switchyard-io/switchyard/internal/extraction"
	"github.com/switchyard-io/switchyard/internal/prompts"
	"github.com/switchyard-io/switchyard/internal/sections"
	"github.com/switchyard-io/switchyard/internal/summaries"
	"github.com/switchyard-io/switchyard/internal/translation"
)

// Domain holds all domain systems that comprise the API.
type Domain struct {
	Auth        auth.System
	Documents   documents.System
	Departments departments.System
	Classify    classify.System
	Prompts     prompts.System
	Summaries   summaries.System
	Ask         ask.System
	Translation translation.System
}

// NewDomain creates all domain systems from the API runtime.
func NewDomain(runtime *Runtime) (*Domain, error) {
	db := runtime.Database.Connection()
	logger := runtime.Logger

	authSystem := auth.New(db, runtime.Config.Auth, logger)
	promptsSystem := prompts.New(db, logger, runtime.Pagination)
	sectionsSystem := sections.New(db, logger)

	docsSystem := documents.New(
		db,
		runtime.Storage,
		runtime.Queue,
		runtime.Graph,
		sectionsSystem,
		logger,
		runtime.Pagination,
	)

	departmentsSystem := departments.New(db, docsSystem, logger, runtime.Pagination)

	classifySystem, err := newClassifySystem(runtime)
	if err != nil {
		return nil, err
	}

	summariesSystem := summaries.New(
		db,
		runtime.LLM,
		promptsSystem,
		docsSystem,
		sectionsSystem,
		logger,
	)

	askSystem := ask.New(runtime.LLM, sectionsSystem, promptsSystem, logger)
	translationSystem := translation.New(runtime.LLM, promptsSystem, logger)

	return &Domain{
		Auth:        authSystem,
		Documents:   docsSystem,
		Departments: departmentsSystem,
		Classify:    classifySystem,
		Prompts:     promptsSystem,
		Summaries:   summariesSystem,
		Ask:         askSystem,
		Translation: translationSystem,
	}, nil
}

func newClassifySystem(runtime *Runtime) (classify.System, error) {
	cfg := runtime.Config.Classify

	catalog, err := cfg.Catalog()
	if err != nil {
		return nil, fmt.Errorf("load rule catalog: %w", err)
	}

	var extractor classify.Extractor
	switch cfg.Extractor {
	case classify.ExtractorRemote:
		extractor = extraction.NewRemote(cfg.RemoteURL, nil)
	default:
		extractor = extraction.NewLexical()
	}

	return classify.New(catalog, extractor, cfg.OnExtractorFailure, runtime.Logger), nil
}
