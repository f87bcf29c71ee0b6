package main

import (
	"fmt"

	"github.com/example/copainter/internal/backend"
	"github.com/example/copainter/internal/config"
	"github.com/example/copainter/internal/job"
	"github.com/example/copainter/internal/style"
)

// session bundles the catalog and pipeline shared by draw and generate.
type session struct {
	catalog  *style.Catalog
	pipeline *backend.Pipeline
}

var apiKeyFn = config.APIKey

func (r *root) loadCatalog() (*style.Catalog, error) {
	catalog, err := style.NewLoader(r.stylesPath).Load()
	if err != nil {
		return nil, fmt.Errorf("load styles: %w", err)
	}
	return catalog, nil
}

func (r *root) openAIConfig() backend.OpenAIConfig {
	cfg := backend.DefaultOpenAIConfig()
	cfg.APIKey = apiKeyFn()
	if r.config.OpenAI.Model != "" {
		cfg.Model = r.config.OpenAI.Model
	}
	if r.config.OpenAI.Size != "" {
		cfg.Size = r.config.OpenAI.Size
	}
	if r.config.OpenAI.BaseURL != "" {
		cfg.BaseURL = r.config.OpenAI.BaseURL
	}
	if r.config.Generate.Timeout > 0 {
		cfg.Timeout = r.config.Generate.Timeout
	}
	return cfg
}

func (r *root) params() backend.Params {
	g := r.config.Generate
	return backend.Params{
		Steps:         g.Steps,
		GuidanceScale: g.Guidance,
		ControlScale:  g.Control,
		Seed:          g.Seed,
	}
}

func (r *root) newSession() (*session, error) {
	catalog, err := r.loadCatalog()
	if err != nil {
		return nil, err
	}
	if err := backend.ValidateParams(r.params()); err != nil {
		return nil, err
	}
	engine, err := backend.NewEngine(r.backendName, r.openAIConfig())
	if err != nil {
		return nil, fmt.Errorf("backend %s: %w", r.backendName, err)
	}
	g := r.config.Generate
	pipeline := backend.NewPipeline(engine, catalog,
		backend.WithParams(r.params()),
		backend.WithLogger(r.logger.Named("backend")),
		backend.WithSizes(g.InputSize, g.OutputSize),
		backend.WithInvert(g.Invert),
	)
	if err := pipeline.SetPrompt(g.Prompt, g.NegativePrompt); err != nil {
		return nil, err
	}
	return &session{catalog: catalog, pipeline: pipeline}, nil
}

func (r *root) newOrchestrator(gen job.Generator, post job.Poster) *job.Orchestrator {
	return job.New(gen, post,
		job.WithLogger(r.logger.Named("job")),
		job.WithTimeout(r.config.Generate.Timeout),
	)
}
