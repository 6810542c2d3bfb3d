package main

import (
	"fmt"
	"log/slog"

	"github.com/chris/rednote/config"
	"github.com/chris/rednote/internal/agent"
	"github.com/chris/rednote/internal/db"
	"github.com/chris/rednote/internal/llm"
	"github.com/chris/rednote/internal/tool"
	"github.com/chris/rednote/internal/tool/builtin"
)

// openStore opens the database and makes sure the catalog is not empty.
func openStore(cfg *config.Config) (*db.DB, error) {
	database, err := db.Open(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	n, err := database.SeedDefaultProducts()
	if err != nil {
		database.Close()
		return nil, fmt.Errorf("seeding products: %w", err)
	}
	if n > 0 {
		slog.Debug("seeded product catalog", "count", n)
	}
	return database, nil
}

// newGenerator wires the model client, the tools and the agent.
func newGenerator(cfg *config.Config, database *db.DB) (*agent.Generator, error) {
	client, err := llm.NewClient(llm.ProviderConfig{
		Provider: cfg.LLMProvider,
		APIKey:   cfg.APIKey(),
		Model:    cfg.LLMModel,
		BaseURL:  cfg.LLMBaseURL,
	})
	if err != nil {
		return nil, fmt.Errorf("creating LLM client: %w", err)
	}

	registry := tool.NewRegistry()
	if err := builtin.Register(registry, builtin.Options{
		Products:        database,
		SimulateLatency: cfg.SimulateLatency,
	}); err != nil {
		return nil, fmt.Errorf("registering tools: %w", err)
	}

	ag := agent.New(client, registry, agent.Options{
		MaxIterations: cfg.MaxIterations,
		CallTimeout:   cfg.ModelTimeout,
		Logger:        slog.Default(),
	})
	return &agent.Generator{Agent: ag, Store: database, DefaultStyle: cfg.DefaultStyle}, nil
}
