package main

import (
	"fmt"
	"log"
	"os"

	"trendspotter/internal/agent"
	"trendspotter/internal/config"
	"trendspotter/internal/embed"
	"trendspotter/internal/oracle"
	"trendspotter/internal/store"
	"trendspotter/internal/websearch"
)

// loadConfig loads config or fatals.
func loadConfig() *config.Config {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}
	return cfg
}

// openDB opens the store or fatals.
func openDB(cfg *config.Config) *store.Store {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("failed to open database: %v", err)
	}
	return st
}

// buildOracle assembles the provider manager from config.
func buildOracle(cfg *config.Config) *oracle.Manager {
	m := oracle.NewManager()
	if cfg.Oracle.Gemini.APIKey != "" {
		m.AddProvider(oracle.NewGeminiProvider(cfg.Oracle.Gemini.APIKey, cfg.Oracle.Gemini.Model))
	}
	if cfg.Oracle.Ollama.Enabled {
		m.AddProvider(oracle.NewOllamaProvider(cfg.Oracle.Ollama.Endpoint, cfg.Oracle.Ollama.Model))
	}
	m.SetPreferred(cfg.Oracle.Preferred)
	return m
}

// buildEmbedder picks an embedder matching the configured oracle.
func buildEmbedder(cfg *config.Config) embed.Embedder {
	if cfg.Oracle.Gemini.APIKey != "" {
		return embed.NewGeminiEmbedder(cfg.Oracle.Gemini.APIKey, cfg.Oracle.Gemini.EmbedModel)
	}
	if cfg.Oracle.Ollama.Enabled {
		return embed.NewOllamaEmbedder(cfg.Oracle.Ollama.Endpoint, cfg.Oracle.Ollama.EmbedModel)
	}
	return nil
}

// requireOracle exits with guidance when no provider is configured.
func requireOracle(m *oracle.Manager, embedder embed.Embedder) {
	if m.Available() && embedder != nil {
		return
	}
	fmt.Fprintln(os.Stderr, "error: no language oracle configured")
	fmt.Fprintln(os.Stderr, "  export GEMINI_API_KEY=... or set OLLAMA_HOST for a local model")
	os.Exit(1)
}

// buildOrchestrator wires the full agent stack over the store.
func buildOrchestrator(cfg *config.Config, st *store.Store, m *oracle.Manager, embedder embed.Embedder) *agent.Orchestrator {
	pipeline := agent.NewTrendPipeline(
		agent.NewClarifier(m),
		embedder,
		agent.NewRelevanceFilter(st, m, cfg.Pipeline.Collection, cfg.Pipeline.SimilarityThreshold),
		agent.NewDeduplicator(m),
		agent.NewComposer(m, cfg.Pipeline.AnswerMaxWords),
	)
	return agent.NewOrchestrator(
		m,
		pipeline,
		agent.NewPopularityComposer(m),
		agent.NewGeneralAgent(m, websearch.NewDuckDuckGo()),
		st,
	)
}
