package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"trendspotter/internal/logging"
	"trendspotter/internal/server"
	"trendspotter/internal/session"
)

func runServe() {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	host := fs.String("host", "", "Bind address (overrides config)")
	port := fs.Int("port", 0, "Port (overrides config)")
	fs.Parse(os.Args[1:])

	if err := logging.Init(); err != nil {
		log.Printf("logging init failed: %v", err)
	}
	defer logging.Close()

	cfg := loadConfig()
	if *host != "" {
		cfg.Server.Host = *host
	}
	if *port != 0 {
		cfg.Server.Port = *port
	}

	m := buildOracle(cfg)
	embedder := buildEmbedder(cfg)
	requireOracle(m, embedder)

	st := openDB(cfg)
	defer st.Close()

	orch := buildOrchestrator(cfg, st, m, embedder)
	sessions := session.NewManager()
	srv := server.NewServer(cfg.Server, orch, sessions)

	// Setup signal handling for graceful shutdown
	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

	errs := make(chan error, 1)
	go func() {
		logging.Info("http server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)
		log.Printf("Listening on %s:%d", cfg.Server.Host, cfg.Server.Port)
		errs <- srv.ListenAndServe()
	}()

	select {
	case err := <-errs:
		log.Fatalf("server error: %v", err)
	case sig := <-shutdown:
		logging.Info("shutdown signal received", "signal", sig.String())
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Printf("shutdown error: %v", err)
	}
	logging.Info("shutdown complete")
}
