package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"trendspotter/internal/embed"
	"trendspotter/internal/ingest"
	"trendspotter/internal/logging"
	"trendspotter/internal/oracle"
)

func runIngest() {
	fs := flag.NewFlagSet("ingest", flag.ExitOnError)
	collection := fs.String("collection", "", "Target collection (default from config)")
	keywords := fs.Bool("keywords", false, "Extract keywords with the oracle for rows without any")
	fs.Parse(os.Args[1:])

	if fs.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: trendspotter ingest [--collection name] [--keywords] <file.csv>")
		os.Exit(1)
	}
	path := fs.Arg(0)

	if err := logging.Init(); err != nil {
		log.Printf("logging init failed: %v", err)
	}
	defer logging.Close()

	cfg := loadConfig()
	if *collection == "" {
		*collection = cfg.Pipeline.Collection
	}

	m := buildOracle(cfg)
	embedder := buildEmbedder(cfg)
	requireOracle(m, embedder)

	st := openDB(cfg)
	defer st.Close()

	f, err := os.Open(path)
	if err != nil {
		log.Fatalf("open %s: %v", path, err)
	}
	defer f.Close()

	limited := embed.NewRateLimited(embedder, cfg.Ingest.RequestsPerMinute)

	var keywordOracle oracle.Provider
	if *keywords {
		keywordOracle = m
	}
	in := ingest.NewIngestor(st, limited, keywordOracle, *collection, cfg.Ingest.BatchSize)

	summary, err := in.Run(context.Background(), f)
	if err != nil {
		log.Fatalf("ingest: %v", err)
	}

	fmt.Printf("Loaded %d rows, saved %d new records into %q\n",
		summary.Loaded, summary.Saved, *collection)
}
