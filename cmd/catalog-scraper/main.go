package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/config"
	"github.com/raushankrgupta/catalog-scraper/pipeline"
	"github.com/raushankrgupta/catalog-scraper/scrapers"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()
	log := logger.Sugar()

	if len(os.Args) < 2 {
		usage(log)
		os.Exit(1)
	}
	retailer := strings.ToLower(os.Args[1])

	cfg, err := config.Load("scraper.yaml")
	if err != nil {
		log.Errorw("invalid configuration", "error", err)
		os.Exit(1)
	}

	// Ctrl-C stops pagination; whatever was already flushed stays on disk
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	summary, err := pipeline.Run(ctx, cfg, retailer, log)
	if err != nil {
		log.Errorw("catalog run failed", "retailer", retailer, "error", err)
		os.Exit(1)
	}

	fmt.Printf("%s: %d valid products (%d scraped, %d invalid, %d variants filtered) -> %s\n",
		summary.Retailer, summary.Valid, summary.Scraped, summary.Invalid,
		summary.VariantsFiltered, summary.OutputDir)
}

func usage(log *zap.SugaredLogger) {
	names := scrapers.Names(log, base.NewFetcher(log))
	fmt.Fprintf(os.Stderr, "usage: catalog-scraper <retailer>\n\nretailers:\n")
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s\n", name)
	}
}
