// Package pipeline orchestrates one catalog run end to end: scrape,
// validate, write, then the optional persistence and delivery steps.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/catalog"
	"github.com/raushankrgupta/catalog-scraper/config"
	"github.com/raushankrgupta/catalog-scraper/models"
	"github.com/raushankrgupta/catalog-scraper/notify"
	"github.com/raushankrgupta/catalog-scraper/scrapers"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
	"github.com/raushankrgupta/catalog-scraper/storage"
	"github.com/raushankrgupta/catalog-scraper/transport"
)

// Summary reports what one run produced.
type Summary struct {
	Retailer         string
	Scraped          int
	Valid            int
	Invalid          int
	VariantsFiltered int
	Persisted        int
	OutputDir        string
	Duration         time.Duration
}

// Run executes one retailer's catalog run. Per-page and per-product
// problems were already absorbed inside the scraper; an error returned
// here is a setup or delivery failure and the process should exit non-zero.
func Run(ctx context.Context, cfg *config.Config, retailer string, log *zap.SugaredLogger) (*Summary, error) {
	start := time.Now()

	fetcher := base.NewFetcher(log)
	if cfg.ChromeDriverPath != "" {
		fetcher.WithSelenium(cfg.ChromeDriverPath)
	}
	if cfg.SessionCookies != "" {
		fetcher.WithCookies(cfg.SessionCookies)
	}

	scraper, err := scrapers.Get(retailer, log, fetcher)
	if err != nil {
		return nil, err
	}

	tuning := cfg.Retailer(scraper.Retailer())
	store := tunedStore(scraper.Store(), tuning)
	opts := scrapers.Options{
		MaxProducts: tuning.MaxProducts,
		PageSize:    tuning.PageSize,
		Delay:       tuning.Delay(),
		Jitter:      tuning.JitterMax(),
		Retry:       retryPolicy(tuning.Retry),
	}
	if scraper.Retailer() == "partstown" {
		// The output catalog doubles as resume state for the long crawl
		opts.CheckpointPath = filepath.Join(catalog.OutputDir(cfg.OutputDir, store), "catalog.json")
	}

	log.Infow("starting catalog run", "retailer", scraper.Retailer(), "store", store.Name)

	products, err := scraper.ScrapeCatalog(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("scrape failed: %w", err)
	}

	validation := catalog.FilterValidProducts(products)
	log.Infow("catalog validated",
		"total", validation.TotalCount,
		"valid", validation.ValidCount,
		"invalid", validation.InvalidCount,
		"variants_filtered", validation.TotalVariantsFiltered,
	)

	writer := catalog.NewWriter(cfg.OutputDir, log)
	written, err := writer.Write(store, validation.ValidProducts)
	if err != nil {
		return nil, err
	}
	artifacts := []string{written.JSONPath, written.JSONLPath, written.GzipPath}

	summary := &Summary{
		Retailer:         scraper.Retailer(),
		Scraped:          validation.TotalCount,
		Valid:            validation.ValidCount,
		Invalid:          validation.InvalidCount,
		VariantsFiltered: validation.TotalVariantsFiltered,
		OutputDir:        written.Dir,
	}

	if cfg.MongoURI != "" {
		db, err := storage.Connect(ctx, cfg.MongoURI, cfg.MongoDatabase, log)
		if err != nil {
			return nil, err
		}
		defer db.Close(context.Background())

		if err := db.SaveStore(ctx, store); err != nil {
			return nil, err
		}
		summary.Persisted = db.SaveProducts(ctx, validation.ValidProducts)
	}

	if cfg.SFTP.Enabled() {
		uploader := transport.NewSFTPUploader(cfg.SFTP, log)
		if err := uploader.UploadStoreCatalog(store, artifacts); err != nil {
			return nil, fmt.Errorf("sftp upload failed: %w", err)
		}
	}

	if cfg.AWSBucket != "" {
		sink, err := transport.NewS3Sink(ctx, cfg.AWSRegion, cfg.AWSBucket, log)
		if err != nil {
			return nil, err
		}
		if err := sink.UploadArtifacts(ctx, store, artifacts); err != nil {
			return nil, fmt.Errorf("s3 archive failed: %w", err)
		}
	}

	summary.Duration = time.Since(start)

	if cfg.SendGridAPIKey != "" && cfg.ReportToEmail != "" {
		mailer := notify.NewMailer(cfg.SendGridAPIKey, cfg.ReportFromEmail, cfg.ReportToEmail, log)
		report := notify.RunReport{
			Retailer:         summary.Retailer,
			Scraped:          summary.Scraped,
			Valid:            summary.Valid,
			Invalid:          summary.Invalid,
			VariantsFiltered: summary.VariantsFiltered,
			Persisted:        summary.Persisted,
			Duration:         summary.Duration,
			OutputDir:        summary.OutputDir,
		}
		// The catalog is already on disk and delivered; a failed email
		// should not fail the run
		if err := mailer.SendRunReport(report); err != nil {
			log.Warnw("run report not sent", "error", err)
		}
	}

	log.Infow("catalog run finished",
		"retailer", summary.Retailer,
		"valid_products", summary.Valid,
		"duration", summary.Duration.Round(time.Second),
		"output", summary.OutputDir,
	)

	return summary, nil
}

// tunedStore applies per-retailer overrides to the scraper's store
// identity. The country drives the output layout, the remote mirrors and
// the catalog header, so it must be overridden in one place.
func tunedStore(store models.StoreInfo, tuning config.RetailerConfig) models.StoreInfo {
	if tuning.Country != "" {
		store.Country = tuning.Country
	}
	return store
}

// retryPolicy translates a retailer's retry tuning into the shared fetch
// policy. An empty block yields a zero policy, which scrapers treat as
// "keep the default".
func retryPolicy(rc config.RetryConfig) base.RetryPolicy {
	if rc == (config.RetryConfig{}) {
		return base.RetryPolicy{}
	}
	return base.RetryPolicy{
		MaxAttempts:       rc.MaxAttempts,
		InitialDelay:      time.Duration(rc.InitialDelayMs) * time.Millisecond,
		MaxDelay:          time.Duration(rc.MaxDelayMs) * time.Millisecond,
		BackoffMultiplier: rc.BackoffMultiplier,
	}
}
