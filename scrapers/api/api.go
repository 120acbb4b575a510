// Package api holds the scraper contract shared by the retailer
// packages and the factory registry in package scrapers.
package api

import (
	"context"
	"time"

	"github.com/raushankrgupta/catalog-scraper/models"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
)

// Options tunes one catalog run. Zero values mean "no cap" and "no delay";
// production runs load these from the retailer config file.
type Options struct {
	// MaxProducts stops pagination once this many products accumulated.
	MaxProducts int
	// PageSize is the requested page length where the API supports it.
	PageSize int
	// Delay and Jitter set the courtesy pause between page/detail fetches.
	Delay  time.Duration
	Jitter time.Duration
	// Retry overrides the shared fetch retry policy when MaxAttempts > 0.
	Retry base.RetryPolicy
	// CheckpointPath points at an existing catalog.json used as resume
	// state. Only honored by scrapers that support checkpointing.
	CheckpointPath string
}

// CatalogScraper is implemented once per retailer.
type CatalogScraper interface {
	// Retailer returns the name used to select this scraper on the CLI.
	Retailer() string
	// Store identifies the retailer for catalog output and persistence.
	Store() models.StoreInfo
	// ScrapeCatalog paginates the retailer source and returns canonical
	// products. A mid-pagination fetch error is not fatal: the products
	// accumulated so far are returned with a nil error. Only a failure to
	// reach the source at all is returned as an error.
	ScrapeCatalog(ctx context.Context, opts Options) ([]models.Product, error)
}
