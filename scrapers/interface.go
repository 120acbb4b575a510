package scrapers

import (
	"github.com/raushankrgupta/catalog-scraper/scrapers/api"
)

// Options tunes one catalog run. It lives in the leaf package
// scrapers/api so retailer packages can import it without a cycle back
// into the factory registry; the alias keeps the public name stable.
type Options = api.Options

// CatalogScraper is implemented once per retailer.
type CatalogScraper = api.CatalogScraper
