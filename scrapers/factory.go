package scrapers

import (
	"fmt"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/raushankrgupta/catalog-scraper/scrapers/abercrombie"
	"github.com/raushankrgupta/catalog-scraper/scrapers/base"
	"github.com/raushankrgupta/catalog-scraper/scrapers/hm"
	"github.com/raushankrgupta/catalog-scraper/scrapers/macys"
	"github.com/raushankrgupta/catalog-scraper/scrapers/nike"
	"github.com/raushankrgupta/catalog-scraper/scrapers/partstown"
	"github.com/raushankrgupta/catalog-scraper/scrapers/zara"
)

func registry(log *zap.SugaredLogger, fetcher *base.Fetcher) []CatalogScraper {
	// Register scrapers here
	return []CatalogScraper{
		abercrombie.New(log),
		hm.New(log),
		nike.New(log),
		zara.New(log),
		macys.New(log, fetcher),
		partstown.New(log),
	}
}

// Get returns the scraper registered under the given retailer name.
func Get(name string, log *zap.SugaredLogger, fetcher *base.Fetcher) (CatalogScraper, error) {
	for _, s := range registry(log, fetcher) {
		if strings.EqualFold(s.Retailer(), name) {
			return s, nil
		}
	}
	return nil, fmt.Errorf("no scraper registered for retailer: %s", name)
}

// Names lists the registered retailer names, for CLI usage output.
func Names(log *zap.SugaredLogger, fetcher *base.Fetcher) []string {
	var names []string
	for _, s := range registry(log, fetcher) {
		names = append(names, s.Retailer())
	}
	sort.Strings(names)
	return names
}
