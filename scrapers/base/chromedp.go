package base

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/chromedp/cdproto/network"
	"github.com/chromedp/chromedp"
)

// fetchChromeDP renders the URL in headless Chrome and returns the settled
// DOM. Retailers that build their listings client-side (infinite-scroll
// grids, hydrated JSON) only yield products through this path.
func (f *Fetcher) fetchChromeDP(ctx context.Context, url string) (*goquery.Document, error) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	opts := append(chromedp.DefaultExecAllocatorOptions[:],
		chromedp.Flag("headless", "new"),
		chromedp.UserAgent(browserUserAgent),
	)

	allocCtx, cancel := chromedp.NewExecAllocator(ctx, opts...)
	defer cancel()

	taskCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	headers := map[string]interface{}{
		"Accept":                    "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,*/*;q=0.8",
		"Accept-Language":           "en-US,en;q=0.9",
		"Connection":                "keep-alive",
		"Upgrade-Insecure-Requests": "1",
		"Sec-Fetch-Dest":            "document",
		"Sec-Fetch-Mode":            "navigate",
		"Sec-Fetch-Site":            "none",
		"Sec-Fetch-User":            "?1",
	}
	if f.cookies != "" {
		headers["Cookie"] = f.cookies
	}

	if err := chromedp.Run(taskCtx, network.SetExtraHTTPHeaders(network.Headers(headers))); err != nil {
		return nil, fmt.Errorf("chromedp header error: %w", err)
	}

	var htmlContent string
	err := chromedp.Run(taskCtx,
		chromedp.Navigate(url),
		chromedp.WaitReady("body", chromedp.ByQuery),
		// Let lazy product grids hydrate; randomized so fetches don't
		// land on a fixed cadence
		chromedp.Sleep(3*time.Second+Jitter(4*time.Second)),
		chromedp.OuterHTML("html", &htmlContent),
	)
	if err != nil {
		return nil, fmt.Errorf("chromedp navigation error: %w", err)
	}

	return goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
}
