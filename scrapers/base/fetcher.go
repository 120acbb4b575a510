package base

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"
)

// Fetcher retrieves rendered retailer pages as goquery documents. It tries
// plain HTTP first, then escalates to a headless browser and finally a
// full WebDriver session for sources behind anti-bot challenges.
type Fetcher struct {
	client         *http.Client
	log            *zap.SugaredLogger
	enableSelenium bool
	driverPath     string
	cookies        string
}

// NewFetcher creates a document fetcher. Selenium escalation stays off
// unless a chromedriver path is configured.
func NewFetcher(log *zap.SugaredLogger) *Fetcher {
	return &Fetcher{
		client: &http.Client{
			Timeout: 30 * time.Second,
			Transport: &http.Transport{
				ForceAttemptHTTP2:     false,
				TLSNextProto:          make(map[string]func(string, *tls.Conn) http.RoundTripper),
				MaxIdleConns:          100,
				IdleConnTimeout:       90 * time.Second,
				TLSHandshakeTimeout:   10 * time.Second,
				ExpectContinueTimeout: 1 * time.Second,
			},
		},
		log: log,
	}
}

// WithSelenium enables the WebDriver fallback using the given chromedriver.
func (f *Fetcher) WithSelenium(driverPath string) *Fetcher {
	f.enableSelenium = true
	f.driverPath = driverPath
	return f
}

// WithCookies attaches a raw Cookie header, for retailers that require a
// regular browsing session (region selection, currency, consent).
func (f *Fetcher) WithCookies(cookies string) *Fetcher {
	f.cookies = cookies
	return f
}

// FetchDocument fetches url using multiple strategies. The validator
// decides whether a strategy actually produced usable content, since
// blocked requests often come back 200 with a challenge page.
func (f *Fetcher) FetchDocument(ctx context.Context, url string, validator func(*goquery.Document) bool) (*goquery.Document, error) {
	// Strategy 1: plain HTTP (fastest)
	doc, err := f.fetchHTTP(ctx, url)
	if err == nil {
		if validator(doc) {
			f.log.Debugw("http fetch succeeded", "url", url)
			return doc, nil
		}
		f.log.Debugw("http fetch returned invalid content, escalating", "url", url)
	} else {
		f.log.Debugw("http fetch failed", "url", url, "error", err)
	}

	// Strategy 2: headless browser
	doc, err = f.fetchChromeDP(ctx, url)
	if err == nil && validator(doc) {
		f.log.Debugw("chromedp fetch succeeded", "url", url)
		return doc, nil
	}
	if err != nil {
		f.log.Debugw("chromedp fetch failed", "url", url, "error", err)
	}

	// Strategy 3: full browser via WebDriver
	if f.enableSelenium {
		doc, err = f.fetchSelenium(url)
		if err == nil && validator(doc) {
			f.log.Debugw("selenium fetch succeeded", "url", url)
			return doc, nil
		}
		if err != nil {
			f.log.Debugw("selenium fetch failed", "url", url, "error", err)
		}
	}

	return nil, fmt.Errorf("all fetch strategies failed for %s", url)
}

// IsValidDocument is the default content validator: rejects challenge
// pages and near-empty bodies.
func IsValidDocument(doc *goquery.Document) bool {
	title := strings.ToLower(strings.TrimSpace(doc.Find("title").Text()))
	if strings.Contains(title, "robot check") ||
		strings.Contains(title, "captcha") ||
		strings.Contains(title, "access denied") {
		return false
	}

	body := strings.TrimSpace(doc.Find("body").Text())
	return len(body) > 200
}

func (f *Fetcher) fetchHTTP(ctx context.Context, url string) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	// Mimic a real browser session
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.9")
	req.Header.Set("Upgrade-Insecure-Requests", "1")
	req.Header.Set("Sec-Fetch-Dest", "document")
	req.Header.Set("Sec-Fetch-Mode", "navigate")
	req.Header.Set("Sec-Fetch-Site", "none")
	req.Header.Set("Sec-Fetch-User", "?1")
	if f.cookies != "" {
		req.Header.Set("Cookie", f.cookies)
	}

	res, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("status code error: %d %s", res.StatusCode, res.Status)
	}

	return goquery.NewDocumentFromReader(res.Body)
}
