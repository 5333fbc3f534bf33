package wikicfp

import (
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"

	"cfpscout/internal/observability/metrics"
	"cfpscout/internal/resilience/circuitbreaker"
	"cfpscout/internal/resilience/retry"
	"cfpscout/internal/usecase/match"
)

const (
	// maxBodySize caps response bodies to prevent memory exhaustion.
	maxBodySize = 10 * 1024 * 1024 // 10MB

	// detailLinkMarker identifies announcement detail links on a result page.
	detailLinkMarker = "event.showcfp"
)

// Client fetches search result pages from the directory site and yields one
// fragment per announcement. Pagination is lazy: the next result page is
// requested only as the consumer drains the current one.
type Client struct {
	httpClient     *http.Client
	config         Config
	limiter        *rate.Limiter
	circuitBreaker *circuitbreaker.CircuitBreaker
	retryConfig    retry.Config
}

// NewClient creates a new directory client with the given HTTP client and
// configuration. It automatically configures rate limiting, circuit breaker,
// and retry logic.
func NewClient(httpClient *http.Client, config Config) *Client {
	return &Client{
		httpClient:     httpClient,
		config:         config,
		limiter:        rate.NewLimiter(rate.Limit(config.RequestsPerSecond), 1),
		circuitBreaker: circuitbreaker.New(circuitbreaker.DirectoryFetchConfig()),
		retryConfig:    retry.DirectoryFetchConfig(),
	}
}

// Search returns a lazy sequence of announcement fragments for the keyword.
//
// The sequence terminates when a fetched result page contains zero detail
// links - the sole termination signal - or when the MaxPages cap is reached.
// A result-page fetch failure is terminal: it is yielded as the error element
// and ends the sequence. A detail-page fetch failure only skips that single
// announcement; the sequence continues.
//
// The sequence is restartable only by calling Search again.
func (c *Client) Search(ctx context.Context, keyword string) iter.Seq2[match.Fragment, error] {
	return func(yield func(match.Fragment, error) bool) {
		for page := 1; c.config.MaxPages == 0 || page <= c.config.MaxPages; page++ {
			detailURLs, err := c.fetchResultPage(ctx, keyword, page)
			if err != nil {
				metrics.RecordDirectoryFetchError("result_page")
				yield(match.Fragment{}, fmt.Errorf("fetch result page %d: %w", page, err))
				return
			}

			// Zero extractable fragments on a fetched page ends the pass.
			if len(detailURLs) == 0 {
				slog.Debug("result page empty, search exhausted",
					slog.String("keyword", keyword),
					slog.Int("page", page))
				return
			}

			slog.Info("result page fetched",
				slog.String("keyword", keyword),
				slog.Int("page", page),
				slog.Int("announcements", len(detailURLs)))

			for _, detailURL := range detailURLs {
				html, err := c.fetchBody(ctx, detailURL)
				if err != nil {
					// Cancellation aborts the whole sequence.
					if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
						yield(match.Fragment{}, err)
						return
					}

					metrics.RecordDirectoryFetchError("detail_page")
					slog.Warn("failed to fetch announcement page, skipping",
						slog.String("url", detailURL),
						slog.Any("error", err))
					continue
				}

				if !yield(match.Fragment{URL: detailURL, HTML: html}, nil) {
					return
				}
			}
		}

		slog.Warn("page cap reached before search exhausted",
			slog.String("keyword", keyword),
			slog.Int("max_pages", c.config.MaxPages))
	}
}

// fetchResultPage retrieves one search result page and extracts the detail
// URLs it lists, wrapped with retry and circuit breaker.
func (c *Client) fetchResultPage(ctx context.Context, keyword string, page int) ([]string, error) {
	var detailURLs []string

	retryErr := retry.WithBackoff(ctx, c.retryConfig, func() error {
		cbResult, err := c.circuitBreaker.Execute(func() (interface{}, error) {
			return c.doFetchResultPage(ctx, keyword, page)
		})

		if err != nil {
			if errors.Is(err, gobreaker.ErrOpenState) {
				slog.Warn("directory fetch circuit breaker open, request rejected",
					slog.String("service", "directory-fetch"),
					slog.String("state", c.circuitBreaker.State().String()))
				return fmt.Errorf("directory site unavailable: circuit breaker open")
			}
			return err
		}

		detailURLs = cbResult.([]string)
		return nil
	})

	if retryErr != nil {
		return nil, retryErr
	}

	return detailURLs, nil
}

// doFetchResultPage performs the actual result page fetch without retry or
// circuit breaker.
func (c *Client) doFetchResultPage(ctx context.Context, keyword string, page int) ([]string, error) {
	searchURL := fmt.Sprintf("%s/cfp/call?conference=%s&page=%d",
		c.config.BaseURL, url.QueryEscape(keyword), page)

	doc, err := c.fetchHTMLDocument(ctx, searchURL)
	if err != nil {
		return nil, err
	}
	metrics.RecordResultPageFetched()

	return c.extractDetailURLs(doc), nil
}

// extractDetailURLs collects announcement detail links from a result page,
// resolved against the base URL and deduplicated within the page.
func (c *Client) extractDetailURLs(doc *goquery.Document) []string {
	seen := make(map[string]bool)
	var detailURLs []string

	doc.Find("a[href]").Each(func(_ int, link *goquery.Selection) {
		href, _ := link.Attr("href")
		if !strings.Contains(href, detailLinkMarker) {
			return
		}

		absolute := c.makeAbsoluteURL(href)
		if absolute == "" || seen[absolute] {
			return
		}
		seen[absolute] = true
		detailURLs = append(detailURLs, absolute)
	})

	return detailURLs
}

// fetchHTMLDocument fetches a URL and parses the response as an HTML document.
func (c *Client) fetchHTMLDocument(ctx context.Context, urlStr string) (*goquery.Document, error) {
	body, err := c.fetchBody(ctx, urlStr)
	if err != nil {
		return nil, err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("parse HTML: %w", err)
	}

	return doc, nil
}

// fetchBody performs one rate-limited GET and returns the response body.
func (c *Client) fetchBody(ctx context.Context, urlStr string) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("rate limiter: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, urlStr, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", c.config.UserAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("HTTP request failed: %w", err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", &retry.HTTPError{
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("unexpected status: %s", resp.Status),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return "", fmt.Errorf("read body: %w", err)
	}

	return string(body), nil
}

// makeAbsoluteURL resolves an href from a result page against the base URL.
// Returns "" for hrefs that cannot be parsed.
func (c *Client) makeAbsoluteURL(href string) string {
	base, err := url.Parse(c.config.BaseURL)
	if err != nil {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	return base.ResolveReference(ref).String()
}
