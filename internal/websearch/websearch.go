// Package websearch provides the web-search collaborator used for general
// follow-up questions that the trend store cannot answer.
package websearch

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"

	"trendspotter/internal/logging"
)

// Result is one ranked search hit.
type Result struct {
	Title   string
	Snippet string
	URL     string
}

// Searcher returns ranked snippets for a query.
type Searcher interface {
	Search(ctx context.Context, query string) ([]Result, error)
}

// maxResults bounds how many hits a search returns.
const maxResults = 6

// DuckDuckGo searches via the DuckDuckGo HTML endpoint. No API key needed;
// requests are rate-limited to stay polite.
type DuckDuckGo struct {
	endpoint string
	client   *http.Client
	limiter  *rate.Limiter
}

// NewDuckDuckGo creates a DuckDuckGo searcher.
func NewDuckDuckGo() *DuckDuckGo {
	return &DuckDuckGo{
		endpoint: "https://html.duckduckgo.com/html/",
		client:   &http.Client{Timeout: 20 * time.Second},
		limiter:  rate.NewLimiter(rate.Every(2*time.Second), 1),
	}
}

// Search executes a query and returns up to 6 results.
func (d *DuckDuckGo) Search(ctx context.Context, query string) ([]Result, error) {
	if err := d.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("websearch: rate limit wait: %w", err)
	}

	searchURL := d.endpoint + "?q=" + url.QueryEscape(query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, searchURL, nil)
	if err != nil {
		return nil, fmt.Errorf("websearch: create request: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; trendspotter/1.0)")

	resp, err := d.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("websearch: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("websearch: duckduckgo returned status %d", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("websearch: parse results page: %w", err)
	}

	var results []Result
	doc.Find("div.result").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		title := strings.TrimSpace(sel.Find("a.result__a").Text())
		snippet := strings.TrimSpace(sel.Find("a.result__snippet").Text())
		href, _ := sel.Find("a.result__a").Attr("href")

		if title == "" && snippet == "" {
			return true
		}

		results = append(results, Result{
			Title:   title,
			Snippet: snippet,
			URL:     href,
		})
		return len(results) < maxResults
	})

	logging.Debug("web search", "query", query, "results", len(results))
	return results, nil
}

// Snippets joins the text of up to n results into prompt context.
// Returns "" when nothing useful came back.
func Snippets(results []Result, n int) string {
	var parts []string
	for _, r := range results {
		text := r.Snippet
		if text == "" {
			text = r.Title
		}
		if text == "" {
			continue
		}
		parts = append(parts, text)
		if len(parts) == n {
			break
		}
	}
	return strings.Join(parts, "\n")
}
