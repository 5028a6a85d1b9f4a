package source

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/go-shiori/go-readability"
)

// maxBodySize bounds how much HTML is read from an article URL.
const maxBodySize = 10 * 1024 * 1024

// Article is the readable text of a fetched page.
type Article struct {
	URL   string
	Title string
	Text  string
}

// Fetcher downloads and extracts articles.
type Fetcher struct {
	HTTPClient *http.Client
	UserAgent  string
}

// NewFetcher returns a Fetcher with a bounded timeout.
func NewFetcher() *Fetcher {
	return &Fetcher{
		HTTPClient: &http.Client{Timeout: 30 * time.Second},
		UserAgent:  "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	}
}

// Fetch downloads rawURL and extracts its main text.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (Article, error) {
	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return Article{}, fmt.Errorf("parse url: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return Article{}, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", f.UserAgent)
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "ja,en-US;q=0.8,en;q=0.7")

	resp, err := f.HTTPClient.Do(req)
	if err != nil {
		return Article{}, fmt.Errorf("fetch %s: %w", rawURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Article{}, fmt.Errorf("fetch %s: unexpected status %d", rawURL, resp.StatusCode)
	}
	if resp.ContentLength > maxBodySize {
		return Article{}, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	// Read one byte past the limit so an oversized body is detectable.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return Article{}, fmt.Errorf("read body: %w", err)
	}
	if len(body) > maxBodySize {
		return Article{}, fmt.Errorf("response body exceeded maximum size limit of %d bytes", maxBodySize)
	}

	return Extract(body, parsedURL)
}

// Extract strips furigana from html and runs readability over it.
func Extract(html []byte, pageURL *url.URL) (Article, error) {
	cleaned, err := StripRuby(html)
	if err != nil {
		return Article{}, err
	}
	article, err := readability.FromReader(strings.NewReader(cleaned), pageURL)
	if err != nil {
		return Article{}, fmt.Errorf("extract article: %w", err)
	}
	out := Article{Title: article.Title, Text: article.TextContent}
	if pageURL != nil {
		out.URL = pageURL.String()
	}
	return out, nil
}

// StripRuby removes ruby text (<rt>) and ruby parentheses (<rp>). Readability
// keeps all text nodes, so furigana would otherwise be glued onto the kanji
// ("漢字" becomes "漢字かんじ").
func StripRuby(html []byte) (string, error) {
	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(html))
	if err != nil {
		return "", fmt.Errorf("parse html: %w", err)
	}
	doc.Find("rt, rp").Remove()
	return doc.Html()
}
