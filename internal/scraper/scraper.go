package scraper

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const (
	DefaultURL       = "https://www.surf-report.com/meteo-surf/moliets-plage-centrale-s102799.html"
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) Edg/140.0.0."
	DefaultTimeout   = 30 * time.Second
)

// Scraper fetches forecast pages
type Scraper struct {
	client    *http.Client
	url       string
	userAgent string
}

// Option configures a Scraper
type Option func(*Scraper)

// WithUserAgent overrides the User-Agent header
func WithUserAgent(ua string) Option {
	return func(s *Scraper) {
		if ua != "" {
			s.userAgent = ua
		}
	}
}

// WithTimeout overrides the HTTP client timeout
func WithTimeout(d time.Duration) Option {
	return func(s *Scraper) {
		if d > 0 {
			s.client.Timeout = d
		}
	}
}

// New creates a new Scraper for url. An empty url means DefaultURL.
func New(url string, opts ...Option) *Scraper {
	if url == "" {
		url = DefaultURL
	}
	s := &Scraper{
		client: &http.Client{
			Timeout: DefaultTimeout,
		},
		url:       url,
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// URL returns the page the scraper fetches
func (s *Scraper) URL() string {
	return s.url
}

// FetchDocument downloads the forecast page and parses it
func (s *Scraper) FetchDocument(ctx context.Context) (*goquery.Document, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetching page: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	return parseDocument(resp.Body)
}

// LoadFile parses a forecast page saved on disk
func LoadFile(path string) (*goquery.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening page: %w", err)
	}
	defer f.Close()

	return parseDocument(f)
}

// parseDocument parses HTML from r
func parseDocument(r io.Reader) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("parsing HTML: %w", err)
	}
	return doc, nil
}
